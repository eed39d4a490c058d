package job

import (
	"context"
)

// JobRepository defines data access methods for job records.
type JobRepository interface {
	// GetByID retrieves a job by ID
	GetByID(ctx context.Context, id string) (Job, error)

	// List retrieves jobs with filters and pagination
	List(ctx context.Context, filter ListJobsFilter) ([]Job, int64, error)

	// UpdateFields applies a sparse patch and bumps the version. When
	// expectedVersion is non-zero the update only lands if the stored
	// version still matches; otherwise ErrStaleVersion.
	UpdateFields(ctx context.Context, id string, fields map[string]any, expectedVersion int64) (Job, error)
}
