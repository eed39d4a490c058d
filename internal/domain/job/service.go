package job

import (
	"context"
)

// JobService defines business logic for job operations.
type JobService interface {
	// GetJob retrieves a single job by ID
	GetJob(ctx context.Context, id string) (JobResponse, error)

	// ListJobs retrieves jobs for a technician's refresh
	ListJobs(ctx context.Context, filter ListJobsFilter) (ListJobsResponse, error)

	// UpdateJob applies a validated sparse patch to a job. This is the
	// delivery target of the agent's optimistic mutation coordinator.
	UpdateJob(ctx context.Context, id string, technicianID string, req UpdateJobRequest) (JobResponse, error)
}
