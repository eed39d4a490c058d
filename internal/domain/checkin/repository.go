package checkin

import (
	"context"
)

// CheckInRepository defines data access methods for check-in records.
type CheckInRepository interface {
	// Create stores a new check-in record
	Create(ctx context.Context, c CheckIn) (CheckIn, error)

	// GetByEntryID retrieves a check-in by its client entry id.
	// Used to collapse re-delivered entries.
	GetByEntryID(ctx context.Context, entryID string) (*CheckIn, error)

	// ListByJob retrieves check-ins for a job, newest first
	ListByJob(ctx context.Context, filter ListByJobFilter) ([]CheckIn, int64, error)
}

// CheckInService defines business logic for check-in ingestion.
type CheckInService interface {
	// Submit ingests one delivered location entry. Idempotent on
	// EntryID.
	Submit(ctx context.Context, technicianID string, req SubmitRequest) (CheckInResponse, error)

	// ListByJob retrieves stored check-ins for a job
	ListByJob(ctx context.Context, filter ListByJobFilter) (ListCheckInsResponse, error)
}
