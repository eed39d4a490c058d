// Package offline implements the client-side sync core for field
// technicians: an optimistic mutation coordinator for the local job
// list and a durable location-event queue that survives restarts and
// connectivity loss.
package offline

import (
	"context"
	"errors"
	"time"

	"github.com/servicepro/fieldsync-go/internal/pkg/geo"
)

// EventKind is the kind of location event a technician records.
type EventKind string

const (
	EventCheckIn  EventKind = "check_in"
	EventCheckOut EventKind = "check_out"
)

// TypeLocationEntry tags queue entries carrying a location event.
const TypeLocationEntry = "LOCATION_ENTRY"

// EntryStatus tracks an entry through the delivery lifecycle.
type EntryStatus string

const (
	StatusQueued EntryStatus = "queued"
	// StatusFailed marks an entry that exhausted its delivery attempts.
	// Failed entries stay in the store for inspection; they are never
	// silently dropped.
	StatusFailed EntryStatus = "failed"
)

// Entry is one durably queued location event. The ID is generated on
// the client so the server can deduplicate re-delivered entries.
type Entry struct {
	ID            string      `json:"id"`
	Type          string      `json:"type"`
	JobID         string      `json:"job_id"`
	Event         EventKind   `json:"event"`
	Location      geo.Fix     `json:"location"`
	QueuedAt      time.Time   `json:"queued_at"`
	Status        EntryStatus `json:"status"`
	Attempts      int         `json:"attempts"`
	NextAttemptAt time.Time   `json:"next_attempt_at"`
	LastError     string      `json:"last_error,omitempty"`
}

// ErrEntryNotFound is returned by Store implementations when the entry
// id does not exist.
var ErrEntryNotFound = errors.New("queue entry not found")

// Store is the durable local log backing the queue. Append must be
// durable before it returns: an entry that Append accepted survives a
// process restart.
type Store interface {
	Append(ctx context.Context, e Entry) error
	// List returns entries in enqueue order.
	List(ctx context.Context) ([]Entry, error)
	// Update rewrites the entry with the same ID (retry bookkeeping).
	Update(ctx context.Context, e Entry) error
	Remove(ctx context.Context, id string) error
	Len(ctx context.Context) (int, error)
	Close() error
}
