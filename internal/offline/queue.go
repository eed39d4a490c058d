package offline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/servicepro/fieldsync-go/internal/pkg/geo"
)

// DeliverFunc pushes one location event to the server. Failure is
// non-fatal to the queue: the entry stays durably stored.
type DeliverFunc func(ctx context.Context, entryID, jobID string, event EventKind, loc geo.Fix) error

// Queue is the offline durability queue for location events. Every
// event is written to the durable store before any network attempt, so
// a crash or dead link between capture and delivery never loses it.
type Queue struct {
	store   Store
	deliver DeliverFunc
	now     func() time.Time
}

// NewQueue builds a Queue over the given durable store and delivery
// function.
func NewQueue(store Store, deliver DeliverFunc) *Queue {
	return &Queue{
		store:   store,
		deliver: deliver,
		now:     time.Now,
	}
}

// SaveLocation records a location event. The entry is appended to the
// durable store first; only then, unless skipOnlineSync is set, is
// delivery attempted. A delivery failure leaves the entry queued for a
// later Flush and is returned to the caller. On successful delivery the
// entry is removed from the store.
func (q *Queue) SaveLocation(ctx context.Context, jobID string, event EventKind, loc geo.Fix, skipOnlineSync bool) (Entry, error) {
	e := Entry{
		ID:       uuid.NewString(),
		Type:     TypeLocationEntry,
		JobID:    jobID,
		Event:    event,
		Location: loc,
		QueuedAt: q.now(),
		Status:   StatusQueued,
	}

	// Durability precedes delivery.
	if err := q.store.Append(ctx, e); err != nil {
		return Entry{}, fmt.Errorf("queue location entry: %w", err)
	}
	queuedTotal.Inc()

	if skipOnlineSync {
		return e, nil
	}

	if err := q.deliver(ctx, e.ID, jobID, event, loc); err != nil {
		// Entry stays queued; the flusher picks it up.
		e.Attempts = 1
		e.LastError = err.Error()
		e.NextAttemptAt = q.now().Add(initialRetryDelay)
		if uerr := q.store.Update(ctx, e); uerr != nil {
			slog.Warn("failed to record delivery attempt", "entry_id", e.ID, "error", uerr)
		}
		deliveryFailedTotal.Inc()
		return e, fmt.Errorf("deliver location entry %s: %w", e.ID, err)
	}

	if err := q.store.Remove(ctx, e.ID); err != nil {
		// Delivered but not dequeued: the server dedupes on entry ID,
		// so a re-delivery by the flusher is harmless.
		slog.Warn("failed to remove delivered entry", "entry_id", e.ID, "error", err)
	}
	deliveredTotal.Inc()
	return e, nil
}

// Depth returns the number of entries currently in the store.
func (q *Queue) Depth(ctx context.Context) (int, error) {
	return q.store.Len(ctx)
}

// Entries returns all queued entries in enqueue order.
func (q *Queue) Entries(ctx context.Context) ([]Entry, error) {
	return q.store.List(ctx)
}
