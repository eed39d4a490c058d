package offline

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

const (
	initialRetryDelay = 30 * time.Second
	maxRetryDelay     = 30 * time.Minute

	// DefaultMaxAttempts is how many deliveries are tried before an
	// entry is parked as failed.
	DefaultMaxAttempts = 8
)

// FlushResult summarizes one pass over the queue.
type FlushResult struct {
	Delivered int
	Deferred  int // not yet due for retry
	Retried   int // attempted and failed again
	Parked    int // exceeded max attempts this pass
}

// Flusher drives best-effort forward sync of queued entries with
// exponential backoff. It never drops an entry: exhausted entries are
// marked failed and left in the store.
type Flusher struct {
	store       Store
	deliver     DeliverFunc
	maxAttempts int
	now         func() time.Time
}

// NewFlusher builds a Flusher. maxAttempts <= 0 selects
// DefaultMaxAttempts.
func NewFlusher(store Store, deliver DeliverFunc, maxAttempts int) *Flusher {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Flusher{
		store:       store,
		deliver:     deliver,
		maxAttempts: maxAttempts,
		now:         time.Now,
	}
}

// Flush walks the queue once, delivering every due entry. Entries whose
// backoff window has not elapsed are skipped. The pass keeps going past
// individual failures; only a context cancellation aborts it.
func (f *Flusher) Flush(ctx context.Context) (FlushResult, error) {
	var res FlushResult

	entries, err := f.store.List(ctx)
	if err != nil {
		return res, err
	}
	now := f.now()

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if e.Status == StatusFailed {
			continue
		}
		if e.NextAttemptAt.After(now) {
			res.Deferred++
			continue
		}

		err := f.deliver(ctx, e.ID, e.JobID, e.Event, e.Location)
		if err == nil {
			if rerr := f.store.Remove(ctx, e.ID); rerr != nil && !errors.Is(rerr, ErrEntryNotFound) {
				slog.Warn("failed to remove flushed entry", "entry_id", e.ID, "error", rerr)
			}
			res.Delivered++
			deliveredTotal.Inc()
			continue
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return res, err
		}

		e.Attempts++
		e.LastError = err.Error()
		if e.Attempts >= f.maxAttempts {
			e.Status = StatusFailed
			res.Parked++
			parkedTotal.Inc()
			slog.Error("location entry exhausted delivery attempts",
				"entry_id", e.ID, "job_id", e.JobID, "attempts", e.Attempts, "error", err)
		} else {
			e.NextAttemptAt = now.Add(backoff(e.Attempts))
			res.Retried++
			deliveryFailedTotal.Inc()
		}
		if uerr := f.store.Update(ctx, e); uerr != nil {
			slog.Warn("failed to update entry after delivery failure", "entry_id", e.ID, "error", uerr)
		}
	}

	if depth, err := f.store.Len(ctx); err == nil {
		queueDepth.Set(float64(depth))
	}
	return res, nil
}

// backoff returns the delay before attempt n+1: initialRetryDelay
// doubled per attempt, capped at maxRetryDelay.
func backoff(attempts int) time.Duration {
	d := initialRetryDelay
	for i := 1; i < attempts; i++ {
		d *= 2
		if d >= maxRetryDelay {
			return maxRetryDelay
		}
	}
	return d
}
