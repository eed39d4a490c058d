package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/servicepro/fieldsync-go/internal/domain/job"
	"github.com/servicepro/fieldsync-go/internal/offline"
	"github.com/servicepro/fieldsync-go/internal/pkg/geo"
)

// ErrNoLocation is returned when a check-in is attempted without any
// positioning source configured.
var ErrNoLocation = errors.New("no location fix available")

// ErrJobUnknown is returned when the requested job is not in the local
// assignment list. Run a refresh first.
var ErrJobUnknown = errors.New("job not in local assignment list")

// Coordinator record keys, mirroring the job payload field names.
const (
	fieldStatus        = "status"
	fieldNotes         = "notes"
	fieldTitle         = "title"
	fieldVersion       = "version"
	fieldSiteLatitude  = "site_latitude"
	fieldSiteLongitude = "site_longitude"
	fieldCheckInRadius = "check_in_radius_meters"
)

// Agent ties the sync pieces together for one technician device: the
// optimistic coordinator over the local job list, the durable location
// queue, and the flusher that drains it.
type Agent struct {
	client  *Client
	coord   *offline.Coordinator
	queue   *offline.Queue
	flusher *offline.Flusher
	source  geo.Source

	// Offline suppresses immediate delivery; events are only queued
	// and drained by a later Flush.
	Offline bool
}

// NewAgent wires an Agent over the given API client, durable store and
// positioning source. maxAttempts bounds delivery retries per entry;
// pass 0 for the default.
func NewAgent(client *Client, store offline.Store, source geo.Source, maxAttempts int) *Agent {
	return &Agent{
		client:  client,
		coord:   offline.NewCoordinator(client.UpdateJob),
		queue:   offline.NewQueue(store, client.DeliverLocationEntry),
		flusher: offline.NewFlusher(store, client.DeliverLocationEntry, maxAttempts),
		source:  source,
	}
}

// RefreshJobs pulls the authoritative assignment list and replaces the
// local records. Server data wins over any optimistic state.
func (a *Agent) RefreshJobs(ctx context.Context) ([]job.JobResponse, error) {
	jobs, err := a.client.FetchJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh jobs: %w", err)
	}

	snapshot := make(map[string]offline.Fields, len(jobs))
	for _, j := range jobs {
		fields := offline.Fields{
			fieldStatus:        j.Status,
			fieldTitle:         j.Title,
			fieldVersion:       j.Version,
			fieldSiteLatitude:  j.SiteLatitude,
			fieldSiteLongitude: j.SiteLongitude,
			fieldCheckInRadius: j.CheckInRadiusMeters,
		}
		if j.Notes != nil {
			fields[fieldNotes] = *j.Notes
		}
		snapshot[j.ID] = fields
	}
	a.coord.Refresh(snapshot)
	return jobs, nil
}

// EventResult reports what happened to one recorded location event.
type EventResult struct {
	Entry offline.Entry
	Check geo.Check
	// Quality grades the fix accuracy for display.
	Quality geo.Quality
	// Queued is set when delivery was deferred; the entry sits in the
	// durable store until a flush succeeds.
	Queued bool
	// StatusSynced reports whether the optimistic job status change
	// reached the server. When false the local status was rolled back
	// and the next refresh restores the server's view.
	StatusSynced bool
}

// CheckIn records an arrival at the job site. The fix is validated
// against the site geofence before anything is queued; a technician
// outside the allowed radius gets an error, not a queued event.
func (a *Agent) CheckIn(ctx context.Context, jobID string) (EventResult, error) {
	return a.recordEvent(ctx, jobID, offline.EventCheckIn, job.StatusInProgress)
}

// CheckOut records leaving the job site and optimistically completes
// the job.
func (a *Agent) CheckOut(ctx context.Context, jobID string) (EventResult, error) {
	return a.recordEvent(ctx, jobID, offline.EventCheckOut, job.StatusCompleted)
}

func (a *Agent) recordEvent(ctx context.Context, jobID string, event offline.EventKind, nextStatus string) (EventResult, error) {
	rec, ok := a.coord.Get(jobID)
	if !ok {
		return EventResult{}, fmt.Errorf("%w: %s", ErrJobUnknown, jobID)
	}

	fix, err := geo.Capture(ctx, a.source, geo.Options{
		HighAccuracy: true,
		Timeout:      10 * time.Second,
	})
	if err != nil {
		return EventResult{}, fmt.Errorf("%s: %w", geo.UserMessage(err), err)
	}
	if fix == nil {
		return EventResult{}, ErrNoLocation
	}

	site := geo.Point{
		Latitude:  numField(rec, fieldSiteLatitude),
		Longitude: numField(rec, fieldSiteLongitude),
	}
	check := geo.ValidateWorkLocation(site, *fix, numField(rec, fieldCheckInRadius))
	if !check.Valid {
		return EventResult{Check: check}, fmt.Errorf("outside allowed radius: %.0fm from site, limit %.0fm",
			check.Distance, check.MaxDistance)
	}

	result := EventResult{
		Check:   check,
		Quality: geo.FixQuality(fix.Accuracy),
	}

	entry, err := a.queue.SaveLocation(ctx, jobID, event, *fix, a.Offline)
	if err != nil {
		if entry.ID == "" {
			// Durable append failed; nothing was recorded.
			return EventResult{}, err
		}
		// The entry is durably queued; only delivery failed.
		result.Entry = entry
		result.Queued = true
	} else {
		result.Entry = entry
		result.Queued = a.Offline
	}

	if err := a.coord.Apply(ctx, jobID, offline.Fields{fieldStatus: nextStatus}); err == nil {
		result.StatusSynced = true
	}

	return result, nil
}

// Flush drains the durable queue, honoring per-entry backoff.
func (a *Agent) Flush(ctx context.Context) (offline.FlushResult, error) {
	return a.flusher.Flush(ctx)
}

// QueueStatus is a point-in-time view of the local sync state.
type QueueStatus struct {
	Depth          int
	PendingUpdates int
	Entries        []offline.Entry
}

func (a *Agent) Status(ctx context.Context) (QueueStatus, error) {
	entries, err := a.queue.Entries(ctx)
	if err != nil {
		return QueueStatus{}, err
	}
	return QueueStatus{
		Depth:          len(entries),
		PendingUpdates: a.coord.PendingCount(),
		Entries:        entries,
	}, nil
}

// Jobs returns the local job records.
func (a *Agent) Jobs() map[string]offline.Fields {
	return a.coord.Records()
}

func numField(fields offline.Fields, key string) float64 {
	switch v := fields[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}
	return 0
}
