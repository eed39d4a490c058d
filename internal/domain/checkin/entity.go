package checkin

import (
	"time"

	"github.com/servicepro/fieldsync-go/internal/pkg/geo"
)

// CheckIn is the server-side record of one delivered location event.
// EntryID is the client-generated queue entry id; the table enforces
// uniqueness on it so the at-least-once delivery from agent queues is
// collapsed into exactly-once storage.
type CheckIn struct {
	ID             string
	EntryID        string
	JobID          string
	TechnicianID   string
	Event          string // check_in / check_out
	Latitude       float64
	Longitude      float64
	AccuracyMeters float64
	Altitude       *float64
	Speed          *float64
	DistanceMeters float64
	Quality        geo.Quality
	// RecordedAt is when the fix was captured on the device; ReceivedAt
	// is when the server stored it. Offline entries can arrive hours
	// apart.
	RecordedAt time.Time
	ReceivedAt time.Time
}

const (
	EventCheckIn  = "check_in"
	EventCheckOut = "check_out"
)
