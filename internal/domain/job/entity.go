package job

import (
	"time"
)

// Job statuses. Transitions move forward only; cancelled is terminal
// and reachable from any non-terminal status.
const (
	StatusScheduled  = "scheduled"
	StatusEnRoute    = "en_route"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

type Job struct {
	ID                  string
	Title               string
	Description         *string
	Status              string
	CustomerName        *string
	SiteLatitude        float64
	SiteLongitude       float64
	CheckInRadiusMeters float64
	AssignedTechnician  string
	ScheduledAt         time.Time
	Notes               *string
	// Version increases on every accepted update; stale writers are
	// rejected rather than silently overwriting newer state.
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidTransition reports whether a status change is allowed.
func ValidTransition(from, to string) bool {
	if from == to {
		return true
	}
	switch from {
	case StatusScheduled:
		return to == StatusEnRoute || to == StatusInProgress || to == StatusCancelled
	case StatusEnRoute:
		return to == StatusInProgress || to == StatusCancelled
	case StatusInProgress:
		return to == StatusCompleted || to == StatusCancelled
	default:
		// completed and cancelled are terminal
		return false
	}
}
