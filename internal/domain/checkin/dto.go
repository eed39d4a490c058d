package checkin

import (
	"github.com/servicepro/fieldsync-go/internal/pkg/geo"
	"github.com/servicepro/fieldsync-go/internal/pkg/validator"
)

// SubmitRequest is the payload an agent delivers for one queued
// location entry.
type SubmitRequest struct {
	EntryID  string  `json:"entry_id"`
	JobID    string  `json:"job_id"`
	Event    string  `json:"event"`
	Location geo.Fix `json:"location"`
}

func (r *SubmitRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EntryID) {
		errs = append(errs, validator.ValidationError{
			Field:   "entry_id",
			Message: "entry_id must be a valid UUID",
		})
	}

	if validator.IsEmpty(r.JobID) {
		errs = append(errs, validator.ValidationError{
			Field:   "job_id",
			Message: "job_id is required",
		})
	}

	if r.Event != EventCheckIn && r.Event != EventCheckOut {
		errs = append(errs, validator.ValidationError{
			Field:   "event",
			Message: "event must be check_in or check_out",
		})
	}

	if !validator.IsValidLatitude(r.Location.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "location.latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if !validator.IsValidLongitude(r.Location.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "location.longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if r.Location.Accuracy < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "location.accuracy",
			Message: "accuracy must not be negative",
		})
	}

	if r.Location.Timestamp.IsZero() {
		errs = append(errs, validator.ValidationError{
			Field:   "location.timestamp",
			Message: "timestamp is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CheckInResponse struct {
	ID             string      `json:"id"`
	EntryID        string      `json:"entry_id"`
	JobID          string      `json:"job_id"`
	TechnicianID   string      `json:"technician_id"`
	Event          string      `json:"event"`
	Latitude       float64     `json:"latitude"`
	Longitude      float64     `json:"longitude"`
	AccuracyMeters float64     `json:"accuracy_meters"`
	DistanceMeters float64     `json:"distance_meters"`
	Quality        geo.Quality `json:"quality"`
	RecordedAt     string      `json:"recorded_at"`
	ReceivedAt     string      `json:"received_at"`
	// Duplicate is set when the entry had already been stored and this
	// delivery was collapsed into the existing record.
	Duplicate bool `json:"duplicate,omitempty"`
}

type ListByJobFilter struct {
	JobID string `json:"job_id"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}

func (f *ListByJobFilter) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(f.JobID) {
		errs = append(errs, validator.ValidationError{
			Field:   "job_id",
			Message: "job_id is required",
		})
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListCheckInsResponse struct {
	CheckIns   []CheckInResponse `json:"check_ins"`
	TotalItems int64             `json:"total_items"`
}
