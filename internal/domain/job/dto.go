package job

import (
	"fmt"

	"github.com/servicepro/fieldsync-go/internal/pkg/validator"
)

// UpdatableFields is the whitelist a sparse job patch may touch.
// Everything else (site coordinates, assignment, version) is owned by
// the dispatch side and rejected.
var UpdatableFields = []string{"status", "notes", "description"}

// UpdateJobRequest is a sparse patch for one job, the server-side
// target of the agent's optimistic updates.
type UpdateJobRequest struct {
	Fields map[string]any `json:"fields"`
	// ExpectedVersion, when non-zero, makes the update conditional: a
	// mismatch means a newer update landed first and this one is stale.
	ExpectedVersion int64 `json:"expected_version,omitempty"`
}

func (r *UpdateJobRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.Fields) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "fields",
			Message: "at least one field is required",
		})
	}

	for name, value := range r.Fields {
		if !validator.IsInSlice(name, UpdatableFields) {
			errs = append(errs, validator.ValidationError{
				Field:   name,
				Message: "field is not updatable",
			})
			continue
		}
		if _, ok := value.(string); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   name,
				Message: fmt.Sprintf("%s must be a string", name),
			})
			continue
		}
		if name == "status" {
			statuses := []string{StatusScheduled, StatusEnRoute, StatusInProgress, StatusCompleted, StatusCancelled}
			if !validator.IsInSlice(value.(string), statuses) {
				errs = append(errs, validator.ValidationError{
					Field:   "status",
					Message: "status must be one of: scheduled, en_route, in_progress, completed, cancelled",
				})
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type JobResponse struct {
	ID                  string  `json:"id"`
	Title               string  `json:"title"`
	Description         *string `json:"description,omitempty"`
	Status              string  `json:"status"`
	CustomerName        *string `json:"customer_name,omitempty"`
	SiteLatitude        float64 `json:"site_latitude"`
	SiteLongitude       float64 `json:"site_longitude"`
	CheckInRadiusMeters float64 `json:"check_in_radius_meters"`
	AssignedTechnician  string  `json:"assigned_technician"`
	ScheduledAt         string  `json:"scheduled_at"`
	Notes               *string `json:"notes,omitempty"`
	Version             int64   `json:"version"`
	CreatedAt           string  `json:"created_at"`
	UpdatedAt           string  `json:"updated_at"`
}

type ListJobsFilter struct {
	Technician *string `json:"technician,omitempty"`
	Status     *string `json:"status,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *ListJobsFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.Status != nil {
		statuses := []string{StatusScheduled, StatusEnRoute, StatusInProgress, StatusCompleted, StatusCancelled}
		if !validator.IsInSlice(*f.Status, statuses) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: scheduled, en_route, in_progress, completed, cancelled",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListJobsResponse struct {
	Jobs       []JobResponse `json:"jobs"`
	TotalItems int64         `json:"total_items"`
}
