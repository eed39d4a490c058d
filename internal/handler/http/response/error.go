package response

import (
	"errors"
	"net/http"

	"github.com/servicepro/fieldsync-go/internal/domain/checkin"
	"github.com/servicepro/fieldsync-go/internal/domain/job"
	"github.com/servicepro/fieldsync-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Job domain errors
	case errors.Is(err, job.ErrJobNotFound):
		NotFound(w, "Job not found")
	case errors.Is(err, job.ErrInvalidTransition):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, job.ErrFieldNotAllowed):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, job.ErrStaleVersion):
		Conflict(w, "Job was updated by someone else; refresh and retry")
	case errors.Is(err, job.ErrNotAssigned):
		Forbidden(w, "Job is not assigned to you")

	// Check-in domain errors
	case errors.Is(err, checkin.ErrOutsideAllowedRadius):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, checkin.ErrJobNotAssigned):
		Forbidden(w, "Job is not assigned to you")
	case errors.Is(err, checkin.ErrCheckInNotFound):
		NotFound(w, "Check-in record not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
