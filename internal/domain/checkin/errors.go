package checkin

import "errors"

// Check-in domain errors
var (
	ErrOutsideAllowedRadius = errors.New("you are outside the allowed radius of the job site")
	ErrCheckInNotFound      = errors.New("check-in record not found")
	ErrJobNotAssigned       = errors.New("job is not assigned to this technician")
)
