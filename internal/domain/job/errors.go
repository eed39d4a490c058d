package job

import "errors"

// Job domain errors
var (
	ErrJobNotFound       = errors.New("job not found")
	ErrInvalidTransition = errors.New("invalid job status transition")
	ErrFieldNotAllowed   = errors.New("field is not updatable")
	ErrStaleVersion      = errors.New("job was updated by someone else")
	ErrNotAssigned       = errors.New("job is not assigned to this technician")
)
