package geo

import (
	"context"
	"errors"
	"time"
)

// Positioning failures, classified so callers can show distinct messages.
var (
	ErrPermissionDenied    = errors.New("location permission denied")
	ErrPositionUnavailable = errors.New("position unavailable")
	ErrTimeout             = errors.New("location request timed out")
	ErrUnsupported         = errors.New("positioning source not supported")
)

// Options control a fix request.
type Options struct {
	HighAccuracy bool
	Timeout      time.Duration
	// MaxAge is the oldest cached fix the caller will accept.
	MaxAge time.Duration
}

// Source is a positioning capability (a GPS device, a mobile shim, a
// fake in tests).
type Source interface {
	// CurrentFix requests a single fix. Failures are one of the
	// classified errors above, possibly wrapped.
	CurrentFix(ctx context.Context, opts Options) (Fix, error)

	// Watch streams fixes to fn until the returned stop function is
	// called or ctx is done.
	Watch(ctx context.Context, opts Options, fn func(Fix)) (stop func(), err error)
}

// UserMessage maps a positioning error to the message shown to the
// technician.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrPermissionDenied):
		return "Location access was denied. Enable location permissions to check in."
	case errors.Is(err, ErrPositionUnavailable):
		return "Your position could not be determined. Move to an open area and try again."
	case errors.Is(err, ErrTimeout):
		return "Getting your location took too long. Try again."
	case errors.Is(err, ErrUnsupported):
		return "Location is not supported on this device."
	case err != nil:
		return "Could not get your location."
	default:
		return ""
	}
}

// Capture requests a fix from src, returning nil (an absence, not an
// error) when no source is present. Errors are only surfaced for an
// actively requested fix that failed.
func Capture(ctx context.Context, src Source, opts Options) (*Fix, error) {
	if src == nil {
		return nil, nil
	}
	fix, err := src.CurrentFix(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &fix, nil
}
