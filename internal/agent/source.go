package agent

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/servicepro/fieldsync-go/internal/pkg/geo"
)

// StaticSource is a positioning source with a fixed coordinate,
// supplied on the command line. Devices without a GPS shim (and every
// test) use it.
type StaticSource struct {
	Fix geo.Fix
}

var _ geo.Source = (*StaticSource)(nil)

func (s *StaticSource) CurrentFix(ctx context.Context, opts geo.Options) (geo.Fix, error) {
	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return geo.Fix{}, geo.ErrTimeout
		}
		return geo.Fix{}, err
	}
	fix := s.Fix
	if fix.Timestamp.IsZero() {
		fix.Timestamp = time.Now().UTC()
	}
	return fix, nil
}

// Watch re-stamps and delivers the static fix every interval until
// stopped.
func (s *StaticSource) Watch(ctx context.Context, opts geo.Options, fn func(geo.Fix)) (func(), error) {
	interval := opts.MaxAge
	if interval <= 0 {
		interval = 5 * time.Second
	}

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case <-ticker.C:
				fix := s.Fix
				fix.Timestamp = time.Now().UTC()
				fn(fix)
			}
		}
	}()

	var stopOnce sync.Once
	stop := func() {
		stopOnce.Do(func() { close(done) })
	}
	return stop, nil
}
