package agent

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/servicepro/fieldsync-go/internal/pkg/geo"
)

func TestStaticSourceStampsTimestamp(t *testing.T) {
	src := &StaticSource{Fix: geo.Fix{Latitude: siteLat, Longitude: siteLng, Accuracy: 10}}

	fix, err := src.CurrentFix(context.Background(), geo.Options{})
	require.NoError(t, err)
	assert.False(t, fix.Timestamp.IsZero(), "a fresh fix carries the capture time")
	assert.Equal(t, siteLat, fix.Latitude)
}

func TestStaticSourceDeadlineExceeded(t *testing.T) {
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	src := &StaticSource{Fix: geo.Fix{Latitude: siteLat, Longitude: siteLng}}
	_, err := src.CurrentFix(ctx, geo.Options{})
	require.ErrorIs(t, err, geo.ErrTimeout)
}

func TestStaticSourceCancellationPassesThrough(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &StaticSource{Fix: geo.Fix{Latitude: siteLat, Longitude: siteLng}}
	_, err := src.CurrentFix(ctx, geo.Options{})
	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, geo.ErrTimeout, "cancellation is not a positioning timeout")
}

func TestCheckInWithoutSource(t *testing.T) {
	server := newFakeServer(t)
	a := newTestAgent(t, server, onSiteFix())
	a.source = nil

	_, err := a.RefreshJobs(context.Background())
	require.NoError(t, err)

	_, err = a.CheckIn(context.Background(), "job-1")
	require.ErrorIs(t, err, ErrNoLocation)

	// Nothing captured means nothing queued and nothing delivered.
	assert.Equal(t, int64(0), server.checkInCount.Load())
	status, err := a.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, status.Depth)
}
