package offline

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/servicepro/fieldsync-go/internal/pkg/geo"
)

func TestFileStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "queue.json")

	store, err := NewFileStore(path)
	require.NoError(t, err)

	alt := 612.0
	e := Entry{
		ID:    "e1",
		Type:  TypeLocationEntry,
		JobID: "job-1",
		Event: EventCheckIn,
		Location: geo.Fix{
			Latitude:  24.7136,
			Longitude: 46.6753,
			Accuracy:  12,
			Timestamp: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
			Altitude:  &alt,
		},
		QueuedAt: time.Date(2026, 3, 14, 9, 30, 1, 0, time.UTC),
		Status:   StatusQueued,
	}
	require.NoError(t, store.Append(ctx, e))
	require.NoError(t, store.Close())

	// Simulated restart.
	reopened, err := NewFileStore(path)
	require.NoError(t, err)

	entries, err := reopened.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, e.ID, entries[0].ID)
	assert.Equal(t, e.JobID, entries[0].JobID)
	assert.Equal(t, e.Event, entries[0].Event)
	assert.Equal(t, e.Location.Latitude, entries[0].Location.Latitude)
	require.NotNil(t, entries[0].Location.Altitude)
	assert.Equal(t, alt, *entries[0].Location.Altitude)
	assert.True(t, e.QueuedAt.Equal(entries[0].QueuedAt))
}

func TestFileStoreUpdateAndRemove(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(filepath.Join(t.TempDir(), "queue.json"))
	require.NoError(t, err)

	require.NoError(t, store.Append(ctx, queuedEntry("e1", "job-1")))
	require.NoError(t, store.Append(ctx, queuedEntry("e2", "job-2")))

	e := queuedEntry("e1", "job-1")
	e.Attempts = 3
	e.LastError = "timeout"
	require.NoError(t, store.Update(ctx, e))

	entries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 3, entries[0].Attempts)
	assert.Equal(t, "timeout", entries[0].LastError)

	require.NoError(t, store.Remove(ctx, "e1"))
	n, err := store.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.ErrorIs(t, store.Remove(ctx, "e1"), ErrEntryNotFound)
	assert.ErrorIs(t, store.Update(ctx, e), ErrEntryNotFound)
}

func TestFileStoreEmpty(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(filepath.Join(t.TempDir(), "queue.json"))
	require.NoError(t, err)

	entries, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	n, err := store.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
