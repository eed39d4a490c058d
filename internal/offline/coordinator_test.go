package offline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCoordinator(remote RemoteUpdateFunc) *Coordinator {
	c := NewCoordinator(remote)
	c.Refresh(map[string]Fields{
		"1": {"status": "pending", "title": "Fix AC unit"},
		"2": {"status": "scheduled"},
	})
	return c
}

func TestCoordinatorApplySuccess(t *testing.T) {
	ctx := context.Background()
	var gotID string
	var gotFields Fields
	c := seedCoordinator(func(ctx context.Context, id string, fields Fields) error {
		gotID = id
		gotFields = fields
		return nil
	})

	err := c.Apply(ctx, "1", Fields{"status": "done"})
	require.NoError(t, err)
	assert.Equal(t, "1", gotID)
	assert.Equal(t, Fields{"status": "done"}, gotFields)

	rec, ok := c.Get("1")
	require.True(t, ok)
	assert.Equal(t, "done", rec["status"])
	assert.Equal(t, "Fix AC unit", rec["title"])
	assert.False(t, c.HasPending())
}

func TestCoordinatorApplyRollbackRestoresPriorValues(t *testing.T) {
	ctx := context.Background()
	remoteErr := errors.New("server rejected update")
	c := seedCoordinator(func(ctx context.Context, id string, fields Fields) error {
		return remoteErr
	})

	err := c.Apply(ctx, "1", Fields{"status": "done"})
	require.ErrorIs(t, err, remoteErr)

	// The prior value is restored exactly, not deleted.
	rec, ok := c.Get("1")
	require.True(t, ok)
	assert.Equal(t, "pending", rec["status"])
	assert.False(t, c.HasPending())
}

func TestCoordinatorApplyRollbackDeletesPreviouslyAbsentField(t *testing.T) {
	ctx := context.Background()
	c := seedCoordinator(func(ctx context.Context, id string, fields Fields) error {
		return errors.New("offline")
	})

	err := c.Apply(ctx, "2", Fields{"notes": "gate code 4411", "status": "en_route"})
	require.Error(t, err)

	rec, ok := c.Get("2")
	require.True(t, ok)
	_, hasNotes := rec["notes"]
	assert.False(t, hasNotes, "field absent before the update must be deleted on rollback")
	assert.Equal(t, "scheduled", rec["status"])
}

func TestCoordinatorApplyUnknownIDIsNoop(t *testing.T) {
	ctx := context.Background()
	called := false
	c := seedCoordinator(func(ctx context.Context, id string, fields Fields) error {
		called = true
		return nil
	})

	err := c.Apply(ctx, "missing", Fields{"status": "done"})
	require.NoError(t, err)
	assert.False(t, called, "remote must not be invoked for an unknown record")
	assert.False(t, c.HasPending())
}

func TestCoordinatorPendingVisibleDuringFlight(t *testing.T) {
	ctx := context.Background()
	release := make(chan struct{})
	inFlight := make(chan struct{})
	c := seedCoordinator(func(ctx context.Context, id string, fields Fields) error {
		close(inFlight)
		<-release
		return nil
	})

	done := make(chan error, 1)
	go func() { done <- c.Apply(ctx, "1", Fields{"status": "done"}) }()

	<-inFlight
	// The speculative value is visible while the remote call runs.
	rec, ok := c.Get("1")
	require.True(t, ok)
	assert.Equal(t, "done", rec["status"])
	assert.True(t, c.HasPending())
	assert.Equal(t, 1, c.PendingCount())

	close(release)
	require.NoError(t, <-done)
	assert.False(t, c.HasPending())
}

func TestCoordinatorRefreshClearsPending(t *testing.T) {
	ctx := context.Background()
	release := make(chan struct{})
	inFlight := make(chan struct{})
	c := seedCoordinator(func(ctx context.Context, id string, fields Fields) error {
		close(inFlight)
		<-release
		return nil
	})

	done := make(chan error, 1)
	go func() { done <- c.Apply(ctx, "1", Fields{"status": "done"}) }()
	<-inFlight

	snapshot := map[string]Fields{"1": {"status": "confirmed"}}
	c.Refresh(snapshot)
	assert.False(t, c.HasPending())
	assert.Equal(t, snapshot, c.Records())

	close(release)
	<-done
}

func TestCoordinatorLateFailureDoesNotCorruptRefreshedSnapshot(t *testing.T) {
	ctx := context.Background()
	release := make(chan struct{})
	inFlight := make(chan struct{})
	c := seedCoordinator(func(ctx context.Context, id string, fields Fields) error {
		close(inFlight)
		<-release
		return errors.New("late rejection")
	})

	done := make(chan error, 1)
	go func() { done <- c.Apply(ctx, "1", Fields{"status": "done"}) }()
	<-inFlight

	c.Refresh(map[string]Fields{"1": {"status": "confirmed"}})

	close(release)
	require.Error(t, <-done)

	// Ground truth wins: the late rollback must not touch the snapshot.
	rec, ok := c.Get("1")
	require.True(t, ok)
	assert.Equal(t, "confirmed", rec["status"])
}

func TestCoordinatorSameRecordMutationsSerialized(t *testing.T) {
	ctx := context.Background()
	var mu sync.Mutex
	var order []string
	firstInFlight := make(chan struct{})
	releaseFirst := make(chan struct{})
	var once sync.Once

	c := seedCoordinator(func(ctx context.Context, id string, fields Fields) error {
		mu.Lock()
		order = append(order, fields["status"].(string))
		mu.Unlock()
		once.Do(func() {
			close(firstInFlight)
			<-releaseFirst
		})
		return nil
	})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = c.Apply(ctx, "1", Fields{"status": "first"})
	}()
	<-firstInFlight
	go func() {
		defer wg.Done()
		_ = c.Apply(ctx, "1", Fields{"status": "second"})
	}()

	// The second mutation must not reach the remote while the first is
	// still in flight.
	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	require.Len(t, order, 1)
	mu.Unlock()

	close(releaseFirst)
	wg.Wait()

	mu.Lock()
	assert.Equal(t, []string{"first", "second"}, order)
	mu.Unlock()

	rec, ok := c.Get("1")
	require.True(t, ok)
	assert.Equal(t, "second", rec["status"])
	assert.False(t, c.HasPending())
}

func TestCoordinatorIndependentRecordsRunInParallel(t *testing.T) {
	ctx := context.Background()
	inFlight := make(chan struct{})
	release := make(chan struct{})
	c := seedCoordinator(func(ctx context.Context, id string, fields Fields) error {
		if id == "1" {
			close(inFlight)
			<-release
		}
		return nil
	})

	done := make(chan error, 1)
	go func() { done <- c.Apply(ctx, "1", Fields{"status": "blocked"}) }()
	<-inFlight

	// A different record is not held up by record 1's in-flight call.
	require.NoError(t, c.Apply(ctx, "2", Fields{"status": "done"}))

	close(release)
	require.NoError(t, <-done)
}
