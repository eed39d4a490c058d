package offline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Fields is a sparse set of record fields keyed by field name.
type Fields map[string]any

// RemoteUpdateFunc pushes a sparse update for one record to the server.
// A returned error triggers rollback of the local speculative change.
type RemoteUpdateFunc func(ctx context.Context, id string, fields Fields) error

// PendingUpdate tracks one in-flight speculative mutation.
type PendingUpdate struct {
	ID        string
	RecordID  string
	Fields    Fields
	StartedAt time.Time
}

// Coordinator applies local speculative updates to an in-memory record
// collection immediately, pushes them to the server, and reconciles on
// the outcome: a confirmed update stays, a rejected one is rolled back
// to the exact pre-mutation field values.
//
// Mutations to the same record are serialized: a second Apply for an id
// waits until the first resolves, so a rollback can never clobber a
// newer speculative value.
type Coordinator struct {
	remote RemoteUpdateFunc
	now    func() time.Time

	mu      sync.Mutex
	records map[string]Fields
	pending map[string]PendingUpdate

	lockMu      sync.Mutex
	recordLocks map[string]*recordLock
}

type recordLock struct {
	mu   sync.Mutex
	refs int
}

// NewCoordinator builds a Coordinator around the injected remote update
// function. The collection starts empty; seed it with Refresh.
func NewCoordinator(remote RemoteUpdateFunc) *Coordinator {
	return &Coordinator{
		remote:      remote,
		now:         time.Now,
		records:     make(map[string]Fields),
		pending:     make(map[string]PendingUpdate),
		recordLocks: make(map[string]*recordLock),
	}
}

func (c *Coordinator) acquireRecord(id string) *recordLock {
	c.lockMu.Lock()
	rl, ok := c.recordLocks[id]
	if !ok {
		rl = &recordLock{}
		c.recordLocks[id] = rl
	}
	rl.refs++
	c.lockMu.Unlock()
	rl.mu.Lock()
	return rl
}

func (c *Coordinator) releaseRecord(id string, rl *recordLock) {
	rl.mu.Unlock()
	c.lockMu.Lock()
	rl.refs--
	if rl.refs == 0 {
		delete(c.recordLocks, id)
	}
	c.lockMu.Unlock()
}

// Apply merges fields over the record with the given id immediately,
// then pushes the update to the server. On rejection the touched fields
// are restored to their exact prior values (fields that did not exist
// are deleted again) and the error is returned.
//
// An unknown id is a silent no-op: the caller owns id validity.
func (c *Coordinator) Apply(ctx context.Context, id string, fields Fields) error {
	if len(fields) == 0 {
		return nil
	}
	rl := c.acquireRecord(id)
	defer c.releaseRecord(id, rl)

	c.mu.Lock()
	rec, ok := c.records[id]
	if !ok {
		c.mu.Unlock()
		return nil
	}

	// Snapshot prior values of every touched field so a failure
	// restores them exactly, including fields that were absent.
	prior := make(Fields, len(fields))
	absent := make(map[string]bool, len(fields))
	for k := range fields {
		if v, existed := rec[k]; existed {
			prior[k] = v
		} else {
			absent[k] = true
		}
	}
	for k, v := range fields {
		rec[k] = v
	}

	upd := PendingUpdate{
		ID:        uuid.NewString(),
		RecordID:  id,
		Fields:    cloneFields(fields),
		StartedAt: c.now(),
	}
	c.pending[upd.ID] = upd
	c.mu.Unlock()

	if err := c.remote(ctx, id, cloneFields(fields)); err != nil {
		c.mu.Lock()
		// Refresh may have replaced the collection while the call was
		// in flight; the fresh snapshot is ground truth, so only roll
		// back if our pending entry is still live.
		if _, live := c.pending[upd.ID]; live {
			delete(c.pending, upd.ID)
			if rec, ok := c.records[id]; ok {
				for k := range fields {
					if absent[k] {
						delete(rec, k)
					} else {
						rec[k] = prior[k]
					}
				}
			}
		}
		c.mu.Unlock()
		return fmt.Errorf("remote update for record %s: %w", id, err)
	}

	c.mu.Lock()
	delete(c.pending, upd.ID)
	c.mu.Unlock()
	return nil
}

// Refresh replaces the visible collection with an authoritative server
// snapshot and clears every pending entry. Ground truth wins: in-flight
// updates that resolve afterwards neither commit nor roll back into the
// new snapshot.
func (c *Coordinator) Refresh(snapshot map[string]Fields) {
	fresh := make(map[string]Fields, len(snapshot))
	for id, f := range snapshot {
		fresh[id] = cloneFields(f)
	}
	c.mu.Lock()
	c.records = fresh
	c.pending = make(map[string]PendingUpdate)
	c.mu.Unlock()
}

// Get returns a copy of the record's visible fields.
func (c *Coordinator) Get(id string) (Fields, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.records[id]
	if !ok {
		return nil, false
	}
	return cloneFields(rec), true
}

// Records returns a copy of the visible collection.
func (c *Coordinator) Records() map[string]Fields {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]Fields, len(c.records))
	for id, rec := range c.records {
		out[id] = cloneFields(rec)
	}
	return out
}

// HasPending reports whether any speculative update is still in flight.
// Intended for sync indicators, not correctness gating.
func (c *Coordinator) HasPending() bool {
	return c.PendingCount() > 0
}

// PendingCount returns the number of in-flight speculative updates.
func (c *Coordinator) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

func cloneFields(f Fields) Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}
