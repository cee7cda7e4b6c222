// Package exposure tracks how many times each question has been shown,
// across all sessions. Selection biases toward least-seen items, so these
// counters are what makes bank coverage grow over time.
package exposure

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jvance/examdeck/internal/store"
)

// Tracker owns the question-id → view-count map and its persistence.
// Counts load lazily on first access and flush synchronously after every
// recorded view, so a crash never loses more than the in-flight increment.
type Tracker struct {
	blobs  store.BlobStore
	counts map[string]int
	loaded bool
}

// New creates a Tracker backed by the given blob store.
func New(blobs store.BlobStore) *Tracker {
	return &Tracker{blobs: blobs}
}

// Get returns the view count for id. Unknown ids count as zero.
func (t *Tracker) Get(ctx context.Context, id string) int {
	t.load(ctx)
	return t.counts[id]
}

// Counts returns the full counter map. The returned map is shared; callers
// must not mutate it.
func (t *Tracker) Counts(ctx context.Context) map[string]int {
	t.load(ctx)
	return t.counts
}

// RecordView increments the counter for id by exactly one and persists the
// full map before returning.
func (t *Tracker) RecordView(ctx context.Context, id string) error {
	t.load(ctx)
	t.counts[id]++
	return t.flush(ctx)
}

// Reset clears all counters, both in memory and in storage.
func (t *Tracker) Reset(ctx context.Context) error {
	t.counts = make(map[string]int)
	t.loaded = true
	return t.blobs.Delete(ctx, store.KeyExposure)
}

// load reads the counter blob on first use. A missing or corrupt blob is
// treated as empty, never surfaced.
func (t *Tracker) load(ctx context.Context) {
	if t.loaded {
		return
	}
	t.counts = make(map[string]int)
	t.loaded = true

	data, err := t.blobs.Get(ctx, store.KeyExposure)
	if err != nil || len(data) == 0 {
		return
	}
	var counts map[string]int
	if err := json.Unmarshal(data, &counts); err != nil {
		return
	}
	for id, n := range counts {
		if n > 0 {
			t.counts[id] = n
		}
	}
}

func (t *Tracker) flush(ctx context.Context) error {
	data, err := json.Marshal(t.counts)
	if err != nil {
		return fmt.Errorf("marshal exposure counts: %w", err)
	}
	if err := t.blobs.Put(ctx, store.KeyExposure, data); err != nil {
		return fmt.Errorf("persist exposure counts: %w", err)
	}
	return nil
}
