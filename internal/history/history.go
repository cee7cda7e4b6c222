// Package history persists completed session summaries, most recent
// first.
package history

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jvance/examdeck/internal/session"
	"github.com/jvance/examdeck/internal/store"
)

// Store reads and appends session summaries in a single JSON blob. No
// size cap is imposed here.
type Store struct {
	blobs store.BlobStore
}

// New creates a history Store backed by the given blob store.
func New(blobs store.BlobStore) *Store {
	return &Store{blobs: blobs}
}

// LoadAll returns all stored summaries, most recent first. An absent or
// malformed blob reads as empty rather than failing.
func (s *Store) LoadAll(ctx context.Context) []session.Summary {
	data, err := s.blobs.Get(ctx, store.KeyHistory)
	if err != nil || len(data) == 0 {
		return nil
	}
	var summaries []session.Summary
	if err := json.Unmarshal(data, &summaries); err != nil {
		return nil
	}
	return summaries
}

// Append prepends summary to the stored list and persists it.
func (s *Store) Append(ctx context.Context, summary *session.Summary) error {
	existing := s.LoadAll(ctx)
	updated := make([]session.Summary, 0, len(existing)+1)
	updated = append(updated, *summary)
	updated = append(updated, existing...)

	data, err := json.Marshal(updated)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	if err := s.blobs.Put(ctx, store.KeyHistory, data); err != nil {
		return fmt.Errorf("persist history: %w", err)
	}
	return nil
}

// Reset clears all stored summaries.
func (s *Store) Reset(ctx context.Context) error {
	return s.blobs.Delete(ctx, store.KeyHistory)
}
