package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/masjidwalk/backend/internal/storage"
	"github.com/masjidwalk/backend/pkg/model"
	"go.uber.org/zap"
)

// WalkRepository manages the append-only walk log persisted as one JSON blob.
// The persisted invariant is most-recent-first ordering. Storage is advisory:
// a missing or corrupt blob reads as an empty log, never an error.
type WalkRepository struct {
	store  storage.Store
	logger *zap.Logger

	// Serializes the read-modify-write cycle; the blob has no revision
	// counter, so concurrent writers would lose updates.
	mu sync.Mutex
}

// NewWalkRepository creates a new WalkRepository
func NewWalkRepository(store storage.Store, logger *zap.Logger) *WalkRepository {
	return &WalkRepository{
		store:  store,
		logger: logger,
	}
}

// List returns the full walk log, newest first
func (r *WalkRepository) List(ctx context.Context) ([]model.WalkEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadLocked(ctx), nil
}

// Add prepends an entry to the log and persists it
func (r *WalkRepository) Add(ctx context.Context, entry model.WalkEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.loadLocked(ctx)
	entries = append([]model.WalkEntry{entry}, entries...)

	return r.saveLocked(ctx, entries)
}

// Delete removes the entry with the given id. Deleting an unknown id is a
// no-op, not an error.
func (r *WalkRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.loadLocked(ctx)

	kept := entries[:0]
	removed := false
	for _, e := range entries {
		if e.ID == id {
			removed = true
			continue
		}
		kept = append(kept, e)
	}

	if !removed {
		r.logger.Debug("delete of unknown walk entry ignored", zap.String("id", id))
		return nil
	}

	return r.saveLocked(ctx, kept)
}

// loadLocked reads and decodes the walk log, degrading to empty on any
// read or decode failure
func (r *WalkRepository) loadLocked(ctx context.Context) []model.WalkEntry {
	data, err := r.store.Get(ctx, storage.KeyWalkHistory)
	if err != nil {
		if err != storage.ErrNotFound {
			r.logger.Warn("failed to read walk history, treating as empty", zap.Error(err))
		}
		return []model.WalkEntry{}
	}

	var entries []model.WalkEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		r.logger.Warn("corrupt walk history blob, treating as empty", zap.Error(err))
		return []model.WalkEntry{}
	}
	if entries == nil {
		entries = []model.WalkEntry{}
	}

	return entries
}

// saveLocked persists the full log
func (r *WalkRepository) saveLocked(ctx context.Context, entries []model.WalkEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode walk history: %w", err)
	}

	if err := r.store.Set(ctx, storage.KeyWalkHistory, data); err != nil {
		r.logger.Error("failed to persist walk history", zap.Error(err))
		return fmt.Errorf("failed to persist walk history: %w", err)
	}

	return nil
}
