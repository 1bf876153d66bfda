package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/masjidwalk/backend/internal/storage"
	"go.uber.org/zap"
)

// BadgeRepository persists the badge-id → first-earned-timestamp map.
// Progress numbers are always recomputed from stats; only the earned marks
// are durable, so a badge is never silently un-earned when the underlying
// stats shrink (e.g. after deleting a walk).
type BadgeRepository struct {
	store  storage.Store
	logger *zap.Logger
	mu     sync.Mutex
}

// NewBadgeRepository creates a new BadgeRepository
func NewBadgeRepository(store storage.Store, logger *zap.Logger) *BadgeRepository {
	return &BadgeRepository{
		store:  store,
		logger: logger,
	}
}

// EarnedMap returns badge id → first earned timestamp. Missing or corrupt
// state reads as "nothing earned yet".
func (r *BadgeRepository) EarnedMap(ctx context.Context) (map[string]time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadLocked(ctx), nil
}

// MarkEarned records first-earned timestamps for the given badge ids.
// Already-recorded badges keep their original timestamp (first-earned wins).
// It returns the ids that were newly recorded by this call.
func (r *BadgeRepository) MarkEarned(ctx context.Context, ids []string, earnedAt time.Time) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	earned := r.loadLocked(ctx)

	var newly []string
	for _, id := range ids {
		if _, ok := earned[id]; ok {
			continue
		}
		earned[id] = earnedAt
		newly = append(newly, id)
	}

	if len(newly) == 0 {
		return nil, nil
	}

	data, err := json.Marshal(earned)
	if err != nil {
		return nil, fmt.Errorf("failed to encode earned badges: %w", err)
	}

	if err := r.store.Set(ctx, storage.KeyEarnedBadges, data); err != nil {
		r.logger.Error("failed to persist earned badges", zap.Error(err))
		return nil, fmt.Errorf("failed to persist earned badges: %w", err)
	}

	return newly, nil
}

func (r *BadgeRepository) loadLocked(ctx context.Context) map[string]time.Time {
	data, err := r.store.Get(ctx, storage.KeyEarnedBadges)
	if err != nil {
		if err != storage.ErrNotFound {
			r.logger.Warn("failed to read earned badges, treating as empty", zap.Error(err))
		}
		return map[string]time.Time{}
	}

	var earned map[string]time.Time
	if err := json.Unmarshal(data, &earned); err != nil {
		r.logger.Warn("corrupt earned badges blob, treating as empty", zap.Error(err))
		return map[string]time.Time{}
	}
	if earned == nil {
		earned = map[string]time.Time{}
	}

	return earned
}
