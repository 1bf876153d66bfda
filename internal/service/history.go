package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/masjidwalk/backend/pkg/model"
	"go.uber.org/zap"
)

// ErrInvalidEntry marks walk entries rejected by validation
var ErrInvalidEntry = errors.New("invalid walk entry")

// WalkRepositoryInterface defines the interface for walk log access
type WalkRepositoryInterface interface {
	List(ctx context.Context) ([]model.WalkEntry, error)
	Add(ctx context.Context, entry model.WalkEntry) error
	Delete(ctx context.Context, id string) error
}

// HistoryService manages the walk log and derives walking statistics
type HistoryService struct {
	repo   WalkRepositoryInterface
	logger *zap.Logger
	now    func() time.Time
}

// NewHistoryService creates a new HistoryService
func NewHistoryService(repo WalkRepositoryInterface, logger *zap.Logger) *HistoryService {
	return &HistoryService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// NewHistoryServiceWithClock creates a HistoryService with an injected clock
// for deterministic streak tests
func NewHistoryServiceWithClock(repo WalkRepositoryInterface, logger *zap.Logger, now func() time.Time) *HistoryService {
	return &HistoryService{
		repo:   repo,
		logger: logger,
		now:    now,
	}
}

// AddWalkEntry validates the entry, assigns a fresh id and appends it to the
// log. The stored entry (including its id) is returned via the pointer.
func (s *HistoryService) AddWalkEntry(ctx context.Context, entry *model.WalkEntry) error {
	if !model.ValidPrayers[entry.Prayer] {
		return fmt.Errorf("%w: unknown prayer %q", ErrInvalidEntry, entry.Prayer)
	}
	if entry.DistanceKm < 0 {
		return fmt.Errorf("%w: distance must be non-negative", ErrInvalidEntry)
	}
	if entry.Steps < 0 {
		return fmt.Errorf("%w: steps must be non-negative", ErrInvalidEntry)
	}
	if entry.WalkingTimeMin < 0 {
		return fmt.Errorf("%w: walking time must be non-negative", ErrInvalidEntry)
	}
	if entry.Hasanat < 0 {
		return fmt.Errorf("%w: hasanat must be non-negative", ErrInvalidEntry)
	}

	entry.ID = uuid.New().String()
	if entry.Date.IsZero() {
		entry.Date = s.now()
	}

	if err := s.repo.Add(ctx, *entry); err != nil {
		s.logger.Error("failed to add walk entry",
			zap.Error(err),
			zap.String("mosque", entry.MosqueName),
		)
		return fmt.Errorf("failed to add walk entry: %w", err)
	}

	s.logger.Info("walk entry added",
		zap.String("entry_id", entry.ID),
		zap.String("prayer", string(entry.Prayer)),
		zap.Int("steps", entry.Steps),
		zap.Float64("distance_km", entry.DistanceKm),
	)

	return nil
}

// DeleteWalkEntry removes a walk entry by id; unknown ids are a no-op
func (s *HistoryService) DeleteWalkEntry(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete walk entry",
			zap.Error(err),
			zap.String("entry_id", id),
		)
		return fmt.Errorf("failed to delete walk entry: %w", err)
	}

	s.logger.Info("walk entry deleted", zap.String("entry_id", id))
	return nil
}

// GetWalkHistory returns the full walk log, newest first
func (s *HistoryService) GetWalkHistory(ctx context.Context) ([]model.WalkEntry, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to get walk history", zap.Error(err))
		return nil, fmt.Errorf("failed to get walk history: %w", err)
	}
	return entries, nil
}

// GetWalkingStats folds the full walk log into aggregate statistics. An
// empty log yields all-zero stats, never an error.
func (s *HistoryService) GetWalkingStats(ctx context.Context) (*model.WalkingStats, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to load walk log for stats", zap.Error(err))
		return nil, fmt.Errorf("failed to load walk log: %w", err)
	}

	stats := &model.WalkingStats{
		WalksByPrayer: make(map[model.Prayer]int),
	}

	loc := s.now().Location()
	walkedDays := make(map[time.Time]bool)
	prayersByDay := make(map[time.Time]map[model.Prayer]bool)

	for _, e := range entries {
		stats.TotalWalks++
		stats.TotalSteps += e.Steps
		stats.TotalDistance += e.DistanceKm
		stats.TotalHasanat += e.Hasanat
		stats.WalksByPrayer[e.Prayer]++

		day := calendarDay(e.Date, loc)
		walkedDays[day] = true

		if prayersByDay[day] == nil {
			prayersByDay[day] = make(map[model.Prayer]bool)
		}
		prayersByDay[day][e.Prayer] = true
	}

	for _, prayers := range prayersByDay {
		n := len(prayers)
		if n > 5 {
			n = 5
		}
		if n > stats.MaxPrayersInOneDay {
			stats.MaxPrayersInOneDay = n
		}
	}

	stats.CurrentStreak = currentStreak(walkedDays, calendarDay(s.now(), loc))
	stats.LongestStreak = longestStreak(walkedDays)

	return stats, nil
}

// calendarDay normalizes a timestamp to its calendar day in loc. Days are
// represented as midnight UTC of that date so map keys compare exactly and
// AddDate arithmetic is DST-free.
func calendarDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// currentStreak counts consecutive walked days ending at today, or at
// yesterday when today has no walk yet: a walk today is not required to keep
// yesterday's streak alive.
func currentStreak(walkedDays map[time.Time]bool, today time.Time) int {
	anchor := today
	if !walkedDays[anchor] {
		anchor = today.AddDate(0, 0, -1)
	}

	streak := 0
	for walkedDays[anchor] {
		streak++
		anchor = anchor.AddDate(0, 0, -1)
	}
	return streak
}

// longestStreak finds the longest run of consecutive walked calendar days.
// A single walked day is a streak of 1.
func longestStreak(walkedDays map[time.Time]bool) int {
	if len(walkedDays) == 0 {
		return 0
	}

	days := make([]time.Time, 0, len(walkedDays))
	for d := range walkedDays {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	longest := 1
	run := 1
	for i := 1; i < len(days); i++ {
		if days[i].Equal(days[i-1].AddDate(0, 0, -1)) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}
