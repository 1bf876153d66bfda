package service

import (
	"context"
	"fmt"
	"time"

	"github.com/masjidwalk/backend/pkg/model"
	"go.uber.org/zap"
)

// BadgeRepositoryInterface defines the interface for earned-badge state
type BadgeRepositoryInterface interface {
	EarnedMap(ctx context.Context) (map[string]time.Time, error)
	MarkEarned(ctx context.Context, ids []string, earnedAt time.Time) ([]string, error)
}

// BadgeDefinition is one static achievement: a target plus an extractor
// pulling the relevant progress number out of the stats record
type BadgeDefinition struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Requirement string
	Target      float64
	extract     func(model.WalkingStats) float64
}

// badgeDefinitions is the fixed achievement table. Order is presentation
// order.
var badgeDefinitions = []BadgeDefinition{
	{
		ID: "first_walk", Name: "First Steps", Icon: "👣",
		Description: "Complete your first walk to the mosque",
		Requirement: "1 walk", Target: 1,
		extract: func(s model.WalkingStats) float64 { return float64(s.TotalWalks) },
	},
	{
		ID: "week_streak", Name: "Consistent Walker", Icon: "🔥",
		Description: "Walk to the mosque 7 days in a row",
		Requirement: "7-day streak", Target: 7,
		extract: func(s model.WalkingStats) float64 { return float64(s.CurrentStreak) },
	},
	{
		ID: "month_streak", Name: "Devoted Walker", Icon: "🌙",
		Description: "Reach a best streak of 30 days",
		Requirement: "30-day best streak", Target: 30,
		extract: func(s model.WalkingStats) float64 { return float64(s.LongestStreak) },
	},
	{
		ID: "steps_1k", Name: "Step Starter", Icon: "🚶",
		Description: "Accumulate 1,000 steps walking to prayer",
		Requirement: "1,000 steps", Target: 1000,
		extract: func(s model.WalkingStats) float64 { return float64(s.TotalSteps) },
	},
	{
		ID: "steps_10k", Name: "Step Master", Icon: "⭐",
		Description: "Accumulate 10,000 steps walking to prayer",
		Requirement: "10,000 steps", Target: 10000,
		extract: func(s model.WalkingStats) float64 { return float64(s.TotalSteps) },
	},
	{
		ID: "steps_100k", Name: "Step Legend", Icon: "🏆",
		Description: "Accumulate 100,000 steps walking to prayer",
		Requirement: "100,000 steps", Target: 100000,
		extract: func(s model.WalkingStats) float64 { return float64(s.TotalSteps) },
	},
	{
		ID: "all_prayers_day", Name: "Full Day of Prayer", Icon: "🕌",
		Description: "Walk to five different prayers in a single day",
		Requirement: "5 prayers in one day", Target: 5,
		extract: func(s model.WalkingStats) float64 { return float64(s.MaxPrayersInOneDay) },
	},
	{
		ID: "fajr_10", Name: "Dawn Devotee", Icon: "🌅",
		Description: "Walk to Fajr prayer 10 times",
		Requirement: "10 Fajr walks", Target: 10,
		extract: func(s model.WalkingStats) float64 { return float64(s.WalksByPrayer[model.PrayerFajr]) },
	},
	{
		ID: "isha_10", Name: "Night Walker", Icon: "✨",
		Description: "Walk to Isha prayer 10 times",
		Requirement: "10 Isha walks", Target: 10,
		extract: func(s model.WalkingStats) float64 { return float64(s.WalksByPrayer[model.PrayerIsha]) },
	},
	{
		ID: "jumuah_4", Name: "Jumuah Regular", Icon: "🤲",
		Description: "Walk to Jumuah prayer 4 times",
		Requirement: "4 Jumuah walks", Target: 4,
		extract: func(s model.WalkingStats) float64 { return float64(s.WalksByPrayer[model.PrayerJumuah]) },
	},
	{
		ID: "walks_10", Name: "Regular Visitor", Icon: "🏠",
		Description: "Complete 10 walks to the mosque",
		Requirement: "10 walks", Target: 10,
		extract: func(s model.WalkingStats) float64 { return float64(s.TotalWalks) },
	},
	{
		ID: "walks_50", Name: "Mosque Companion", Icon: "💚",
		Description: "Complete 50 walks to the mosque",
		Requirement: "50 walks", Target: 50,
		extract: func(s model.WalkingStats) float64 { return float64(s.TotalWalks) },
	},
	{
		ID: "hasanat_10k", Name: "Hasanat Collector", Icon: "💎",
		Description: "Accumulate 10,000 hasanat from walking",
		Requirement: "10,000 hasanat", Target: 10000,
		extract: func(s model.WalkingStats) float64 { return float64(s.TotalHasanat) },
	},
	{
		ID: "distance_5km", Name: "Five Kilometers", Icon: "🛤️",
		Description: "Walk a cumulative 5 km to prayer",
		Requirement: "5 km total", Target: 5,
		extract: func(s model.WalkingStats) float64 { return s.TotalDistance },
	},
	{
		ID: "marathon_42km", Name: "Marathon to the Mosque", Icon: "🎖️",
		Description: "Walk a cumulative marathon distance to prayer",
		Requirement: "42 km total", Target: 42,
		extract: func(s model.WalkingStats) float64 { return s.TotalDistance },
	},
}

// BadgeService evaluates walking stats against the badge table and keeps the
// durable first-earned marks
type BadgeService struct {
	repo   BadgeRepositoryInterface
	logger *zap.Logger
	now    func() time.Time
}

// NewBadgeService creates a new BadgeService
func NewBadgeService(repo BadgeRepositoryInterface, logger *zap.Logger) *BadgeService {
	return &BadgeService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// GetBadges computes progress for all badges against the given stats. Badges
// crossing their threshold for the first time get their earned timestamp
// persisted as a side effect; repeated calls with the same stats are
// idempotent.
func (s *BadgeService) GetBadges(ctx context.Context, stats model.WalkingStats) ([]model.BadgeProgress, error) {
	progress, _, err := s.evaluate(ctx, stats)
	return progress, err
}

// GetNewlyEarnedBadges evaluates the stats and returns exactly the badges
// whose earned status flipped in this call
func (s *BadgeService) GetNewlyEarnedBadges(ctx context.Context, stats model.WalkingStats) ([]model.BadgeProgress, error) {
	_, newly, err := s.evaluate(ctx, stats)
	return newly, err
}

func (s *BadgeService) evaluate(ctx context.Context, stats model.WalkingStats) ([]model.BadgeProgress, []model.BadgeProgress, error) {
	earned, err := s.repo.EarnedMap(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load earned badges: %w", err)
	}

	var crossedIDs []string
	for _, def := range badgeDefinitions {
		if def.extract(stats) >= def.Target {
			crossedIDs = append(crossedIDs, def.ID)
		}
	}

	evaluatedAt := s.now()
	newlyIDs, err := s.repo.MarkEarned(ctx, crossedIDs, evaluatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to record earned badges: %w", err)
	}

	newlySet := make(map[string]bool, len(newlyIDs))
	for _, id := range newlyIDs {
		earned[id] = evaluatedAt
		newlySet[id] = true
	}

	if len(newlyIDs) > 0 {
		s.logger.Info("badges newly earned", zap.Strings("badge_ids", newlyIDs))
	}

	progress := make([]model.BadgeProgress, 0, len(badgeDefinitions))
	var newly []model.BadgeProgress

	for _, def := range badgeDefinitions {
		current := def.extract(stats)
		if current > def.Target {
			current = def.Target
		}

		percent := 100 * current / def.Target
		if percent > 100 {
			percent = 100
		}
		if percent < 0 {
			percent = 0
		}

		badge := model.Badge{
			ID:          def.ID,
			Name:        def.Name,
			Description: def.Description,
			Icon:        def.Icon,
			Requirement: def.Requirement,
		}
		if at, ok := earned[def.ID]; ok {
			badge.Earned = true
			earnedAt := at
			badge.EarnedDate = &earnedAt
		}

		p := model.BadgeProgress{
			Badge:   badge,
			Current: current,
			Target:  def.Target,
			Percent: percent,
		}
		progress = append(progress, p)

		if newlySet[def.ID] {
			newly = append(newly, p)
		}
	}

	return progress, newly, nil
}
