package service

import (
	"context"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/masjidwalk/backend/pkg/model"
)

var prayerValues = []model.Prayer{
	model.PrayerFajr, model.PrayerDhuhr, model.PrayerAsr,
	model.PrayerMaghrib, model.PrayerIsha, model.PrayerJumuah,
}

// genWalkLog produces random walk logs spread over the last 60 days
func genWalkLog() gopter.Gen {
	genEntry := gopter.CombineGens(
		gen.IntRange(0, 59),
		gen.IntRange(0, 5),
		gen.IntRange(0, 5000),
	).Map(func(vals []interface{}) model.WalkEntry {
		e := walkOn(vals[0].(int), prayerValues[vals[1].(int)], vals[2].(int))
		return e
	})
	return gen.SliceOf(genEntry)
}

func TestWalkingStatsProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("totals equal the sums over the log", prop.ForAll(
		func(entries []model.WalkEntry) bool {
			stats, err := historyServiceWith(entries).GetWalkingStats(context.Background())
			if err != nil {
				return false
			}

			wantSteps, wantHasanat := 0, 0
			for _, e := range entries {
				wantSteps += e.Steps
				wantHasanat += e.Hasanat
			}
			return stats.TotalWalks == len(entries) &&
				stats.TotalSteps == wantSteps &&
				stats.TotalHasanat == wantHasanat
		},
		genWalkLog(),
	))

	properties.Property("longest streak bounds the current streak", prop.ForAll(
		func(entries []model.WalkEntry) bool {
			stats, err := historyServiceWith(entries).GetWalkingStats(context.Background())
			if err != nil {
				return false
			}
			return stats.LongestStreak >= stats.CurrentStreak
		},
		genWalkLog(),
	))

	properties.Property("non-empty log has a longest streak of at least 1", prop.ForAll(
		func(entries []model.WalkEntry) bool {
			stats, err := historyServiceWith(entries).GetWalkingStats(context.Background())
			if err != nil {
				return false
			}
			if len(entries) == 0 {
				return stats.LongestStreak == 0
			}
			return stats.LongestStreak >= 1
		},
		genWalkLog(),
	))

	properties.Property("per-prayer counts partition the log", prop.ForAll(
		func(entries []model.WalkEntry) bool {
			stats, err := historyServiceWith(entries).GetWalkingStats(context.Background())
			if err != nil {
				return false
			}
			sum := 0
			for _, n := range stats.WalksByPrayer {
				sum += n
			}
			return sum == len(entries)
		},
		genWalkLog(),
	))

	properties.Property("max prayers in one day never exceeds 5", prop.ForAll(
		func(entries []model.WalkEntry) bool {
			stats, err := historyServiceWith(entries).GetWalkingStats(context.Background())
			if err != nil {
				return false
			}
			return stats.MaxPrayersInOneDay >= 0 && stats.MaxPrayersInOneDay <= 5
		},
		genWalkLog(),
	))

	properties.TestingRun(t)
}
