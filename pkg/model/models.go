package model

import "time"

// Prayer identifies which prayer a walk was taken for
type Prayer string

const (
	PrayerFajr    Prayer = "fajr"
	PrayerDhuhr   Prayer = "dhuhr"
	PrayerAsr     Prayer = "asr"
	PrayerMaghrib Prayer = "maghrib"
	PrayerIsha    Prayer = "isha"
	PrayerJumuah  Prayer = "jumuah"
)

// ValidPrayers is the canonical set of accepted prayer identifiers
var ValidPrayers = map[Prayer]bool{
	PrayerFajr:    true,
	PrayerDhuhr:   true,
	PrayerAsr:     true,
	PrayerMaghrib: true,
	PrayerIsha:    true,
	PrayerJumuah:  true,
}

// AccelerationSample is one instant of 3-axis accelerometer data in m/s²,
// gravity included (~9.8 m/s² magnitude at rest)
type AccelerationSample struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// WalkEntry represents one completed walk to the mosque. Entries are
// immutable once created; they are only ever appended or deleted by id.
type WalkEntry struct {
	ID             string    `json:"id"`
	Date           time.Time `json:"date"`
	MosqueName     string    `json:"mosque_name"`
	DistanceKm     float64   `json:"distance_km"`
	Steps          int       `json:"steps"`
	WalkingTimeMin float64   `json:"walking_time_min"`
	Hasanat        int       `json:"hasanat"`
	Prayer         Prayer    `json:"prayer"`
}

// WalkingStats is derived on demand from the full walk log and is never
// persisted; it is always recomputable from the entries alone.
type WalkingStats struct {
	TotalWalks        int            `json:"total_walks"`
	TotalSteps        int            `json:"total_steps"`
	TotalDistance     float64        `json:"total_distance"`
	TotalHasanat      int            `json:"total_hasanat"`
	CurrentStreak     int            `json:"current_streak"`
	LongestStreak     int            `json:"longest_streak"`
	WalksByPrayer     map[Prayer]int `json:"walks_by_prayer"`
	MaxPrayersInOneDay int           `json:"max_prayers_in_one_day"`
}

// Badge describes a single achievement with its earned status
type Badge struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Requirement string     `json:"requirement"`
	Earned      bool       `json:"earned"`
	EarnedDate  *time.Time `json:"earned_date,omitempty"`
}

// BadgeProgress pairs a badge with its progress toward the target.
// Current is capped at Target and Percent is always within [0, 100].
type BadgeProgress struct {
	Badge   Badge   `json:"badge"`
	Current float64 `json:"current"`
	Target  float64 `json:"target"`
	Percent float64 `json:"percent"`
}
