package store

import "time"

// Auth represents OAuth tokens for the wellness API
type Auth struct {
	UserID       int64     `db:"user_id"`
	AccessToken  string    `db:"access_token"`
	RefreshToken string    `db:"refresh_token"`
	ExpiresAt    time.Time `db:"expires_at"`
}

// StressSample is a single stress reading on the device's 0-100 scale.
// Non-positive levels mean the device could not measure (e.g. too active
// to estimate stress); the analysis layer filters them out.
type StressSample struct {
	Timestamp time.Time `db:"timestamp"`
	Level     int       `db:"level"`
}

// BodyBatterySample is a single body battery reading (0-100 energy reserve)
type BodyBatterySample struct {
	Timestamp time.Time `db:"timestamp"`
	Level     int       `db:"level"`
	Charged   *int      `db:"charged"` // cumulative charge delta, nullable
	Drained   *int      `db:"drained"` // cumulative drain delta, nullable
}

// HeartRateSample is a single heart rate reading in bpm
type HeartRateSample struct {
	Timestamp time.Time `db:"timestamp"`
	BPM       int       `db:"bpm"`
}

// DailySummary aggregates one calendar day of wellness data
type DailySummary struct {
	Date      time.Time `db:"date"`       // midnight, local
	RestingHR *float64  `db:"resting_hr"` // bpm, nullable
	BBCharged *int      `db:"bb_charged"` // overnight recharge, nullable
	BBDrained *int      `db:"bb_drained"` // nullable
	BBMax     *int      `db:"bb_max"`     // nullable
	StressAvg *float64  `db:"stress_avg"` // nullable
	Steps     *int      `db:"steps"`      // nullable
}

// SleepSummary aggregates one night of sleep
type SleepSummary struct {
	Date         time.Time `db:"date"`          // wake-up date, midnight local
	SleepScore   *int      `db:"sleep_score"`   // 0-100, nullable
	TotalMinutes *int      `db:"total_minutes"` // nullable
	DeepMinutes  *int      `db:"deep_minutes"`  // nullable
	RemMinutes   *int      `db:"rem_minutes"`   // nullable
	LightMinutes *int      `db:"light_minutes"` // nullable
}

// Activity represents a recorded exercise session
type Activity struct {
	ID              string    `db:"id"`
	Name            string    `db:"name"`
	Sport           string    `db:"sport"`
	StartTime       time.Time `db:"start_time"`
	DurationSec     int       `db:"duration_sec"`
	DistanceKm      float64   `db:"distance_km"`
	Calories        *int      `db:"calories"`         // nullable
	AvgHeartrate    *float64  `db:"avg_heartrate"`    // bpm, nullable
	MaxHeartrate    *float64  `db:"max_heartrate"`    // bpm, nullable
	AerobicEffect   *float64  `db:"aerobic_effect"`   // 0-5, nullable
	AnaerobicEffect *float64  `db:"anaerobic_effect"` // 0-5, nullable
	TrainingLoad    *float64  `db:"training_load"`    // device-measured load, nullable
}

// EndTime returns when the activity finished
func (a Activity) EndTime() time.Time {
	return a.StartTime.Add(time.Duration(a.DurationSec) * time.Second)
}
