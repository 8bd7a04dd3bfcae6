package garmin

import "time"

// SamplePoint is one reading in a wellness time series. The API reports
// timestamps in epoch milliseconds.
type SamplePoint struct {
	TimestampMS int64 `json:"timestamp"`
	Value       int   `json:"value"`
}

// Time converts the epoch-millisecond timestamp
func (p SamplePoint) Time() time.Time {
	return time.UnixMilli(p.TimestampMS)
}

// StressDetail is the per-day stress time series
type StressDetail struct {
	CalendarDate string        `json:"calendarDate"` // YYYY-MM-DD
	Values       []SamplePoint `json:"stressValues"`
}

// BodyBatteryPoint is one body battery reading with charge accounting
type BodyBatteryPoint struct {
	TimestampMS int64 `json:"timestamp"`
	Level       int   `json:"level"`
	Charged     *int  `json:"charged"`
	Drained     *int  `json:"drained"`
}

// BodyBatteryDetail is the per-day body battery time series
type BodyBatteryDetail struct {
	CalendarDate string             `json:"calendarDate"`
	Values       []BodyBatteryPoint `json:"bodyBatteryValues"`
}

// HeartRateDetail is the per-day heart rate time series
type HeartRateDetail struct {
	CalendarDate string        `json:"calendarDate"`
	Values       []SamplePoint `json:"heartRateValues"`
}

// DailySummary is the per-day wellness rollup
type DailySummary struct {
	CalendarDate     string   `json:"calendarDate"`
	RestingHeartRate *float64 `json:"restingHeartRate"`
	BodyBatteryCharged *int   `json:"bodyBatteryChargedValue"`
	BodyBatteryDrained *int   `json:"bodyBatteryDrainedValue"`
	BodyBatteryMax   *int     `json:"bodyBatteryHighestValue"`
	AverageStress    *float64 `json:"averageStressLevel"`
	TotalSteps       *int     `json:"totalSteps"`
}

// SleepSummary is the per-night sleep rollup
type SleepSummary struct {
	CalendarDate string `json:"calendarDate"` // wake-up date
	SleepScore   *int   `json:"sleepScore"`
	TotalMinutes *int   `json:"totalSleepMinutes"`
	DeepMinutes  *int   `json:"deepSleepMinutes"`
	RemMinutes   *int   `json:"remSleepMinutes"`
	LightMinutes *int   `json:"lightSleepMinutes"`
}

// Activity is an exercise session summary from the API
type Activity struct {
	ActivityID      string    `json:"activityId"`
	ActivityName    string    `json:"activityName"`
	SportType       string    `json:"sportType"`
	StartTime       time.Time `json:"startTimeGMT"`
	DurationSeconds float64   `json:"durationSeconds"`
	DistanceMeters  float64   `json:"distanceMeters"`
	Calories        *int      `json:"calories"`
	AvgHeartRate    *float64  `json:"averageHeartRate"`
	MaxHeartRate    *float64  `json:"maxHeartRate"`
	AerobicEffect   *float64  `json:"aerobicTrainingEffect"`  // 0-5
	AnaerobicEffect *float64  `json:"anaerobicTrainingEffect"` // 0-5
	TrainingLoad    *float64  `json:"activityTrainingLoad"`
}
