package analysis

import (
	"errors"
	"time"
)

// ErrInvalidPeriod is returned when the start date is after the end date
var ErrInvalidPeriod = errors.New("start date is after end date")

// Severity classifies how urgent an insight is
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityPositive Severity = "positive"
	SeverityWarning  Severity = "warning"
	SeverityAlert    Severity = "alert"
)

// Trend is the direction a metric is moving in
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

// Insight is an advisory derived from the analysis results
type Insight struct {
	Title           string
	Description     string
	Severity        Severity
	Category        string // "activity", "stress", "recovery"
	Evidence        map[string]float64
	Recommendations []string
}

// DailyLoad is the aggregated training load for a single calendar day.
// Rest days carry an explicit zero so that EMA decay sees every day.
type DailyLoad struct {
	Date time.Time
	Load float64
}

// TrainingStressState models fatigue/fitness/form from daily loads
type TrainingStressState struct {
	ATL      float64  // Acute Training Load (7-day EMA) - "Fatigue"
	CTL      float64  // Chronic Training Load (42-day EMA) - "Fitness"
	TSB      float64  // Training Stress Balance (CTL - ATL) - "Form"
	Monotony *float64 // mean/stdev of daily loads; nil with < 7 days of data
	Strain   float64  // weekly load x monotony; 0 when monotony is nil
	// Confidence is the share of total load that came from device
	// measurements rather than duration-based estimates, weighted by
	// load magnitude (0.0-1.0).
	Confidence float64
}

// SportSummary aggregates activities of one sport over the period
type SportSummary struct {
	Sport              string
	Count              int
	TotalDistanceKm    float64
	TotalDurationHours float64
	AvgSpeedKmh        *float64 // nil when distance or duration is zero
	AvgHeartrate       *float64 // nil when no activity carried HR
	MaxTrainingEffect  float64
	EfficiencyIndex    *float64 // (speed/HR)*100; nil when either is non-positive
}

// Intensity band names, keyed off aerobic training effect
const (
	BandRecovery        = "Recovery"         // 0.0-1.9
	BandBase            = "Base"             // 2.0-2.9
	BandImproving       = "Improving"        // 3.0-3.9
	BandHighlyImproving = "Highly Improving" // 4.0-4.4
	BandOverreaching    = "Overreaching"     // 4.5-5.0
)

// IntensityBands lists the bands in ascending effort order
var IntensityBands = []string{
	BandRecovery, BandBase, BandImproving, BandHighlyImproving, BandOverreaching,
}

// TrainingResult is the full output of the training load engine
type TrainingResult struct {
	PeriodStart time.Time
	PeriodEnd   time.Time

	TotalActivities    int
	TotalDurationHours float64
	TotalDistanceKm    float64
	TotalCalories      int

	Stress     TrainingStressState
	DailyLoads []DailyLoad // analysis period only, one entry per day

	SportSummaries        map[string]SportSummary
	AvgAerobicEffect      float64
	AvgAnaerobicEffect    float64
	IntensityDistribution map[string]float64 // band -> percent of activities

	WeeklyVolumeTrend Trend
	CurrentWeekLoad   float64
	PreviousWeekLoad  float64
}

// StressLoadSummary is cumulative stress as area under the curve
type StressLoadSummary struct {
	PeriodMinutes int
	TotalLoad     float64 // level-minutes / 60 ("stress points")
	AvgIntensity  float64
	PeakLoadHour  *int // hour of day with the highest load; nil without samples
}

// HourlyStressPattern is the aggregate for one of-24 hour bucket
type HourlyStressPattern struct {
	Hour        int
	AvgLevel    float64
	SampleCount int
	BandShares  map[string]float64 // "low"/"medium"/"high"/"very_high" -> percent
}

// DailyStress is the mean positive stress level for one day
type DailyStress struct {
	Date     time.Time
	AvgLevel float64
}

// RecoveryWindow describes post-activity stress behavior.
// A nil RecoveryMinutes means stress never returned to baseline inside
// the observation window, which is a signal in itself, not missing data.
type RecoveryWindow struct {
	ActivityID        string
	Sport             string
	ActivityEnd       time.Time
	PreActivityStress float64
	PeakPostStress    float64
	WindowLoad        float64
	RecoveryMinutes   *int
}

// StressResult is the full output of the stress load engine
type StressResult struct {
	PeriodStart time.Time
	PeriodEnd   time.Time

	Load     StressLoadSummary
	Baseline float64

	AvgLevel float64
	Avg7d    *float64
	Avg30d   *float64
	Trend    Trend

	// Share of positive samples per band, in percent
	LowPct      float64 // <= 25
	MediumPct   float64 // 26-50
	HighPct     float64 // 51-75
	VeryHighPct float64 // > 75

	Hourly      []HourlyStressPattern // always 24 entries
	WeekdayAvg  map[time.Weekday]float64
	PeakHour    *int
	CalmestHour *int

	Windows            []RecoveryWindow
	AvgRecoveryMinutes *float64
	RecoveryEfficiency *float64 // nil without any recovery windows

	DailyAvg []DailyStress
}

// ACWRZone is the injury-risk zone for the acute:chronic workload ratio
type ACWRZone string

const (
	ZoneUndertrained ACWRZone = "undertrained" // < 0.8
	ZoneOptimal      ACWRZone = "optimal"      // 0.8-1.3
	ZoneCaution      ACWRZone = "caution"      // 1.3-1.5
	ZoneHighRisk     ACWRZone = "high_risk"    // > 1.5
	ZoneUnknown      ACWRZone = "unknown"      // no chronic load data
)

// RecoveryResult is the full output of the recovery score engine
type RecoveryResult struct {
	PeriodStart time.Time
	PeriodEnd   time.Time

	Score int // 0-100 composite
	Trend Trend

	RHRBaseline  *float64 // nil without any RHR history
	CurrentRHR   *float64
	RHRDeviation float64 // bpm above (+) or below (-) baseline

	BBCharged     float64 // average overnight recharge
	AvgSleepScore *float64

	WeeklyLoad float64
	ACWR       *float64
	Zone       ACWRZone

	DaysAnalyzed     int
	HighRecoveryDays int
	LowRecoveryDays  int
}

// dateOf truncates a timestamp to midnight in its own location
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// dayKey formats a date for map lookups
func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
