package analysis

import (
	"time"

	"vitals/internal/store"
)

// ACWR risk zone thresholds
const (
	acwrUndertrainedMax = 0.8
	acwrOptimalMax      = 1.3
	acwrCautionMax      = 1.5
)

// Body battery recharge thresholds for day classification
const (
	highRechargeMin = 80
	lowRechargeMax  = 50
)

// RHRBaseline is the mean resting heart rate over the trailing baseline
// window ending at end. Returns nil when no RHR history exists - a
// deviation against a fabricated baseline would be meaningless.
func RHRBaseline(daily []store.DailySummary, end time.Time, p Params) *float64 {
	baselineStart := dateOf(end).AddDate(0, 0, -p.RHRBaselineDays)
	endDay := dateOf(end)

	var sum float64
	var count int
	for _, d := range daily {
		day := dateOf(d.Date)
		if day.Before(baselineStart) || day.After(endDay) {
			continue
		}
		if d.RestingHR != nil && *d.RestingHR > 0 {
			sum += *d.RestingHR
			count++
		}
	}
	if count == 0 {
		return nil
	}
	return floatPtr(sum / float64(count))
}

// ACWR is the acute:chronic workload ratio: mean daily load over the
// acute window divided by mean daily load over the chronic window.
// Returns nil when the chronic window holds no load - the ratio against
// an empty history says nothing about injury risk.
func ACWR(activities []store.Activity, end time.Time, p Params) *float64 {
	endDay := dateOf(end)
	acuteStart := endDay.AddDate(0, 0, -(p.AcuteLoadDays - 1))
	chronicStart := endDay.AddDate(0, 0, -(p.ChronicLoadDays - 1))

	var acuteSum, chronicSum float64
	for _, a := range activities {
		day := dateOf(a.StartTime)
		if day.Before(chronicStart) || day.After(endDay) {
			continue
		}
		load, _ := EstimateLoad(a, p)
		chronicSum += load
		if !day.Before(acuteStart) {
			acuteSum += load
		}
	}
	if chronicSum == 0 {
		return nil
	}

	acute := acuteSum / float64(p.AcuteLoadDays)
	chronic := chronicSum / float64(p.ChronicLoadDays)
	if chronic == 0 {
		return nil
	}
	return floatPtr(acute / chronic)
}

// ACWRZoneOf maps a ratio onto its injury-risk zone
func ACWRZoneOf(ratio *float64) ACWRZone {
	if ratio == nil {
		return ZoneUnknown
	}
	switch {
	case *ratio < acwrUndertrainedMax:
		return ZoneUndertrained
	case *ratio <= acwrOptimalMax:
		return ZoneOptimal
	case *ratio <= acwrCautionMax:
		return ZoneCaution
	default:
		return ZoneHighRisk
	}
}

// RecoveryScore combines RHR deviation, body battery recharge, and sleep
// quality into a 0-100 composite. Each component is clamped to [0,100]
// before weighting. When no RHR history exists the remaining weights are
// renormalized instead of scoring against a made-up baseline.
func RecoveryScore(rhrDeviation float64, hasRHR bool, bbCharged float64, sleepScore *float64, p Params) int {
	bbComponent := clamp(bbCharged, 0, 100)

	sleepComponent := p.NeutralSleepScore
	if sleepScore != nil {
		sleepComponent = clamp(*sleepScore, 0, 100)
	}

	var score float64
	if hasRHR {
		rhrComponent := clamp(100-5*rhrDeviation, 0, 100)
		score = rhrComponent*p.RHRWeight + bbComponent*p.BBWeight + sleepComponent*p.SleepWeight
	} else {
		total := p.BBWeight + p.SleepWeight
		score = bbComponent*p.BBWeight/total + sleepComponent*p.SleepWeight/total
	}
	return int(clamp(score, 0, 100))
}

// AnalyzeRecovery runs the recovery score engine over [start, end].
// Daily summaries and activities should cover the longer of the RHR
// baseline and chronic load lookbacks before start.
func AnalyzeRecovery(daily []store.DailySummary, sleeps []store.SleepSummary, activities []store.Activity, start, end time.Time, p Params) (*RecoveryResult, error) {
	start = dateOf(start)
	end = dateOf(end)
	if start.After(end) {
		return nil, ErrInvalidPeriod
	}

	result := &RecoveryResult{
		PeriodStart: start,
		PeriodEnd:   end,
		Trend:       TrendStable,
		Zone:        ZoneUnknown,
	}

	var periodDaily []store.DailySummary
	for _, d := range daily {
		day := dateOf(d.Date)
		if !day.Before(start) && !day.After(end) {
			periodDaily = append(periodDaily, d)
		}
	}
	result.DaysAnalyzed = len(periodDaily)

	result.RHRBaseline = RHRBaseline(daily, end, p)

	var rhrSum float64
	var rhrCount int
	for _, d := range periodDaily {
		if d.RestingHR != nil && *d.RestingHR > 0 {
			rhrSum += *d.RestingHR
			rhrCount++
		}
	}
	hasRHR := rhrCount > 0 && result.RHRBaseline != nil
	if rhrCount > 0 {
		result.CurrentRHR = floatPtr(rhrSum / float64(rhrCount))
	}
	if hasRHR {
		result.RHRDeviation = *result.CurrentRHR - *result.RHRBaseline
	}

	var bbSum float64
	var bbCount int
	for _, d := range periodDaily {
		if d.BBCharged != nil {
			bbSum += float64(*d.BBCharged)
			bbCount++
			if *d.BBCharged >= highRechargeMin {
				result.HighRecoveryDays++
			}
			if *d.BBCharged < lowRechargeMax {
				result.LowRecoveryDays++
			}
		}
	}
	// Neutral recharge when body battery never synced; keeps the score
	// defined without rewarding or punishing missing data.
	result.BBCharged = 50
	if bbCount > 0 {
		result.BBCharged = bbSum / float64(bbCount)
	}

	var sleepSum float64
	var sleepCount int
	for _, s := range sleeps {
		day := dateOf(s.Date)
		if day.Before(start) || day.After(end) {
			continue
		}
		if s.SleepScore != nil && *s.SleepScore > 0 {
			sleepSum += float64(*s.SleepScore)
			sleepCount++
		}
	}
	if sleepCount > 0 {
		result.AvgSleepScore = floatPtr(sleepSum / float64(sleepCount))
	}

	result.Score = RecoveryScore(result.RHRDeviation, hasRHR, result.BBCharged, result.AvgSleepScore, p)

	weekStart := end.AddDate(0, 0, -6)
	for _, a := range activities {
		day := dateOf(a.StartTime)
		if !day.Before(weekStart) && !day.After(end) {
			load, _ := EstimateLoad(a, p)
			result.WeeklyLoad += load
		}
	}

	result.ACWR = ACWR(activities, end, p)
	result.Zone = ACWRZoneOf(result.ACWR)
	result.Trend = recoveryTrend(periodDaily)

	return result, nil
}

// recoveryTrend compares RHR between the first and second half of the
// period; a falling RHR reads as improving recovery.
func recoveryTrend(periodDaily []store.DailySummary) Trend {
	if len(periodDaily) < 7 {
		return TrendStable
	}

	mid := len(periodDaily) / 2
	firstAvg, firstOK := avgRestingHR(periodDaily[:mid])
	secondAvg, secondOK := avgRestingHR(periodDaily[mid:])
	if !firstOK || !secondOK {
		return TrendStable
	}

	switch {
	case secondAvg < firstAvg-2:
		return TrendImproving
	case secondAvg > firstAvg+2:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func avgRestingHR(daily []store.DailySummary) (float64, bool) {
	var sum float64
	var count int
	for _, d := range daily {
		if d.RestingHR != nil && *d.RestingHR > 0 {
			sum += *d.RestingHR
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}
