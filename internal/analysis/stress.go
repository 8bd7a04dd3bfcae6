package analysis

import (
	"sort"
	"time"

	"vitals/internal/store"
)

// Stress category thresholds on the device's 0-100 scale
const (
	stressLowMax    = 25
	stressMediumMax = 50
	stressHighMax   = 75
)

// stressBand returns the band name for a positive stress level
func stressBand(level int) string {
	switch {
	case level <= stressLowMax:
		return "low"
	case level <= stressMediumMax:
		return "medium"
	case level <= stressHighMax:
		return "high"
	default:
		return "very_high"
	}
}

// StressLoad computes cumulative stress as area under the curve over
// [from, to]. Single forward pass over time-sorted samples: each sample
// contributes level x minutes-to-next-sample, with the gap capped so a
// sensor-off stretch cannot inflate the total. The final sample counts
// for one minute. Non-positive levels are unmeasured and skipped.
func StressLoad(samples []store.StressSample, from, to time.Time, p Params) StressLoadSummary {
	var valid []store.StressSample
	for _, s := range samples {
		if s.Level > 0 && !s.Timestamp.Before(from) && !s.Timestamp.After(to) {
			valid = append(valid, s)
		}
	}
	if len(valid) == 0 {
		return StressLoadSummary{}
	}

	sort.Slice(valid, func(i, j int) bool {
		return valid[i].Timestamp.Before(valid[j].Timestamp)
	})

	var weighted, minutes float64
	hourly := make(map[int]float64)

	for i, s := range valid {
		delta := 1.0
		if i < len(valid)-1 {
			gap := valid[i+1].Timestamp.Sub(s.Timestamp).Minutes()
			delta = min(gap, p.GapCapMinutes)
		}

		contribution := float64(s.Level) * delta
		weighted += contribution
		minutes += delta
		hourly[s.Timestamp.Hour()] += contribution
	}

	summary := StressLoadSummary{
		PeriodMinutes: int(minutes),
		TotalLoad:     weighted / 60.0,
	}
	if minutes > 0 {
		summary.AvgIntensity = weighted / minutes
	}

	peakHour, peakLoad := -1, 0.0
	for hour, load := range hourly {
		if load > peakLoad || (load == peakLoad && peakHour >= 0 && hour < peakHour) {
			peakHour, peakLoad = hour, load
		}
	}
	if peakHour >= 0 {
		summary.PeakLoadHour = intPtr(peakHour)
	}
	return summary
}

// PersonalBaseline is the 25th percentile of resting-period stress over
// the trailing lookback window. Resting means the sample's local hour
// falls in [RestingStartHour, RestingEndHour) - a heuristic that assumes
// conventional sleep hours and is knowingly wrong for shift workers.
// Falls back to the configured default when no resting samples exist.
func PersonalBaseline(samples []store.StressSample, end time.Time, p Params) float64 {
	baselineStart := dateOf(end).AddDate(0, 0, -p.BaselineLookbackDays)
	endOfDay := dateOf(end).AddDate(0, 0, 1)

	var resting []int
	for _, s := range samples {
		if s.Level <= 0 {
			continue
		}
		if s.Timestamp.Before(baselineStart) || !s.Timestamp.Before(endOfDay) {
			continue
		}
		hour := s.Timestamp.Hour()
		if hour >= p.RestingStartHour && hour < p.RestingEndHour {
			resting = append(resting, s.Level)
		}
	}
	if len(resting) == 0 {
		return p.DefaultBaseline
	}

	sort.Ints(resting)
	idx := len(resting) * p.BaselinePercentile / 100
	if idx < 0 {
		idx = 0
	}
	if idx > len(resting)-1 {
		idx = len(resting) - 1
	}
	return float64(resting[idx])
}

// RecoveryWindows correlates each activity against the stress series:
// mean stress in the 30 minutes before the start, then the 2-hour
// observation window after the end. RecoveryMinutes is the time until
// the first post-activity sample at or below baseline + buffer, nil if
// stress never got there inside the window. Activities with no
// post-window samples are skipped entirely.
func RecoveryWindows(activities []store.Activity, samples []store.StressSample, baseline float64, p Params) []RecoveryWindow {
	if len(activities) == 0 || len(samples) == 0 {
		return nil
	}

	sorted := make([]store.StressSample, 0, len(samples))
	for _, s := range samples {
		if s.Level > 0 {
			sorted = append(sorted, s)
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	target := baseline + p.RecoveryBuffer

	var windows []RecoveryWindow
	for _, a := range activities {
		if a.DurationSec <= 0 {
			continue
		}
		end := a.EndTime()
		preStart := a.StartTime.Add(-time.Duration(p.PreActivityMin) * time.Minute)
		postEnd := end.Add(time.Duration(p.RecoveryWindowMin) * time.Minute)

		preStress := baseline
		var preSum float64
		var preCount int
		for _, s := range sorted {
			if !s.Timestamp.Before(preStart) && s.Timestamp.Before(a.StartTime) {
				preSum += float64(s.Level)
				preCount++
			}
		}
		if preCount > 0 {
			preStress = preSum / float64(preCount)
		}

		var post []store.StressSample
		for _, s := range sorted {
			if !s.Timestamp.Before(end) && !s.Timestamp.After(postEnd) {
				post = append(post, s)
			}
		}
		if len(post) == 0 {
			continue
		}

		peak := 0
		var recoveryMinutes *int
		for _, s := range post {
			if s.Level > peak {
				peak = s.Level
			}
			if recoveryMinutes == nil && float64(s.Level) <= target {
				recoveryMinutes = intPtr(int(s.Timestamp.Sub(end).Minutes()))
			}
		}

		windows = append(windows, RecoveryWindow{
			ActivityID:        a.ID,
			Sport:             a.Sport,
			ActivityEnd:       end,
			PreActivityStress: preStress,
			PeakPostStress:    float64(peak),
			WindowLoad:        StressLoad(post, end, postEnd, p).TotalLoad,
			RecoveryMinutes:   recoveryMinutes,
		})
	}
	return windows
}

// RecoveryEfficiency maps average recovery time onto a 0-100 score.
// Windows that never resolved are charged the full observation window,
// the worst observable case; they are never dropped.
func RecoveryEfficiency(windows []RecoveryWindow, p Params) *float64 {
	if len(windows) == 0 {
		return nil
	}

	worst := float64(p.RecoveryWindowMin)
	var sum float64
	for _, w := range windows {
		if w.RecoveryMinutes != nil {
			sum += float64(*w.RecoveryMinutes)
		} else {
			sum += worst
		}
	}
	avg := sum / float64(len(windows))

	return floatPtr(clamp(100-(avg/worst)*100, 0, 100))
}

// AnalyzeStress runs the stress load engine over [start, end].
// Samples should cover [start - baseline lookback, end] so the personal
// baseline has its trailing window.
func AnalyzeStress(samples []store.StressSample, activities []store.Activity, start, end time.Time, p Params) (*StressResult, error) {
	start = dateOf(start)
	end = dateOf(end)
	if start.After(end) {
		return nil, ErrInvalidPeriod
	}

	endOfPeriod := end.AddDate(0, 0, 1).Add(-time.Second)

	result := &StressResult{
		PeriodStart: start,
		PeriodEnd:   end,
		Trend:       TrendStable,
		WeekdayAvg:  map[time.Weekday]float64{},
	}

	result.Baseline = PersonalBaseline(samples, end, p)

	var period []store.StressSample
	for _, s := range samples {
		if s.Level > 0 && !s.Timestamp.Before(start) && !s.Timestamp.After(endOfPeriod) {
			period = append(period, s)
		}
	}

	result.Load = StressLoad(period, start, endOfPeriod, p)
	result.Hourly = hourlyPatterns(period)
	result.WeekdayAvg = weekdayAverages(period)
	result.PeakHour, result.CalmestHour = extremeHours(result.Hourly)
	result.DailyAvg = dailyAverages(period, start, end)

	if len(period) > 0 {
		counts := map[string]int{}
		var sum float64
		for _, s := range period {
			counts[stressBand(s.Level)]++
			sum += float64(s.Level)
		}
		total := float64(len(period))
		result.AvgLevel = sum / total
		result.LowPct = float64(counts["low"]) / total * 100
		result.MediumPct = float64(counts["medium"]) / total * 100
		result.HighPct = float64(counts["high"]) / total * 100
		result.VeryHighPct = float64(counts["very_high"]) / total * 100
	}

	result.Avg7d = trailingAverage(period, end, 7)
	result.Avg30d = trailingAverage(period, end, 30)
	if result.Avg7d != nil && result.Avg30d != nil {
		diff := *result.Avg7d - *result.Avg30d
		switch {
		case diff > 3:
			result.Trend = TrendDeclining // more stress lately
		case diff < -3:
			result.Trend = TrendImproving
		}
	}

	// Recovery windows see the full sample set so a window straddling
	// the period boundary still resolves.
	var periodActivities []store.Activity
	for _, a := range activities {
		day := dateOf(a.StartTime)
		if !day.Before(start) && !day.After(end) {
			periodActivities = append(periodActivities, a)
		}
	}
	result.Windows = RecoveryWindows(periodActivities, samples, result.Baseline, p)
	result.RecoveryEfficiency = RecoveryEfficiency(result.Windows, p)

	var recSum float64
	var recCount int
	for _, w := range result.Windows {
		if w.RecoveryMinutes != nil {
			recSum += float64(*w.RecoveryMinutes)
			recCount++
		}
	}
	if recCount > 0 {
		result.AvgRecoveryMinutes = floatPtr(recSum / float64(recCount))
	}

	return result, nil
}

func hourlyPatterns(samples []store.StressSample) []HourlyStressPattern {
	buckets := make(map[int][]int)
	for _, s := range samples {
		buckets[s.Timestamp.Hour()] = append(buckets[s.Timestamp.Hour()], s.Level)
	}

	patterns := make([]HourlyStressPattern, 24)
	for hour := 0; hour < 24; hour++ {
		values := buckets[hour]
		pattern := HourlyStressPattern{Hour: hour, BandShares: map[string]float64{}}
		if len(values) > 0 {
			counts := map[string]int{}
			var sum float64
			for _, v := range values {
				sum += float64(v)
				counts[stressBand(v)]++
			}
			pattern.SampleCount = len(values)
			pattern.AvgLevel = sum / float64(len(values))
			for band, count := range counts {
				pattern.BandShares[band] = float64(count) / float64(len(values)) * 100
			}
		}
		patterns[hour] = pattern
	}
	return patterns
}

func weekdayAverages(samples []store.StressSample) map[time.Weekday]float64 {
	sums := make(map[time.Weekday]float64)
	counts := make(map[time.Weekday]int)
	for _, s := range samples {
		wd := s.Timestamp.Weekday()
		sums[wd] += float64(s.Level)
		counts[wd]++
	}

	averages := make(map[time.Weekday]float64, 7)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if counts[wd] > 0 {
			averages[wd] = sums[wd] / float64(counts[wd])
		} else {
			averages[wd] = 0
		}
	}
	return averages
}

func extremeHours(patterns []HourlyStressPattern) (peak, calmest *int) {
	for i := range patterns {
		p := patterns[i]
		if p.SampleCount == 0 {
			continue
		}
		if peak == nil || p.AvgLevel > patterns[*peak].AvgLevel {
			peak = intPtr(p.Hour)
		}
		if calmest == nil || p.AvgLevel < patterns[*calmest].AvgLevel {
			calmest = intPtr(p.Hour)
		}
	}
	return peak, calmest
}

func dailyAverages(samples []store.StressSample, start, end time.Time) []DailyStress {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, s := range samples {
		key := dayKey(dateOf(s.Timestamp))
		sums[key] += float64(s.Level)
		counts[key]++
	}

	var daily []DailyStress
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := dayKey(d)
		if counts[key] == 0 {
			continue
		}
		daily = append(daily, DailyStress{Date: d, AvgLevel: sums[key] / float64(counts[key])})
	}
	return daily
}

func trailingAverage(samples []store.StressSample, end time.Time, days int) *float64 {
	cutoff := dateOf(end).AddDate(0, 0, -days+1)
	var sum float64
	var count int
	for _, s := range samples {
		if !dateOf(s.Timestamp).Before(cutoff) {
			sum += float64(s.Level)
			count++
		}
	}
	if count == 0 {
		return nil
	}
	return floatPtr(sum / float64(count))
}
