package analysis

import (
	"math"
	"sort"
	"time"

	"vitals/internal/store"
)

// EstimateLoad returns the training load for an activity.
// A device-measured load is used verbatim; otherwise the load is
// estimated as duration_minutes * sport_factor and flagged as such.
func EstimateLoad(a store.Activity, p Params) (load float64, estimated bool) {
	if a.TrainingLoad != nil && *a.TrainingLoad > 0 {
		return *a.TrainingLoad, false
	}
	if a.DurationSec <= 0 {
		return 0, true
	}
	durationMin := float64(a.DurationSec) / 60.0
	return durationMin * p.loadFactor(a.Sport), true
}

// BuildDailyLoads builds a continuous per-day load series over
// [start, end]. Every calendar day gets an entry; rest days stay at
// zero. The completeness matters: a missing day would understate decay
// in the EMA and corrupt ATL/CTL downstream.
func BuildDailyLoads(activities []store.Activity, start, end time.Time, p Params) []DailyLoad {
	start = dateOf(start)
	end = dateOf(end)

	byDay := make(map[string]float64)
	for _, a := range activities {
		day := dayKey(dateOf(a.StartTime))
		load, _ := EstimateLoad(a, p)
		byDay[day] += load
	}

	var series []DailyLoad
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		series = append(series, DailyLoad{Date: d, Load: byDay[dayKey(d)]})
	}
	return series
}

// ema computes an exponential moving average over an ordered series,
// seeded with the first value: alpha = 2/(window+1).
func ema(values []float64, window int) float64 {
	if len(values) == 0 {
		return 0
	}
	alpha := 2.0 / (float64(window) + 1.0)
	avg := values[0]
	for _, v := range values[1:] {
		avg = alpha*v + (1-alpha)*avg
	}
	return avg
}

// Monotony is mean/stdev of daily loads. It needs at least minDays
// points to mean anything; with fewer it returns nil rather than a
// number that looks measured. All-identical loads cap at 10.
func Monotony(dailyLoads []float64, minDays int) *float64 {
	if len(dailyLoads) < minDays {
		return nil
	}

	var sum float64
	for _, v := range dailyLoads {
		sum += v
	}
	mean := sum / float64(len(dailyLoads))
	if mean == 0 {
		return floatPtr(0)
	}

	var variance float64
	for _, v := range dailyLoads {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(dailyLoads))
	stdev := math.Sqrt(variance)

	if stdev == 0 {
		return floatPtr(10.0)
	}
	return floatPtr(mean / stdev)
}

// Strain is weekly load x monotony; zero when monotony is undefined.
// The zero is a sentinel for "no variability signal", not "unknown".
func Strain(weeklyLoad float64, monotony *float64) float64 {
	if monotony == nil {
		return 0
	}
	return weeklyLoad * *monotony
}

// IntensityBand classifies an aerobic training effect value.
// Values that fall in none of the bands (e.g. 1.95) default to Base.
func IntensityBand(trainingEffect float64) string {
	switch {
	case trainingEffect >= 0.0 && trainingEffect <= 1.9:
		return BandRecovery
	case trainingEffect >= 2.0 && trainingEffect <= 2.9:
		return BandBase
	case trainingEffect >= 3.0 && trainingEffect <= 3.9:
		return BandImproving
	case trainingEffect >= 4.0 && trainingEffect <= 4.4:
		return BandHighlyImproving
	case trainingEffect >= 4.5 && trainingEffect <= 5.0:
		return BandOverreaching
	default:
		return BandBase
	}
}

// AnalyzeTraining runs the training load engine over [start, end].
// Activities should cover [start - CTL window, end] so the chronic EMA
// has its full lookback; anything outside that range is ignored.
func AnalyzeTraining(activities []store.Activity, start, end time.Time, p Params) (*TrainingResult, error) {
	start = dateOf(start)
	end = dateOf(end)
	if start.After(end) {
		return nil, ErrInvalidPeriod
	}

	result := &TrainingResult{
		PeriodStart:           start,
		PeriodEnd:             end,
		SportSummaries:        map[string]SportSummary{},
		IntensityDistribution: emptyDistribution(),
		WeeklyVolumeTrend:     TrendStable,
		Stress:                TrainingStressState{Confidence: 1.0},
	}

	lookbackStart := start.AddDate(0, 0, -p.CTLWindowDays)

	var inRange, inPeriod []store.Activity
	for _, a := range activities {
		day := dateOf(a.StartTime)
		if day.Before(lookbackStart) || day.After(end) {
			continue
		}
		inRange = append(inRange, a)
		if !day.Before(start) {
			inPeriod = append(inPeriod, a)
		}
	}

	// Full daily series including lookback, plus measured/estimated split
	// for the confidence score. Confidence is weighted by load magnitude:
	// one big estimated effort costs more than several small ones.
	fullSeries := BuildDailyLoads(inRange, lookbackStart, end, p)
	var totalLoad, measuredLoad float64
	for _, a := range inRange {
		load, estimated := EstimateLoad(a, p)
		totalLoad += load
		if !estimated {
			measuredLoad += load
		}
	}
	confidence := 1.0
	if totalLoad > 0 {
		confidence = measuredLoad / totalLoad
	}

	loads := make([]float64, len(fullSeries))
	for i, dl := range fullSeries {
		loads[i] = dl.Load
	}

	atl := ema(loads, p.ATLWindowDays)
	ctl := ema(loads, p.CTLWindowDays)

	// Monotony and strain over the analysis period only
	var periodLoads []float64
	for _, dl := range fullSeries {
		if !dl.Date.Before(start) {
			result.DailyLoads = append(result.DailyLoads, dl)
			periodLoads = append(periodLoads, dl.Load)
		}
	}
	monotony := Monotony(periodLoads, p.MinMonotonyDays)

	weekLoads := periodLoads
	if len(weekLoads) > 7 {
		weekLoads = weekLoads[len(weekLoads)-7:]
	}
	var weeklyLoad float64
	for _, v := range weekLoads {
		weeklyLoad += v
	}

	result.Stress = TrainingStressState{
		ATL:        atl,
		CTL:        ctl,
		TSB:        ctl - atl,
		Monotony:   monotony,
		Strain:     Strain(weeklyLoad, monotony),
		Confidence: confidence,
	}

	// Week-over-week volume comparison, used both for the trend and the
	// volume spike insight rule.
	result.CurrentWeekLoad, result.PreviousWeekLoad = weekSums(fullSeries, end)
	result.WeeklyVolumeTrend = volumeTrend(result.CurrentWeekLoad, result.PreviousWeekLoad)

	if len(inPeriod) == 0 {
		return result, nil
	}

	result.TotalActivities = len(inPeriod)
	for _, a := range inPeriod {
		result.TotalDurationHours += float64(a.DurationSec) / 3600.0
		result.TotalDistanceKm += a.DistanceKm
		if a.Calories != nil {
			result.TotalCalories += *a.Calories
		}
	}

	result.SportSummaries = buildSportSummaries(inPeriod)
	result.IntensityDistribution = intensityDistribution(inPeriod)
	result.AvgAerobicEffect, result.AvgAnaerobicEffect = averageEffects(inPeriod)

	return result, nil
}

// weekSums returns the load totals for the last 7 days ending at end
// and the 7 days before that.
func weekSums(series []DailyLoad, end time.Time) (current, previous float64) {
	currentStart := end.AddDate(0, 0, -6)
	previousStart := currentStart.AddDate(0, 0, -7)
	for _, dl := range series {
		switch {
		case dl.Date.Before(previousStart) || dl.Date.After(end):
		case dl.Date.Before(currentStart):
			previous += dl.Load
		default:
			current += dl.Load
		}
	}
	return current, previous
}

func volumeTrend(current, previous float64) Trend {
	if previous == 0 {
		return TrendStable
	}
	change := (current - previous) / previous * 100
	switch {
	case change > 10:
		return TrendImproving
	case change < -10:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func buildSportSummaries(activities []store.Activity) map[string]SportSummary {
	bySport := make(map[string][]store.Activity)
	for _, a := range activities {
		sport := a.Sport
		if sport == "" {
			sport = "unknown"
		}
		bySport[sport] = append(bySport[sport], a)
	}

	summaries := make(map[string]SportSummary, len(bySport))
	for sport, acts := range bySport {
		s := SportSummary{Sport: sport, Count: len(acts)}

		var hrSum float64
		var hrCount int
		for _, a := range acts {
			s.TotalDistanceKm += a.DistanceKm
			s.TotalDurationHours += float64(a.DurationSec) / 3600.0
			if a.AvgHeartrate != nil && *a.AvgHeartrate > 0 {
				hrSum += *a.AvgHeartrate
				hrCount++
			}
			if a.AerobicEffect != nil && *a.AerobicEffect > s.MaxTrainingEffect {
				s.MaxTrainingEffect = *a.AerobicEffect
			}
		}

		if s.TotalDurationHours > 0 && s.TotalDistanceKm > 0 {
			s.AvgSpeedKmh = floatPtr(s.TotalDistanceKm / s.TotalDurationHours)
		}
		if hrCount > 0 {
			s.AvgHeartrate = floatPtr(hrSum / float64(hrCount))
		}
		// Efficiency index is undefined unless both speed and HR are
		// positive; nil here, never a fabricated zero.
		if s.AvgSpeedKmh != nil && s.AvgHeartrate != nil && *s.AvgHeartrate > 0 {
			s.EfficiencyIndex = floatPtr(*s.AvgSpeedKmh / *s.AvgHeartrate * 100)
		}

		summaries[sport] = s
	}
	return summaries
}

func emptyDistribution() map[string]float64 {
	dist := make(map[string]float64, len(IntensityBands))
	for _, band := range IntensityBands {
		dist[band] = 0
	}
	return dist
}

func intensityDistribution(activities []store.Activity) map[string]float64 {
	dist := emptyDistribution()

	counts := make(map[string]int, len(IntensityBands))
	total := 0
	for _, a := range activities {
		if a.AerobicEffect == nil {
			continue
		}
		counts[IntensityBand(*a.AerobicEffect)]++
		total++
	}
	if total == 0 {
		return dist
	}

	for band, count := range counts {
		dist[band] = float64(count) / float64(total) * 100
	}
	return dist
}

func averageEffects(activities []store.Activity) (aerobic, anaerobic float64) {
	var aeroSum, anaSum float64
	var aeroCount, anaCount int
	for _, a := range activities {
		if a.AerobicEffect != nil {
			aeroSum += *a.AerobicEffect
			aeroCount++
		}
		if a.AnaerobicEffect != nil {
			anaSum += *a.AnaerobicEffect
			anaCount++
		}
	}
	if aeroCount > 0 {
		aerobic = aeroSum / float64(aeroCount)
	}
	if anaCount > 0 {
		anaerobic = anaSum / float64(anaCount)
	}
	return aerobic, anaerobic
}

// SortedSports returns sport names ordered by activity count descending,
// then alphabetically, for stable presentation.
func SortedSports(summaries map[string]SportSummary) []string {
	names := make([]string, 0, len(summaries))
	for name := range summaries {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if summaries[names[i]].Count != summaries[names[j]].Count {
			return summaries[names[i]].Count > summaries[names[j]].Count
		}
		return names[i] < names[j]
	})
	return names
}
