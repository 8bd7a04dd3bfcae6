package analysis

import "fmt"

// RuleInput bundles the three engines' outputs for rule evaluation.
// Any section may be nil; rules that need it simply do not fire.
type RuleInput struct {
	Training *TrainingResult
	Stress   *StressResult
	Recovery *RecoveryResult
}

// insightRule maps a condition on the analysis results to an advisory.
// Evaluation is side-effect free: a rule either returns an Insight or
// nil. The declarative table keeps the set of rules enumerable for
// coverage tests and makes overlap explicit instead of accidental.
type insightRule struct {
	name string
	eval func(in RuleInput) *Insight
}

// DeriveInsights evaluates the full rule table against the results and
// returns the insights that fired, deduplicated by (title, category).
// Table order fixes presentation order only; it never changes which
// rules fire.
func DeriveInsights(in RuleInput) []Insight {
	type key struct{ title, category string }
	seen := make(map[key]bool)

	var insights []Insight
	for _, rule := range rules {
		insight := rule.eval(in)
		if insight == nil {
			continue
		}
		k := key{insight.Title, insight.Category}
		if seen[k] {
			continue
		}
		seen[k] = true
		insights = append(insights, *insight)
	}
	return insights
}

var rules = []insightRule{
	{name: "high_fatigue", eval: highFatigue},
	{name: "peak_freshness", eval: peakFreshness},
	{name: "volume_spike", eval: volumeSpike},
	{name: "low_load_confidence", eval: lowLoadConfidence},
	{name: "intensity_imbalance", eval: intensityImbalance},
	{name: "missing_base_training", eval: missingBaseTraining},
	{name: "high_cumulative_stress", eval: highCumulativeStress},
	{name: "poor_stress_recovery", eval: poorStressRecovery},
	{name: "excellent_resilience", eval: excellentResilience},
	{name: "occupational_stress", eval: occupationalStress},
	{name: "work_hours_peak", eval: workHoursPeak},
	{name: "slow_autonomic_recovery", eval: slowAutonomicRecovery},
	{name: "incomplete_recovery", eval: incompleteRecovery},
	{name: "rhr_elevated", eval: rhrElevated},
	{name: "rhr_recovered", eval: rhrRecovered},
	{name: "low_overnight_recharge", eval: lowOvernightRecharge},
	{name: "excellent_recharge", eval: excellentRecharge},
	{name: "acwr_risk", eval: acwrRisk},
}

func highFatigue(in RuleInput) *Insight {
	if in.Training == nil || in.Training.TotalActivities == 0 {
		return nil
	}
	tsb := in.Training.Stress.TSB
	if tsb >= -30 {
		return nil
	}
	return &Insight{
		Title:       "High Fatigue Load",
		Description: fmt.Sprintf("TSB of %.0f indicates significant accumulated fatigue.", tsb),
		Severity:    SeverityWarning,
		Category:    "activity",
		Evidence:    map[string]float64{"tsb": tsb},
		Recommendations: []string{
			"Plan a recovery day or easy session",
			"Prioritize sleep and nutrition",
		},
	}
}

func peakFreshness(in RuleInput) *Insight {
	if in.Training == nil || in.Training.TotalActivities == 0 {
		return nil
	}
	tsb := in.Training.Stress.TSB
	if tsb <= 25 {
		return nil
	}
	return &Insight{
		Title:       "Peak Freshness",
		Description: fmt.Sprintf("TSB of %.0f indicates you're well rested. Good time for a key workout.", tsb),
		Severity:    SeverityPositive,
		Category:    "activity",
		Evidence:    map[string]float64{"tsb": tsb},
	}
}

func volumeSpike(in RuleInput) *Insight {
	if in.Training == nil || in.Training.PreviousWeekLoad == 0 {
		return nil
	}
	current, previous := in.Training.CurrentWeekLoad, in.Training.PreviousWeekLoad
	change := (current - previous) / previous * 100
	abs := change
	if abs < 0 {
		abs = -abs
	}
	if abs <= 20 {
		return nil
	}
	direction := "increased"
	if change < 0 {
		direction = "decreased"
	}
	return &Insight{
		Title:       "Training Volume Spike",
		Description: fmt.Sprintf("Weekly training load %s by %.0f%%. Rapid changes above 20%% raise injury risk.", direction, abs),
		Severity:    SeverityWarning,
		Category:    "activity",
		Evidence: map[string]float64{
			"percent_change":     change,
			"current_week_load":  current,
			"previous_week_load": previous,
		},
		Recommendations: []string{
			"Limit weekly load increases to 10% or less",
			"Include rest days between high-intensity sessions",
		},
	}
}

func lowLoadConfidence(in RuleInput) *Insight {
	if in.Training == nil || in.Training.TotalActivities == 0 {
		return nil
	}
	confidence := in.Training.Stress.Confidence
	if confidence >= 0.7 {
		return nil
	}
	return &Insight{
		Title:       "Limited Training Load Data",
		Description: fmt.Sprintf("Only %.0f%% of training load comes from device measurements; TSB metrics may be less accurate.", confidence*100),
		Severity:    SeverityInfo,
		Category:    "activity",
		Evidence:    map[string]float64{"confidence": confidence},
		Recommendations: []string{
			"Check that training load recording is enabled on your device",
		},
	}
}

func intensityImbalance(in RuleInput) *Insight {
	if in.Training == nil || in.Training.TotalActivities == 0 {
		return nil
	}
	dist := in.Training.IntensityDistribution
	high := dist[BandHighlyImproving] + dist[BandOverreaching]
	if high <= 30 {
		return nil
	}
	return &Insight{
		Title:       "High Intensity Imbalance",
		Description: fmt.Sprintf("%.0f%% of training is at maximum intensity, which raises injury and overtraining risk.", high),
		Severity:    SeverityAlert,
		Category:    "activity",
		Evidence:    map[string]float64{"high_intensity_percent": high},
		Recommendations: []string{
			"Reduce the number of anaerobic or threshold sessions",
			"Replace one hard session with an easy recovery effort",
		},
	}
}

func missingBaseTraining(in RuleInput) *Insight {
	if in.Training == nil || in.Training.TotalActivities == 0 {
		return nil
	}
	dist := in.Training.IntensityDistribution
	low := dist[BandRecovery] + dist[BandBase]
	rest := dist[BandImproving] + dist[BandHighlyImproving] + dist[BandOverreaching]
	if low >= 50 || rest <= 50 {
		return nil
	}
	return &Insight{
		Title:       "Lack of Base Training",
		Description: fmt.Sprintf("Only %.0f%% of training is low intensity. Too much moderate work stalls aerobic development.", low),
		Severity:    SeverityWarning,
		Category:    "activity",
		Evidence:    map[string]float64{"low_intensity_percent": low},
		Recommendations: []string{
			"Increase the share of easy sessions",
			"Target an 80/20 intensity distribution",
		},
	}
}

func highCumulativeStress(in RuleInput) *Insight {
	if in.Stress == nil || in.Stress.Load.TotalLoad <= 0 {
		return nil
	}
	days := in.Stress.PeriodEnd.Sub(in.Stress.PeriodStart).Hours()/24 + 1
	dailyLoad := in.Stress.Load.TotalLoad / days
	if dailyLoad <= 500 {
		return nil
	}
	return &Insight{
		Title:       "High Cumulative Stress",
		Description: fmt.Sprintf("Average daily stress load of %.0f points is elevated.", dailyLoad),
		Severity:    SeverityWarning,
		Category:    "stress",
		Evidence:    map[string]float64{"daily_avg_load": dailyLoad},
		Recommendations: []string{
			"Schedule regular breaks during high-stress hours",
			"Practice breathing exercises",
		},
	}
}

func poorStressRecovery(in RuleInput) *Insight {
	if in.Stress == nil || in.Stress.RecoveryEfficiency == nil {
		return nil
	}
	eff := *in.Stress.RecoveryEfficiency
	if eff >= 50 {
		return nil
	}
	return &Insight{
		Title:       "Poor Stress Recovery",
		Description: fmt.Sprintf("Recovery efficiency of %.0f%% is low.", eff),
		Severity:    SeverityWarning,
		Category:    "stress",
		Evidence:    map[string]float64{"efficiency": eff},
		Recommendations: []string{
			"Ensure adequate sleep before hard sessions",
			"Allow more rest between sessions",
		},
	}
}

func excellentResilience(in RuleInput) *Insight {
	if in.Stress == nil || in.Stress.RecoveryEfficiency == nil {
		return nil
	}
	eff := *in.Stress.RecoveryEfficiency
	if eff < 80 {
		return nil
	}
	return &Insight{
		Title:       "Excellent Stress Resilience",
		Description: fmt.Sprintf("Recovery efficiency of %.0f%% shows fast autonomic recovery.", eff),
		Severity:    SeverityPositive,
		Category:    "stress",
		Evidence:    map[string]float64{"efficiency": eff},
	}
}

func occupationalStress(in RuleInput) *Insight {
	if in.Stress == nil {
		return nil
	}
	var workSum, weekendSum float64
	var workCount, weekendCount int
	for wd, avg := range in.Stress.WeekdayAvg {
		if avg <= 0 {
			continue
		}
		if wd >= 1 && wd <= 5 {
			workSum += avg
			workCount++
		} else {
			weekendSum += avg
			weekendCount++
		}
	}
	if workCount == 0 || weekendCount == 0 {
		return nil
	}
	workAvg := workSum / float64(workCount)
	weekendAvg := weekendSum / float64(weekendCount)
	if weekendAvg <= 0 || workAvg <= weekendAvg*1.45 {
		return nil
	}
	return &Insight{
		Title:       "Occupational Stress Detected",
		Description: fmt.Sprintf("Weekday stress (%.0f) is well above weekend stress (%.0f).", workAvg, weekendAvg),
		Severity:    SeverityInfo,
		Category:    "stress",
		Evidence: map[string]float64{
			"workday_avg": workAvg,
			"weekend_avg": weekendAvg,
		},
		Recommendations: []string{
			"Review work-life balance",
			"Take micro-breaks during work hours",
		},
	}
}

func workHoursPeak(in RuleInput) *Insight {
	if in.Stress == nil || in.Stress.PeakHour == nil {
		return nil
	}
	hour := *in.Stress.PeakHour
	if hour < 9 || hour > 17 {
		return nil
	}
	return &Insight{
		Title:       "Work Hours Stress Peak",
		Description: fmt.Sprintf("Stress peaks around %02d:00.", hour),
		Severity:    SeverityInfo,
		Category:    "stress",
		Evidence:    map[string]float64{"peak_hour": float64(hour)},
		Recommendations: []string{
			"Schedule demanding tasks outside peak stress hours",
		},
	}
}

func slowAutonomicRecovery(in RuleInput) *Insight {
	if in.Stress == nil || in.Stress.AvgRecoveryMinutes == nil {
		return nil
	}
	avg := *in.Stress.AvgRecoveryMinutes
	if avg <= 90 {
		return nil
	}
	return &Insight{
		Title:       "Slow Autonomic Recovery",
		Description: fmt.Sprintf("Average post-activity recovery time is %.0f minutes.", avg),
		Severity:    SeverityWarning,
		Category:    "stress",
		Evidence:    map[string]float64{"avg_recovery_min": avg},
		Recommendations: []string{
			"Prioritize sleep quality",
			"Reduce training load temporarily",
		},
	}
}

func incompleteRecovery(in RuleInput) *Insight {
	if in.Stress == nil {
		return nil
	}
	unresolved := 0
	for _, w := range in.Stress.Windows {
		if w.RecoveryMinutes == nil {
			unresolved++
		}
	}
	if unresolved == 0 {
		return nil
	}
	return &Insight{
		Title:       "Incomplete Post-Activity Recovery",
		Description: fmt.Sprintf("%d activities ended without stress returning to baseline within the observation window.", unresolved),
		Severity:    SeverityAlert,
		Category:    "stress",
		Evidence:    map[string]float64{"unresolved_windows": float64(unresolved)},
		Recommendations: []string{
			"Monitor for signs of overtraining",
			"Consider longer cool-down periods",
		},
	}
}

func rhrElevated(in RuleInput) *Insight {
	if in.Recovery == nil || in.Recovery.RHRBaseline == nil || in.Recovery.CurrentRHR == nil {
		return nil
	}
	deviation := in.Recovery.RHRDeviation
	switch {
	case deviation > 10:
		return &Insight{
			Title:       "Significantly Elevated Resting HR",
			Description: fmt.Sprintf("Resting heart rate is %.0f bpm above your baseline of %.0f bpm, suggesting incomplete recovery.", deviation, *in.Recovery.RHRBaseline),
			Severity:    SeverityAlert,
			Category:    "recovery",
			Evidence: map[string]float64{
				"rhr_deviation": deviation,
				"rhr_baseline":  *in.Recovery.RHRBaseline,
			},
			Recommendations: []string{
				"Consider taking a rest day",
				"Check for signs of illness or overtraining",
			},
		}
	case deviation > 5:
		return &Insight{
			Title:       "Elevated Resting HR",
			Description: fmt.Sprintf("Resting heart rate is %.0f bpm above baseline.", deviation),
			Severity:    SeverityWarning,
			Category:    "recovery",
			Evidence:    map[string]float64{"rhr_deviation": deviation},
			Recommendations: []string{
				"Consider reducing training intensity",
			},
		}
	}
	return nil
}

func rhrRecovered(in RuleInput) *Insight {
	if in.Recovery == nil || in.Recovery.RHRBaseline == nil || in.Recovery.CurrentRHR == nil {
		return nil
	}
	deviation := in.Recovery.RHRDeviation
	if deviation >= -3 {
		return nil
	}
	return &Insight{
		Title:       "Excellent RHR Recovery",
		Description: fmt.Sprintf("Resting heart rate is %.0f bpm below baseline. You're well recovered.", -deviation),
		Severity:    SeverityPositive,
		Category:    "recovery",
		Evidence:    map[string]float64{"rhr_deviation": deviation},
	}
}

func lowOvernightRecharge(in RuleInput) *Insight {
	if in.Recovery == nil || in.Recovery.DaysAnalyzed == 0 {
		return nil
	}
	bb := in.Recovery.BBCharged
	if bb >= 30 {
		return nil
	}
	return &Insight{
		Title:       "Low Overnight Recharge",
		Description: fmt.Sprintf("Average overnight recharge is only %.0f%%; your body isn't recovering fully during sleep.", bb),
		Severity:    SeverityWarning,
		Category:    "recovery",
		Evidence:    map[string]float64{"bb_charged_avg": bb},
		Recommendations: []string{
			"Improve sleep hygiene",
			"Avoid late workouts",
		},
	}
}

func excellentRecharge(in RuleInput) *Insight {
	if in.Recovery == nil || in.Recovery.DaysAnalyzed == 0 {
		return nil
	}
	bb := in.Recovery.BBCharged
	if bb < 80 {
		return nil
	}
	return &Insight{
		Title:       "Excellent Recovery Capacity",
		Description: fmt.Sprintf("Average overnight recharge of %.0f%% indicates great recovery capacity.", bb),
		Severity:    SeverityPositive,
		Category:    "recovery",
		Evidence:    map[string]float64{"bb_charged_avg": bb},
	}
}

func acwrRisk(in RuleInput) *Insight {
	if in.Recovery == nil || in.Recovery.ACWR == nil {
		return nil
	}
	ratio := *in.Recovery.ACWR
	switch in.Recovery.Zone {
	case ZoneHighRisk:
		return &Insight{
			Title:       "High Injury Risk",
			Description: fmt.Sprintf("ACWR of %.2f indicates a rapid training load increase associated with higher injury risk.", ratio),
			Severity:    SeverityAlert,
			Category:    "recovery",
			Evidence:    map[string]float64{"acwr": ratio},
			Recommendations: []string{
				"Reduce training volume by 20-30%",
				"Return to gradual load progression",
			},
		}
	case ZoneCaution:
		return &Insight{
			Title:       "Training Load Caution",
			Description: fmt.Sprintf("ACWR of %.2f is elevated. Mind recovery between sessions.", ratio),
			Severity:    SeverityWarning,
			Category:    "recovery",
			Evidence:    map[string]float64{"acwr": ratio},
		}
	case ZoneUndertrained:
		return &Insight{
			Title:       "Training Load Below Optimal",
			Description: fmt.Sprintf("ACWR of %.2f suggests training load may be too low for adaptation.", ratio),
			Severity:    SeverityInfo,
			Category:    "recovery",
			Evidence:    map[string]float64{"acwr": ratio},
			Recommendations: []string{
				"Gradually increase training volume",
			},
		}
	}
	return nil
}
