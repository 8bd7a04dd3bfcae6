package service

import (
	"fmt"
	"time"

	"vitals/internal/analysis"
	"vitals/internal/config"
	"vitals/internal/store"
)

// ReportService runs the analysis engines over stored wellness data
type ReportService struct {
	store  *store.Store
	params analysis.Params
}

// NewReportService creates a report service with analysis windows from config
func NewReportService(st *store.Store, cfg config.AnalysisConfig) *ReportService {
	params := analysis.DefaultParams()
	if cfg.ATLWindowDays > 0 {
		params.ATLWindowDays = cfg.ATLWindowDays
	}
	if cfg.CTLWindowDays > 0 {
		params.CTLWindowDays = cfg.CTLWindowDays
	}
	if cfg.BaselineLookbackDays > 0 {
		params.BaselineLookbackDays = cfg.BaselineLookbackDays
	}
	if cfg.RHRBaselineDays > 0 {
		params.RHRBaselineDays = cfg.RHRBaselineDays
	}

	return &ReportService{
		store:  st,
		params: params,
	}
}

// Report bundles the three engines' results with the derived insights
type Report struct {
	PeriodStart time.Time
	PeriodEnd   time.Time

	Training *analysis.TrainingResult
	Stress   *analysis.StressResult
	Recovery *analysis.RecoveryResult
	Insights []analysis.Insight
}

// Params returns the analysis parameters in use
func (r *ReportService) Params() analysis.Params {
	return r.params
}

// Analyze runs all three engines over [start, end] and derives insights.
// Each engine gets the lookback history it needs before the period.
func (r *ReportService) Analyze(start, end time.Time) (*Report, error) {
	start = truncateToDay(start)
	end = truncateToDay(end)
	if start.After(end) {
		return nil, analysis.ErrInvalidPeriod
	}

	// The training engine warms its EMAs up on pre-period history, and
	// the recovery engine looks back over the chronic load window.
	activityLookback := r.params.CTLWindowDays
	if r.params.ChronicLoadDays > activityLookback {
		activityLookback = r.params.ChronicLoadDays
	}
	activities, err := r.store.GetActivitiesInRange(
		start.AddDate(0, 0, -activityLookback),
		end.AddDate(0, 0, 1),
	)
	if err != nil {
		return nil, fmt.Errorf("loading activities: %w", err)
	}

	// Stress samples reach back for the resting baseline and forward a
	// day so post-activity recovery windows at the period edge resolve.
	samples, err := r.store.GetStressSamples(
		start.AddDate(0, 0, -r.params.BaselineLookbackDays),
		end.AddDate(0, 0, 1),
	)
	if err != nil {
		return nil, fmt.Errorf("loading stress samples: %w", err)
	}

	daily, err := r.store.GetDailySummaries(start.AddDate(0, 0, -r.params.RHRBaselineDays), end)
	if err != nil {
		return nil, fmt.Errorf("loading daily summaries: %w", err)
	}

	sleeps, err := r.store.GetSleepSummaries(start, end)
	if err != nil {
		return nil, fmt.Errorf("loading sleep summaries: %w", err)
	}

	training, err := analysis.AnalyzeTraining(activities, start, end, r.params)
	if err != nil {
		return nil, fmt.Errorf("training analysis: %w", err)
	}

	stress, err := analysis.AnalyzeStress(samples, activities, start, end, r.params)
	if err != nil {
		return nil, fmt.Errorf("stress analysis: %w", err)
	}

	recovery, err := analysis.AnalyzeRecovery(daily, sleeps, activities, start, end, r.params)
	if err != nil {
		return nil, fmt.Errorf("recovery analysis: %w", err)
	}

	insights := analysis.DeriveInsights(analysis.RuleInput{
		Training: training,
		Stress:   stress,
		Recovery: recovery,
	})

	return &Report{
		PeriodStart: start,
		PeriodEnd:   end,
		Training:    training,
		Stress:      stress,
		Recovery:    recovery,
		Insights:    insights,
	}, nil
}

// AnalyzeRecent runs the default report period ending today
func (r *ReportService) AnalyzeRecent() (*Report, error) {
	end := truncateToDay(time.Now())
	return r.Analyze(end.AddDate(0, 0, -(DefaultReportDays-1)), end)
}
