package service

const (
	// How far back a first sync reaches for wellness history
	DefaultBackfillDays = 90

	// Lookback windows the report snapshots before the analysis period.
	// The training engine needs CTL-window history to warm up its EMAs,
	// the stress engine needs baseline history, and the recovery engine
	// needs RHR and chronic-load history.
	StressBaselineLookbackDays = 14
	RHRBaselineLookbackDays    = 60

	// Pagination limits
	ActivityPageSize = 100

	// Default report period
	DefaultReportDays = 30
)
