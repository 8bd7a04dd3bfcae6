package analysis

// Params holds every tunable constant used by the analysis engines.
// All windows and thresholds are injectable so tests can shrink them
// and users can tune them from the config file.
type Params struct {
	// Training load EMA windows
	ATLWindowDays   int // acute (fatigue)
	CTLWindowDays   int // chronic (fitness)
	MinMonotonyDays int // minimum daily points for a meaningful monotony

	// Stress baseline
	BaselineLookbackDays int
	BaselinePercentile   int
	RestingStartHour     int // inclusive
	RestingEndHour       int // exclusive
	DefaultBaseline      float64

	// Stress load and recovery windows
	GapCapMinutes     float64
	RecoveryWindowMin int     // post-activity observation window
	PreActivityMin    int     // pre-activity stress window
	RecoveryBuffer    float64 // recovered when stress <= baseline + buffer

	// Recovery score
	RHRBaselineDays   int
	AcuteLoadDays     int
	ChronicLoadDays   int
	RHRWeight         float64
	BBWeight          float64
	SleepWeight       float64
	NeutralSleepScore float64

	// Load estimation for activities without a measured load,
	// in load points per minute by sport
	LoadFactors       map[string]float64
	DefaultLoadFactor float64
}

// DefaultParams returns the standard analysis configuration
func DefaultParams() Params {
	return Params{
		ATLWindowDays:   7,
		CTLWindowDays:   42,
		MinMonotonyDays: 7,

		BaselineLookbackDays: 14,
		BaselinePercentile:   25,
		RestingStartHour:     0,
		RestingEndHour:       6,
		DefaultBaseline:      25.0,

		GapCapMinutes:     15,
		RecoveryWindowMin: 120,
		PreActivityMin:    30,
		RecoveryBuffer:    5,

		RHRBaselineDays:   60,
		AcuteLoadDays:     7,
		ChronicLoadDays:   28,
		RHRWeight:         0.40,
		BBWeight:          0.35,
		SleepWeight:       0.25,
		NeutralSleepScore: 70,

		LoadFactors: map[string]float64{
			"running":           0.8,
			"cycling":           0.6,
			"walking":           0.3,
			"swimming":          0.9,
			"strength_training": 0.5,
			"hiking":            0.5,
			"yoga":              0.2,
		},
		DefaultLoadFactor: 0.5,
	}
}

// loadFactor returns the per-minute load factor for a sport
func (p Params) loadFactor(sport string) float64 {
	if f, ok := p.LoadFactors[sport]; ok {
		return f
	}
	return p.DefaultLoadFactor
}
