package analysis

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"vitals/internal/store"
)

func sample(t time.Time, level int) store.StressSample {
	return store.StressSample{Timestamp: t, Level: level}
}

func TestStressLoadTwoSampleScenario(t *testing.T) {
	p := DefaultParams()
	day := date(2024, 4, 10)

	// 40 at 10:00 and 60 at 10:10: first sample weighted by the 10
	// minute gap (40*10 = 400 level-minutes, i.e. 6.67 points), the
	// trailing sample by one minute (60).
	samples := []store.StressSample{
		sample(day.Add(10*time.Hour), 40),
		sample(day.Add(10*time.Hour+10*time.Minute), 60),
	}

	got := StressLoad(samples, day, day.AddDate(0, 0, 1), p)
	want := (40*10 + 60*1) / 60.0
	if math.Abs(got.TotalLoad-want) > 1e-9 {
		t.Errorf("TotalLoad = %v, want %v", got.TotalLoad, want)
	}
	if got.PeriodMinutes != 11 {
		t.Errorf("PeriodMinutes = %d, want 11", got.PeriodMinutes)
	}
	if got.PeakLoadHour == nil || *got.PeakLoadHour != 10 {
		t.Errorf("PeakLoadHour = %v, want 10", got.PeakLoadHour)
	}
}

func TestStressLoadGapCap(t *testing.T) {
	p := DefaultParams()
	day := date(2024, 4, 10)

	// 90 minute sensor-off gap gets capped at 15 minutes so it cannot
	// inflate the cumulative load.
	samples := []store.StressSample{
		sample(day.Add(8*time.Hour), 50),
		sample(day.Add(9*time.Hour+30*time.Minute), 30),
	}

	got := StressLoad(samples, day, day.AddDate(0, 0, 1), p)
	want := (50*15 + 30*1) / 60.0
	if math.Abs(got.TotalLoad-want) > 1e-9 {
		t.Errorf("TotalLoad = %v, want %v", got.TotalLoad, want)
	}
}

func TestStressLoadOrderIndependent(t *testing.T) {
	p := DefaultParams()
	day := date(2024, 4, 10)

	var samples []store.StressSample
	for i := 0; i < 50; i++ {
		samples = append(samples, sample(day.Add(time.Duration(i*5)*time.Minute), 20+i%40))
	}

	sorted := StressLoad(samples, day, day.AddDate(0, 0, 1), p)

	shuffled := make([]store.StressSample, len(samples))
	copy(shuffled, samples)
	rng := rand.New(rand.NewSource(1))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	got := StressLoad(shuffled, day, day.AddDate(0, 0, 1), p)
	if math.Abs(got.TotalLoad-sorted.TotalLoad) > 1e-9 {
		t.Errorf("shuffled TotalLoad = %v, sorted = %v", got.TotalLoad, sorted.TotalLoad)
	}
}

func TestStressLoadMonotonicUnderAddedSamples(t *testing.T) {
	p := DefaultParams()
	day := date(2024, 4, 10)

	samples := []store.StressSample{
		sample(day.Add(8*time.Hour), 50),
		sample(day.Add(12*time.Hour), 40),
	}
	base := StressLoad(samples, day, day.AddDate(0, 0, 1), p).TotalLoad

	prev := base
	for i := 0; i < 10; i++ {
		samples = append(samples, sample(day.Add(9*time.Hour+time.Duration(i*7)*time.Minute), 35))
		got := StressLoad(samples, day, day.AddDate(0, 0, 1), p).TotalLoad
		if got < prev-1e-9 {
			t.Fatalf("load decreased from %v to %v after adding a sample", prev, got)
		}
		prev = got
	}
}

func TestStressLoadFiltersInvalidSamples(t *testing.T) {
	p := DefaultParams()
	day := date(2024, 4, 10)

	samples := []store.StressSample{
		sample(day.Add(8*time.Hour), -1), // device could not measure
		sample(day.Add(9*time.Hour), 0),
		sample(day.Add(10*time.Hour), 30),
	}
	got := StressLoad(samples, day, day.AddDate(0, 0, 1), p)
	want := 30 * 1 / 60.0 // only the positive trailing sample
	if math.Abs(got.TotalLoad-want) > 1e-9 {
		t.Errorf("TotalLoad = %v, want %v", got.TotalLoad, want)
	}
}

func TestStressLoadEmpty(t *testing.T) {
	p := DefaultParams()
	got := StressLoad(nil, date(2024, 4, 1), date(2024, 4, 2), p)
	if got.TotalLoad != 0 || got.PeriodMinutes != 0 || got.PeakLoadHour != nil {
		t.Errorf("empty StressLoad = %+v, want zero value", got)
	}
}

func TestPersonalBaselinePercentileIndex(t *testing.T) {
	p := DefaultParams()
	end := date(2024, 4, 14)

	// Resting samples 10,12,14,16,18 at 03:00 across five nights:
	// index = 5*25/100 = 1 -> baseline 12.
	var samples []store.StressSample
	for i, level := range []int{10, 12, 14, 16, 18} {
		samples = append(samples, sample(end.AddDate(0, 0, -i).Add(3*time.Hour), level))
	}

	got := PersonalBaseline(samples, end, p)
	if got != 12 {
		t.Errorf("PersonalBaseline() = %v, want 12", got)
	}
}

func TestPersonalBaselineFallsBackWithoutRestingSamples(t *testing.T) {
	p := DefaultParams()
	end := date(2024, 4, 14)

	// Daytime samples only: nothing in the resting window.
	samples := []store.StressSample{
		sample(end.Add(12*time.Hour), 40),
		sample(end.Add(15*time.Hour), 55),
	}
	if got := PersonalBaseline(samples, end, p); got != p.DefaultBaseline {
		t.Errorf("PersonalBaseline() = %v, want default %v", got, p.DefaultBaseline)
	}
}

func TestPersonalBaselineIgnoresSamplesOutsideLookback(t *testing.T) {
	p := DefaultParams()
	end := date(2024, 4, 14)

	samples := []store.StressSample{
		sample(end.AddDate(0, 0, -30).Add(2*time.Hour), 5), // too old
		sample(end.AddDate(0, 0, -3).Add(2*time.Hour), 20),
	}
	if got := PersonalBaseline(samples, end, p); got != 20 {
		t.Errorf("PersonalBaseline() = %v, want 20", got)
	}
}

func TestRecoveryWindows(t *testing.T) {
	p := DefaultParams()
	baseline := 20.0
	start := date(2024, 4, 10).Add(17 * time.Hour)
	activity := makeActivity("act-1", "running", start, 60)
	end := activity.EndTime()

	samples := []store.StressSample{
		sample(start.Add(-20*time.Minute), 30), // pre-activity
		sample(start.Add(-10*time.Minute), 40),
		sample(end.Add(5*time.Minute), 80),  // peak
		sample(end.Add(35*time.Minute), 50), // still elevated
		sample(end.Add(65*time.Minute), 22), // recovered (<= 25)
	}

	windows := RecoveryWindows([]store.Activity{activity}, samples, baseline, p)
	if len(windows) != 1 {
		t.Fatalf("got %d windows, want 1", len(windows))
	}

	w := windows[0]
	if w.ActivityID != "act-1" {
		t.Errorf("ActivityID = %q, want act-1", w.ActivityID)
	}
	if math.Abs(w.PreActivityStress-35) > 1e-9 {
		t.Errorf("PreActivityStress = %v, want 35", w.PreActivityStress)
	}
	if w.PeakPostStress != 80 {
		t.Errorf("PeakPostStress = %v, want 80", w.PeakPostStress)
	}
	if w.RecoveryMinutes == nil || *w.RecoveryMinutes != 65 {
		t.Errorf("RecoveryMinutes = %v, want 65", w.RecoveryMinutes)
	}
	if w.WindowLoad <= 0 {
		t.Errorf("WindowLoad = %v, want > 0", w.WindowLoad)
	}
}

func TestRecoveryWindowUnresolved(t *testing.T) {
	p := DefaultParams()
	activity := makeActivity("act-1", "running", date(2024, 4, 10).Add(17*time.Hour), 60)
	end := activity.EndTime()

	// Stress stays high for the whole observation window.
	samples := []store.StressSample{
		sample(end.Add(10*time.Minute), 80),
		sample(end.Add(60*time.Minute), 70),
		sample(end.Add(110*time.Minute), 65),
	}

	windows := RecoveryWindows([]store.Activity{activity}, samples, 20, p)
	if len(windows) != 1 {
		t.Fatalf("got %d windows, want 1", len(windows))
	}
	if windows[0].RecoveryMinutes != nil {
		t.Errorf("RecoveryMinutes = %v, want nil for unresolved window", *windows[0].RecoveryMinutes)
	}
}

func TestRecoveryWindowSkippedWithoutPostSamples(t *testing.T) {
	p := DefaultParams()
	activity := makeActivity("act-1", "running", date(2024, 4, 10).Add(17*time.Hour), 60)

	samples := []store.StressSample{
		sample(activity.StartTime.Add(-10*time.Minute), 30),
	}
	if windows := RecoveryWindows([]store.Activity{activity}, samples, 20, p); len(windows) != 0 {
		t.Errorf("got %d windows, want 0 when no post-activity samples exist", len(windows))
	}
}

func TestRecoveryEfficiencyExtremes(t *testing.T) {
	p := DefaultParams()

	immediate := []RecoveryWindow{
		{RecoveryMinutes: intPtr(0)},
		{RecoveryMinutes: intPtr(0)},
	}
	if got := RecoveryEfficiency(immediate, p); got == nil || *got != 100 {
		t.Errorf("all-immediate efficiency = %v, want 100", got)
	}

	unresolved := []RecoveryWindow{{}, {}, {}}
	if got := RecoveryEfficiency(unresolved, p); got == nil || *got != 0 {
		t.Errorf("all-unresolved efficiency = %v, want 0", got)
	}

	if got := RecoveryEfficiency(nil, p); got != nil {
		t.Errorf("no-window efficiency = %v, want nil", *got)
	}

	// One immediate, one unresolved: avg = 60 min -> 50%.
	mixed := []RecoveryWindow{
		{RecoveryMinutes: intPtr(0)},
		{},
	}
	if got := RecoveryEfficiency(mixed, p); got == nil || math.Abs(*got-50) > 1e-9 {
		t.Errorf("mixed efficiency = %v, want 50", got)
	}
}

func TestAnalyzeStressInvalidPeriod(t *testing.T) {
	p := DefaultParams()
	_, err := AnalyzeStress(nil, nil, date(2024, 4, 10), date(2024, 4, 1), p)
	if err != ErrInvalidPeriod {
		t.Errorf("AnalyzeStress() err = %v, want ErrInvalidPeriod", err)
	}
}

func TestAnalyzeStressEmptyInput(t *testing.T) {
	p := DefaultParams()
	result, err := AnalyzeStress(nil, nil, date(2024, 4, 1), date(2024, 4, 7), p)
	if err != nil {
		t.Fatal(err)
	}
	if result.Load.TotalLoad != 0 {
		t.Errorf("TotalLoad = %v, want 0", result.Load.TotalLoad)
	}
	if result.Baseline != p.DefaultBaseline {
		t.Errorf("Baseline = %v, want default %v", result.Baseline, p.DefaultBaseline)
	}
	if result.RecoveryEfficiency != nil {
		t.Error("RecoveryEfficiency should be nil without windows")
	}
	if len(result.Hourly) != 24 {
		t.Errorf("Hourly length = %d, want 24", len(result.Hourly))
	}
}

func TestAnalyzeStressDistributionAndPatterns(t *testing.T) {
	p := DefaultParams()
	start := date(2024, 4, 1) // a Monday
	end := date(2024, 4, 7)

	var samples []store.StressSample
	// Monday 09:00 high readings, Saturday 09:00 low readings
	for i := 0; i < 4; i++ {
		samples = append(samples, sample(start.Add(9*time.Hour+time.Duration(i)*time.Minute), 80))
	}
	for i := 0; i < 4; i++ {
		samples = append(samples, sample(date(2024, 4, 6).Add(9*time.Hour+time.Duration(i)*time.Minute), 10))
	}

	result, err := AnalyzeStress(samples, nil, start, end, p)
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(result.LowPct-50) > 1e-9 || math.Abs(result.VeryHighPct-50) > 1e-9 {
		t.Errorf("distribution low=%v veryhigh=%v, want 50/50", result.LowPct, result.VeryHighPct)
	}
	if result.WeekdayAvg[time.Monday] != 80 {
		t.Errorf("Monday avg = %v, want 80", result.WeekdayAvg[time.Monday])
	}
	if result.WeekdayAvg[time.Saturday] != 10 {
		t.Errorf("Saturday avg = %v, want 10", result.WeekdayAvg[time.Saturday])
	}
	if result.PeakHour == nil || *result.PeakHour != 9 {
		t.Errorf("PeakHour = %v, want 9", result.PeakHour)
	}
	if result.Hourly[9].SampleCount != 8 {
		t.Errorf("hour 9 sample count = %d, want 8", result.Hourly[9].SampleCount)
	}
	if len(result.DailyAvg) != 2 {
		t.Errorf("DailyAvg days = %d, want 2", len(result.DailyAvg))
	}
}
