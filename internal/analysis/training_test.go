package analysis

import (
	"math"
	"testing"
	"time"

	"vitals/internal/store"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func makeActivity(id string, sport string, start time.Time, durationMin int) store.Activity {
	return store.Activity{
		ID:          id,
		Sport:       sport,
		StartTime:   start,
		DurationSec: durationMin * 60,
	}
}

func TestEstimateLoad(t *testing.T) {
	p := DefaultParams()

	tests := []struct {
		name          string
		activity      store.Activity
		wantLoad      float64
		wantEstimated bool
	}{
		{
			name: "measured load used verbatim",
			activity: store.Activity{
				Sport:        "running",
				DurationSec:  3600,
				TrainingLoad: floatPtr(123.4),
			},
			wantLoad:      123.4,
			wantEstimated: false,
		},
		{
			name:          "running estimate",
			activity:      makeActivity("a", "running", date(2024, 1, 1), 60),
			wantLoad:      48, // 60 min * 0.8
			wantEstimated: true,
		},
		{
			name:          "unknown sport uses default factor",
			activity:      makeActivity("a", "curling", date(2024, 1, 1), 60),
			wantLoad:      30, // 60 min * 0.5
			wantEstimated: true,
		},
		{
			name:          "zero duration estimates zero",
			activity:      makeActivity("a", "running", date(2024, 1, 1), 0),
			wantLoad:      0,
			wantEstimated: true,
		},
		{
			name: "non-positive measured load falls back to estimate",
			activity: store.Activity{
				Sport:        "yoga",
				DurationSec:  1800,
				TrainingLoad: floatPtr(0),
			},
			wantLoad:      6, // 30 min * 0.2
			wantEstimated: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			load, estimated := EstimateLoad(tt.activity, p)
			if math.Abs(load-tt.wantLoad) > 1e-9 {
				t.Errorf("EstimateLoad() load = %v, want %v", load, tt.wantLoad)
			}
			if estimated != tt.wantEstimated {
				t.Errorf("EstimateLoad() estimated = %v, want %v", estimated, tt.wantEstimated)
			}
		})
	}
}

func TestBuildDailyLoadsTotalCoverage(t *testing.T) {
	p := DefaultParams()
	start := date(2024, 3, 1)
	end := date(2024, 3, 21)

	// Two activities on one day, one activity later, long rest between
	activities := []store.Activity{
		makeActivity("a1", "running", start.Add(8*time.Hour), 30),
		makeActivity("a2", "cycling", start.Add(18*time.Hour), 60),
		makeActivity("a3", "running", date(2024, 3, 15).Add(7*time.Hour), 45),
	}

	series := BuildDailyLoads(activities, start, end, p)

	wantDays := 21
	if len(series) != wantDays {
		t.Fatalf("BuildDailyLoads() returned %d entries, want %d", len(series), wantDays)
	}

	for i, dl := range series {
		wantDate := start.AddDate(0, 0, i)
		if !dl.Date.Equal(wantDate) {
			t.Errorf("entry %d date = %v, want %v", i, dl.Date, wantDate)
		}
		if dl.Load < 0 {
			t.Errorf("entry %d load = %v, want >= 0", i, dl.Load)
		}
	}

	// Same-day activities sum into one bucket: 30*0.8 + 60*0.6 = 60
	if math.Abs(series[0].Load-60) > 1e-9 {
		t.Errorf("day 1 load = %v, want 60", series[0].Load)
	}
	// Rest day stays at explicit zero
	if series[1].Load != 0 {
		t.Errorf("rest day load = %v, want 0", series[1].Load)
	}
}

func TestEMAConstantSeriesIsFixedPoint(t *testing.T) {
	for _, window := range []int{3, 7, 42} {
		values := make([]float64, 100)
		for i := range values {
			values[i] = 55.5
		}
		got := ema(values, window)
		if math.Abs(got-55.5) > 1e-9 {
			t.Errorf("ema(constant, %d) = %v, want 55.5", window, got)
		}
	}
}

func TestEMAHandVerifiableDecay(t *testing.T) {
	// Seed 100 then six zero days with alpha = 2/(7+1) = 0.25:
	// ema = 100 * 0.75^6 = 17.7978...
	loads := []float64{100, 0, 0, 0, 0, 0, 0}
	got := ema(loads, 7)
	want := 100 * math.Pow(0.75, 6)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("ema() = %v, want %v", got, want)
	}
	if math.Abs(got-17.8) > 0.01 {
		t.Errorf("ema() = %v, want ~17.8", got)
	}
}

func TestMonotony(t *testing.T) {
	tests := []struct {
		name    string
		loads   []float64
		want    *float64
		wantNil bool
	}{
		{
			name:    "fewer than seven points is absent",
			loads:   []float64{50, 60, 70, 40, 50, 60},
			wantNil: true,
		},
		{
			name:  "zero mean yields zero",
			loads: []float64{0, 0, 0, 0, 0, 0, 0},
			want:  floatPtr(0),
		},
		{
			name:  "identical loads cap at ten",
			loads: []float64{40, 40, 40, 40, 40, 40, 40},
			want:  floatPtr(10),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Monotony(tt.loads, 7)
			if tt.wantNil {
				if got != nil {
					t.Fatalf("Monotony() = %v, want nil", *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("Monotony() = nil, want %v", *tt.want)
			}
			if math.Abs(*got-*tt.want) > 1e-9 {
				t.Errorf("Monotony() = %v, want %v", *got, *tt.want)
			}
		})
	}
}

func TestMonotonyFiniteWithVariance(t *testing.T) {
	loads := []float64{30, 50, 20, 60, 40, 70, 10}
	got := Monotony(loads, 7)
	if got == nil {
		t.Fatal("Monotony() = nil, want finite value")
	}
	if math.IsNaN(*got) || math.IsInf(*got, 0) || *got <= 0 {
		t.Errorf("Monotony() = %v, want finite positive", *got)
	}
}

func TestStrain(t *testing.T) {
	if got := Strain(300, nil); got != 0 {
		t.Errorf("Strain(300, nil) = %v, want 0", got)
	}
	if got := Strain(300, floatPtr(2)); got != 600 {
		t.Errorf("Strain(300, 2) = %v, want 600", got)
	}
}

func TestIntensityBand(t *testing.T) {
	tests := []struct {
		te   float64
		want string
	}{
		{0.0, BandRecovery},
		{1.9, BandRecovery},
		{2.0, BandBase},
		{2.9, BandBase},
		{3.5, BandImproving},
		{4.2, BandHighlyImproving},
		{4.5, BandOverreaching},
		{5.0, BandOverreaching},
		{1.95, BandBase}, // between bands defaults to Base
		{7.0, BandBase},  // out of range defaults to Base
	}
	for _, tt := range tests {
		if got := IntensityBand(tt.te); got != tt.want {
			t.Errorf("IntensityBand(%v) = %q, want %q", tt.te, got, tt.want)
		}
	}
}

func TestConfidenceWeighting(t *testing.T) {
	p := DefaultParams()
	start := date(2024, 5, 1)
	end := date(2024, 5, 7)

	measured := func(id string, day time.Time, load float64) store.Activity {
		a := makeActivity(id, "running", day.Add(9*time.Hour), 30)
		a.TrainingLoad = floatPtr(load)
		return a
	}

	t.Run("all measured is 1.0", func(t *testing.T) {
		result, err := AnalyzeTraining([]store.Activity{
			measured("a", start, 100),
			measured("b", start.AddDate(0, 0, 2), 50),
		}, start, end, p)
		if err != nil {
			t.Fatal(err)
		}
		if result.Stress.Confidence != 1.0 {
			t.Errorf("Confidence = %v, want 1.0", result.Stress.Confidence)
		}
	})

	t.Run("none measured is 0.0", func(t *testing.T) {
		result, err := AnalyzeTraining([]store.Activity{
			makeActivity("a", "running", start.Add(9*time.Hour), 30),
			makeActivity("b", "cycling", start.AddDate(0, 0, 2), 60),
		}, start, end, p)
		if err != nil {
			t.Fatal(err)
		}
		if result.Stress.Confidence != 0.0 {
			t.Errorf("Confidence = %v, want 0.0", result.Stress.Confidence)
		}
	})

	t.Run("weighted by magnitude not count", func(t *testing.T) {
		// One measured 300-point effort vs three 24-point estimates
		// (30 min running): confidence tracks load share, 300/372.
		activities := []store.Activity{
			measured("big", start, 300),
			makeActivity("e1", "running", start.AddDate(0, 0, 1).Add(time.Hour), 30),
			makeActivity("e2", "running", start.AddDate(0, 0, 2).Add(time.Hour), 30),
			makeActivity("e3", "running", start.AddDate(0, 0, 3).Add(time.Hour), 30),
		}
		result, err := AnalyzeTraining(activities, start, end, p)
		if err != nil {
			t.Fatal(err)
		}
		want := 300.0 / 372.0
		if math.Abs(result.Stress.Confidence-want) > 1e-9 {
			t.Errorf("Confidence = %v, want %v", result.Stress.Confidence, want)
		}
		if result.Stress.Confidence <= 0 || result.Stress.Confidence >= 1 {
			t.Errorf("mixed Confidence = %v, want strictly between 0 and 1", result.Stress.Confidence)
		}
	})
}

func TestAnalyzeTrainingInvalidPeriod(t *testing.T) {
	p := DefaultParams()
	_, err := AnalyzeTraining(nil, date(2024, 5, 10), date(2024, 5, 1), p)
	if err != ErrInvalidPeriod {
		t.Errorf("AnalyzeTraining() err = %v, want ErrInvalidPeriod", err)
	}
}

func TestAnalyzeTrainingEmptyPeriod(t *testing.T) {
	p := DefaultParams()
	result, err := AnalyzeTraining(nil, date(2024, 5, 1), date(2024, 5, 7), p)
	if err != nil {
		t.Fatal(err)
	}
	if result.TotalActivities != 0 {
		t.Errorf("TotalActivities = %d, want 0", result.TotalActivities)
	}
	if len(result.DailyLoads) != 7 {
		t.Errorf("DailyLoads length = %d, want 7 even with no data", len(result.DailyLoads))
	}
	if result.Stress.Monotony == nil {
		t.Error("Monotony = nil for a 7-day all-zero period, want explicit zero")
	}
}

func TestAnalyzeTrainingSportSummaries(t *testing.T) {
	p := DefaultParams()
	start := date(2024, 6, 1)
	end := date(2024, 6, 7)

	run := makeActivity("r1", "running", start.Add(8*time.Hour), 60)
	run.DistanceKm = 10
	run.AvgHeartrate = floatPtr(150)
	run.AerobicEffect = floatPtr(3.2)
	run.Calories = intPtr(600)

	result, err := AnalyzeTraining([]store.Activity{run}, start, end, p)
	if err != nil {
		t.Fatal(err)
	}

	summary, ok := result.SportSummaries["running"]
	if !ok {
		t.Fatal("missing running summary")
	}
	if summary.Count != 1 {
		t.Errorf("Count = %d, want 1", summary.Count)
	}
	if summary.AvgSpeedKmh == nil || math.Abs(*summary.AvgSpeedKmh-10) > 1e-9 {
		t.Errorf("AvgSpeedKmh = %v, want 10", summary.AvgSpeedKmh)
	}
	// efficiency = (10 km/h / 150 bpm) * 100 = 6.67
	if summary.EfficiencyIndex == nil || math.Abs(*summary.EfficiencyIndex-10.0/150*100) > 1e-9 {
		t.Errorf("EfficiencyIndex = %v, want %v", summary.EfficiencyIndex, 10.0/150*100)
	}
	if result.IntensityDistribution[BandImproving] != 100 {
		t.Errorf("Improving share = %v, want 100", result.IntensityDistribution[BandImproving])
	}
	if result.TotalCalories != 600 {
		t.Errorf("TotalCalories = %d, want 600", result.TotalCalories)
	}
}

func TestAnalyzeTrainingEfficiencyUndefinedWithoutHR(t *testing.T) {
	p := DefaultParams()
	start := date(2024, 6, 1)

	run := makeActivity("r1", "running", start.Add(8*time.Hour), 60)
	run.DistanceKm = 10 // no HR

	result, err := AnalyzeTraining([]store.Activity{run}, start, start, p)
	if err != nil {
		t.Fatal(err)
	}
	if result.SportSummaries["running"].EfficiencyIndex != nil {
		t.Error("EfficiencyIndex should be nil without heart rate data")
	}
}

func TestWeekSumsAndVolumeTrend(t *testing.T) {
	p := DefaultParams()
	start := date(2024, 7, 1)
	end := start.AddDate(0, 0, 13)

	// Previous week: 7 x 30 min runs (24 each = 168). Current week:
	// 7 x 60 min runs (48 each = 336) -> +100% change.
	var activities []store.Activity
	for i := 0; i < 7; i++ {
		activities = append(activities, makeActivity("p", "running", start.AddDate(0, 0, i).Add(time.Hour), 30))
	}
	for i := 7; i < 14; i++ {
		activities = append(activities, makeActivity("c", "running", start.AddDate(0, 0, i).Add(time.Hour), 60))
	}

	result, err := AnalyzeTraining(activities, start, end, p)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(result.CurrentWeekLoad-336) > 1e-9 {
		t.Errorf("CurrentWeekLoad = %v, want 336", result.CurrentWeekLoad)
	}
	if math.Abs(result.PreviousWeekLoad-168) > 1e-9 {
		t.Errorf("PreviousWeekLoad = %v, want 168", result.PreviousWeekLoad)
	}
	if result.WeeklyVolumeTrend != TrendImproving {
		t.Errorf("WeeklyVolumeTrend = %v, want improving", result.WeeklyVolumeTrend)
	}
}
