package service

import (
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"vitals/internal/config"
	"vitals/internal/garmin"
	"vitals/internal/store"
)

// setupTestStore creates an in-memory store for integration tests
func setupTestStore(t *testing.T) *store.Store {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := store.Migrate(sqlDB); err != nil {
		sqlDB.Close()
		t.Fatalf("Failed to run migrations: %v", err)
	}
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return store.NewTestStore(sqlDB)
}

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

// seedWeek populates the store with a realistic week of data ending at
// end: a run per day, stress samples around each run, nightly resting
// samples, and daily/sleep rollups.
func seedWeek(t *testing.T, st *store.Store, end time.Time) {
	t.Helper()

	for i := 0; i < 7; i++ {
		day := end.AddDate(0, 0, -i)

		load := 80.0
		activity := &store.Activity{
			ID:           day.Format("20060102"),
			Name:         "Morning Run",
			Sport:        "running",
			StartTime:    day.Add(7 * time.Hour),
			DurationSec:  3600,
			DistanceKm:   10,
			AvgHeartrate: fptr(150),
			TrainingLoad: &load,
		}
		if err := st.UpsertActivity(activity); err != nil {
			t.Fatalf("seeding activity: %v", err)
		}

		// Overnight resting stress, then daytime readings around the run.
		var samples []store.StressSample
		for h := 1; h <= 5; h++ {
			samples = append(samples, store.StressSample{Timestamp: day.Add(time.Duration(h) * time.Hour), Level: 15})
		}
		samples = append(samples,
			store.StressSample{Timestamp: day.Add(6*time.Hour + 30*time.Minute), Level: 25},
			store.StressSample{Timestamp: day.Add(8*time.Hour + 10*time.Minute), Level: 70},
			store.StressSample{Timestamp: day.Add(9 * time.Hour), Level: 30},
			store.StressSample{Timestamp: day.Add(10 * time.Hour), Level: 18},
			store.StressSample{Timestamp: day.Add(14 * time.Hour), Level: 40},
		)
		if err := st.SaveStressSamples(samples); err != nil {
			t.Fatalf("seeding stress samples: %v", err)
		}

		daily := &store.DailySummary{
			Date:      day,
			RestingHR: fptr(52),
			BBCharged: iptr(75),
		}
		if err := st.UpsertDailySummary(daily); err != nil {
			t.Fatalf("seeding daily summary: %v", err)
		}

		sleep := &store.SleepSummary{
			Date:       day,
			SleepScore: iptr(80),
		}
		if err := st.UpsertSleepSummary(sleep); err != nil {
			t.Fatalf("seeding sleep summary: %v", err)
		}
	}
}

func TestAnalyzeFullReport(t *testing.T) {
	st := setupTestStore(t)
	end := time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)
	seedWeek(t, st, end)

	svc := NewReportService(st, config.DefaultConfig().Analysis)
	report, err := svc.Analyze(end.AddDate(0, 0, -6), end)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if report.Training == nil || report.Stress == nil || report.Recovery == nil {
		t.Fatal("report is missing engine results")
	}

	// Training: 7 measured runs, perfect load confidence.
	if report.Training.TotalActivities != 7 {
		t.Errorf("TotalActivities = %d, want 7", report.Training.TotalActivities)
	}
	if report.Training.Stress.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0", report.Training.Stress.Confidence)
	}
	if report.Training.Stress.ATL <= 0 || report.Training.Stress.CTL <= 0 {
		t.Errorf("ATL/CTL = %v/%v, want positive", report.Training.Stress.ATL, report.Training.Stress.CTL)
	}
	if len(report.Training.DailyLoads) != 7 {
		t.Errorf("DailyLoads = %d entries, want 7", len(report.Training.DailyLoads))
	}

	// Stress: the overnight 15s should set the baseline.
	if report.Stress.Baseline != 15 {
		t.Errorf("Baseline = %v, want 15", report.Stress.Baseline)
	}
	if report.Stress.Load.TotalLoad <= 0 {
		t.Errorf("TotalLoad = %v, want positive", report.Stress.Load.TotalLoad)
	}
	if len(report.Stress.Windows) == 0 {
		t.Error("expected post-activity recovery windows")
	}

	// Recovery: steady RHR at baseline, decent recharge and sleep.
	if report.Recovery.Score <= 0 || report.Recovery.Score > 100 {
		t.Errorf("Score = %d, want within (0,100]", report.Recovery.Score)
	}
	if report.Recovery.RHRBaseline == nil || *report.Recovery.RHRBaseline != 52 {
		t.Errorf("RHRBaseline = %v, want 52", report.Recovery.RHRBaseline)
	}
	if report.Recovery.ACWR == nil {
		t.Error("ACWR = nil, want ratio with a week of load")
	}
}

func TestAnalyzeEmptyStore(t *testing.T) {
	st := setupTestStore(t)
	svc := NewReportService(st, config.DefaultConfig().Analysis)

	end := time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)
	report, err := svc.Analyze(end.AddDate(0, 0, -6), end)
	if err != nil {
		t.Fatalf("Analyze on empty store: %v", err)
	}

	if report.Training.TotalActivities != 0 {
		t.Errorf("TotalActivities = %d, want 0", report.Training.TotalActivities)
	}
	if report.Stress.Load.TotalLoad != 0 {
		t.Errorf("TotalLoad = %v, want 0", report.Stress.Load.TotalLoad)
	}
	if report.Recovery.RHRBaseline != nil {
		t.Error("RHRBaseline should be nil without history")
	}
}

func TestAnalyzeInvalidPeriod(t *testing.T) {
	st := setupTestStore(t)
	svc := NewReportService(st, config.DefaultConfig().Analysis)

	end := time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)
	if _, err := svc.Analyze(end, end.AddDate(0, 0, -1)); err == nil {
		t.Error("expected error for inverted period")
	}
}

func TestReportServiceParamsFromConfig(t *testing.T) {
	st := setupTestStore(t)

	cfg := config.AnalysisConfig{
		ATLWindowDays:        5,
		CTLWindowDays:        30,
		BaselineLookbackDays: 10,
		RHRBaselineDays:      45,
	}
	svc := NewReportService(st, cfg)

	p := svc.Params()
	if p.ATLWindowDays != 5 || p.CTLWindowDays != 30 {
		t.Errorf("EMA windows = %d/%d, want 5/30", p.ATLWindowDays, p.CTLWindowDays)
	}
	if p.BaselineLookbackDays != 10 || p.RHRBaselineDays != 45 {
		t.Errorf("lookbacks = %d/%d, want 10/45", p.BaselineLookbackDays, p.RHRBaselineDays)
	}
	// Unconfigured knobs keep their defaults.
	if p.GapCapMinutes != 15 {
		t.Errorf("GapCapMinutes = %v, want default 15", p.GapCapMinutes)
	}
}

func TestConvertActivity(t *testing.T) {
	load := 95.0
	a := garmin.Activity{
		ActivityID:      "g-1",
		ActivityName:    "Tempo Run",
		SportType:       "running",
		StartTime:       time.Date(2024, 4, 10, 7, 0, 0, 0, time.UTC),
		DurationSeconds: 2700,
		DistanceMeters:  8000,
		TrainingLoad:    &load,
	}

	got := convertActivity(a)
	if got.ID != "g-1" || got.Sport != "running" {
		t.Errorf("convertActivity = %+v", got)
	}
	if got.DurationSec != 2700 {
		t.Errorf("DurationSec = %d, want 2700", got.DurationSec)
	}
	if got.DistanceKm != 8 {
		t.Errorf("DistanceKm = %v, want 8", got.DistanceKm)
	}
	if got.TrainingLoad == nil || *got.TrainingLoad != 95 {
		t.Errorf("TrainingLoad = %v, want 95", got.TrainingLoad)
	}
}

func TestConvertActivityGeneratesIDWhenMissing(t *testing.T) {
	a := garmin.Activity{
		ActivityName:    "Manual Entry",
		SportType:       "yoga",
		StartTime:       time.Date(2024, 4, 10, 18, 0, 0, 0, time.UTC),
		DurationSeconds: 1800,
	}

	first := convertActivity(a)
	second := convertActivity(a)
	if first.ID == "" {
		t.Fatal("expected a generated ID")
	}
	if first.ID == second.ID {
		t.Error("generated IDs should be unique per conversion")
	}
}
