package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"vitals/internal/garmin"
	"vitals/internal/store"
)

// SyncService orchestrates syncing wellness data from the API
type SyncService struct {
	client *garmin.Client
	store  *store.Store
}

// NewSyncService creates a new sync service
func NewSyncService(client *garmin.Client, st *store.Store) *SyncService {
	return &SyncService{
		client: client,
		store:  st,
	}
}

// SyncProgress reports progress during sync
type SyncProgress struct {
	Phase       string // "activities", "wellness"
	Total       int
	Completed   int
	CurrentItem string
	Error       error
}

// SyncResult contains the results of a sync operation
type SyncResult struct {
	ActivitiesFetched int
	ActivitiesStored  int
	DaysSynced        int
	StressSamples     int
	BodyBatterySamples int
	HeartRateSamples  int
	Errors            []error
}

// SyncAll performs a full sync: activities -> per-day wellness series
func (s *SyncService) SyncAll(ctx context.Context, progress chan<- SyncProgress) (*SyncResult, error) {
	if progress != nil {
		defer close(progress)
	}

	result := &SyncResult{}

	if err := s.syncActivities(ctx, progress, result); err != nil {
		return result, fmt.Errorf("syncing activities: %w", err)
	}

	if err := s.syncWellness(ctx, progress, result); err != nil {
		return result, fmt.Errorf("syncing wellness: %w", err)
	}

	return result, nil
}

// syncActivities fetches all new activities and stores them
func (s *SyncService) syncActivities(ctx context.Context, progress chan<- SyncProgress, result *SyncResult) error {
	// Get last sync time
	lastSyncStr, _ := s.store.GetSyncState("last_activity_sync")
	var after time.Time
	if lastSyncStr != "" {
		after, _ = time.Parse(time.RFC3339, lastSyncStr)
	}

	if progress != nil {
		progress <- SyncProgress{Phase: "activities", Total: 0, Completed: 0}
	}

	page := 1

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		activities, err := s.client.GetActivities(ctx, after, page, ActivityPageSize)
		if err != nil {
			return fmt.Errorf("fetching page %d: %w", page, err)
		}

		if len(activities) == 0 {
			break
		}

		result.ActivitiesFetched += len(activities)

		for _, a := range activities {
			storeActivity := convertActivity(a)
			if err := s.store.UpsertActivity(storeActivity); err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("storing activity %s: %w", storeActivity.ID, err))
				continue
			}
			result.ActivitiesStored++
		}

		if progress != nil {
			progress <- SyncProgress{
				Phase:     "activities",
				Total:     result.ActivitiesFetched,
				Completed: result.ActivitiesStored,
			}
		}

		if len(activities) < ActivityPageSize {
			break // Last page
		}

		page++
	}

	// Update last sync time
	s.store.SetSyncState("last_activity_sync", time.Now().Format(time.RFC3339))

	return nil
}

// syncWellness fetches the per-day time series and rollups for every day
// since the last wellness sync
func (s *SyncService) syncWellness(ctx context.Context, progress chan<- SyncProgress, result *SyncResult) error {
	today := truncateToDay(time.Now())

	start := today.AddDate(0, 0, -DefaultBackfillDays)
	lastSyncStr, _ := s.store.GetSyncState("last_wellness_sync")
	if lastSyncStr != "" {
		if last, err := time.Parse("2006-01-02", lastSyncStr); err == nil {
			// Re-sync the last synced day: the device may have uploaded
			// more samples for it since.
			start = last
		}
	}

	var days []time.Time
	for d := start; !d.After(today); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}

	if progress != nil {
		progress <- SyncProgress{Phase: "wellness", Total: len(days), Completed: 0}
	}

	for i, day := range days {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if progress != nil {
			progress <- SyncProgress{
				Phase:       "wellness",
				Total:       len(days),
				Completed:   i,
				CurrentItem: day.Format("2006-01-02"),
			}
		}

		if err := s.syncDay(ctx, day, result); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("syncing %s: %w", day.Format("2006-01-02"), err))
			continue
		}
		result.DaysSynced++
	}

	if progress != nil {
		progress <- SyncProgress{Phase: "wellness", Total: len(days), Completed: len(days)}
	}

	s.store.SetSyncState("last_wellness_sync", today.Format("2006-01-02"))

	return nil
}

// syncDay fetches and stores one day of wellness data
func (s *SyncService) syncDay(ctx context.Context, day time.Time, result *SyncResult) error {
	stress, err := s.client.GetStressDetail(ctx, day)
	if err != nil {
		return fmt.Errorf("stress detail: %w", err)
	}
	samples := make([]store.StressSample, 0, len(stress.Values))
	for _, v := range stress.Values {
		samples = append(samples, store.StressSample{Timestamp: v.Time(), Level: v.Value})
	}
	if err := s.store.SaveStressSamples(samples); err != nil {
		return fmt.Errorf("saving stress samples: %w", err)
	}
	result.StressSamples += len(samples)

	bb, err := s.client.GetBodyBatteryDetail(ctx, day)
	if err != nil {
		return fmt.Errorf("body battery detail: %w", err)
	}
	bbSamples := make([]store.BodyBatterySample, 0, len(bb.Values))
	for _, v := range bb.Values {
		bbSamples = append(bbSamples, store.BodyBatterySample{
			Timestamp: time.UnixMilli(v.TimestampMS),
			Level:     v.Level,
			Charged:   v.Charged,
			Drained:   v.Drained,
		})
	}
	if err := s.store.SaveBodyBatterySamples(bbSamples); err != nil {
		return fmt.Errorf("saving body battery samples: %w", err)
	}
	result.BodyBatterySamples += len(bbSamples)

	hr, err := s.client.GetHeartRateDetail(ctx, day)
	if err != nil {
		return fmt.Errorf("heart rate detail: %w", err)
	}
	hrSamples := make([]store.HeartRateSample, 0, len(hr.Values))
	for _, v := range hr.Values {
		hrSamples = append(hrSamples, store.HeartRateSample{Timestamp: v.Time(), BPM: v.Value})
	}
	if err := s.store.SaveHeartRateSamples(hrSamples); err != nil {
		return fmt.Errorf("saving heart rate samples: %w", err)
	}
	result.HeartRateSamples += len(hrSamples)

	daily, err := s.client.GetDailySummary(ctx, day)
	if err != nil {
		return fmt.Errorf("daily summary: %w", err)
	}
	if err := s.store.UpsertDailySummary(convertDailySummary(day, daily)); err != nil {
		return fmt.Errorf("saving daily summary: %w", err)
	}

	sleep, err := s.client.GetSleepSummary(ctx, day)
	if err != nil {
		return fmt.Errorf("sleep summary: %w", err)
	}
	if err := s.store.UpsertSleepSummary(convertSleepSummary(day, sleep)); err != nil {
		return fmt.Errorf("saving sleep summary: %w", err)
	}

	return nil
}

// RateLimitStatus returns the current rate limit status from the client
func (s *SyncService) RateLimitStatus() (shortRemaining, dailyRemaining int) {
	return s.client.RateLimitStatus()
}

// convertActivity converts an API activity to a store activity.
// Manually recorded sessions can come back without an ID; they get a
// generated one so re-syncs don't collide on the empty string.
func convertActivity(a garmin.Activity) *store.Activity {
	id := a.ActivityID
	if id == "" {
		id = uuid.NewString()
	}

	return &store.Activity{
		ID:              id,
		Name:            a.ActivityName,
		Sport:           a.SportType,
		StartTime:       a.StartTime,
		DurationSec:     int(a.DurationSeconds),
		DistanceKm:      a.DistanceMeters / 1000,
		Calories:        a.Calories,
		AvgHeartrate:    a.AvgHeartRate,
		MaxHeartrate:    a.MaxHeartRate,
		AerobicEffect:   a.AerobicEffect,
		AnaerobicEffect: a.AnaerobicEffect,
		TrainingLoad:    a.TrainingLoad,
	}
}

func convertDailySummary(day time.Time, d *garmin.DailySummary) *store.DailySummary {
	return &store.DailySummary{
		Date:      day,
		RestingHR: d.RestingHeartRate,
		BBCharged: d.BodyBatteryCharged,
		BBDrained: d.BodyBatteryDrained,
		BBMax:     d.BodyBatteryMax,
		StressAvg: d.AverageStress,
		Steps:     d.TotalSteps,
	}
}

func convertSleepSummary(day time.Time, sl *garmin.SleepSummary) *store.SleepSummary {
	return &store.SleepSummary{
		Date:         day,
		SleepScore:   sl.SleepScore,
		TotalMinutes: sl.TotalMinutes,
		DeepMinutes:  sl.DeepMinutes,
		RemMinutes:   sl.RemMinutes,
		LightMinutes: sl.LightMinutes,
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
