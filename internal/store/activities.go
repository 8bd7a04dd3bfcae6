package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// UpsertActivity inserts or updates an activity
func (s *Store) UpsertActivity(a *Activity) error {
	_, err := s.db.Exec(`
		INSERT INTO activities (
			id, name, sport, start_time, duration_sec, distance_km,
			calories, avg_heartrate, max_heartrate,
			aerobic_effect, anaerobic_effect, training_load, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			sport = excluded.sport,
			start_time = excluded.start_time,
			duration_sec = excluded.duration_sec,
			distance_km = excluded.distance_km,
			calories = excluded.calories,
			avg_heartrate = excluded.avg_heartrate,
			max_heartrate = excluded.max_heartrate,
			aerobic_effect = excluded.aerobic_effect,
			anaerobic_effect = excluded.anaerobic_effect,
			training_load = excluded.training_load,
			updated_at = CURRENT_TIMESTAMP
	`,
		a.ID, a.Name, a.Sport, a.StartTime.Format(time.RFC3339), a.DurationSec, a.DistanceKm,
		a.Calories, a.AvgHeartrate, a.MaxHeartrate,
		a.AerobicEffect, a.AnaerobicEffect, a.TrainingLoad,
	)
	return err
}

// GetActivity retrieves an activity by ID
func (s *Store) GetActivity(id string) (*Activity, error) {
	row := s.db.QueryRow(`
		SELECT id, name, sport, start_time, duration_sec, distance_km,
			calories, avg_heartrate, max_heartrate,
			aerobic_effect, anaerobic_effect, training_load
		FROM activities
		WHERE id = ?
	`, id)

	a, err := scanActivity(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrActivityNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListActivities returns activities ordered by start time descending
func (s *Store) ListActivities(limit, offset int) ([]Activity, error) {
	rows, err := s.db.Query(`
		SELECT id, name, sport, start_time, duration_sec, distance_km,
			calories, avg_heartrate, max_heartrate,
			aerobic_effect, anaerobic_effect, training_load
		FROM activities
		ORDER BY start_time DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanActivities(rows)
}

// GetActivitiesInRange returns activities starting within [from, to),
// ordered by start time ascending
func (s *Store) GetActivitiesInRange(from, to time.Time) ([]Activity, error) {
	rows, err := s.db.Query(`
		SELECT id, name, sport, start_time, duration_sec, distance_km,
			calories, avg_heartrate, max_heartrate,
			aerobic_effect, anaerobic_effect, training_load
		FROM activities
		WHERE start_time >= ? AND start_time < ?
		ORDER BY start_time ASC
	`, from.Format(time.RFC3339), to.Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanActivities(rows)
}

// CountActivities returns the total number of activities
func (s *Store) CountActivities() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM activities").Scan(&count)
	return count, err
}

// scanActivity scans one activity using the given scan function
func scanActivity(scan func(dest ...any) error) (*Activity, error) {
	var a Activity
	var startTime string

	err := scan(
		&a.ID, &a.Name, &a.Sport, &startTime, &a.DurationSec, &a.DistanceKm,
		&a.Calories, &a.AvgHeartrate, &a.MaxHeartrate,
		&a.AerobicEffect, &a.AnaerobicEffect, &a.TrainingLoad,
	)
	if err != nil {
		return nil, err
	}

	a.StartTime, err = time.Parse(time.RFC3339, startTime)
	if err != nil {
		return nil, fmt.Errorf("parsing start_time %q: %w", startTime, err)
	}
	return &a, nil
}

// scanActivities scans multiple activities from rows
func scanActivities(rows *sql.Rows) ([]Activity, error) {
	var activities []Activity
	for rows.Next() {
		a, err := scanActivity(rows.Scan)
		if err != nil {
			return nil, err
		}
		activities = append(activities, *a)
	}
	return activities, rows.Err()
}
