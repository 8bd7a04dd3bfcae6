package store

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// UpsertDailySummary inserts or updates the wellness summary for one day
func (s *Store) UpsertDailySummary(d *DailySummary) error {
	_, err := s.db.Exec(`
		INSERT INTO daily_summaries (
			date, resting_hr, bb_charged, bb_drained, bb_max, stress_avg, steps, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(date) DO UPDATE SET
			resting_hr = excluded.resting_hr,
			bb_charged = excluded.bb_charged,
			bb_drained = excluded.bb_drained,
			bb_max = excluded.bb_max,
			stress_avg = excluded.stress_avg,
			steps = excluded.steps,
			updated_at = CURRENT_TIMESTAMP
	`, d.Date.Format(dateLayout), d.RestingHR, d.BBCharged, d.BBDrained, d.BBMax, d.StressAvg, d.Steps)
	return err
}

// GetDailySummaries returns daily summaries with dates in [from, to],
// ordered by date ascending
func (s *Store) GetDailySummaries(from, to time.Time) ([]DailySummary, error) {
	rows, err := s.db.Query(`
		SELECT date, resting_hr, bb_charged, bb_drained, bb_max, stress_avg, steps
		FROM daily_summaries
		WHERE date >= ? AND date <= ?
		ORDER BY date ASC
	`, from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []DailySummary
	for rows.Next() {
		var d DailySummary
		var date string
		err := rows.Scan(&date, &d.RestingHR, &d.BBCharged, &d.BBDrained, &d.BBMax, &d.StressAvg, &d.Steps)
		if err != nil {
			return nil, err
		}
		d.Date, err = time.Parse(dateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("parsing date %q: %w", date, err)
		}
		summaries = append(summaries, d)
	}
	return summaries, rows.Err()
}

// UpsertSleepSummary inserts or updates the sleep summary for one night
func (s *Store) UpsertSleepSummary(sl *SleepSummary) error {
	_, err := s.db.Exec(`
		INSERT INTO sleep_summaries (
			date, sleep_score, total_minutes, deep_minutes, rem_minutes, light_minutes, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(date) DO UPDATE SET
			sleep_score = excluded.sleep_score,
			total_minutes = excluded.total_minutes,
			deep_minutes = excluded.deep_minutes,
			rem_minutes = excluded.rem_minutes,
			light_minutes = excluded.light_minutes,
			updated_at = CURRENT_TIMESTAMP
	`, sl.Date.Format(dateLayout), sl.SleepScore, sl.TotalMinutes, sl.DeepMinutes, sl.RemMinutes, sl.LightMinutes)
	return err
}

// GetSleepSummaries returns sleep summaries with dates in [from, to],
// ordered by date ascending
func (s *Store) GetSleepSummaries(from, to time.Time) ([]SleepSummary, error) {
	rows, err := s.db.Query(`
		SELECT date, sleep_score, total_minutes, deep_minutes, rem_minutes, light_minutes
		FROM sleep_summaries
		WHERE date >= ? AND date <= ?
		ORDER BY date ASC
	`, from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []SleepSummary
	for rows.Next() {
		var sl SleepSummary
		var date string
		err := rows.Scan(&date, &sl.SleepScore, &sl.TotalMinutes, &sl.DeepMinutes, &sl.RemMinutes, &sl.LightMinutes)
		if err != nil {
			return nil, err
		}
		sl.Date, err = time.Parse(dateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("parsing date %q: %w", date, err)
		}
		summaries = append(summaries, sl)
	}
	return summaries, rows.Err()
}
