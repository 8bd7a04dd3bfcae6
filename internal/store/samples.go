package store

import (
	"fmt"
	"time"
)

// SaveStressSamples inserts or replaces stress samples in a single
// transaction. Sync batches can span a full day of 3-minute readings,
// so a prepared statement keeps this fast.
func (s *Store) SaveStressSamples(samples []StressSample) error {
	if len(samples) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO stress_samples (timestamp, level)
		VALUES (?, ?)
		ON CONFLICT(timestamp) DO UPDATE SET level = excluded.level
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, sample := range samples {
		if _, err := stmt.Exec(sample.Timestamp.Format(time.RFC3339), sample.Level); err != nil {
			return fmt.Errorf("inserting stress sample: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetStressSamples returns stress samples with timestamps in [from, to),
// ordered by timestamp ascending
func (s *Store) GetStressSamples(from, to time.Time) ([]StressSample, error) {
	rows, err := s.db.Query(`
		SELECT timestamp, level
		FROM stress_samples
		WHERE timestamp >= ? AND timestamp < ?
		ORDER BY timestamp ASC
	`, from.Format(time.RFC3339), to.Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []StressSample
	for rows.Next() {
		var sample StressSample
		var ts string
		if err := rows.Scan(&ts, &sample.Level); err != nil {
			return nil, err
		}
		sample.Timestamp, err = time.Parse(time.RFC3339, ts)
		if err != nil {
			return nil, fmt.Errorf("parsing timestamp %q: %w", ts, err)
		}
		samples = append(samples, sample)
	}
	return samples, rows.Err()
}

// SaveBodyBatterySamples inserts or replaces body battery samples in a
// single transaction
func (s *Store) SaveBodyBatterySamples(samples []BodyBatterySample) error {
	if len(samples) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO body_battery_samples (timestamp, level, charged, drained)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(timestamp) DO UPDATE SET
			level = excluded.level,
			charged = excluded.charged,
			drained = excluded.drained
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, sample := range samples {
		_, err := stmt.Exec(sample.Timestamp.Format(time.RFC3339), sample.Level, sample.Charged, sample.Drained)
		if err != nil {
			return fmt.Errorf("inserting body battery sample: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetBodyBatterySamples returns body battery samples with timestamps in
// [from, to), ordered by timestamp ascending
func (s *Store) GetBodyBatterySamples(from, to time.Time) ([]BodyBatterySample, error) {
	rows, err := s.db.Query(`
		SELECT timestamp, level, charged, drained
		FROM body_battery_samples
		WHERE timestamp >= ? AND timestamp < ?
		ORDER BY timestamp ASC
	`, from.Format(time.RFC3339), to.Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []BodyBatterySample
	for rows.Next() {
		var sample BodyBatterySample
		var ts string
		if err := rows.Scan(&ts, &sample.Level, &sample.Charged, &sample.Drained); err != nil {
			return nil, err
		}
		sample.Timestamp, err = time.Parse(time.RFC3339, ts)
		if err != nil {
			return nil, fmt.Errorf("parsing timestamp %q: %w", ts, err)
		}
		samples = append(samples, sample)
	}
	return samples, rows.Err()
}

// SaveHeartRateSamples inserts or replaces heart rate samples in a
// single transaction
func (s *Store) SaveHeartRateSamples(samples []HeartRateSample) error {
	if len(samples) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO heart_rate_samples (timestamp, bpm)
		VALUES (?, ?)
		ON CONFLICT(timestamp) DO UPDATE SET bpm = excluded.bpm
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, sample := range samples {
		if _, err := stmt.Exec(sample.Timestamp.Format(time.RFC3339), sample.BPM); err != nil {
			return fmt.Errorf("inserting heart rate sample: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetHeartRateSamples returns heart rate samples with timestamps in
// [from, to), ordered by timestamp ascending
func (s *Store) GetHeartRateSamples(from, to time.Time) ([]HeartRateSample, error) {
	rows, err := s.db.Query(`
		SELECT timestamp, bpm
		FROM heart_rate_samples
		WHERE timestamp >= ? AND timestamp < ?
		ORDER BY timestamp ASC
	`, from.Format(time.RFC3339), to.Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []HeartRateSample
	for rows.Next() {
		var sample HeartRateSample
		var ts string
		if err := rows.Scan(&ts, &sample.BPM); err != nil {
			return nil, err
		}
		sample.Timestamp, err = time.Parse(time.RFC3339, ts)
		if err != nil {
			return nil, fmt.Errorf("parsing timestamp %q: %w", ts, err)
		}
		samples = append(samples, sample)
	}
	return samples, rows.Err()
}
