package store

import "database/sql"

// migrate runs all database migrations
func migrate(db *sql.DB) error {
	migrations := []string{
		// Authentication (singleton row)
		`CREATE TABLE IF NOT EXISTS auth (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			user_id INTEGER NOT NULL,
			access_token TEXT NOT NULL,
			refresh_token TEXT NOT NULL,
			expires_at INTEGER NOT NULL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// Activities (exercise sessions from the wellness API)
		`CREATE TABLE IF NOT EXISTS activities (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			sport TEXT NOT NULL,
			start_time TEXT NOT NULL,
			duration_sec INTEGER NOT NULL,
			distance_km REAL NOT NULL,
			calories INTEGER,
			avg_heartrate REAL,
			max_heartrate REAL,
			aerobic_effect REAL,
			anaerobic_effect REAL,
			training_load REAL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_activities_start_time ON activities(start_time)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_sport ON activities(sport)`,

		// Stress samples (0-100 level time series)
		`CREATE TABLE IF NOT EXISTS stress_samples (
			timestamp TEXT PRIMARY KEY,
			level INTEGER NOT NULL
		)`,

		// Body battery samples (energy reserve time series)
		`CREATE TABLE IF NOT EXISTS body_battery_samples (
			timestamp TEXT PRIMARY KEY,
			level INTEGER NOT NULL,
			charged INTEGER,
			drained INTEGER
		)`,

		// Heart rate samples
		`CREATE TABLE IF NOT EXISTS heart_rate_samples (
			timestamp TEXT PRIMARY KEY,
			bpm INTEGER NOT NULL
		)`,

		// Daily wellness summaries (one row per calendar day)
		`CREATE TABLE IF NOT EXISTS daily_summaries (
			date TEXT PRIMARY KEY,
			resting_hr REAL,
			bb_charged INTEGER,
			bb_drained INTEGER,
			bb_max INTEGER,
			stress_avg REAL,
			steps INTEGER,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// Sleep summaries (one row per wake-up date)
		`CREATE TABLE IF NOT EXISTS sleep_summaries (
			date TEXT PRIMARY KEY,
			sleep_score INTEGER,
			total_minutes INTEGER,
			deep_minutes INTEGER,
			rem_minutes INTEGER,
			light_minutes INTEGER,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// Sync State (key-value store for sync tracking)
		`CREATE TABLE IF NOT EXISTS sync_state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}
