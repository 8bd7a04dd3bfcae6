package store

import (
	"database/sql"
)

// NewTestStore creates a Store for testing with an in-memory database.
// This is only intended for use in tests.
func NewTestStore(sqlDB *sql.DB) *Store {
	return newStore(sqlDB)
}

// Migrate runs migrations against an arbitrary database connection.
// Exposed for tests that manage their own connections.
func Migrate(db *sql.DB) error {
	return migrate(db)
}
