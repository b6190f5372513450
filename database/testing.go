package database

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"footnote/database/migrations"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

var (
	testDB    *DB
	testDBURL string
)

// GetTestDB returns the shared test database connection.
// Skips the calling test when running with -short or when TestMain could
// not reach postgres.
func GetTestDB(t *testing.T) *DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}
	if testDB == nil {
		t.Skip("postgres not available (set TEST_DATABASE_URL)")
	}
	return testDB
}

// SetupTestDB creates a test database connection and runs the embedded migrations.
// Should be called once in TestMain, not in individual tests.
func SetupTestDB(dbURL string) (*DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log := logrus.New()
	log.SetOutput(io.Discard)

	db, err := Connect(ctx, dbURL, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	if err := migrations.MigrateUp(db.Pool); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// CleanupTestDB truncates all tables for a fresh test state.
// Call this at the start of each integration test.
func CleanupTestDB(t *testing.T, db *DB) {
	t.Helper()

	ctx := context.Background()
	_, err := db.Pool.Exec(ctx, "TRUNCATE TABLE annotations, projects RESTART IDENTITY CASCADE")
	require.NoError(t, err)
}

// TeardownTestDB closes the test database connection.
// Safe to call with nil DB (no-op).
func TeardownTestDB(db *DB) {
	if db != nil {
		db.Close()
	}
}
