package testdb

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/hivelog/hivelog-api/internal/config"
	"github.com/hivelog/hivelog-api/internal/platform/logger"
	"github.com/hivelog/hivelog-api/internal/platform/postgres"
	"github.com/stretchr/testify/require"
)

// URL returns HIVELOG_TEST_DB_URL, falling back to DATABASE_URL.
func URL() string {
	if u := os.Getenv("HIVELOG_TEST_DB_URL"); u != "" {
		return u
	}
	return os.Getenv("DATABASE_URL")
}

var (
	migrateOnce sync.Once
	migrateErr  error
)

// Open connects to the test database and migrates it to the latest schema
// once per test binary. Tests are skipped when no URL is configured.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	url := URL()
	if url == "" {
		t.Skip("HIVELOG_TEST_DB_URL or DATABASE_URL not set")
	}

	log, _ := logger.NewTestLogger()
	db, err := postgres.Open(context.Background(), config.DatabaseConfig{URL: url, MaxOpenConns: 4}, log)
	require.NoError(t, err, "open test database")
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("close test database: %v", err)
		}
	})

	migrateOnce.Do(func() {
		migrateErr = postgres.Migrate(context.Background(), db, "up", log)
	})
	require.NoError(t, migrateErr, "migrate test database")

	return db
}

// WithTx hands fn a transaction that is rolled back afterwards, so tests
// sharing a database never see each other's rows.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err, "begin test transaction")
	t.Cleanup(func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("rollback test transaction: %v", err)
		}
	})

	fn(t, tx)
}
