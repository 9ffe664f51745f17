package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nurpe/marketplace-payments/internal/config"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := &config.Config{DB: config.DBConfig{
		Driver: config.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "payments.db"),
	}}
	database, err := New(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := database.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return database
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	_, err := New(&config.Config{DB: config.DBConfig{Driver: "mysql", DSN: "x"}}, zerolog.Nop())
	assert.Error(t, err)
}

func TestMigrateIsIdempotent(t *testing.T) {
	database := openSQLite(t)

	require.NoError(t, Migrate(database))
	require.NoError(t, Migrate(database))
}

func TestSeedDemoFixtures(t *testing.T) {
	database := openSQLite(t)
	require.NoError(t, Migrate(database))

	fixtures := DemoFixtures(time.Now())
	require.NoError(t, Seed(context.Background(), database, fixtures))

	var profiles, contracts, paidJobs int64
	require.NoError(t, database.Raw(`SELECT COUNT(*) FROM profiles`).Row().Scan(&profiles))
	require.NoError(t, database.Raw(`SELECT COUNT(*) FROM contracts`).Row().Scan(&contracts))
	require.NoError(t, database.Raw(`SELECT COUNT(*) FROM jobs WHERE paid = 1`).Row().Scan(&paidJobs))
	assert.Equal(t, int64(len(fixtures.Profiles)), profiles)
	assert.Equal(t, int64(len(fixtures.Contracts)), contracts)
	assert.Equal(t, int64(9), paidJobs)

	// seeding twice violates the primary keys and rolls back as a whole
	assert.Error(t, Seed(context.Background(), database, fixtures))
}

func TestSchemaRejectsNegativeBalance(t *testing.T) {
	database := openSQLite(t)
	require.NoError(t, Migrate(database))

	err := database.Exec(`INSERT INTO profiles (id, first_name, last_name, profession, balance, type) VALUES (1, 'a', 'b', '', -1, 'client')`).Error
	assert.Error(t, err)
}
