package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nurpe/marketplace-payments/internal/config"
	"github.com/nurpe/marketplace-payments/internal/db"
	"github.com/nurpe/marketplace-payments/internal/model"
)

func newTestDB(t *testing.T, fixtures db.Fixtures) *gorm.DB {
	t.Helper()
	cfg := &config.Config{DB: config.DBConfig{
		Driver: config.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "payments.db"),
	}}
	database, err := db.New(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := database.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	require.NoError(t, db.Migrate(database))
	require.NoError(t, db.Seed(context.Background(), database, fixtures))
	return database
}

func money(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func paidAt(t time.Time) (*bool, *time.Time) {
	paid := true
	return &paid, &t
}

// marketplace: client 1 (100) and client 2 (500) hire contractor 3
// (programmer, 0) and contractor 4 (designer, 10).
func marketplace() db.Fixtures {
	paid, at := paidAt(time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC))
	return db.Fixtures{
		Profiles: []model.Profile{
			{ID: 1, FirstName: "Ada", LastName: "Client", Balance: money("100"), Type: model.ProfileTypeClient},
			{ID: 2, FirstName: "Bob", LastName: "Client", Balance: money("500"), Type: model.ProfileTypeClient},
			{ID: 3, FirstName: "Cy", LastName: "Coder", Profession: "Programmer", Balance: money("0"), Type: model.ProfileTypeContractor},
			{ID: 4, FirstName: "Di", LastName: "Drawer", Profession: "Designer", Balance: money("10"), Type: model.ProfileTypeContractor},
		},
		Contracts: []model.Contract{
			{ID: 1, Terms: "build", Status: model.ContractStatusInProgress, ClientID: 1, ContractorID: 3},
			{ID: 2, Terms: "paint", Status: model.ContractStatusTerminated, ClientID: 1, ContractorID: 4},
			{ID: 3, Terms: "ship", Status: model.ContractStatusNew, ClientID: 2, ContractorID: 4},
		},
		Jobs: []model.Job{
			{ID: 1, Description: "api", Price: money("40"), ContractID: 1},
			{ID: 2, Description: "logo", Price: money("25"), ContractID: 2},
			{ID: 3, Description: "banner", Price: money("300"), ContractID: 3},
			{ID: 4, Description: "tests", Price: money("15"), Paid: paid, PaymentDate: at, ContractID: 1},
		},
	}
}
