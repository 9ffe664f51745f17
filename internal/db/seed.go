package db

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nurpe/marketplace-payments/internal/model"
)

type Fixtures struct {
	Profiles  []model.Profile
	Contracts []model.Contract
	Jobs      []model.Job
}

// Seed inserts fixtures with their explicit ids in one transaction.
func Seed(ctx context.Context, db *gorm.DB, fixtures Fixtures) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range fixtures.Profiles {
			if err := tx.Exec(`
				INSERT INTO profiles (id, first_name, last_name, profession, balance, type)
				VALUES (?, ?, ?, ?, ?, ?)
			`, p.ID, p.FirstName, p.LastName, p.Profession, p.Balance, string(p.Type)).Error; err != nil {
				return fmt.Errorf("seed profile %d: %w", p.ID, err)
			}
		}
		for _, c := range fixtures.Contracts {
			if err := tx.Exec(`
				INSERT INTO contracts (id, terms, status, client_id, contractor_id)
				VALUES (?, ?, ?, ?, ?)
			`, c.ID, c.Terms, string(c.Status), c.ClientID, c.ContractorID).Error; err != nil {
				return fmt.Errorf("seed contract %d: %w", c.ID, err)
			}
		}
		for _, j := range fixtures.Jobs {
			if err := tx.Exec(`
				INSERT INTO jobs (id, description, price, paid, payment_date, contract_id)
				VALUES (?, ?, ?, ?, ?, ?)
			`, j.ID, j.Description, j.Price, j.Paid, j.PaymentDate, j.ContractID).Error; err != nil {
				return fmt.Errorf("seed job %d: %w", j.ID, err)
			}
		}

		if tx.Dialector.Name() != "postgres" {
			return nil
		}
		for _, table := range []string{"profiles", "contracts", "jobs"} {
			if err := tx.Exec(fmt.Sprintf(
				`SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 0) + 1, false)`,
				table, table,
			)).Error; err != nil {
				return fmt.Errorf("reset %s sequence: %w", table, err)
			}
		}
		return nil
	})
}

// DemoFixtures is a small marketplace used for local development.
func DemoFixtures(now time.Time) Fixtures {
	paid := true
	paidAt := func(daysAgo int) *time.Time {
		t := now.AddDate(0, 0, -daysAgo).UTC().Truncate(time.Second)
		return &t
	}

	return Fixtures{
		Profiles: []model.Profile{
			{ID: 1, FirstName: "Harry", LastName: "Potter", Profession: "Wizard", Balance: decimal.RequireFromString("1150"), Type: model.ProfileTypeClient},
			{ID: 2, FirstName: "Mr", LastName: "Robot", Profession: "Hacker", Balance: decimal.RequireFromString("231.11"), Type: model.ProfileTypeClient},
			{ID: 3, FirstName: "John", LastName: "Snow", Profession: "Knows nothing", Balance: decimal.RequireFromString("451.3"), Type: model.ProfileTypeClient},
			{ID: 4, FirstName: "Ash", LastName: "Kethcum", Profession: "Pokemon master", Balance: decimal.RequireFromString("1.3"), Type: model.ProfileTypeClient},
			{ID: 5, FirstName: "John", LastName: "Lenon", Profession: "Musician", Balance: decimal.RequireFromString("64"), Type: model.ProfileTypeContractor},
			{ID: 6, FirstName: "Linus", LastName: "Torvalds", Profession: "Programmer", Balance: decimal.RequireFromString("1214"), Type: model.ProfileTypeContractor},
			{ID: 7, FirstName: "Alan", LastName: "Turing", Profession: "Programmer", Balance: decimal.RequireFromString("22"), Type: model.ProfileTypeContractor},
			{ID: 8, FirstName: "Aragorn", LastName: "II Elessar Telcontarvalds", Profession: "Fighter", Balance: decimal.RequireFromString("314"), Type: model.ProfileTypeContractor},
		},
		Contracts: []model.Contract{
			{ID: 1, Terms: "bla bla bla", Status: model.ContractStatusTerminated, ClientID: 1, ContractorID: 5},
			{ID: 2, Terms: "bla bla bla", Status: model.ContractStatusInProgress, ClientID: 1, ContractorID: 6},
			{ID: 3, Terms: "bla bla bla", Status: model.ContractStatusInProgress, ClientID: 2, ContractorID: 6},
			{ID: 4, Terms: "bla bla bla", Status: model.ContractStatusInProgress, ClientID: 2, ContractorID: 7},
			{ID: 5, Terms: "bla bla bla", Status: model.ContractStatusNew, ClientID: 3, ContractorID: 8},
			{ID: 6, Terms: "bla bla bla", Status: model.ContractStatusInProgress, ClientID: 3, ContractorID: 7},
			{ID: 7, Terms: "bla bla bla", Status: model.ContractStatusInProgress, ClientID: 4, ContractorID: 7},
			{ID: 8, Terms: "bla bla bla", Status: model.ContractStatusInProgress, ClientID: 4, ContractorID: 6},
			{ID: 9, Terms: "bla bla bla", Status: model.ContractStatusInProgress, ClientID: 4, ContractorID: 8},
		},
		Jobs: []model.Job{
			{ID: 1, Description: "work", Price: decimal.RequireFromString("200"), ContractID: 1},
			{ID: 2, Description: "work", Price: decimal.RequireFromString("201"), ContractID: 2},
			{ID: 3, Description: "work", Price: decimal.RequireFromString("202"), ContractID: 3},
			{ID: 4, Description: "work", Price: decimal.RequireFromString("200"), ContractID: 4},
			{ID: 5, Description: "work", Price: decimal.RequireFromString("200"), ContractID: 7},
			{ID: 6, Description: "work", Price: decimal.RequireFromString("2020"), Paid: &paid, PaymentDate: paidAt(5), ContractID: 7},
			{ID: 7, Description: "work", Price: decimal.RequireFromString("200"), Paid: &paid, PaymentDate: paidAt(4), ContractID: 2},
			{ID: 8, Description: "work", Price: decimal.RequireFromString("200"), Paid: &paid, PaymentDate: paidAt(3), ContractID: 3},
			{ID: 9, Description: "work", Price: decimal.RequireFromString("200"), Paid: &paid, PaymentDate: paidAt(2), ContractID: 1},
			{ID: 10, Description: "work", Price: decimal.RequireFromString("200"), Paid: &paid, PaymentDate: paidAt(1), ContractID: 5},
			{ID: 11, Description: "work", Price: decimal.RequireFromString("21"), Paid: &paid, PaymentDate: paidAt(1), ContractID: 1},
			{ID: 12, Description: "work", Price: decimal.RequireFromString("21"), Paid: &paid, PaymentDate: paidAt(1), ContractID: 2},
			{ID: 13, Description: "work", Price: decimal.RequireFromString("121"), Paid: &paid, PaymentDate: paidAt(1), ContractID: 3},
			{ID: 14, Description: "work", Price: decimal.RequireFromString("121"), Paid: &paid, PaymentDate: paidAt(1), ContractID: 3},
		},
	}
}
