package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nurpe/marketplace-payments/internal/model"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// ProfessionEarnings sums paid job prices per contractor profession for
// payments made within [from, to]. Rows are ordered by amount descending,
// then profession ascending, so the first row is a deterministic winner.
func (r *ReportRepository) ProfessionEarnings(ctx context.Context, from, to time.Time) ([]model.ProfessionEarnings, error) {
	rows := []model.ProfessionEarnings{}
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			p.profession AS profession,
			SUM(j.price) AS amount
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		JOIN profiles p ON p.id = c.contractor_id
		WHERE j.paid = TRUE
			AND j.payment_date >= ?
			AND j.payment_date <= ?
			AND p.type = ?
		GROUP BY p.profession
		ORDER BY amount DESC, p.profession ASC
	`, from.UTC(), to.UTC(), string(model.ProfileTypeContractor)).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ClientPayments sums paid job prices per client for payments made within
// [from, to], ordered by amount descending then client id. limit <= 0
// returns every client.
func (r *ReportRepository) ClientPayments(ctx context.Context, from, to time.Time, limit int) ([]model.ClientPayments, error) {
	query := `
		SELECT
			p.id AS id,
			p.first_name AS first_name,
			p.last_name AS last_name,
			SUM(j.price) AS amount
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		JOIN profiles p ON p.id = c.client_id
		WHERE j.paid = TRUE
			AND j.payment_date >= ?
			AND j.payment_date <= ?
			AND p.type = ?
		GROUP BY p.id, p.first_name, p.last_name
		ORDER BY amount DESC, p.id ASC
	`
	args := []interface{}{from.UTC(), to.UTC(), string(model.ProfileTypeClient)}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var rows []struct {
		ID        int64
		FirstName string
		LastName  string
		Amount    decimal.Decimal
	}
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]model.ClientPayments, 0, len(rows))
	for _, row := range rows {
		profile := model.Profile{FirstName: row.FirstName, LastName: row.LastName}
		result = append(result, model.ClientPayments{
			ID:     row.ID,
			Name:   profile.FullName(),
			Amount: row.Amount,
		})
	}
	return result, nil
}
