package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nurpe/marketplace-payments/internal/model"
)

const jobColumns = `
	j.id,
	j.description,
	j.price,
	j.paid,
	j.payment_date,
	j.contract_id,
	j.created_at,
	j.updated_at
`

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) ListJobs(ctx context.Context, owner model.Ownership) ([]model.Job, error) {
	jobs := []model.Job{}
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+jobColumns+`
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		WHERE `+ownerClause(owner)+`
		ORDER BY j.id ASC
	`, owner.ProfileID).Scan(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

// ListUnpaidJobs returns unpaid jobs on the owner's contracts that are not terminated.
func (r *JobRepository) ListUnpaidJobs(ctx context.Context, owner model.Ownership) ([]model.Job, error) {
	jobs := []model.Job{}
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+jobColumns+`
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		WHERE j.paid IS NULL
			AND c.status <> ?
			AND `+ownerClause(owner)+`
		ORDER BY j.id ASC
	`, string(model.ContractStatusTerminated), owner.ProfileID).Scan(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

// SumUnpaidJobs totals the price of every unpaid job on the owner's
// contracts regardless of contract status.
func (r *JobRepository) SumUnpaidJobs(ctx context.Context, owner model.Ownership) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(j.price), 0)
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		WHERE j.paid IS NULL AND `+ownerClause(owner)+`
	`, owner.ProfileID).Row().Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// GetJobPayment loads the job and both contract parties, scoped to owner.
func (r *JobRepository) GetJobPayment(ctx context.Context, jobID int64, owner model.Ownership) (*model.JobPayment, error) {
	var row struct {
		model.Job
		ClientID          int64
		ClientBalance     decimal.Decimal
		ContractorID      int64
		ContractorBalance decimal.Decimal
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			`+jobColumns+`,
			c.client_id,
			client.balance AS client_balance,
			c.contractor_id,
			contractor.balance AS contractor_balance
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		JOIN profiles client ON client.id = c.client_id
		JOIN profiles contractor ON contractor.id = c.contractor_id
		WHERE j.id = ? AND `+ownerClause(owner)+`
		LIMIT 1
	`, jobID, owner.ProfileID).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.Job.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return &model.JobPayment{
		Job:               row.Job,
		ClientID:          row.ClientID,
		ClientBalance:     row.ClientBalance,
		ContractorID:      row.ContractorID,
		ContractorBalance: row.ContractorBalance,
	}, nil
}

// ApplyPayment moves the job price from client to contractor and marks the
// job paid, all in one transaction. Every step is guarded; a guard that
// matches no rows aborts with ErrConflict and nothing is written.
func (r *JobRepository) ApplyPayment(ctx context.Context, transfer model.Transfer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lockedJob []int64
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Table("jobs").
			Where("id = ?", transfer.JobID).
			Pluck("id", &lockedJob).Error
		if err != nil {
			return err
		}
		if len(lockedJob) != 1 {
			return gorm.ErrRecordNotFound
		}
		if err := lockProfiles(tx, transfer.ClientID, transfer.ContractorID); err != nil {
			return err
		}

		res := tx.Exec(`
			UPDATE jobs
			SET paid = TRUE, payment_date = ?, updated_at = ?
			WHERE id = ? AND COALESCE(paid, FALSE) = FALSE
		`, transfer.PaidAt, transfer.PaidAt, transfer.JobID)
		if err := expectOneRow(res); err != nil {
			return err
		}

		res = tx.Exec(`
			UPDATE profiles
			SET balance = ROUND(balance - ?, 2), updated_at = ?
			WHERE id = ? AND balance >= ?
		`, transfer.Amount, transfer.PaidAt, transfer.ClientID, transfer.Amount)
		if err := expectOneRow(res); err != nil {
			return err
		}

		res = tx.Exec(`
			UPDATE profiles
			SET balance = ROUND(balance + ?, 2), updated_at = ?
			WHERE id = ?
		`, transfer.Amount, transfer.PaidAt, transfer.ContractorID)
		return expectOneRow(res)
	})
}

func expectOneRow(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return ErrConflict
	}
	return nil
}
