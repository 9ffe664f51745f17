package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nurpe/marketplace-payments/internal/model"
)

type JobService struct {
	repo JobRepository
	now  func() time.Time
}

type PaymentResult struct {
	JobID        int64
	ClientID     int64
	ContractorID int64
	Amount       decimal.Decimal
	PaidAt       time.Time
}

func NewJobService(repo JobRepository) *JobService {
	return &JobService{repo: repo, now: time.Now}
}

func (s *JobService) ListJobs(ctx context.Context, principal model.Profile) ([]model.Job, error) {
	return s.repo.ListJobs(ctx, model.OwnershipOf(principal))
}

func (s *JobService) ListUnpaidJobs(ctx context.Context, principal model.Profile) ([]model.Job, error) {
	return s.repo.ListUnpaidJobs(ctx, model.OwnershipOf(principal))
}

// PayJob transfers the job price from the contract's client to its
// contractor. Business rules are checked in order before anything is
// written: the job must belong to the principal, be unpaid, and be covered
// by the client balance. The transfer itself is atomic; when it cannot
// complete the error wraps ErrTransactionFailed and nothing has changed.
func (s *JobService) PayJob(ctx context.Context, principal model.Profile, jobID int64) (*PaymentResult, error) {
	if jobID <= 0 {
		return nil, ErrNotFound
	}

	payment, err := s.repo.GetJobPayment(ctx, jobID, model.OwnershipOf(principal))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if payment.Job.IsPaid() {
		return nil, ErrAlreadyPaid
	}
	if payment.ClientBalance.LessThan(payment.Job.Price) {
		return nil, fmt.Errorf("client %w", ErrInsufficientFunds)
	}

	transfer := model.Transfer{
		JobID:        payment.Job.ID,
		ClientID:     payment.ClientID,
		ContractorID: payment.ContractorID,
		Amount:       payment.Job.Price,
		PaidAt:       s.now().UTC(),
	}
	if err := s.repo.ApplyPayment(ctx, transfer); err != nil {
		return nil, fmt.Errorf("%w: pay job %d: %v", ErrTransactionFailed, jobID, err)
	}

	return &PaymentResult{
		JobID:        transfer.JobID,
		ClientID:     transfer.ClientID,
		ContractorID: transfer.ContractorID,
		Amount:       transfer.Amount,
		PaidAt:       transfer.PaidAt,
	}, nil
}
