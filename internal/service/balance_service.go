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

// defaultDepositCapRatio bounds a deposit to a quarter of the client's
// outstanding unpaid work.
const defaultDepositCapRatio = "0.25"

type BalanceService struct {
	profiles ProfileRepository
	jobs     JobRepository
	capRatio decimal.Decimal
	now      func() time.Time
}

type DepositInput struct {
	Principal model.Profile
	TargetID  int64
	Amount    decimal.Decimal
}

type DepositResult struct {
	ProfileID   int64
	Amount      decimal.Decimal
	UnpaidTotal decimal.Decimal
	DepositedAt time.Time
}

func NewBalanceService(profiles ProfileRepository, jobs JobRepository, capRatio decimal.Decimal) *BalanceService {
	if !capRatio.IsPositive() {
		capRatio = decimal.RequireFromString(defaultDepositCapRatio)
	}
	return &BalanceService{
		profiles: profiles,
		jobs:     jobs,
		capRatio: capRatio,
		now:      time.Now,
	}
}

// Deposit credits a client's own balance. The amount may not exceed
// capRatio of the client's unpaid work, nor the client's current balance.
func (s *BalanceService) Deposit(ctx context.Context, input DepositInput) (*DepositResult, error) {
	if input.TargetID != input.Principal.ID {
		return nil, fmt.Errorf("%w: deposits are only allowed into your own balance", ErrPermissionDenied)
	}
	if !input.Principal.IsClient() {
		return nil, fmt.Errorf("%w: only clients can deposit", ErrPermissionDenied)
	}
	if !input.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if !input.Amount.Equal(input.Amount.Round(2)) {
		return nil, fmt.Errorf("%w: amount has more than two decimal places", ErrInvalidInput)
	}

	unpaidTotal, err := s.jobs.SumUnpaidJobs(ctx, model.OwnershipOf(input.Principal))
	if err != nil {
		return nil, err
	}
	if input.Amount.GreaterThan(unpaidTotal.Mul(s.capRatio)) {
		return nil, ErrDepositCapExceeded
	}

	profile, err := s.profiles.GetProfile(ctx, input.Principal.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if profile.Balance.LessThan(input.Amount) {
		return nil, ErrInsufficientFunds
	}

	at := s.now().UTC()
	if err := s.profiles.ApplyDeposit(ctx, profile.ID, input.Amount, at); err != nil {
		return nil, fmt.Errorf("%w: deposit into profile %d: %v", ErrTransactionFailed, profile.ID, err)
	}

	return &DepositResult{
		ProfileID:   profile.ID,
		Amount:      input.Amount,
		UnpaidTotal: unpaidTotal,
		DepositedAt: at,
	}, nil
}
