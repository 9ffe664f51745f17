package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nurpe/marketplace-payments/internal/model"
)

type ProfileRepository interface {
	GetProfile(ctx context.Context, id int64) (*model.Profile, error)
	ListProfiles(ctx context.Context) ([]model.Profile, error)
	ApplyDeposit(ctx context.Context, profileID int64, amount decimal.Decimal, at time.Time) error
}

type ContractRepository interface {
	GetContract(ctx context.Context, id int64, owner model.Ownership) (*model.Contract, error)
	ListActiveContracts(ctx context.Context, owner model.Ownership) ([]model.Contract, error)
}

type JobRepository interface {
	ListJobs(ctx context.Context, owner model.Ownership) ([]model.Job, error)
	ListUnpaidJobs(ctx context.Context, owner model.Ownership) ([]model.Job, error)
	SumUnpaidJobs(ctx context.Context, owner model.Ownership) (decimal.Decimal, error)
	GetJobPayment(ctx context.Context, jobID int64, owner model.Ownership) (*model.JobPayment, error)
	ApplyPayment(ctx context.Context, transfer model.Transfer) error
}

type ReportRepository interface {
	ProfessionEarnings(ctx context.Context, from, to time.Time) ([]model.ProfessionEarnings, error)
	ClientPayments(ctx context.Context, from, to time.Time, limit int) ([]model.ClientPayments, error)
}
