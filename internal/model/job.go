package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Job struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Paid        *bool           `json:"paid"`
	PaymentDate *time.Time      `json:"paymentDate"`
	ContractID  int64           `json:"ContractId"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// IsPaid treats a nil flag as unpaid; only an explicit true counts.
func (j Job) IsPaid() bool {
	return j.Paid != nil && *j.Paid
}

// JobPayment is the job together with both parties of its contract, as
// loaded before a payment is attempted.
type JobPayment struct {
	Job               Job
	ClientID          int64
	ClientBalance     decimal.Decimal
	ContractorID      int64
	ContractorBalance decimal.Decimal
}

// Transfer is the write applied by the payment engine.
type Transfer struct {
	JobID        int64
	ClientID     int64
	ContractorID int64
	Amount       decimal.Decimal
	PaidAt       time.Time
}
