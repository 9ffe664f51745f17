package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProfessionEarnings struct {
	Profession string
	Amount     decimal.Decimal
}

type ClientPayments struct {
	ID     int64           `json:"id"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

type ReportPeriod struct {
	Start time.Time
	End   time.Time
}

type BestClientsReport struct {
	Period      ReportPeriod
	GeneratedAt time.Time
	Clients     []ClientPayments
}
