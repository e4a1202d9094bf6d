package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaidJobRow is one (contract, job) pair paid inside a report window.
type PaidJobRow struct {
	ContractID uuid.UUID
	JobID      uuid.UUID
	Profession string
	Price      decimal.Decimal
}

type ProfessionEarning struct {
	Profession string          `json:"profession"`
	Earned     decimal.Decimal `json:"earned"`
}

type ProfessionReport struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
	// Rows keeps professions in the order they were first encountered.
	Rows []ProfessionEarning
	Best ProfessionEarning
}
