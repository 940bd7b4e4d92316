package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	AccountChecking   = "checking"
	AccountSavings    = "savings"
	AccountInvestment = "investment"
	AccountWallet     = "wallet"
)

// Account.Balance is a denormalized running balance: InitialBalance plus the
// signed sum of all still-existing transactions and transfers. All mutations
// go through the ledger SQL layer; InitialBalance never changes after create.
type Account struct {
	ID             int64           `json:"id"`
	UserID         int64           `json:"user_id"`
	Name           string          `json:"name"`
	Kind           string          `json:"kind"`
	Balance        decimal.Decimal `json:"balance"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	CreatedAt      time.Time       `json:"created_at"`
}
