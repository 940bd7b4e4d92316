package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TransactionIncome  = "income"
	TransactionExpense = "expense"
)

// Transaction is immutable once created; the only allowed mutation is
// deletion, which reverses its balance effect on the owning account.
type Transaction struct {
	ID          int64           `json:"id"`
	AccountID   int64           `json:"account_id"`
	UserID      int64           `json:"user_id"`
	Kind        string          `json:"kind"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"created_at"`
}
