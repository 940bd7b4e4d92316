package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Transfer struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"user_id"`
	FromAccountID int64           `json:"from_account_id"`
	ToAccountID   int64           `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	Date          time.Time       `json:"date"`
	CreatedAt     time.Time       `json:"created_at"`
}
