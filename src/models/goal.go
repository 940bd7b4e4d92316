package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Goal struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"user_id"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	Deadline      time.Time       `json:"deadline"`
	CreatedAt     time.Time       `json:"created_at"`
}
