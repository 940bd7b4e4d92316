package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"sysfinance-server/src/ledger"
	"sysfinance-server/src/models"

	"github.com/shopspring/decimal"
)

// A transfer whose source and destination match must be rejected regardless
// of amount or balance. The guard runs before any database work, so a nil
// pool proves no rows were touched.
func TestCreateTransferSameAccountRejected(t *testing.T) {
	amounts := []string{"0.01", "10.00", "9999999999.99"}
	for _, amt := range amounts {
		transfer := &models.Transfer{
			UserID:        1,
			FromAccountID: 5,
			ToAccountID:   5,
			Amount:        decimal.RequireFromString(amt),
			Date:          time.Now(),
		}
		created, err := CreateTransfer(context.Background(), nil, transfer)
		if !errors.Is(err, ledger.ErrSameAccount) {
			t.Errorf("CreateTransfer(same account, %s) err=%v, want ErrSameAccount", amt, err)
		}
		if created != nil {
			t.Errorf("CreateTransfer(same account, %s) returned a transfer record", amt)
		}
	}
}
