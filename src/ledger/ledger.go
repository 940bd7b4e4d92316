// Package ledger centralizes every balance adjustment in the system. Account
// balances are denormalized: the stored balance must always equal the initial
// balance recorded at account creation plus the signed sum of all
// still-existing transactions and transfers. Handlers never adjust a balance
// directly; they go through the SQL layer, which applies the deltas computed
// here inside a single database transaction with the account row locked.
package ledger

import (
	"sysfinance-server/src/models"

	"github.com/shopspring/decimal"
)

// maxAmount bounds currency values to 10 integer digits (NUMERIC(12,2)).
var maxAmount = decimal.New(1, 10)

// ParseAmount parses a currency value from user input. Amounts must be
// positive, at most two fractional digits, and under 10^10.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if err := CheckAmount(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// ParseBalance is like ParseAmount but permits zero: opening balances and
// goal starting amounts may legitimately be 0.00.
func ParseBalance(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.IsZero() {
		return d, nil
	}
	if err := CheckAmount(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

func CheckAmount(d decimal.Decimal) error {
	if !d.IsPositive() {
		return ErrInvalidAmount
	}
	if !d.Equal(d.Round(2)) {
		return ErrInvalidAmount
	}
	if !d.LessThan(maxAmount) {
		return ErrInvalidAmount
	}
	return nil
}

// Delta returns the signed balance adjustment for creating a transaction of
// the given kind: +amount for income, -amount for expense.
func Delta(kind string, amount decimal.Decimal) (decimal.Decimal, error) {
	switch kind {
	case models.TransactionIncome:
		return amount, nil
	case models.TransactionExpense:
		return amount.Neg(), nil
	default:
		return decimal.Zero, ErrInvalidKind
	}
}

// ReverseDelta returns the adjustment for deleting a transaction. Deleting is
// the exact inverse of creating: income removal subtracts, expense removal
// adds back. Note deletion carries no funds check, so it can legitimately
// drive a balance negative.
func ReverseDelta(kind string, amount decimal.Decimal) (decimal.Decimal, error) {
	d, err := Delta(kind, amount)
	if err != nil {
		return decimal.Zero, err
	}
	return d.Neg(), nil
}

// CheckFunds enforces the soft business rule that an expense or an outgoing
// transfer may not exceed the current balance.
func CheckFunds(balance, amount decimal.Decimal) error {
	if amount.GreaterThan(balance) {
		return ErrInsufficientFunds
	}
	return nil
}

// Recompute derives an account's balance from first principles: the initial
// balance plus the signed sum of every still-existing transaction and
// transfer touching the account. Used by the admin verification endpoint to
// detect drift between the stored balance and the record set.
func Recompute(initial decimal.Decimal, accountID int64, txns []models.Transaction, transfers []models.Transfer) decimal.Decimal {
	balance := initial
	for _, t := range txns {
		if t.AccountID != accountID {
			continue
		}
		d, err := Delta(t.Kind, t.Amount)
		if err != nil {
			continue
		}
		balance = balance.Add(d)
	}
	for _, tr := range transfers {
		if tr.FromAccountID == accountID {
			balance = balance.Sub(tr.Amount)
		}
		if tr.ToAccountID == accountID {
			balance = balance.Add(tr.Amount)
		}
	}
	return balance
}
