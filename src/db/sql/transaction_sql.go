package db

import (
	"context"
	"fmt"
	"time"

	"sysfinance-server/src/ledger"
	"sysfinance-server/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var t models.Transaction
	var amount string
	err := row.Scan(&t.ID, &t.AccountID, &t.UserID, &t.Kind, &t.Category, &amount,
		&t.Description, &t.Date, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	if t.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("bad amount for transaction %d: %w", t.ID, err)
	}
	return &t, nil
}

const transactionColumns = `id, account_id, user_id, kind, category, amount::text, description, date, created_at`

// CreateTransaction inserts the transaction and applies its balance delta to
// the owning account as one atomic unit. The account row is locked for the
// duration, so concurrent creations against the same account serialize.
// Expenses exceeding the current balance are rejected before any write.
// Returns the stored transaction and the account's new balance.
func CreateTransaction(ctx context.Context, pool *pgxpool.Pool, txn *models.Transaction) (*models.Transaction, decimal.Decimal, error) {
	delta, err := ledger.Delta(txn.Kind, txn.Amount)
	if err != nil {
		return nil, decimal.Zero, err
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, decimal.Zero, err
	}
	defer tx.Rollback(ctx)

	balance, err := lockAccountBalance(ctx, tx, txn.UserID, txn.AccountID)
	if err != nil {
		return nil, decimal.Zero, err
	}

	if txn.Kind == models.TransactionExpense {
		if err := ledger.CheckFunds(balance, txn.Amount); err != nil {
			return nil, decimal.Zero, err
		}
	}

	query := `
		INSERT INTO transactions (account_id, user_id, kind, category, amount, description, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + transactionColumns
	created, err := scanTransaction(tx.QueryRow(ctx, query,
		txn.AccountID, txn.UserID, txn.Kind, txn.Category,
		txn.Amount.StringFixed(2), txn.Description, txn.Date))
	if err != nil {
		return nil, decimal.Zero, err
	}

	newBalance := balance.Add(delta)
	if err := setAccountBalance(ctx, tx, txn.AccountID, newBalance); err != nil {
		return nil, decimal.Zero, err
	}

	err = InsertAuditLog(ctx, tx, &txn.UserID, "transaction_create",
		fmt.Sprintf("%s %s in category %q on account %d", created.Kind, created.Amount.StringFixed(2), created.Category, created.AccountID))
	if err != nil {
		return nil, decimal.Zero, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, decimal.Zero, err
	}
	return created, newBalance, nil
}

// DeleteTransaction removes the transaction and applies the inverse of its
// original balance delta, in the same atomic shape as CreateTransaction.
// There is no funds check on deletion, so the balance may go negative;
// callers surface that as a warning, not an error.
func DeleteTransaction(ctx context.Context, pool *pgxpool.Pool, userID, transactionID int64) (decimal.Decimal, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	defer tx.Rollback(ctx)

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE id = $1 AND user_id = $2
	`
	txn, err := scanTransaction(tx.QueryRow(ctx, query, transactionID, userID))
	if err != nil {
		return decimal.Zero, err
	}

	balance, err := lockAccountBalance(ctx, tx, userID, txn.AccountID)
	if err != nil {
		return decimal.Zero, err
	}

	// The row may have been deleted between the read above and taking the
	// account lock; zero rows affected here means the reverse delta must not
	// be applied.
	cmd, err := tx.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, txn.ID)
	if err != nil {
		return decimal.Zero, err
	}
	if cmd.RowsAffected() == 0 {
		return decimal.Zero, pgx.ErrNoRows
	}

	delta, err := ledger.ReverseDelta(txn.Kind, txn.Amount)
	if err != nil {
		return decimal.Zero, err
	}
	newBalance := balance.Add(delta)
	if err := setAccountBalance(ctx, tx, txn.AccountID, newBalance); err != nil {
		return decimal.Zero, err
	}

	err = InsertAuditLog(ctx, tx, &userID, "transaction_delete",
		fmt.Sprintf("%s %s removed from account %d, balance adjusted", txn.Kind, txn.Amount.StringFixed(2), txn.AccountID))
	if err != nil {
		return decimal.Zero, err
	}

	if err := tx.Commit(ctx); err != nil {
		return decimal.Zero, err
	}
	return newBalance, nil
}

func GetTransactionsForUser(ctx context.Context, pool *pgxpool.Pool, userID int64) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC, date DESC
	`
	return queryTransactions(ctx, pool, query, userID)
}

func GetRecentTransactions(ctx context.Context, pool *pgxpool.Pool, userID int64, limit int) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC, date DESC
		LIMIT $2
	`
	return queryTransactions(ctx, pool, query, userID, limit)
}

// GetTransactionsForMonth returns the user's transactions of one kind whose
// date falls within the month starting at monthStart.
func GetTransactionsForMonth(ctx context.Context, pool *pgxpool.Pool, userID int64, kind string, monthStart time.Time) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND kind = $2 AND date >= $3 AND date < $4
		ORDER BY date DESC, amount DESC
	`
	return queryTransactions(ctx, pool, query, userID, kind, monthStart, monthStart.AddDate(0, 1, 0))
}

// GetStatementTransactions returns transactions in ascending date order,
// optionally restricted to one account and/or a date range.
func GetStatementTransactions(ctx context.Context, pool *pgxpool.Pool, userID int64, accountID int64, from, to *time.Time) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1
	`
	args := []any{userID}
	if accountID != 0 {
		args = append(args, accountID)
		query += fmt.Sprintf(" AND account_id = $%d", len(args))
	}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	query += " ORDER BY date, created_at"
	return queryTransactions(ctx, pool, query, args...)
}

// GetTransactionsForAccounts is used by the admin verification sweep.
func GetTransactionsForAccounts(ctx context.Context, pool *pgxpool.Pool) ([]models.Transaction, error) {
	return queryTransactions(ctx, pool, `SELECT `+transactionColumns+` FROM transactions`)
}

func GetDistinctCategories(ctx context.Context, pool *pgxpool.Pool, userID int64) ([]string, error) {
	query := `
		SELECT DISTINCT category
		FROM transactions
		WHERE user_id = $1
		ORDER BY category
	`
	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// MonthTotals returns the summed income and expense amounts for the month
// starting at monthStart.
func MonthTotals(ctx context.Context, pool *pgxpool.Pool, userID int64, monthStart time.Time) (income, expense decimal.Decimal, err error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE kind = 'income'), 0)::text,
			COALESCE(SUM(amount) FILTER (WHERE kind = 'expense'), 0)::text
		FROM transactions
		WHERE user_id = $1 AND date >= $2 AND date < $3
	`
	var incomeStr, expenseStr string
	err = pool.QueryRow(ctx, query, userID, monthStart, monthStart.AddDate(0, 1, 0)).
		Scan(&incomeStr, &expenseStr)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if income, err = decimal.NewFromString(incomeStr); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if expense, err = decimal.NewFromString(expenseStr); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return income, expense, nil
}

func queryTransactions(ctx context.Context, pool *pgxpool.Pool, query string, args ...any) ([]models.Transaction, error) {
	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, *t)
	}
	return txns, rows.Err()
}
