package db

import (
	"context"
	"fmt"

	"sysfinance-server/src/ledger"
	"sysfinance-server/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Amounts cross the wire as text: NUMERIC columns are selected with ::text
// and parsed into decimal.Decimal, and decimals are bound as their string
// form, which postgres casts back to NUMERIC.

func scanAccount(row pgx.Row) (*models.Account, error) {
	var a models.Account
	var balance, initial string
	err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.Kind, &balance, &initial, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	if a.Balance, err = decimal.NewFromString(balance); err != nil {
		return nil, fmt.Errorf("bad balance for account %d: %w", a.ID, err)
	}
	if a.InitialBalance, err = decimal.NewFromString(initial); err != nil {
		return nil, fmt.Errorf("bad initial balance for account %d: %w", a.ID, err)
	}
	return &a, nil
}

func CreateAccount(ctx context.Context, pool *pgxpool.Pool, account *models.Account) (*models.Account, error) {
	query := `
		INSERT INTO accounts (user_id, name, kind, balance, initial_balance)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING id, user_id, name, kind, balance::text, initial_balance::text, created_at
	`
	return scanAccount(pool.QueryRow(ctx, query,
		account.UserID, account.Name, account.Kind, account.InitialBalance.StringFixed(2)))
}

func GetAccountByID(ctx context.Context, pool *pgxpool.Pool, userID, accountID int64) (*models.Account, error) {
	query := `
		SELECT id, user_id, name, kind, balance::text, initial_balance::text, created_at
		FROM accounts
		WHERE id = $1 AND user_id = $2
	`
	a, err := scanAccount(pool.QueryRow(ctx, query, accountID, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ledger.ErrAccountNotFound
		}
		return nil, err
	}
	return a, nil
}

func GetAccountsForUser(ctx context.Context, pool *pgxpool.Pool, userID int64) ([]models.Account, error) {
	query := `
		SELECT id, user_id, name, kind, balance::text, initial_balance::text, created_at
		FROM accounts
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *a)
	}
	return accounts, rows.Err()
}

// GetAllAccounts is used by the admin verification sweep.
func GetAllAccounts(ctx context.Context, pool *pgxpool.Pool) ([]models.Account, error) {
	query := `
		SELECT id, user_id, name, kind, balance::text, initial_balance::text, created_at
		FROM accounts
		ORDER BY id
	`
	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *a)
	}
	return accounts, rows.Err()
}

// TotalBalance sums the stored balances of the user's accounts.
func TotalBalance(ctx context.Context, pool *pgxpool.Pool, userID int64) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(balance), 0)::text
		FROM accounts
		WHERE user_id = $1
	`
	var total string
	if err := pool.QueryRow(ctx, query, userID).Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(total)
}

// DeleteAccount removes the account; its transactions and transfers cascade.
// Cascading a transfer does not adjust the counterparty account, so deleting
// an account that transferred funds leaves the peer's stored balance out of
// step with its surviving records. This is the one operation that can create
// drift; the admin verification sweep reports it.
func DeleteAccount(ctx context.Context, pool *pgxpool.Pool, userID, accountID int64) error {
	query := `DELETE FROM accounts WHERE id = $1 AND user_id = $2`
	cmd, err := pool.Exec(ctx, query, accountID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ledger.ErrAccountNotFound
	}
	return nil
}

// lockAccountBalance selects an account's balance FOR UPDATE within tx,
// enforcing ownership. Every balance read-modify-write goes through this so
// concurrent mutations on the same account serialize at the row lock.
func lockAccountBalance(ctx context.Context, tx pgx.Tx, userID, accountID int64) (decimal.Decimal, error) {
	query := `
		SELECT balance::text
		FROM accounts
		WHERE id = $1 AND user_id = $2
		FOR UPDATE
	`
	var balance string
	err := tx.QueryRow(ctx, query, accountID, userID).Scan(&balance)
	if err != nil {
		if err == pgx.ErrNoRows {
			return decimal.Zero, ledger.ErrAccountNotFound
		}
		return decimal.Zero, err
	}
	return decimal.NewFromString(balance)
}

func setAccountBalance(ctx context.Context, tx pgx.Tx, accountID int64, balance decimal.Decimal) error {
	_, err := tx.Exec(ctx, `UPDATE accounts SET balance = $1 WHERE id = $2`,
		balance.StringFixed(2), accountID)
	return err
}
