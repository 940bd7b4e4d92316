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

func scanTransfer(row pgx.Row) (*models.Transfer, error) {
	var t models.Transfer
	var amount string
	err := row.Scan(&t.ID, &t.UserID, &t.FromAccountID, &t.ToAccountID, &amount,
		&t.Description, &t.Date, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	if t.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("bad amount for transfer %d: %w", t.ID, err)
	}
	return &t, nil
}

const transferColumns = `id, user_id, from_account_id, to_account_id, amount::text, description, date, created_at`

// CreateTransfer moves amount between two accounts of the same user as one
// atomic unit: either both balance updates and the transfer row commit, or
// nothing does. Both account rows are locked in ascending id order so two
// opposing concurrent transfers cannot deadlock. Rejected outright on
// self-transfer or insufficient source funds, leaving both accounts
// untouched.
func CreateTransfer(ctx context.Context, pool *pgxpool.Pool, transfer *models.Transfer) (*models.Transfer, error) {
	if transfer.FromAccountID == transfer.ToAccountID {
		return nil, ledger.ErrSameAccount
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	first, second := transfer.FromAccountID, transfer.ToAccountID
	if second < first {
		first, second = second, first
	}
	balances := make(map[int64]decimal.Decimal, 2)
	for _, id := range []int64{first, second} {
		b, err := lockAccountBalance(ctx, tx, transfer.UserID, id)
		if err != nil {
			return nil, err
		}
		balances[id] = b
	}

	if err := ledger.CheckFunds(balances[transfer.FromAccountID], transfer.Amount); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO transfers (user_id, from_account_id, to_account_id, amount, description, date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + transferColumns
	created, err := scanTransfer(tx.QueryRow(ctx, query,
		transfer.UserID, transfer.FromAccountID, transfer.ToAccountID,
		transfer.Amount.StringFixed(2), transfer.Description, transfer.Date))
	if err != nil {
		return nil, err
	}

	err = setAccountBalance(ctx, tx, transfer.FromAccountID,
		balances[transfer.FromAccountID].Sub(transfer.Amount))
	if err != nil {
		return nil, err
	}
	err = setAccountBalance(ctx, tx, transfer.ToAccountID,
		balances[transfer.ToAccountID].Add(transfer.Amount))
	if err != nil {
		return nil, err
	}

	err = InsertAuditLog(ctx, tx, &transfer.UserID, "transfer_create",
		fmt.Sprintf("%s from account %d to account %d", created.Amount.StringFixed(2), created.FromAccountID, created.ToAccountID))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

func GetTransfersForUser(ctx context.Context, pool *pgxpool.Pool, userID int64) ([]models.Transfer, error) {
	query := `
		SELECT ` + transferColumns + `
		FROM transfers
		WHERE user_id = $1
		ORDER BY date DESC, created_at DESC
	`
	return queryTransfers(ctx, pool, query, userID)
}

// GetAllTransfers is used by the admin verification sweep.
func GetAllTransfers(ctx context.Context, pool *pgxpool.Pool) ([]models.Transfer, error) {
	return queryTransfers(ctx, pool, `SELECT `+transferColumns+` FROM transfers`)
}

func queryTransfers(ctx context.Context, pool *pgxpool.Pool, query string, args ...any) ([]models.Transfer, error) {
	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transfers []models.Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}
		transfers = append(transfers, *t)
	}
	return transfers, rows.Err()
}
