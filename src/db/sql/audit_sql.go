package db

import (
	"context"

	"sysfinance-server/src/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditPageSize is the fixed page length of the audit log screen.
const AuditPageSize = 5

// InsertAuditLog appends an entry. It takes a Querier so ledger-coupled
// entries commit or roll back together with the balance mutation they record.
func InsertAuditLog(ctx context.Context, q Querier, userID *int64, action, details string) error {
	query := `
		INSERT INTO audit_logs (user_id, action, details)
		VALUES ($1, $2, $3)
	`
	_, err := q.Exec(ctx, query, userID, action, details)
	return err
}

// GetAllAuditLogs returns the whole trail, oldest first. Used by the backup
// tool.
func GetAllAuditLogs(ctx context.Context, pool *pgxpool.Pool) ([]models.AuditLog, error) {
	query := `
		SELECT l.id, l.user_id, u.username, l.action, l.details, l.created_at
		FROM audit_logs l
		LEFT JOIN users u ON u.id = l.user_id
		ORDER BY l.id
	`
	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.AuditLog
	for rows.Next() {
		var l models.AuditLog
		err := rows.Scan(&l.ID, &l.UserID, &l.Username, &l.Action, &l.Details, &l.CreatedAt)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// GetAuditLogs returns one page of entries, newest first, plus the total
// entry count for pagination. A nil userID returns all entries (admin view);
// otherwise only the given user's entries.
func GetAuditLogs(ctx context.Context, pool *pgxpool.Pool, userID *int64, page int) ([]models.AuditLog, int, error) {
	if page < 1 {
		page = 1
	}

	countQuery := `
		SELECT COUNT(*)
		FROM audit_logs
		WHERE $1::bigint IS NULL OR user_id = $1
	`
	var total int
	if err := pool.QueryRow(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT l.id, l.user_id, u.username, l.action, l.details, l.created_at
		FROM audit_logs l
		LEFT JOIN users u ON u.id = l.user_id
		WHERE $1::bigint IS NULL OR l.user_id = $1
		ORDER BY l.created_at DESC, l.id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := pool.Query(ctx, query, userID, AuditPageSize, (page-1)*AuditPageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var logs []models.AuditLog
	for rows.Next() {
		var l models.AuditLog
		err := rows.Scan(&l.ID, &l.UserID, &l.Username, &l.Action, &l.Details, &l.CreatedAt)
		if err != nil {
			return nil, 0, err
		}
		logs = append(logs, l)
	}
	return logs, total, rows.Err()
}
