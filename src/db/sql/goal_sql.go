package db

import (
	"context"
	"fmt"

	"sysfinance-server/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

func scanGoal(row pgx.Row) (*models.Goal, error) {
	var g models.Goal
	var target, current string
	err := row.Scan(&g.ID, &g.UserID, &g.Name, &target, &current, &g.Deadline, &g.CreatedAt)
	if err != nil {
		return nil, err
	}
	if g.TargetAmount, err = decimal.NewFromString(target); err != nil {
		return nil, fmt.Errorf("bad target for goal %d: %w", g.ID, err)
	}
	if g.CurrentAmount, err = decimal.NewFromString(current); err != nil {
		return nil, fmt.Errorf("bad current amount for goal %d: %w", g.ID, err)
	}
	return &g, nil
}

func CreateGoal(ctx context.Context, pool *pgxpool.Pool, goal *models.Goal) (*models.Goal, error) {
	query := `
		INSERT INTO goals (user_id, name, target_amount, current_amount, deadline)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, name, target_amount::text, current_amount::text, deadline, created_at
	`
	return scanGoal(pool.QueryRow(ctx, query,
		goal.UserID, goal.Name, goal.TargetAmount.StringFixed(2),
		goal.CurrentAmount.StringFixed(2), goal.Deadline))
}

func GetGoalsForUser(ctx context.Context, pool *pgxpool.Pool, userID int64) ([]models.Goal, error) {
	query := `
		SELECT id, user_id, name, target_amount::text, current_amount::text, deadline, created_at
		FROM goals
		WHERE user_id = $1
		ORDER BY deadline
	`
	return queryGoals(ctx, pool, query, userID)
}

// GetAllGoals is used by the backup tool.
func GetAllGoals(ctx context.Context, pool *pgxpool.Pool) ([]models.Goal, error) {
	query := `
		SELECT id, user_id, name, target_amount::text, current_amount::text, deadline, created_at
		FROM goals
		ORDER BY id
	`
	return queryGoals(ctx, pool, query)
}

func queryGoals(ctx context.Context, pool *pgxpool.Pool, query string, args ...any) ([]models.Goal, error) {
	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []models.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, *g)
	}
	return goals, rows.Err()
}
