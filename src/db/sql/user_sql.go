package db

import (
	"context"
	"errors"
	"fmt"

	"sysfinance-server/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func GetUserByID(ctx context.Context, pool *pgxpool.Pool, id int64) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, username, email, role, password_hash, created_at
		FROM users
		WHERE id = $1
	`
	err := pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Role,
		&user.PasswordHash,
		&user.CreatedAt,
	)

	if err != nil {
		return nil, errors.New("user not found")
	}
	return &user, nil
}

func GetUserByUsername(ctx context.Context, pool *pgxpool.Pool, username string) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, username, email, role, password_hash, created_at
		FROM users
		WHERE username = $1
	`
	err := pool.QueryRow(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Role,
		&user.PasswordHash,
		&user.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("query error: %w", err)
	}
	return &user, nil
}

func GetUserByEmail(ctx context.Context, pool *pgxpool.Pool, email string) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, username, email, role, password_hash, created_at
		FROM users
		WHERE email = $1
	`
	err := pool.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Role,
		&user.PasswordHash,
		&user.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("query error: %w", err)
	}
	return &user, nil
}

func CreateUser(ctx context.Context, pool *pgxpool.Pool, username, email, role string, hashedPassword string) (*models.RegisterResponse, error) {
	query := `
		INSERT INTO users (username, email, role, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var userID int64

	err := pool.QueryRow(ctx, query, username, email, role, hashedPassword).Scan(&userID)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	resp := models.RegisterResponse{
		ID:       userID,
		Email:    email,
		Username: username,
		Role:     role,
	}

	return &resp, nil
}

func GetAllUsers(ctx context.Context, pool *pgxpool.Pool) ([]models.User, error) {
	query := `
		SELECT id, username, email, role, password_hash, created_at
		FROM users
		ORDER BY username
	`
	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.PasswordHash, &u.CreatedAt)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// DeleteUser removes the user row. Accounts, transactions, goals and
// transfers cascade; audit log entries keep their rows with user_id nulled.
func DeleteUser(ctx context.Context, pool *pgxpool.Pool, userID int64) error {
	query := `
		DELETE FROM users
		WHERE id = $1
	`
	cmd, err := pool.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return errors.New("user not found")
	}
	return nil
}
