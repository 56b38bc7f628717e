package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lupa-app/lupa/pkg/model"
)

// CreateUser inserts a new user and fills its id and timestamps.
func (r *Repository) CreateUser(ctx context.Context, u *model.User) error {
	const q = `
INSERT INTO users (email, password_hash, role)
VALUES ($1, $2, $3)
RETURNING id, created_at, updated_at
`
	row := r.db.QueryRow(ctx, q, u.Email, u.PasswordHash, u.Role)
	if err := row.Scan(&u.UserID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("email %s: %w", u.Email, ErrConflict)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUserByEmail returns a user by email.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `
SELECT id, email, password_hash, role, created_at, updated_at
FROM users
WHERE email = $1
`
	return r.scanUser(r.db.QueryRow(ctx, q, email), "email")
}

// GetUserByID returns a user by id.
func (r *Repository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	const q = `
SELECT id, email, password_hash, role, created_at, updated_at
FROM users
WHERE id = $1
`
	return r.scanUser(r.db.QueryRow(ctx, q, id), "id")
}

func (r *Repository) scanUser(row pgx.Row, by string) (*model.User, error) {
	var u model.User
	if err := row.Scan(&u.UserID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scan user by %s: %w", by, err)
	}
	return &u, nil
}
