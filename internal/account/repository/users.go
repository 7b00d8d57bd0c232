package repository

import (
	"context"
	"fmt"

	"stroycalc/internal/account/models"

	"github.com/google/uuid"
)

// CreateUser сохраняет пользователя; занятый email дает ErrDuplicate.
func (r *Repository) CreateUser(ctx context.Context, email, passwordHash string) (*models.User, error) {
	u := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
	}
	created := r.timestamp()

	_, err := r.db.ExecContext(ctx, `
        INSERT INTO users (id, email, password_hash, created_at)
        VALUES (?, ?, ?, ?)
    `, u.ID, u.Email, u.PasswordHash, created)
	if err != nil {
		if isUnique(err) {
			return nil, fmt.Errorf("user %s: %w", email, ErrDuplicate)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	u.CreatedAt = parseTime(created)
	return u, nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getUser(ctx, `WHERE email = ?`, email)
}

func (r *Repository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return r.getUser(ctx, `WHERE id = ?`, id)
}

func (r *Repository) getUser(ctx context.Context, where string, arg any) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, email, password_hash, created_at
        FROM users `+where, arg)

	var u models.User
	var created string
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &created); err != nil {
		return nil, notFound(err)
	}
	u.CreatedAt = parseTime(created)
	return &u, nil
}
