package repository

import (
	"context"
	"fmt"

	"stroycalc/internal/account/models"

	"github.com/google/uuid"
)

func (r *Repository) CreateMaterial(ctx context.Context, userID, name string, quantity float64, unit string) (*models.Material, error) {
	m := &models.Material{
		ID:       uuid.NewString(),
		UserID:   userID,
		Name:     name,
		Quantity: quantity,
		Unit:     unit,
	}
	created := r.timestamp()

	if _, err := r.db.ExecContext(ctx, `
        INSERT INTO materials (id, user_id, name, quantity, unit, created_at)
        VALUES (?, ?, ?, ?, ?, ?)
    `, m.ID, userID, name, quantity, unit, created); err != nil {
		return nil, fmt.Errorf("insert material: %w", err)
	}

	m.CreatedAt = parseTime(created)
	return m, nil
}

// ListMaterials возвращает материалы пользователя, новые первыми.
func (r *Repository) ListMaterials(ctx context.Context, userID string) ([]models.Material, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, user_id, name, quantity, unit, created_at
        FROM materials
        WHERE user_id = ?
        ORDER BY created_at DESC, rowid DESC
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()

	out := []models.Material{}
	for rows.Next() {
		var m models.Material
		var created string
		if err := rows.Scan(&m.ID, &m.UserID, &m.Name, &m.Quantity, &m.Unit, &created); err != nil {
			return nil, err
		}
		m.CreatedAt = parseTime(created)
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *Repository) DeleteMaterial(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM materials WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete material: %w", err)
	}
	return checkAffected(res)
}
