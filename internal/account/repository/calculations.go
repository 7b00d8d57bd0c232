package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"stroycalc/internal/account/models"
	vmodels "stroycalc/internal/visualizer/models"

	"github.com/google/uuid"
)

// CreateCalculation сохраняет расчет вместе с входными данными и результатом.
func (r *Repository) CreateCalculation(ctx context.Context, userID, category, calcType string, input map[string]float64, result vmodels.Result) (*models.Calculation, error) {
	inputJSON, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("marshal input: %w", err)
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}

	c := &models.Calculation{
		ID:        uuid.NewString(),
		UserID:    userID,
		Category:  category,
		Type:      calcType,
		InputData: input,
		Result:    result,
	}
	created := r.timestamp()

	if _, err := r.db.ExecContext(ctx, `
        INSERT INTO calculations (id, user_id, category, type, input_data, result_data, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `, c.ID, userID, category, calcType, string(inputJSON), string(resultJSON), created); err != nil {
		return nil, fmt.Errorf("insert calculation: %w", err)
	}

	c.CreatedAt = parseTime(created)
	return c, nil
}

// ListCalculations возвращает расчеты пользователя, новые первыми.
func (r *Repository) ListCalculations(ctx context.Context, userID string) ([]models.Calculation, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, user_id, category, type, input_data, result_data, created_at
        FROM calculations
        WHERE user_id = ?
        ORDER BY created_at DESC, rowid DESC
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("list calculations: %w", err)
	}
	defer rows.Close()

	out := []models.Calculation{}
	for rows.Next() {
		c, err := scanCalculation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// GetCalculation ищет расчет среди расчетов пользователя.
func (r *Repository) GetCalculation(ctx context.Context, userID, id string) (*models.Calculation, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, user_id, category, type, input_data, result_data, created_at
        FROM calculations
        WHERE id = ? AND user_id = ?
    `, id, userID)

	c, err := scanCalculation(row)
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

func (r *Repository) DeleteCalculation(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM calculations WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete calculation: %w", err)
	}
	return checkAffected(res)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCalculation(s scanner) (*models.Calculation, error) {
	var c models.Calculation
	var input, result, created string
	if err := s.Scan(&c.ID, &c.UserID, &c.Category, &c.Type, &input, &result, &created); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(input), &c.InputData); err != nil {
		return nil, fmt.Errorf("decode input_data: %w", err)
	}
	if err := json.Unmarshal([]byte(result), &c.Result); err != nil {
		return nil, fmt.Errorf("decode result_data: %w", err)
	}
	c.CreatedAt = parseTime(created)
	return &c, nil
}

var _ scanner = (*sql.Row)(nil)
