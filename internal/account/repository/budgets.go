package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"stroycalc/internal/account/models"

	"github.com/google/uuid"
)

// ============================================================
// Budgets
// ============================================================

func (r *Repository) CreateBudget(ctx context.Context, userID, title, description string) (*models.Budget, error) {
	now := r.timestamp()
	b := &models.Budget{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       title,
		Description: description,
		Items:       []models.BudgetItem{},
	}

	if _, err := r.db.ExecContext(ctx, `
        INSERT INTO budgets (id, user_id, title, description, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?)
    `, b.ID, userID, title, description, now, now); err != nil {
		return nil, fmt.Errorf("insert budget: %w", err)
	}

	b.CreatedAt = parseTime(now)
	b.UpdatedAt = b.CreatedAt
	return b, nil
}

// ListBudgets возвращает сметы пользователя с позициями и итогами.
func (r *Repository) ListBudgets(ctx context.Context, userID string) ([]models.Budget, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, user_id, title, description, created_at, updated_at
        FROM budgets
        WHERE user_id = ?
        ORDER BY created_at DESC, rowid DESC
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}

	out := []models.Budget{}
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	// одно соединение: курсор надо закрыть до запросов позиций
	rows.Close()

	for i := range out {
		if err := r.loadItems(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *Repository) GetBudget(ctx context.Context, userID, id string) (*models.Budget, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, user_id, title, description, created_at, updated_at
        FROM budgets
        WHERE id = ? AND user_id = ?
    `, id, userID)

	b, err := scanBudget(row)
	if err != nil {
		return nil, notFound(err)
	}
	if err := r.loadItems(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// UpdateBudget применяет частичное обновление; незаданные поля не меняются.
func (r *Repository) UpdateBudget(ctx context.Context, userID, id string, patch models.BudgetPatch) (*models.Budget, error) {
	b, err := r.GetBudget(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if patch.Title.Set && patch.Title.Value != nil {
		b.Title = *patch.Title.Value
	}
	if patch.Description.Set {
		b.Description = ""
		if patch.Description.Value != nil {
			b.Description = *patch.Description.Value
		}
	}

	now := r.timestamp()
	if _, err := r.db.ExecContext(ctx, `
        UPDATE budgets SET title = ?, description = ?, updated_at = ?
        WHERE id = ? AND user_id = ?
    `, b.Title, b.Description, now, id, userID); err != nil {
		return nil, fmt.Errorf("update budget: %w", err)
	}
	b.UpdatedAt = parseTime(now)
	return b, nil
}

// DeleteBudget удаляет смету; позиции удаляются каскадом.
func (r *Repository) DeleteBudget(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return checkAffected(res)
}

// ============================================================
// Budget items
// ============================================================

// UpsertBudgetItem добавляет расчет в смету или обновляет существующую
// позицию. Меняются только переданные поля, суммы округляются до копеек.
func (r *Repository) UpsertBudgetItem(ctx context.Context, userID, budgetID string, in models.BudgetItemInput) (*models.BudgetItem, error) {
	if _, err := r.GetBudget(ctx, userID, budgetID); err != nil {
		return nil, err
	}
	if _, err := r.GetCalculation(ctx, userID, in.CalculationID); err != nil {
		return nil, fmt.Errorf("calculation %s: %w", in.CalculationID, err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var (
		id      string
		planned sql.NullFloat64
		actual  sql.NullFloat64
		notes   string
	)
	err = tx.QueryRowContext(ctx, `
        SELECT id, planned_cost, actual_cost, notes
        FROM budget_items
        WHERE budget_id = ? AND calculation_id = ?
    `, budgetID, in.CalculationID).Scan(&id, &planned, &actual, &notes)

	exists := true
	switch {
	case errors.Is(err, sql.ErrNoRows):
		exists = false
		id = uuid.NewString()
	case err != nil:
		return nil, fmt.Errorf("find budget item: %w", err)
	}

	if in.PlannedCost.Set {
		planned = nullFloat(money(in.PlannedCost.Value))
	}
	if in.ActualCost.Set {
		actual = nullFloat(money(in.ActualCost.Value))
	}
	if in.Notes.Set {
		notes = ""
		if in.Notes.Value != nil {
			notes = *in.Notes.Value
		}
	}

	if exists {
		_, err = tx.ExecContext(ctx, `
            UPDATE budget_items SET planned_cost = ?, actual_cost = ?, notes = ?
            WHERE id = ?
        `, planned, actual, notes, id)
	} else {
		_, err = tx.ExecContext(ctx, `
            INSERT INTO budget_items (id, budget_id, calculation_id, planned_cost, actual_cost, notes)
            VALUES (?, ?, ?, ?, ?, ?)
        `, id, budgetID, in.CalculationID, planned, actual, notes)
	}
	if err != nil {
		return nil, fmt.Errorf("save budget item: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE budgets SET updated_at = ? WHERE id = ?`, r.timestamp(), budgetID); err != nil {
		return nil, fmt.Errorf("touch budget: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return r.getItem(ctx, budgetID, id)
}

func (r *Repository) DeleteBudgetItem(ctx context.Context, userID, budgetID, itemID string) error {
	if _, err := r.GetBudget(ctx, userID, budgetID); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM budget_items WHERE id = ? AND budget_id = ?`, itemID, budgetID)
	if err != nil {
		return fmt.Errorf("delete budget item: %w", err)
	}
	return checkAffected(res)
}

const itemColumns = `
    SELECT i.id, i.budget_id, i.calculation_id, i.planned_cost, i.actual_cost, i.notes,
           c.type, c.category, c.created_at, c.result_data
    FROM budget_items i
    LEFT JOIN calculations c ON c.id = i.calculation_id
`

func (r *Repository) loadItems(ctx context.Context, b *models.Budget) error {
	rows, err := r.db.QueryContext(ctx, itemColumns+`
        WHERE i.budget_id = ?
        ORDER BY i.rowid
    `, b.ID)
	if err != nil {
		return fmt.Errorf("list budget items: %w", err)
	}
	defer rows.Close()

	b.Items = []models.BudgetItem{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return err
		}
		b.Items = append(b.Items, *it)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	b.Totals()
	return nil
}

func (r *Repository) getItem(ctx context.Context, budgetID, id string) (*models.BudgetItem, error) {
	row := r.db.QueryRowContext(ctx, itemColumns+`WHERE i.id = ? AND i.budget_id = ?`, id, budgetID)
	it, err := scanItem(row)
	if err != nil {
		return nil, notFound(err)
	}
	return it, nil
}

func scanBudget(s scanner) (*models.Budget, error) {
	var b models.Budget
	var created, updated string
	if err := s.Scan(&b.ID, &b.UserID, &b.Title, &b.Description, &created, &updated); err != nil {
		return nil, err
	}
	b.CreatedAt = parseTime(created)
	b.UpdatedAt = parseTime(updated)
	b.Items = []models.BudgetItem{}
	return &b, nil
}

func scanItem(s scanner) (*models.BudgetItem, error) {
	var (
		it                    models.BudgetItem
		calcID                sql.NullString
		planned, actual       sql.NullFloat64
		cType, cCat, cCreated sql.NullString
		cResult               sql.NullString
	)
	if err := s.Scan(&it.ID, &it.BudgetID, &calcID, &planned, &actual, &it.Notes,
		&cType, &cCat, &cCreated, &cResult); err != nil {
		return nil, err
	}
	it.CalculationID = stringPtr(calcID)
	it.PlannedCost = floatPtr(planned)
	it.ActualCost = floatPtr(actual)

	if calcID.Valid && cType.Valid {
		d := &models.CalculationDetails{
			ID:        calcID.String,
			Type:      cType.String,
			Category:  cCat.String,
			CreatedAt: parseTime(cCreated.String),
		}
		if err := json.Unmarshal([]byte(cResult.String), &d.ResultData); err != nil {
			return nil, fmt.Errorf("decode result_data: %w", err)
		}
		it.Calculation = d
	}
	return &it, nil
}

// money округляет сумму до двух знаков.
func money(v *float64) *float64 {
	if v == nil {
		return nil
	}
	f := math.Round(*v*100) / 100
	return &f
}
