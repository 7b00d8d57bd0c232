package models

import (
	"encoding/json"
	"time"

	vmodels "stroycalc/internal/visualizer/models"
)

// ============================================================
// User
// ============================================================

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// ============================================================
// Calculation
// ============================================================

type Calculation struct {
	ID        string             `json:"id"`
	UserID    string             `json:"-"`
	Category  string             `json:"category"`
	Type      string             `json:"type"`
	InputData map[string]float64 `json:"input_data"`
	Result    vmodels.Result     `json:"result"`
	CreatedAt time.Time          `json:"created_at"`
}

// CalculationDetails - расчет в составе сметы.
type CalculationDetails struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Category   string         `json:"category"`
	CreatedAt  time.Time      `json:"created_at"`
	ResultData vmodels.Result `json:"result_data"`
}

// ============================================================
// Material
// ============================================================

// Units - допустимые единицы измерения материалов пользователя.
var Units = []string{"кг", "м", "м²", "м³", "шт", "рулон"}

func ValidUnit(unit string) bool {
	for _, u := range Units {
		if u == unit {
			return true
		}
	}
	return false
}

type Material struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Name      string    `json:"name"`
	Quantity  float64   `json:"quantity"`
	Unit      string    `json:"unit"`
	CreatedAt time.Time `json:"created_at"`
}

// ============================================================
// Budget
// ============================================================

const MaxBudgetTitle = 100

type Budget struct {
	ID           string       `json:"id"`
	UserID       string       `json:"-"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Items        []BudgetItem `json:"items"`
	TotalPlanned float64      `json:"total_planned"`
	TotalActual  float64      `json:"total_actual"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Totals пересчитывает суммы по позициям; пустая стоимость считается нулем.
func (b *Budget) Totals() {
	b.TotalPlanned, b.TotalActual = 0, 0
	for _, it := range b.Items {
		if it.PlannedCost != nil {
			b.TotalPlanned += *it.PlannedCost
		}
		if it.ActualCost != nil {
			b.TotalActual += *it.ActualCost
		}
	}
}

type BudgetItem struct {
	ID            string              `json:"id"`
	BudgetID      string              `json:"-"`
	CalculationID *string             `json:"calculation"`
	Calculation   *CalculationDetails `json:"calculation_details"`
	PlannedCost   *float64            `json:"planned_cost"`
	ActualCost    *float64            `json:"actual_cost"`
	Notes         string              `json:"notes"`
}

// BudgetItemInput - тело upsert позиции. Отсутствующее поле не меняет
// сохраненное значение, явный null его очищает.
type BudgetItemInput struct {
	CalculationID string            `json:"calculation_id"`
	PlannedCost   Optional[float64] `json:"planned_cost"`
	ActualCost    Optional[float64] `json:"actual_cost"`
	Notes         Optional[string]  `json:"notes"`
}

// BudgetPatch - частичное обновление сметы.
type BudgetPatch struct {
	Title       Optional[string] `json:"title"`
	Description Optional[string] `json:"description"`
}

// ============================================================
// Optional
// ============================================================

// Optional различает «поле не передано» и «передан null».
type Optional[T any] struct {
	Set   bool
	Value *T
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: &v}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}
