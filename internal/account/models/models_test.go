package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBudgetItemInput_Optional(t *testing.T) {
	var in BudgetItemInput
	require.NoError(t, json.Unmarshal([]byte(`{"calculation_id":"c1","planned_cost":1500.5,"actual_cost":null}`), &in))

	assert.Equal(t, "c1", in.CalculationID)
	assert.True(t, in.PlannedCost.Set)
	require.NotNil(t, in.PlannedCost.Value)
	assert.Equal(t, 1500.5, *in.PlannedCost.Value)

	assert.True(t, in.ActualCost.Set)
	assert.Nil(t, in.ActualCost.Value)

	assert.False(t, in.Notes.Set)
}

func TestBudget_Totals(t *testing.T) {
	planned := 100.25
	actual := 80.0
	b := Budget{Items: []BudgetItem{
		{PlannedCost: &planned, ActualCost: &actual},
		{PlannedCost: &planned},
		{},
	}}
	b.Totals()

	assert.Equal(t, 200.5, b.TotalPlanned)
	assert.Equal(t, 80.0, b.TotalActual)
}

func TestValidUnit(t *testing.T) {
	assert.True(t, ValidUnit("м²"))
	assert.True(t, ValidUnit("рулон"))
	assert.False(t, ValidUnit("литр"))
}
