package calculator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stroycalc/internal/visualizer/layout"
)

func TestCalculate_Formulas(t *testing.T) {
	tests := []struct {
		name     string
		category string
		calcType string
		params   map[string]float64
		quantity float64
		unit     string
		area     *float64
	}{
		{
			name: "paint", category: CategoryRepair, calcType: "paint",
			params:   map[string]float64{"length": 4, "width": 3, "height": 2.5},
			quantity: 10.5, unit: "кг", area: num(35),
		},
		{
			name: "tiles", category: CategoryRepair, calcType: "tiles",
			params:   map[string]float64{"length": 4, "width": 3, "tile_width": 0.5, "tile_height": 0.5},
			quantity: 53, unit: "шт", area: num(12),
		},
		{
			name: "wallpaper", category: CategoryRepair, calcType: "wallpaper",
			params:   map[string]float64{"length": 4, "width": 3, "height": 2.5, "roll_width": 0.53, "roll_length": 10},
			quantity: 8, unit: "рулонов", area: num(35),
		},
		{
			name: "laminate", category: CategoryRepair, calcType: "laminate",
			params:   map[string]float64{"length": 5, "width": 4, "laminate_length": 1.2, "laminate_width": 0.2, "pack_count": 8},
			quantity: 12, unit: "упаковок", area: num(20),
		},
		{
			name: "plaster", category: CategoryRepair, calcType: "plaster",
			params:   map[string]float64{"length": 4, "width": 3, "height": 2.5, "thickness": 0.01},
			quantity: 560, unit: "кг", area: num(35),
		},
		{
			name: "bricks", category: CategoryConstruction, calcType: "bricks",
			params:   map[string]float64{"wall_length": 5, "wall_height": 2},
			quantity: 677, unit: "шт",
		},
		{
			name: "roofing", category: CategoryConstruction, calcType: "roofing",
			params:   map[string]float64{"roof_length": 10, "roof_width": 6, "sheet_length": 2, "sheet_width": 1},
			quantity: 33, unit: "шт", area: num(60),
		},
		{
			name: "insulation", category: CategoryConstruction, calcType: "insulation",
			params:   map[string]float64{"wall_length": 6, "wall_height": 3, "insulation_thickness": 0.05, "insulation_area_per_pack": 5},
			quantity: 4, unit: "упаковок", area: num(18),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, _, err := Calculate(tt.category, tt.calcType, tt.params)
			require.NoError(t, err)
			require.Len(t, res.Materials, 1)
			assert.InDelta(t, tt.quantity, res.Materials[0].Quantity, 1e-9)
			assert.Equal(t, tt.unit, res.Materials[0].Unit)
			if tt.area == nil {
				assert.Nil(t, res.TotalArea)
			} else {
				require.NotNil(t, res.TotalArea)
				assert.InDelta(t, *tt.area, *res.TotalArea, 1e-9)
			}
			assert.NotEmpty(t, res.Details)
		})
	}
}

func TestCalculate_Foundation(t *testing.T) {
	res, filled, err := Calculate(CategoryConstruction, "foundation", map[string]float64{"length": 6, "width": 4, "depth": 0.5})
	require.NoError(t, err)

	require.Len(t, res.Materials, 2)
	assert.Equal(t, 28800.0, res.Materials[0].Quantity)
	assert.Equal(t, "кг", res.Materials[0].Unit)
	assert.Equal(t, 12.0, res.Materials[1].Quantity)
	assert.Equal(t, "м³", res.Materials[1].Unit)
	assert.Equal(t, "Объем фундамента: 12 м³", res.Details)
	assert.Equal(t, 2400.0, filled["concrete_per_cubic"])
}

func TestCalculate_DefaultsFilled(t *testing.T) {
	_, filled, err := Calculate(CategoryRepair, "paint", map[string]float64{"length": 1, "width": 1, "height": 1})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"length": 1, "width": 1, "height": 1, "coats": 2, "consumption": 0.15}, filled)
}

func TestCalculate_Errors(t *testing.T) {
	_, _, err := Calculate("garden", "paint", nil)
	assert.ErrorIs(t, err, ErrUnknownCategory)

	_, _, err = Calculate(CategoryRepair, "bricks", nil)
	assert.ErrorIs(t, err, ErrUnknownType)

	_, _, err = Calculate(CategoryRepair, "tiles", map[string]float64{"length": 4})
	require.ErrorIs(t, err, ErrMissingFields)
	assert.Contains(t, err.Error(), "tile_height, tile_width, width")

	_, _, err = Calculate(CategoryConstruction, "roofing", map[string]float64{
		"roof_length": 10, "roof_width": 6, "sheet_length": 2, "sheet_width": 1, "overlap": 70,
	})
	assert.ErrorIs(t, err, ErrInvalidParam)

	_, _, err = Calculate(CategoryRepair, "paint", map[string]float64{"length": 0, "width": 1, "height": 1})
	assert.ErrorIs(t, err, ErrInvalidParam)
}

func TestCatalog(t *testing.T) {
	refs := Types()
	require.Len(t, refs, 9)
	for _, ref := range refs {
		def, ok := Lookup(ref.Category, ref.Type)
		require.True(t, ok, ref.Type)
		assert.NotEmpty(t, def.Fields)
		assert.NotNil(t, def.calc)

		cat, ok := CategoryOf(ref.Type)
		require.True(t, ok)
		assert.Equal(t, ref.Category, cat)
	}

	data, err := json.Marshal(Catalog())
	require.NoError(t, err)

	var decoded map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "Ремонт", decoded[CategoryRepair]["name"])
	assert.Contains(t, decoded[CategoryConstruction]["calculations"], "roofing")
}

func TestCalculate_OverflowIsInvalidParam(t *testing.T) {
	_, _, err := Calculate(CategoryRepair, "paint", map[string]float64{"length": 1e200, "width": 1e200, "height": 1e200})
	assert.ErrorIs(t, err, ErrInvalidParam)

	_, _, err = Calculate(CategoryRepair, "tiles", map[string]float64{"length": 1e200, "width": 1e200, "tile_width": 0.01, "tile_height": 0.01})
	assert.ErrorIs(t, err, ErrInvalidParam)
}

// Каждый расчет с минимальными значениями полей должен строить раскладку.
func TestCalculate_MinimumsAreVisualizable(t *testing.T) {
	for _, ref := range Types() {
		t.Run(ref.Type, func(t *testing.T) {
			def, ok := Lookup(ref.Category, ref.Type)
			require.True(t, ok)

			params := make(map[string]float64, len(def.Fields))
			for _, f := range def.Fields {
				params[f.Name] = f.Min
			}

			result, filled, err := Calculate(ref.Category, ref.Type, params)
			require.NoError(t, err)
			_, err = json.Marshal(result)
			require.NoError(t, err)

			_, err = layout.Generate(ref.Type, filled)
			assert.NoError(t, err)
		})
	}
}
