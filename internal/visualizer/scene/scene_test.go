package scene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stroycalc/internal/visualizer/layout"
	"stroycalc/internal/visualizer/models"
)

func build(t *testing.T, kind string, values map[string]float64) (models.Layout, layout.Inputs) {
	t.Helper()
	in, err := layout.Parse(kind, values)
	require.NoError(t, err)
	l, err := layout.Build(in)
	require.NoError(t, err)
	return l, in
}

func TestRecolor_DoesNotMutateInput(t *testing.T) {
	base, _ := build(t, "paint", map[string]float64{"length": 4, "width": 3, "height": 2.5})
	snapshot := base.Clone()

	red, err := Recolor(base, models.MaterialSelection{Group: models.GroupWalls, Color: "#ff0000"})
	require.NoError(t, err)
	blue, err := Recolor(base, models.MaterialSelection{Group: models.GroupWalls, Color: "#0000ff"})
	require.NoError(t, err)

	assert.Equal(t, snapshot, base)

	require.Len(t, red.Primitives, len(blue.Primitives))
	for i := range red.Primitives {
		assert.Equal(t, red.Primitives[i].Size, blue.Primitives[i].Size)
		assert.Equal(t, red.Primitives[i].Position, blue.Primitives[i].Position)
	}
	for _, w := range red.Group(models.GroupWalls) {
		assert.Equal(t, "#ff0000", w.Material.Color)
	}
	for _, w := range blue.Group(models.GroupWalls) {
		assert.Equal(t, "#0000ff", w.Material.Color)
	}

	// изменение результата не затрагивает исходник
	red.Primitives[0].Material.Color = "#123456"
	assert.Equal(t, snapshot, base)
}

func TestRecolor_Errors(t *testing.T) {
	base, _ := build(t, "paint", map[string]float64{"length": 4, "width": 3, "height": 2.5})

	_, err := Recolor(base, models.MaterialSelection{Group: "roof", Color: "#ffffff"})
	assert.ErrorIs(t, err, ErrUnknownGroup)

	_, err = Recolor(base, models.MaterialSelection{Group: models.GroupWalls, Color: "red"})
	assert.ErrorIs(t, err, ErrInvalidColor)
}

func TestCompose_CameraDistance(t *testing.T) {
	tests := []struct {
		name   string
		kind   string
		values map[string]float64
		want   float64
	}{
		{"room", "paint", map[string]float64{"length": 4, "width": 3, "height": 2.5}, 6},
		{"foundation", "foundation", map[string]float64{"length": 6, "width": 4, "depth": 8}, 12},
		{"bricks", "bricks", map[string]float64{"wall_length": 5, "wall_height": 3}, 7.5},
		{"roofing defaults", "roofing", map[string]float64{}, 15},
		{"unknown", "plaster", map[string]float64{"length": 40}, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, in := build(t, tt.kind, tt.values)
			s, err := Compose(l, in, nil, DefaultConfig())
			require.NoError(t, err)
			assert.InDelta(t, tt.want, s.Camera.Position.X(), 1e-9)
			assert.Equal(t, s.Camera.Position.X(), s.Camera.Position.Y())
			assert.Equal(t, s.Camera.Position.X(), s.Camera.Position.Z())
			assert.Equal(t, 50.0, s.Camera.Fov)
		})
	}
}

func TestCompose_PaintSelectorAndSparkles(t *testing.T) {
	l, in := build(t, "paint", map[string]float64{"length": 4, "width": 3, "height": 2.5})

	s, err := Compose(l, in, nil, DefaultConfig(), models.MaterialSelection{Group: models.GroupWalls, Color: "#00ff00"})
	require.NoError(t, err)

	require.Len(t, s.Selectors, 1)
	assert.Equal(t, models.GroupWalls, s.Selectors[0].Target)
	assert.Equal(t, mgl64.Vec3{0, 3.5, 0}, s.Selectors[0].Position)
	assert.Equal(t, "#00ff00", s.Selectors[0].Color)

	for _, w := range s.Layout.Group(models.GroupWalls) {
		assert.Equal(t, "#00ff00", w.Material.Color)
	}
	// исходная раскладка осталась белой
	for _, w := range l.Group(models.GroupWalls) {
		assert.Equal(t, "#f0f0f0", w.Material.Color)
	}

	require.Len(t, s.Effects, 1)
	assert.Equal(t, "sparkles", s.Effects[0].Kind)
	assert.Equal(t, "#00ff00", s.Effects[0].Color)
}

func TestCompose_DefaultPaintColor(t *testing.T) {
	l, in := build(t, "paint", map[string]float64{"length": 4, "width": 3, "height": 2.5})

	s, err := Compose(l, in, nil, DefaultConfig())
	require.NoError(t, err)
	for _, w := range s.Layout.Group(models.GroupWalls) {
		assert.Equal(t, defaultPaintColor, w.Material.Color)
	}
}

func TestCompose_RoofSelector(t *testing.T) {
	l, in := build(t, "roofing", map[string]float64{"roof_length": 8, "roof_width": 6, "roof_slope": 100})

	s, err := Compose(l, in, nil, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, s.Selectors, 1)
	assert.Equal(t, models.GroupRoof, s.Selectors[0].Target)
	assert.InDelta(t, 6+3*math.Tan(math.Pi/4), s.Selectors[0].Position.Y(), 1e-9)
	assert.Equal(t, "dawn", s.Environment)
}

func TestCompose_Labels(t *testing.T) {
	l, in := build(t, "tiles", map[string]float64{"length": 4, "width": 3, "tile_width": 0.5})
	result := &models.Result{Materials: []models.MaterialAmount{
		{Name: "Плитка", Quantity: 53, Unit: "шт"},
		{Name: "Клей", Quantity: 12.5, Unit: "кг"},
	}}

	s, err := Compose(l, in, result, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, s.Labels, 2)
	assert.Equal(t, "Плитка: 53 шт", s.Labels[0].Text)
	assert.Equal(t, "Клей: 12.5 кг", s.Labels[1].Text)
	assert.Equal(t, mgl64.Vec3{0, 5, 0}, s.Labels[0].Position)
	assert.Equal(t, mgl64.Vec3{0, 4.5, 0}, s.Labels[1].Position)
	assert.Equal(t, "city", s.Environment)
	assert.Empty(t, s.Selectors)
	assert.Empty(t, s.Effects)
}

func TestCompose_UnknownSelectionGroup(t *testing.T) {
	l, in := build(t, "bricks", map[string]float64{"wall_length": 1, "wall_height": 1})

	s, err := Compose(l, in, nil, DefaultConfig(), models.MaterialSelection{Group: models.GroupBricks, Color: "#aa5500"})
	require.NoError(t, err)
	assert.Equal(t, "#aa5500", s.Layout.Primitives[0].Material.Color)
	require.Len(t, s.Effects, 1)
	assert.Equal(t, "particles", s.Effects[0].Kind)

	_, err = Compose(l, in, nil, DefaultConfig(), models.MaterialSelection{Group: "roof", Color: "#aa5500"})
	assert.ErrorIs(t, err, ErrUnknownGroup)
}

func TestCompose_ConfigOverride(t *testing.T) {
	l, in := build(t, "paint", map[string]float64{"length": 2, "width": 2, "height": 2})
	cfg := DefaultConfig()
	cfg.Camera.Fov = 75
	cfg.Camera.DistanceFactor = 2
	cfg.Orbit.AutoRotate = false

	s, err := Compose(l, in, nil, cfg)
	require.NoError(t, err)
	assert.Equal(t, 75.0, s.Camera.Fov)
	assert.Equal(t, mgl64.Vec3{4, 4, 4}, s.Camera.Position)
	assert.False(t, s.Controls.AutoRotate)
	require.Len(t, s.Lights, 3)
	assert.Equal(t, mgl64.Vec3{10, 10, 5}, s.Lights[1].Position)
}
