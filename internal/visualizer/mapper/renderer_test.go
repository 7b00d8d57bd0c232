package mapper

import (
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stroycalc/internal/visualizer/layout"
	"stroycalc/internal/visualizer/models"
)

func TestRender_RoomFront(t *testing.T) {
	l, err := layout.Generate("paint", map[string]float64{"length": 4, "width": 3, "height": 2.5})
	require.NoError(t, err)

	svg, err := NewRenderer().Render(l, ViewFront)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(svg, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, svg, `width="460" height="300"`)
	assert.Equal(t, 6, strings.Count(svg, "<rect"))
	assert.True(t, strings.HasSuffix(svg, "</svg>"))
}

func TestRender_PlanSkipsCeiling(t *testing.T) {
	l, err := layout.Generate("tiles", map[string]float64{"length": 1, "width": 1, "tile_width": 0.5})
	require.NoError(t, err)

	svg, err := NewRenderer().Render(l, ViewPlan)
	require.NoError(t, err)

	assert.NotContains(t, svg, `id="ceiling-`)
	assert.Equal(t, 5+4, strings.Count(svg, "<rect"))
	assert.Contains(t, svg, `fill="#e0e0e0"`)

	// плитка лежит выше пола и рисуется после него
	assert.Less(t, strings.Index(svg, `id="floor-`), strings.Index(svg, `id="tiles-`))
}

func TestRender_SkipsDecoration(t *testing.T) {
	l, err := layout.Generate("foundation", map[string]float64{"length": 2, "width": 2, "depth": 1})
	require.NoError(t, err)

	svg, err := NewRenderer().Render(l, ViewFront)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(svg, "<rect"))
	assert.NotContains(t, svg, "decoration")
	// плита без цвета заливается по текстуре
	assert.Contains(t, svg, `fill="#a9a9a9"`)
}

func TestRender_RoofPanelsProjected(t *testing.T) {
	l, err := layout.Generate("roofing", map[string]float64{"roof_length": 4, "roof_width": 2, "roof_slope": 0})
	require.NoError(t, err)

	r := &Renderer{Scale: 10, Margin: 0}
	svg, err := r.Render(l, ViewFront)
	require.NoError(t, err)

	// плоская крыша в фасаде схлопывается в линию на высоте дома, фронтоны выше на W/2
	assert.Contains(t, svg, `id="roof-1" x="0" y="10" width="40" height="0"`)
}

func TestRender_Placeholder(t *testing.T) {
	svg, err := NewRenderer().Render(layout.Placeholder("plaster"), ViewFront)
	require.NoError(t, err)
	assert.Contains(t, svg, "<text")
	assert.NotContains(t, svg, "<rect")
}

func TestRender_UnknownView(t *testing.T) {
	_, err := NewRenderer().Render(models.Layout{}, View("iso"))
	assert.ErrorIs(t, err, ErrUnknownView)
}

// Поворот X затем Y (порядок XYZ) переводит оси коробки (x, y, z) в (z, x, y).
func TestProject_EulerOrderXYZ(t *testing.T) {
	p := models.Primitive{
		Group:    models.GroupWalls,
		Shape:    models.ShapeBox,
		Size:     mgl64.Vec3{1, 2, 3},
		Rotation: mgl64.Vec3{math.Pi / 2, math.Pi / 2, 0},
	}
	r := NewRenderer()

	front := r.project(p, ViewFront)
	assert.InDelta(t, 3, front.maxU-front.minU, 1e-9)
	assert.InDelta(t, 1, front.maxV-front.minV, 1e-9)

	plan := r.project(p, ViewPlan)
	assert.InDelta(t, 3, plan.maxU-plan.minU, 1e-9)
	assert.InDelta(t, 2, plan.maxV-plan.minV, 1e-9)
}
