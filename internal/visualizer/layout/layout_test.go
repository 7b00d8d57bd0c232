package layout

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stroycalc/internal/visualizer/models"
)

const eps = 1e-9

func TestRoomShell_PaintExample(t *testing.T) {
	l, err := Generate("paint", map[string]float64{"length": 4, "width": 3, "height": 2.5})
	require.NoError(t, err)
	require.Len(t, l.Primitives, 6)
	assert.Equal(t, models.TypePaint, l.Type)

	floor := l.Group(models.GroupFloor)
	require.Len(t, floor, 1)
	assert.InDelta(t, 0, floor[0].Position.Y(), eps)

	ceiling := l.Group(models.GroupCeiling)
	require.Len(t, ceiling, 1)
	assert.InDelta(t, 2.5, ceiling[0].Position.Y(), eps)

	var xs, zs []float64
	for _, w := range l.Group(models.GroupWalls) {
		if w.Position.X() != 0 {
			xs = append(xs, w.Position.X())
		} else {
			zs = append(zs, w.Position.Z())
		}
	}
	assert.ElementsMatch(t, []float64{-2, 2}, xs)
	assert.ElementsMatch(t, []float64{-1.5, 1.5}, zs)
}

func TestRoomShell_EnclosesFootprint(t *testing.T) {
	cases := []RoomInputs{
		{Length: 4, Width: 3, Height: 2.5},
		{Length: 0.3, Width: 12, Height: 1},
		{Length: 7.25, Width: 7.25, Height: 3.1},
	}

	for _, room := range cases {
		prims := roomShell(room)
		require.Len(t, prims, 6)

		floor := prims[0]
		assert.InDelta(t, room.Length*room.Width, floor.Size.X()*floor.Size.Z(), eps)

		halfL, halfW := room.Length/2, room.Width/2
		for _, w := range prims[2:] {
			minX := w.Position.X() - w.Size.X()/2
			maxX := w.Position.X() + w.Size.X()/2
			minZ := w.Position.Z() - w.Size.Z()/2
			maxZ := w.Position.Z() + w.Size.Z()/2

			switch {
			case w.Position.X() != 0:
				// боковая стена перекрывает всю ширину пола
				assert.LessOrEqual(t, minZ, -halfW+eps)
				assert.GreaterOrEqual(t, maxZ, halfW-eps)
			default:
				// торцевая стена доходит до внешних граней боковых стен
				assert.LessOrEqual(t, minX, -halfL-WallThickness/2+eps)
				assert.GreaterOrEqual(t, maxX, halfL+WallThickness/2-eps)
			}
			assert.InDelta(t, room.Height, w.Size.Y(), eps)
		}
	}
}

func TestTiles_Example(t *testing.T) {
	l, err := Generate("tiles", map[string]float64{
		"length": 4, "width": 3, "tile_width": 0.5, "tile_height": 0.5, "gap_width": 0.02,
	})
	require.NoError(t, err)

	tiles := l.Group(models.GroupTiles)
	assert.Len(t, tiles, 48)
	assert.Len(t, l.Primitives, 48+6)
	assert.InDelta(t, 0.48, tiles[0].Size.X(), eps)
	assert.InDelta(t, 0.48, tiles[0].Size.Z(), eps)
}

func TestTiles_CountAndSpacing(t *testing.T) {
	cases := []struct {
		length, width, tile, gap float64
	}{
		{4, 3, 0.5, 0.02},
		{3.7, 2.2, 0.3, 0.005},
		{1, 1, 0.4, 0},
	}

	for _, tc := range cases {
		in := TilesInputs{
			Room:       RoomInputs{Length: tc.length, Width: tc.width, Height: 2.5},
			TileWidth:  tc.tile,
			TileHeight: tc.tile,
			Gap:        tc.gap,
		}
		prims := tiles(in)

		rows := int(math.Ceil(tc.length / tc.tile))
		cols := int(math.Ceil(tc.width / tc.tile))
		require.Len(t, prims, rows*cols)

		// i-й ряд идет по X с шагом ширины плитки
		for i := 1; i < rows; i++ {
			prev := prims[(i-1)*cols]
			cur := prims[i*cols]
			assert.InDelta(t, tc.tile, cur.Position.X()-prev.Position.X(), 1e-9)
		}
		assert.InDelta(t, -tc.length/2+tc.tile/2, prims[0].Position.X(), eps)
	}
}

func TestTiles_ParityColors(t *testing.T) {
	prims := tiles(TilesInputs{
		Room:      RoomInputs{Length: 1, Width: 1, Height: 2.5},
		TileWidth: 0.5, TileHeight: 0.5, Gap: 0.01,
	})
	require.Len(t, prims, 4)
	assert.Equal(t, tileColorEven, prims[0].Material.Color)
	assert.Equal(t, tileColorOdd, prims[1].Material.Color)
	assert.Equal(t, tileColorOdd, prims[2].Material.Color)
	assert.Equal(t, tileColorEven, prims[3].Material.Color)
}

func TestTiles_Defaults(t *testing.T) {
	in, err := Parse("tiles", map[string]float64{"length": 2, "width": 2, "tile_width": 0.4})
	require.NoError(t, err)

	tiles := in.(TilesInputs)
	assert.Equal(t, 0.4, tiles.TileHeight)
	assert.Equal(t, DefaultGap, tiles.Gap)
	assert.Equal(t, DefaultRoomHeight, tiles.Room.Height)
}

func TestGridCount_ExactMultiples(t *testing.T) {
	assert.Equal(t, 30, GridCount(3, 0.1))
	assert.Equal(t, 8, GridCount(4, 0.5))
	assert.Equal(t, 9, GridCount(4.1, 0.5))
}

func TestLaminate_RotatesByParity(t *testing.T) {
	l, err := Generate("laminate", map[string]float64{
		"length": 2, "width": 2.4, "laminate_width": 0.2, "laminate_length": 1.2,
	})
	require.NoError(t, err)

	boards := l.Group(models.GroupLaminate)
	require.Len(t, boards, 10*2)
	assert.Equal(t, 0.0, boards[0].Rotation.Y())
	assert.InDelta(t, math.Pi/2, boards[1].Rotation.Y(), eps)
	assert.Equal(t, "wood", boards[0].Material.Texture)
}

func TestWallpaper_AddsSheet(t *testing.T) {
	l, err := Generate("wallpaper", map[string]float64{"length": 4, "width": 3, "height": 2.7})
	require.NoError(t, err)
	assert.Len(t, l.Primitives, 7)

	sheet := l.Group(models.GroupWallpaper)
	require.Len(t, sheet, 1)
	assert.InDelta(t, -1.45, sheet[0].Position.Z(), eps)
}

func TestBricks_DefaultsAndGrid(t *testing.T) {
	l, err := Generate("bricks", map[string]float64{"wall_length": 1, "wall_height": 0.26})
	require.NoError(t, err)

	bricks := l.Group(models.GroupBricks)
	require.Len(t, bricks, 4*4)
	assert.InDelta(t, DefaultBrickLength, bricks[0].Size.X(), eps)
	assert.InDelta(t, DefaultBrickHeight, bricks[0].Size.Y(), eps)
	assert.InDelta(t, brickDepth, bricks[0].Size.Z(), eps)

	// ряды не смещены относительно друг друга
	assert.Equal(t, bricks[0].Position.X(), bricks[4].Position.X())
	assert.InDelta(t, -0.5+0.125, bricks[0].Position.X(), eps)
}

func TestFoundation_FootingProportions(t *testing.T) {
	l, err := Generate("foundation", map[string]float64{"length": 6, "width": 4, "depth": 0.8})
	require.NoError(t, err)

	slab := l.Group(models.GroupSlab)
	footing := l.Group(models.GroupFooting)
	require.Len(t, slab, 1)
	require.Len(t, footing, 1)

	assert.InDelta(t, -0.4, slab[0].Position.Y(), eps)
	assert.InDelta(t, 2*slab[0].Size.Z(), footing[0].Size.Z(), eps)
	assert.InDelta(t, 0.5*slab[0].Size.Y(), footing[0].Size.Y(), eps)
	assert.InDelta(t, -1.0, footing[0].Position.Y(), eps)
	assert.Len(t, l.Group(models.GroupDecoration), 3)
}

func TestRoofing_DefaultAngle(t *testing.T) {
	in, err := Parse("roofing", map[string]float64{"roof_length": 8, "roof_width": 6})
	require.NoError(t, err)
	roof := in.(RoofingInputs)
	assert.InDelta(t, math.Pi/6, RoofAngle(roof), eps)

	l, err := Build(roof)
	require.NoError(t, err)
	panels := l.Group(models.GroupRoof)
	require.Len(t, panels, 2)
	for _, p := range panels {
		assert.InDelta(t, 6/math.Cos(math.Pi/6), p.Size.Y(), eps)
		assert.InDelta(t, 8, p.Size.X(), eps)
	}
	assert.InDelta(t, math.Pi/2+math.Pi/6, panels[0].Rotation.X(), eps)
	assert.InDelta(t, math.Pi/2-math.Pi/6, panels[1].Rotation.X(), eps)
}

func TestRoofing_FlatRoof(t *testing.T) {
	l, err := Generate("roofing", map[string]float64{"roof_length": 5, "roof_width": 4, "roof_slope": 0})
	require.NoError(t, err)

	for _, p := range l.Group(models.GroupRoof) {
		assert.Equal(t, 4.0, p.Size.Y())
	}
	for _, g := range l.Group(models.GroupGable) {
		assert.Equal(t, 0.0, g.Size.X())
	}
}

func TestRoofing_PanelWidthScalesWithSlope(t *testing.T) {
	for _, slope := range []float64{10, 45, 100, 250} {
		l, err := Generate("roofing", map[string]float64{"roof_length": 10, "roof_width": 6, "roof_slope": slope})
		require.NoError(t, err)
		angle := math.Atan(slope / 100)
		for _, p := range l.Group(models.GroupRoof) {
			assert.InDelta(t, 6/math.Cos(angle), p.Size.Y(), 1e-9)
		}
	}
}

func TestRoofing_DrainageAlongEave(t *testing.T) {
	l, err := Generate("roofing", map[string]float64{"roof_length": 10.6, "roof_width": 6, "roof_slope": 50})
	require.NoError(t, err)

	spouts := l.Group(models.GroupDownspout)
	require.Len(t, spouts, 10)
	for i := 1; i < len(spouts); i++ {
		assert.InDelta(t, 1.0, spouts[i].Position.X()-spouts[i-1].Position.X(), eps)
	}
	gutter := l.Group(models.GroupGutter)
	require.Len(t, gutter, 1)
	assert.InDelta(t, 3, gutter[0].Position.Z(), eps)
	assert.InDelta(t, HouseHeight+RoofHeight(RoofingInputs{Width: 6, Slope: ptr(50)}), gutter[0].Position.Y(), eps)
}

func TestRoofing_DefaultsDimensions(t *testing.T) {
	in, err := Parse("roofing", map[string]float64{})
	require.NoError(t, err)
	roof := in.(RoofingInputs)
	assert.Equal(t, DefaultRoofLength, roof.Length)
	assert.Equal(t, DefaultRoofWidth, roof.Width)
	assert.Nil(t, roof.Slope)
}

func TestGenerate_Deterministic(t *testing.T) {
	values := map[string]float64{"length": 3.3, "width": 2.1, "tile_width": 0.3, "tile_height": 0.6}
	a, err := Generate("tiles", values)
	require.NoError(t, err)
	b, err := Generate("tiles", values)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerate_UnknownTypeIsPlaceholder(t *testing.T) {
	l, err := Generate("plaster", map[string]float64{"length": 1})
	require.NoError(t, err)
	assert.Empty(t, l.Primitives)
	assert.NotEmpty(t, l.Placeholder)
	assert.Equal(t, models.CalculationType("plaster"), l.Type)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		kind   string
		values map[string]float64
		want   error
	}{
		{"missing height", "paint", map[string]float64{"length": 4, "width": 3}, ErrMissingField},
		{"missing tile width", "tiles", map[string]float64{"length": 4, "width": 3}, ErrMissingField},
		{"zero length", "paint", map[string]float64{"length": 0, "width": 3, "height": 2}, ErrInvalidInput},
		{"negative width", "foundation", map[string]float64{"length": 1, "width": -1, "depth": 1}, ErrInvalidInput},
		{"nan", "bricks", map[string]float64{"wall_length": math.NaN(), "wall_height": 1}, ErrInvalidInput},
		{"gap too big", "tiles", map[string]float64{"length": 1, "width": 1, "tile_width": 0.2, "gap_width": 0.2}, ErrInvalidInput},
		{"negative slope", "roofing", map[string]float64{"roof_slope": -5}, ErrInvalidInput},
		{"inf", "paint", map[string]float64{"length": math.Inf(1), "width": 3, "height": 2}, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.kind, tt.values)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBuild_RejectsInvalidTypedInputs(t *testing.T) {
	_, err := Build(FoundationInputs{Length: 1, Width: 0, Depth: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func ptr(v float64) *float64 { return &v }

func TestValues(t *testing.T) {
	got, err := Values(map[string]any{
		"length":    4.0,
		"width":     "3,5",
		"height":    " 2.5 ",
		"gap_width": "",
		"depth":     nil,
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"length": 4, "width": 3.5, "height": 2.5}, got)

	_, err = Values(map[string]any{"length": "four"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Values(map[string]any{"length": []any{1.0}})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGridCount_Saturates(t *testing.T) {
	assert.Equal(t, math.MaxInt32, GridCount(1e300, 1e-10))
	assert.Equal(t, math.MaxInt32, GridCount(1e12, 0.01))
}

func TestParse_PrimitiveLimit(t *testing.T) {
	// 1000 × 100 = MaxPrimitives ровно
	_, err := Parse("tiles", map[string]float64{"length": 100, "width": 10, "tile_width": 0.1, "gap_width": 0})
	require.NoError(t, err)

	_, err = Parse("tiles", map[string]float64{"length": 100, "width": 10.05, "tile_width": 0.1, "gap_width": 0})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGenerate_HugeInputsRejected(t *testing.T) {
	tests := []struct {
		name     string
		calcType string
		values   map[string]float64
	}{
		{"tiles overflow", "tiles", map[string]float64{"length": 1e12, "width": 1e12, "tile_width": 0.01, "gap_width": 0}},
		{"tiles out of memory", "tiles", map[string]float64{"length": 500, "width": 500, "tile_width": 0.02, "gap_width": 0}},
		{"laminate", "laminate", map[string]float64{"length": 1e6, "width": 1e6, "laminate_width": 0.2, "laminate_length": 1}},
		{"bricks", "bricks", map[string]float64{"wall_length": 1e300, "wall_height": 1e300}},
		{"downspouts", "roofing", map[string]float64{"roof_length": 1e9, "roof_width": 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := Generate(tt.calcType, tt.values)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Empty(t, l.Primitives)
		})
	}
}

func TestBuild_RejectsHugeTypedInputs(t *testing.T) {
	_, err := Build(BricksInputs{WallLength: 1e300, WallHeight: 1e300, BrickLength: 0.25, BrickHeight: 0.065, WallThickness: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestTiles_SmallTileGetsNarrowSeam(t *testing.T) {
	l, err := Generate("tiles", map[string]float64{"length": 0.1, "width": 0.1, "tile_width": 0.01, "tile_height": 0.01})
	require.NoError(t, err)

	tiles := l.Group(models.GroupTiles)
	require.Len(t, tiles, 100)
	assert.InDelta(t, 0.005, tiles[0].Size.X(), eps)
}

func TestLaminate_SmallBoardGetsNarrowSeam(t *testing.T) {
	l, err := Generate("laminate", map[string]float64{"length": 0.1, "width": 0.1, "laminate_width": 0.01, "laminate_length": 0.1})
	require.NoError(t, err)

	boards := l.Group(models.GroupLaminate)
	require.Len(t, boards, 10)
	assert.InDelta(t, 0.005, boards[0].Size.X(), eps)
	assert.InDelta(t, 0.095, boards[0].Size.Z(), eps)
}
