package layout

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"stroycalc/internal/visualizer/models"
)

// ============================================================
// Constants
// ============================================================

const (
	WallThickness    = 0.2
	FloorThickness   = 0.1
	CeilingThickness = 0.1

	DefaultRoomHeight    = 2.5
	DefaultGap           = 0.01
	DefaultBrickLength   = 0.25
	DefaultBrickHeight   = 0.065
	DefaultWallThickness = 1.0
	DefaultRoofLength    = 10.0
	DefaultRoofWidth     = 6.0
	DefaultRoofAngle     = math.Pi / 6

	HouseHeight = 3.0

	tileThickness  = 0.05
	boardGap       = 0.01
	floorClearance = 0.01
	brickDepth     = 0.12
	sheetInset     = 0.1
	sheetDepth     = WallThickness - 0.05
	gutterSize     = 0.05
	downspoutLen   = 0.5
	gableDepth     = 0.1

	// допуск для ceil, чтобы 3/0.1 давало 30, а не 31
	countEpsilon = 1e-9
)

// MaxPrimitives - предел числа элементов сетки (плитки, доски, кирпичи)
// и водостоков в одной раскладке.
const MaxPrimitives = 100_000

const (
	wallColor      = "#f0f0f0"
	floorColor     = "#808080"
	tileColorEven  = "#ffffff"
	tileColorOdd   = "#e0e0e0"
	footingColor   = "#5c4033"
	roofColor      = "#8b0000"
	gableColor     = "#d0d0d0"
	drainColor     = "#333333"
	wallpaperColor = "#ff6b6b"
)

const placeholderText = "Визуализация для этого типа расчета в разработке"

// ============================================================
// Engine
// ============================================================

// Build строит раскладку для типизированных входных данных.
// Функция чистая: одинаковый вход всегда дает одинаковый результат.
func Build(in Inputs) (models.Layout, error) {
	if in == nil {
		return Placeholder(""), nil
	}
	if err := in.validate(); err != nil {
		return models.Layout{}, err
	}

	var prims []models.Primitive
	switch v := in.(type) {
	case PaintInputs:
		prims = roomShell(v.Room)
	case WallpaperInputs:
		prims = append(roomShell(v.Room), wallpaperSheet(v.Room))
	case TilesInputs:
		prims = append(roomShell(v.Room), tiles(v)...)
	case LaminateInputs:
		prims = append(roomShell(v.Room), laminate(v)...)
	case FoundationInputs:
		prims = foundation(v)
	case BricksInputs:
		prims = bricks(v)
	case RoofingInputs:
		prims = roofing(v)
	default:
		return Placeholder(string(in.Type())), nil
	}

	return models.Layout{Type: in.Type(), Primitives: prims}, nil
}

// Generate = Parse + Build.
func Generate(calcType string, values map[string]float64) (models.Layout, error) {
	in, err := Parse(calcType, values)
	if err != nil {
		return models.Layout{}, err
	}
	return Build(in)
}

// Placeholder - пустая раскладка для типа без визуализации.
func Placeholder(calcType string) models.Layout {
	return models.Layout{
		Type:        models.CalculationType(calcType),
		Primitives:  []models.Primitive{},
		Placeholder: placeholderText,
	}
}

// GridCount - количество элементов шага step, покрывающих total (с нахлестом).
// Результат насыщается на math.MaxInt32; размер сетки проверяет checkGrid.
func GridCount(total, step float64) int {
	n := gridSize(total, step)
	if !(n < math.MaxInt32) {
		return math.MaxInt32
	}
	return int(n)
}

func gridSize(total, step float64) float64 {
	return math.Ceil(total/step - countEpsilon)
}

// checkGrid считает элементы во float64, до перевода в int.
func checkGrid(what string, n float64) error {
	if !(n <= MaxPrimitives) {
		return fmt.Errorf("%w: %s needs %g primitives, limit is %d", ErrInvalidInput, what, n, MaxPrimitives)
	}
	return nil
}

// seam - шов между элементами, не больше половины элемента.
func seam(gap, a, b float64) float64 {
	return min(gap, a/2, b/2)
}

// RoofAngle возвращает угол ската в радианах.
func RoofAngle(r RoofingInputs) float64 {
	if r.Slope == nil {
		return DefaultRoofAngle
	}
	return math.Atan(*r.Slope / 100)
}

// RoofHeight - высота конька над карнизом.
func RoofHeight(r RoofingInputs) float64 {
	return r.Width / 2 * math.Tan(RoofAngle(r))
}

// ============================================================
// Room shell
// ============================================================

func roomShell(r RoomInputs) []models.Primitive {
	l, w, h := r.Length, r.Width, r.Height
	wall := models.Material{Color: wallColor, Roughness: 0.4, Metalness: 0.1}

	return []models.Primitive{
		box(models.GroupFloor, mgl64.Vec3{l, FloorThickness, w}, mgl64.Vec3{0, 0, 0},
			models.Material{Color: floorColor, Texture: "concrete", Roughness: 0.7, Metalness: 0.2}),
		box(models.GroupCeiling, mgl64.Vec3{l, CeilingThickness, w}, mgl64.Vec3{0, h, 0},
			models.Material{Color: wallColor, Roughness: 0.5}),
		box(models.GroupWalls, mgl64.Vec3{WallThickness, h, w}, mgl64.Vec3{-l / 2, h / 2, 0}, wall),
		box(models.GroupWalls, mgl64.Vec3{WallThickness, h, w}, mgl64.Vec3{l / 2, h / 2, 0}, wall),
		// торцевые стены длиннее на толщину, чтобы закрыть углы
		box(models.GroupWalls, mgl64.Vec3{l + WallThickness, h, WallThickness}, mgl64.Vec3{0, h / 2, -w / 2}, wall),
		box(models.GroupWalls, mgl64.Vec3{l + WallThickness, h, WallThickness}, mgl64.Vec3{0, h / 2, w / 2}, wall),
	}
}

func wallpaperSheet(r RoomInputs) models.Primitive {
	return box(models.GroupWallpaper,
		mgl64.Vec3{r.Length - sheetInset, r.Height - sheetInset, sheetDepth},
		mgl64.Vec3{0, r.Height / 2, -r.Width/2 + 0.05},
		models.Material{Color: wallpaperColor, Roughness: 0.3, Metalness: 0.1, Opacity: 0.9})
}

// ============================================================
// Floor coverings
// ============================================================

func tiles(t TilesInputs) []models.Primitive {
	tw, th := t.TileWidth, t.TileHeight
	rows := GridCount(t.Room.Length, tw)
	cols := GridCount(t.Room.Width, th)

	origin := mgl64.Vec3{-t.Room.Length/2 + tw/2, FloorThickness + floorClearance, -t.Room.Width/2 + th/2}
	size := mgl64.Vec3{tw - t.Gap, tileThickness, th - t.Gap}

	out := make([]models.Primitive, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			color := tileColorOdd
			if (i+j)%2 == 0 {
				color = tileColorEven
			}
			pos := origin.Add(mgl64.Vec3{float64(i) * tw, 0, float64(j) * th})
			out = append(out, box(models.GroupTiles, size, pos,
				models.Material{Color: color, Texture: "tile", Roughness: 0.1, Metalness: 0.5}))
		}
	}
	return out
}

func laminate(l LaminateInputs) []models.Primitive {
	bw, bl := l.BoardWidth, l.BoardLength
	rows := GridCount(l.Room.Length, bw)
	cols := GridCount(l.Room.Width, bl)

	gap := seam(boardGap, bw, bl)
	origin := mgl64.Vec3{-l.Room.Length/2 + bw/2, FloorThickness + floorClearance, -l.Room.Width/2 + bl/2}
	size := mgl64.Vec3{bw - gap, tileThickness, bl - gap}

	out := make([]models.Primitive, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			p := box(models.GroupLaminate, size, origin.Add(mgl64.Vec3{float64(i) * bw, 0, float64(j) * bl}),
				models.Material{Texture: "wood", Roughness: 0.3, Metalness: 0.1})
			if (i+j)%2 != 0 {
				p.Rotation = mgl64.Vec3{0, math.Pi / 2, 0}
			}
			out = append(out, p)
		}
	}
	return out
}

// ============================================================
// Construction
// ============================================================

func foundation(f FoundationInputs) []models.Primitive {
	return []models.Primitive{
		box(models.GroupSlab, mgl64.Vec3{f.Length, f.Depth, f.Width}, mgl64.Vec3{0, -f.Depth / 2, 0},
			models.Material{Texture: "concrete", Roughness: 0.8, Metalness: 0.1}),
		box(models.GroupFooting, mgl64.Vec3{f.Length * 2, f.Depth * 0.5, f.Width * 2},
			mgl64.Vec3{0, -f.Depth - f.Depth*0.25, 0},
			models.Material{Color: footingColor, Roughness: 1}),
		{Group: models.GroupDecoration, Shape: models.ShapeSky, Position: mgl64.Vec3{100, 20, 100}},
		{Group: models.GroupDecoration, Shape: models.ShapeCloud, Position: mgl64.Vec3{20, -f.Depth, -20},
			Material: models.Material{Opacity: 0.5}},
		{Group: models.GroupDecoration, Shape: models.ShapeStars, Size: mgl64.Vec3{100, 50, 100}},
	}
}

// bricks кладет кирпичи ровными рядами, без перевязки швов.
func bricks(b BricksInputs) []models.Primitive {
	bl, bh := b.BrickLength, b.BrickHeight
	rows := GridCount(b.WallHeight, bh)
	cols := GridCount(b.WallLength, bl)
	size := mgl64.Vec3{bl, bh, b.WallThickness * brickDepth}

	out := make([]models.Primitive, 0, rows*cols)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			pos := mgl64.Vec3{
				-b.WallLength/2 + float64(col)*bl + bl/2,
				float64(row)*bh + bh/2,
				0,
			}
			out = append(out, box(models.GroupBricks, size, pos,
				models.Material{Texture: "brick", Roughness: 0.6, Metalness: 0.1}))
		}
	}
	return out
}

func roofing(r RoofingInputs) []models.Primitive {
	l, w := r.Length, r.Width
	angle := RoofAngle(r)
	rh := RoofHeight(r)
	ridgeY := HouseHeight + rh/2
	panelWidth := w / math.Cos(angle)

	roof := models.Material{Color: roofColor, Texture: "roof", Roughness: 0.3, Metalness: 0.7}
	drain := models.Material{Color: drainColor, Roughness: 0.2, Metalness: 0.8}
	gableSize := mgl64.Vec3{w * math.Tan(angle), w, gableDepth}

	out := []models.Primitive{
		box(models.GroupBase, mgl64.Vec3{l, HouseHeight, w}, mgl64.Vec3{0, HouseHeight / 2, 0},
			models.Material{Color: wallColor, Roughness: 0.4}),
		{Group: models.GroupRoof, Shape: models.ShapePlane, Size: mgl64.Vec3{l, panelWidth, 0},
			Position: mgl64.Vec3{0, ridgeY, 0}, Rotation: mgl64.Vec3{math.Pi/2 + angle, 0, 0}, Material: roof},
		{Group: models.GroupRoof, Shape: models.ShapePlane, Size: mgl64.Vec3{l, panelWidth, 0},
			Position: mgl64.Vec3{0, ridgeY, 0}, Rotation: mgl64.Vec3{math.Pi/2 - angle, 0, 0}, Material: roof},
		box(models.GroupGable, gableSize, mgl64.Vec3{l / 2, ridgeY, 0}, models.Material{Color: gableColor}),
		box(models.GroupGable, gableSize, mgl64.Vec3{-l / 2, ridgeY, 0}, models.Material{Color: gableColor}),
		box(models.GroupGutter, mgl64.Vec3{l, gutterSize, gutterSize}, mgl64.Vec3{0, HouseHeight + rh, w / 2}, drain),
	}

	for i := 0; i < int(math.Floor(l)); i++ {
		out = append(out, box(models.GroupDownspout,
			mgl64.Vec3{gutterSize, downspoutLen, gutterSize},
			mgl64.Vec3{-l/2 + 0.5 + float64(i), HouseHeight + rh - downspoutLen/2, w / 2},
			drain))
	}
	return out
}

func box(group string, size, pos mgl64.Vec3, mat models.Material) models.Primitive {
	return models.Primitive{
		Group:    group,
		Shape:    models.ShapeBox,
		Size:     size,
		Position: pos,
		Material: mat,
	}
}
