package models

import (
	"github.com/go-gl/mathgl/mgl64"
)

// ============================================================
// Calculation types
// ============================================================

type CalculationType string

const (
	TypePaint      CalculationType = "paint"
	TypeTiles      CalculationType = "tiles"
	TypeWallpaper  CalculationType = "wallpaper"
	TypeLaminate   CalculationType = "laminate"
	TypeFoundation CalculationType = "foundation"
	TypeBricks     CalculationType = "bricks"
	TypeRoofing    CalculationType = "roofing"
)

// VisualizedTypes - типы, для которых есть 3D раскладка.
var VisualizedTypes = []CalculationType{
	TypePaint, TypeTiles, TypeWallpaper, TypeLaminate,
	TypeFoundation, TypeBricks, TypeRoofing,
}

// ============================================================
// Geometry primitives
// ============================================================

type Shape string

const (
	ShapeBox   Shape = "box"
	ShapePlane Shape = "plane"
	ShapeSky   Shape = "sky"
	ShapeCloud Shape = "cloud"
	ShapeStars Shape = "stars"
)

// Группы примитивов, по которым работает перекраска.
const (
	GroupFloor      = "floor"
	GroupCeiling    = "ceiling"
	GroupWalls      = "walls"
	GroupWallpaper  = "wallpaper"
	GroupTiles      = "tiles"
	GroupLaminate   = "laminate"
	GroupBricks     = "bricks"
	GroupSlab       = "slab"
	GroupFooting    = "footing"
	GroupDecoration = "decoration"
	GroupBase       = "base"
	GroupRoof       = "roof"
	GroupGable      = "gable"
	GroupGutter     = "gutter"
	GroupDownspout  = "downspout"
)

type Material struct {
	Color     string  `json:"color,omitempty"`
	Texture   string  `json:"texture,omitempty"`
	Roughness float64 `json:"roughness,omitempty"`
	Metalness float64 `json:"metalness,omitempty"`
	Opacity   float64 `json:"opacity,omitempty"`
}

type Primitive struct {
	Group    string     `json:"group"`
	Shape    Shape      `json:"shape"`
	Size     mgl64.Vec3 `json:"size"`
	Position mgl64.Vec3 `json:"position"`
	Rotation mgl64.Vec3 `json:"rotation"`
	Material Material   `json:"material"`
}

// Layout - упорядоченный набор примитивов одного типа расчета.
type Layout struct {
	Type        CalculationType `json:"type"`
	Primitives  []Primitive     `json:"primitives"`
	Placeholder string          `json:"placeholder,omitempty"`
}

// Group возвращает примитивы группы в исходном порядке.
func (l Layout) Group(name string) []Primitive {
	var out []Primitive
	for _, p := range l.Primitives {
		if p.Group == name {
			out = append(out, p)
		}
	}
	return out
}

// Clone копирует layout вместе со слайсом примитивов.
func (l Layout) Clone() Layout {
	cp := l
	cp.Primitives = append([]Primitive(nil), l.Primitives...)
	return cp
}

// MaterialSelection - выбранный пользователем цвет для группы.
type MaterialSelection struct {
	Group string `json:"group"`
	Color string `json:"color"`
}

// ============================================================
// Calculation result (то, что отдает калькулятор)
// ============================================================

type MaterialAmount struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

type Result struct {
	Materials []MaterialAmount `json:"materials"`
	TotalArea *float64         `json:"total_area,omitempty"`
	Details   string           `json:"details,omitempty"`
}
