package layout

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"stroycalc/internal/visualizer/models"
)

// ============================================================
// Errors
// ============================================================

var (
	ErrMissingField = errors.New("missing required field")
	ErrInvalidInput = errors.New("invalid input")
)

// ============================================================
// Typed inputs
// ============================================================

// Inputs - входные данные одного типа расчета. Набор реализаций закрыт:
// каждая структура ниже соответствует ровно одному CalculationType.
type Inputs interface {
	Type() models.CalculationType
	validate() error
}

type RoomInputs struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type PaintInputs struct {
	Room RoomInputs `json:"room"`
}

type TilesInputs struct {
	Room       RoomInputs `json:"room"`
	TileWidth  float64    `json:"tile_width"`
	TileHeight float64    `json:"tile_height"`
	Gap        float64    `json:"gap_width"`
}

type WallpaperInputs struct {
	Room RoomInputs `json:"room"`
}

type LaminateInputs struct {
	Room        RoomInputs `json:"room"`
	BoardWidth  float64    `json:"laminate_width"`
	BoardLength float64    `json:"laminate_length"`
}

type FoundationInputs struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Depth  float64 `json:"depth"`
}

type BricksInputs struct {
	WallLength    float64 `json:"wall_length"`
	WallHeight    float64 `json:"wall_height"`
	BrickLength   float64 `json:"brick_length"`
	BrickHeight   float64 `json:"brick_height"`
	WallThickness float64 `json:"wall_thickness"`
}

// RoofingInputs: Slope == nil означает «уклон не задан» (угол 30°),
// явный 0 дает плоскую крышу.
type RoofingInputs struct {
	Length float64  `json:"roof_length"`
	Width  float64  `json:"roof_width"`
	Slope  *float64 `json:"roof_slope,omitempty"`
}

// UnsupportedInputs - тип расчета без визуализации (plaster, insulation, ...).
type UnsupportedInputs struct {
	Kind string `json:"kind"`
}

func (PaintInputs) Type() models.CalculationType { return models.TypePaint }
func (TilesInputs) Type() models.CalculationType { return models.TypeTiles }
func (WallpaperInputs) Type() models.CalculationType { return models.TypeWallpaper }
func (LaminateInputs) Type() models.CalculationType { return models.TypeLaminate }
func (FoundationInputs) Type() models.CalculationType { return models.TypeFoundation }
func (BricksInputs) Type() models.CalculationType { return models.TypeBricks }
func (RoofingInputs) Type() models.CalculationType { return models.TypeRoofing }
func (u UnsupportedInputs) Type() models.CalculationType { return models.CalculationType(u.Kind) }

// ============================================================
// Parsing
// ============================================================

// Parse раскладывает map полей формы в типизированную структуру.
// Неизвестный тип не ошибка: возвращается UnsupportedInputs.
func Parse(calcType string, values map[string]float64) (Inputs, error) {
	r := &fieldReader{values: values}

	var in Inputs
	switch models.CalculationType(calcType) {
	case models.TypePaint:
		in = PaintInputs{Room: r.room(0)}
	case models.TypeWallpaper:
		in = WallpaperInputs{Room: r.room(0)}
	case models.TypeTiles:
		tw := r.required("tile_width")
		th := r.optional("tile_height", tw)
		in = TilesInputs{
			Room:       r.room(DefaultRoomHeight),
			TileWidth:  tw,
			TileHeight: th,
			Gap:        r.optional("gap_width", seam(DefaultGap, tw, th)),
		}
	case models.TypeLaminate:
		in = LaminateInputs{
			Room:        r.room(DefaultRoomHeight),
			BoardWidth:  r.required("laminate_width"),
			BoardLength: r.required("laminate_length"),
		}
	case models.TypeFoundation:
		in = FoundationInputs{
			Length: r.required("length"),
			Width:  r.required("width"),
			Depth:  r.required("depth"),
		}
	case models.TypeBricks:
		in = BricksInputs{
			WallLength:    r.required("wall_length"),
			WallHeight:    r.required("wall_height"),
			BrickLength:   r.optional("brick_length", DefaultBrickLength),
			BrickHeight:   r.optional("brick_height", DefaultBrickHeight),
			WallThickness: r.optional("wall_thickness", DefaultWallThickness),
		}
	case models.TypeRoofing:
		roof := RoofingInputs{
			Length: r.optional("roof_length", DefaultRoofLength),
			Width:  r.optional("roof_width", DefaultRoofWidth),
		}
		if slope, ok := values["roof_slope"]; ok {
			roof.Slope = &slope
		}
		in = roof
	default:
		return UnsupportedInputs{Kind: calcType}, nil
	}

	if r.err != nil {
		return nil, r.err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	return in, nil
}

// Values приводит значения формы к числам. Пустые строки и null
// считаются незаполненными полями, числовые строки разбираются.
func Values(raw map[string]any) (map[string]float64, error) {
	out := make(map[string]float64, len(raw))
	for name, v := range raw {
		switch val := v.(type) {
		case nil:
			continue
		case float64:
			out[name] = val
		case int:
			out[name] = float64(val)
		case string:
			val = strings.TrimSpace(val)
			if val == "" {
				continue
			}
			f, err := strconv.ParseFloat(strings.Replace(val, ",", ".", 1), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %s is not a number", ErrInvalidInput, name)
			}
			out[name] = f
		default:
			return nil, fmt.Errorf("%w: %s has unsupported type %T", ErrInvalidInput, name, v)
		}
	}
	return out, nil
}

type fieldReader struct {
	values map[string]float64
	err    error
}

func (r *fieldReader) required(name string) float64 {
	v, ok := r.values[name]
	if !ok && r.err == nil {
		r.err = fmt.Errorf("%w: %s", ErrMissingField, name)
	}
	return v
}

func (r *fieldReader) optional(name string, def float64) float64 {
	if v, ok := r.values[name]; ok {
		return v
	}
	return def
}

// room читает length/width/height; height > 0 в def делает высоту необязательной.
func (r *fieldReader) room(defHeight float64) RoomInputs {
	room := RoomInputs{
		Length: r.required("length"),
		Width:  r.required("width"),
	}
	if defHeight > 0 {
		room.Height = r.optional("height", defHeight)
	} else {
		room.Height = r.required("height")
	}
	return room
}

// ============================================================
// Validation
// ============================================================

func positive(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fmt.Errorf("%w: %s must be a positive number, got %v", ErrInvalidInput, name, v)
	}
	return nil
}

func (r RoomInputs) validate() error {
	return errors.Join(
		positive("length", r.Length),
		positive("width", r.Width),
		positive("height", r.Height),
	)
}

func (p PaintInputs) validate() error { return p.Room.validate() }
func (w WallpaperInputs) validate() error { return w.Room.validate() }

func (t TilesInputs) validate() error {
	if err := errors.Join(
		t.Room.validate(),
		positive("tile_width", t.TileWidth),
		positive("tile_height", t.TileHeight),
	); err != nil {
		return err
	}
	if math.IsNaN(t.Gap) || t.Gap < 0 || t.Gap >= t.TileWidth || t.Gap >= t.TileHeight {
		return fmt.Errorf("%w: gap_width must be in [0, tile size), got %v", ErrInvalidInput, t.Gap)
	}
	return checkGrid("tiles", gridSize(t.Room.Length, t.TileWidth)*gridSize(t.Room.Width, t.TileHeight))
}

func (l LaminateInputs) validate() error {
	if err := errors.Join(
		l.Room.validate(),
		positive("laminate_width", l.BoardWidth),
		positive("laminate_length", l.BoardLength),
	); err != nil {
		return err
	}
	return checkGrid("laminate", gridSize(l.Room.Length, l.BoardWidth)*gridSize(l.Room.Width, l.BoardLength))
}

func (f FoundationInputs) validate() error {
	return errors.Join(
		positive("length", f.Length),
		positive("width", f.Width),
		positive("depth", f.Depth),
	)
}

func (b BricksInputs) validate() error {
	if err := errors.Join(
		positive("wall_length", b.WallLength),
		positive("wall_height", b.WallHeight),
		positive("brick_length", b.BrickLength),
		positive("brick_height", b.BrickHeight),
		positive("wall_thickness", b.WallThickness),
	); err != nil {
		return err
	}
	return checkGrid("bricks", gridSize(b.WallHeight, b.BrickHeight)*gridSize(b.WallLength, b.BrickLength))
}

func (r RoofingInputs) validate() error {
	if err := errors.Join(
		positive("roof_length", r.Length),
		positive("roof_width", r.Width),
	); err != nil {
		return err
	}
	if r.Slope != nil {
		s := *r.Slope
		if math.IsNaN(s) || math.IsInf(s, 0) || s < 0 {
			return fmt.Errorf("%w: roof_slope must be >= 0, got %v", ErrInvalidInput, s)
		}
	}
	return checkGrid("downspouts", math.Floor(r.Length))
}

func (UnsupportedInputs) validate() error { return nil }
