package scene

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"

	"stroycalc/internal/visualizer/layout"
	"stroycalc/internal/visualizer/models"
)

var (
	ErrUnknownGroup = errors.New("unknown primitive group")
	ErrInvalidColor = errors.New("invalid color")
)

var colorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Цвета, с которыми открываются палитры.
const (
	defaultPaintColor = "#4287f5"
	defaultRoofColor  = "#8b0000"
	defaultPaperColor = "#ff6b6b"
)

// ============================================================
// Scene model
// ============================================================

type Scene struct {
	Layout      models.Layout   `json:"layout"`
	Camera      Camera          `json:"camera"`
	Lights      []Light         `json:"lights"`
	Controls    Controls        `json:"controls"`
	Grid        GridConfig      `json:"grid"`
	Environment string          `json:"environment,omitempty"`
	Selectors   []ColorSelector `json:"selectors"`
	Labels      []Label         `json:"labels"`
	Effects     []Effect        `json:"effects"`
}

type Camera struct {
	Position mgl64.Vec3 `json:"position"`
	Fov      float64    `json:"fov"`
	Near     float64    `json:"near"`
	Far      float64    `json:"far"`
}

type Light struct {
	Kind      string     `json:"kind"`
	Position  mgl64.Vec3 `json:"position"`
	Intensity float64    `json:"intensity"`
	Color     string     `json:"color"`
	Shadows   bool       `json:"shadows"`
}

type Controls struct {
	Pan             bool    `json:"pan"`
	Zoom            bool    `json:"zoom"`
	Rotate          bool    `json:"rotate"`
	MinDistance     float64 `json:"min_distance"`
	MaxDistance     float64 `json:"max_distance"`
	AutoRotate      bool    `json:"auto_rotate"`
	AutoRotateSpeed float64 `json:"auto_rotate_speed"`
}

// ColorSelector - точка в сцене, по клику на которую открывается палитра для группы.
type ColorSelector struct {
	Target   string     `json:"target"`
	Position mgl64.Vec3 `json:"position"`
	Color    string     `json:"color"`
}

type Label struct {
	Text     string     `json:"text"`
	Position mgl64.Vec3 `json:"position"`
	FontSize float64    `json:"font_size"`
}

// Effect - декоративный эффект, не входит в раскладку и не детерминирован на клиенте.
type Effect struct {
	Kind     string     `json:"kind"`
	Count    int        `json:"count"`
	Size     float64    `json:"size"`
	Scale    mgl64.Vec3 `json:"scale"`
	Position mgl64.Vec3 `json:"position"`
	Color    string     `json:"color,omitempty"`
	Speed    float64    `json:"speed"`
}

// ============================================================
// Compose
// ============================================================

// Compose собирает сцену вокруг готовой раскладки. Выбор пользователя
// применяется поверх цветов палитр; исходная раскладка не меняется.
func Compose(l models.Layout, in layout.Inputs, result *models.Result, cfg Config, selections ...models.MaterialSelection) (Scene, error) {
	selectors := colorSelectors(in)

	painted := l.Clone()
	for i := range selectors {
		for _, sel := range selections {
			if sel.Group == selectors[i].Target {
				selectors[i].Color = sel.Color
			}
		}
		var err error
		if painted, err = Recolor(painted, models.MaterialSelection{Group: selectors[i].Target, Color: selectors[i].Color}); err != nil {
			return Scene{}, err
		}
	}
	for _, sel := range selections {
		if hasSelector(selectors, sel.Group) {
			continue
		}
		var err error
		if painted, err = Recolor(painted, sel); err != nil {
			return Scene{}, err
		}
	}

	d := cameraDistance(in, cfg.Camera)
	s := Scene{
		Layout: painted,
		Camera: Camera{
			Position: mgl64.Vec3{d, d, d},
			Fov:      cfg.Camera.Fov,
			Near:     cfg.Camera.Near,
			Far:      cfg.Camera.Far,
		},
		Lights: []Light{
			{Kind: "ambient", Intensity: cfg.Ambient.Intensity, Color: cfg.Ambient.Color},
			{Kind: "directional", Position: vec(cfg.Directional.Position), Intensity: cfg.Directional.Intensity,
				Color: cfg.Directional.Color, Shadows: cfg.Directional.Shadows},
			{Kind: "point", Position: vec(cfg.Point.Position), Intensity: cfg.Point.Intensity, Color: cfg.Point.Color},
		},
		Controls: Controls{
			Pan:             true,
			Zoom:            true,
			Rotate:          true,
			MinDistance:     cfg.Orbit.MinDistance,
			MaxDistance:     cfg.Orbit.MaxDistance,
			AutoRotate:      cfg.Orbit.AutoRotate,
			AutoRotateSpeed: cfg.Orbit.AutoRotateSpeed,
		},
		Grid:      cfg.Grid,
		Selectors: selectors,
		Labels:    labels(result, cfg.Labels),
		Effects:   effects(in, selectors),
	}
	if in != nil {
		s.Environment = cfg.Environments[string(in.Type())]
	}
	return s, nil
}

// Recolor возвращает копию раскладки, в которой группа перекрашена.
// Исходная раскладка и ее слайс примитивов не меняются.
func Recolor(l models.Layout, sel models.MaterialSelection) (models.Layout, error) {
	if !colorPattern.MatchString(sel.Color) {
		return models.Layout{}, fmt.Errorf("%w: %q", ErrInvalidColor, sel.Color)
	}

	out := l.Clone()
	found := false
	for i := range out.Primitives {
		if out.Primitives[i].Group == sel.Group {
			out.Primitives[i].Material.Color = sel.Color
			found = true
		}
	}
	if !found {
		return models.Layout{}, fmt.Errorf("%w: %s", ErrUnknownGroup, sel.Group)
	}
	return out, nil
}

func hasSelector(selectors []ColorSelector, group string) bool {
	for _, s := range selectors {
		if s.Target == group {
			return true
		}
	}
	return false
}

// ============================================================
// Camera
// ============================================================

func cameraDistance(in layout.Inputs, cfg CameraConfig) float64 {
	var dim float64
	switch v := in.(type) {
	case layout.FoundationInputs:
		dim = max(v.Length, v.Width, v.Depth)
	case layout.BricksInputs:
		dim = max(v.WallLength, v.WallHeight)
	case layout.RoofingInputs:
		dim = max(v.Length, v.Width)
	case layout.PaintInputs:
		dim = roomDim(v.Room)
	case layout.TilesInputs:
		dim = roomDim(v.Room)
	case layout.WallpaperInputs:
		dim = roomDim(v.Room)
	case layout.LaminateInputs:
		dim = roomDim(v.Room)
	default:
		return cfg.DefaultDistance
	}
	return dim * cfg.DistanceFactor
}

func roomDim(r layout.RoomInputs) float64 {
	return max(r.Length, r.Width, r.Height)
}

// ============================================================
// Selectors, labels, effects
// ============================================================

func colorSelectors(in layout.Inputs) []ColorSelector {
	switch v := in.(type) {
	case layout.PaintInputs:
		return []ColorSelector{{
			Target:   models.GroupWalls,
			Position: mgl64.Vec3{0, v.Room.Height + 1, 0},
			Color:    defaultPaintColor,
		}}
	case layout.WallpaperInputs:
		return []ColorSelector{{
			Target:   models.GroupWallpaper,
			Position: mgl64.Vec3{0, v.Room.Height + 1, 0},
			Color:    defaultPaperColor,
		}}
	case layout.RoofingInputs:
		return []ColorSelector{{
			Target:   models.GroupRoof,
			Position: mgl64.Vec3{0, 6 + layout.RoofHeight(v), 0},
			Color:    defaultRoofColor,
		}}
	}
	return []ColorSelector{}
}

func labels(result *models.Result, cfg LabelConfig) []Label {
	if result == nil {
		return []Label{}
	}
	out := make([]Label, 0, len(result.Materials))
	for i, m := range result.Materials {
		out = append(out, Label{
			Text:     fmt.Sprintf("%s: %s %s", m.Name, strconv.FormatFloat(m.Quantity, 'f', -1, 64), m.Unit),
			Position: mgl64.Vec3{0, cfg.OriginY - cfg.Spacing*float64(i), 0},
			FontSize: cfg.FontSize,
		})
	}
	return out
}

func effects(in layout.Inputs, selectors []ColorSelector) []Effect {
	switch v := in.(type) {
	case layout.PaintInputs:
		color := defaultPaintColor
		if len(selectors) > 0 {
			color = selectors[0].Color
		}
		return []Effect{{
			Kind:     "sparkles",
			Count:    50,
			Size:     2,
			Scale:    mgl64.Vec3{v.Room.Length, v.Room.Height, v.Room.Width},
			Position: mgl64.Vec3{0, v.Room.Height / 2, 0},
			Color:    color,
			Speed:    0.1,
		}}
	case layout.BricksInputs:
		return []Effect{{
			Kind:  "particles",
			Count: 1000,
			Size:  0.05,
			Scale: mgl64.Vec3{10, 10, 10},
			Speed: 0.0005,
		}}
	}
	return []Effect{}
}
