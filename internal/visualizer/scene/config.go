package scene

import (
	"github.com/go-gl/mathgl/mgl64"

	"stroycalc/internal/visualizer/models"
)

// Config - параметры сцены, которые не зависят от раскладки.
// Значения по умолчанию берутся из DefaultConfig и могут быть
// переопределены секцией scene в конфиге сервиса.
type Config struct {
	Camera       CameraConfig      `koanf:"camera" json:"camera"`
	Ambient      LightConfig       `koanf:"ambient" json:"ambient"`
	Directional  LightConfig       `koanf:"directional" json:"directional"`
	Point        LightConfig       `koanf:"point" json:"point"`
	Orbit        OrbitConfig       `koanf:"orbit" json:"orbit"`
	Grid         GridConfig        `koanf:"grid" json:"grid"`
	Labels       LabelConfig       `koanf:"labels" json:"labels"`
	Environments map[string]string `koanf:"environments" json:"environments"`
}

type CameraConfig struct {
	Fov             float64 `koanf:"fov" json:"fov"`
	Near            float64 `koanf:"near" json:"near"`
	Far             float64 `koanf:"far" json:"far"`
	DistanceFactor  float64 `koanf:"distance_factor" json:"distance_factor"`
	DefaultDistance float64 `koanf:"default_distance" json:"default_distance"`
}

type LightConfig struct {
	Position  []float64 `koanf:"position" json:"position,omitempty"`
	Intensity float64   `koanf:"intensity" json:"intensity"`
	Color     string    `koanf:"color" json:"color"`
	Shadows   bool      `koanf:"shadows" json:"shadows"`
}

type OrbitConfig struct {
	MinDistance     float64 `koanf:"min_distance" json:"min_distance"`
	MaxDistance     float64 `koanf:"max_distance" json:"max_distance"`
	AutoRotate      bool    `koanf:"auto_rotate" json:"auto_rotate"`
	AutoRotateSpeed float64 `koanf:"auto_rotate_speed" json:"auto_rotate_speed"`
}

type GridConfig struct {
	Size        float64 `koanf:"size" json:"size"`
	Divisions   int     `koanf:"divisions" json:"divisions"`
	CenterColor string  `koanf:"center_color" json:"center_color"`
	LineColor   string  `koanf:"line_color" json:"line_color"`
}

type LabelConfig struct {
	OriginY  float64 `koanf:"origin_y" json:"origin_y"`
	Spacing  float64 `koanf:"spacing" json:"spacing"`
	FontSize float64 `koanf:"font_size" json:"font_size"`
}

func DefaultConfig() Config {
	return Config{
		Camera: CameraConfig{
			Fov:             50,
			Near:            0.1,
			Far:             1000,
			DistanceFactor:  1.5,
			DefaultDistance: 10,
		},
		Ambient:     LightConfig{Intensity: 0.5, Color: "#ffffff"},
		Directional: LightConfig{Position: []float64{10, 10, 5}, Intensity: 1.5, Color: "#ffffff", Shadows: true},
		Point:       LightConfig{Position: []float64{0, 10, 0}, Intensity: 0.5, Color: "#ffaa00"},
		Orbit: OrbitConfig{
			MinDistance:     5,
			MaxDistance:     100,
			AutoRotate:      true,
			AutoRotateSpeed: 0.5,
		},
		Grid:   GridConfig{Size: 20, Divisions: 20, CenterColor: "#666666", LineColor: "#444444"},
		Labels: LabelConfig{OriginY: 5, Spacing: 0.5, FontSize: 0.3},
		Environments: map[string]string{
			string(models.TypeTiles):    "city",
			string(models.TypeLaminate): "apartment",
			string(models.TypeRoofing):  "dawn",
		},
	}
}

func vec(v []float64) mgl64.Vec3 {
	var out mgl64.Vec3
	copy(out[:], v)
	return out
}
