package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"stroycalc/internal/visualizer/scene"
)

// ============================================================
// Configuration
// ============================================================

const envPrefix = "STROY_"

// Порты по умолчанию для каждого сервиса.
var defaultPorts = map[string]string{
	"gateway":    "3000",
	"visualizer": "3001",
	"account":    "3002",
}

type Config struct {
	Port            string        `koanf:"port"`
	Environment     string        `koanf:"env"`
	ReadTimeout     int           `koanf:"read_timeout"`
	WriteTimeout    int           `koanf:"write_timeout"`
	DBPath          string        `koanf:"db_path"`
	JWTSecret       string        `koanf:"jwt_secret"`
	AccessTTL       time.Duration `koanf:"access_ttl"`
	RefreshTTL      time.Duration `koanf:"refresh_ttl"`
	VisualizerURL   string        `koanf:"visualizer_url"`
	AccountURL      string        `koanf:"account_url"`
	UpstreamTimeout time.Duration `koanf:"upstream_timeout"`
	ExportsDir      string        `koanf:"exports_dir"`
	PDFFont         string        `koanf:"pdf_font"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	Scene           scene.Config  `koanf:"scene"`
}

// Load собирает конфигурацию сервиса: значения по умолчанию, затем YAML файл
// (STROY_CONFIG или config.yaml, если есть), затем переменные STROY_*.
// Вложенные ключи в окружении пишутся через двойное подчеркивание:
// STROY_SCENE__CAMERA__FOV=60.
func Load(service string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[CONFIG] .env: %v", err)
	}

	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(service), "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := configFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{Scene: scene.DefaultConfig()}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return cfg, nil
}

// MustLoad - Load для main: при ошибке завершает процесс.
func MustLoad(service string) *Config {
	cfg, err := Load(service)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	return cfg
}

// IsProduction сообщает, запущен ли сервис в боевом окружении.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func defaults(service string) map[string]any {
	port, ok := defaultPorts[service]
	if !ok {
		port = "3000"
	}
	return map[string]any{
		"port":             port,
		"env":              "development",
		"read_timeout":     10,
		"write_timeout":    10,
		"db_path":          "data/db/stroycalc.db",
		"jwt_secret":       "dev-secret-change-me",
		"access_ttl":       "15m",
		"refresh_ttl":      "168h",
		"visualizer_url":   "http://localhost:3001",
		"account_url":      "http://localhost:3002",
		"upstream_timeout": "30s",
		"exports_dir":      "data/exports",
		"pdf_font":         "",
	}
}

func configFile() string {
	if path := os.Getenv(envPrefix + "CONFIG"); path != "" {
		return path
	}
	if _, err := os.Stat("config.yaml"); err == nil {
		return "config.yaml"
	}
	return ""
}
