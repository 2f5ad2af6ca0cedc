package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	// Port шлюза, сервис конвертации слушает Converter.Port.
	Port         string   `env:"PORT" envDefault:"3000"`
	Environment  string   `env:"ENV" envDefault:"development"`
	ReadTimeout  int      `env:"READ_TIMEOUT" envDefault:"10"`
	WriteTimeout int      `env:"WRITE_TIMEOUT" envDefault:"10"`
	LogLevel     string   `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat    string   `env:"LOG_FORMAT" envDefault:"json"`
	CORSOrigins  []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`

	Converter ConverterConfig
	Gateway   GatewayConfig
}

// ConverterConfig содержит настройки сервиса построения 3D.
type ConverterConfig struct {
	Port           string  `env:"CONVERTER_PORT" envDefault:"3001"`
	DBPath         string  `env:"LAYOUT_DB_PATH" envDefault:"data/db/layouts.db"`
	TablesPath     string  `env:"GEOMETRY_TABLES_PATH"`
	PixelsPerMeter float64 `env:"IMPORT_PIXELS_PER_METER" envDefault:"50"`
	Workers        int     `env:"CONVERT_WORKERS" envDefault:"1"`
}

type GatewayConfig struct {
	ConverterURL string `env:"CONVERTER_URL" envDefault:"http://localhost:3001"`
	DocsPath     string `env:"OPENAPI_PATH" envDefault:"docs/converter.openapi.yaml"`
}

// Load загружает конфигурацию из переменных окружения.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, errors.Wrap(err, "parse env")
	}
	if cfg.Converter.PixelsPerMeter <= 0 {
		return nil, errors.Errorf("IMPORT_PIXELS_PER_METER must be positive, got %g", cfg.Converter.PixelsPerMeter)
	}
	return &cfg, nil
}
