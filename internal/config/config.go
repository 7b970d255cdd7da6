// Package config provides unified configuration loading for the service.
// Supports YAML files, environment variables, and programmatic overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the service.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Engine        EngineConfig        `yaml:"engine"`
	Artifacts     ArtifactsConfig     `yaml:"artifacts"`
	Sample        SampleConfig        `yaml:"sample"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
	RequestTimeout   time.Duration `yaml:"request_timeout"`
}

// EngineConfig holds the structure extraction engine options. These are
// fixed at process startup and shared by every request.
type EngineConfig struct {
	// Languages lists the recognition language hints, e.g. ["eng"].
	Languages []string `yaml:"languages"`
	// RecognitionModel optionally points at an alternative trained-data
	// directory (e.g. a fast/mobile model variant). Empty uses the system
	// default.
	RecognitionModel string `yaml:"recognition_model"`
	// EnableOrientationClassify turns on page orientation detection before
	// recognition.
	EnableOrientationClassify bool `yaml:"enable_orientation_classify"`
	// EnableTextlineOrientation turns on per-line orientation handling.
	EnableTextlineOrientation bool `yaml:"enable_textline_orientation"`
	// EnableChartRecognition turns on chart content recognition where the
	// engine supports it.
	EnableChartRecognition bool `yaml:"enable_chart_recognition"`
	// CPUThreads bounds the engine's internal thread budget.
	CPUThreads int `yaml:"cpu_threads"`
	// RenderDPI is the rasterization resolution for PDF pages.
	RenderDPI int `yaml:"render_dpi"`
	// MaxConcurrent bounds concurrent extraction requests sharing the
	// engine's fixed resource budget.
	MaxConcurrent int `yaml:"max_concurrent"`
}

// ArtifactsConfig holds artifact persistence settings.
type ArtifactsConfig struct {
	OutputDir   string `yaml:"output_dir"`
	HTMLPreview bool   `yaml:"html_preview"`
}

// SampleConfig holds the fixed local input used by the diagnostic endpoint.
type SampleConfig struct {
	Path string `yaml:"path"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Load reads configuration from a YAML file and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with sensible defaults for development.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8080,
			ReadTimeout:      30 * time.Second,
			WriteTimeout:     120 * time.Second,
			IdleTimeout:      120 * time.Second,
			GracefulShutdown: 10 * time.Second,
			RequestTimeout:   120 * time.Second,
		},
		Engine: EngineConfig{
			Languages:                 []string{"eng"},
			EnableOrientationClassify: false,
			EnableTextlineOrientation: false,
			EnableChartRecognition:    false,
			CPUThreads:                8,
			RenderDPI:                 200,
			MaxConcurrent:             2,
		},
		Artifacts: ArtifactsConfig{
			OutputDir:   "output",
			HTMLPreview: false,
		},
		Sample: SampleConfig{
			Path: "testdata/sample.png",
		},
		Observability: ObservabilityConfig{
			LogLevel:  "info",
			LogFormat: "json",
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be in [1,65535], got %d", c.Server.Port)
	}
	if len(c.Engine.Languages) == 0 {
		return fmt.Errorf("engine requires at least one recognition language")
	}
	if c.Engine.CPUThreads < 1 {
		return fmt.Errorf("engine cpu_threads must be >= 1, got %d", c.Engine.CPUThreads)
	}
	if c.Engine.RenderDPI < 72 || c.Engine.RenderDPI > 600 {
		return fmt.Errorf("engine render_dpi must be in [72,600], got %d", c.Engine.RenderDPI)
	}
	if c.Engine.MaxConcurrent < 1 {
		return fmt.Errorf("engine max_concurrent must be >= 1, got %d", c.Engine.MaxConcurrent)
	}
	if c.Artifacts.OutputDir == "" {
		return fmt.Errorf("artifacts output_dir must not be empty")
	}
	switch c.Observability.LogLevel {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
	default:
		return fmt.Errorf("unknown log level %q", c.Observability.LogLevel)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PAGELENS_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("PAGELENS_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("PAGELENS_OUTPUT_DIR"); v != "" {
		cfg.Artifacts.OutputDir = v
	}
	if v := os.Getenv("PAGELENS_SAMPLE_PATH"); v != "" {
		cfg.Sample.Path = v
	}
	if v := os.Getenv("PAGELENS_CPU_THREADS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Engine.CPUThreads = n
		}
	}
	if v := os.Getenv("PAGELENS_MAX_CONCURRENT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Engine.MaxConcurrent = n
		}
	}
	if v := os.Getenv("PAGELENS_LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := os.Getenv("PAGELENS_LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
}
