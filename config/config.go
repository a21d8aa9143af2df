// Package config handles dietreport configuration loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Backend names accepted by render.backend.
const (
	BackendCanvas = "canvas"
	BackendFpdf   = "fpdf"
)

// Config is the root configuration structure.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Render RenderConfig `yaml:"render"`
}

// ServerConfig holds the HTTP adapter settings.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxBodyBytes   int64    `yaml:"max_body_bytes"`
}

// RenderConfig selects the backend and the look of generated reports.
type RenderConfig struct {
	Backend string `yaml:"backend"`
	Theme   string `yaml:"theme"`    // path to a .theme file, empty for the built-in theme
	FontDir string `yaml:"font_dir"` // base directory for relative font paths in themes
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
			MaxBodyBytes:   1 << 20,
		},
		Render: RenderConfig{
			Backend: BackendCanvas,
		},
	}
}

// Validate reports settings no component can work with.
func (c *Config) Validate() error {
	switch c.Render.Backend {
	case BackendCanvas, BackendFpdf:
	default:
		return fmt.Errorf("unknown render backend %q (want %s or %s)", c.Render.Backend, BackendCanvas, BackendFpdf)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be positive")
	}
	return nil
}

// Load loads configuration from a file. Missing keys keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	if cfg.Render.Theme != "" && !filepath.IsAbs(cfg.Render.Theme) {
		cfg.Render.Theme = filepath.Join(filepath.Dir(path), cfg.Render.Theme)
	}
	return cfg, nil
}

// LoadOrDefault loads config from path, or returns default if not found.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	return Load(path)
}
