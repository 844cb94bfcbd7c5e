// Package config holds the engine settings. Defaults are overlaid by an
// optional YAML file, which command-line flags overlay in turn.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

type StoreConfig struct {
	Driver string `yaml:"driver"` // memory, file or sqlite
	Path   string `yaml:"path"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	SeqURL string `yaml:"seq_url"`
}

type Config struct {
	Namespace         string        `yaml:"namespace"`
	NumericSampleSize int           `yaml:"numeric_sample_size"`
	PageSize          int           `yaml:"page_size"`
	WorkerThreshold   int           `yaml:"worker_threshold"`
	WorkerTimeout     time.Duration `yaml:"worker_timeout"`
	WorkerPoolSize    int           `yaml:"worker_pool_size"`
	Locale            string        `yaml:"locale"`
	Store             StoreConfig   `yaml:"store"`
	Log               LogConfig     `yaml:"log"`
}

func Default() Config {
	return Config{
		Namespace:         "pivot_app_v1",
		NumericSampleSize: 1000,
		PageSize:          50,
		WorkerThreshold:   5000,
		WorkerTimeout:     2 * time.Second,
		WorkerPoolSize:    1,
		Locale:            "und",
		Store:             StoreConfig{Driver: "file", Path: ".pivotgrid"},
		Log:               LogConfig{Level: "info"},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.Namespace) == "" {
		problems = append(problems, "namespace is empty")
	}
	if c.NumericSampleSize <= 0 {
		problems = append(problems, "numeric_sample_size must be positive")
	}
	if c.PageSize <= 0 {
		problems = append(problems, "page_size must be positive")
	}
	if c.WorkerPoolSize <= 0 {
		problems = append(problems, "worker_pool_size must be positive")
	}
	if c.WorkerThreshold < 0 {
		problems = append(problems, "worker_threshold must not be negative")
	}
	if c.WorkerTimeout <= 0 {
		problems = append(problems, "worker_timeout must be positive")
	}
	switch c.Store.Driver {
	case "memory":
	case "file", "sqlite":
		if c.Store.Path == "" {
			problems = append(problems, "store.path is required for driver "+c.Store.Driver)
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown store driver %q", c.Store.Driver))
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// SlogLevel parses Level; empty means info
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if l.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", l.Level)
	}
	return level, nil
}
