package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"jobhealth/internal/health"
	"jobhealth/internal/model"
)

var ErrUnsupportedFormat = errors.New("unsupported config format")

// Config is fixed at process start and never mutated afterwards.
type Config struct {
	Title      string            `json:"title" toml:"title" yaml:"title"`
	Thresholds health.Thresholds `json:"thresholds" toml:"thresholds" yaml:"thresholds"`
	Jobs       model.Registry    `json:"jobs" toml:"jobs" yaml:"jobs" validate:"required,min=1,unique=ID,dive"`
}

// fileConfig mirrors Config with optional fields so a file can override
// any subset of the compiled-in defaults.
type fileConfig struct {
	Title      *string         `toml:"title" yaml:"title"`
	Thresholds *fileThresholds `toml:"thresholds" yaml:"thresholds"`
	Jobs       []model.JobSpec `toml:"jobs" yaml:"jobs"`
}

type fileThresholds struct {
	TimeoutWarningMs     *int64 `toml:"timeout_warning_ms" yaml:"timeout_warning_ms"`
	TimeoutCriticalMs    *int64 `toml:"timeout_critical_ms" yaml:"timeout_critical_ms"`
	MaxConsecutiveErrors *int   `toml:"max_consecutive_errors" yaml:"max_consecutive_errors"`
}

// Default returns the compiled-in registry and thresholds.
func Default() Config {
	return Config{
		Title:      health.DefaultReportTitle,
		Thresholds: health.DefaultThresholds(),
		Jobs: model.Registry{
			{
				ID:       "7d71919d-15fe-46b3-a5da-71c9a335df7b",
				Name:     "Daily push suite",
				Schedule: "9:00 daily",
				Cron:     "0 9 * * *",
				Rounds:   []string{"AI news", "Bandai Hot Toys", "Game deals"},
			},
		},
	}
}

// Load returns the defaults, overridden by path when it is non-empty. The
// format is picked from the file extension: .toml, .yaml or .yml.
func Load(path string) (Config, error) {
	cfg := Default()
	path = strings.TrimSpace(path)
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &fc)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		return Config{}, fmt.Errorf("%w: %s (want .toml, .yaml or .yml)", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg = merge(cfg, fc)
	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func merge(base Config, fc fileConfig) Config {
	out := base
	if fc.Title != nil {
		out.Title = strings.TrimSpace(*fc.Title)
	}
	if t := fc.Thresholds; t != nil {
		if t.TimeoutWarningMs != nil {
			out.Thresholds.TimeoutWarningMs = *t.TimeoutWarningMs
		}
		if t.TimeoutCriticalMs != nil {
			out.Thresholds.TimeoutCriticalMs = *t.TimeoutCriticalMs
		}
		if t.MaxConsecutiveErrors != nil {
			out.Thresholds.MaxConsecutiveErrors = *t.MaxConsecutiveErrors
		}
	}
	if len(fc.Jobs) > 0 {
		jobs := make(model.Registry, 0, len(fc.Jobs))
		for _, j := range fc.Jobs {
			j.ID = strings.TrimSpace(j.ID)
			j.Name = strings.TrimSpace(j.Name)
			j.Cron = strings.TrimSpace(j.Cron)
			jobs = append(jobs, j)
		}
		out.Jobs = jobs
	}
	return out
}
