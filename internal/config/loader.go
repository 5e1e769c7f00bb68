package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, an optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New)
//  2. YAML file if FELLOWTRACK_CONFIG is set
//  3. env (prefix FELLOWTRACK_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("FELLOWTRACK_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Env keys like FELLOWTRACK_QUEUE_SIZE map to the flat koanf key
	// queue_size. Underscores are preserved to match the struct tags.
	envProvider := env.Provider("FELLOWTRACK_", ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), "fellowtrack_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.Storage != "memory" && c.Storage != "mysql":
		return fmt.Errorf("%w: storage must be memory or mysql, got %q", ErrInvalidConfig, c.Storage)
	case c.Storage == "mysql" && c.MySQLDSN == "":
		return fmt.Errorf("%w: mysql storage requires mysql_dsn", ErrInvalidConfig)
	case c.CheckInLookback < 1:
		return fmt.Errorf("%w: check_in_lookback must be at least 1", ErrInvalidConfig)
	case c.AssessmentLookback < 1:
		return fmt.Errorf("%w: assessment_lookback must be at least 1", ErrInvalidConfig)
	case c.WorkerCount < 1:
		return fmt.Errorf("%w: worker_count must be at least 1", ErrInvalidConfig)
	case c.QueueSize < 1:
		return fmt.Errorf("%w: queue_size must be at least 1", ErrInvalidConfig)
	case c.DrafterTimeoutSeconds < 1:
		return fmt.Errorf("%w: drafter_timeout_seconds must be at least 1", ErrInvalidConfig)
	}
	if c.ProgramStart != "" {
		if _, err := time.Parse("2006-01-02", c.ProgramStart); err != nil {
			return fmt.Errorf("%w: program_start must be YYYY-MM-DD: %v", ErrInvalidConfig, err)
		}
	}
	return nil
}
