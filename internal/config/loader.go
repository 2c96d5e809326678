package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if BREWRANK_CONFIG is set
//  3. env (prefix BREWRANK_)
func Load(ctx context.Context) (*Config, error) {
	_ = ctx // reserved for future remote providers

	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("BREWRANK_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: BREWRANK_ADDR, BREWRANK_DATA_DIR, ...
	// Map env keys like BREWRANK_DATA_DIR -> data_dir (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("BREWRANK_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "brewrank_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Basic validation
	switch {
	case cfg.Addr == "":
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case cfg.DataDir == "":
		return nil, fmt.Errorf("%w: data_dir must not be empty", ErrInvalidConfig)
	case cfg.SearchRadiusMeters <= 0:
		return nil, fmt.Errorf("%w: search_radius_meters must be positive", ErrInvalidConfig)
	case cfg.MaxResultsLimit < 1:
		return nil, fmt.Errorf("%w: max_results_limit must be at least 1", ErrInvalidConfig)
	case cfg.SentimentWorkers < 1:
		return nil, fmt.Errorf("%w: sentiment_workers must be at least 1", ErrInvalidConfig)
	}
	switch cfg.SentimentBackend {
	case "lexicon", "openai":
	default:
		return nil, fmt.Errorf("%w: unknown sentiment_backend %q", ErrInvalidConfig, cfg.SentimentBackend)
	}
	return &cfg, nil
}
