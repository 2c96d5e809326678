// Package config defines pipeline configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load() layers file/env on top.
// - External errors must be wrapped via this package's error sentinels.
package config

import "path/filepath"

// Config contains process configuration shared by the collect, analyze and
// serve binaries. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the dashboard HTTP listen address, e.g. ":8090".
	Addr string `koanf:"addr"`

	// DataDir is the root of the data tree (raw/, interim/, outputs/).
	DataDir string `koanf:"data_dir"`

	// SearchLocation and SearchRadiusMeters drive the provider collectors.
	SearchLocation     string `koanf:"search_location"`
	SearchRadiusMeters int    `koanf:"search_radius_meters"`

	// Providers selects which directory sources the collector queries.
	Providers []string `koanf:"providers"`

	// IncludeYelpReviews fetches up to 3 review texts per Yelp business.
	IncludeYelpReviews bool `koanf:"include_yelp_reviews"`

	// GooglePlacesAPIKey and YelpAPIKey authenticate the collectors. A
	// missing key skips that provider with a warning.
	GooglePlacesAPIKey string `koanf:"google_places_api_key"`
	YelpAPIKey         string `koanf:"yelp_api_key"`

	// SentimentBackend selects the review scorer: "lexicon" or "openai".
	SentimentBackend string `koanf:"sentiment_backend"`

	// OpenAIModel is used when SentimentBackend is "openai".
	OpenAIModel string `koanf:"openai_model"`

	// SentimentWorkers is the scoring concurrency. Values below 2 keep
	// scoring sequential; useful mainly for the network-bound backend.
	SentimentWorkers int `koanf:"sentiment_workers"`

	// PostgresDSN, when set, enables persisting ranked shops to Postgres.
	PostgresDSN string `koanf:"postgres_dsn"`

	// MaxResultsLimit caps GET /rankings?limit and GET /shops?limit.
	MaxResultsLimit int `koanf:"max_results_limit"`

	// MinStars is the default minimum-stars filter applied by the dashboard.
	MinStars float64 `koanf:"min_stars"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":8090",
		DataDir:            "data",
		SearchLocation:     "Tulsa, OK",
		SearchRadiusMeters: 15000,
		Providers:          []string{"google", "yelp"},
		IncludeYelpReviews: true,
		SentimentBackend:   "lexicon",
		OpenAIModel:        "gpt-4o-mini",
		SentimentWorkers:   1,
		MaxResultsLimit:    100,
		MinStars:           4.0,
	}
}

// RawDir returns the directory holding provider CSVs.
func (c *Config) RawDir() string { return filepath.Join(c.DataDir, "raw") }

// InterimDir returns the directory holding derived pipeline artifacts.
func (c *Config) InterimDir() string { return filepath.Join(c.DataDir, "interim") }

// HasProvider reports whether the collector should query the named source.
func (c *Config) HasProvider(name string) bool {
	for _, p := range c.Providers {
		if p == name {
			return true
		}
	}
	return false
}
