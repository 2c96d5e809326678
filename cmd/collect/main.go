// Command collect fetches raw coffee-shop listings from the configured
// providers and writes them to the raw data directory for later analysis.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/okian/brewrank/internal/adapters/providers"
	"github.com/okian/brewrank/internal/adapters/storage/csvstore"
	"github.com/okian/brewrank/internal/config"
	"github.com/okian/brewrank/internal/domain/model"
	"github.com/okian/brewrank/pkg/logger"
)

func main() {
	// Local development keys live in .env; absence is fine.
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Named("collect")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if cfg.HasProvider(model.ProviderGoogle) {
		collectGoogle(ctx, cfg, log)
	}
	if cfg.HasProvider(model.ProviderYelp) {
		collectYelp(ctx, cfg, log)
	}

	log.Info(ctx, "collection complete", logger.String("raw_dir", cfg.RawDir()))
}

// collectGoogle fetches and stores Google Places listings. A missing key or
// a fetch failure skips the provider; the analyze pass degrades to whatever
// raw files exist.
func collectGoogle(ctx context.Context, cfg *config.Config, log logger.Logger) {
	g, err := providers.NewGoogle(cfg.GooglePlacesAPIKey)
	if err != nil {
		log.Warn(ctx, "skipping google provider", logger.Error(err))
		return
	}
	listings, err := g.Search(ctx, cfg.SearchRadiusMeters)
	if err != nil {
		log.Error(ctx, "google fetch failed", logger.Error(err))
		return
	}
	path := filepath.Join(cfg.RawDir(), csvstore.GoogleRawFile)
	if err := csvstore.WriteGoogle(path, listings); err != nil {
		log.Error(ctx, "google write failed", logger.Error(err))
		return
	}
	log.Info(ctx, "google listings stored", logger.Int("count", len(listings)), logger.String("path", path))
}

func collectYelp(ctx context.Context, cfg *config.Config, log logger.Logger) {
	y, err := providers.NewYelp(cfg.YelpAPIKey, providers.WithYelpReviews(cfg.IncludeYelpReviews))
	if err != nil {
		log.Warn(ctx, "skipping yelp provider", logger.Error(err))
		return
	}
	listings, err := y.Search(ctx, cfg.SearchLocation, cfg.SearchRadiusMeters)
	if err != nil {
		log.Error(ctx, "yelp fetch failed", logger.Error(err))
		return
	}
	path := filepath.Join(cfg.RawDir(), csvstore.YelpRawFile)
	if err := csvstore.WriteYelp(path, listings); err != nil {
		log.Error(ctx, "yelp write failed", logger.Error(err))
		return
	}
	log.Info(ctx, "yelp listings stored", logger.Int("count", len(listings)), logger.String("path", path))
}
