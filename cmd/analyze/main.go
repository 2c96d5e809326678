// Command analyze runs the full ranking pipeline over the raw data
// directory: reconcile listings, score review sentiment, compute the
// composite ranking, and persist the derived artifacts.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/okian/brewrank/internal/adapters/storage/postgres"
	"github.com/okian/brewrank/internal/app"
	"github.com/okian/brewrank/internal/config"
	"github.com/okian/brewrank/internal/domain/sentiment"
	"github.com/okian/brewrank/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Named("analyze")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	opts := []app.Option{
		app.WithDataDir(cfg.DataDir),
		app.WithLogger(log),
		app.WithScorer(buildScorer(cfg)),
		app.WithScoreWorkers(cfg.SentimentWorkers),
	}

	if cfg.PostgresDSN != "" {
		sink, err := postgres.NewWriter(cfg.PostgresDSN)
		if err != nil {
			log.Error(ctx, "postgres sink unavailable", logger.Error(err))
			os.Exit(1)
		}
		defer sink.Close()
		opts = append(opts, app.WithSink(sink))
	}

	stats, err := app.New(opts...).Run(ctx)
	if err != nil {
		log.Error(ctx, "pipeline failed", logger.Error(err))
		os.Exit(1)
	}

	log.Info(ctx, "analysis finished",
		logger.String("runID", stats.RunID),
		logger.Int("googleListings", stats.GoogleListings),
		logger.Int("yelpListings", stats.YelpListings),
		logger.Int("canonicalShops", stats.CanonicalShops),
		logger.Int("rankedShops", stats.RankedShops),
	)
}

// buildScorer selects the sentiment backend. The lexicon scorer is the
// offline default; the model scorer calls out to OpenAI.
func buildScorer(cfg *config.Config) sentiment.Scorer {
	if cfg.SentimentBackend == "openai" {
		return sentiment.NewModelScorer(os.Getenv("OPENAI_API_KEY"), cfg.OpenAIModel)
	}
	return sentiment.NewLexiconScorer()
}
