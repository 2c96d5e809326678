// Package app wires the domain stages into the end-to-end ranking pipeline:
// load raw listings, reconcile to canonical shops, score review sentiment,
// and compute the final ranking, persisting each derived artifact.
package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/okian/brewrank/internal/adapters/storage/csvstore"
	"github.com/okian/brewrank/internal/domain/merge"
	"github.com/okian/brewrank/internal/domain/model"
	"github.com/okian/brewrank/internal/domain/ranking"
	"github.com/okian/brewrank/internal/domain/review"
	"github.com/okian/brewrank/internal/domain/sentiment"
	"github.com/okian/brewrank/pkg/logger"
	"github.com/okian/brewrank/pkg/metrics"
)

// RankSink receives the full ranked set after each run. The PostgreSQL
// writer implements it; the sink is optional.
type RankSink interface {
	Replace(ctx context.Context, ranked []model.RankedShop) error
}

// preloader is implemented by scorers with upfront setup, such as the
// lexicon scorer's one-time parse. Setup failures surface before any
// bundle is scored.
type preloader interface {
	EnsureLoaded(ctx context.Context) error
}

// Stats summarizes one pipeline run.
type Stats struct {
	RunID             string        `json:"run_id"`
	GoogleListings    int           `json:"google_listings"`
	YelpListings      int           `json:"yelp_listings"`
	UnkeyableGoogle   int           `json:"unkeyable_google"`
	UnkeyableYelp     int           `json:"unkeyable_yelp"`
	CanonicalShops    int           `json:"canonical_shops"`
	CollisionsDropped int           `json:"collisions_dropped"`
	YelpFallback      bool          `json:"yelp_fallback"`
	ReviewBundles     int           `json:"review_bundles"`
	ScoredBundles     int           `json:"scored_bundles"`
	SentimentFailures int           `json:"sentiment_failures"`
	RankedShops       int           `json:"ranked_shops"`
	Duration          time.Duration `json:"duration_ns"`
}

// Pipeline runs the full analyze pass over the raw data directory.
type Pipeline struct {
	dataDir      string
	scorer       sentiment.Scorer
	scoreWorkers int
	sink         RankSink
	log          logger.Logger
}

// Option applies a configuration option to the Pipeline.
type Option func(*Pipeline)

// WithDataDir sets the root data directory holding raw/ and interim/.
func WithDataDir(dir string) Option {
	return func(p *Pipeline) {
		if dir != "" {
			p.dataDir = dir
		}
	}
}

// WithScorer sets the sentiment scorer.
func WithScorer(s sentiment.Scorer) Option {
	return func(p *Pipeline) {
		if s != nil {
			p.scorer = s
		}
	}
}

// WithScoreWorkers sets the sentiment scoring concurrency. Anything below 2
// keeps the sequential path.
func WithScoreWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.scoreWorkers = n
		}
	}
}

// WithSink sets an optional downstream sink for the ranked set.
func WithSink(sink RankSink) Option {
	return func(p *Pipeline) {
		p.sink = sink
	}
}

// WithLogger sets a custom logger for the pipeline.
func WithLogger(log logger.Logger) Option {
	return func(p *Pipeline) {
		if log != nil {
			p.log = log
		}
	}
}

// New constructs a Pipeline with default configuration.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		dataDir:      "data",
		scorer:       sentiment.NewLexiconScorer(),
		scoreWorkers: 1,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = logger.Named("pipeline")
	}
	return p
}

// Run executes one full pipeline pass. A missing raw source degrades to an
// empty listing set for that provider; all other stage failures abort the run.
func (p *Pipeline) Run(ctx context.Context) (Stats, error) {
	start := time.Now()
	stats := Stats{RunID: uuid.New().String()}
	metrics.RecordPipelineRun()

	p.log.Info(ctx, "pipeline run starting", logger.String("runID", stats.RunID))

	google, err := p.loadRaw(ctx, model.ProviderGoogle, csvstore.LoadGoogle, csvstore.GoogleRawFile)
	if err != nil {
		return stats, err
	}
	yelp, err := p.loadRaw(ctx, model.ProviderYelp, csvstore.LoadYelp, csvstore.YelpRawFile)
	if err != nil {
		return stats, err
	}
	metrics.UpdateListingsLoaded(model.ProviderGoogle, len(google))
	metrics.UpdateListingsLoaded(model.ProviderYelp, len(yelp))

	shops, report := merge.Merge(ctx, google, yelp)
	stats.GoogleListings = report.GoogleListings
	stats.YelpListings = report.YelpListings
	stats.UnkeyableGoogle = report.UnkeyableGoogle
	stats.UnkeyableYelp = report.UnkeyableYelp
	stats.CanonicalShops = len(shops)
	stats.CollisionsDropped = report.CollisionsDropped
	stats.YelpFallback = report.YelpFallback
	metrics.UpdateUnkeyableRecords(model.ProviderGoogle, report.UnkeyableGoogle)
	metrics.UpdateUnkeyableRecords(model.ProviderYelp, report.UnkeyableYelp)
	metrics.UpdateCanonicalShops(len(shops))
	metrics.UpdateMergeCollisions(report.CollisionsDropped)

	if len(shops) == 0 {
		p.log.Warn(ctx, "no canonical shops; downstream artifacts will be empty")
	}
	if report.YelpFallback {
		p.log.Warn(ctx, "yelp side empty or unkeyable; canonical set is google-only")
	}

	if err := csvstore.WriteCanonical(p.interimPath(csvstore.CanonicalFile), shops); err != nil {
		return stats, fmt.Errorf("pipeline: write canonical: %w", err)
	}

	bundles := review.Bundles(yelp)
	stats.ReviewBundles = len(bundles)
	metrics.UpdateReviewBundles(len(bundles))
	if len(bundles) == 0 {
		p.log.Info(ctx, "no review text available; sentiment contributes its neutral fill")
	}

	if pre, ok := p.scorer.(preloader); ok {
		if err := pre.EnsureLoaded(ctx); err != nil {
			return stats, fmt.Errorf("pipeline: scorer setup: %w", err)
		}
	}
	scores, failures := sentiment.ScoreBundlesParallel(ctx, p.scorer, bundles, p.scoreWorkers)
	stats.ScoredBundles = len(scores)
	stats.SentimentFailures = failures
	if failures > 0 {
		p.log.Warn(ctx, "some review bundles failed sentiment scoring",
			logger.Int("failures", failures))
	}

	if err := csvstore.WriteScoredReviews(p.interimPath(csvstore.ScoredReviewsFile), bundles, scores); err != nil {
		return stats, fmt.Errorf("pipeline: write scored reviews: %w", err)
	}

	ranked := ranking.Rank(ctx, shops, scores)
	stats.RankedShops = len(ranked)
	metrics.UpdateRankedShops(len(ranked))

	if err := csvstore.WriteRanked(p.interimPath(csvstore.RankedFile), ranked); err != nil {
		return stats, fmt.Errorf("pipeline: write ranked: %w", err)
	}

	if p.sink != nil {
		if err := p.sink.Replace(ctx, ranked); err != nil {
			return stats, fmt.Errorf("pipeline: sink replace: %w", err)
		}
	}

	stats.Duration = time.Since(start)
	metrics.RecordPipelineDuration(float64(stats.Duration.Milliseconds()))

	p.log.Info(ctx, "pipeline run complete",
		logger.String("runID", stats.RunID),
		logger.Int("canonicalShops", stats.CanonicalShops),
		logger.Int("reviewBundles", stats.ReviewBundles),
		logger.Int("rankedShops", stats.RankedShops),
		logger.Duration("duration", stats.Duration),
	)
	return stats, nil
}

// loadRaw reads one provider's raw CSV, degrading a missing file to an empty
// set with a warning.
func (p *Pipeline) loadRaw(ctx context.Context, provider string, load func(string) ([]model.RawListing, error), file string) ([]model.RawListing, error) {
	listings, err := load(filepath.Join(p.dataDir, "raw", file))
	if errors.Is(err, csvstore.ErrMissingSource) {
		p.log.Warn(ctx, "raw source missing; continuing with empty set",
			logger.String("provider", provider), logger.Error(err))
		metrics.RecordErrorByComponent("pipeline", "missing_source")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("pipeline: load %s: %w", provider, err)
	}
	return listings, nil
}

func (p *Pipeline) interimPath(file string) string {
	return filepath.Join(p.dataDir, "interim", file)
}
