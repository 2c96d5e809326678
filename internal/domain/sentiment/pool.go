package sentiment

import (
	"context"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/okian/brewrank/internal/domain/model"
	"github.com/okian/brewrank/pkg/logger"
	"github.com/okian/brewrank/pkg/metrics"
)

// job carries one bundle through the pool, keeping its input position so the
// output order stays deterministic regardless of worker interleaving.
type job struct {
	index  int
	bundle model.ReviewBundle
}

// ScoreBundlesParallel scores bundles with a fixed worker pool. Semantics
// match ScoreBundles exactly: failed bundles are skipped and counted, output
// keeps bundle order, and a partial result is never an error. Useful when the
// scorer calls out over the network; workers <= 1 degrades to the sequential
// path.
func ScoreBundlesParallel(ctx context.Context, scorer Scorer, bundles []model.ReviewBundle, workers int) ([]model.SentimentScore, int) {
	if workers <= 1 || len(bundles) < 2 {
		return ScoreBundles(ctx, scorer, bundles)
	}
	if workers > runtime.NumCPU()*4 {
		workers = runtime.NumCPU() * 4
	}
	if workers > len(bundles) {
		workers = len(bundles)
	}

	log := logger.Named("sentiment.pool")

	jobs := make(chan job)
	results := make([]*model.SentimentScore, len(bundles))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			for j := range jobs {
				start := time.Now()
				p, err := scorer.Score(ctx, j.bundle.ReviewText)
				metrics.RecordSentimentLatency(float64(time.Since(start).Milliseconds()))
				if err != nil {
					metrics.RecordSentimentError()
					metrics.RecordErrorByComponent("sentiment", "score_failed")
					log.Warn(ctx, "bundle failed to score",
						logger.String("worker", name),
						logger.String("yelpID", j.bundle.YelpID),
						logger.Error(err),
					)
					continue
				}
				results[j.index] = &model.SentimentScore{
					YelpID:   j.bundle.YelpID,
					Neg:      p.Neg,
					Neu:      p.Neu,
					Pos:      p.Pos,
					Compound: p.Compound,
				}
			}
		}("worker-" + strconv.Itoa(w))
	}

	for i, b := range bundles {
		select {
		case <-ctx.Done():
			// Stop feeding; in-flight jobs drain and unscored bundles
			// count as failures below.
			close(jobs)
			wg.Wait()
			return collect(results)
		case jobs <- job{index: i, bundle: b}:
		}
	}
	close(jobs)
	wg.Wait()

	return collect(results)
}

// collect flattens the per-index results, counting the gaps as failures.
func collect(results []*model.SentimentScore) ([]model.SentimentScore, int) {
	scores := make([]model.SentimentScore, 0, len(results))
	failed := 0
	for _, r := range results {
		if r == nil {
			failed++
			continue
		}
		scores = append(scores, *r)
	}
	return scores, failed
}
