// Package sentiment defines the contract for scoring review text polarity.
package sentiment

import (
	"context"
	"time"

	"github.com/okian/brewrank/internal/domain/model"
	"github.com/okian/brewrank/pkg/metrics"
)

// Polarity is the fixed-shape result of scoring one text blob. Neg/Neu/Pos
// form a probability partition summing to 1; Compound is an independent
// normalized aggregate in [-1, 1].
type Polarity struct {
	Neg      float64
	Neu      float64
	Pos      float64
	Compound float64
}

// Neutral is the polarity of text with no scored content.
func Neutral() Polarity {
	return Polarity{Neu: 1}
}

// Scorer maps a text blob to a Polarity. Implementations must be pure (same
// text yields the same score) and must tolerate arbitrary Unicode including
// the empty string.
type Scorer interface {
	Score(ctx context.Context, text string) (Polarity, error)
}

// ScoreBundles scores every review bundle with the given scorer. Bundles that
// fail to score are skipped and counted; a partial result is never an error.
func ScoreBundles(ctx context.Context, scorer Scorer, bundles []model.ReviewBundle) ([]model.SentimentScore, int) {
	scores := make([]model.SentimentScore, 0, len(bundles))
	failed := 0
	for _, b := range bundles {
		start := time.Now()
		p, err := scorer.Score(ctx, b.ReviewText)
		metrics.RecordSentimentLatency(float64(time.Since(start).Milliseconds()))
		if err != nil {
			failed++
			metrics.RecordSentimentError()
			metrics.RecordErrorByComponent("sentiment", "score_failed")
			continue
		}
		scores = append(scores, model.SentimentScore{
			YelpID:   b.YelpID,
			Neg:      p.Neg,
			Neu:      p.Neu,
			Pos:      p.Pos,
			Compound: p.Compound,
		})
	}
	return scores, failed
}
