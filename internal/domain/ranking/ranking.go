// Package ranking computes the composite popularity/quality score and orders
// canonical shops by it.
package ranking

import (
	"context"
	"math"
	"sort"

	"github.com/okian/brewrank/internal/domain/model"
)

// Fixed scoring constants. The weights sum to 1, which keeps the composite
// score inside [0, 1]; they are deliberately not configurable per-call.
const (
	weightStars     = 0.6
	weightVolume    = 0.3
	weightSentiment = 0.1

	// epsilon avoids division by zero when every value in a column is equal.
	epsilon = 1e-9

	// neutralFill stands in for nulls and for columns too sparse to scale.
	neutralFill = 0.5
)

// Rank joins sentiment into the canonical set, derives the aggregate metrics,
// normalizes each independently, and returns shops ordered by descending
// composite score. Ties keep input order. An empty canonical set returns an
// empty sequence; the caller should log a warning.
func Rank(ctx context.Context, shops []model.CanonicalShop, scores []model.SentimentScore) []model.RankedShop {
	_ = ctx // pure in-memory transform

	if len(shops) == 0 {
		return []model.RankedShop{}
	}

	compoundByYelpID := make(map[string]float64, len(scores))
	for _, s := range scores {
		if s.YelpID == "" {
			continue
		}
		if _, dup := compoundByYelpID[s.YelpID]; !dup {
			compoundByYelpID[s.YelpID] = s.Compound
		}
	}

	ranked := make([]model.RankedShop, len(shops))
	for i, shop := range shops {
		r := model.RankedShop{CanonicalShop: shop}
		r.Stars = meanNonNull(shop.RatingGoogle, shop.RatingYelp)
		r.Volume = maxNonNull(intAsFloat(shop.UserRatingsTotal), intAsFloat(shop.ReviewCount))
		if shop.YelpID != "" {
			if compound, ok := compoundByYelpID[shop.YelpID]; ok {
				r.Sentiment = model.Float(compound)
			}
		}
		ranked[i] = r
	}

	normStars := normalizeColumn(ranked, func(r model.RankedShop) *float64 { return r.Stars })
	normVolume := normalizeColumn(ranked, func(r model.RankedShop) *float64 { return r.Volume })
	normSentiment := normalizeColumn(ranked, func(r model.RankedShop) *float64 { return r.Sentiment })

	for i := range ranked {
		ranked[i].Score = weightStars*normStars[i] +
			weightVolume*normVolume[i] +
			weightSentiment*normSentiment[i]
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// normalizeColumn min-max scales one derived column to [0, 1] using
// (x - min) / (max - min + epsilon). Nulls become the neutral fill without
// affecting the min/max of real values; a column with fewer than two non-null
// values is entirely neutral because scaling is meaningless there.
func normalizeColumn(rows []model.RankedShop, get func(model.RankedShop) *float64) []float64 {
	out := make([]float64, len(rows))

	lo := math.Inf(1)
	hi := math.Inf(-1)
	nonNull := 0
	for _, r := range rows {
		v := get(r)
		if v == nil {
			continue
		}
		nonNull++
		lo = math.Min(lo, *v)
		hi = math.Max(hi, *v)
	}

	if nonNull <= 1 {
		for i := range out {
			out[i] = neutralFill
		}
		return out
	}

	span := hi - lo + epsilon
	for i, r := range rows {
		v := get(r)
		if v == nil {
			out[i] = neutralFill
			continue
		}
		out[i] = (*v - lo) / span
	}
	return out
}

// meanNonNull averages the non-null values; both null yields null, not zero.
func meanNonNull(vals ...*float64) *float64 {
	sum := 0.0
	n := 0
	for _, v := range vals {
		if v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return nil
	}
	return model.Float(sum / float64(n))
}

// maxNonNull takes the maximum of the non-null values; both null yields null.
func maxNonNull(vals ...*float64) *float64 {
	var best *float64
	for _, v := range vals {
		if v == nil {
			continue
		}
		if best == nil || *v > *best {
			best = model.Float(*v)
		}
	}
	return best
}

func intAsFloat(v *int) *float64 {
	if v == nil {
		return nil
	}
	return model.Float(float64(*v))
}
