package csvstore

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/okian/brewrank/internal/domain/model"
)

// WriteGoogle writes raw Google listings for later pipeline runs.
func WriteGoogle(path string, listings []model.RawListing) error {
	header := []string{"provider", "name", "lat", "lng", "rating", "user_ratings_total", "address", "place_id"}
	return write(path, header, len(listings), func(i int) []string {
		l := listings[i]
		return []string{
			l.Provider, l.Name,
			floatCell(l.Lat), floatCell(l.Lng), floatCell(l.Rating), intCell(l.RatingCount),
			l.Address, l.ExternalID,
		}
	})
}

// WriteYelp writes raw Yelp listings including up to 3 review text columns.
func WriteYelp(path string, listings []model.RawListing) error {
	header := []string{"provider", "name", "lat", "lng", "rating", "review_count", "address", "yelp_id", "url"}
	for i := 1; i <= maxYelpReviewFields; i++ {
		header = append(header, fmt.Sprintf("review_%d_text", i))
	}
	return write(path, header, len(listings), func(i int) []string {
		l := listings[i]
		fields := []string{
			l.Provider, l.Name,
			floatCell(l.Lat), floatCell(l.Lng), floatCell(l.Rating), intCell(l.RatingCount),
			l.Address, l.ExternalID, l.URL,
		}
		for j := 0; j < maxYelpReviewFields; j++ {
			if j < len(l.ReviewTexts) {
				fields = append(fields, l.ReviewTexts[j])
			} else {
				fields = append(fields, "")
			}
		}
		return fields
	})
}

// WriteCanonical writes the canonical artifact with its contract header.
func WriteCanonical(path string, shops []model.CanonicalShop) error {
	return write(path, canonicalHeader, len(shops), func(i int) []string {
		return canonicalCells(shops[i])
	})
}

// WriteScoredReviews writes the scored-review artifact.
func WriteScoredReviews(path string, bundles []model.ReviewBundle, scores []model.SentimentScore) error {
	byID := make(map[string]model.SentimentScore, len(scores))
	for _, s := range scores {
		byID[s.YelpID] = s
	}
	rows := make([][]string, 0, len(scores))
	for _, b := range bundles {
		s, ok := byID[b.YelpID]
		if !ok {
			continue
		}
		rows = append(rows, []string{
			b.YelpID, b.ReviewText,
			scoreCell(s.Neg), scoreCell(s.Neu), scoreCell(s.Pos), scoreCell(s.Compound),
		})
	}
	return write(path, scoredReviewsHeader, len(rows), func(i int) []string { return rows[i] })
}

// WriteRanked writes the ranked artifact: canonical columns plus the derived
// stars/volume/sentiment/score, in rank order.
func WriteRanked(path string, ranked []model.RankedShop) error {
	return write(path, rankedHeader, len(ranked), func(i int) []string {
		r := ranked[i]
		cells := canonicalCells(r.CanonicalShop)
		return append(cells,
			floatCell(r.Stars), floatCell(r.Volume), floatCell(r.Sentiment), scoreCell(r.Score))
	})
}

func canonicalCells(s model.CanonicalShop) []string {
	return []string{
		s.CanonicalName, floatCell(s.CanonicalLat), floatCell(s.CanonicalLng), s.Address,
		floatCell(s.RatingGoogle), intCell(s.UserRatingsTotal),
		floatCell(s.RatingYelp), intCell(s.ReviewCount),
		s.PlaceID, s.YelpID, s.URL,
	}
}

// write creates (or truncates) the file, writing header then n rows.
// Intermediate directories are created automatically.
func write(path string, header []string, n int, rowAt func(int) []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for i := 0; i < n; i++ {
		if err := w.Write(rowAt(i)); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("csv: flush %q: %w", path, err)
	}
	return nil
}
