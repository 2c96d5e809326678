package csvstore

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/okian/brewrank/internal/domain/model"
)

// maxYelpReviewFields mirrors the collector's cap of 3 review texts per business.
const maxYelpReviewFields = 3

// LoadGoogle reads the raw Google Places CSV. A missing file returns an empty
// set wrapped with ErrMissingSource so callers can degrade instead of fail.
func LoadGoogle(path string) ([]model.RawListing, error) {
	rows, err := readTable(path)
	if err != nil {
		return nil, err
	}
	listings := make([]model.RawListing, 0, len(rows))
	for _, r := range rows {
		listings = append(listings, model.RawListing{
			Provider:    model.ProviderGoogle,
			Name:        r.text("name"),
			Lat:         r.floatPtr("lat"),
			Lng:         r.floatPtr("lng"),
			Rating:      r.floatPtr("rating"),
			RatingCount: r.intPtr("user_ratings_total"),
			ExternalID:  r.text("place_id"),
			Address:     r.text("address"),
		})
	}
	return listings, nil
}

// LoadYelp reads the raw Yelp CSV, mapping review_{1..3}_text columns into
// ReviewTexts in fixed index order.
func LoadYelp(path string) ([]model.RawListing, error) {
	rows, err := readTable(path)
	if err != nil {
		return nil, err
	}
	listings := make([]model.RawListing, 0, len(rows))
	for _, r := range rows {
		var texts []string
		for i := 1; i <= maxYelpReviewFields; i++ {
			if t := r.text(fmt.Sprintf("review_%d_text", i)); t != "" {
				texts = append(texts, t)
			}
		}
		listings = append(listings, model.RawListing{
			Provider:    model.ProviderYelp,
			Name:        r.text("name"),
			Lat:         r.floatPtr("lat"),
			Lng:         r.floatPtr("lng"),
			Rating:      r.floatPtr("rating"),
			RatingCount: r.intPtr("review_count"),
			ExternalID:  r.text("yelp_id"),
			Address:     r.text("address"),
			URL:         r.text("url"),
			ReviewTexts: texts,
		})
	}
	return listings, nil
}

// LoadCanonical reads the canonical artifact for the dashboard.
func LoadCanonical(path string) ([]model.CanonicalShop, error) {
	rows, err := readArtifact(path)
	if err != nil {
		return nil, err
	}
	shops := make([]model.CanonicalShop, 0, len(rows))
	for _, r := range rows {
		shops = append(shops, canonicalFromRow(r))
	}
	return shops, nil
}

// LoadRanked reads the ranked artifact for the dashboard. Rows keep file
// order, which is the rank order.
func LoadRanked(path string) ([]model.RankedShop, error) {
	rows, err := readArtifact(path)
	if err != nil {
		return nil, err
	}
	ranked := make([]model.RankedShop, 0, len(rows))
	for _, r := range rows {
		shop := model.RankedShop{
			CanonicalShop: canonicalFromRow(r),
			Stars:         r.floatPtr("stars"),
			Volume:        r.floatPtr("volume"),
			Sentiment:     r.floatPtr("sentiment"),
		}
		if score := r.floatPtr("score"); score != nil {
			shop.Score = *score
		}
		ranked = append(ranked, shop)
	}
	return ranked, nil
}

func canonicalFromRow(r row) model.CanonicalShop {
	return model.CanonicalShop{
		CanonicalName:    r.text("canonical_name"),
		CanonicalLat:     r.floatPtr("canonical_lat"),
		CanonicalLng:     r.floatPtr("canonical_lng"),
		Address:          r.text("address"),
		RatingGoogle:     r.floatPtr("rating_google"),
		UserRatingsTotal: r.intPtr("user_ratings_total"),
		RatingYelp:       r.floatPtr("rating_yelp"),
		ReviewCount:      r.intPtr("review_count"),
		PlaceID:          r.text("place_id"),
		YelpID:           r.text("yelp_id"),
		URL:              r.text("url"),
	}
}

// readTable loads a raw provider file; absence is the degrade case.
func readTable(path string) ([]row, error) {
	rows, err := read(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrMissingSource, path)
	}
	return rows, err
}

// readArtifact loads a derived file; absence means the pipeline has not run.
func readArtifact(path string) ([]row, error) {
	rows, err := read(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrArtifactMissing, path)
	}
	return rows, err
}

func read(path string) ([]row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: read %q: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	index := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}

	rows := make([]row, 0, len(records)-1)
	for _, fields := range records[1:] {
		rows = append(rows, row{index: index, fields: fields})
	}
	return rows, nil
}
