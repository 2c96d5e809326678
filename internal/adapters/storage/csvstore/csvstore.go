// Package csvstore reads and writes the pipeline's tabular artifacts.
//
// All files are UTF-8, comma-separated, with a header row. Column names are
// contract: the derived artifacts keep the exact schemas the dashboard and
// downstream consumers rely on. Numeric fields that fail to parse load as
// null, never as an error.
package csvstore

import (
	"strconv"
	"strings"
)

// Artifact file names under the raw and interim directories.
const (
	GoogleRawFile     = "google_places_coffee.csv"
	YelpRawFile       = "yelp_coffee.csv"
	CanonicalFile     = "canonical.csv"
	ScoredReviewsFile = "reviews_scored.csv"
	RankedFile        = "ranked_shops.csv"
)

// Header contracts for the derived artifacts.
var (
	canonicalHeader = []string{
		"canonical_name", "canonical_lat", "canonical_lng", "address",
		"rating_google", "user_ratings_total", "rating_yelp", "review_count",
		"place_id", "yelp_id", "url",
	}
	scoredReviewsHeader = []string{"yelp_id", "review_text", "neg", "neu", "pos", "compound"}
	rankedHeader        = append(append([]string{}, canonicalHeader...), "stars", "volume", "sentiment", "score")
)

// row provides header-keyed access to one CSV record.
type row struct {
	index  map[string]int
	fields []string
}

func (r row) text(col string) string {
	i, ok := r.index[col]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

// floatPtr parses a nullable float; blanks and unparseable values are null.
func (r row) floatPtr(col string) *float64 {
	s := r.text(col)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// intPtr parses a nullable integer, accepting float renderings like "120.0".
func (r row) intPtr(col string) *int {
	s := r.text(col)
	if s == "" {
		return nil
	}
	if v, err := strconv.Atoi(s); err == nil {
		return &v
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	v := int(f)
	return &v
}

// formatting helpers for nullable fields; null renders as the empty cell.

func floatCell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func intCell(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func scoreCell(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
