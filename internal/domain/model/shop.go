// Package model contains domain records passed between pipeline stages.
//
// All records are immutable after construction. Fields that may be absent in
// either source are pointer-typed; nil means the source did not supply a
// value. Text identity fields (ids, urls, addresses) use the empty string for
// absence, matching their CSV representation.
package model

// Provider names for the two directory sources.
const (
	ProviderGoogle = "google"
	ProviderYelp   = "yelp"
)

// RawListing is one fetched record from a directory provider.
// Created once per fetch and never mutated after ingestion.
type RawListing struct {
	Provider    string   // ProviderGoogle or ProviderYelp
	Name        string   // free text; empty means the listing cannot be keyed
	Lat         *float64 // geographic coordinates, may be absent
	Lng         *float64
	Rating      *float64 // 0-5, may be absent
	RatingCount *int     // user_ratings_total (google) / review_count (yelp)
	ExternalID  string   // place_id (google) / yelp business id
	Address     string
	URL         string   // yelp only
	ReviewTexts []string // up to 3 review texts, yelp only, fixed field order
}

// CanonicalShop is the single deduplicated record for one real-world shop.
// Uniquely keyed by (CanonicalName, CanonicalLat, CanonicalLng).
type CanonicalShop struct {
	CanonicalName string   `json:"canonical_name"`
	CanonicalLat  *float64 `json:"canonical_lat"`
	CanonicalLng  *float64 `json:"canonical_lng"`
	Address       string   `json:"address"`

	// Per-source metrics, independently nullable.
	RatingGoogle     *float64 `json:"rating_google"`
	UserRatingsTotal *int     `json:"user_ratings_total"`
	RatingYelp       *float64 `json:"rating_yelp"`
	ReviewCount      *int     `json:"review_count"`

	// Both external ids are retained for joins to per-source detail.
	PlaceID string `json:"place_id"`
	YelpID  string `json:"yelp_id"`
	URL     string `json:"url"`
}

// ReviewBundle is the concatenated usable review text for one Yelp business.
type ReviewBundle struct {
	YelpID     string
	ReviewText string
}

// SentimentScore is the polarity of one review bundle. Neg/Neu/Pos are a
// probability partition summing to 1; Compound is an independent normalized
// aggregate in [-1, 1].
type SentimentScore struct {
	YelpID   string
	Neg      float64
	Neu      float64
	Pos      float64
	Compound float64
}

// RankedShop is a CanonicalShop augmented with derived ranking fields.
// Recomputed wholesale on every run; ordering by Score descending defines
// the rank.
type RankedShop struct {
	CanonicalShop

	Stars     *float64 `json:"stars"`     // mean of non-null source ratings
	Volume    *float64 `json:"volume"`    // max of non-null source counts
	Sentiment *float64 `json:"sentiment"` // compound sentiment, nil when no reviews matched
	Score     float64  `json:"score"`     // weighted composite, always present
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }
