// Package review flattens per-listing review text fields into one text blob
// per Yelp business.
package review

import (
	"strings"

	"github.com/okian/brewrank/internal/domain/model"
)

// Bundles scans each Yelp listing's review text fields in fixed index order,
// keeps the ones that are non-blank after trimming, and joins them with a
// single space. Listings with zero usable texts produce no bundle; empty
// bundles are never emitted.
func Bundles(yelp []model.RawListing) []model.ReviewBundle {
	bundles := make([]model.ReviewBundle, 0, len(yelp))
	for _, l := range yelp {
		if l.ExternalID == "" {
			continue
		}
		texts := make([]string, 0, len(l.ReviewTexts))
		for _, t := range l.ReviewTexts {
			t = strings.TrimSpace(t)
			if t != "" {
				texts = append(texts, t)
			}
		}
		if len(texts) == 0 {
			continue
		}
		bundles = append(bundles, model.ReviewBundle{
			YelpID:     l.ExternalID,
			ReviewText: strings.Join(texts, " "),
		})
	}
	return bundles
}
