// Package merge reconciles the two provider listing sets into one canonical
// record per physical shop.
//
// The join is an explicit full outer equi-join on the normalized key: every
// key present in either side appears exactly once in the output, paired with
// whichever side(s) matched. Field conflicts resolve first-non-null-wins with
// Google precedence. A final pass deduplicates by the canonical
// (name, lat, lng) triple, guarding against distinct keys that rounded onto
// the same canonical triple.
package merge

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/okian/brewrank/internal/domain/model"
	"github.com/okian/brewrank/internal/domain/normalize"
)

// Report carries the operator-visibility counts for one merge. Nothing here
// is fatal; unkeyable listings are excluded from matching but always counted.
type Report struct {
	GoogleListings  int
	YelpListings    int
	UnkeyableGoogle int
	UnkeyableYelp   int

	MatchedBoth int
	GoogleOnly  int
	YelpOnly    int

	// CollisionsDropped counts rows removed by the canonical triple dedupe.
	CollisionsDropped int

	// YelpFallback is set when the Yelp side was empty or entirely
	// unkeyable and the output is the Google side alone. This is the
	// empty-collaborator case, not an error.
	YelpFallback bool
}

// pair is the tagged union produced by the outer join: Google-only, Yelp-only,
// or both sides matched on the same key.
type pair struct {
	google *model.RawListing
	yelp   *model.RawListing
}

// keyed is a listing that produced a usable normalized key.
type keyed struct {
	key     normalize.Key
	listing *model.RawListing
}

// Merge outer-joins the Google and Yelp listing sets on the normalized key
// and emits one CanonicalShop per real-world shop. Either side may be empty.
// The output order is deterministic: Google input order first, then
// Yelp-only keys in input order. Running Merge twice on the same inputs
// yields the same set.
func Merge(ctx context.Context, google, yelp []model.RawListing) ([]model.CanonicalShop, Report) {
	_ = ctx // the merge is a pure in-memory transform

	report := Report{
		GoogleListings: len(google),
		YelpListings:   len(yelp),
	}

	gKeyed, gUnkeyable := keyListings(google)
	yKeyed, yUnkeyable := keyListings(yelp)
	report.UnkeyableGoogle = gUnkeyable
	report.UnkeyableYelp = yUnkeyable

	// Degenerate case: nothing usable on the Yelp side. Fall back to the
	// Google listings mapped 1:1 with all Yelp-only fields null. Unkeyable
	// Google rows are retained here; no matching takes place.
	if len(yKeyed) == 0 {
		report.YelpFallback = true
		shops := make([]model.CanonicalShop, 0, len(google))
		for i := range google {
			shops = append(shops, resolve(pair{google: &google[i]}))
		}
		report.GoogleOnly = len(shops)
		shops, dropped := dedupeTriple(shops)
		report.CollisionsDropped = dropped
		return shops, report
	}

	yByKey := make(map[normalize.Key]*model.RawListing, len(yKeyed))
	for _, k := range yKeyed {
		if _, exists := yByKey[k.key]; !exists {
			yByKey[k.key] = k.listing
		}
	}

	seenGoogle := make(map[normalize.Key]struct{}, len(gKeyed))
	consumedYelp := make(map[normalize.Key]struct{}, len(yKeyed))
	shops := make([]model.CanonicalShop, 0, len(gKeyed)+len(yKeyed))

	for _, k := range gKeyed {
		if _, dup := seenGoogle[k.key]; dup {
			continue
		}
		seenGoogle[k.key] = struct{}{}

		p := pair{google: k.listing}
		if y, ok := yByKey[k.key]; ok {
			p.yelp = y
			consumedYelp[k.key] = struct{}{}
			report.MatchedBoth++
		} else {
			report.GoogleOnly++
		}
		shops = append(shops, resolve(p))
	}

	for _, k := range yKeyed {
		if _, done := consumedYelp[k.key]; done {
			continue
		}
		consumedYelp[k.key] = struct{}{}
		report.YelpOnly++
		shops = append(shops, resolve(pair{yelp: k.listing}))
	}

	shops, dropped := dedupeTriple(shops)
	report.CollisionsDropped = dropped
	return shops, report
}

// keyListings derives keys in input order, counting listings that cannot be
// keyed instead of dropping them silently.
func keyListings(listings []model.RawListing) ([]keyed, int) {
	out := make([]keyed, 0, len(listings))
	unkeyable := 0
	for i := range listings {
		key, err := normalize.KeyFor(listings[i])
		if errors.Is(err, normalize.ErrUnkeyable) {
			unkeyable++
			continue
		}
		out = append(out, keyed{key: key, listing: &listings[i]})
	}
	return out, unkeyable
}

// resolve applies the precedence rule to one joined pair: canonical fields
// take Google's value when present, else Yelp's; per-source metrics and ids
// are carried independently.
func resolve(p pair) model.CanonicalShop {
	var shop model.CanonicalShop

	if g := p.google; g != nil {
		shop.CanonicalName = g.Name
		shop.CanonicalLat = g.Lat
		shop.CanonicalLng = g.Lng
		shop.Address = g.Address
		shop.RatingGoogle = g.Rating
		shop.UserRatingsTotal = g.RatingCount
		shop.PlaceID = g.ExternalID
	}
	if y := p.yelp; y != nil {
		if shop.CanonicalName == "" {
			shop.CanonicalName = y.Name
		}
		if shop.CanonicalLat == nil {
			shop.CanonicalLat = y.Lat
		}
		if shop.CanonicalLng == nil {
			shop.CanonicalLng = y.Lng
		}
		if shop.Address == "" {
			shop.Address = y.Address
		}
		shop.RatingYelp = y.Rating
		shop.ReviewCount = y.RatingCount
		shop.YelpID = y.ExternalID
		shop.URL = y.URL
	}
	return shop
}

// dedupeTriple removes rows sharing a (name, lat, lng) triple, keeping the
// first occurrence, and returns the number of rows dropped.
func dedupeTriple(shops []model.CanonicalShop) ([]model.CanonicalShop, int) {
	seen := make(map[string]struct{}, len(shops))
	out := shops[:0]
	dropped := 0
	for _, s := range shops {
		k := tripleKey(s)
		if _, dup := seen[k]; dup {
			dropped++
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	return out, dropped
}

// tripleKey builds the dedupe key; nil coordinates compare equal to each
// other but never to a real value.
func tripleKey(s model.CanonicalShop) string {
	var b strings.Builder
	b.WriteString(s.CanonicalName)
	b.WriteByte('|')
	b.WriteString(coordToken(s.CanonicalLat))
	b.WriteByte('|')
	b.WriteString(coordToken(s.CanonicalLng))
	return b.String()
}

func coordToken(v *float64) string {
	if v == nil {
		return "null"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
