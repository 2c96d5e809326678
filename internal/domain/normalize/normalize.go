// Package normalize derives the join key used to decide whether two raw
// listings refer to the same shop.
package normalize

import (
	"fmt"
	"math"
	"strings"

	"github.com/okian/brewrank/internal/domain/model"
)

// coordPrecision is the rounding precision for coordinates: 3 decimal places,
// roughly 111m north-south at the equator. An accepted matching heuristic;
// two different shops within that box with identical normalized names will
// collide.
const coordPrecision = 1000

// Key is the derived matching key. Two listings are considered the same shop
// iff their Keys are equal.
type Key struct {
	NormName string
	LatR     float64
	LngR     float64
}

// KeyFor computes the Key for a raw listing.
// Listings without a name or without both coordinates cannot be keyed and
// return ErrUnkeyable; callers must count them, not silently drop them.
func KeyFor(l model.RawListing) (Key, error) {
	name := NormName(l.Name)
	if name == "" {
		return Key{}, fmt.Errorf("%w: listing %q has no usable name", ErrUnkeyable, l.ExternalID)
	}
	if l.Lat == nil || l.Lng == nil {
		return Key{}, fmt.Errorf("%w: listing %q has no coordinates", ErrUnkeyable, l.ExternalID)
	}
	return Key{
		NormName: name,
		LatR:     RoundCoord(*l.Lat),
		LngR:     RoundCoord(*l.Lng),
	}, nil
}

// NormName lower-cases the name and collapses every run of characters outside
// [a-z0-9] to a single space, trimming the ends.
func NormName(name string) string {
	lower := strings.ToLower(name)
	var b strings.Builder
	b.Grow(len(lower))
	pendingSpace := false
	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			continue
		}
		pendingSpace = true
	}
	return b.String()
}

// RoundCoord rounds a coordinate half-to-even at 3 decimal places.
func RoundCoord(v float64) float64 {
	return math.RoundToEven(v*coordPrecision) / coordPrecision
}
