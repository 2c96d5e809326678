package normalize

import "errors"

// Sentinel kinds for key derivation errors.
var (
	// ErrUnkeyable marks a listing missing the name or coordinates required
	// for matching. Such listings are excluded from the join and reported.
	ErrUnkeyable = errors.New("listing cannot be keyed")
)
