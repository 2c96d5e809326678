package providers

import "errors"

// Sentinel kinds for provider errors.
var (
	// ErrMissingAPIKey marks a collector configured without credentials.
	ErrMissingAPIKey = errors.New("provider api key missing")

	// ErrBadStatus marks a non-success HTTP or provider status.
	ErrBadStatus = errors.New("provider returned bad status")
)
