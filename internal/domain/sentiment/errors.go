package sentiment

import "errors"

// Sentinel kinds for sentiment errors.
var (
	ErrBadLexicon   = errors.New("malformed lexicon")
	ErrModelRefused = errors.New("model returned no usable polarity")
)
