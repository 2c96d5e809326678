package csvstore

import "errors"

// Sentinel kinds for storage errors.
var (
	// ErrMissingSource marks an absent raw provider file. Callers degrade to
	// an empty listing set; this is the empty-collaborator case.
	ErrMissingSource = errors.New("raw source file missing")

	// ErrArtifactMissing marks an absent derived artifact. The dashboard
	// translates it into a run-the-pipeline-first message.
	ErrArtifactMissing = errors.New("derived artifact missing; run brewrank-analyze first")
)
