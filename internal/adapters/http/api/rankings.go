// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/brewrank/internal/adapters/storage/csvstore"
	"github.com/okian/brewrank/internal/domain/model"
)

// RankingsDependencies defines the interface for ranking queries.
type RankingsDependencies interface {
	Rankings(ctx context.Context) ([]model.RankedShop, error)
}

// RankingsHandler handles ranked-shop requests.
type RankingsHandler struct {
	deps     RankingsDependencies
	maxLimit int
}

// NewRankingsHandler creates a new rankings handler.
func NewRankingsHandler(deps RankingsDependencies, maxLimit int) *RankingsHandler {
	return &RankingsHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetRankings handles GET /rankings?limit=N&min_stars=F requests.
// Rows come back in rank order; min_stars filters on the raw star average
// before the limit is applied.
func (h *RankingsHandler) HandleGetRankings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	limit := h.maxLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: limit must be a positive integer", ErrBadRequest))
			return
		}
		if n < limit {
			limit = n
		}
	}

	var minStars *float64
	if v := r.URL.Query().Get("min_stars"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: min_stars must be a number", ErrBadRequest))
			return
		}
		minStars = &f
	}

	ranked, err := h.deps.Rankings(r.Context())
	if errors.Is(err, csvstore.ErrArtifactMissing) {
		writeError(w, http.StatusServiceUnavailable, "not_ready", err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	out := make([]model.RankedShop, 0, limit)
	for _, shop := range ranked {
		if minStars != nil && (shop.Stars == nil || *shop.Stars < *minStars) {
			continue
		}
		out = append(out, shop)
		if len(out) == limit {
			break
		}
	}
	writeJSON(w, http.StatusOK, out)
}
