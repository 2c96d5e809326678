// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/brewrank/internal/adapters/storage/csvstore"
	"github.com/okian/brewrank/internal/domain/model"
)

// ShopsDependencies defines the interface for canonical shop queries.
type ShopsDependencies interface {
	Shops(ctx context.Context) ([]model.CanonicalShop, error)
}

// ShopsHandler handles canonical-shop requests.
type ShopsHandler struct {
	deps ShopsDependencies
}

// NewShopsHandler creates a new shops handler.
func NewShopsHandler(deps ShopsDependencies) *ShopsHandler {
	return &ShopsHandler{deps: deps}
}

// HandleGetShops handles GET /shops requests.
func (h *ShopsHandler) HandleGetShops(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	shops, err := h.deps.Shops(r.Context())
	if errors.Is(err, csvstore.ErrArtifactMissing) {
		writeError(w, http.StatusServiceUnavailable, "not_ready", err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, shops)
}
