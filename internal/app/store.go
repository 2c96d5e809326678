package app

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/okian/brewrank/internal/adapters/storage/csvstore"
	"github.com/okian/brewrank/internal/domain/model"
)

// ArtifactStore serves read queries from the derived CSV artifacts. Reads go
// to disk on each call so the dashboard always reflects the latest analyze
// run without a server restart.
type ArtifactStore struct {
	dataDir string
	started time.Time
}

// NewArtifactStore builds a store over the data directory's interim/ artifacts.
func NewArtifactStore(dataDir string) *ArtifactStore {
	return &ArtifactStore{dataDir: dataDir, started: time.Now()}
}

// Rankings returns the full ranked set in rank order.
func (s *ArtifactStore) Rankings(ctx context.Context) ([]model.RankedShop, error) {
	return csvstore.LoadRanked(filepath.Join(s.dataDir, "interim", csvstore.RankedFile))
}

// Shops returns the canonical shop set.
func (s *ArtifactStore) Shops(ctx context.Context) ([]model.CanonicalShop, error) {
	return csvstore.LoadCanonical(filepath.Join(s.dataDir, "interim", csvstore.CanonicalFile))
}

// GetStats returns serving statistics for monitoring.
func (s *ArtifactStore) GetStats() map[string]interface{} {
	stats := map[string]interface{}{
		"data_dir":       s.dataDir,
		"uptime_seconds": int64(time.Since(s.started).Seconds()),
	}

	ctx := context.Background()
	if ranked, err := s.Rankings(ctx); err == nil {
		stats["ranked_shops"] = len(ranked)
	} else if errors.Is(err, csvstore.ErrArtifactMissing) {
		stats["ranked_shops"] = 0
	}
	if shops, err := s.Shops(ctx); err == nil {
		stats["canonical_shops"] = len(shops)
	} else if errors.Is(err, csvstore.ErrArtifactMissing) {
		stats["canonical_shops"] = 0
	}
	return stats
}
