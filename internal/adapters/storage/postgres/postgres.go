// Package postgres persists ranked shops to PostgreSQL. The sink is optional;
// it is wired only when a DSN is configured.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/okian/brewrank/internal/domain/model"
)

const (
	pingAttempts = 10
	pingDelay    = 2 * time.Second
	batchSize    = 50
	columnCount  = 16
)

// Writer persists ranked shops to PostgreSQL.
type Writer struct {
	db *sql.DB
}

// NewWriter opens a connection, waits for the server to become reachable,
// runs schema migration, and returns a ready-to-use Writer.
func NewWriter(dsn string) (*Writer, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < pingAttempts; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(pingDelay)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	w := &Writer{db: db}
	if err := w.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return w, nil
}

func (w *Writer) migrate() error {
	_, err := w.db.Exec(`
		CREATE TABLE IF NOT EXISTS ranked_shops (
			id                 SERIAL PRIMARY KEY,
			rank               INT              NOT NULL,
			canonical_name     TEXT             NOT NULL,
			canonical_lat      DOUBLE PRECISION,
			canonical_lng      DOUBLE PRECISION,
			address            TEXT             NOT NULL DEFAULT '',
			rating_google      NUMERIC(4,2),
			user_ratings_total INT,
			rating_yelp        NUMERIC(4,2),
			review_count       INT,
			place_id           TEXT             NOT NULL DEFAULT '',
			yelp_id            TEXT             NOT NULL DEFAULT '',
			url                TEXT             NOT NULL DEFAULT '',
			stars              DOUBLE PRECISION,
			volume             DOUBLE PRECISION,
			sentiment          DOUBLE PRECISION,
			score              DOUBLE PRECISION NOT NULL,
			created_at         TIMESTAMPTZ      NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_ranked_shops_rank  ON ranked_shops(rank);
		CREATE INDEX IF NOT EXISTS idx_ranked_shops_score ON ranked_shops(score);
	`)
	return err
}

// Replace clears the table and batch-inserts the full ranked set. Ranked rows
// are recomputed wholesale each run, so the table always mirrors the last run.
func (w *Writer) Replace(ctx context.Context, ranked []model.RankedShop) error {
	if _, err := w.db.ExecContext(ctx, "DELETE FROM ranked_shops"); err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	for i := 0; i < len(ranked); i += batchSize {
		end := i + batchSize
		if end > len(ranked) {
			end = len(ranked)
		}
		if err := w.insertBatch(ctx, i, ranked[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) insertBatch(ctx context.Context, offset int, batch []model.RankedShop) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*columnCount)

	for idx, r := range batch {
		base := idx * columnCount
		placeholders := make([]string, columnCount)
		for c := 0; c < columnCount; c++ {
			placeholders[c] = fmt.Sprintf("$%d", base+c+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			offset+idx+1, r.CanonicalName,
			nullFloat(r.CanonicalLat), nullFloat(r.CanonicalLng), r.Address,
			nullFloat(r.RatingGoogle), nullInt(r.UserRatingsTotal),
			nullFloat(r.RatingYelp), nullInt(r.ReviewCount),
			r.PlaceID, r.YelpID, r.URL,
			nullFloat(r.Stars), nullFloat(r.Volume), nullFloat(r.Sentiment), r.Score,
		)
	}

	query := fmt.Sprintf(`
		INSERT INTO ranked_shops (
			rank, canonical_name, canonical_lat, canonical_lng, address,
			rating_google, user_ratings_total, rating_yelp, review_count,
			place_id, yelp_id, url, stars, volume, sentiment, score
		)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	if _, err := w.db.ExecContext(ctx, query, valueArgs...); err != nil {
		return fmt.Errorf("postgres: insert batch: %w", err)
	}
	return nil
}

// FetchAll retrieves all stored ranked shops in rank order.
func (w *Writer) FetchAll(ctx context.Context) ([]model.RankedShop, error) {
	rows, err := w.db.QueryContext(ctx, `
		SELECT canonical_name, canonical_lat, canonical_lng, address,
		       rating_google, user_ratings_total, rating_yelp, review_count,
		       place_id, yelp_id, url, stars, volume, sentiment, score
		FROM ranked_shops
		ORDER BY rank
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	var out []model.RankedShop
	for rows.Next() {
		var r model.RankedShop
		var lat, lng, ratingG, ratingY, stars, volume, sentimentV sql.NullFloat64
		var ratingsTotal, reviewCount sql.NullInt64
		if err := rows.Scan(
			&r.CanonicalName, &lat, &lng, &r.Address,
			&ratingG, &ratingsTotal, &ratingY, &reviewCount,
			&r.PlaceID, &r.YelpID, &r.URL, &stars, &volume, &sentimentV, &r.Score,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		r.CanonicalLat = fromNullFloat(lat)
		r.CanonicalLng = fromNullFloat(lng)
		r.RatingGoogle = fromNullFloat(ratingG)
		r.UserRatingsTotal = fromNullInt(ratingsTotal)
		r.RatingYelp = fromNullFloat(ratingY)
		r.ReviewCount = fromNullInt(reviewCount)
		r.Stars = fromNullFloat(stars)
		r.Volume = fromNullFloat(volume)
		r.Sentiment = fromNullFloat(sentimentV)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close closes the underlying database handle.
func (w *Writer) Close() error {
	return w.db.Close()
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func fromNullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return model.Float(v.Float64)
}

func fromNullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	return model.Int(int(v.Int64))
}
