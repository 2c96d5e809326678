package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/okian/brewrank/internal/domain/model"
	"github.com/okian/brewrank/pkg/logger"
)

const (
	googleNearbyURL = "https://maps.googleapis.com/maps/api/place/nearbysearch/json"
	googleKeyword   = "coffee"

	// Nearby Search serves at most 3 pages of 20 results. The next_page_token
	// needs a short delay before it becomes valid server-side.
	googleMaxExtraPages = 3
	googleTokenWait     = 2 * time.Second

	// Default search centroid: downtown Tulsa, OK.
	defaultCenterLat = 36.15398
	defaultCenterLng = -95.99277
)

// Google collects coffee-shop listings from the Places Nearby Search API.
type Google struct {
	apiKey     string
	baseURL    string
	centerLat  float64
	centerLng  float64
	httpClient *http.Client
	log        logger.Logger
	retry      retrier
}

// GoogleOption customizes a Google collector.
type GoogleOption func(*Google)

// WithGoogleCenter overrides the search centroid.
func WithGoogleCenter(lat, lng float64) GoogleOption {
	return func(g *Google) {
		g.centerLat = lat
		g.centerLng = lng
	}
}

// WithGoogleHTTPClient overrides the HTTP client, mainly for tests.
func WithGoogleHTTPClient(c *http.Client) GoogleOption {
	return func(g *Google) {
		g.httpClient = c
	}
}

// WithGoogleBaseURL points the collector at a different endpoint, mainly for
// tests.
func WithGoogleBaseURL(u string) GoogleOption {
	return func(g *Google) {
		if u != "" {
			g.baseURL = u
		}
	}
}

// WithGoogleBaseDelay overrides the retry back-off base delay.
func WithGoogleBaseDelay(d time.Duration) GoogleOption {
	return func(g *Google) {
		g.retry.baseDelay = d
	}
}

// NewGoogle builds a Google Places collector.
func NewGoogle(apiKey string, opts ...GoogleOption) (*Google, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: google places", ErrMissingAPIKey)
	}
	g := &Google{
		apiKey:     apiKey,
		baseURL:    googleNearbyURL,
		centerLat:  defaultCenterLat,
		centerLng:  defaultCenterLng,
		httpClient: newHTTPClient(),
		log:        logger.Named("provider.google"),
	}
	g.retry = retrier{maxAttempts: defaultMaxAttempts, baseDelay: defaultBaseDelay, log: g.log}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

type googlePlace struct {
	PlaceID string `json:"place_id"`
	Name    string `json:"name"`
	Geometry struct {
		Location struct {
			Lat *float64 `json:"lat"`
			Lng *float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
	Rating           *float64 `json:"rating"`
	UserRatingsTotal *int     `json:"user_ratings_total"`
	Vicinity         string   `json:"vicinity"`
}

type googleSearchResponse struct {
	Status        string        `json:"status"`
	ErrorMessage  string        `json:"error_message"`
	Results       []googlePlace `json:"results"`
	NextPageToken string        `json:"next_page_token"`
}

// Search fetches coffee listings within radiusMeters of the configured
// centroid, following next_page_token pagination and deduplicating by
// place_id.
func (g *Google) Search(ctx context.Context, radiusMeters int) ([]model.RawListing, error) {
	var (
		listings []model.RawListing
		seen     = map[string]bool{}
		token    string
	)

	for page := 0; page <= googleMaxExtraPages; page++ {
		resp, err := g.searchPage(ctx, radiusMeters, token)
		if err != nil {
			return nil, err
		}

		for _, p := range resp.Results {
			if p.PlaceID == "" || seen[p.PlaceID] {
				continue
			}
			seen[p.PlaceID] = true
			listings = append(listings, model.RawListing{
				Provider:    model.ProviderGoogle,
				Name:        p.Name,
				Lat:         p.Geometry.Location.Lat,
				Lng:         p.Geometry.Location.Lng,
				Rating:      p.Rating,
				RatingCount: p.UserRatingsTotal,
				ExternalID:  p.PlaceID,
				Address:     p.Vicinity,
			})
		}

		if resp.NextPageToken == "" {
			break
		}
		token = resp.NextPageToken
		if err := sleep(ctx, googleTokenWait); err != nil {
			return nil, err
		}
	}

	g.log.Info(ctx, "google search complete", logger.Int("listings", len(listings)))
	return listings, nil
}

func (g *Google) searchPage(ctx context.Context, radiusMeters int, token string) (*googleSearchResponse, error) {
	params := url.Values{}
	if token != "" {
		params.Set("pagetoken", token)
	} else {
		params.Set("location", fmt.Sprintf("%f,%f", g.centerLat, g.centerLng))
		params.Set("radius", fmt.Sprintf("%d", radiusMeters))
		params.Set("keyword", googleKeyword)
	}
	params.Set("key", g.apiKey)

	var out googleSearchResponse
	err := g.retry.do(ctx, "google nearby search", func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
		if err != nil {
			return err
		}
		resp, err := g.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("%w: http %d", ErrBadStatus, resp.StatusCode)
		}

		out = googleSearchResponse{}
		if err := json.Unmarshal(body, &out); err != nil {
			return fmt.Errorf("google: decode response: %w", err)
		}
		switch out.Status {
		case "OK", "ZERO_RESULTS":
			return nil
		default:
			return fmt.Errorf("%w: %s %s", ErrBadStatus, out.Status, out.ErrorMessage)
		}
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
