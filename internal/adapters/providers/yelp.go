package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/okian/brewrank/internal/domain/model"
	"github.com/okian/brewrank/pkg/logger"
)

const (
	yelpSearchURL   = "https://api.yelp.com/v3/businesses/search"
	yelpBusinessURL = "https://api.yelp.com/v3/businesses"
	yelpCategories  = "coffee,coffeeroasteries,cafes"

	yelpPageLimit   = 50
	yelpMaxPages    = 4
	yelpMaxRadius   = 40000
	yelpMaxReviews  = 3
	yelpPageSleep   = 200 * time.Millisecond
	yelpReviewSleep = 100 * time.Millisecond
)

// Yelp collects coffee-shop listings from the Fusion business search API,
// optionally enriching each business with up to 3 review excerpts.
type Yelp struct {
	apiKey         string
	searchURL      string
	businessURL    string
	includeReviews bool
	httpClient     *http.Client
	log            logger.Logger
	retry          retrier
}

// YelpOption customizes a Yelp collector.
type YelpOption func(*Yelp)

// WithYelpReviews toggles the per-business review fetch.
func WithYelpReviews(include bool) YelpOption {
	return func(y *Yelp) {
		y.includeReviews = include
	}
}

// WithYelpHTTPClient overrides the HTTP client, mainly for tests.
func WithYelpHTTPClient(c *http.Client) YelpOption {
	return func(y *Yelp) {
		y.httpClient = c
	}
}

// WithYelpBaseURLs points the collector at different endpoints, mainly for
// tests.
func WithYelpBaseURLs(searchURL, businessURL string) YelpOption {
	return func(y *Yelp) {
		if searchURL != "" {
			y.searchURL = searchURL
		}
		if businessURL != "" {
			y.businessURL = businessURL
		}
	}
}

// WithYelpBaseDelay overrides the retry back-off base delay.
func WithYelpBaseDelay(d time.Duration) YelpOption {
	return func(y *Yelp) {
		y.retry.baseDelay = d
	}
}

// NewYelp builds a Yelp Fusion collector.
func NewYelp(apiKey string, opts ...YelpOption) (*Yelp, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: yelp fusion", ErrMissingAPIKey)
	}
	y := &Yelp{
		apiKey:      apiKey,
		searchURL:   yelpSearchURL,
		businessURL: yelpBusinessURL,
		httpClient:  newHTTPClient(),
		log:         logger.Named("provider.yelp"),
	}
	y.retry = retrier{maxAttempts: defaultMaxAttempts, baseDelay: defaultBaseDelay, log: y.log}
	for _, opt := range opts {
		opt(y)
	}
	return y, nil
}

type yelpBusiness struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Coordinates struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	} `json:"coordinates"`
	Rating      *float64 `json:"rating"`
	ReviewCount *int     `json:"review_count"`
	URL         string   `json:"url"`
	Location    struct {
		DisplayAddress []string `json:"display_address"`
	} `json:"location"`
}

type yelpSearchResponse struct {
	Businesses []yelpBusiness `json:"businesses"`
	Total      int            `json:"total"`
}

type yelpReviewsResponse struct {
	Reviews []struct {
		Text string `json:"text"`
	} `json:"reviews"`
}

// Search fetches coffee listings near location within radiusMeters, paging by
// offset and deduplicating by business id. When review fetching is enabled,
// each listing carries up to 3 review excerpts.
func (y *Yelp) Search(ctx context.Context, location string, radiusMeters int) ([]model.RawListing, error) {
	radius := radiusMeters
	if radius > yelpMaxRadius {
		radius = yelpMaxRadius
	}

	var (
		listings []model.RawListing
		seen     = map[string]bool{}
	)

	for page := 0; page < yelpMaxPages; page++ {
		resp, err := y.searchPage(ctx, location, radius, page*yelpPageLimit)
		if err != nil {
			return nil, err
		}
		if len(resp.Businesses) == 0 {
			break
		}

		for _, b := range resp.Businesses {
			if b.ID == "" || seen[b.ID] {
				continue
			}
			seen[b.ID] = true

			listing := model.RawListing{
				Provider:    model.ProviderYelp,
				Name:        b.Name,
				Lat:         b.Coordinates.Latitude,
				Lng:         b.Coordinates.Longitude,
				Rating:      b.Rating,
				RatingCount: b.ReviewCount,
				ExternalID:  b.ID,
				Address:     joinAddress(b.Location.DisplayAddress),
				URL:         b.URL,
			}
			if y.includeReviews {
				texts, err := y.reviews(ctx, b.ID)
				if err != nil {
					y.log.Warn(ctx, "review fetch failed; continuing without",
						logger.String("yelp_id", b.ID), logger.Error(err))
				} else {
					listing.ReviewTexts = texts
				}
				if err := sleep(ctx, yelpReviewSleep); err != nil {
					return nil, err
				}
			}
			listings = append(listings, listing)
		}

		if (page+1)*yelpPageLimit >= resp.Total {
			break
		}
		if err := sleep(ctx, yelpPageSleep); err != nil {
			return nil, err
		}
	}

	y.log.Info(ctx, "yelp search complete", logger.Int("listings", len(listings)))
	return listings, nil
}

func (y *Yelp) searchPage(ctx context.Context, location string, radius, offset int) (*yelpSearchResponse, error) {
	params := url.Values{}
	params.Set("location", location)
	params.Set("categories", yelpCategories)
	params.Set("radius", strconv.Itoa(radius))
	params.Set("limit", strconv.Itoa(yelpPageLimit))
	params.Set("offset", strconv.Itoa(offset))

	var out yelpSearchResponse
	if err := y.get(ctx, "yelp business search", y.searchURL+"?"+params.Encode(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// reviews fetches up to 3 review excerpts for a business.
func (y *Yelp) reviews(ctx context.Context, businessID string) ([]string, error) {
	var out yelpReviewsResponse
	endpoint := fmt.Sprintf("%s/%s/reviews", y.businessURL, url.PathEscape(businessID))
	if err := y.get(ctx, "yelp business reviews", endpoint, &out); err != nil {
		return nil, err
	}

	texts := make([]string, 0, yelpMaxReviews)
	for _, r := range out.Reviews {
		if len(texts) == yelpMaxReviews {
			break
		}
		texts = append(texts, r.Text)
	}
	return texts, nil
}

func (y *Yelp) get(ctx context.Context, operation, endpoint string, out interface{}) error {
	return y.retry.do(ctx, operation, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+y.apiKey)

		resp, err := y.httpClient.Do(req)
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
		return json.Unmarshal(body, out)
	})
}

func joinAddress(parts []string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += p
	}
	return out
}
