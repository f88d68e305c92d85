// Package photos looks up a stock photo for a recipe name through the
// Unsplash search API. Lookups are strictly best effort: a missing
// credential, a non-OK status, an empty result set, a timeout or a bad
// payload all yield "no photo", never an error.
package photos

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fridgechef/gusteau/internal/cache"
	"github.com/fridgechef/gusteau/internal/httpclient"
	"github.com/fridgechef/gusteau/internal/metrics"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	defaultBaseURL = "https://api.unsplash.com"
	lookupTimeout  = 5 * time.Second
)

// Photo is one stock photo plus the attribution the API's terms require.
type Photo struct {
	URL             string `json:"url"`
	ThumbnailURL    string `json:"thumbnail_url"`
	AttributionName string `json:"attribution_name,omitempty"`
	AttributionURL  string `json:"attribution_url,omitempty"`
}

// Client queries the image search API. A nil Client, or one constructed
// without an access key, reports every lookup as a miss.
type Client struct {
	accessKey  string
	baseURL    string
	httpClient *http.Client
	cache      *cache.PhotoCache
}

// Option configures a photo search client.
type Option func(*Client)

// WithBaseURL overrides the search API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(baseURL, "/") }
}

// WithHTTPClient overrides the HTTP client used for lookups.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) { c.httpClient = client }
}

// WithCache enables Redis-backed caching of found photos.
func WithCache(photoCache *cache.PhotoCache) Option {
	return func(c *Client) { c.cache = photoCache }
}

// NewClient creates a new photo search client.
func NewClient(accessKey string, opts ...Option) *Client {
	c := &Client{
		accessKey:  accessKey,
		baseURL:    defaultBaseURL,
		httpClient: httpclient.NewInstrumentedClient(lookupTimeout),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enabled reports whether lookups can succeed at all.
func (c *Client) Enabled() bool {
	return c != nil && c.accessKey != ""
}

type searchResponse struct {
	Results []struct {
		URLs struct {
			Regular string `json:"regular"`
			Small   string `json:"small"`
		} `json:"urls"`
		User struct {
			Name  string `json:"name"`
			Links struct {
				HTML string `json:"html"`
			} `json:"links"`
		} `json:"user"`
	} `json:"results"`
}

// Lookup returns the best stock photo for the query, or nil when lookup
// is disabled or fails for any reason. It never returns an error.
func (c *Client) Lookup(ctx context.Context, query string) *Photo {
	query = strings.TrimSpace(query)
	if !c.Enabled() || query == "" {
		return nil
	}

	if cached, _ := c.cache.Get(ctx, query); cached != nil {
		c.recordLookup(ctx, "cached")
		return &Photo{
			URL:             cached.URL,
			ThumbnailURL:    cached.ThumbnailURL,
			AttributionName: cached.AttributionName,
			AttributionURL:  cached.AttributionURL,
		}
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", "1")
	params.Set("orientation", "landscape")

	req, err := http.NewRequestWithContext(
		httpclient.WithProvider(ctx, "Unsplash"),
		http.MethodGet,
		c.baseURL+"/search/photos?"+params.Encode(),
		nil,
	)
	if err != nil {
		c.recordLookup(ctx, "error")
		slog.Warn("Failed to build stock photo request", "query", query, "error", err)
		return nil
	}
	req.Header.Set("Authorization", "Client-ID "+c.accessKey)
	req.Header.Set("Accept-Version", "v1")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recordLookup(ctx, "error")
		slog.Warn("Stock photo lookup failed", "query", query, "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.recordLookup(ctx, "error")
		slog.Warn("Stock photo lookup returned unexpected status", "query", query, "status", resp.StatusCode)
		return nil
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		c.recordLookup(ctx, "error")
		slog.Warn("Failed to decode stock photo response", "query", query, "error", err)
		return nil
	}
	if len(parsed.Results) == 0 {
		c.recordLookup(ctx, "miss")
		slog.Debug("No stock photo found", "query", query)
		return nil
	}

	first := parsed.Results[0]
	photo := &Photo{
		URL:             first.URLs.Regular,
		ThumbnailURL:    first.URLs.Small,
		AttributionName: first.User.Name,
		AttributionURL:  first.User.Links.HTML,
	}
	c.recordLookup(ctx, "hit")

	c.cache.Set(ctx, query, &cache.CachedPhoto{
		URL:             photo.URL,
		ThumbnailURL:    photo.ThumbnailURL,
		AttributionName: photo.AttributionName,
		AttributionURL:  photo.AttributionURL,
	}, cache.DefaultPhotoTTL)

	return photo
}

func (c *Client) recordLookup(ctx context.Context, result string) {
	metrics.PhotoLookupsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("result", result),
	))
}
