// Package nominatim is a minimal client for the OpenStreetMap Nominatim search API.
package nominatim

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL   = "https://nominatim.openstreetmap.org"
	defaultUserAgent = "campus-states/1.0"
	// Public Nominatim allows one request per second.
	defaultInterval = 1100 * time.Millisecond
)

// Client performs Nominatim search operations.
type Client interface {
	// Search returns at most one place for a free-text query.
	Search(ctx context.Context, query string) ([]Place, error)
	// RequestsMade returns the number of HTTP requests sent so far.
	RequestsMade() int64
}

// Place is a single Nominatim search result.
type Place struct {
	PlaceID     int64   `json:"place_id"`
	OSMType     string  `json:"osm_type"`
	OSMID       int64   `json:"osm_id"`
	Lat         string  `json:"lat"`
	Lon         string  `json:"lon"`
	DisplayName string  `json:"display_name"`
	Class       string  `json:"class"`
	Type        string  `json:"type"`
	Importance  float64 `json:"importance"`
	Address     Address `json:"address"`
}

// Address is the structured address returned with addressdetails=1.
type Address struct {
	University  string `json:"university,omitempty"`
	College     string `json:"college,omitempty"`
	School      string `json:"school,omitempty"`
	City        string `json:"city,omitempty"`
	Town        string `json:"town,omitempty"`
	Village     string `json:"village,omitempty"`
	State       string `json:"state,omitempty"`
	Province    string `json:"province,omitempty"`
	Region      string `json:"region,omitempty"`
	Postcode    string `json:"postcode,omitempty"`
	Country     string `json:"country,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
}

// FirstLevelRegion returns the first non-empty of state, province and region.
func (a Address) FirstLevelRegion() string {
	switch {
	case a.State != "":
		return a.State
	case a.Province != "":
		return a.Province
	default:
		return a.Region
	}
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithUserAgent sets the User-Agent header. Nominatim's usage policy requires
// an identifying agent.
func WithUserAgent(ua string) Option {
	return func(c *httpClient) {
		c.userAgent = ua
	}
}

// WithAcceptLanguage sets the accept-language query parameter.
func WithAcceptLanguage(lang string) Option {
	return func(c *httpClient) {
		c.acceptLanguage = lang
	}
}

// WithInterval sets the minimum gap between requests. Zero disables pacing.
func WithInterval(d time.Duration) Option {
	return func(c *httpClient) {
		if d <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

type httpClient struct {
	baseURL        string
	userAgent      string
	acceptLanguage string
	http           *http.Client
	limiter        *rate.Limiter
	requests       atomic.Int64
}

// NewClient creates a Nominatim client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL:        defaultBaseURL,
		userAgent:      defaultUserAgent,
		acceptLanguage: "en",
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(defaultInterval), 1),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) RequestsMade() int64 {
	return c.requests.Load()
}

func (c *httpClient) Search(ctx context.Context, query string) ([]Place, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "nominatim: rate limit")
	}

	params := url.Values{
		"q":              {query},
		"format":         {"json"},
		"addressdetails": {"1"},
		"limit":          {"1"},
	}
	if c.acceptLanguage != "" {
		params.Set("accept-language", c.acceptLanguage)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "nominatim: create request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	c.requests.Add(1)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "nominatim: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "nominatim: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("nominatim: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var places []Place
	if err := json.Unmarshal(body, &places); err != nil {
		return nil, eris.Wrap(err, "nominatim: unmarshal response")
	}

	return places, nil
}
