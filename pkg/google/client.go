package google

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rotisserie/eris"
)

const (
	defaultBaseURL = "https://places.googleapis.com/v1"
	// Daily Places quota of the account the dataset was built with.
	defaultMaxRequests = 100000
	fieldMask          = "places.displayName,places.formattedAddress,places.addressComponents"
)

var (
	// ErrQuotaExceeded is returned once the client-side request budget is spent
	// or the API answers 429.
	ErrQuotaExceeded = eris.New("google: api quota exceeded")
	// ErrRequestDenied is returned when the API rejects the key (403).
	ErrRequestDenied = eris.New("google: api request denied")
)

// Client performs Google Places API operations.
type Client interface {
	TextSearch(ctx context.Context, query string) (*TextSearchResponse, error)
	// RequestsMade returns the number of requests sent so far.
	RequestsMade() int64
}

// TextSearchResponse is the response from Places Text Search.
type TextSearchResponse struct {
	Places []Place `json:"places"`
}

// Place represents a place returned by the API.
type Place struct {
	DisplayName       DisplayName        `json:"displayName"`
	FormattedAddress  string             `json:"formattedAddress"`
	AddressComponents []AddressComponent `json:"addressComponents"`
}

// DisplayName holds the place's display name.
type DisplayName struct {
	Text string `json:"text"`
}

// AddressComponent is one structured part of a place's address.
type AddressComponent struct {
	LongText  string   `json:"longText"`
	ShortText string   `json:"shortText"`
	Types     []string `json:"types"`
}

// HasType reports whether the component carries the given type.
func (a AddressComponent) HasType(t string) bool {
	for _, typ := range a.Types {
		if typ == t {
			return true
		}
	}
	return false
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

// WithMaxRequests caps the number of requests this client will send.
func WithMaxRequests(n int64) Option {
	return func(c *httpClient) {
		if n > 0 {
			c.maxRequests = n
		}
	}
}

type httpClient struct {
	apiKey      string
	baseURL     string
	http        *http.Client
	maxRequests int64
	requests    atomic.Int64
	// exhausted is set on the first 429; later calls fail without a request.
	exhausted atomic.Bool
}

// NewClient creates a Google Places API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:      apiKey,
		baseURL:     defaultBaseURL,
		maxRequests: defaultMaxRequests,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type textSearchRequest struct {
	TextQuery    string `json:"textQuery"`
	LanguageCode string `json:"languageCode,omitempty"`
}

func (c *httpClient) RequestsMade() int64 {
	return c.requests.Load()
}

func (c *httpClient) TextSearch(ctx context.Context, query string) (*TextSearchResponse, error) {
	if c.exhausted.Load() {
		return nil, eris.Wrap(ErrQuotaExceeded, "google: quota exhausted earlier in this run")
	}
	if c.requests.Load() >= c.maxRequests {
		c.exhausted.Store(true)
		return nil, eris.Wrapf(ErrQuotaExceeded, "google: request limit %d reached", c.maxRequests)
	}

	body, err := json.Marshal(textSearchRequest{TextQuery: query, LanguageCode: "en"})
	if err != nil {
		return nil, eris.Wrap(err, "google: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/places:searchText", bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "google: create request")
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", fieldMask)

	c.requests.Add(1)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "google: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "google: read response")
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		c.exhausted.Store(true)
		return nil, eris.Wrapf(ErrQuotaExceeded, "google: status %d: %s", resp.StatusCode, string(respBody))
	case http.StatusForbidden:
		return nil, eris.Wrapf(ErrRequestDenied, "google: status %d: %s", resp.StatusCode, string(respBody))
	default:
		return nil, eris.Errorf("google: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var result TextSearchResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "google: unmarshal response")
	}

	return &result, nil
}
