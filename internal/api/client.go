package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mobil-koeln/navi-cli/internal/cache"
	"github.com/mobil-koeln/navi-cli/internal/models"
	"go.uber.org/zap"
)

const (
	defaultTimeout  = 10 * time.Second
	defaultCacheTTL = 90 * time.Second
)

// Cache interface for caching HTTP responses
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte) error
}

// Client is the API client for the Google Directions service
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	language   string
	units      string
	cache      Cache
	logger     *zap.Logger
}

// ClientOption configures the Client
type ClientOption func(*Client)

// WithTimeout sets the HTTP client timeout
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithCache enables caching with the provided cache implementation
func WithCache(cache Cache) ClientOption {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithDefaultCache enables caching with the default file cache
func WithDefaultCache() ClientOption {
	return WithFileCache(cache.DefaultCacheDir(), defaultCacheTTL)
}

// WithFileCache enables caching in dir with the given TTL
func WithFileCache(dir string, ttl time.Duration) ClientOption {
	return func(c *Client) {
		fc, err := cache.NewFileCache(dir, ttl)
		if err == nil {
			c.cache = fc
		}
	}
}

// WithBaseURL points the client at a different host, used by tests
func WithBaseURL(base string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(base, "/")
	}
}

// WithAPIKey sets the key sent with every request
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithLanguage sets the language of distance and duration texts
func WithLanguage(lang string) ClientOption {
	return func(c *Client) {
		c.language = lang
	}
}

// WithUnits selects "metric" or "imperial" distance texts
func WithUnits(units string) ClientOption {
	return func(c *Client) {
		c.units = units
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(l *zap.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a new API client
func NewClient(opts ...ClientOption) (*Client, error) {
	c := &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL: BaseURL,
		units:   "metric",
		logger:  zap.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if _, err := url.Parse(c.baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	return c, nil
}

// HasAPIKey reports whether requests will be authenticated
func (c *Client) HasAPIKey() bool {
	return c.apiKey != ""
}

// Directions fetches a route for the query and converts the first route
// of the response.
func (c *Client) Directions(ctx context.Context, q models.RouteQuery) (*models.Route, error) {
	body, err := c.DirectionsRaw(ctx, q)
	if err != nil {
		return nil, err
	}

	var resp models.DirectionsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse directions response: %w", err)
	}
	if len(resp.Routes) == 0 {
		return nil, ErrNoResults
	}

	return resp.Routes[0].ToRoute()
}

// DirectionsRaw fetches directions and returns the raw JSON. Only bodies
// with status OK are cached.
func (c *Client) DirectionsRaw(ctx context.Context, q models.RouteQuery) (json.RawMessage, error) {
	reqURL, cacheKey, err := c.directionsURL(q)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if data, ok := c.cache.Get(cacheKey); ok {
			c.logger.Debug("directions cache hit", zap.String("origin", q.Origin.String()), zap.String("destination", q.Destination))
			return data, nil
		}
	}

	body, err := c.doRequest(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var status struct {
		Status       string `json:"status"`
		ErrorMessage string `json:"error_message"`
	}
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("failed to parse directions response: %w", err)
	}
	if err := statusError(status.Status, status.ErrorMessage); err != nil {
		return nil, err
	}

	if c.cache != nil {
		_ = c.cache.Set(cacheKey, body)
	}

	return body, nil
}

// directionsURL builds the request URL and a cache key that leaves out the API key
func (c *Client) directionsURL(q models.RouteQuery) (string, string, error) {
	if q.Origin.IsZero() {
		return "", "", fmt.Errorf("%w: origin is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(q.Destination) == "" {
		return "", "", fmt.Errorf("%w: destination is required", ErrInvalidRequest)
	}

	mode := q.TravelMode
	if mode == "" {
		mode = models.TravelModeDriving
	}
	modeParam, ok := travelModes[string(mode)]
	if !ok {
		return "", "", fmt.Errorf("%w: unsupported travel mode %q", ErrInvalidRequest, mode)
	}

	params := url.Values{}
	params.Set("origin", q.Origin.String())
	params.Set("destination", strings.TrimSpace(q.Destination))
	params.Set("mode", modeParam)
	if c.units != "" {
		params.Set("units", c.units)
	}
	if c.language != "" {
		params.Set("language", c.language)
	}

	cacheKey := c.baseURL + EndpointDirections + "?" + params.Encode()

	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}
	reqURL := c.baseURL + EndpointDirections + "?" + params.Encode()

	return reqURL, cacheKey, nil
}

// doRequest performs an HTTP GET request
func (c *Client) doRequest(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	correlationID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "navi-cli")
	req.Header.Set("X-Correlation-ID", correlationID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", ErrTimeout, ctx.Err())
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("directions request",
		zap.String("correlation_id", correlationID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode != http.StatusOK {
		return nil, NewAPIError(resp.StatusCode, resp.Status, extractEndpoint(reqURL))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, nil
}

// extractEndpoint extracts the endpoint path from a full URL
func extractEndpoint(fullURL string) string {
	u, err := url.Parse(fullURL)
	if err != nil {
		return fullURL
	}
	return u.Path
}
