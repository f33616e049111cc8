// Package catalog proxies a read-only third-party product catalog
// (dummyjson-compatible) for the dashboard's demo product view.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// maxResponseSize bounds what we read from the upstream.
const maxResponseSize = 4 << 20

// Client fetches catalog pages and caches them when a Cache is set.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      Cache
	ttl        time.Duration
}

// NewClient returns a client for baseURL. cache may be nil.
func NewClient(baseURL string, cache Cache, ttl time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		cache: cache,
		ttl:   ttl,
	}
}

// Close releases idle upstream connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// Products returns one catalog page, or search results when query is set.
func (c *Client) Products(ctx context.Context, limit, skip int, query string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("skip", strconv.Itoa(skip))
	path := "/products"
	if query != "" {
		path = "/products/search"
		params.Set("q", query)
	}
	return c.get(ctx, path, params)
}

func (c *Client) Categories(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/products/categories", nil)
}

// TopRated returns the highest rated products first.
func (c *Client) TopRated(ctx context.Context, limit int) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("sortBy", "rating")
	params.Set("order", "desc")
	return c.get(ctx, "/products", params)
}

// get is a read-through fetch keyed by path and encoded query. Cache errors
// are logged and the upstream is used.
func (c *Client) get(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	key := path
	if len(params) > 0 {
		key += "?" + params.Encode()
	}

	if c.cache != nil {
		b, ok, err := c.cache.Get(ctx, key)
		if err != nil {
			zap.L().Warn("catalog cache read failed", zap.String("key", key), zap.Error(err))
		} else if ok {
			return b, nil
		}
	}

	body, err := c.fetch(ctx, key)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, body, c.ttl); err != nil {
			zap.L().Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return body, nil
}

func (c *Client) fetch(ctx context.Context, pathAndQuery string) (json.RawMessage, error) {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+pathAndQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("reading catalog response: %w", err)
	}

	zap.L().Debug("catalog response",
		zap.String("path", pathAndQuery),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog returned HTTP %d", resp.StatusCode)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("catalog returned invalid JSON")
	}
	return body, nil
}
