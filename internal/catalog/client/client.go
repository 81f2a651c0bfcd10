// Package client talks to the remote product catalog.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/tair/storefront/internal/catalog/domain"
	"github.com/tair/storefront/pkg/logger"
)

// DefaultBaseURL is the public fake store API the mobile app was built against
const DefaultBaseURL = "https://fakestoreapi.com"

// Config holds catalog client configuration
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	CacheSize int
	CacheTTL  time.Duration
	Breaker   BreakerConfig
}

// DefaultConfig returns default catalog client configuration
func DefaultConfig() Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		Timeout:   10 * time.Second,
		CacheSize: 256,
		CacheTTL:  5 * time.Minute,
		Breaker:   DefaultBreakerConfig(),
	}
}

// Client fetches products from the remote catalog
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *CircuitBreaker
	cache      *productCache
}

// NewClient creates a catalog client. Zero fields in cfg take their defaults.
func NewClient(cfg Config) (*Client, error) {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = def.CacheSize
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = def.CacheTTL
	}
	if cfg.Breaker == (BreakerConfig{}) {
		cfg.Breaker = def.Breaker
	}

	cache, err := newProductCache(cfg.CacheSize, cfg.CacheTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create product cache: %w", err)
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		breaker: NewCircuitBreaker("catalog", cfg.Breaker),
		cache:   cache,
	}, nil
}

// ListProducts fetches every product in the catalog
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	found, err := c.get(ctx, "/products", &products)
	if err != nil {
		return nil, err
	}
	if !found || products == nil {
		products = []domain.Product{}
	}

	for _, p := range products {
		c.cache.add(p)
	}
	return products, nil
}

// GetProduct fetches one product, serving repeated lookups from the cache
func (c *Client) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	if p, ok := c.cache.get(id); ok {
		logger.Debug(ctx).Int("product_id", id).Msg("Catalog cache hit")
		return &p, nil
	}

	var p *domain.Product
	found, err := c.get(ctx, "/products/"+strconv.Itoa(id), &p)
	if err != nil {
		return nil, err
	}
	if !found || p == nil {
		return nil, fmt.Errorf("%w: %d", domain.ErrProductNotFound, id)
	}

	c.cache.add(*p)
	return p, nil
}

// BreakerState reports the catalog circuit breaker state
func (c *Client) BreakerState() CircuitState {
	return c.breaker.State()
}

// get issues a GET and decodes the JSON body into out. found is false for a
// 404 or an empty body, which the fake store API returns for unknown ids.
func (c *Client) get(ctx context.Context, path string, out interface{}) (found bool, err error) {
	var callErr error

	err = c.breaker.Call(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			callErr = err
			return nil
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				// the caller gave up; not a catalog failure
				callErr = ctx.Err()
				return nil
			}
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return nil
		case resp.StatusCode >= 500:
			return fmt.Errorf("catalog returned status %d", resp.StatusCode)
		case resp.StatusCode != http.StatusOK:
			callErr = fmt.Errorf("catalog returned status %d", resp.StatusCode)
			return nil
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read catalog response: %w", err)
		}
		body = bytes.TrimSpace(body)
		if len(body) == 0 {
			return nil
		}
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to decode catalog response: %w", err)
		}
		found = true
		return nil
	})

	if err != nil {
		logger.Warn(ctx).
			Err(err).
			Str("path", path).
			Str("circuit_state", string(c.breaker.State())).
			Msg("Catalog request failed")
		return false, fmt.Errorf("%w: %w", domain.ErrCatalogUnavailable, err)
	}
	if callErr != nil {
		return false, callErr
	}
	return found, nil
}
