package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/storefront/internal/catalog/domain"
)

const productsJSON = `[
	{"id":1,"title":"Fjallraven - Foldsack No. 1 Backpack","price":109.95,"description":"Your perfect pack","category":"men's clothing","image":"https://fakestoreapi.com/img/1.jpg","rating":{"rate":3.9,"count":120}},
	{"id":2,"title":"Mens Casual Premium Slim Fit T-Shirts","price":22.3,"description":"Slim-fitting style","category":"men's clothing","image":"https://fakestoreapi.com/img/2.jpg"}
]`

type fakeCatalog struct {
	server *httptest.Server
	hits   atomic.Int32
	status atomic.Int32
}

func newFakeCatalog(t *testing.T) *fakeCatalog {
	t.Helper()
	f := &fakeCatalog{}
	mux := http.NewServeMux()
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		if code := f.status.Load(); code != 0 {
			w.WriteHeader(int(code))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(productsJSON))
	})
	mux.HandleFunc("/products/1", func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		if code := f.status.Load(); code != 0 {
			w.WriteHeader(int(code))
			return
		}
		_, _ = w.Write([]byte(`{"id":1,"title":"Fjallraven - Foldsack No. 1 Backpack","price":109.95,"category":"men's clothing"}`))
	})
	// the fake store API answers unknown ids with 200 and no body
	mux.HandleFunc("/products/999", func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		w.WriteHeader(http.StatusOK)
	})
	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := NewClient(Config{BaseURL: baseURL, Timeout: 2 * time.Second})
	require.NoError(t, err)
	return c
}

func TestClient_ListProducts(t *testing.T) {
	f := newFakeCatalog(t)
	c := newTestClient(t, f.server.URL)

	products, err := c.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "men's clothing", products[0].Category)
	assert.Equal(t, "22.3", products[1].Price.String())
}

func TestClient_GetProductIsCached(t *testing.T) {
	f := newFakeCatalog(t)
	c := newTestClient(t, f.server.URL)
	ctx := context.Background()

	p, err := c.GetProduct(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, p.ID)

	_, err = c.GetProduct(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int32(1), f.hits.Load())

	// expired entries are fetched again
	c.cache.now = func() time.Time { return time.Now().Add(10 * time.Minute) }
	_, err = c.GetProduct(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int32(2), f.hits.Load())
}

func TestClient_ListWarmsCache(t *testing.T) {
	f := newFakeCatalog(t)
	c := newTestClient(t, f.server.URL)
	ctx := context.Background()

	_, err := c.ListProducts(ctx)
	require.NoError(t, err)

	p, err := c.GetProduct(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Mens Casual Premium Slim Fit T-Shirts", p.Title)
	assert.Equal(t, int32(1), f.hits.Load())
}

func TestClient_NotFound(t *testing.T) {
	f := newFakeCatalog(t)
	c := newTestClient(t, f.server.URL)

	_, err := c.GetProduct(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	_, err = c.GetProduct(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Equal(t, StateClosed, c.BreakerState(), "not found is not a failure")
}

func TestClient_BreakerOpensOnServerErrors(t *testing.T) {
	f := newFakeCatalog(t)
	f.status.Store(http.StatusBadGateway)
	c := newTestClient(t, f.server.URL)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := c.ListProducts(ctx)
		require.ErrorIs(t, err, domain.ErrCatalogUnavailable)
	}
	assert.Equal(t, StateOpen, c.BreakerState())

	_, err := c.ListProducts(ctx)
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, int32(5), f.hits.Load(), "open circuit must not reach the catalog")
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := newTestClient(t, url)
	_, err := c.ListProducts(context.Background())
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
}

func TestClient_CallerCancellation(t *testing.T) {
	f := newFakeCatalog(t)
	c := newTestClient(t, f.server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListProducts(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, StateClosed, c.BreakerState())
}
