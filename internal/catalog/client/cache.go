package client

import (
	"time"

	lru "github.com/hashicorp/golang-lru"

	"github.com/tair/storefront/internal/catalog/domain"
)

type cacheEntry struct {
	product   domain.Product
	expiresAt time.Time
}

// productCache is a size-bounded LRU of product records with a fixed TTL
type productCache struct {
	entries *lru.Cache
	ttl     time.Duration
	now     func() time.Time
}

func newProductCache(size int, ttl time.Duration) (*productCache, error) {
	entries, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &productCache{entries: entries, ttl: ttl, now: time.Now}, nil
}

func (c *productCache) get(id int) (domain.Product, bool) {
	v, ok := c.entries.Get(id)
	if !ok {
		return domain.Product{}, false
	}
	entry := v.(cacheEntry)
	if !c.now().Before(entry.expiresAt) {
		c.entries.Remove(id)
		return domain.Product{}, false
	}
	return entry.product, true
}

func (c *productCache) add(p domain.Product) {
	c.entries.Add(p.ID, cacheEntry{product: p, expiresAt: c.now().Add(c.ttl)})
}
