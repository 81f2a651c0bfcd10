// Package slot provides the persistent key-value slots the favorites store
// is written to.
package slot

import (
	"context"
	"fmt"
	"strings"

	"github.com/tair/storefront/internal/favorites/domain"
)

// Slot kinds accepted by Open
const (
	KindMemory = "memory"
	KindBolt   = "bolt"
	KindSQLite = "sqlite"
	KindRedis  = "redis"
)

// Config selects and configures a slot backend
type Config struct {
	Kind          string
	Path          string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Open creates the slot described by cfg. Every backend returned here
// implements domain.AtomicSlot.
func Open(ctx context.Context, cfg Config) (domain.AtomicSlot, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Kind)) {
	case KindMemory:
		return NewMemorySlot(), nil
	case KindBolt, "":
		if cfg.Path == "" {
			return nil, fmt.Errorf("bolt slot requires a path")
		}
		s, err := OpenBolt(cfg.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case KindSQLite:
		if cfg.Path == "" {
			return nil, fmt.Errorf("sqlite slot requires a path")
		}
		s, err := OpenSQLite(cfg.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case KindRedis:
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("redis slot requires an address")
		}
		s, err := OpenRedis(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown slot kind %q", cfg.Kind)
	}
}
