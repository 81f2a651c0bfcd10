package slot

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/tair/storefront/internal/favorites/domain"
)

// ErrUpdateConflict is returned when an optimistic update keeps losing the
// WATCH race to other writers
var ErrUpdateConflict = errors.New("slot update conflict: retries exhausted")

const defaultRedisRetries = 10

// RedisOptions configures a RedisSlot
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// RedisSlot stores slot values as plain redis strings
type RedisSlot struct {
	client     *redis.Client
	prefix     string
	maxRetries int
}

// OpenRedis connects to redis and verifies the connection
func OpenRedis(ctx context.Context, opts RedisOptions) (*RedisSlot, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
	}

	return NewRedisSlot(client, opts.Prefix), nil
}

// NewRedisSlot wraps an existing client. Close closes the client.
func NewRedisSlot(client *redis.Client, prefix string) *RedisSlot {
	return &RedisSlot{
		client:     client,
		prefix:     prefix,
		maxRetries: defaultRedisRetries,
	}
}

func (r *RedisSlot) redisKey(key string) string {
	return r.prefix + key
}

func (r *RedisSlot) Read(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := r.client.Get(ctx, r.redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (r *RedisSlot) Write(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, r.redisKey(key), value, 0).Err()
}

// Update uses WATCH/MULTI. If the key changes between the read and EXEC the
// transaction is discarded and fn runs again against the new value.
func (r *RedisSlot) Update(ctx context.Context, key string, fn domain.UpdateFunc) error {
	k := r.redisKey(key)

	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, k).Bytes()
		found := true
		if errors.Is(err, redis.Nil) {
			current, found = nil, false
		} else if err != nil {
			return &domain.StorageReadError{Key: key, Err: err}
		}

		next, err := fn(current, found)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, k, next, 0)
			return nil
		})
		return err
	}

	for i := 0; i < r.maxRetries; i++ {
		err := r.client.Watch(ctx, txf, k)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return ErrUpdateConflict
}

func (r *RedisSlot) Close() error {
	return r.client.Close()
}
