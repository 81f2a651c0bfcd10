package slot

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/storefront/internal/favorites/domain"
)

type backend struct {
	name string
	open func(t *testing.T) domain.AtomicSlot
}

func backends() []backend {
	return []backend{
		{
			name: "memory",
			open: func(t *testing.T) domain.AtomicSlot {
				return NewMemorySlot()
			},
		},
		{
			name: "bolt",
			open: func(t *testing.T) domain.AtomicSlot {
				s, err := OpenBolt(filepath.Join(t.TempDir(), "favorites.db"))
				require.NoError(t, err)
				return s
			},
		},
		{
			name: "sqlite",
			open: func(t *testing.T) domain.AtomicSlot {
				s, err := OpenSQLite(filepath.Join(t.TempDir(), "favorites.sqlite"))
				require.NoError(t, err)
				return s
			},
		},
		{
			name: "redis",
			open: func(t *testing.T) domain.AtomicSlot {
				mr := miniredis.RunT(t)
				s := NewRedisSlot(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test:")
				s.maxRetries = 1000
				return s
			},
		},
	}
}

func TestSlots(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			t.Run("ReadMissing", func(t *testing.T) {
				s := b.open(t)
				defer s.Close()

				v, found, err := s.Read(context.Background(), "@favorites")
				require.NoError(t, err)
				assert.False(t, found)
				assert.Nil(t, v)
			})

			t.Run("WriteThenRead", func(t *testing.T) {
				s := b.open(t)
				defer s.Close()
				ctx := context.Background()

				require.NoError(t, s.Write(ctx, "@favorites", []byte(`[{"id":1}]`)))
				require.NoError(t, s.Write(ctx, "@favorites", []byte(`[{"id":2}]`)))

				v, found, err := s.Read(ctx, "@favorites")
				require.NoError(t, err)
				assert.True(t, found)
				assert.Equal(t, `[{"id":2}]`, string(v))

				_, found, err = s.Read(ctx, "@other")
				require.NoError(t, err)
				assert.False(t, found)
			})

			t.Run("UpdateMissingKey", func(t *testing.T) {
				s := b.open(t)
				defer s.Close()
				ctx := context.Background()

				var sawFound bool
				err := s.Update(ctx, "@favorites", func(current []byte, found bool) ([]byte, error) {
					sawFound = found
					return []byte("[]"), nil
				})
				require.NoError(t, err)
				assert.False(t, sawFound)

				v, found, err := s.Read(ctx, "@favorites")
				require.NoError(t, err)
				assert.True(t, found)
				assert.Equal(t, "[]", string(v))
			})

			t.Run("UpdateAbortsOnError", func(t *testing.T) {
				s := b.open(t)
				defer s.Close()
				ctx := context.Background()
				require.NoError(t, s.Write(ctx, "@favorites", []byte("before")))

				boom := errors.New("boom")
				err := s.Update(ctx, "@favorites", func(current []byte, found bool) ([]byte, error) {
					assert.True(t, found)
					assert.Equal(t, "before", string(current))
					return nil, boom
				})
				require.ErrorIs(t, err, boom)

				v, _, err := s.Read(ctx, "@favorites")
				require.NoError(t, err)
				assert.Equal(t, "before", string(v))
			})

			t.Run("ConcurrentUpdatesAreAtomic", func(t *testing.T) {
				s := b.open(t)
				defer s.Close()
				ctx := context.Background()

				const workers = 16
				var wg sync.WaitGroup
				for i := 0; i < workers; i++ {
					wg.Add(1)
					go func() {
						defer wg.Done()
						err := s.Update(ctx, "counter", func(current []byte, found bool) ([]byte, error) {
							n := 0
							if found {
								var err error
								if n, err = strconv.Atoi(string(current)); err != nil {
									return nil, err
								}
							}
							return []byte(strconv.Itoa(n + 1)), nil
						})
						assert.NoError(t, err)
					}()
				}
				wg.Wait()

				v, _, err := s.Read(ctx, "counter")
				require.NoError(t, err)
				assert.Equal(t, strconv.Itoa(workers), string(v))
			})
		})
	}
}

func TestBoltSlotSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "favorites.db")

	s, err := OpenBolt(path)
	require.NoError(t, err)
	require.NoError(t, s.Write(context.Background(), "@favorites", []byte(`[{"id":7}]`)))
	require.NoError(t, s.Close())

	s, err = OpenBolt(path)
	require.NoError(t, err)
	defer s.Close()

	v, found, err := s.Read(context.Background(), "@favorites")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"id":7}]`, string(v))
}

// The slots bucket starts inline in its parent page and moves to its own
// pages once the value outgrows it. Both paths must run clean under -race.
func TestBoltSlotGrowingValue(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "favorites.db")

	s, err := OpenBolt(path)
	require.NoError(t, err)

	var want []byte
	for i := 0; i < 64; i++ {
		err := s.Update(ctx, domain.FavoritesKey, func(current []byte, found bool) ([]byte, error) {
			next := append(append([]byte{}, current...), bytes.Repeat([]byte{byte('a' + i%26)}, 128)...)
			want = next
			return next, nil
		})
		require.NoError(t, err)
	}
	require.Greater(t, len(want), 4096)
	require.NoError(t, s.Close())

	s, err = OpenBolt(path)
	require.NoError(t, err)
	defer s.Close()

	v, found, err := s.Read(ctx, domain.FavoritesKey)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, v)
}

func TestRedisSlotPrefix(t *testing.T) {
	mr := miniredis.RunT(t)
	s := NewRedisSlot(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "storefront:")
	defer s.Close()

	require.NoError(t, s.Write(context.Background(), "@favorites", []byte("[]")))

	got, err := mr.Get("storefront:@favorites")
	require.NoError(t, err)
	assert.Equal(t, "[]", got)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Config{Kind: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemorySlot{}, s)

	s, err = Open(ctx, Config{Kind: "BOLT", Path: filepath.Join(t.TempDir(), "f.db")})
	require.NoError(t, err)
	assert.IsType(t, &BoltSlot{}, s)
	require.NoError(t, s.Close())

	mr := miniredis.RunT(t)
	s, err = Open(ctx, Config{Kind: "redis", RedisAddr: mr.Addr()})
	require.NoError(t, err)
	assert.IsType(t, &RedisSlot{}, s)
	require.NoError(t, s.Close())

	_, err = Open(ctx, Config{Kind: "sqlite"})
	assert.Error(t, err)

	_, err = Open(ctx, Config{Kind: "etcd"})
	assert.ErrorContains(t, err, "unknown slot kind")
}
