package slot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/tair/storefront/internal/favorites/domain"
)

// BoltBucket is the bucket slot values are kept in
var BoltBucket = []byte("slots")

// BoltSlot stores slot values in a BoltDB file on the device
type BoltSlot struct {
	db *bolt.DB
}

// OpenBolt opens or creates the BoltDB file at path
func OpenBolt(path string) (*BoltSlot, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create slot directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt slot %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(BoltBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}

	return &BoltSlot{db: db}, nil
}

func (b *BoltSlot) Read(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	var (
		value []byte
		found bool
	)
	err := b.db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(BoltBucket)
		if bkt == nil {
			return fmt.Errorf("bucket %s missing", BoltBucket)
		}
		// Values returned by Get are only valid for the transaction.
		if v := bkt.Get([]byte(key)); v != nil {
			value = clone(v)
			found = true
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return value, found, nil
}

func (b *BoltSlot) Write(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(BoltBucket).Put([]byte(key), value)
	})
}

// Update runs fn inside a single bolt read-write transaction. Bolt allows one
// writer at a time across the file, so the cycle cannot interleave with
// another process.
func (b *BoltSlot) Update(ctx context.Context, key string, fn domain.UpdateFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(BoltBucket)
		if bkt == nil {
			return &domain.StorageReadError{Key: key, Err: fmt.Errorf("bucket %s missing", BoltBucket)}
		}

		current := bkt.Get([]byte(key))
		next, err := fn(clone(current), current != nil)
		if err != nil {
			return err
		}
		return bkt.Put([]byte(key), next)
	})
}

func (b *BoltSlot) Close() error {
	return b.db.Close()
}
