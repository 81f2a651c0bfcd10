package domain

import "context"

// Slot is a persistent key-value slot holding opaque blobs
type Slot interface {
	// Read returns the value stored under key. found is false, with a nil
	// error, when nothing was ever written.
	Read(ctx context.Context, key string) (value []byte, found bool, err error)
	// Write replaces the whole value stored under key.
	Write(ctx context.Context, key string, value []byte) error
	Close() error
}

// UpdateFunc computes the next value from the current one. Returning an
// error aborts the update without writing.
type UpdateFunc func(current []byte, found bool) ([]byte, error)

// AtomicSlot is a Slot that can run a read-modify-write cycle atomically.
//
// Update returns fn's error unchanged when fn fails. Failures reading the
// current value are returned as *StorageReadError; any other error means the
// write did not happen.
type AtomicSlot interface {
	Slot
	Update(ctx context.Context, key string, fn UpdateFunc) error
}
