package slot

import (
	"context"
	"sync"

	"github.com/tair/storefront/internal/favorites/domain"
)

// MemorySlot is an in-process slot. Values do not survive a restart.
type MemorySlot struct {
	mu     sync.Mutex
	values map[string][]byte
}

// NewMemorySlot creates an empty in-memory slot
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{values: make(map[string][]byte)}
}

func (m *MemorySlot) Read(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	return clone(v), true, nil
}

func (m *MemorySlot) Write(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = clone(value)
	return nil
}

// Update runs fn while holding the slot lock
func (m *MemorySlot) Update(ctx context.Context, key string, fn domain.UpdateFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	current, found := m.values[key]
	next, err := fn(clone(current), found)
	if err != nil {
		return err
	}
	m.values[key] = clone(next)
	return nil
}

func (m *MemorySlot) Close() error {
	return nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
