package store

import (
	"context"
	"errors"
	"sync"

	"github.com/tair/storefront/internal/favorites/domain"
	"github.com/tair/storefront/pkg/logger"
)

// ErrStoreClosed is returned by Toggle after Close
var ErrStoreClosed = errors.New("favorites store is closed")

const defaultQueueSize = 64

// Store keeps the favorites collection in a single slot key.
//
// Reads go straight to the slot. Toggles are queued and executed one at a
// time by a single worker, so two read-modify-write cycles never interleave
// inside this process. When the slot is a domain.AtomicSlot the cycle also
// runs inside the slot's atomic update.
type Store struct {
	slot domain.Slot
	key  string

	requests chan toggleRequest
	stopped  chan struct{}

	mu     sync.RWMutex
	closed bool
}

type toggleRequest struct {
	ctx     context.Context
	product domain.ProductSummary
	done    chan toggleResult
}

type toggleResult struct {
	favorites domain.Favorites
	err       error
}

// Option configures a Store
type Option func(*Store)

// WithKey overrides the slot key. Intended for tests and tooling.
func WithKey(key string) Option {
	return func(s *Store) {
		s.key = key
	}
}

// WithQueueSize sets how many toggles may wait for the worker
func WithQueueSize(n int) Option {
	return func(s *Store) {
		if n >= 0 {
			s.requests = make(chan toggleRequest, n)
		}
	}
}

// New creates a store over slot and starts its mutation worker
func New(slot domain.Slot, opts ...Option) *Store {
	s := &Store{
		slot:     slot,
		key:      domain.FavoritesKey,
		requests: make(chan toggleRequest, defaultQueueSize),
		stopped:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	go s.run()
	return s
}

// List returns the persisted collection
func (s *Store) List(ctx context.Context) (domain.Favorites, error) {
	blob, found, err := s.slot.Read(ctx, s.key)
	if err != nil {
		return nil, &domain.StorageReadError{Key: s.key, Err: err}
	}
	return decodeFavorites(s.key, blob, found)
}

// Contains reports whether productID is in the persisted collection
func (s *Store) Contains(ctx context.Context, productID int) (bool, error) {
	favs, err := s.List(ctx)
	if err != nil {
		return false, err
	}
	return favs.Contains(productID), nil
}

// Toggle flips the membership of product and returns the collection as
// written. ctx is honored while the toggle waits in the queue; once its
// cycle starts it runs to completion.
func (s *Store) Toggle(ctx context.Context, product domain.ProductSummary) (domain.Favorites, error) {
	req := toggleRequest{
		ctx:     ctx,
		product: product,
		done:    make(chan toggleResult, 1),
	}

	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return nil, ErrStoreClosed
	}
	select {
	case s.requests <- req:
	case <-ctx.Done():
		s.mu.RUnlock()
		return nil, ctx.Err()
	}
	s.mu.RUnlock()

	res := <-req.done
	return res.favorites, res.err
}

// Close stops accepting toggles and waits for queued ones to finish.
// The slot is not closed.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.requests)
	s.mu.Unlock()

	<-s.stopped
	return nil
}

func (s *Store) run() {
	defer close(s.stopped)

	for req := range s.requests {
		if err := req.ctx.Err(); err != nil {
			req.done <- toggleResult{err: err}
			continue
		}

		favs, err := s.cycle(context.WithoutCancel(req.ctx), req.product)
		if err != nil {
			logger.Warn(req.ctx).
				Err(err).
				Int("product_id", req.product.ID).
				Msg("Favorite toggle failed")
		}
		req.done <- toggleResult{favorites: favs, err: err}
	}
}

// cycle runs one read-modify-write. It is not safe to call concurrently on a
// plain slot; Toggle guarantees it never is.
func (s *Store) cycle(ctx context.Context, product domain.ProductSummary) (domain.Favorites, error) {
	if atomic, ok := s.slot.(domain.AtomicSlot); ok {
		return s.atomicCycle(ctx, atomic, product)
	}

	blob, found, err := s.slot.Read(ctx, s.key)
	if err != nil {
		return nil, &domain.StorageReadError{Key: s.key, Err: err}
	}
	current, err := decodeFavorites(s.key, blob, found)
	if err != nil {
		return nil, err
	}

	next, _ := current.Toggle(product)
	encoded, err := encodeFavorites(s.key, next)
	if err != nil {
		return nil, err
	}

	if err := s.slot.Write(ctx, s.key, encoded); err != nil {
		return nil, &domain.StorageWriteError{Key: s.key, Err: err}
	}
	return next, nil
}

func (s *Store) atomicCycle(ctx context.Context, slot domain.AtomicSlot, product domain.ProductSummary) (domain.Favorites, error) {
	var (
		next     domain.Favorites
		cycleErr error
	)

	err := slot.Update(ctx, s.key, func(blob []byte, found bool) ([]byte, error) {
		current, err := decodeFavorites(s.key, blob, found)
		if err != nil {
			cycleErr = err
			return nil, err
		}

		next, _ = current.Toggle(product)
		encoded, err := encodeFavorites(s.key, next)
		if err != nil {
			cycleErr = err
			return nil, err
		}
		return encoded, nil
	})

	switch {
	case cycleErr != nil:
		return nil, cycleErr
	case err == nil:
		return next, nil
	case domain.IsStorageReadError(err):
		return nil, err
	default:
		return nil, &domain.StorageWriteError{Key: s.key, Err: err}
	}
}
