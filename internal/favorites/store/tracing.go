package store

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/storefront/internal/favorites/domain"
)

var tracer = otel.Tracer("favorites-store")

// TracedStore wraps a FavoritesStore with tracing spans
type TracedStore struct {
	next domain.FavoritesStore
}

// NewTracedStore creates a store decorator that records a span per operation
func NewTracedStore(next domain.FavoritesStore) *TracedStore {
	return &TracedStore{next: next}
}

// List with tracing
func (t *TracedStore) List(ctx context.Context) (domain.Favorites, error) {
	ctx, span := tracer.Start(ctx, "store.List")
	defer span.End()

	favs, err := t.next.List(ctx)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("favorites.count", len(favs)))
	return favs, nil
}

// Contains with tracing
func (t *TracedStore) Contains(ctx context.Context, productID int) (bool, error) {
	ctx, span := tracer.Start(ctx, "store.Contains",
		trace.WithAttributes(attribute.Int("product.id", productID)),
	)
	defer span.End()

	ok, err := t.next.Contains(ctx, productID)
	if err != nil {
		recordError(span, err)
		return false, err
	}

	span.SetAttributes(attribute.Bool("product.favorited", ok))
	return ok, nil
}

// Toggle with tracing
func (t *TracedStore) Toggle(ctx context.Context, product domain.ProductSummary) (domain.Favorites, error) {
	ctx, span := tracer.Start(ctx, "store.Toggle",
		trace.WithAttributes(
			attribute.Int("product.id", product.ID),
			attribute.String("product.title", product.Title),
		),
	)
	defer span.End()

	favs, err := t.next.Toggle(ctx, product)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("favorites.count", len(favs)),
		attribute.Bool("product.favorited", favs.Contains(product.ID)),
	)
	return favs, nil
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	switch {
	case domain.IsStorageReadError(err):
		span.SetAttributes(attribute.String("error.kind", "storage_read"))
	case domain.IsStorageWriteError(err):
		span.SetAttributes(attribute.String("error.kind", "storage_write"))
	}
	span.SetStatus(codes.Error, err.Error())
}
