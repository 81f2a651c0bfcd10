package domain

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"
)

// FavoritesKey is the single slot key holding the serialized favorites collection
const FavoritesKey = "@favorites"

// ErrMissingID is returned when a stored favorite has no product id
var ErrMissingID = errors.New("favorite entry has no id")

// ProductSummary is the minimal product record kept in the favorites collection
type ProductSummary struct {
	ID    int             `json:"id"`
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
}

type productSummaryJSON struct {
	ID    *int            `json:"id"`
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
}

// MarshalJSON writes the price as a bare JSON number.
func (p ProductSummary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID    int         `json:"id"`
		Title string      `json:"title"`
		Price json.Number `json:"price"`
		Image string      `json:"image"`
	}{
		ID:    p.ID,
		Title: p.Title,
		Price: json.Number(p.Price.String()),
		Image: p.Image,
	})
}

// UnmarshalJSON requires an integer id. The price may be a number or a quoted
// decimal string; unknown fields are ignored.
func (p *ProductSummary) UnmarshalJSON(data []byte) error {
	var aux productSummaryJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.ID == nil {
		return ErrMissingID
	}
	*p = ProductSummary{
		ID:    *aux.ID,
		Title: aux.Title,
		Price: aux.Price,
		Image: aux.Image,
	}
	return nil
}

// Favorites is the ordered favorites collection, in insertion order
type Favorites []ProductSummary

// IndexOf returns the position of the product with the given id, or -1
func (f Favorites) IndexOf(productID int) int {
	for i, p := range f {
		if p.ID == productID {
			return i
		}
	}
	return -1
}

// Contains reports whether a product with the given id is present
func (f Favorites) Contains(productID int) bool {
	return f.IndexOf(productID) >= 0
}

// IDs returns product ids in collection order
func (f Favorites) IDs() []int {
	ids := make([]int, 0, len(f))
	for _, p := range f {
		ids = append(ids, p.ID)
	}
	return ids
}

// Toggle returns a new collection with the product removed when present or
// appended when absent. The receiver is never modified. added reports which
// of the two happened.
func (f Favorites) Toggle(product ProductSummary) (next Favorites, added bool) {
	idx := f.IndexOf(product.ID)
	if idx < 0 {
		next = make(Favorites, 0, len(f)+1)
		next = append(next, f...)
		return append(next, product), true
	}

	next = make(Favorites, 0, len(f)-1)
	next = append(next, f[:idx]...)
	return append(next, f[idx+1:]...), false
}

// DuplicateID returns the first id that occurs more than once
func (f Favorites) DuplicateID() (int, bool) {
	seen := make(map[int]struct{}, len(f))
	for _, p := range f {
		if _, ok := seen[p.ID]; ok {
			return p.ID, true
		}
		seen[p.ID] = struct{}{}
	}
	return 0, false
}

// FavoritesStore defines the contract for favorites access
type FavoritesStore interface {
	// List returns the whole collection. A never-written slot yields an empty collection.
	List(ctx context.Context) (Favorites, error)
	// Contains reports whether productID is currently favorited.
	Contains(ctx context.Context, productID int) (bool, error)
	// Toggle adds or removes product and returns the collection after the durable write.
	Toggle(ctx context.Context, product ProductSummary) (Favorites, error)
}
