package domain

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	favorites "github.com/tair/storefront/internal/favorites/domain"
)

var (
	// ErrProductNotFound is returned when the catalog has no product with the id
	ErrProductNotFound = errors.New("product not found")
	// ErrCatalogUnavailable is returned when the remote catalog cannot be reached
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)

// CategoryAll matches every category
const CategoryAll = "all"

// Product is a catalog record
type Product struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
}

// MarshalJSON writes the price as a bare JSON number
func (p Product) MarshalJSON() ([]byte, error) {
	type alias Product
	return json.Marshal(struct {
		alias
		Price json.Number `json:"price"`
	}{
		alias: alias(p),
		Price: json.Number(p.Price.String()),
	})
}

// Summary returns the subset of the product kept in favorites
func (p Product) Summary() favorites.ProductSummary {
	return favorites.ProductSummary{
		ID:    p.ID,
		Title: p.Title,
		Price: p.Price,
		Image: p.Image,
	}
}

// Catalog defines read access to the remote product catalog
type Catalog interface {
	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, id int) (*Product, error)
}

// Filter selects products whose title contains search, ignoring case, and
// whose category matches. An empty category or CategoryAll matches all.
func Filter(products []Product, search, category string) []Product {
	search = strings.ToLower(strings.TrimSpace(search))
	category = strings.TrimSpace(category)
	anyCategory := category == "" || strings.EqualFold(category, CategoryAll)

	out := make([]Product, 0, len(products))
	for _, p := range products {
		if search != "" && !strings.Contains(strings.ToLower(p.Title), search) {
			continue
		}
		if !anyCategory && p.Category != category {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Categories returns the distinct categories of products, sorted
func Categories(products []Product) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, p := range products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out
}
