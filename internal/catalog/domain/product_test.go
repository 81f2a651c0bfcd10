package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() []Product {
	return []Product{
		{ID: 1, Title: "Fjallraven - Foldsack No. 1 Backpack", Category: "men's clothing"},
		{ID: 5, Title: "John Hardy Women's Legends Naga Bracelet", Category: "jewelery"},
		{ID: 9, Title: "WD 2TB Elements Portable External Hard Drive", Category: "electronics"},
		{ID: 10, Title: "SanDisk SSD PLUS 1TB Internal SSD", Category: "electronics"},
	}
}

func ids(products []Product) []int {
	out := make([]int, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name     string
		search   string
		category string
		want     []int
	}{
		{name: "no filter", want: []int{1, 5, 9, 10}},
		{name: "search ignores case", search: "ssd", want: []int{10}},
		{name: "search substring", search: "drive", want: []int{9}},
		{name: "category", category: "electronics", want: []int{9, 10}},
		{name: "category all", category: "All", want: []int{1, 5, 9, 10}},
		{name: "search and category", search: "w", category: "jewelery", want: []int{5}},
		{name: "no match", search: "laptop", want: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(sample(), tt.search, tt.category)))
		})
	}
}

func TestCategories(t *testing.T) {
	assert.Equal(t, []string{"electronics", "jewelery", "men's clothing"}, Categories(sample()))
	assert.Equal(t, []string{}, Categories(nil))
}

func TestProductJSON(t *testing.T) {
	var p Product
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": 1,
		"title": "Backpack",
		"price": 109.95,
		"description": "Your perfect pack",
		"category": "men's clothing",
		"image": "https://fakestoreapi.com/img/1.jpg",
		"rating": {"rate": 3.9, "count": 120}
	}`), &p))
	assert.True(t, decimal.RequireFromString("109.95").Equal(p.Price))

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": 1,
		"title": "Backpack",
		"price": 109.95,
		"description": "Your perfect pack",
		"category": "men's clothing",
		"image": "https://fakestoreapi.com/img/1.jpg"
	}`, string(out))

	s := p.Summary()
	assert.Equal(t, 1, s.ID)
	assert.Equal(t, "Backpack", s.Title)
}
