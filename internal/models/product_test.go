package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePrice(t *testing.T) {
	tests := []struct {
		name     string
		raw      interface{}
		expected int
	}{
		{name: "int", raw: 1499, expected: 1499},
		{name: "negative int clamps", raw: -5, expected: 0},
		{name: "float truncates", raw: 999.99, expected: 999},
		{name: "rupee symbol and commas", raw: "₹1,499", expected: 1499},
		{name: "rs prefix with decimals", raw: "Rs. 2,000.00", expected: 2000},
		{name: "range keeps lower bound", raw: "1,299 - 1,599", expected: 1299},
		{name: "empty string", raw: "", expected: 0},
		{name: "no digits", raw: "Price on request", expected: 0},
		{name: "overflow", raw: "99999999999999999999", expected: 0},
		{name: "json number", raw: json.Number("250"), expected: 250},
		{name: "nil", raw: nil, expected: 0},
		{name: "unsupported type", raw: []int{1}, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizePrice(tt.raw))
		})
	}
}

func TestProduct_UnmarshalHeterogeneousRecords(t *testing.T) {
	raw := `[
		{"title":"Running Shoe","price":1500,"rating":4.2,"source":"Flipkart"},
		{"title":"Kurta","price":"₹799","rating":"3.9 out of 5","source":"Myntra"},
		{"title":"Lamp","price":null,"rating":"No rating","source":"Amazon"},
		{"title":"Desk","price":"call us","source":"Amazon","url":"https://example.test/desk"}
	]`

	var products []Product
	require.NoError(t, json.Unmarshal([]byte(raw), &products))
	require.Len(t, products, 4)

	assert.Equal(t, Price(1500), products[0].Price)
	v, ok := products[0].Rating.Value()
	assert.True(t, ok)
	assert.InDelta(t, 4.2, v, 0.0001)

	assert.Equal(t, 799, products[1].Price.Int())
	v, ok = products[1].Rating.Value()
	assert.True(t, ok)
	assert.InDelta(t, 3.9, v, 0.0001)

	assert.Equal(t, Price(0), products[2].Price)
	assert.False(t, products[2].Rating.Present())
	_, ok = products[2].Rating.Value()
	assert.False(t, ok)

	assert.Equal(t, Price(0), products[3].Price)
	assert.Equal(t, "https://example.test/desk", products[3].URL)
}

func TestProduct_KeyAndZero(t *testing.T) {
	assert.Equal(t, "shoe a", Product{Title: "  Shoe A "}.Key())
	assert.True(t, Product{Title: "   "}.IsZero())
	assert.False(t, Product{Title: "x"}.IsZero())
}
