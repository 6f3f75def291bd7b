package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	apperrors "vocalcart/internal/common/errors"
	"vocalcart/internal/common/logger"
	"vocalcart/internal/models"
	"vocalcart/internal/nlp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type stubSource struct {
	name     string
	products []models.Product
	err      error
	delay    time.Duration
	calls    atomic.Int32
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Search(ctx context.Context, q Query) ([]models.Product, error) {
	s.calls.Add(1)
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	out := make([]models.Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

func createTestProduct(title string, price int, source string) models.Product {
	return models.Product{Title: title, Price: models.Price(price), Source: source}
}

func intPtr(v int) *int { return &v }

func titles(products []models.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Title
	}
	return out
}

func errorCode(t *testing.T, err error) apperrors.ErrorCode {
	t.Helper()
	se, ok := apperrors.AsStandardError(err)
	require.True(t, ok, "expected StandardError, got %v", err)
	return se.Code
}

// ==========================
// Query Tests
// ==========================

func TestFromParsed(t *testing.T) {
	q := FromParsed(nlp.ParsedQuery{
		Keywords: "footwear shoes",
		MaxPrice: intPtr(2000),
		Category: "footwear",
		Brand:    "nike",
		Color:    "white",
	}, 15)

	assert.Equal(t, "footwear shoes", q.Keywords)
	assert.Nil(t, q.MinPrice)
	require.NotNil(t, q.MaxPrice)
	assert.Equal(t, 2000, *q.MaxPrice)
	assert.Equal(t, "nike", q.Brand)
	assert.Equal(t, "white", q.Color)
	assert.Equal(t, 15, q.limit())
	assert.Equal(t, DefaultLimit, Query{}.limit())
}

func TestQuery_InPriceRange(t *testing.T) {
	tests := []struct {
		name     string
		query    Query
		price    int
		expected bool
	}{
		{name: "unbounded accepts unpriced", query: Query{}, price: 0, expected: true},
		{name: "under max", query: Query{MaxPrice: intPtr(2000)}, price: 1999, expected: true},
		{name: "max inclusive", query: Query{MaxPrice: intPtr(2000)}, price: 2000, expected: true},
		{name: "over max", query: Query{MaxPrice: intPtr(2000)}, price: 2001, expected: false},
		{name: "below min", query: Query{MinPrice: intPtr(500)}, price: 499, expected: false},
		{name: "inside range", query: Query{MinPrice: intPtr(500), MaxPrice: intPtr(1000)}, price: 750, expected: true},
		{name: "unpriced never bounded", query: Query{MaxPrice: intPtr(2000)}, price: 0, expected: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.query.InPriceRange(tt.price))
		})
	}
}

func TestSortByPrice(t *testing.T) {
	products := []models.Product{
		createTestProduct("C", 3000, "a"),
		createTestProduct("Unpriced", 0, "a"),
		createTestProduct("A", 1000, "a"),
		createTestProduct("B1", 2000, "a"),
		createTestProduct("B2", 2000, "b"),
	}
	SortByPrice(products)
	assert.Equal(t, []string{"A", "B1", "B2", "C", "Unpriced"}, titles(products))
}

func TestDecodeRecords(t *testing.T) {
	raw := []json.RawMessage{
		json.RawMessage(`{"title":"Running Shoe","price":"₹1,499","rating":4.3,"source":"Flipkart"}`),
		json.RawMessage(`{"title":"Lamp","price":499}`),
		json.RawMessage(`{"price":100}`),
		json.RawMessage(`{"title":""}`),
		json.RawMessage(`{"title":"Bad","price":{"amount":1}}`),
		json.RawMessage(`not json`),
	}

	products := decodeRecords(raw, "local", logger.NewTestLogger(t))

	require.Len(t, products, 2)
	assert.Equal(t, 1499, products[0].Price.Int())
	assert.Equal(t, models.Rating("4.3"), products[0].Rating)
	assert.Equal(t, "Flipkart", products[0].Source)
	assert.Equal(t, "local", products[1].Source)
}

// ==========================
// File Source Tests
// ==========================

const testDataset = `[
  {"title": "Nike Running Shoes", "price": "1,799", "rating": "4.4", "source": "Amazon"},
  {"title": "Puma Sneakers", "price": 2499, "source": "Flipkart"},
  {"title": "Cotton Kurta", "price": 799, "source": "Myntra"},
  {"title": "Canvas Shoe", "price": 650},
  {"title": "", "price": 10}
]`

func createTestFileSource(t *testing.T) *FileSource {
	src, err := newFileSourceFrom(strings.NewReader(testDataset), "test.json", logger.NewTestLogger(t))
	require.NoError(t, err)
	return src
}

func TestFileSource_Search(t *testing.T) {
	src := createTestFileSource(t)
	require.Equal(t, 4, src.Len())

	tests := []struct {
		name     string
		query    Query
		expected []string
	}{
		{name: "plural matches singular title", query: Query{Keywords: "footwear shoes"}, expected: []string{"Canvas Shoe", "Nike Running Shoes"}},
		{name: "price bound", query: Query{Keywords: "footwear shoes", MaxPrice: intPtr(1000)}, expected: []string{"Canvas Shoe"}},
		{name: "fallback matches all", query: Query{Keywords: "products"}, expected: []string{"Canvas Shoe", "Cotton Kurta", "Nike Running Shoes", "Puma Sneakers"}},
		{name: "limit", query: Query{Keywords: "products", Limit: 2}, expected: []string{"Canvas Shoe", "Cotton Kurta"}},
		{name: "no match", query: Query{Keywords: "unicorn"}, expected: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, err := src.Search(context.Background(), tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, titles(products))
		})
	}
}

func TestFileSource_AttributeTerms(t *testing.T) {
	src, err := newFileSourceFrom(strings.NewReader(`[
	  {"title": "Red Cotton Kurta", "price": 649},
	  {"title": "Nike Running Shoes", "price": 2495},
	  {"title": "Red Canvas Sneakers Shoes", "price": 1299},
	  {"title": "Puma Red Sneakers", "price": 1899},
	  {"title": "Leather Boots", "price": 3999}
	]`), "attrs.json", logger.NewTestLogger(t))
	require.NoError(t, err)

	tests := []struct {
		name     string
		query    Query
		expected []string
	}{
		{
			name:     "color must appear alongside a product term",
			query:    Query{Keywords: "footwear red shoes", Category: "footwear", Color: "red"},
			expected: []string{"Red Canvas Sneakers Shoes"},
		},
		{
			name:     "brand must appear",
			query:    Query{Keywords: "footwear nike shoes", Category: "footwear", Brand: "nike"},
			expected: []string{"Nike Running Shoes"},
		},
		{
			name:     "bare category matches by title category",
			query:    Query{Keywords: "footwear", Category: "footwear"},
			expected: []string{"Red Canvas Sneakers Shoes", "Puma Red Sneakers", "Nike Running Shoes", "Leather Boots"},
		},
		{
			name:     "modifier alone does not exclude",
			query:    Query{Keywords: "footwear cheap shoes", Category: "footwear"},
			expected: []string{"Red Canvas Sneakers Shoes", "Nike Running Shoes"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, err := src.Search(context.Background(), tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, titles(products))
		})
	}
}

func TestFileSource_DefaultSourceName(t *testing.T) {
	products, err := createTestFileSource(t).Search(context.Background(), Query{Keywords: "canvas"})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "local", products[0].Source)
}

func TestNewFileSource_Errors(t *testing.T) {
	_, err := NewFileSource("does/not/exist.json", logger.NewNoOpLogger())
	assert.Error(t, err)

	_, err = newFileSourceFrom(strings.NewReader(`{"title":"x"}`), "obj.json", logger.NewNoOpLogger())
	assert.Error(t, err)
}

// ==========================
// Multi Source Tests
// ==========================

func TestMultiSource_MergesAndSorts(t *testing.T) {
	amazon := &stubSource{name: "amazon", products: []models.Product{
		createTestProduct("Shoe A", 2000, "Amazon"),
		createTestProduct("Shoe C", 500, "Amazon"),
		createTestProduct("shoe c", 500, "Amazon"),
	}}
	flipkart := &stubSource{name: "flipkart", products: []models.Product{
		createTestProduct("Shoe A", 1800, "Flipkart"),
		createTestProduct("Shoe B", 0, "Flipkart"),
	}}

	m := NewMultiSource(20, logger.NewTestLogger(t), amazon, flipkart)
	products, err := m.Search(context.Background(), Query{Keywords: "shoes"})

	require.NoError(t, err)
	assert.Equal(t, []string{"Shoe C", "Shoe A", "Shoe A", "Shoe B"}, titles(products))
	assert.Equal(t, []string{"amazon", "flipkart"}, m.Sources())
}

func TestMultiSource_Truncates(t *testing.T) {
	var many []models.Product
	for i := 1; i <= 30; i++ {
		many = append(many, createTestProduct(fmt.Sprintf("Product %02d", i), i*100, "s"))
	}
	m := NewMultiSource(20, logger.NewNoOpLogger(), &stubSource{name: "s", products: many})

	products, err := m.Search(context.Background(), Query{Keywords: "p"})
	require.NoError(t, err)
	assert.Len(t, products, 20)
	assert.Equal(t, 100, products[0].Price.Int())
}

func TestMultiSource_PartialFailure(t *testing.T) {
	ok := &stubSource{name: "ok", products: []models.Product{createTestProduct("Lamp", 499, "ok")}}
	down := &stubSource{name: "down", err: errors.New("connection refused")}

	products, err := NewMultiSource(20, logger.NewTestLogger(t), ok, down).
		Search(context.Background(), Query{Keywords: "lamp"})

	require.NoError(t, err)
	assert.Equal(t, []string{"Lamp"}, titles(products))
}

func TestMultiSource_KeepsResultsBeforeDeadline(t *testing.T) {
	fast := &stubSource{name: "fast", products: []models.Product{createTestProduct("Lamp", 499, "fast")}}
	slow := &stubSource{name: "slow", delay: time.Second, products: []models.Product{createTestProduct("Late", 1, "slow")}}

	src := WithTimeout(NewMultiSource(20, logger.NewNoOpLogger(), fast, slow), 50*time.Millisecond)
	products, err := src.Search(context.Background(), Query{Keywords: "lamp"})

	require.NoError(t, err)
	assert.Equal(t, []string{"Lamp"}, titles(products))
}

func TestMultiSource_AllFail(t *testing.T) {
	m := NewMultiSource(20, logger.NewNoOpLogger(),
		&stubSource{name: "a", err: errors.New("boom")},
		&stubSource{name: "b", err: context.DeadlineExceeded},
	)

	_, err := m.Search(context.Background(), Query{Keywords: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAllSourcesDown)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMultiSource_NoSources(t *testing.T) {
	_, err := NewMultiSource(0, logger.NewNoOpLogger()).Search(context.Background(), Query{})
	assert.Equal(t, apperrors.ErrCodeCatalogUnavailable, errorCode(t, err))
	assert.ErrorIs(t, err, ErrNoSources)
}

// ==========================
// Timeout Tests
// ==========================

func TestWithTimeout(t *testing.T) {
	inner := &stubSource{name: "slow", delay: time.Second}

	assert.Same(t, Source(inner), WithTimeout(inner, 0))

	_, err := WithTimeout(inner, 20*time.Millisecond).Search(context.Background(), Query{})
	assert.Equal(t, apperrors.ErrCodeCatalogTimeout, errorCode(t, err))

	failing := &stubSource{name: "down", err: errors.New("refused")}
	_, err = WithTimeout(failing, time.Second).Search(context.Background(), Query{})
	assert.EqualError(t, err, "refused")
}
