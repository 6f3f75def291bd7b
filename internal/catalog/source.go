// Package catalog provides the product sources a session searches: an
// Elasticsearch index, a remote JSON API, a local JSON dataset, a merging
// fan-out over several of them, a redis result cache and a deadline guard.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"

	"vocalcart/internal/common/logger"
	"vocalcart/internal/common/validation"
	"vocalcart/internal/models"
	"vocalcart/internal/nlp"
)

var (
	ErrNoSources      = errors.New("NO_PRODUCT_SOURCES")
	ErrAllSourcesDown = errors.New("ALL_PRODUCT_SOURCES_FAILED")
)

// DefaultLimit caps a query that does not set one.
const DefaultLimit = 20

// Query is what a source is asked for. Bounds are inclusive.
type Query struct {
	Keywords string `json:"keywords"`
	MinPrice *int   `json:"min_price,omitempty"`
	MaxPrice *int   `json:"max_price,omitempty"`
	Category string `json:"category,omitempty"`
	Brand    string `json:"brand,omitempty"`
	Color    string `json:"color,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

// FromParsed converts extractor output into a source query.
func FromParsed(p nlp.ParsedQuery, limit int) Query {
	return Query{
		Keywords: p.Keywords,
		MinPrice: p.MinPrice,
		MaxPrice: p.MaxPrice,
		Category: p.Category,
		Brand:    p.Brand,
		Color:    p.Color,
		Limit:    limit,
	}
}

func (q Query) limit() int {
	if q.Limit <= 0 {
		return DefaultLimit
	}
	return q.Limit
}

// InPriceRange reports whether price satisfies both bounds. Products without
// a price never pass a bounded query.
func (q Query) InPriceRange(price int) bool {
	if q.MinPrice == nil && q.MaxPrice == nil {
		return true
	}
	if price <= 0 {
		return false
	}
	if q.MinPrice != nil && price < *q.MinPrice {
		return false
	}
	if q.MaxPrice != nil && price > *q.MaxPrice {
		return false
	}
	return true
}

// Source is a product catalog.
type Source interface {
	Name() string
	Search(ctx context.Context, q Query) ([]models.Product, error)
}

// SortByPrice orders products cheapest first. Unpriced products go last and
// ties keep their original order.
func SortByPrice(products []models.Product) {
	sort.SliceStable(products, func(i, j int) bool {
		pi, pj := products[i].Price.Int(), products[j].Price.Int()
		if pi <= 0 || pj <= 0 {
			return pi > 0 && pj <= 0
		}
		return pi < pj
	})
}

func truncate(products []models.Product, n int) []models.Product {
	if n > 0 && len(products) > n {
		return products[:n]
	}
	return products
}

const productSchemaJSON = `{
  "type": "object",
  "required": ["title"],
  "properties": {
    "title":  {"type": "string", "minLength": 1},
    "price":  {"type": ["number", "string", "null"]},
    "rating": {"type": ["number", "string", "null"]},
    "source": {"type": "string"},
    "url":    {"type": "string"}
  }
}`

var productSchema = validation.MustCompile(productSchemaJSON)

// decodeRecords validates and decodes raw product records. Invalid records are
// skipped and logged; a missing source is filled in with defaultSource.
func decodeRecords(raw []json.RawMessage, defaultSource string, log logger.Logger) []models.Product {
	out := make([]models.Product, 0, len(raw))
	for i, rec := range raw {
		res, err := productSchema.ValidateBytes(rec)
		if err != nil || !res.Valid {
			reason := "malformed json"
			if res != nil {
				reason = res.Error()
			}
			log.Warn("skipping invalid product record", map[string]interface{}{
				"index":  i,
				"reason": reason,
			})
			continue
		}

		var p models.Product
		if err := json.Unmarshal(rec, &p); err != nil {
			log.Warn("skipping undecodable product record", map[string]interface{}{
				"index": i,
				"error": err.Error(),
			})
			continue
		}
		p.Title = strings.TrimSpace(p.Title)
		if p.IsZero() {
			continue
		}
		if p.Source == "" {
			p.Source = defaultSource
		}
		out = append(out, p)
	}
	return out
}
