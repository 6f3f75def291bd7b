package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"vocalcart/internal/common/logger"
	"vocalcart/internal/models"
	"vocalcart/internal/nlp"
)

// FileSource serves an operator supplied JSON array of products. The file is
// read once at construction.
type FileSource struct {
	path     string
	products []models.Product
	logger   logger.Logger
}

// NewFileSource loads path.
func NewFileSource(path string, log logger.Logger) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open product file: %w", err)
	}
	defer f.Close()
	return newFileSourceFrom(f, path, log)
}

func newFileSourceFrom(r io.Reader, path string, log logger.Logger) (*FileSource, error) {
	l := logger.ForComponent(log, "catalog.file")

	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode product file %s: %w", path, err)
	}
	products := decodeRecords(raw, "local", l)

	l.Info("product file loaded", map[string]interface{}{
		"path":     path,
		"records":  len(raw),
		"products": len(products),
	})
	return &FileSource{path: path, products: products, logger: l}, nil
}

func (s *FileSource) Name() string { return "file" }

// Len is the number of valid products loaded.
func (s *FileSource) Len() int { return len(s.products) }

// Search returns the products whose price fits the bounds and whose title
// carries the requested brand and color plus at least one other query term.
// A bare category is matched against the category the title implies. The
// fallback query matches everything.
func (s *FileSource) Search(ctx context.Context, q Query) ([]models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	match := newTitleMatcher(q)
	var out []models.Product
	for _, p := range s.products {
		if !q.InPriceRange(p.Price.Int()) {
			continue
		}
		if !match.matches(p.Title) {
			continue
		}
		out = append(out, p)
	}
	SortByPrice(out)
	return truncate(out, q.limit()), nil
}

type titleMatcher struct {
	required []string
	anyOf    []string
	category string
}

func newTitleMatcher(q Query) titleMatcher {
	var m titleMatcher
	skip := map[string]bool{}
	for _, attr := range []string{q.Brand, q.Color} {
		if attr = strings.ToLower(strings.TrimSpace(attr)); attr != "" {
			m.required = append(m.required, attr)
			skip[stem(attr)] = true
		}
	}

	category := strings.ToLower(q.Category)
	for _, t := range searchTerms(q.Keywords) {
		if skip[t] || t == category {
			continue
		}
		m.anyOf = append(m.anyOf, t)
	}
	if len(m.anyOf) == 0 {
		m.category = category
	}
	return m
}

func (m titleMatcher) matches(title string) bool {
	title = strings.ToLower(title)
	for _, t := range m.required {
		if !strings.Contains(title, t) {
			return false
		}
	}
	if m.category != "" && nlp.CategoryOf(title) != m.category {
		return false
	}
	if len(m.anyOf) == 0 {
		return true
	}
	for _, t := range m.anyOf {
		if strings.Contains(title, t) {
			return true
		}
	}
	return false
}

func searchTerms(keywords string) []string {
	var terms []string
	for _, w := range strings.Fields(strings.ToLower(keywords)) {
		if w == nlp.FallbackKeywords || len(w) < 3 {
			continue
		}
		terms = append(terms, stem(w))
	}
	return terms
}

// stem drops a plural s so "shoes" finds "Canvas Shoe".
func stem(w string) string {
	if len(w) > 3 && strings.HasSuffix(w, "s") {
		return strings.TrimSuffix(w, "s")
	}
	return w
}
