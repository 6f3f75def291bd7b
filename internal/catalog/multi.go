package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "vocalcart/internal/common/errors"
	"vocalcart/internal/common/logger"
	"vocalcart/internal/common/metrics"
	"vocalcart/internal/models"

	"golang.org/x/sync/errgroup"
)

// MultiSource fans a query out to every store concurrently and merges what
// comes back. A failing store is logged and skipped; the search only fails
// when every store does.
type MultiSource struct {
	sources    []Source
	maxResults int
	logger     logger.Logger
}

func NewMultiSource(maxResults int, log logger.Logger, sources ...Source) *MultiSource {
	if maxResults <= 0 {
		maxResults = DefaultLimit
	}
	return &MultiSource{
		sources:    sources,
		maxResults: maxResults,
		logger:     logger.ForComponent(log, "catalog.multi"),
	}
}

func (m *MultiSource) Name() string { return "multi" }

// Sources lists the wrapped store names.
func (m *MultiSource) Sources() []string {
	names := make([]string, len(m.sources))
	for i, s := range m.sources {
		names[i] = s.Name()
	}
	return names
}

func (m *MultiSource) Search(ctx context.Context, q Query) ([]models.Product, error) {
	if len(m.sources) == 0 {
		return nil, apperrors.NewCatalogUnavailableError(m.Name(), ErrNoSources)
	}
	q.Limit = m.maxResults

	results := make([][]models.Product, len(m.sources))
	errs := make([]error, len(m.sources))

	var g errgroup.Group
	for i, src := range m.sources {
		g.Go(func() error {
			start := time.Now()
			products, err := src.Search(ctx, q)
			metrics.CatalogSearchDuration.WithLabelValues(src.Name(), metrics.Outcome(err == nil)).
				Observe(time.Since(start).Seconds())
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", src.Name(), err)
				m.logger.Warn("product source failed", map[string]interface{}{
					"source": src.Name(),
					"error":  err.Error(),
				})
				return nil
			}
			metrics.CatalogResults.WithLabelValues(src.Name()).Observe(float64(len(products)))
			results[i] = products
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
		}
	}
	if failed == len(m.sources) {
		return nil, fmt.Errorf("%w: %w", ErrAllSourcesDown, errors.Join(errs...))
	}

	merged := merge(results)
	SortByPrice(merged)
	merged = truncate(merged, m.maxResults)

	m.logger.Info("multi-store search complete", map[string]interface{}{
		"keywords":      q.Keywords,
		"sources":       len(m.sources),
		"failedSources": failed,
		"results":       len(merged),
	})
	return merged, nil
}

// merge concatenates per-store results, dropping a listing a store returned
// twice. The same title from two stores is kept.
func merge(results [][]models.Product) []models.Product {
	seen := make(map[string]struct{})
	var out []models.Product
	for _, products := range results {
		for _, p := range products {
			key := p.Source + "\x00" + p.Key()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}
