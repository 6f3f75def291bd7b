package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"vocalcart/internal/common/database"
	apperrors "vocalcart/internal/common/errors"
	"vocalcart/internal/common/logger"
	"vocalcart/internal/models"
	"vocalcart/internal/nlp"
)

// ElasticsearchSource searches a product index.
type ElasticsearchSource struct {
	client *database.ElasticsearchClient
	index  string
	logger logger.Logger
}

func NewElasticsearchSource(client *database.ElasticsearchClient, index string, log logger.Logger) *ElasticsearchSource {
	return &ElasticsearchSource{
		client: client,
		index:  index,
		logger: logger.ForComponent(log, "catalog.elasticsearch"),
	}
}

func (s *ElasticsearchSource) Name() string { return "elasticsearch" }

func (s *ElasticsearchSource) Search(ctx context.Context, q Query) ([]models.Product, error) {
	resp, err := s.client.Search(ctx, s.index, BuildSearchQuery(q), q.limit())
	if err != nil {
		if errors.Is(err, database.ErrIndexNotFound) {
			return nil, apperrors.NewIndexNotFoundError(s.index)
		}
		return nil, apperrors.NewCatalogUnavailableError(s.Name(), err)
	}

	raw := make([]json.RawMessage, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		raw = append(raw, hit.Source)
	}
	products := decodeRecords(raw, s.index, s.logger)

	filtered := products[:0]
	for _, p := range products {
		if q.InPriceRange(p.Price.Int()) {
			filtered = append(filtered, p)
		}
	}

	s.logger.Debug("elasticsearch search complete", map[string]interface{}{
		"index":    s.index,
		"tookMs":   resp.Took,
		"total":    resp.Hits.Total.Value,
		"products": len(filtered),
	})
	return filtered, nil
}

// BuildSearchQuery builds the bool query for q. Keywords go to a multi_match
// over title, brand and category; price bounds become a range filter; brand
// and color only boost.
func BuildSearchQuery(q Query) map[string]interface{} {
	boolQuery := make(map[string]interface{})
	mustClauses := []interface{}{}
	filterClauses := []interface{}{}
	shouldClauses := []interface{}{}

	// Keyword search
	if keywords := strings.TrimSpace(q.Keywords); keywords != "" && keywords != nlp.FallbackKeywords {
		mustClauses = append(mustClauses, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  keywords,
				"fields": []string{"title^3", "brand^2", "category"},
				"type":   "best_fields",
			},
		})
	}

	// Price range filter
	if q.MinPrice != nil || q.MaxPrice != nil {
		priceRange := map[string]interface{}{}
		if q.MinPrice != nil {
			priceRange["gte"] = *q.MinPrice
		}
		if q.MaxPrice != nil {
			priceRange["lte"] = *q.MaxPrice
		}
		filterClauses = append(filterClauses, map[string]interface{}{
			"range": map[string]interface{}{"price": priceRange},
		})
	}

	if q.Brand != "" {
		shouldClauses = append(shouldClauses, map[string]interface{}{
			"match": map[string]interface{}{"brand": map[string]interface{}{"query": q.Brand, "boost": 2}},
		})
	}
	if q.Color != "" {
		shouldClauses = append(shouldClauses, map[string]interface{}{
			"match": map[string]interface{}{"title": q.Color},
		})
	}

	if len(mustClauses) == 0 {
		mustClauses = append(mustClauses, map[string]interface{}{"match_all": map[string]interface{}{}})
	}
	boolQuery["must"] = mustClauses
	if len(filterClauses) > 0 {
		boolQuery["filter"] = filterClauses
	}
	if len(shouldClauses) > 0 {
		boolQuery["should"] = shouldClauses
	}

	return map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
		"sort": []interface{}{
			"_score",
			map[string]interface{}{"price": map[string]interface{}{"order": "asc", "unmapped_type": "long"}},
		},
	}
}
