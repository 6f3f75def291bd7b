package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	apperrors "vocalcart/internal/common/errors"
	commonhttp "vocalcart/internal/common/http"
	"vocalcart/internal/common/logger"
	"vocalcart/internal/models"
)

// HTTPSource queries a remote product API that answers
// GET <base>?q=&min_price=&max_price=&limit= with either a JSON array of
// products or an object holding them under "products".
type HTTPSource struct {
	client  *commonhttp.Client
	baseURL string
	name    string
	logger  logger.Logger
}

func NewHTTPSource(client *commonhttp.Client, baseURL, apiKey string, log logger.Logger) *HTTPSource {
	if apiKey != "" {
		client.WithHeader("X-API-Key", apiKey)
	}
	name := "http"
	if u, err := url.Parse(baseURL); err == nil && u.Host != "" {
		name = u.Hostname()
	}
	return &HTTPSource{
		client:  client,
		baseURL: baseURL,
		name:    name,
		logger:  logger.ForComponent(log, "catalog.http"),
	}
}

func (s *HTTPSource) Name() string { return "http" }

func (s *HTTPSource) Search(ctx context.Context, q Query) ([]models.Product, error) {
	endpoint, err := s.buildURL(q)
	if err != nil {
		return nil, apperrors.NewCatalogUnavailableError(s.Name(), err)
	}

	var body json.RawMessage
	if err := s.client.GetJSON(ctx, endpoint, &body); err != nil {
		return nil, apperrors.NewCatalogUnavailableError(s.Name(), err)
	}

	raw, err := productRecords(body)
	if err != nil {
		return nil, apperrors.NewCatalogUnavailableError(s.Name(), err)
	}

	products := decodeRecords(raw, s.name, s.logger)
	filtered := products[:0]
	for _, p := range products {
		if q.InPriceRange(p.Price.Int()) {
			filtered = append(filtered, p)
		}
	}
	return truncate(filtered, q.limit()), nil
}

func (s *HTTPSource) buildURL(q Query) (string, error) {
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse api url: %w", err)
	}
	params := u.Query()
	params.Set("q", q.Keywords)
	if q.MinPrice != nil {
		params.Set("min_price", strconv.Itoa(*q.MinPrice))
	}
	if q.MaxPrice != nil {
		params.Set("max_price", strconv.Itoa(*q.MaxPrice))
	}
	if q.Category != "" {
		params.Set("category", q.Category)
	}
	params.Set("limit", strconv.Itoa(q.limit()))
	u.RawQuery = params.Encode()
	return u.String(), nil
}

func productRecords(body json.RawMessage) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	var raw []json.RawMessage
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, fmt.Errorf("decode product list: %w", err)
		}
		return raw, nil
	}

	var envelope struct {
		Products []json.RawMessage `json:"products"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("decode product envelope: %w", err)
	}
	return envelope.Products, nil
}
