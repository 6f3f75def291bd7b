package catalog

import (
	"context"
	"errors"
	"time"

	apperrors "vocalcart/internal/common/errors"
	"vocalcart/internal/models"
)

// TimeoutSource bounds every search of the wrapped source by a deadline and
// reports an expired deadline as a catalog timeout.
type TimeoutSource struct {
	source  Source
	timeout time.Duration
}

// WithTimeout wraps src. A non-positive timeout returns src unchanged.
func WithTimeout(src Source, timeout time.Duration) Source {
	if timeout <= 0 {
		return src
	}
	return &TimeoutSource{source: src, timeout: timeout}
}

func (t *TimeoutSource) Name() string { return t.source.Name() }

func (t *TimeoutSource) Search(ctx context.Context, q Query) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	products, err := t.source.Search(ctx, q)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return nil, apperrors.NewCatalogTimeoutError(t.source.Name(), t.timeout)
		}
		return nil, err
	}
	return products, nil
}
