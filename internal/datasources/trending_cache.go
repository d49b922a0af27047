package datasources

import (
	"context"
	"time"

	"github.com/jbeshir/template-catalog/internal/domain"
)

// TrendingCache stores computed trending results. Get reports false on a miss.
type TrendingCache interface {
	GetTrending(ctx context.Context, key string) ([]domain.TrendingTemplate, bool, error)
	SetTrending(ctx context.Context, key string, results []domain.TrendingTemplate, ttl time.Duration) error
}

// NullTrendingCache is a null implementation of TrendingCache.
type NullTrendingCache struct{}

var _ TrendingCache = NullTrendingCache{}

func (NullTrendingCache) GetTrending(_ context.Context, _ string) ([]domain.TrendingTemplate, bool, error) {
	return nil, false, nil
}

func (NullTrendingCache) SetTrending(
	_ context.Context,
	_ string,
	_ []domain.TrendingTemplate,
	_ time.Duration,
) error {
	return nil
}
