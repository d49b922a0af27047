// Package redis caches computed trending rankings in Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jbeshir/template-catalog/internal/datasources"
	"github.com/jbeshir/template-catalog/internal/domain"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "trending:"

var _ datasources.TrendingCache = (*TrendingCache)(nil)

type TrendingCache struct {
	client *redis.Client
}

// Connect creates a client and checks the server is reachable.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis at %s: %w", addr, err)
	}
	return client, nil
}

func NewTrendingCache(client *redis.Client) *TrendingCache {
	return &TrendingCache{client: client}
}

func (c *TrendingCache) GetTrending(ctx context.Context, key string) ([]domain.TrendingTemplate, bool, error) {
	data, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("getting trending cache entry: %w", err)
	}

	var results []domain.TrendingTemplate
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, false, fmt.Errorf("decoding trending cache entry: %w", err)
	}
	return results, true, nil
}

func (c *TrendingCache) SetTrending(
	ctx context.Context,
	key string,
	results []domain.TrendingTemplate,
	ttl time.Duration,
) error {
	data, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("encoding trending cache entry: %w", err)
	}

	if err := c.client.Set(ctx, keyPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("setting trending cache entry: %w", err)
	}
	return nil
}

// PingContext reports whether the cache server is reachable.
func (c *TrendingCache) PingContext(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
