// Package redis caches aggregated relation views in Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/arxiv/relations-core/internal/domain/entities"
	"github.com/arxiv/relations-core/internal/infrastructure/config"
)

func aggregateKey(eprintID string, version int) string {
	return fmt.Sprintf("relations:aggregate:%s:%d", eprintID, version)
}

func keySetKey(eprintID string) string {
	return "relations:aggregate:keys:" + eprintID
}

// Cache implements ports.ViewCache on Redis. Entries carry a TTL as a
// backstop; submissions invalidate explicitly through a per-e-print key set
// so every cached version view is dropped together.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache creates a view cache from the redis configuration.
func NewCache(cfg config.RedisConfig) *Cache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &Cache{
		client: client,
		ttl:    cfg.TTL(),
	}
}

// GetAggregate returns the cached view for an e-print/version, with ok false
// on a miss.
func (c *Cache) GetAggregate(ctx context.Context, eprintID string, version int) ([]entities.RelationView, bool, error) {
	data, err := c.client.Get(ctx, aggregateKey(eprintID, version)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cached view: %w", err)
	}

	var views []entities.RelationView
	if err := json.Unmarshal(data, &views); err != nil {
		return nil, false, fmt.Errorf("decoding cached view: %w", err)
	}
	return views, true, nil
}

// SetAggregate stores the view and tracks its key for invalidation.
func (c *Cache) SetAggregate(ctx context.Context, eprintID string, version int, views []entities.RelationView) error {
	data, err := json.Marshal(views)
	if err != nil {
		return fmt.Errorf("encoding view: %w", err)
	}

	key := aggregateKey(eprintID, version)
	_, err = c.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		if err := p.Set(ctx, key, data, c.ttl).Err(); err != nil {
			return err
		}
		if err := p.SAdd(ctx, keySetKey(eprintID), key).Err(); err != nil {
			return err
		}
		return p.Expire(ctx, keySetKey(eprintID), c.ttl).Err()
	})
	if err != nil {
		return fmt.Errorf("writing cached view: %w", err)
	}
	return nil
}

// InvalidateEPrint drops every cached view for the e-print. A paper-level
// assertion changes the aggregate of every version, so all version keys go
// at once.
func (c *Cache) InvalidateEPrint(ctx context.Context, eprintID string) error {
	keys, err := c.client.SMembers(ctx, keySetKey(eprintID)).Result()
	if err != nil {
		return fmt.Errorf("listing cached views: %w", err)
	}

	keys = append(keys, keySetKey(eprintID))
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("dropping cached views: %w", err)
	}
	return nil
}

// Close closes the Redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}
