package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"soldeck/internal/application/port"
)

// Cache stores resolved USD prices per mint with a short TTL.
type Cache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func New(rdb *redis.Client, prefix string, ttl time.Duration) *Cache {
	if prefix == "" {
		prefix = "soldeck"
	}
	return &Cache{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (c *Cache) key(mint string) string {
	return fmt.Sprintf("%s:price:%s", c.prefix, mint)
}

func (c *Cache) GetPrice(ctx context.Context, mint string) (float64, bool, error) {
	v, err := c.rdb.Get(ctx, c.key(mint)).Float64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}

func (c *Cache) SetPrice(ctx context.Context, mint string, price float64) error {
	return c.rdb.Set(ctx, c.key(mint), price, c.ttl).Err()
}

var _ port.PriceCache = (*Cache)(nil)
