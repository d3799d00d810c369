package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	models "github.com/dairyflats/aerobook/internal"
	"github.com/redis/go-redis/v9"
)

const airportsKey = "catalog:airports"

// RedisCache holds a copy of the airport list. Airports are immutable seed
// data, so a short TTL is purely a guard against a reseeded database.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(addr, password string, db int, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db}),
		ttl:    ttl,
	}
}

func (c *RedisCache) GetAirports(ctx context.Context) ([]models.Airport, error) {
	data, err := c.client.Get(ctx, airportsKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var airports []models.Airport
	if err := json.Unmarshal(data, &airports); err != nil {
		return nil, err
	}
	return airports, nil
}

func (c *RedisCache) SetAirports(ctx context.Context, airports []models.Airport) error {
	payload, err := json.Marshal(airports)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, airportsKey, payload, c.ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
