package location

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "location:"

// RedisCache keeps resolved pincodes in Redis with a TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (r *RedisCache) Get(ctx context.Context, pincode string) (Location, bool, error) {
	b, err := r.client.Get(ctx, cacheKeyPrefix+pincode).Bytes()
	if errors.Is(err, redis.Nil) {
		return Location{}, false, nil
	}
	if err != nil {
		return Location{}, false, err
	}
	var loc Location
	if err := json.Unmarshal(b, &loc); err != nil {
		return Location{}, false, err
	}
	return loc, true, nil
}

func (r *RedisCache) Set(ctx context.Context, pincode string, loc Location) error {
	b, err := json.Marshal(loc)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, cacheKeyPrefix+pincode, b, r.ttl).Err()
}
