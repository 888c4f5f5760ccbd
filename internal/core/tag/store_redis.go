// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/tsuzuri/internal/platform/constants"
)

// RedisCache stores the popular list as one JSON value.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis backed [Cache].
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Get implements [Cache].
func (cache *RedisCache) Get(context context.Context) ([]Popular, bool, error) {
	payload, err := cache.client.Get(context, constants.RedisKeyPopularTags).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis_popular_tags_get_failed: %w", err)
	}

	var tags []Popular
	if err := json.Unmarshal(payload, &tags); err != nil {
		// A corrupt entry is treated as a miss and overwritten on refresh
		return nil, false, nil
	}
	return tags, true, nil
}

// Set implements [Cache].
func (cache *RedisCache) Set(context context.Context, tags []Popular, ttl time.Duration) error {
	payload, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("popular_tags_encode_failed: %w", err)
	}

	if err := cache.client.Set(context, constants.RedisKeyPopularTags, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis_popular_tags_set_failed: %w", err)
	}
	return nil
}
