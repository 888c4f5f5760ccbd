// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/tsuzuri/internal/platform/constants"
)

// # Redis View Tracker

// RedisViewTracker shares the view cooldown across API instances.
//
// A counted view is a successful SET NX with the cooldown as expiry. While
// the key lives, further SETs fail and the expiry is left untouched.
type RedisViewTracker struct {
	client   *redis.Client
	cooldown time.Duration
}

// NewRedisViewTracker constructs a Redis backed [ViewTracker].
func NewRedisViewTracker(client *redis.Client, cooldown time.Duration) *RedisViewTracker {
	return &RedisViewTracker{client: client, cooldown: cooldown}
}

func viewRedisKey(postID, viewerKey string) string {
	return fmt.Sprintf("%s%s:%s", constants.RedisPrefixView, postID, viewerKey)
}

// ShouldCountView implements [ViewTracker]. The clock is Redis' own, so now
// is not consulted.
func (tracker *RedisViewTracker) ShouldCountView(context context.Context, postID, viewerKey string, _ time.Time) (bool, error) {
	created, err := tracker.client.SetNX(context, viewRedisKey(postID, viewerKey), 1, tracker.cooldown).Result()
	if err != nil {
		return false, fmt.Errorf("view tracker: %w", err)
	}
	return created, nil
}
