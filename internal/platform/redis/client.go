// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis provides the managed client for volatile data: view
deduplication markers, the popular tag cache and password reset tokens.
*/
package redis

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/tsuzuri/internal/platform/metrics"
)

const (
	defaultPoolSize = 10
	dialTimeout     = 3 * time.Second
	readTimeout     = 2 * time.Second
	writeTimeout    = 2 * time.Second
	pingTimeout     = 2 * time.Second
)

/*
NewClient parses a Redis URL and returns a connected client.

Parameters:
  - context: Bounds the initial ping
  - redisURL: redis:// or rediss:// URL
  - poolSize: Maximum socket connections, 0 selects the default
*/
func NewClient(context stdctx.Context, redisURL string, poolSize int, logger *slog.Logger) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	options.PoolSize = defaultPoolSize
	if poolSize > 0 {
		options.PoolSize = poolSize
	}
	options.MinIdleConns = max(options.PoolSize/5, 1)
	options.DialTimeout = dialTimeout
	options.ReadTimeout = readTimeout
	options.WriteTimeout = writeTimeout

	client := redis.NewClient(options)

	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis client connected",
		slog.String("addr", options.Addr),
		slog.Int("pool_size", options.PoolSize),
	)
	return client, nil
}

// Ping verifies that the Redis client is healthy.
func Ping(context stdctx.Context, client *redis.Client) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}
	return nil
}

// Stats snapshots the client pool for [metrics.ObservePool].
func Stats(client *redis.Client) metrics.PoolStats {
	stat := client.PoolStats()
	return metrics.PoolStats{
		Total: float64(stat.TotalConns),
		Idle:  float64(stat.IdleConns),
		InUse: float64(stat.TotalConns - stat.IdleConns),
	}
}
