// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"context"
	"log/slog"
	"time"

	"github.com/taibuivan/tsuzuri/internal/platform/constants"
	"github.com/taibuivan/tsuzuri/internal/platform/metrics"
)

const cacheName = "popular_tags"

// Service reads the popular tag list through the cache.
type Service struct {
	repo   Repository
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger
}

// NewService constructs a new [Service]. A non-positive ttl falls back to
// constants.PopularTagsTTL.
func NewService(repo Repository, cache Cache, ttl time.Duration, logger *slog.Logger) *Service {
	if ttl <= 0 {
		ttl = constants.PopularTagsTTL
	}
	return &Service{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

/*
PopularTags returns the most used tags.

Description: A cached list is served as is until it expires. Cache
failures are logged and the list is computed from the database.

Returns:
  - []Popular: At most constants.PopularTagsLimit entries
  - error: Database errors
*/
func (service *Service) PopularTags(context context.Context) ([]Popular, error) {
	tags, found, err := service.cache.Get(context)
	if err != nil {
		metrics.RedisErrors.WithLabelValues("popular_tags_get").Inc()
		service.logger.Warn("popular_tags_cache_unavailable", slog.Any("error", err))
	}
	if found {
		metrics.CacheLookups.WithLabelValues(cacheName, "hit").Inc()
		return tags, nil
	}
	metrics.CacheLookups.WithLabelValues(cacheName, "miss").Inc()

	tags, err = service.repo.PopularTags(context, constants.PopularTagsLimit)
	if err != nil {
		return nil, err
	}

	if err := service.cache.Set(context, tags, service.ttl); err != nil {
		metrics.RedisErrors.WithLabelValues("popular_tags_set").Inc()
		service.logger.Warn("popular_tags_cache_write_failed", slog.Any("error", err))
	}
	return tags, nil
}
