// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"context"
	"time"
)

// Repository aggregates tag usage from the post store.
type Repository interface {

	// PopularTags returns the limit most used tags, most used first. Ties are
	// broken by name.
	PopularTags(context context.Context, limit int) ([]Popular, error)
}

// Cache holds the computed popular list between refreshes.
type Cache interface {

	// Get returns the cached list. found is false on a miss.
	Get(context context.Context) (tags []Popular, found bool, err error)

	// Set stores the list for ttl.
	Set(context context.Context, tags []Popular, ttl time.Duration) error
}
