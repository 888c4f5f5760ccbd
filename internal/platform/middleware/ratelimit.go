// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/taibuivan/tsuzuri/internal/platform/apperr"
	"github.com/taibuivan/tsuzuri/internal/platform/constants"
	"github.com/taibuivan/tsuzuri/internal/platform/respond"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// visitors holds one token bucket per client IP.
type visitors struct {
	mu      sync.Mutex
	clients map[string]*visitor
	limit   rate.Limit
	burst   int
}

// reserve spends one token for ip and returns how long the caller must wait
// before being allowed, zero when the request may proceed now.
func (table *visitors) reserve(ip string, now time.Time) time.Duration {
	table.mu.Lock()
	defer table.mu.Unlock()

	client, found := table.clients[ip]
	if !found {
		client = &visitor{limiter: rate.NewLimiter(table.limit, table.burst)}
		table.clients[ip] = client
	}
	client.lastSeen = now

	if client.limiter.AllowN(now, 1) {
		return 0
	}
	if table.limit <= 0 {
		return time.Second
	}
	return max(time.Duration(float64(time.Second)/float64(table.limit)), time.Second)
}

// sweep forgets clients idle for longer than ttl.
func (table *visitors) sweep(now time.Time, ttl time.Duration) {
	table.mu.Lock()
	defer table.mu.Unlock()

	for ip, client := range table.clients {
		if now.Sub(client.lastSeen) > ttl {
			delete(table.clients, ip)
		}
	}
}

// RateLimit limits requests per client IP with a token bucket.
//
// Each call owns its own client table. The sweeper goroutine stops when
// context is cancelled. Rejected requests get 429 and a Retry-After header.
func RateLimit(context context.Context, requestsPerSecond float64, burst int) func(http.Handler) http.Handler {
	table := &visitors{
		clients: make(map[string]*visitor),
		limit:   rate.Limit(requestsPerSecond),
		burst:   burst,
	}

	go func() {
		ticker := time.NewTicker(constants.RateLimitCleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case now := <-ticker.C:
				table.sweep(now, constants.RateLimitClientTTL)
			case <-context.Done():
				return
			}
		}
	}()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			wait := table.reserve(RealIP(request), time.Now())
			if wait > 0 {
				seconds := int(math.Ceil(wait.Seconds()))
				writer.Header().Set("Retry-After", strconv.Itoa(seconds))
				respond.Error(writer, request, apperr.RateLimited(seconds))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
