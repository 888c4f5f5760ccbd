// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package metrics exposes the Prometheus collectors of the API and the HTTP
middleware that feeds them.

Collectors are registered on the default registry through promauto and are
served by [Handler] at /metrics.
*/
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// # Collectors

var (
	// HTTPRequests counts finished requests by method, route pattern and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tsuzuri_http_requests_total",
		Help: "Total number of HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	// HTTPDuration records request latency by method and route pattern.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tsuzuri_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// PostViews counts view requests by outcome ("counted" or "suppressed").
	PostViews = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tsuzuri_post_views_total",
		Help: "Post view requests by deduplication outcome",
	}, []string{"outcome"})

	// CacheLookups counts cache reads by cache name and result ("hit" or "miss").
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tsuzuri_cache_lookups_total",
		Help: "Cache lookups by cache and result",
	}, []string{"cache", "result"})

	// RedisErrors counts Redis failures by operation.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tsuzuri_redis_errors_total",
		Help: "Total number of Redis errors by operation",
	}, []string{"operation"})
)

// View outcomes.
const (
	ViewCounted    = "counted"
	ViewSuppressed = "suppressed"
)

// # Connection Pools

// PoolStats is a point-in-time view of a connection pool.
type PoolStats struct {
	Total float64
	Idle  float64
	InUse float64
}

// ObservePool exports tsuzuri_pool_connections gauges for one backend.
// The snapshot is taken on every scrape. Call it once per backend.
func ObservePool(backend string, snapshot func() PoolStats) {
	states := map[string]func(PoolStats) float64{
		"total":  func(stats PoolStats) float64 { return stats.Total },
		"idle":   func(stats PoolStats) float64 { return stats.Idle },
		"in_use": func(stats PoolStats) float64 { return stats.InUse },
	}

	for state, pick := range states {
		promauto.NewGaugeFunc(prometheus.GaugeOpts{
			Name:        "tsuzuri_pool_connections",
			Help:        "Connections of a backend pool by state",
			ConstLabels: prometheus.Labels{"backend": backend, "state": state},
		}, func() float64 { return pick(snapshot()) })
	}
}

// # HTTP Integration

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (recorder *statusRecorder) WriteHeader(code int) {
	recorder.status = code
	recorder.ResponseWriter.WriteHeader(code)
}

// Middleware records [HTTPRequests] and [HTTPDuration] for every request.
//
// The route label is the matched chi pattern (e.g. /api/posts/{id}/view) so
// label cardinality stays bounded by the route table.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		startTime := time.Now()
		recorder := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}

		next.ServeHTTP(recorder, request)

		route := "unmatched"
		if routeContext := chi.RouteContext(request.Context()); routeContext != nil {
			if pattern := routeContext.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		HTTPRequests.WithLabelValues(request.Method, route, strconv.Itoa(recorder.status)).Inc()
		HTTPDuration.WithLabelValues(request.Method, route).Observe(time.Since(startTime).Seconds())
	})
}
