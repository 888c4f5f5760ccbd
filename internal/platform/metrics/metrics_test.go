// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tsuzuri/internal/platform/metrics"
)

/*
TestMiddleware_RecordsRoutePattern labels requests with the chi route pattern, not the raw path.
*/
func TestMiddleware_RecordsRoutePattern(t *testing.T) {
	router := chi.NewRouter()
	router.Use(metrics.Middleware)
	router.Get("/posts/{id}", func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusTeapot)
	})

	counter := metrics.HTTPRequests.WithLabelValues(http.MethodGet, "/posts/{id}", "418")
	before := testutil.ToFloat64(counter)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/posts/abc", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/posts/def", nil))

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}

/*
TestHandler_ExposesCollectors serves the text exposition format.
*/
func TestHandler_ExposesCollectors(t *testing.T) {
	metrics.PostViews.WithLabelValues(metrics.ViewCounted).Inc()

	recorder := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	body, err := io.ReadAll(recorder.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "tsuzuri_post_views_total")
}

/*
TestObservePool reads the snapshot on every scrape.
*/
func TestObservePool(t *testing.T) {
	stats := metrics.PoolStats{Total: 4, Idle: 3, InUse: 1}
	metrics.ObservePool("test_backend", func() metrics.PoolStats { return stats })

	scrape := func() string {
		recorder := httptest.NewRecorder()
		metrics.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		return recorder.Body.String()
	}

	assert.Contains(t, scrape(), `tsuzuri_pool_connections{backend="test_backend",state="in_use"} 1`)

	stats.InUse = 2
	assert.Contains(t, scrape(), `tsuzuri_pool_connections{backend="test_backend",state="in_use"} 2`)
	assert.Contains(t, scrape(), `tsuzuri_pool_connections{backend="test_backend",state="idle"} 3`)
}
