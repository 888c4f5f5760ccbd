// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/tsuzuri/internal/api"
	"github.com/taibuivan/tsuzuri/internal/testutil"
)

/*
TestReadiness reports 503 as soon as one dependency fails.
*/
func TestReadiness(t *testing.T) {
	healthy := api.HealthCheck{Name: "postgres", Check: func(context.Context) error { return nil }}
	failing := api.HealthCheck{Name: "redis", Check: func(context.Context) error { return errors.New("connection refused") }}

	tests := []struct {
		name   string
		checks []api.HealthCheck
		status int
		body   string
	}{
		{
			name:   "all_healthy",
			checks: []api.HealthCheck{healthy},
			status: http.StatusOK,
			body:   `{"data":{"status":"ready","checks":[{"name":"postgres","ok":true}]}}`,
		},
		{
			name:   "redis_down",
			checks: []api.HealthCheck{healthy, failing},
			status: http.StatusServiceUnavailable,
			body:   `{"data":{"status":"degraded","checks":[{"name":"postgres","ok":true},{"name":"redis","ok":false,"error":"connection refused"}]}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, readiness := api.NewHealthHandlers(testutil.Logger(), tt.checks...)
			recorder := httptest.NewRecorder()
			readiness(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))

			assert.Equal(t, tt.status, recorder.Code)
			assert.JSONEq(t, tt.body, recorder.Body.String())
		})
	}
}

/*
TestLiveness always answers ok.
*/
func TestLiveness(t *testing.T) {
	liveness, _ := api.NewHealthHandlers(testutil.Logger())
	recorder := httptest.NewRecorder()
	liveness(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"data":{"status":"ok"}}`, recorder.Body.String())
}
