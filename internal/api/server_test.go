// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/tsuzuri/internal/api"
	"github.com/taibuivan/tsuzuri/internal/platform/config"
	"github.com/taibuivan/tsuzuri/internal/platform/sec"
	"github.com/taibuivan/tsuzuri/internal/testutil"
)

type rejectAll struct{}

func (rejectAll) VerifyToken(string) (*sec.AuthClaims, error) {
	return nil, errors.New("no tokens in this test")
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{
		ServerPort:     "0",
		Environment:    "production",
		AllowedOrigins: []string{"tsuzuri.app"},
		RateLimitRPS:   100,
		RateLimitBurst: 100,
	}
	liveness, readiness := api.NewHealthHandlers(testutil.Logger())
	return api.NewServer(t.Context(), cfg, testutil.Logger(), rejectAll{}, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
	}).Handler()
}

/*
TestServer_Routing answers infrastructure routes and reports unknown ones as JSON.
*/
func TestServer_Routing(t *testing.T) {
	handler := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		status int
		body   string
	}{
		{"health", http.MethodGet, "/health", http.StatusOK, `"ok"`},
		{"ready_without_checks", http.MethodGet, "/ready", http.StatusOK, ""},
		{"metrics", http.MethodGet, "/metrics", http.StatusOK, "tsuzuri_http_requests_total"},
		{"unknown", http.MethodGet, "/api/nowhere", http.StatusNotFound, `"NOT_FOUND"`},
		{"wrong_method", http.MethodDelete, "/health", http.StatusMethodNotAllowed, `"METHOD_NOT_ALLOWED"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.status, recorder.Code)
			assert.NotEmpty(t, recorder.Header().Get("X-Request-ID"))
			if tt.body != "" {
				assert.Contains(t, recorder.Body.String(), tt.body)
			}
		})
	}
}

/*
TestServer_PreflightBeforeAuth answers CORS pre-flight even with a bad token cookie.
*/
func TestServer_PreflightBeforeAuth(t *testing.T) {
	handler := newTestServer(t)

	request := httptest.NewRequest(http.MethodOptions, "/api/posts", nil)
	request.Header.Set("Origin", "https://tsuzuri.app")
	request.AddCookie(&http.Cookie{Name: "access_token", Value: "stale"})
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, "https://tsuzuri.app", recorder.Header().Get("Access-Control-Allow-Origin"))
}

/*
TestServer_RejectsBadToken returns 401 for a token that fails verification.
*/
func TestServer_RejectsBadToken(t *testing.T) {
	handler := newTestServer(t)

	request := httptest.NewRequest(http.MethodGet, "/health", nil)
	request.Header.Set("Authorization", "Bearer forged")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
