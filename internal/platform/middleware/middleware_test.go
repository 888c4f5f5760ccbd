// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/tsuzuri/internal/platform/ctxutil"
	"github.com/taibuivan/tsuzuri/internal/platform/middleware"
	"github.com/taibuivan/tsuzuri/internal/platform/sec"
	"github.com/taibuivan/tsuzuri/internal/testutil"
)

type stubVerifier struct {
	valid map[string]*sec.AuthClaims
}

func (verifier stubVerifier) VerifyToken(token string) (*sec.AuthClaims, error) {
	if claims, ok := verifier.valid[token]; ok {
		return claims, nil
	}
	return nil, errors.New("bad token")
}

// echoUser writes the authenticated user ID (or "anonymous") to the body.
var echoUser = http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
	if claims := ctxutil.GetAuthUser(request.Context()); claims != nil {
		_, _ = writer.Write([]byte(claims.UserID))
		return
	}
	_, _ = writer.Write([]byte("anonymous"))
})

/*
TestAuthenticate covers header, cookie, anonymous and rejected credentials.
*/
func TestAuthenticate(t *testing.T) {
	verifier := stubVerifier{valid: map[string]*sec.AuthClaims{
		"good": {UserID: "user-1", Role: "member"},
	}}
	handler := middleware.Authenticate(verifier)(echoUser)

	tests := []struct {
		name   string
		header string
		cookie string
		status int
		body   string
	}{
		{"anonymous", "", "", http.StatusOK, "anonymous"},
		{"bearer_header", "Bearer good", "", http.StatusOK, "user-1"},
		{"cookie_fallback", "", "good", http.StatusOK, "user-1"},
		{"bad_scheme", "Basic good", "", http.StatusUnauthorized, ""},
		{"bad_token", "Bearer nope", "", http.StatusUnauthorized, ""},
		{"bad_cookie", "", "nope", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				request.AddCookie(&http.Cookie{Name: "access_token", Value: tt.cookie})
			}

			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.status, recorder.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, recorder.Body.String())
			}
		})
	}
}

/*
TestRequireAuth rejects anonymous callers.
*/
func TestRequireAuth(t *testing.T) {
	handler := middleware.RequireAuth(echoUser)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request = request.WithContext(ctxutil.WithAuthUser(request.Context(), &sec.AuthClaims{UserID: "user-1"}))
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

/*
TestRequireRole enforces the role hierarchy.
*/
func TestRequireRole(t *testing.T) {
	handler := middleware.RequireRole(sec.RoleAdmin)(echoUser)

	member := httptest.NewRequest(http.MethodPost, "/", nil)
	member = member.WithContext(ctxutil.WithAuthUser(member.Context(), &sec.AuthClaims{UserID: "u", Role: "member"}))
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, member)
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	admin := httptest.NewRequest(http.MethodPost, "/", nil)
	admin = admin.WithContext(ctxutil.WithAuthUser(admin.Context(), &sec.AuthClaims{UserID: "u", Role: "admin"}))
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, admin)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

/*
TestRateLimit returns 429 once the burst is exhausted for one IP.
*/
func TestRateLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := middleware.RateLimit(ctx, 0.001, 2)(echoUser)

	statuses := make([]int, 0, 3)
	for range 3 {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.RemoteAddr = "10.0.0.1:5000"
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		statuses = append(statuses, recorder.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)

	limited := httptest.NewRequest(http.MethodGet, "/", nil)
	limited.RemoteAddr = "10.0.0.1:5000"
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, limited)
	assert.NotEmpty(t, recorder.Header().Get("Retry-After"))

	// A different client has its own bucket
	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other.RemoteAddr = "10.0.0.2:5000"
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, other)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

/*
TestClientIP reads forwarding headers only from trusted proxies.
*/
func TestClientIP(t *testing.T) {
	trusted := []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")}
	echoIP := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, _ = writer.Write([]byte(middleware.RealIP(request)))
	})

	tests := []struct {
		name      string
		trusted   []netip.Prefix
		peer      string
		realIP    string
		forwarded string
		want      string
	}{
		{"no_proxies_configured", nil, "198.51.100.9:4000", "203.0.113.1", "203.0.113.2", "198.51.100.9"},
		{"untrusted_peer", trusted, "198.51.100.9:4000", "203.0.113.1", "203.0.113.2", "198.51.100.9"},
		{"trusted_real_ip", trusted, "10.0.0.1:4000", "203.0.113.1", "", "203.0.113.1"},
		{"trusted_forwarded", trusted, "10.0.0.1:4000", "", "203.0.113.7, 10.0.0.5", "203.0.113.7"},
		{"spoofed_leftmost_hop", trusted, "10.0.0.1:4000", "", "192.0.2.66, 203.0.113.7", "203.0.113.7"},
		{"garbage_real_ip", trusted, "10.0.0.1:4000", "not-an-ip", "203.0.113.7", "203.0.113.7"},
		{"only_proxies", trusted, "10.0.0.1:4000", "", "10.0.0.2", "10.0.0.1"},
		{"no_headers", trusted, "10.0.0.1:4000", "", "", "10.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			request.RemoteAddr = tt.peer
			if tt.realIP != "" {
				request.Header.Set("X-Real-IP", tt.realIP)
			}
			if tt.forwarded != "" {
				request.Header.Set("X-Forwarded-For", tt.forwarded)
			}

			recorder := httptest.NewRecorder()
			middleware.ClientIP(tt.trusted)(echoIP).ServeHTTP(recorder, request)
			assert.Equal(t, tt.want, recorder.Body.String())
		})
	}

	// Outside the middleware only the socket peer is used
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "192.0.2.1:1234"
	request.Header.Set("X-Real-IP", "198.51.100.2")
	assert.Equal(t, "192.0.2.1", middleware.RealIP(request))
}

/*
TestRateLimit_IgnoresSpoofedHeaders keys the bucket on the socket peer when
no proxy is trusted.
*/
func TestRateLimit_IgnoresSpoofedHeaders(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := middleware.ClientIP(nil)(middleware.RateLimit(ctx, 0.001, 1)(echoUser))

	statuses := make([]int, 0, 3)
	for index := range 3 {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.RemoteAddr = "198.51.100.9:5000"
		request.Header.Set("X-Real-IP", fmt.Sprintf("203.0.113.%d", index+1))
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		statuses = append(statuses, recorder.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}, statuses)
}

/*
TestRequestID echoes a client ID and generates one when absent.
*/
func TestRequestID(t *testing.T) {
	handler := middleware.RequestID()(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, _ = writer.Write([]byte(ctxutil.GetRequestID(request.Context())))
	}))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("X-Request-ID", "abc")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, "abc", recorder.Body.String())
	assert.Equal(t, "abc", recorder.Header().Get("X-Request-ID"))

	tests := []struct {
		name   string
		header string
	}{
		{"absent", ""},
		{"too_long", strings.Repeat("a", 65)},
		{"control_characters", "abc\tdef"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				request.Header.Set("X-Request-ID", tt.header)
			}
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)
			assert.Len(t, recorder.Body.String(), 36)
		})
	}
}

/*
TestPanicRecovery answers 500 and keeps serving.
*/
func TestPanicRecovery(t *testing.T) {
	handler := middleware.PanicRecovery(testutil.Logger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "INTERNAL_ERROR")

	aborting := middleware.PanicRecovery(testutil.Logger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))
	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		aborting.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

type corsConfig struct{ development bool }

func (c corsConfig) IsDevelopment() bool { return c.development }
func (c corsConfig) IsAllowedOrigin(origin string) bool { return origin == "https://tsuzuri.app" }

/*
TestCORS allows configured origins and answers pre-flight requests.
*/
func TestCORS(t *testing.T) {
	handler := middleware.CORS(corsConfig{})(echoUser)

	request := httptest.NewRequest(http.MethodOptions, "/", nil)
	request.Header.Set("Origin", "https://tsuzuri.app")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, "https://tsuzuri.app", recorder.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", recorder.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "Origin", recorder.Header().Get("Vary"))

	request = httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Origin", "https://evil.test")
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
}
