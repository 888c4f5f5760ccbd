// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api is the composition root of the HTTP transport: it builds the
chi router, the middleware chain and the [http.Server] around the domain
handlers constructed in cmd/api.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/tsuzuri/internal/core/post"
	"github.com/taibuivan/tsuzuri/internal/core/series"
	"github.com/taibuivan/tsuzuri/internal/core/tag"
	"github.com/taibuivan/tsuzuri/internal/platform/apperr"
	"github.com/taibuivan/tsuzuri/internal/platform/config"
	"github.com/taibuivan/tsuzuri/internal/platform/constants"
	"github.com/taibuivan/tsuzuri/internal/platform/metrics"
	"github.com/taibuivan/tsuzuri/internal/platform/middleware"
	"github.com/taibuivan/tsuzuri/internal/platform/respond"
	"github.com/taibuivan/tsuzuri/internal/users/account"
	"github.com/taibuivan/tsuzuri/internal/users/auth"
	"github.com/taibuivan/tsuzuri/internal/users/library"
)

// Server owns the router and the listening [http.Server].
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// Handlers groups the handler sets mounted by [NewServer]. A nil domain
// handler leaves its routes unmounted.
type Handlers struct {
	Liveness  http.HandlerFunc
	Readiness http.HandlerFunc

	// Uploads serves stored files under /uploads/.
	Uploads http.Handler

	Auth    *auth.Handler
	Account *account.Handler
	Post    *post.Handler
	Series  *series.Handler
	Library *library.Handler
	Tag     *tag.Handler
}

/*
NewServer builds the router.

Middleware order, outermost first:
 1. RequestID and StructuredLogger, so every later line is correlated
 2. PanicRecovery, which needs the request logger
 3. metrics, recording the final status of everything below
 4. CORS, answering pre-flight requests before rate limiting and auth
 5. RateLimit, Timeout and Authenticate
*/
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID())
	router.Use(middleware.ClientIP(cfg.TrustedProxyPrefixes()))
	router.Use(middleware.StructuredLogger(log))
	router.Use(middleware.PanicRecovery(log))
	router.Use(metrics.Middleware)
	router.Use(middleware.CORS(cfg))
	router.Use(middleware.RateLimit(context, cfg.RateLimitRPS, cfg.RateLimitBurst))
	router.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	router.Use(middleware.Authenticate(verifier))
	router.Use(chimw.CleanPath)

	router.NotFound(func(writer http.ResponseWriter, request *http.Request) {
		respond.Error(writer, request, apperr.NotFound("Route"))
	})
	router.MethodNotAllowed(func(writer http.ResponseWriter, request *http.Request) {
		respond.JSON(writer, http.StatusMethodNotAllowed, respond.ErrorEnvelope{
			Error: "Method not allowed",
			Code:  "METHOD_NOT_ALLOWED",
		})
	})

	// # Infrastructure
	if h.Liveness != nil {
		router.Get("/health", h.Liveness)
	}
	if h.Readiness != nil {
		router.Get("/ready", h.Readiness)
	}
	router.Method(http.MethodGet, "/metrics", metrics.Handler())
	if h.Uploads != nil {
		router.Handle(constants.UploadURLPrefix+"*", http.StripPrefix(constants.UploadURLPrefix, h.Uploads))
	}

	// # Application API
	router.Route("/api", func(api chi.Router) {
		if h.Auth != nil {
			h.Auth.RegisterRoutes(api)
		}

		if h.Post != nil {
			posts := h.Post.Routes()
			if h.Library != nil {
				h.Library.RegisterPostRoutes(posts)
			}
			api.Mount("/posts", posts)
		}

		if h.Account != nil {
			users := h.Account.Routes()
			if h.Post != nil {
				h.Post.RegisterUserRoutes(users)
			}
			if h.Series != nil {
				h.Series.RegisterUserRoutes(users)
			}
			api.Mount("/users", users)
		}

		if h.Series != nil {
			api.Mount("/series", h.Series.Routes())
		}
		if h.Library != nil {
			api.Mount("/me", h.Library.Routes())
		}
		if h.Tag != nil {
			api.Route("/tags", h.Tag.RegisterRoutes)
		}
	})

	return &Server{
		router: router,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           router,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
			ErrorLog:          slog.NewLogLogger(log.Handler(), slog.LevelWarn),
		},
	}
}

// Handler exposes the router for in-process tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks until the server is closed.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting connections and waits up to timeout for
// in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}
