// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/tsuzuri/internal/platform/middleware"
	requestutil "github.com/taibuivan/tsuzuri/internal/platform/request"
	"github.com/taibuivan/tsuzuri/internal/platform/respond"
)

// Handler implements the HTTP layer for the bookshelf and bookmarks.
type Handler struct {
	service *Service
}

// NewHandler constructs a new library [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the /me router. Every route requires authentication.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/bookshelf", handler.listBookshelf)
	router.Get("/bookmarks", handler.listBookmarks)
	router.Post("/bookmark", handler.upsertBookmark)

	return router
}

// RegisterPostRoutes attaches the per-post shelf endpoints to the /posts router.
func (handler *Handler) RegisterPostRoutes(router chi.Router) {
	router.With(middleware.RequireAuth).Post("/{id}/bookshelf", handler.toggleBookshelf)
	router.With(middleware.RequireAuth).Get("/{id}/isInBookshelf", handler.isInBookshelf)
}

type bookmarkRequest struct {
	PostID   string `json:"novelId"`
	Position int    `json:"position"`
}

/*
POST /api/posts/{id}/bookshelf.

Response:
  - 200: {bookShelfCounter, isInBookshelf}
  - 404: Post not found
*/
func (handler *Handler) toggleBookshelf(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.ToggleBookshelf(request.Context(), userID, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

// GET /api/posts/{id}/isInBookshelf.
func (handler *Handler) isInBookshelf(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	shelved, err := handler.service.IsInBookshelf(request.Context(), userID, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]bool{"isInBookshelf": shelved})
}

// GET /api/me/bookshelf.
func (handler *Handler) listBookshelf(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	shelf, err := handler.service.ListBookshelf(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, shelf)
}

/*
POST /api/me/bookmark.

Request:
  - novelId: string
  - position: int

Response:
  - 200: Bookmark
*/
func (handler *Handler) upsertBookmark(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body bookmarkRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	bookmark, err := handler.service.UpsertBookmark(request.Context(), userID, body.PostID, body.Position)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, bookmark)
}

// GET /api/me/bookmarks.
func (handler *Handler) listBookmarks(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	bookmarks, err := handler.service.ListBookmarks(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, bookmarks)
}
