// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package series

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/tsuzuri/internal/platform/middleware"
	requestutil "github.com/taibuivan/tsuzuri/internal/platform/request"
	"github.com/taibuivan/tsuzuri/internal/platform/respond"
	"github.com/taibuivan/tsuzuri/internal/platform/sec"
)

// # Handler Implementation

// Handler implements the HTTP layer for series management.
type Handler struct {
	service *Service
}

// NewHandler constructs a new series [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the /series router.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Public reads
	router.Get("/{id}/title", handler.getTitle)
	router.Get("/{id}/posts", handler.listPosts)
	router.Get("/{id}/works", handler.listWorks)

	// ## Owner operations
	router.Group(func(owner chi.Router) {
		owner.Use(middleware.RequireAuth)

		owner.Post("/", handler.createSeries)
		owner.Get("/", handler.listMine)
		owner.Get("/{id}", handler.getDetail)
		owner.Post("/{id}/update", handler.updateSeries)
		owner.Post("/{id}/addPost", handler.addPost)
		owner.Post("/{id}/removePost", handler.removePost)
		owner.Post("/{id}/updatePosts", handler.updatePosts)
		owner.Post("/{id}/reconcile", handler.reconcile)
	})

	// ## Maintenance
	router.With(middleware.RequireRole(sec.RoleAdmin)).Post("/reconcile/author/{id}", handler.reconcileAuthor)

	return router
}

// RegisterUserRoutes attaches the per-user series listings to the /users router.
func (handler *Handler) RegisterUserRoutes(router chi.Router) {
	router.With(middleware.RequireAuth).Get("/me/series", handler.listMyStats)
	router.Get("/{id}/series", handler.listUserSeries)
}

// # Request Payloads

type membershipRequest struct {
	PostID string `json:"postId"`
}

type reorderRequest struct {
	Posts []Episode `json:"posts"`
}

// # Management Endpoints

/*
POST /api/series.

Description: Creates an empty series owned by the caller.

Request:
  - title, description: string
  - tags: []string
  - isOriginal, isAdultContent, aiGenerated: bool (required)

Response:
  - 201: Series
  - 400: ErrValidation
*/
func (handler *Handler) createSeries(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	series, err := handler.service.CreateSeries(request.Context(), userID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, series)
}

// GET /api/series lists the caller's own series.
func (handler *Handler) listMine(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.ListUserSeries(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

/*
GET /api/series/{id}.

Description: Owner view with resolved posts and counters. Another user's
series is reported exactly like a missing one.

Response:
  - 200: Detail
  - 404: ErrNotFound
*/
func (handler *Handler) getDetail(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	detail, err := handler.service.GetSeriesDetail(request.Context(), requestutil.ID(request, "id"), userID, true)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, detail)
}

// POST /api/series/{id}/update rewrites title, description, tags and flags.
func (handler *Handler) updateSeries(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	series, err := handler.service.UpdateSeriesInfo(request.Context(), userID, requestutil.ID(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, series)
}

// # Membership Endpoints

/*
POST /api/series/{id}/addPost.

Request:
  - postId: string

Response:
  - 200: Series (with the updated episode list)
  - 400: postId missing
  - 404: Series or post not found
*/
func (handler *Handler) addPost(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body membershipRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	series, err := handler.service.AddPostToSeries(request.Context(), userID, requestutil.ID(request, "id"), body.PostID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, series)
}

// POST /api/series/{id}/removePost drops one post from the episode list.
func (handler *Handler) removePost(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body membershipRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	series, err := handler.service.RemovePostFromSeries(request.Context(), userID, requestutil.ID(request, "id"), body.PostID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, series)
}

/*
POST /api/series/{id}/updatePosts.

Request:
  - posts: [{postId, episodeNumber}]

Response:
  - 200: Series
*/
func (handler *Handler) updatePosts(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body reorderRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	series, err := handler.service.ReorderEpisodes(request.Context(), userID, requestutil.ID(request, "id"), body.Posts)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, series)
}

// POST /api/series/{id}/reconcile repairs dangling references. Admins may repair any series.
func (handler *Handler) reconcile(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	isAdmin := sec.UserRole(claims.Role).AtLeast(sec.RoleAdmin)
	report, err := handler.service.ReconcileSeries(request.Context(), claims.UserID, isAdmin, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, report)
}

// POST /api/series/reconcile/author/{id} repairs every series of one author.
func (handler *Handler) reconcileAuthor(writer http.ResponseWriter, request *http.Request) {
	reports, err := handler.service.ReconcileAuthor(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, reports)
}

// # Public Endpoints

// GET /api/series/{id}/title.
func (handler *Handler) getTitle(writer http.ResponseWriter, request *http.Request) {
	title, err := handler.service.GetSeriesTitle(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{FieldTitle: title})
}

// GET /api/series/{id}/posts lists episodes in stored order.
func (handler *Handler) listPosts(writer http.ResponseWriter, request *http.Request) {
	posts, err := handler.service.ListSeriesPosts(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, posts)
}

// GET /api/series/{id}/works lists resolved episodes with descriptions.
func (handler *Handler) listWorks(writer http.ResponseWriter, request *http.Request) {
	works, err := handler.service.ListSeriesWorks(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, works)
}

// GET /api/users/me/series returns the caller's series with engagement totals.
func (handler *Handler) listMyStats(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	stats, err := handler.service.ListSeriesStats(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, stats)
}

// GET /api/users/{id}/series.
func (handler *Handler) listUserSeries(writer http.ResponseWriter, request *http.Request) {
	result, err := handler.service.ListUserSeries(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}
