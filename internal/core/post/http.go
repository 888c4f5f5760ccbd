// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/tsuzuri/internal/platform/middleware"
	requestutil "github.com/taibuivan/tsuzuri/internal/platform/request"
	"github.com/taibuivan/tsuzuri/internal/platform/respond"
	"github.com/taibuivan/tsuzuri/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for posts.
type Handler struct {
	service *Service
}

// NewHandler constructs a new post [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the /posts router.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Public reads
	router.Get("/", handler.listPosts)
	router.Get("/ranking", handler.ranking)
	router.Get("/search", handler.search)
	router.Get("/{id}", handler.getPost)
	router.Get("/{id}/comments", handler.listComments)

	// Anonymous views are keyed by client IP
	router.Post("/{id}/view", handler.view)

	// ## Authenticated operations
	router.Group(func(member chi.Router) {
		member.Use(middleware.RequireAuth)

		member.Post("/", handler.createPost)
		member.Get("/user/liked", handler.listLiked)
		member.Get("/{id}/edit", handler.getForEdit)
		member.Post("/{id}/update", handler.updatePost)
		member.Post("/{id}/good", handler.toggleLike)
		member.Get("/{id}/isLiked", handler.isLiked)
		member.Post("/{id}/comments", handler.addComment)
	})

	return router
}

// RegisterUserRoutes attaches the per-user work listings to the /users router.
func (handler *Handler) RegisterUserRoutes(router chi.Router) {
	router.With(middleware.RequireAuth).Get("/me/works", handler.listMyWorks)
	router.Get("/{id}/works", handler.listUserWorks)
}

type commentRequest struct {
	Text string `json:"text"`
}

// # Post Endpoints

/*
POST /api/posts.

Request:
  - title, content, description: string
  - tags: []string (at least one)
  - original, adultContent, aiGenerated: bool (required)
  - charCount: int (optional)
  - series: string (optional Series ID)

Response:
  - 201: Post
  - 400: ErrValidation
  - 404: Series not found or not owned by the caller
*/
func (handler *Handler) createPost(writer http.ResponseWriter, request *http.Request) {
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

	post, err := handler.service.CreatePost(request.Context(), userID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, post)
}

// GET /api/posts?page=&limit= lists posts, newest first.
func (handler *Handler) listPosts(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	posts, total, err := handler.service.ListPosts(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, posts, pagination.NewMeta(params, total))
}

// GET /api/posts/{id}.
func (handler *Handler) getPost(writer http.ResponseWriter, request *http.Request) {
	post, err := handler.service.GetPost(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, post)
}

// GET /api/posts/{id}/edit returns the post to its author only.
func (handler *Handler) getForEdit(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	post, err := handler.service.GetPostForEdit(request.Context(), userID, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, post)
}

// POST /api/posts/{id}/update. Omitted fields keep their values.
func (handler *Handler) updatePost(writer http.ResponseWriter, request *http.Request) {
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

	post, err := handler.service.UpdatePost(request.Context(), userID, requestutil.ID(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, post)
}

// # Discovery Endpoints

// GET /api/posts/ranking.
func (handler *Handler) ranking(writer http.ResponseWriter, request *http.Request) {
	posts, err := handler.service.Ranking(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, posts)
}

// GET /api/posts/search?query=.
func (handler *Handler) search(writer http.ResponseWriter, request *http.Request) {
	posts, err := handler.service.SearchPosts(request.Context(), requestutil.Query(request, FieldQuery))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, posts)
}

// GET /api/users/me/works.
func (handler *Handler) listMyWorks(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	posts, err := handler.service.ListUserWorks(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, posts)
}

// GET /api/users/{id}/works.
func (handler *Handler) listUserWorks(writer http.ResponseWriter, request *http.Request) {
	posts, err := handler.service.ListUserWorks(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, posts)
}

// # Engagement Endpoints

/*
POST /api/posts/{id}/good.

Response:
  - 200: {goodCounter, hasLiked}
  - 404: Post not found
*/
func (handler *Handler) toggleLike(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.ToggleLike(request.Context(), userID, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

// GET /api/posts/{id}/isLiked.
func (handler *Handler) isLiked(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	liked, err := handler.service.IsLiked(request.Context(), userID, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]bool{"hasLiked": liked})
}

// GET /api/posts/user/liked.
func (handler *Handler) listLiked(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	posts, err := handler.service.ListLikedPosts(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, posts)
}

/*
POST /api/posts/{id}/view.

Description: Signed-in readers are deduplicated by User ID, anonymous
readers by client IP.

Response:
  - 200: {counted, viewCounter}
  - 404: Post not found
*/
func (handler *Handler) view(writer http.ResponseWriter, request *http.Request) {
	viewerKey := requestutil.OptionalUserID(request)
	if viewerKey == "" {
		viewerKey = middleware.RealIP(request)
	}

	result, err := handler.service.IncrementViewCounter(request.Context(), requestutil.ID(request, "id"), viewerKey)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

// # Comment Endpoints

/*
POST /api/posts/{id}/comments.

Request:
  - text: string (1..1000 characters)

Response:
  - 201: The latest comments, oldest first
*/
func (handler *Handler) addComment(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body commentRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comments, err := handler.service.AddComment(request.Context(), userID, requestutil.ID(request, "id"), body.Text)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, comments)
}

// GET /api/posts/{id}/comments lists every comment, newest first.
func (handler *Handler) listComments(writer http.ResponseWriter, request *http.Request) {
	comments, err := handler.service.ListComments(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, comments)
}
