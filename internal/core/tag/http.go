// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/tsuzuri/internal/platform/respond"
)

// Handler implements the HTTP layer for tags.
type Handler struct {
	service *Service
}

// NewHandler constructs a new tag [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches the tag endpoints to the /tags router.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/popular", handler.popular)
}

// GET /api/tags/popular.
func (handler *Handler) popular(writer http.ResponseWriter, request *http.Request) {
	tags, err := handler.service.PopularTags(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, tags)
}
