// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/tsuzuri/internal/platform/apperr"
	"github.com/taibuivan/tsuzuri/internal/platform/constants"
	"github.com/taibuivan/tsuzuri/internal/platform/middleware"
	requestutil "github.com/taibuivan/tsuzuri/internal/platform/request"
	"github.com/taibuivan/tsuzuri/internal/platform/respond"
	"github.com/taibuivan/tsuzuri/internal/platform/validate"
	"github.com/taibuivan/tsuzuri/internal/users/auth"
)

// # Definitions & Constructors

// Handler implements the profile and follow endpoints.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns the /users router.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/{id}", handler.getUser)

	router.Group(func(member chi.Router) {
		member.Use(middleware.RequireAuth)

		member.Get("/followers", handler.listFollowers)
		member.Get("/following", handler.listFollowing)
		member.Post("/follow/{id}", handler.follow)
		member.Delete("/unfollow/{id}", handler.unfollow)
		member.Post("/{id}/update", handler.updateProfile)
		member.Post("/{id}/follow-toggle", handler.toggleFollow)
		member.Get("/{id}/is-following", handler.isFollowing)
	})

	return router
}

// # Request Payloads

type profileRequest struct {
	Nickname    *string `json:"nickname"`
	Description *string `json:"description"`
	XLink       *string `json:"xLink"`
	PixivLink   *string `json:"pixivLink"`
	OtherLink   *string `json:"otherLink"`
}

func (body profileRequest) input() ProfileInput {
	return ProfileInput{
		Nickname:    body.Nickname,
		Description: body.Description,
		XLink:       body.XLink,
		PixivLink:   body.PixivLink,
		OtherLink:   body.OtherLink,
	}
}

// # Handlers

/*
GetUser returns a public profile.

GET /api/users/{id}

Response:
  - 200: Profile
  - 404: Unknown member
*/
func (handler *Handler) getUser(writer http.ResponseWriter, request *http.Request) {
	profile, err := handler.accountService.GetUser(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, profile)
}

/*
UpdateProfile edits the caller's own profile.

POST /api/users/{id}/update

Description: Accepts JSON, or a multipart form when a new icon is uploaded.
Absent fields keep their current value.

Response:
  - 200: Profile
  - 403: Not the profile owner
*/
func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	input, cleanup, err := parseProfile(writer, request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer cleanup()

	profile, err := handler.accountService.UpdateProfile(request.Context(), userID, requestutil.ID(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, profile)
}

func parseProfile(writer http.ResponseWriter, request *http.Request) (ProfileInput, func(), error) {
	noop := func() {}

	if !strings.HasPrefix(request.Header.Get("Content-Type"), "multipart/form-data") {
		var body profileRequest
		if err := requestutil.DecodeJSON(request, &body); err != nil {
			return ProfileInput{}, noop, validate.ErrInvalidJSON
		}
		return body.input(), noop, nil
	}

	request.Body = http.MaxBytesReader(writer, request.Body, constants.MaxUploadBytes)
	if err := request.ParseMultipartForm(constants.MaxUploadBytes); err != nil {
		return ProfileInput{}, noop, apperr.ValidationError("Invalid multipart form")
	}

	field := func(name string) *string {
		values, present := request.MultipartForm.Value[name]
		if !present || len(values) == 0 {
			return nil
		}
		return &values[0]
	}

	input := ProfileInput{
		Nickname:    field(FieldNickname),
		Description: field(FieldDescription),
		XLink:       field(FieldXLink),
		PixivLink:   field(FieldPixivLink),
		OtherLink:   field(FieldOtherLink),
	}

	file, header, err := request.FormFile(auth.FieldIcon)
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return input, noop, nil
	case err != nil:
		return ProfileInput{}, noop, apperr.ValidationError("Invalid icon upload")
	}

	input.Icon = &auth.Upload{Name: header.Filename, Content: file}
	return input, func() { _ = file.Close() }, nil
}

// POST /api/users/{id}/follow-toggle
func (handler *Handler) toggleFollow(writer http.ResponseWriter, request *http.Request) {
	handler.changeFollow(writer, request, handler.accountService.ToggleFollow)
}

// POST /api/users/follow/{id}
func (handler *Handler) follow(writer http.ResponseWriter, request *http.Request) {
	handler.changeFollow(writer, request, handler.accountService.Follow)
}

// DELETE /api/users/unfollow/{id}
func (handler *Handler) unfollow(writer http.ResponseWriter, request *http.Request) {
	handler.changeFollow(writer, request, handler.accountService.Unfollow)
}

// followChange is one of the follow mutations of [Service].
type followChange func(ctx context.Context, followerID, followingID string) (FollowResult, error)

func (handler *Handler) changeFollow(writer http.ResponseWriter, request *http.Request, change followChange) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := change(request.Context(), userID, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

/*
IsFollowing reports whether the caller follows a member.

GET /api/users/{id}/is-following

Response:
  - 200: {"isFollowing": bool}
*/
func (handler *Handler) isFollowing(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	following, err := handler.accountService.IsFollowing(request.Context(), userID, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]bool{"isFollowing": following})
}

// GET /api/users/followers
func (handler *Handler) listFollowers(writer http.ResponseWriter, request *http.Request) {
	handler.listEdges(writer, request, handler.accountService.ListFollowers)
}

// GET /api/users/following
func (handler *Handler) listFollowing(writer http.ResponseWriter, request *http.Request) {
	handler.listEdges(writer, request, handler.accountService.ListFollowing)
}

func (handler *Handler) listEdges(writer http.ResponseWriter, request *http.Request, list func(context.Context, string) ([]Summary, error)) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	members, err := list(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, members)
}
