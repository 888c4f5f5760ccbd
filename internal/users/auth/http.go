// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
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
)

// # Definitions & Constructors

// Handler implements the identity HTTP endpoints.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// RegisterRoutes mounts the identity endpoints on the API root router.
//
// # Endpoints
//   - POST /register        : Creates an account and signs in.
//   - POST /login           : Authenticates and returns a JWT.
//   - POST /check-email     : Reports whether an email is free.
//   - POST /forgot-password : Sends a reset link.
//   - POST /reset-password  : Consumes a reset token.
//   - GET  /user/me         : The authenticated account.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/check-email", handler.checkEmail)
	router.Post("/forgot-password", handler.forgotPassword)
	router.Post("/reset-password", handler.resetPassword)

	router.With(middleware.RequireAuth).Get("/user/me", handler.me)
}

// # Request Payloads

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Nickname    string `json:"nickname"`
	DateOfBirth string `json:"dob"`
	Gender      string `json:"gender"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

/*
Register creates a new account.

POST /api/register

Description: Accepts a multipart form so that an icon can be uploaded along
with the account fields. Plain JSON bodies are accepted when no icon is sent.

Request:
  - Form: email, password, nickname, dob, gender, icon (file, optional)

Response:
  - 201: Session: Access token and account
  - 400: ValidationError
  - 409: Email already registered
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	input, cleanup, err := parseRegister(writer, request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer cleanup()

	session, err := handler.authService.Register(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setTokenCookie(writer, session.AccessToken)
	respond.Created(writer, session)
}

func parseRegister(writer http.ResponseWriter, request *http.Request) (RegisterInput, func(), error) {
	noop := func() {}

	if !strings.HasPrefix(request.Header.Get("Content-Type"), "multipart/form-data") {
		var body registerRequest
		if err := requestutil.DecodeJSON(request, &body); err != nil {
			return RegisterInput{}, noop, validate.ErrInvalidJSON
		}
		return RegisterInput{
			Email:       body.Email,
			Password:    body.Password,
			Nickname:    body.Nickname,
			DateOfBirth: body.DateOfBirth,
			Gender:      body.Gender,
		}, noop, nil
	}

	request.Body = http.MaxBytesReader(writer, request.Body, constants.MaxUploadBytes)
	if err := request.ParseMultipartForm(constants.MaxUploadBytes); err != nil {
		return RegisterInput{}, noop, apperr.ValidationError("Invalid multipart form")
	}

	input := RegisterInput{
		Email:       request.FormValue(FieldEmail),
		Password:    request.FormValue(FieldPassword),
		Nickname:    request.FormValue(FieldNickname),
		DateOfBirth: request.FormValue(FieldDateOfBirth),
		Gender:      request.FormValue(FieldGender),
	}

	file, header, err := request.FormFile(FieldIcon)
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return input, noop, nil
	case err != nil:
		return RegisterInput{}, noop, apperr.ValidationError("Invalid icon upload")
	}

	input.Icon = &Upload{Name: header.Filename, Content: file}
	return input, func() { _ = file.Close() }, nil
}

/*
Login authenticates a member.

POST /api/login

Request:
  - Body: loginRequest (email, password)

Response:
  - 200: Session: Access token and account
  - 401: Invalid credentials
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email)
	validator.Required(FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setTokenCookie(writer, session.AccessToken)
	respond.OK(writer, session)
}

// POST /api/check-email
func (handler *Handler) checkEmail(writer http.ResponseWriter, request *http.Request) {
	var input emailRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	available, err := handler.authService.CheckEmail(request.Context(), input.Email)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]bool{"available": available})
}

/*
ForgotPassword starts password recovery.

POST /api/forgot-password

Response:
  - 200: Generic message, whether or not the email is registered
*/
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	var input emailRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).Email(FieldEmail, input.Email)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ForgotPassword(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		"message": "If this email is registered, a reset link has been sent.",
	})
}

// POST /api/reset-password
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	var input resetPasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if err := handler.authService.ResetPassword(request.Context(), input.Token, input.Password); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
Me returns the authenticated account.

GET /api/user/me

Response:
  - 200: User
  - 401: Missing or invalid token
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Me(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

func (handler *Handler) setTokenCookie(writer http.ResponseWriter, token string) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.AccessTokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(handler.authService.TokenTTL().Seconds()),
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
