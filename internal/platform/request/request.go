// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil extracts path parameters, JSON bodies and caller identity
from HTTP requests.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/taibuivan/tsuzuri/internal/platform/apperr"
	"github.com/taibuivan/tsuzuri/internal/platform/constants"
	"github.com/taibuivan/tsuzuri/internal/platform/ctxutil"
	"github.com/taibuivan/tsuzuri/internal/platform/sec"
	"github.com/taibuivan/tsuzuri/internal/platform/validate"
)

/*
DecodeJSON decodes at most [constants.MaxJSONBytes] of the body into target.

An empty body, malformed JSON, a body over the limit or trailing data after
the object all yield validate.ErrInvalidJSON.
*/
func DecodeJSON(request *http.Request, target any) error {
	if request.Body == nil {
		return validate.ErrInvalidJSON
	}

	// One extra byte tells an exact-limit body from an oversized one
	limited := io.LimitReader(request.Body, constants.MaxJSONBytes+1)
	decoder := json.NewDecoder(limited)

	if err := decoder.Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	if decoder.InputOffset() > constants.MaxJSONBytes {
		return validate.ErrInvalidJSON
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return validate.ErrInvalidJSON
	}
	return nil
}

// ID returns a named chi path parameter.
func ID(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// Query returns the trimmed value of a query-string parameter.
func Query(request *http.Request, name string) string {
	return strings.TrimSpace(request.URL.Query().Get(name))
}

/*
RequiredClaims returns the verified token claims of the caller.

Returns:
  - *sec.AuthClaims: The authenticated user claims
  - error: apperr.Unauthorized if the request is anonymous
*/
func RequiredClaims(request *http.Request) (*sec.AuthClaims, error) {
	claims := ctxutil.GetAuthUser(request.Context())
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return claims, nil
}

// RequiredUserID is [RequiredClaims] narrowed to the user ID.
func RequiredUserID(request *http.Request) (string, error) {
	claims, err := RequiredClaims(request)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

// OptionalUserID returns the caller's User ID, or "" for anonymous requests.
func OptionalUserID(request *http.Request) string {
	return ctxutil.UserID(request.Context())
}
