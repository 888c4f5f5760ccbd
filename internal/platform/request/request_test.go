// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requestutil_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tsuzuri/internal/platform/apperr"
	"github.com/taibuivan/tsuzuri/internal/platform/constants"
	requestutil "github.com/taibuivan/tsuzuri/internal/platform/request"
	"github.com/taibuivan/tsuzuri/internal/testutil"
)

/*
TestDecodeJSON accepts a single object and rejects everything else.
*/
func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"object", `{"text":"hello"}`, false},
		{"trailing_whitespace", "{\"text\":\"hello\"}\n", false},
		{"empty", ``, true},
		{"malformed", `{"text":`, true},
		{"wrong_type", `{"text":42}`, true},
		{"two_objects", `{"text":"a"}{"text":"b"}`, true},
		{"oversized", `{"text":"` + strings.Repeat("x", constants.MaxJSONBytes) + `"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var target struct {
				Text string `json:"text"`
			}

			err := requestutil.DecodeJSON(request, &target)
			if tt.wantErr {
				assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "hello", target.Text)
		})
	}
}

/*
TestCallerIdentity reads the authenticated user from the context.
*/
func TestCallerIdentity(t *testing.T) {
	anonymous := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := requestutil.RequiredUserID(anonymous)
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))
	assert.Empty(t, requestutil.OptionalUserID(anonymous))

	id := testutil.ID()
	member := testutil.AsUser(httptest.NewRequest(http.MethodGet, "/", nil), id)
	got, err := requestutil.RequiredUserID(member)
	require.NoError(t, err)
	assert.Equal(t, id, got)
	assert.Equal(t, id, requestutil.OptionalUserID(member))
}

/*
TestQuery trims surrounding whitespace.
*/
func TestQuery(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/search?query=%20lantern%20", nil)
	assert.Equal(t, "lantern", requestutil.Query(request, "query"))
}
