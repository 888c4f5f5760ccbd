// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package series_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tsuzuri/internal/core/series"
	"github.com/taibuivan/tsuzuri/internal/platform/sec"
	"github.com/taibuivan/tsuzuri/internal/testutil"
)

func serve(t *testing.T, handler http.Handler, request *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

/*
TestHandler_Membership exercises addPost, updatePosts and removePost over HTTP.
*/
func TestHandler_Membership(t *testing.T) {
	f := newFixture(t)
	router := series.NewHandler(f.service).Routes()
	s := f.createSeries(t)
	postID := f.createPost(f.author)

	// Add
	request := httptest.NewRequest(http.MethodPost, "/"+s.ID+"/addPost", strings.NewReader(`{"postId":"`+postID+`"}`))
	recorder := serve(t, router, testutil.AsUser(request, f.author))
	require.Equal(t, http.StatusOK, recorder.Code)

	var envelope struct {
		Data series.Series `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.Equal(t, []series.Episode{{PostID: postID, EpisodeNumber: 1}}, envelope.Data.Episodes)

	// Reorder
	request = httptest.NewRequest(http.MethodPost, "/"+s.ID+"/updatePosts", strings.NewReader(`{"posts":[{"postId":"`+postID+`","episodeNumber":4}]}`))
	recorder = serve(t, router, testutil.AsUser(request, f.author))
	require.Equal(t, http.StatusOK, recorder.Code)
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.Equal(t, 4, envelope.Data.Episodes[0].EpisodeNumber)

	// Remove
	request = httptest.NewRequest(http.MethodPost, "/"+s.ID+"/removePost", strings.NewReader(`{"postId":"`+postID+`"}`))
	recorder = serve(t, router, testutil.AsUser(request, f.author))
	require.Equal(t, http.StatusOK, recorder.Code)
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.Empty(t, envelope.Data.Episodes)
}

/*
TestHandler_StatusMapping checks auth, validation and not-found responses.
*/
func TestHandler_StatusMapping(t *testing.T) {
	f := newFixture(t)
	router := series.NewHandler(f.service).Routes()
	s := f.createSeries(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		userID string
		status int
	}{
		{"anonymous_add", http.MethodPost, "/" + s.ID + "/addPost", `{"postId":"x"}`, "", http.StatusUnauthorized},
		{"missing_post_id", http.MethodPost, "/" + s.ID + "/addPost", `{}`, f.author, http.StatusBadRequest},
		{"bad_json", http.MethodPost, "/" + s.ID + "/addPost", `{`, f.author, http.StatusBadRequest},
		{"unknown_series", http.MethodPost, "/" + testutil.ID() + "/removePost", `{"postId":"` + testutil.ID() + `"}`, f.author, http.StatusNotFound},
		{"detail_of_stranger", http.MethodGet, "/" + s.ID, "", testutil.ID(), http.StatusNotFound},
		{"detail_of_owner", http.MethodGet, "/" + s.ID, "", f.author, http.StatusOK},
		{"public_title", http.MethodGet, "/" + s.ID + "/title", "", "", http.StatusOK},
		{"public_works_unknown", http.MethodGet, "/" + testutil.ID() + "/works", "", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.userID != "" {
				request = testutil.AsUser(request, tt.userID)
			}
			assert.Equal(t, tt.status, serve(t, router, request).Code)
		})
	}
}

/*
TestHandler_CreateSeries returns 201 and lists the series for its author.
*/
func TestHandler_CreateSeries(t *testing.T) {
	f := newFixture(t)
	router := series.NewHandler(f.service).Routes()

	body, err := json.Marshal(validInput())
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(string(body)))
	recorder := serve(t, router, testutil.AsUser(request, f.author))
	require.Equal(t, http.StatusCreated, recorder.Code)

	request = httptest.NewRequest(http.MethodGet, "/", nil)
	recorder = serve(t, router, testutil.AsUser(request, f.author))
	require.Equal(t, http.StatusOK, recorder.Code)

	var envelope struct {
		Data []series.Series `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data, 1)
}

/*
TestHandler_ReconcileAuthor is reserved to admins.
*/
func TestHandler_ReconcileAuthor(t *testing.T) {
	f := newFixture(t)
	router := series.NewHandler(f.service).Routes()
	first := f.createSeries(t)
	second := f.createSeries(t)
	postID := f.createPost(f.author)

	ctx := t.Context()
	_, err := f.service.AddPostToSeries(ctx, f.author, first.ID, postID)
	require.NoError(t, err)
	_, err = f.service.AddPostToSeries(ctx, f.author, second.ID, postID)
	require.NoError(t, err)

	path := "/reconcile/author/" + f.author
	tests := []struct {
		name    string
		request *http.Request
		status  int
	}{
		{"anonymous", httptest.NewRequest(http.MethodPost, path, nil), http.StatusUnauthorized},
		{"member", testutil.AsUser(httptest.NewRequest(http.MethodPost, path, nil), f.author), http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, serve(t, router, tt.request).Code)
		})
	}

	admin := testutil.AsRole(httptest.NewRequest(http.MethodPost, path, nil), testutil.ID(), sec.RoleAdmin)
	recorder := serve(t, router, admin)
	require.Equal(t, http.StatusOK, recorder.Code)

	var envelope struct {
		Data []series.ReconcileReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, first.ID, envelope.Data[0].SeriesID)
	assert.Equal(t, []string{postID}, envelope.Data[0].Dropped)
}
