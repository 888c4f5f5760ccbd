// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/tsuzuri/pkg/pagination"
)

/*
TestFromRequest falls back on malformed input and caps the limit.
*/
func TestFromRequest(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  pagination.Params
	}{
		{"defaults", "", pagination.Params{Page: 1, Limit: 20}},
		{"explicit", "?page=3&limit=5", pagination.Params{Page: 3, Limit: 5}},
		{"malformed", "?page=abc&limit=-1", pagination.Params{Page: 1, Limit: 20}},
		{"capped", "?limit=1000", pagination.Params{Page: 1, Limit: pagination.MaxLimit}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/posts"+tt.query, nil)
			assert.Equal(t, tt.want, pagination.FromRequest(request))
		})
	}
}

/*
TestNewMeta computes page counts and the next-page flag.
*/
func TestNewMeta(t *testing.T) {
	tests := []struct {
		name   string
		params pagination.Params
		total  int
		want   pagination.Meta
	}{
		{"first_of_three", pagination.Params{Page: 1, Limit: 2}, 5, pagination.Meta{Page: 1, Limit: 2, Total: 5, TotalPages: 3, HasNext: true}},
		{"last", pagination.Params{Page: 3, Limit: 2}, 5, pagination.Meta{Page: 3, Limit: 2, Total: 5, TotalPages: 3}},
		{"empty", pagination.Params{Page: 1, Limit: 20}, 0, pagination.Meta{Page: 1, Limit: 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pagination.NewMeta(tt.params, tt.total))
			assert.Equal(t, (tt.params.Page-1)*tt.params.Limit, tt.params.Offset())
		})
	}
}
