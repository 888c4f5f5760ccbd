// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tsuzuri/internal/core/tag"
	"github.com/taibuivan/tsuzuri/internal/platform/constants"
	"github.com/taibuivan/tsuzuri/internal/testutil"
)

type mockRepository struct {
	mock.Mock
}

func (repository *mockRepository) PopularTags(ctx context.Context, limit int) ([]tag.Popular, error) {
	args := repository.Called(ctx, limit)
	tags, _ := args.Get(0).([]tag.Popular)
	return tags, args.Error(1)
}

var sample = []tag.Popular{{Name: "fantasy", Count: 12}, {Name: "romance", Count: 7}}

/*
TestService_PopularTags_CachesForTTL serves the cached list until the key expires.
*/
func TestService_PopularTags_CachesForTTL(t *testing.T) {
	server, client := testutil.Redis(t)
	repo := &mockRepository{}
	repo.On("PopularTags", mock.Anything, constants.PopularTagsLimit).Return(sample, nil).Twice()

	service := tag.NewService(repo, tag.NewRedisCache(client), time.Hour, testutil.Logger())
	ctx := context.Background()

	for range 3 {
		tags, err := service.PopularTags(ctx)
		require.NoError(t, err)
		assert.Equal(t, sample, tags)
	}
	repo.AssertNumberOfCalls(t, "PopularTags", 1)
	assert.Equal(t, time.Hour, server.TTL(constants.RedisKeyPopularTags))

	server.FastForward(time.Hour)
	_, err := service.PopularTags(ctx)
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "PopularTags", 2)
}

/*
TestService_PopularTags_Degraded falls back to the database when Redis is down.
*/
func TestService_PopularTags_Degraded(t *testing.T) {
	server, client := testutil.Redis(t)
	server.Close()

	repo := &mockRepository{}
	repo.On("PopularTags", mock.Anything, constants.PopularTagsLimit).Return(sample, nil)

	service := tag.NewService(repo, tag.NewRedisCache(client), 0, testutil.Logger())
	tags, err := service.PopularTags(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sample, tags)
}

/*
TestService_PopularTags_RepositoryError is returned and nothing is cached.
*/
func TestService_PopularTags_RepositoryError(t *testing.T) {
	server, client := testutil.Redis(t)
	repo := &mockRepository{}
	repo.On("PopularTags", mock.Anything, constants.PopularTagsLimit).Return(nil, errors.New("boom"))

	service := tag.NewService(repo, tag.NewRedisCache(client), time.Hour, testutil.Logger())
	_, err := service.PopularTags(context.Background())
	assert.Error(t, err)
	assert.False(t, server.Exists(constants.RedisKeyPopularTags))
}

/*
TestRedisCache_CorruptEntry treats an undecodable value as a miss.
*/
func TestRedisCache_CorruptEntry(t *testing.T) {
	server, client := testutil.Redis(t)
	require.NoError(t, server.Set(constants.RedisKeyPopularTags, "{not json"))

	_, found, err := tag.NewRedisCache(client).Get(context.Background())
	require.NoError(t, err)
	assert.False(t, found)
}

/*
TestHandler_Popular returns the list in the success envelope.
*/
func TestHandler_Popular(t *testing.T) {
	_, client := testutil.Redis(t)
	repo := &mockRepository{}
	repo.On("PopularTags", mock.Anything, constants.PopularTagsLimit).Return(sample, nil)

	router := chi.NewRouter()
	tag.NewHandler(tag.NewService(repo, tag.NewRedisCache(client), time.Hour, testutil.Logger())).RegisterRoutes(router)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/popular", nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"data":[{"name":"fantasy","count":12},{"name":"romance","count":7}]}`, recorder.Body.String())
}
