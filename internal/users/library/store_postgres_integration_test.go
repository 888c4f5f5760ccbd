// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

//go:build integration

package library_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tsuzuri/internal/platform/apperr"
	"github.com/taibuivan/tsuzuri/internal/testutil"
	"github.com/taibuivan/tsuzuri/internal/users/library"
)

/*
TestPostgres_Bookshelf toggles the shelf and clamps a drifted counter at zero.
*/
func TestPostgres_Bookshelf(t *testing.T) {
	pool := testutil.Postgres(t)
	ctx := context.Background()
	repo := library.NewPostgresRepository(pool)

	author := testutil.InsertAccount(t, pool)
	reader := testutil.InsertAccount(t, pool)
	postID := testutil.InsertPost(t, pool, author)

	result, err := repo.ToggleBookshelf(ctx, reader, postID)
	require.NoError(t, err)
	assert.Equal(t, library.ShelfResult{BookShelfCounter: 1, IsInBookshelf: true}, result)

	shelf, err := repo.ListBookshelf(ctx, reader)
	require.NoError(t, err)
	require.Len(t, shelf, 1)
	assert.Equal(t, author, shelf[0].Author.ID)

	_, err = pool.Exec(ctx, `UPDATE core.post SET bookshelfcounter = 0 WHERE id = $1`, postID)
	require.NoError(t, err)

	result, err = repo.ToggleBookshelf(ctx, reader, postID)
	require.NoError(t, err)
	assert.Equal(t, library.ShelfResult{BookShelfCounter: 0, IsInBookshelf: false}, result)

	_, err = repo.ToggleBookshelf(ctx, reader, testutil.ID())
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestPostgres_Bookmarks upserts one row per (user, post).
*/
func TestPostgres_Bookmarks(t *testing.T) {
	pool := testutil.Postgres(t)
	ctx := context.Background()
	repo := library.NewPostgresRepository(pool)

	author := testutil.InsertAccount(t, pool)
	postID := testutil.InsertPost(t, pool, author)

	_, err := repo.UpsertBookmark(ctx, author, postID, 10)
	require.NoError(t, err)
	bookmark, err := repo.UpsertBookmark(ctx, author, postID, 90)
	require.NoError(t, err)
	assert.Equal(t, 90, bookmark.Position)
	assert.NotEmpty(t, bookmark.Title)

	bookmarks, err := repo.ListBookmarks(ctx, author)
	require.NoError(t, err)
	require.Len(t, bookmarks, 1)
	assert.Equal(t, 90, bookmarks[0].Position)

	_, err = repo.UpsertBookmark(ctx, author, testutil.ID(), 1)
	assert.True(t, apperr.IsNotFound(err))
}
