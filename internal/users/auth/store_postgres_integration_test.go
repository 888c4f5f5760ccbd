// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

//go:build integration

package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tsuzuri/internal/platform/apperr"
	"github.com/taibuivan/tsuzuri/internal/platform/constants"
	"github.com/taibuivan/tsuzuri/internal/platform/sec"
	"github.com/taibuivan/tsuzuri/internal/testutil"
	"github.com/taibuivan/tsuzuri/internal/users/auth"
)

/*
TestPostgres_UserRepository creates, finds and updates an account.
*/
func TestPostgres_UserRepository(t *testing.T) {
	pool := testutil.Postgres(t)
	repository := auth.NewUserRepository(pool)
	ctx := context.Background()

	user := &auth.User{
		ID:           testutil.ID(),
		Email:        "mixed@example.com",
		PasswordHash: "hash-1",
		Nickname:     testutil.Nickname(),
		Icon:         constants.DefaultIconPath,
		Role:         sec.RoleMember,
	}
	require.NoError(t, repository.Create(ctx, user))

	found, err := repository.FindByEmail(ctx, "MIXED@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, sec.RoleMember, found.Role)

	duplicate := *user
	duplicate.ID = testutil.ID()
	err = repository.Create(ctx, &duplicate)
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))

	require.NoError(t, repository.UpdatePassword(ctx, user.ID, "hash-2"))
	found, err = repository.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "hash-2", found.PasswordHash)

	_, err = repository.FindByID(ctx, testutil.ID())
	assert.True(t, apperr.IsNotFound(err))
}
