// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/tsuzuri/internal/platform/database/schema"
)

/*
TestUserFollow_Peer flips between the two edge columns.
*/
func TestUserFollow_Peer(t *testing.T) {
	assert.Equal(t, schema.UserFollow.FollowingID, schema.UserFollow.Peer(schema.UserFollow.FollowerID))
	assert.Equal(t, schema.UserFollow.FollowerID, schema.UserFollow.Peer(schema.UserFollow.FollowingID))
}
