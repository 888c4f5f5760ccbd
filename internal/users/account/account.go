// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account manages public profiles and the follow graph between members.

A follow is a single edge (follower, following). Both sides of the relation,
the follower's "following" list and the followee's "followers" list, are
read from that edge, so they can never disagree. Follower counts are always
derived from the edge count.
*/
package account

import (
	"context"
	"time"

	"github.com/taibuivan/tsuzuri/internal/users/auth"
)

// # Domain Entities

// Profile is the public view of a member. It never carries credentials.
type Profile struct {
	ID            string    `json:"id"`
	Nickname      string    `json:"nickname"`
	Icon          string    `json:"icon"`
	Gender        string    `json:"gender"`
	Description   string    `json:"description"`
	XLink         string    `json:"xLink"`
	PixivLink     string    `json:"pixivLink"`
	OtherLink     string    `json:"otherLink"`
	Followers     []string  `json:"followers"`
	Following     []string  `json:"following"`
	FollowerCount int       `json:"followerCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Summary is the compact member view used in follower lists.
type Summary struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
	Icon     string `json:"icon"`
}

// FollowResult reports the relation after a follow change.
type FollowResult struct {
	IsFollowing   bool `json:"isFollowing"`
	FollowerCount int  `json:"followerCount"`
}

// # Field Identifiers

const (
	FieldNickname    = "nickname"
	FieldDescription = "description"
	FieldXLink       = "xLink"
	FieldPixivLink   = "pixivLink"
	FieldOtherLink   = "otherLink"
	FieldUserID      = "id"
)

// # Repository Contracts

// Repository defines the persistence contract for profiles and follows.
type Repository interface {

	// FindByID returns the account, or apperr.NotFound.
	FindByID(context context.Context, id string) (*auth.User, error)

	// Exists reports whether the account is present.
	Exists(context context.Context, id string) (bool, error)

	// UpdateProfile writes the editable profile fields of user.
	UpdateProfile(context context.Context, user *auth.User) error

	/*
		ToggleFollow removes the edge when present and creates it otherwise.

		Returns:
		  - FollowResult: Relation and follower count of the followee after the change
		  - error: Persistence failures
	*/
	ToggleFollow(context context.Context, followerID, followingID string) (FollowResult, error)

	// Follow creates the edge. An existing edge is left untouched.
	Follow(context context.Context, followerID, followingID string) (FollowResult, error)

	// Unfollow removes the edge if present.
	Unfollow(context context.Context, followerID, followingID string) (FollowResult, error)

	// IsFollowing reports whether the edge exists.
	IsFollowing(context context.Context, followerID, followingID string) (bool, error)

	// FollowIDs returns both id lists of userID, newest edge first.
	FollowIDs(context context.Context, userID string) (followers, following []string, err error)

	// ListFollowers returns the members following userID, newest first.
	ListFollowers(context context.Context, userID string) ([]Summary, error)

	// ListFollowing returns the members userID follows, newest first.
	ListFollowing(context context.Context, userID string) ([]Summary, error)
}
