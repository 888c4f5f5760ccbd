// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/tsuzuri/internal/platform/apperr"
	"github.com/taibuivan/tsuzuri/internal/platform/constants"
	"github.com/taibuivan/tsuzuri/internal/platform/validate"
	"github.com/taibuivan/tsuzuri/internal/users/auth"
	"github.com/taibuivan/tsuzuri/pkg/pointer"
	"github.com/taibuivan/tsuzuri/pkg/textnorm"
)

// # Service Layer

// Service orchestrates profile reads, profile edits and follow changes.
type Service struct {
	repository Repository
	files      auth.FileStore
	logger     *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repository Repository, files auth.FileStore, logger *slog.Logger) *Service {
	return &Service{repository: repository, files: files, logger: logger}
}

// # Profiles

/*
GetUser returns the public profile of a member.

Returns:
  - *Profile: Profile with both follow lists and the derived follower count
  - error: apperr.NotFound for unknown or malformed IDs
*/
func (service *Service) GetUser(context context.Context, userID string) (*Profile, error) {
	if !validate.IsUUID(userID) {
		return nil, apperr.NotFound("User")
	}

	user, err := service.repository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	followers, following, err := service.repository.FollowIDs(context, userID)
	if err != nil {
		return nil, err
	}

	return &Profile{
		ID:            user.ID,
		Nickname:      user.Nickname,
		Icon:          user.Icon,
		Gender:        user.Gender,
		Description:   user.Description,
		XLink:         user.XLink,
		PixivLink:     user.PixivLink,
		OtherLink:     user.OtherLink,
		Followers:     followers,
		Following:     following,
		FollowerCount: len(followers),
		CreatedAt:     user.CreatedAt,
	}, nil
}

// ProfileInput carries a partial profile edit. Nil fields are left unchanged.
type ProfileInput struct {
	Nickname    *string
	Description *string
	XLink       *string
	PixivLink   *string
	OtherLink   *string
	Icon        *auth.Upload
}

func (input *ProfileInput) validate() error {
	validator := &validate.Validator{}

	if input.Nickname != nil {
		*input.Nickname = textnorm.Normalize(*input.Nickname)
		validator.Required(FieldNickname, *input.Nickname).MaxLen(FieldNickname, *input.Nickname, constants.ProfileNicknameMax)
	}
	if input.Description != nil {
		validator.MaxLen(FieldDescription, *input.Description, constants.ProfileDescriptionMax)
	}

	links := []struct {
		field string
		value *string
	}{
		{FieldXLink, input.XLink},
		{FieldPixivLink, input.PixivLink},
		{FieldOtherLink, input.OtherLink},
	}
	for _, link := range links {
		if link.value == nil {
			continue
		}
		*link.value = strings.TrimSpace(*link.value)
		validator.MaxLen(link.field, *link.value, constants.ProfileLinkMax).WebLink(link.field, *link.value)
	}

	return validator.Err()
}

/*
UpdateProfile edits the profile of userID on behalf of actorID.

Description: Only the owner may edit a profile. A new icon replaces the old
one, which is removed from storage once the update is stored.

Returns:
  - *Profile: The updated profile
  - error: Forbidden, NotFound, ValidationError or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, actorID, userID string, input ProfileInput) (*Profile, error) {
	if !validate.IsUUID(userID) {
		return nil, apperr.NotFound("User")
	}
	if actorID != userID {
		return nil, apperr.Forbidden("You can only edit your own profile")
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	user, err := service.repository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	user.Nickname = pointer.Or(input.Nickname, user.Nickname)
	user.Description = pointer.Or(input.Description, user.Description)
	user.XLink = pointer.Or(input.XLink, user.XLink)
	user.PixivLink = pointer.Or(input.PixivLink, user.PixivLink)
	user.OtherLink = pointer.Or(input.OtherLink, user.OtherLink)

	previousIcon := user.Icon
	if input.Icon != nil {
		path, err := service.files.Save(context, input.Icon.Name, input.Icon.Content)
		if err != nil {
			return nil, err
		}
		user.Icon = path
	}

	if err := service.repository.UpdateProfile(context, user); err != nil {
		if user.Icon != previousIcon {
			_ = service.files.Delete(context, user.Icon)
		}
		return nil, err
	}

	if user.Icon != previousIcon {
		if err := service.files.Delete(context, previousIcon); err != nil {
			service.logger.Warn("profile_icon_cleanup_failed",
				slog.String("user_id", userID),
				slog.String("path", previousIcon),
				slog.Any("error", err),
			)
		}
	}

	service.logger.Info("profile_updated", slog.String("user_id", userID))
	return service.GetUser(context, userID)
}

// # Follow Graph

// checkPair validates a follow request between two members.
func (service *Service) checkPair(context context.Context, followerID, followingID string) error {
	if !validate.IsUUID(followingID) {
		return apperr.NotFound("User")
	}
	if followerID == followingID {
		return apperr.ValidationError("You cannot follow yourself", apperr.FieldError{
			Field:   FieldUserID,
			Message: "Must be another member",
		})
	}

	for _, id := range []string{followerID, followingID} {
		exists, err := service.repository.Exists(context, id)
		if err != nil {
			return err
		}
		if !exists {
			return apperr.NotFound("User")
		}
	}
	return nil
}

/*
ToggleFollow flips the follow relation between two members.

Returns:
  - FollowResult: Relation after the call and the followee's follower count
  - error: ValidationError on self-follow, NotFound for unknown members
*/
func (service *Service) ToggleFollow(context context.Context, followerID, followingID string) (FollowResult, error) {
	if err := service.checkPair(context, followerID, followingID); err != nil {
		return FollowResult{}, err
	}

	result, err := service.repository.ToggleFollow(context, followerID, followingID)
	if err != nil {
		return FollowResult{}, err
	}

	service.logger.Info("user_follow_toggled",
		slog.String("follower_id", followerID),
		slog.String("following_id", followingID),
		slog.Bool("is_following", result.IsFollowing),
	)
	return result, nil
}

// Follow creates the relation. Following twice is not an error.
func (service *Service) Follow(context context.Context, followerID, followingID string) (FollowResult, error) {
	if err := service.checkPair(context, followerID, followingID); err != nil {
		return FollowResult{}, err
	}
	return service.repository.Follow(context, followerID, followingID)
}

// Unfollow removes the relation. Unfollowing a stranger is not an error.
func (service *Service) Unfollow(context context.Context, followerID, followingID string) (FollowResult, error) {
	if err := service.checkPair(context, followerID, followingID); err != nil {
		return FollowResult{}, err
	}
	return service.repository.Unfollow(context, followerID, followingID)
}

// IsFollowing reports whether followerID follows followingID.
func (service *Service) IsFollowing(context context.Context, followerID, followingID string) (bool, error) {
	if !validate.IsUUID(followingID) {
		return false, apperr.NotFound("User")
	}
	return service.repository.IsFollowing(context, followerID, followingID)
}

// ListFollowers returns the members following userID.
func (service *Service) ListFollowers(context context.Context, userID string) ([]Summary, error) {
	return service.repository.ListFollowers(context, userID)
}

// ListFollowing returns the members userID follows.
func (service *Service) ListFollowing(context context.Context, userID string) ([]Summary, error) {
	return service.repository.ListFollowing(context, userID)
}
