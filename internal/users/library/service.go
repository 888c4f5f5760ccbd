// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

import (
	"context"
	"log/slog"

	"github.com/taibuivan/tsuzuri/internal/platform/apperr"
	"github.com/taibuivan/tsuzuri/internal/platform/validate"
)

// Service manages a reader's bookshelf and bookmarks.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// ToggleBookshelf adds or removes a post from the caller's shelf.
func (service *Service) ToggleBookshelf(context context.Context, userID, postID string) (ShelfResult, error) {
	if !validate.IsUUID(postID) {
		return ShelfResult{}, apperr.NotFound("Post")
	}

	result, err := service.repo.ToggleBookshelf(context, userID, postID)
	if err != nil {
		return ShelfResult{}, err
	}

	service.logger.Info("post_bookshelf_toggled",
		slog.String("post_id", postID),
		slog.String("user_id", userID),
		slog.Bool("shelved", result.IsInBookshelf),
	)
	return result, nil
}

// IsInBookshelf reports whether the post is on the caller's shelf.
func (service *Service) IsInBookshelf(context context.Context, userID, postID string) (bool, error) {
	if !validate.IsUUID(postID) {
		return false, nil
	}
	return service.repo.IsInBookshelf(context, userID, postID)
}

// ListBookshelf returns the caller's shelf.
func (service *Service) ListBookshelf(context context.Context, userID string) ([]ShelfPost, error) {
	return service.repo.ListBookshelf(context, userID)
}

/*
UpsertBookmark records the reading position of the caller in a post.

Parameters:
  - context: context.Context
  - userID: string
  - postID: string
  - position: int (Non-negative offset into the content)

Returns:
  - *Bookmark: The stored bookmark
  - error: Validation errors, or apperr.NotFound if the post does not exist
*/
func (service *Service) UpsertBookmark(context context.Context, userID, postID string, position int) (*Bookmark, error) {
	validator := &validate.Validator{}
	validator.Required(FieldPostID, postID)
	validator.Custom(FieldPosition, position < 0, "Must not be negative")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if !validate.IsUUID(postID) {
		return nil, apperr.NotFound("Post")
	}
	return service.repo.UpsertBookmark(context, userID, postID, position)
}

// ListBookmarks returns the caller's bookmarks.
func (service *Service) ListBookmarks(context context.Context, userID string) ([]Bookmark, error) {
	return service.repo.ListBookmarks(context, userID)
}
