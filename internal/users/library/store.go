// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

import "context"

// Repository persists bookshelf entries and bookmarks.
type Repository interface {

	/*
		ToggleBookshelf adds the post to the shelf, or removes it if present.

		Description: The entry change and bookShelfCounter move together in one
		transaction. The decrement is clamped at zero.

		Returns:
		  - ShelfResult: New counter and membership
		  - error: apperr.NotFound if the post does not exist
	*/
	ToggleBookshelf(context context.Context, userID, postID string) (ShelfResult, error)

	// IsInBookshelf reports whether (userID, postID) is on the shelf.
	IsInBookshelf(context context.Context, userID, postID string) (bool, error)

	// ListBookshelf returns the shelf of userID, most recently added first.
	ListBookshelf(context context.Context, userID string) ([]ShelfPost, error)

	// UpsertBookmark stores position for (userID, postID), replacing any earlier one.
	UpsertBookmark(context context.Context, userID, postID string, position int) (*Bookmark, error)

	// ListBookmarks returns the bookmarks of userID, most recently updated first.
	ListBookmarks(context context.Context, userID string) ([]Bookmark, error)
}
