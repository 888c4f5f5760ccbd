// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"context"
	"time"
)

// # Repository Interfaces

// Repository defines persistence for posts, like edges and comments.
type Repository interface {

	// Create inserts a post with zeroed counters.
	Create(context context.Context, post *Post) error

	/*
		FindByID retrieves a post with its author.

		Returns:
		  - *Post: The hydrated post including content
		  - error: apperr.NotFound if the post does not exist
	*/
	FindByID(context context.Context, id string) (*Post, error)

	// Exists reports whether a post with id exists.
	Exists(context context.Context, id string) (bool, error)

	// Update overwrites the editable fields of a post.
	Update(context context.Context, post *Post) error

	// Delete removes a post. Likes and comments cascade.
	Delete(context context.Context, id string) error

	/*
		List returns a page of posts, newest first, without content.

		Returns:
		  - []*Post: The page
		  - int: Total number of posts
		  - error: Database execution errors
	*/
	List(context context.Context, limit, offset int) ([]*Post, int, error)

	// Search matches term case-insensitively as a substring of the title or of any tag.
	Search(context context.Context, term string, limit int) ([]*Post, error)

	// Ranking returns the most viewed posts.
	Ranking(context context.Context, limit int) ([]*Post, error)

	// ListByAuthor returns every post written by authorID, newest first.
	ListByAuthor(context context.Context, authorID string) ([]*Post, error)

	// # Likes

	/*
		ToggleLike flips the like edge of (userID, postID) and moves goodCounter by one.

		Description: The edge change and the counter update run in one
		transaction. The decrement is unclamped.

		Returns:
		  - LikeResult: New counter and like state
		  - error: apperr.NotFound if the post does not exist
	*/
	ToggleLike(context context.Context, userID, postID string) (LikeResult, error)

	// IsLiked reports whether the edge (userID, postID) exists.
	IsLiked(context context.Context, userID, postID string) (bool, error)

	// ListLiked returns the posts liked by userID, most recent like first.
	ListLiked(context context.Context, userID string) ([]*Post, error)

	// # Views

	// ViewCounter reads the current counter, or NotFound.
	ViewCounter(context context.Context, postID string) (int64, error)

	// IncrementViewCounter adds one atomically and returns the new value.
	IncrementViewCounter(context context.Context, postID string) (int64, error)

	// # Comments

	// AddComment inserts a comment. A missing post yields NotFound.
	AddComment(context context.Context, comment *Comment) error

	// ListComments returns the comments of postID newest first. limit <= 0 returns all.
	ListComments(context context.Context, postID string, limit int) ([]Comment, error)
}

// ViewTracker decides whether a view counts, given the last counted view of
// the same viewer on the same post.
type ViewTracker interface {

	/*
		ShouldCountView reports whether a view at now falls outside the cooldown.

		Description: A counted view records now against (postID, viewerKey).
		A suppressed view leaves the recorded time untouched, so the window is
		measured from the last counted view.

		Parameters:
		  - context: context.Context
		  - postID: string
		  - viewerKey: string (User ID, or client IP for anonymous readers)
		  - now: time.Time

		Returns:
		  - bool: true if the caller should increment the counter
		  - error: Backend failures
	*/
	ShouldCountView(context context.Context, postID, viewerKey string, now time.Time) (bool, error)
}

// SeriesAttacher adds a post to a series on behalf of its author.
type SeriesAttacher interface {
	AttachPost(context context.Context, actorID, seriesID, postID string) error
}
