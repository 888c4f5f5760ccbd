// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/taibuivan/tsuzuri/internal/platform/apperr"
	"github.com/taibuivan/tsuzuri/internal/platform/constants"
	"github.com/taibuivan/tsuzuri/internal/platform/metrics"
	"github.com/taibuivan/tsuzuri/internal/platform/validate"
	"github.com/taibuivan/tsuzuri/pkg/pagination"
	"github.com/taibuivan/tsuzuri/pkg/pointer"
	"github.com/taibuivan/tsuzuri/pkg/textnorm"
	"github.com/taibuivan/tsuzuri/pkg/uuid"
)

// # Service Layer

// Service orchestrates posts, likes, views and comments.
type Service struct {
	repo     Repository
	views    ViewTracker
	attacher SeriesAttacher
	logger   *slog.Logger
	now      func() time.Time
}

// NewService constructs a new [Service].
func NewService(repo Repository, views ViewTracker, attacher SeriesAttacher, logger *slog.Logger) *Service {
	return &Service{repo: repo, views: views, attacher: attacher, logger: logger, now: time.Now}
}

// WithClock replaces the clock handed to the view tracker.
func (service *Service) WithClock(now func() time.Time) *Service {
	service.now = now
	return service
}

// Input carries the editable fields of a post.
//
// On update a blank string, a nil slice or a nil flag keeps the stored value.
// WordCount defaults to the character count of the content.
type Input struct {
	Title          string   `json:"title"`
	Content        string   `json:"content"`
	Description    string   `json:"description"`
	Tags           []string `json:"tags"`
	WordCount      *int     `json:"charCount"`
	IsOriginal     *bool    `json:"original"`
	IsAdultContent *bool    `json:"adultContent"`
	IsAI           *bool    `json:"aiGenerated"`
	SeriesID       string   `json:"series"`
}

func (input *Input) normalize() {
	input.Title = textnorm.Normalize(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.SeriesID = strings.TrimSpace(input.SeriesID)
	if input.Tags != nil {
		input.Tags = textnorm.Tags(input.Tags)
	}
}

func (input *Input) validateCreate() error {
	input.normalize()

	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).MaxLen(FieldTitle, input.Title, constants.PostTitleMax)
	validator.Required(FieldContent, strings.TrimSpace(input.Content))
	validator.MaxLen(FieldDescription, input.Description, constants.PostDescriptionMax)
	validator.Custom(FieldTags, len(input.Tags) == 0, "At least one tag is required")
	validator.MaxItems(FieldTags, len(input.Tags), constants.PostTagsMax).
		EachMaxLen(FieldTags, input.Tags, constants.PostTagMax)
	validator.Flag(FieldIsOriginal, input.IsOriginal)
	validator.Flag(FieldIsAdultContent, input.IsAdultContent)
	validator.Flag(FieldIsAI, input.IsAI)
	if input.WordCount != nil {
		validator.Custom(FieldWordCount, *input.WordCount < 0, "Must not be negative")
	}
	return validator.Err()
}

func (input *Input) validateUpdate() error {
	input.normalize()

	validator := &validate.Validator{}
	validator.MaxLen(FieldTitle, input.Title, constants.PostTitleMax)
	validator.MaxLen(FieldDescription, input.Description, constants.PostDescriptionMax)
	if input.Tags != nil {
		validator.Custom(FieldTags, len(input.Tags) == 0, "At least one tag is required")
		validator.MaxItems(FieldTags, len(input.Tags), constants.PostTagsMax).
			EachMaxLen(FieldTags, input.Tags, constants.PostTagMax)
	}
	if input.WordCount != nil {
		validator.Custom(FieldWordCount, *input.WordCount < 0, "Must not be negative")
	}
	return validator.Err()
}

// applyTo copies the provided fields onto post.
func (input *Input) applyTo(post *Post) {
	if input.Title != "" {
		post.Title = input.Title
	}
	if strings.TrimSpace(input.Content) != "" {
		post.Content = input.Content
		post.WordCount = utf8.RuneCountInString(input.Content)
	}
	if input.Description != "" {
		post.Description = input.Description
	}
	if input.Tags != nil {
		post.Tags = input.Tags
	}
	post.WordCount = pointer.Or(input.WordCount, post.WordCount)
	post.IsOriginal = pointer.Or(input.IsOriginal, post.IsOriginal)
	post.IsAdultContent = pointer.Or(input.IsAdultContent, post.IsAdultContent)
	post.IsAI = pointer.Or(input.IsAI, post.IsAI)
}

// # Post Lifecycle

/*
CreatePost validates and persists a new post, then attaches it to a series
when one is named.

Description: The post row and the series list live in separate aggregates.
If attaching fails the freshly created post is deleted again and the
attach error is returned.

Parameters:
  - context: context.Context
  - authorID: string (Authenticated caller)
  - input: Input

Returns:
  - *Post: The created post with its author
  - error: Validation, NotFound("Series") or persistence errors
*/
func (service *Service) CreatePost(context context.Context, authorID string, input Input) (*Post, error) {
	if err := input.validateCreate(); err != nil {
		return nil, err
	}

	post := &Post{ID: uuid.New(), Author: Author{ID: authorID}, Tags: []string{}}
	input.applyTo(post)

	if err := service.repo.Create(context, post); err != nil {
		return nil, err
	}

	if input.SeriesID != "" {
		if err := service.attacher.AttachPost(context, authorID, input.SeriesID, post.ID); err != nil {
			if deleteErr := service.repo.Delete(context, post.ID); deleteErr != nil {
				service.logger.Error("post_create_compensation_failed",
					slog.String("post_id", post.ID),
					slog.Any("error", deleteErr),
				)
			}
			return nil, err
		}
	}

	service.logger.Info("post_created",
		slog.String("post_id", post.ID),
		slog.String("author_id", authorID),
		slog.String("series_id", input.SeriesID),
	)
	return service.repo.FindByID(context, post.ID)
}

// GetPost returns a post with its content.
func (service *Service) GetPost(context context.Context, postID string) (*Post, error) {
	if !validate.IsUUID(postID) {
		return nil, apperr.NotFound("Post")
	}
	return service.repo.FindByID(context, postID)
}

// GetPostForEdit returns a post only to its author. Anyone else gets NotFound.
func (service *Service) GetPostForEdit(context context.Context, actorID, postID string) (*Post, error) {
	return service.findOwned(context, actorID, postID)
}

// UpdatePost applies the provided fields to a post owned by the caller.
func (service *Service) UpdatePost(context context.Context, actorID, postID string, input Input) (*Post, error) {
	if err := input.validateUpdate(); err != nil {
		return nil, err
	}

	post, err := service.findOwned(context, actorID, postID)
	if err != nil {
		return nil, err
	}

	input.applyTo(post)
	if err := service.repo.Update(context, post); err != nil {
		return nil, err
	}
	return post, nil
}

// # Discovery

// ListPosts returns one page of posts, newest first, and the total count.
func (service *Service) ListPosts(context context.Context, params pagination.Params) ([]*Post, int, error) {
	return service.repo.List(context, params.Limit, params.Offset())
}

// SearchPosts matches the normalized query against titles and tags. A blank
// query matches nothing.
func (service *Service) SearchPosts(context context.Context, query string) ([]*Post, error) {
	term := textnorm.Normalize(query)
	if term == "" {
		return []*Post{}, nil
	}
	return service.repo.Search(context, term, constants.SearchLimit)
}

// Ranking returns the most viewed posts.
func (service *Service) Ranking(context context.Context) ([]*Post, error) {
	return service.repo.Ranking(context, constants.RankingLimit)
}

// ListUserWorks returns the posts written by userID.
func (service *Service) ListUserWorks(context context.Context, userID string) ([]*Post, error) {
	if !validate.IsUUID(userID) {
		return nil, apperr.NotFound("User")
	}
	return service.repo.ListByAuthor(context, userID)
}

// # Likes

/*
ToggleLike likes the post, or withdraws an existing like.

Returns:
  - LikeResult: goodCounter after the toggle and whether the caller now likes the post
  - error: apperr.NotFound if the post does not exist
*/
func (service *Service) ToggleLike(context context.Context, userID, postID string) (LikeResult, error) {
	if !validate.IsUUID(postID) {
		return LikeResult{}, apperr.NotFound("Post")
	}

	result, err := service.repo.ToggleLike(context, userID, postID)
	if err != nil {
		return LikeResult{}, err
	}

	service.logger.Info("post_like_toggled",
		slog.String("post_id", postID),
		slog.String("user_id", userID),
		slog.Bool("liked", result.HasLiked),
	)
	return result, nil
}

// IsLiked reports whether userID likes postID.
func (service *Service) IsLiked(context context.Context, userID, postID string) (bool, error) {
	if !validate.IsUUID(postID) {
		return false, nil
	}
	return service.repo.IsLiked(context, userID, postID)
}

// ListLikedPosts returns the posts liked by userID.
func (service *Service) ListLikedPosts(context context.Context, userID string) ([]*Post, error) {
	return service.repo.ListLiked(context, userID)
}

// # Views

/*
IncrementViewCounter counts a view unless the same viewer was counted on this
post within the cooldown.

Description: A tracker failure counts the view rather than losing it and is
recorded in metrics.RedisErrors.

Parameters:
  - context: context.Context
  - postID: string
  - viewerKey: string (User ID, or client IP for anonymous readers)

Returns:
  - ViewResult: Whether the view counted and the resulting counter
  - error: apperr.NotFound if the post does not exist
*/
func (service *Service) IncrementViewCounter(context context.Context, postID, viewerKey string) (ViewResult, error) {
	if !validate.IsUUID(postID) {
		return ViewResult{}, apperr.NotFound("Post")
	}

	counter, err := service.repo.ViewCounter(context, postID)
	if err != nil {
		return ViewResult{}, err
	}

	counted, err := service.views.ShouldCountView(context, postID, viewerKey, service.now())
	if err != nil {
		metrics.RedisErrors.WithLabelValues("view_tracker").Inc()
		service.logger.Warn("view_tracker_failed",
			slog.String("post_id", postID),
			slog.Any("error", err),
		)
		counted = true
	}

	if !counted {
		metrics.PostViews.WithLabelValues(metrics.ViewSuppressed).Inc()
		return ViewResult{Counted: false, ViewCounter: counter}, nil
	}

	counter, err = service.repo.IncrementViewCounter(context, postID)
	if err != nil {
		return ViewResult{}, err
	}

	metrics.PostViews.WithLabelValues(metrics.ViewCounted).Inc()
	return ViewResult{Counted: true, ViewCounter: counter}, nil
}

// # Comments

/*
AddComment stores a comment and returns the latest comments of the post in
chronological order.

Returns:
  - []Comment: Up to constants.LatestCommentsLimit comments, oldest first
  - error: Validation errors, or apperr.NotFound if the post does not exist
*/
func (service *Service) AddComment(context context.Context, authorID, postID, text string) ([]Comment, error) {
	text = strings.TrimSpace(text)

	validator := &validate.Validator{}
	validator.Required(FieldText, text).MaxLen(FieldText, text, constants.CommentTextMax)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if !validate.IsUUID(postID) {
		return nil, apperr.NotFound("Post")
	}

	comment := &Comment{ID: uuid.New(), PostID: postID, Text: text, Author: Author{ID: authorID}}
	if err := service.repo.AddComment(context, comment); err != nil {
		return nil, err
	}

	latest, err := service.repo.ListComments(context, postID, constants.LatestCommentsLimit)
	if err != nil {
		return nil, err
	}
	slices.Reverse(latest)
	return latest, nil
}

// ListComments returns every comment of a post, newest first.
func (service *Service) ListComments(context context.Context, postID string) ([]Comment, error) {
	if !validate.IsUUID(postID) {
		return nil, apperr.NotFound("Post")
	}

	exists, err := service.repo.Exists(context, postID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("Post")
	}

	return service.repo.ListComments(context, postID, 0)
}

// # Helpers

func (service *Service) findOwned(context context.Context, actorID, postID string) (*Post, error) {
	if !validate.IsUUID(postID) {
		return nil, apperr.NotFound("Post")
	}

	post, err := service.repo.FindByID(context, postID)
	if err != nil {
		return nil, err
	}
	if post.Author.ID != actorID {
		return nil, apperr.NotFound("Post")
	}
	return post, nil
}
