// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package post manages works, their engagement counters and their comments.

# Counters

Every counter is maintained with a single atomic UPDATE in the database, never
as a read-modify-write in the process:
  - goodCounter follows the like edges. Its decrement is not clamped.
  - viewCounter grows by one per view that passes the [ViewTracker] cooldown.
  - bookShelfCounter is owned by the library module.
*/
package post

import "time"

// # Field Identifiers

const (
	FieldTitle          = "title"
	FieldContent        = "content"
	FieldDescription    = "description"
	FieldTags           = "tags"
	FieldWordCount      = "charCount"
	FieldIsOriginal     = "original"
	FieldIsAdultContent = "adultContent"
	FieldIsAI           = "aiGenerated"
	FieldText           = "text"
	FieldQuery          = "query"
)

// # Domain Entities

// Author is the public identity shown next to posts and comments.
type Author struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
	Icon     string `json:"icon"`
}

// Post is a single work with its metadata and counters.
type Post struct {
	ID               string    `json:"id"`
	Author           Author    `json:"author"`
	SeriesID         string    `json:"series,omitempty"`
	Title            string    `json:"title"`
	Content          string    `json:"content,omitempty"`
	Description      string    `json:"description"`
	Tags             []string  `json:"tags"`
	WordCount        int       `json:"wordCount"`
	IsOriginal       bool      `json:"isOriginal"`
	IsAdultContent   bool      `json:"isAdultContent"`
	IsAI             bool      `json:"isAI"`
	ViewCounter      int64     `json:"viewCounter"`
	GoodCounter      int64     `json:"goodCounter"`
	BookShelfCounter int64     `json:"bookShelfCounter"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Comment is a reader comment on a post.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	Text      string    `json:"text"`
	Author    Author    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

// LikeResult is the state after a like toggle.
type LikeResult struct {
	GoodCounter int64 `json:"goodCounter"`
	HasLiked    bool  `json:"hasLiked"`
}

// ViewResult reports whether a view was counted and the resulting counter.
type ViewResult struct {
	Counted     bool  `json:"counted"`
	ViewCounter int64 `json:"viewCounter"`
}
