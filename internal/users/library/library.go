// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package library keeps what a reader saves for later: the bookshelf and
per-post reading bookmarks.

The bookshelf is a set of (user, post) entries. Each toggle moves the post's
bookShelfCounter by one in the same transaction, and the decrement never goes
below zero. A bookmark remembers one reading position per (user, post).
*/
package library

import "time"

// # Field Identifiers

const (
	FieldPostID   = "novelId"
	FieldPosition = "position"
)

// # Domain Entities

// Author is the public identity shown next to a saved post.
type Author struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
	Icon     string `json:"icon"`
}

// ShelfPost is a post on a reader's bookshelf.
type ShelfPost struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Author           Author    `json:"author"`
	GoodCounter      int64     `json:"goodCounter"`
	BookShelfCounter int64     `json:"bookShelfCounter"`
	ViewCounter      int64     `json:"viewCounter"`
	AddedAt          time.Time `json:"addedAt"`
}

// ShelfResult is the state after a bookshelf toggle.
type ShelfResult struct {
	BookShelfCounter int64 `json:"bookShelfCounter"`
	IsInBookshelf    bool  `json:"isInBookshelf"`
}

// Bookmark is the last reading position of a reader in one post.
type Bookmark struct {
	PostID    string    `json:"novelId"`
	Title     string    `json:"title"`
	Position  int       `json:"position"`
	UpdatedAt time.Time `json:"updatedAt"`
}
