// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package series manages author-owned ordered groupings of posts.

A Series keeps its episodes as an ordered list of {postId, episodeNumber}
entries while every member Post carries a back-reference to the Series. The
list mutations in this file are pure functions on the in-memory aggregate;
the repository applies them inside one transaction together with the
back-reference writes.

# Ordering

The stored list order is the insertion order. Episode numbers are assigned on
insert (1 + max) and can be rewritten by the owner, so the list order and the
reading order may diverge. Readers that need reading order sort by
EpisodeNumber themselves.
*/
package series

import "time"

// # Field Identifiers

const (
	FieldTitle          = "title"
	FieldDescription    = "description"
	FieldTags           = "tags"
	FieldPostID         = "postId"
	FieldPosts          = "posts"
	FieldIsOriginal     = "isOriginal"
	FieldIsAdultContent = "isAdultContent"
	FieldAIGenerated    = "aiGenerated"
)

// # Domain Entities

// Episode is one membership entry of a [Series].
type Episode struct {
	PostID        string `json:"postId"`
	EpisodeNumber int    `json:"episodeNumber"`
}

// Series is an ordered grouping of posts written by one author.
type Series struct {
	ID             string    `json:"id"`
	AuthorID       string    `json:"author"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Tags           []string  `json:"tags"`
	IsOriginal     bool      `json:"isOriginal"`
	IsAdultContent bool      `json:"isAdultContent"`
	AIGenerated    bool      `json:"aiGenerated"`
	Episodes       []Episode `json:"posts"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// PostSummary is the subset of a post the series module reads.
type PostSummary struct {
	ID               string
	AuthorID         string
	SeriesID         string
	Title            string
	Description      string
	GoodCounter      int64
	BookShelfCounter int64
	ViewCounter      int64
}

// EpisodePost is an entry of GET /series/{id}/posts.
type EpisodePost struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	EpisodeNumber int    `json:"episodeNumber"`
}

// Work is an entry of GET /series/{id}/works.
type Work struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	EpisodeNumber int    `json:"episodeNumber"`
}

// DetailPost is a resolved episode with its engagement counters.
type DetailPost struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	EpisodeNumber    int    `json:"episodeNumber"`
	GoodCounter      int64  `json:"goodCounter"`
	BookShelfCounter int64  `json:"bookShelfCounter"`
	ViewCounter      int64  `json:"viewCounter"`
}

// Detail is the owner view of a series with its resolved posts.
type Detail struct {
	*Series
	Posts []DetailPost `json:"posts"`
}

// Stats aggregates the engagement of every post in a series.
type Stats struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	TotalLikes     int64  `json:"totalLikes"`
	TotalBookshelf int64  `json:"totalBookshelf"`
	TotalViews     int64  `json:"totalViews"`
	TotalPoints    int64  `json:"totalPoints"`
}

// Points weights likes and bookshelf additions equally.
func Points(likes, bookshelf int64) int64 {
	return likes*2 + bookshelf*2
}

// # Back References

// LinkAction describes how a post's series reference must change.
type LinkAction int

const (
	// LinkSet points the post at the series. The post must exist and share the series author.
	LinkSet LinkAction = iota + 1

	// LinkClear empties the post's reference, but only while it still points at the series.
	LinkClear
)

// Link is a back-reference write produced by a list mutation.
type Link struct {
	Action LinkAction
	PostID string
}

// # List Operations

// HasPost reports whether postID is a member of the series.
func (series *Series) HasPost(postID string) bool {
	for _, episode := range series.Episodes {
		if episode.PostID == postID {
			return true
		}
	}
	return false
}

// NextEpisodeNumber returns one plus the highest episode number, or 1 for an empty list.
func (series *Series) NextEpisodeNumber() int {
	highest := 0
	for _, episode := range series.Episodes {
		if episode.EpisodeNumber > highest {
			highest = episode.EpisodeNumber
		}
	}
	return highest + 1
}

// AppendPost adds postID at the end of the list with the next episode number.
// It reports false and leaves the list untouched when postID is already a member.
func (series *Series) AppendPost(postID string) (Episode, bool) {
	for _, episode := range series.Episodes {
		if episode.PostID == postID {
			return episode, false
		}
	}

	episode := Episode{PostID: postID, EpisodeNumber: series.NextEpisodeNumber()}
	series.Episodes = append(series.Episodes, episode)
	return episode, true
}

// RemovePost filters postID out of the list without renumbering the others.
func (series *Series) RemovePost(postID string) bool {
	kept := make([]Episode, 0, len(series.Episodes))
	for _, episode := range series.Episodes {
		if episode.PostID != postID {
			kept = append(kept, episode)
		}
	}

	removed := len(kept) != len(series.Episodes)
	series.Episodes = kept
	return removed
}

// ApplyEpisodeNumbers overwrites the episode number of every entry that has a
// matching assignment. Entries without one, and assignments for non-members,
// are ignored. It returns the number of entries that changed.
func (series *Series) ApplyEpisodeNumbers(assignments []Episode) int {
	numbers := make(map[string]int, len(assignments))
	for _, assignment := range assignments {
		numbers[assignment.PostID] = assignment.EpisodeNumber
	}

	changed := 0
	for index := range series.Episodes {
		number, ok := numbers[series.Episodes[index].PostID]
		if !ok || number == series.Episodes[index].EpisodeNumber {
			continue
		}
		series.Episodes[index].EpisodeNumber = number
		changed++
	}
	return changed
}

// # Repair

// ReconcileReport lists the repairs applied to one series.
type ReconcileReport struct {
	SeriesID string    `json:"seriesId"`
	Dropped  []string  `json:"dropped"`
	Relinked []string  `json:"relinked"`
	Appended []Episode `json:"appended"`
}

// Changed reports whether the repair touched anything.
func (report ReconcileReport) Changed() bool {
	return len(report.Dropped)+len(report.Relinked)+len(report.Appended) > 0
}

/*
Reconcile heals dangling references between the list and the posts.

Description: listed holds the resolved members of the list keyed by post ID;
referencing holds every post whose back-reference names this series, oldest
first. The rules are:
  - A member whose post no longer exists is dropped.
  - A member whose post now points at another series is dropped.
  - A member whose post has an empty reference is kept and relinked.
  - A post pointing at this series but missing from the list is appended.

Returns:
  - []Link: Back-reference writes required by the relinked members
  - ReconcileReport: What changed
*/
func (series *Series) Reconcile(listed map[string]PostSummary, referencing []PostSummary) ([]Link, ReconcileReport) {
	report := ReconcileReport{SeriesID: series.ID, Dropped: []string{}, Relinked: []string{}, Appended: []Episode{}}
	var links []Link

	kept := make([]Episode, 0, len(series.Episodes))
	for _, episode := range series.Episodes {
		post, ok := listed[episode.PostID]
		switch {
		case !ok:
			report.Dropped = append(report.Dropped, episode.PostID)
			continue
		case post.SeriesID == "":
			links = append(links, Link{Action: LinkSet, PostID: episode.PostID})
			report.Relinked = append(report.Relinked, episode.PostID)
		case post.SeriesID != series.ID:
			report.Dropped = append(report.Dropped, episode.PostID)
			continue
		}
		kept = append(kept, episode)
	}
	series.Episodes = kept

	for _, post := range referencing {
		if episode, added := series.AppendPost(post.ID); added {
			report.Appended = append(report.Appended, episode)
		}
	}

	return links, report
}
