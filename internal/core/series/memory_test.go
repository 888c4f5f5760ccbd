// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package series_test

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/taibuivan/tsuzuri/internal/core/series"
	"github.com/taibuivan/tsuzuri/internal/platform/apperr"
)

// memoryRepository is an in-memory [series.Repository] with the same
// all-or-nothing Mutate semantics as the PostgreSQL store.
type memoryRepository struct {
	mu        sync.Mutex
	series    map[string]*series.Series
	posts     map[string]series.PostSummary
	postOrder []string
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		series: map[string]*series.Series{},
		posts:  map[string]series.PostSummary{},
	}
}

func clone(s *series.Series) *series.Series {
	copied := *s
	copied.Episodes = slices.Clone(s.Episodes)
	copied.Tags = slices.Clone(s.Tags)
	return &copied
}

// addPost seeds a post row.
func (repository *memoryRepository) addPost(post series.PostSummary) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	repository.posts[post.ID] = post
	repository.postOrder = append(repository.postOrder, post.ID)
}

// deletePost removes a post row without touching any series.
func (repository *memoryRepository) deletePost(postID string) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	delete(repository.posts, postID)
}

// setPostSeries rewrites a back-reference directly, simulating a stale write.
func (repository *memoryRepository) setPostSeries(postID, seriesID string) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	post := repository.posts[postID]
	post.SeriesID = seriesID
	repository.posts[postID] = post
}

func (repository *memoryRepository) post(postID string) series.PostSummary {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	return repository.posts[postID]
}

func (repository *memoryRepository) Create(_ context.Context, s *series.Series) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	repository.series[s.ID] = clone(s)
	return nil
}

func (repository *memoryRepository) FindByID(_ context.Context, id string) (*series.Series, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	s, ok := repository.series[id]
	if !ok {
		return nil, apperr.NotFound("Series")
	}
	return clone(s), nil
}

func (repository *memoryRepository) UpdateInfo(_ context.Context, s *series.Series) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	stored, ok := repository.series[s.ID]
	if !ok {
		return apperr.NotFound("Series")
	}
	updated := clone(s)
	updated.Episodes = stored.Episodes
	repository.series[s.ID] = updated
	return nil
}

func (repository *memoryRepository) ListByAuthor(_ context.Context, authorID string) ([]*series.Series, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	result := []*series.Series{}
	for _, s := range repository.series {
		if s.AuthorID == authorID {
			result = append(result, clone(s))
		}
	}
	slices.SortFunc(result, func(a, b *series.Series) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return result, nil
}

func (repository *memoryRepository) FindPostSummaries(_ context.Context, postIDs []string) (map[string]series.PostSummary, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	return lookup{posts: repository.posts, order: repository.postOrder}.find(postIDs), nil
}

func (repository *memoryRepository) ListReferencingPosts(_ context.Context, seriesID string) ([]series.PostSummary, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	return lookup{posts: repository.posts, order: repository.postOrder}.referencing(seriesID), nil
}

func (repository *memoryRepository) Mutate(ctx context.Context, seriesID string, mutate series.MutateFunc) (*series.Series, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored, ok := repository.series[seriesID]
	if !ok {
		return nil, apperr.NotFound("Series")
	}

	working := clone(stored)
	posts := maps.Clone(repository.posts)

	links, err := mutate(ctx, working, lookup{posts: posts, order: repository.postOrder})
	if err != nil {
		return nil, err
	}

	for _, link := range links {
		post, exists := posts[link.PostID]
		switch link.Action {
		case series.LinkSet:
			if !exists || post.AuthorID != working.AuthorID {
				return nil, apperr.NotFound("Post")
			}
			post.SeriesID = working.ID
			posts[link.PostID] = post
		case series.LinkClear:
			if exists && post.SeriesID == working.ID {
				post.SeriesID = ""
				posts[link.PostID] = post
			}
		}
	}

	// Commit
	working.UpdatedAt = time.Now()
	repository.series[seriesID] = working
	repository.posts = posts
	return clone(working), nil
}

// lookup is the transaction-scoped [series.PostLookup].
type lookup struct {
	posts map[string]series.PostSummary
	order []string
}

func (l lookup) find(postIDs []string) map[string]series.PostSummary {
	result := map[string]series.PostSummary{}
	for _, id := range postIDs {
		if post, ok := l.posts[id]; ok {
			result[id] = post
		}
	}
	return result
}

func (l lookup) referencing(seriesID string) []series.PostSummary {
	result := []series.PostSummary{}
	for _, id := range l.order {
		if post, ok := l.posts[id]; ok && post.SeriesID == seriesID {
			result = append(result, post)
		}
	}
	return result
}

func (l lookup) FindPostSummaries(_ context.Context, postIDs []string) (map[string]series.PostSummary, error) {
	return l.find(postIDs), nil
}

func (l lookup) ListReferencingPosts(_ context.Context, seriesID string) ([]series.PostSummary, error) {
	return l.referencing(seriesID), nil
}
