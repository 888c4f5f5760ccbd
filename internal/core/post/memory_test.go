// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post_test

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/tsuzuri/internal/core/post"
	"github.com/taibuivan/tsuzuri/internal/platform/apperr"
)

type likeEdge struct {
	userID string
	postID string
}

// memoryRepository is an in-memory [post.Repository].
type memoryRepository struct {
	mu       sync.Mutex
	posts    map[string]*post.Post
	order    []string
	likes    map[likeEdge]time.Time
	comments []post.Comment
	clock    time.Time
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		posts: map[string]*post.Post{},
		likes: map[likeEdge]time.Time{},
		clock: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// tick returns a strictly increasing timestamp so orderings are stable.
func (repository *memoryRepository) tick() time.Time {
	repository.clock = repository.clock.Add(time.Second)
	return repository.clock
}

func clonePost(p *post.Post, withContent bool) *post.Post {
	copied := *p
	copied.Tags = slices.Clone(p.Tags)
	if !withContent {
		copied.Content = ""
	}
	return &copied
}

// setViews forces a view counter.
func (repository *memoryRepository) setViews(postID string, views int64) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	repository.posts[postID].ViewCounter = views
}

func (repository *memoryRepository) count() int {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	return len(repository.posts)
}

func (repository *memoryRepository) Create(_ context.Context, p *post.Post) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	p.CreatedAt = repository.tick()
	p.UpdatedAt = p.CreatedAt
	repository.posts[p.ID] = clonePost(p, true)
	repository.order = append(repository.order, p.ID)
	return nil
}

func (repository *memoryRepository) FindByID(_ context.Context, id string) (*post.Post, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	stored, found := repository.posts[id]
	if !found {
		return nil, apperr.NotFound("Post")
	}
	return clonePost(stored, true), nil
}

func (repository *memoryRepository) Exists(_ context.Context, id string) (bool, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	_, found := repository.posts[id]
	return found, nil
}

func (repository *memoryRepository) Update(_ context.Context, p *post.Post) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if _, found := repository.posts[p.ID]; !found {
		return apperr.NotFound("Post")
	}
	p.UpdatedAt = repository.tick()
	repository.posts[p.ID] = clonePost(p, true)
	return nil
}

func (repository *memoryRepository) Delete(_ context.Context, id string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if _, found := repository.posts[id]; !found {
		return apperr.NotFound("Post")
	}
	delete(repository.posts, id)
	repository.order = slices.DeleteFunc(repository.order, func(other string) bool { return other == id })
	return nil
}

// newestFirst returns the live posts in reverse creation order.
func (repository *memoryRepository) newestFirst(keep func(*post.Post) bool) []*post.Post {
	result := []*post.Post{}
	for index := len(repository.order) - 1; index >= 0; index-- {
		p := repository.posts[repository.order[index]]
		if keep(p) {
			result = append(result, clonePost(p, false))
		}
	}
	return result
}

func (repository *memoryRepository) List(_ context.Context, limit, offset int) ([]*post.Post, int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	all := repository.newestFirst(func(*post.Post) bool { return true })
	if offset >= len(all) {
		return []*post.Post{}, len(all), nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], len(all), nil
}

func (repository *memoryRepository) Search(_ context.Context, term string, limit int) ([]*post.Post, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	needle := strings.ToLower(term)
	result := repository.newestFirst(func(p *post.Post) bool {
		if strings.Contains(strings.ToLower(p.Title), needle) {
			return true
		}
		return slices.ContainsFunc(p.Tags, func(tag string) bool {
			return strings.Contains(strings.ToLower(tag), needle)
		})
	})
	return result[:min(limit, len(result))], nil
}

func (repository *memoryRepository) Ranking(_ context.Context, limit int) ([]*post.Post, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	result := repository.newestFirst(func(*post.Post) bool { return true })
	slices.SortStableFunc(result, func(a, b *post.Post) int {
		switch {
		case a.ViewCounter > b.ViewCounter:
			return -1
		case a.ViewCounter < b.ViewCounter:
			return 1
		}
		return 0
	})
	return result[:min(limit, len(result))], nil
}

func (repository *memoryRepository) ListByAuthor(_ context.Context, authorID string) ([]*post.Post, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	return repository.newestFirst(func(p *post.Post) bool { return p.Author.ID == authorID }), nil
}

func (repository *memoryRepository) ToggleLike(_ context.Context, userID, postID string) (post.LikeResult, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	stored, found := repository.posts[postID]
	if !found {
		return post.LikeResult{}, apperr.NotFound("Post")
	}

	edge := likeEdge{userID: userID, postID: postID}
	if _, liked := repository.likes[edge]; liked {
		delete(repository.likes, edge)
		stored.GoodCounter--
		return post.LikeResult{GoodCounter: stored.GoodCounter, HasLiked: false}, nil
	}

	repository.likes[edge] = repository.tick()
	stored.GoodCounter++
	return post.LikeResult{GoodCounter: stored.GoodCounter, HasLiked: true}, nil
}

func (repository *memoryRepository) IsLiked(_ context.Context, userID, postID string) (bool, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	_, liked := repository.likes[likeEdge{userID: userID, postID: postID}]
	return liked, nil
}

func (repository *memoryRepository) ListLiked(_ context.Context, userID string) ([]*post.Post, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	type liked struct {
		post *post.Post
		at   time.Time
	}
	entries := []liked{}
	for edge, at := range repository.likes {
		if edge.userID == userID {
			if p, found := repository.posts[edge.postID]; found {
				entries = append(entries, liked{post: clonePost(p, false), at: at})
			}
		}
	}
	slices.SortFunc(entries, func(a, b liked) int { return b.at.Compare(a.at) })

	result := []*post.Post{}
	for _, entry := range entries {
		result = append(result, entry.post)
	}
	return result, nil
}

func (repository *memoryRepository) ViewCounter(_ context.Context, postID string) (int64, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	stored, found := repository.posts[postID]
	if !found {
		return 0, apperr.NotFound("Post")
	}
	return stored.ViewCounter, nil
}

func (repository *memoryRepository) IncrementViewCounter(_ context.Context, postID string) (int64, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	stored, found := repository.posts[postID]
	if !found {
		return 0, apperr.NotFound("Post")
	}
	stored.ViewCounter++
	return stored.ViewCounter, nil
}

func (repository *memoryRepository) AddComment(_ context.Context, comment *post.Comment) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if _, found := repository.posts[comment.PostID]; !found {
		return apperr.NotFound("Post")
	}
	comment.CreatedAt = repository.tick()
	repository.comments = append(repository.comments, *comment)
	return nil
}

func (repository *memoryRepository) ListComments(_ context.Context, postID string, limit int) ([]post.Comment, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	result := []post.Comment{}
	for index := len(repository.comments) - 1; index >= 0; index-- {
		if repository.comments[index].PostID == postID {
			result = append(result, repository.comments[index])
		}
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result, nil
}

// stubAttacher records attach calls and fails when err is set.
type stubAttacher struct {
	mu    sync.Mutex
	err   error
	calls []string
}

func (attacher *stubAttacher) AttachPost(_ context.Context, _, seriesID, postID string) error {
	attacher.mu.Lock()
	defer attacher.mu.Unlock()
	attacher.calls = append(attacher.calls, seriesID+"/"+postID)
	return attacher.err
}

// failingTracker always reports a backend error.
type failingTracker struct{}

func (failingTracker) ShouldCountView(context.Context, string, string, time.Time) (bool, error) {
	return false, apperr.Internal(context.DeadlineExceeded)
}
