// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library_test

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/taibuivan/tsuzuri/internal/platform/apperr"
	"github.com/taibuivan/tsuzuri/internal/users/library"
)

type entryKey struct {
	userID string
	postID string
}

// memoryRepository is an in-memory [library.Repository].
type memoryRepository struct {
	mu        sync.Mutex
	posts     map[string]*library.ShelfPost
	shelf     map[entryKey]time.Time
	bookmarks map[entryKey]library.Bookmark
	clock     time.Time
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		posts:     map[string]*library.ShelfPost{},
		shelf:     map[entryKey]time.Time{},
		bookmarks: map[entryKey]library.Bookmark{},
		clock:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (repository *memoryRepository) tick() time.Time {
	repository.clock = repository.clock.Add(time.Second)
	return repository.clock
}

func (repository *memoryRepository) addPost(id, title string) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	repository.posts[id] = &library.ShelfPost{ID: id, Title: title}
}

// setCounter overwrites bookShelfCounter, simulating drift.
func (repository *memoryRepository) setCounter(id string, value int64) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	repository.posts[id].BookShelfCounter = value
}

func (repository *memoryRepository) ToggleBookshelf(_ context.Context, userID, postID string) (library.ShelfResult, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	stored, found := repository.posts[postID]
	if !found {
		return library.ShelfResult{}, apperr.NotFound("Post")
	}

	key := entryKey{userID: userID, postID: postID}
	if _, shelved := repository.shelf[key]; shelved {
		delete(repository.shelf, key)
		stored.BookShelfCounter = max(stored.BookShelfCounter-1, 0)
		return library.ShelfResult{BookShelfCounter: stored.BookShelfCounter}, nil
	}

	repository.shelf[key] = repository.tick()
	stored.BookShelfCounter++
	return library.ShelfResult{BookShelfCounter: stored.BookShelfCounter, IsInBookshelf: true}, nil
}

func (repository *memoryRepository) IsInBookshelf(_ context.Context, userID, postID string) (bool, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	_, shelved := repository.shelf[entryKey{userID: userID, postID: postID}]
	return shelved, nil
}

func (repository *memoryRepository) ListBookshelf(_ context.Context, userID string) ([]library.ShelfPost, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	result := []library.ShelfPost{}
	for key, addedAt := range repository.shelf {
		if key.userID == userID {
			entry := *repository.posts[key.postID]
			entry.AddedAt = addedAt
			result = append(result, entry)
		}
	}
	slices.SortFunc(result, func(a, b library.ShelfPost) int { return b.AddedAt.Compare(a.AddedAt) })
	return result, nil
}

func (repository *memoryRepository) UpsertBookmark(_ context.Context, userID, postID string, position int) (*library.Bookmark, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	stored, found := repository.posts[postID]
	if !found {
		return nil, apperr.NotFound("Post")
	}
	bookmark := library.Bookmark{PostID: postID, Title: stored.Title, Position: position, UpdatedAt: repository.tick()}
	repository.bookmarks[entryKey{userID: userID, postID: postID}] = bookmark
	return &bookmark, nil
}

func (repository *memoryRepository) ListBookmarks(_ context.Context, userID string) ([]library.Bookmark, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	result := []library.Bookmark{}
	for key, bookmark := range repository.bookmarks {
		if key.userID == userID {
			result = append(result, bookmark)
		}
	}
	slices.SortFunc(result, func(a, b library.Bookmark) int { return b.UpdatedAt.Compare(a.UpdatedAt) })
	return result, nil
}
