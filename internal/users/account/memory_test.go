// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"errors"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/taibuivan/tsuzuri/internal/platform/apperr"
	"github.com/taibuivan/tsuzuri/internal/users/account"
	"github.com/taibuivan/tsuzuri/internal/users/auth"
)

type edge struct {
	follower  string
	following string
}

// memoryRepository is an in-memory [account.Repository].
type memoryRepository struct {
	mu        sync.Mutex
	users     map[string]*auth.User
	edges     []edge
	updateErr error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{users: map[string]*auth.User{}}
}

func (repository *memoryRepository) add(user *auth.User) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	user.CreatedAt = time.Now()
	repository.users[user.ID] = user
}

func (repository *memoryRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	user, found := repository.users[id]
	if !found {
		return nil, apperr.NotFound("User")
	}
	copied := *user
	return &copied, nil
}

func (repository *memoryRepository) Exists(_ context.Context, id string) (bool, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	_, found := repository.users[id]
	return found, nil
}

func (repository *memoryRepository) UpdateProfile(_ context.Context, user *auth.User) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if repository.updateErr != nil {
		return repository.updateErr
	}
	copied := *user
	repository.users[user.ID] = &copied
	return nil
}

func (repository *memoryRepository) indexOf(target edge) int {
	return slices.Index(repository.edges, target)
}

func (repository *memoryRepository) followers(userID string) int {
	count := 0
	for _, e := range repository.edges {
		if e.following == userID {
			count++
		}
	}
	return count
}

func (repository *memoryRepository) ToggleFollow(_ context.Context, followerID, followingID string) (account.FollowResult, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	target := edge{followerID, followingID}
	if index := repository.indexOf(target); index >= 0 {
		repository.edges = slices.Delete(repository.edges, index, index+1)
		return account.FollowResult{IsFollowing: false, FollowerCount: repository.followers(followingID)}, nil
	}
	repository.edges = append(repository.edges, target)
	return account.FollowResult{IsFollowing: true, FollowerCount: repository.followers(followingID)}, nil
}

func (repository *memoryRepository) Follow(_ context.Context, followerID, followingID string) (account.FollowResult, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	target := edge{followerID, followingID}
	if repository.indexOf(target) < 0 {
		repository.edges = append(repository.edges, target)
	}
	return account.FollowResult{IsFollowing: true, FollowerCount: repository.followers(followingID)}, nil
}

func (repository *memoryRepository) Unfollow(_ context.Context, followerID, followingID string) (account.FollowResult, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if index := repository.indexOf(edge{followerID, followingID}); index >= 0 {
		repository.edges = slices.Delete(repository.edges, index, index+1)
	}
	return account.FollowResult{IsFollowing: false, FollowerCount: repository.followers(followingID)}, nil
}

func (repository *memoryRepository) IsFollowing(_ context.Context, followerID, followingID string) (bool, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	return repository.indexOf(edge{followerID, followingID}) >= 0, nil
}

// newest walks the edges from the most recent one.
func (repository *memoryRepository) newest(pick func(edge) (string, bool)) []string {
	ids := []string{}
	for index := len(repository.edges) - 1; index >= 0; index-- {
		if id, ok := pick(repository.edges[index]); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func (repository *memoryRepository) FollowIDs(_ context.Context, userID string) ([]string, []string, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	followers := repository.newest(func(e edge) (string, bool) { return e.follower, e.following == userID })
	following := repository.newest(func(e edge) (string, bool) { return e.following, e.follower == userID })
	return followers, following, nil
}

func (repository *memoryRepository) summaries(ids []string) []account.Summary {
	result := []account.Summary{}
	for _, id := range ids {
		user := repository.users[id]
		result = append(result, account.Summary{ID: user.ID, Nickname: user.Nickname, Icon: user.Icon})
	}
	return result
}

func (repository *memoryRepository) ListFollowers(_ context.Context, userID string) ([]account.Summary, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	return repository.summaries(repository.newest(func(e edge) (string, bool) { return e.follower, e.following == userID })), nil
}

func (repository *memoryRepository) ListFollowing(_ context.Context, userID string) ([]account.Summary, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	return repository.summaries(repository.newest(func(e edge) (string, bool) { return e.following, e.follower == userID })), nil
}

// memoryFiles records icon uploads and removals.
type memoryFiles struct {
	mu      sync.Mutex
	saved   []string
	deleted []string
	saveErr error
}

func (files *memoryFiles) Save(_ context.Context, originalName string, content io.Reader) (string, error) {
	if files.saveErr != nil {
		return "", files.saveErr
	}
	if _, err := io.Copy(io.Discard, content); err != nil {
		return "", err
	}
	files.mu.Lock()
	defer files.mu.Unlock()
	path := "/uploads/" + originalName
	files.saved = append(files.saved, path)
	return path, nil
}

func (files *memoryFiles) Delete(_ context.Context, publicPath string) error {
	files.mu.Lock()
	defer files.mu.Unlock()
	files.deleted = append(files.deleted, publicPath)
	return nil
}

var errDiskFull = errors.New("disk full")
