// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/tsuzuri/internal/platform/apperr"
	"github.com/taibuivan/tsuzuri/internal/users/auth"
)

// memoryUsers is an in-memory [auth.UserRepository].
type memoryUsers struct {
	mu        sync.Mutex
	users     map[string]*auth.User
	createErr error
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: map[string]*auth.User{}}
}

func (repository *memoryUsers) FindByID(_ context.Context, id string) (*auth.User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	user, found := repository.users[id]
	if !found {
		return nil, apperr.NotFound("User")
	}
	copied := *user
	return &copied, nil
}

func (repository *memoryUsers) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	for _, user := range repository.users {
		if strings.EqualFold(user.Email, email) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repository *memoryUsers) Create(_ context.Context, user *auth.User) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if repository.createErr != nil {
		return repository.createErr
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	repository.users[user.ID] = &copied
	return nil
}

func (repository *memoryUsers) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	user, found := repository.users[userID]
	if !found {
		return apperr.NotFound("User")
	}
	user.PasswordHash = passwordHash
	return nil
}

// stubTokens issues predictable tokens.
type stubTokens struct{}

func (stubTokens) GenerateAccessToken(userID, _, role string, _ time.Duration) (string, error) {
	return "token:" + userID + ":" + role, nil
}

// memoryFiles records saved and deleted uploads.
type memoryFiles struct {
	mu      sync.Mutex
	saved   map[string]string
	deleted []string
}

func newMemoryFiles() *memoryFiles {
	return &memoryFiles{saved: map[string]string{}}
}

func (files *memoryFiles) Save(_ context.Context, originalName string, content io.Reader) (string, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}
	files.mu.Lock()
	defer files.mu.Unlock()
	path := "/uploads/" + originalName
	files.saved[path] = string(data)
	return path, nil
}

func (files *memoryFiles) Delete(_ context.Context, publicPath string) error {
	files.mu.Lock()
	defer files.mu.Unlock()
	files.deleted = append(files.deleted, publicPath)
	return nil
}

// outbox captures reset mails.
type outbox struct {
	mu    sync.Mutex
	token map[string]string
}

func newOutbox() *outbox {
	return &outbox{token: map[string]string{}}
}

func (box *outbox) SendPasswordReset(_ context.Context, email, token string) error {
	box.mu.Lock()
	defer box.mu.Unlock()
	box.token[email] = token
	return nil
}

func (box *outbox) lastToken(email string) string {
	box.mu.Lock()
	defer box.mu.Unlock()
	return box.token[email]
}
