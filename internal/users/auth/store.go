// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"io"
	"time"
)

// # Data Access

// UserRepository defines the data access contract for accounts.
type UserRepository interface {

	// FindByID returns the account with the given ID, or apperr.NotFound.
	FindByID(context context.Context, id string) (*User, error)

	// FindByEmail matches the email case-insensitively, or returns apperr.NotFound.
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create persists a new account.

		Returns:
		  - error: apperr.Conflict if the email is taken, or persistence failures
	*/
	Create(context context.Context, user *User) error

	// UpdatePassword replaces only the password hash.
	UpdatePassword(context context.Context, userID, passwordHash string) error
}

// ResetTokenRepository stores pending password resets keyed by token hash.
type ResetTokenRepository interface {

	// Set stores userID under tokenHash for ttl.
	Set(context context.Context, tokenHash, userID string, ttl time.Duration) error

	// Consume returns the user of tokenHash and deletes the entry in one step.
	// An absent or expired token yields apperr.NotFound.
	Consume(context context.Context, tokenHash string) (string, error)
}

// # Collaborators

// FileStore persists uploaded icons.
type FileStore interface {
	Save(context context.Context, originalName string, content io.Reader) (string, error)
	Delete(context context.Context, publicPath string) error
}

// Mailer delivers password reset links.
type Mailer interface {
	SendPasswordReset(context context.Context, email, token string) error
}

// TokenProvider signs access tokens.
type TokenProvider interface {
	GenerateAccessToken(userID, nickname, role string, timeToLive time.Duration) (string, error)
}

// Upload is a file received with a multipart form.
type Upload struct {
	Name    string
	Content io.Reader
}
