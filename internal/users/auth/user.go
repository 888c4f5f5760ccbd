// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements registration, login and password recovery.

# Tokens

A successful register or login returns an RS256 access token signed by
[sec.TokenService]. The same token is set as the access_token cookie so that
browser clients and API clients are served by one verifier.

# Password Recovery

Reset tokens are single use. Only their SHA-256 hash is kept in Redis and the
entry is consumed atomically when the password is reset.
*/
package auth

import (
	"time"

	"github.com/taibuivan/tsuzuri/internal/platform/sec"
)

// # Domain Entities

// User is a registered account. The password hash never leaves the server.
type User struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	Nickname     string       `json:"nickname"`
	Icon         string       `json:"icon"`
	DateOfBirth  *time.Time   `json:"dob,omitempty"`
	Gender       string       `json:"gender"`
	Description  string       `json:"description"`
	XLink        string       `json:"xLink"`
	PixivLink    string       `json:"pixivLink"`
	OtherLink    string       `json:"otherLink"`
	Role         sec.UserRole `json:"role"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// Session is the result of a successful register or login.
type Session struct {
	AccessToken string `json:"token"`
	User        *User  `json:"user"`
}

// # Field Identifiers

const (
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldNickname    = "nickname"
	FieldDateOfBirth = "dob"
	FieldGender      = "gender"
	FieldIcon        = "icon"
	FieldToken       = "token"
)
