// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package testutil holds fixtures shared by package tests.

Content is generated with gofakeit and always satisfies the domain
validation rules, so tests only spell out the fields they care about.
*/
package testutil

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/tsuzuri/internal/platform/ctxutil"
	"github.com/taibuivan/tsuzuri/internal/platform/sec"
	"github.com/taibuivan/tsuzuri/pkg/uuid"
)

// # Logging

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// # Identity

// ID returns a fresh UUID v7.
func ID() string {
	return uuid.New()
}

// Email returns a unique-looking address.
func Email() string {
	return fmt.Sprintf("%d.%s", gofakeit.Number(1000, 9999), gofakeit.Email())
}

// Nickname returns a short display name.
func Nickname() string {
	return gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999))
}

// Password returns a password long enough for registration.
func Password() string {
	return gofakeit.Password(true, true, true, false, false, 14)
}

// # Content

// Title returns a title between 5 and 400 characters.
func Title() string {
	return "Chronicle " + gofakeit.Sentence(4)
}

// Description returns a description between 20 and 2000 characters.
func Description() string {
	return "Synopsis: " + gofakeit.Paragraph(1, 3, 6, " ")
}

// Content returns a body of text for a post.
func Content() string {
	return gofakeit.Paragraph(3, 4, 8, "\n")
}

// Tags returns n distinct tags.
func Tags(n int) []string {
	tags := make([]string, 0, n)
	for index := range n {
		tags = append(tags, fmt.Sprintf("%s%d", strings.ToLower(gofakeit.Word()), index))
	}
	return tags
}

// # HTTP

// AsUser returns a copy of request authenticated as userID with the member role.
func AsUser(request *http.Request, userID string) *http.Request {
	return AsRole(request, userID, sec.RoleMember)
}

// AsRole returns a copy of request authenticated as userID with role.
func AsRole(request *http.Request, userID string, role sec.UserRole) *http.Request {
	claims := &sec.AuthClaims{UserID: userID, Nickname: "tester", Role: string(role)}
	return request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
}

// # Redis

// Redis starts an in-memory Redis server and a client bound to it.
// Both are closed when the test ends.
func Redis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	server, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		server.Close()
	})
	return server, client
}
