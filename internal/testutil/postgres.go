// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

//go:build integration

package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/taibuivan/tsuzuri/internal/platform/migration"
	pgstore "github.com/taibuivan/tsuzuri/internal/platform/postgres"
)

// Postgres starts a disposable PostgreSQL container, applies every migration
// and returns a pool connected to it. The container is removed when the test ends.
func Postgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:alpine",
		postgres.WithDatabase("tsuzuri"),
		postgres.WithUsername("tsuzuri"),
		postgres.WithPassword("tsuzuri"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	if err := migration.RunUp(dsn, "", Logger()); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	pool, err := pgstore.NewPool(ctx, pgstore.Options{URL: dsn, MaxConns: 8, StatementTimeout: 10 * time.Second}, Logger())
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

// InsertAccount creates a bare account row and returns its ID.
func InsertAccount(t *testing.T, pool *pgxpool.Pool) string {
	t.Helper()

	id := ID()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO users.account (id, email, passwordhash, nickname) VALUES ($1, $2, 'x', $3)`,
		id, Email(), Nickname())
	if err != nil {
		t.Fatalf("failed to insert account: %v", err)
	}
	return id
}

// InsertPost creates a minimal post row written by authorID and returns its ID.
func InsertPost(t *testing.T, pool *pgxpool.Pool, authorID string) string {
	t.Helper()

	id := ID()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO core.post (id, authorid, title, content, description, tags, isoriginal, isadultcontent, isai)
		 VALUES ($1, $2, $3, $4, $5, $6, true, false, false)`,
		id, authorID, Title(), Content(), Description(), Tags(2))
	if err != nil {
		t.Fatalf("failed to insert post: %v", err)
	}
	return id
}
