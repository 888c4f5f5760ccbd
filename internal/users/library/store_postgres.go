// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/tsuzuri/internal/platform/database/schema"
	"github.com/taibuivan/tsuzuri/internal/platform/dberr"
)

// # PostgreSQL Repository

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed library store.
func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

// # Bookshelf

// ToggleBookshelf deletes first and inserts only when no entry was removed.
func (repository *postgresRepository) ToggleBookshelf(context context.Context, userID, postID string) (ShelfResult, error) {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return ShelfResult{}, dberr.Wrap(err, "Post", "begin_tx")
	}
	defer transaction.Rollback(context)

	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.LibraryBookshelf.Table, schema.LibraryBookshelf.UserID, schema.LibraryBookshelf.PostID)

	tag, err := transaction.Exec(context, deleteQuery, userID, postID)
	if err != nil {
		return ShelfResult{}, dberr.Wrap(err, "Post", "delete_bookshelf")
	}

	result := ShelfResult{IsInBookshelf: tag.RowsAffected() == 0}
	delta := -1

	if result.IsInBookshelf {
		insertQuery := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			schema.LibraryBookshelf.Table, schema.LibraryBookshelf.UserID, schema.LibraryBookshelf.PostID)

		tag, err := transaction.Exec(context, insertQuery, userID, postID)
		if err != nil {
			return ShelfResult{}, dberr.Wrap(err, "Post", "insert_bookshelf")
		}

		delta = 1
		if tag.RowsAffected() == 0 {
			delta = 0
		}
	}

	counterQuery := fmt.Sprintf(`UPDATE %s SET %s = GREATEST(%s + $2, 0) WHERE %s = $1 RETURNING %s`,
		schema.CorePost.Table, schema.CorePost.BookShelfCounter, schema.CorePost.BookShelfCounter,
		schema.CorePost.ID, schema.CorePost.BookShelfCounter)

	if err := transaction.QueryRow(context, counterQuery, postID, delta).Scan(&result.BookShelfCounter); err != nil {
		return ShelfResult{}, dberr.Wrap(err, "Post", "update_bookshelf_counter")
	}

	if err := transaction.Commit(context); err != nil {
		return ShelfResult{}, dberr.Wrap(err, "Post", "commit_tx")
	}
	return result, nil
}

// IsInBookshelf checks the primary key.
func (repository *postgresRepository) IsInBookshelf(context context.Context, userID, postID string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s = $2)`,
		schema.LibraryBookshelf.Table, schema.LibraryBookshelf.UserID, schema.LibraryBookshelf.PostID)

	var exists bool
	if err := repository.pool.QueryRow(context, query, userID, postID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "Post", "is_in_bookshelf")
	}
	return exists, nil
}

// ListBookshelf joins the shelf with posts and authors.
func (repository *postgresRepository) ListBookshelf(context context.Context, userID string) ([]ShelfPost, error) {
	query := fmt.Sprintf(`
		SELECT p.%s, p.%s, p.%s, a.%s, a.%s, a.%s, p.%s, p.%s, p.%s, b.%s
		FROM %s b
		JOIN %s p ON p.%s = b.%s
		JOIN %s a ON a.%s = p.%s
		WHERE b.%s = $1
		ORDER BY b.%s DESC`,
		schema.CorePost.ID, schema.CorePost.Title, schema.CorePost.Description,
		schema.UserAccount.ID, schema.UserAccount.Nickname, schema.UserAccount.Icon,
		schema.CorePost.GoodCounter, schema.CorePost.BookShelfCounter, schema.CorePost.ViewCounter,
		schema.LibraryBookshelf.CreatedAt,
		schema.LibraryBookshelf.Table,
		schema.CorePost.Table, schema.CorePost.ID, schema.LibraryBookshelf.PostID,
		schema.UserAccount.Table, schema.UserAccount.ID, schema.CorePost.AuthorID,
		schema.LibraryBookshelf.UserID,
		schema.LibraryBookshelf.CreatedAt)

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "Post", "list_bookshelf")
	}
	defer rows.Close()

	result := []ShelfPost{}
	for rows.Next() {
		var entry ShelfPost
		err := rows.Scan(&entry.ID, &entry.Title, &entry.Description,
			&entry.Author.ID, &entry.Author.Nickname, &entry.Author.Icon,
			&entry.GoodCounter, &entry.BookShelfCounter, &entry.ViewCounter, &entry.AddedAt)
		if err != nil {
			return nil, dberr.Wrap(err, "Post", "scan_bookshelf")
		}
		result = append(result, entry)
	}
	return result, dberr.Wrap(rows.Err(), "Post", "list_bookshelf")
}

// # Bookmarks

// UpsertBookmark writes the position and returns it joined with the post title.
func (repository *postgresRepository) UpsertBookmark(context context.Context, userID, postID string, position int) (*Bookmark, error) {
	query := fmt.Sprintf(`
		WITH upserted AS (
			INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3)
			ON CONFLICT (%s, %s) DO UPDATE SET %s = EXCLUDED.%s, %s = NOW()
			RETURNING %s, %s, %s
		)
		SELECT u.%s, p.%s, u.%s, u.%s
		FROM upserted u
		JOIN %s p ON p.%s = u.%s`,
		schema.LibraryBookmark.Table, schema.LibraryBookmark.UserID, schema.LibraryBookmark.PostID, schema.LibraryBookmark.Position,
		schema.LibraryBookmark.UserID, schema.LibraryBookmark.PostID,
		schema.LibraryBookmark.Position, schema.LibraryBookmark.Position, schema.LibraryBookmark.UpdatedAt,
		schema.LibraryBookmark.PostID, schema.LibraryBookmark.Position, schema.LibraryBookmark.UpdatedAt,
		schema.LibraryBookmark.PostID, schema.CorePost.Title, schema.LibraryBookmark.Position, schema.LibraryBookmark.UpdatedAt,
		schema.CorePost.Table, schema.CorePost.ID, schema.LibraryBookmark.PostID)

	var bookmark Bookmark
	err := repository.pool.QueryRow(context, query, userID, postID, position).
		Scan(&bookmark.PostID, &bookmark.Title, &bookmark.Position, &bookmark.UpdatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, "Post", "upsert_bookmark")
	}
	return &bookmark, nil
}

// ListBookmarks returns bookmarks with their post titles.
func (repository *postgresRepository) ListBookmarks(context context.Context, userID string) ([]Bookmark, error) {
	query := fmt.Sprintf(`
		SELECT b.%s, p.%s, b.%s, b.%s
		FROM %s b
		JOIN %s p ON p.%s = b.%s
		WHERE b.%s = $1
		ORDER BY b.%s DESC`,
		schema.LibraryBookmark.PostID, schema.CorePost.Title, schema.LibraryBookmark.Position, schema.LibraryBookmark.UpdatedAt,
		schema.LibraryBookmark.Table,
		schema.CorePost.Table, schema.CorePost.ID, schema.LibraryBookmark.PostID,
		schema.LibraryBookmark.UserID,
		schema.LibraryBookmark.UpdatedAt)

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "Bookmark", "list_bookmarks")
	}
	defer rows.Close()

	result := []Bookmark{}
	for rows.Next() {
		var bookmark Bookmark
		if err := rows.Scan(&bookmark.PostID, &bookmark.Title, &bookmark.Position, &bookmark.UpdatedAt); err != nil {
			return nil, dberr.Wrap(err, "Bookmark", "scan_bookmark")
		}
		result = append(result, bookmark)
	}
	return result, dberr.Wrap(rows.Err(), "Bookmark", "list_bookmarks")
}
