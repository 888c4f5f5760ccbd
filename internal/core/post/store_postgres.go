// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/tsuzuri/internal/platform/apperr"
	"github.com/taibuivan/tsuzuri/internal/platform/database/schema"
	"github.com/taibuivan/tsuzuri/internal/platform/dberr"
)

// # PostgreSQL Repository

// postgresRepository implements [Repository] using pgx.
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed post store.
func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

// selectPosts builds the post projection joined with the author.
// Listings skip the content column.
func selectPosts(withContent bool) string {
	content := "''"
	if withContent {
		content = "p." + schema.CorePost.Content
	}

	return fmt.Sprintf(`
		SELECT p.%s, p.%s, a.%s, a.%s, COALESCE(p.%s::text, ''), p.%s, %s, p.%s, p.%s,
			p.%s, p.%s, p.%s, p.%s, p.%s, p.%s, p.%s, p.%s, p.%s
		FROM %s p
		JOIN %s a ON a.%s = p.%s`,
		schema.CorePost.ID, schema.CorePost.AuthorID, schema.UserAccount.Nickname, schema.UserAccount.Icon,
		schema.CorePost.SeriesID, schema.CorePost.Title, content, schema.CorePost.Description, schema.CorePost.Tags,
		schema.CorePost.WordCount, schema.CorePost.IsOriginal, schema.CorePost.IsAdultContent, schema.CorePost.IsAI,
		schema.CorePost.ViewCounter, schema.CorePost.GoodCounter, schema.CorePost.BookShelfCounter,
		schema.CorePost.CreatedAt, schema.CorePost.UpdatedAt,
		schema.CorePost.Table,
		schema.UserAccount.Table, schema.UserAccount.ID, schema.CorePost.AuthorID,
	)
}

func scanPost(row pgx.Row) (*Post, error) {
	var post Post
	err := row.Scan(
		&post.ID, &post.Author.ID, &post.Author.Nickname, &post.Author.Icon, &post.SeriesID,
		&post.Title, &post.Content, &post.Description, &post.Tags, &post.WordCount,
		&post.IsOriginal, &post.IsAdultContent, &post.IsAI,
		&post.ViewCounter, &post.GoodCounter, &post.BookShelfCounter,
		&post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	return &post, nil
}

func collectPosts(rows pgx.Rows, action string) ([]*Post, error) {
	defer rows.Close()

	result := []*Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "Post", action)
		}
		result = append(result, post)
	}
	return result, dberr.Wrap(rows.Err(), "Post", action)
}

// # Post Lifecycle

// Create inserts the post row.
func (repository *postgresRepository) Create(context context.Context, post *Post) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING %s, %s`,
		schema.CorePost.Table,
		schema.CorePost.ID, schema.CorePost.AuthorID, schema.CorePost.Title, schema.CorePost.Content,
		schema.CorePost.Description, schema.CorePost.Tags, schema.CorePost.WordCount,
		schema.CorePost.IsOriginal, schema.CorePost.IsAdultContent, schema.CorePost.IsAI,
		schema.CorePost.CreatedAt, schema.CorePost.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		post.ID, post.Author.ID, post.Title, post.Content, post.Description, post.Tags,
		post.WordCount, post.IsOriginal, post.IsAdultContent, post.IsAI,
	).Scan(&post.CreatedAt, &post.UpdatedAt)

	// authorid is the only foreign key of the row
	if dberr.IsForeignKeyViolation(err) {
		return apperr.NotFound("Author").WithCause(err)
	}
	return dberr.Wrap(err, "Post", "create_post")
}

// FindByID loads one post including its content.
func (repository *postgresRepository) FindByID(context context.Context, id string) (*Post, error) {
	query := selectPosts(true) + fmt.Sprintf(` WHERE p.%s = $1`, schema.CorePost.ID)

	post, err := scanPost(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "Post", "find_post")
	}
	return post, nil
}

// Exists checks the primary key.
func (repository *postgresRepository) Exists(context context.Context, id string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`, schema.CorePost.Table, schema.CorePost.ID)

	var exists bool
	if err := repository.pool.QueryRow(context, query, id).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "Post", "post_exists")
	}
	return exists, nil
}

// Update rewrites the editable columns.
func (repository *postgresRepository) Update(context context.Context, post *Post) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = $9, %s = NOW()
		WHERE %s = $1
		RETURNING %s`,
		schema.CorePost.Table,
		schema.CorePost.Title, schema.CorePost.Content, schema.CorePost.Description, schema.CorePost.Tags,
		schema.CorePost.WordCount, schema.CorePost.IsOriginal, schema.CorePost.IsAdultContent, schema.CorePost.IsAI,
		schema.CorePost.UpdatedAt,
		schema.CorePost.ID,
		schema.CorePost.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		post.ID, post.Title, post.Content, post.Description, post.Tags,
		post.WordCount, post.IsOriginal, post.IsAdultContent, post.IsAI,
	).Scan(&post.UpdatedAt)

	return dberr.Wrap(err, "Post", "update_post")
}

// Delete removes the post row.
func (repository *postgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CorePost.Table, schema.CorePost.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "Post", "delete_post")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Post")
	}
	return nil
}

// # Discovery

// List pages through all posts using a window count.
func (repository *postgresRepository) List(context context.Context, limit, offset int) ([]*Post, int, error) {
	query := fmt.Sprintf(`
		WITH page AS (%s)
		SELECT page.*, COUNT(*) OVER() FROM page`, selectPosts(false))
	query += fmt.Sprintf(` ORDER BY %s DESC, %s DESC LIMIT $1 OFFSET $2`, schema.CorePost.CreatedAt, schema.CorePost.ID)

	rows, err := repository.pool.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Post", "list_posts")
	}
	defer rows.Close()

	total := 0
	result := []*Post{}
	for rows.Next() {
		var post Post
		err := rows.Scan(
			&post.ID, &post.Author.ID, &post.Author.Nickname, &post.Author.Icon, &post.SeriesID,
			&post.Title, &post.Content, &post.Description, &post.Tags, &post.WordCount,
			&post.IsOriginal, &post.IsAdultContent, &post.IsAI,
			&post.ViewCounter, &post.GoodCounter, &post.BookShelfCounter,
			&post.CreatedAt, &post.UpdatedAt, &total,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "Post", "scan_post")
		}
		if post.Tags == nil {
			post.Tags = []string{}
		}
		result = append(result, &post)
	}
	return result, total, dberr.Wrap(rows.Err(), "Post", "list_posts")
}

// escapeLike quotes the LIKE wildcards of a user-supplied term.
func escapeLike(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(term)
}

// Search runs a case-insensitive substring match on title and tags.
func (repository *postgresRepository) Search(context context.Context, term string, limit int) ([]*Post, error) {
	query := selectPosts(false) + fmt.Sprintf(`
		WHERE p.%s ILIKE $1 ESCAPE '\'
		   OR EXISTS (SELECT 1 FROM unnest(p.%s) AS tag WHERE tag ILIKE $1 ESCAPE '\')
		ORDER BY p.%s DESC
		LIMIT $2`,
		schema.CorePost.Title, schema.CorePost.Tags, schema.CorePost.CreatedAt)

	rows, err := repository.pool.Query(context, query, "%"+escapeLike(term)+"%", limit)
	if err != nil {
		return nil, dberr.Wrap(err, "Post", "search_posts")
	}
	return collectPosts(rows, "search_posts")
}

// Ranking orders by view count.
func (repository *postgresRepository) Ranking(context context.Context, limit int) ([]*Post, error) {
	query := selectPosts(false) + fmt.Sprintf(` ORDER BY p.%s DESC, p.%s DESC LIMIT $1`,
		schema.CorePost.ViewCounter, schema.CorePost.CreatedAt)

	rows, err := repository.pool.Query(context, query, limit)
	if err != nil {
		return nil, dberr.Wrap(err, "Post", "rank_posts")
	}
	return collectPosts(rows, "rank_posts")
}

// ListByAuthor returns the author's works.
func (repository *postgresRepository) ListByAuthor(context context.Context, authorID string) ([]*Post, error) {
	query := selectPosts(false) + fmt.Sprintf(` WHERE p.%s = $1 ORDER BY p.%s DESC`,
		schema.CorePost.AuthorID, schema.CorePost.CreatedAt)

	rows, err := repository.pool.Query(context, query, authorID)
	if err != nil {
		return nil, dberr.Wrap(err, "Post", "list_author_posts")
	}
	return collectPosts(rows, "list_author_posts")
}

// # Likes

/*
ToggleLike flips the like edge inside a transaction.

Description: Deleting first decides the direction without a separate read:
  - An edge was deleted: goodcounter - 1, unclamped.
  - No edge existed: insert it and goodcounter + 1.
*/
func (repository *postgresRepository) ToggleLike(context context.Context, userID, postID string) (LikeResult, error) {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return LikeResult{}, dberr.Wrap(err, "Post", "begin_tx")
	}
	defer transaction.Rollback(context)

	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.SocialGood.Table, schema.SocialGood.UserID, schema.SocialGood.PostID)

	tag, err := transaction.Exec(context, deleteQuery, userID, postID)
	if err != nil {
		return LikeResult{}, dberr.Wrap(err, "Post", "delete_good")
	}

	result := LikeResult{HasLiked: tag.RowsAffected() == 0}
	delta := -1

	if result.HasLiked {
		insertQuery := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			schema.SocialGood.Table, schema.SocialGood.UserID, schema.SocialGood.PostID)

		tag, err := transaction.Exec(context, insertQuery, userID, postID)
		if err != nil {
			return LikeResult{}, dberr.Wrap(err, "Post", "insert_good")
		}

		// A concurrent toggle already inserted the edge and counted it
		delta = 1
		if tag.RowsAffected() == 0 {
			delta = 0
		}
	}

	counterQuery := fmt.Sprintf(`UPDATE %s SET %s = %s + $2 WHERE %s = $1 RETURNING %s`,
		schema.CorePost.Table, schema.CorePost.GoodCounter, schema.CorePost.GoodCounter,
		schema.CorePost.ID, schema.CorePost.GoodCounter)

	if err := transaction.QueryRow(context, counterQuery, postID, delta).Scan(&result.GoodCounter); err != nil {
		return LikeResult{}, dberr.Wrap(err, "Post", "update_good_counter")
	}

	if err := transaction.Commit(context); err != nil {
		return LikeResult{}, dberr.Wrap(err, "Post", "commit_tx")
	}
	return result, nil
}

// IsLiked checks the edge.
func (repository *postgresRepository) IsLiked(context context.Context, userID, postID string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s = $2)`,
		schema.SocialGood.Table, schema.SocialGood.UserID, schema.SocialGood.PostID)

	var liked bool
	if err := repository.pool.QueryRow(context, query, userID, postID).Scan(&liked); err != nil {
		return false, dberr.Wrap(err, "Post", "is_liked")
	}
	return liked, nil
}

// ListLiked joins the like edges of userID.
func (repository *postgresRepository) ListLiked(context context.Context, userID string) ([]*Post, error) {
	query := selectPosts(false) + fmt.Sprintf(`
		JOIN %s g ON g.%s = p.%s
		WHERE g.%s = $1
		ORDER BY g.%s DESC`,
		schema.SocialGood.Table, schema.SocialGood.PostID, schema.CorePost.ID,
		schema.SocialGood.UserID,
		schema.SocialGood.CreatedAt)

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "Post", "list_liked")
	}
	return collectPosts(rows, "list_liked")
}

// # Views

// ViewCounter reads the counter.
func (repository *postgresRepository) ViewCounter(context context.Context, postID string) (int64, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.CorePost.ViewCounter, schema.CorePost.Table, schema.CorePost.ID)

	var counter int64
	if err := repository.pool.QueryRow(context, query, postID).Scan(&counter); err != nil {
		return 0, dberr.Wrap(err, "Post", "read_view_counter")
	}
	return counter, nil
}

// IncrementViewCounter adds one in place.
func (repository *postgresRepository) IncrementViewCounter(context context.Context, postID string) (int64, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s = %s + 1 WHERE %s = $1 RETURNING %s`,
		schema.CorePost.Table, schema.CorePost.ViewCounter, schema.CorePost.ViewCounter,
		schema.CorePost.ID, schema.CorePost.ViewCounter)

	var counter int64
	if err := repository.pool.QueryRow(context, query, postID).Scan(&counter); err != nil {
		return 0, dberr.Wrap(err, "Post", "increment_view_counter")
	}
	return counter, nil
}

// # Comments

// AddComment inserts the comment row.
func (repository *postgresRepository) AddComment(context context.Context, comment *Comment) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4) RETURNING %s`,
		schema.SocialComment.Table,
		schema.SocialComment.ID, schema.SocialComment.PostID, schema.SocialComment.UserID, schema.SocialComment.Text,
		schema.SocialComment.CreatedAt)

	err := repository.pool.QueryRow(context, query, comment.ID, comment.PostID, comment.Author.ID, comment.Text).
		Scan(&comment.CreatedAt)
	return dberr.Wrap(err, "Post", "add_comment")
}

// ListComments returns comments newest first.
func (repository *postgresRepository) ListComments(context context.Context, postID string, limit int) ([]Comment, error) {
	query := fmt.Sprintf(`
		SELECT c.%s, c.%s, c.%s, c.%s, a.%s, a.%s, a.%s
		FROM %s c
		JOIN %s a ON a.%s = c.%s
		WHERE c.%s = $1
		ORDER BY c.%s DESC, c.%s DESC`,
		schema.SocialComment.ID, schema.SocialComment.PostID, schema.SocialComment.Text, schema.SocialComment.CreatedAt,
		schema.UserAccount.ID, schema.UserAccount.Nickname, schema.UserAccount.Icon,
		schema.SocialComment.Table,
		schema.UserAccount.Table, schema.UserAccount.ID, schema.SocialComment.UserID,
		schema.SocialComment.PostID,
		schema.SocialComment.CreatedAt, schema.SocialComment.ID)

	args := []any{postID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "Comment", "list_comments")
	}
	defer rows.Close()

	result := []Comment{}
	for rows.Next() {
		var comment Comment
		err := rows.Scan(&comment.ID, &comment.PostID, &comment.Text, &comment.CreatedAt,
			&comment.Author.ID, &comment.Author.Nickname, &comment.Author.Icon)
		if err != nil {
			return nil, dberr.Wrap(err, "Comment", "scan_comment")
		}
		result = append(result, comment)
	}

	return result, dberr.Wrap(rows.Err(), "Comment", "list_comments")
}
