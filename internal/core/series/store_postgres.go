// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package series

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/tsuzuri/internal/platform/apperr"
	"github.com/taibuivan/tsuzuri/internal/platform/database/schema"
	"github.com/taibuivan/tsuzuri/internal/platform/dberr"
)

// querier is satisfied by both [*pgxpool.Pool] and [pgx.Tx].
type querier interface {
	Query(context context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(context context.Context, sql string, args ...any) pgx.Row
	Exec(context context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// # PostgreSQL Repository

// postgresRepository implements [Repository] using pgx.
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed series store.
func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

var seriesColumns = fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
	schema.CoreSeries.ID, schema.CoreSeries.AuthorID, schema.CoreSeries.Title,
	schema.CoreSeries.Description, schema.CoreSeries.Tags, schema.CoreSeries.IsOriginal,
	schema.CoreSeries.IsAdultContent, schema.CoreSeries.AIGenerated, schema.CoreSeries.Episodes,
	schema.CoreSeries.CreatedAt, schema.CoreSeries.UpdatedAt,
)

// scanSeries reads one row selected with [seriesColumns].
func scanSeries(row pgx.Row) (*Series, error) {
	var series Series
	var episodes []byte

	err := row.Scan(
		&series.ID, &series.AuthorID, &series.Title, &series.Description, &series.Tags,
		&series.IsOriginal, &series.IsAdultContent, &series.AIGenerated, &episodes,
		&series.CreatedAt, &series.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(episodes, &series.Episodes); err != nil {
		return nil, fmt.Errorf("postgres: failed to decode series episodes: %w", err)
	}
	if series.Episodes == nil {
		series.Episodes = []Episode{}
	}
	if series.Tags == nil {
		series.Tags = []string{}
	}
	return &series, nil
}

func encodeEpisodes(episodes []Episode) ([]byte, error) {
	if episodes == nil {
		episodes = []Episode{}
	}
	return json.Marshal(episodes)
}

// Create inserts the series row.
func (repository *postgresRepository) Create(context context.Context, series *Series) error {
	episodes, err := encodeEpisodes(series.Episodes)
	if err != nil {
		return apperr.Internal(err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s, %s`,
		schema.CoreSeries.Table,
		schema.CoreSeries.ID, schema.CoreSeries.AuthorID, schema.CoreSeries.Title,
		schema.CoreSeries.Description, schema.CoreSeries.Tags, schema.CoreSeries.IsOriginal,
		schema.CoreSeries.IsAdultContent, schema.CoreSeries.AIGenerated, schema.CoreSeries.Episodes,
		schema.CoreSeries.CreatedAt, schema.CoreSeries.UpdatedAt,
	)

	err = repository.pool.QueryRow(context, query,
		series.ID, series.AuthorID, series.Title, series.Description, series.Tags,
		series.IsOriginal, series.IsAdultContent, series.AIGenerated, episodes,
	).Scan(&series.CreatedAt, &series.UpdatedAt)

	// authorid is the only foreign key of the row
	if dberr.IsForeignKeyViolation(err) {
		return apperr.NotFound("Author").WithCause(err)
	}
	return dberr.Wrap(err, "Series", "create_series")
}

// FindByID loads one series.
func (repository *postgresRepository) FindByID(context context.Context, id string) (*Series, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		seriesColumns, schema.CoreSeries.Table, schema.CoreSeries.ID)

	series, err := scanSeries(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "Series", "find_series")
	}
	return series, nil
}

// UpdateInfo rewrites title, description, tags and flags.
func (repository *postgresRepository) UpdateInfo(context context.Context, series *Series) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = NOW()
		WHERE %s = $1
		RETURNING %s`,
		schema.CoreSeries.Table,
		schema.CoreSeries.Title, schema.CoreSeries.Description, schema.CoreSeries.Tags,
		schema.CoreSeries.IsOriginal, schema.CoreSeries.IsAdultContent, schema.CoreSeries.AIGenerated,
		schema.CoreSeries.UpdatedAt,
		schema.CoreSeries.ID,
		schema.CoreSeries.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		series.ID, series.Title, series.Description, series.Tags,
		series.IsOriginal, series.IsAdultContent, series.AIGenerated,
	).Scan(&series.UpdatedAt)

	return dberr.Wrap(err, "Series", "update_series")
}

// ListByAuthor returns the author's series, newest first.
func (repository *postgresRepository) ListByAuthor(context context.Context, authorID string) ([]*Series, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s DESC`,
		seriesColumns, schema.CoreSeries.Table, schema.CoreSeries.AuthorID, schema.CoreSeries.CreatedAt)

	rows, err := repository.pool.Query(context, query, authorID)
	if err != nil {
		return nil, dberr.Wrap(err, "Series", "list_series")
	}
	defer rows.Close()

	result := []*Series{}
	for rows.Next() {
		series, err := scanSeries(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "Series", "scan_series")
		}
		result = append(result, series)
	}
	return result, dberr.Wrap(rows.Err(), "Series", "list_series")
}

// FindPostSummaries resolves posts outside any transaction.
func (repository *postgresRepository) FindPostSummaries(context context.Context, postIDs []string) (map[string]PostSummary, error) {
	return findPostSummaries(context, repository.pool, postIDs)
}

// ListReferencingPosts lists back-referencing posts outside any transaction.
func (repository *postgresRepository) ListReferencingPosts(context context.Context, seriesID string) ([]PostSummary, error) {
	return listReferencingPosts(context, repository.pool, seriesID)
}

/*
Mutate runs a list change under a row lock.

Description: The transaction performs these steps:
 1. SELECT ... FOR UPDATE on the series row.
 2. Run mutate against the locked aggregate with a tx-bound [PostLookup].
 3. Apply each [Link] to core.post.
 4. Write the episode list back and commit.

Any failure rolls the whole change back, including the back-references.
*/
func (repository *postgresRepository) Mutate(context context.Context, seriesID string, mutate MutateFunc) (*Series, error) {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return nil, dberr.Wrap(err, "Series", "begin_tx")
	}
	defer transaction.Rollback(context)

	// 1. Lock
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR UPDATE`,
		seriesColumns, schema.CoreSeries.Table, schema.CoreSeries.ID)

	series, err := scanSeries(transaction.QueryRow(context, query, seriesID))
	if err != nil {
		return nil, dberr.Wrap(err, "Series", "lock_series")
	}

	// 2. Mutate in memory
	links, err := mutate(context, series, txLookup{transaction: transaction})
	if err != nil {
		return nil, err
	}

	// 3. Back references
	for _, link := range links {
		if err := applyLink(context, transaction, series, link); err != nil {
			return nil, err
		}
	}

	// 4. Persist the list
	episodes, err := encodeEpisodes(series.Episodes)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	update := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1 RETURNING %s`,
		schema.CoreSeries.Table, schema.CoreSeries.Episodes, schema.CoreSeries.UpdatedAt,
		schema.CoreSeries.ID, schema.CoreSeries.UpdatedAt)

	if err := transaction.QueryRow(context, update, series.ID, episodes).Scan(&series.UpdatedAt); err != nil {
		return nil, dberr.Wrap(err, "Series", "update_episodes")
	}

	if err := transaction.Commit(context); err != nil {
		return nil, dberr.Wrap(err, "Series", "commit_tx")
	}

	return series, nil
}

// applyLink writes one back-reference change inside the transaction.
func applyLink(context context.Context, transaction pgx.Tx, series *Series, link Link) error {
	switch link.Action {
	case LinkSet:
		// Only posts written by the series author can join it
		query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = NOW() WHERE %s = $2 AND %s = $3`,
			schema.CorePost.Table, schema.CorePost.SeriesID, schema.CorePost.UpdatedAt,
			schema.CorePost.ID, schema.CorePost.AuthorID)

		tag, err := transaction.Exec(context, query, series.ID, link.PostID, series.AuthorID)
		if err != nil {
			return dberr.Wrap(err, "Post", "link_post")
		}
		if tag.RowsAffected() == 0 {
			return apperr.NotFound("Post")
		}

	case LinkClear:
		// A post that has moved to another series keeps its new reference
		query := fmt.Sprintf(`UPDATE %s SET %s = NULL, %s = NOW() WHERE %s = $2 AND %s = $1`,
			schema.CorePost.Table, schema.CorePost.SeriesID, schema.CorePost.UpdatedAt,
			schema.CorePost.ID, schema.CorePost.SeriesID)

		if _, err := transaction.Exec(context, query, series.ID, link.PostID); err != nil {
			return dberr.Wrap(err, "Post", "unlink_post")
		}

	default:
		return apperr.Internal(fmt.Errorf("series: unknown link action %d", link.Action))
	}
	return nil
}

// txLookup reads posts inside a running transaction.
type txLookup struct {
	transaction pgx.Tx
}

func (lookup txLookup) FindPostSummaries(context context.Context, postIDs []string) (map[string]PostSummary, error) {
	return findPostSummaries(context, lookup.transaction, postIDs)
}

func (lookup txLookup) ListReferencingPosts(context context.Context, seriesID string) ([]PostSummary, error) {
	return listReferencingPosts(context, lookup.transaction, seriesID)
}

// # Post Queries

var postSummaryColumns = fmt.Sprintf("%s, %s, COALESCE(%s::text, ''), %s, %s, %s, %s, %s",
	schema.CorePost.ID, schema.CorePost.AuthorID, schema.CorePost.SeriesID, schema.CorePost.Title,
	schema.CorePost.Description, schema.CorePost.GoodCounter, schema.CorePost.BookShelfCounter,
	schema.CorePost.ViewCounter,
)

func scanPostSummary(row pgx.Row) (PostSummary, error) {
	var post PostSummary
	err := row.Scan(&post.ID, &post.AuthorID, &post.SeriesID, &post.Title, &post.Description,
		&post.GoodCounter, &post.BookShelfCounter, &post.ViewCounter)
	return post, err
}

func findPostSummaries(context context.Context, db querier, postIDs []string) (map[string]PostSummary, error) {
	result := make(map[string]PostSummary, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ANY($1::uuid[])`,
		postSummaryColumns, schema.CorePost.Table, schema.CorePost.ID)

	rows, err := db.Query(context, query, postIDs)
	if err != nil {
		return nil, dberr.Wrap(err, "Post", "find_post_summaries")
	}
	defer rows.Close()

	for rows.Next() {
		post, err := scanPostSummary(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "Post", "scan_post_summary")
		}
		result[post.ID] = post
	}
	return result, dberr.Wrap(rows.Err(), "Post", "find_post_summaries")
}

func listReferencingPosts(context context.Context, db querier, seriesID string) ([]PostSummary, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s ASC, %s ASC`,
		postSummaryColumns, schema.CorePost.Table, schema.CorePost.SeriesID,
		schema.CorePost.CreatedAt, schema.CorePost.ID)

	rows, err := db.Query(context, query, seriesID)
	if err != nil {
		return nil, dberr.Wrap(err, "Post", "list_referencing_posts")
	}
	defer rows.Close()

	result := []PostSummary{}
	for rows.Next() {
		post, err := scanPostSummary(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "Post", "scan_post_summary")
		}
		result = append(result, post)
	}
	return result, dberr.Wrap(rows.Err(), "Post", "list_referencing_posts")
}
