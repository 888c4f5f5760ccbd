// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/tsuzuri/internal/platform/database/schema"
	"github.com/taibuivan/tsuzuri/internal/platform/dberr"
	"github.com/taibuivan/tsuzuri/internal/users/auth"
)

// # PostgreSQL Repository

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed [Repository].
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// # Profiles

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*auth.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		strings.Join(schema.UserAccount.Columns(), ", "), schema.UserAccount.Table, schema.UserAccount.ID)

	user, err := auth.ScanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "User", "find_profile")
	}
	return user, nil
}

func (repository *PostgresRepository) Exists(context context.Context, id string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`,
		schema.UserAccount.Table, schema.UserAccount.ID)

	var exists bool
	if err := repository.pool.QueryRow(context, query, id).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "User", "user_exists")
	}
	return exists, nil
}

func (repository *PostgresRepository) UpdateProfile(context context.Context, user *auth.User) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = NOW()
		WHERE %s = $1
		RETURNING %s`,
		schema.UserAccount.Table,
		schema.UserAccount.Nickname, schema.UserAccount.Icon, schema.UserAccount.Description,
		schema.UserAccount.XLink, schema.UserAccount.PixivLink, schema.UserAccount.OtherLink,
		schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID,
		schema.UserAccount.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		user.ID, user.Nickname, user.Icon, user.Description, user.XLink, user.PixivLink, user.OtherLink,
	).Scan(&user.UpdatedAt)

	return dberr.Wrap(err, "User", "update_profile")
}

// # Follow Graph

// querier is satisfied by both the pool and a transaction.
type querier interface {
	QueryRow(context context.Context, sql string, args ...any) pgx.Row
}

func countFollowers(context context.Context, db querier, userID string) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`,
		schema.UserFollow.Table, schema.UserFollow.FollowingID)

	var count int
	if err := db.QueryRow(context, query, userID).Scan(&count); err != nil {
		return 0, dberr.Wrap(err, "User", "count_followers")
	}
	return count, nil
}

var (
	deleteFollowQuery = fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.UserFollow.Table, schema.UserFollow.FollowerID, schema.UserFollow.FollowingID)

	insertFollowQuery = fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		schema.UserFollow.Table, schema.UserFollow.FollowerID, schema.UserFollow.FollowingID)
)

// ToggleFollow deletes first and inserts only when no edge was removed.
func (repository *PostgresRepository) ToggleFollow(context context.Context, followerID, followingID string) (FollowResult, error) {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return FollowResult{}, dberr.Wrap(err, "User", "begin_tx")
	}
	defer transaction.Rollback(context)

	tag, err := transaction.Exec(context, deleteFollowQuery, followerID, followingID)
	if err != nil {
		return FollowResult{}, dberr.Wrap(err, "User", "delete_follow")
	}

	result := FollowResult{IsFollowing: tag.RowsAffected() == 0}
	if result.IsFollowing {
		if _, err := transaction.Exec(context, insertFollowQuery, followerID, followingID); err != nil {
			return FollowResult{}, dberr.Wrap(err, "User", "insert_follow")
		}
	}

	if result.FollowerCount, err = countFollowers(context, transaction, followingID); err != nil {
		return FollowResult{}, err
	}

	if err := transaction.Commit(context); err != nil {
		return FollowResult{}, dberr.Wrap(err, "User", "commit_tx")
	}
	return result, nil
}

func (repository *PostgresRepository) Follow(context context.Context, followerID, followingID string) (FollowResult, error) {
	if _, err := repository.pool.Exec(context, insertFollowQuery, followerID, followingID); err != nil {
		return FollowResult{}, dberr.Wrap(err, "User", "insert_follow")
	}

	count, err := countFollowers(context, repository.pool, followingID)
	return FollowResult{IsFollowing: true, FollowerCount: count}, err
}

func (repository *PostgresRepository) Unfollow(context context.Context, followerID, followingID string) (FollowResult, error) {
	if _, err := repository.pool.Exec(context, deleteFollowQuery, followerID, followingID); err != nil {
		return FollowResult{}, dberr.Wrap(err, "User", "delete_follow")
	}

	count, err := countFollowers(context, repository.pool, followingID)
	return FollowResult{IsFollowing: false, FollowerCount: count}, err
}

func (repository *PostgresRepository) IsFollowing(context context.Context, followerID, followingID string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s = $2)`,
		schema.UserFollow.Table, schema.UserFollow.FollowerID, schema.UserFollow.FollowingID)

	var following bool
	if err := repository.pool.QueryRow(context, query, followerID, followingID).Scan(&following); err != nil {
		return false, dberr.Wrap(err, "User", "is_following")
	}
	return following, nil
}

// edgeIDs selects one column of the edges whose peer column matches userID.
func (repository *PostgresRepository) edgeIDs(context context.Context, selectColumn, userID string) ([]string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s DESC`,
		selectColumn, schema.UserFollow.Table, schema.UserFollow.Peer(selectColumn), schema.UserFollow.CreatedAt)

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "User", "list_follow_ids")
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, dberr.Wrap(err, "User", "scan_follow_ids")
	}
	return ids, nil
}

func (repository *PostgresRepository) FollowIDs(context context.Context, userID string) ([]string, []string, error) {
	followers, err := repository.edgeIDs(context, schema.UserFollow.FollowerID, userID)
	if err != nil {
		return nil, nil, err
	}

	following, err := repository.edgeIDs(context, schema.UserFollow.FollowingID, userID)
	if err != nil {
		return nil, nil, err
	}
	return followers, following, nil
}

// summaries joins the accounts on the far side of the edges matching userID.
func (repository *PostgresRepository) summaries(context context.Context, joinColumn, userID string) ([]Summary, error) {
	matchColumn := schema.UserFollow.Peer(joinColumn)
	query := fmt.Sprintf(`
		SELECT a.%s, a.%s, a.%s
		FROM %s f
		JOIN %s a ON a.%s = f.%s
		WHERE f.%s = $1
		ORDER BY f.%s DESC`,
		schema.UserAccount.ID, schema.UserAccount.Nickname, schema.UserAccount.Icon,
		schema.UserFollow.Table,
		schema.UserAccount.Table, schema.UserAccount.ID, joinColumn,
		matchColumn,
		schema.UserFollow.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "User", "list_follows")
	}
	defer rows.Close()

	result := []Summary{}
	for rows.Next() {
		var summary Summary
		if err := rows.Scan(&summary.ID, &summary.Nickname, &summary.Icon); err != nil {
			return nil, dberr.Wrap(err, "User", "scan_follows")
		}
		result = append(result, summary)
	}
	return result, dberr.Wrap(rows.Err(), "User", "list_follows")
}

func (repository *PostgresRepository) ListFollowers(context context.Context, userID string) ([]Summary, error) {
	return repository.summaries(context, schema.UserFollow.FollowerID, userID)
}

func (repository *PostgresRepository) ListFollowing(context context.Context, userID string) ([]Summary, error) {
	return repository.summaries(context, schema.UserFollow.FollowingID, userID)
}
