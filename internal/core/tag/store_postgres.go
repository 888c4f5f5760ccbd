// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/tsuzuri/internal/platform/database/schema"
	"github.com/taibuivan/tsuzuri/internal/platform/dberr"
)

// PostgresRepository counts tags over core.post.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the tag aggregate reader.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// PopularTags unnests every post's tag array and counts occurrences.
func (repository *PostgresRepository) PopularTags(context context.Context, limit int) ([]Popular, error) {
	query := fmt.Sprintf(`
		SELECT tag, COUNT(*) AS uses
		FROM %s, unnest(%s) AS tag
		GROUP BY tag
		ORDER BY uses DESC, tag ASC
		LIMIT $1`,
		schema.CorePost.Table, schema.CorePost.Tags)

	rows, err := repository.pool.Query(context, query, limit)
	if err != nil {
		return nil, dberr.Wrap(err, "Tag", "popular_tags")
	}
	defer rows.Close()

	result := []Popular{}
	for rows.Next() {
		var entry Popular
		if err := rows.Scan(&entry.Name, &entry.Count); err != nil {
			return nil, dberr.Wrap(err, "Tag", "scan_popular_tag")
		}
		result = append(result, entry)
	}
	return result, dberr.Wrap(rows.Err(), "Tag", "popular_tags")
}
