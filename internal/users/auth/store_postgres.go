// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/tsuzuri/internal/platform/database/schema"
	"github.com/taibuivan/tsuzuri/internal/platform/dberr"
)

// # PostgreSQL Repository

// UserPostgresRepository implements [UserRepository] using pgx.
type UserPostgresRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository constructs a PostgreSQL backed [UserRepository].
func NewUserRepository(pool *pgxpool.Pool) *UserPostgresRepository {
	return &UserPostgresRepository{pool: pool}
}

func selectUsers() string {
	return fmt.Sprintf(`SELECT %s FROM %s`, strings.Join(schema.UserAccount.Columns(), ", "), schema.UserAccount.Table)
}

// ScanUser reads one row in [schema.UserAccountTable.Columns] order.
func ScanUser(row pgx.Row) (*User, error) {
	var user User
	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Nickname, &user.Icon,
		&user.DateOfBirth, &user.Gender, &user.Description,
		&user.XLink, &user.PixivLink, &user.OtherLink, &user.Role,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID returns the account with the given ID.
func (repository *UserPostgresRepository) FindByID(context context.Context, id string) (*User, error) {
	query := selectUsers() + fmt.Sprintf(` WHERE %s = $1`, schema.UserAccount.ID)

	user, err := ScanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "User", "find_user")
	}
	return user, nil
}

// FindByEmail uses the LOWER(email) unique index.
func (repository *UserPostgresRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := selectUsers() + fmt.Sprintf(` WHERE LOWER(%s) = LOWER($1)`, schema.UserAccount.Email)

	user, err := ScanUser(repository.pool.QueryRow(context, query, email))
	if err != nil {
		return nil, dberr.Wrap(err, "User", "find_user_by_email")
	}
	return user, nil
}

// Create inserts the account row.
func (repository *UserPostgresRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s, %s`,
		schema.UserAccount.Table,
		schema.UserAccount.ID, schema.UserAccount.Email, schema.UserAccount.Password, schema.UserAccount.Nickname,
		schema.UserAccount.Icon, schema.UserAccount.DateOfBirth, schema.UserAccount.Gender, schema.UserAccount.Role,
		schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		user.ID, user.Email, user.PasswordHash, user.Nickname, user.Icon, user.DateOfBirth, user.Gender, user.Role,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	return dberr.Wrap(err, "Email", "create_user")
}

// UpdatePassword replaces the hash.
func (repository *UserPostgresRepository) UpdatePassword(context context.Context, userID, passwordHash string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.Password, schema.UserAccount.UpdatedAt, schema.UserAccount.ID)

	tag, err := repository.pool.Exec(context, query, userID, passwordHash)
	if err != nil {
		return dberr.Wrap(err, "User", "update_password")
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "User", "update_password")
	}
	return nil
}
