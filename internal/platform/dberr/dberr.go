// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr maps pgx errors onto [apperr.AppError] values.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/tsuzuri/internal/platform/apperr"
)

// SQLSTATE codes that carry domain meaning.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

/*
Wrap classifies a database error.

  - no rows becomes NOT_FOUND for resource
  - a unique violation becomes CONFLICT
  - a foreign key violation becomes NOT_FOUND, the referenced row is gone
  - a check violation becomes VALIDATION_ERROR naming the constraint
  - everything else becomes INTERNAL_ERROR tagged with action

The driver error stays reachable as the cause in every case.
*/
func Wrap(err error, resource, action string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource).WithCause(err)
	}

	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		switch pgError.Code {
		case codeUniqueViolation:
			return apperr.Conflict(resource + " already exists").WithCause(err)
		case codeForeignKeyViolation:
			return apperr.NotFound(resource).WithCause(err)
		case codeCheckViolation:
			return apperr.ValidationError(resource+" violates "+pgError.ConstraintName).WithCause(err)
		}
	}

	return apperr.Internal(fmt.Errorf("postgres: %s: %w", action, err))
}

// IsForeignKeyViolation reports whether err is a foreign key violation, so an
// insert can name the missing parent instead of the row it was writing.
func IsForeignKeyViolation(err error) bool {
	var pgError *pgconn.PgError
	return errors.As(err, &pgError) && pgError.Code == codeForeignKeyViolation
}
