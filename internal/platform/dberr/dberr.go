// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr classifies pgx errors into [apperr.AppError] values.
package dberr

import (
	"errors"
	"net/http"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/usergroups/internal/platform/apperr"
)

// Wrap inspects a database error and converts it into an [apperr.AppError].
//
// The original error is kept as the cause, so errors.Is against pgx sentinels
// and errors.As against *pgconn.PgError keep working for callers and tests.
// action names the failing statement and is only used in the conflict message.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// Already classified (e.g. returned from a nested call).
	if apperr.As(err) != nil {
		return err
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return &apperr.AppError{
			Code:       apperr.CodeNotFound,
			Message:    "Resource not found",
			HTTPStatus: http.StatusNotFound,
			Cause:      err,
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return apperr.Conflict("Resource already exists ("+action+")", err)
		case pgerrcode.ForeignKeyViolation:
			return apperr.Conflict("Referenced resource does not exist ("+action+")", err)
		}
	}

	return apperr.Internal(err)
}

// IsNoRows reports whether err means the query matched nothing.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
