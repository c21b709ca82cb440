// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/portfolio/internal/platform/apperr"
)

// foreignKeyViolation is the SQLSTATE raised when a referenced row is missing.
const foreignKeyViolation = "23503"

// Wrap inspects a database error and converts it into an [apperr.AppError].
//
// resource names the entity for NotFound messages ("Comment"); action
// describes the attempted operation and only appears in server logs.
func Wrap(err error, resource, action string) error {
	if err == nil {
		return nil
	}

	// 1. Missing row
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	// 2. Parent vanished between check and insert
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
		return apperr.NotFound(resource)
	}

	// 3. Everything else is a server fault
	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}
