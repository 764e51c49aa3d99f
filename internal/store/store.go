// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides the PostgreSQL data access layer for posts,
// categories, tags and comments. Queries are plain SQL over database/sql.
package store

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested row does not exist or is not
// visible to readers (for example a draft post looked up by URL).
var ErrNotFound = errors.New("not found")

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// Clock returns the current time. Stores take one so tests can pin "now"
// when checking the published filter.
type Clock func() time.Time
