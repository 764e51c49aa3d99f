// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pressroom/internal/models"
	"pressroom/internal/slug"
)

// NavTagLimit caps the tags listed in the site navigation.
const NavTagLimit = 50

// TagStore manages tags and their slugs.
type TagStore struct {
	db *sql.DB
}

// NewTagStore returns a new TagStore.
func NewTagStore(db *sql.DB) *TagStore {
	return &TagStore{db: db}
}

// List returns up to limit tags ordered by name. A limit <= 0 returns all.
func (s *TagStore) List(ctx context.Context, limit int) ([]models.Tag, error) {
	query := `SELECT id, name, slug FROM tags ORDER BY name, id`
	var args []any
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var items []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

// FindBySlug retrieves a tag by slug. Returns ErrNotFound if missing.
func (s *TagStore) FindBySlug(ctx context.Context, tagSlug string) (*models.Tag, error) {
	var t models.Tag
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, slug FROM tags WHERE slug = $1`, tagSlug,
	).Scan(&t.ID, &t.Name, &t.Slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find tag by slug: %w", err)
	}
	return &t, nil
}

// Ensure returns the tag whose slug matches name, creating it if needed.
func (s *TagStore) Ensure(ctx context.Context, name string) (*models.Tag, error) {
	tagSlug := slug.Generate(name)
	if tagSlug == "" {
		return nil, fmt.Errorf("ensure tag: %q has no usable slug", name)
	}

	var t models.Tag
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO tags (name, slug) VALUES ($1, $2)
		ON CONFLICT (slug) DO UPDATE SET slug = EXCLUDED.slug
		RETURNING id, name, slug
	`, name, tagSlug).Scan(&t.ID, &t.Name, &t.Slug)
	if err != nil {
		return nil, fmt.Errorf("ensure tag: %w", err)
	}
	return &t, nil
}
