// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"pressroom/internal/slug"
)

// seedPost describes one development post. Publish dates are fixed so the
// (slug, publish date) key stays stable across runs.
type seedPost struct {
	title    string
	category string
	tags     []string
	publish  time.Time
	status   string
	body     string
}

var (
	seedCategories = []string{"Engineering", "Travel", "Notes"}
	seedTags       = []string{"Go", "PostgreSQL", "Testing", "Travel", "Notes"}

	seedPosts = []seedPost{
		{
			title:    "Hello, Pressroom",
			category: "Notes",
			tags:     []string{"Notes"},
			publish:  time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC),
			status:   "published",
			body:     "Welcome to the blog. Posts are written in **Markdown**.",
		},
		{
			title:    "Table-driven tests in Go",
			category: "Engineering",
			tags:     []string{"Go", "Testing"},
			publish:  time.Date(2026, 1, 19, 9, 0, 0, 0, time.UTC),
			status:   "published",
			body:     "A slice of cases and one loop.\n\n```go\nfor _, tt := range tests {\n\tt.Run(tt.name, func(t *testing.T) {})\n}\n```",
		},
		{
			title:    "Paginating with LIMIT and OFFSET",
			category: "Engineering",
			tags:     []string{"Go", "PostgreSQL"},
			publish:  time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC),
			status:   "published",
			body:     "Clamp the requested page before computing the offset.",
		},
		{
			title:    "Integration tests against PostgreSQL",
			category: "Engineering",
			tags:     []string{"PostgreSQL", "Testing"},
			publish:  time.Date(2026, 2, 16, 9, 0, 0, 0, time.UTC),
			status:   "published",
			body:     "Skip the test when the database is not reachable.",
		},
		{
			title:    "A week in Lisbon",
			category: "Travel",
			tags:     []string{"Travel"},
			publish:  time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
			status:   "published",
			body:     "Trams, tiles and *pastéis de nata*.",
		},
		{
			title:    "Unfinished thoughts on caching",
			category: "Notes",
			tags:     []string{"Notes", "PostgreSQL"},
			publish:  time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC),
			status:   "draft",
			body:     "Not ready yet.",
		},
	}
)

// Seed populates the database with development content: categories, tags,
// published posts and one draft. Every insert is conflict-tolerant, so
// running Seed again leaves existing rows alone.
func Seed(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	for _, name := range seedCategories {
		if _, err := tx.Exec(
			`INSERT INTO categories (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name,
		); err != nil {
			return fmt.Errorf("seed category %q: %w", name, err)
		}
	}

	for _, name := range seedTags {
		if _, err := tx.Exec(
			`INSERT INTO tags (name, slug) VALUES ($1, $2) ON CONFLICT (slug) DO NOTHING`,
			name, slug.Generate(name),
		); err != nil {
			return fmt.Errorf("seed tag %q: %w", name, err)
		}
	}

	inserted := 0
	for _, p := range seedPosts {
		postSlug := slug.Generate(p.title)

		res, err := tx.Exec(`
			INSERT INTO posts (title, slug, body, publish, status, category_id)
			VALUES ($1, $2, $3, $4, $5, (SELECT id FROM categories WHERE name = $6))
			ON CONFLICT (slug, ((publish AT TIME ZONE 'UTC')::date)) DO NOTHING
		`, p.title, postSlug, p.body, p.publish, p.status, p.category)
		if err != nil {
			return fmt.Errorf("seed post %q: %w", p.title, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}

		tagSlugs := make([]string, len(p.tags))
		for i, name := range p.tags {
			tagSlugs[i] = slug.Generate(name)
		}
		if _, err := tx.Exec(`
			INSERT INTO post_tags (post_id, tag_id)
			SELECT p.id, t.id
			FROM posts p, tags t
			WHERE p.slug = $1
			  AND (p.publish AT TIME ZONE 'UTC')::date = ($2::timestamptz AT TIME ZONE 'UTC')::date
			  AND t.slug = ANY($3)
			ON CONFLICT DO NOTHING
		`, postSlug, p.publish, tagSlugs); err != nil {
			return fmt.Errorf("seed tags of %q: %w", p.title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	if inserted == 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}
	slog.Info("database seeded with development content", "posts", inserted)
	return nil
}
