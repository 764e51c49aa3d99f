// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"testing"

	"pressroom/internal/slug"
)

func TestSeedIdempotent(t *testing.T) {
	db, err := Connect(testDSN())
	if err != nil {
		t.Skipf("skipping: DB not available: %v", err)
	}
	defer db.Close()

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	// Seed is callable safely any number of times. We don't clear the
	// database first because other test packages may be running
	// concurrently against the same database.
	if err := Seed(db); err != nil {
		t.Fatalf("first Seed: %v", err)
	}
	if err := Seed(db); err != nil {
		t.Fatalf("second Seed: %v", err)
	}

	for _, p := range seedPosts {
		var count int
		if err := db.QueryRow(
			"SELECT COUNT(*) FROM posts WHERE slug = $1 AND status = $2", slug.Generate(p.title), p.status,
		).Scan(&count); err != nil {
			t.Fatalf("count post %q: %v", p.title, err)
		}
		if count != 1 {
			t.Errorf("post %q: got %d rows, want 1", p.title, count)
		}
	}

	var links int
	if err := db.QueryRow(`
		SELECT COUNT(*) FROM post_tags pt
		JOIN posts p ON p.id = pt.post_id
		WHERE p.slug = $1
	`, slug.Generate("Table-driven tests in Go")).Scan(&links); err != nil {
		t.Fatalf("count tag links: %v", err)
	}
	if links != 2 {
		t.Errorf("tag links: got %d, want 2", links)
	}

	var categories int
	if err := db.QueryRow(
		"SELECT COUNT(*) FROM categories WHERE name = ANY($1)", seedCategories,
	).Scan(&categories); err != nil {
		t.Fatalf("count categories: %v", err)
	}
	if categories != len(seedCategories) {
		t.Errorf("categories: got %d, want %d", categories, len(seedCategories))
	}
}
