// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// store_test.go provides a shared test database helper and fixtures for all
// store integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"pressroom/internal/database"
	"pressroom/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "pressroom")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "pressroom")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	// Run migrations to ensure the schema is current.
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// suffix returns a short random string that keeps fixture names unique
// across concurrently running test packages.
func suffix() string {
	return uuid.NewString()[:8]
}

// fixtures bundles the stores and a category that is removed, with all of
// its posts, when the test ends.
type fixtures struct {
	db         *sql.DB
	posts      *PostStore
	categories *CategoryStore
	tags       *TagStore
	comments   *CommentStore
	category   *models.Category
	now        time.Time
}

func newFixtures(t *testing.T) *fixtures {
	t.Helper()
	db := testDB(t)
	ctx := context.Background()

	f := &fixtures{
		db:         db,
		posts:      NewPostStore(db),
		categories: NewCategoryStore(db),
		tags:       NewTagStore(db),
		comments:   NewCommentStore(db),
		now:        time.Now().UTC().Truncate(time.Second),
	}
	f.posts.SetClock(func() time.Time { return f.now })

	cat, err := f.categories.Create(ctx, "Test Category "+suffix())
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	f.category = cat

	t.Cleanup(func() {
		db.Exec("DELETE FROM posts WHERE category_id = $1", cat.ID)
		db.Exec("DELETE FROM categories WHERE id = $1", cat.ID)
	})
	return f
}

// tag creates a uniquely named tag that is removed when the test ends.
func (f *fixtures) tag(t *testing.T, name string) models.Tag {
	t.Helper()
	tag, err := f.tags.Ensure(context.Background(), name+" "+suffix())
	if err != nil {
		t.Fatalf("ensure tag: %v", err)
	}
	t.Cleanup(func() { f.db.Exec("DELETE FROM tags WHERE id = $1", tag.ID) })
	return *tag
}

// post creates a post in the fixture category.
func (f *fixtures) post(t *testing.T, title string, status models.PostStatus, age time.Duration, tags ...models.Tag) *models.Post {
	t.Helper()
	p, err := f.posts.Create(context.Background(), &models.Post{
		Title:      title,
		Slug:       "test-" + suffix(),
		Body:       "Body of " + title,
		Publish:    f.now.Add(-age),
		Status:     status,
		CategoryID: f.category.ID,
		Tags:       tags,
	})
	if err != nil {
		t.Fatalf("create post %q: %v", title, err)
	}
	return p
}

func postIDs(posts []models.Post) []int64 {
	out := make([]int64, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	return out
}

func sameIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
