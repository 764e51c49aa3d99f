// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// Most tests run against in-memory fakes; the integration test is skipped
// when PostgreSQL is unavailable.
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"pressroom/internal/database"
	"pressroom/internal/mail"
	"pressroom/internal/models"
	"pressroom/internal/paginate"
	"pressroom/internal/render"
	"pressroom/internal/store"
	"pressroom/internal/syndication"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "pressroom")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "pressroom")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

var testSite = syndication.Site{
	Title:       "Pressroom",
	Description: "Latest posts",
	BaseURL:     "https://blog.example.com",
}

// now is the fixed instant the fakes treat as the present.
var now = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

// fakeContent implements every reader interface over in-memory slices.
// Only published posts are returned, mirroring the store.
type fakeContent struct {
	posts      []models.Post
	categories []models.Category
	tags       []models.Tag
	comments   []models.Comment
	err        error
}

func (f *fakeContent) published() []models.Post {
	var out []models.Post
	for _, p := range f.posts {
		if p.IsPublishedAt(now) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Publish.After(out[j].Publish) })
	return out
}

func (f *fakeContent) ListPublished(_ context.Context, filter store.Filter, perPage int, rawPage string) ([]models.Post, paginate.Page, error) {
	if f.err != nil {
		return nil, paginate.Page{}, f.err
	}
	var matched []models.Post
	for _, p := range f.published() {
		if filter.CategoryID != 0 && p.CategoryID != filter.CategoryID {
			continue
		}
		if filter.TagID != 0 && !hasTag(p, filter.TagID) {
			continue
		}
		matched = append(matched, p)
	}
	items, page := paginate.Slice(matched, perPage, rawPage)
	return items, page, nil
}

func (f *fakeContent) Search(_ context.Context, q string, perPage int, rawPage string) ([]models.Post, paginate.Page, error) {
	if f.err != nil {
		return nil, paginate.Page{}, f.err
	}
	var matched []models.Post
	if q != "" {
		for _, p := range f.published() {
			if strings.Contains(strings.ToLower(p.Title), strings.ToLower(q)) {
				matched = append(matched, p)
			}
		}
	}
	items, page := paginate.Slice(matched, perPage, rawPage)
	return items, page, nil
}

func (f *fakeContent) Latest(_ context.Context, limit int) ([]models.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	posts := f.published()
	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func (f *fakeContent) AllPublished(_ context.Context) ([]models.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.published(), nil
}

func (f *fakeContent) FindPublishedByDate(_ context.Context, year, month, day int, slug string) (*models.Post, error) {
	// PostgreSQL's make_date rejects impossible dates with an error.
	if d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC); int(d.Month()) != month || d.Day() != day {
		return nil, fmt.Errorf("make_date(%d, %d, %d): date field value out of range", year, month, day)
	}
	for _, p := range f.published() {
		d := p.Publish.UTC()
		if p.Slug == slug && d.Year() == year && int(d.Month()) == month && d.Day() == day {
			return &p, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeContent) FindPublishedByID(_ context.Context, id int64) (*models.Post, error) {
	for _, p := range f.published() {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeContent) ListSharingTags(_ context.Context, post *models.Post) ([]models.Post, error) {
	var out []models.Post
	for _, p := range f.published() {
		if p.ID == post.ID {
			continue
		}
		for _, id := range post.TagIDs() {
			if hasTag(p, id) {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func hasTag(p models.Post, id int64) bool {
	for _, t := range p.Tags {
		if t.ID == id {
			return true
		}
	}
	return false
}

// fakeCategories implements CategoryReader.
type fakeCategories struct{ f *fakeContent }

func (c fakeCategories) List(context.Context) ([]models.Category, error) {
	return c.f.categories, nil
}

func (c fakeCategories) FindByID(_ context.Context, id int64) (*models.Category, error) {
	for _, cat := range c.f.categories {
		if cat.ID == id {
			return &cat, nil
		}
	}
	return nil, store.ErrNotFound
}

// fakeTags implements TagReader.
type fakeTags struct{ f *fakeContent }

func (t fakeTags) List(_ context.Context, limit int) ([]models.Tag, error) {
	tags := t.f.tags
	if len(tags) > limit {
		tags = tags[:limit]
	}
	return tags, nil
}

func (t fakeTags) FindBySlug(_ context.Context, slug string) (*models.Tag, error) {
	for _, tag := range t.f.tags {
		if tag.Slug == slug {
			return &tag, nil
		}
	}
	return nil, store.ErrNotFound
}

// fakeComments implements CommentRepo.
type fakeComments struct{ f *fakeContent }

func (c fakeComments) Create(_ context.Context, postID int64, name, email, body string) (*models.Comment, error) {
	cm := models.Comment{
		ID:        int64(len(c.f.comments) + 1),
		PostID:    postID,
		Name:      name,
		Email:     email,
		Body:      body,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	c.f.comments = append(c.f.comments, cm)
	return &cm, nil
}

func (c fakeComments) ListActive(_ context.Context, postID int64) ([]models.Comment, error) {
	var out []models.Comment
	for _, cm := range c.f.comments {
		if cm.PostID == postID && cm.Active {
			out = append(out, cm)
		}
	}
	return out, nil
}

// recordingMailer captures sent messages, or fails with err.
type recordingMailer struct {
	sent []mail.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg mail.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

// newFakeContent returns the fixture set used by most handler tests:
//
//	1 "Go concurrency"  published, tags go+concurrency, category Tech
//	2 "Go modules"      published, tag go, category Tech
//	3 "Baking bread"    published, no tags, category Life
//	4 "Secret draft"    draft, tag go, category Tech
//	5 "From the future" published tomorrow, tag go, category Tech
func newFakeContent() *fakeContent {
	tech := models.Category{ID: 1, Name: "Tech"}
	life := models.Category{ID: 2, Name: "Life"}
	goTag := models.Tag{ID: 10, Name: "go", Slug: "go"}
	conc := models.Tag{ID: 11, Name: "concurrency", Slug: "concurrency"}

	post := func(id int64, title, slug string, status models.PostStatus, publish time.Time, cat models.Category, tags ...models.Tag) models.Post {
		return models.Post{
			ID: id, Title: title, Slug: slug, Body: "Body of **" + title + "**",
			Publish: publish, Status: status, CategoryID: cat.ID, Category: &cat,
			Tags: tags, CreatedAt: publish, UpdatedAt: publish,
		}
	}

	return &fakeContent{
		categories: []models.Category{tech, life},
		tags:       []models.Tag{conc, goTag},
		posts: []models.Post{
			post(1, "Go concurrency", "go-concurrency", models.PostStatusPublished, now.Add(-1*time.Hour), tech, goTag, conc),
			post(2, "Go modules", "go-modules", models.PostStatusPublished, now.Add(-48*time.Hour), tech, goTag),
			post(3, "Baking bread", "baking-bread", models.PostStatusPublished, now.Add(-72*time.Hour), life),
			post(4, "Secret draft", "secret-draft", models.PostStatusDraft, now.Add(-2*time.Hour), tech, goTag),
			post(5, "From the future", "from-the-future", models.PostStatusPublished, now.Add(24*time.Hour), tech, goTag),
		},
	}
}

// newTestBlog wires a Blog over the fakes.
func newTestBlog(t *testing.T, f *fakeContent, mailer mail.Sender) *Blog {
	t.Helper()

	renderer, err := render.New("Pressroom")
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	return NewBlog(renderer, f, fakeCategories{f}, fakeTags{f}, fakeComments{f}, mailer, testSite)
}

// withChiURLParams adds chi URL parameters to a request.
func withChiURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// postForm builds a form-encoded POST request.
func postForm(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}
