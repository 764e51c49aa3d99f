// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the HTTP handlers of the public blog: post
// listings, post detail, search, the comment and share forms, and the
// syndication endpoints.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"pressroom/internal/forms"
	"pressroom/internal/mail"
	"pressroom/internal/models"
	"pressroom/internal/paginate"
	"pressroom/internal/render"
	"pressroom/internal/search"
	"pressroom/internal/similar"
	"pressroom/internal/store"
	"pressroom/internal/syndication"
)

// PostReader is the read side of the post store. Every method only ever
// returns published posts.
type PostReader interface {
	ListPublished(ctx context.Context, f store.Filter, perPage int, rawPage string) ([]models.Post, paginate.Page, error)
	Search(ctx context.Context, q string, perPage int, rawPage string) ([]models.Post, paginate.Page, error)
	Latest(ctx context.Context, limit int) ([]models.Post, error)
	AllPublished(ctx context.Context) ([]models.Post, error)
	FindPublishedByDate(ctx context.Context, year, month, day int, slug string) (*models.Post, error)
	FindPublishedByID(ctx context.Context, id int64) (*models.Post, error)
	ListSharingTags(ctx context.Context, post *models.Post) ([]models.Post, error)
}

// CategoryReader looks up categories.
type CategoryReader interface {
	List(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id int64) (*models.Category, error)
}

// TagReader looks up tags.
type TagReader interface {
	List(ctx context.Context, limit int) ([]models.Tag, error)
	FindBySlug(ctx context.Context, slug string) (*models.Tag, error)
}

// CommentRepo stores and lists reader comments.
type CommentRepo interface {
	Create(ctx context.Context, postID int64, name, email, body string) (*models.Comment, error)
	ListActive(ctx context.Context, postID int64) ([]models.Comment, error)
}

// Blog groups the handlers of the public site.
type Blog struct {
	renderer   *render.Renderer
	posts      PostReader
	categories CategoryReader
	tags       TagReader
	comments   CommentRepo
	mailer     mail.Sender
	site       syndication.Site
}

// NewBlog creates a new Blog handler group.
func NewBlog(renderer *render.Renderer, posts PostReader, categories CategoryReader, tags TagReader, comments CommentRepo, mailer mail.Sender, site syndication.Site) *Blog {
	return &Blog{
		renderer:   renderer,
		posts:      posts,
		categories: categories,
		tags:       tags,
		comments:   comments,
		mailer:     mailer,
		site:       site,
	}
}

// Home shows the most recent published posts.
func (b *Blog) Home(w http.ResponseWriter, r *http.Request) {
	posts, err := b.posts.Latest(r.Context(), paginate.HomeSize)
	if err != nil {
		b.serverError(w, r, err)
		return
	}

	b.page(w, r, http.StatusOK, "home", "", map[string]any{"Posts": posts})
}

// PostList shows every published post, or only those carrying the tag
// named by the optional {tag_slug} URL parameter.
func (b *Blog) PostList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var filter store.Filter
	heading := "All posts"
	var tag *models.Tag

	if tagSlug := chi.URLParam(r, "tag_slug"); tagSlug != "" {
		var err error
		tag, err = b.tags.FindBySlug(ctx, tagSlug)
		if err != nil {
			b.fail(w, r, err)
			return
		}
		filter.TagID = tag.ID
		heading = fmt.Sprintf("Posts tagged with %q", tag.Name)
	}

	posts, page, err := b.posts.ListPublished(ctx, filter, paginate.ListingSize, r.URL.Query().Get("page"))
	if err != nil {
		b.serverError(w, r, err)
		return
	}

	b.page(w, r, http.StatusOK, "post_list", heading, map[string]any{
		"Heading":  heading,
		"Tag":      tag,
		"Posts":    posts,
		"Page":     page,
		"PageBase": "?page=",
	})
}

// CategoryList shows the published posts of one category.
func (b *Blog) CategoryList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := parseID(chi.URLParam(r, "category_id"))
	if !ok {
		b.NotFound(w, r)
		return
	}

	category, err := b.categories.FindByID(ctx, id)
	if err != nil {
		b.fail(w, r, err)
		return
	}

	posts, page, err := b.posts.ListPublished(ctx, store.Filter{CategoryID: id}, paginate.ListingSize, r.URL.Query().Get("page"))
	if err != nil {
		b.serverError(w, r, err)
		return
	}

	b.page(w, r, http.StatusOK, "post_list", category.Name, map[string]any{
		"Heading":  category.Name,
		"Category": category,
		"Posts":    posts,
		"Page":     page,
		"PageBase": "?page=",
	})
}

// Search lists published posts whose title, body, category or tags
// contain the "query" parameter. A blank query shows an empty form.
func (b *Blog) Search(w http.ResponseWriter, r *http.Request) {
	q := search.Normalize(r.URL.Query().Get("query"))

	posts, page, err := b.posts.Search(r.Context(), q, paginate.ListingSize, r.URL.Query().Get("page"))
	if err != nil {
		b.serverError(w, r, err)
		return
	}

	title := "Search"
	if q != "" {
		title = fmt.Sprintf("Search results for %q", q)
	}

	b.page(w, r, http.StatusOK, "search", title, map[string]any{
		"Query":    q,
		"Posts":    posts,
		"Page":     page,
		"PageBase": "/search?query=" + url.QueryEscape(q) + "&page=",
	})
}

// PostDetail shows a published post with its active comments, similar
// posts and an empty comment form.
func (b *Blog) PostDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	year, okY := parseInt(chi.URLParam(r, "year"))
	month, okM := parseInt(chi.URLParam(r, "month"))
	day, okD := parseInt(chi.URLParam(r, "day"))
	if !okY || !okM || !okD || !validDate(year, month, day) {
		b.NotFound(w, r)
		return
	}

	post, err := b.posts.FindPublishedByDate(ctx, year, month, day, chi.URLParam(r, "slug"))
	if err != nil {
		b.fail(w, r, err)
		return
	}

	comments, err := b.comments.ListActive(ctx, post.ID)
	if err != nil {
		b.serverError(w, r, err)
		return
	}

	candidates, err := b.posts.ListSharingTags(ctx, post)
	if err != nil {
		b.serverError(w, r, err)
		return
	}

	b.page(w, r, http.StatusOK, "post_detail", post.Title, map[string]any{
		"Post":     post,
		"Comments": comments,
		"Similar":  similar.Rank(post, candidates, similar.DefaultLimit),
		"Form":     forms.CommentForm{},
		"Errors":   forms.Errors(nil),
	})
}

// --- Shared helpers ---

// page loads the navigation and renders a page template.
func (b *Blog) page(w http.ResponseWriter, r *http.Request, status int, name, title string, data map[string]any) {
	nav, err := b.navigation(r.Context())
	if err != nil {
		b.serverError(w, r, err)
		return
	}

	b.renderer.PageStatus(w, r, status, name, &render.PageData{
		Title: title,
		Nav:   nav,
		Data:  data,
	})
}

// navigation returns every category and the first store.NavTagLimit tags.
func (b *Blog) navigation(ctx context.Context) (render.Nav, error) {
	categories, err := b.categories.List(ctx)
	if err != nil {
		return render.Nav{}, fmt.Errorf("navigation: %w", err)
	}
	tags, err := b.tags.List(ctx, store.NavTagLimit)
	if err != nil {
		return render.Nav{}, fmt.Errorf("navigation: %w", err)
	}
	return render.Nav{Categories: categories, Tags: tags}, nil
}

// fail maps store.ErrNotFound to a 404 page and anything else to a 500.
func (b *Blog) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrNotFound) {
		b.NotFound(w, r)
		return
	}
	b.serverError(w, r, err)
}

// NotFound renders the 404 page. Navigation is included when it loads.
func (b *Blog) NotFound(w http.ResponseWriter, r *http.Request) {
	nav, err := b.navigation(r.Context())
	if err != nil {
		slog.WarnContext(r.Context(), "navigation unavailable on 404 page", "error", err)
	}
	b.renderer.PageStatus(w, r, http.StatusNotFound, "not_found", &render.PageData{
		Title: "Page not found",
		Nav:   nav,
	})
}

// serverError logs err and renders the generic error page.
func (b *Blog) serverError(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	b.renderer.PageStatus(w, r, http.StatusInternalServerError, "error", &render.PageData{
		Title: "Error",
	})
}

// badRequest logs err and renders the generic error page with status 400.
func (b *Blog) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	slog.WarnContext(r.Context(), "bad request",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	b.renderer.PageStatus(w, r, http.StatusBadRequest, "error", &render.PageData{
		Title: "Bad request",
	})
}

// validDate reports whether year-month-day is a real calendar date.
func validDate(year, month, day int) bool {
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return d.Year() == year && int(d.Month()) == month && d.Day() == day
}

// parseID parses a positive database id from a URL parameter.
func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// parseInt parses a positive int from a URL parameter.
func parseInt(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
