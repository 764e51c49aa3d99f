// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"pressroom/internal/models"
	"pressroom/internal/paginate"
	"pressroom/internal/search"
	"pressroom/internal/slug"
)

// PostStore handles all post-related database operations.
//
// Every reader-facing query goes through publishedClause, which always
// binds the current time as $1. Drafts and posts scheduled for the future
// are therefore invisible to listings, search, similarity, feeds and
// detail lookups alike.
type PostStore struct {
	db  *sql.DB
	now Clock
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db, now: time.Now}
}

// SetClock replaces the time source used by the published filter.
func (s *PostStore) SetClock(now Clock) {
	s.now = now
}

// publishedClause is the single definition of reader visibility.
const publishedClause = `p.status = 'published' AND p.publish <= $1`

// publishedOrder is the default ordering of published listings.
const publishedOrder = `ORDER BY p.publish DESC, p.id DESC`

const postSelect = `
	SELECT p.id, p.title, p.slug, p.body, p.publish, p.status,
	       p.category_id, p.created_at, p.updated_at,
	       c.id, c.name, c.created_at, c.updated_at
	FROM posts p
	JOIN categories c ON c.id = p.category_id`

// scanPost scans a postSelect row, including its category.
func scanPost(row scanner) (*models.Post, error) {
	var p models.Post
	var c models.Category
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Body, &p.Publish, &p.Status,
		&p.CategoryID, &p.CreatedAt, &p.UpdatedAt,
		&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Category = &c
	return &p, nil
}

// Filter narrows a published listing. Zero fields are ignored.
type Filter struct {
	CategoryID int64
	TagID      int64
	Query      string // free text matched against search.AllFields
}

// where builds the WHERE clause and arguments for f. $1 is always now.
func (f Filter) where(now time.Time) (string, []any) {
	conds := []string{publishedClause}
	args := []any{now}

	if f.CategoryID != 0 {
		args = append(args, f.CategoryID)
		conds = append(conds, fmt.Sprintf("p.category_id = $%d", len(args)))
	}
	if f.TagID != 0 {
		args = append(args, f.TagID)
		conds = append(conds, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM post_tags pt WHERE pt.post_id = p.id AND pt.tag_id = $%d)", len(args)))
	}
	if pred := search.Build(f.Query, len(args)+1, search.AllFields...); !pred.Empty() {
		conds = append(conds, pred.SQL)
		args = append(args, pred.Args...)
	}

	return "WHERE " + strings.Join(conds, " AND "), args
}

// ListPublished returns one page of published posts matching f, newest
// first, with categories and tags loaded. rawPage is clamped by
// paginate.Resolve, so any value yields a valid page.
func (s *PostStore) ListPublished(ctx context.Context, f Filter, perPage int, rawPage string) ([]models.Post, paginate.Page, error) {
	where, args := f.where(s.now())

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posts p JOIN categories c ON c.id = p.category_id `+where, args...,
	).Scan(&total); err != nil {
		return nil, paginate.Page{}, fmt.Errorf("count published posts: %w", err)
	}

	page := paginate.Resolve(total, perPage, rawPage)
	if total == 0 {
		return nil, page, nil
	}

	n := len(args)
	query := fmt.Sprintf("%s %s %s LIMIT $%d OFFSET $%d", postSelect, where, publishedOrder, n+1, n+2)
	args = append(args, page.Limit(), page.Offset())

	posts, err := s.queryPosts(ctx, query, args...)
	if err != nil {
		return nil, page, fmt.Errorf("list published posts: %w", err)
	}
	return posts, page, nil
}

// Search returns one page of published posts whose title, body, category
// name or any tag name contains q, case-insensitively. A blank q yields an
// empty first page without touching the database.
func (s *PostStore) Search(ctx context.Context, q string, perPage int, rawPage string) ([]models.Post, paginate.Page, error) {
	q = search.Normalize(q)
	if q == "" {
		return nil, paginate.Resolve(0, perPage, rawPage), nil
	}
	return s.ListPublished(ctx, Filter{Query: q}, perPage, rawPage)
}

// Latest returns the limit most recent published posts.
func (s *PostStore) Latest(ctx context.Context, limit int) ([]models.Post, error) {
	posts, err := s.queryPosts(ctx,
		postSelect+` WHERE `+publishedClause+` `+publishedOrder+` LIMIT $2`,
		s.now(), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("latest posts: %w", err)
	}
	return posts, nil
}

// AllPublished returns every published post, newest first. Used for the sitemap.
func (s *PostStore) AllPublished(ctx context.Context) ([]models.Post, error) {
	posts, err := s.queryPosts(ctx, postSelect+` WHERE `+publishedClause+` `+publishedOrder, s.now())
	if err != nil {
		return nil, fmt.Errorf("all published posts: %w", err)
	}
	return posts, nil
}

// FindPublishedByDate retrieves a published post by its URL date (UTC) and
// slug. Returns ErrNotFound for unknown, draft or future posts.
func (s *PostStore) FindPublishedByDate(ctx context.Context, year, month, day int, postSlug string) (*models.Post, error) {
	return s.findOne(ctx, "find post by date",
		postSelect+` WHERE `+publishedClause+`
		  AND p.slug = $2
		  AND (p.publish AT TIME ZONE 'UTC')::date = make_date($3, $4, $5)`,
		s.now(), postSlug, year, month, day,
	)
}

// FindPublishedByID retrieves a published post by ID. Returns ErrNotFound
// for unknown, draft or future posts.
func (s *PostStore) FindPublishedByID(ctx context.Context, id int64) (*models.Post, error) {
	return s.findOne(ctx, "find post by id",
		postSelect+` WHERE `+publishedClause+` AND p.id = $2`,
		s.now(), id,
	)
}

// FindByID retrieves a post regardless of status. Not used by reader paths.
func (s *PostStore) FindByID(ctx context.Context, id int64) (*models.Post, error) {
	return s.findOne(ctx, "find post by id", postSelect+` WHERE p.id = $1`, id)
}

func (s *PostStore) findOne(ctx context.Context, op, query string, args ...any) (*models.Post, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	posts := []models.Post{*p}
	if err := s.loadTags(ctx, posts); err != nil {
		return nil, err
	}
	return &posts[0], nil
}

// ListSharingTags returns the published posts other than post that carry at
// least one of its tags, with their tags loaded. Ranking is left to the
// caller (see package similar).
func (s *PostStore) ListSharingTags(ctx context.Context, post *models.Post) ([]models.Post, error) {
	tagIDs := post.TagIDs()
	if len(tagIDs) == 0 {
		return nil, nil
	}

	posts, err := s.queryPosts(ctx, postSelect+` WHERE `+publishedClause+`
		  AND p.id <> $2
		  AND EXISTS (SELECT 1 FROM post_tags pt WHERE pt.post_id = p.id AND pt.tag_id = ANY($3))
		`+publishedOrder,
		s.now(), post.ID, tagIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("list posts sharing tags: %w", err)
	}
	return posts, nil
}

// queryPosts runs a postSelect query and loads tags for the result.
func (s *PostStore) queryPosts(ctx context.Context, query string, args ...any) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.loadTags(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// loadTags fills Tags on every post with a single query.
func (s *PostStore) loadTags(ctx context.Context, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]int64, len(posts))
	index := make(map[int64]int, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
		index[p.ID] = i
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT pt.post_id, t.id, t.name, t.slug
		FROM post_tags pt
		JOIN tags t ON t.id = pt.tag_id
		WHERE pt.post_id = ANY($1)
		ORDER BY t.name, t.id
	`, ids)
	if err != nil {
		return fmt.Errorf("load post tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var postID int64
		var t models.Tag
		if err := rows.Scan(&postID, &t.ID, &t.Name, &t.Slug); err != nil {
			return fmt.Errorf("scan post tag: %w", err)
		}
		if i, ok := index[postID]; ok {
			posts[i].Tags = append(posts[i].Tags, t)
		}
	}
	return rows.Err()
}

// Create inserts a post and its tag links in one transaction. A blank slug
// is generated from the title; a zero publish time defaults to now.
func (s *PostStore) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	if strings.TrimSpace(p.Slug) == "" {
		p.Slug = slug.Generate(p.Title)
	}
	if p.Publish.IsZero() {
		p.Publish = s.now()
	}
	if p.Status == "" {
		p.Status = models.PostStatusDraft
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO posts (title, slug, body, publish, status, category_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, p.Title, p.Slug, p.Body, p.Publish, p.Status, p.CategoryID).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	for _, t := range p.Tags {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			id, t.ID,
		); err != nil {
			return nil, fmt.Errorf("link post tag %d: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit post: %w", err)
	}

	return s.FindByID(ctx, id)
}

// Publish moves a draft to published status. The publish time is kept.
func (s *PostStore) Publish(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE posts SET status = 'published', updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("publish post: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
