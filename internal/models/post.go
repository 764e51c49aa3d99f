// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"fmt"
	"time"
)

// PostStatus represents the publishing state of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

// Post is a blog article. Every post belongs to exactly one category and
// may carry any number of tags.
type Post struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	Slug       string     `json:"slug"`
	Body       string     `json:"body"` // Markdown source
	Publish    time.Time  `json:"publish"`
	Status     PostStatus `json:"status"`
	CategoryID int64      `json:"category_id"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	// Relations populated by store methods.
	Category *Category `json:"category,omitempty"`
	Tags     []Tag     `json:"tags,omitempty"`
}

// IsPublished returns true if the post is in published status. It does not
// consider the publish time; see IsPublishedAt.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// IsPublishedAt reports whether the post is visible to readers at now:
// published status and a publish time that is not in the future. The store
// applies the same predicate in SQL.
func (p *Post) IsPublishedAt(now time.Time) bool {
	return p.IsPublished() && !p.Publish.After(now)
}

// AbsoluteURL returns the canonical date-based path of the post,
// e.g. "/2026/3/7/hello-world". The date is taken in UTC so it matches the
// unique (slug, publish date) index.
func (p *Post) AbsoluteURL() string {
	d := p.Publish.UTC()
	return fmt.Sprintf("/%d/%d/%d/%s", d.Year(), int(d.Month()), d.Day(), p.Slug)
}

// TagIDs returns the IDs of the post's tags in their loaded order.
func (p *Post) TagIDs() []int64 {
	ids := make([]int64, 0, len(p.Tags))
	for _, t := range p.Tags {
		ids = append(ids, t.ID)
	}
	return ids
}
