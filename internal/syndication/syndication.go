// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package syndication builds the RSS feed and the XML sitemap from
// published posts. Callers are responsible for passing only posts that are
// visible to readers.
package syndication

import (
	"fmt"
	"io"
	"time"

	"github.com/gorilla/feeds"
	"github.com/snabb/sitemap"

	"pressroom/internal/markdown"
	"pressroom/internal/models"
)

const (
	// FeedSize is the number of posts listed in the feed.
	FeedSize = 5
	// ExcerptWords is the length of each feed item description.
	ExcerptWords = 30
	// Priority is the sitemap priority of every post URL.
	Priority = 0.9
)

// Site describes the blog for feed metadata and absolute links.
type Site struct {
	Title       string
	Description string
	BaseURL     string // scheme and host without a trailing slash
}

// Feed builds an RSS feed whose items are posts in the given order.
func Feed(site Site, posts []models.Post) *feeds.Feed {
	f := &feeds.Feed{
		Title:       site.Title,
		Link:        &feeds.Link{Href: site.BaseURL + "/"},
		Description: site.Description,
	}

	for _, p := range posts {
		link := site.BaseURL + p.AbsoluteURL()
		f.Add(&feeds.Item{
			Title:       p.Title,
			Link:        &feeds.Link{Href: link},
			Id:          link,
			Description: markdown.Excerpt(p.Body, ExcerptWords),
			Created:     p.Publish,
		})
		if p.Publish.After(f.Updated) {
			f.Updated = p.Publish
		}
	}
	return f
}

// WriteRSS encodes the feed for posts as RSS 2.0.
func WriteRSS(w io.Writer, site Site, posts []models.Post) error {
	if err := Feed(site, posts).WriteRss(w); err != nil {
		return fmt.Errorf("write rss: %w", err)
	}
	return nil
}

// Sitemap lists the absolute URL of every post with its last
// modification time.
func Sitemap(baseURL string, posts []models.Post) *sitemap.Sitemap {
	sm := sitemap.New()
	for _, p := range posts {
		lastMod := p.UpdatedAt.UTC().Truncate(time.Second)
		sm.Add(&sitemap.URL{
			Loc:        baseURL + p.AbsoluteURL(),
			LastMod:    &lastMod,
			ChangeFreq: sitemap.Weekly,
			Priority:   Priority,
		})
	}
	return sm
}

// WriteSitemap encodes the sitemap for posts as XML.
func WriteSitemap(w io.Writer, baseURL string, posts []models.Post) error {
	if _, err := Sitemap(baseURL, posts).WriteTo(w); err != nil {
		return fmt.Errorf("write sitemap: %w", err)
	}
	return nil
}
