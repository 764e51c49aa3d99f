// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"net/http"

	"pressroom/internal/syndication"
)

// Feed serves the RSS 2.0 feed of the latest published posts.
func (b *Blog) Feed(w http.ResponseWriter, r *http.Request) {
	posts, err := b.posts.Latest(r.Context(), syndication.FeedSize)
	if err != nil {
		b.serverError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := syndication.WriteRSS(&buf, b.site, posts); err != nil {
		b.serverError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	buf.WriteTo(w)
}

// Sitemap serves the XML sitemap of every published post.
func (b *Blog) Sitemap(w http.ResponseWriter, r *http.Request) {
	posts, err := b.posts.AllPublished(r.Context())
	if err != nil {
		b.serverError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := syndication.WriteSitemap(&buf, b.site.BaseURL, posts); err != nil {
		b.serverError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	buf.WriteTo(w)
}
