// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// Pressroom blog.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"pressroom/internal/handlers"
	"pressroom/internal/middleware"
)

// New creates and returns the configured Chi router. limiter throttles the
// comment and share submissions and may be nil to disable limiting.
// secureCookies sets the Secure flag on the CSRF cookie.
func New(blog *handlers.Blog, limiter middleware.Limiter, secureCookies bool) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(chimw.StripSlashes)

	// Health check, no CSRF.
	r.Get("/health", healthHandler)

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewCSRF(secureCookies))

		r.Get("/", blog.Home)
		r.Get("/search", blog.Search)
		r.Get("/posts", blog.PostList)
		r.Get("/posts/tag/{tag_slug}", blog.PostList)
		r.Get("/category/{category_id}", blog.CategoryList)
		r.Get("/{year}/{month}/{day}/{slug}", blog.PostDetail)

		// Reader submissions.
		r.Group(func(r chi.Router) {
			if limiter != nil {
				r.Use(middleware.RateLimit(limiter, "share"))
			}
			r.Get("/{post_id}/share", blog.PostShare)
			r.Post("/{post_id}/share", blog.PostShare)
		})
		r.Group(func(r chi.Router) {
			if limiter != nil {
				r.Use(middleware.RateLimit(limiter, "comment"))
			}
			r.Post("/{post_id}/comment", blog.PostComment)
		})
	})

	// Syndication
	r.Get("/feed", blog.Feed)
	r.Get("/sitemap.xml", blog.Sitemap)

	r.NotFound(blog.NotFound)

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
