// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pressroom/internal/forms"
	"pressroom/internal/mail"
	"pressroom/internal/models"
)

// publishedTarget resolves the {post_id} URL parameter to a published
// post, rendering a 404 and returning nil when there is none.
func (b *Blog) publishedTarget(w http.ResponseWriter, r *http.Request) *models.Post {
	id, ok := parseID(chi.URLParam(r, "post_id"))
	if !ok {
		b.NotFound(w, r)
		return nil
	}

	post, err := b.posts.FindPublishedByID(r.Context(), id)
	if err != nil {
		b.fail(w, r, err)
		return nil
	}
	return post
}

// PostComment validates a submitted comment and stores it as active.
// Invalid submissions are re-rendered with field errors and status 422.
func (b *Blog) PostComment(w http.ResponseWriter, r *http.Request) {
	post := b.publishedTarget(w, r)
	if post == nil {
		return
	}

	form, err := forms.ParseComment(r)
	if err != nil {
		b.badRequest(w, r, err)
		return
	}

	if errs := form.Validate(); errs != nil {
		b.page(w, r, http.StatusUnprocessableEntity, "post_comment", post.Title, map[string]any{
			"Post":   post,
			"Form":   form,
			"Errors": errs,
		})
		return
	}

	comment, err := b.comments.Create(r.Context(), post.ID, form.Name, form.Email, form.Body)
	if err != nil {
		b.serverError(w, r, err)
		return
	}

	b.page(w, r, http.StatusOK, "post_comment", post.Title, map[string]any{
		"Post":    post,
		"Comment": comment,
		"Form":    forms.CommentForm{},
		"Errors":  forms.Errors(nil),
	})
}

// PostShare serves the share form on GET and sends the recommendation
// email on POST. A mail transport failure is reported with status 502 and
// is not retried.
func (b *Blog) PostShare(w http.ResponseWriter, r *http.Request) {
	post := b.publishedTarget(w, r)
	if post == nil {
		return
	}

	data := map[string]any{
		"Post":   post,
		"Form":   forms.ShareForm{},
		"Errors": forms.Errors(nil),
		"Sent":   false,
		"Failed": false,
	}

	if r.Method != http.MethodPost {
		b.page(w, r, http.StatusOK, "post_share", "Share "+post.Title, data)
		return
	}

	form, err := forms.ParseShare(r)
	if err != nil {
		b.badRequest(w, r, err)
		return
	}
	data["Form"] = form

	if errs := form.Validate(); errs != nil {
		data["Errors"] = errs
		b.page(w, r, http.StatusUnprocessableEntity, "post_share", "Share "+post.Title, data)
		return
	}

	msg := form.Message(post, b.site.BaseURL+post.AbsoluteURL())
	if err := b.mailer.Send(r.Context(), msg); err != nil {
		if !errors.Is(err, mail.ErrTransport) {
			b.serverError(w, r, err)
			return
		}
		slog.ErrorContext(r.Context(), "share email not sent",
			"post_id", post.ID,
			"error", err,
		)
		data["Failed"] = true
		b.page(w, r, http.StatusBadGateway, "post_share", "Share "+post.Title, data)
		return
	}

	slog.InfoContext(r.Context(), "post shared", "post_id", post.ID)
	data["Sent"] = true
	b.page(w, r, http.StatusOK, "post_share", "Share "+post.Title, data)
}
