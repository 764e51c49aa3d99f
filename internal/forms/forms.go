// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package forms binds and validates the public comment and share forms.
// Validation rules live in struct tags and are checked by go-playground's
// validator; failures are reported per field in the form's own names.
package forms

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"pressroom/internal/mail"
	"pressroom/internal/models"
)

// Field limits. They match the widths of the comment columns.
const (
	MaxNameLen      = 80
	MaxEmailLen     = 254
	MaxBodyLen      = 5000
	MaxShareNameLen = 25
)

var validate = newValidator()

// newValidator reports fields by their form tag instead of the Go name.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("form"); name != "" && name != "-" {
			return name
		}
		return f.Name
	})
	return v
}

// Errors maps a form field name to a human-readable message.
type Errors map[string]string

// Has reports whether field failed validation.
func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Get returns the message for field, or "".
func (e Errors) Get(field string) string {
	return e[field]
}

// Error implements error so an Errors value can travel through error returns.
func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, field+": "+msg)
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// CommentForm is a reader comment on a post.
type CommentForm struct {
	Name  string `form:"name" validate:"required,max=80"`
	Email string `form:"email" validate:"required,max=254,email"`
	Body  string `form:"body" validate:"required,max=5000"`
}

// ShareForm asks for a post to be recommended to someone by email.
type ShareForm struct {
	Name     string `form:"name" validate:"required,max=25"`
	Email    string `form:"email" validate:"required,max=254,email"`
	To       string `form:"to" validate:"required,max=254,email"`
	Comments string `form:"comments" validate:"max=5000"`
}

// ParseComment reads a CommentForm from a submitted request.
func ParseComment(r *http.Request) (CommentForm, error) {
	if err := r.ParseForm(); err != nil {
		return CommentForm{}, fmt.Errorf("parse comment form: %w", err)
	}
	return CommentForm{
		Name:  strings.TrimSpace(r.PostFormValue("name")),
		Email: strings.TrimSpace(r.PostFormValue("email")),
		Body:  strings.TrimSpace(r.PostFormValue("body")),
	}, nil
}

// ParseShare reads a ShareForm from a submitted request.
func ParseShare(r *http.Request) (ShareForm, error) {
	if err := r.ParseForm(); err != nil {
		return ShareForm{}, fmt.Errorf("parse share form: %w", err)
	}
	return ShareForm{
		Name:     strings.TrimSpace(r.PostFormValue("name")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		To:       strings.TrimSpace(r.PostFormValue("to")),
		Comments: strings.TrimSpace(r.PostFormValue("comments")),
	}, nil
}

// Validate checks the comment and returns nil when it is acceptable.
func (f CommentForm) Validate() Errors {
	return check(f)
}

// Validate checks the share request and returns nil when it is acceptable.
func (f ShareForm) Validate() Errors {
	return check(f)
}

// Message composes the recommendation email for post, whose absolute URL
// is postURL.
func (f ShareForm) Message(post *models.Post, postURL string) mail.Message {
	return mail.Message{
		To:      []string{f.To},
		ReplyTo: f.Email,
		Subject: fmt.Sprintf("%s recommends you read %s", f.Name, post.Title),
		Body:    fmt.Sprintf("Read %s at %s\n\n%s's comments: %s", post.Title, postURL, f.Name, f.Comments),
	}
}

func check(form any) Errors {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return Errors{"": err.Error()}
	}

	out := make(Errors, len(fieldErrs))
	for _, fe := range fieldErrs {
		if _, seen := out[fe.Field()]; !seen {
			out[fe.Field()] = message(fe)
		}
	}
	return out
}

// message turns a validation failure into reader-facing text.
func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters (it has %d).",
			fe.Param(), len([]rune(fmt.Sprint(fe.Value()))))
	default:
		return "Enter a valid value."
	}
}
