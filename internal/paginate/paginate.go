// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package paginate splits ordered collections into fixed-size pages. The
// requested page number usually comes straight from a query parameter, so
// it is clamped rather than rejected: anything that is not a positive
// integer selects the first page and anything past the end selects the
// last page. An empty collection still has exactly one (empty) page.
package paginate

import (
	"errors"
	"strconv"
	"strings"
)

// Page sizes used by the public listings.
const (
	ListingSize = 9
	HomeSize    = 6
)

// Page describes one resolved page of a collection.
type Page struct {
	Number   int // 1-based, always within [1, NumPages]
	NumPages int // always >= 1
	PerPage  int
	Total    int
}

// Resolve clamps the raw page value against a collection of total items
// split into pages of perPage. perPage values below 1 are treated as 1.
func Resolve(total, perPage int, raw string) Page {
	if perPage < 1 {
		perPage = 1
	}
	if total < 0 {
		total = 0
	}

	numPages := 1
	if total > 0 {
		numPages = (total + perPage - 1) / perPage
	}

	trimmed := strings.TrimSpace(raw)
	number, err := strconv.Atoi(trimmed)
	switch {
	case errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(trimmed, "-"):
		// Too large for an int, so certainly past the end.
		number = numPages
	case err != nil || number < 1:
		number = 1
	case number > numPages:
		number = numPages
	}

	return Page{Number: number, NumPages: numPages, PerPage: perPage, Total: total}
}

// Offset is the index of the first item on the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.PerPage
}

// Limit is the maximum number of items on the page, for SQL LIMIT.
func (p Page) Limit() int {
	return p.PerPage
}

// Len is the number of items actually on the page.
func (p Page) Len() int {
	n := p.Total - p.Offset()
	if n > p.PerPage {
		n = p.PerPage
	}
	if n < 0 {
		n = 0
	}
	return n
}

// HasNext reports whether a later page exists.
func (p Page) HasNext() bool { return p.Number < p.NumPages }

// HasPrevious reports whether an earlier page exists.
func (p Page) HasPrevious() bool { return p.Number > 1 }

// HasOtherPages reports whether the collection spans more than one page.
func (p Page) HasOtherPages() bool { return p.NumPages > 1 }

// NextNumber returns the next page number, or the current one on the last page.
func (p Page) NextNumber() int {
	if p.HasNext() {
		return p.Number + 1
	}
	return p.Number
}

// PreviousNumber returns the previous page number, or 1 on the first page.
func (p Page) PreviousNumber() int {
	if p.HasPrevious() {
		return p.Number - 1
	}
	return 1
}

// StartIndex is the 1-based position of the first item on the page, or 0
// when the collection is empty.
func (p Page) StartIndex() int {
	if p.Total == 0 {
		return 0
	}
	return p.Offset() + 1
}

// EndIndex is the 1-based position of the last item on the page.
func (p Page) EndIndex() int {
	return p.Offset() + p.Len()
}

// Slice applies the same clamping policy to an in-memory collection and
// returns the items on the resolved page.
func Slice[T any](items []T, perPage int, raw string) ([]T, Page) {
	p := Resolve(len(items), perPage, raw)
	start := p.Offset()
	return items[start : start+p.Len()], p
}
