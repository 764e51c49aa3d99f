// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package search turns a free-text query into a SQL predicate over posts.
// The searchable fields are a closed set; each one maps to a fixed SQL
// expression written against the aliases used by the post store
// ("p" for posts, "c" for categories). Matching is a case-insensitive
// substring test, and the field tests are combined with OR.
package search

import (
	"fmt"
	"strings"
)

// Field is a searchable attribute of a post.
type Field int

const (
	Title Field = iota
	Body
	CategoryName
	TagName
)

// AllFields is the default field set used by the public search page.
var AllFields = []Field{Title, Body, CategoryName, TagName}

// String returns the field name used in logs.
func (f Field) String() string {
	switch f {
	case Title:
		return "title"
	case Body:
		return "body"
	case CategoryName:
		return "category_name"
	case TagName:
		return "tag_name"
	default:
		return fmt.Sprintf("Field(%d)", int(f))
	}
}

// condition returns the SQL test for f against the pattern placeholder.
// Tag matching goes through EXISTS so a post matching several tags still
// yields a single row.
func (f Field) condition(placeholder string) (string, bool) {
	switch f {
	case Title:
		return `p.title ILIKE ` + placeholder + ` ESCAPE '\'`, true
	case Body:
		return `p.body ILIKE ` + placeholder + ` ESCAPE '\'`, true
	case CategoryName:
		return `c.name ILIKE ` + placeholder + ` ESCAPE '\'`, true
	case TagName:
		return `EXISTS (
			SELECT 1 FROM post_tags pt
			JOIN tags t ON t.id = pt.tag_id
			WHERE pt.post_id = p.id AND t.name ILIKE ` + placeholder + ` ESCAPE '\')`, true
	default:
		return "", false
	}
}

// Predicate is a parenthesised SQL boolean expression and its arguments.
// The zero value is empty and matches nothing.
type Predicate struct {
	SQL  string
	Args []any
}

// Empty reports whether the predicate has no conditions.
func (p Predicate) Empty() bool {
	return p.SQL == ""
}

// Normalize trims surrounding whitespace from a raw query.
func Normalize(raw string) string {
	return strings.TrimSpace(raw)
}

// Pattern escapes LIKE metacharacters in q and wraps it for a substring match.
func Pattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(q) + "%"
}

// Build returns the OR of the field conditions for query q. The pattern is
// bound once, as placeholder $param, and shared by every condition. A blank
// query or an empty field list produces an empty predicate; callers must
// treat that as "no results", never as "match everything".
func Build(q string, param int, fields ...Field) Predicate {
	q = Normalize(q)
	if q == "" || len(fields) == 0 {
		return Predicate{}
	}

	placeholder := fmt.Sprintf("$%d", param)
	seen := make(map[Field]bool, len(fields))
	var conds []string
	for _, f := range fields {
		if seen[f] {
			continue
		}
		seen[f] = true
		if c, ok := f.condition(placeholder); ok {
			conds = append(conds, c)
		}
	}
	if len(conds) == 0 {
		return Predicate{}
	}

	return Predicate{
		SQL:  "(" + strings.Join(conds, " OR ") + ")",
		Args: []any{Pattern(q)},
	}
}
