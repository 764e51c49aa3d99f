// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary strings.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLen matches the width of the slug columns.
const MaxLen = 250

var (
	// separators become hyphens: any run of whitespace or underscores.
	separators = regexp.MustCompile(`[\s_]+`)
	// nonSlug matches anything that isn't a lowercase letter, digit, or hyphen.
	nonSlug = regexp.MustCompile(`[^a-z0-9-]`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// stripMarks decomposes accented letters and drops the combining marks,
// so "Café" becomes "Cafe".
func stripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Generate creates a URL-friendly slug from the given string.
// Example: "Hello, Wörld! 2026" → "hello-world-2026"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(stripMarks(s)))
	result = separators.ReplaceAllString(result, "-")
	result = nonSlug.ReplaceAllString(result, "")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	if len(result) > MaxLen {
		result = result[:MaxLen]
		if i := strings.LastIndexByte(result, '-'); i > 0 {
			result = result[:i]
		}
	}
	return result
}
