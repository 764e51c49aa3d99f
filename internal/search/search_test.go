// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package search

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct{ in, want string }{
		{"  go  ", "go"},
		{"\tgo\n", "go"},
		{"   ", ""},
		{"", ""},
		{"two words", "two words"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPattern(t *testing.T) {
	tests := []struct{ in, want string }{
		{"go", "%go%"},
		{"100%", `%100\%%`},
		{"snake_case", `%snake\_case%`},
		{`back\slash`, `%back\\slash%`},
	}
	for _, tt := range tests {
		if got := Pattern(tt.in); got != tt.want {
			t.Errorf("Pattern(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildEmptyQuery(t *testing.T) {
	for _, q := range []string{"", " ", "\t\n"} {
		p := Build(q, 2, AllFields...)
		if !p.Empty() {
			t.Errorf("Build(%q) should be empty, got %q", q, p.SQL)
		}
		if len(p.Args) != 0 {
			t.Errorf("Build(%q) args = %v, want none", q, p.Args)
		}
	}
}

func TestBuildNoFields(t *testing.T) {
	if p := Build("go", 1); !p.Empty() {
		t.Errorf("Build without fields should be empty, got %q", p.SQL)
	}
	if p := Build("go", 1, Field(42)); !p.Empty() {
		t.Errorf("Build with only unknown fields should be empty, got %q", p.SQL)
	}
}

func TestBuildAllFields(t *testing.T) {
	p := Build("  Go  ", 2, AllFields...)
	if p.Empty() {
		t.Fatal("expected a predicate")
	}

	if len(p.Args) != 1 || p.Args[0] != "%Go%" {
		t.Errorf("Args = %v, want [%%Go%%]", p.Args)
	}
	if !strings.HasPrefix(p.SQL, "(") || !strings.HasSuffix(p.SQL, ")") {
		t.Errorf("SQL should be parenthesised: %q", p.SQL)
	}
	for _, want := range []string{"p.title ILIKE $2", "p.body ILIKE $2", "c.name ILIKE $2", "t.name ILIKE $2", "EXISTS"} {
		if !strings.Contains(p.SQL, want) {
			t.Errorf("SQL missing %q: %s", want, p.SQL)
		}
	}
	if n := strings.Count(p.SQL, " OR "); n != 3 {
		t.Errorf("expected 3 ORs joining 4 fields, got %d", n)
	}
	if strings.Contains(p.SQL, "$1") || strings.Contains(p.SQL, "$3") {
		t.Errorf("SQL should only reference $2: %s", p.SQL)
	}
}

func TestBuildSubsetAndDuplicates(t *testing.T) {
	p := Build("x", 1, Title, Title, TagName)
	if n := strings.Count(p.SQL, "p.title"); n != 1 {
		t.Errorf("duplicate field should appear once, got %d", n)
	}
	if strings.Contains(p.SQL, "p.body") || strings.Contains(p.SQL, "c.name") {
		t.Errorf("unrequested fields present: %s", p.SQL)
	}
	if !strings.Contains(p.SQL, "t.name ILIKE $1") {
		t.Errorf("tag condition missing: %s", p.SQL)
	}
}

func TestFieldString(t *testing.T) {
	want := map[Field]string{
		Title:        "title",
		Body:         "body",
		CategoryName: "category_name",
		TagName:      "tag_name",
		Field(9):     "Field(9)",
	}
	for f, s := range want {
		if f.String() != s {
			t.Errorf("Field(%d).String() = %q, want %q", int(f), f.String(), s)
		}
	}
}
