// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package similar ranks posts by how many tags they share with a given post.
package similar

import (
	"sort"

	"pressroom/internal/models"
)

// DefaultLimit is the number of similar posts shown on a post page.
const DefaultLimit = 4

// Rank orders candidates by the number of tags they share with post, most
// first, breaking ties by newer publish time and then by higher ID so the
// order is stable. Candidates sharing no tags and the post itself are
// dropped. At most limit posts are returned; a post without tags has no
// similar posts. Candidates are expected to be published already.
func Rank(post *models.Post, candidates []models.Post, limit int) []models.Post {
	if len(post.Tags) == 0 || limit <= 0 {
		return nil
	}

	tagSet := make(map[int64]struct{}, len(post.Tags))
	for _, t := range post.Tags {
		tagSet[t.ID] = struct{}{}
	}

	type scored struct {
		post   models.Post
		shared int
	}
	var ranked []scored
	seen := make(map[int64]bool, len(candidates))
	for _, c := range candidates {
		if c.ID == post.ID || seen[c.ID] {
			continue
		}
		seen[c.ID] = true

		shared := 0
		for _, t := range c.Tags {
			if _, ok := tagSet[t.ID]; ok {
				shared++
			}
		}
		if shared > 0 {
			ranked = append(ranked, scored{post: c, shared: shared})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.shared != b.shared {
			return a.shared > b.shared
		}
		if !a.post.Publish.Equal(b.post.Publish) {
			return a.post.Publish.After(b.post.Publish)
		}
		return a.post.ID > b.post.ID
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]models.Post, len(ranked))
	for i, s := range ranked {
		out[i] = s.post
	}
	return out
}
