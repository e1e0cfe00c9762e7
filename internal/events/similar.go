package events

import (
	"bytes"
	"sort"
	"strings"

	"github.com/devevent/backend/internal/models"
)

// ClampSimilarLimit maps a requested limit onto 1..MaxSimilarLimit, defaulting when <= 0.
func ClampSimilarLimit(limit int) int {
	if limit <= 0 {
		return DefaultSimilarLimit
	}
	if limit > MaxSimilarLimit {
		return MaxSimilarLimit
	}
	return limit
}

// RankSimilar orders candidates by tags shared with source (case-insensitive),
// then most recently created, then id. Candidates sharing no tag and the source
// itself are dropped.
func RankSimilar(source *models.Event, candidates []models.Event, limit int) []models.Event {
	limit = ClampSimilarLimit(limit)
	sourceTags := make(map[string]struct{}, len(source.Tags))
	for _, t := range source.Tags {
		sourceTags[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}

	type scored struct {
		event  models.Event
		shared int
	}
	ranked := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		if c.ID == source.ID || c.Slug == source.Slug {
			continue
		}
		seen := make(map[string]struct{}, len(c.Tags))
		shared := 0
		for _, t := range c.Tags {
			key := strings.ToLower(strings.TrimSpace(t))
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			if _, ok := sourceTags[key]; ok {
				shared++
			}
		}
		if shared > 0 {
			ranked = append(ranked, scored{event: c, shared: shared})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.shared != b.shared {
			return a.shared > b.shared
		}
		if !a.event.CreatedAt.Equal(b.event.CreatedAt) {
			return a.event.CreatedAt.After(b.event.CreatedAt)
		}
		return bytes.Compare(a.event.ID[:], b.event.ID[:]) > 0
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]models.Event, 0, len(ranked))
	for _, s := range ranked {
		out = append(out, s.event)
	}
	return out
}
