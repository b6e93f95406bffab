package segment

import (
	"github.com/poiesic/videograph/config"
	"github.com/poiesic/videograph/core"
)

// ScoreImportance assigns each topic an importance in [0,1] as a weighted
// sum of three normalized factors: time span, connection count and keyword
// count. Each factor is normalized against the maximum observed in the set,
// so the most important topic in any non-trivial set scores close to 1.
//
// connections maps topic ID to its connection count; the caller decides what
// counts as a connection (parent/child links before graph construction,
// edge degree after).
func ScoreImportance(topics []*core.Topic, connections map[core.ID]int, cfg config.Pipeline) {
	if len(topics) == 0 {
		return
	}

	var maxDuration float64
	var maxConnections, maxKeywords int
	for _, t := range topics {
		if d := t.Duration(); d > maxDuration {
			maxDuration = d
		}
		if c := connections[t.ID]; c > maxConnections {
			maxConnections = c
		}
		if k := len(t.Keywords); k > maxKeywords {
			maxKeywords = k
		}
	}

	for _, t := range topics {
		score := cfg.ImportanceDurationWeight*normalize(t.Duration(), maxDuration) +
			cfg.ImportanceConnectionWeight*normalize(float64(connections[t.ID]), float64(maxConnections)) +
			cfg.ImportanceKeywordWeight*normalize(float64(len(t.Keywords)), float64(maxKeywords))

		if score < 0 {
			score = 0
		}
		if score > 1 {
			score = 1
		}
		t.Importance = score
	}
}

// LinkDegrees counts parent plus child links per topic, the connection
// measure available before any edges exist.
func LinkDegrees(topics []*core.Topic) map[core.ID]int {
	degrees := make(map[core.ID]int, len(topics))
	for _, t := range topics {
		degrees[t.ID] = len(t.ParentIDs) + len(t.ChildIDs)
	}
	return degrees
}

func normalize(value, max float64) float64 {
	if max == 0 {
		return 0
	}
	return value / max
}
