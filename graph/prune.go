// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package graph

import (
	"sort"

	"github.com/poiesic/videograph/config"
	"github.com/poiesic/videograph/core"
)

type edgeKey struct {
	source core.ID
	target core.ID
	kind   core.EdgeType
}

// Prune deduplicates and caps the edge set.
//
// Duplicate (source, target, type) triples collapse to the single edge with
// the highest weight. Semantic edges are then capped per source node at
// cfg.MaxSemanticEdges, keeping the strongest; ties break on target ID so
// the result is deterministic. Other edge types are never capped.
func Prune(edges []core.Edge, cfg config.Pipeline) []core.Edge {
	best := make(map[edgeKey]core.Edge, len(edges))
	for _, e := range edges {
		key := edgeKey{source: e.Source, target: e.Target, kind: e.Type}
		if cur, ok := best[key]; !ok || e.Weight > cur.Weight {
			best[key] = e
		}
	}

	deduped := make([]core.Edge, 0, len(best))
	for _, e := range best {
		deduped = append(deduped, e)
	}

	semanticBySource := map[core.ID][]core.Edge{}
	kept := make([]core.Edge, 0, len(deduped))
	for _, e := range deduped {
		if e.Type == core.EdgeSemantic {
			semanticBySource[e.Source] = append(semanticBySource[e.Source], e)
			continue
		}
		kept = append(kept, e)
	}

	for _, group := range semanticBySource {
		sort.Slice(group, func(i, j int) bool {
			if group[i].Weight != group[j].Weight {
				return group[i].Weight > group[j].Weight
			}
			return group[i].Target < group[j].Target
		})
		if len(group) > cfg.MaxSemanticEdges {
			group = group[:cfg.MaxSemanticEdges]
		}
		kept = append(kept, group...)
	}

	sortEdges(kept)
	return kept
}
