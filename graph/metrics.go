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
	"github.com/poiesic/videograph/core"
)

// ComputeMetrics derives graph statistics from the final node and edge
// sets. Density, clustering and components treat the graph as undirected
// and simple: parallel edges between a node pair count once.
func ComputeMetrics(topics []*core.Topic, edges []core.Edge) core.GraphMetrics {
	metrics := core.GraphMetrics{
		NodeCount:     len(topics),
		EdgeCount:     len(edges),
		NodesPerLevel: map[int]int{},
	}

	for _, t := range topics {
		metrics.NodesPerLevel[t.Level]++
	}

	n := len(topics)
	adjacency := buildAdjacency(topics, edges)

	pairs := countPairs(adjacency)
	if n > 1 {
		metrics.Density = float64(pairs) / (float64(n) * float64(n-1) / 2)
	}

	metrics.AvgClustering = averageClustering(topics, adjacency)
	metrics.ConnectedComponents = connectedComponents(topics, edges)
	return metrics
}

// buildAdjacency produces the undirected simple-graph neighbor sets.
func buildAdjacency(topics []*core.Topic, edges []core.Edge) map[core.ID]map[core.ID]bool {
	adjacency := make(map[core.ID]map[core.ID]bool, len(topics))
	for _, t := range topics {
		adjacency[t.ID] = map[core.ID]bool{}
	}
	for _, e := range edges {
		if e.Source == e.Target {
			continue
		}
		if _, ok := adjacency[e.Source]; !ok {
			continue
		}
		if _, ok := adjacency[e.Target]; !ok {
			continue
		}
		adjacency[e.Source][e.Target] = true
		adjacency[e.Target][e.Source] = true
	}
	return adjacency
}

func countPairs(adjacency map[core.ID]map[core.ID]bool) int {
	total := 0
	for _, neighbors := range adjacency {
		total += len(neighbors)
	}
	return total / 2
}

// averageClustering is the mean local clustering coefficient over all
// nodes. Nodes with fewer than two neighbors contribute zero.
func averageClustering(topics []*core.Topic, adjacency map[core.ID]map[core.ID]bool) float64 {
	if len(topics) == 0 {
		return 0
	}

	var total float64
	for _, t := range topics {
		neighbors := adjacency[t.ID]
		k := len(neighbors)
		if k < 2 {
			continue
		}

		links := 0
		ids := make([]core.ID, 0, k)
		for id := range neighbors {
			ids = append(ids, id)
		}
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				if adjacency[ids[i]][ids[j]] {
					links++
				}
			}
		}
		total += float64(2*links) / float64(k*(k-1))
	}
	return total / float64(len(topics))
}

// connectedComponents counts components with a union-find over the edges.
func connectedComponents(topics []*core.Topic, edges []core.Edge) int {
	parent := make(map[core.ID]core.ID, len(topics))
	for _, t := range topics {
		parent[t.ID] = t.ID
	}

	var find func(id core.ID) core.ID
	find = func(id core.ID) core.ID {
		if parent[id] != id {
			parent[id] = find(parent[id])
		}
		return parent[id]
	}

	for _, e := range edges {
		if _, ok := parent[e.Source]; !ok {
			continue
		}
		if _, ok := parent[e.Target]; !ok {
			continue
		}
		rootA, rootB := find(e.Source), find(e.Target)
		if rootA != rootB {
			parent[rootA] = rootB
		}
	}

	roots := map[core.ID]bool{}
	for _, t := range topics {
		roots[find(t.ID)] = true
	}
	return len(roots)
}
