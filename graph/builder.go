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
	"context"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/poiesic/videograph/config"
	"github.com/poiesic/videograph/core"
	"github.com/poiesic/videograph/segment"
	"github.com/poiesic/videograph/vec"
)

// Builder constructs a typed-edge graph over a topic hierarchy.
//
// Four edge generators run concurrently, one per edge type, then the union
// is pruned, clustered and measured. Building the same topics with the same
// config always produces the same graph.
type Builder struct {
	cfg       config.Pipeline
	clusterer Clusterer
	logger    *slog.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithClusterer overrides the clusterer selected by cfg.ClusterStrategy.
func WithClusterer(c Clusterer) BuilderOption {
	return func(b *Builder) { b.clusterer = c }
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBuilder creates a graph builder for the given config.
func NewBuilder(cfg config.Pipeline, opts ...BuilderOption) (*Builder, error) {
	clusterer, err := NewClusterer(cfg)
	if err != nil {
		return nil, err
	}

	b := &Builder{
		cfg:       cfg,
		clusterer: clusterer,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Build assembles the graph for one video: generates all four edge types,
// prunes, clusters level 0 topics, rescores importance against edge degrees
// and computes metrics. The version string becomes the graph's identity in
// the repository; it must be new for every build.
func (b *Builder) Build(ctx context.Context, videoID, version string, topics []*core.Topic) (*core.Graph, error) {
	if len(topics) == 0 {
		return nil, ErrNoTopics
	}

	var semantic, hierarchy, sequence, reference []core.Edge

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		semantic = b.semanticEdges(gctx, topics)
		return gctx.Err()
	})
	g.Go(func() error {
		hierarchy = b.hierarchyEdges(topics)
		return nil
	})
	g.Go(func() error {
		sequence = b.sequenceEdges(topics)
		return nil
	})
	g.Go(func() error {
		reference = b.referenceEdges(topics)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	edges := make([]core.Edge, 0, len(semantic)+len(hierarchy)+len(sequence)+len(reference))
	edges = append(edges, semantic...)
	edges = append(edges, hierarchy...)
	edges = append(edges, sequence...)
	edges = append(edges, reference...)

	edges = Prune(edges, b.cfg)

	if err := b.clusterer.Cluster(ctx, topics); err != nil {
		return nil, err
	}

	segment.ScoreImportance(topics, EdgeDegrees(topics, edges), b.cfg)

	graph := &core.Graph{
		Version: version,
		VideoID: videoID,
		Topics:  topics,
		Edges:   edges,
		Metrics: ComputeMetrics(topics, edges),
	}

	b.logger.Info("graph built", "video", videoID, "version", version,
		"nodes", graph.Metrics.NodeCount, "edges", graph.Metrics.EdgeCount)
	return graph, nil
}

// semanticEdges links topics whose embeddings are similar, keeping the top K
// strongest candidates per source topic. Edges cross levels freely.
func (b *Builder) semanticEdges(ctx context.Context, topics []*core.Topic) []core.Edge {
	type candidate struct {
		target core.ID
		weight float64
	}

	var mu sync.Mutex
	var edges []core.Edge

	var wg sync.WaitGroup
	for i := range topics {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}

			var candidates []candidate
			for j := range topics {
				if i == j {
					continue
				}
				sim := vec.Cosine(topics[i].Embedding, topics[j].Embedding)
				if sim >= b.cfg.SimilarityThreshold {
					candidates = append(candidates, candidate{target: topics[j].ID, weight: sim})
				}
			}

			sort.Slice(candidates, func(a, c int) bool {
				if candidates[a].weight != candidates[c].weight {
					return candidates[a].weight > candidates[c].weight
				}
				return candidates[a].target < candidates[c].target
			})
			if len(candidates) > b.cfg.SemanticTopK {
				candidates = candidates[:b.cfg.SemanticTopK]
			}

			mu.Lock()
			for _, c := range candidates {
				edges = append(edges, core.NewEdge(topics[i].ID, c.target, core.EdgeSemantic, c.weight))
			}
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	sortEdges(edges)
	return edges
}

// hierarchyEdges links every parent to each of its children at full weight.
func (b *Builder) hierarchyEdges(topics []*core.Topic) []core.Edge {
	byID := topicIndex(topics)

	var edges []core.Edge
	for _, parent := range topics {
		for _, childID := range parent.ChildIDs {
			if _, ok := byID[childID]; !ok {
				continue
			}
			edges = append(edges, core.NewEdge(parent.ID, childID, core.EdgeHierarchy, 1.0))
		}
	}

	sortEdges(edges)
	return edges
}

// sequenceEdges chains the topics of each level in start-time order.
func (b *Builder) sequenceEdges(topics []*core.Topic) []core.Edge {
	byLevel := map[int][]*core.Topic{}
	for _, t := range topics {
		byLevel[t.Level] = append(byLevel[t.Level], t)
	}

	var edges []core.Edge
	for _, level := range byLevel {
		sort.Slice(level, func(i, j int) bool {
			if level[i].Start != level[j].Start {
				return level[i].Start < level[j].Start
			}
			return level[i].ID < level[j].ID
		})
		for i := 0; i+1 < len(level); i++ {
			edges = append(edges, core.NewEdge(level[i].ID, level[i+1].ID, core.EdgeSequence, b.cfg.SequenceWeight))
		}
	}

	sortEdges(edges)
	return edges
}

// referenceEdges links topics at different levels that share enough
// keywords. Weight is the shared count over the larger keyword list, and
// the shared keywords ride along as edge metadata.
func (b *Builder) referenceEdges(topics []*core.Topic) []core.Edge {
	var edges []core.Edge
	for i := range topics {
		for j := range topics {
			if topics[i].Level >= topics[j].Level {
				continue
			}

			shared := segment.SharedKeywords(topics[i].Keywords, topics[j].Keywords)
			if len(shared) < b.cfg.ReferenceMinShared {
				continue
			}

			larger := len(topics[i].Keywords)
			if len(topics[j].Keywords) > larger {
				larger = len(topics[j].Keywords)
			}

			edge := core.NewEdge(topics[i].ID, topics[j].ID, core.EdgeReference, float64(len(shared))/float64(larger))
			edge.Metadata = &core.EdgeMetadata{SharedKeywords: shared}
			edges = append(edges, edge)
		}
	}

	sortEdges(edges)
	return edges
}

// EdgeDegrees counts how many edges touch each topic.
func EdgeDegrees(topics []*core.Topic, edges []core.Edge) map[core.ID]int {
	degrees := make(map[core.ID]int, len(topics))
	for _, e := range edges {
		degrees[e.Source]++
		degrees[e.Target]++
	}
	return degrees
}

func topicIndex(topics []*core.Topic) map[core.ID]*core.Topic {
	byID := make(map[core.ID]*core.Topic, len(topics))
	for _, t := range topics {
		byID[t.ID] = t
	}
	return byID
}

// sortEdges orders edges by (source, target, type) for deterministic output.
func sortEdges(edges []core.Edge) {
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		if edges[i].Target != edges[j].Target {
			return edges[i].Target < edges[j].Target
		}
		return edges[i].Type < edges[j].Type
	})
}
