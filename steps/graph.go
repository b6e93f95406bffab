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


package steps

import (
	"context"

	"github.com/poiesic/videograph/core"
	"github.com/poiesic/videograph/graph"
	"github.com/poiesic/videograph/pipeline"
	"github.com/poiesic/videograph/storage"
)

// StepGraph builds the typed-edge graph over the topic hierarchy.
const StepGraph = "graph"

// GraphStep builds, prunes and measures the topic graph, writes the graph
// artifact plus the compressed embedding matrix, and optionally records the
// graph version in a repository.
type GraphStep struct {
	repo storage.GraphRepository
}

// NewGraphStep creates the graph construction step. repo may be nil; when
// set, every built graph is also stored as an immutable version.
func NewGraphStep(repo storage.GraphRepository) *GraphStep {
	return &GraphStep{repo: repo}
}

func (s *GraphStep) Name() string { return StepGraph }

func (s *GraphStep) ValidateContext(pctx *pipeline.Context) error {
	if !pctx.Manifest.HasPath(core.ArtifactTopics) {
		return &pipeline.ValidationError{Step: StepGraph, Problems: []string{"topics artifact not in manifest"}}
	}
	return nil
}

func (s *GraphStep) Execute(ctx context.Context, pctx *pipeline.Context) (*pipeline.Result, error) {
	videoID := pctx.Manifest.VideoID

	var topics []*core.Topic
	if err := storage.ReadJSON(ctx, pctx.Store, pctx.Manifest.Paths[core.ArtifactTopics], &topics); err != nil {
		return nil, err
	}
	if len(topics) == 0 {
		return nil, ErrEmptyGraph
	}

	builder, err := graph.NewBuilder(pctx.Config, graph.WithLogger(pctx.Logger))
	if err != nil {
		return nil, err
	}

	pctx.Progress(10, "building graph")
	g, err := builder.Build(ctx, videoID, pctx.Manifest.GraphVersion, topics)
	if err != nil {
		return nil, err
	}

	pctx.Progress(60, "writing artifacts")
	graphPath := storage.Path(videoID, storage.CategoryGraph, "graph.json")
	if err := storage.WriteJSON(ctx, pctx.Store, graphPath, g); err != nil {
		return nil, err
	}

	embeddings := make(map[core.ID][]float32, len(g.Topics))
	for _, topic := range g.Topics {
		if len(topic.Embedding) > 0 {
			embeddings[topic.ID] = topic.Embedding
		}
	}
	embeddingsPath := storage.Path(videoID, storage.CategoryEmbeddings, "embeddings.json.gz")
	if err := storage.WriteJSONGzip(ctx, pctx.Store, embeddingsPath, embeddings); err != nil {
		return nil, err
	}

	if s.repo != nil {
		pctx.Progress(90, "recording graph version")
		if err := s.repo.PutGraph(ctx, g); err != nil {
			return nil, err
		}
	}

	pctx.Progress(100, "graph complete")
	return &pipeline.Result{
		Artifacts: map[core.Artifact]string{
			core.ArtifactGraph:      graphPath,
			core.ArtifactEmbeddings: embeddingsPath,
		},
		Metrics: map[string]float64{
			"graph_nodes":      float64(g.Metrics.NodeCount),
			"graph_edges":      float64(g.Metrics.EdgeCount),
			"graph_density":    g.Metrics.Density,
			"graph_components": float64(g.Metrics.ConnectedComponents),
		},
	}, nil
}

func (s *GraphStep) Cleanup(pctx *pipeline.Context) error { return nil }
