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
	"fmt"
	"sort"

	"github.com/poiesic/videograph/core"
	"github.com/poiesic/videograph/media"
	"github.com/poiesic/videograph/pipeline"
	"github.com/poiesic/videograph/storage"
)

// StepSnippet clips the most important topics out of the normalized video.
const StepSnippet = "snippet"

// SnippetStep cuts one clip per top-importance topic and writes a snippet
// index describing them.
type SnippetStep struct {
	cutter media.Cutter
}

// NewSnippetStep creates the snippet extraction step.
func NewSnippetStep(cutter media.Cutter) *SnippetStep {
	return &SnippetStep{cutter: cutter}
}

func (s *SnippetStep) Name() string { return StepSnippet }

func (s *SnippetStep) ValidateContext(pctx *pipeline.Context) error {
	var problems []string
	if s.cutter == nil {
		problems = append(problems, "cutter is required")
	}
	if !pctx.Manifest.HasPath(core.ArtifactGraph) {
		problems = append(problems, "graph artifact not in manifest")
	}
	if !pctx.Manifest.HasPath(core.ArtifactNormalized) {
		problems = append(problems, "normalized video artifact not in manifest")
	}
	if len(problems) > 0 {
		return &pipeline.ValidationError{Step: StepSnippet, Problems: problems}
	}
	return nil
}

func (s *SnippetStep) Execute(ctx context.Context, pctx *pipeline.Context) (*pipeline.Result, error) {
	videoID := pctx.Manifest.VideoID

	var g core.Graph
	if err := storage.ReadJSON(ctx, pctx.Store, pctx.Manifest.Paths[core.ArtifactGraph], &g); err != nil {
		return nil, err
	}
	if len(g.Topics) == 0 {
		return nil, ErrEmptyGraph
	}

	video, err := pctx.Store.Read(ctx, pctx.Manifest.Paths[core.ArtifactNormalized])
	if err != nil {
		return nil, err
	}

	targets := topSnippetTopics(g.Topics, pctx.Config.SnippetCount)

	artifacts := map[core.Artifact]string{}
	snippets := make([]core.Snippet, 0, len(targets))
	for i, topic := range targets {
		pctx.Progress(float64(i)/float64(len(targets))*90, fmt.Sprintf("clipping snippet %d of %d", i+1, len(targets)))

		clip, err := s.cutter.Cut(ctx, video, topic.Start, topic.End)
		if err != nil {
			return nil, err
		}

		file := fmt.Sprintf("snippet_%03d.mp4", i)
		clipPath := storage.Path(videoID, storage.CategorySnippets, file)
		if err := pctx.Store.Write(ctx, clipPath, clip); err != nil {
			return nil, err
		}

		artifacts[core.IndexedArtifact(core.ArtifactSnippet, i)] = clipPath
		snippets = append(snippets, core.Snippet{
			TopicID:    topic.ID,
			Start:      topic.Start,
			End:        topic.End,
			Title:      topic.Title,
			File:       file,
			Importance: topic.Importance,
		})
	}

	indexPath := storage.Path(videoID, storage.CategorySnippets, "index.json")
	if err := storage.WriteJSON(ctx, pctx.Store, indexPath, snippets); err != nil {
		return nil, err
	}
	artifacts[core.ArtifactSnippet] = indexPath

	pctx.Progress(100, "snippets complete")
	return &pipeline.Result{
		Artifacts: artifacts,
		Metrics: map[string]float64{
			"snippet_count": float64(len(snippets)),
		},
	}, nil
}

func (s *SnippetStep) Cleanup(pctx *pipeline.Context) error { return nil }

// topSnippetTopics ranks level 0 topics by importance, descending, and
// returns the first count. Ties break on start time so selection is stable.
func topSnippetTopics(topics []*core.Topic, count int) []*core.Topic {
	var level0 []*core.Topic
	for _, t := range topics {
		if t.Level == 0 {
			level0 = append(level0, t)
		}
	}

	sort.Slice(level0, func(i, j int) bool {
		if level0[i].Importance != level0[j].Importance {
			return level0[i].Importance > level0[j].Importance
		}
		return level0[i].Start < level0[j].Start
	})

	if count > 0 && len(level0) > count {
		level0 = level0[:count]
	}
	return level0
}
