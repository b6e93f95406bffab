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

	"github.com/poiesic/videograph/ai"
	"github.com/poiesic/videograph/core"
	"github.com/poiesic/videograph/pipeline"
	"github.com/poiesic/videograph/segment"
	"github.com/poiesic/videograph/storage"
)

// StepTopics segments the transcript into the topic hierarchy.
const StepTopics = "topics"

// TopicsStep runs the two-pass segmentation over the transcript, fills in
// titles and summaries, and writes the topic list artifact.
type TopicsStep struct {
	embedder   ai.Embedder
	summarizer ai.Summarizer
}

// NewTopicsStep creates the segmentation step.
func NewTopicsStep(embedder ai.Embedder, summarizer ai.Summarizer) *TopicsStep {
	return &TopicsStep{embedder: embedder, summarizer: summarizer}
}

func (s *TopicsStep) Name() string { return StepTopics }

func (s *TopicsStep) ValidateContext(pctx *pipeline.Context) error {
	var problems []string
	if s.embedder == nil {
		problems = append(problems, "embedder is required")
	}
	if s.summarizer == nil {
		problems = append(problems, "summarizer is required")
	}
	if !pctx.Manifest.HasPath(core.ArtifactTranscript) {
		problems = append(problems, "transcript artifact not in manifest")
	}
	if len(problems) > 0 {
		return &pipeline.ValidationError{Step: StepTopics, Problems: problems}
	}
	return nil
}

func (s *TopicsStep) Execute(ctx context.Context, pctx *pipeline.Context) (*pipeline.Result, error) {
	videoID := pctx.Manifest.VideoID

	var transcript []core.TranscriptSegment
	if err := storage.ReadJSON(ctx, pctx.Store, pctx.Manifest.Paths[core.ArtifactTranscript], &transcript); err != nil {
		return nil, err
	}

	segmenter, err := segment.NewSegmenter(s.embedder, pctx.Config, segment.WithLogger(pctx.Logger))
	if err != nil {
		return nil, err
	}

	pctx.Progress(10, "segmenting transcript")
	topics, err := segmenter.Segment(ctx, transcript)
	if err != nil {
		return nil, err
	}

	pctx.Progress(40, "summarizing topics")
	summarizer, err := segment.NewSummarizer(s.summarizer, pctx.Config, pctx.Logger)
	if err != nil {
		return nil, err
	}
	defer summarizer.Release()

	if err := summarizer.SummarizeTopics(ctx, topics, transcript); err != nil {
		return nil, err
	}

	segment.ScoreImportance(topics, segment.LinkDegrees(topics), pctx.Config)

	pctx.Progress(90, "writing topics")
	topicsPath := storage.Path(videoID, storage.CategoryTopics, "topics.json")
	if err := storage.WriteJSON(ctx, pctx.Store, topicsPath, topics); err != nil {
		return nil, err
	}

	levels := map[int]bool{}
	for _, topic := range topics {
		levels[topic.Level] = true
	}

	pctx.Progress(100, "segmentation complete")
	return &pipeline.Result{
		Artifacts: map[core.Artifact]string{
			core.ArtifactTopics: topicsPath,
		},
		Metrics: map[string]float64{
			"topic_count":  float64(len(topics)),
			"topic_levels": float64(len(levels)),
		},
	}, nil
}

func (s *TopicsStep) Cleanup(pctx *pipeline.Context) error { return nil }
