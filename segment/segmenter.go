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


package segment

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/poiesic/videograph/ai"
	"github.com/poiesic/videograph/config"
	"github.com/poiesic/videograph/core"
	"github.com/poiesic/videograph/vec"
)

// Segmenter turns a flat transcript into a hierarchy of topics.
//
// Pass one walks the transcript and cuts a boundary wherever the pause to
// the next segment exceeds PauseThreshold or the embedding similarity drops
// below CoherenceThreshold, yielding level 0 micro-topics. Pass two then
// greedily merges adjacent topics level by level, up to TopicLevels, while
// the time gap stays within MergeMaxGap and the similarity stays at or above
// MergeThreshold.
type Segmenter struct {
	embedder ai.Embedder
	cfg      config.Pipeline
	logger   *slog.Logger
}

// Option configures a Segmenter.
type Option func(*Segmenter)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Segmenter) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSegmenter creates a segmenter over an embedder.
func NewSegmenter(embedder ai.Embedder, cfg config.Pipeline, opts ...Option) (*Segmenter, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Segmenter{
		embedder: embedder,
		cfg:      cfg,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Segment runs both passes and returns every topic across all levels,
// parents and children linked bidirectionally. Level 0 topics come first,
// in transcript order, followed by each higher level in order.
func (s *Segmenter) Segment(ctx context.Context, segments []core.TranscriptSegment) ([]*core.Topic, error) {
	micro, err := s.MicroSegments(ctx, segments)
	if err != nil {
		return nil, err
	}
	return s.BuildHierarchy(micro)
}

// MicroSegments performs the first pass: transcript segments in, level 0
// topics out. Each topic covers a contiguous run of transcript segments,
// carries the centroid of their embeddings, and is keyed by a content ID.
func (s *Segmenter) MicroSegments(ctx context.Context, segments []core.TranscriptSegment) ([]*core.Topic, error) {
	if len(segments) == 0 {
		return nil, ErrNoSegments
	}

	texts := make([]string, len(segments))
	for i, seg := range segments {
		texts[i] = seg.Text
	}

	embeddings, err := s.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding transcript: %w", err)
	}
	if len(embeddings) != len(segments) {
		return nil, fmt.Errorf("%w: got %d for %d segments", ErrEmbeddingMismatch, len(embeddings), len(segments))
	}

	var topics []*core.Topic
	runStart := 0
	for i := range segments {
		if i == len(segments)-1 || s.isBoundary(segments[i], segments[i+1], embeddings[i], embeddings[i+1]) {
			topics = append(topics, s.buildMicroTopic(segments[runStart:i+1], embeddings[runStart:i+1], runStart))
			runStart = i + 1
		}
	}

	s.logger.Debug("first pass complete", "segments", len(segments), "topics", len(topics))
	return topics, nil
}

// isBoundary reports whether a topic boundary falls between two consecutive
// transcript segments.
func (s *Segmenter) isBoundary(cur, next core.TranscriptSegment, curEmb, nextEmb []float32) bool {
	if next.Start-cur.End > s.cfg.PauseThreshold.Seconds() {
		return true
	}
	return vec.Cosine(curEmb, nextEmb) < s.cfg.CoherenceThreshold
}

func (s *Segmenter) buildMicroTopic(run []core.TranscriptSegment, embeddings [][]float32, firstIdx int) *core.Topic {
	var sb strings.Builder
	segmentIDs := make([]int, len(run))
	for i, seg := range run {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(seg.Text)
		segmentIDs[i] = seg.ID
	}
	text := sb.String()

	start := run[0].Start
	end := run[len(run)-1].End

	// The raw concatenated text stands in as the summary until LLM
	// summarization replaces it.
	return &core.Topic{
		ID:         core.TopicID(0, start, end, text),
		Level:      0,
		Start:      start,
		End:        end,
		Summary:    text,
		Keywords:   ExtractKeywords(text, s.cfg.MaxKeywords),
		SegmentIDs: segmentIDs,
		ClusterID:  -1,
		Embedding:  vec.Centroid(embeddings),
	}
}

// BuildHierarchy performs the second pass: greedy adjacent merging of the
// level 0 topics up through TopicLevels levels. The returned slice contains
// the input topics plus every parent created, all links reconciled.
func (s *Segmenter) BuildHierarchy(micro []*core.Topic) ([]*core.Topic, error) {
	if len(micro) == 0 {
		return nil, ErrNoSegments
	}

	all := slices.Clone(micro)
	current := micro

	for level := 1; level < s.cfg.TopicLevels; level++ {
		// A level with a single topic cannot merge further; higher levels
		// would just repeat it.
		if len(current) < 2 {
			break
		}

		parents := s.mergeLevel(current, level)
		if s.cfg.MultiParent {
			s.adoptParents(current, parents)
		}

		all = append(all, parents...)
		current = parents

		s.logger.Debug("merge pass complete", "level", level, "topics", len(parents))
	}

	Reconcile(all)
	return all, nil
}

// mergeLevel greedily merges a run of adjacent topics into parents at the
// given level. A run extends while the gap from its last topic to the next
// is within MergeMaxGap and their similarity is at least MergeThreshold.
func (s *Segmenter) mergeLevel(children []*core.Topic, level int) []*core.Topic {
	var parents []*core.Topic

	runStart := 0
	for i := 0; i < len(children); i++ {
		if i == len(children)-1 || !s.canMerge(children[runStart:i+1], children[i+1]) {
			parents = append(parents, s.buildParent(children[runStart:i+1], level))
			runStart = i + 1
		}
	}
	return parents
}

// canMerge compares the candidate against the run's last member, not the
// run's centroid, so a slowly drifting but locally coherent chain keeps
// merging.
func (s *Segmenter) canMerge(run []*core.Topic, next *core.Topic) bool {
	last := run[len(run)-1]
	if next.Start-last.End > s.cfg.MergeMaxGap.Seconds() {
		return false
	}
	return vec.Cosine(last.Embedding, next.Embedding) >= s.cfg.MergeThreshold
}

func (s *Segmenter) buildParent(run []*core.Topic, level int) *core.Topic {
	embeddings := make([][]float32, len(run))
	var keywords []string
	var segmentIDs []int
	var texts []string

	for i, child := range run {
		embeddings[i] = child.Embedding
		keywords = append(keywords, child.Keywords...)
		segmentIDs = append(segmentIDs, child.SegmentIDs...)
		texts = append(texts, child.Summary)
	}

	start := run[0].Start
	end := run[len(run)-1].End
	text := strings.Join(texts, " ")

	parent := &core.Topic{
		ID:         core.TopicID(level, start, end, text),
		Level:      level,
		Start:      start,
		End:        end,
		Summary:    text,
		Keywords:   dedupeKeywords(keywords, s.cfg.MaxKeywords),
		SegmentIDs: segmentIDs,
		ClusterID:  -1,
		Embedding:  vec.Centroid(embeddings),
	}

	for _, child := range run {
		parent.ChildIDs = append(parent.ChildIDs, child.ID)
		child.ParentIDs = append(child.ParentIDs, parent.ID)
	}
	return parent
}

// adoptParents attaches each child to additional parents at the same level
// whose embedding similarity clears MergeThreshold. The merge parent is
// always kept; adoption only adds links.
func (s *Segmenter) adoptParents(children, parents []*core.Topic) {
	for _, child := range children {
		for _, parent := range parents {
			if slices.Contains(child.ParentIDs, parent.ID) {
				continue
			}
			if vec.Cosine(child.Embedding, parent.Embedding) >= s.cfg.MergeThreshold {
				child.ParentIDs = append(child.ParentIDs, parent.ID)
				parent.ChildIDs = append(parent.ChildIDs, child.ID)
			}
		}
	}
}

// Reconcile makes parent and child links bidirectionally consistent across
// the topic set: every ParentIDs entry gains the matching ChildIDs entry and
// vice versa. Links to unknown topics are dropped.
func Reconcile(topics []*core.Topic) {
	byID := make(map[core.ID]*core.Topic, len(topics))
	for _, t := range topics {
		byID[t.ID] = t
	}

	for _, t := range topics {
		t.ParentIDs = slices.DeleteFunc(t.ParentIDs, func(id core.ID) bool {
			_, ok := byID[id]
			return !ok
		})
		t.ChildIDs = slices.DeleteFunc(t.ChildIDs, func(id core.ID) bool {
			_, ok := byID[id]
			return !ok
		})
	}

	for _, t := range topics {
		for _, parentID := range t.ParentIDs {
			parent := byID[parentID]
			if !slices.Contains(parent.ChildIDs, t.ID) {
				parent.ChildIDs = append(parent.ChildIDs, t.ID)
			}
		}
		for _, childID := range t.ChildIDs {
			child := byID[childID]
			if !slices.Contains(child.ParentIDs, t.ID) {
				child.ParentIDs = append(child.ParentIDs, t.ID)
			}
		}
	}
}

func dedupeKeywords(keywords []string, maxKeywords int) []string {
	seen := make(map[string]bool, len(keywords))
	var out []string
	for _, word := range keywords {
		if seen[word] {
			continue
		}
		seen[word] = true
		out = append(out, word)
		if len(out) == maxKeywords {
			break
		}
	}
	return out
}
