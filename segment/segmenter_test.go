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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/videograph/ai/mock"
	"github.com/poiesic/videograph/config"
	"github.com/poiesic/videograph/core"
)

// Fixed direction vectors give exact cosine similarities: same vector is
// 1.0, different axes are 0.0.
var (
	vecA = []float32{1, 0, 0}
	vecB = []float32{0, 1, 0}
)

// embedderByText returns a mock embedder that maps each text to the vector
// in the table, defaulting to vecA.
func embedderByText(table map[string][]float32) *mock.Embedder {
	e := mock.NewEmbedder()
	e.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		out := make([][]float32, len(texts))
		for i, text := range texts {
			if v, ok := table[text]; ok {
				out[i] = v
			} else {
				out[i] = vecA
			}
		}
		return out, nil
	}
	return e
}

// contiguous builds n back-to-back transcript segments of one second each.
func contiguous(n int, text string) []core.TranscriptSegment {
	segs := make([]core.TranscriptSegment, n)
	for i := range segs {
		segs[i] = core.TranscriptSegment{
			ID:    i,
			Start: float64(i),
			End:   float64(i + 1),
			Text:  text,
		}
	}
	return segs
}

func newTestSegmenter(t *testing.T, embedder *mock.Embedder, cfg config.Pipeline) *Segmenter {
	t.Helper()
	s, err := NewSegmenter(embedder, cfg)
	require.NoError(t, err)
	return s
}

func TestMicroSegmentsSingleCoherentTopic(t *testing.T) {
	s := newTestSegmenter(t, embedderByText(nil), config.Default())

	topics, err := s.MicroSegments(context.Background(), contiguous(5, "steady topic"))
	require.NoError(t, err)
	require.Len(t, topics, 1)

	topic := topics[0]
	assert.Equal(t, 0, topic.Level)
	assert.Equal(t, 0.0, topic.Start)
	assert.Equal(t, 5.0, topic.End)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, topic.SegmentIDs)
	assert.Equal(t, -1, topic.ClusterID)
}

func TestMicroSegmentsBoundaryOnPause(t *testing.T) {
	segs := []core.TranscriptSegment{
		{ID: 0, Start: 0, End: 2, Text: "same"},
		{ID: 1, Start: 5, End: 7, Text: "same"}, // 3s gap, over the 2s threshold
	}

	s := newTestSegmenter(t, embedderByText(nil), config.Default())
	topics, err := s.MicroSegments(context.Background(), segs)
	require.NoError(t, err)
	require.Len(t, topics, 2)
	assert.Equal(t, []int{0}, topics[0].SegmentIDs)
	assert.Equal(t, []int{1}, topics[1].SegmentIDs)
}

func TestMicroSegmentsNoBoundaryAtExactPauseThreshold(t *testing.T) {
	segs := []core.TranscriptSegment{
		{ID: 0, Start: 0, End: 2, Text: "same"},
		{ID: 1, Start: 4, End: 6, Text: "same"}, // exactly 2s, not over
	}

	s := newTestSegmenter(t, embedderByText(nil), config.Default())
	topics, err := s.MicroSegments(context.Background(), segs)
	require.NoError(t, err)
	assert.Len(t, topics, 1)
}

func TestMicroSegmentsBoundaryOnSemanticShift(t *testing.T) {
	table := map[string][]float32{
		"cooking pasta": vecA,
		"quantum field": vecB,
	}
	segs := []core.TranscriptSegment{
		{ID: 0, Start: 0, End: 1, Text: "cooking pasta"},
		{ID: 1, Start: 1, End: 2, Text: "cooking pasta"},
		{ID: 2, Start: 2, End: 3, Text: "quantum field"},
	}

	s := newTestSegmenter(t, embedderByText(table), config.Default())
	topics, err := s.MicroSegments(context.Background(), segs)
	require.NoError(t, err)
	require.Len(t, topics, 2)
	assert.Equal(t, []int{0, 1}, topics[0].SegmentIDs)
	assert.Equal(t, []int{2}, topics[1].SegmentIDs)
}

func TestMicroSegmentsEmptyTranscript(t *testing.T) {
	s := newTestSegmenter(t, embedderByText(nil), config.Default())
	_, err := s.MicroSegments(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoSegments)
}

func TestMicroSegmentsEmbeddingCountMismatch(t *testing.T) {
	e := mock.NewEmbedder()
	e.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return [][]float32{vecA}, nil
	}

	s := newTestSegmenter(t, e, config.Default())
	_, err := s.MicroSegments(context.Background(), contiguous(3, "text"))
	assert.ErrorIs(t, err, ErrEmbeddingMismatch)
}

func TestSegmentBuildsHierarchy(t *testing.T) {
	// Two coherent groups separated by a long pause. Within a group the
	// vectors are identical, so the level 1 merge absorbs each group's
	// single micro-topic run but cannot merge across the 10s gap.
	segs := []core.TranscriptSegment{
		{ID: 0, Start: 0, End: 1, Text: "alpha"},
		{ID: 1, Start: 1, End: 2, Text: "alpha"},
		{ID: 2, Start: 12, End: 13, Text: "beta"},
		{ID: 3, Start: 13, End: 14, Text: "beta"},
	}
	table := map[string][]float32{"alpha": vecA, "beta": vecB}

	cfg := config.Default()
	cfg.TopicLevels = 2

	s := newTestSegmenter(t, embedderByText(table), cfg)
	topics, err := s.Segment(context.Background(), segs)
	require.NoError(t, err)

	var level0, level1 []*core.Topic
	for _, topic := range topics {
		switch topic.Level {
		case 0:
			level0 = append(level0, topic)
		case 1:
			level1 = append(level1, topic)
		}
	}

	require.Len(t, level0, 2)
	require.Len(t, level1, 2)

	// Each parent has exactly its one child, linked both ways.
	for i, parent := range level1 {
		require.Len(t, parent.ChildIDs, 1)
		assert.Equal(t, level0[i].ID, parent.ChildIDs[0])
		require.Len(t, level0[i].ParentIDs, 1)
		assert.Equal(t, parent.ID, level0[i].ParentIDs[0])
	}
}

func TestSegmentMergesSimilarAdjacentTopics(t *testing.T) {
	// A semantic shift cuts level 0 in two, but both groups point the same
	// direction for the merge pass when we give them the same vector at a
	// small angle... here identical vectors and a 3s gap: below MergeMaxGap
	// (5s) but above PauseThreshold (2s), so level 0 splits on the pause and
	// level 1 merges the halves back together.
	segs := []core.TranscriptSegment{
		{ID: 0, Start: 0, End: 1, Text: "same"},
		{ID: 1, Start: 4, End: 5, Text: "same"},
	}

	cfg := config.Default()
	cfg.TopicLevels = 2

	s := newTestSegmenter(t, embedderByText(nil), cfg)
	topics, err := s.Segment(context.Background(), segs)
	require.NoError(t, err)

	var level1 []*core.Topic
	for _, topic := range topics {
		if topic.Level == 1 {
			level1 = append(level1, topic)
		}
	}

	require.Len(t, level1, 1)
	assert.Len(t, level1[0].ChildIDs, 2)
	assert.Equal(t, 0.0, level1[0].Start)
	assert.Equal(t, 5.0, level1[0].End)
}

func TestBuildHierarchyMergesDriftingChain(t *testing.T) {
	// Each adjacent pair is cos(30deg) apart (~0.866, above the 0.85 merge
	// threshold) while the chain's ends are only cos(60deg) similar (0.5).
	// The merge criterion compares the run's last member with the candidate,
	// so the whole drifting chain becomes one parent; a centroid comparison
	// would close the run after two members.
	micro := []*core.Topic{
		{ID: 1, Level: 0, Start: 0, End: 1, Embedding: []float32{1, 0, 0}},
		{ID: 2, Level: 0, Start: 1, End: 2, Embedding: []float32{0.8660254, 0.5, 0}},
		{ID: 3, Level: 0, Start: 2, End: 3, Embedding: []float32{0.5, 0.8660254, 0}},
	}

	cfg := config.Default()
	cfg.TopicLevels = 2

	s := newTestSegmenter(t, embedderByText(nil), cfg)
	all, err := s.BuildHierarchy(micro)
	require.NoError(t, err)

	var level1 []*core.Topic
	for _, topic := range all {
		if topic.Level == 1 {
			level1 = append(level1, topic)
		}
	}
	require.Len(t, level1, 1)
	assert.ElementsMatch(t, []core.ID{1, 2, 3}, level1[0].ChildIDs)
}

func TestTopicsCarryConcatenatedSummaries(t *testing.T) {
	// A 3s pause splits level 0 in two; the level 1 merge rejoins the halves.
	segs := []core.TranscriptSegment{
		{ID: 0, Start: 0, End: 1, Text: "first thought"},
		{ID: 1, Start: 4, End: 5, Text: "second thought"},
	}

	cfg := config.Default()
	cfg.TopicLevels = 2

	s := newTestSegmenter(t, embedderByText(nil), cfg)
	topics, err := s.Segment(context.Background(), segs)
	require.NoError(t, err)
	require.Len(t, topics, 3)

	var summaries []string
	for _, topic := range topics {
		summaries = append(summaries, topic.Summary)
	}
	assert.ElementsMatch(t, []string{
		"first thought",
		"second thought",
		"first thought second thought",
	}, summaries)
}

func TestSegmentStopsWhenLevelHasOneTopic(t *testing.T) {
	cfg := config.Default()
	cfg.TopicLevels = 4

	s := newTestSegmenter(t, embedderByText(nil), cfg)
	topics, err := s.Segment(context.Background(), contiguous(3, "same"))
	require.NoError(t, err)

	// One micro-topic, nothing to merge above it.
	require.Len(t, topics, 1)
	assert.Equal(t, 0, topics[0].Level)
}

func TestAdoptParentsAddsSecondaryLinks(t *testing.T) {
	// Three micro-topics: two "alpha" groups split by a long pause with a
	// "beta" group between them. With MultiParent on, the second alpha
	// parent also adopts the first alpha child (similarity 1.0).
	segs := []core.TranscriptSegment{
		{ID: 0, Start: 0, End: 1, Text: "alpha"},
		{ID: 1, Start: 10, End: 11, Text: "beta"},
		{ID: 2, Start: 20, End: 21, Text: "alpha"},
	}
	table := map[string][]float32{"alpha": vecA, "beta": vecB}

	cfg := config.Default()
	cfg.TopicLevels = 2
	cfg.MultiParent = true

	s := newTestSegmenter(t, embedderByText(table), cfg)
	topics, err := s.Segment(context.Background(), segs)
	require.NoError(t, err)

	multiParented := 0
	for _, topic := range topics {
		if topic.Level == 0 && len(topic.ParentIDs) > 1 {
			multiParented++
		}
	}
	assert.Equal(t, 2, multiParented, "both alpha children should have both alpha parents")
}

func TestReconcileRepairsOneWayLinks(t *testing.T) {
	parent := &core.Topic{ID: 1, Level: 1}
	child := &core.Topic{ID: 2, Level: 0, ParentIDs: []core.ID{1}}
	orphanLink := &core.Topic{ID: 3, Level: 0, ParentIDs: []core.ID{99}}

	Reconcile([]*core.Topic{parent, child, orphanLink})

	assert.Equal(t, []core.ID{2}, parent.ChildIDs)
	assert.Equal(t, []core.ID{1}, child.ParentIDs)
	assert.Empty(t, orphanLink.ParentIDs, "links to unknown topics are dropped")
}
