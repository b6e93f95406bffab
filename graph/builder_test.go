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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/videograph/config"
	"github.com/poiesic/videograph/core"
)

var (
	vecA = []float32{1, 0, 0}
	vecB = []float32{0, 1, 0}
)

func edgesOfType(g *core.Graph, kind core.EdgeType) []core.Edge {
	var out []core.Edge
	for _, e := range g.Edges {
		if e.Type == kind {
			out = append(out, e)
		}
	}
	return out
}

// twoLevelTopics builds two level 0 topics under one level 1 parent, all
// sharing the same embedding direction.
func twoLevelTopics() []*core.Topic {
	childA := &core.Topic{ID: 1, Level: 0, Start: 0, End: 10, Embedding: vecA,
		Keywords: []string{"kernel", "scheduler"}, ClusterID: -1}
	childB := &core.Topic{ID: 2, Level: 0, Start: 10, End: 20, Embedding: vecA,
		Keywords: []string{"kernel", "memory"}, ClusterID: -1}
	parent := &core.Topic{ID: 3, Level: 1, Start: 0, End: 20, Embedding: vecA,
		Keywords: []string{"kernel", "scheduler", "memory"}, ChildIDs: []core.ID{1, 2}, ClusterID: -1}
	childA.ParentIDs = []core.ID{3}
	childB.ParentIDs = []core.ID{3}
	return []*core.Topic{childA, childB, parent}
}

func TestBuildProducesAllEdgeTypes(t *testing.T) {
	b, err := NewBuilder(config.Default())
	require.NoError(t, err)

	g, err := b.Build(context.Background(), "vid-1", "v1", twoLevelTopics())
	require.NoError(t, err)

	assert.Equal(t, "vid-1", g.VideoID)
	assert.Equal(t, "v1", g.Version)

	hierarchy := edgesOfType(g, core.EdgeHierarchy)
	require.Len(t, hierarchy, 2)
	for _, e := range hierarchy {
		assert.Equal(t, core.ID(3), e.Source)
		assert.Equal(t, 1.0, e.Weight)
		assert.Equal(t, 0.0, e.Distance)
	}

	// One sequence edge at level 0 (two topics), none at level 1.
	sequence := edgesOfType(g, core.EdgeSequence)
	require.Len(t, sequence, 1)
	assert.Equal(t, core.ID(1), sequence[0].Source)
	assert.Equal(t, core.ID(2), sequence[0].Target)
	assert.Equal(t, 0.8, sequence[0].Weight)

	// Identical embeddings give semantic edges in both directions.
	assert.NotEmpty(t, edgesOfType(g, core.EdgeSemantic))
}

func TestBuildReferenceEdges(t *testing.T) {
	topics := twoLevelTopics()

	b, err := NewBuilder(config.Default())
	require.NoError(t, err)

	g, err := b.Build(context.Background(), "vid-1", "v1", topics)
	require.NoError(t, err)

	refs := edgesOfType(g, core.EdgeReference)
	require.NotEmpty(t, refs)

	// Child A shares {kernel, scheduler} with the parent; weight is shared
	// over the larger keyword list.
	var found bool
	for _, e := range refs {
		if e.Source == 1 && e.Target == 3 {
			found = true
			assert.InDelta(t, 2.0/3.0, e.Weight, 1e-9)
			require.NotNil(t, e.Metadata)
			assert.Equal(t, []string{"kernel", "scheduler"}, e.Metadata.SharedKeywords)
		}
		// Reference edges always point from the lower level up.
		srcLevel := levelOf(topics, e.Source)
		tgtLevel := levelOf(topics, e.Target)
		assert.Less(t, srcLevel, tgtLevel)
	}
	assert.True(t, found)
}

func TestBuildSkipsReferenceBelowMinShared(t *testing.T) {
	topics := []*core.Topic{
		{ID: 1, Level: 0, Start: 0, End: 10, Embedding: vecA, Keywords: []string{"kernel", "disk"}, ClusterID: -1},
		{ID: 2, Level: 1, Start: 0, End: 10, Embedding: vecB, Keywords: []string{"kernel", "memory"}, ClusterID: -1},
	}

	b, err := NewBuilder(config.Default())
	require.NoError(t, err)

	g, err := b.Build(context.Background(), "vid-1", "v1", topics)
	require.NoError(t, err)

	// Only one shared keyword, below the minimum of two.
	assert.Empty(t, edgesOfType(g, core.EdgeReference))
}

func TestBuildSemanticThresholdAndTopK(t *testing.T) {
	// Ten identical topics: each has nine candidates at similarity 1.0,
	// but only SemanticTopK (5) survive per source.
	var topics []*core.Topic
	for i := 1; i <= 10; i++ {
		topics = append(topics, &core.Topic{
			ID: core.ID(i), Level: 0,
			Start: float64(i), End: float64(i + 1),
			Embedding: vecA, ClusterID: -1,
		})
	}

	b, err := NewBuilder(config.Default())
	require.NoError(t, err)

	g, err := b.Build(context.Background(), "vid-1", "v1", topics)
	require.NoError(t, err)

	perSource := map[core.ID]int{}
	for _, e := range edgesOfType(g, core.EdgeSemantic) {
		perSource[e.Source]++
	}
	for _, count := range perSource {
		assert.LessOrEqual(t, count, 5)
	}
}

func TestBuildNoSemanticEdgesBelowThreshold(t *testing.T) {
	topics := []*core.Topic{
		{ID: 1, Level: 0, Start: 0, End: 1, Embedding: vecA, ClusterID: -1},
		{ID: 2, Level: 0, Start: 1, End: 2, Embedding: vecB, ClusterID: -1},
	}

	b, err := NewBuilder(config.Default())
	require.NoError(t, err)

	g, err := b.Build(context.Background(), "vid-1", "v1", topics)
	require.NoError(t, err)
	assert.Empty(t, edgesOfType(g, core.EdgeSemantic))
}

func TestBuildRescoresImportance(t *testing.T) {
	topics := twoLevelTopics()

	b, err := NewBuilder(config.Default())
	require.NoError(t, err)

	g, err := b.Build(context.Background(), "vid-1", "v1", topics)
	require.NoError(t, err)

	for _, topic := range g.Topics {
		assert.GreaterOrEqual(t, topic.Importance, 0.0)
		assert.LessOrEqual(t, topic.Importance, 1.0)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	b, err := NewBuilder(config.Default())
	require.NoError(t, err)

	g1, err := b.Build(context.Background(), "vid-1", "v1", twoLevelTopics())
	require.NoError(t, err)
	g2, err := b.Build(context.Background(), "vid-1", "v1", twoLevelTopics())
	require.NoError(t, err)

	assert.Equal(t, g1.Edges, g2.Edges)
	assert.Equal(t, g1.Metrics, g2.Metrics)
}

func TestBuildRejectsEmptyTopics(t *testing.T) {
	b, err := NewBuilder(config.Default())
	require.NoError(t, err)

	_, err = b.Build(context.Background(), "vid-1", "v1", nil)
	assert.ErrorIs(t, err, ErrNoTopics)
}

func levelOf(topics []*core.Topic, id core.ID) int {
	for _, t := range topics {
		if t.ID == id {
			return t.Level
		}
	}
	return -1
}
