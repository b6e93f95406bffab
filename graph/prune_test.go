package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/videograph/config"
	"github.com/poiesic/videograph/core"
)

func TestPruneKeepsMaxWeightDuplicate(t *testing.T) {
	edges := []core.Edge{
		core.NewEdge(1, 2, core.EdgeSemantic, 0.6),
		core.NewEdge(1, 2, core.EdgeSemantic, 0.9),
		core.NewEdge(1, 2, core.EdgeSemantic, 0.7),
	}

	pruned := Prune(edges, config.Default())
	require.Len(t, pruned, 1)
	assert.Equal(t, 0.9, pruned[0].Weight)
}

func TestPruneKeepsDistinctTypesBetweenSamePair(t *testing.T) {
	edges := []core.Edge{
		core.NewEdge(1, 2, core.EdgeSemantic, 0.8),
		core.NewEdge(1, 2, core.EdgeSequence, 0.8),
		core.NewEdge(1, 2, core.EdgeHierarchy, 1.0),
	}

	pruned := Prune(edges, config.Default())
	assert.Len(t, pruned, 3)
}

func TestPruneCapsSemanticEdgesPerSource(t *testing.T) {
	var edges []core.Edge
	for i := 2; i <= 16; i++ {
		edges = append(edges, core.NewEdge(1, core.ID(i), core.EdgeSemantic, 0.75+float64(i)/100))
	}
	require.Len(t, edges, 15)

	pruned := Prune(edges, config.Default())
	assert.Len(t, pruned, 10)

	// The strongest survive.
	for _, e := range pruned {
		assert.GreaterOrEqual(t, e.Weight, 0.75+7.0/100)
	}
}

func TestPruneDoesNotCapOtherTypes(t *testing.T) {
	var edges []core.Edge
	for i := 2; i <= 16; i++ {
		edges = append(edges, core.NewEdge(1, core.ID(i), core.EdgeHierarchy, 1.0))
	}

	pruned := Prune(edges, config.Default())
	assert.Len(t, pruned, 15)
}

func TestPruneIsDeterministic(t *testing.T) {
	edges := []core.Edge{
		core.NewEdge(3, 4, core.EdgeSemantic, 0.8),
		core.NewEdge(1, 2, core.EdgeSemantic, 0.9),
		core.NewEdge(2, 3, core.EdgeSequence, 0.8),
	}
	reversed := []core.Edge{edges[2], edges[1], edges[0]}

	assert.Equal(t, Prune(edges, config.Default()), Prune(reversed, config.Default()))
}
