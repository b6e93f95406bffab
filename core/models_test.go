package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDFromContentIsDeterministic(t *testing.T) {
	assert.Equal(t, IDFromContent("same input"), IDFromContent("same input"))
	assert.NotEqual(t, IDFromContent("one"), IDFromContent("two"))
}

func TestTopicIDVariesByAllInputs(t *testing.T) {
	base := TopicID(0, 0, 10, "text")
	assert.Equal(t, base, TopicID(0, 0, 10, "text"))
	assert.NotEqual(t, base, TopicID(1, 0, 10, "text"))
	assert.NotEqual(t, base, TopicID(0, 0, 11, "text"))
	assert.NotEqual(t, base, TopicID(0, 0, 10, "other"))
}

func TestNewEdgeKeepsDistanceConsistent(t *testing.T) {
	e := NewEdge(1, 2, EdgeSemantic, 0.8)

	assert.Equal(t, ID(1), e.Source)
	assert.Equal(t, ID(2), e.Target)
	assert.InDelta(t, 0.2, e.Distance, 1e-9)

	// Same endpoints and type always get the same ID, regardless of weight.
	assert.Equal(t, e.ID, NewEdge(1, 2, EdgeSemantic, 0.5).ID)
	assert.NotEqual(t, e.ID, NewEdge(1, 2, EdgeSequence, 0.8).ID)
	assert.NotEqual(t, e.ID, NewEdge(2, 1, EdgeSemantic, 0.8).ID)
}

func TestNewULIDIsUniqueAndSortable(t *testing.T) {
	a := NewULID()
	b := NewULID()

	assert.Len(t, a, 26)
	assert.NotEqual(t, a, b)
}

func TestDurations(t *testing.T) {
	seg := TranscriptSegment{Start: 1.5, End: 4}
	assert.Equal(t, 2.5, seg.Duration())

	topic := Topic{Start: 10, End: 40}
	assert.Equal(t, 30.0, topic.Duration())
}
