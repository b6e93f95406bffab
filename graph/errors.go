package graph

import "errors"

var (
	// ErrNoTopics indicates a graph build was attempted with no topics.
	ErrNoTopics = errors.New("no topics to build graph from")

	// ErrUnknownStrategy indicates an unrecognized cluster strategy name.
	ErrUnknownStrategy = errors.New("unknown cluster strategy")

	// ErrNoEmbeddings indicates clustering was attempted on topics without
	// embeddings.
	ErrNoEmbeddings = errors.New("topics have no embeddings")
)
