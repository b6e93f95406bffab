package segment

import "errors"

var (
	// ErrNoSegments indicates an empty transcript was given to the segmenter.
	ErrNoSegments = errors.New("transcript has no segments")

	// ErrEmbedderRequired indicates a nil embedder was passed.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrSummarizerRequired indicates a nil summarizer was passed.
	ErrSummarizerRequired = errors.New("summarizer is required")

	// ErrEmbeddingMismatch indicates the embedder returned a different number
	// of vectors than texts requested.
	ErrEmbeddingMismatch = errors.New("embedding count does not match text count")
)
