package ai

import (
	"context"

	"github.com/poiesic/videograph/core"
)

// Embedder generates vector embeddings from text for semantic similarity.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a
	// batch. The returned slice contains embeddings in the same order as the
	// input texts. Batch processing is more efficient than calling EmbedText
	// multiple times.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Summarizer produces a short title and summary for a block of transcript
// text. Implementations must be thread-safe for concurrent use.
type Summarizer interface {
	// Summarize analyzes text and returns a concise title and summary.
	// Returns an error if summarization fails; callers decide whether a
	// failed summary is fatal for their operation.
	Summarize(ctx context.Context, text string) (*Summary, error)
}

// Transcriber converts an audio artifact into timed transcript segments.
// Concrete speech-to-text engines live behind this port; the core never
// depends on a specific model.
type Transcriber interface {
	// Transcribe reads audio bytes and returns ordered transcript segments.
	Transcribe(ctx context.Context, audio []byte) ([]core.TranscriptSegment, error)
}

// Summary is the result of a summarization call.
type Summary struct {
	// Title is a short headline for the text, a few words at most.
	Title string

	// Summary is a one-to-three sentence abstract of the text.
	Summary string
}

// Provider aggregates AI services for convenient initialization and
// lifecycle management. A provider creates and manages the embedder,
// summarizer and transcriber instances, ensuring they share configuration.
type Provider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Summarizer returns the topic summarization service.
	Summarizer() Summarizer

	// Transcriber returns the speech-to-text service.
	Transcriber() Transcriber

	// Close releases resources held by the provider and its services.
	Close() error
}
