package mock

import (
	"context"

	"github.com/poiesic/videograph/ai"
	"github.com/poiesic/videograph/core"
)

// Transcriber is a test double for ai.Transcriber.
type Transcriber struct {
	// Segments is returned by Transcribe when TranscribeFunc is nil.
	Segments []core.TranscriptSegment

	// TranscribeFunc is called by Transcribe if set.
	TranscribeFunc func(ctx context.Context, audio []byte) ([]core.TranscriptSegment, error)

	callCount int
}

var _ ai.Transcriber = (*Transcriber)(nil)

// NewTranscriber creates a mock transcriber returning the given segments.
func NewTranscriber(segments []core.TranscriptSegment) *Transcriber {
	return &Transcriber{Segments: segments}
}

// Transcribe returns the configured segments.
func (m *Transcriber) Transcribe(ctx context.Context, audio []byte) ([]core.TranscriptSegment, error) {
	m.callCount++

	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(ctx, audio)
	}

	return m.Segments, nil
}

// CallCount returns the number of times Transcribe was called.
func (m *Transcriber) CallCount() int {
	return m.callCount
}
