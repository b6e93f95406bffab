package mock

import "github.com/poiesic/videograph/ai"

// Provider is a test double for ai.Provider that aggregates the mock services.
type Provider struct {
	MockEmbedder    *Embedder
	MockSummarizer  *Summarizer
	MockTranscriber *Transcriber
}

var _ ai.Provider = (*Provider)(nil)

// NewProvider creates a provider wired with fresh deterministic mocks.
func NewProvider() *Provider {
	return &Provider{
		MockEmbedder:    NewEmbedder(),
		MockSummarizer:  NewSummarizer(),
		MockTranscriber: NewTranscriber(nil),
	}
}

// Embedder returns the mock embedder.
func (p *Provider) Embedder() ai.Embedder {
	return p.MockEmbedder
}

// Summarizer returns the mock summarizer.
func (p *Provider) Summarizer() ai.Summarizer {
	return p.MockSummarizer
}

// Transcriber returns the mock transcriber.
func (p *Provider) Transcriber() ai.Transcriber {
	return p.MockTranscriber
}

// Close is a no-op.
func (p *Provider) Close() error {
	return nil
}
