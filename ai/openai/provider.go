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


package openai

import (
	"log/slog"

	"github.com/poiesic/videograph/ai"
)

// Provider implements ai.Provider using OpenAI-compatible services.
// It manages embedder and summarizer instances. OpenAI-compatible hosts do
// not expose audio transcription through the chat API, so Transcriber must
// be supplied separately; see WithTranscriber.
type Provider struct {
	config      *ai.Config
	embedder    *Embedder
	summarizer  *Summarizer
	transcriber ai.Transcriber
	logger      *slog.Logger
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithTranscriber supplies the speech-to-text service for the provider.
// Required for pipelines that include the transcribe step.
func WithTranscriber(t ai.Transcriber) ProviderOption {
	return func(p *Provider) {
		p.transcriber = t
	}
}

// NewProvider creates a new AI provider with OpenAI-compatible services.
// The config is validated and normalized before use.
//
// Returns ai.Provider interface (not *Provider) to enforce abstraction
// and prevent coupling to OpenAI-specific implementation details.
func NewProvider(config *ai.Config, opts ...ProviderOption) (ai.Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	embedder, err := newEmbedder(config)
	if err != nil {
		return nil, err
	}

	summarizer, err := newSummarizer(config)
	if err != nil {
		return nil, err
	}

	p := &Provider{
		config:     config,
		embedder:   embedder,
		summarizer: summarizer,
		logger:     slog.Default().With("component", "openai-provider"),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Summarizer returns the topic summarization service.
func (p *Provider) Summarizer() ai.Summarizer {
	return p.summarizer
}

// Transcriber returns the speech-to-text service, or nil if none was supplied.
func (p *Provider) Transcriber() ai.Transcriber {
	return p.transcriber
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	return nil
}
