package mock

import (
	"context"
	"strings"

	"github.com/poiesic/videograph/ai"
)

// Summarizer is a test double for ai.Summarizer.
type Summarizer struct {
	// SummarizeFunc is called by Summarize if set.
	// If nil, uses default deterministic behavior.
	SummarizeFunc func(ctx context.Context, text string) (*ai.Summary, error)

	callCount int
}

// NewSummarizer creates a mock summarizer with default deterministic behavior.
func NewSummarizer() *Summarizer {
	return &Summarizer{}
}

// Summarize returns a truncated form of the input as title and summary.
func (m *Summarizer) Summarize(ctx context.Context, text string) (*ai.Summary, error) {
	m.callCount++

	if m.SummarizeFunc != nil {
		return m.SummarizeFunc(ctx, text)
	}

	words := strings.Fields(text)
	title := words
	if len(title) > 6 {
		title = title[:6]
	}

	summary := text
	if len(summary) > 200 {
		summary = summary[:200]
	}

	return &ai.Summary{
		Title:   strings.Join(title, " "),
		Summary: summary,
	}, nil
}

// CallCount returns the number of times Summarize was called.
func (m *Summarizer) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected function.
func (m *Summarizer) Reset() {
	m.callCount = 0
	m.SummarizeFunc = nil
}
