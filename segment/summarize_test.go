package segment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/videograph/ai"
	"github.com/poiesic/videograph/ai/mock"
	"github.com/poiesic/videograph/config"
	"github.com/poiesic/videograph/core"
)

func TestSummarizeTopicsFillsTitles(t *testing.T) {
	summarizer := mock.NewSummarizer()
	summarizer.SummarizeFunc = func(ctx context.Context, text string) (*ai.Summary, error) {
		return &ai.Summary{Title: "Topic: " + text, Summary: "about " + text}, nil
	}

	s, err := NewSummarizer(summarizer, config.Default(), nil)
	require.NoError(t, err)
	defer s.Release()

	transcript := []core.TranscriptSegment{
		{ID: 0, Text: "alpha"},
		{ID: 1, Text: "beta"},
	}
	topics := []*core.Topic{
		{ID: 1, SegmentIDs: []int{0}},
		{ID: 2, SegmentIDs: []int{1}},
	}

	require.NoError(t, s.SummarizeTopics(context.Background(), topics, transcript))
	assert.Equal(t, "Topic: alpha", topics[0].Title)
	assert.Equal(t, "about beta", topics[1].Summary)
}

func TestSummarizeTopicsFallsBackToKeywords(t *testing.T) {
	summarizer := mock.NewSummarizer()
	summarizer.SummarizeFunc = func(ctx context.Context, text string) (*ai.Summary, error) {
		return nil, errors.New("model overloaded")
	}

	s, err := NewSummarizer(summarizer, config.Default(), nil)
	require.NoError(t, err)
	defer s.Release()

	transcript := []core.TranscriptSegment{{ID: 0, Text: "some transcript text"}}
	topics := []*core.Topic{
		{ID: 1, SegmentIDs: []int{0}, Keywords: []string{"kernel", "scheduler", "memory", "disk"}},
		{ID: 2, SegmentIDs: []int{0}},
	}

	// Summarization failures are not fatal for the batch; the summary
	// degrades to the transcript text the topic covers.
	require.NoError(t, s.SummarizeTopics(context.Background(), topics, transcript))
	assert.Equal(t, "kernel, scheduler, memory", topics[0].Title)
	assert.Equal(t, "untitled topic", topics[1].Title)
	assert.Equal(t, "some transcript text", topics[0].Summary)
	assert.Equal(t, "some transcript text", topics[1].Summary)
}

func TestSummarizeTopicsHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, err := NewSummarizer(mock.NewSummarizer(), config.Default(), nil)
	require.NoError(t, err)
	defer s.Release()

	err = s.SummarizeTopics(ctx, []*core.Topic{{ID: 1}}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewSummarizerRequiresService(t *testing.T) {
	_, err := NewSummarizer(nil, config.Default(), nil)
	assert.ErrorIs(t, err, ErrSummarizerRequired)
}
