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


package segment

import (
	"context"
	"log/slog"
	"runtime"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/videograph/ai"
	"github.com/poiesic/videograph/config"
	"github.com/poiesic/videograph/core"
)

// Summarizer fills in topic titles and summaries concurrently. A failed
// summary is logged; the topic falls back to a keyword title and keeps its
// concatenated transcript text as the summary. The batch as a whole only
// fails when the context is cancelled.
type Summarizer struct {
	summarizer ai.Summarizer
	pool       *ants.Pool
	batchSize  int
	logger     *slog.Logger
}

// NewSummarizer creates a topic summarizer backed by a worker pool.
// Pool size defaults to runtime.NumCPU() / 2 with a minimum of 1 when
// cfg.PoolSize is zero.
func NewSummarizer(summarizer ai.Summarizer, cfg config.Pipeline, logger *slog.Logger) (*Summarizer, error) {
	if summarizer == nil {
		return nil, ErrSummarizerRequired
	}
	if logger == nil {
		logger = slog.Default()
	}

	poolSize := cfg.PoolSize
	if poolSize < 1 {
		poolSize = runtime.NumCPU() / 2
		if poolSize < 1 {
			poolSize = 1
		}
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	batchSize := cfg.SummaryBatchSize
	if batchSize < 1 {
		batchSize = 1
	}

	return &Summarizer{
		summarizer: summarizer,
		pool:       pool,
		batchSize:  batchSize,
		logger:     logger,
	}, nil
}

// SummarizeTopics generates a title and summary for every topic, batch by
// batch. Topics whose summarization fails keep a keyword-derived title.
func (s *Summarizer) SummarizeTopics(ctx context.Context, topics []*core.Topic, transcript []core.TranscriptSegment) error {
	segmentText := make(map[int]string, len(transcript))
	for _, seg := range transcript {
		segmentText[seg.ID] = seg.Text
	}

	for start := 0; start < len(topics); start += s.batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}

		end := start + s.batchSize
		if end > len(topics) {
			end = len(topics)
		}
		s.summarizeBatch(ctx, topics[start:end], segmentText)
	}
	return nil
}

func (s *Summarizer) summarizeBatch(ctx context.Context, batch []*core.Topic, segmentText map[int]string) {
	var wg sync.WaitGroup
	for _, topic := range batch {
		wg.Add(1)
		t := topic
		err := s.pool.Submit(func() {
			defer wg.Done()
			s.summarizeOne(ctx, t, segmentText)
		})
		if err != nil {
			// Pool rejected the task; run inline so the topic still gets
			// at least a fallback title.
			s.summarizeOne(ctx, t, segmentText)
			wg.Done()
		}
	}
	wg.Wait()
}

func (s *Summarizer) summarizeOne(ctx context.Context, topic *core.Topic, segmentText map[int]string) {
	text := topicText(topic, segmentText)
	if text == "" {
		topic.Title = fallbackTitle(topic)
		return
	}

	summary, err := s.summarizer.Summarize(ctx, text)
	if err != nil {
		s.logger.Warn("topic summarization failed, using keyword title",
			"topic", topic.ID, "level", topic.Level, "err", err)
		topic.Title = fallbackTitle(topic)
		if topic.Summary == "" {
			topic.Summary = text
		}
		return
	}

	topic.Title = summary.Title
	topic.Summary = summary.Summary
}

// Release shuts down the worker pool. The summarizer must not be used after.
func (s *Summarizer) Release() {
	s.pool.Release()
}

// topicText reassembles the transcript text a topic covers.
func topicText(topic *core.Topic, segmentText map[int]string) string {
	parts := make([]string, 0, len(topic.SegmentIDs))
	for _, id := range topic.SegmentIDs {
		if text, ok := segmentText[id]; ok {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

func fallbackTitle(topic *core.Topic) string {
	if len(topic.Keywords) == 0 {
		return "untitled topic"
	}
	n := len(topic.Keywords)
	if n > 3 {
		n = 3
	}
	return strings.Join(topic.Keywords[:n], ", ")
}
