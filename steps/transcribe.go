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


package steps

import (
	"context"
	"fmt"
	"strings"

	"github.com/poiesic/videograph/ai"
	"github.com/poiesic/videograph/core"
	"github.com/poiesic/videograph/pipeline"
	"github.com/poiesic/videograph/storage"
)

// StepTranscribe converts the audio artifact into timed transcript segments.
const StepTranscribe = "transcribe"

// TranscribeStep runs speech-to-text over the extracted audio and writes
// both the transcript JSON and a WebVTT caption track.
type TranscribeStep struct {
	transcriber ai.Transcriber
}

// NewTranscribeStep creates the transcription step.
func NewTranscribeStep(transcriber ai.Transcriber) *TranscribeStep {
	return &TranscribeStep{transcriber: transcriber}
}

func (s *TranscribeStep) Name() string { return StepTranscribe }

func (s *TranscribeStep) ValidateContext(pctx *pipeline.Context) error {
	var problems []string
	if s.transcriber == nil {
		problems = append(problems, "transcriber is required")
	}
	if !pctx.Manifest.HasPath(core.ArtifactAudio) {
		problems = append(problems, "audio artifact not in manifest")
	}
	if len(problems) > 0 {
		return &pipeline.ValidationError{Step: StepTranscribe, Problems: problems}
	}
	return nil
}

func (s *TranscribeStep) Execute(ctx context.Context, pctx *pipeline.Context) (*pipeline.Result, error) {
	videoID := pctx.Manifest.VideoID

	pctx.Progress(0, "reading audio")
	audio, err := pctx.Store.Read(ctx, pctx.Manifest.Paths[core.ArtifactAudio])
	if err != nil {
		return nil, err
	}

	pctx.Progress(10, "transcribing")
	segments, err := s.transcriber.Transcribe(ctx, audio)
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return nil, ErrEmptyTranscript
	}

	transcriptPath := storage.Path(videoID, storage.CategoryTranscripts, "transcript.json")
	if err := storage.WriteJSON(ctx, pctx.Store, transcriptPath, segments); err != nil {
		return nil, err
	}

	pctx.Progress(80, "writing captions")
	captionPath := storage.Path(videoID, storage.CategoryCaptions, "captions.vtt")
	if err := pctx.Store.Write(ctx, captionPath, []byte(FormatWebVTT(segments))); err != nil {
		return nil, err
	}

	var spoken float64
	for _, seg := range segments {
		spoken += seg.Duration()
	}

	pctx.Progress(100, "transcription complete")
	return &pipeline.Result{
		Artifacts: map[core.Artifact]string{
			core.ArtifactTranscript: transcriptPath,
			core.ArtifactCaption:    captionPath,
		},
		Metrics: map[string]float64{
			"transcript_segments": float64(len(segments)),
			"spoken_seconds":      spoken,
		},
	}, nil
}

func (s *TranscribeStep) Cleanup(pctx *pipeline.Context) error { return nil }

// FormatWebVTT renders transcript segments as a WebVTT caption track.
func FormatWebVTT(segments []core.TranscriptSegment) string {
	var sb strings.Builder
	sb.WriteString("WEBVTT\n")
	for _, seg := range segments {
		sb.WriteString(fmt.Sprintf("\n%s --> %s\n%s\n", vttTimestamp(seg.Start), vttTimestamp(seg.End), seg.Text))
	}
	return sb.String()
}

func vttTimestamp(seconds float64) string {
	millis := int64(seconds*1000 + 0.5)
	h := millis / 3600000
	m := millis / 60000 % 60
	s := millis / 1000 % 60
	ms := millis % 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}
