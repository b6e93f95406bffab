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

	"github.com/poiesic/videograph/core"
	"github.com/poiesic/videograph/media"
	"github.com/poiesic/videograph/pipeline"
	"github.com/poiesic/videograph/storage"
)

// StepVideo is the acquisition step: download, normalize, extract audio,
// render a poster thumbnail.
const StepVideo = "video"

// VideoStep fetches the source video and derives the working media
// artifacts every later step reads.
type VideoStep struct {
	downloader media.Downloader
	transcoder media.Transcoder
}

// NewVideoStep creates the acquisition step.
func NewVideoStep(downloader media.Downloader, transcoder media.Transcoder) *VideoStep {
	return &VideoStep{downloader: downloader, transcoder: transcoder}
}

func (s *VideoStep) Name() string { return StepVideo }

func (s *VideoStep) ValidateContext(pctx *pipeline.Context) error {
	var problems []string
	if s.downloader == nil {
		problems = append(problems, "downloader is required")
	}
	if s.transcoder == nil {
		problems = append(problems, "transcoder is required")
	}
	if pctx.Manifest.SourceURL == "" {
		problems = append(problems, "manifest has no source URL")
	}
	if len(problems) > 0 {
		return &pipeline.ValidationError{Step: StepVideo, Problems: problems}
	}
	return nil
}

func (s *VideoStep) Execute(ctx context.Context, pctx *pipeline.Context) (*pipeline.Result, error) {
	videoID := pctx.Manifest.VideoID

	pctx.Progress(0, "downloading source")
	raw, err := s.downloader.Fetch(ctx, pctx.Manifest.SourceURL)
	if err != nil {
		return nil, err
	}

	rawPath := storage.Path(videoID, storage.CategoryRaw, "source.bin")
	if err := pctx.Store.Write(ctx, rawPath, raw); err != nil {
		return nil, err
	}

	pctx.Progress(30, "normalizing video")
	normalized, err := s.transcoder.Normalize(ctx, raw)
	if err != nil {
		return nil, err
	}

	normalizedPath := storage.Path(videoID, storage.CategoryProcessed, "video.mp4")
	if err := pctx.Store.Write(ctx, normalizedPath, normalized); err != nil {
		return nil, err
	}

	pctx.Progress(60, "extracting audio")
	audio, err := s.transcoder.ExtractAudio(ctx, normalized)
	if err != nil {
		return nil, err
	}

	audioPath := storage.Path(videoID, storage.CategoryAudio, "audio.wav")
	if err := pctx.Store.Write(ctx, audioPath, audio); err != nil {
		return nil, err
	}

	pctx.Progress(90, "rendering thumbnail")
	thumbnail, err := s.transcoder.Thumbnail(ctx, normalized, 0)
	if err != nil {
		return nil, err
	}

	thumbnailPath := storage.Path(videoID, storage.CategoryThumbnails, "poster.jpg")
	if err := pctx.Store.Write(ctx, thumbnailPath, thumbnail); err != nil {
		return nil, err
	}

	pctx.Progress(100, "acquisition complete")
	return &pipeline.Result{
		Artifacts: map[core.Artifact]string{
			core.ArtifactOriginal:   rawPath,
			core.ArtifactNormalized: normalizedPath,
			core.ArtifactAudio:      audioPath,
			core.ArtifactThumbnail:  thumbnailPath,
		},
		Metrics: map[string]float64{
			"raw_bytes":        float64(len(raw)),
			"normalized_bytes": float64(len(normalized)),
			"audio_bytes":      float64(len(audio)),
		},
	}, nil
}

func (s *VideoStep) Cleanup(pctx *pipeline.Context) error { return nil }
