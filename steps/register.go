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
	"github.com/poiesic/videograph/ai"
	"github.com/poiesic/videograph/core"
	"github.com/poiesic/videograph/media"
	"github.com/poiesic/videograph/pipeline"
	"github.com/poiesic/videograph/storage"
)

// Deps carries the external collaborators the built-in steps need.
type Deps struct {
	Provider   ai.Provider
	Downloader media.Downloader
	Transcoder media.Transcoder
	Cutter     media.Cutter

	// GraphRepo is optional; when set the graph step records every built
	// graph as an immutable version.
	GraphRepo storage.GraphRepository
}

// RegisterAll registers the built-in pipeline steps with their metadata.
func RegisterAll(registry *pipeline.Registry, deps Deps) {
	registry.Register(func() pipeline.Step {
		return NewVideoStep(deps.Downloader, deps.Transcoder)
	}, pipeline.Metadata{
		Description: "downloads the source video and derives normalized video, audio and a poster thumbnail",
		Version:     "1",
		Tags:        []string{"media"},
		Produces: []core.Artifact{
			core.ArtifactOriginal, core.ArtifactNormalized,
			core.ArtifactAudio, core.ArtifactThumbnail,
		},
	})

	registry.Register(func() pipeline.Step {
		return NewTranscribeStep(deps.Provider.Transcriber())
	}, pipeline.Metadata{
		Description: "transcribes the audio track into timed segments and a WebVTT caption file",
		Version:     "1",
		Tags:        []string{"ai", "media"},
		Requires:    []core.Artifact{core.ArtifactAudio},
		Produces:    []core.Artifact{core.ArtifactTranscript, core.ArtifactCaption},
	})

	registry.Register(func() pipeline.Step {
		return NewTopicsStep(deps.Provider.Embedder(), deps.Provider.Summarizer())
	}, pipeline.Metadata{
		Description: "segments the transcript into a summarized topic hierarchy",
		Version:     "1",
		Tags:        []string{"ai"},
		Requires:    []core.Artifact{core.ArtifactTranscript},
		Produces:    []core.Artifact{core.ArtifactTopics},
	})

	registry.Register(func() pipeline.Step {
		return NewGraphStep(deps.GraphRepo)
	}, pipeline.Metadata{
		Description: "builds the typed-edge topic graph with clustering and metrics",
		Version:     "1",
		Tags:        []string{"graph"},
		Requires:    []core.Artifact{core.ArtifactTopics},
		Produces:    []core.Artifact{core.ArtifactGraph, core.ArtifactEmbeddings},
	})

	registry.Register(func() pipeline.Step {
		return NewSnippetStep(deps.Cutter)
	}, pipeline.Metadata{
		Description: "clips the most important topics into snippet videos",
		Version:     "1",
		Tags:        []string{"media"},
		Requires:    []core.Artifact{core.ArtifactGraph, core.ArtifactNormalized},
		Produces:    []core.Artifact{core.ArtifactSnippet},
	})

	registry.Register(func() pipeline.Step {
		return NewExportStep()
	}, pipeline.Metadata{
		Description: "renders a markdown outline and standalone JSON export of the graph",
		Version:     "1",
		Tags:        []string{"export"},
		Requires:    []core.Artifact{core.ArtifactGraph},
		Produces:    []core.Artifact{core.ArtifactExport},
	})
}

// DefaultOrder is the canonical full-pipeline step order.
func DefaultOrder() []string {
	return []string{StepVideo, StepTranscribe, StepTopics, StepGraph, StepSnippet, StepExport}
}
