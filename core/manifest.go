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


package core

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/poiesic/videograph/config"
)

// Artifact identifies a kind of artifact produced by a pipeline step.
type Artifact string

// Singular artifact kinds. List-valued kinds (snippets, exports, thumbnails,
// captions) are stored under indexed keys built with IndexedArtifact.
const (
	ArtifactOriginal      Artifact = "original"
	ArtifactNormalized    Artifact = "normalized"
	ArtifactAudio         Artifact = "audio"
	ArtifactTranscript    Artifact = "transcript"
	ArtifactWordAlignment Artifact = "word_alignment"
	ArtifactDiarization   Artifact = "diarization"
	ArtifactScenes        Artifact = "scenes"
	ArtifactTopics        Artifact = "topics"
	ArtifactEmbeddings    Artifact = "embeddings"
	ArtifactGraph         Artifact = "graph"
	ArtifactSnippet       Artifact = "snippet"
	ArtifactExport        Artifact = "export"
	ArtifactThumbnail     Artifact = "thumbnail"
	ArtifactCaption       Artifact = "caption"
)

// IndexedArtifact returns the manifest key for the i-th artifact of a
// list-valued kind, e.g. "snippet:2".
func IndexedArtifact(kind Artifact, i int) Artifact {
	return Artifact(fmt.Sprintf("%s:%d", kind, i))
}

// Manifest is the single source of truth threaded through a pipeline run.
//
// A manifest is immutable by convention: steps never modify the value they
// receive. Every successful step produces a new manifest equal to its input
// plus the step's deltas, so earlier artifacts are never silently dropped.
type Manifest struct {
	VideoID      string `json:"video_id"`
	SourceURL    string `json:"source_url,omitempty"`
	GraphVersion string `json:"graph_version"`
	JobID        string `json:"job_id"`

	Paths   map[Artifact]string `json:"paths"`
	Metrics map[string]float64  `json:"metrics"`

	ConfigSnapshot config.Pipeline `json:"config_snapshot"`

	CompletedSteps []string          `json:"completed_steps"`
	StepErrors     map[string]string `json:"step_errors,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// NewManifest creates a manifest for a new job with empty paths and metrics.
// The config snapshot is fixed here and never changes for the job's lifetime.
func NewManifest(videoID string, cfg config.Pipeline) *Manifest {
	return &Manifest{
		VideoID:        videoID,
		GraphVersion:   NewULID(),
		JobID:          NewULID(),
		Paths:          map[Artifact]string{},
		Metrics:        map[string]float64{},
		ConfigSnapshot: cfg,
		CompletedSteps: []string{},
		StepErrors:     map[string]string{},
		CreatedAt:      time.Now().UTC(),
	}
}

// Clone returns a deep copy of the manifest.
func (m *Manifest) Clone() *Manifest {
	clone := *m
	clone.Paths = maps.Clone(m.Paths)
	clone.Metrics = maps.Clone(m.Metrics)
	clone.StepErrors = maps.Clone(m.StepErrors)
	clone.CompletedSteps = slices.Clone(m.CompletedSteps)
	return &clone
}

// WithPaths returns a new manifest with the given paths merged in.
func (m *Manifest) WithPaths(paths map[Artifact]string) *Manifest {
	clone := m.Clone()
	for k, v := range paths {
		clone.Paths[k] = v
	}
	return clone
}

// WithMetrics returns a new manifest with the given metrics merged in.
func (m *Manifest) WithMetrics(metrics map[string]float64) *Manifest {
	clone := m.Clone()
	for k, v := range metrics {
		clone.Metrics[k] = v
	}
	return clone
}

// WithCompleted returns a new manifest with the step name appended to
// CompletedSteps. Appending the same name twice is a caller bug; the list is
// ordered and duplicate-free by construction.
func (m *Manifest) WithCompleted(step string) *Manifest {
	clone := m.Clone()
	if !slices.Contains(clone.CompletedSteps, step) {
		clone.CompletedSteps = append(clone.CompletedSteps, step)
	}
	return clone
}

// WithStepError returns a new manifest recording the last error for a step.
// Paths and metrics from earlier steps are preserved untouched.
func (m *Manifest) WithStepError(step, message string) *Manifest {
	clone := m.Clone()
	if clone.StepErrors == nil {
		clone.StepErrors = map[string]string{}
	}
	clone.StepErrors[step] = message
	return clone
}

// HasPath reports whether an artifact of the given kind has been produced.
func (m *Manifest) HasPath(kind Artifact) bool {
	_, ok := m.Paths[kind]
	return ok
}

// Completed reports whether the named step finished successfully.
func (m *Manifest) Completed(step string) bool {
	return slices.Contains(m.CompletedSteps, step)
}
