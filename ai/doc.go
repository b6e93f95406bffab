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


// Package ai provides abstractions for the AI services used in videograph.
//
// This package defines interfaces for text embeddings, topic summarization
// and speech-to-text. The pipeline and graph-construction code depend only on
// these abstractions, never on a concrete model or vendor.
//
// The package is designed around four key interfaces:
//
//   - Embedder: generates vector embeddings from text
//   - Summarizer: produces titles and summaries for topics
//   - Transcriber: converts audio into timed transcript segments
//   - Provider: aggregates the services for convenient initialization
//
// Concrete adapters for OpenAI-compatible services live in the openai
// subpackage; deterministic test doubles live in the mock subpackage.
package ai
