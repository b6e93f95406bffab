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

import "errors"

// Domain validation errors
var (
	// ErrInvalidManifest indicates a Manifest failed validation.
	ErrInvalidManifest = errors.New("invalid manifest")

	// ErrInvalidTopic indicates a Topic failed validation.
	ErrInvalidTopic = errors.New("invalid topic")

	// ErrInvalidEdge indicates an Edge failed validation.
	ErrInvalidEdge = errors.New("invalid edge")

	// ErrEmptyVideoID indicates the manifest VideoID field is empty.
	ErrEmptyVideoID = errors.New("video id cannot be empty")

	// ErrInvalidTimeSpan indicates a topic's end precedes its start.
	ErrInvalidTimeSpan = errors.New("end time cannot precede start time")

	// ErrInvalidWeight indicates an edge weight outside [0,1].
	ErrInvalidWeight = errors.New("edge weight must be between 0 and 1")

	// ErrSelfLoop indicates an edge whose source equals its target.
	ErrSelfLoop = errors.New("edge cannot be a self-loop")

	// ErrInvalidImportance indicates a topic importance outside [0,1].
	ErrInvalidImportance = errors.New("importance must be between 0 and 1")
)
