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

import "fmt"

// ValidateManifest validates a Manifest according to domain rules.
//
// Validation rules:
//   - VideoID must not be empty
//   - Paths, Metrics and CompletedSteps must be non-nil
//
// NOT validated (populated by steps):
//   - individual artifact paths (absent means not yet produced)
//   - StepErrors (empty for a clean run)
func ValidateManifest(m *Manifest) error {
	if m == nil {
		return fmt.Errorf("%w: manifest is nil", ErrInvalidManifest)
	}

	if m.VideoID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidManifest, ErrEmptyVideoID)
	}

	if m.Paths == nil || m.Metrics == nil || m.CompletedSteps == nil {
		return fmt.Errorf("%w: uninitialized collections", ErrInvalidManifest)
	}

	return nil
}

// ValidateTopic validates a Topic according to domain rules.
//
// Validation rules:
//   - End must not precede Start
//   - Importance must be in [0,1]
//   - level-0 topics must not have children
func ValidateTopic(t *Topic) error {
	if t == nil {
		return fmt.Errorf("%w: topic is nil", ErrInvalidTopic)
	}

	if t.End < t.Start {
		return fmt.Errorf("%w: %w", ErrInvalidTopic, ErrInvalidTimeSpan)
	}

	if t.Importance < 0 || t.Importance > 1 {
		return fmt.Errorf("%w: %w", ErrInvalidTopic, ErrInvalidImportance)
	}

	if t.Level == 0 && len(t.ChildIDs) > 0 {
		return fmt.Errorf("%w: level-0 topic %d has children", ErrInvalidTopic, t.ID)
	}

	return nil
}

// ValidateEdge validates an Edge according to domain rules.
//
// Validation rules:
//   - no self-loops
//   - Weight must be in [0,1]
//   - Distance must equal 1 - Weight
func ValidateEdge(e *Edge) error {
	if e == nil {
		return fmt.Errorf("%w: edge is nil", ErrInvalidEdge)
	}

	if e.Source == e.Target {
		return fmt.Errorf("%w: %w", ErrInvalidEdge, ErrSelfLoop)
	}

	if e.Weight < 0 || e.Weight > 1 {
		return fmt.Errorf("%w: %w", ErrInvalidEdge, ErrInvalidWeight)
	}

	if diff := e.Distance - (1 - e.Weight); diff > 1e-9 || diff < -1e-9 {
		return fmt.Errorf("%w: distance %v does not match weight %v", ErrInvalidEdge, e.Distance, e.Weight)
	}

	return nil
}
