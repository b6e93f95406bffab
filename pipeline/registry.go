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


package pipeline

import (
	"log/slog"
	"slices"
	"sort"
	"sync"

	"github.com/poiesic/videograph/core"
)

type registration struct {
	factory Factory
	meta    Metadata
}

// Registry maps step names to factories and their metadata. Registration is
// last-wins: re-registering a name replaces the earlier entry and logs a
// warning. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]registration
	logger  *slog.Logger
}

// NewRegistry creates an empty step registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		entries: make(map[string]registration),
		logger:  logger,
	}
}

// Register adds a step factory under the name produced by the factory's step.
// A duplicate name replaces the previous registration.
func (r *Registry) Register(factory Factory, meta Metadata) {
	name := factory().Name()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[name]; exists {
		r.logger.Warn("replacing existing step registration", "step", name)
	}
	r.entries[name] = registration{factory: factory, meta: meta}
}

// Create instantiates a fresh step for the given name. Returns a
// NotFoundError when no factory is registered.
func (r *Registry) Create(name string) (Step, error) {
	r.mu.RLock()
	reg, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	return reg.factory(), nil
}

// Metadata returns the metadata recorded for a step name.
func (r *Registry) Metadata(name string) (Metadata, error) {
	r.mu.RLock()
	reg, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return Metadata{}, &NotFoundError{Name: name}
	}
	return reg.meta, nil
}

// Names returns all registered step names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FindByTag returns the names of all steps carrying the given tag, sorted.
func (r *Registry) FindByTag(tag string) []string {
	return r.find(func(meta Metadata) bool {
		return slices.Contains(meta.Tags, tag)
	})
}

// FindByInput returns the names of all steps that require the given artifact
// kind, sorted.
func (r *Registry) FindByInput(kind core.Artifact) []string {
	return r.find(func(meta Metadata) bool {
		return slices.Contains(meta.Requires, kind)
	})
}

// FindByOutput returns the names of all steps that produce the given artifact
// kind, sorted.
func (r *Registry) FindByOutput(kind core.Artifact) []string {
	return r.find(func(meta Metadata) bool {
		return slices.Contains(meta.Produces, kind)
	})
}

func (r *Registry) find(match func(Metadata) bool) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	for name, reg := range r.entries {
		if match(reg.meta) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
