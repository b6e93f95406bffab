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
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/videograph/config"
	"github.com/poiesic/videograph/core"
	"github.com/poiesic/videograph/storage"
)

// StepOutcome records one step's result in a run's ledger.
type StepOutcome struct {
	Step     string
	Success  bool
	Skipped  bool
	Err      error
	Duration time.Duration
}

// RunResult is the orchestrator's report for one pipeline run. Manifest is
// the last good manifest: on failure it carries every successful step's
// artifacts plus the failed step's error record.
type RunResult struct {
	Success  bool
	Manifest *core.Manifest
	Ledger   []StepOutcome
}

// Orchestrator executes an ordered list of steps against a shared manifest.
// Execution is fail-fast: the first failed step ends the run, and the steps
// after it are recorded as skipped.
type Orchestrator struct {
	registry *Registry
	store    storage.ObjectStore
	cfg      config.Pipeline
	logger   *slog.Logger

	manifests    storage.ManifestRepository
	skipComplete bool
	progress     ProgressFunc
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the orchestrator's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// WithManifestRepository makes the orchestrator append every post-step
// manifest to the repository, producing a replayable version history.
func WithManifestRepository(repo storage.ManifestRepository) Option {
	return func(o *Orchestrator) { o.manifests = repo }
}

// WithSkipCompleted makes the orchestrator skip steps already present in the
// manifest's CompletedSteps, which is how a failed run is resumed: rerun the
// same step list against the last good manifest.
func WithSkipCompleted(skip bool) Option {
	return func(o *Orchestrator) { o.skipComplete = skip }
}

// WithProgress sets a run-wide progress callback, shared by all steps.
func WithProgress(fn ProgressFunc) Option {
	return func(o *Orchestrator) { o.progress = fn }
}

// NewOrchestrator creates an orchestrator over a step registry and artifact
// store.
func NewOrchestrator(registry *Registry, store storage.ObjectStore, cfg config.Pipeline, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		registry: registry,
		store:    store,
		cfg:      cfg,
		logger:   slog.Default(),
		progress: func(float64, string) {},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes the named steps in order against the given manifest.
//
// All step names are resolved before any step runs, so a typo in the last
// name fails the run before the first step does any work. Each successful
// step's deltas are merged into a new manifest; a failure records the error
// on the manifest, marks the remaining steps skipped and stops.
func (o *Orchestrator) Run(ctx context.Context, manifest *core.Manifest, stepNames []string) (*RunResult, error) {
	if err := core.ValidateManifest(manifest); err != nil {
		return nil, err
	}

	steps := make([]Step, 0, len(stepNames))
	for _, name := range stepNames {
		step, err := o.registry.Create(name)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}

	result := &RunResult{
		Success:  true,
		Manifest: manifest,
		Ledger:   make([]StepOutcome, 0, len(steps)),
	}

	for i, step := range steps {
		name := step.Name()

		if o.skipComplete && result.Manifest.Completed(name) {
			o.logger.Info("skipping completed step", "step", name, "job", manifest.JobID)
			result.Ledger = append(result.Ledger, StepOutcome{Step: name, Success: true, Skipped: true})
			continue
		}

		select {
		case <-ctx.Done():
			aborted := &AbortedError{Step: name, Err: ctx.Err()}
			o.recordFailure(ctx, result, i, steps, aborted, 0)
			return result, nil
		default:
		}

		o.logger.Info("running step", "step", name, "job", manifest.JobID,
			"position", i+1, "total", len(steps))

		pctx := &Context{
			Manifest: result.Manifest,
			Config:   o.cfg,
			Store:    o.store,
			Logger:   o.logger.With("step", name),
			Progress: Monotonic(o.progress),
		}

		started := time.Now()
		stepResult, err := ExecuteWithRetry(ctx, step, pctx)
		elapsed := time.Since(started)

		if cleanupErr := step.Cleanup(pctx); cleanupErr != nil {
			o.logger.Warn("step cleanup failed", "step", name, "err", cleanupErr)
		}

		if err != nil {
			o.recordFailure(ctx, result, i, steps, err, elapsed)
			return result, nil
		}

		next := result.Manifest.
			WithPaths(stepResult.Artifacts).
			WithMetrics(stepResult.Metrics).
			WithCompleted(name)

		if err := o.persist(ctx, next); err != nil {
			o.recordFailure(ctx, result, i, steps, &ExecutionError{Step: name, Err: err}, elapsed)
			return result, nil
		}

		result.Manifest = next
		result.Ledger = append(result.Ledger, StepOutcome{
			Step:     name,
			Success:  true,
			Duration: stepResult.Duration,
		})

		o.logger.Info("step completed", "step", name, "job", manifest.JobID,
			"duration", stepResult.Duration)
	}

	return result, nil
}

// recordFailure stamps the failed step's error on the manifest, appends the
// failure to the ledger with the time spent on it and marks every later step
// skipped.
func (o *Orchestrator) recordFailure(ctx context.Context, result *RunResult, failedIdx int, steps []Step, err error, duration time.Duration) {
	name := steps[failedIdx].Name()
	o.logger.Error("step failed", "step", name, "err", err, "duration", duration)

	result.Success = false
	result.Manifest = result.Manifest.WithStepError(name, err.Error())
	result.Ledger = append(result.Ledger, StepOutcome{Step: name, Err: err, Duration: duration})

	for _, step := range steps[failedIdx+1:] {
		result.Ledger = append(result.Ledger, StepOutcome{Step: step.Name(), Skipped: true})
	}

	// The failure record must land even when the run was cancelled.
	if perr := o.persist(context.WithoutCancel(ctx), result.Manifest); perr != nil {
		o.logger.Error("failed to persist failure manifest", "step", name, "err", perr)
	}
}

func (o *Orchestrator) persist(ctx context.Context, manifest *core.Manifest) error {
	if o.manifests == nil {
		return nil
	}
	version, err := o.manifests.AppendManifest(ctx, manifest)
	if err != nil {
		return err
	}
	o.logger.Debug("manifest version appended", "job", manifest.JobID, "version", version)
	return nil
}
