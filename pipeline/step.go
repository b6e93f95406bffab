package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/videograph/config"
	"github.com/poiesic/videograph/core"
	"github.com/poiesic/videograph/storage"
)

// ProgressFunc receives per-step progress callbacks. Percent is 0-100 and
// should be non-decreasing within one step invocation; see Monotonic.
type ProgressFunc func(percent float64, message string)

// Context carries everything a step may touch during one invocation:
// the current manifest, the run's config snapshot, the artifact store and
// the observability callbacks. Steps treat the manifest as read-only and
// return their deltas in a Result.
type Context struct {
	Manifest *core.Manifest
	Config   config.Pipeline
	Store    storage.ObjectStore
	Logger   *slog.Logger
	Progress ProgressFunc
}

// NewContext builds a step context with no-op defaults for the optional
// collaborators.
func NewContext(manifest *core.Manifest, cfg config.Pipeline, store storage.ObjectStore) *Context {
	return &Context{
		Manifest: manifest,
		Config:   cfg,
		Store:    store,
		Logger:   slog.Default(),
		Progress: func(float64, string) {},
	}
}

// Result is what a successful step execution hands back to the orchestrator.
type Result struct {
	// Artifacts maps artifact kinds to the storage paths the step wrote.
	Artifacts map[core.Artifact]string

	// Metrics carries values the step measured (counts, durations).
	Metrics map[string]float64

	// Duration is the wall-clock execution time of the attempt.
	Duration time.Duration
}

// Step is one named unit of pipeline work.
//
// Execute must be idempotent: a retried attempt re-derives its outputs from
// the same context rather than appending to partial state, and writes to the
// store replace rather than accumulate. This is what makes ExecuteWithRetry
// safe to call the underlying Execute more than once.
type Step interface {
	// Name returns the unique step name used for registry lookup and the
	// manifest's completed_steps entries.
	Name() string

	// ValidateContext checks that the required config and manifest fields
	// are present and well-formed. It must not perform side effects beyond
	// read-only inspection. A non-nil error means the step cannot run;
	// validation failures are never retried.
	ValidateContext(pctx *Context) error

	// Execute performs the step's work and returns its artifact and metric
	// deltas. It must honor ctx cancellation at every external call.
	Execute(ctx context.Context, pctx *Context) (*Result, error)

	// Cleanup releases any temporary resources the step acquired. Errors
	// are logged by the caller and never mask the execution result.
	Cleanup(pctx *Context) error
}

// Metadata describes a registered step for discovery.
type Metadata struct {
	// Description is a one-line human-readable summary.
	Description string

	// Version identifies the step implementation revision.
	Version string

	// Tags support lookup by capability group.
	Tags []string

	// Requires lists the artifact kinds that must be present in the
	// manifest before the step can run.
	Requires []core.Artifact

	// Produces lists the artifact kinds the step writes on success.
	Produces []core.Artifact
}

// Factory constructs a fresh step instance.
type Factory func() Step
