// Package pipeline provides the step contract, registry and orchestrator
// that drive a video processing run.
//
// A run threads an immutable manifest through an ordered list of steps.
// Each step declares what it needs via ValidateContext, does its work in
// Execute and hands back artifact and metric deltas; the orchestrator merges
// the deltas into a fresh manifest after every success. Failures fall into a
// small taxonomy (validation, execution, timeout, aborted, not-found) that
// determines retry behavior.
package pipeline
