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
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/videograph/config"
	"github.com/poiesic/videograph/core"
	"github.com/poiesic/videograph/storage/memory"
)

// fakeStep is a configurable step for orchestrator and retry tests.
type fakeStep struct {
	name        string
	validateErr error
	executeFn   func(ctx context.Context, pctx *Context) (*Result, error)
	cleanupErr  error

	validateCalls int
	executeCalls  int
	cleanupCalls  int
}

func (s *fakeStep) Name() string { return s.name }

func (s *fakeStep) ValidateContext(pctx *Context) error {
	s.validateCalls++
	return s.validateErr
}

func (s *fakeStep) Execute(ctx context.Context, pctx *Context) (*Result, error) {
	s.executeCalls++
	if s.executeFn != nil {
		return s.executeFn(ctx, pctx)
	}
	return &Result{}, nil
}

func (s *fakeStep) Cleanup(pctx *Context) error {
	s.cleanupCalls++
	return s.cleanupErr
}

func testConfig() config.Pipeline {
	cfg := config.Default()
	cfg.MaxRetries = 3
	cfg.RetryDelay = config.Duration(time.Millisecond)
	cfg.StepTimeout = config.Duration(time.Second)
	return cfg
}

func testContext(t *testing.T) *Context {
	t.Helper()
	manifest := core.NewManifest("vid-1", testConfig())
	return NewContext(manifest, testConfig(), memory.NewStore())
}

func TestExecuteWithRetrySucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	step := &fakeStep{
		name: "flaky",
		executeFn: func(ctx context.Context, pctx *Context) (*Result, error) {
			attempts++
			if attempts < 3 {
				return nil, errors.New("transient")
			}
			return &Result{Metrics: map[string]float64{"attempts": float64(attempts)}}, nil
		},
	}

	result, err := ExecuteWithRetry(context.Background(), step, testContext(t))
	require.NoError(t, err)
	assert.Equal(t, 3, step.executeCalls)
	assert.Equal(t, float64(3), result.Metrics["attempts"])
}

func TestExecuteWithRetryExhaustsBudget(t *testing.T) {
	step := &fakeStep{
		name: "broken",
		executeFn: func(ctx context.Context, pctx *Context) (*Result, error) {
			return nil, errors.New("permanent")
		},
	}

	_, err := ExecuteWithRetry(context.Background(), step, testContext(t))
	require.Error(t, err)
	assert.Equal(t, 3, step.executeCalls)

	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, "broken", execErr.Step)
}

func TestExecuteWithRetryNeverRetriesValidation(t *testing.T) {
	step := &fakeStep{
		name:        "strict",
		validateErr: &ValidationError{Step: "strict", Problems: []string{"transcript missing"}},
	}

	_, err := ExecuteWithRetry(context.Background(), step, testContext(t))
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 1, step.validateCalls)
	assert.Equal(t, 0, step.executeCalls)
}

func TestExecuteWithRetryWrapsPlainValidationError(t *testing.T) {
	step := &fakeStep{
		name:        "strict",
		validateErr: errors.New("no audio path"),
	}

	_, err := ExecuteWithRetry(context.Background(), step, testContext(t))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "strict", verr.Step)
	assert.Contains(t, verr.Problems, "no audio path")
}

func TestExecuteWithRetryTimeoutConsumesAttempt(t *testing.T) {
	pctx := testContext(t)
	pctx.Config.MaxRetries = 2
	pctx.Config.StepTimeout = config.Duration(10 * time.Millisecond)

	step := &fakeStep{
		name: "slow",
		executeFn: func(ctx context.Context, pctx *Context) (*Result, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}

	_, err := ExecuteWithRetry(context.Background(), step, pctx)
	require.Error(t, err)
	assert.Equal(t, 2, step.executeCalls)

	var terr *TimeoutError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "slow", terr.Step)
}

func TestExecuteWithRetryAbortsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	step := &fakeStep{
		name: "cancellable",
		executeFn: func(stepCtx context.Context, pctx *Context) (*Result, error) {
			cancel()
			<-stepCtx.Done()
			return nil, stepCtx.Err()
		},
	}

	_, err := ExecuteWithRetry(ctx, step, testContext(t))
	require.Error(t, err)

	var aerr *AbortedError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, 1, step.executeCalls)
}

func TestMonotonicClampsProgress(t *testing.T) {
	var reported []float64
	fn := Monotonic(func(percent float64, message string) {
		reported = append(reported, percent)
	})

	fn(10, "a")
	fn(50, "b")
	fn(30, "retry reset")
	fn(120, "overflow")

	assert.Equal(t, []float64{10, 50, 50, 100}, reported)
}
