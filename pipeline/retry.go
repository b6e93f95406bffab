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
	"time"
)

// ExecuteWithRetry runs a step's Execute with bounded retries, exponential
// backoff and a hard per-attempt timeout.
//
// Behavior:
//   - validation runs once before any attempt; a failure is returned as a
//     ValidationError and never retried
//   - each attempt gets its own timeout (cfg.StepTimeout); exceeding it
//     yields a TimeoutError that consumes one attempt from the budget
//   - cancellation of ctx aborts immediately with an AbortedError, both
//     between attempts and (cooperatively) inside one
//   - when the budget is exhausted, the last attempt's error is surfaced
func ExecuteWithRetry(ctx context.Context, step Step, pctx *Context) (*Result, error) {
	if err := step.ValidateContext(pctx); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return nil, err
		}
		return nil, &ValidationError{Step: step.Name(), Problems: []string{err.Error()}}
	}

	cfg := pctx.Config
	maxAttempts := cfg.MaxRetries
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, &AbortedError{Step: step.Name(), Err: ctx.Err()}
		default:
		}

		result, err := runAttempt(ctx, step, pctx)
		if err == nil {
			if attempt > 1 {
				pctx.Logger.Debug("step succeeded after retry", "step", step.Name(), "attempt", attempt)
			}
			return result, nil
		}

		// Cancellation of the run is terminal regardless of remaining budget.
		if ctx.Err() != nil {
			return nil, &AbortedError{Step: step.Name(), Err: ctx.Err()}
		}

		lastErr = err
		pctx.Logger.Debug("step attempt failed",
			"step", step.Name(), "attempt", attempt, "maxAttempts", maxAttempts, "err", err)

		if attempt == maxAttempts {
			break
		}

		// Exponential backoff: RetryDelay * 2^(attempt-1)
		delay := cfg.RetryDelay.Std()
		for i := 1; i < attempt; i++ {
			delay *= 2
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, &AbortedError{Step: step.Name(), Err: ctx.Err()}
		case <-timer.C:
		}
	}

	return nil, lastErr
}

// runAttempt executes one attempt under the per-attempt timeout and
// classifies the outcome into the pipeline error taxonomy.
func runAttempt(ctx context.Context, step Step, pctx *Context) (*Result, error) {
	timeout := pctx.Config.StepTimeout.Std()
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	result, err := step.Execute(attemptCtx, pctx)
	elapsed := time.Since(start)

	if err != nil {
		// The attempt's own deadline expiring is a timeout; the parent
		// context expiring is handled by the caller as an abort.
		if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, &TimeoutError{Step: step.Name(), Timeout: timeout}
		}
		return nil, &ExecutionError{Step: step.Name(), Err: err}
	}

	if result == nil {
		result = &Result{}
	}
	result.Duration = elapsed
	return result, nil
}
