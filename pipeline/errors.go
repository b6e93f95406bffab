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
	"fmt"
	"strings"
	"time"
)

// The pipeline error taxonomy. Each failure class gets its own type so the
// orchestrator and callers can branch with errors.As:
//
//   - ValidationError: required manifest input missing; never retried
//   - ExecutionError: step logic or an external call failed; retried
//   - TimeoutError: one attempt exceeded its time budget; counts as a
//     failed attempt, retried while budget remains
//   - AbortedError: cancellation observed; terminal immediately
//   - NotFoundError: unregistered step name; terminal, configuration bug

// ValidationError reports missing or malformed required inputs for a step.
// Validation failures are terminal for the step; they are never retried.
type ValidationError struct {
	Step     string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("step %s: invalid context: %s", e.Step, strings.Join(e.Problems, "; "))
}

// ExecutionError wraps a failure inside a step's Execute.
type ExecutionError struct {
	Step string
	Err  error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("step %s: execution failed: %v", e.Step, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// TimeoutError reports a single attempt exceeding the step's time budget.
type TimeoutError struct {
	Step    string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("step %s: attempt exceeded timeout of %s", e.Step, e.Timeout)
}

// AbortedError reports that the run's cancellation signal was observed.
type AbortedError struct {
	Step string
	Err  error
}

func (e *AbortedError) Error() string {
	if e.Step == "" {
		return "pipeline aborted"
	}
	return fmt.Sprintf("pipeline aborted during step %s", e.Step)
}

func (e *AbortedError) Unwrap() error {
	return e.Err
}

// NotFoundError reports a step name with no registration.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("step not found: %s", e.Name)
}
