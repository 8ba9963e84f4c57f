// Package workflow sequences multi-step vendor operations.
//
// Some tools cannot be expressed as a single vendor call: the GitHub
// multi-file commit chains four Git Data API calls, each consuming the
// previous step's output. The engine runs steps strictly in order within one
// call, threads intermediate results forward, and aborts on the first
// failure naming the step that failed. Vendor-side objects created by earlier
// steps are NOT rolled back; the wrapped APIs offer no compensating
// transaction, so failure semantics are "partial effect, reported clearly".
package workflow

import (
	"context"
	"fmt"
	"log/slog"
)

// Step is one named unit of a composite operation. Run receives the state
// accumulated by earlier steps and returns this step's result.
type Step struct {
	Name string
	Run  func(ctx context.Context, state *State) (any, error)
}

// StepResult pairs a completed step with its output.
type StepResult struct {
	Step  string
	Value any
}

// State holds the ordered results of completed steps. It exists only for the
// duration of one composite call and is owned exclusively by that call.
type State struct {
	results []StepResult
}

// Result returns the output of a completed step by name.
func (s *State) Result(step string) (any, bool) {
	for _, r := range s.results {
		if r.Step == step {
			return r.Value, true
		}
	}
	return nil, false
}

// Last returns the most recent step result, or nil before any step completes.
func (s *State) Last() any {
	if len(s.results) == 0 {
		return nil
	}
	return s.results[len(s.results)-1].Value
}

// Results returns the completed steps in execution order.
func (s *State) Results() []StepResult {
	out := make([]StepResult, len(s.results))
	copy(out, s.results)
	return out
}

// StepError reports which step of a composite operation failed and preserves
// the results that completed before it.
type StepError struct {
	Step      string
	Index     int
	Completed []StepResult
	Err       error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("workflow step %d (%s) failed: %v", e.Index+1, e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Run executes the steps strictly in order, with no reordering or
// parallelization; step i+1 consumes step i's output. The first failure
// aborts the remainder and returns a StepError.
func Run(ctx context.Context, logger *slog.Logger, steps []Step) (*State, error) {
	state := &State{}
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return state, &StepError{Step: step.Name, Index: i, Completed: state.Results(), Err: err}
		}

		logger.DebugContext(ctx, "workflow step starting", "step", step.Name, "index", i)
		value, err := step.Run(ctx, state)
		if err != nil {
			logger.DebugContext(ctx, "workflow step failed", "step", step.Name, "index", i, "err", err)
			return state, &StepError{Step: step.Name, Index: i, Completed: state.Results(), Err: err}
		}
		state.results = append(state.results, StepResult{Step: step.Name, Value: value})
	}
	return state, nil
}
