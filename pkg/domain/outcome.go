package domain

import (
	"context"
	"fmt"
	"time"
)

// Outcome classifies how a search ended.
type Outcome string

const (
	OutcomeSolved         Outcome = "solved"          // A goal state was reached
	OutcomeUnsolvable     Outcome = "unsolvable"      // The reachable space holds no goal state
	OutcomeBudgetExceeded Outcome = "budget_exceeded" // A limit stopped the search first
)

// Budget reasons reported with OutcomeBudgetExceeded.
const (
	ReasonMaxExpansions = "max_expansions"
	ReasonDeadline      = "deadline"
	ReasonCanceled      = "canceled"
	ReasonAborted       = "aborted"
)

// Err maps non-success outcomes to their sentinel error.
func (o Outcome) Err() error {
	switch o {
	case OutcomeSolved:
		return nil
	case OutcomeUnsolvable:
		return ErrUnsolvable
	case OutcomeBudgetExceeded:
		return ErrBudgetExceeded
	default:
		return fmt.Errorf("unknown outcome %q", string(o))
	}
}

// Stats are the counters of one search run.
type Stats struct {
	Expanded    int           `json:"expanded"`
	Generated   int           `json:"generated"`
	Duplicates  int           `json:"duplicates"`
	MaxFrontier int           `json:"max_frontier"`
	Depth       int           `json:"depth"`
	Elapsed     time.Duration `json:"elapsed"`
}

// Result is the value returned by a search. Unsolvable and budget-exceeded
// runs are results too, not errors.
type Result struct {
	RunID   string  `json:"run_id"`
	Outcome Outcome `json:"outcome"`
	Reason  string  `json:"reason,omitempty"`
	Plan    Plan    `json:"-"`
	Goal    State   `json:"-"`
	Stats   Stats   `json:"stats"`
}

// Solved reports whether a plan was found.
func (r *Result) Solved() bool {
	return r.Outcome == OutcomeSolved
}

// Err returns nil for solved runs and the outcome sentinel otherwise,
// annotated with the budget reason when there is one. A search stopped by a
// canceled context also wraps context.Canceled.
func (r *Result) Err() error {
	err := r.Outcome.Err()
	switch {
	case err == nil || r.Reason == "":
		return err
	case r.Reason == ReasonCanceled:
		return fmt.Errorf("%w (%s): %w", err, r.Reason, context.Canceled)
	default:
		return fmt.Errorf("%w (%s)", err, r.Reason)
	}
}
