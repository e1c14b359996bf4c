package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformed is returned when a model violates a structural rule
	// (unknown predicate, wrong arity, duplicate declaration, ...).
	ErrMalformed = errors.New("malformed model")

	// ErrTypeMismatch is returned when an object is bound where its type is not allowed.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrUnknownSymbol is returned when a name does not resolve to a declared entity.
	ErrUnknownSymbol = errors.New("unknown symbol")

	// ErrInvalidAction is returned when an action is applied in a state where
	// its preconditions do not hold. Correct search never produces it.
	ErrInvalidAction = errors.New("invalid action")

	// ErrUnsolvable reports that the whole reachable space was explored without reaching the goal.
	ErrUnsolvable = errors.New("no plan exists")

	// ErrBudgetExceeded reports that search was stopped by a limit before it could decide.
	ErrBudgetExceeded = errors.New("search aborted: budget exceeded")

	// ErrGoalNotReached is returned when a replayed plan ends outside the goal.
	ErrGoalNotReached = errors.New("plan does not reach the goal")

	// ErrPlanNotFound is returned when a plan record cannot be found in the store.
	ErrPlanNotFound = errors.New("plan not found")
)

// TypeMismatchError describes an object bound to a slot whose type it does not satisfy.
type TypeMismatchError struct {
	Where  string // e.g. "init atom at a1 north", "drive ?l1"
	Object string
	Want   string
	Got    string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s: object %q has type %q, expected %q", e.Where, e.Object, e.Got, e.Want)
}

func (e *TypeMismatchError) Unwrap() error { return ErrTypeMismatch }

// InvalidActionError describes which preconditions failed when applying an action.
type InvalidActionError struct {
	Action    string
	Missing   []string // positive preconditions that were false
	Forbidden []string // negative preconditions that were true
}

func (e *InvalidActionError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Missing, ", "))
	}
	if len(e.Forbidden) > 0 {
		parts = append(parts, "forbidden "+strings.Join(e.Forbidden, ", "))
	}
	return fmt.Sprintf("%s: %q not applicable (%s)", ErrInvalidAction, e.Action, strings.Join(parts, "; "))
}

func (e *InvalidActionError) Unwrap() error { return ErrInvalidAction }

// ValidationError is a single structural problem found while resolving a model.
type ValidationError struct {
	Where  string
	Reason string
	Err    error // sentinel classification, ErrMalformed when nil
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Where, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	if e.Err == nil {
		return ErrMalformed
	}
	return e.Err
}

// AggregateError collects every problem found in one pass.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d model errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}
