package cli

import (
	"context"
	"errors"

	"github.com/aretw0/strips/internal/config"
	"github.com/aretw0/strips/pkg/domain"
)

// Process exit codes.
const (
	ExitOK             = 0
	ExitFailure        = 1 // unexpected errors
	ExitUnsolvable     = 2 // no plan exists
	ExitBudgetExceeded = 3 // a limit stopped the search
	ExitInvalidModel   = 4 // the model or config could not be used
	ExitInvalidPlan    = 5 // a plan given to validate does not solve the problem
	ExitInterrupted    = 130
)

// ExitError carries an explicit exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode maps an error returned by a command to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	// Checked first: an interrupted search also reports a budget outcome.
	switch {
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	case errors.Is(err, domain.ErrUnsolvable):
		return ExitUnsolvable
	case errors.Is(err, domain.ErrBudgetExceeded):
		return ExitBudgetExceeded
	case errors.Is(err, domain.ErrInvalidAction), errors.Is(err, domain.ErrGoalNotReached):
		return ExitInvalidPlan
	case errors.Is(err, domain.ErrMalformed),
		errors.Is(err, domain.ErrTypeMismatch),
		errors.Is(err, domain.ErrUnknownSymbol),
		errors.Is(err, config.ErrInvalidConfig),
		errors.Is(err, config.ErrConfigNotFound),
		errors.Is(err, config.ErrMissingEnvVar):
		return ExitInvalidModel
	default:
		return ExitFailure
	}
}
