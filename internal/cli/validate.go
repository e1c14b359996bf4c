package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/strips/pkg/ports"
)

// ValidateOptions configures the validate command.
type ValidateOptions struct {
	Paths  []string
	Plan   string // file with one action per line, "-" for stdin
	Format string
}

// RunValidate replays a plan against the problem. An invalid plan is
// reported and returned as an ExitInvalidPlan error.
func RunValidate(ctx context.Context, env *Env, in io.Reader, out io.Writer, opts ValidateOptions) error {
	format, err := resolveFormat(opts.Format, out)
	if err != nil {
		return err
	}
	lines, err := readPlan(opts.Plan, in)
	if err != nil {
		return err
	}
	p, err := env.Open(ctx, opts.Paths)
	if err != nil {
		return err
	}

	resp := &ports.ValidateResponse{}
	plan, err := p.ParsePlan(lines)
	if err == nil {
		resp.Length = plan.Len()
		final, verr := p.Validate(plan)
		if verr == nil {
			resp.Valid = true
			resp.Final = p.Task().Atoms.Format(final.Atoms())
		}
		err = verr
	}
	if err != nil {
		resp.Error = err.Error()
	}

	if format == FormatJSON {
		if werr := writeJSON(out, resp); werr != nil {
			return werr
		}
	} else if resp.Valid {
		fmt.Fprintf(out, "Plan is valid (%d steps)\n", resp.Length)
	}
	if err != nil {
		return &ExitError{Code: ExitInvalidPlan, Err: err}
	}
	return nil
}
