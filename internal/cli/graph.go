package cli

import (
	"context"
	"io"

	"github.com/aretw0/strips/internal/presentation/graph"
	"github.com/aretw0/strips/pkg/domain"
)

// GraphOptions configures the graph command.
type GraphOptions struct {
	Paths   []string
	Plan    string // optional plan file; the problem is solved when empty
	Full    bool
	ByAgent bool
}

// RunGraph prints a Mermaid flowchart of the states a plan visits.
func RunGraph(ctx context.Context, env *Env, in io.Reader, out io.Writer, opts GraphOptions) error {
	p, err := env.Open(ctx, opts.Paths)
	if err != nil {
		return err
	}

	var plan domain.Plan
	if opts.Plan != "" {
		lines, err := readPlan(opts.Plan, in)
		if err != nil {
			return err
		}
		if plan, err = p.ParsePlan(lines); err != nil {
			return err
		}
	} else {
		res, err := p.Solve(ctx)
		if err != nil {
			return err
		}
		if err := res.Err(); err != nil {
			return err
		}
		plan = res.Plan
	}

	_, err = io.WriteString(out, graph.GenerateMermaid(p.Task(), plan, &graph.Overlay{
		Full:    opts.Full,
		ByAgent: opts.ByAgent,
	}))
	return err
}
