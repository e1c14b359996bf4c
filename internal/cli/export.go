package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/strips"
	loamadapter "github.com/aretw0/strips/pkg/adapters/loam"
	"github.com/aretw0/strips/pkg/domain"
)

// RunExport copies every problem of the model at paths into a Loam
// repository at dir, one document each.
func RunExport(ctx context.Context, env *Env, out io.Writer, paths []string, dir string) error {
	loader, err := strips.OpenLoader(paths...)
	if err != nil {
		return err
	}
	d, err := loader.LoadDomain(ctx)
	if err != nil {
		return err
	}
	names, err := loader.ListProblems(ctx)
	if err != nil {
		return err
	}
	problems := make([]*domain.Problem, 0, len(names))
	for _, name := range names {
		p, err := loader.LoadProblem(ctx, name)
		if err != nil {
			return err
		}
		problems = append(problems, p)
	}

	if err := loamadapter.Export(ctx, dir, d, problems...); err != nil {
		return err
	}
	env.Logger.Info("Model exported", "dir", dir, "problems", len(problems))
	fmt.Fprintf(out, "Exported domain %s and %d problem(s) to %s\n", d.Name, len(problems), dir)
	return nil
}
