package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aretw0/strips"
	"github.com/aretw0/strips/internal/presentation/tui"
	"github.com/aretw0/strips/pkg/domain"
	"github.com/aretw0/strips/pkg/plancache"
	"github.com/aretw0/strips/pkg/ports"
)

// SolveOptions configures the solve command.
type SolveOptions struct {
	Paths   []string
	Format  string
	NoCache bool
}

// RunSolve searches for a plan and prints it, one action per line in text
// mode. Unsolvable and budget-exceeded runs return the outcome error after
// printing.
func RunSolve(ctx context.Context, env *Env, out io.Writer, opts SolveOptions) error {
	format, err := resolveFormat(opts.Format, out)
	if err != nil {
		return err
	}
	p, err := env.Open(ctx, opts.Paths)
	if err != nil {
		return err
	}

	var cache *plancache.Manager
	if !opts.NoCache {
		var closeCache func() error
		cache, closeCache, err = NewCache(ctx, env.Config.Cache, env.Logger)
		if err != nil {
			return err
		}
		defer closeCache()
	}

	res, cached, err := solve(ctx, p, cache)
	if err != nil {
		return err
	}
	env.Logger.Debug("Solve finished", "outcome", res.Outcome, "cached", cached)

	switch format {
	case FormatJSON:
		resp := &ports.SolveResponse{
			RunID:   res.RunID,
			Outcome: res.Outcome,
			Reason:  res.Reason,
			Plan:    res.Plan.Strings(),
			Stats:   res.Stats,
			Cached:  cached,
		}
		if resp.Plan == nil {
			resp.Plan = []string{}
		}
		if err := writeJSON(out, resp); err != nil {
			return err
		}
	case FormatMarkdown:
		if err := writeMarkdown(out, tui.PlanMarkdown(p.Problem().Name, res)); err != nil {
			return err
		}
	default:
		for _, step := range res.Plan.Strings() {
			fmt.Fprintln(out, step)
		}
	}
	return res.Err()
}

// solve runs the search, going through the cache when there is one.
func solve(ctx context.Context, p *strips.Planner, cache *plancache.Manager) (*domain.Result, bool, error) {
	if cache == nil {
		res, err := p.Solve(ctx)
		return res, false, err
	}

	key, err := plancache.Fingerprint(p.Domain(), p.Problem())
	if err != nil {
		return nil, false, err
	}
	entry, err := cache.LoadOrSolve(ctx, key, p.Problem().Name, p.Solve)
	if err != nil {
		return nil, false, err
	}
	if entry.Result != nil {
		return entry.Result, false, nil
	}
	res, err := recordResult(p, entry.Record)
	return res, true, err
}

// recordResult rebuilds a result from a stored record.
func recordResult(p *strips.Planner, rec *domain.PlanRecord) (*domain.Result, error) {
	plan, err := p.ParsePlan(rec.Actions)
	if err != nil {
		return nil, fmt.Errorf("stale plan record %s: %w", rec.Key, err)
	}
	return &domain.Result{
		RunID:   rec.RunID,
		Outcome: rec.Outcome,
		Reason:  rec.Reason,
		Plan:    plan,
		Stats: domain.Stats{
			Expanded:  rec.Expanded,
			Generated: rec.Generated,
			Depth:     plan.Len(),
			Elapsed:   time.Duration(rec.ElapsedMS) * time.Millisecond,
		},
	}, nil
}
