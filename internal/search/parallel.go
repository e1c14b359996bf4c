package search

import (
	"context"
	"sync/atomic"

	"github.com/aretw0/strips/pkg/domain"
	"golang.org/x/sync/errgroup"
)

type child struct {
	state  domain.State
	action int
}

// parallel expands one BFS layer at a time with a bounded worker pool.
// Goals are checked for the whole layer before any of it is expanded, so
// plans keep minimal length.
//
// A state is claimed in the visited set by the worker that discovers it:
// exactly one discoverer enqueues it and the others count a duplicate, so
// every state in a layer is distinct and expanded once. Which discoverer
// wins is decided by the scheduler, so the plan may differ from the
// sequential one.
func (e *Engine) parallel(ctx context.Context, r *run) (*domain.Result, error) {
	visited := NewShardedSet(e.cfg.Workers * 4)
	visited.Insert(e.task.Init.Signature())
	layer := []int{r.arena.Add(e.task.Init, -1, -1, 0)}
	limit := int64(e.cfg.MaxExpansions)

	var expanded, generated, duplicates atomic.Int64
	for depth := 0; len(layer) > 0; depth++ {
		if reason := e.interrupted(ctx); reason != "" {
			return e.exceeded(r, reason), nil
		}
		for _, i := range layer {
			if e.task.IsGoal(r.arena.State(i)) {
				return e.solved(ctx, r, i), nil
			}
		}
		e.logger.Debug("search layer", "run_id", r.id, "depth", depth, "expanded", expanded.Load(), "frontier", len(layer))

		var overBudget atomic.Bool
		children := make([][]child, len(layer))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.cfg.Workers)
		for k, i := range layer {
			g.Go(func() error {
				if e.aborted.Load() || gctx.Err() != nil || overBudget.Load() {
					return nil
				}
				if n := expanded.Add(1); limit > 0 && n > limit {
					overBudget.Store(true)
					return nil
				}
				s := r.arena.State(i)
				idx := e.gen.Applicable(s, nil)
				out := make([]child, 0, len(idx))
				for _, ai := range idx {
					next, err := s.Apply(e.task.Action(ai))
					if err != nil {
						return err
					}
					generated.Add(1)
					if !visited.Insert(next.Signature()) {
						duplicates.Add(1)
						continue
					}
					out = append(out, child{state: next, action: ai})
				}
				children[k] = out
				if e.hooks.OnExpand != nil {
					e.hooks.OnExpand(gctx, &domain.ExpandEvent{
						EventBase:  e.base(r, domain.EventStateExpand),
						Depth:      depth,
						Successors: len(out),
						Frontier:   len(layer),
					})
				}
				return nil
			})
		}
		err := g.Wait()

		r.stats.Expanded = int(expanded.Load())
		if limit > 0 && r.stats.Expanded > int(limit) {
			r.stats.Expanded = int(limit)
		}
		r.stats.Generated = int(generated.Load())
		r.stats.Duplicates = int(duplicates.Load())
		if err != nil {
			return nil, err
		}
		if overBudget.Load() {
			return e.exceeded(r, domain.ReasonMaxExpansions), nil
		}
		if reason := e.interrupted(ctx); reason != "" {
			return e.exceeded(r, reason), nil
		}

		var next []int
		for k, i := range layer {
			for _, c := range children[k] {
				next = append(next, r.arena.Add(c.state, i, c.action, depth+1))
			}
		}
		r.stats.MaxFrontier = max(r.stats.MaxFrontier, len(next))
		layer = next
	}
	return &domain.Result{Outcome: domain.OutcomeUnsolvable}, nil
}
