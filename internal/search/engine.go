// Package search implements breadth-first forward search over a ground task.
package search

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/aretw0/strips/internal/extract"
	"github.com/aretw0/strips/internal/logging"
	"github.com/aretw0/strips/internal/successor"
	"github.com/aretw0/strips/pkg/domain"
	"github.com/google/uuid"
)

// Config holds the search limits. Zero values mean unlimited.
type Config struct {
	// MaxExpansions is the number of states that may be expanded. Needing
	// one more reports domain.OutcomeBudgetExceeded.
	MaxExpansions int
	Timeout       time.Duration
	// Workers above 1 enable the layer-synchronous parallel search.
	Workers   int
	Generator successor.Kind
}

// Engine runs searches over one task. It can be reused; each Search call
// starts from the initial state.
type Engine struct {
	task    *domain.Task
	cfg     Config
	gen     successor.Generator
	hooks   domain.SearchHooks
	logger  *slog.Logger
	aborted atomic.Bool
}

// Option configures the Engine.
type Option func(*Engine)

// WithConfig sets the search limits.
func WithConfig(cfg Config) Option {
	return func(e *Engine) {
		e.cfg = cfg
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithHooks registers lifecycle callbacks.
func WithHooks(h domain.SearchHooks) Option {
	return func(e *Engine) {
		e.hooks = h
	}
}

// WithGenerator replaces the successor generator chosen by Config.Generator.
func WithGenerator(g successor.Generator) Option {
	return func(e *Engine) {
		e.gen = g
	}
}

// NewEngine creates an engine for task.
func NewEngine(task *domain.Task, opts ...Option) (*Engine, error) {
	if task == nil {
		return nil, errors.New("search: nil task")
	}
	e := &Engine{task: task, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	if e.gen == nil {
		gen, err := successor.New(e.cfg.Generator, task)
		if err != nil {
			return nil, err
		}
		e.gen = gen
	}
	return e, nil
}

// Abort stops the running search and every later one. The search reports
// domain.OutcomeBudgetExceeded with reason domain.ReasonAborted.
func (e *Engine) Abort() {
	e.aborted.Store(true)
}

// run carries the mutable state of one Search call.
type run struct {
	id      string
	started time.Time
	arena   Arena
	stats   domain.Stats
}

// Search explores the state space breadth-first from the initial state.
// Unsolvable tasks and exhausted budgets are reported through the Result;
// the error is reserved for internal contract violations such as applying
// an inapplicable action.
func (e *Engine) Search(ctx context.Context) (*domain.Result, error) {
	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	r := &run{id: uuid.NewString(), started: time.Now()}
	if e.hooks.OnStart != nil {
		e.hooks.OnStart(ctx, &domain.SearchEvent{
			EventBase: e.base(r, domain.EventSearchStart),
			Task:      e.task.Name,
			Actions:   len(e.task.Actions),
		})
	}
	e.logger.Debug("search started",
		"run_id", r.id,
		"task", e.task.Name,
		"actions", len(e.task.Actions),
		"workers", e.cfg.Workers,
	)

	var (
		res *domain.Result
		err error
	)
	if e.cfg.Workers > 1 {
		res, err = e.parallel(ctx, r)
	} else {
		res, err = e.sequential(ctx, r)
	}
	if err != nil {
		e.logger.Error("search failed", "run_id", r.id, "error", err)
		return nil, err
	}
	e.finish(ctx, r, res)
	return res, nil
}

func (e *Engine) sequential(ctx context.Context, r *run) (*domain.Result, error) {
	visited := NewMapSet()
	var q queue
	q.Push(r.arena.Add(e.task.Init, -1, -1, 0))

	buf := make([]int, 0, 64)
	layer := 0
	for {
		if reason := e.interrupted(ctx); reason != "" {
			return e.exceeded(r, reason), nil
		}
		i, ok := q.Pop()
		if !ok {
			return &domain.Result{Outcome: domain.OutcomeUnsolvable}, nil
		}
		s := r.arena.State(i)
		depth := r.arena.Depth(i)
		if depth > layer {
			layer = depth
			e.logger.Debug("search layer", "run_id", r.id, "depth", layer, "expanded", r.stats.Expanded, "frontier", q.Len()+1)
		}

		if e.task.IsGoal(s) {
			return e.solved(ctx, r, i), nil
		}
		if visited.Contains(s.Signature()) {
			r.stats.Duplicates++
			continue
		}
		if e.cfg.MaxExpansions > 0 && r.stats.Expanded >= e.cfg.MaxExpansions {
			return e.exceeded(r, domain.ReasonMaxExpansions), nil
		}
		visited.Insert(s.Signature())
		r.stats.Expanded++

		buf = e.gen.Applicable(s, buf[:0])
		succ := 0
		for _, ai := range buf {
			next, err := s.Apply(e.task.Action(ai))
			if err != nil {
				return nil, err
			}
			r.stats.Generated++
			if visited.Contains(next.Signature()) {
				continue
			}
			q.Push(r.arena.Add(next, i, ai, depth+1))
			succ++
		}
		r.stats.MaxFrontier = max(r.stats.MaxFrontier, q.Len())
		if e.hooks.OnExpand != nil {
			e.hooks.OnExpand(ctx, &domain.ExpandEvent{
				EventBase:  e.base(r, domain.EventStateExpand),
				Depth:      depth,
				Successors: succ,
				Frontier:   q.Len(),
			})
		}
	}
}

// interrupted returns the budget reason when the search has to stop.
func (e *Engine) interrupted(ctx context.Context) string {
	if e.aborted.Load() {
		return domain.ReasonAborted
	}
	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return domain.ReasonDeadline
		}
		return domain.ReasonCanceled
	default:
		return ""
	}
}

func (e *Engine) solved(ctx context.Context, r *run, goal int) *domain.Result {
	plan := extract.Extract(&r.arena, goal, e.task)
	r.stats.Depth = plan.Len()
	if e.hooks.OnGoal != nil {
		e.hooks.OnGoal(ctx, &domain.SearchEvent{
			EventBase: e.base(r, domain.EventGoalReached),
			Task:      e.task.Name,
			Actions:   len(e.task.Actions),
			Depth:     plan.Len(),
		})
	}
	return &domain.Result{Outcome: domain.OutcomeSolved, Plan: plan, Goal: r.arena.State(goal)}
}

func (e *Engine) exceeded(_ *run, reason string) *domain.Result {
	return &domain.Result{Outcome: domain.OutcomeBudgetExceeded, Reason: reason}
}

func (e *Engine) finish(ctx context.Context, r *run, res *domain.Result) {
	r.stats.Elapsed = time.Since(r.started)
	if res.Outcome != domain.OutcomeSolved && r.arena.Len() > 0 {
		r.stats.Depth = r.arena.Depth(r.arena.Len() - 1)
	}
	res.RunID = r.id
	res.Stats = r.stats

	if e.hooks.OnFinish != nil {
		e.hooks.OnFinish(ctx, &domain.FinishEvent{
			EventBase:  e.base(r, domain.EventSearchFinish),
			Outcome:    res.Outcome,
			Reason:     res.Reason,
			PlanLength: res.Plan.Len(),
			Stats:      res.Stats,
		})
	}
	e.logger.Info("search finished",
		"run_id", r.id,
		"task", e.task.Name,
		"outcome", res.Outcome,
		"reason", res.Reason,
		"plan_length", res.Plan.Len(),
		"expanded", r.stats.Expanded,
		"generated", r.stats.Generated,
		"duplicates", r.stats.Duplicates,
		"elapsed", r.stats.Elapsed,
	)
}

func (e *Engine) base(r *run, t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: time.Now(), Type: t, RunID: r.id}
}
