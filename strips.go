package strips

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/aretw0/strips/internal/extract"
	"github.com/aretw0/strips/internal/grounder"
	"github.com/aretw0/strips/internal/logging"
	"github.com/aretw0/strips/internal/search"
	"github.com/aretw0/strips/internal/successor"
	"github.com/aretw0/strips/pkg/adapters/file"
	loamAdapter "github.com/aretw0/strips/pkg/adapters/loam"
	"github.com/aretw0/strips/pkg/document"
	"github.com/aretw0/strips/pkg/domain"
	"github.com/aretw0/strips/pkg/ports"
	"github.com/aretw0/strips/pkg/transform"
)

// Planner is the high-level entry point for the library.
// It owns one ground task and searches it with the configured limits.
type Planner struct {
	domain  *domain.Domain
	problem *domain.Problem
	task    *domain.Task
	// searched is task with negative conditions compiled away, or task itself.
	searched *domain.Task

	cfg         search.Config
	pruneStatic bool
	positive    bool
	hooks       domain.SearchHooks
	logger      *slog.Logger
	gen         successor.Generator

	mu      sync.Mutex
	running map[*search.Engine]struct{}
	aborted bool
}

// Option defines a functional option for configuring the Planner.
type Option func(*Planner)

// WithLogger sets a custom structured logger for the planner.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Planner) {
		p.logger = logger
	}
}

// WithSearchHooks registers observability hooks. Repeated calls merge.
func WithSearchHooks(hooks domain.SearchHooks) Option {
	return func(p *Planner) {
		p.hooks = p.hooks.Merge(hooks)
	}
}

// WithBudget limits the number of state expansions. Zero means unlimited.
func WithBudget(maxExpansions int) Option {
	return func(p *Planner) {
		p.cfg.MaxExpansions = maxExpansions
	}
}

// WithTimeout bounds the wall-clock time of a search.
func WithTimeout(d time.Duration) Option {
	return func(p *Planner) {
		p.cfg.Timeout = d
	}
}

// WithWorkers enables the parallel search when n > 1.
func WithWorkers(n int) Option {
	return func(p *Planner) {
		p.cfg.Workers = n
	}
}

// WithGenerator selects the successor generator: "indexed" (default) or "linear".
func WithGenerator(kind string) Option {
	return func(p *Planner) {
		p.cfg.Generator = successor.Kind(kind)
	}
}

// WithStaticPruning drops ground actions that can never fire because of
// facts no action changes.
func WithStaticPruning(on bool) Option {
	return func(p *Planner) {
		p.pruneStatic = on
	}
}

// WithPositiveNormalForm compiles negative preconditions and goals into
// complement atoms before searching. Plans are reported against the
// original task.
func WithPositiveNormalForm(on bool) Option {
	return func(p *Planner) {
		p.positive = on
	}
}

// New grounds the problem against the domain.
func New(d *domain.Domain, prob *domain.Problem, opts ...Option) (*Planner, error) {
	p := &Planner{
		domain:  d,
		problem: prob,
		running: make(map[*search.Engine]struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	// Ensure logger is initialized (so we don't pass nil down)
	if p.logger == nil {
		p.logger = logging.NewNop()
	}
	kind, err := successor.ParseKind(string(p.cfg.Generator))
	if err != nil {
		return nil, err
	}
	p.cfg.Generator = kind

	task, err := grounder.Ground(d, prob,
		grounder.WithStaticPruning(p.pruneStatic),
		grounder.WithLogger(p.logger),
	)
	if err != nil {
		return nil, err
	}
	p.task = task
	p.searched = task

	if p.positive {
		if p.searched, err = transform.RemoveNegativeConditions(task); err != nil {
			return nil, err
		}
	}
	// Built once; generators are safe for concurrent searches.
	if p.gen, err = successor.New(kind, p.searched); err != nil {
		return nil, err
	}
	return p, nil
}

// FromBundle builds and grounds a model document.
func FromBundle(b *document.Bundle, opts ...Option) (*Planner, error) {
	d, prob, err := b.Build()
	if err != nil {
		return nil, err
	}
	return New(d, prob, opts...)
}

// Load reads the domain and the named problem through loader.
// An empty name selects the only problem.
func Load(ctx context.Context, loader ports.ModelLoader, name string, opts ...Option) (*Planner, error) {
	d, err := loader.LoadDomain(ctx)
	if err != nil {
		return nil, err
	}
	prob, err := loader.LoadProblem(ctx, name)
	if err != nil {
		return nil, err
	}
	return New(d, prob, opts...)
}

// Open picks a loader for path: a directory is read as a Loam repository,
// anything else as model files.
func Open(ctx context.Context, paths []string, name string, opts ...Option) (*Planner, error) {
	loader, err := OpenLoader(paths...)
	if err != nil {
		return nil, err
	}
	return Load(ctx, loader, name, opts...)
}

// OpenLoader returns the loader Open would use.
func OpenLoader(paths ...string) (ports.ModelLoader, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no model path given", domain.ErrMalformed)
	}
	if len(paths) == 1 {
		info, err := os.Stat(paths[0])
		if err != nil {
			return nil, fmt.Errorf("failed to access model path: %w", err)
		}
		if info.IsDir() {
			return loamAdapter.Open(paths[0])
		}
	}
	return file.NewLoader(paths...)
}

// Domain returns the lifted domain.
func (p *Planner) Domain() *domain.Domain { return p.domain }

// Problem returns the problem instance.
func (p *Planner) Problem() *domain.Problem { return p.problem }

// Task returns the ground task.
func (p *Planner) Task() *domain.Task { return p.task }

// Solve runs a breadth-first search. Unsolvable and budget outcomes are
// reported in the result, not as errors; use Result.Err to convert them.
func (p *Planner) Solve(ctx context.Context) (*domain.Result, error) {
	res, err := p.search(ctx, p.searched, p.hooks, search.WithGenerator(p.gen))
	if err != nil {
		return nil, err
	}
	if p.searched != p.task && res.Solved() {
		// Same identifiers, so the plan maps by name.
		if res.Plan, err = p.task.ParsePlan(res.Plan.Strings()); err != nil {
			return nil, err
		}
		if res.Goal, err = extract.Replay(p.task, res.Plan); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (p *Planner) search(ctx context.Context, task *domain.Task, hooks domain.SearchHooks, opts ...search.Option) (*domain.Result, error) {
	opts = append([]search.Option{
		search.WithConfig(p.cfg),
		search.WithHooks(hooks),
		search.WithLogger(p.logger),
	}, opts...)
	eng, err := search.NewEngine(task, opts...)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	if p.aborted {
		eng.Abort()
	}
	p.running[eng] = struct{}{}
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		delete(p.running, eng)
		p.mu.Unlock()
	}()

	return eng.Search(ctx)
}

// Abort stops running searches and makes later ones stop at once.
// They finish with domain.OutcomeBudgetExceeded and reason "aborted".
func (p *Planner) Abort() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.aborted = true
	for eng := range p.running {
		eng.Abort()
	}
}

// ParsePlan resolves textual action identifiers against the task.
func (p *Planner) ParsePlan(lines []string) (domain.Plan, error) {
	return p.task.ParsePlan(lines)
}

// Validate replays plan from the initial state and returns the final state.
func (p *Planner) Validate(plan domain.Plan) (domain.State, error) {
	return extract.Replay(p.task, plan)
}

// Trace returns the states visited by plan, starting with the initial state.
func (p *Planner) Trace(plan domain.Plan) []domain.State {
	return extract.Trace(p.task, plan)
}

// Verdict summarizes the single-agent check over all agents.
type Verdict string

const (
	// VerdictSingleAgentSolvable means every agent reaches its goals with its
	// own actions. Interference between agents is not checked, so this is a
	// necessary condition for robustness, not a proof of it.
	VerdictSingleAgentSolvable Verdict = "single_agent_solvable"
	// VerdictNonRobustSingleAgent means some agent cannot reach its goals
	// alone. The full task may still be solvable when other agents supply
	// the facts it needs, but only with their cooperation.
	VerdictNonRobustSingleAgent Verdict = "non_robust_single_agent"
	// VerdictUndecided means a search limit stopped at least one projection
	// and no projection was proven unsolvable.
	VerdictUndecided Verdict = "undecided"
)

// AgentReport is the single-agent outcome for one agent.
type AgentReport struct {
	Agent   string
	Actions int
	Result  *domain.Result
	// Plan is expressed in actions of the full task.
	Plan domain.Plan
}

// AgentCheck is the result of CheckAgents.
type AgentCheck struct {
	Verdict Verdict
	Agents  []AgentReport
}

// CheckAgents solves the projection of every agent that owns a goal, using
// only that agent's actions.
func (p *Planner) CheckAgents(ctx context.Context) (*AgentCheck, error) {
	check := &AgentCheck{Verdict: VerdictSingleAgentSolvable}
	for _, a := range transform.Agents(p.task) {
		if len(a.Goal.Positive)+len(a.Goal.Negative) == 0 {
			continue
		}
		proj, err := transform.Project(p.task, a.Name)
		if err != nil {
			return nil, err
		}
		res, err := p.search(ctx, proj.Task, domain.SearchHooks{})
		if err != nil {
			return nil, fmt.Errorf("agent %s: %w", a.Name, err)
		}
		p.logger.Debug("agent checked", "agent", a.Name, "outcome", res.Outcome)

		switch {
		case res.Outcome == domain.OutcomeUnsolvable:
			check.Verdict = VerdictNonRobustSingleAgent
		case res.Outcome == domain.OutcomeBudgetExceeded && check.Verdict == VerdictSingleAgentSolvable:
			check.Verdict = VerdictUndecided
		}
		check.Agents = append(check.Agents, AgentReport{
			Agent:   a.Name,
			Actions: len(a.Actions),
			Result:  res,
			Plan:    proj.Lift(res.Plan, p.task),
		})
	}
	p.logger.Info("agents checked", "agents", len(check.Agents), "verdict", check.Verdict)
	return check, nil
}
