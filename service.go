package strips

import (
	"context"
	"errors"
	"time"

	"github.com/aretw0/strips/pkg/document"
	"github.com/aretw0/strips/pkg/domain"
	"github.com/aretw0/strips/pkg/plancache"
	"github.com/aretw0/strips/pkg/ports"
	"github.com/aretw0/strips/pkg/transform"
)

// Service implements ports.PlanService on top of Planner. Requests carry the
// whole model, so each call grounds afresh; solved problems are served from
// the plan cache when one is configured.
type Service struct {
	cache *plancache.Manager
	opts  []Option
}

var _ ports.PlanService = (*Service)(nil)

// NewService creates a service. cache may be nil. opts apply to every
// request before the request's own limits.
func NewService(cache *plancache.Manager, opts ...Option) *Service {
	return &Service{cache: cache, opts: opts}
}

func (s *Service) planner(model document.Bundle, extra ...Option) (*Planner, error) {
	opts := append(append([]Option(nil), s.opts...), extra...)
	return FromBundle(&model, opts...)
}

// Solve implements ports.PlanService.
func (s *Service) Solve(ctx context.Context, req ports.SolveRequest) (*ports.SolveResponse, error) {
	var limits []Option
	if req.MaxExpansions > 0 {
		limits = append(limits, WithBudget(req.MaxExpansions))
	}
	if req.TimeoutMS > 0 {
		limits = append(limits, WithTimeout(time.Duration(req.TimeoutMS)*time.Millisecond))
	}
	p, err := s.planner(req.Model, limits...)
	if err != nil {
		return nil, err
	}

	if s.cache == nil || req.NoCache {
		res, err := p.Solve(ctx)
		if err != nil {
			return nil, err
		}
		return solveResponse(res), nil
	}

	key, err := plancache.Fingerprint(p.Domain(), p.Problem())
	if err != nil {
		return nil, err
	}
	entry, err := s.cache.LoadOrSolve(ctx, key, p.Problem().Name, p.Solve)
	if err != nil {
		return nil, err
	}
	if entry.Result != nil {
		return solveResponse(entry.Result), nil
	}
	rec := entry.Record
	return &ports.SolveResponse{
		RunID:   rec.RunID,
		Outcome: rec.Outcome,
		Reason:  rec.Reason,
		Plan:    nonNil(rec.Actions),
		Stats: domain.Stats{
			Expanded:  rec.Expanded,
			Generated: rec.Generated,
			Depth:     len(rec.Actions),
			Elapsed:   time.Duration(rec.ElapsedMS) * time.Millisecond,
		},
		Cached: true,
	}, nil
}

func solveResponse(res *domain.Result) *ports.SolveResponse {
	return &ports.SolveResponse{
		RunID:   res.RunID,
		Outcome: res.Outcome,
		Reason:  res.Reason,
		Plan:    nonNil(res.Plan.Strings()),
		Stats:   res.Stats,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Validate implements ports.PlanService. A plan that names unknown actions,
// breaks a precondition or misses the goal is reported as invalid, not as
// an error.
func (s *Service) Validate(_ context.Context, req ports.ValidateRequest) (*ports.ValidateResponse, error) {
	p, err := s.planner(req.Model)
	if err != nil {
		return nil, err
	}
	resp := &ports.ValidateResponse{}

	plan, err := p.ParsePlan(req.Plan)
	if err != nil {
		resp.Error = err.Error()
		return resp, nil
	}
	resp.Length = plan.Len()

	final, err := p.Validate(plan)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAction) || errors.Is(err, domain.ErrGoalNotReached) {
			resp.Error = err.Error()
			return resp, nil
		}
		return nil, err
	}
	resp.Valid = true
	resp.Final = p.Task().Atoms.Format(final.Atoms())
	return resp, nil
}

// Ground implements ports.PlanService.
func (s *Service) Ground(_ context.Context, model document.Bundle) (*ports.GroundResponse, error) {
	p, err := s.planner(model)
	if err != nil {
		return nil, err
	}
	return p.Summary(), nil
}

// Summary describes the grounded task.
func (p *Planner) Summary() *ports.GroundResponse {
	task := p.Task()
	actions := make([]string, len(task.Actions))
	for i := range task.Actions {
		actions[i] = task.Actions[i].String()
	}
	return &ports.GroundResponse{
		Task:    task.Name,
		Atoms:   task.Atoms.Len(),
		Actions: actions,
		Init:    task.Atoms.Format(task.Init.Atoms()),
		Agents:  transform.AgentNames(task),
	}
}
