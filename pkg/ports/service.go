package ports

import (
	"context"

	"github.com/aretw0/strips/pkg/document"
	"github.com/aretw0/strips/pkg/domain"
)

// SolveRequest asks for a plan. Limits left at zero use the server defaults.
type SolveRequest struct {
	Model         document.Bundle `json:"model" mapstructure:"model"`
	MaxExpansions int             `json:"max_expansions,omitempty" mapstructure:"max_expansions"`
	TimeoutMS     int             `json:"timeout_ms,omitempty" mapstructure:"timeout_ms"`
	NoCache       bool            `json:"no_cache,omitempty" mapstructure:"no_cache"`
}

// SolveResponse reports the outcome of a search.
type SolveResponse struct {
	RunID   string         `json:"run_id"`
	Outcome domain.Outcome `json:"outcome"`
	Reason  string         `json:"reason,omitempty"`
	Plan    []string       `json:"plan"`
	Stats   domain.Stats   `json:"stats"`
	Cached  bool           `json:"cached"`
}

// ValidateRequest asks whether a plan solves a problem.
type ValidateRequest struct {
	Model document.Bundle `json:"model" mapstructure:"model"`
	Plan  []string        `json:"plan" mapstructure:"plan"`
}

// ValidateResponse is the verdict of a plan replay.
type ValidateResponse struct {
	Valid  bool     `json:"valid"`
	Error  string   `json:"error,omitempty"`
	Final  []string `json:"final_state,omitempty"`
	Length int      `json:"length"`
}

// GroundResponse summarizes a grounded task.
type GroundResponse struct {
	Task    string   `json:"task"`
	Atoms   int      `json:"atoms"`
	Actions []string `json:"actions"`
	Init    []string `json:"init"`
	Agents  []string `json:"agents"`
}

// PlanService is the driving port used by the transport adapters.
// Model errors are returned as errors wrapping the domain sentinels.
type PlanService interface {
	Solve(ctx context.Context, req SolveRequest) (*SolveResponse, error)
	Validate(ctx context.Context, req ValidateRequest) (*ValidateResponse, error)
	Ground(ctx context.Context, model document.Bundle) (*GroundResponse, error)
}
