package transform

import (
	"fmt"
	"slices"

	"github.com/aretw0/strips/pkg/domain"
)

// Projection is the single-agent view of a task: only the agent's actions,
// and the agent's goals as the whole goal.
type Projection struct {
	Agent string
	Task  *domain.Task

	original []int
}

// Project restricts task to the named agent. The atom table and the initial
// state are shared with task.
func Project(task *domain.Task, agent string) (*Projection, error) {
	for _, a := range Agents(task) {
		if a.Name != agent {
			continue
		}
		actions := make([]domain.GroundAction, len(a.Actions))
		for i, idx := range a.Actions {
			actions[i] = task.Actions[idx]
		}
		return &Projection{
			Agent:    agent,
			Task:     domain.NewTask(fmt.Sprintf("%s[%s]", task.Name, agent), task.Atoms, actions, task.Init, a.Goal),
			original: slices.Clone(a.Actions),
		}, nil
	}
	return nil, fmt.Errorf("%w: agent %q", domain.ErrUnknownSymbol, agent)
}

// Original maps an action index of the projected task to the source task.
func (p *Projection) Original(i int) int {
	return p.original[i]
}

// Lift rewrites a plan of the projected task into actions of source.
func (p *Projection) Lift(plan domain.Plan, source *domain.Task) domain.Plan {
	out := domain.Plan{Steps: make([]*domain.GroundAction, len(plan.Steps))}
	for i, a := range plan.Steps {
		out.Steps[i] = source.Action(p.original[a.Index])
	}
	return out
}
