// Package extract rebuilds plans from search trails and replays them.
package extract

import (
	"fmt"
	"slices"

	"github.com/aretw0/strips/pkg/domain"
)

// Trail is the parent structure recorded by a search. Entries are addressed
// by index; the root has parent -1.
type Trail interface {
	Parent(i int) (parent int, action int)
}

// Extract follows parent references from goal back to the root and returns
// the actions in execution order.
func Extract(trail Trail, goal int, task *domain.Task) domain.Plan {
	var steps []*domain.GroundAction
	for i := goal; ; {
		parent, action := trail.Parent(i)
		if parent < 0 {
			break
		}
		steps = append(steps, task.Action(action))
		i = parent
	}
	slices.Reverse(steps)
	return domain.Plan{Steps: steps}
}

// Replay applies plan from the initial state. It fails with an error
// wrapping domain.ErrInvalidAction at the first step that is not applicable,
// and with domain.ErrGoalNotReached when the final state misses the goal.
func Replay(task *domain.Task, plan domain.Plan) (domain.State, error) {
	s := task.Init
	for n, a := range plan.Steps {
		if !s.Applicable(a) {
			return s, fmt.Errorf("step %d: %w", n+1, s.DescribeInvalid(task.Atoms, a))
		}
		next, err := s.Apply(a)
		if err != nil {
			return s, fmt.Errorf("step %d: %w", n+1, err)
		}
		s = next
	}
	if !task.IsGoal(s) {
		return s, fmt.Errorf("%w: %s", domain.ErrGoalNotReached, describeGoal(task, s))
	}
	return s, nil
}

// Trace returns the states visited by plan, starting with the initial state.
// It stops at the first inapplicable step.
func Trace(task *domain.Task, plan domain.Plan) []domain.State {
	states := []domain.State{task.Init}
	s := task.Init
	for _, a := range plan.Steps {
		next, err := s.Apply(a)
		if err != nil {
			break
		}
		states = append(states, next)
		s = next
	}
	return states
}

func describeGoal(task *domain.Task, s domain.State) string {
	var missing, present []domain.AtomID
	for _, id := range task.Goal.Positive {
		if !s.Has(id) {
			missing = append(missing, id)
		}
	}
	for _, id := range task.Goal.Negative {
		if s.Has(id) {
			present = append(present, id)
		}
	}
	return fmt.Sprintf("missing %v, unwanted %v", task.Atoms.Format(missing), task.Atoms.Format(present))
}
