package transform

import (
	"fmt"
	"slices"

	"github.com/aretw0/strips/pkg/domain"
)

// NegatedPrefix names the complement predicate introduced for a negated one.
const NegatedPrefix = "not-"

// RemoveNegativeConditions compiles negative preconditions and negative
// goals into positive conditions on complement atoms. Every negated atom p
// gets a complement not-p that holds exactly when p does not. Effects keep
// the pair in step. Action names are unchanged, so a plan of the result is
// a plan of task.
func RemoveNegativeConditions(task *domain.Task) (*domain.Task, error) {
	negated := make(map[domain.AtomID]bool)
	for i := range task.Actions {
		for _, id := range task.Actions[i].NegPre {
			negated[id] = true
		}
	}
	for _, id := range task.Goal.Negative {
		negated[id] = true
	}
	if len(negated) == 0 {
		return task, nil
	}

	atoms := domain.NewAtomTable()
	for id := 0; id < task.Atoms.Len(); id++ {
		atoms.Intern(task.Atoms.Atom(domain.AtomID(id)))
	}
	ids := make([]domain.AtomID, 0, len(negated))
	for id := range negated {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	complement := make(map[domain.AtomID]domain.AtomID, len(ids))
	for _, id := range ids {
		a := task.Atoms.Atom(id)
		neg := domain.Atom{Predicate: NegatedPrefix + a.Predicate, Args: a.Args}
		if _, clash := atoms.Lookup(neg); clash {
			return nil, fmt.Errorf("%w: complement %q already exists", domain.ErrMalformed, neg.String())
		}
		complement[id] = atoms.Intern(neg)
	}

	init := task.Init.Atoms()
	for _, id := range ids {
		if !task.Init.Has(id) {
			init = append(init, complement[id])
		}
	}

	actions := make([]domain.GroundAction, len(task.Actions))
	for i := range task.Actions {
		src := &task.Actions[i]
		a := domain.GroundAction{
			Schema: src.Schema,
			Args:   src.Args,
			Pre:    slices.Clone(src.Pre),
			Add:    slices.Clone(src.Add),
			Del:    slices.Clone(src.Del),
		}
		for _, id := range src.NegPre {
			a.Pre = append(a.Pre, complement[id])
		}
		for _, id := range src.Add {
			if c, ok := complement[id]; ok {
				a.Del = append(a.Del, c)
			}
		}
		for _, id := range src.Del {
			if c, ok := complement[id]; ok && !slices.Contains(src.Add, id) {
				a.Add = append(a.Add, c)
			}
		}
		a.Pre = domain.NormalizeAtoms(a.Pre)
		a.Add = domain.NormalizeAtoms(a.Add)
		a.Del = domain.NormalizeAtoms(a.Del)
		actions[i] = a
	}

	goal := domain.GoalSet{Positive: slices.Clone(task.Goal.Positive)}
	for _, id := range task.Goal.Negative {
		goal.Positive = append(goal.Positive, complement[id])
	}
	return domain.NewTask(task.Name, atoms, actions, domain.NewState(init...), goal), nil
}
