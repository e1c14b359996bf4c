package domain

import (
	"fmt"
	"slices"
	"strings"
)

// AtomID is the dense identifier of a ground atom within one Task.
type AtomID int32

// AtomTable interns ground atoms. It is built by the grounder and read-only afterwards.
type AtomTable struct {
	ids   map[string]AtomID
	atoms []Atom
}

// NewAtomTable creates an empty table.
func NewAtomTable() *AtomTable {
	return &AtomTable{ids: make(map[string]AtomID)}
}

// Intern returns the ID of a ground atom, allocating one on first use.
func (t *AtomTable) Intern(a Atom) AtomID {
	key := a.String()
	if id, ok := t.ids[key]; ok {
		return id
	}
	id := AtomID(len(t.atoms))
	t.ids[key] = id
	t.atoms = append(t.atoms, Atom{Predicate: a.Predicate, Args: slices.Clone(a.Args)})
	return id
}

// Lookup returns the ID of a ground atom if it is known.
func (t *AtomTable) Lookup(a Atom) (AtomID, bool) {
	id, ok := t.ids[a.String()]
	return id, ok
}

// Atom returns the atom for id.
func (t *AtomTable) Atom(id AtomID) Atom {
	return t.atoms[id]
}

// Len returns the number of interned atoms.
func (t *AtomTable) Len() int {
	return len(t.atoms)
}

// Format renders a list of IDs as atom strings.
func (t *AtomTable) Format(ids []AtomID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = t.atoms[id].String()
	}
	return out
}

// GroundAction is a schema with every parameter bound to an object. Its atom
// lists are sorted and free of duplicates.
type GroundAction struct {
	Index  int      `json:"index"`
	Schema string   `json:"schema"`
	Args   []string `json:"args"`
	Pre    []AtomID `json:"pre"`
	NegPre []AtomID `json:"neg_pre,omitempty"`
	Add    []AtomID `json:"add"`
	Del    []AtomID `json:"del"`
}

// String returns the action identifier, e.g. "drive a1 south-ent cross-se north".
func (a *GroundAction) String() string {
	if len(a.Args) == 0 {
		return a.Schema
	}
	return a.Schema + " " + strings.Join(a.Args, " ")
}

// NormalizeAtoms sorts ids and removes duplicates in place.
func NormalizeAtoms(ids []AtomID) []AtomID {
	slices.Sort(ids)
	return slices.Compact(ids)
}

// GoalSet is a goal over interned atoms.
type GoalSet struct {
	Positive []AtomID `json:"positive"`
	Negative []AtomID `json:"negative,omitempty"`
}

// Task is a grounded problem: finite, immutable and safe to share between
// concurrent searches.
type Task struct {
	Name    string
	Atoms   *AtomTable
	Actions []GroundAction
	Init    State
	Goal    GoalSet

	byName map[string]int
}

// NewTask assembles a task. Actions are re-indexed in the given order.
func NewTask(name string, atoms *AtomTable, actions []GroundAction, init State, goal GoalSet) *Task {
	t := &Task{
		Name:    name,
		Atoms:   atoms,
		Actions: actions,
		Init:    init,
		Goal: GoalSet{
			Positive: NormalizeAtoms(slices.Clone(goal.Positive)),
			Negative: NormalizeAtoms(slices.Clone(goal.Negative)),
		},
		byName: make(map[string]int, len(actions)),
	}
	for i := range t.Actions {
		t.Actions[i].Index = i
		t.byName[t.Actions[i].String()] = i
	}
	return t
}

// IsGoal reports whether s contains every positive goal atom and none of the negative ones.
func (t *Task) IsGoal(s State) bool {
	return s.HoldsAll(t.Goal.Positive) && s.HoldsNone(t.Goal.Negative)
}

// Action returns the ground action at index i.
func (t *Task) Action(i int) *GroundAction {
	return &t.Actions[i]
}

// Lookup resolves the textual identifier of a ground action. Extra whitespace
// and surrounding parentheses are ignored.
func (t *Task) Lookup(name string) (*GroundAction, bool) {
	name = strings.TrimSpace(name)
	name = strings.TrimSuffix(strings.TrimPrefix(name, "("), ")")
	i, ok := t.byName[strings.Join(strings.Fields(name), " ")]
	if !ok {
		return nil, false
	}
	return &t.Actions[i], true
}

// ParsePlan resolves action identifiers, one per entry, into a plan.
// Empty entries and entries starting with ';' are skipped.
func (t *Task) ParsePlan(lines []string) (Plan, error) {
	var plan Plan
	for n, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		a, ok := t.Lookup(line)
		if !ok {
			return Plan{}, fmt.Errorf("step %d: %w: action %q", n+1, ErrUnknownSymbol, line)
		}
		plan.Steps = append(plan.Steps, a)
	}
	return plan, nil
}

// AtomID resolves a ground atom of the task.
func (t *Task) AtomID(a Atom) (AtomID, bool) {
	return t.Atoms.Lookup(a)
}
