package domain

import (
	"encoding/binary"
	"iter"
	"slices"
	"strconv"
)

// State is an immutable closed-world snapshot: the set of ground atoms that
// hold. Atoms not in the set are false. States are values; applying an
// action yields a new State and never changes the receiver.
//
// The atom set is kept sorted, and its signature (a byte encoding of the
// sorted IDs) is computed once, so equality and visited-set lookups are a
// single string comparison.
type State struct {
	atoms []AtomID
	sig   string
}

// NewState builds a state from atom IDs in any order, ignoring duplicates.
func NewState(ids ...AtomID) State {
	return newSorted(NormalizeAtoms(slices.Clone(ids)))
}

func newSorted(atoms []AtomID) State {
	buf := make([]byte, 4*len(atoms))
	for i, id := range atoms {
		binary.LittleEndian.PutUint32(buf[4*i:], uint32(id))
	}
	return State{atoms: atoms, sig: string(buf)}
}

// Len returns the number of true atoms.
func (s State) Len() int {
	return len(s.atoms)
}

// Has reports whether the atom holds.
func (s State) Has(id AtomID) bool {
	_, ok := slices.BinarySearch(s.atoms, id)
	return ok
}

// All iterates the true atoms in ascending ID order.
func (s State) All() iter.Seq[AtomID] {
	return func(yield func(AtomID) bool) {
		for _, id := range s.atoms {
			if !yield(id) {
				return
			}
		}
	}
}

// Atoms returns a copy of the true atoms in ascending ID order.
func (s State) Atoms() []AtomID {
	return slices.Clone(s.atoms)
}

// Signature is a content-derived key: two states have the same signature
// iff they hold exactly the same atoms.
func (s State) Signature() string {
	return s.sig
}

// Equal reports whether both states hold the same atoms.
func (s State) Equal(o State) bool {
	return s.sig == o.sig
}

// HoldsAll reports whether every atom of the sorted list ids holds.
func (s State) HoldsAll(ids []AtomID) bool {
	i := 0
	for _, id := range ids {
		for i < len(s.atoms) && s.atoms[i] < id {
			i++
		}
		if i == len(s.atoms) || s.atoms[i] != id {
			return false
		}
	}
	return true
}

// HoldsNone reports whether no atom of the sorted list ids holds.
func (s State) HoldsNone(ids []AtomID) bool {
	i := 0
	for _, id := range ids {
		for i < len(s.atoms) && s.atoms[i] < id {
			i++
		}
		if i < len(s.atoms) && s.atoms[i] == id {
			return false
		}
	}
	return true
}

// Applicable reports whether a's positive preconditions hold and its negative ones do not.
func (s State) Applicable(a *GroundAction) bool {
	return s.HoldsAll(a.Pre) && s.HoldsNone(a.NegPre)
}

// Satisfies reports whether the state meets goal.
func (s State) Satisfies(goal GoalSet) bool {
	return s.HoldsAll(goal.Positive) && s.HoldsNone(goal.Negative)
}

// Apply returns (s - a.Del) ∪ a.Add. Applying an action whose preconditions
// do not hold is a contract violation reported as *InvalidActionError.
func (s State) Apply(a *GroundAction) (State, error) {
	if !s.Applicable(a) {
		return State{}, s.invalid(a)
	}
	return s.apply(a.Del, a.Add), nil
}

// apply merges the sorted lists: atoms of s not in del, plus add.
func (s State) apply(del, add []AtomID) State {
	out := make([]AtomID, 0, len(s.atoms)+len(add))
	i, d, j := 0, 0, 0
	for i < len(s.atoms) || j < len(add) {
		var next AtomID
		switch {
		case j == len(add) || (i < len(s.atoms) && s.atoms[i] < add[j]):
			next = s.atoms[i]
			i++
			for d < len(del) && del[d] < next {
				d++
			}
			if d < len(del) && del[d] == next {
				continue
			}
		case i == len(s.atoms) || add[j] < s.atoms[i]:
			next = add[j]
			j++
		default:
			next = add[j]
			i++
			j++
		}
		out = append(out, next)
	}
	return newSorted(out)
}

func (s State) invalid(a *GroundAction) *InvalidActionError {
	e := &InvalidActionError{Action: a.String()}
	for _, id := range a.Pre {
		if !s.Has(id) {
			e.Missing = append(e.Missing, atomRef(id))
		}
	}
	for _, id := range a.NegPre {
		if s.Has(id) {
			e.Forbidden = append(e.Forbidden, atomRef(id))
		}
	}
	return e
}

// DescribeInvalid is like the error returned by Apply but with atom names resolved.
func (s State) DescribeInvalid(t *AtomTable, a *GroundAction) *InvalidActionError {
	e := &InvalidActionError{Action: a.String()}
	for _, id := range a.Pre {
		if !s.Has(id) {
			e.Missing = append(e.Missing, t.Atom(id).String())
		}
	}
	for _, id := range a.NegPre {
		if s.Has(id) {
			e.Forbidden = append(e.Forbidden, t.Atom(id).String())
		}
	}
	return e
}

func atomRef(id AtomID) string {
	return "#" + strconv.Itoa(int(id))
}

// Format renders the true atoms using t.
func (s State) Format(t *AtomTable) []string {
	return t.Format(s.atoms)
}
