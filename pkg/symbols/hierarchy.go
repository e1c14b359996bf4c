package symbols

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownType is returned when a type is referenced but never declared.
	ErrUnknownType = errors.New("unknown type")
	// ErrTypeCycle is returned when the is-a relation is not acyclic.
	ErrTypeCycle = errors.New("type hierarchy contains a cycle")
	// ErrNotClosed is returned when the hierarchy is queried before Close.
	ErrNotClosed = errors.New("type hierarchy is not closed")
	// ErrConflict is returned when a name is declared twice with different meanings.
	ErrConflict = errors.New("conflicting declaration")
)

// Hierarchy stores declared types and their precomputed is-a closure.
// Every type is implicitly a subtype of the root.
type Hierarchy struct {
	names    *Table
	root     ID
	declared []bool
	parents  [][]ID
	closure  []map[ID]struct{}
}

// NewHierarchy creates a hierarchy containing only the root type.
func NewHierarchy(root string) *Hierarchy {
	h := &Hierarchy{names: NewTable()}
	h.root = h.intern(root)
	h.declared[h.root] = true
	return h
}

func (h *Hierarchy) intern(name string) ID {
	id := h.names.Intern(name)
	for int(id) >= len(h.declared) {
		h.declared = append(h.declared, false)
		h.parents = append(h.parents, nil)
	}
	return id
}

// Declare registers name as a type with the given parents. Parents may be
// declared later. Declaring the same type twice merges the parent lists.
// Declare invalidates a previous Close.
func (h *Hierarchy) Declare(name string, parents ...string) ID {
	id := h.intern(name)
	h.declared[id] = true
	for _, p := range parents {
		pid := h.intern(p)
		if pid == id {
			continue
		}
		h.parents[id] = append(h.parents[id], pid)
	}
	h.closure = nil
	return id
}

// Close validates the declarations and computes the is-a closure.
func (h *Hierarchy) Close() error {
	n := h.names.Len()
	for id := 0; id < n; id++ {
		if !h.declared[id] {
			return fmt.Errorf("%w: %q", ErrUnknownType, h.names.Name(ID(id)))
		}
	}

	const (
		white = iota
		grey
		black
	)
	color := make([]int, n)
	closure := make([]map[ID]struct{}, n)

	var visit func(id ID) error
	visit = func(id ID) error {
		switch color[id] {
		case grey:
			return fmt.Errorf("%w: through %q", ErrTypeCycle, h.names.Name(id))
		case black:
			return nil
		}
		color[id] = grey
		set := map[ID]struct{}{id: {}, h.root: {}}
		for _, p := range h.parents[id] {
			if err := visit(p); err != nil {
				return err
			}
			for anc := range closure[p] {
				set[anc] = struct{}{}
			}
		}
		closure[id] = set
		color[id] = black
		return nil
	}

	for id := 0; id < n; id++ {
		if err := visit(ID(id)); err != nil {
			return err
		}
	}
	h.closure = closure
	return nil
}

// Closed reports whether the closure is up to date.
func (h *Hierarchy) Closed() bool {
	return h.closure != nil && len(h.closure) == h.names.Len()
}

// Root returns the ID of the implicit root type.
func (h *Hierarchy) Root() ID {
	return h.root
}

// Lookup returns the ID of a declared type.
func (h *Hierarchy) Lookup(name string) (ID, bool) {
	id, ok := h.names.Lookup(name)
	if !ok || !h.declared[id] {
		return 0, false
	}
	return id, true
}

// Name returns the name of a type.
func (h *Hierarchy) Name(id ID) string {
	return h.names.Name(id)
}

// Len returns the number of known types, root included.
func (h *Hierarchy) Len() int {
	return h.names.Len()
}

// IsA reports whether sub equals super or is a (transitive) subtype of it.
// It always returns false before Close.
func (h *Hierarchy) IsA(sub, super ID) bool {
	if !h.Closed() || int(sub) >= len(h.closure) {
		return false
	}
	_, ok := h.closure[sub][super]
	return ok
}

// Ancestors returns every type sub belongs to, itself and the root included.
func (h *Hierarchy) Ancestors(sub ID) []ID {
	if !h.Closed() {
		return nil
	}
	out := make([]ID, 0, len(h.closure[sub]))
	for id := range h.closure[sub] {
		out = append(out, id)
	}
	return out
}
