package search

import "github.com/aretw0/strips/pkg/domain"

// record is one search node. Parent and action are indices, -1 at the root.
type record struct {
	parent int32
	action int32
	depth  int32
}

// Arena stores search nodes by index so parents are plain integers.
type Arena struct {
	records []record
	states  []domain.State
}

// Add appends a node and returns its index.
func (a *Arena) Add(s domain.State, parent, action, depth int) int {
	a.records = append(a.records, record{parent: int32(parent), action: int32(action), depth: int32(depth)})
	a.states = append(a.states, s)
	return len(a.records) - 1
}

// Parent returns the parent index and the action that led to node i.
func (a *Arena) Parent(i int) (int, int) {
	r := a.records[i]
	return int(r.parent), int(r.action)
}

// State returns the state of node i.
func (a *Arena) State(i int) domain.State {
	return a.states[i]
}

// Depth returns the number of actions from the root to node i.
func (a *Arena) Depth(i int) int {
	return int(a.records[i].depth)
}

// Len returns the number of nodes.
func (a *Arena) Len() int {
	return len(a.records)
}
