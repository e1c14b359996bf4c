package domain

import "strings"

// Plan is an ordered sequence of ground actions.
type Plan struct {
	Steps []*GroundAction
}

// Len returns the number of actions.
func (p Plan) Len() int {
	return len(p.Steps)
}

// Strings returns the action identifiers in order.
func (p Plan) Strings() []string {
	out := make([]string, len(p.Steps))
	for i, a := range p.Steps {
		out[i] = a.String()
	}
	return out
}

// String renders one action per line.
func (p Plan) String() string {
	return strings.Join(p.Strings(), "\n")
}
