// Package successor finds the ground actions applicable in a state.
package successor

import (
	"fmt"

	"github.com/aretw0/strips/pkg/domain"
)

// Generator returns the indices of the actions applicable in a state, in
// declaration order. Results are appended to dst, which may be reused
// between calls. Implementations are safe for concurrent use.
type Generator interface {
	Applicable(s domain.State, dst []int) []int
}

// Kind selects a Generator implementation.
type Kind string

const (
	// Linear scans every action. Fine for small tasks.
	Linear Kind = "linear"
	// Indexed counts satisfied preconditions from the atoms of the state.
	Indexed Kind = "indexed"
)

// ParseKind validates a generator name. The empty name means Indexed.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case Linear, Indexed:
		return k, nil
	case "":
		return Indexed, nil
	default:
		return "", fmt.Errorf("unknown successor generator %q", s)
	}
}

// New builds the generator of the given kind. The empty kind means Indexed.
func New(kind Kind, task *domain.Task) (Generator, error) {
	kind, err := ParseKind(string(kind))
	if err != nil {
		return nil, err
	}
	if kind == Linear {
		return NewLinear(task), nil
	}
	return NewIndexed(task), nil
}

type linear struct {
	task *domain.Task
}

// NewLinear returns a generator testing each action against the state.
func NewLinear(task *domain.Task) Generator {
	return &linear{task: task}
}

func (g *linear) Applicable(s domain.State, dst []int) []int {
	for i := range g.task.Actions {
		if s.Applicable(&g.task.Actions[i]) {
			dst = append(dst, i)
		}
	}
	return dst
}
