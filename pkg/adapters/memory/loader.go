package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/aretw0/strips/pkg/domain"
)

// Loader implements ports.ModelLoader over model values held in memory.
type Loader struct {
	domain   *domain.Domain
	problems map[string]*domain.Problem
}

// NewLoader creates a loader serving d and the given problems.
// Problems are indexed by name; a later problem replaces an earlier one with the same name.
func NewLoader(d *domain.Domain, problems ...*domain.Problem) *Loader {
	l := &Loader{domain: d, problems: make(map[string]*domain.Problem, len(problems))}
	for _, p := range problems {
		l.problems[p.Name] = p
	}
	return l
}

// LoadDomain returns the domain.
func (l *Loader) LoadDomain(_ context.Context) (*domain.Domain, error) {
	if l.domain == nil {
		return nil, fmt.Errorf("%w: no domain loaded", domain.ErrUnknownSymbol)
	}
	return l.domain, nil
}

// LoadProblem returns the named problem, or the only one when name is empty.
func (l *Loader) LoadProblem(ctx context.Context, name string) (*domain.Problem, error) {
	if name == "" {
		names, _ := l.ListProblems(ctx)
		switch len(names) {
		case 0:
			return nil, fmt.Errorf("%w: no problem loaded", domain.ErrUnknownSymbol)
		case 1:
			name = names[0]
		default:
			return nil, fmt.Errorf("%d problems loaded, choose one of %v", len(names), names)
		}
	}
	p, ok := l.problems[name]
	if !ok {
		return nil, fmt.Errorf("%w: problem %q", domain.ErrUnknownSymbol, name)
	}
	return p, nil
}

// ListProblems returns all problem names.
func (l *Loader) ListProblems(_ context.Context) ([]string, error) {
	keys := make([]string, 0, len(l.problems))
	for k := range l.problems {
		keys = append(keys, k)
	}
	sort.Strings(keys) // Deterministic order
	return keys, nil
}
