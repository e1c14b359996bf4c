package ports

import (
	"context"

	"github.com/aretw0/strips/pkg/domain"
)

// ModelLoader defines how the planner retrieves model definitions.
// This allows the storage layer (files, Loam, Memory) to be decoupled.
type ModelLoader interface {
	// LoadDomain returns the domain shared by all problems of the source.
	LoadDomain(ctx context.Context) (*domain.Domain, error)

	// LoadProblem returns the problem with the given name. An empty name
	// selects the only problem and fails when there are several.
	LoadProblem(ctx context.Context, name string) (*domain.Problem, error)

	// ListProblems returns the names of all problems, sorted.
	ListProblems(ctx context.Context) ([]string, error)
}
