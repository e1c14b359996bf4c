package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/strips/pkg/adapters/memory"
	"github.com/aretw0/strips/pkg/domain"
)

// Loader adapts the Loam library to the ports.ModelLoader interface.
// Every call reads the repository again, so edits show up without a restart.
type Loader struct {
	Repo *loam.TypedRepository[ModelMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[ModelMetadata]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// Open initializes a read-only Loam repository at path and wraps it.
func Open(path string) (*Loader, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	// ReadOnly avoids Loam's dev-mode sandbox; models are never written back.
	repo, err := loam.Init(absPath, loam.WithStrict(true), loam.WithReadOnly(true))
	if err != nil {
		return nil, fmt.Errorf("failed to open loam repository: %w", err)
	}
	return New(loam.NewTypedRepository[ModelMetadata](repo)), nil
}

// LoadDomain implements ports.ModelLoader.
func (l *Loader) LoadDomain(ctx context.Context) (*domain.Domain, error) {
	m, err := l.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return m.LoadDomain(ctx)
}

// LoadProblem implements ports.ModelLoader.
func (l *Loader) LoadProblem(ctx context.Context, name string) (*domain.Problem, error) {
	m, err := l.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return m.LoadProblem(ctx, name)
}

// ListProblems implements ports.ModelLoader.
func (l *Loader) ListProblems(ctx context.Context) ([]string, error) {
	m, err := l.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return m.ListProblems(ctx)
}

// snapshot reads every document and builds the model values they describe.
func (l *Loader) snapshot(ctx context.Context) (*memory.Loader, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	var (
		dom      *domain.Domain
		domID    string
		problems []*domain.Problem
	)
	seen := make(map[string]string)

	for _, doc := range docs {
		meta := doc.Data
		if meta.Name == "" {
			meta.Name = trimExtension(doc.ID)
		}

		switch meta.Kind {
		case KindDomain:
			if dom != nil {
				return nil, fmt.Errorf("%w: domain defined in both '%s' and '%s'", domain.ErrMalformed, domID, doc.ID)
			}
			if dom, err = meta.DomainDocument().Build(); err != nil {
				return nil, fmt.Errorf("%s: %w", doc.ID, err)
			}
			domID = doc.ID
		case KindProblem:
			// Collision Detection
			if existing, ok := seen[meta.Name]; ok {
				return nil, fmt.Errorf("%w: collision detected: problem '%s' is defined in both '%s' and '%s'", domain.ErrMalformed, meta.Name, existing, doc.ID)
			}
			seen[meta.Name] = doc.ID
			p, err := meta.ProblemDocument().Build()
			if err != nil {
				return nil, fmt.Errorf("%s: %w", doc.ID, err)
			}
			problems = append(problems, p)
		case "":
			// Notes and other documents without a kind are ignored.
		default:
			return nil, fmt.Errorf("%w: %s: unknown kind %q", domain.ErrMalformed, doc.ID, meta.Kind)
		}
	}

	return memory.NewLoader(dom, problems...), nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
