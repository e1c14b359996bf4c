// Package file loads models from YAML or JSON documents on disk.
package file

import (
	"fmt"
	"os"

	"github.com/aretw0/strips/pkg/adapters/memory"
	"github.com/aretw0/strips/pkg/document"
	"github.com/aretw0/strips/pkg/domain"
)

// Loader implements ports.ModelLoader over a set of model files. Each file
// holds a domain, a problem, or both; exactly one domain must be present.
type Loader struct {
	*memory.Loader
	Paths []string
}

// NewLoader reads and builds every file in paths.
func NewLoader(paths ...string) (*Loader, error) {
	var (
		dom      *domain.Domain
		domPath  string
		problems []*domain.Problem
	)
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read model file: %w", err)
		}
		b, err := document.Unmarshal(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if b.Domain != nil {
			if dom != nil {
				return nil, fmt.Errorf("%w: %s: second domain, already read one from %s", domain.ErrMalformed, path, domPath)
			}
			if dom, err = b.Domain.Build(); err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			domPath = path
		}
		if b.Problem != nil {
			p, err := b.Problem.Build()
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			problems = append(problems, p)
		}
	}
	if dom == nil {
		return nil, fmt.Errorf("%w: no domain in %v", domain.ErrMalformed, paths)
	}
	return &Loader{Loader: memory.NewLoader(dom, problems...), Paths: paths}, nil
}
