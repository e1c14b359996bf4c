package loam

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/aretw0/loam"
	"github.com/aretw0/strips/pkg/document"
	"github.com/aretw0/strips/pkg/domain"
)

// Export writes the domain and its problems as documents of the Loam
// repository at path, creating it when needed. The domain is saved as
// "domain", each problem under its own name.
func Export(ctx context.Context, path string, d *domain.Domain, problems ...*domain.Problem) error {
	if len(problems) == 0 {
		return fmt.Errorf("%w: nothing to export without a problem", domain.ErrMalformed)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}
	// No versioning = pure file generation
	repo, err := loam.Init(absPath, loam.WithVersioning(false), loam.WithForceTemp(false))
	if err != nil {
		return fmt.Errorf("failed to init loam repository: %w", err)
	}
	typedRepo := loam.NewTypedRepository[ModelMetadata](repo)

	docs := document.FromModel(d, problems[0])
	err = typedRepo.Save(ctx, &loam.DocumentModel[ModelMetadata]{
		ID:      "domain",
		Content: fmt.Sprintf("Domain %s.", d.Name),
		Data:    DomainMetadata(docs.Domain),
	})
	if err != nil {
		return fmt.Errorf("failed to save domain: %w", err)
	}

	for _, p := range problems {
		if p.Name == "" || p.Name == "domain" {
			return fmt.Errorf("%w: problem name %q cannot be used as a document id", domain.ErrMalformed, p.Name)
		}
		docs := document.FromModel(d, p)
		err := typedRepo.Save(ctx, &loam.DocumentModel[ModelMetadata]{
			ID:      p.Name,
			Content: fmt.Sprintf("Problem %s of domain %s.", p.Name, d.Name),
			Data:    ProblemMetadata(docs.Problem),
		})
		if err != nil {
			return fmt.Errorf("failed to save problem %s: %w", p.Name, err)
		}
	}
	return nil
}
