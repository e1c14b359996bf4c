package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/strips/pkg/domain"
	"github.com/aretw0/strips/pkg/ports"
)

// ModelLoaderContractTest is a reusable test suite that verifies if an adapter complies with ports.ModelLoader.
// problems lists the problem names the loader is expected to expose.
func ModelLoaderContractTest(t *testing.T, loader ports.ModelLoader, domainName string, problems []string) {
	t.Helper()
	ctx := context.Background()

	t.Run("LoadDomain", func(t *testing.T) {
		d, err := loader.LoadDomain(ctx)
		if err != nil {
			t.Fatalf("unexpected error loading domain: %v", err)
		}
		if d.Name != domainName {
			t.Errorf("domain name mismatch: got %q, want %q", d.Name, domainName)
		}
	})

	t.Run("LoadProblem_Success", func(t *testing.T) {
		for _, name := range problems {
			p, err := loader.LoadProblem(ctx, name)
			if err != nil {
				t.Fatalf("unexpected error loading problem %s: %v", name, err)
			}
			if p.Name != name {
				t.Errorf("problem name mismatch: got %q, want %q", p.Name, name)
			}
		}
	})

	t.Run("LoadProblem_NotFound", func(t *testing.T) {
		_, err := loader.LoadProblem(ctx, "non-existent-problem")
		if err == nil {
			t.Fatal("expected error for non-existent problem, got nil")
		}
		if !errors.Is(err, domain.ErrUnknownSymbol) {
			t.Errorf("expected ErrUnknownSymbol, got %v", err)
		}
	})

	t.Run("LoadProblem_Default", func(t *testing.T) {
		_, err := loader.LoadProblem(ctx, "")
		if len(problems) == 1 && err != nil {
			t.Errorf("single problem should be the default: %v", err)
		}
		if len(problems) > 1 && err == nil {
			t.Error("expected error selecting a default among several problems")
		}
	})

	t.Run("ListProblems", func(t *testing.T) {
		names, err := loader.ListProblems(ctx)
		if err != nil {
			t.Fatalf("unexpected error listing problems: %v", err)
		}
		if len(names) != len(problems) {
			t.Errorf("expected %d problems, got %d", len(problems), len(names))
		}
		lookup := make(map[string]bool)
		for _, n := range names {
			lookup[n] = true
		}
		for _, n := range problems {
			if !lookup[n] {
				t.Errorf("problem %s missing from list", n)
			}
		}
	})
}
