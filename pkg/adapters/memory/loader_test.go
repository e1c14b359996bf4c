package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/strips/internal/testutils"
	"github.com/aretw0/strips/pkg/adapters/memory"
	contract "github.com/aretw0/strips/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
)

func TestInMemoryLoader_Contract(t *testing.T) {
	d := testutils.IntersectionDomain()
	open := testutils.IntersectionProblem(testutils.IntersectionCars)
	open.Name = "open"
	blocked := testutils.IntersectionProblem(testutils.IntersectionCars, "cross-se cross-ne north")
	blocked.Name = "blocked"

	loader := memory.NewLoader(d, open, blocked)
	contract.ModelLoaderContractTest(t, loader, "intersection", []string{"blocked", "open"})
}

func TestInMemoryLoader_SingleProblemIsDefault(t *testing.T) {
	d, p := testutils.Intersection()
	loader := memory.NewLoader(d, p)
	contract.ModelLoaderContractTest(t, loader, "intersection", []string{p.Name})

	got, err := loader.LoadProblem(context.Background(), "")
	assert.NoError(t, err)
	assert.Same(t, p, got)
}
