package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/strips/internal/grounder"
	"github.com/aretw0/strips/internal/presentation/graph"
	"github.com/aretw0/strips/internal/testutils"
	"github.com/aretw0/strips/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func oneCar(t *testing.T) *domain.Task {
	t.Helper()
	d := testutils.IntersectionDomain()
	p := testutils.IntersectionProblem(testutils.IntersectionCars[:1])
	task, err := grounder.Ground(d, p)
	require.NoError(t, err)
	return task
}

func plan(t *testing.T, task *domain.Task, lines ...string) domain.Plan {
	t.Helper()
	p, err := task.ParsePlan(lines)
	require.NoError(t, err)
	return p
}

func TestGenerateMermaid(t *testing.T) {
	task := oneCar(t)
	p := plan(t, task,
		"arrive a1 south-ent",
		"drive a1 south-ent cross-se north",
		"drive a1 cross-se cross-ne north",
		"drive a1 cross-ne north-ex north",
	)

	tests := []struct {
		name     string
		overlay  *graph.Overlay
		contains []string
		excludes []string
	}{
		{
			name: "Default",
			contains: []string{
				"graph TD\n",
				`s0(("initial state"))`,
				`s0 -- "arrive a1 south-ent" --> s1`,
				`s1["`,
				"+ at a1 south-ent",
				"+ arrived a1",
				"- free south-ent",
				`s3 -- "drive a1 cross-ne north-ex north" --> s4`,
				`s4((("`,
				"class s4 goal;",
			},
			excludes: []string{"linkStyle", "class s4 broken;"},
		},
		{
			name:     "Full States",
			overlay:  &graph.Overlay{Full: true},
			contains: []string{"at a1 north-ex", "connected south-ent cross-se north"},
		},
		{
			name:     "Agent Colours",
			overlay:  &graph.Overlay{ByAgent: true},
			contains: []string{"linkStyle 0 stroke:#1e88e5", "linkStyle 3 stroke:#1e88e5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := graph.GenerateMermaid(task, p, tt.overlay)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, out, unwanted)
			}
		})
	}
}

func TestGenerateMermaid_BrokenStep(t *testing.T) {
	task := oneCar(t)
	p := plan(t, task, "arrive a1 south-ent", "drive a1 cross-se cross-ne north", "drive a1 cross-ne north-ex north")

	out := graph.GenerateMermaid(task, p, nil)
	assert.Contains(t, out, `s1 -. "drive a1 cross-se cross-ne north" .-> s2`)
	assert.Contains(t, out, "class s2 broken;")
	assert.NotContains(t, out, "s3", "the chart stops at the broken step")
	assert.NotContains(t, out, "class s2 goal;")
}

func TestGenerateMermaid_EmptyPlan(t *testing.T) {
	task := oneCar(t)
	out := graph.GenerateMermaid(task, domain.Plan{}, nil)
	assert.Equal(t, 1, strings.Count(out, "s0"))
	assert.NotContains(t, out, "class s0 goal;")
}
