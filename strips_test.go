package strips_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/strips"
	"github.com/aretw0/strips/internal/testutils"
	"github.com/aretw0/strips/pkg/document"
	"github.com/aretw0/strips/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const blockedRoad = "cross-se cross-ne north"

func intersection(t *testing.T, opts ...strips.Option) *strips.Planner {
	t.Helper()
	d, p := testutils.Intersection()
	planner, err := strips.New(d, p, opts...)
	require.NoError(t, err)
	return planner
}

func TestPlanner_SolvesIntersection(t *testing.T) {
	p := intersection(t)

	res, err := p.Solve(context.Background())
	require.NoError(t, err)
	require.True(t, res.Solved(), "outcome %s", res.Outcome)
	assert.NoError(t, res.Err())
	assert.Equal(t, 16, res.Plan.Len())

	final, err := p.Validate(res.Plan)
	require.NoError(t, err)
	assert.True(t, final.Equal(res.Goal))

	trace := p.Trace(res.Plan)
	assert.Len(t, trace, 17)
	assert.True(t, trace[0].Equal(p.Task().Init))
}

func TestPlanner_Outcomes(t *testing.T) {
	ctx := context.Background()

	t.Run("unsolvable", func(t *testing.T) {
		d := testutils.IntersectionDomain()
		prob := testutils.IntersectionProblem(testutils.IntersectionCars, blockedRoad)
		p, err := strips.New(d, prob)
		require.NoError(t, err)

		res, err := p.Solve(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.OutcomeUnsolvable, res.Outcome)
		assert.ErrorIs(t, res.Err(), domain.ErrUnsolvable)
	})

	t.Run("budget", func(t *testing.T) {
		res, err := intersection(t, strips.WithBudget(1)).Solve(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.OutcomeBudgetExceeded, res.Outcome)
		assert.ErrorIs(t, res.Err(), domain.ErrBudgetExceeded)
	})

	t.Run("aborted", func(t *testing.T) {
		p := intersection(t)
		p.Abort()
		res, err := p.Solve(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.OutcomeBudgetExceeded, res.Outcome)
		assert.Equal(t, domain.ReasonAborted, res.Reason)
	})
}

func TestPlanner_Options(t *testing.T) {
	ctx := context.Background()

	for name, opts := range map[string][]strips.Option{
		"linear":          {strips.WithGenerator("linear")},
		"parallel":        {strips.WithWorkers(4)},
		"static pruning":  {strips.WithStaticPruning(true)},
		"positive normal": {strips.WithPositiveNormalForm(true)},
	} {
		t.Run(name, func(t *testing.T) {
			p := intersection(t, opts...)
			res, err := p.Solve(ctx)
			require.NoError(t, err)
			require.True(t, res.Solved())
			assert.Equal(t, 16, res.Plan.Len())

			_, err = p.Validate(res.Plan)
			assert.NoError(t, err, "plan must replay on the original task")
		})
	}
}

func TestPlanner_UnknownGenerator(t *testing.T) {
	d, prob := testutils.Intersection()
	_, err := strips.New(d, prob, strips.WithGenerator("random"))
	assert.Error(t, err)
}

func TestPlanner_SearchHooks(t *testing.T) {
	var starts, finishes int
	var outcome domain.Outcome
	hooks := domain.SearchHooks{
		OnStart: func(context.Context, *domain.SearchEvent) { starts++ },
		OnFinish: func(_ context.Context, e *domain.FinishEvent) {
			finishes++
			outcome = e.Outcome
		},
	}
	// Two registrations are merged, not replaced.
	p := intersection(t, strips.WithSearchHooks(hooks), strips.WithSearchHooks(domain.SearchHooks{
		OnStart: func(context.Context, *domain.SearchEvent) { starts++ },
	}))

	_, err := p.Solve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, starts)
	assert.Equal(t, 1, finishes)
	assert.Equal(t, domain.OutcomeSolved, outcome)
}

func TestPlanner_ParsePlan(t *testing.T) {
	p := intersection(t)

	plan, err := p.ParsePlan([]string{"; comment", "(arrive a1 south-ent)", "drive a1 south-ent cross-se north"})
	require.NoError(t, err)
	assert.Equal(t, 2, plan.Len())

	_, err = p.Validate(plan)
	assert.ErrorIs(t, err, domain.ErrGoalNotReached)

	plan, err = p.ParsePlan([]string{"drive a1 south-ent cross-se north"})
	require.NoError(t, err)
	_, err = p.Validate(plan)
	assert.ErrorIs(t, err, domain.ErrInvalidAction)

	_, err = p.ParsePlan([]string{"fly a1"})
	assert.ErrorIs(t, err, domain.ErrUnknownSymbol)
}

func TestPlanner_CheckAgents(t *testing.T) {
	ctx := context.Background()

	check, err := intersection(t).CheckAgents(ctx)
	require.NoError(t, err)
	assert.Equal(t, strips.VerdictSingleAgentSolvable, check.Verdict)
	require.Len(t, check.Agents, 4)
	for i, r := range check.Agents {
		assert.Equal(t, testutils.IntersectionCars[i].Name, r.Agent)
		assert.True(t, r.Result.Solved(), r.Agent)
		assert.Equal(t, 4, r.Plan.Len(), r.Agent)
		for _, a := range r.Plan.Steps {
			assert.Equal(t, r.Agent, a.Args[0])
		}
	}

	d := testutils.IntersectionDomain()
	prob := testutils.IntersectionProblem(testutils.IntersectionCars, blockedRoad)
	p, err := strips.New(d, prob)
	require.NoError(t, err)
	check, err = p.CheckAgents(ctx)
	require.NoError(t, err)
	assert.Equal(t, strips.VerdictNonRobustSingleAgent, check.Verdict)
	for _, r := range check.Agents {
		if r.Agent == "a1" {
			assert.Equal(t, domain.OutcomeUnsolvable, r.Result.Outcome)
		} else {
			assert.True(t, r.Result.Solved(), r.Agent)
		}
	}

	check, err = intersection(t, strips.WithBudget(1)).CheckAgents(ctx)
	require.NoError(t, err)
	assert.Equal(t, strips.VerdictUndecided, check.Verdict)
}

// helpers builds a task where agent a can only finish after b helps it:
// nobody may help themselves.
func helpers(t *testing.T) *strips.Planner {
	t.Helper()
	atom := domain.NewAtom
	agent := []domain.Parameter{{Name: "x", Type: "agent"}}
	d := &domain.Domain{
		Name:  "helpers",
		Types: []domain.Type{{Name: "agent"}},
		Predicates: []domain.Predicate{
			{Name: "ready", Params: agent},
			{Name: "done", Params: agent},
		},
		Schemas: []domain.Schema{
			{
				Name:     "help",
				Params:   []domain.Parameter{{Name: "x", Type: "agent"}, {Name: "y", Type: "agent"}},
				Add:      []domain.Atom{atom("ready", "?y")},
				Distinct: [][]string{{"x", "y"}},
			},
			{
				Name:   "go",
				Params: agent,
				Pre:    []domain.Atom{atom("ready", "?x")},
				Add:    []domain.Atom{atom("done", "?x")},
			},
		},
	}
	prob := &domain.Problem{
		Name:    "help-needed",
		Domain:  "helpers",
		Objects: []domain.Object{{Name: "a", Type: "agent"}, {Name: "b", Type: "agent"}},
		Goal:    domain.Goal{Positive: []domain.Atom{atom("done", "a")}},
	}
	p, err := strips.New(d, prob)
	require.NoError(t, err)
	return p
}

func TestPlanner_CheckAgents_NeedsCooperation(t *testing.T) {
	ctx := context.Background()
	p := helpers(t)

	res, err := p.Solve(ctx)
	require.NoError(t, err)
	require.True(t, res.Solved())
	assert.Equal(t, 2, res.Plan.Len())

	check, err := p.CheckAgents(ctx)
	require.NoError(t, err)
	assert.Equal(t, strips.VerdictNonRobustSingleAgent, check.Verdict)
	require.Len(t, check.Agents, 1)
	assert.Equal(t, "a", check.Agents[0].Agent)
	assert.Equal(t, domain.OutcomeUnsolvable, check.Agents[0].Result.Outcome)
}

func TestPlanner_ModelErrors(t *testing.T) {
	d, prob := testutils.Intersection()
	prob.Init = append(prob.Init, domain.NewAtom("at", "north", "cross-se"))

	_, err := strips.New(d, prob)
	assert.ErrorIs(t, err, domain.ErrTypeMismatch)
}

func TestFromBundle(t *testing.T) {
	b := document.FromModel(testutils.Intersection())
	p, err := strips.FromBundle(b)
	require.NoError(t, err)
	assert.Equal(t, "intersection", p.Task().Name)

	_, err = strips.FromBundle(&document.Bundle{Domain: b.Domain})
	assert.ErrorIs(t, err, domain.ErrMalformed)
}

func TestOpen_Files(t *testing.T) {
	dir := filepath.Join("examples", "intersection")
	paths := []string{
		filepath.Join(dir, "domain.yaml"),
		filepath.Join(dir, "problem.yaml"),
		filepath.Join(dir, "problem-blocked.yaml"),
	}
	ctx := context.Background()

	p, err := strips.Open(ctx, paths, "four-cars")
	require.NoError(t, err)
	res, err := p.Solve(ctx)
	require.NoError(t, err)
	assert.Equal(t, 16, res.Plan.Len())

	p, err = strips.Open(ctx, paths, "four-cars-blocked")
	require.NoError(t, err)
	res, err = p.Solve(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeUnsolvable, res.Outcome)

	_, err = strips.Open(ctx, paths, "")
	assert.Error(t, err, "two problems and no name")
}

func TestOpen_Directory(t *testing.T) {
	dir := t.TempDir()

	// A Loam repository holds one document per model part.
	domainDoc := "---\nkind: domain\nname: toggle\npredicates: [\"on\"]\nactions:\n  - name: switch-on\n    effect: [\"on\"]\n---\n"
	problemDoc := "---\nkind: problem\nname: dark\ndomain: toggle\ngoal: [\"on\"]\n---\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "domain.md"), []byte(domainDoc), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dark.md"), []byte(problemDoc), 0644))

	ctx := context.Background()
	p, err := strips.Open(ctx, []string{dir}, "")
	require.NoError(t, err)
	res, err := p.Solve(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"switch-on"}, res.Plan.Strings())
}

func TestOpen_Errors(t *testing.T) {
	_, err := strips.OpenLoader()
	assert.ErrorIs(t, err, domain.ErrMalformed)

	_, err = strips.OpenLoader(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
