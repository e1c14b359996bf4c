package successor_test

import (
	"testing"

	"github.com/aretw0/strips/internal/grounder"
	"github.com/aretw0/strips/internal/successor"
	"github.com/aretw0/strips/internal/testutils"
	"github.com/aretw0/strips/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func groundIntersection(t *testing.T) *domain.Task {
	t.Helper()
	d, p := testutils.Intersection()
	task, err := grounder.Ground(d, p)
	require.NoError(t, err)
	return task
}

func names(task *domain.Task, idx []int) []string {
	out := make([]string, len(idx))
	for i, j := range idx {
		out[i] = task.Actions[j].String()
	}
	return out
}

func TestGenerator_InitialState(t *testing.T) {
	task := groundIntersection(t)
	want := []string{"arrive a1 south-ent", "arrive a2 north-ent", "arrive a3 west-ent", "arrive a4 east-ent"}

	for _, kind := range []successor.Kind{successor.Linear, successor.Indexed} {
		t.Run(string(kind), func(t *testing.T) {
			gen, err := successor.New(kind, task)
			require.NoError(t, err)
			assert.Equal(t, want, names(task, gen.Applicable(task.Init, nil)))
		})
	}
}

// Walks a few levels of the state space and checks both generators agree.
func TestGenerator_LinearAndIndexedAgree(t *testing.T) {
	task := groundIntersection(t)
	lin := successor.NewLinear(task)
	idx := successor.NewIndexed(task)

	layer := []domain.State{task.Init}
	seen := map[string]bool{task.Init.Signature(): true}
	var bufA, bufB []int
	for depth := 0; depth < 4; depth++ {
		var next []domain.State
		for _, s := range layer {
			bufA = lin.Applicable(s, bufA[:0])
			bufB = idx.Applicable(s, bufB[:0])
			require.Equal(t, bufA, bufB)
			for _, i := range bufA {
				succ, err := s.Apply(task.Action(i))
				require.NoError(t, err)
				if !seen[succ.Signature()] {
					seen[succ.Signature()] = true
					next = append(next, succ)
				}
			}
		}
		layer = next
	}
	assert.NotEmpty(t, layer)
}

func TestGenerator_NegativeAndEmptyPreconditions(t *testing.T) {
	atoms := domain.NewAtomTable()
	p := atoms.Intern(domain.NewAtom("p"))
	q := atoms.Intern(domain.NewAtom("q"))
	task := domain.NewTask("neg", atoms, []domain.GroundAction{
		{Schema: "needs-p", Pre: []domain.AtomID{p}},
		{Schema: "anytime"},
		{Schema: "unless-q", NegPre: []domain.AtomID{q}},
		{Schema: "p-unless-q", Pre: []domain.AtomID{p}, NegPre: []domain.AtomID{q}},
	}, domain.NewState(p, q), domain.GoalSet{})

	for _, kind := range []successor.Kind{successor.Linear, successor.Indexed} {
		gen, err := successor.New(kind, task)
		require.NoError(t, err)
		assert.Equal(t, []int{0, 1}, gen.Applicable(task.Init, nil), kind)
		assert.Equal(t, []int{1, 2}, gen.Applicable(domain.NewState(), nil), kind)
		// dst is appended to.
		assert.Equal(t, []int{9, 0, 1, 2, 3}, gen.Applicable(domain.NewState(p), []int{9}), kind)
	}
}

func TestNew_UnknownKind(t *testing.T) {
	_, err := successor.New("quantum", groundIntersection(t))
	assert.Error(t, err)
}
