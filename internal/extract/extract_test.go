package extract_test

import (
	"testing"

	"github.com/aretw0/strips/internal/extract"
	"github.com/aretw0/strips/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chain: p0 -> p1 -> p2 through actions step-0 and step-1.
func chainTask() *domain.Task {
	atoms := domain.NewAtomTable()
	p0 := atoms.Intern(domain.NewAtom("p", "0"))
	p1 := atoms.Intern(domain.NewAtom("p", "1"))
	p2 := atoms.Intern(domain.NewAtom("p", "2"))
	return domain.NewTask("chain", atoms, []domain.GroundAction{
		{Schema: "step", Args: []string{"0"}, Pre: []domain.AtomID{p0}, Add: []domain.AtomID{p1}, Del: []domain.AtomID{p0}},
		{Schema: "step", Args: []string{"1"}, Pre: []domain.AtomID{p1}, Add: []domain.AtomID{p2}, Del: []domain.AtomID{p1}},
	}, domain.NewState(p0), domain.GoalSet{Positive: []domain.AtomID{p2}})
}

type trail [][2]int

func (t trail) Parent(i int) (int, int) { return t[i][0], t[i][1] }

func TestExtract(t *testing.T) {
	task := chainTask()
	// Node 1 is a dead branch; 0 -> 2 -> 3 is the path.
	tr := trail{{-1, -1}, {0, 1}, {0, 0}, {2, 1}}

	plan := extract.Extract(tr, 3, task)
	assert.Equal(t, []string{"step 0", "step 1"}, plan.Strings())
	assert.Zero(t, extract.Extract(tr, 0, task).Len())
}

func TestReplay(t *testing.T) {
	task := chainTask()

	plan, err := task.ParsePlan([]string{"step 0", "step 1"})
	require.NoError(t, err)
	final, err := extract.Replay(task, plan)
	require.NoError(t, err)
	assert.Equal(t, []string{"p 2"}, final.Format(task.Atoms))
	assert.Len(t, extract.Trace(task, plan), 3)

	short, _ := task.ParsePlan([]string{"step 0"})
	_, err = extract.Replay(task, short)
	assert.ErrorIs(t, err, domain.ErrGoalNotReached)
	assert.Contains(t, err.Error(), "p 2")

	wrong, _ := task.ParsePlan([]string{"step 1"})
	_, err = extract.Replay(task, wrong)
	assert.ErrorIs(t, err, domain.ErrInvalidAction)
	assert.Contains(t, err.Error(), "missing p 1")
	assert.Len(t, extract.Trace(task, wrong), 1)
}
