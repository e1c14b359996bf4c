package successor

import (
	"slices"
	"sync"

	"github.com/aretw0/strips/pkg/domain"
)

// indexed keeps, for every atom, the actions that require it. An action is
// a candidate when the number of its preconditions seen in the state equals
// the size of its precondition list.
type indexed struct {
	task   *domain.Task
	byAtom [][]int32
	need   []int32
	always []int32 // actions without positive preconditions
	pool   sync.Pool
}

type scratch struct {
	count   []int32
	touched []int32
}

// NewIndexed returns a generator backed by a precondition index.
func NewIndexed(task *domain.Task) Generator {
	g := &indexed{
		task:   task,
		byAtom: make([][]int32, task.Atoms.Len()),
		need:   make([]int32, len(task.Actions)),
	}
	for i := range task.Actions {
		a := &task.Actions[i]
		g.need[i] = int32(len(a.Pre))
		if len(a.Pre) == 0 {
			g.always = append(g.always, int32(i))
			continue
		}
		for _, id := range a.Pre {
			g.byAtom[id] = append(g.byAtom[id], int32(i))
		}
	}
	n := len(task.Actions)
	g.pool.New = func() any {
		return &scratch{count: make([]int32, n)}
	}
	return g
}

func (g *indexed) Applicable(s domain.State, dst []int) []int {
	sc := g.pool.Get().(*scratch)
	defer g.pool.Put(sc)

	start := len(dst)
	for id := range s.All() {
		if int(id) >= len(g.byAtom) {
			continue
		}
		for _, i := range g.byAtom[id] {
			if sc.count[i] == 0 {
				sc.touched = append(sc.touched, i)
			}
			sc.count[i]++
			if sc.count[i] == g.need[i] && s.HoldsNone(g.task.Actions[i].NegPre) {
				dst = append(dst, int(i))
			}
		}
	}
	for _, i := range g.always {
		if s.HoldsNone(g.task.Actions[i].NegPre) {
			dst = append(dst, int(i))
		}
	}
	for _, i := range sc.touched {
		sc.count[i] = 0
	}
	sc.touched = sc.touched[:0]

	slices.Sort(dst[start:])
	return dst
}
