// Package grounder instantiates action schemas over the objects of a problem.
package grounder

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/strips/internal/logging"
	"github.com/aretw0/strips/pkg/domain"
	"github.com/aretw0/strips/pkg/symbols"
)

// Options configures grounding.
type Options struct {
	// PruneStatic drops actions whose preconditions on static predicates
	// (never added or deleted by any schema) cannot hold, and removes those
	// preconditions from the surviving actions.
	PruneStatic bool
	Logger      *slog.Logger
}

// Option configures the grounder.
type Option func(*Options)

// WithStaticPruning enables or disables static pruning.
func WithStaticPruning(on bool) Option {
	return func(o *Options) {
		o.PruneStatic = on
	}
}

// WithLogger sets the logger used for grounding statistics.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// Ground resolves d and p and produces the ground task.
func Ground(d *domain.Domain, p *domain.Problem, opts ...Option) (*domain.Task, error) {
	m, err := domain.Resolve(d, p)
	if err != nil {
		return nil, err
	}
	return GroundModel(m, opts...)
}

// GroundModel grounds an already resolved model. Actions are produced in
// schema order, and within a schema in odometer order over the bindings:
// the first parameter varies slowest, objects follow declaration order.
// A parameter whose type has no objects yields no actions for its schema.
func GroundModel(m *domain.Model, opts ...Option) (*domain.Task, error) {
	o := Options{Logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	start := time.Now()

	g := &grounder{
		model:  m,
		atoms:  domain.NewAtomTable(),
		static: staticPredicates(m.Domain),
		prune:  o.PruneStatic,
	}

	initIDs := make([]domain.AtomID, 0, len(m.Problem.Init))
	for _, a := range m.Problem.Init {
		initIDs = append(initIDs, g.atoms.Intern(a))
	}
	init := domain.NewState(initIDs...)
	g.init = init

	var goal domain.GoalSet
	for _, a := range m.Problem.Goal.Positive {
		goal.Positive = append(goal.Positive, g.atoms.Intern(a))
	}
	for _, a := range m.Problem.Goal.Negative {
		goal.Negative = append(goal.Negative, g.atoms.Intern(a))
	}

	var actions []domain.GroundAction
	for i := range m.Domain.Schemas {
		var err error
		actions, err = g.schema(&m.Domain.Schemas[i], actions)
		if err != nil {
			return nil, err
		}
	}

	task := domain.NewTask(m.Problem.Name, g.atoms, actions, init, goal)
	o.Logger.Debug("grounded task",
		"task", task.Name,
		"actions", len(task.Actions),
		"atoms", task.Atoms.Len(),
		"pruned", g.pruned,
		"elapsed", time.Since(start),
	)
	return task, nil
}

type grounder struct {
	model  *domain.Model
	atoms  *domain.AtomTable
	init   domain.State
	static map[string]bool
	prune  bool
	pruned int
}

// template is a schema atom with parameter references resolved to indices.
type template struct {
	predicate string
	static    bool
	args      []slot
}

type slot struct {
	param int // -1 for a constant
	name  string
}

type compiled struct {
	pre, negPre, add, del []template
}

func (g *grounder) compile(s *domain.Schema) compiled {
	conv := func(list []domain.Atom) []template {
		out := make([]template, len(list))
		for i, a := range list {
			t := template{predicate: a.Predicate, static: g.static[a.Predicate], args: make([]slot, len(a.Args))}
			for j, arg := range a.Args {
				if domain.IsVariable(arg) {
					idx, _ := s.Param(arg)
					t.args[j] = slot{param: idx}
				} else {
					t.args[j] = slot{param: -1, name: arg}
				}
			}
			out[i] = t
		}
		return out
	}
	return compiled{pre: conv(s.Pre), negPre: conv(s.NegPre), add: conv(s.Add), del: conv(s.Del)}
}

func (g *grounder) schema(s *domain.Schema, out []domain.GroundAction) ([]domain.GroundAction, error) {
	u := g.model.Universe
	n := len(s.Params)
	types := make([]symbols.ID, n)
	domains := make([][]symbols.ID, n)
	for i, prm := range s.Params {
		tid, _ := g.model.TypeID(prm.Type)
		types[i] = tid
		domains[i] = u.Members(tid)
		if len(domains[i]) == 0 {
			return out, nil
		}
	}
	distinct := make([][]int, 0, len(s.Distinct))
	for _, group := range s.Distinct {
		idx := make([]int, 0, len(group))
		for _, name := range group {
			if i, ok := s.Param(name); ok {
				idx = append(idx, i)
			}
		}
		distinct = append(distinct, idx)
	}
	tpl := g.compile(s)

	pos := make([]int, n)
	binding := make([]symbols.ID, n)
	for {
		for i := range pos {
			binding[i] = domains[i][pos[i]]
		}
		if allDistinct(binding, distinct) {
			for i, obj := range binding {
				if !u.Satisfies(obj, types[i]) {
					return nil, &domain.TypeMismatchError{
						Where:  fmt.Sprintf("action %s ?%s", s.Name, s.Params[i].Name),
						Object: u.Name(obj),
						Want:   u.Types().Name(types[i]),
						Got:    u.Types().Name(u.TypeOf(obj)),
					}
				}
			}
			if a, ok := g.instantiate(s, tpl, binding); ok {
				out = append(out, a)
			} else {
				g.pruned++
			}
		}

		// Advance the odometer, last parameter fastest.
		i := n - 1
		for ; i >= 0; i-- {
			pos[i]++
			if pos[i] < len(domains[i]) {
				break
			}
			pos[i] = 0
		}
		if i < 0 {
			return out, nil
		}
	}
}

func allDistinct(binding []symbols.ID, groups [][]int) bool {
	for _, group := range groups {
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				if binding[group[i]] == binding[group[j]] {
					return false
				}
			}
		}
	}
	return true
}

func (g *grounder) instantiate(s *domain.Schema, tpl compiled, binding []symbols.ID) (domain.GroundAction, bool) {
	u := g.model.Universe
	args := make([]string, len(binding))
	for i, obj := range binding {
		args[i] = u.Name(obj)
	}

	ground := func(t template) domain.Atom {
		a := domain.Atom{Predicate: t.predicate, Args: make([]string, len(t.args))}
		for i, sl := range t.args {
			if sl.param >= 0 {
				a.Args[i] = args[sl.param]
			} else {
				a.Args[i] = sl.name
			}
		}
		return a
	}

	act := domain.GroundAction{Schema: s.Name, Args: args}
	for _, t := range tpl.pre {
		a := ground(t)
		if g.prune && t.static {
			if id, ok := g.atoms.Lookup(a); !ok || !g.init.Has(id) {
				return act, false
			}
			continue
		}
		act.Pre = append(act.Pre, g.atoms.Intern(a))
	}
	for _, t := range tpl.negPre {
		a := ground(t)
		if g.prune && t.static {
			if id, ok := g.atoms.Lookup(a); ok && g.init.Has(id) {
				return act, false
			}
			continue
		}
		act.NegPre = append(act.NegPre, g.atoms.Intern(a))
	}
	for _, t := range tpl.add {
		act.Add = append(act.Add, g.atoms.Intern(ground(t)))
	}
	for _, t := range tpl.del {
		act.Del = append(act.Del, g.atoms.Intern(ground(t)))
	}

	act.Pre = domain.NormalizeAtoms(act.Pre)
	act.NegPre = domain.NormalizeAtoms(act.NegPre)
	act.Add = domain.NormalizeAtoms(act.Add)
	act.Del = domain.NormalizeAtoms(act.Del)
	if g.prune && contradicts(act.Pre, act.NegPre) {
		return act, false
	}
	return act, true
}

// contradicts reports whether the sorted lists share an atom.
func contradicts(a, b []domain.AtomID) bool {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			return true
		}
	}
	return false
}

// staticPredicates returns the predicates no schema adds or deletes.
func staticPredicates(d *domain.Domain) map[string]bool {
	fluent := make(map[string]bool)
	for _, s := range d.Schemas {
		for _, a := range s.Add {
			fluent[a.Predicate] = true
		}
		for _, a := range s.Del {
			fluent[a.Predicate] = true
		}
	}
	static := make(map[string]bool)
	for _, p := range d.Predicates {
		if !fluent[p.Name] {
			static[p.Name] = true
		}
	}
	return static
}

// StaticPredicates lists the predicates of d that no action changes, in declaration order.
func StaticPredicates(d *domain.Domain) []string {
	set := staticPredicates(d)
	var out []string
	for _, p := range d.Predicates {
		if set[p.Name] {
			out = append(out, p.Name)
		}
	}
	return out
}
