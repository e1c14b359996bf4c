package domain

import (
	"errors"
	"fmt"

	"github.com/aretw0/strips/pkg/symbols"
)

// Model is a Domain and Problem checked against each other, with symbols
// resolved. Build it with Resolve.
type Model struct {
	Domain     *Domain
	Problem    *Problem
	Universe   *symbols.Universe
	predicates map[string]Predicate
}

// Predicate returns a resolved predicate signature.
func (m *Model) Predicate(name string) (Predicate, bool) {
	p, ok := m.predicates[name]
	return p, ok
}

// TypeID resolves a type name.
func (m *Model) TypeID(name string) (symbols.ID, bool) {
	if name == "" {
		name = RootType
	}
	return m.Universe.Types().Lookup(name)
}

// Resolve validates d and p together: the type hierarchy, object
// declarations, predicate signatures, schema atoms and the typing of every
// initial and goal atom. All problems found are returned in an AggregateError.
func Resolve(d *Domain, p *Problem) (*Model, error) {
	if d == nil || p == nil {
		return nil, fmt.Errorf("%w: domain and problem are required", ErrMalformed)
	}
	r := &resolver{}

	h := symbols.NewHierarchy(RootType)
	for _, t := range d.Types {
		if t.Name == "" {
			r.fail("types", "type with empty name", nil)
			continue
		}
		parents := t.Parents
		if len(parents) == 0 {
			parents = []string{RootType}
		}
		h.Declare(t.Name, parents...)
	}
	if err := h.Close(); err != nil {
		return nil, &AggregateError{Errors: []error{&ValidationError{Where: "types", Reason: err.Error()}}}
	}

	u, err := symbols.NewUniverse(h)
	if err != nil {
		return nil, err
	}
	m := &Model{Domain: d, Problem: p, Universe: u, predicates: make(map[string]Predicate)}

	for _, o := range d.Constants {
		r.addObject(u, "constant", o)
	}
	for _, o := range p.Objects {
		r.addObject(u, "object", o)
	}

	for _, pred := range d.Predicates {
		where := "predicate " + pred.Name
		if _, dup := m.predicates[pred.Name]; dup {
			r.fail(where, "declared twice", nil)
			continue
		}
		for _, prm := range pred.Params {
			if _, ok := m.TypeID(prm.Type); !ok {
				r.fail(where, fmt.Sprintf("parameter %q has unknown type %q", prm.Name, prm.Type), ErrUnknownSymbol)
			}
		}
		m.predicates[pred.Name] = pred
	}

	seen := make(map[string]bool)
	for i := range d.Schemas {
		s := &d.Schemas[i]
		if seen[s.Name] {
			r.fail("action "+s.Name, "declared twice", nil)
			continue
		}
		seen[s.Name] = true
		r.checkSchema(m, s)
	}

	if p.Domain != "" && d.Name != "" && p.Domain != d.Name {
		r.fail("problem "+p.Name, fmt.Sprintf("targets domain %q, got %q", p.Domain, d.Name), nil)
	}
	for _, a := range p.Init {
		r.checkGround(m, "init atom "+a.String(), a)
	}
	for _, a := range p.Goal.Positive {
		r.checkGround(m, "goal atom "+a.String(), a)
	}
	for _, a := range p.Goal.Negative {
		r.checkGround(m, "goal atom not "+a.String(), a)
	}

	if len(r.errs) > 0 {
		return nil, &AggregateError{Errors: r.errs}
	}
	return m, nil
}

type resolver struct {
	errs []error
}

func (r *resolver) fail(where, reason string, kind error) {
	r.errs = append(r.errs, &ValidationError{Where: where, Reason: reason, Err: kind})
}

func (r *resolver) addObject(u *symbols.Universe, kind string, o Object) {
	typ := o.Type
	if typ == "" {
		typ = RootType
	}
	if _, err := u.Add(o.Name, typ); err != nil {
		var reason = err.Error()
		classification := ErrMalformed
		if errors.Is(err, symbols.ErrUnknownType) {
			classification = ErrUnknownSymbol
		}
		r.fail(kind+" "+o.Name, reason, classification)
	}
}

func (r *resolver) checkSchema(m *Model, s *Schema) {
	where := "action " + s.Name
	params := make(map[string]symbols.ID, len(s.Params))
	for _, prm := range s.Params {
		if _, dup := params[prm.Name]; dup {
			r.fail(where, fmt.Sprintf("parameter %q declared twice", prm.Name), nil)
			continue
		}
		tid, ok := m.TypeID(prm.Type)
		if !ok {
			r.fail(where, fmt.Sprintf("parameter %q has unknown type %q", prm.Name, prm.Type), ErrUnknownSymbol)
			continue
		}
		params[prm.Name] = tid
	}

	for _, group := range s.Distinct {
		for _, name := range group {
			if _, ok := params[VariableName(name)]; !ok {
				r.fail(where, fmt.Sprintf("distinct constraint names unknown parameter %q", name), ErrUnknownSymbol)
			}
		}
	}

	s.Atoms(func(section string, a Atom) {
		at := fmt.Sprintf("%s %s (%s)", where, section, a)
		pred, ok := m.predicates[a.Predicate]
		if !ok {
			r.fail(at, "unknown predicate", ErrUnknownSymbol)
			return
		}
		if len(a.Args) != pred.Arity() {
			r.fail(at, fmt.Sprintf("expects %d arguments, got %d", pred.Arity(), len(a.Args)), nil)
			return
		}
		for i, arg := range a.Args {
			want, _ := m.TypeID(pred.Params[i].Type)
			if IsVariable(arg) {
				got, ok := params[VariableName(arg)]
				if !ok {
					r.fail(at, fmt.Sprintf("unknown parameter %q", arg), ErrUnknownSymbol)
					continue
				}
				if !m.Universe.Types().IsA(got, want) {
					r.errs = append(r.errs, &TypeMismatchError{
						Where: at, Object: arg,
						Want: m.Universe.Types().Name(want), Got: m.Universe.Types().Name(got),
					})
				}
				continue
			}
			r.checkObject(m, at, arg, want)
		}
	})
}

func (r *resolver) checkGround(m *Model, where string, a Atom) {
	pred, ok := m.predicates[a.Predicate]
	if !ok {
		r.fail(where, "unknown predicate", ErrUnknownSymbol)
		return
	}
	if len(a.Args) != pred.Arity() {
		r.fail(where, fmt.Sprintf("expects %d arguments, got %d", pred.Arity(), len(a.Args)), nil)
		return
	}
	for i, arg := range a.Args {
		if IsVariable(arg) {
			r.fail(where, fmt.Sprintf("variable %q in ground atom", arg), nil)
			continue
		}
		want, _ := m.TypeID(pred.Params[i].Type)
		r.checkObject(m, where, arg, want)
	}
}

func (r *resolver) checkObject(m *Model, where, name string, want symbols.ID) {
	obj, ok := m.Universe.Lookup(name)
	if !ok {
		r.fail(where, fmt.Sprintf("undeclared object %q", name), ErrUnknownSymbol)
		return
	}
	if !m.Universe.Satisfies(obj, want) {
		types := m.Universe.Types()
		r.errs = append(r.errs, &TypeMismatchError{
			Where: where, Object: name,
			Want: types.Name(want), Got: types.Name(m.Universe.TypeOf(obj)),
		})
	}
}
