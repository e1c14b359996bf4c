package document

import (
	"fmt"
	"strings"

	"github.com/aretw0/strips/pkg/domain"
)

// DomainDocument is the serialized form of a domain.
type DomainDocument struct {
	Name       string           `json:"name" yaml:"name" mapstructure:"name"`
	Types      []string         `json:"types,omitempty" yaml:"types,omitempty" mapstructure:"types"`
	Constants  []string         `json:"constants,omitempty" yaml:"constants,omitempty" mapstructure:"constants"`
	Predicates []string         `json:"predicates" yaml:"predicates" mapstructure:"predicates"`
	Actions    []ActionDocument `json:"actions" yaml:"actions" mapstructure:"actions"`
}

// ActionDocument is the serialized form of an action schema.
type ActionDocument struct {
	Name         string     `json:"name" yaml:"name" mapstructure:"name"`
	Parameters   string     `json:"parameters,omitempty" yaml:"parameters,omitempty" mapstructure:"parameters"`
	Precondition []string   `json:"precondition,omitempty" yaml:"precondition,omitempty" mapstructure:"precondition"`
	Effect       []string   `json:"effect,omitempty" yaml:"effect,omitempty" mapstructure:"effect"`
	Distinct     [][]string `json:"distinct,omitempty" yaml:"distinct,omitempty" mapstructure:"distinct"`
}

// ProblemDocument is the serialized form of a problem.
type ProblemDocument struct {
	Name    string   `json:"name" yaml:"name" mapstructure:"name"`
	Domain  string   `json:"domain,omitempty" yaml:"domain,omitempty" mapstructure:"domain"`
	Objects []string `json:"objects" yaml:"objects" mapstructure:"objects"`
	Init    []string `json:"init" yaml:"init" mapstructure:"init"`
	Goal    []string `json:"goal" yaml:"goal" mapstructure:"goal"`
}

// Bundle is a domain and a problem in one document.
type Bundle struct {
	Domain  *DomainDocument  `json:"domain" yaml:"domain" mapstructure:"domain"`
	Problem *ProblemDocument `json:"problem" yaml:"problem" mapstructure:"problem"`
}

// Build converts the bundle into model values.
func (b *Bundle) Build() (*domain.Domain, *domain.Problem, error) {
	if b.Domain == nil || b.Problem == nil {
		return nil, nil, fmt.Errorf("%w: bundle needs both a domain and a problem", domain.ErrMalformed)
	}
	d, err := b.Domain.Build()
	if err != nil {
		return nil, nil, err
	}
	p, err := b.Problem.Build()
	if err != nil {
		return nil, nil, err
	}
	return d, p, nil
}

// Build converts the document into a domain. Only syntax is checked here;
// names and types are checked by domain.Resolve.
func (doc *DomainDocument) Build() (*domain.Domain, error) {
	d := &domain.Domain{Name: doc.Name}

	var decls []Entry
	for _, line := range doc.Types {
		entries, err := ParseTypedList(line)
		if err != nil {
			return nil, fmt.Errorf("types: %w", err)
		}
		decls = append(decls, entries...)
	}
	d.Types = buildTypes(decls)

	for _, line := range doc.Constants {
		entries, err := ParseTypedList(line)
		if err != nil {
			return nil, fmt.Errorf("constants: %w", err)
		}
		for _, e := range entries {
			d.Constants = append(d.Constants, domain.Object{Name: e.Name, Type: e.Type})
		}
	}

	for _, line := range doc.Predicates {
		pred, err := ParsePredicate(line)
		if err != nil {
			return nil, err
		}
		d.Predicates = append(d.Predicates, pred)
	}

	for _, a := range doc.Actions {
		s, err := a.Build()
		if err != nil {
			return nil, err
		}
		d.Schemas = append(d.Schemas, s)
	}
	return d, nil
}

// buildTypes groups declarations by name and declares types that only appear as parents.
func buildTypes(decls []Entry) []domain.Type {
	var types []domain.Type
	index := make(map[string]int)
	declare := func(name string) int {
		if i, ok := index[name]; ok {
			return i
		}
		index[name] = len(types)
		types = append(types, domain.Type{Name: name})
		return len(types) - 1
	}
	for _, e := range decls {
		if e.Name == domain.RootType {
			continue
		}
		i := declare(e.Name)
		if e.Type != "" && e.Type != domain.RootType {
			types[i].Parents = append(types[i].Parents, e.Type)
		}
	}
	for _, e := range decls {
		if e.Type != "" && e.Type != domain.RootType {
			declare(e.Type)
		}
	}
	return types
}

// Build converts the document into an action schema.
func (a *ActionDocument) Build() (domain.Schema, error) {
	where := "action " + a.Name
	if strings.TrimSpace(a.Name) == "" {
		return domain.Schema{}, fmt.Errorf("%w: action without name", domain.ErrMalformed)
	}
	s := domain.Schema{Name: a.Name}

	params, err := ParseTypedList(a.Parameters)
	if err != nil {
		return s, fmt.Errorf("%s parameters: %w", where, err)
	}
	for _, p := range params {
		if !domain.IsVariable(p.Name) {
			return s, fmt.Errorf("%w: %s parameter %q must start with '?'", domain.ErrMalformed, where, p.Name)
		}
		s.Params = append(s.Params, domain.Parameter{Name: domain.VariableName(p.Name), Type: p.Type})
	}
	for _, group := range a.Distinct {
		names := make([]string, len(group))
		for j, name := range group {
			names[j] = domain.VariableName(name)
		}
		s.Distinct = append(s.Distinct, names)
	}

	for _, lit := range a.Precondition {
		atom, neg, err := ParseLiteral(lit)
		if err != nil {
			return s, fmt.Errorf("%s precondition: %w", where, err)
		}
		if neg {
			s.NegPre = append(s.NegPre, atom)
		} else {
			s.Pre = append(s.Pre, atom)
		}
	}
	for _, lit := range a.Effect {
		atom, neg, err := ParseLiteral(lit)
		if err != nil {
			return s, fmt.Errorf("%s effect: %w", where, err)
		}
		if neg {
			s.Del = append(s.Del, atom)
		} else {
			s.Add = append(s.Add, atom)
		}
	}
	return s, nil
}

// Build converts the document into a problem.
func (doc *ProblemDocument) Build() (*domain.Problem, error) {
	p := &domain.Problem{Name: doc.Name, Domain: doc.Domain}
	for _, line := range doc.Objects {
		entries, err := ParseTypedList(line)
		if err != nil {
			return nil, fmt.Errorf("objects: %w", err)
		}
		for _, e := range entries {
			p.Objects = append(p.Objects, domain.Object{Name: e.Name, Type: e.Type})
		}
	}
	for _, lit := range doc.Init {
		atom, neg, err := ParseLiteral(lit)
		if err != nil {
			return nil, fmt.Errorf("init: %w", err)
		}
		// Closed world: negative facts are implied.
		if !neg {
			p.Init = append(p.Init, atom)
		}
	}
	for _, lit := range doc.Goal {
		atom, neg, err := ParseLiteral(lit)
		if err != nil {
			return nil, fmt.Errorf("goal: %w", err)
		}
		if neg {
			p.Goal.Negative = append(p.Goal.Negative, atom)
		} else {
			p.Goal.Positive = append(p.Goal.Positive, atom)
		}
	}
	return p, nil
}
