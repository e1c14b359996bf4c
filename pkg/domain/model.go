package domain

// RootType is the implicit supertype of every declared type.
const RootType = "object"

// Type is a declared type and its direct supertypes.
type Type struct {
	Name    string   `json:"name" yaml:"name"`
	Parents []string `json:"parents,omitempty" yaml:"parents,omitempty"`
}

// Object is a named constant with exactly one declared type.
type Object struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// Parameter is a typed variable of a predicate or an action schema.
// Name is stored without the leading '?'.
type Parameter struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// Predicate is a predicate signature: its name and ordered parameter types.
type Predicate struct {
	Name   string      `json:"name" yaml:"name"`
	Params []Parameter `json:"params,omitempty" yaml:"params,omitempty"`
}

// Arity returns the number of arguments atoms of this predicate take.
func (p Predicate) Arity() int {
	return len(p.Params)
}

// Domain is the lifted action model. It is never mutated after loading.
type Domain struct {
	Name       string      `json:"name" yaml:"name"`
	Types      []Type      `json:"types,omitempty" yaml:"types,omitempty"`
	Constants  []Object    `json:"constants,omitempty" yaml:"constants,omitempty"`
	Predicates []Predicate `json:"predicates" yaml:"predicates"`
	Schemas    []Schema    `json:"actions" yaml:"actions"`
}

// Predicate returns the signature with the given name.
func (d *Domain) Predicate(name string) (Predicate, bool) {
	for _, p := range d.Predicates {
		if p.Name == name {
			return p, true
		}
	}
	return Predicate{}, false
}

// Schema returns the action schema with the given name.
func (d *Domain) Schema(name string) (*Schema, bool) {
	for i := range d.Schemas {
		if d.Schemas[i].Name == name {
			return &d.Schemas[i], true
		}
	}
	return nil, false
}

// Goal is a conjunction of ground literals.
type Goal struct {
	Positive []Atom `json:"positive" yaml:"positive"`
	Negative []Atom `json:"negative,omitempty" yaml:"negative,omitempty"`
}

// Problem is one instance over a Domain. It is never mutated after loading.
type Problem struct {
	Name    string   `json:"name" yaml:"name"`
	Domain  string   `json:"domain" yaml:"domain"`
	Objects []Object `json:"objects" yaml:"objects"`
	Init    []Atom   `json:"init" yaml:"init"`
	Goal    Goal     `json:"goal" yaml:"goal"`
}
