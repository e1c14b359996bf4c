package domain

// Schema is a parameterised STRIPS action.
//
// Pre and NegPre are the positive and negative preconditions, Add and Del the
// effects. When an atom is both added and deleted by the same instantiation,
// the delete is applied first so the atom holds afterwards.
type Schema struct {
	Name   string      `json:"name" yaml:"name"`
	Params []Parameter `json:"params,omitempty" yaml:"params,omitempty"`
	Pre    []Atom      `json:"pre,omitempty" yaml:"pre,omitempty"`
	NegPre []Atom      `json:"neg_pre,omitempty" yaml:"neg_pre,omitempty"`
	Add    []Atom      `json:"add,omitempty" yaml:"add,omitempty"`
	Del    []Atom      `json:"del,omitempty" yaml:"del,omitempty"`

	// Distinct lists groups of parameter names whose bindings must be pairwise
	// distinct. Without it parameters of the same schema may alias.
	Distinct [][]string `json:"distinct,omitempty" yaml:"distinct,omitempty"`
}

// Param returns the index of the parameter with the given name ('?' optional).
func (s *Schema) Param(name string) (int, bool) {
	name = VariableName(name)
	for i, p := range s.Params {
		if p.Name == name {
			return i, true
		}
	}
	return 0, false
}

// Atoms calls fn for every atom of the schema with the section it belongs to.
func (s *Schema) Atoms(fn func(section string, a Atom)) {
	for _, a := range s.Pre {
		fn("pre", a)
	}
	for _, a := range s.NegPre {
		fn("neg_pre", a)
	}
	for _, a := range s.Add {
		fn("add", a)
	}
	for _, a := range s.Del {
		fn("del", a)
	}
}
