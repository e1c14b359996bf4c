package domain

import (
	"fmt"
	"strings"
)

// Atom is a predicate applied to arguments. In schemas an argument starting
// with '?' refers to a parameter; everywhere else arguments are object names.
// Atoms are values: two atoms are equal when their predicate and arguments are.
type Atom struct {
	Predicate string   `json:"predicate" yaml:"predicate"`
	Args      []string `json:"args,omitempty" yaml:"args,omitempty"`
}

// NewAtom builds an atom.
func NewAtom(predicate string, args ...string) Atom {
	return Atom{Predicate: predicate, Args: args}
}

// ParseAtom reads the textual form "at a1 north-ex". Surrounding parentheses
// are accepted, so "(at a1 north-ex)" parses to the same atom.
func ParseAtom(s string) (Atom, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Atom{}, fmt.Errorf("%w: empty atom", ErrMalformed)
	}
	for _, f := range fields {
		if strings.ContainsAny(f, "()") {
			return Atom{}, fmt.Errorf("%w: unexpected parenthesis in atom %q", ErrMalformed, s)
		}
	}
	return Atom{Predicate: fields[0], Args: fields[1:]}, nil
}

// String returns the textual form, which doubles as the atom's identity key.
func (a Atom) String() string {
	if len(a.Args) == 0 {
		return a.Predicate
	}
	return a.Predicate + " " + strings.Join(a.Args, " ")
}

// Equal reports structural equality.
func (a Atom) Equal(b Atom) bool {
	if a.Predicate != b.Predicate || len(a.Args) != len(b.Args) {
		return false
	}
	for i := range a.Args {
		if a.Args[i] != b.Args[i] {
			return false
		}
	}
	return true
}

// IsVariable reports whether an atom argument refers to a schema parameter.
func IsVariable(arg string) bool {
	return strings.HasPrefix(arg, "?")
}

// VariableName strips the '?' marker from a parameter reference.
func VariableName(arg string) string {
	return strings.TrimPrefix(arg, "?")
}
