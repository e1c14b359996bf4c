package document

import (
	"fmt"
	"strings"

	"github.com/aretw0/strips/pkg/domain"
)

// Entry is one name of a typed list with its type. Type is empty when the
// list gives none.
type Entry struct {
	Name string
	Type string
}

// ParseTypedList reads "a b - car c - loc d": names followed by an optional
// "- type" that applies to every name since the previous type.
func ParseTypedList(s string) ([]Entry, error) {
	fields := strings.Fields(clean(s))
	var out []Entry
	pending := 0
	for i := 0; i < len(fields); i++ {
		f := fields[i]
		if f != "-" {
			out = append(out, Entry{Name: f})
			pending++
			continue
		}
		if pending == 0 {
			return nil, fmt.Errorf("%w: %q: type without names", domain.ErrMalformed, s)
		}
		if i+1 == len(fields) || fields[i+1] == "-" {
			return nil, fmt.Errorf("%w: %q: missing type after '-'", domain.ErrMalformed, s)
		}
		i++
		for j := len(out) - pending; j < len(out); j++ {
			out[j].Type = fields[i]
		}
		pending = 0
	}
	return out, nil
}

// ParsePredicate reads a signature like "at ?a - car ?l - loc".
func ParsePredicate(s string) (domain.Predicate, error) {
	fields := strings.Fields(clean(s))
	if len(fields) == 0 {
		return domain.Predicate{}, fmt.Errorf("%w: empty predicate", domain.ErrMalformed)
	}
	pred := domain.Predicate{Name: fields[0]}
	params, err := ParseTypedList(strings.Join(fields[1:], " "))
	if err != nil {
		return pred, fmt.Errorf("predicate %s: %w", pred.Name, err)
	}
	for _, p := range params {
		pred.Params = append(pred.Params, domain.Parameter{Name: domain.VariableName(p.Name), Type: p.Type})
	}
	return pred, nil
}

// ParseLiteral reads an atom, optionally negated: "free ?l", "not free ?l",
// "(not (free ?l))".
func ParseLiteral(s string) (atom domain.Atom, negated bool, err error) {
	fields := strings.Fields(clean(s))
	if len(fields) > 0 && fields[0] == "not" {
		negated = true
		fields = fields[1:]
	}
	if len(fields) == 0 {
		return domain.Atom{}, false, fmt.Errorf("%w: empty literal %q", domain.ErrMalformed, s)
	}
	return domain.Atom{Predicate: fields[0], Args: fields[1:]}, negated, nil
}

func clean(s string) string {
	return strings.NewReplacer("(", " ", ")", " ", ",", " ").Replace(s)
}

// FormatLiteral is the inverse of ParseLiteral.
func FormatLiteral(a domain.Atom, negated bool) string {
	if negated {
		return "not " + a.String()
	}
	return a.String()
}

func formatTyped(name, typ string) string {
	if typ == "" || typ == domain.RootType {
		return name
	}
	return name + " - " + typ
}

// FromModel renders model values as a bundle. It is the canonical form used
// for fingerprints: building the result yields an equivalent model.
func FromModel(d *domain.Domain, p *domain.Problem) *Bundle {
	dd := &DomainDocument{Name: d.Name}
	for _, t := range d.Types {
		if len(t.Parents) == 0 {
			dd.Types = append(dd.Types, t.Name)
		}
		for _, parent := range t.Parents {
			dd.Types = append(dd.Types, formatTyped(t.Name, parent))
		}
	}
	for _, c := range d.Constants {
		dd.Constants = append(dd.Constants, formatTyped(c.Name, c.Type))
	}
	for _, pred := range d.Predicates {
		parts := []string{pred.Name}
		for _, prm := range pred.Params {
			parts = append(parts, formatTyped("?"+prm.Name, prm.Type))
		}
		dd.Predicates = append(dd.Predicates, strings.Join(parts, " "))
	}
	for _, s := range d.Schemas {
		ad := ActionDocument{Name: s.Name}
		var params []string
		for _, prm := range s.Params {
			params = append(params, formatTyped("?"+prm.Name, prm.Type))
		}
		ad.Parameters = strings.Join(params, " ")
		for _, a := range s.Pre {
			ad.Precondition = append(ad.Precondition, FormatLiteral(a, false))
		}
		for _, a := range s.NegPre {
			ad.Precondition = append(ad.Precondition, FormatLiteral(a, true))
		}
		for _, a := range s.Add {
			ad.Effect = append(ad.Effect, FormatLiteral(a, false))
		}
		for _, a := range s.Del {
			ad.Effect = append(ad.Effect, FormatLiteral(a, true))
		}
		ad.Distinct = s.Distinct
		dd.Actions = append(dd.Actions, ad)
	}

	pd := &ProblemDocument{Name: p.Name, Domain: p.Domain}
	for _, o := range p.Objects {
		pd.Objects = append(pd.Objects, formatTyped(o.Name, o.Type))
	}
	for _, a := range p.Init {
		pd.Init = append(pd.Init, FormatLiteral(a, false))
	}
	for _, a := range p.Goal.Positive {
		pd.Goal = append(pd.Goal, FormatLiteral(a, false))
	}
	for _, a := range p.Goal.Negative {
		pd.Goal = append(pd.Goal, FormatLiteral(a, true))
	}
	return &Bundle{Domain: dd, Problem: pd}
}
