package loam

import (
	"github.com/aretw0/strips/pkg/document"
)

// Document kinds accepted in the "kind" frontmatter key.
const (
	KindDomain  = "domain"
	KindProblem = "problem"
)

// ModelMetadata represents the frontmatter of a model document.
// It uses "mapstructure" tags to match the keys of the YAML model format, so
// a document body can be moved between a bundle file and a Loam repository unchanged.
type ModelMetadata struct {
	Kind string `json:"kind" mapstructure:"kind"`
	Name string `json:"name" mapstructure:"name"`

	// Domain documents
	Types      []string                  `json:"types,omitempty" mapstructure:"types"`
	Constants  []string                  `json:"constants,omitempty" mapstructure:"constants"`
	Predicates []string                  `json:"predicates,omitempty" mapstructure:"predicates"`
	Actions    []document.ActionDocument `json:"actions,omitempty" mapstructure:"actions"`

	// Problem documents
	Domain  string   `json:"domain,omitempty" mapstructure:"domain"`
	Objects []string `json:"objects,omitempty" mapstructure:"objects"`
	Init    []string `json:"init,omitempty" mapstructure:"init"`
	Goal    []string `json:"goal,omitempty" mapstructure:"goal"`
}

// DomainDocument returns the domain part of the metadata.
func (m ModelMetadata) DomainDocument() *document.DomainDocument {
	return &document.DomainDocument{
		Name:       m.Name,
		Types:      m.Types,
		Constants:  m.Constants,
		Predicates: m.Predicates,
		Actions:    m.Actions,
	}
}

// ProblemDocument returns the problem part of the metadata.
func (m ModelMetadata) ProblemDocument() *document.ProblemDocument {
	return &document.ProblemDocument{
		Name:    m.Name,
		Domain:  m.Domain,
		Objects: m.Objects,
		Init:    m.Init,
		Goal:    m.Goal,
	}
}

// DomainMetadata is the inverse of ModelMetadata.DomainDocument.
func DomainMetadata(d *document.DomainDocument) ModelMetadata {
	return ModelMetadata{
		Kind:       KindDomain,
		Name:       d.Name,
		Types:      d.Types,
		Constants:  d.Constants,
		Predicates: d.Predicates,
		Actions:    d.Actions,
	}
}

// ProblemMetadata is the inverse of ModelMetadata.ProblemDocument.
func ProblemMetadata(p *document.ProblemDocument) ModelMetadata {
	return ModelMetadata{
		Kind:    KindProblem,
		Name:    p.Name,
		Domain:  p.Domain,
		Objects: p.Objects,
		Init:    p.Init,
		Goal:    p.Goal,
	}
}
