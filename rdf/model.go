package rdf

import (
	"fmt"
	"strings"
)

const (
	// XSDString is the datatype of simple literals.
	XSDString = "http://www.w3.org/2001/XMLSchema#string"
	// RDFLangString is the datatype of language-tagged literals.
	RDFLangString = "http://www.w3.org/1999/02/22-rdf-syntax-ns#langString"
)

// TermKind identifies RDF term types.
type TermKind uint8

const (
	// TermIRI represents an IRI term.
	TermIRI TermKind = iota
	// TermBlankNode represents a blank node term.
	TermBlankNode
	// TermLiteral represents a literal term.
	TermLiteral
	// TermDefaultGraph represents the default graph marker.
	TermDefaultGraph
)

func (k TermKind) String() string {
	switch k {
	case TermIRI:
		return "NamedNode"
	case TermBlankNode:
		return "BlankNode"
	case TermLiteral:
		return "Literal"
	case TermDefaultGraph:
		return "DefaultGraph"
	default:
		return fmt.Sprintf("TermKind(%d)", uint8(k))
	}
}

// Term is a value that can appear in RDF statements.
// All implementations are comparable value types.
type Term interface {
	Kind() TermKind
	String() string
}

// IRI represents an RDF IRI.
type IRI struct {
	// Value is the IRI string value.
	Value string
}

// NewIRI returns an IRI, rejecting the empty string.
func NewIRI(value string) (IRI, error) {
	iri := IRI{Value: value}
	if err := ValidateTerm(iri); err != nil {
		return IRI{}, err
	}
	return iri, nil
}

// Kind returns TermIRI.
func (i IRI) Kind() TermKind { return TermIRI }

// String returns the IRI value.
func (i IRI) String() string { return i.Value }

// BlankNode represents an RDF blank node.
type BlankNode struct {
	// ID is the blank node label without the "_:" prefix.
	ID string
}

// NewBlankNode returns a blank node, rejecting an empty label.
func NewBlankNode(id string) (BlankNode, error) {
	b := BlankNode{ID: strings.TrimPrefix(id, "_:")}
	if err := ValidateTerm(b); err != nil {
		return BlankNode{}, err
	}
	return b, nil
}

// Kind returns TermBlankNode.
func (b BlankNode) Kind() TermKind { return TermBlankNode }

// String returns the blank node identifier prefixed with "_:".
func (b BlankNode) String() string { return "_:" + b.ID }

// Literal represents an RDF literal.
type Literal struct {
	// Lexical is the lexical form of the literal.
	Lexical string
	// Datatype is the datatype IRI. Empty means xsd:string, or rdf:langString
	// when Lang is set.
	Datatype IRI
	// Lang is the language tag, if any.
	Lang string
}

// NewLiteral returns a literal. Datatype and lang may be empty.
// A language tag combined with a datatype other than xsd:string or
// rdf:langString is rejected, as is rdf:langString without a language tag.
func NewLiteral(lexical, datatype, lang string) (Literal, error) {
	lit := Literal{Lexical: lexical, Datatype: IRI{Value: datatype}, Lang: lang}
	if err := ValidateTerm(lit); err != nil {
		return Literal{}, err
	}
	return lit.normalize(), nil
}

// Kind returns TermLiteral.
func (l Literal) Kind() TermKind { return TermLiteral }

// DatatypeIRI returns the effective datatype of the literal.
func (l Literal) DatatypeIRI() string {
	if l.Lang != "" {
		return RDFLangString
	}
	if l.Datatype.Value == "" {
		return XSDString
	}
	return l.Datatype.Value
}

// String returns a string representation of the literal.
func (l Literal) String() string {
	if l.Lang != "" {
		return fmt.Sprintf("%q@%s", l.Lexical, l.Lang)
	}
	if dt := l.DatatypeIRI(); dt != XSDString {
		return fmt.Sprintf("%q^^<%s>", l.Lexical, dt)
	}
	return fmt.Sprintf("%q", l.Lexical)
}

// normalize drops datatypes implied by the literal's form so that equal
// literals compare equal with ==.
func (l Literal) normalize() Literal {
	if l.Datatype.Value == XSDString || (l.Lang != "" && l.Datatype.Value == RDFLangString) {
		l.Datatype = IRI{}
	}
	return l
}

// DefaultGraph marks a quad that belongs to the default graph.
type DefaultGraph struct{}

// Kind returns TermDefaultGraph.
func (DefaultGraph) Kind() TermKind { return TermDefaultGraph }

// String returns the empty string; the default graph has no name.
func (DefaultGraph) String() string { return "" }

// Quad is an RDF quad (triple + optional graph name).
type Quad struct {
	// S is the subject.
	S Term
	// P is the predicate.
	P IRI
	// O is the object.
	O Term
	// G is the graph name. nil and DefaultGraph{} both denote the default graph.
	G Term
}

// NewQuad validates term positions and returns the quad.
func NewQuad(s Term, p IRI, o Term, g Term) (Quad, error) {
	q := Quad{S: s, P: p, O: o, G: g}
	if err := q.Validate(); err != nil {
		return Quad{}, err
	}
	return q.normalize(), nil
}

// IsZero reports whether the quad has no subject/predicate/object.
func (q Quad) IsZero() bool {
	return q.S == nil && q.P.Value == "" && q.O == nil && q.G == nil
}

// InDefaultGraph reports whether the quad is in the default graph.
func (q Quad) InDefaultGraph() bool {
	if q.G == nil {
		return true
	}
	_, ok := q.G.(DefaultGraph)
	return ok
}

// Validate checks every term and the position rules for subject, predicate,
// object and graph.
func (q Quad) Validate() error {
	switch q.S.(type) {
	case IRI, BlankNode:
	case nil:
		return malformed("subject", "missing subject")
	default:
		return malformed(q.S.String(), "subject must be an IRI or blank node")
	}
	switch q.O.(type) {
	case IRI, BlankNode, Literal:
	case nil:
		return malformed("object", "missing object")
	default:
		return malformed(q.O.String(), "object must be an IRI, blank node or literal")
	}
	switch q.G.(type) {
	case nil, IRI, BlankNode, DefaultGraph:
	default:
		return malformed(q.G.String(), "graph must be an IRI, blank node or the default graph")
	}
	for _, term := range []Term{q.S, q.P, q.O, q.G} {
		if term == nil {
			continue
		}
		if err := ValidateTerm(term); err != nil {
			return err
		}
	}
	return nil
}

func (q Quad) normalize() Quad {
	if q.G == nil {
		q.G = DefaultGraph{}
	}
	if lit, ok := q.O.(Literal); ok {
		q.O = lit.normalize()
	}
	return q
}

// ValidateTerm checks a single term against the model's construction rules.
func ValidateTerm(term Term) error {
	switch t := term.(type) {
	case IRI:
		if t.Value == "" {
			return malformed("<>", "empty IRI")
		}
	case BlankNode:
		if t.ID == "" {
			return malformed("_:", "empty blank node label")
		}
	case Literal:
		dt := t.Datatype.Value
		if t.Lang != "" && dt != "" && dt != XSDString && dt != RDFLangString {
			return malformed(t.String(), "language tag with non-string datatype "+dt)
		}
		if t.Lang == "" && dt == RDFLangString {
			return malformed(t.String(), "rdf:langString literal without language tag")
		}
	case DefaultGraph:
	case nil:
		return malformed("", "nil term")
	default:
		return malformed(term.String(), fmt.Sprintf("unsupported term type %T", term))
	}
	return nil
}
