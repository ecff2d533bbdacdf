package rdf

import (
	"fmt"
	"net/url"
)

// ValidateIRI checks that iri is absolute and only contains characters
// allowed in an N-Quads IRIREF.
//
// Canonicalization itself only requires a non-empty IRI; strict validation is
// opt-in for callers that want to reject relative or unescaped IRIs up front.
func ValidateIRI(iri string) error {
	if iri == "" {
		return fmt.Errorf("empty IRI")
	}
	for i, r := range iri {
		if r <= 0x20 {
			return fmt.Errorf("invalid control or space character at position %d in IRI: %q", i, iri)
		}
		switch r {
		case '<', '>', '"', '{', '}', '|', '^', '`', '\\':
			return fmt.Errorf("invalid character '%c' at position %d in IRI (should be percent-encoded): %s", r, i, iri)
		}
	}
	parsed, err := url.Parse(iri)
	if err != nil {
		return fmt.Errorf("invalid IRI syntax: %w", err)
	}
	if parsed.Scheme == "" {
		return fmt.Errorf("relative IRI without scheme: %s", iri)
	}
	first := parsed.Scheme[0]
	if !((first >= 'a' && first <= 'z') || (first >= 'A' && first <= 'Z')) {
		return fmt.Errorf("scheme must start with a letter: %s", iri)
	}
	return nil
}

// ValidateQuadIRIs applies ValidateIRI to every IRI in q, including literal
// datatypes, and reports the first failure as a MalformedTermError.
func ValidateQuadIRIs(q Quad) error {
	check := func(term Term) error {
		var value string
		switch t := term.(type) {
		case IRI:
			value = t.Value
		case Literal:
			if t.Datatype.Value == "" {
				return nil
			}
			value = t.Datatype.Value
		default:
			return nil
		}
		if err := ValidateIRI(value); err != nil {
			return malformed("<"+value+">", err.Error())
		}
		return nil
	}
	for _, term := range []Term{q.S, q.P, q.O, q.G} {
		if err := check(term); err != nil {
			return err
		}
	}
	return nil
}
