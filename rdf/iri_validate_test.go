package rdf

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateIRI(t *testing.T) {
	tests := []struct {
		name    string
		iri     string
		wantErr string
		anyErr  bool
	}{
		{name: "http", iri: "http://example.org/resource"},
		{name: "urn", iri: "urn:example:resource"},
		{name: "query and fragment", iri: "http://example.org/r?x=1#frag"},
		{name: "non-ascii", iri: "http://example.org/ré"},
		{name: "empty", iri: "", wantErr: "empty IRI"},
		{name: "relative path", iri: "/path/to/resource", wantErr: "relative IRI"},
		{name: "relative name", iri: "resource", wantErr: "relative IRI"},
		{name: "space", iri: "http://example.org/a b", wantErr: "control or space"},
		{name: "control", iri: "http://example.org/\x01", wantErr: "control or space"},
		{name: "angle bracket", iri: "http://example.org/<a>", wantErr: "percent-encoded"},
		{name: "brace", iri: "http://example.org/{a}", wantErr: "percent-encoded"},
		{name: "backslash", iri: `http://example.org/a\b`, wantErr: "percent-encoded"},
		{name: "digit scheme", iri: "1http://example.org/", anyErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIRI(tt.iri)
			if tt.anyErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateQuadIRIs(t *testing.T) {
	p := IRI{Value: "http://example.org/p"}
	ok := Quad{S: BlankNode{ID: "a"}, P: p, O: Literal{Lexical: "1", Datatype: IRI{Value: "http://www.w3.org/2001/XMLSchema#integer"}}, G: IRI{Value: "urn:g"}}
	if err := ValidateQuadIRIs(ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []Quad{
		{S: IRI{Value: "s"}, P: p, O: BlankNode{ID: "b"}},
		{S: BlankNode{ID: "a"}, P: IRI{Value: "p"}, O: BlankNode{ID: "b"}},
		{S: BlankNode{ID: "a"}, P: p, O: Literal{Lexical: "1", Datatype: IRI{Value: "integer"}}},
		{S: BlankNode{ID: "a"}, P: p, O: BlankNode{ID: "b"}, G: IRI{Value: "g"}},
	}
	for i, q := range cases {
		err := ValidateQuadIRIs(q)
		var mt *MalformedTermError
		if !errors.As(err, &mt) {
			t.Fatalf("case %d: expected *MalformedTermError, got %v", i, err)
		}
	}
}
