package rdf

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestParseJSONLDBasic(t *testing.T) {
	input := `{"@context":{"ex":"http://example.org/"},"@id":"ex:s","ex:p":"v","ex:q":{"ex:r":{"@id":"ex:o"}}}`
	ds, err := ParseJSONLD(context.Background(), strings.NewReader(input), JSONLDOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ds.Len() != 3 {
		t.Fatalf("expected 3 quads, got %d", ds.Len())
	}
	want := Quad{S: IRI{Value: "http://example.org/s"}, P: IRI{Value: "http://example.org/p"}, O: Literal{Lexical: "v"}, G: DefaultGraph{}}
	if !ds.Contains(want) {
		t.Fatalf("missing quad %v", want)
	}
	if len(ds.BlankNodes()) != 1 {
		t.Fatalf("expected one blank node, got %v", ds.BlankNodes())
	}
}

func TestParseJSONLDNamedGraph(t *testing.T) {
	input := `{"@context":{"ex":"http://example.org/"},"@id":"ex:g","@graph":[{"@id":"ex:s","ex:p":{"@id":"ex:o"}}]}`
	ds, err := ParseDataset(context.Background(), strings.NewReader(input), FormatJSONLD)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Quad{S: IRI{Value: "http://example.org/s"}, P: IRI{Value: "http://example.org/p"}, O: IRI{Value: "http://example.org/o"}, G: IRI{Value: "http://example.org/g"}}
	if ds.Len() != 1 || !ds.Contains(want) {
		t.Fatalf("unexpected dataset %v", ds.Quads())
	}
}

func TestParseJSONLDTypedAndLanguageValues(t *testing.T) {
	input := `{"@context":{"ex":"http://example.org/","xsd":"http://www.w3.org/2001/XMLSchema#"},
"@id":"ex:s",
"ex:n":{"@value":"5","@type":"xsd:integer"},
"ex:l":{"@value":"chat","@language":"fr"}}`
	ds, err := ParseJSONLD(context.Background(), strings.NewReader(input), JSONLDOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := IRI{Value: "http://example.org/s"}
	typed := Quad{S: s, P: IRI{Value: "http://example.org/n"}, O: Literal{Lexical: "5", Datatype: IRI{Value: "http://www.w3.org/2001/XMLSchema#integer"}}, G: DefaultGraph{}}
	lang := Quad{S: s, P: IRI{Value: "http://example.org/l"}, O: Literal{Lexical: "chat", Lang: "fr"}, G: DefaultGraph{}}
	if !ds.Contains(typed) || !ds.Contains(lang) {
		t.Fatalf("unexpected dataset %v", ds.Quads())
	}
}

func TestParseJSONLDInvalidJSON(t *testing.T) {
	_, err := ParseJSONLD(context.Background(), strings.NewReader(`{"@id":`), JSONLDOptions{})
	var parseErr *ParseError
	if !errors.As(err, &parseErr) || parseErr.Format != "jsonld" {
		t.Fatalf("expected jsonld ParseError, got %v", err)
	}
	if Code(err) != ErrCodeParseError {
		t.Fatalf("unexpected code %s", Code(err))
	}
}

func TestParseJSONLDInputLimit(t *testing.T) {
	input := `{"@context":{"ex":"http://example.org/"},"@id":"ex:s","ex:p":"` + strings.Repeat("v", 256) + `"}`
	_, err := ParseJSONLD(context.Background(), strings.NewReader(input), JSONLDOptions{MaxInputBytes: 64})
	if err == nil || !strings.Contains(err.Error(), "exceeds 64 bytes") {
		t.Fatalf("expected size limit error, got %v", err)
	}
}

func TestParseJSONLDMaxQuads(t *testing.T) {
	input := `{"@context":{"ex":"http://example.org/"},"@id":"ex:s","ex:p":["a","b","c"]}`
	_, err := ParseDataset(context.Background(), strings.NewReader(input), FormatJSONLD, OptMaxQuads(2))
	if !errors.Is(err, ErrQuadLimitExceeded) {
		t.Fatalf("expected quad limit error, got %v", err)
	}
}

func TestParseJSONLDCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ParseJSONLD(ctx, strings.NewReader(`{"@id":"http://example.org/s","http://example.org/p":"v"}`), JSONLDOptions{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}

func TestNewJSONGoldOptions(t *testing.T) {
	opts := newJSONGoldOptions(JSONLDOptions{BaseIRI: "http://example.org/", ProcessingMode: "json-ld-1.0", SafeMode: true})
	if opts.Base != "http://example.org/" || opts.ProcessingMode != "json-ld-1.0" || !opts.SafeMode {
		t.Fatalf("unexpected options %#v", opts)
	}
}
