package rdf

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func decodeAll(t *testing.T, input string, format Format, opts ...Option) ([]Quad, error) {
	t.Helper()
	dec, err := NewQuadDecoder(strings.NewReader(input), format, opts...)
	if err != nil {
		t.Fatalf("decoder error: %v", err)
	}
	defer dec.Close()
	var quads []Quad
	for {
		q, err := dec.Next()
		if err == io.EOF {
			return quads, nil
		}
		if err != nil {
			return quads, err
		}
		quads = append(quads, q)
	}
}

func TestNQuadsDecodeTerms(t *testing.T) {
	input := `# comment
<http://example.org/s> <http://example.org/p> "plain" .
_:b1 <http://example.org/p> "chat"@fr <http://example.org/g> .
_:b1 <http://example.org/p> "1"^^<http://www.w3.org/2001/XMLSchema#integer> _:g . # trailing comment

_:b.2 <http://example.org/p> "esc\t\"\\é\U0001F600" .
`
	quads, err := decodeAll(t, input, FormatNQuads)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(quads) != 4 {
		t.Fatalf("expected 4 quads, got %d", len(quads))
	}
	if quads[0].O != (Literal{Lexical: "plain"}) || !quads[0].InDefaultGraph() {
		t.Fatalf("unexpected first quad %#v", quads[0])
	}
	if quads[1].O != (Literal{Lexical: "chat", Lang: "fr"}) || quads[1].G != (IRI{Value: "http://example.org/g"}) {
		t.Fatalf("unexpected second quad %#v", quads[1])
	}
	if quads[2].G != (BlankNode{ID: "g"}) {
		t.Fatalf("unexpected graph %#v", quads[2].G)
	}
	if quads[3].S != (BlankNode{ID: "b.2"}) {
		t.Fatalf("expected dotted blank node label, got %#v", quads[3].S)
	}
	if lit := quads[3].O.(Literal); lit.Lexical != "esc\t\"\\é😀" {
		t.Fatalf("unexpected lexical form %q", lit.Lexical)
	}
}

func TestNQuadsDecodeIRIEscape(t *testing.T) {
	quads, err := decodeAll(t, `<http://example.org/s> <http://example.org/p> <http://example.org/o> .`, FormatNQuads)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quads[0].S != (IRI{Value: "http://example.org/s"}) {
		t.Fatalf("unexpected subject %#v", quads[0].S)
	}
}

func TestNQuadsDecodeErrors(t *testing.T) {
	cases := map[string]string{
		"literal subject":        `"s" <http://example.org/p> "o" .`,
		"missing dot":            `<http://example.org/s> <http://example.org/p> "o"`,
		"unterminated literal":   `<http://example.org/s> <http://example.org/p> "o .`,
		"unterminated iri":       `<http://example.org/s> <http://example.org/p> <http://example.org/o .`,
		"space in iri":           `<http://example.org/s> <http://example.org/p> <http://exa mple.org/o> .`,
		"blank predicate":        `<http://example.org/s> _:p "o" .`,
		"literal graph":          `<http://example.org/s> <http://example.org/p> "o" "g" .`,
		"trailing content":       `<http://example.org/s> <http://example.org/p> "o" . x`,
		"quoted triple":          `<< <http://example.org/s> <http://example.org/p> "o" >> <http://example.org/p> "o" .`,
		"bad escape":             `<http://example.org/s> <http://example.org/p> "\q" .`,
		"langString without tag": `<http://example.org/s> <http://example.org/p> "o"^^<http://www.w3.org/1999/02/22-rdf-syntax-ns#langString> .`,
		"empty language tag":     `<http://example.org/s> <http://example.org/p> "o"@ .`,
		"missing blank label":    `_: <http://example.org/p> "o" .`,
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := decodeAll(t, input, FormatNQuads)
			if err == nil {
				t.Fatal("expected error")
			}
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected ParseError, got %T", err)
			}
			if parseErr.Line != 1 {
				t.Fatalf("expected line 1, got %d", parseErr.Line)
			}
		})
	}
}

func TestNQuadsDecodeErrorReportsColumn(t *testing.T) {
	_, err := decodeAll(t, "\n<http://example.org/s> <http://example.org/p> \"o\" x .\n", FormatNQuads)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if parseErr.Line != 2 || parseErr.Column != 51 {
		t.Fatalf("unexpected position %d:%d", parseErr.Line, parseErr.Column)
	}
	if !strings.Contains(err.Error(), "nquads:2:51") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestNTriplesRejectsGraph(t *testing.T) {
	_, err := decodeAll(t, `<http://example.org/s> <http://example.org/p> "o" <http://example.org/g> .`, FormatNTriples)
	if err == nil {
		t.Fatal("expected graph term to be rejected in N-Triples")
	}
	quads, err := decodeAll(t, `<http://example.org/s> <http://example.org/p> "o" .`, FormatNTriples)
	if err != nil || len(quads) != 1 {
		t.Fatalf("unexpected result %v %v", quads, err)
	}
}

func TestNQuadsDecoderStickyError(t *testing.T) {
	dec, err := NewQuadDecoder(strings.NewReader("bad\n<http://example.org/s> <http://example.org/p> \"o\" .\n"), FormatNQuads)
	if err != nil {
		t.Fatalf("decoder error: %v", err)
	}
	_, first := dec.Next()
	_, second := dec.Next()
	if first == nil || first != second || dec.Err() != first {
		t.Fatalf("expected sticky error, got %v then %v", first, second)
	}
}

func TestNQuadsEncoderRoundTrip(t *testing.T) {
	quads := []Quad{
		{S: IRI{Value: "http://example.org/s"}, P: IRI{Value: "http://example.org/p"}, O: Literal{Lexical: "line\nbreak \"q\" \x01"}},
		{S: BlankNode{ID: "b"}, P: IRI{Value: "http://example.org/p"}, O: Literal{Lexical: "hi", Lang: "en"}, G: IRI{Value: "http://example.org/g"}},
		{S: BlankNode{ID: "b"}, P: IRI{Value: "http://example.org/p"}, O: Literal{Lexical: "1", Datatype: IRI{Value: "http://www.w3.org/2001/XMLSchema#integer"}}, G: DefaultGraph{}},
	}
	var buf bytes.Buffer
	enc, err := NewQuadEncoder(&buf, FormatNQuads)
	if err != nil {
		t.Fatalf("encoder error: %v", err)
	}
	for _, q := range quads {
		if err := enc.Write(q); err != nil {
			t.Fatalf("write error: %v", err)
		}
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close error: %v", err)
	}

	want := `<http://example.org/s> <http://example.org/p> "line\nbreak \"q\" \u0001" .
_:b <http://example.org/p> "hi"@en <http://example.org/g> .
_:b <http://example.org/p> "1"^^<http://www.w3.org/2001/XMLSchema#integer> .
`
	if buf.String() != want {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}

	decoded, err := decodeAll(t, buf.String(), FormatNQuads)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	for i := range quads {
		if decoded[i] != quads[i].normalize() {
			t.Fatalf("quad %d: expected %#v, got %#v", i, quads[i], decoded[i])
		}
	}
}

func TestNTriplesEncoderDropsGraph(t *testing.T) {
	var buf bytes.Buffer
	enc, err := NewQuadEncoder(&buf, FormatNTriples)
	if err != nil {
		t.Fatalf("encoder error: %v", err)
	}
	q := Quad{S: BlankNode{ID: "b"}, P: IRI{Value: "http://example.org/p"}, O: BlankNode{ID: "c"}, G: IRI{Value: "http://example.org/g"}}
	if err := enc.Write(q); err != nil {
		t.Fatalf("write error: %v", err)
	}
	_ = enc.Flush()
	if buf.String() != "_:b <http://example.org/p> _:c .\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
	if err := enc.Write(Quad{}); !errors.Is(err, ErrMalformedTerm) {
		t.Fatalf("expected malformed term error, got %v", err)
	}
}

func TestEscapeLiteral(t *testing.T) {
	cases := map[string]string{
		"plain":          "plain",
		"tab\there":      `tab\there`,
		"quote\"":        `quote\"`,
		"back\\slash":    `back\\slash`,
		"\b\f\r\n":       `\b\f\r\n`,
		"\x00\x1f\x7f":   `\u0000\u001F\u007F`,
		"unicode é 😀":    "unicode é 😀",
	}
	for in, want := range cases {
		if got := EscapeLiteral(in); got != want {
			t.Fatalf("EscapeLiteral(%q) = %q, want %q", in, got, want)
		}
	}
}
