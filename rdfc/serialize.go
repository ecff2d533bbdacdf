package rdfc

import (
	"slices"
	"strings"

	"github.com/geoknoesis/rdfc-go/rdf"
)

// labelFunc returns the label printed for a blank node, without "_:".
type labelFunc func(rdf.BlankNode) string

// escapeProfile selects how literal lexical forms are escaped.
type escapeProfile uint8

const (
	// escapeURDNA2015 escapes backslash, double quote, newline, carriage
	// return and tab only.
	escapeURDNA2015 escapeProfile = iota
	// escapeCanonical additionally escapes \b, \f and the remaining control
	// characters as \u00XX, following canonical N-Quads.
	escapeCanonical
)

const hexDigits = "0123456789ABCDEF"

// serializeQuad renders q as one canonical N-Quads line ending in " .\n".
// A default graph is omitted from the line.
func serializeQuad(q rdf.Quad, labelFor labelFunc, profile escapeProfile) string {
	var b strings.Builder
	b.Grow(128)
	writeTerm(&b, q.S, labelFor, profile)
	b.WriteByte(' ')
	writeTerm(&b, q.P, labelFor, profile)
	b.WriteByte(' ')
	writeTerm(&b, q.O, labelFor, profile)
	if !q.InDefaultGraph() {
		b.WriteByte(' ')
		writeTerm(&b, q.G, labelFor, profile)
	}
	b.WriteString(" .\n")
	return b.String()
}

func writeTerm(b *strings.Builder, term rdf.Term, labelFor labelFunc, profile escapeProfile) {
	switch t := term.(type) {
	case rdf.IRI:
		b.WriteByte('<')
		b.WriteString(t.Value)
		b.WriteByte('>')
	case rdf.BlankNode:
		b.WriteString("_:")
		b.WriteString(labelFor(t))
	case rdf.Literal:
		b.WriteByte('"')
		writeEscaped(b, t.Lexical, profile)
		b.WriteByte('"')
		if t.Lang != "" {
			b.WriteByte('@')
			b.WriteString(t.Lang)
		} else if dt := t.DatatypeIRI(); dt != rdf.XSDString {
			b.WriteString("^^<")
			b.WriteString(dt)
			b.WriteByte('>')
		}
	}
}

func writeEscaped(b *strings.Builder, s string, profile escapeProfile) {
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if profile == escapeCanonical && (ch < 0x20 || ch == 0x7f) {
				switch ch {
				case '\b':
					b.WriteString(`\b`)
				case '\f':
					b.WriteString(`\f`)
				default:
					b.WriteString(`\u00`)
					b.WriteByte(hexDigits[ch>>4])
					b.WriteByte(hexDigits[ch&0x0f])
				}
				continue
			}
			b.WriteByte(ch)
		}
	}
}

// canonicalLines serializes every quad with labelFor and sorts the lines by
// code point. Byte order of UTF-8 strings equals code point order.
func canonicalLines(quads []rdf.Quad, labelFor labelFunc, profile escapeProfile) []string {
	lines := make([]string, len(quads))
	for i, q := range quads {
		lines[i] = serializeQuad(q, labelFor, profile)
	}
	slices.Sort(lines)
	return lines
}
