package rdf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// QuadDecoder streams quads from an input.
type QuadDecoder interface {
	// Next returns the next quad, or io.EOF when the input is exhausted.
	Next() (Quad, error)
	// Err returns the first non-EOF error encountered.
	Err() error
	Close() error
}

// QuadEncoder streams quads to an output.
type QuadEncoder interface {
	Write(Quad) error
	Flush() error
	Close() error
}

type ntDecoder struct {
	scanner *bufio.Scanner
	opts    Options
	format  Format
	line    int
	count   int64
	err     error
}

func newLineDecoder(r io.Reader, format Format, opts Options) *ntDecoder {
	scanner := bufio.NewScanner(r)
	limit := opts.MaxLineBytes
	if limit <= 0 {
		limit = DefaultMaxLineBytes
	}
	scanner.Buffer(make([]byte, 0, min(limit, 64*1024)), limit)
	return &ntDecoder{scanner: scanner, opts: opts, format: format}
}

func (d *ntDecoder) Next() (Quad, error) {
	if d.err != nil {
		return Quad{}, d.err
	}
	for {
		if ctx := d.opts.Context; ctx != nil && ctx.Err() != nil {
			d.err = ctx.Err()
			return Quad{}, d.err
		}
		if !d.scanner.Scan() {
			err := d.scanner.Err()
			if err == nil {
				return Quad{}, io.EOF
			}
			if errors.Is(err, bufio.ErrTooLong) {
				err = ErrLineTooLong
			}
			d.err = wrapParseError(string(d.format), "", d.line+1, 0, err)
			return Quad{}, d.err
		}
		d.line++
		line := strings.TrimSpace(d.scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		quad, err := parseNTLine(line, d.format)
		if err == nil && d.opts.StrictIRIValidation {
			err = ValidateQuadIRIs(quad)
		}
		if err != nil {
			column := 0
			var cursorErr *cursorError
			if errors.As(err, &cursorErr) {
				column = cursorErr.pos + 1
			}
			d.err = wrapParseError(string(d.format), line, d.line, column, err)
			return Quad{}, d.err
		}
		d.count++
		if d.opts.MaxQuads > 0 && d.count > d.opts.MaxQuads {
			d.err = wrapParseError(string(d.format), "", d.line, 0, ErrQuadLimitExceeded)
			return Quad{}, d.err
		}
		return quad, nil
	}
}

func (d *ntDecoder) Err() error { return d.err }

func (d *ntDecoder) Close() error { return nil }

func parseNTLine(line string, format Format) (Quad, error) {
	cursor := &ntCursor{input: line}
	subject, err := cursor.parseTerm(false)
	if err != nil {
		return Quad{}, err
	}
	predicate, err := cursor.parseIRI()
	if err != nil {
		return Quad{}, err
	}
	object, err := cursor.parseTerm(true)
	if err != nil {
		return Quad{}, err
	}

	var graph Term
	cursor.skipWS()
	if cursor.pos < len(cursor.input) && cursor.input[cursor.pos] != '.' {
		if format != FormatNQuads {
			return Quad{}, cursor.errorf("graph term not allowed in N-Triples")
		}
		graph, err = cursor.parseTerm(false)
		if err != nil {
			return Quad{}, err
		}
	}
	if !cursor.consume('.') {
		return Quad{}, cursor.errorf("expected '.' at end of statement")
	}
	cursor.skipWS()
	if cursor.pos < len(cursor.input) && cursor.input[cursor.pos] != '#' {
		return Quad{}, cursor.errorf("unexpected content after '.'")
	}
	return NewQuad(subject, predicate, object, graph)
}

// cursorError carries the byte offset where parsing failed.
type cursorError struct {
	pos int
	msg string
}

func (e *cursorError) Error() string { return e.msg }

type ntCursor struct {
	input string
	pos   int
}

func (c *ntCursor) skipWS() {
	for c.pos < len(c.input) {
		switch c.input[c.pos] {
		case ' ', '\t', '\r', '\n':
			c.pos++
		default:
			return
		}
	}
}

func (c *ntCursor) consume(ch byte) bool {
	c.skipWS()
	if c.pos < len(c.input) && c.input[c.pos] == ch {
		c.pos++
		return true
	}
	return false
}

func (c *ntCursor) parseTerm(allowLiteral bool) (Term, error) {
	c.skipWS()
	if c.pos >= len(c.input) {
		return nil, c.errorf("unexpected end of line")
	}
	switch {
	case strings.HasPrefix(c.input[c.pos:], "<<"):
		return nil, c.errorf("quoted triples are not supported")
	case c.input[c.pos] == '<':
		iri, err := c.parseIRI()
		return iri, err
	case strings.HasPrefix(c.input[c.pos:], "_:"):
		blank, err := c.parseBlankNode()
		return blank, err
	case c.input[c.pos] == '"':
		if !allowLiteral {
			return nil, c.errorf("literal not allowed here")
		}
		lit, err := c.parseLiteral()
		return lit, err
	default:
		return nil, c.errorf("unexpected token")
	}
}

func (c *ntCursor) parseIRI() (IRI, error) {
	if !c.consume('<') {
		return IRI{}, c.errorf("expected IRI")
	}
	var builder strings.Builder
	for c.pos < len(c.input) {
		ch := c.input[c.pos]
		switch ch {
		case '>':
			c.pos++
			if builder.Len() == 0 {
				return IRI{}, c.errorf("empty IRI")
			}
			return IRI{Value: builder.String()}, nil
		case '\\':
			r, err := c.parseUCHAR()
			if err != nil {
				return IRI{}, err
			}
			if r <= 0x20 || strings.ContainsRune("<>\"{}|^`\\", r) {
				return IRI{}, c.errorf("escaped character %U not allowed in IRI", r)
			}
			builder.WriteRune(r)
		case ' ', '<', '"':
			return IRI{}, c.errorf("invalid character %q in IRI", ch)
		default:
			builder.WriteByte(ch)
			c.pos++
		}
	}
	return IRI{}, c.errorf("unterminated IRI")
}

func (c *ntCursor) parseBlankNode() (BlankNode, error) {
	c.pos += 2
	start := c.pos
	for c.pos < len(c.input) {
		ch := c.input[c.pos]
		if ch == '.' {
			// A dot is part of the label unless it ends the label.
			if c.pos+1 < len(c.input) && !isTermDelimiter(c.input[c.pos+1]) {
				c.pos++
				continue
			}
			break
		}
		if isTermDelimiter(ch) || ch == '<' || ch == '"' {
			break
		}
		c.pos++
	}
	if start == c.pos {
		return BlankNode{}, c.errorf("blank node id missing")
	}
	return BlankNode{ID: c.input[start:c.pos]}, nil
}

func (c *ntCursor) parseLiteral() (Literal, error) {
	if !c.consume('"') {
		return Literal{}, c.errorf("expected literal")
	}
	var builder strings.Builder
	closed := false
	for c.pos < len(c.input) && !closed {
		ch := c.input[c.pos]
		switch ch {
		case '"':
			c.pos++
			closed = true
		case '\\':
			if c.pos+1 >= len(c.input) {
				return Literal{}, c.errorf("unterminated escape")
			}
			switch next := c.input[c.pos+1]; next {
			case 'u', 'U':
				r, err := c.parseUCHAR()
				if err != nil {
					return Literal{}, err
				}
				builder.WriteRune(r)
				continue
			case 't':
				builder.WriteByte('\t')
			case 'b':
				builder.WriteByte('\b')
			case 'n':
				builder.WriteByte('\n')
			case 'r':
				builder.WriteByte('\r')
			case 'f':
				builder.WriteByte('\f')
			case '"', '\'', '\\':
				builder.WriteByte(next)
			default:
				return Literal{}, c.errorf("invalid escape \\%c", next)
			}
			c.pos += 2
		default:
			builder.WriteByte(ch)
			c.pos++
		}
	}
	if !closed {
		return Literal{}, c.errorf("unterminated literal")
	}
	lexical := builder.String()
	if strings.HasPrefix(c.input[c.pos:], "@") {
		c.pos++
		start := c.pos
		for c.pos < len(c.input) && !isTermDelimiter(c.input[c.pos]) {
			c.pos++
		}
		if start == c.pos {
			return Literal{}, c.errorf("empty language tag")
		}
		return NewLiteral(lexical, "", c.input[start:c.pos])
	}
	if strings.HasPrefix(c.input[c.pos:], "^^") {
		c.pos += 2
		dt, err := c.parseIRI()
		if err != nil {
			return Literal{}, err
		}
		return NewLiteral(lexical, dt.Value, "")
	}
	return Literal{Lexical: lexical}, nil
}

// parseUCHAR decodes \uXXXX or \UXXXXXXXX at the cursor.
func (c *ntCursor) parseUCHAR() (rune, error) {
	if c.pos+1 >= len(c.input) {
		return 0, c.errorf("unterminated escape")
	}
	width := 0
	switch c.input[c.pos+1] {
	case 'u':
		width = 4
	case 'U':
		width = 8
	default:
		return 0, c.errorf("invalid escape \\%c", c.input[c.pos+1])
	}
	start := c.pos + 2
	if start+width > len(c.input) {
		return 0, c.errorf("truncated unicode escape")
	}
	code, err := strconv.ParseUint(c.input[start:start+width], 16, 32)
	if err != nil || !utf8.ValidRune(rune(code)) {
		return 0, c.errorf("invalid unicode escape %q", c.input[c.pos:start+width])
	}
	c.pos = start + width
	return rune(code), nil
}

func (c *ntCursor) errorf(format string, args ...interface{}) error {
	return &cursorError{pos: c.pos, msg: fmt.Sprintf(format, args...)}
}

func isTermDelimiter(ch byte) bool {
	switch ch {
	case ' ', '\t', '\r', '\n', '.':
		return true
	default:
		return false
	}
}

type ntEncoder struct {
	writer *bufio.Writer
	format Format
	err    error
}

func newLineEncoder(w io.Writer, format Format) *ntEncoder {
	return &ntEncoder{writer: bufio.NewWriter(w), format: format}
}

func (e *ntEncoder) Write(q Quad) error {
	if e.err != nil {
		return e.err
	}
	if err := q.Validate(); err != nil {
		return err
	}
	line := renderTerm(q.S) + " " + renderTerm(q.P) + " " + renderTerm(q.O)
	if e.format == FormatNQuads && !q.InDefaultGraph() {
		line += " " + renderTerm(q.G)
	}
	line += " .\n"
	if _, err := e.writer.WriteString(line); err != nil {
		e.err = err
		return err
	}
	return nil
}

func (e *ntEncoder) Flush() error {
	if e.err != nil {
		return e.err
	}
	return e.writer.Flush()
}

func (e *ntEncoder) Close() error {
	return e.Flush()
}

func renderTerm(term Term) string {
	switch value := term.(type) {
	case IRI:
		return "<" + value.Value + ">"
	case BlankNode:
		return value.String()
	case Literal:
		out := `"` + EscapeLiteral(value.Lexical) + `"`
		if value.Lang != "" {
			return out + "@" + value.Lang
		}
		if dt := value.DatatypeIRI(); dt != XSDString {
			return out + "^^<" + dt + ">"
		}
		return out
	default:
		return ""
	}
}

// EscapeLiteral escapes a lexical form for N-Quads output using ECHAR for
// \b \t \n \f \r \" \\ and UCHAR for the remaining control characters.
// Other bytes, including invalid UTF-8, are copied unchanged.
func EscapeLiteral(s string) string {
	if !needsEscape(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		switch ch := s[i]; ch {
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
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if ch < 0x20 || ch == 0x7f {
				fmt.Fprintf(&b, `\u%04X`, ch)
			} else {
				b.WriteByte(ch)
			}
		}
	}
	return b.String()
}

func needsEscape(s string) bool {
	for i := 0; i < len(s); i++ {
		if ch := s[i]; ch < 0x20 || ch == 0x7f || ch == '"' || ch == '\\' {
			return true
		}
	}
	return false
}
