package rdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrorCode represents a programmatic error code for error handling.
type ErrorCode string

const (
	// ErrCodeUnsupportedFormat indicates an unsupported format.
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	// ErrCodeLineTooLong indicates a line exceeded the configured limit.
	ErrCodeLineTooLong ErrorCode = "LINE_TOO_LONG"
	// ErrCodeQuadLimitExceeded indicates that the maximum number of quads was exceeded.
	ErrCodeQuadLimitExceeded ErrorCode = "QUAD_LIMIT_EXCEEDED"
	// ErrCodeParseError indicates a general parse error.
	ErrCodeParseError ErrorCode = "PARSE_ERROR"
	// ErrCodeContextCanceled indicates the context was canceled.
	ErrCodeContextCanceled ErrorCode = "CONTEXT_CANCELED"
	// ErrCodeMalformedTerm indicates a term that violates the data model.
	ErrCodeMalformedTerm ErrorCode = "MALFORMED_TERM"
)

var (
	// ErrUnsupportedFormat indicates an unsupported format.
	ErrUnsupportedFormat = errors.New("unsupported RDF format")
	// ErrLineTooLong indicates a line exceeded the configured limit.
	ErrLineTooLong = errors.New("rdf: line exceeds configured limit")
	// ErrQuadLimitExceeded indicates that the maximum number of quads was exceeded.
	ErrQuadLimitExceeded = errors.New("rdf: maximum number of quads exceeded")
	// ErrMalformedTerm is matched by every *MalformedTermError.
	ErrMalformedTerm = errors.New("rdf: malformed term")
)

// MalformedTermError reports a term rejected at construction or validation.
type MalformedTermError struct {
	Term   string // Rendering of the offending term (may be empty)
	Reason string
}

func (e *MalformedTermError) Error() string {
	if e.Term == "" {
		return "rdf: malformed term: " + e.Reason
	}
	return fmt.Sprintf("rdf: malformed term %s: %s", e.Term, e.Reason)
}

// Is makes errors.Is(err, ErrMalformedTerm) hold for any MalformedTermError.
func (e *MalformedTermError) Is(target error) bool { return target == ErrMalformedTerm }

func malformed(term, reason string) error {
	return &MalformedTermError{Term: term, Reason: reason}
}

// Code returns the error code for an error, or ErrCodeParseError if unknown.
// Returns empty string for nil errors or io.EOF (which is not an error condition).
func Code(err error) ErrorCode {
	if err == nil || err == io.EOF {
		return ""
	}

	switch {
	case errors.Is(err, ErrUnsupportedFormat):
		return ErrCodeUnsupportedFormat
	case errors.Is(err, ErrLineTooLong):
		return ErrCodeLineTooLong
	case errors.Is(err, ErrQuadLimitExceeded):
		return ErrCodeQuadLimitExceeded
	case errors.Is(err, ErrMalformedTerm):
		return ErrCodeMalformedTerm
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrCodeContextCanceled
	}
	return ErrCodeParseError
}

// ParseError provides structured context for parse failures.
type ParseError struct {
	Format    string // Format name (e.g., "nquads", "jsonld")
	Statement string // Offending statement or input excerpt
	Line      int    // 1-based line number (0 if unknown)
	Column    int    // 1-based column number (0 if unknown)
	Err       error  // Underlying error
}

func (e *ParseError) Error() string {
	var msg strings.Builder
	msg.WriteString(e.Format)
	if e.Line > 0 {
		if e.Column > 0 {
			fmt.Fprintf(&msg, ":%d:%d", e.Line, e.Column)
		} else {
			fmt.Fprintf(&msg, ":%d", e.Line)
		}
	}
	msg.WriteString(": ")
	msg.WriteString(e.Err.Error())
	if excerpt := e.formatExcerpt(); excerpt != "" {
		msg.WriteString("\n  ")
		msg.WriteString(excerpt)
	}
	return msg.String()
}

// formatExcerpt shows the statement around the error column with a caret.
func (e *ParseError) formatExcerpt() string {
	if e.Statement == "" {
		return ""
	}
	const maxExcerptLen = 80
	const contextLen = 40

	if e.Column <= 0 {
		if len(e.Statement) > maxExcerptLen {
			return e.Statement[:maxExcerptLen] + "..."
		}
		return e.Statement
	}

	start := e.Column - 1
	excerptStart := max(start-contextLen, 0)
	excerptEnd := min(start+contextLen, len(e.Statement))
	if excerptStart > excerptEnd {
		excerptStart = excerptEnd
	}
	excerpt := e.Statement[excerptStart:excerptEnd]
	caretPos := start - excerptStart
	if excerptStart > 0 {
		excerpt = "..." + excerpt
		caretPos += 3
	}
	if excerptEnd < len(e.Statement) {
		excerpt += "..."
	}
	caretPos = max(min(caretPos, len(excerpt)-1), 0)
	return excerpt + "\n  " + strings.Repeat(" ", caretPos) + "^"
}

func (e *ParseError) Unwrap() error { return e.Err }

// wrapParseError adds format/statement/position context to a parse error.
// Position information already present on a nested ParseError wins.
func wrapParseError(format, statement string, line, column int, err error) error {
	if err == nil {
		return nil
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		if line == 0 {
			line = parseErr.Line
		}
		if column == 0 {
			column = parseErr.Column
		}
		err = parseErr.Err
	}
	return &ParseError{Format: format, Statement: statement, Line: line, Column: column, Err: err}
}
