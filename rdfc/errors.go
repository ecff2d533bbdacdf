package rdfc

import (
	"context"
	"errors"

	"github.com/geoknoesis/rdfc-go/rdf"
)

// ErrorCode represents a programmatic error code for canonicalization failures.
type ErrorCode string

const (
	// ErrCodeUnsupportedAlgorithm indicates an unrecognized algorithm identifier.
	ErrCodeUnsupportedAlgorithm ErrorCode = "UNSUPPORTED_ALGORITHM"
	// ErrCodeTooComplex indicates the N-degree exploration budget was exhausted.
	ErrCodeTooComplex ErrorCode = "TOO_COMPLEX"
	// ErrCodeAmbiguous indicates a tie that did not resolve to a single output.
	ErrCodeAmbiguous ErrorCode = "AMBIGUOUS"
	// ErrCodeMalformedTerm indicates an invalid term in the input dataset.
	ErrCodeMalformedTerm ErrorCode = "MALFORMED_TERM"
	// ErrCodeContextCanceled indicates the context was canceled or timed out.
	ErrCodeContextCanceled ErrorCode = "CONTEXT_CANCELED"
	// ErrCodeCanonicalization is used for any other failure.
	ErrCodeCanonicalization ErrorCode = "CANONICALIZATION_ERROR"
)

var (
	// ErrUnsupportedAlgorithm indicates an unrecognized algorithm identifier.
	ErrUnsupportedAlgorithm = errors.New("rdfc: unsupported algorithm")
	// ErrTooComplex indicates the configured exploration budget was exceeded
	// during N-degree hashing.
	ErrTooComplex = errors.New("rdfc: dataset too complex to canonicalize within budget")
	// ErrAmbiguous indicates that tied N-degree hashes produced different
	// outputs depending on the order they were committed in.
	ErrAmbiguous = errors.New("rdfc: ambiguous blank node ordering")
)

// Code returns the error code for err, or "" for nil.
func Code(err error) ErrorCode {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnsupportedAlgorithm):
		return ErrCodeUnsupportedAlgorithm
	case errors.Is(err, ErrTooComplex):
		return ErrCodeTooComplex
	case errors.Is(err, ErrAmbiguous):
		return ErrCodeAmbiguous
	case errors.Is(err, rdf.ErrMalformedTerm):
		return ErrCodeMalformedTerm
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrCodeContextCanceled
	default:
		return ErrCodeCanonicalization
	}
}
