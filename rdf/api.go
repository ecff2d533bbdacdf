package rdf

import (
	"context"
	"fmt"
	"io"
)

const (
	// DefaultMaxLineBytes bounds a single N-Quads line.
	DefaultMaxLineBytes = 1 << 20
	// DefaultMaxQuads disables the quad count limit.
	DefaultMaxQuads = 0
)

// Option configures reader/writer behavior.
type Option func(*Options)

// Options configures decoder behavior.
type Options struct {
	// Context for cancellation and timeouts
	Context context.Context

	// Security limits for untrusted input
	MaxLineBytes int
	MaxQuads     int64

	// StrictIRIValidation rejects relative IRIs and IRIs with forbidden characters.
	StrictIRIValidation bool

	// JSONLD configures the JSON-LD adapter.
	JSONLD JSONLDOptions
}

// NewQuadDecoder creates a decoder for a line-based format (N-Quads or N-Triples).
// JSON-LD documents are not line based; use ParseJSONLD or ParseDataset for them.
func NewQuadDecoder(r io.Reader, format Format, opts ...Option) (QuadDecoder, error) {
	options := buildOptions(opts)
	switch format {
	case FormatNQuads, FormatNTriples:
		return newLineDecoder(r, format, options), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// NewQuadEncoder creates an encoder for N-Quads or N-Triples.
func NewQuadEncoder(w io.Writer, format Format) (QuadEncoder, error) {
	switch format {
	case FormatNQuads, FormatNTriples:
		return newLineEncoder(w, format), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// ParseDataset reads a whole document into a Dataset.
// If ctx is nil, context.Background() is used.
func ParseDataset(ctx context.Context, r io.Reader, format Format, opts ...Option) (*Dataset, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	options := buildOptions(opts)
	options.Context = ctx

	if format == FormatJSONLD {
		jsonldOpts := options.JSONLD
		jsonldOpts.Context = ctx
		if jsonldOpts.MaxQuads == 0 {
			jsonldOpts.MaxQuads = options.MaxQuads
		}
		return ParseJSONLD(ctx, r, jsonldOpts)
	}

	if format != FormatNQuads && format != FormatNTriples {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	dec := newLineDecoder(r, format, options)
	defer dec.Close()

	ds := &Dataset{}
	for {
		quad, err := dec.Next()
		if err == io.EOF {
			return ds, nil
		}
		if err != nil {
			return nil, err
		}
		if _, err := ds.Add(quad); err != nil {
			return nil, err
		}
	}
}

// ParseNQuads reads an N-Quads document into a Dataset.
func ParseNQuads(ctx context.Context, r io.Reader, opts ...Option) (*Dataset, error) {
	return ParseDataset(ctx, r, FormatNQuads, opts...)
}

// WriteNQuads writes every quad of ds to w in insertion order.
func WriteNQuads(w io.Writer, ds *Dataset) error {
	enc := newLineEncoder(w, FormatNQuads)
	for _, q := range ds.Quads() {
		if err := enc.Write(q); err != nil {
			return err
		}
	}
	return enc.Close()
}

// Option helpers

// OptContext sets the context for cancellation and timeouts.
func OptContext(ctx context.Context) Option {
	return func(opts *Options) {
		opts.Context = ctx
	}
}

// OptMaxLineBytes sets the maximum line size limit.
func OptMaxLineBytes(maxBytes int) Option {
	return func(opts *Options) {
		opts.MaxLineBytes = maxBytes
	}
}

// OptMaxQuads sets the maximum number of quads to read. Zero means unlimited.
func OptMaxQuads(maxQuads int64) Option {
	return func(opts *Options) {
		opts.MaxQuads = maxQuads
	}
}

// OptSafeLimits applies limits suitable for untrusted input.
func OptSafeLimits() Option {
	return func(opts *Options) {
		opts.MaxLineBytes = 64 << 10
		opts.MaxQuads = 1_000_000
		opts.JSONLD.MaxInputBytes = 16 << 20
	}
}

// OptStrictIRIValidation enables ValidateIRI on every IRI read.
func OptStrictIRIValidation() Option {
	return func(opts *Options) {
		opts.StrictIRIValidation = true
	}
}

// OptJSONLD sets the options used when the input is JSON-LD.
func OptJSONLD(jsonld JSONLDOptions) Option {
	return func(opts *Options) {
		opts.JSONLD = jsonld
	}
}

func defaultOptions() Options {
	return Options{
		MaxLineBytes: DefaultMaxLineBytes,
		MaxQuads:     DefaultMaxQuads,
	}
}

func buildOptions(opts []Option) Options {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
