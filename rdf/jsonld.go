package rdf

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	ld "github.com/piprate/json-gold/ld"
)

// JSONLDOptions configures JSON-LD to RDF conversion.
type JSONLDOptions struct {
	// Context cancels JSON-LD decoding when done.
	Context context.Context
	// BaseIRI resolves relative IRIs.
	BaseIRI string
	// ProcessingMode controls JSON-LD version semantics: "json-ld-1.0" or "json-ld-1.1".
	ProcessingMode string
	// ExpandContext provides an external context for expansion.
	ExpandContext interface{}
	// ProduceGeneralizedRdf keeps blank node predicates. They are still
	// rejected when the quads are added to a Dataset.
	ProduceGeneralizedRdf bool
	// SafeMode toggles strict JSON-LD error handling.
	SafeMode bool

	// MaxInputBytes limits the size of JSON-LD input. Zero means unlimited.
	MaxInputBytes int64
	// MaxQuads limits the number of emitted quads. Zero means unlimited.
	MaxQuads int64
}

// ParseJSONLD converts a JSON-LD document into a Dataset.
//
// The document is expanded and converted by json-gold; its N-Quads
// serialization is read back through the N-Quads decoder so that both input
// paths apply the same term validation.
func ParseJSONLD(ctx context.Context, r io.Reader, opts JSONLDOptions) (*Dataset, error) {
	if ctx == nil {
		ctx = opts.Context
	}
	if ctx == nil {
		ctx = context.Background()
	}

	reader := r
	if opts.MaxInputBytes > 0 {
		reader = io.LimitReader(r, opts.MaxInputBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	if opts.MaxInputBytes > 0 && int64(len(data)) > opts.MaxInputBytes {
		return nil, wrapParseError("jsonld", "", 0, 0, fmt.Errorf("input exceeds %d bytes", opts.MaxInputBytes))
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, wrapParseError("jsonld", "", 0, 0, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	proc := ld.NewJsonLdProcessor()
	result, err := proc.ToRDF(doc, newJSONGoldOptions(opts))
	if err != nil {
		return nil, wrapParseError("jsonld", "", 0, 0, err)
	}
	dataset, ok := result.(*ld.RDFDataset)
	if !ok {
		return nil, fmt.Errorf("jsonld: unexpected ToRDF result %T", result)
	}
	serializer := &ld.NQuadRDFSerializer{}
	serialized, err := serializer.Serialize(dataset)
	if err != nil {
		return nil, wrapParseError("jsonld", "", 0, 0, err)
	}
	nquads, ok := serialized.(string)
	if !ok {
		return nil, fmt.Errorf("jsonld: unexpected N-Quads result %T", serialized)
	}
	return ParseNQuads(ctx, strings.NewReader(nquads), OptMaxQuads(opts.MaxQuads))
}

func newJSONGoldOptions(opts JSONLDOptions) *ld.JsonLdOptions {
	goldOpts := ld.NewJsonLdOptions(opts.BaseIRI)
	if opts.ProcessingMode != "" {
		goldOpts.ProcessingMode = opts.ProcessingMode
	}
	if opts.ExpandContext != nil {
		goldOpts.ExpandContext = opts.ExpandContext
	}
	goldOpts.ProduceGeneralizedRdf = opts.ProduceGeneralizedRdf
	goldOpts.SafeMode = opts.SafeMode
	return goldOpts
}
