// Package rdf provides the RDF term and quad model used by the canonicalizer,
// plus small input adapters for N-Quads, N-Triples and JSON-LD.
//
// Copyright 2026 Geoknoesis LLC (www.geoknoesis.com)
//
// Terms are comparable value types: IRI, BlankNode, Literal and DefaultGraph.
// Constructors (NewIRI, NewBlankNode, NewLiteral, NewQuad) reject terms that
// violate the data model with a *MalformedTermError; Quad.Validate applies the
// same rules to values built as struct literals.
//
// A Dataset is a set of quads. Duplicates collapse on Add, and a nil graph is
// normalized to DefaultGraph{}:
//
//	ds, err := rdf.NewDataset(
//	    rdf.Quad{S: rdf.BlankNode{ID: "a"}, P: rdf.IRI{Value: "http://ex/p"}, O: rdf.BlankNode{ID: "b"}},
//	)
//
// Reading documents:
//
//	ds, err := rdf.ParseDataset(ctx, r, rdf.FormatNQuads, rdf.OptSafeLimits())
//	if err != nil {
//	    // rdf.Code(err) classifies the failure
//	}
//
// JSON-LD input is converted with json-gold and then read back through the
// N-Quads decoder, so both paths apply the same validation.
//
// RDF-star quoted triples are not supported.
package rdf
