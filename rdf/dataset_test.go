package rdf

import (
	"errors"
	"reflect"
	"testing"
)

func TestDatasetDeduplicates(t *testing.T) {
	p := IRI{Value: "http://example.org/p"}
	a := Quad{S: BlankNode{ID: "a"}, P: p, O: Literal{Lexical: "v"}}
	sameAsA := Quad{S: BlankNode{ID: "a"}, P: p, O: Literal{Lexical: "v", Datatype: IRI{Value: XSDString}}, G: DefaultGraph{}}
	b := Quad{S: BlankNode{ID: "a"}, P: p, O: Literal{Lexical: "v"}, G: IRI{Value: "http://example.org/g"}}

	ds, err := NewDataset(a, sameAsA, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ds.Len() != 2 {
		t.Fatalf("expected 2 quads, got %d", ds.Len())
	}
	added, err := ds.Add(a)
	if err != nil || added {
		t.Fatalf("expected duplicate to be ignored, got added=%v err=%v", added, err)
	}
	if !ds.Contains(sameAsA) || !ds.Contains(b) {
		t.Fatal("expected dataset to contain both quads")
	}
	if ds.Contains(Quad{}) {
		t.Fatal("zero quad must not be contained")
	}
}

func TestDatasetRejectsInvalidQuads(t *testing.T) {
	_, err := NewDataset(Quad{S: Literal{Lexical: "x"}, P: IRI{Value: "http://example.org/p"}, O: Literal{Lexical: "v"}})
	if !errors.Is(err, ErrMalformedTerm) {
		t.Fatalf("expected malformed term error, got %v", err)
	}
}

func TestDatasetQuadsIsCopy(t *testing.T) {
	ds, err := NewDataset(Quad{S: BlankNode{ID: "a"}, P: IRI{Value: "http://example.org/p"}, O: BlankNode{ID: "b"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	quads := ds.Quads()
	quads[0].S = BlankNode{ID: "changed"}
	if ds.Quads()[0].S != (BlankNode{ID: "a"}) {
		t.Fatal("Quads must return a copy")
	}
}

func TestDatasetBlankNodes(t *testing.T) {
	p := IRI{Value: "http://example.org/p"}
	ds, err := NewDataset(
		Quad{S: BlankNode{ID: "z"}, P: p, O: BlankNode{ID: "a"}},
		Quad{S: IRI{Value: "http://example.org/s"}, P: p, O: Literal{Lexical: "v"}, G: BlankNode{ID: "g"}},
		Quad{S: BlankNode{ID: "a"}, P: p, O: BlankNode{ID: "a"}},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ds.BlankNodes(); !reflect.DeepEqual(got, []string{"a", "g", "z"}) {
		t.Fatalf("unexpected blank nodes %v", got)
	}
}

func TestNilDataset(t *testing.T) {
	var ds *Dataset
	if ds.Len() != 0 || ds.Quads() != nil || ds.BlankNodes() != nil || ds.Contains(Quad{}) {
		t.Fatal("nil dataset must behave as empty")
	}
	var zero Dataset
	if _, err := zero.Add(Quad{S: BlankNode{ID: "a"}, P: IRI{Value: "http://example.org/p"}, O: BlankNode{ID: "b"}}); err != nil {
		t.Fatalf("zero dataset must accept quads: %v", err)
	}
}
