package rdfc

import (
	"fmt"

	"github.com/geoknoesis/rdfc-go/rdf"
)

// Relabel returns a copy of ds with every blank node renamed through mapping,
// typically Result.IssuedIdentifiers. A blank node missing from mapping is an
// error.
func Relabel(ds *rdf.Dataset, mapping map[string]string) (*rdf.Dataset, error) {
	rename := func(term rdf.Term) (rdf.Term, error) {
		b, ok := term.(rdf.BlankNode)
		if !ok {
			return term, nil
		}
		id, ok := mapping[b.ID]
		if !ok {
			return nil, fmt.Errorf("rdfc: relabel: no identifier for blank node _:%s", b.ID)
		}
		return rdf.BlankNode{ID: id}, nil
	}

	out, err := rdf.NewDataset()
	if err != nil {
		return nil, err
	}
	for _, q := range ds.Quads() {
		s, err := rename(q.S)
		if err != nil {
			return nil, err
		}
		o, err := rename(q.O)
		if err != nil {
			return nil, err
		}
		g, err := rename(q.G)
		if err != nil {
			return nil, err
		}
		q.S, q.O, q.G = s, o, g
		if _, err := out.Add(q); err != nil {
			return nil, err
		}
	}
	return out, nil
}
