package rdf

import "sort"

// Dataset is a set of quads. Duplicates collapse on insertion; the insertion
// order is kept only so that iteration is reproducible for a given input and
// carries no meaning.
type Dataset struct {
	quads []Quad
	index map[Quad]struct{}
}

// NewDataset builds a dataset from quads, validating each one.
func NewDataset(quads ...Quad) (*Dataset, error) {
	ds := &Dataset{index: make(map[Quad]struct{}, len(quads))}
	for _, q := range quads {
		if _, err := ds.Add(q); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// Add validates and inserts q. It reports whether the quad was new.
func (d *Dataset) Add(q Quad) (bool, error) {
	if err := q.Validate(); err != nil {
		return false, err
	}
	if d.index == nil {
		d.index = make(map[Quad]struct{})
	}
	q = q.normalize()
	if _, ok := d.index[q]; ok {
		return false, nil
	}
	d.index[q] = struct{}{}
	d.quads = append(d.quads, q)
	return true, nil
}

// Contains reports whether an equal quad is in the dataset.
func (d *Dataset) Contains(q Quad) bool {
	if d == nil || q.Validate() != nil {
		return false
	}
	_, ok := d.index[q.normalize()]
	return ok
}

// Len returns the number of distinct quads.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.quads)
}

// Quads returns a copy of the quads in insertion order.
func (d *Dataset) Quads() []Quad {
	if d == nil {
		return nil
	}
	out := make([]Quad, len(d.quads))
	copy(out, d.quads)
	return out
}

// BlankNodes returns the distinct blank node labels in the dataset, sorted.
func (d *Dataset) BlankNodes() []string {
	if d == nil {
		return nil
	}
	seen := make(map[string]struct{})
	for _, q := range d.quads {
		for _, term := range [...]Term{q.S, q.O, q.G} {
			if b, ok := term.(BlankNode); ok {
				seen[b.ID] = struct{}{}
			}
		}
	}
	labels := make([]string, 0, len(seen))
	for id := range seen {
		labels = append(labels, id)
	}
	sort.Strings(labels)
	return labels
}
