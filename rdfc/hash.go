package rdfc

import (
	"encoding/hex"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/geoknoesis/rdfc-go/rdf"
)

// hashFirstDegree hashes the quads mentioning id, with id printed as _:a and
// every other blank node as _:z.
func (c *canonicalizer) hashFirstDegree(id string) string {
	indexes := c.byNode[id]
	labelFor := func(b rdf.BlankNode) string {
		if b.ID == id {
			return "a"
		}
		return "z"
	}
	lines := make([]string, 0, len(indexes))
	for _, qi := range indexes {
		lines = append(lines, serializeQuad(c.quads[qi], labelFor, c.profile))
	}
	slices.Sort(lines)

	h := c.alg.newHash()
	for _, line := range lines {
		io.WriteString(h, line)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// hashRelatedBlankNode hashes the relation between the node being hashed and
// related, which occurs at position ('s', 'o' or 'g') of q.
func (c *canonicalizer) hashRelatedBlankNode(related string, q rdf.Quad, iss *issuer, position byte) string {
	id, ok := c.canonical.lookup(related)
	if !ok {
		id, ok = iss.lookup(related)
	}
	var b strings.Builder
	b.WriteByte(position)
	if position != 'g' {
		b.WriteByte('<')
		b.WriteString(q.P.Value)
		b.WriteByte('>')
	}
	// Issued identifiers are written as blank node labels; the first-degree
	// hash fallback is written bare.
	if ok {
		b.WriteString("_:")
		b.WriteString(id)
	} else {
		b.WriteString(c.firstDegree[related])
	}
	return c.alg.hashString(b.String())
}

// ndegreeResult is the outcome of hashNDegreeQuads: the hash and the trial
// issuer holding the assignment that produced it.
type ndegreeResult struct {
	member string
	hash   string
	issuer *issuer
}

// hashNDegreeQuads computes the N-degree hash of id relative to the trial
// issuer iss. iss is never mutated; the returned issuer is a descendant clone.
func (c *canonicalizer) hashNDegreeQuads(id string, iss *issuer) (ndegreeResult, error) {
	if err := c.budget.spend(id); err != nil {
		return ndegreeResult{}, err
	}
	c.stats.ndegreeCalls.Add(1)

	related := c.relatedByHash(id, iss)
	hashes := make([]string, 0, len(related))
	for h := range related {
		hashes = append(hashes, h)
	}
	slices.Sort(hashes)

	md := c.alg.newHash()
	for _, relatedHash := range hashes {
		io.WriteString(md, relatedHash)

		var chosenPath string
		var chosenIssuer *issuer
		perms := newPermuter(related[relatedHash])
		for perm, ok := perms.next(); ok; perm, ok = perms.next() {
			c.stats.permutations.Add(1)
			path, trial, err := c.explorePermutation(perm, iss, chosenPath, chosenIssuer != nil)
			if err != nil {
				return ndegreeResult{}, err
			}
			if trial == nil {
				continue
			}
			if chosenIssuer == nil || path < chosenPath {
				chosenPath = path
				chosenIssuer = trial
			}
		}

		io.WriteString(md, chosenPath)
		iss = chosenIssuer
	}
	return ndegreeResult{member: id, hash: hex.EncodeToString(md.Sum(nil)), issuer: iss}, nil
}

// relatedByHash groups the blank nodes co-occurring with id by the hash of
// their relation to id. A node related through several quads is listed once
// per relation.
func (c *canonicalizer) relatedByHash(id string, iss *issuer) map[string][]string {
	related := make(map[string][]string)
	for _, qi := range c.byNode[id] {
		q := c.quads[qi]
		for _, comp := range [...]struct {
			term     rdf.Term
			position byte
		}{{q.S, 's'}, {q.O, 'o'}, {q.G, 'g'}} {
			b, ok := comp.term.(rdf.BlankNode)
			if !ok || b.ID == id {
				continue
			}
			h := c.hashRelatedBlankNode(b.ID, q, iss, comp.position)
			related[h] = append(related[h], b.ID)
		}
	}
	return related
}

// explorePermutation builds the path for one ordering of a related-node group.
// It returns a nil issuer when the path was pruned because it can no longer
// beat chosenPath.
func (c *canonicalizer) explorePermutation(perm []string, iss *issuer, chosenPath string, haveChosen bool) (string, *issuer, error) {
	trial := iss.clone()
	var path strings.Builder
	var recursion []string

	pruned := func() bool {
		return haveChosen && path.Len() >= len(chosenPath) && path.String() > chosenPath
	}

	for _, related := range perm {
		if id, ok := c.canonical.lookup(related); ok {
			path.WriteString("_:")
			path.WriteString(id)
		} else {
			if !trial.has(related) {
				recursion = append(recursion, related)
			}
			path.WriteString("_:")
			path.WriteString(trial.issue(related))
		}
		if pruned() {
			return "", nil, nil
		}
	}

	for _, related := range recursion {
		result, err := c.hashNDegreeQuads(related, trial)
		if err != nil {
			return "", nil, err
		}
		path.WriteString("_:")
		path.WriteString(trial.issue(related))
		path.WriteByte('<')
		path.WriteString(result.hash)
		path.WriteByte('>')
		trial = result.issuer
		if pruned() {
			return "", nil, nil
		}
	}
	return path.String(), trial, nil
}

// permuter yields the distinct permutations of a list in lexicographic order.
type permuter struct {
	items   []string
	started bool
	done    bool
}

func newPermuter(items []string) *permuter {
	sorted := slices.Clone(items)
	slices.Sort(sorted)
	return &permuter{items: sorted}
}

// next returns the next permutation. The slice is only valid until the
// following call.
func (p *permuter) next() ([]string, bool) {
	if p.done {
		return nil, false
	}
	if !p.started {
		p.started = true
		return p.items, true
	}
	items := p.items
	i := len(items) - 2
	for i >= 0 && items[i] >= items[i+1] {
		i--
	}
	if i < 0 {
		p.done = true
		return nil, false
	}
	j := len(items) - 1
	for items[j] <= items[i] {
		j--
	}
	items[i], items[j] = items[j], items[i]
	slices.Reverse(items[i+1:])
	return items, true
}

// deepBudget counts N-degree invocations per blank node.
type deepBudget struct {
	mu     sync.Mutex
	limit  int
	counts map[string]int
}

func newDeepBudget(limit int) *deepBudget {
	return &deepBudget{limit: limit, counts: make(map[string]int)}
}

func (b *deepBudget) spend(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := b.counts[id]
	if b.limit >= 0 && n > b.limit {
		return fmt.Errorf("%w: blank node %s exceeded %d deep iterations", ErrTooComplex, id, b.limit)
	}
	b.counts[id] = n + 1
	return nil
}
