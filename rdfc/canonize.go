package rdfc

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/geoknoesis/rdfc-go/rdf"
)

// Result is the outcome of a canonicalization call.
type Result struct {
	// Algorithm that produced the output.
	Algorithm Algorithm
	// NQuads is the canonical N-Quads document.
	NQuads string
	// IssuedIdentifiers maps input blank node labels to canonical labels
	// (without the "_:" prefix).
	IssuedIdentifiers map[string]string
	// Stats describes the work performed.
	Stats Stats
}

// Stats describes the work performed by one canonicalization call.
type Stats struct {
	Quads      int
	BlankNodes int
	// FirstDegreeHashes is the number of first-degree hashes computed.
	FirstDegreeHashes int
	// UniqueHashes is the number of blank nodes issued directly from a
	// unique first-degree hash.
	UniqueHashes int
	// NDegreeRounds is the number of shared-hash groups resolved.
	NDegreeRounds int
	// NDegreeCalls counts invocations of the N-degree hash, recursion included.
	NDegreeCalls int64
	// Permutations counts explored orderings of related blank nodes.
	Permutations int64
	// Ties counts equal N-degree hashes seen within a round.
	Ties int
	// TiesVerified reports whether a reversed-order run confirmed the output.
	TiesVerified bool
	Duration     time.Duration
}

// Canonize canonicalizes ds with the named algorithm and returns canonical
// N-Quads. It is CanonizeContext with a background context and default options.
func Canonize(ds *rdf.Dataset, algorithm string) (string, error) {
	return CanonizeContext(context.Background(), ds, algorithm)
}

// CanonizeContext canonicalizes ds with the named algorithm. The algorithm
// argument takes precedence over OptAlgorithm.
func CanonizeContext(ctx context.Context, ds *rdf.Dataset, algorithm string, opts ...Option) (string, error) {
	alg, err := ParseAlgorithm(algorithm)
	if err != nil {
		return "", err
	}
	res, err := Canonicalize(ctx, ds, append(slices.Clone(opts), OptAlgorithm(alg))...)
	if err != nil {
		return "", err
	}
	return res.NQuads, nil
}

// CanonizeQuads builds a dataset from quads and canonicalizes it.
func CanonizeQuads(ctx context.Context, quads []rdf.Quad, algorithm string, opts ...Option) (string, error) {
	ds, err := rdf.NewDataset(quads...)
	if err != nil {
		return "", err
	}
	return CanonizeContext(ctx, ds, algorithm, opts...)
}

// Canonicalize runs the canonicalization algorithm selected by the options
// and returns the full result. A nil dataset canonicalizes to empty output.
func Canonicalize(ctx context.Context, ds *rdf.Dataset, opts ...Option) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	options := buildOptions(opts)
	alg, err := ParseAlgorithm(string(options.Algorithm))
	if err != nil {
		return nil, err
	}
	options.Algorithm = alg

	ctx, span := startCanonicalizeSpan(ctx, alg, ds.Len())
	defer span.End()
	start := time.Now()

	res, err := canonicalize(ctx, ds, options)
	elapsed := time.Since(start)
	if res != nil {
		res.Stats.Duration = elapsed
	}
	finishCanonicalizeSpan(span, res, err)
	recordCanonicalizeMetrics(ctx, alg, elapsed, res, err)
	if err != nil {
		options.Logger.Debug("rdfc: canonicalization failed", "algorithm", alg, "error", err)
		return nil, err
	}
	return res, nil
}

func canonicalize(ctx context.Context, ds *rdf.Dataset, options Options) (*Result, error) {
	c, err := newCanonicalizer(ds, options)
	if err != nil {
		return nil, err
	}
	if err := c.computeFirstDegree(ctx); err != nil {
		return nil, err
	}

	run, err := c.resolve(ctx, false)
	if err != nil {
		return nil, err
	}
	output := c.serialize(run.canonical)

	verified := false
	if run.ties > 0 && options.VerifyTies {
		reversed, err := c.resolve(ctx, true)
		if err != nil {
			return nil, err
		}
		if c.serialize(reversed.canonical) != output {
			return nil, fmt.Errorf("%w: %d tied N-degree hashes produced order-dependent output", ErrAmbiguous, run.ties)
		}
		verified = true
	}

	return &Result{
		Algorithm:         options.Algorithm,
		NQuads:            output,
		IssuedIdentifiers: run.canonical.mapping(),
		Stats: Stats{
			Quads:             len(c.quads),
			BlankNodes:        len(c.nodes),
			FirstDegreeHashes: len(c.firstDegree),
			UniqueHashes:      run.unique,
			NDegreeRounds:     run.rounds,
			NDegreeCalls:      run.ndegreeCalls,
			Permutations:      run.permutations,
			Ties:              run.ties,
			TiesVerified:      verified,
		},
	}, nil
}

// canonicalizer holds the read-only indexes of one call plus the issuer of
// the resolution pass in progress.
type canonicalizer struct {
	alg     Algorithm
	profile escapeProfile
	opts    Options
	logger  *slog.Logger

	quads  []rdf.Quad
	byNode map[string][]int // blank node label -> indexes into quads
	nodes  []string         // blank node labels, sorted

	firstDegree map[string]string
	canonical   *issuer
	budget      *deepBudget

	stats struct {
		ndegreeCalls atomic.Int64
		permutations atomic.Int64
	}
}

func newCanonicalizer(ds *rdf.Dataset, options Options) (*canonicalizer, error) {
	quads := ds.Quads()
	byNode := make(map[string][]int)
	for i, q := range quads {
		if err := q.Validate(); err != nil {
			return nil, err
		}
		if options.StrictIRIs {
			if err := rdf.ValidateQuadIRIs(q); err != nil {
				return nil, err
			}
		}
		var seen [3]string
		n := 0
		for _, term := range [...]rdf.Term{q.S, q.O, q.G} {
			b, ok := term.(rdf.BlankNode)
			if !ok || slices.Contains(seen[:n], b.ID) {
				continue
			}
			seen[n] = b.ID
			n++
			byNode[b.ID] = append(byNode[b.ID], i)
		}
	}
	nodes := make([]string, 0, len(byNode))
	for id := range byNode {
		nodes = append(nodes, id)
	}
	slices.Sort(nodes)

	return &canonicalizer{
		alg:         options.Algorithm,
		profile:     options.Algorithm.escaping(),
		opts:        options,
		logger:      options.Logger,
		quads:       quads,
		byNode:      byNode,
		nodes:       nodes,
		firstDegree: make(map[string]string, len(nodes)),
	}, nil
}

// computeFirstDegree fills c.firstDegree for every blank node, fanning out
// over c.opts.Workers goroutines.
func (c *canonicalizer) computeFirstDegree(ctx context.Context) error {
	if len(c.nodes) == 0 {
		return nil
	}
	hashes := make([]string, len(c.nodes))
	if c.opts.Workers < 2 || len(c.nodes) < 2 {
		for i, id := range c.nodes {
			if i%256 == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			hashes[i] = c.hashFirstDegree(id)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(c.opts.Workers)
		for i, id := range c.nodes {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				hashes[i] = c.hashFirstDegree(id)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}
	for i, id := range c.nodes {
		c.firstDegree[id] = hashes[i]
	}
	c.logger.Debug("rdfc: first-degree hashes computed", "blank_nodes", len(c.nodes), "quads", len(c.quads))
	return nil
}

// resolution is the outcome of one issuance pass.
type resolution struct {
	canonical    *issuer
	unique       int
	rounds       int
	ties         int
	ndegreeCalls int64
	permutations int64
}

// resolve issues canonical identifiers: unique first-degree hashes first, in
// ascending hash order, then each shared-hash group through N-degree hashing.
// reverseTies commits tied N-degree results in reverse label order.
func (c *canonicalizer) resolve(ctx context.Context, reverseTies bool) (*resolution, error) {
	c.canonical = newIssuer(canonicalPrefix)
	c.budget = newDeepBudget(c.opts.deepIterationLimit(len(c.nodes)))
	c.stats.ndegreeCalls.Store(0)
	c.stats.permutations.Store(0)
	res := &resolution{canonical: c.canonical}

	groups := make(map[string][]string)
	for _, id := range c.nodes {
		h := c.firstDegree[id]
		groups[h] = append(groups[h], id)
	}
	hashes := make([]string, 0, len(groups))
	for h := range groups {
		hashes = append(hashes, h)
	}
	slices.Sort(hashes)

	var shared []string
	for _, h := range hashes {
		if len(groups[h]) == 1 {
			c.canonical.issue(groups[h][0])
			res.unique++
			continue
		}
		shared = append(shared, h)
	}

	for _, h := range shared {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		members := groups[h]
		if reverseTies {
			members = slices.Clone(members)
			slices.Reverse(members)
		}
		results, err := c.resolveGroup(ctx, members)
		if err != nil {
			return nil, err
		}
		res.rounds++
		for i, r := range results {
			if i > 0 && results[i-1].hash == r.hash {
				res.ties++
			}
			c.canonical.merge(r.issuer)
		}
		c.logger.Debug("rdfc: n-degree round committed",
			"first_degree_hash", h,
			"members", len(members),
			"results", len(results),
			"issued", c.canonical.size(),
		)
	}
	res.ndegreeCalls = c.stats.ndegreeCalls.Load()
	res.permutations = c.stats.permutations.Load()
	return res, nil
}

// resolveGroup computes the N-degree hash of every member of a shared-hash
// group that has no canonical identifier yet, each with a fresh temporary
// issuer, and returns the results sorted by hash. Equal hashes keep member
// order. The canonical issuer is only read here.
func (c *canonicalizer) resolveGroup(ctx context.Context, members []string) ([]ndegreeResult, error) {
	var pending []string
	for _, id := range members {
		if !c.canonical.has(id) {
			pending = append(pending, id)
		}
	}
	results := make([]ndegreeResult, len(pending))
	run := func(i int) error {
		trial := newIssuer(temporaryPrefix)
		trial.issue(pending[i])
		r, err := c.hashNDegreeQuads(pending[i], trial)
		if err != nil {
			return err
		}
		results[i] = r
		return nil
	}

	if c.opts.Workers < 2 || len(pending) < 2 {
		for i := range pending {
			if err := run(i); err != nil {
				return nil, err
			}
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(c.opts.Workers)
		for i := range pending {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				return run(i)
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	slices.SortStableFunc(results, func(a, b ndegreeResult) int {
		return strings.Compare(a.hash, b.hash)
	})
	return results, nil
}

// serialize emits every quad with canonical labels, sorted and concatenated.
func (c *canonicalizer) serialize(canonical *issuer) string {
	labelFor := func(b rdf.BlankNode) string {
		id, _ := canonical.lookup(b.ID)
		return id
	}
	return strings.Join(canonicalLines(c.quads, labelFor, c.profile), "")
}
