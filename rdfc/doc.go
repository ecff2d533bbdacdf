// Package rdfc canonicalizes RDF datasets.
//
// Canonicalization relabels blank nodes deterministically so that two
// isomorphic datasets produce byte-identical N-Quads. The output is suitable
// for hashing and signing.
//
// Supported algorithms:
//
//   - URDNA2015: SHA-256, literal escaping limited to \\ \" \n \r \t
//   - RDFC-1.0: SHA-256, canonical N-Quads escaping
//   - RDFC-1.0-SHA384: as RDFC-1.0 with SHA-384
//
// Basic use:
//
//	out, err := rdfc.Canonize(ds, "URDNA2015")
//
// With options and the full result:
//
//	res, err := rdfc.Canonicalize(ctx, ds,
//	    rdfc.OptAlgorithm(rdfc.RDFC10),
//	    rdfc.OptWorkers(4),
//	    rdfc.OptMaxWorkFactor(2),
//	)
//	if err != nil {
//	    switch rdfc.Code(err) {
//	    case rdfc.ErrCodeTooComplex:
//	        // dataset exceeded the N-degree budget
//	    }
//	}
//	fmt.Print(res.NQuads)
//
// N-degree hashing is exponential on adversarial inputs. The per-node budget
// is blankNodes^MaxWorkFactor deep iterations unless MaxDeepIterations is set;
// exceeding it fails with ErrTooComplex rather than running unbounded.
package rdfc
