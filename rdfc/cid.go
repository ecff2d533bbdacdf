package rdfc

import (
	"context"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"

	"github.com/geoknoesis/rdfc-go/rdf"
)

// CID returns the CIDv1 (raw codec, sha2-256 multihash) of canonical output.
func CID(canonical string) (cid.Cid, error) {
	sum, err := multihash.Sum([]byte(canonical), multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

// DatasetCID canonicalizes ds with algorithm and returns the CID of the result.
func DatasetCID(ctx context.Context, ds *rdf.Dataset, algorithm string, opts ...Option) (cid.Cid, error) {
	canonical, err := CanonizeContext(ctx, ds, algorithm, opts...)
	if err != nil {
		return cid.Undef, err
	}
	return CID(canonical)
}
