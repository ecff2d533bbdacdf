package rdfc

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"
)

// Algorithm identifies a canonicalization algorithm and its digest.
type Algorithm string

const (
	// URDNA2015 is the 2015 dataset normalization algorithm with SHA-256 and
	// the five-character literal escaping of its reference implementations.
	URDNA2015 Algorithm = "URDNA2015"
	// RDFC10 is RDF Dataset Canonicalization 1.0 with SHA-256 and canonical
	// N-Quads escaping.
	RDFC10 Algorithm = "RDFC-1.0"
	// RDFC10SHA384 is RDFC-1.0 with SHA-384 as the hash algorithm.
	RDFC10SHA384 Algorithm = "RDFC-1.0-SHA384"
)

// DefaultAlgorithm is used when no algorithm is configured.
const DefaultAlgorithm = URDNA2015

// Algorithms lists the supported identifiers.
func Algorithms() []Algorithm {
	return []Algorithm{URDNA2015, RDFC10, RDFC10SHA384}
}

// ParseAlgorithm resolves an algorithm identifier. Identifiers are matched
// exactly after trimming surrounding whitespace.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch alg := Algorithm(strings.TrimSpace(name)); alg {
	case URDNA2015, RDFC10, RDFC10SHA384:
		return alg, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, name)
	}
}

func (a Algorithm) String() string { return string(a) }

// newHash returns a fresh digest for the algorithm.
func (a Algorithm) newHash() hash.Hash {
	if a == RDFC10SHA384 {
		return sha512.New384()
	}
	return sha256.New()
}

func (a Algorithm) escaping() escapeProfile {
	if a == URDNA2015 {
		return escapeURDNA2015
	}
	return escapeCanonical
}

// hashString returns the hex digest of s.
func (a Algorithm) hashString(s string) string {
	h := a.newHash()
	h.Write([]byte(s))
	return hex.EncodeToString(h.Sum(nil))
}

// Digest returns the hex-encoded digest of canonical output using the
// algorithm's hash function.
func Digest(canonical string, alg Algorithm) string {
	return alg.hashString(canonical)
}
