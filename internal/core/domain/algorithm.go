// Package domain defines the core types shared by the hashing engine.
package domain

import (
	"fmt"
	"strings"
)

// Algorithm identifies one of the supported digest algorithms.
// The set is closed; anything outside it is rejected with ErrUnsupportedAlgorithm.
type Algorithm string

const (
	MD5    Algorithm = "MD5"    // 128-bit digest.
	SHA1   Algorithm = "SHA1"   // 160-bit digest.
	SHA224 Algorithm = "SHA224" // 224-bit SHA-2 digest.
	SHA256 Algorithm = "SHA256" // 256-bit SHA-2 digest.
	SHA384 Algorithm = "SHA384" // 384-bit SHA-2 digest.
	SHA512 Algorithm = "SHA512" // 512-bit SHA-2 digest.
	SHA3   Algorithm = "SHA3"   // SHA3-256, 256-bit Keccak based digest.
)

// DefaultAlgorithm is selected by a fresh or reset workflow.
const DefaultAlgorithm = MD5

var algorithms = []Algorithm{MD5, SHA1, SHA224, SHA256, SHA384, SHA512, SHA3}

var digestSizes = map[Algorithm]int{
	MD5:    16,
	SHA1:   20,
	SHA224: 28,
	SHA256: 32,
	SHA384: 48,
	SHA512: 64,
	SHA3:   32,
}

// Algorithms returns every supported algorithm in display order.
func Algorithms() []Algorithm {
	out := make([]Algorithm, len(algorithms))
	copy(out, algorithms)
	return out
}

// ParseAlgorithm accepts the canonical names as well as lower-case and
// dashed spellings such as "sha-256" or "sha3-256".
func ParseAlgorithm(name string) (Algorithm, error) {
	normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(name), "-", ""))
	if normalized == "SHA3256" {
		normalized = string(SHA3)
	}

	alg := Algorithm(normalized)
	if !alg.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, name)
	}
	return alg, nil
}

// String returns the canonical name of the algorithm.
func (a Algorithm) String() string {
	return string(a)
}

// IsValid reports whether a is part of the supported set.
func (a Algorithm) IsValid() bool {
	_, ok := digestSizes[a]
	return ok
}

// DigestSize returns the digest length in bytes, or 0 for an unknown algorithm.
func (a Algorithm) DigestSize() int {
	return digestSizes[a]
}

// HexLength returns the length of the lowercase hex encoding of the digest.
func (a Algorithm) HexLength() int {
	return a.DigestSize() * 2
}
