package digest

import (
	"crypto/md5"  //nolint:gosec // MD5 is a user selectable checksum, not a security boundary
	"crypto/sha1" //nolint:gosec // same as above
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"

	"github.com/iamNilotpal/hashflow/internal/core/domain"
	"golang.org/x/crypto/sha3"
)

// constructors maps every supported algorithm to its hash constructor.
// Adding an algorithm to domain without an entry here fails TestConstructors_cover_all_algorithms.
var constructors = map[domain.Algorithm]func() hash.Hash{
	domain.MD5:    md5.New,
	domain.SHA1:   sha1.New,
	domain.SHA224: sha256.New224,
	domain.SHA256: sha256.New,
	domain.SHA384: sha512.New384,
	domain.SHA512: sha512.New,
	domain.SHA3:   sha3.New256,
}

// Supported reports whether an accumulator can be built for alg.
func Supported(alg domain.Algorithm) bool {
	_, ok := constructors[alg]
	return ok
}

// Validate returns an error wrapping domain.ErrUnsupportedAlgorithm for
// algorithms without a constructor.
func Validate(alg domain.Algorithm) error {
	if !Supported(alg) {
		return fmt.Errorf("%w: %q", domain.ErrUnsupportedAlgorithm, alg)
	}
	return nil
}
