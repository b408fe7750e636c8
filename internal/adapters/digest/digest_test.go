package digest_test

import (
	"bytes"
	"testing"

	"github.com/iamNilotpal/hashflow/internal/adapters/digest"
	"github.com/iamNilotpal/hashflow/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var vectors = []struct {
	alg   domain.Algorithm
	empty string
	abc   string
}{
	{
		alg:   domain.MD5,
		empty: "d41d8cd98f00b204e9800998ecf8427e",
		abc:   "900150983cd24fb0d6963f7d28e17f72",
	},
	{
		alg:   domain.SHA1,
		empty: "da39a3ee5e6b4b0d3255bfef95601890afd80709",
		abc:   "a9993e364706816aba3e25717850c26c9cd0d89d",
	},
	{
		alg:   domain.SHA224,
		empty: "d14a028c2a3a2bc9476102bb288234c415a2b01f828ea62ac5b3e42f",
		abc:   "23097d223405d8228642a477bda255b32aadbce4bda0b3f7e36c9da7",
	},
	{
		alg:   domain.SHA256,
		empty: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		abc:   "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
	},
	{
		alg: domain.SHA384,
		empty: "38b060a751ac96384cd9327eb1b1e36a21fdb71114be0743" +
			"4c0cc7bf63f6e1da274edebfe76f65fbd51ad2f14898b95b",
		abc: "cb00753f45a35e8bb5a03d699ac65007272c32ab0eded163" +
			"1a8b605a43ff5bed8086072ba1e7cc2358baeca134c825a7",
	},
	{
		alg: domain.SHA512,
		empty: "cf83e1357eefb8bdf1542850d66d8007d620e4050b5715dc83f4a921d36ce9ce" +
			"47d0d13c5d85f2b0ff8318d2877eec2f63b931bd47417a81a538327af927da3e",
		abc: "ddaf35a193617abacc417349ae20413112e6fa4e89a97ea20a9eeee64b55d39a" +
			"2192992a274fc1a836ba3c23a3feebbd454d4423643ce80e2a9ac94fa54ca49f",
	},
	{
		alg:   domain.SHA3,
		empty: "a7ffc6f8bf1ed76651c14756a061d662f580ff4de43b49fa82d80a4b80f8434a",
		abc:   "3a985da74fe225b2045c172d6bd390bd855f086e3e9d525b46bfe24511431532",
	},
}

func TestNew_empty_input_matches_published_vectors(t *testing.T) {
	t.Parallel()

	for _, tc := range vectors {
		t.Run(tc.alg.String(), func(t *testing.T) {
			t.Parallel()

			acc, err := digest.New(tc.alg)
			require.NoError(t, err)

			sum := acc.Finalize()

			assert.Equal(t, tc.empty, digest.Hex(sum))
			assert.Len(t, sum, tc.alg.DigestSize())
			assert.Equal(t, tc.alg.DigestSize(), acc.Size())
		})
	}
}

func TestNew_abc_matches_published_vectors(t *testing.T) {
	t.Parallel()

	for _, tc := range vectors {
		t.Run(tc.alg.String(), func(t *testing.T) {
			t.Parallel()

			acc, err := digest.New(tc.alg)
			require.NoError(t, err)
			require.NoError(t, acc.Update([]byte("a")))
			require.NoError(t, acc.Update([]byte("bc")))

			got := digest.Hex(acc.Finalize())

			assert.Equal(t, tc.abc, got)
			assert.Len(t, got, tc.alg.HexLength())
		})
	}
}

func TestConstructors_cover_all_algorithms(t *testing.T) {
	t.Parallel()

	for _, alg := range domain.Algorithms() {
		assert.True(t, digest.Supported(alg), alg)
	}
}

func TestNew_unsupported_algorithm(t *testing.T) {
	t.Parallel()

	acc, err := digest.New(domain.Algorithm("BLAKE3"))

	assert.Nil(t, acc)
	assert.ErrorIs(t, err, domain.ErrUnsupportedAlgorithm)
}

func TestFinalize_is_idempotent(t *testing.T) {
	t.Parallel()

	acc, err := digest.New(domain.SHA512)
	require.NoError(t, err)
	require.NoError(t, acc.Update([]byte("hello world")))

	first := acc.Finalize()
	first[0] ^= 0xff // callers own the returned slice
	second := acc.Finalize()
	third := acc.Finalize()

	assert.Equal(t, second, third)
	assert.NotEqual(t, first, second)
}

func TestUpdate_after_finalize_fails(t *testing.T) {
	t.Parallel()

	acc, err := digest.New(domain.MD5)
	require.NoError(t, err)

	acc.Finalize()
	err = acc.Update([]byte("late"))

	assert.ErrorIs(t, err, domain.ErrAccumulatorFinalized)
}

func TestAccumulators_do_not_share_state(t *testing.T) {
	t.Parallel()

	a, err := digest.New(domain.SHA256)
	require.NoError(t, err)
	b, err := digest.New(domain.SHA256)
	require.NoError(t, err)

	require.NoError(t, a.Update([]byte("abc")))

	assert.Equal(t, vectors[3].empty, digest.Hex(b.Finalize()))
	assert.Equal(t, vectors[3].abc, digest.Hex(a.Finalize()))
}

func FuzzSum_chunking_does_not_change_digest(f *testing.F) {
	f.Add([]byte("hello"), uint8(1))
	f.Add([]byte(""), uint8(3))
	f.Add(bytes.Repeat([]byte{0x00, 0xff}, 300), uint8(7))

	f.Fuzz(func(t *testing.T, data []byte, step uint8) {
		size := int(step%64) + 1

		for _, alg := range domain.Algorithms() {
			want, err := digest.Sum(alg, data)
			require.NoError(t, err)

			acc, err := digest.New(alg)
			require.NoError(t, err)
			for off := 0; off < len(data); off += size {
				end := min(off+size, len(data))
				require.NoError(t, acc.Update(data[off:end]))
			}

			assert.Equal(t, want, acc.Finalize(), alg)
		}
	})
}
