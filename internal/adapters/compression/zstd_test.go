package compression_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/iamNilotpal/hashflow/internal/adapters/compression"
	"github.com/klauspost/compress/zstd"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode(t *testing.T, payload []byte) []byte {
	t.Helper()

	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	defer enc.Close()

	return enc.EncodeAll(payload, nil)
}

func TestZstdDecoder_streams_payload(t *testing.T) {
	t.Parallel()

	z, err := compression.NewZstdDecoder(compression.DefaultOptions())
	require.NoError(t, err)

	payload := bytes.Repeat([]byte("hashflow "), 4096)
	r, err := z.NewReader(bytes.NewReader(encode(t, payload)))
	require.NoError(t, err)
	defer r.Close()

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestZstdDecoder_zero_options_use_defaults(t *testing.T) {
	t.Parallel()

	z, err := compression.NewZstdDecoder(compression.Options{})
	require.NoError(t, err)

	r, err := z.NewReader(bytes.NewReader(encode(t, []byte("abc"))))
	require.NoError(t, err)
	defer r.Close()

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)
}

func TestZstdDecoder_rejects_garbage(t *testing.T) {
	t.Parallel()

	z, err := compression.NewZstdDecoder(compression.DefaultOptions())
	require.NoError(t, err)

	r, err := z.NewReader(bytes.NewReader([]byte("definitely not zstd")))
	require.NoError(t, err)
	defer r.Close()

	_, err = io.ReadAll(r)
	assert.Error(t, err)
}

func TestValidate_decoder_concurrency_bounds(t *testing.T) {
	t.Parallel()

	opts := compression.DefaultOptions()
	opts.DecoderConcurrency = 255

	assert.Error(t, compression.Validate(opts))
	assert.NoError(t, compression.Validate(compression.DefaultOptions()))

	_, err := compression.NewZstdDecoder(opts)
	assert.Error(t, err)
}
