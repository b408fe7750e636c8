package source

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"

	"github.com/iamNilotpal/hashflow/internal/adapters/compression"
	"github.com/iamNilotpal/hashflow/internal/core/domain"
	"github.com/iamNilotpal/hashflow/internal/core/ports"
	"github.com/iamNilotpal/hashflow/pkg/fs"
	"go.uber.org/multierr"
)

// MaxDecodedSize caps the payload a zstd file source keeps in memory.
const MaxDecodedSize = 1 << 30 // 1GB.

// NewZstdFile decodes a zstd compressed file and serves its payload.
// The payload is decoded once, up front, so TotalBytes is known before
// hashing starts; afterwards the source behaves like resident text named
// after the file.
func NewZstdFile(path string) (*TextSource, error) {
	decoder, err := compression.NewZstdDecoder(compression.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrSourceOpen, path, err)
	}

	return NewZstdFileWithFS(fs.NewLocalFileSystem(), decoder, path, MaxDecodedSize)
}

// NewZstdFileWithFS is NewZstdFile with explicit collaborators and limit.
func NewZstdFileWithFS(
	fsys ports.FileSystem, decoder ports.DecompressionPort, path string, limit int64,
) (src *TextSource, retErr error) {
	openErr := func(err error) error {
		return fmt.Errorf("%w: %s: %w", domain.ErrSourceOpen, path, err)
	}

	file, err := fsys.Open(path)
	if err != nil {
		return nil, openErr(err)
	}

	defer func() {
		if closeErr := file.Close(); closeErr != nil && retErr == nil {
			retErr = openErr(closeErr)
			src = nil
		}
	}()

	stat, err := file.Stat()
	if err != nil {
		return nil, openErr(err)
	}

	reader, err := decoder.NewReader(io.NewSectionReader(file, 0, stat.Size()))
	if err != nil {
		return nil, openErr(err)
	}

	var payload bytes.Buffer
	n, err := io.Copy(&payload, io.LimitReader(reader, limit+1))
	err = multierr.Append(err, reader.Close())
	if err != nil {
		return nil, openErr(err)
	}

	if n > limit {
		return nil, openErr(fmt.Errorf("decoded payload exceeds %d bytes", limit))
	}

	return newBytes(filepath.Base(path), payload.Bytes()), nil
}
