package ports

import (
	"context"

	"github.com/iamNilotpal/hashflow/internal/core/domain"
)

// InputSource is a size-known, randomly chunkable view over input bytes.
// Sources are immutable; a different file or text needs a new source.
type InputSource interface {
	// TotalBytes is constant for the lifetime of the source.
	TotalBytes() uint64

	// ReadChunk returns up to maxLen bytes starting at offset. It returns
	// fewer bytes only at the tail. Fails with domain.ErrSourceRead when the
	// underlying data is gone or offset is past TotalBytes.
	ReadChunk(ctx context.Context, offset uint64, maxLen uint32) ([]byte, error)

	// Name is a display name, the base file name for file sources.
	Name() string

	// Kind decides which chunk size applies.
	Kind() domain.SourceKind
}

// ChunkReader is implemented by sources that can fill a caller owned buffer,
// letting the scheduler reuse one pooled buffer per run.
type ChunkReader interface {
	// ReadChunkInto reads up to len(dst) bytes at offset into dst and
	// returns the number of bytes read, with the same tail and error rules as ReadChunk.
	ReadChunkInto(ctx context.Context, offset uint64, dst []byte) (int, error)
}
