package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/iamNilotpal/hashflow/internal/core/domain"
	"github.com/iamNilotpal/hashflow/internal/core/ports"
	"github.com/iamNilotpal/hashflow/pkg/fs"
	"go.uber.org/multierr"
)

// FileSource reads a local file chunk by chunk.
//
// The file is reopened for every chunk and its size and modification time
// are compared with the values seen at selection, so a file that was removed,
// made unreadable or rewritten fails the read instead of yielding a digest of
// mixed content.
type FileSource struct {
	fs      ports.FileSystem
	path    string
	name    string
	size    uint64
	modTime time.Time
}

var (
	_ ports.InputSource = (*FileSource)(nil)
	_ ports.ChunkReader = (*FileSource)(nil)
)

// NewFile opens path on the local file system.
func NewFile(path string) (*FileSource, error) {
	return NewFileWithFS(fs.NewLocalFileSystem(), path)
}

// NewFileWithFS opens path through fsys. Fails with domain.ErrSourceOpen
// when the file is missing, unreadable or not a regular file.
func NewFileWithFS(fsys ports.FileSystem, path string) (*FileSource, error) {
	stat, err := fsys.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrSourceOpen, path, err)
	}
	if !stat.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s: not a regular file", domain.ErrSourceOpen, path)
	}

	// Size and modification time come from Stat; opening only proves the
	// file is readable now.
	file, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrSourceOpen, path, err)
	}
	if err := file.Close(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrSourceOpen, path, err)
	}

	return &FileSource{
		fs:      fsys,
		path:    path,
		name:    filepath.Base(path),
		size:    uint64(stat.Size()),
		modTime: stat.ModTime(),
	}, nil
}

func (f *FileSource) TotalBytes() uint64 {
	return f.size
}

func (f *FileSource) Name() string {
	return f.name
}

// Path returns the path the source was opened with.
func (f *FileSource) Path() string {
	return f.path
}

func (f *FileSource) Kind() domain.SourceKind {
	return domain.SourceFile
}

// ReadChunk allocates a buffer of at most maxLen bytes and fills it.
func (f *FileSource) ReadChunk(ctx context.Context, offset uint64, maxLen uint32) ([]byte, error) {
	if offset > f.size {
		return nil, f.beyondEnd(offset)
	}

	want := f.size - offset
	if want > uint64(maxLen) {
		want = uint64(maxLen)
	}

	buf := make([]byte, want)
	n, err := f.ReadChunkInto(ctx, offset, buf)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

// ReadChunkInto fills dst from offset, stopping early only at the end of the file.
func (f *FileSource) ReadChunkInto(ctx context.Context, offset uint64, dst []byte) (n int, retErr error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	if offset > f.size {
		return 0, f.beyondEnd(offset)
	}

	want := f.size - offset
	if want > uint64(len(dst)) {
		want = uint64(len(dst))
	}
	if want == 0 {
		return 0, nil
	}

	file, err := f.fs.Open(f.path)
	if err != nil {
		return 0, f.readError(offset, err)
	}

	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			retErr = multierr.Append(retErr, f.readError(offset, closeErr))
		}
	}()

	stat, err := file.Stat()
	if err != nil {
		return 0, f.readError(offset, err)
	}

	if uint64(stat.Size()) != f.size || !stat.ModTime().Equal(f.modTime) {
		return 0, f.readError(offset, errors.New("file changed since it was selected"))
	}

	n, err = file.ReadAt(dst[:want], int64(offset))
	if uint64(n) < want {
		if err == nil || errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return n, f.readError(offset, err)
	}

	return n, nil
}

func (f *FileSource) beyondEnd(offset uint64) error {
	return fmt.Errorf("%w: %s: offset %d beyond %d bytes", domain.ErrSourceRead, f.name, offset, f.size)
}

func (f *FileSource) readError(offset uint64, err error) error {
	return fmt.Errorf("%w: %s at offset %d: %w", domain.ErrSourceRead, f.name, offset, err)
}
