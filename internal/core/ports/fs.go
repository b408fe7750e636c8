package ports

import (
	"io"
	"os"
)

// File is the read-only subset of *os.File used by file sources.
type File interface {
	io.ReaderAt
	io.Closer
	Stat() (os.FileInfo, error)
}

// FileSystem abstracts the read-only file access of the engine, for testing.
type FileSystem interface {
	Open(path string) (File, error)
	Stat(path string) (os.FileInfo, error)
}
