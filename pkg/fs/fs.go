// Package fs provides the read-only local file system used by file sources.
package fs

import (
	"fmt"
	"os"

	"github.com/iamNilotpal/hashflow/internal/core/ports"
)

// LocalFileSystem reads from the operating system's file system.
type LocalFileSystem struct{}

var _ ports.FileSystem = (*LocalFileSystem)(nil)

func NewLocalFileSystem() *LocalFileSystem {
	return &LocalFileSystem{}
}

// Opens a regular file for reading. Directories are rejected.
func (lfs *LocalFileSystem) Open(path string) (ports.File, error) {
	file, err := os.Open(path) //nolint:gosec // path is caller-provided by design
	if err != nil {
		return nil, err
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}

	if !stat.Mode().IsRegular() {
		file.Close()
		return nil, fmt.Errorf("path : %s is not a regular file", path)
	}

	return file, nil
}

// Returns file info for path, following symlinks.
func (lfs *LocalFileSystem) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}
