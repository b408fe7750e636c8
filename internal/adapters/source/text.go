// Package source implements the input sources the scheduler pulls chunks from.
package source

import (
	"context"
	"fmt"

	"github.com/iamNilotpal/hashflow/internal/core/domain"
	"github.com/iamNilotpal/hashflow/internal/core/ports"
)

// DefaultTextName is the display name of text sources created without one.
const DefaultTextName = "text"

// TextSource serves chunks of content that is already resident in memory.
// Reading is pure slicing and never fails inside bounds.
type TextSource struct {
	name string
	data []byte
}

var _ ports.InputSource = (*TextSource)(nil)

// NewText copies content into a new source.
func NewText(content string) *TextSource {
	return NewNamedText(DefaultTextName, content)
}

// NewNamedText is NewText with a custom display name.
func NewNamedText(name, content string) *TextSource {
	return newBytes(name, []byte(content))
}

// newBytes takes ownership of data.
func newBytes(name string, data []byte) *TextSource {
	return &TextSource{name: name, data: data}
}

func (t *TextSource) TotalBytes() uint64 {
	return uint64(len(t.data))
}

// ReadChunk returns a sub-slice of the content. Callers must not modify it.
func (t *TextSource) ReadChunk(_ context.Context, offset uint64, maxLen uint32) ([]byte, error) {
	total := t.TotalBytes()
	if offset > total {
		return nil, fmt.Errorf("%w: offset %d beyond %d bytes", domain.ErrSourceRead, offset, total)
	}

	end := offset + uint64(maxLen)
	if end > total {
		end = total
	}

	return t.data[offset:end], nil
}

func (t *TextSource) Name() string {
	return t.name
}

func (t *TextSource) Kind() domain.SourceKind {
	return domain.SourceText
}
