// Package buffer provides a bounds-checked cursor over a raw binary image.
package buffer

import (
	"errors"
	"fmt"
)

// ErrOutOfBounds is returned when a read or advance would exceed the buffer.
var ErrOutOfBounds = errors.New("read past end of buffer")

// Buffer is a sequential reader over a byte slice. The underlying data is
// never modified, multiple buffers may share the same slice and read it
// independently.
type Buffer struct {
	data   []byte
	offset int
}

// New returns a buffer positioned at the start of data.
func New(data []byte) *Buffer {
	return &Buffer{data: data}
}

// NewAt returns a buffer positioned at the given offset.
func NewAt(data []byte, offset int) (*Buffer, error) {
	b := &Buffer{data: data}
	if err := b.SetOffset(offset); err != nil {
		return nil, err
	}
	return b, nil
}

// Len returns the total length of the underlying data.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Offset returns the current cursor position.
func (b *Buffer) Offset() int {
	return b.offset
}

// Remaining returns the number of bytes left after the current offset.
func (b *Buffer) Remaining() int {
	return len(b.data) - b.offset
}

// SetOffset moves the cursor to an absolute position. Positioning the cursor
// at the end of the buffer is valid, past it is not.
func (b *Buffer) SetOffset(offset int) error {
	if offset < 0 || offset > len(b.data) {
		return fmt.Errorf("setting offset %d in buffer of length %d: %w",
			offset, len(b.data), ErrOutOfBounds)
	}
	b.offset = offset
	return nil
}

// Peek returns n bytes starting at the current offset without advancing.
// The returned slice aliases the underlying data and must not be modified.
func (b *Buffer) Peek(n int) ([]byte, error) {
	return b.PeekAt(b.offset, n)
}

// PeekAt returns n bytes starting at an absolute offset without moving the
// cursor. It allows restarting iteration from any position.
func (b *Buffer) PeekAt(offset, n int) ([]byte, error) {
	if offset < 0 || n < 0 || offset+n > len(b.data) {
		return nil, fmt.Errorf("reading %d bytes at offset %d in buffer of length %d: %w",
			n, offset, len(b.data), ErrOutOfBounds)
	}
	return b.data[offset : offset+n], nil
}

// Advance moves the cursor forward by n bytes.
func (b *Buffer) Advance(n int) error {
	if n < 0 || b.offset+n > len(b.data) {
		return fmt.Errorf("advancing %d bytes at offset %d in buffer of length %d: %w",
			n, b.offset, len(b.data), ErrOutOfBounds)
	}
	b.offset += n
	return nil
}
