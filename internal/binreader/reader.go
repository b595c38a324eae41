// Package binreader provides a positioned, bounds-checked reader over an in-memory buffer.
//
// All reads return views into the underlying buffer rather than copies. Any access outside
// the buffer returns a *RangeError that matches ErrOutOfRange.
package binreader

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrOutOfRange is matched by every error produced for an access outside the buffer.
var ErrOutOfRange = errors.New("read out of range")

// RangeError describes an out-of-range access.
type RangeError struct {
	Op       string // Operation that failed (e.g., "read", "seek")
	Position int64  // Cursor position (or requested offset) at the time of the access
	Length   int64  // Number of bytes requested
	Size     int64  // Total buffer size
}

// Error implements the error interface.
func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: %d bytes at offset %d exceeds buffer size %d", e.Op, e.Length, e.Position, e.Size)
}

// Is reports whether target is ErrOutOfRange.
func (e *RangeError) Is(target error) bool {
	return target == ErrOutOfRange
}

// Reader is a cursor over an immutable byte buffer.
type Reader struct {
	data []byte
	pos  int64
}

// New returns a Reader positioned at the start of data.
func New(data []byte) *Reader {
	return &Reader{data: data}
}

// Len returns the total buffer length.
func (r *Reader) Len() int64 {
	return int64(len(r.data))
}

// Position returns the current cursor position.
func (r *Reader) Position() int64 {
	return r.pos
}

// Remaining returns the number of bytes between the cursor and the end of the buffer.
func (r *Reader) Remaining() int64 {
	if r.pos >= r.Len() {
		return 0
	}
	return r.Len() - r.pos
}

// SeekTo moves the cursor. A non-negative position is absolute, a negative one is
// relative to the end of the buffer.
func (r *Reader) SeekTo(position int64) error {
	if position < 0 {
		position += r.Len()
	}
	if position < 0 || position > r.Len() {
		return &RangeError{Op: "seek", Position: position, Size: r.Len()}
	}
	r.pos = position
	return nil
}

// Skip advances the cursor by n bytes.
func (r *Reader) Skip(n int64) error {
	if err := r.check("skip", n); err != nil {
		return err
	}
	r.pos += n
	return nil
}

// Read returns a view of the next n bytes and advances past them.
func (r *Reader) Read(n int64) ([]byte, error) {
	if err := r.check("read", n); err != nil {
		return nil, err
	}
	b := r.data[r.pos : r.pos+n : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadRest returns a view of everything from the cursor to the end and moves the cursor
// to the end.
func (r *Reader) ReadRest() []byte {
	if r.pos >= r.Len() {
		r.pos = r.Len()
		return r.data[r.Len():]
	}
	b := r.data[r.pos:]
	r.pos = r.Len()
	return b
}

// Byte reads a single byte.
func (r *Reader) Byte() (byte, error) {
	b, err := r.Read(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Uint32 reads a little-endian uint32.
func (r *Reader) Uint32() (uint32, error) {
	b, err := r.Read(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// Slice returns a view of [offset, offset+n) without moving the cursor.
func (r *Reader) Slice(offset, n int64) ([]byte, error) {
	if offset < 0 || n < 0 || offset > r.Len() || n > r.Len()-offset {
		return nil, &RangeError{Op: "slice", Position: offset, Length: n, Size: r.Len()}
	}
	return r.data[offset : offset+n : offset+n], nil
}

func (r *Reader) check(op string, n int64) error {
	if n < 0 || r.pos > r.Len() || n > r.Len()-r.pos {
		return &RangeError{Op: op, Position: r.pos, Length: n, Size: r.Len()}
	}
	return nil
}
