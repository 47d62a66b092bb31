// Package buffer provides the growable byte container and hex
// conversions used across entity packages, matching the plain
// encoding/hex usage seen throughout the teacher codebase (e.g.
// apollo's Unit.ToValue hex-decodes policy IDs and asset names
// directly). There is no third-party hex codec in the pack to reach
// for here — encoding/hex is the idiom the whole corpus already uses.
package buffer

import (
	"encoding/hex"
	"fmt"
)

// Buffer is a growable, owned byte container. The zero value is an empty buffer.
type Buffer struct {
	data []byte
}

// New returns an empty Buffer.
func New() *Buffer {
	return &Buffer{}
}

// FromBytes copies b into a new Buffer.
func FromBytes(b []byte) *Buffer {
	buf := &Buffer{data: make([]byte, len(b))}
	copy(buf.data, b)
	return buf
}

// FromHex decodes lowercase (or mixed-case) hex into a new Buffer.
func FromHex(s string) (*Buffer, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("buffer: invalid hex: %w", err)
	}
	return &Buffer{data: b}, nil
}

// Append grows the buffer by b.
func (buf *Buffer) Append(b []byte) {
	buf.data = append(buf.data, b...)
}

// Len returns the number of bytes stored.
func (buf *Buffer) Len() int { return len(buf.data) }

// Bytes returns an immutable view of the buffer's contents. Callers must
// not mutate the returned slice.
func (buf *Buffer) Bytes() []byte { return buf.data }

// Clone returns a deep copy of the buffer.
func (buf *Buffer) Clone() *Buffer {
	return FromBytes(buf.data)
}

// Hex returns the lowercase hex encoding of the buffer's contents.
func (buf *Buffer) Hex() string {
	return hex.EncodeToString(buf.data)
}

// Equal reports whether two buffers hold identical bytes.
func Equal(a, b *Buffer) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.data) != len(b.data) {
		return false
	}
	for i := range a.data {
		if a.data[i] != b.data[i] {
			return false
		}
	}
	return true
}
