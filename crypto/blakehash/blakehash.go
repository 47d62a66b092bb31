// Package blakehash implements the BlakeHash family (spec.md §3 "Crypto
// primitives"): opaque, size-checked BLAKE2b digests used for credentials,
// transaction ids, and auxiliary hashes. The hashing itself is delegated to
// golang.org/x/crypto/blake2b, exactly as the gouroboros ledger/common
// package computes Blake2b256/Blake2b224 and asset fingerprints (see
// NewAssetFingerprint's blake2b.New(20, nil) in that package).
package blakehash

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"

	"github.com/cardano-go-sdk/ledger/cbor"
	"github.com/cardano-go-sdk/ledger/cerr"
)

// Size is a BlakeHash's declared byte length; the only valid sizes are
// 28 (credentials, policy ids), 32 (transaction ids, script data hash),
// and 64 (VRF/KES-adjacent auxiliary hashes).
type Size int

const (
	Size224 Size = 28
	Size256 Size = 32
	Size512 Size = 64
)

func validSize(n int) bool {
	return n == int(Size224) || n == int(Size256) || n == int(Size512)
}

// BlakeHash is an owned, fixed-size digest with a declared size.
type BlakeHash struct {
	bytes []byte
}

// New validates b's length and returns a BlakeHash that owns a copy of it.
func New(b []byte) (*BlakeHash, error) {
	if !validSize(len(b)) {
		return nil, cerr.Newf(cerr.InvalidBlake2bHashSize, "invalid blake2b hash size: %d", len(b))
	}
	h := &BlakeHash{bytes: make([]byte, len(b))}
	copy(h.bytes, b)
	return h, nil
}

// Compute hashes data with BLAKE2b at the requested output size.
func Compute(size Size, data []byte) (*BlakeHash, error) {
	if !validSize(int(size)) {
		return nil, cerr.Newf(cerr.InvalidBlake2bHashSize, "invalid blake2b hash size: %d", size)
	}
	h, err := blake2b.New(int(size), nil)
	if err != nil {
		return nil, cerr.Wrap(cerr.MemoryAllocationFailed, "blake2b.New", err)
	}
	h.Write(data)
	return &BlakeHash{bytes: h.Sum(nil)}, nil
}

// Bytes returns an immutable view of the hash's bytes.
func (h *BlakeHash) Bytes() []byte { return h.bytes }

// Size returns the hash's declared size in bytes.
func (h *BlakeHash) Size() int { return len(h.bytes) }

// Hex returns the lowercase hex encoding of the hash.
func (h *BlakeHash) Hex() string { return hex.EncodeToString(h.bytes) }

// Equal implements spec.md §8 property 5: equal iff same size and bytes.
func Equal(a, b *BlakeHash) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.bytes) != len(b.bytes) {
		return false
	}
	for i := range a.bytes {
		if a.bytes[i] != b.bytes[i] {
			return false
		}
	}
	return true
}

// Compare orders two hashes as unsigned byte sequences of equal length.
// Hashes of differing size compare by size first.
func Compare(a, b *BlakeHash) int {
	if len(a.bytes) != len(b.bytes) {
		if len(a.bytes) < len(b.bytes) {
			return -1
		}
		return 1
	}
	for i := range a.bytes {
		if a.bytes[i] != b.bytes[i] {
			if a.bytes[i] < b.bytes[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// FromCBOR decodes a BlakeHash of exactly the expected size from a CBOR byte string.
func FromCBOR(r *cbor.Reader, expected Size) (*BlakeHash, error) {
	raw, err := r.ReadBytes()
	if err != nil {
		return nil, err
	}
	if len(raw) != int(expected) {
		return nil, cerr.Newf(cerr.InvalidBlake2bHashSize, "expected %d bytes, got %d", expected, len(raw))
	}
	return New(raw)
}

// ToCBOR writes the hash as a CBOR byte string.
func ToCBOR(h *BlakeHash, w *cbor.Writer) {
	w.WriteBytes(h.bytes)
}
