// Package ed25519key implements the fixed-size Ed25519 public key, private
// key, and signature entities from spec.md §3. It delegates the actual
// curve arithmetic to crypto/ed25519, matching apollo.go/helpers.go which
// import "crypto/ed25519" directly for witness verification rather than a
// hand-rolled curve implementation.
package ed25519key

import (
	"crypto/ed25519"

	"github.com/cardano-go-sdk/ledger/cbor"
	"github.com/cardano-go-sdk/ledger/cerr"
)

const (
	PublicKeySize  = ed25519.PublicKeySize  // 32
	PrivateKeySize = ed25519.PrivateKeySize  // 64 (seed+public, matching the stdlib convention)
	SignatureSize  = ed25519.SignatureSize   // 64
)

// PublicKey is an owned 32-byte Ed25519 public key.
type PublicKey struct {
	bytes [PublicKeySize]byte
}

// NewPublicKey validates b's length and copies it.
func NewPublicKey(b []byte) (*PublicKey, error) {
	if len(b) != PublicKeySize {
		return nil, cerr.Newf(cerr.InvalidArgument, "ed25519 public key must be %d bytes, got %d", PublicKeySize, len(b))
	}
	pk := &PublicKey{}
	copy(pk.bytes[:], b)
	return pk, nil
}

// Bytes returns an immutable view of the raw key.
func (k *PublicKey) Bytes() []byte { return k.bytes[:] }

// Verify reports whether sig is a valid Ed25519 signature of msg under k.
func (k *PublicKey) Verify(msg []byte, sig *Signature) bool {
	return ed25519.Verify(k.bytes[:], msg, sig.bytes[:])
}

// Signature is an owned 64-byte Ed25519 signature.
type Signature struct {
	bytes [SignatureSize]byte
}

// NewSignature validates b's length and copies it.
func NewSignature(b []byte) (*Signature, error) {
	if len(b) != SignatureSize {
		return nil, cerr.Newf(cerr.InvalidArgument, "ed25519 signature must be %d bytes, got %d", SignatureSize, len(b))
	}
	s := &Signature{}
	copy(s.bytes[:], b)
	return s, nil
}

// Bytes returns an immutable view of the raw signature.
func (s *Signature) Bytes() []byte { return s.bytes[:] }

// PrivateKey is an owned Ed25519 private key (seed + public key, stdlib layout).
type PrivateKey struct {
	key ed25519.PrivateKey
}

// NewPrivateKey validates b's length and copies it.
func NewPrivateKey(b []byte) (*PrivateKey, error) {
	if len(b) != PrivateKeySize {
		return nil, cerr.Newf(cerr.InvalidArgument, "ed25519 private key must be %d bytes, got %d", PrivateKeySize, len(b))
	}
	key := make(ed25519.PrivateKey, PrivateKeySize)
	copy(key, b)
	return &PrivateKey{key: key}, nil
}

// Sign produces an Ed25519 signature of msg.
func (k *PrivateKey) Sign(msg []byte) *Signature {
	raw := ed25519.Sign(k.key, msg)
	sig := &Signature{}
	copy(sig.bytes[:], raw)
	return sig
}

// Public returns the PublicKey corresponding to k.
func (k *PrivateKey) Public() *PublicKey {
	pub := k.key.Public().(ed25519.PublicKey)
	pk := &PublicKey{}
	copy(pk.bytes[:], pub)
	return pk
}

func FromCBORPublicKey(r *cbor.Reader) (*PublicKey, error) {
	raw, err := r.ReadBytes()
	if err != nil {
		return nil, err
	}
	return NewPublicKey(raw)
}

func ToCBORPublicKey(k *PublicKey, w *cbor.Writer) {
	w.WriteBytes(k.bytes[:])
}

func FromCBORSignature(r *cbor.Reader) (*Signature, error) {
	raw, err := r.ReadBytes()
	if err != nil {
		return nil, err
	}
	return NewSignature(raw)
}

func ToCBORSignature(s *Signature, w *cbor.Writer) {
	w.WriteBytes(s.bytes[:])
}
