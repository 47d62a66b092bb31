// Package bip32 implements hierarchical-deterministic Ed25519 keys
// (spec.md §3 "Bip32PublicKey/PrivateKey"). It wraps
// github.com/blinklabs-io/bursa/bip32, the same dependency apollo's
// wallet.go uses for its BursaWallet/KeyPairWallet key material
// (bip32.XPrv, Public().PublicKey(), Sign(...)), rather than reimplementing
// BIP32-Ed25519 (Khovratovich) scalar derivation by hand.
package bip32

import (
	"github.com/blinklabs-io/bursa/bip32"

	"github.com/cardano-go-sdk/ledger/cbor"
	"github.com/cardano-go-sdk/ledger/cerr"
	"github.com/cardano-go-sdk/ledger/crypto/blakehash"
)

// PrivateKeySize and PublicKeySize match the extended-key layout from
// spec.md §3: a 96-byte extended private key (32-byte scalar + 32-byte
// IV/nonce + 32-byte chain code) and a 64-byte extended public key
// (32-byte point + 32-byte chain code).
const (
	PrivateKeySize = 96
	PublicKeySize  = 64
)

// PrivateKey is an owned BIP32 extended Ed25519 private key.
type PrivateKey struct {
	inner bip32.XPrv
}

// NewPrivateKey validates b's length and wraps it as an extended private key.
func NewPrivateKey(b []byte) (*PrivateKey, error) {
	if len(b) != PrivateKeySize {
		return nil, cerr.Newf(cerr.InvalidArgument, "bip32 private key must be %d bytes, got %d", PrivateKeySize, len(b))
	}
	raw := make([]byte, PrivateKeySize)
	copy(raw, b)
	return &PrivateKey{inner: bip32.XPrv(raw)}, nil
}

// Derive performs CKDpriv for a single 32-bit index, returning the child key.
func (k *PrivateKey) Derive(index uint32) *PrivateKey {
	return &PrivateKey{inner: k.inner.Derive(index)}
}

// DerivePath performs CKDpriv iteratively over a sequence of indices.
func (k *PrivateKey) DerivePath(indices []uint32) *PrivateKey {
	cur := k
	for _, idx := range indices {
		cur = cur.Derive(idx)
	}
	return cur
}

// Sign signs msg with the extended private key's Ed25519 scalar.
func (k *PrivateKey) Sign(msg []byte) []byte {
	return k.inner.Sign(msg)
}

// Public returns the corresponding extended public key.
func (k *PrivateKey) Public() *PublicKey {
	return &PublicKey{inner: k.inner.Public()}
}

// Bytes returns the 96-byte extended private key encoding.
func (k *PrivateKey) Bytes() []byte {
	return []byte(k.inner)
}

// PublicKey is an owned BIP32 extended Ed25519 public key, supporting
// CKDpub (public-only derivation of non-hardened child indices).
type PublicKey struct {
	inner bip32.XPub
}

// NewPublicKey validates b's length and wraps it as an extended public key.
func NewPublicKey(b []byte) (*PublicKey, error) {
	if len(b) != PublicKeySize {
		return nil, cerr.Newf(cerr.InvalidArgument, "bip32 public key must be %d bytes, got %d", PublicKeySize, len(b))
	}
	raw := make([]byte, PublicKeySize)
	copy(raw, b)
	return &PublicKey{inner: bip32.XPub(raw)}, nil
}

// Derive performs CKDpub for a single non-hardened 32-bit index.
func (k *PublicKey) Derive(index uint32) (*PublicKey, error) {
	child, err := k.inner.Derive(index)
	if err != nil {
		return nil, cerr.Wrap(cerr.InvalidArgument, "bip32 public derivation", err)
	}
	return &PublicKey{inner: child}, nil
}

// PublicKey returns the raw 32-byte Ed25519 public key point (dropping the chain code).
func (k *PublicKey) PublicKey() []byte {
	return k.inner.PublicKey()
}

// Bytes returns the 64-byte extended public key encoding.
func (k *PublicKey) Bytes() []byte {
	return []byte(k.inner)
}

// Hash returns the 28-byte BLAKE2b credential hash of the raw Ed25519
// public key point, as used for payment/stake key hashes.
func (k *PublicKey) Hash() (*blakehash.BlakeHash, error) {
	return blakehash.Compute(blakehash.Size224, k.PublicKey())
}

func FromCBORPublicKey(r *cbor.Reader) (*PublicKey, error) {
	raw, err := r.ReadBytes()
	if err != nil {
		return nil, err
	}
	return NewPublicKey(raw)
}

func ToCBORPublicKey(k *PublicKey, w *cbor.Writer) {
	w.WriteBytes(k.Bytes())
}
