// Package bigint wraps math/big for the arbitrary-precision integers used
// by coin/asset quantities, exactly as apollo's Value/MultiAsset machinery
// does throughout helpers.go and models.go (big.NewInt, (*big.Int).Cmp,
// (*big.Int).Sign). It adds the CBOR tag-2/tag-3 bignum encoding the data
// model needs beyond what plain math/big provides.
package bigint

import (
	"math/big"

	"github.com/cardano-go-sdk/ledger/cbor"
)

// BigInt is an owned arbitrary-precision integer.
type BigInt struct {
	v *big.Int
}

// FromInt64 wraps a signed 64-bit integer.
func FromInt64(n int64) *BigInt {
	return &BigInt{v: big.NewInt(n)}
}

// FromUint64 wraps an unsigned 64-bit integer.
func FromUint64(n uint64) *BigInt {
	return &BigInt{v: new(big.Int).SetUint64(n)}
}

// FromBig wraps a *big.Int, copying it so the BigInt owns independent storage.
func FromBig(n *big.Int) *BigInt {
	return &BigInt{v: new(big.Int).Set(n)}
}

// Big returns a copy of the underlying *big.Int.
func (b *BigInt) Big() *big.Int {
	return new(big.Int).Set(b.v)
}

// Sign returns -1, 0, or 1 matching the value's sign.
func (b *BigInt) Sign() int { return b.v.Sign() }

// Cmp compares two BigInt values.
func (b *BigInt) Cmp(other *BigInt) int { return b.v.Cmp(other.v) }

// String returns the base-10 string representation.
func (b *BigInt) String() string { return b.v.String() }

// FromCBOR decodes a BigInt from the reader, accepting a plain integer or
// a tagged bignum (tag 2/3), per spec.md §6.1.
func FromCBOR(r *cbor.Reader) (*BigInt, error) {
	v, err := r.ReadBigInt()
	if err != nil {
		return nil, err
	}
	return &BigInt{v: v}, nil
}

// ToCBOR writes b using the shortest form that round-trips exactly:
// a plain integer when it fits in int64/uint64, a tagged bignum otherwise.
func ToCBOR(b *BigInt, w *cbor.Writer) {
	w.WriteBigInt(b.v)
}
