// Package ratio implements the unit_interval rational type used by pool
// margins and governance vote thresholds: CBOR tag 30 wrapping a
// [numerator, denominator] pair, per the Cardano ledger CDDL
// (`unit_interval = #6.30([uint, uint])`).
package ratio

import (
	"github.com/cardano-go-sdk/ledger/cbor"
	"github.com/cardano-go-sdk/ledger/cerr"
)

const tagRational = 30

// Ratio is an owned numerator/denominator pair.
type Ratio struct {
	Num uint64
	Den uint64
}

// New constructs a Ratio. den must be non-zero.
func New(num, den uint64) (*Ratio, error) {
	if den == 0 {
		return nil, cerr.New(cerr.InvalidArgument, "ratio denominator must be non-zero")
	}
	return &Ratio{Num: num, Den: den}, nil
}

// Equal reports whether a and b have the same numerator and denominator
// as stored (no cross-multiplication normalization is performed, matching
// the source's preservation of the exact on-wire numerator/denominator).
func Equal(a, b *Ratio) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Num == b.Num && a.Den == b.Den
}

// FromCBOR decodes a Ratio from its tag-30 [numerator, denominator] form.
func FromCBOR(r *cbor.Reader) (*Ratio, error) {
	tag, err := r.ReadTag()
	if err != nil {
		return nil, err
	}
	if tag != tagRational {
		return nil, cbor.DecodingFailed("ratio", cerr.Newf(cerr.InvalidCborValue, "expected tag %d, got %d", tagRational, tag))
	}
	n, _, aerr := r.ReadStartArray(cbor.ExpectDefinite)
	if aerr != nil {
		return nil, aerr
	}
	if n != 2 {
		return nil, cbor.DecodingFailed("ratio", cerr.Newf(cerr.InvalidCborArraySize, "expected array of 2, got %d", n))
	}
	num, nerr := r.ReadU64()
	if nerr != nil {
		return nil, cbor.DecodingFailed("ratio.num", nerr)
	}
	den, derr := r.ReadU64()
	if derr != nil {
		return nil, cbor.DecodingFailed("ratio.den", derr)
	}
	return New(num, den)
}

// ToCBOR encodes rat as tag 30 + [numerator, denominator].
func ToCBOR(rat *Ratio, w *cbor.Writer) {
	w.WriteTag(tagRational)
	w.WriteStartArray(2)
	w.WriteU64(rat.Num)
	w.WriteU64(rat.Den)
}
