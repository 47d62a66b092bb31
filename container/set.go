// Package container implements the ordered-list and set container types
// from spec.md §3 "Containers": OrderedList[T] preserves insertion order;
// Set[T] additionally suppresses duplicates and tracks the CIP-129
// use_tag flag controlling whether CBOR tag 258 precedes the array.
package container

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/cardano-go-sdk/ledger/cbor"
)

// EqualFunc reports structural equality between two elements of a Set.
type EqualFunc[T any] func(a, b T) bool

// FingerprintFunc computes a cheap, collision-tolerant hash of an element,
// used only to short-circuit the duplicate-suppression scan on Add; a
// collision merely forces a full equality scan, never an incorrect result.
type FingerprintFunc[T any] func(v T) uint64

const fingerprintBits = 2048

// Set stores elements in insertion order with duplicate suppression by an
// explicit equality function, plus the use_tag flag from spec.md's CIP-129
// tagged-set policy (spec.md §4.1 "Tagged sets").
type Set[T any] struct {
	items       []T
	equal       EqualFunc[T]
	fingerprint FingerprintFunc[T]
	seen        *bitset.BitSet
	useTag      bool
}

// NewSet constructs an empty Set. use_tag defaults to true for
// newly-constructed sets per spec.md §3 ("Set" invariants) and §9 (Open
// Questions: "built via new() (default true per this spec)"). An optional
// fingerprint function accelerates duplicate detection for large sets;
// pass nil to always fall back to the linear equality scan.
func NewSet[T any](equal EqualFunc[T], fingerprint FingerprintFunc[T]) *Set[T] {
	s := &Set[T]{equal: equal, fingerprint: fingerprint, useTag: true}
	if fingerprint != nil {
		s.seen = bitset.New(fingerprintBits)
	}
	return s
}

// Len returns the number of elements.
func (s *Set[T]) Len() int { return len(s.items) }

// Items returns the elements in insertion order. Callers must not mutate
// the returned slice.
func (s *Set[T]) Items() []T { return s.items }

// UseTag reports the CIP-129 tag-258 emission flag.
func (s *Set[T]) UseTag() bool { return s.useTag }

// SetUseTag overrides the tag-258 emission flag.
func (s *Set[T]) SetUseTag(v bool) { s.useTag = v }

// Contains reports whether an equal element is already present.
func (s *Set[T]) Contains(v T) bool {
	if s.seen != nil {
		idx := uint(s.fingerprint(v) % fingerprintBits)
		if !s.seen.Test(idx) {
			return false
		}
	}
	for _, e := range s.items {
		if s.equal(e, v) {
			return true
		}
	}
	return false
}

// Add appends v if no equal element is already present, and reports
// whether it was inserted.
func (s *Set[T]) Add(v T) bool {
	if s.Contains(v) {
		return false
	}
	if s.seen != nil {
		s.seen.Set(uint(s.fingerprint(v) % fingerprintBits))
	}
	s.items = append(s.items, v)
	return true
}

// DecodeSet reads a Set from the reader, accepting either a bare array or
// a tag-258-prefixed array (spec.md §4.1), and records which form was
// observed in the resulting use_tag flag (spec.md §8 property 4).
func DecodeSet[T any](r *cbor.Reader, decodeElem func(*cbor.Reader) (T, error), equal EqualFunc[T], fingerprint FingerprintFunc[T]) (*Set[T], error) {
	observedTag, err := r.PeekTag(cbor.TagSet)
	if err != nil {
		return nil, err
	}
	if observedTag {
		if _, err := r.ReadTag(); err != nil {
			return nil, err
		}
	}
	n, indefinite, err := r.ReadStartArray(cbor.ExpectEither)
	if err != nil {
		return nil, err
	}
	s := NewSet(equal, fingerprint)
	s.useTag = observedTag
	if indefinite {
		for !r.AtBreak() {
			v, derr := decodeElem(r)
			if derr != nil {
				return nil, derr
			}
			s.Add(v)
		}
		if err := r.ReadEndArray(); err != nil {
			return nil, err
		}
		return s, nil
	}
	for i := 0; i < n; i++ {
		v, derr := decodeElem(r)
		if derr != nil {
			return nil, derr
		}
		s.Add(v)
	}
	return s, nil
}

// EncodeSet writes a Set as tag(258)+array(n) when UseTag is true, or a
// bare array(n) otherwise (spec.md §4.1).
func EncodeSet[T any](s *Set[T], w *cbor.Writer, encodeElem func(T, *cbor.Writer)) {
	if s.useTag {
		w.WriteTag(cbor.TagSet)
	}
	w.WriteStartArray(len(s.items))
	for _, v := range s.items {
		encodeElem(v, w)
	}
}
