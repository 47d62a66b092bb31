// Package auxdata implements transaction auxiliary metadata: Metadatum, a
// recursive sum {Int, Bytes, Text, List, Map}, and AuxiliaryData, the
// top-level container referenced by apollo.go's auxData type. Grounded
// on original_source/lib/include/cardano/auxiliary_data/metadatum_map.h
// (SPEC_FULL.md §6 "Supplemented Features"), absent from spec.md's
// distillation but necessary for a complete witness-adjacent data model.
package auxdata

import (
	"github.com/cardano-go-sdk/ledger/bigint"
	"github.com/cardano-go-sdk/ledger/cache"
	"github.com/cardano-go-sdk/ledger/cbor"
	"github.com/cardano-go-sdk/ledger/cerr"
)

// MetadatumKind discriminates the five Metadatum variants.
type MetadatumKind uint8

const (
	MetadatumInt MetadatumKind = iota
	MetadatumBytes
	MetadatumText
	MetadatumList
	MetadatumMap
)

// maxMetadatumStringLen is the Shelley-era transaction-metadata rule
// (distinct from Plutus data, which permits chunked byte strings): a
// single bytes or text metadatum value may not exceed 64 bytes.
const maxMetadatumStringLen = 64

// mapEntry is one key-value pair within a Metadatum map, kept in
// insertion order per spec.md §8's general ordered-map convention.
type mapEntry struct {
	key   *Metadatum
	value *Metadatum
}

// Metadatum is a single node in the recursive transaction-metadata tree:
// an arbitrary-precision integer, a byte string, a text string, an
// ordered list of Metadatum, or an ordered key/value map of Metadatum.
type Metadatum struct {
	kind  MetadatumKind
	i     *bigint.BigInt
	bytes []byte
	text  string
	list  []*Metadatum
	items []mapEntry
	cache cache.Cache
}

// NewInt wraps an arbitrary-precision integer as a Metadatum.
func NewInt(v *bigint.BigInt) *Metadatum {
	return &Metadatum{kind: MetadatumInt, i: v}
}

// NewBytes wraps a byte string as a Metadatum. b must be at most 64 bytes.
func NewBytes(b []byte) (*Metadatum, error) {
	if len(b) > maxMetadatumStringLen {
		return nil, cerr.Newf(cerr.InvalidArgument, "metadatum bytes must be at most %d bytes, got %d", maxMetadatumStringLen, len(b))
	}
	return &Metadatum{kind: MetadatumBytes, bytes: b}, nil
}

// NewText wraps a UTF-8 string as a Metadatum. s must be at most 64 bytes.
func NewText(s string) (*Metadatum, error) {
	if len(s) > maxMetadatumStringLen {
		return nil, cerr.Newf(cerr.InvalidArgument, "metadatum text must be at most %d bytes, got %d", maxMetadatumStringLen, len(s))
	}
	return &Metadatum{kind: MetadatumText, text: s}, nil
}

// NewList wraps an ordered sequence of Metadatum as a Metadatum.
func NewList(items []*Metadatum) *Metadatum {
	return &Metadatum{kind: MetadatumList, list: items}
}

// NewMap constructs an empty Metadatum map. Use Put to populate it.
func NewMap() *Metadatum {
	return &Metadatum{kind: MetadatumMap}
}

// Put inserts or overwrites key in m, preserving original insertion
// position on overwrite. m must have been created with NewMap.
func (m *Metadatum) Put(key, value *Metadatum) {
	m.cache.Clear()
	for i := range m.items {
		if Equal(m.items[i].key, key) {
			m.items[i].value = value
			return
		}
	}
	m.items = append(m.items, mapEntry{key: key, value: value})
}

func (m *Metadatum) Kind() MetadatumKind { return m.kind }
func (m *Metadatum) Int() *bigint.BigInt { return m.i }
func (m *Metadatum) Bytes() []byte       { return m.bytes }
func (m *Metadatum) Text() string        { return m.text }
func (m *Metadatum) List() []*Metadatum  { return m.list }

// MapLen returns the number of entries in a map Metadatum.
func (m *Metadatum) MapLen() int { return len(m.items) }

// MapKeys returns the map's keys, in insertion order.
func (m *Metadatum) MapKeys() []*Metadatum {
	out := make([]*Metadatum, len(m.items))
	for i, e := range m.items {
		out[i] = e.key
	}
	return out
}

// MapGet returns the value associated with key, if present.
func (m *Metadatum) MapGet(key *Metadatum) (*Metadatum, bool) {
	for _, e := range m.items {
		if Equal(e.key, key) {
			return e.value, true
		}
	}
	return nil, false
}

// ClearCBORCache forces the next ToCBOR call to re-encode canonically.
func (m *Metadatum) ClearCBORCache() { m.cache.Clear() }

// Equal reports deep structural equality between two Metadatum trees.
func Equal(a, b *Metadatum) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case MetadatumInt:
		return a.i.Cmp(b.i) == 0
	case MetadatumBytes:
		return string(a.bytes) == string(b.bytes)
	case MetadatumText:
		return a.text == b.text
	case MetadatumList:
		if len(a.list) != len(b.list) {
			return false
		}
		for i := range a.list {
			if !Equal(a.list[i], b.list[i]) {
				return false
			}
		}
		return true
	case MetadatumMap:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i].key, b.items[i].key) || !Equal(a.items[i].value, b.items[i].value) {
				return false
			}
		}
		return true
	}
	return false
}

// FromCBOR decodes a Metadatum from its CBOR representation: an integer
// (possibly a bignum via tag 2/3), a byte string, a text string, an
// array, or a map.
func FromCBOR(r *cbor.Reader) (*Metadatum, error) {
	tok := r.BeginCapture()
	m, err := decodeMetadatum(r)
	if err != nil {
		return nil, err
	}
	m.cache.Capture(r.EndCapture(tok))
	return m, nil
}

func decodeMetadatum(r *cbor.Reader) (*Metadatum, error) {
	st, err := r.Peek()
	if err != nil {
		return nil, err
	}
	switch st {
	case cbor.StateUnsignedInt, cbor.StateNegativeInt, cbor.StateTag:
		v, verr := bigint.FromCBOR(r)
		if verr != nil {
			return nil, cbor.DecodingFailed("metadatum.int", verr)
		}
		return NewInt(v), nil
	case cbor.StateByteString:
		b, berr := r.ReadBytes()
		if berr != nil {
			return nil, cbor.DecodingFailed("metadatum.bytes", berr)
		}
		m, merr := NewBytes(b)
		if merr != nil {
			return nil, cbor.DecodingFailed("metadatum.bytes", merr)
		}
		return m, nil
	case cbor.StateTextString:
		s, serr := r.ReadText()
		if serr != nil {
			return nil, cbor.DecodingFailed("metadatum.text", serr)
		}
		m, merr := NewText(s)
		if merr != nil {
			return nil, cbor.DecodingFailed("metadatum.text", merr)
		}
		return m, nil
	case cbor.StateArray:
		n, indefinite, aerr := r.ReadStartArray(cbor.ExpectEither)
		if aerr != nil {
			return nil, aerr
		}
		var items []*Metadatum
		read := func() error {
			item, ierr := decodeMetadatum(r)
			if ierr != nil {
				return ierr
			}
			items = append(items, item)
			return nil
		}
		if indefinite {
			for !r.AtBreak() {
				if err := read(); err != nil {
					return nil, err
				}
			}
			if err := r.ReadEndArray(); err != nil {
				return nil, err
			}
		} else {
			for i := 0; i < n; i++ {
				if err := read(); err != nil {
					return nil, err
				}
			}
		}
		return NewList(items), nil
	case cbor.StateMap:
		n, indefinite, merr := r.ReadStartMap(cbor.ExpectEither)
		if merr != nil {
			return nil, merr
		}
		out := NewMap()
		read := func() error {
			key, kerr := decodeMetadatum(r)
			if kerr != nil {
				return kerr
			}
			val, verr := decodeMetadatum(r)
			if verr != nil {
				return verr
			}
			out.items = append(out.items, mapEntry{key: key, value: val})
			return nil
		}
		if indefinite {
			for !r.AtBreak() {
				if err := read(); err != nil {
					return nil, err
				}
			}
			if err := r.ReadEndMap(); err != nil {
				return nil, err
			}
		} else {
			for i := 0; i < n; i++ {
				if err := read(); err != nil {
					return nil, err
				}
			}
		}
		return out, nil
	default:
		return nil, cerr.Newf(cerr.InvalidCborValue, "unexpected metadatum CBOR state %v", st)
	}
}

// ToCBOR encodes m, replaying cached bytes when valid.
func ToCBOR(m *Metadatum, w *cbor.Writer) {
	if m.cache.WriteIfValid(w) {
		return
	}
	switch m.kind {
	case MetadatumInt:
		bigint.ToCBOR(m.i, w)
	case MetadatumBytes:
		w.WriteBytes(m.bytes)
	case MetadatumText:
		w.WriteText(m.text)
	case MetadatumList:
		w.WriteStartArray(len(m.list))
		for _, item := range m.list {
			ToCBOR(item, w)
		}
	case MetadatumMap:
		w.WriteStartMap(len(m.items))
		for _, e := range m.items {
			ToCBOR(e.key, w)
			ToCBOR(e.value, w)
		}
	}
}
