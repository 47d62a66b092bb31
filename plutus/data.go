package plutus

import (
	"math/big"

	"github.com/cardano-go-sdk/ledger/bigint"
	"github.com/cardano-go-sdk/ledger/cache"
	"github.com/cardano-go-sdk/ledger/cbor"
	"github.com/cardano-go-sdk/ledger/cerr"
)

// DataKind discriminates the five PlutusData variants.
type DataKind int

const (
	KindConstr DataKind = iota
	KindMap
	KindList
	KindInteger
	KindByteString
)

// KV is one key/value pair of a PlutusData Map, in insertion order.
// PlutusData::Map never deduplicates — duplicate keys are preserved
// faithfully (spec.md §3 invariants).
type KV struct {
	Key   *PlutusData
	Value *PlutusData
}

// PlutusData is the recursive on-chain data type consumed by Plutus
// scripts: Constr(tag, fields), Map(kvpairs), List(items), Integer(BigInt),
// ByteString(bytes). Equality is structural through the tree; List
// preserves order; Map preserves insertion order and duplicate keys.
type PlutusData struct {
	kind      DataKind
	constrTag uint64
	fields    []*PlutusData // Constr
	pairs     []KV          // Map
	items     []*PlutusData // List
	integer   *bigint.BigInt
	bytes     []byte
	cache     cache.Cache
}

// NewConstr constructs a constructor application with the given tag and fields.
func NewConstr(tag uint64, fields []*PlutusData) *PlutusData {
	return &PlutusData{kind: KindConstr, constrTag: tag, fields: fields}
}

// NewMap constructs a Map from ordered key/value pairs, preserving duplicates.
func NewMap(pairs []KV) *PlutusData {
	return &PlutusData{kind: KindMap, pairs: pairs}
}

// NewList constructs a List preserving element order.
func NewList(items []*PlutusData) *PlutusData {
	return &PlutusData{kind: KindList, items: items}
}

// NewInteger constructs an Integer from an arbitrary-precision value.
func NewInteger(v *bigint.BigInt) *PlutusData {
	return &PlutusData{kind: KindInteger, integer: v}
}

// NewByteString constructs a ByteString, copying the given bytes.
func NewByteString(b []byte) *PlutusData {
	out := make([]byte, len(b))
	copy(out, b)
	return &PlutusData{kind: KindByteString, bytes: out}
}

// Kind reports which variant d is.
func (d *PlutusData) Kind() DataKind { return d.kind }

// ConstrTag returns the constructor tag of a Constr value.
func (d *PlutusData) ConstrTag() uint64 { return d.constrTag }

// Fields returns the fields of a Constr value.
func (d *PlutusData) Fields() []*PlutusData { return d.fields }

// Pairs returns the key/value pairs of a Map value, in insertion order.
func (d *PlutusData) Pairs() []KV { return d.pairs }

// Items returns the elements of a List value, in order.
func (d *PlutusData) Items() []*PlutusData { return d.items }

// Integer returns the value of an Integer variant.
func (d *PlutusData) Integer() *bigint.BigInt { return d.integer }

// Bytes returns the value of a ByteString variant.
func (d *PlutusData) Bytes() []byte { return d.bytes }

// ClearCBORCache forces the next ToCBOR call to re-encode canonically
// (spec.md §8 Scenario C).
func (d *PlutusData) ClearCBORCache() { d.cache.Clear() }

// Equal reports structural equality through the whole tree, respecting
// constructor tags and Map insertion order.
func Equal(a, b *PlutusData) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindConstr:
		if a.constrTag != b.constrTag || len(a.fields) != len(b.fields) {
			return false
		}
		for i := range a.fields {
			if !Equal(a.fields[i], b.fields[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(a.pairs) != len(b.pairs) {
			return false
		}
		for i := range a.pairs {
			if !Equal(a.pairs[i].Key, b.pairs[i].Key) || !Equal(a.pairs[i].Value, b.pairs[i].Value) {
				return false
			}
		}
		return true
	case KindList:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	case KindInteger:
		return a.integer.Cmp(b.integer) == 0
	case KindByteString:
		if len(a.bytes) != len(b.bytes) {
			return false
		}
		for i := range a.bytes {
			if a.bytes[i] != b.bytes[i] {
				return false
			}
		}
		return true
	default:
		return false
	}
}

const constrCompactMax = 6    // tags 0-6 -> CBOR tag 121-127
const constrExtendedMax = 127 // tags 7-127 -> CBOR tag 1280-1400

const (
	tagConstrCompactBase  = 121
	tagConstrExtendedBase = 1280
	tagConstrGeneral      = 102
)

// FromCBOR decodes a PlutusData value per spec.md §4.1/§6.1: Constr via
// tag 121+n, 1280+(n-7), or the general tag-102 form; Map/List via plain
// CBOR major types 5/4; Integer via plain int or bignum tag; ByteString
// via a (possibly chunked) byte string.
func FromCBOR(r *cbor.Reader) (*PlutusData, error) {
	tok := r.BeginCapture()
	d, err := fromCBORInner(r)
	if err != nil {
		return nil, err
	}
	d.cache.Capture(r.EndCapture(tok))
	return d, nil
}

func fromCBORInner(r *cbor.Reader) (*PlutusData, error) {
	st, err := r.Peek()
	if err != nil {
		return nil, err
	}
	switch st {
	case cbor.StateTag:
		return fromCBORTag(r)
	case cbor.StateMap:
		return fromCBORMap(r)
	case cbor.StateArray:
		return fromCBORList(r)
	case cbor.StateUnsignedInt, cbor.StateNegativeInt:
		v, ierr := r.ReadBigInt()
		if ierr != nil {
			return nil, cbor.DecodingFailed("plutus_data.integer", ierr)
		}
		return NewInteger(bigint.FromBig(v)), nil
	case cbor.StateByteString:
		b, berr := r.ReadBytes()
		if berr != nil {
			return nil, cbor.DecodingFailed("plutus_data.bytestring", berr)
		}
		return NewByteString(b), nil
	default:
		return nil, cbor.DecodingFailed("plutus_data", cerr.New(cerr.UnexpectedCborType, "unexpected plutus data token"))
	}
}

func fromCBORTag(r *cbor.Reader) (*PlutusData, error) {
	tag, err := r.ReadTag()
	if err != nil {
		return nil, err
	}
	switch {
	case tag == cbor.TagPositiveBignum || tag == cbor.TagNegativeBignum:
		raw, berr := r.ReadBytes()
		if berr != nil {
			return nil, cbor.DecodingFailed("plutus_data.bignum", berr)
		}
		mag := new(big.Int).SetBytes(raw)
		if tag == cbor.TagNegativeBignum {
			mag.Add(mag, big.NewInt(1))
			mag.Neg(mag)
		}
		return NewInteger(bigint.FromBig(mag)), nil
	case tag >= tagConstrCompactBase && tag <= tagConstrCompactBase+constrCompactMax:
		fields, ferr := decodeFieldsArray(r)
		if ferr != nil {
			return nil, ferr
		}
		return NewConstr(tag-tagConstrCompactBase, fields), nil
	case tag >= tagConstrExtendedBase && tag <= tagConstrExtendedBase+(constrExtendedMax-7):
		fields, ferr := decodeFieldsArray(r)
		if ferr != nil {
			return nil, ferr
		}
		return NewConstr(tag-tagConstrExtendedBase+7, fields), nil
	case tag == tagConstrGeneral:
		n, _, aerr := r.ReadStartArray(cbor.ExpectDefinite)
		if aerr != nil {
			return nil, aerr
		}
		if n != 2 {
			return nil, cbor.DecodingFailed("plutus_data.constr", cerr.Newf(cerr.InvalidCborArraySize, "expected array of 2, got %d", n))
		}
		constrTag, terr := r.ReadU64()
		if terr != nil {
			return nil, cbor.DecodingFailed("plutus_data.constr.tag", terr)
		}
		fields, ferr := decodeFieldsArray(r)
		if ferr != nil {
			return nil, ferr
		}
		return NewConstr(constrTag, fields), nil
	default:
		return nil, cbor.DecodingFailed("plutus_data", cerr.Newf(cerr.InvalidCborValue, "unexpected plutus data tag %d", tag))
	}
}

func decodeFieldsArray(r *cbor.Reader) ([]*PlutusData, error) {
	n, indefinite, err := r.ReadStartArray(cbor.ExpectEither)
	if err != nil {
		return nil, err
	}
	var fields []*PlutusData
	if indefinite {
		for !r.AtBreak() {
			f, ferr := FromCBOR(r)
			if ferr != nil {
				return nil, ferr
			}
			fields = append(fields, f)
		}
		if err := r.ReadEndArray(); err != nil {
			return nil, err
		}
		return fields, nil
	}
	fields = make([]*PlutusData, 0, n)
	for i := 0; i < n; i++ {
		f, ferr := FromCBOR(r)
		if ferr != nil {
			return nil, ferr
		}
		fields = append(fields, f)
	}
	return fields, nil
}

func fromCBORMap(r *cbor.Reader) (*PlutusData, error) {
	n, indefinite, err := r.ReadStartMap(cbor.ExpectEither)
	if err != nil {
		return nil, err
	}
	var pairs []KV
	readPair := func() error {
		k, kerr := FromCBOR(r)
		if kerr != nil {
			return kerr
		}
		v, verr := FromCBOR(r)
		if verr != nil {
			return verr
		}
		pairs = append(pairs, KV{Key: k, Value: v})
		return nil
	}
	if indefinite {
		for !r.AtBreak() {
			if err := readPair(); err != nil {
				return nil, err
			}
		}
		if err := r.ReadEndMap(); err != nil {
			return nil, err
		}
		return NewMap(pairs), nil
	}
	for i := 0; i < n; i++ {
		if err := readPair(); err != nil {
			return nil, err
		}
	}
	return NewMap(pairs), nil
}

func fromCBORList(r *cbor.Reader) (*PlutusData, error) {
	items, err := decodeFieldsArray(r)
	if err != nil {
		return nil, err
	}
	return NewList(items), nil
}

// ToCBOR encodes d per spec.md §6.1, replaying the cache when valid. On a
// cache miss, fixed-size byte strings over 64 bytes are chunked into an
// indefinite-length byte string per the node's convention.
func ToCBOR(d *PlutusData, w *cbor.Writer) {
	if d.cache.WriteIfValid(w) {
		return
	}
	switch d.kind {
	case KindConstr:
		writeConstrTag(d.constrTag, w)
		if d.constrTag > constrExtendedMax {
			w.WriteStartArray(2)
			w.WriteU64(d.constrTag)
		}
		w.WriteStartArray(len(d.fields))
		for _, f := range d.fields {
			ToCBOR(f, w)
		}
	case KindMap:
		w.WriteStartMap(len(d.pairs))
		for _, p := range d.pairs {
			ToCBOR(p.Key, w)
			ToCBOR(p.Value, w)
		}
	case KindList:
		w.WriteStartArray(len(d.items))
		for _, it := range d.items {
			ToCBOR(it, w)
		}
	case KindInteger:
		bigint.ToCBOR(d.integer, w)
	case KindByteString:
		if len(d.bytes) <= 64 {
			w.WriteBytes(d.bytes)
			return
		}
		var chunks [][]byte
		for i := 0; i < len(d.bytes); i += 64 {
			end := i + 64
			if end > len(d.bytes) {
				end = len(d.bytes)
			}
			chunks = append(chunks, d.bytes[i:end])
		}
		w.WriteBytesChunked(chunks)
	}
}

func writeConstrTag(tag uint64, w *cbor.Writer) {
	switch {
	case tag <= constrCompactMax:
		w.WriteTag(tagConstrCompactBase + tag)
	case tag <= constrExtendedMax:
		w.WriteTag(tagConstrExtendedBase + (tag - 7))
	default:
		w.WriteTag(tagConstrGeneral)
	}
}
