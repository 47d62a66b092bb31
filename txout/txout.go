// Package txout implements TransactionOutput (spec.md §3 "Transaction
// primitives"): an address, a Value, and the post-Alonzo additions of an
// optional datum (hash or inline) and an optional reference script. Both
// the legacy Shelley/Mary/Alonzo 2-tuple form and the Babbage-era map form
// are supported on decode; the entity always re-encodes from its cache
// when unmodified, and canonically in the Babbage map form otherwise.
//
// Addresses are out of core scope per spec.md §1 ("Address Bech32/Base58
// text formatting beyond the parts that drive CBOR structure"); this
// package stores the address as the opaque bytes the CBOR wire form
// carries, without parsing its header byte or payload.
package txout

import (
	"github.com/cardano-go-sdk/ledger/cache"
	"github.com/cardano-go-sdk/ledger/cbor"
	"github.com/cardano-go-sdk/ledger/cerr"
	"github.com/cardano-go-sdk/ledger/crypto/blakehash"
	"github.com/cardano-go-sdk/ledger/nativescript"
	"github.com/cardano-go-sdk/ledger/plutus"
	"github.com/cardano-go-sdk/ledger/value"
)

// DatumKind discriminates Datum variants.
type DatumKind int

const (
	DatumHash DatumKind = iota
	DatumInline
)

// Datum is a transaction output's optional datum: a 32-byte hash
// reference, or plutus data inlined directly in the output.
type Datum struct {
	kind   DatumKind
	hash   *blakehash.BlakeHash
	inline *plutus.PlutusData
}

// NewDatumHash constructs a hash-reference datum.
func NewDatumHash(hash *blakehash.BlakeHash) (*Datum, error) {
	if hash.Size() != int(blakehash.Size256) {
		return nil, cerr.Newf(cerr.InvalidBlake2bHashSize, "datum hash must be 32 bytes, got %d", hash.Size())
	}
	return &Datum{kind: DatumHash, hash: hash}, nil
}

// NewDatumInline constructs an inline datum.
func NewDatumInline(data *plutus.PlutusData) *Datum {
	return &Datum{kind: DatumInline, inline: data}
}

// Kind reports which variant d is.
func (d *Datum) Kind() DatumKind { return d.kind }

// Hash returns the DatumHash variant's hash.
func (d *Datum) Hash() *blakehash.BlakeHash { return d.hash }

// Inline returns the DatumInline variant's plutus data.
func (d *Datum) Inline() *plutus.PlutusData { return d.inline }

func datumFromCBOR(r *cbor.Reader) (*Datum, error) {
	n, _, err := r.ReadStartArray(cbor.ExpectDefinite)
	if err != nil {
		return nil, err
	}
	if n != 2 {
		return nil, cbor.DecodingFailed("datum_option", cerr.Newf(cerr.InvalidCborArraySize, "expected array of 2, got %d", n))
	}
	kind, err := r.ReadU64()
	if err != nil {
		return nil, cbor.DecodingFailed("datum_option.tag", err)
	}
	switch kind {
	case 0:
		hash, herr := blakehash.FromCBOR(r, blakehash.Size256)
		if herr != nil {
			return nil, cbor.DecodingFailed("datum_option.hash", herr)
		}
		return NewDatumHash(hash)
	case 1:
		raw, berr := r.ReadTaggedCBORBytes()
		if berr != nil {
			return nil, cbor.DecodingFailed("datum_option.inline", berr)
		}
		data, derr := plutus.FromCBOR(cbor.FromBytes(raw))
		if derr != nil {
			return nil, cbor.DecodingFailed("datum_option.inline.data", derr)
		}
		return NewDatumInline(data), nil
	default:
		return nil, cbor.DecodingFailed("datum_option.tag", cerr.Newf(cerr.InvalidCborValue, "unknown datum option tag %d", kind))
	}
}

func datumToCBOR(d *Datum, w *cbor.Writer) {
	w.WriteStartArray(2)
	switch d.kind {
	case DatumHash:
		w.WriteU64(0)
		blakehash.ToCBOR(d.hash, w)
	case DatumInline:
		w.WriteU64(1)
		inner := cbor.New()
		plutus.ToCBOR(d.inline, inner)
		w.WriteTaggedCBORBytes(inner.ToBytes())
	}
}

// ScriptRefKind discriminates which script family a ScriptRef wraps.
type ScriptRefKind int

const (
	ScriptRefNative ScriptRefKind = iota
	ScriptRefPlutusV1
	ScriptRefPlutusV2
	ScriptRefPlutusV3
)

// ScriptRef is a transaction output's optional reference script.
type ScriptRef struct {
	kind   ScriptRefKind
	native *nativescript.NativeScript
	plutus *plutus.PlutusScript
}

// NewScriptRefNative wraps a native script as a reference script.
func NewScriptRefNative(s *nativescript.NativeScript) *ScriptRef {
	return &ScriptRef{kind: ScriptRefNative, native: s}
}

// NewScriptRefPlutus wraps a plutus script as a reference script.
func NewScriptRefPlutus(s *plutus.PlutusScript) *ScriptRef {
	kind := ScriptRefPlutusV1
	switch s.Language() {
	case plutus.V2:
		kind = ScriptRefPlutusV2
	case plutus.V3:
		kind = ScriptRefPlutusV3
	}
	return &ScriptRef{kind: kind, plutus: s}
}

// Kind reports which script family r wraps.
func (r *ScriptRef) Kind() ScriptRefKind { return r.kind }

// Native returns the wrapped native script, or nil.
func (r *ScriptRef) Native() *nativescript.NativeScript { return r.native }

// Plutus returns the wrapped plutus script, or nil.
func (r *ScriptRef) Plutus() *plutus.PlutusScript { return r.plutus }

func scriptRefFromCBOR(r *cbor.Reader) (*ScriptRef, error) {
	raw, err := r.ReadTaggedCBORBytes()
	if err != nil {
		return nil, err
	}
	inner := cbor.FromBytes(raw)
	n, _, aerr := inner.ReadStartArray(cbor.ExpectDefinite)
	if aerr != nil {
		return nil, aerr
	}
	if n != 2 {
		return nil, cbor.DecodingFailed("script_ref", cerr.Newf(cerr.InvalidCborArraySize, "expected array of 2, got %d", n))
	}
	kind, kerr := inner.ReadU64()
	if kerr != nil {
		return nil, cbor.DecodingFailed("script_ref.tag", kerr)
	}
	switch kind {
	case 0:
		s, serr := nativescript.FromCBOR(inner)
		if serr != nil {
			return nil, serr
		}
		return NewScriptRefNative(s), nil
	case 1, 2, 3:
		lang := plutus.Language(kind)
		s, serr := plutus.ScriptFromCBOR(inner, lang)
		if serr != nil {
			return nil, serr
		}
		return NewScriptRefPlutus(s), nil
	default:
		return nil, cbor.DecodingFailed("script_ref.tag", cerr.Newf(cerr.InvalidCborValue, "unknown script ref tag %d", kind))
	}
}

func scriptRefToCBOR(ref *ScriptRef, w *cbor.Writer) {
	inner := cbor.New()
	inner.WriteStartArray(2)
	switch ref.kind {
	case ScriptRefNative:
		inner.WriteU64(0)
		nativescript.ToCBOR(ref.native, inner)
	default:
		inner.WriteU64(uint64(ref.kind))
		plutus.ScriptToCBOR(ref.plutus, inner)
	}
	w.WriteTaggedCBORBytes(inner.ToBytes())
}

// TransactionOutput is an address, amount, and the post-Alonzo optional
// datum/reference-script fields.
type TransactionOutput struct {
	address   []byte
	value     *value.Value
	datum     *Datum
	scriptRef *ScriptRef
	cache     cache.Cache
}

// New constructs a TransactionOutput. address is the raw address bytes.
func New(address []byte, v *value.Value, datum *Datum, scriptRef *ScriptRef) *TransactionOutput {
	addr := make([]byte, len(address))
	copy(addr, address)
	return &TransactionOutput{address: addr, value: v, datum: datum, scriptRef: scriptRef}
}

// Address returns the output's raw address bytes.
func (o *TransactionOutput) Address() []byte { return o.address }

// Value returns the output's amount.
func (o *TransactionOutput) Value() *value.Value { return o.value }

// Datum returns the output's datum, or nil.
func (o *TransactionOutput) Datum() *Datum { return o.datum }

// ScriptRef returns the output's reference script, or nil.
func (o *TransactionOutput) ScriptRef() *ScriptRef { return o.scriptRef }

// ClearCBORCache forces the next ToCBOR call to re-encode canonically.
func (o *TransactionOutput) ClearCBORCache() { o.cache.Clear() }

// FromCBOR decodes a TransactionOutput, accepting either the legacy
// [address, value] array form or the Babbage-era map form.
func FromCBOR(r *cbor.Reader) (*TransactionOutput, error) {
	tok := r.BeginCapture()
	st, err := r.Peek()
	if err != nil {
		return nil, err
	}
	var out *TransactionOutput
	if st == cbor.StateArray {
		n, _, aerr := r.ReadStartArray(cbor.ExpectDefinite)
		if aerr != nil {
			return nil, aerr
		}
		if n < 2 {
			return nil, cbor.DecodingFailed("transaction_output", cerr.Newf(cerr.InvalidCborArraySize, "expected at least 2 elements, got %d", n))
		}
		addr, aerr2 := r.ReadBytes()
		if aerr2 != nil {
			return nil, cbor.DecodingFailed("transaction_output.address", aerr2)
		}
		v, verr := value.FromCBOR(r)
		if verr != nil {
			return nil, cbor.DecodingFailed("transaction_output.value", verr)
		}
		out = New(addr, v, nil, nil)
	} else {
		n, indefinite, merr := r.ReadStartMap(cbor.ExpectEither)
		if merr != nil {
			return nil, merr
		}
		out = &TransactionOutput{}
		readField := func() error {
			key, kerr := r.ReadU64()
			if kerr != nil {
				return cbor.DecodingFailed("transaction_output.key", kerr)
			}
			switch key {
			case 0:
				addr, aerr2 := r.ReadBytes()
				if aerr2 != nil {
					return cbor.DecodingFailed("transaction_output.address", aerr2)
				}
				out.address = addr
			case 1:
				v, verr := value.FromCBOR(r)
				if verr != nil {
					return cbor.DecodingFailed("transaction_output.value", verr)
				}
				out.value = v
			case 2:
				d, derr := datumFromCBOR(r)
				if derr != nil {
					return derr
				}
				out.datum = d
			case 3:
				s, serr := scriptRefFromCBOR(r)
				if serr != nil {
					return serr
				}
				out.scriptRef = s
			default:
				return cbor.DecodingFailed("transaction_output.key", cerr.Newf(cerr.InvalidCborValue, "unknown output key %d", key))
			}
			return nil
		}
		if indefinite {
			for !r.AtBreak() {
				if err := readField(); err != nil {
					return nil, err
				}
			}
			if err := r.ReadEndMap(); err != nil {
				return nil, err
			}
		} else {
			for i := 0; i < n; i++ {
				if err := readField(); err != nil {
					return nil, err
				}
			}
		}
	}
	out.cache.Capture(r.EndCapture(tok))
	return out, nil
}

// ToCBOR encodes o. Without a cache hit, it always uses the canonical
// Babbage-era map form, which legacy-only outputs (no datum, no script
// ref) can equally be read back from.
func ToCBOR(o *TransactionOutput, w *cbor.Writer) {
	if o.cache.WriteIfValid(w) {
		return
	}
	n := 2
	if o.datum != nil {
		n++
	}
	if o.scriptRef != nil {
		n++
	}
	w.WriteStartMap(n)
	w.WriteU64(0)
	w.WriteBytes(o.address)
	w.WriteU64(1)
	value.ToCBOR(o.value, w)
	if o.datum != nil {
		w.WriteU64(2)
		datumToCBOR(o.datum, w)
	}
	if o.scriptRef != nil {
		w.WriteU64(3)
		scriptRefToCBOR(o.scriptRef, w)
	}
}
