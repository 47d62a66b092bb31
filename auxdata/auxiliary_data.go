package auxdata

import (
	"github.com/cardano-go-sdk/ledger/cache"
	"github.com/cardano-go-sdk/ledger/cbor"
	"github.com/cardano-go-sdk/ledger/cerr"
	"github.com/cardano-go-sdk/ledger/nativescript"
	"github.com/cardano-go-sdk/ledger/plutus"
)

// metadataEntry is one transaction-metadata label -> Metadatum pair, kept
// in insertion order.
type metadataEntry struct {
	label uint64
	value *Metadatum
}

// AuxiliaryData is a transaction's auxiliary data block: a general
// transaction-metadata map plus the three post-Shelley script buckets
// (native, Plutus V1/V2/V3) introduced by shelley-ma and alonzo. Encoded
// in the Alonzo+ tagged-map form ({0: metadata, 1: native_scripts,
// 2: plutus_v1_scripts, 3: plutus_v2_scripts, 4: plutus_v3_scripts}),
// the only form a Conway-era producer emits; the bare-map and
// [metadata, native_scripts] legacy forms are accepted on decode for
// backward compatibility but never produced on encode.
type AuxiliaryData struct {
	metadata      []metadataEntry
	nativeScripts []*nativescript.NativeScript
	plutusV1      []*plutus.PlutusScript
	plutusV2      []*plutus.PlutusScript
	plutusV3      []*plutus.PlutusScript
	cache         cache.Cache
}

// New constructs an empty AuxiliaryData.
func New() *AuxiliaryData { return &AuxiliaryData{} }

// SetMetadata inserts or overwrites label's metadata value, preserving
// original insertion position on overwrite.
func (a *AuxiliaryData) SetMetadata(label uint64, value *Metadatum) {
	a.cache.Clear()
	for i := range a.metadata {
		if a.metadata[i].label == label {
			a.metadata[i].value = value
			return
		}
	}
	a.metadata = append(a.metadata, metadataEntry{label: label, value: value})
}

// Metadata returns the value recorded for label, if any.
func (a *AuxiliaryData) Metadata(label uint64) (*Metadatum, bool) {
	for _, e := range a.metadata {
		if e.label == label {
			return e.value, true
		}
	}
	return nil, false
}

// MetadataLabels returns the recorded metadata labels, in insertion order.
func (a *AuxiliaryData) MetadataLabels() []uint64 {
	out := make([]uint64, len(a.metadata))
	for i, e := range a.metadata {
		out[i] = e.label
	}
	return out
}

// SetNativeScripts replaces the auxiliary native-script bucket.
func (a *AuxiliaryData) SetNativeScripts(scripts []*nativescript.NativeScript) {
	a.cache.Clear()
	a.nativeScripts = scripts
}

// SetPlutusV1Scripts replaces the auxiliary Plutus V1 script bucket.
func (a *AuxiliaryData) SetPlutusV1Scripts(scripts []*plutus.PlutusScript) {
	a.cache.Clear()
	a.plutusV1 = scripts
}

// SetPlutusV2Scripts replaces the auxiliary Plutus V2 script bucket.
func (a *AuxiliaryData) SetPlutusV2Scripts(scripts []*plutus.PlutusScript) {
	a.cache.Clear()
	a.plutusV2 = scripts
}

// SetPlutusV3Scripts replaces the auxiliary Plutus V3 script bucket.
func (a *AuxiliaryData) SetPlutusV3Scripts(scripts []*plutus.PlutusScript) {
	a.cache.Clear()
	a.plutusV3 = scripts
}

func (a *AuxiliaryData) NativeScripts() []*nativescript.NativeScript { return a.nativeScripts }
func (a *AuxiliaryData) PlutusV1Scripts() []*plutus.PlutusScript     { return a.plutusV1 }
func (a *AuxiliaryData) PlutusV2Scripts() []*plutus.PlutusScript     { return a.plutusV2 }
func (a *AuxiliaryData) PlutusV3Scripts() []*plutus.PlutusScript     { return a.plutusV3 }

// ClearCBORCache forces the next ToCBOR call to re-encode canonically.
func (a *AuxiliaryData) ClearCBORCache() { a.cache.Clear() }

// tagAuxiliaryDataSet is CBOR tag 259, wrapping the Alonzo+ auxiliary_data
// map form per the ledger CDDL (auxiliary_data = metadata / [metadata,
// native_scripts] / #6.259({...})).
const tagAuxiliaryDataSet = 259

const (
	keyMetadata = 0
	keyNative   = 1
	keyPlutusV1 = 2
	keyPlutusV2 = 3
	keyPlutusV3 = 4
)

// FromCBOR decodes an AuxiliaryData, accepting the legacy bare-metadata
// map form, the shelley-ma [metadata, native_scripts] array form, and the
// Alonzo+ tagged-map form.
func FromCBOR(r *cbor.Reader) (*AuxiliaryData, error) {
	tok := r.BeginCapture()
	st, err := r.Peek()
	if err != nil {
		return nil, err
	}
	out := New()
	switch st {
	case cbor.StateTag:
		if err := decodeTaggedMap(r, out); err != nil {
			return nil, err
		}
	case cbor.StateMap:
		if err := decodeMetadataMap(r, out); err != nil {
			return nil, err
		}
	case cbor.StateArray:
		n, _, aerr := r.ReadStartArray(cbor.ExpectDefinite)
		if aerr != nil {
			return nil, aerr
		}
		if n != 2 {
			return nil, cbor.DecodingFailed("auxiliary_data", cerr.Newf(cerr.InvalidCborArraySize, "expected array of 2, got %d", n))
		}
		if err := decodeMetadataMap(r, out); err != nil {
			return nil, err
		}
		scripts, serr := decodeNativeScriptList(r)
		if serr != nil {
			return nil, serr
		}
		out.nativeScripts = scripts
	default:
		return nil, cerr.Newf(cerr.InvalidCborValue, "unexpected auxiliary_data CBOR state %v", st)
	}
	out.cache.Capture(r.EndCapture(tok))
	return out, nil
}

func decodeMetadataMap(r *cbor.Reader, out *AuxiliaryData) error {
	n, indefinite, err := r.ReadStartMap(cbor.ExpectEither)
	if err != nil {
		return err
	}
	read := func() error {
		label, lerr := r.ReadU64()
		if lerr != nil {
			return cbor.DecodingFailed("auxiliary_data.metadata.label", lerr)
		}
		val, verr := FromCBOR(r)
		if verr != nil {
			return verr
		}
		out.SetMetadata(label, val)
		return nil
	}
	if indefinite {
		for !r.AtBreak() {
			if err := read(); err != nil {
				return err
			}
		}
		return r.ReadEndMap()
	}
	for i := 0; i < n; i++ {
		if err := read(); err != nil {
			return err
		}
	}
	return nil
}

// decodeTaggedMap decodes the Alonzo+ tag-259-wrapped {0,1,2,3,4} map form.
func decodeTaggedMap(r *cbor.Reader, out *AuxiliaryData) error {
	tag, terr := r.ReadTag()
	if terr != nil {
		return terr
	}
	if tag != tagAuxiliaryDataSet {
		return cerr.Newf(cerr.InvalidCborValue, "unexpected auxiliary_data tag %d", tag)
	}
	n, indefinite, err := r.ReadStartMap(cbor.ExpectEither)
	if err != nil {
		return err
	}
	read := func() error {
		key, kerr := r.ReadU64()
		if kerr != nil {
			return cbor.DecodingFailed("auxiliary_data.key", kerr)
		}
		switch key {
		case keyMetadata:
			if err := decodeMetadataMap(r, out); err != nil {
				return err
			}
		case keyNative:
			scripts, serr := decodeNativeScriptList(r)
			if serr != nil {
				return serr
			}
			out.nativeScripts = scripts
		case keyPlutusV1:
			scripts, serr := decodePlutusScriptList(r, plutus.V1)
			if serr != nil {
				return serr
			}
			out.plutusV1 = scripts
		case keyPlutusV2:
			scripts, serr := decodePlutusScriptList(r, plutus.V2)
			if serr != nil {
				return serr
			}
			out.plutusV2 = scripts
		case keyPlutusV3:
			scripts, serr := decodePlutusScriptList(r, plutus.V3)
			if serr != nil {
				return serr
			}
			out.plutusV3 = scripts
		default:
			return cerr.Newf(cerr.InvalidCborValue, "unknown auxiliary_data key %d", key)
		}
		return nil
	}
	if indefinite {
		for !r.AtBreak() {
			if err := read(); err != nil {
				return err
			}
		}
		return r.ReadEndMap()
	}
	for i := 0; i < n; i++ {
		if err := read(); err != nil {
			return err
		}
	}
	return nil
}

func decodeNativeScriptList(r *cbor.Reader) ([]*nativescript.NativeScript, error) {
	n, indefinite, err := r.ReadStartArray(cbor.ExpectEither)
	if err != nil {
		return nil, err
	}
	var out []*nativescript.NativeScript
	read := func() error {
		s, serr := nativescript.FromCBOR(r)
		if serr != nil {
			return serr
		}
		out = append(out, s)
		return nil
	}
	if indefinite {
		for !r.AtBreak() {
			if err := read(); err != nil {
				return nil, err
			}
		}
		return out, r.ReadEndArray()
	}
	for i := 0; i < n; i++ {
		if err := read(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func encodeNativeScriptList(scripts []*nativescript.NativeScript, w *cbor.Writer) {
	w.WriteStartArray(len(scripts))
	for _, s := range scripts {
		nativescript.ToCBOR(s, w)
	}
}

func decodePlutusScriptList(r *cbor.Reader, lang plutus.Language) ([]*plutus.PlutusScript, error) {
	n, indefinite, err := r.ReadStartArray(cbor.ExpectEither)
	if err != nil {
		return nil, err
	}
	var out []*plutus.PlutusScript
	read := func() error {
		s, serr := plutus.ScriptFromCBOR(r, lang)
		if serr != nil {
			return serr
		}
		out = append(out, s)
		return nil
	}
	if indefinite {
		for !r.AtBreak() {
			if err := read(); err != nil {
				return nil, err
			}
		}
		return out, r.ReadEndArray()
	}
	for i := 0; i < n; i++ {
		if err := read(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ToCBOR encodes a in the Alonzo+ tagged-map form, replaying cached bytes
// when valid.
func ToCBOR(a *AuxiliaryData, w *cbor.Writer) {
	if a.cache.WriteIfValid(w) {
		return
	}
	w.WriteTag(tagAuxiliaryDataSet)
	n := 1
	if len(a.nativeScripts) > 0 {
		n++
	}
	if len(a.plutusV1) > 0 {
		n++
	}
	if len(a.plutusV2) > 0 {
		n++
	}
	if len(a.plutusV3) > 0 {
		n++
	}
	w.WriteStartMap(n)
	w.WriteU64(keyMetadata)
	w.WriteStartMap(len(a.metadata))
	for _, e := range a.metadata {
		w.WriteU64(e.label)
		ToCBOR(e.value, w)
	}
	if len(a.nativeScripts) > 0 {
		w.WriteU64(keyNative)
		encodeNativeScriptList(a.nativeScripts, w)
	}
	if len(a.plutusV1) > 0 {
		w.WriteU64(keyPlutusV1)
		w.WriteStartArray(len(a.plutusV1))
		for _, s := range a.plutusV1 {
			plutus.ScriptToCBOR(s, w)
		}
	}
	if len(a.plutusV2) > 0 {
		w.WriteU64(keyPlutusV2)
		w.WriteStartArray(len(a.plutusV2))
		for _, s := range a.plutusV2 {
			plutus.ScriptToCBOR(s, w)
		}
	}
	if len(a.plutusV3) > 0 {
		w.WriteU64(keyPlutusV3)
		w.WriteStartArray(len(a.plutusV3))
		for _, s := range a.plutusV3 {
			plutus.ScriptToCBOR(s, w)
		}
	}
}

// AuxiliaryDataEqual reports deep structural equality between two
// AuxiliaryData values.
func AuxiliaryDataEqual(a, b *AuxiliaryData) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.metadata) != len(b.metadata) {
		return false
	}
	for i := range a.metadata {
		if a.metadata[i].label != b.metadata[i].label || !Equal(a.metadata[i].value, b.metadata[i].value) {
			return false
		}
	}
	if len(a.nativeScripts) != len(b.nativeScripts) {
		return false
	}
	for i := range a.nativeScripts {
		if !nativescript.Equal(a.nativeScripts[i], b.nativeScripts[i]) {
			return false
		}
	}
	if !plutusScriptsEqual(a.plutusV1, b.plutusV1) || !plutusScriptsEqual(a.plutusV2, b.plutusV2) || !plutusScriptsEqual(a.plutusV3, b.plutusV3) {
		return false
	}
	return true
}

func plutusScriptsEqual(a, b []*plutus.PlutusScript) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !plutus.ScriptEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}
