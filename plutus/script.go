// Package plutus implements PlutusScript and PlutusData (spec.md §3
// "Scripts and plutus"). PlutusData also exposes ToPlutigo/FromPlutigo
// conversions to github.com/blinklabs-io/plutigo/data.PlutusData, the
// library plutusencoder/plutus.go uses for reflection-based marshaling,
// so values built by this codec can still be handed to a plutus
// execution/marshaling layer without this package depending on one.
package plutus

import (
	"github.com/cardano-go-sdk/ledger/cache"
	"github.com/cardano-go-sdk/ledger/cbor"
	"github.com/cardano-go-sdk/ledger/cerr"
	"github.com/cardano-go-sdk/ledger/crypto/blakehash"
)

// Language identifies a Plutus script's language version.
type Language int

const (
	V1 Language = iota + 1
	V2
	V3
)

// langTagByte is the script-tag byte prefixed before a script's bytes
// when computing its hash, per Cardano's script-hash convention
// (0x01/0x02/0x03 for Plutus V1/V2/V3, distinct from NativeScript's 0x00).
func (l Language) langTagByte() byte { return byte(l) }

// PlutusScript is a length-tagged script byte string with a language
// version tag.
type PlutusScript struct {
	lang  Language
	bytes []byte
	cache cache.Cache
}

// New constructs a PlutusScript from raw compiled script bytes.
func New(lang Language, bytes []byte) (*PlutusScript, error) {
	if lang != V1 && lang != V2 && lang != V3 {
		return nil, cerr.Newf(cerr.InvalidArgument, "unknown plutus language version %d", lang)
	}
	b := make([]byte, len(bytes))
	copy(b, bytes)
	return &PlutusScript{lang: lang, bytes: b}, nil
}

// Language returns the script's language version.
func (s *PlutusScript) Language() Language { return s.lang }

// Bytes returns the script's raw compiled bytes.
func (s *PlutusScript) Bytes() []byte { return s.bytes }

// ClearCBORCache forces the next ToCBOR call to re-encode canonically.
func (s *PlutusScript) ClearCBORCache() { s.cache.Clear() }

// Hash computes the script's hash as BLAKE2b-224 over the language tag
// byte followed by the script bytes.
func (s *PlutusScript) Hash() (*blakehash.BlakeHash, error) {
	payload := append([]byte{s.lang.langTagByte()}, s.bytes...)
	return blakehash.Compute(blakehash.Size224, payload)
}

// ScriptEqual reports whether two scripts have the same language and bytes.
func ScriptEqual(a, b *PlutusScript) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.lang != b.lang || len(a.bytes) != len(b.bytes) {
		return false
	}
	for i := range a.bytes {
		if a.bytes[i] != b.bytes[i] {
			return false
		}
	}
	return true
}

// ScriptFromCBOR decodes a PlutusScript of the given language from a bare CBOR
// byte string (the wire form inside the witness set's per-language script set).
func ScriptFromCBOR(r *cbor.Reader, lang Language) (*PlutusScript, error) {
	tok := r.BeginCapture()
	raw, err := r.ReadBytes()
	if err != nil {
		return nil, err
	}
	s, err := New(lang, raw)
	if err != nil {
		return nil, err
	}
	s.cache.Capture(r.EndCapture(tok))
	return s, nil
}

// ScriptToCBOR encodes s as a CBOR byte string, replaying cached bytes if valid.
func ScriptToCBOR(s *PlutusScript, w *cbor.Writer) {
	if s.cache.WriteIfValid(w) {
		return
	}
	w.WriteBytes(s.bytes)
}
