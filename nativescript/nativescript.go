// Package nativescript implements NativeScript (spec.md §3 "Scripts and
// plutus"): a sum of {PubKey(hash), All[list], Any[list], NOfK(n,list),
// InvalidBefore(slot), InvalidHereafter(slot)}. Tag numbers and recursive
// array shape follow the Cardano ledger's native_script CDDL, the same
// six-variant family apollo.go holds as common.NativeScript values.
package nativescript

import (
	"github.com/cardano-go-sdk/ledger/cache"
	"github.com/cardano-go-sdk/ledger/cbor"
	"github.com/cardano-go-sdk/ledger/cerr"
	"github.com/cardano-go-sdk/ledger/container"
	"github.com/cardano-go-sdk/ledger/crypto/blakehash"
)

// Kind discriminates the six NativeScript variants.
type Kind int

const (
	KindPubKey Kind = iota
	KindAll
	KindAny
	KindNOfK
	KindInvalidBefore
	KindInvalidHereafter
)

// NativeScript is a recursive multi-signature / time-lock script.
type NativeScript struct {
	kind    Kind
	keyHash *blakehash.BlakeHash // PubKey
	scripts []*NativeScript      // All, Any, NOfK
	n       uint64               // NOfK
	slot    uint64               // InvalidBefore, InvalidHereafter
	cache   cache.Cache
}

// NewPubKey constructs a PubKey script requiring a signature from the
// given key hash.
func NewPubKey(keyHash *blakehash.BlakeHash) (*NativeScript, error) {
	if keyHash.Size() != int(blakehash.Size224) {
		return nil, cerr.Newf(cerr.InvalidBlake2bHashSize, "native script key hash must be 28 bytes, got %d", keyHash.Size())
	}
	return &NativeScript{kind: KindPubKey, keyHash: keyHash}, nil
}

// NewAll constructs an All script requiring every sub-script to be satisfied.
func NewAll(scripts []*NativeScript) *NativeScript {
	return &NativeScript{kind: KindAll, scripts: scripts}
}

// NewAny constructs an Any script requiring at least one sub-script.
func NewAny(scripts []*NativeScript) *NativeScript {
	return &NativeScript{kind: KindAny, scripts: scripts}
}

// NewNOfK constructs an NOfK script requiring n of the given sub-scripts.
func NewNOfK(n uint64, scripts []*NativeScript) (*NativeScript, error) {
	if n > uint64(len(scripts)) {
		return nil, cerr.Newf(cerr.InvalidArgument, "n_of_k requires n <= len(scripts), got n=%d len=%d", n, len(scripts))
	}
	return &NativeScript{kind: KindNOfK, n: n, scripts: scripts}, nil
}

// NewInvalidBefore constructs a time-lock valid only at or after slot.
func NewInvalidBefore(slot uint64) *NativeScript {
	return &NativeScript{kind: KindInvalidBefore, slot: slot}
}

// NewInvalidHereafter constructs a time-lock valid only before slot.
func NewInvalidHereafter(slot uint64) *NativeScript {
	return &NativeScript{kind: KindInvalidHereafter, slot: slot}
}

// Kind reports which variant s is.
func (s *NativeScript) Kind() Kind { return s.kind }

// KeyHash returns the PubKey variant's key hash.
func (s *NativeScript) KeyHash() *blakehash.BlakeHash { return s.keyHash }

// Scripts returns the sub-scripts of All/Any/NOfK.
func (s *NativeScript) Scripts() []*NativeScript { return s.scripts }

// N returns the NOfK threshold.
func (s *NativeScript) N() uint64 { return s.n }

// Slot returns the InvalidBefore/InvalidHereafter boundary slot.
func (s *NativeScript) Slot() uint64 { return s.slot }

// ClearCBORCache forces the next ToCBOR call to re-encode canonically.
func (s *NativeScript) ClearCBORCache() { s.cache.Clear() }

// Hash computes the script's policy/credential hash: BLAKE2b-224 over a
// 0x00 script-tag byte followed by the script's canonical CBOR encoding,
// the Cardano convention for native-script hashes.
func (s *NativeScript) Hash() (*blakehash.BlakeHash, error) {
	w := cbor.New()
	ToCBOR(s, w)
	payload := append([]byte{0x00}, w.ToBytes()...)
	return blakehash.Compute(blakehash.Size224, payload)
}

// Equal reports structural equality between two scripts.
func Equal(a, b *NativeScript) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindPubKey:
		return blakehash.Equal(a.keyHash, b.keyHash)
	case KindAll, KindAny:
		if len(a.scripts) != len(b.scripts) {
			return false
		}
		for i := range a.scripts {
			if !Equal(a.scripts[i], b.scripts[i]) {
				return false
			}
		}
		return true
	case KindNOfK:
		if a.n != b.n || len(a.scripts) != len(b.scripts) {
			return false
		}
		for i := range a.scripts {
			if !Equal(a.scripts[i], b.scripts[i]) {
				return false
			}
		}
		return true
	case KindInvalidBefore, KindInvalidHereafter:
		return a.slot == b.slot
	default:
		return false
	}
}

func decodeList(r *cbor.Reader) ([]*NativeScript, error) {
	l, err := container.DecodeOrderedList(r, FromCBOR)
	if err != nil {
		return nil, err
	}
	return l.Items(), nil
}

func encodeList(scripts []*NativeScript, w *cbor.Writer) {
	w.WriteStartArray(len(scripts))
	for _, s := range scripts {
		ToCBOR(s, w)
	}
}

// FromCBOR decodes a NativeScript from its [tag, ...] array form.
func FromCBOR(r *cbor.Reader) (*NativeScript, error) {
	tok := r.BeginCapture()
	_, _, err := r.ReadStartArray(cbor.ExpectDefinite)
	if err != nil {
		return nil, err
	}
	discrim, err := r.ReadU64()
	if err != nil {
		return nil, cbor.DecodingFailed("native_script.tag", err)
	}
	var s *NativeScript
	switch discrim {
	case 0:
		hash, herr := blakehash.FromCBOR(r, blakehash.Size224)
		if herr != nil {
			return nil, cbor.DecodingFailed("native_script.pubkey", herr)
		}
		s, err = NewPubKey(hash)
		if err != nil {
			return nil, err
		}
	case 1:
		scripts, lerr := decodeList(r)
		if lerr != nil {
			return nil, lerr
		}
		s = NewAll(scripts)
	case 2:
		scripts, lerr := decodeList(r)
		if lerr != nil {
			return nil, lerr
		}
		s = NewAny(scripts)
	case 3:
		n, nerr := r.ReadU64()
		if nerr != nil {
			return nil, cbor.DecodingFailed("native_script.n_of_k.n", nerr)
		}
		scripts, lerr := decodeList(r)
		if lerr != nil {
			return nil, lerr
		}
		s, err = NewNOfK(n, scripts)
		if err != nil {
			return nil, err
		}
	case 4:
		slot, serr := r.ReadU64()
		if serr != nil {
			return nil, cbor.DecodingFailed("native_script.invalid_before", serr)
		}
		s = NewInvalidBefore(slot)
	case 5:
		slot, serr := r.ReadU64()
		if serr != nil {
			return nil, cbor.DecodingFailed("native_script.invalid_hereafter", serr)
		}
		s = NewInvalidHereafter(slot)
	default:
		return nil, cbor.DecodingFailed("native_script.tag", cerr.Newf(cerr.InvalidCborValue, "unknown native script tag %d", discrim))
	}
	s.cache.Capture(r.EndCapture(tok))
	return s, nil
}

// ToCBOR encodes s, replaying the original bytes when the cache is valid.
func ToCBOR(s *NativeScript, w *cbor.Writer) {
	if s.cache.WriteIfValid(w) {
		return
	}
	switch s.kind {
	case KindPubKey:
		w.WriteStartArray(2)
		w.WriteU64(0)
		blakehash.ToCBOR(s.keyHash, w)
	case KindAll:
		w.WriteStartArray(2)
		w.WriteU64(1)
		encodeList(s.scripts, w)
	case KindAny:
		w.WriteStartArray(2)
		w.WriteU64(2)
		encodeList(s.scripts, w)
	case KindNOfK:
		w.WriteStartArray(3)
		w.WriteU64(3)
		w.WriteU64(s.n)
		encodeList(s.scripts, w)
	case KindInvalidBefore:
		w.WriteStartArray(2)
		w.WriteU64(4)
		w.WriteU64(s.slot)
	case KindInvalidHereafter:
		w.WriteStartArray(2)
		w.WriteU64(5)
		w.WriteU64(s.slot)
	}
}
