package credential

import (
	"github.com/cardano-go-sdk/ledger/cache"
	"github.com/cardano-go-sdk/ledger/cbor"
	"github.com/cardano-go-sdk/ledger/cerr"
	"github.com/cardano-go-sdk/ledger/crypto/blakehash"
)

// DRepTag discriminates the four DRep variants.
type DRepTag int

const (
	DRepKeyHash DRepTag = iota
	DRepScriptHash
	DRepAbstain
	DRepNoConfidence
)

// DRep is a Delegated Representative for governance voting: a sum of
// {KeyHashDRep(Credential), ScriptHashDRep(Credential), Abstain,
// NoConfidence}. Abstain and NoConfidence never carry a credential
// (spec.md §3 invariants, §8 property 6).
type DRep struct {
	tag        DRepTag
	credential *Credential
	cache      cache.Cache
}

// NewKeyHashDRep constructs a DRep backed by a key-hash credential. cred
// must itself be a key-hash credential.
func NewKeyHashDRep(cred *Credential) (*DRep, error) {
	if cred == nil || !cred.IsKeyHash() {
		return nil, cerr.New(cerr.InvalidArgument, "keyhash drep requires a keyhash credential")
	}
	return &DRep{tag: DRepKeyHash, credential: cred}, nil
}

// NewScriptHashDRep constructs a DRep backed by a script-hash credential.
func NewScriptHashDRep(cred *Credential) (*DRep, error) {
	if cred == nil || cred.IsKeyHash() {
		return nil, cerr.New(cerr.InvalidArgument, "scripthash drep requires a scripthash credential")
	}
	return &DRep{tag: DRepScriptHash, credential: cred}, nil
}

// NewAbstain constructs the Abstain DRep variant.
func NewAbstain() *DRep { return &DRep{tag: DRepAbstain} }

// NewNoConfidence constructs the NoConfidence DRep variant.
func NewNoConfidence() *DRep { return &DRep{tag: DRepNoConfidence} }

// Tag reports which variant d is.
func (d *DRep) Tag() DRepTag { return d.tag }

// Credential returns d's credential, or nil for Abstain/NoConfidence.
func (d *DRep) Credential() *Credential { return d.credential }

// ClearCBORCache forces the next ToCBOR call to re-encode canonically.
func (d *DRep) ClearCBORCache() { d.cache.Clear() }

// DRepEqual reports whether two DReps denote the same variant and, for
// the credential-bearing variants, the same credential.
func DRepEqual(a, b *DRep) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.tag != b.tag {
		return false
	}
	return Equal(a.credential, b.credential)
}

// DRepFromCBOR decodes a DRep. Scenario A (spec.md §8): hex 8102 decodes to
// DRep{Abstain, None}. Scenario B: hex
// 8200581c0...0 decodes to DRep::KeyHash(Credential::KeyHash(28×0x00)).
func DRepFromCBOR(r *cbor.Reader) (*DRep, error) {
	tok := r.BeginCapture()
	n, _, err := r.ReadStartArray(cbor.ExpectDefinite)
	if err != nil {
		return nil, err
	}
	discrim, err := r.ReadU64()
	if err != nil {
		return nil, cbor.DecodingFailed("drep.tag", err)
	}
	var d *DRep
	switch discrim {
	case 0, 1:
		if n != 2 {
			return nil, cbor.DecodingFailed("drep", cerr.Newf(cerr.InvalidCborArraySize, "expected array of 2, got %d", n))
		}
		hash, herr := blakehash.FromCBOR(r, blakehash.Size224)
		if herr != nil {
			return nil, cbor.DecodingFailed("drep.hash", herr)
		}
		if discrim == 0 {
			cred, cerr2 := NewKeyHash(hash)
			if cerr2 != nil {
				return nil, cerr2
			}
			d, err = NewKeyHashDRep(cred)
		} else {
			cred, cerr2 := NewScriptHash(hash)
			if cerr2 != nil {
				return nil, cerr2
			}
			d, err = NewScriptHashDRep(cred)
		}
		if err != nil {
			return nil, err
		}
	case 2:
		if n != 1 {
			return nil, cbor.DecodingFailed("drep", cerr.Newf(cerr.InvalidCborArraySize, "expected array of 1, got %d", n))
		}
		d = NewAbstain()
	case 3:
		if n != 1 {
			return nil, cbor.DecodingFailed("drep", cerr.Newf(cerr.InvalidCborArraySize, "expected array of 1, got %d", n))
		}
		d = NewNoConfidence()
	default:
		return nil, cbor.DecodingFailed("drep.tag", cerr.Newf(cerr.InvalidCborValue, "unknown drep tag %d", discrim))
	}
	d.cache.Capture(r.EndCapture(tok))
	return d, nil
}

// DRepToCBOR encodes d, replaying the original bytes when the cache is valid.
func DRepToCBOR(d *DRep, w *cbor.Writer) {
	if d.cache.WriteIfValid(w) {
		return
	}
	switch d.tag {
	case DRepKeyHash, DRepScriptHash:
		w.WriteStartArray(2)
		w.WriteU64(uint64(d.tag))
		blakehash.ToCBOR(d.credential.Hash(), w)
	case DRepAbstain:
		w.WriteStartArray(1)
		w.WriteU64(2)
	case DRepNoConfidence:
		w.WriteStartArray(1)
		w.WriteU64(3)
	}
}
