// Package credential implements Credential and DRep, the two small sum
// types spec.md §3 ("Address and credential") builds the rest of the
// governance/staking data model on top of: Credential is {KeyHash,
// ScriptHash}; DRep adds {KeyHashDRep, ScriptHashDRep, Abstain,
// NoConfidence}. CBOR discrimination follows original_source/'s
// credential_t (a 2-element array: [0, hash] for key hash, [1, hash] for
// script hash — spec.md §6 supplemented detail) and the DRep wire form
// verified against spec.md §8 Scenario A/B.
package credential

import (
	"github.com/cardano-go-sdk/ledger/cache"
	"github.com/cardano-go-sdk/ledger/cbor"
	"github.com/cardano-go-sdk/ledger/cerr"
	"github.com/cardano-go-sdk/ledger/crypto/blakehash"
)

// Tag discriminates the two Credential variants.
type Tag int

const (
	TagKeyHash Tag = iota
	TagScriptHash
)

// Credential is a 28-byte identifier that is either a key hash or a
// script hash.
type Credential struct {
	tag   Tag
	hash  *blakehash.BlakeHash
	cache cache.Cache
}

func newCredential(tag Tag, hash *blakehash.BlakeHash) (*Credential, error) {
	if hash.Size() != int(blakehash.Size224) {
		return nil, cerr.Newf(cerr.InvalidBlake2bHashSize, "credential hash must be 28 bytes, got %d", hash.Size())
	}
	return &Credential{tag: tag, hash: hash}, nil
}

// NewKeyHash constructs a key-hash credential.
func NewKeyHash(hash *blakehash.BlakeHash) (*Credential, error) {
	return newCredential(TagKeyHash, hash)
}

// NewScriptHash constructs a script-hash credential.
func NewScriptHash(hash *blakehash.BlakeHash) (*Credential, error) {
	return newCredential(TagScriptHash, hash)
}

// Tag reports which variant c is.
func (c *Credential) Tag() Tag { return c.tag }

// Hash returns the credential's 28-byte digest.
func (c *Credential) Hash() *blakehash.BlakeHash { return c.hash }

// IsKeyHash reports whether c is a key-hash credential.
func (c *Credential) IsKeyHash() bool { return c.tag == TagKeyHash }

// ClearCBORCache forces the next ToCBOR call to re-encode canonically.
func (c *Credential) ClearCBORCache() { c.cache.Clear() }

// Equal implements tag-then-payload equality per spec.md §4.4.
func Equal(a, b *Credential) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.tag == b.tag && blakehash.Equal(a.hash, b.hash)
}

// Compare orders credentials by tag then hash bytes, for use in sorted containers.
func Compare(a, b *Credential) int {
	if a.tag != b.tag {
		if a.tag < b.tag {
			return -1
		}
		return 1
	}
	return blakehash.Compare(a.hash, b.hash)
}

// FromCBOR decodes a Credential from its [tag, hash] array form.
func FromCBOR(r *cbor.Reader) (*Credential, error) {
	tok := r.BeginCapture()
	n, _, err := r.ReadStartArray(cbor.ExpectDefinite)
	if err != nil {
		return nil, err
	}
	if n != 2 {
		return nil, cbor.DecodingFailed("credential", cerr.Newf(cerr.InvalidCborArraySize, "expected array of 2, got %d", n))
	}
	discrim, err := r.ReadU64()
	if err != nil {
		return nil, cbor.DecodingFailed("credential.tag", err)
	}
	hash, err := blakehash.FromCBOR(r, blakehash.Size224)
	if err != nil {
		return nil, cbor.DecodingFailed("credential.hash", err)
	}
	var c *Credential
	switch discrim {
	case 0:
		c, err = NewKeyHash(hash)
	case 1:
		c, err = NewScriptHash(hash)
	default:
		return nil, cbor.DecodingFailed("credential.tag", cerr.Newf(cerr.InvalidCborValue, "unknown credential tag %d", discrim))
	}
	if err != nil {
		return nil, err
	}
	c.cache.Capture(r.EndCapture(tok))
	return c, nil
}

// ToCBOR encodes c in its [tag, hash] array form, replaying the original
// bytes when the cache is valid and unmodified.
func ToCBOR(c *Credential, w *cbor.Writer) {
	if c.cache.WriteIfValid(w) {
		return
	}
	w.WriteStartArray(2)
	w.WriteU64(uint64(c.tag))
	blakehash.ToCBOR(c.hash, w)
}
