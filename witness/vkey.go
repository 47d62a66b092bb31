// Package witness implements the witness-set entities from spec.md §3/§4.4:
// VkeyWitness, BootstrapWitness, and the aggregate transaction witness
// set bundling them with scripts, plutus data, and redeemers.
package witness

import (
	"github.com/cardano-go-sdk/ledger/cache"
	"github.com/cardano-go-sdk/ledger/cbor"
	"github.com/cardano-go-sdk/ledger/cerr"
	"github.com/cardano-go-sdk/ledger/crypto/ed25519key"
)

// VkeyWitness pairs a verification key with its signature over a
// transaction body hash.
type VkeyWitness struct {
	vkey      *ed25519key.PublicKey
	signature *ed25519key.Signature
	cache     cache.Cache
}

// NewVkeyWitness constructs a VkeyWitness. Neither argument may be nil.
func NewVkeyWitness(vkey *ed25519key.PublicKey, sig *ed25519key.Signature) (*VkeyWitness, error) {
	if vkey == nil || sig == nil {
		return nil, cerr.New(cerr.InvalidArgument, "vkey witness requires a non-nil key and signature")
	}
	return &VkeyWitness{vkey: vkey, signature: sig}, nil
}

// Vkey returns the witness's verification key.
func (w *VkeyWitness) Vkey() *ed25519key.PublicKey { return w.vkey }

// Signature returns the witness's signature.
func (w *VkeyWitness) Signature() *ed25519key.Signature { return w.signature }

// ClearCBORCache forces the next ToCBOR call to re-encode canonically.
func (w *VkeyWitness) ClearCBORCache() { w.cache.Clear() }

// Verify reports whether the witness's signature validates msg under its key.
func (w *VkeyWitness) Verify(msg []byte) bool {
	return w.vkey.Verify(msg, w.signature)
}

// VkeyWitnessFromCBOR decodes a VkeyWitness from its [vkey, signature] array form.
func VkeyWitnessFromCBOR(r *cbor.Reader) (*VkeyWitness, error) {
	tok := r.BeginCapture()
	n, _, err := r.ReadStartArray(cbor.ExpectDefinite)
	if err != nil {
		return nil, err
	}
	if n != 2 {
		return nil, cbor.DecodingFailed("vkeywitness", cerr.Newf(cerr.InvalidCborArraySize, "expected array of 2, got %d", n))
	}
	vkey, verr := ed25519key.FromCBORPublicKey(r)
	if verr != nil {
		return nil, cbor.DecodingFailed("vkeywitness.vkey", verr)
	}
	sig, serr := ed25519key.FromCBORSignature(r)
	if serr != nil {
		return nil, cbor.DecodingFailed("vkeywitness.signature", serr)
	}
	vw, err := NewVkeyWitness(vkey, sig)
	if err != nil {
		return nil, err
	}
	vw.cache.Capture(r.EndCapture(tok))
	return vw, nil
}

// VkeyWitnessToCBOR encodes w, replaying cached bytes when valid.
func VkeyWitnessToCBOR(w *VkeyWitness, writer *cbor.Writer) {
	if w.cache.WriteIfValid(writer) {
		return
	}
	writer.WriteStartArray(2)
	ed25519key.ToCBORPublicKey(w.vkey, writer)
	ed25519key.ToCBORSignature(w.signature, writer)
}
