package witness

import (
	"github.com/cardano-go-sdk/ledger/cache"
	"github.com/cardano-go-sdk/ledger/cbor"
	"github.com/cardano-go-sdk/ledger/cerr"
	"github.com/cardano-go-sdk/ledger/crypto/ed25519key"
)

const chainCodeSize = 32

// BootstrapWitness authenticates a legacy Byron-era input: a vkey,
// signature, 32-byte chain code, and address-derivation attributes. The
// original's bootstrap_witness.cpp rejects any null component (spec.md
// §4.4 "Validation per entity").
type BootstrapWitness struct {
	vkey       *ed25519key.PublicKey
	signature  *ed25519key.Signature
	chainCode  []byte
	attributes []byte
	cache      cache.Cache
}

// NewBootstrapWitness constructs a BootstrapWitness. All four components
// must be non-nil; chainCode must be exactly 32 bytes.
func NewBootstrapWitness(vkey *ed25519key.PublicKey, sig *ed25519key.Signature, chainCode, attributes []byte) (*BootstrapWitness, error) {
	if vkey == nil || sig == nil || chainCode == nil || attributes == nil {
		return nil, cerr.New(cerr.InvalidArgument, "bootstrap witness requires all four components non-nil")
	}
	if len(chainCode) != chainCodeSize {
		return nil, cerr.Newf(cerr.InvalidArgument, "bootstrap witness chain code must be %d bytes, got %d", chainCodeSize, len(chainCode))
	}
	cc := make([]byte, len(chainCode))
	copy(cc, chainCode)
	attr := make([]byte, len(attributes))
	copy(attr, attributes)
	return &BootstrapWitness{vkey: vkey, signature: sig, chainCode: cc, attributes: attr}, nil
}

func (b *BootstrapWitness) Vkey() *ed25519key.PublicKey   { return b.vkey }
func (b *BootstrapWitness) Signature() *ed25519key.Signature { return b.signature }
func (b *BootstrapWitness) ChainCode() []byte             { return b.chainCode }
func (b *BootstrapWitness) Attributes() []byte            { return b.attributes }

// ClearCBORCache forces the next ToCBOR call to re-encode canonically.
func (b *BootstrapWitness) ClearCBORCache() { b.cache.Clear() }

// BootstrapWitnessFromCBOR decodes a BootstrapWitness from its
// [vkey, signature, chain_code, attributes] array form.
func BootstrapWitnessFromCBOR(r *cbor.Reader) (*BootstrapWitness, error) {
	tok := r.BeginCapture()
	n, _, err := r.ReadStartArray(cbor.ExpectDefinite)
	if err != nil {
		return nil, err
	}
	if n != 4 {
		return nil, cbor.DecodingFailed("bootstrap_witness", cerr.Newf(cerr.InvalidCborArraySize, "expected array of 4, got %d", n))
	}
	vkey, verr := ed25519key.FromCBORPublicKey(r)
	if verr != nil {
		return nil, cbor.DecodingFailed("bootstrap_witness.vkey", verr)
	}
	sig, serr := ed25519key.FromCBORSignature(r)
	if serr != nil {
		return nil, cbor.DecodingFailed("bootstrap_witness.signature", serr)
	}
	chainCode, cerr2 := r.ReadBytes()
	if cerr2 != nil {
		return nil, cbor.DecodingFailed("bootstrap_witness.chain_code", cerr2)
	}
	attrs, aerr := r.ReadBytes()
	if aerr != nil {
		return nil, cbor.DecodingFailed("bootstrap_witness.attributes", aerr)
	}
	b, err := NewBootstrapWitness(vkey, sig, chainCode, attrs)
	if err != nil {
		return nil, err
	}
	b.cache.Capture(r.EndCapture(tok))
	return b, nil
}

// BootstrapWitnessToCBOR encodes b, replaying cached bytes when valid.
func BootstrapWitnessToCBOR(b *BootstrapWitness, w *cbor.Writer) {
	if b.cache.WriteIfValid(w) {
		return
	}
	w.WriteStartArray(4)
	ed25519key.ToCBORPublicKey(b.vkey, w)
	ed25519key.ToCBORSignature(b.signature, w)
	w.WriteBytes(b.chainCode)
	w.WriteBytes(b.attributes)
}
