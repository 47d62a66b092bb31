package credential

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/cardano-go-sdk/ledger/cbor"
)

func TestDRepAbstainRoundTrip(t *testing.T) {
	input, err := hex.DecodeString("8102")
	if err != nil {
		t.Fatal(err)
	}
	d, err := DRepFromCBOR(cbor.FromBytes(input))
	if err != nil {
		t.Fatalf("FromCBOR: %v", err)
	}
	if d.Tag() != DRepAbstain || d.Credential() != nil {
		t.Fatalf("expected Abstain with no credential, got tag=%v cred=%v", d.Tag(), d.Credential())
	}

	w := cbor.New()
	DRepToCBOR(d, w)
	if !bytes.Equal(w.ToBytes(), input) {
		t.Fatalf("cached re-encode = %x, want %x", w.ToBytes(), input)
	}

	d.ClearCBORCache()
	w2 := cbor.New()
	DRepToCBOR(d, w2)
	if !bytes.Equal(w2.ToBytes(), input) {
		t.Fatalf("canonical re-encode = %x, want %x", w2.ToBytes(), input)
	}
}

func TestDRepKeyHashRoundTrip(t *testing.T) {
	input, err := hex.DecodeString("8200581c00000000000000000000000000000000000000000000000000000000")
	if err != nil {
		t.Fatal(err)
	}
	d, err := DRepFromCBOR(cbor.FromBytes(input))
	if err != nil {
		t.Fatalf("FromCBOR: %v", err)
	}
	if d.Tag() != DRepKeyHash {
		t.Fatalf("expected KeyHash, got %v", d.Tag())
	}
	cred := d.Credential()
	if cred == nil || cred.Hash().Size() != 28 {
		t.Fatalf("expected 28-byte credential hash, got %v", cred)
	}
	for _, b := range cred.Hash().Bytes() {
		if b != 0 {
			t.Fatalf("expected all-zero hash, got %x", cred.Hash().Bytes())
		}
	}

	w := cbor.New()
	DRepToCBOR(d, w)
	if !bytes.Equal(w.ToBytes(), input) {
		t.Fatalf("re-encode = %x, want %x", w.ToBytes(), input)
	}
}

func TestDRepInvariant(t *testing.T) {
	if NewAbstain().Credential() != nil {
		t.Fatal("abstain must have nil credential")
	}
	if NewNoConfidence().Credential() != nil {
		t.Fatal("no-confidence must have nil credential")
	}
}
