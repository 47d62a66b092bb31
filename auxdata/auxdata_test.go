package auxdata

import (
	"bytes"
	"testing"

	"github.com/cardano-go-sdk/ledger/bigint"
	"github.com/cardano-go-sdk/ledger/cbor"
)

func TestMetadatumIntRoundTrip(t *testing.T) {
	m := NewInt(bigint.FromInt64(-42))
	w := cbor.New()
	ToCBOR(m, w)
	r := cbor.FromBytes(w.ToBytes())
	got, err := FromCBOR(r)
	if err != nil {
		t.Fatalf("FromCBOR: %v", err)
	}
	if !Equal(m, got) {
		t.Fatalf("round trip mismatch")
	}
}

func TestMetadatumTextOver64BytesRejected(t *testing.T) {
	long := make([]byte, 65)
	for i := range long {
		long[i] = 'a'
	}
	if _, err := NewText(string(long)); err == nil {
		t.Fatal("expected rejection of 65-byte metadatum text")
	}
}

func TestMetadatumMapPreservesInsertionOrder(t *testing.T) {
	m := NewMap()
	k1, _ := NewText("b")
	k2, _ := NewText("a")
	m.Put(k1, NewInt(bigint.FromInt64(1)))
	m.Put(k2, NewInt(bigint.FromInt64(2)))
	keys := m.MapKeys()
	if len(keys) != 2 || keys[0].Text() != "b" || keys[1].Text() != "a" {
		t.Fatalf("expected insertion order [b, a], got %v", keys)
	}
}

func TestAuxiliaryDataRoundTrip(t *testing.T) {
	a := New()
	v, _ := NewText("hello")
	a.SetMetadata(674, v)

	w := cbor.New()
	ToCBOR(a, w)
	r := cbor.FromBytes(w.ToBytes())
	got, err := FromCBOR(r)
	if err != nil {
		t.Fatalf("FromCBOR: %v", err)
	}
	if !AuxiliaryDataEqual(a, got) {
		t.Fatalf("round trip mismatch")
	}

	w2 := cbor.New()
	ToCBOR(got, w2)
	if !bytes.Equal(w.ToBytes(), w2.ToBytes()) {
		t.Fatalf("canonical re-encode differs: %x vs %x", w.ToBytes(), w2.ToBytes())
	}
}
