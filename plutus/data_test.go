package plutus

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/cardano-go-sdk/ledger/bigint"
	"github.com/cardano-go-sdk/ledger/cbor"
)

// TestListIndefiniteRoundTrip implements spec.md §8 Scenario C.
func TestListIndefiniteRoundTrip(t *testing.T) {
	input, err := hex.DecodeString("9f0102ff")
	if err != nil {
		t.Fatal(err)
	}
	d, err := FromCBOR(cbor.FromBytes(input))
	if err != nil {
		t.Fatalf("FromCBOR: %v", err)
	}
	if d.Kind() != KindList || len(d.Items()) != 2 {
		t.Fatalf("expected a 2-element list, got %v", d)
	}
	want := NewList([]*PlutusData{NewInteger(bigint.FromInt64(1)), NewInteger(bigint.FromInt64(2))})
	if !Equal(d, want) {
		t.Fatalf("decoded value not structurally equal to expected")
	}

	w := cbor.New()
	ToCBOR(d, w)
	if !bytes.Equal(w.ToBytes(), input) {
		t.Fatalf("cached re-encode = %x, want %x", w.ToBytes(), input)
	}

	d.ClearCBORCache()
	w2 := cbor.New()
	ToCBOR(d, w2)
	redecoded, err := FromCBOR(cbor.FromBytes(w2.ToBytes()))
	if err != nil {
		t.Fatalf("re-decoding canonical form: %v", err)
	}
	if !Equal(redecoded, want) {
		t.Fatalf("canonical re-encode does not round-trip to an equal value")
	}
}

func TestConstrTagRanges(t *testing.T) {
	for _, tag := range []uint64{0, 6, 7, 50, 127, 200} {
		d := NewConstr(tag, []*PlutusData{NewInteger(bigint.FromInt64(int64(tag)))})
		w := cbor.New()
		ToCBOR(d, w)
		got, err := FromCBOR(cbor.FromBytes(w.ToBytes()))
		if err != nil {
			t.Fatalf("tag %d: FromCBOR: %v", tag, err)
		}
		if got.ConstrTag() != tag {
			t.Fatalf("tag %d: round-tripped constr tag = %d", tag, got.ConstrTag())
		}
		if !Equal(got, d) {
			t.Fatalf("tag %d: round-tripped value not equal", tag)
		}
	}
}

func TestByteStringChunking(t *testing.T) {
	raw := make([]byte, 130)
	for i := range raw {
		raw[i] = byte(i)
	}
	d := NewByteString(raw)
	w := cbor.New()
	ToCBOR(d, w)
	got, err := FromCBOR(cbor.FromBytes(w.ToBytes()))
	if err != nil {
		t.Fatalf("FromCBOR: %v", err)
	}
	if !Equal(got, d) {
		t.Fatal("chunked byte string did not round-trip")
	}
}

func TestMapPreservesDuplicateKeys(t *testing.T) {
	k := NewInteger(bigint.FromInt64(1))
	d := NewMap([]KV{
		{Key: k, Value: NewInteger(bigint.FromInt64(10))},
		{Key: k, Value: NewInteger(bigint.FromInt64(20))},
	})
	w := cbor.New()
	ToCBOR(d, w)
	got, err := FromCBOR(cbor.FromBytes(w.ToBytes()))
	if err != nil {
		t.Fatalf("FromCBOR: %v", err)
	}
	if len(got.Pairs()) != 2 {
		t.Fatalf("expected duplicate keys preserved, got %d pairs", len(got.Pairs()))
	}
}
