package txout

import (
	"bytes"
	"testing"

	"github.com/cardano-go-sdk/ledger/cbor"
	"github.com/cardano-go-sdk/ledger/value"
)

func TestLegacyArrayFormDecodesAndCanonicalizes(t *testing.T) {
	addr := bytes.Repeat([]byte{0xAB}, 29)
	w := cbor.New()
	w.WriteStartArray(2)
	w.WriteBytes(addr)
	value.ToCBOR(value.NewCoin(5_000_000), w)
	input := w.ToBytes()

	out, err := FromCBOR(cbor.FromBytes(input))
	if err != nil {
		t.Fatalf("FromCBOR: %v", err)
	}
	if !bytes.Equal(out.Address(), addr) || out.Value().Coin() != 5_000_000 {
		t.Fatalf("unexpected decode: addr=%x coin=%d", out.Address(), out.Value().Coin())
	}

	// Cached re-encode reproduces the legacy bytes exactly.
	w2 := cbor.New()
	ToCBOR(out, w2)
	if !bytes.Equal(w2.ToBytes(), input) {
		t.Fatalf("cached re-encode = %x, want %x", w2.ToBytes(), input)
	}

	// After clearing the cache, it re-encodes canonically (map form) and
	// still decodes back to an equal value.
	out.ClearCBORCache()
	w3 := cbor.New()
	ToCBOR(out, w3)
	redecoded, err := FromCBOR(cbor.FromBytes(w3.ToBytes()))
	if err != nil {
		t.Fatalf("re-decoding canonical form: %v", err)
	}
	if !bytes.Equal(redecoded.Address(), addr) || redecoded.Value().Coin() != 5_000_000 {
		t.Fatal("canonical re-encode lost data")
	}
}

func TestMapFormRoundTrip(t *testing.T) {
	addr := bytes.Repeat([]byte{0x01}, 29)
	out := New(addr, value.NewCoin(2_000_000), nil, nil)
	w := cbor.New()
	ToCBOR(out, w)
	got, err := FromCBOR(cbor.FromBytes(w.ToBytes()))
	if err != nil {
		t.Fatalf("FromCBOR: %v", err)
	}
	if !bytes.Equal(got.Address(), addr) || got.Value().Coin() != 2_000_000 {
		t.Fatal("map form output did not round-trip")
	}
}
