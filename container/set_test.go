package container

import (
	"encoding/hex"
	"testing"

	"github.com/cardano-go-sdk/ledger/cbor"
)

func decodeU64(r *cbor.Reader) (uint64, error) { return r.ReadU64() }
func encodeU64(v uint64, w *cbor.Writer)        { w.WriteU64(v) }
func equalU64(a, b uint64) bool                 { return a == b }
func fingerprintU64(v uint64) uint64            { return v }

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex %q: %v", s, err)
	}
	return b
}

// Scenario D from spec.md §8: a tagged set and a bare-array set must both
// decode correctly and round-trip to their original form.
func TestSetTaggedRoundTrip(t *testing.T) {
	src := append(mustHex(t, "d9010284"), mustHex(t, "01020304")...)
	r := cbor.FromBytes(src)
	s, err := DecodeSet(r, decodeU64, equalU64, fingerprintU64)
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 4 || !s.UseTag() {
		t.Fatalf("len=%d useTag=%v", s.Len(), s.UseTag())
	}
	w := cbor.New()
	EncodeSet(s, w, encodeU64)
	if w.ToHex() != hex.EncodeToString(src) {
		t.Errorf("got %s want %s", w.ToHex(), hex.EncodeToString(src))
	}
}

func TestSetBareArrayRoundTrip(t *testing.T) {
	src := mustHex(t, "8401020304")
	r := cbor.FromBytes(src)
	s, err := DecodeSet(r, decodeU64, equalU64, fingerprintU64)
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 4 || s.UseTag() {
		t.Fatalf("len=%d useTag=%v", s.Len(), s.UseTag())
	}
	w := cbor.New()
	EncodeSet(s, w, encodeU64)
	if w.ToHex() != hex.EncodeToString(src) {
		t.Errorf("got %s want %s", w.ToHex(), hex.EncodeToString(src))
	}
}

func TestSetEmptyRoundTripsPerFlag(t *testing.T) {
	s := NewSet(equalU64, fingerprintU64)
	s.SetUseTag(false)
	w := cbor.New()
	EncodeSet(s, w, encodeU64)
	if w.ToHex() != "80" {
		t.Errorf("got %s, want 80", w.ToHex())
	}

	s2 := NewSet(equalU64, fingerprintU64)
	w2 := cbor.New()
	EncodeSet(s2, w2, encodeU64)
	if w2.ToHex() != "d9010280" {
		t.Errorf("got %s, want d9010280", w2.ToHex())
	}
}

func TestSetDuplicateSuppression(t *testing.T) {
	s := NewSet(equalU64, fingerprintU64)
	if !s.Add(1) {
		t.Fatal("expected first add to succeed")
	}
	if s.Add(1) {
		t.Fatal("expected duplicate add to be suppressed")
	}
	if s.Len() != 1 {
		t.Errorf("len=%d", s.Len())
	}
}

func TestSetDefaultUseTagTrueForNew(t *testing.T) {
	s := NewSet(equalU64, fingerprintU64)
	if !s.UseTag() {
		t.Error("expected use_tag=true by default for new()-constructed sets")
	}
}

func TestOrderedListRoundTrip(t *testing.T) {
	l := NewOrderedList[uint64](1, 2, 3)
	w := cbor.New()
	EncodeOrderedList(l, w, encodeU64)
	r := cbor.FromBytes(w.ToBytes())
	got, err := DecodeOrderedList(r, decodeU64)
	if err != nil {
		t.Fatal(err)
	}
	if got.Len() != 3 {
		t.Fatalf("len=%d", got.Len())
	}
	for i, v := range got.Items() {
		if v != l.Get(i) {
			t.Errorf("item %d: got %d want %d", i, v, l.Get(i))
		}
	}
}
