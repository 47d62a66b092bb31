package txin

import (
	"testing"

	"github.com/cardano-go-sdk/ledger/crypto/blakehash"
)

func mustHash(b byte) *blakehash.BlakeHash {
	buf := make([]byte, 32)
	for i := range buf {
		buf[i] = b
	}
	h, err := blakehash.New(buf)
	if err != nil {
		panic(err)
	}
	return h
}

// TestOrdering implements spec.md §8 Scenario F.
func TestOrdering(t *testing.T) {
	a, err := New(mustHash(0x01), 5)
	if err != nil {
		t.Fatal(err)
	}
	b, err := New(mustHash(0x01), 6)
	if err != nil {
		t.Fatal(err)
	}
	if Compare(a, b) >= 0 {
		t.Fatal("expected a < b")
	}
	if Compare(b, a) <= 0 {
		t.Fatal("expected b > a")
	}
	if Compare(a, a) != 0 {
		t.Fatal("expected a == a")
	}

	bHash, err := New(mustHash(0xff), 0)
	if err != nil {
		t.Fatal(err)
	}
	if Compare(a, bHash) >= 0 {
		t.Fatal("hash must dominate index when comparing differing hashes")
	}
}
