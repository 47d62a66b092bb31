package pool

import (
	"strings"
	"testing"

	"github.com/cardano-go-sdk/ledger/cbor"
	"github.com/cardano-go-sdk/ledger/crypto/blakehash"
)

func TestPoolMetadataURLBoundary(t *testing.T) {
	hash, err := blakehash.Compute(blakehash.Size256, []byte("metadata"))
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if _, err := NewPoolMetadata(strings.Repeat("a", maxPoolMetadataURLLen), hash); err != nil {
		t.Errorf("64-byte url should succeed: %v", err)
	}
	if _, err := NewPoolMetadata(strings.Repeat("a", maxPoolMetadataURLLen+1), hash); err == nil {
		t.Errorf("65-byte url should fail")
	}
}

func TestPoolMetadataRoundTrip(t *testing.T) {
	hash, err := blakehash.Compute(blakehash.Size256, []byte("metadata"))
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	m, err := NewPoolMetadata("https://example.com/metadata.json", hash)
	if err != nil {
		t.Fatalf("NewPoolMetadata: %v", err)
	}
	w := cbor.New()
	MetadataToCBOR(m, w)
	r := cbor.FromBytes(w.ToBytes())
	got, err := MetadataFromCBOR(r)
	if err != nil {
		t.Fatalf("MetadataFromCBOR: %v", err)
	}
	if !metadataEqual(m, got) {
		t.Errorf("round trip mismatch")
	}
}
