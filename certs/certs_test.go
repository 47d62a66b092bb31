package certs

import (
	"bytes"
	"testing"

	"github.com/cardano-go-sdk/ledger/bigint"
	"github.com/cardano-go-sdk/ledger/cbor"
	"github.com/cardano-go-sdk/ledger/credential"
	"github.com/cardano-go-sdk/ledger/crypto/blakehash"
)

func zeroHash(size blakehash.Size) *blakehash.BlakeHash {
	h, err := blakehash.New(make([]byte, int(size)))
	if err != nil {
		panic(err)
	}
	return h
}

// TestStakeRegistrationDelegationRoundTrip grounds spec.md §3's own named
// example: StakeRegistrationDelegation{credential, poolHash, deposit}.
func TestStakeRegistrationDelegationRoundTrip(t *testing.T) {
	cred, err := credential.NewKeyHash(zeroHash(blakehash.Size224))
	if err != nil {
		t.Fatalf("NewKeyHash: %v", err)
	}
	poolHash := zeroHash(blakehash.Size224)
	c := NewStakeRegistrationDelegation(cred, poolHash, bigint.FromUint64(2_000_000))

	w := cbor.New()
	ToCBOR(c, w)
	r := cbor.FromBytes(w.ToBytes())
	got, err := FromCBOR(r)
	if err != nil {
		t.Fatalf("FromCBOR: %v", err)
	}
	if !Equal(c, got) {
		t.Fatalf("round trip mismatch")
	}

	w2 := cbor.New()
	ToCBOR(got, w2)
	if !bytes.Equal(w.ToBytes(), w2.ToBytes()) {
		t.Fatalf("canonical re-encode differs: %x vs %x", w.ToBytes(), w2.ToBytes())
	}
}

func TestDRepVariantsNeverCarryCredentialInVoteDelegation(t *testing.T) {
	cred, err := credential.NewKeyHash(zeroHash(blakehash.Size224))
	if err != nil {
		t.Fatalf("NewKeyHash: %v", err)
	}
	c := NewVoteDelegation(cred, credential.NewAbstain())
	if c.DRep().Credential() != nil {
		t.Fatal("abstain drep must not carry a credential")
	}
	w := cbor.New()
	ToCBOR(c, w)
	r := cbor.FromBytes(w.ToBytes())
	got, err := FromCBOR(r)
	if err != nil {
		t.Fatalf("FromCBOR: %v", err)
	}
	if !Equal(c, got) {
		t.Fatalf("round trip mismatch")
	}
}
