package voting

import (
	"bytes"
	"testing"

	"github.com/cardano-go-sdk/ledger/cbor"
	"github.com/cardano-go-sdk/ledger/crypto/blakehash"
	"github.com/cardano-go-sdk/ledger/gov"
)

func zeroHash(t *testing.T, size blakehash.Size) *blakehash.BlakeHash {
	t.Helper()
	h, err := blakehash.New(make([]byte, int(size)))
	if err != nil {
		t.Fatalf("blakehash.New: %v", err)
	}
	return h
}

func TestVotingProceduresPreservesNestedInsertionOrder(t *testing.T) {
	v1, err := NewVoter(VoterDRepKey, zeroHash(t, blakehash.Size224))
	if err != nil {
		t.Fatalf("NewVoter: %v", err)
	}
	txID := zeroHash(t, blakehash.Size256)
	id1, err := gov.NewGovernanceActionId(txID, 0)
	if err != nil {
		t.Fatalf("NewGovernanceActionId: %v", err)
	}
	id2, err := gov.NewGovernanceActionId(txID, 1)
	if err != nil {
		t.Fatalf("NewGovernanceActionId: %v", err)
	}

	vp := New()
	vp.Set(v1, id2, NewVotingProcedure(VoteNo, nil))
	vp.Set(v1, id1, NewVotingProcedure(VoteYes, nil))

	w := cbor.New()
	ToCBOR(vp, w)
	r := cbor.FromBytes(w.ToBytes())
	got, err := FromCBOR(r)
	if err != nil {
		t.Fatalf("FromCBOR: %v", err)
	}

	proc, ok := got.Get(v1, id1)
	if !ok || proc.Vote() != VoteYes {
		t.Fatalf("expected VoteYes for id1, got %+v, ok=%v", proc, ok)
	}
	proc2, ok2 := got.Get(v1, id2)
	if !ok2 || proc2.Vote() != VoteNo {
		t.Fatalf("expected VoteNo for id2, got %+v, ok=%v", proc2, ok2)
	}

	got.ClearCBORCache()
	w2 := cbor.New()
	ToCBOR(got, w2)
	if !bytes.Equal(w.ToBytes(), w2.ToBytes()) {
		t.Fatalf("canonical re-encode differs: %x vs %x", w.ToBytes(), w2.ToBytes())
	}
}

func TestVotingProcedureWithAnchorRoundTrip(t *testing.T) {
	anchor, err := gov.NewAnchor("https://example.com/rationale.json", zeroHash(t, blakehash.Size256))
	if err != nil {
		t.Fatalf("NewAnchor: %v", err)
	}
	p := NewVotingProcedure(VoteAbstain, anchor)
	w := cbor.New()
	VotingProcedureToCBOR(p, w)
	r := cbor.FromBytes(w.ToBytes())
	got, err := VotingProcedureFromCBOR(r)
	if err != nil {
		t.Fatalf("VotingProcedureFromCBOR: %v", err)
	}
	if !VotingProcedureEqual(p, got) {
		t.Fatalf("round trip mismatch")
	}
}
