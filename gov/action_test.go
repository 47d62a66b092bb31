package gov

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/cardano-go-sdk/ledger/cbor"
)

// TestTreasuryWithdrawalsScenarioE grounds spec.md §8 Scenario E exactly:
// hex 8302a1581de1cb0e...0f01581c8293d319...b80d decodes to
// TreasuryWithdrawalsAction{withdrawals: {rewardAddr: 1}, policyHash: Some(28 bytes)}.
func TestTreasuryWithdrawalsScenarioE(t *testing.T) {
	rewardAcct := "581de1cb0e000000000000000000000000000000000000000000000000000f"
	policyHash := "8293d319ef5b3ac72366dd28006bd315b715f7e7cfcbd3004129b80d"
	// 29-byte reward account (tag byte + 28-byte payload), 28-byte policy hash.
	input := "8302a1" + rewardAcct + "01" + "581c" + policyHash
	raw, err := hex.DecodeString(input)
	if err != nil {
		t.Fatalf("bad test hex: %v", err)
	}
	a, err := ActionFromCBOR(cbor.FromBytes(raw))
	if err != nil {
		t.Fatalf("ActionFromCBOR: %v", err)
	}
	if a.Kind() != ActionTreasuryWithdrawals {
		t.Fatalf("expected ActionTreasuryWithdrawals, got %v", a.Kind())
	}
	if len(a.Withdrawals()) != 1 || a.Withdrawals()[0].Coin != 1 {
		t.Fatalf("expected single withdrawal of 1 coin, got %+v", a.Withdrawals())
	}
	if a.PolicyHash() == nil || a.PolicyHash().Hex() != policyHash {
		t.Fatalf("expected policy hash %s, got %v", policyHash, a.PolicyHash())
	}

	w := cbor.New()
	ActionToCBOR(a, w)
	if !bytes.Equal(w.ToBytes(), raw) {
		t.Fatalf("re-encode = %x, want %x", w.ToBytes(), raw)
	}
}

func TestInfoActionRoundTrip(t *testing.T) {
	a := NewInfo()
	w := cbor.New()
	ActionToCBOR(a, w)
	r := cbor.FromBytes(w.ToBytes())
	got, err := ActionFromCBOR(r)
	if err != nil {
		t.Fatalf("ActionFromCBOR: %v", err)
	}
	if !Equal(a, got) {
		t.Fatalf("round trip mismatch")
	}
}
