package gov

import (
	"github.com/cardano-go-sdk/ledger/cbor"
	"github.com/cardano-go-sdk/ledger/cerr"
	"github.com/cardano-go-sdk/ledger/credential"
	"github.com/cardano-go-sdk/ledger/crypto/blakehash"
)

func optionalGovActionIDFromCBOR(r *cbor.Reader) (*GovernanceActionId, error) {
	isNull, err := r.PeekNull()
	if err != nil {
		return nil, err
	}
	if isNull {
		if err := r.ReadNull(); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return GovernanceActionIdFromCBOR(r)
}

func writeOptionalGovActionID(w *cbor.Writer, id *GovernanceActionId) {
	if id == nil {
		w.WriteNull()
		return
	}
	GovernanceActionIdToCBOR(id, w)
}

func optionalHashFromCBOR(r *cbor.Reader) (*blakehash.BlakeHash, error) {
	isNull, err := r.PeekNull()
	if err != nil {
		return nil, err
	}
	if isNull {
		if err := r.ReadNull(); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return blakehash.FromCBOR(r, blakehash.Size224)
}

func writeOptionalHash(w *cbor.Writer, h *blakehash.BlakeHash) {
	if h == nil {
		w.WriteNull()
		return
	}
	blakehash.ToCBOR(h, w)
}

func withdrawalsFromCBOR(r *cbor.Reader) ([]Withdrawal, error) {
	n, indefinite, err := r.ReadStartMap(cbor.ExpectEither)
	if err != nil {
		return nil, err
	}
	var out []Withdrawal
	readEntry := func() error {
		acct, aerr := r.ReadBytes()
		if aerr != nil {
			return cbor.DecodingFailed("treasury_withdrawals.reward_account", aerr)
		}
		coin, cerr2 := r.ReadU64()
		if cerr2 != nil {
			return cbor.DecodingFailed("treasury_withdrawals.coin", cerr2)
		}
		out = append(out, Withdrawal{RewardAccount: acct, Coin: coin})
		return nil
	}
	if indefinite {
		for !r.AtBreak() {
			if err := readEntry(); err != nil {
				return nil, err
			}
		}
		if err := r.ReadEndMap(); err != nil {
			return nil, err
		}
	} else {
		for i := 0; i < n; i++ {
			if err := readEntry(); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

func writeWithdrawals(w *cbor.Writer, ws []Withdrawal) {
	w.WriteStartMap(len(ws))
	for _, wd := range ws {
		w.WriteBytes(wd.RewardAccount)
		w.WriteU64(wd.Coin)
	}
}

// ActionFromCBOR decodes a GovernanceAction from its
// [kind, ...fields] array form, matching spec.md §8 Scenario E for
// ActionTreasuryWithdrawals.
func ActionFromCBOR(r *cbor.Reader) (*GovernanceAction, error) {
	tok := r.BeginCapture()
	_, _, err := r.ReadStartArray(cbor.ExpectDefinite)
	if err != nil {
		return nil, err
	}
	kindU, kerr := r.ReadU64()
	if kerr != nil {
		return nil, cbor.DecodingFailed("governance_action.kind", kerr)
	}
	kind := ActionKind(kindU)
	var a *GovernanceAction
	switch kind {
	case ActionParameterChange:
		prev, e1 := optionalGovActionIDFromCBOR(r)
		if e1 != nil {
			return nil, e1
		}
		hash, e2 := optionalHashFromCBOR(r)
		if e2 != nil {
			return nil, e2
		}
		a = NewParameterChange(prev, hash)
	case ActionHardForkInitiation:
		prev, e1 := optionalGovActionIDFromCBOR(r)
		if e1 != nil {
			return nil, e1
		}
		a = NewHardForkInitiation(prev)
	case ActionTreasuryWithdrawals:
		withdrawals, e1 := withdrawalsFromCBOR(r)
		if e1 != nil {
			return nil, e1
		}
		hash, e2 := optionalHashFromCBOR(r)
		if e2 != nil {
			return nil, e2
		}
		a = NewTreasuryWithdrawals(withdrawals, hash)
	case ActionNoConfidence:
		prev, e1 := optionalGovActionIDFromCBOR(r)
		if e1 != nil {
			return nil, e1
		}
		a = NewNoConfidence(prev)
	case ActionUpdateCommittee:
		prev, e1 := optionalGovActionIDFromCBOR(r)
		if e1 != nil {
			return nil, e1
		}
		members, e2 := decodeCommitteeMembers(r)
		if e2 != nil {
			return nil, e2
		}
		qn, e3 := r.ReadU64()
		if e3 != nil {
			return nil, cbor.DecodingFailed("update_committee.quorum_num", e3)
		}
		qd, e4 := r.ReadU64()
		if e4 != nil {
			return nil, cbor.DecodingFailed("update_committee.quorum_den", e4)
		}
		a = NewUpdateCommittee(prev, members, qn, qd)
	case ActionNewConstitution:
		prev, e1 := optionalGovActionIDFromCBOR(r)
		if e1 != nil {
			return nil, e1
		}
		anchor, e2 := AnchorFromCBOR(r)
		if e2 != nil {
			return nil, e2
		}
		hash, e3 := optionalHashFromCBOR(r)
		if e3 != nil {
			return nil, e3
		}
		a = NewNewConstitution(prev, anchor, hash)
	case ActionInfo:
		a = NewInfo()
	default:
		return nil, cbor.DecodingFailed("governance_action.kind", cerr.Newf(cerr.InvalidCborValue, "unknown governance action kind %d", kind))
	}
	a.cache.Capture(r.EndCapture(tok))
	return a, nil
}

func decodeCommitteeMembers(r *cbor.Reader) ([]*credential.Credential, error) {
	n, indefinite, err := r.ReadStartArray(cbor.ExpectEither)
	if err != nil {
		return nil, err
	}
	var out []*credential.Credential
	read := func() error {
		c, cerr2 := credential.FromCBOR(r)
		if cerr2 != nil {
			return cerr2
		}
		out = append(out, c)
		return nil
	}
	if indefinite {
		for !r.AtBreak() {
			if err := read(); err != nil {
				return nil, err
			}
		}
		return out, r.ReadEndArray()
	}
	for i := 0; i < n; i++ {
		if err := read(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ActionToCBOR encodes a, replaying cached bytes when valid.
func ActionToCBOR(a *GovernanceAction, w *cbor.Writer) {
	if a.cache.WriteIfValid(w) {
		return
	}
	switch a.kind {
	case ActionParameterChange:
		w.WriteStartArray(3)
		w.WriteU64(uint64(a.kind))
		writeOptionalGovActionID(w, a.prevActionID)
		writeOptionalHash(w, a.policyHash)
	case ActionHardForkInitiation:
		w.WriteStartArray(2)
		w.WriteU64(uint64(a.kind))
		writeOptionalGovActionID(w, a.prevActionID)
	case ActionTreasuryWithdrawals:
		w.WriteStartArray(3)
		w.WriteU64(uint64(a.kind))
		writeWithdrawals(w, a.withdrawals)
		writeOptionalHash(w, a.policyHash)
	case ActionNoConfidence:
		w.WriteStartArray(2)
		w.WriteU64(uint64(a.kind))
		writeOptionalGovActionID(w, a.prevActionID)
	case ActionUpdateCommittee:
		w.WriteStartArray(5)
		w.WriteU64(uint64(a.kind))
		writeOptionalGovActionID(w, a.prevActionID)
		w.WriteStartArray(len(a.committeeMembers))
		for _, m := range a.committeeMembers {
			credential.ToCBOR(m, w)
		}
		w.WriteU64(a.quorumNumerator)
		w.WriteU64(a.quorumDenominator)
	case ActionNewConstitution:
		w.WriteStartArray(4)
		w.WriteU64(uint64(a.kind))
		writeOptionalGovActionID(w, a.prevActionID)
		AnchorToCBOR(a.constitutionAnchor, w)
		writeOptionalHash(w, a.constitutionGuardrailsHash)
	case ActionInfo:
		w.WriteStartArray(1)
		w.WriteU64(uint64(a.kind))
	}
}

// Equal reports deep structural equality between two GovernanceActions.
func Equal(a, b *GovernanceAction) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.kind != b.kind {
		return false
	}
	if (a.prevActionID == nil) != (b.prevActionID == nil) {
		return false
	}
	if a.prevActionID != nil && !GovernanceActionIdEqual(a.prevActionID, b.prevActionID) {
		return false
	}
	if (a.policyHash == nil) != (b.policyHash == nil) {
		return false
	}
	if a.policyHash != nil && !blakehash.Equal(a.policyHash, b.policyHash) {
		return false
	}
	if len(a.withdrawals) != len(b.withdrawals) {
		return false
	}
	for i := range a.withdrawals {
		if string(a.withdrawals[i].RewardAccount) != string(b.withdrawals[i].RewardAccount) || a.withdrawals[i].Coin != b.withdrawals[i].Coin {
			return false
		}
	}
	if len(a.committeeMembers) != len(b.committeeMembers) {
		return false
	}
	for i := range a.committeeMembers {
		if !credential.Equal(a.committeeMembers[i], b.committeeMembers[i]) {
			return false
		}
	}
	if a.quorumNumerator != b.quorumNumerator || a.quorumDenominator != b.quorumDenominator {
		return false
	}
	if (a.constitutionAnchor == nil) != (b.constitutionAnchor == nil) {
		return false
	}
	if a.constitutionAnchor != nil && !anchorEqual(a.constitutionAnchor, b.constitutionAnchor) {
		return false
	}
	if (a.constitutionGuardrailsHash == nil) != (b.constitutionGuardrailsHash == nil) {
		return false
	}
	if a.constitutionGuardrailsHash != nil && !blakehash.Equal(a.constitutionGuardrailsHash, b.constitutionGuardrailsHash) {
		return false
	}
	return true
}
