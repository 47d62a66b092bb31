// Package gov implements GovernanceActionId and the seven GovernanceAction
// variants spec.md §3 ("Proposals and governance actions") names:
// parameter change, hard-fork initiation, treasury withdrawals,
// no-confidence, new-committee, new-constitution, and info. Tag numbers
// follow the Conway governance_action CDDL. Scenario E (spec.md §8) is
// the literal ground truth for TreasuryWithdrawalsAction's wire shape.
package gov

import (
	"github.com/cardano-go-sdk/ledger/bigint"
	"github.com/cardano-go-sdk/ledger/cache"
	"github.com/cardano-go-sdk/ledger/cbor"
	"github.com/cardano-go-sdk/ledger/cerr"
	"github.com/cardano-go-sdk/ledger/credential"
	"github.com/cardano-go-sdk/ledger/crypto/blakehash"
)

// GovernanceActionId identifies a governance action by the transaction
// that proposed it and its index within that transaction's proposal list.
type GovernanceActionId struct {
	txID  *blakehash.BlakeHash
	index uint64
}

// NewGovernanceActionId constructs a GovernanceActionId. txID must be 32 bytes.
func NewGovernanceActionId(txID *blakehash.BlakeHash, index uint64) (*GovernanceActionId, error) {
	if txID.Size() != int(blakehash.Size256) {
		return nil, cerr.Newf(cerr.InvalidBlake2bHashSize, "governance action id tx hash must be 32 bytes, got %d", txID.Size())
	}
	return &GovernanceActionId{txID: txID, index: index}, nil
}

func (g *GovernanceActionId) TxID() *blakehash.BlakeHash { return g.txID }
func (g *GovernanceActionId) Index() uint64              { return g.index }

// GovernanceActionIdEqual reports structural equality between two ids.
func GovernanceActionIdEqual(a, b *GovernanceActionId) bool {
	if a == nil || b == nil {
		return a == b
	}
	return blakehash.Equal(a.txID, b.txID) && a.index == b.index
}

// GovernanceActionIdFromCBOR decodes a GovernanceActionId from its
// [tx_id, index] array form.
func GovernanceActionIdFromCBOR(r *cbor.Reader) (*GovernanceActionId, error) {
	n, _, err := r.ReadStartArray(cbor.ExpectDefinite)
	if err != nil {
		return nil, err
	}
	if n != 2 {
		return nil, cbor.DecodingFailed("governance_action_id", cerr.Newf(cerr.InvalidCborArraySize, "expected array of 2, got %d", n))
	}
	txID, e1 := blakehash.FromCBOR(r, blakehash.Size256)
	if e1 != nil {
		return nil, cbor.DecodingFailed("governance_action_id.tx_id", e1)
	}
	index, e2 := r.ReadU64()
	if e2 != nil {
		return nil, cbor.DecodingFailed("governance_action_id.index", e2)
	}
	return NewGovernanceActionId(txID, index)
}

// GovernanceActionIdToCBOR encodes g as [tx_id, index].
func GovernanceActionIdToCBOR(g *GovernanceActionId, w *cbor.Writer) {
	w.WriteStartArray(2)
	blakehash.ToCBOR(g.txID, w)
	w.WriteU64(g.index)
}

// Anchor is a pointer to an off-chain proposal rationale document: a URL
// and the hash of the document it resolves to.
type Anchor struct {
	url      string
	dataHash *blakehash.BlakeHash
}

// NewAnchor constructs an Anchor. dataHash must be 32 bytes.
func NewAnchor(url string, dataHash *blakehash.BlakeHash) (*Anchor, error) {
	if dataHash.Size() != int(blakehash.Size256) {
		return nil, cerr.Newf(cerr.InvalidBlake2bHashSize, "anchor data hash must be 32 bytes, got %d", dataHash.Size())
	}
	return &Anchor{url: url, dataHash: dataHash}, nil
}

func (a *Anchor) URL() string                    { return a.url }
func (a *Anchor) DataHash() *blakehash.BlakeHash { return a.dataHash }

func anchorEqual(a, b *Anchor) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.url == b.url && blakehash.Equal(a.dataHash, b.dataHash)
}

// AnchorFromCBOR decodes an Anchor from its [url, data_hash] array form.
func AnchorFromCBOR(r *cbor.Reader) (*Anchor, error) {
	n, _, err := r.ReadStartArray(cbor.ExpectDefinite)
	if err != nil {
		return nil, err
	}
	if n != 2 {
		return nil, cbor.DecodingFailed("anchor", cerr.Newf(cerr.InvalidCborArraySize, "expected array of 2, got %d", n))
	}
	url, uerr := r.ReadText()
	if uerr != nil {
		return nil, cbor.DecodingFailed("anchor.url", uerr)
	}
	hash, herr := blakehash.FromCBOR(r, blakehash.Size256)
	if herr != nil {
		return nil, cbor.DecodingFailed("anchor.data_hash", herr)
	}
	return NewAnchor(url, hash)
}

// AnchorToCBOR encodes a as [url, data_hash].
func AnchorToCBOR(a *Anchor, w *cbor.Writer) {
	w.WriteStartArray(2)
	w.WriteText(a.url)
	blakehash.ToCBOR(a.dataHash, w)
}

// ActionKind discriminates the seven GovernanceAction variants by their
// Conway-era governance_action CBOR array tag.
type ActionKind uint64

const (
	ActionParameterChange ActionKind = iota
	ActionHardForkInitiation
	ActionTreasuryWithdrawals
	ActionNoConfidence
	ActionUpdateCommittee
	ActionNewConstitution
	ActionInfo
)

// Withdrawal is one reward-account → coin entry in a treasury withdrawal.
type Withdrawal struct {
	RewardAccount []byte
	Coin          uint64
}

// GovernanceAction is the sum of the seven action variants. Every variant
// carries an optional previous-action-id governance continuity reference
// except TreasuryWithdrawals and Info (spec.md §3).
type GovernanceAction struct {
	kind ActionKind

	prevActionID *GovernanceActionId

	withdrawals []Withdrawal
	policyHash  *blakehash.BlakeHash // treasury withdrawals' guardrails script hash

	committeeMembers  []*credential.Credential // new-committee members to add
	committeeThreshold *Rational
	quorumNumerator    uint64
	quorumDenominator  uint64

	constitutionAnchor *Anchor
	constitutionGuardrailsHash *blakehash.BlakeHash

	cache cache.Cache
}

// Rational is a bare numerator/denominator pair, used for the new
// committee's vote threshold where the CDDL does not tag-30-wrap it.
type Rational struct {
	Num uint64
	Den uint64
}

func (a *GovernanceAction) Kind() ActionKind                        { return a.kind }
func (a *GovernanceAction) PrevActionID() *GovernanceActionId        { return a.prevActionID }
func (a *GovernanceAction) Withdrawals() []Withdrawal                { return a.withdrawals }
func (a *GovernanceAction) PolicyHash() *blakehash.BlakeHash         { return a.policyHash }
func (a *GovernanceAction) CommitteeMembers() []*credential.Credential { return a.committeeMembers }
func (a *GovernanceAction) ConstitutionAnchor() *Anchor              { return a.constitutionAnchor }
func (a *GovernanceAction) ConstitutionGuardrailsHash() *blakehash.BlakeHash {
	return a.constitutionGuardrailsHash
}

// ClearCBORCache forces the next ToCBOR call to re-encode canonically.
func (a *GovernanceAction) ClearCBORCache() { a.cache.Clear() }

// NewParameterChange constructs a parameter-change action. Protocol
// parameter update payloads themselves are out of core scope (spec.md §1
// excludes full protocol-parameter modeling); only continuity/guardrails
// plumbing is carried.
func NewParameterChange(prevActionID *GovernanceActionId, guardrailsHash *blakehash.BlakeHash) *GovernanceAction {
	return &GovernanceAction{kind: ActionParameterChange, prevActionID: prevActionID, policyHash: guardrailsHash}
}

// NewHardForkInitiation constructs a hard-fork-initiation action.
func NewHardForkInitiation(prevActionID *GovernanceActionId) *GovernanceAction {
	return &GovernanceAction{kind: ActionHardForkInitiation, prevActionID: prevActionID}
}

// NewTreasuryWithdrawals constructs a treasury withdrawals action, per
// spec.md §8 Scenario E. policyHash (the guardrails script hash) may be nil.
func NewTreasuryWithdrawals(withdrawals []Withdrawal, policyHash *blakehash.BlakeHash) *GovernanceAction {
	return &GovernanceAction{kind: ActionTreasuryWithdrawals, withdrawals: withdrawals, policyHash: policyHash}
}

// NewNoConfidence constructs a no-confidence action.
func NewNoConfidence(prevActionID *GovernanceActionId) *GovernanceAction {
	return &GovernanceAction{kind: ActionNoConfidence, prevActionID: prevActionID}
}

// NewUpdateCommittee constructs a new-committee action.
func NewUpdateCommittee(prevActionID *GovernanceActionId, members []*credential.Credential, quorumNum, quorumDen uint64) *GovernanceAction {
	return &GovernanceAction{
		kind: ActionUpdateCommittee, prevActionID: prevActionID, committeeMembers: members,
		quorumNumerator: quorumNum, quorumDenominator: quorumDen,
	}
}

// NewNewConstitution constructs a new-constitution action.
func NewNewConstitution(prevActionID *GovernanceActionId, anchor *Anchor, guardrailsHash *blakehash.BlakeHash) *GovernanceAction {
	return &GovernanceAction{
		kind: ActionNewConstitution, prevActionID: prevActionID,
		constitutionAnchor: anchor, constitutionGuardrailsHash: guardrailsHash,
	}
}

// NewInfo constructs the info action, which carries no payload.
func NewInfo() *GovernanceAction {
	return &GovernanceAction{kind: ActionInfo}
}

// ProposalProcedure bundles a deposit, return account, governance action,
// and justifying anchor, exactly as submitted on-chain in a transaction's
// proposal_procedures field.
type ProposalProcedure struct {
	deposit       *bigint.BigInt
	returnAccount []byte
	action        *GovernanceAction
	anchor        *Anchor
	cache         cache.Cache
}

// NewProposalProcedure constructs a ProposalProcedure.
func NewProposalProcedure(deposit *bigint.BigInt, returnAccount []byte, action *GovernanceAction, anchor *Anchor) *ProposalProcedure {
	acct := make([]byte, len(returnAccount))
	copy(acct, returnAccount)
	return &ProposalProcedure{deposit: deposit, returnAccount: acct, action: action, anchor: anchor}
}

func (p *ProposalProcedure) Deposit() *bigint.BigInt      { return p.deposit }
func (p *ProposalProcedure) ReturnAccount() []byte        { return p.returnAccount }
func (p *ProposalProcedure) Action() *GovernanceAction     { return p.action }
func (p *ProposalProcedure) Anchor() *Anchor               { return p.anchor }

// ClearCBORCache forces the next ToCBOR call to re-encode canonically.
func (p *ProposalProcedure) ClearCBORCache() { p.cache.Clear() }

// ProposalProcedureFromCBOR decodes a ProposalProcedure from its
// [deposit, return_account, action, anchor] array form.
func ProposalProcedureFromCBOR(r *cbor.Reader) (*ProposalProcedure, error) {
	tok := r.BeginCapture()
	n, _, err := r.ReadStartArray(cbor.ExpectDefinite)
	if err != nil {
		return nil, err
	}
	if n != 4 {
		return nil, cbor.DecodingFailed("proposal_procedure", cerr.Newf(cerr.InvalidCborArraySize, "expected array of 4, got %d", n))
	}
	deposit, e1 := bigint.FromCBOR(r)
	if e1 != nil {
		return nil, cbor.DecodingFailed("proposal_procedure.deposit", e1)
	}
	acct, e2 := r.ReadBytes()
	if e2 != nil {
		return nil, cbor.DecodingFailed("proposal_procedure.return_account", e2)
	}
	action, e3 := ActionFromCBOR(r)
	if e3 != nil {
		return nil, e3
	}
	anchor, e4 := AnchorFromCBOR(r)
	if e4 != nil {
		return nil, cbor.DecodingFailed("proposal_procedure.anchor", e4)
	}
	p := NewProposalProcedure(deposit, acct, action, anchor)
	p.cache.Capture(r.EndCapture(tok))
	return p, nil
}

// ProposalProcedureToCBOR encodes p, replaying cached bytes when valid.
func ProposalProcedureToCBOR(p *ProposalProcedure, w *cbor.Writer) {
	if p.cache.WriteIfValid(w) {
		return
	}
	w.WriteStartArray(4)
	bigint.ToCBOR(p.deposit, w)
	w.WriteBytes(p.returnAccount)
	ActionToCBOR(p.action, w)
	AnchorToCBOR(p.anchor, w)
}
