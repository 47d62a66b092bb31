// Package voting implements Voter, VotingProcedure, and VotingProcedures
// (spec.md §3 "Voting"). Voter is a direct-hash sum {CCHot, CCCold,
// DRepKey, DRepScript, StakePoolKey} — unlike credential.Credential, the
// wire form tags a bare hash rather than wrapping a [tag, hash]
// Credential, per the Conway voter CDDL (voter = [0, hash] .. [4, hash]).
// VotingProcedures is the nested Voter -> (GovernanceActionId ->
// VotingProcedure) map named in spec.md §3, kept insertion-ordered at
// both levels per spec.md §8 "insertion-ordered mirrors of the on-wire
// encoding".
package voting

import (
	"github.com/cardano-go-sdk/ledger/cache"
	"github.com/cardano-go-sdk/ledger/cbor"
	"github.com/cardano-go-sdk/ledger/cerr"
	"github.com/cardano-go-sdk/ledger/crypto/blakehash"
	"github.com/cardano-go-sdk/ledger/gov"
)

// VoterKind discriminates the five Voter variants.
type VoterKind uint64

const (
	VoterCCHot VoterKind = iota
	VoterCCCold
	VoterDRepKey
	VoterDRepScript
	VoterStakePoolKey
)

// Voter identifies who cast a vote: a committee hot/cold key or script
// credential, a DRep key or script credential, or a stake pool operator key.
type Voter struct {
	kind VoterKind
	hash *blakehash.BlakeHash
}

// NewVoter constructs a Voter. hash must be 28 bytes.
func NewVoter(kind VoterKind, hash *blakehash.BlakeHash) (*Voter, error) {
	if hash.Size() != int(blakehash.Size224) {
		return nil, cerr.Newf(cerr.InvalidBlake2bHashSize, "voter hash must be 28 bytes, got %d", hash.Size())
	}
	return &Voter{kind: kind, hash: hash}, nil
}

func (v *Voter) Kind() VoterKind              { return v.kind }
func (v *Voter) Hash() *blakehash.BlakeHash   { return v.hash }

// VoterEqual reports structural equality between two Voters.
func VoterEqual(a, b *Voter) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.kind == b.kind && blakehash.Equal(a.hash, b.hash)
}

// VoterFromCBOR decodes a Voter from its [kind, hash] array form.
func VoterFromCBOR(r *cbor.Reader) (*Voter, error) {
	n, _, err := r.ReadStartArray(cbor.ExpectDefinite)
	if err != nil {
		return nil, err
	}
	if n != 2 {
		return nil, cbor.DecodingFailed("voter", cerr.Newf(cerr.InvalidCborArraySize, "expected array of 2, got %d", n))
	}
	kindU, kerr := r.ReadU64()
	if kerr != nil {
		return nil, cbor.DecodingFailed("voter.kind", kerr)
	}
	if kindU > uint64(VoterStakePoolKey) {
		return nil, cbor.DecodingFailed("voter.kind", cerr.Newf(cerr.InvalidCborValue, "unknown voter kind %d", kindU))
	}
	hash, herr := blakehash.FromCBOR(r, blakehash.Size224)
	if herr != nil {
		return nil, cbor.DecodingFailed("voter.hash", herr)
	}
	return NewVoter(VoterKind(kindU), hash)
}

// VoterToCBOR encodes v as [kind, hash].
func VoterToCBOR(v *Voter, w *cbor.Writer) {
	w.WriteStartArray(2)
	w.WriteU64(uint64(v.kind))
	blakehash.ToCBOR(v.hash, w)
}

// Vote is a single vote's value.
type Vote uint64

const (
	VoteNo Vote = iota
	VoteYes
	VoteAbstain
)

// VotingProcedure is one cast vote: a Vote plus an optional justifying anchor.
type VotingProcedure struct {
	vote   Vote
	anchor *gov.Anchor
}

// NewVotingProcedure constructs a VotingProcedure. anchor may be nil.
func NewVotingProcedure(vote Vote, anchor *gov.Anchor) *VotingProcedure {
	return &VotingProcedure{vote: vote, anchor: anchor}
}

func (p *VotingProcedure) Vote() Vote          { return p.vote }
func (p *VotingProcedure) Anchor() *gov.Anchor { return p.anchor }

// VotingProcedureEqual reports structural equality between two VotingProcedures.
func VotingProcedureEqual(a, b *VotingProcedure) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.vote != b.vote {
		return false
	}
	if (a.anchor == nil) != (b.anchor == nil) {
		return false
	}
	if a.anchor == nil {
		return true
	}
	return a.anchor.URL() == b.anchor.URL() && blakehash.Equal(a.anchor.DataHash(), b.anchor.DataHash())
}

// VotingProcedureFromCBOR decodes a VotingProcedure from its
// [vote, anchor/null] array form.
func VotingProcedureFromCBOR(r *cbor.Reader) (*VotingProcedure, error) {
	n, _, err := r.ReadStartArray(cbor.ExpectDefinite)
	if err != nil {
		return nil, err
	}
	if n != 2 {
		return nil, cbor.DecodingFailed("voting_procedure", cerr.Newf(cerr.InvalidCborArraySize, "expected array of 2, got %d", n))
	}
	voteU, verr := r.ReadU64()
	if verr != nil {
		return nil, cbor.DecodingFailed("voting_procedure.vote", verr)
	}
	isNull, perr := r.PeekNull()
	if perr != nil {
		return nil, perr
	}
	var anchor *gov.Anchor
	if isNull {
		if err := r.ReadNull(); err != nil {
			return nil, err
		}
	} else {
		anchor, perr = gov.AnchorFromCBOR(r)
		if perr != nil {
			return nil, perr
		}
	}
	return NewVotingProcedure(Vote(voteU), anchor), nil
}

// VotingProcedureToCBOR encodes p as [vote, anchor/null].
func VotingProcedureToCBOR(p *VotingProcedure, w *cbor.Writer) {
	w.WriteStartArray(2)
	w.WriteU64(uint64(p.vote))
	if p.anchor != nil {
		gov.AnchorToCBOR(p.anchor, w)
	} else {
		w.WriteNull()
	}
}

// actionEntry is one GovernanceActionId -> VotingProcedure pair within a
// voter's inner map, kept in insertion order.
type actionEntry struct {
	id   *gov.GovernanceActionId
	proc *VotingProcedure
}

// voterEntry is one Voter -> (inner map) pair, kept in insertion order.
type voterEntry struct {
	voter   *Voter
	actions []actionEntry
}

// VotingProcedures is the nested Voter -> (GovernanceActionId ->
// VotingProcedure) map, preserving insertion order at both levels
// (spec.md §8 "VotingProcedures outer and inner maps are insertion-ordered
// mirrors of the on-wire encoding").
type VotingProcedures struct {
	entries []voterEntry
	cache   cache.Cache
}

// New constructs an empty VotingProcedures.
func New() *VotingProcedures { return &VotingProcedures{} }

func (vp *VotingProcedures) findVoter(v *Voter) *voterEntry {
	for i := range vp.entries {
		if VoterEqual(vp.entries[i].voter, v) {
			return &vp.entries[i]
		}
	}
	return nil
}

// Set records voter's vote on action, overwriting any existing vote by
// that voter on that action while preserving original insertion position.
func (vp *VotingProcedures) Set(voter *Voter, action *gov.GovernanceActionId, proc *VotingProcedure) {
	vp.cache.Clear()
	entry := vp.findVoter(voter)
	if entry == nil {
		vp.entries = append(vp.entries, voterEntry{voter: voter})
		entry = &vp.entries[len(vp.entries)-1]
	}
	for i := range entry.actions {
		if gov.GovernanceActionIdEqual(entry.actions[i].id, action) {
			entry.actions[i].proc = proc
			return
		}
	}
	entry.actions = append(entry.actions, actionEntry{id: action, proc: proc})
}

// Get returns the recorded vote for voter on action, if any.
func (vp *VotingProcedures) Get(voter *Voter, action *gov.GovernanceActionId) (*VotingProcedure, bool) {
	entry := vp.findVoter(voter)
	if entry == nil {
		return nil, false
	}
	for _, a := range entry.actions {
		if gov.GovernanceActionIdEqual(a.id, action) {
			return a.proc, true
		}
	}
	return nil, false
}

// Voters returns the recorded voters, in insertion order.
func (vp *VotingProcedures) Voters() []*Voter {
	out := make([]*Voter, len(vp.entries))
	for i, e := range vp.entries {
		out[i] = e.voter
	}
	return out
}

// ClearCBORCache forces the next ToCBOR call to re-encode canonically.
func (vp *VotingProcedures) ClearCBORCache() { vp.cache.Clear() }

// FromCBOR decodes a VotingProcedures from its nested map form.
func FromCBOR(r *cbor.Reader) (*VotingProcedures, error) {
	tok := r.BeginCapture()
	n, indefinite, err := r.ReadStartMap(cbor.ExpectEither)
	if err != nil {
		return nil, err
	}
	vp := &VotingProcedures{}
	readOuter := func() error {
		voter, verr := VoterFromCBOR(r)
		if verr != nil {
			return verr
		}
		innerN, innerIndef, ierr := r.ReadStartMap(cbor.ExpectEither)
		if ierr != nil {
			return ierr
		}
		readInner := func() error {
			id, iderr := gov.GovernanceActionIdFromCBOR(r)
			if iderr != nil {
				return iderr
			}
			proc, perr := VotingProcedureFromCBOR(r)
			if perr != nil {
				return perr
			}
			vp.Set(voter, id, proc)
			return nil
		}
		if innerIndef {
			for !r.AtBreak() {
				if err := readInner(); err != nil {
					return err
				}
			}
			return r.ReadEndMap()
		}
		for i := 0; i < innerN; i++ {
			if err := readInner(); err != nil {
				return err
			}
		}
		return nil
	}
	if indefinite {
		for !r.AtBreak() {
			if err := readOuter(); err != nil {
				return nil, err
			}
		}
		if err := r.ReadEndMap(); err != nil {
			return nil, err
		}
	} else {
		for i := 0; i < n; i++ {
			if err := readOuter(); err != nil {
				return nil, err
			}
		}
	}
	vp.cache.Capture(r.EndCapture(tok))
	return vp, nil
}

// ToCBOR encodes vp, replaying cached bytes when valid.
func ToCBOR(vp *VotingProcedures, w *cbor.Writer) {
	if vp.cache.WriteIfValid(w) {
		return
	}
	w.WriteStartMap(len(vp.entries))
	for _, e := range vp.entries {
		VoterToCBOR(e.voter, w)
		w.WriteStartMap(len(e.actions))
		for _, a := range e.actions {
			gov.GovernanceActionIdToCBOR(a.id, w)
			VotingProcedureToCBOR(a.proc, w)
		}
	}
}
