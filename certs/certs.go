// Package certs implements the seventeen certificate variants named in
// spec.md §3 ("Certificates"). Tag numbers follow the Conway-era
// certificate CDDL (stake_registration through update_drep_cert);
// StakeRegistrationDelegation's shape matches spec.md §3's own worked
// example. Grounded on original_source/lib/include/cardano/certs/*.h for
// the variants spec.md's distillation names but doesn't fully spell the
// wire shape of, and on credential/drep.go and pool/pool.go for the
// nested types each variant carries.
package certs

import (
	"github.com/cardano-go-sdk/ledger/bigint"
	"github.com/cardano-go-sdk/ledger/cache"
	"github.com/cardano-go-sdk/ledger/cbor"
	"github.com/cardano-go-sdk/ledger/cerr"
	"github.com/cardano-go-sdk/ledger/credential"
	"github.com/cardano-go-sdk/ledger/crypto/blakehash"
	"github.com/cardano-go-sdk/ledger/pool"
)

// Kind discriminates the certificate variants by their CBOR array tag.
type Kind uint64

const (
	KindStakeRegistration Kind = iota
	KindStakeDeregistration
	KindStakeDelegation
	KindPoolRegistration
	KindPoolRetirement
	_ // 5: genesis_key_delegation, not reinstated (Non-goal: legacy genesis-era)
	_ // 6: move_instantaneous_rewards, not reinstated (Non-goal: legacy genesis-era)
	KindRegistration
	KindUnregistration
	KindVoteDelegation
	KindStakeVoteDelegation
	KindStakeRegistrationDelegation
	KindVoteRegistrationDelegation
	KindStakeVoteRegistrationDelegation
	KindAuthCommitteeHot
	KindResignCommitteeCold
	KindRegisterDRep
	KindUnregisterDRep
	KindUpdateDRep
)

// Certificate is the sum of all seventeen variants. Exactly the fields
// relevant to Kind are populated; callers switch on Kind before reading
// fields, mirroring how PlutusData's fields are read (spec.md §4.4).
type Certificate struct {
	kind Kind

	stakeCredential *credential.Credential
	poolKeyHash     *blakehash.BlakeHash // stake delegation / pool retirement target or operator
	poolParams      *pool.PoolParams
	deposit         *bigint.BigInt
	drep            *credential.DRep
	coldCredential  *credential.Credential
	hotCredential   *credential.Credential
	anchorURL       string
	anchorDataHash  *blakehash.BlakeHash
	epoch           uint64

	cache cache.Cache
}

func (c *Certificate) Kind() Kind                              { return c.kind }
func (c *Certificate) StakeCredential() *credential.Credential { return c.stakeCredential }
func (c *Certificate) PoolKeyHash() *blakehash.BlakeHash       { return c.poolKeyHash }
func (c *Certificate) PoolParams() *pool.PoolParams            { return c.poolParams }
func (c *Certificate) Deposit() *bigint.BigInt                 { return c.deposit }
func (c *Certificate) DRep() *credential.DRep                  { return c.drep }
func (c *Certificate) ColdCredential() *credential.Credential  { return c.coldCredential }
func (c *Certificate) HotCredential() *credential.Credential   { return c.hotCredential }
func (c *Certificate) AnchorURL() string                       { return c.anchorURL }
func (c *Certificate) AnchorDataHash() *blakehash.BlakeHash    { return c.anchorDataHash }
func (c *Certificate) Epoch() uint64                           { return c.epoch }

// ClearCBORCache forces the next ToCBOR call to re-encode canonically.
func (c *Certificate) ClearCBORCache() { c.cache.Clear() }

var errUnknownCertKind = cerr.New(cerr.InvalidCborValue, "unknown certificate kind")

// NewStakeRegistration constructs a pre-Conway stake registration certificate.
func NewStakeRegistration(cred *credential.Credential) *Certificate {
	return &Certificate{kind: KindStakeRegistration, stakeCredential: cred}
}

// NewStakeDeregistration constructs a pre-Conway stake deregistration certificate.
func NewStakeDeregistration(cred *credential.Credential) *Certificate {
	return &Certificate{kind: KindStakeDeregistration, stakeCredential: cred}
}

// NewStakeDelegation constructs a stake delegation certificate.
func NewStakeDelegation(cred *credential.Credential, poolKeyHash *blakehash.BlakeHash) *Certificate {
	return &Certificate{kind: KindStakeDelegation, stakeCredential: cred, poolKeyHash: poolKeyHash}
}

// NewPoolRegistration constructs a pool registration certificate.
func NewPoolRegistration(params *pool.PoolParams) *Certificate {
	return &Certificate{kind: KindPoolRegistration, poolParams: params}
}

// NewPoolRetirement constructs a pool retirement certificate, retiring at epoch.
func NewPoolRetirement(poolKeyHash *blakehash.BlakeHash, epoch uint64) *Certificate {
	return &Certificate{kind: KindPoolRetirement, poolKeyHash: poolKeyHash, epoch: epoch}
}

// NewRegistration constructs a Conway stake-key registration-with-deposit certificate.
func NewRegistration(cred *credential.Credential, deposit *bigint.BigInt) *Certificate {
	return &Certificate{kind: KindRegistration, stakeCredential: cred, deposit: deposit}
}

// NewUnregistration constructs a Conway stake-key unregistration-with-refund certificate.
func NewUnregistration(cred *credential.Credential, deposit *bigint.BigInt) *Certificate {
	return &Certificate{kind: KindUnregistration, stakeCredential: cred, deposit: deposit}
}

// NewVoteDelegation constructs a certificate delegating stake's governance vote to drep.
func NewVoteDelegation(cred *credential.Credential, drep *credential.DRep) *Certificate {
	return &Certificate{kind: KindVoteDelegation, stakeCredential: cred, drep: drep}
}

// NewStakeVoteDelegation delegates both staking (to a pool) and voting (to a drep) at once.
func NewStakeVoteDelegation(cred *credential.Credential, poolKeyHash *blakehash.BlakeHash, drep *credential.DRep) *Certificate {
	return &Certificate{kind: KindStakeVoteDelegation, stakeCredential: cred, poolKeyHash: poolKeyHash, drep: drep}
}

// NewStakeRegistrationDelegation registers a stake credential and delegates
// it to a pool in one certificate, per spec.md §3's own worked example.
func NewStakeRegistrationDelegation(cred *credential.Credential, poolKeyHash *blakehash.BlakeHash, deposit *bigint.BigInt) *Certificate {
	return &Certificate{kind: KindStakeRegistrationDelegation, stakeCredential: cred, poolKeyHash: poolKeyHash, deposit: deposit}
}

// NewVoteRegistrationDelegation registers a stake credential and delegates its vote in one certificate.
func NewVoteRegistrationDelegation(cred *credential.Credential, drep *credential.DRep, deposit *bigint.BigInt) *Certificate {
	return &Certificate{kind: KindVoteRegistrationDelegation, stakeCredential: cred, drep: drep, deposit: deposit}
}

// NewStakeVoteRegistrationDelegation registers a stake credential and delegates both stake and vote in one certificate.
func NewStakeVoteRegistrationDelegation(cred *credential.Credential, poolKeyHash *blakehash.BlakeHash, drep *credential.DRep, deposit *bigint.BigInt) *Certificate {
	return &Certificate{kind: KindStakeVoteRegistrationDelegation, stakeCredential: cred, poolKeyHash: poolKeyHash, drep: drep, deposit: deposit}
}

// NewAuthCommitteeHot authorizes a hot credential to act for a constitutional committee cold credential.
func NewAuthCommitteeHot(cold, hot *credential.Credential) *Certificate {
	return &Certificate{kind: KindAuthCommitteeHot, coldCredential: cold, hotCredential: hot}
}

// NewResignCommitteeCold resigns a constitutional committee cold credential, with an optional anchor.
func NewResignCommitteeCold(cold *credential.Credential, anchorURL string, anchorDataHash *blakehash.BlakeHash) *Certificate {
	return &Certificate{kind: KindResignCommitteeCold, coldCredential: cold, anchorURL: anchorURL, anchorDataHash: anchorDataHash}
}

// NewRegisterDRep registers a DRep credential with a deposit and optional anchor.
func NewRegisterDRep(cred *credential.Credential, deposit *bigint.BigInt, anchorURL string, anchorDataHash *blakehash.BlakeHash) *Certificate {
	return &Certificate{kind: KindRegisterDRep, stakeCredential: cred, deposit: deposit, anchorURL: anchorURL, anchorDataHash: anchorDataHash}
}

// NewUnregisterDRep unregisters a DRep credential, refunding its deposit.
func NewUnregisterDRep(cred *credential.Credential, deposit *bigint.BigInt) *Certificate {
	return &Certificate{kind: KindUnregisterDRep, stakeCredential: cred, deposit: deposit}
}

// NewUpdateDRep updates a DRep's anchor.
func NewUpdateDRep(cred *credential.Credential, anchorURL string, anchorDataHash *blakehash.BlakeHash) *Certificate {
	return &Certificate{kind: KindUpdateDRep, stakeCredential: cred, anchorURL: anchorURL, anchorDataHash: anchorDataHash}
}
