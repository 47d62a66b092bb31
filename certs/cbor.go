package certs

import (
	"github.com/cardano-go-sdk/ledger/bigint"
	"github.com/cardano-go-sdk/ledger/cbor"
	"github.com/cardano-go-sdk/ledger/cerr"
	"github.com/cardano-go-sdk/ledger/credential"
	"github.com/cardano-go-sdk/ledger/crypto/blakehash"
	"github.com/cardano-go-sdk/ledger/pool"
)

func optionalAnchorFromCBOR(r *cbor.Reader) (string, *blakehash.BlakeHash, error) {
	isNull, err := r.PeekNull()
	if err != nil {
		return "", nil, err
	}
	if isNull {
		if err := r.ReadNull(); err != nil {
			return "", nil, err
		}
		return "", nil, nil
	}
	n, _, aerr := r.ReadStartArray(cbor.ExpectDefinite)
	if aerr != nil {
		return "", nil, aerr
	}
	if n != 2 {
		return "", nil, cbor.DecodingFailed("anchor", cerr.Newf(cerr.InvalidCborArraySize, "expected array of 2, got %d", n))
	}
	url, uerr := r.ReadText()
	if uerr != nil {
		return "", nil, cbor.DecodingFailed("anchor.url", uerr)
	}
	hash, herr := blakehash.FromCBOR(r, blakehash.Size256)
	if herr != nil {
		return "", nil, cbor.DecodingFailed("anchor.data_hash", herr)
	}
	return url, hash, nil
}

func writeOptionalAnchor(w *cbor.Writer, url string, hash *blakehash.BlakeHash) {
	if hash == nil {
		w.WriteNull()
		return
	}
	w.WriteStartArray(2)
	w.WriteText(url)
	blakehash.ToCBOR(hash, w)
}

// FromCBOR decodes a Certificate from its [kind, ...fields] array form.
func FromCBOR(r *cbor.Reader) (*Certificate, error) {
	tok := r.BeginCapture()
	_, _, err := r.ReadStartArray(cbor.ExpectDefinite)
	if err != nil {
		return nil, err
	}
	kindU, kerr := r.ReadU64()
	if kerr != nil {
		return nil, cbor.DecodingFailed("certificate.kind", kerr)
	}
	kind := Kind(kindU)
	var c *Certificate
	switch kind {
	case KindStakeRegistration:
		cred, e := credential.FromCBOR(r)
		if e != nil {
			return nil, e
		}
		c = NewStakeRegistration(cred)
	case KindStakeDeregistration:
		cred, e := credential.FromCBOR(r)
		if e != nil {
			return nil, e
		}
		c = NewStakeDeregistration(cred)
	case KindStakeDelegation:
		cred, e := credential.FromCBOR(r)
		if e != nil {
			return nil, e
		}
		pkh, e2 := blakehash.FromCBOR(r, blakehash.Size224)
		if e2 != nil {
			return nil, cbor.DecodingFailed("stake_delegation.pool", e2)
		}
		c = NewStakeDelegation(cred, pkh)
	case KindPoolRegistration:
		params, e := pool.FromCBOR(r)
		if e != nil {
			return nil, e
		}
		c = NewPoolRegistration(params)
	case KindPoolRetirement:
		pkh, e := blakehash.FromCBOR(r, blakehash.Size224)
		if e != nil {
			return nil, cbor.DecodingFailed("pool_retirement.pool", e)
		}
		epoch, e2 := r.ReadU64()
		if e2 != nil {
			return nil, cbor.DecodingFailed("pool_retirement.epoch", e2)
		}
		c = NewPoolRetirement(pkh, epoch)
	case KindRegistration:
		cred, e := credential.FromCBOR(r)
		if e != nil {
			return nil, e
		}
		deposit, e2 := bigint.FromCBOR(r)
		if e2 != nil {
			return nil, cbor.DecodingFailed("registration.deposit", e2)
		}
		c = NewRegistration(cred, deposit)
	case KindUnregistration:
		cred, e := credential.FromCBOR(r)
		if e != nil {
			return nil, e
		}
		deposit, e2 := bigint.FromCBOR(r)
		if e2 != nil {
			return nil, cbor.DecodingFailed("unregistration.deposit", e2)
		}
		c = NewUnregistration(cred, deposit)
	case KindVoteDelegation:
		cred, e := credential.FromCBOR(r)
		if e != nil {
			return nil, e
		}
		drep, e2 := credential.DRepFromCBOR(r)
		if e2 != nil {
			return nil, e2
		}
		c = NewVoteDelegation(cred, drep)
	case KindStakeVoteDelegation:
		cred, e := credential.FromCBOR(r)
		if e != nil {
			return nil, e
		}
		pkh, e2 := blakehash.FromCBOR(r, blakehash.Size224)
		if e2 != nil {
			return nil, cbor.DecodingFailed("stake_vote_delegation.pool", e2)
		}
		drep, e3 := credential.DRepFromCBOR(r)
		if e3 != nil {
			return nil, e3
		}
		c = NewStakeVoteDelegation(cred, pkh, drep)
	case KindStakeRegistrationDelegation:
		cred, e := credential.FromCBOR(r)
		if e != nil {
			return nil, e
		}
		pkh, e2 := blakehash.FromCBOR(r, blakehash.Size224)
		if e2 != nil {
			return nil, cbor.DecodingFailed("stake_registration_delegation.pool", e2)
		}
		deposit, e3 := bigint.FromCBOR(r)
		if e3 != nil {
			return nil, cbor.DecodingFailed("stake_registration_delegation.deposit", e3)
		}
		c = NewStakeRegistrationDelegation(cred, pkh, deposit)
	case KindVoteRegistrationDelegation:
		cred, e := credential.FromCBOR(r)
		if e != nil {
			return nil, e
		}
		drep, e2 := credential.DRepFromCBOR(r)
		if e2 != nil {
			return nil, e2
		}
		deposit, e3 := bigint.FromCBOR(r)
		if e3 != nil {
			return nil, cbor.DecodingFailed("vote_registration_delegation.deposit", e3)
		}
		c = NewVoteRegistrationDelegation(cred, drep, deposit)
	case KindStakeVoteRegistrationDelegation:
		cred, e := credential.FromCBOR(r)
		if e != nil {
			return nil, e
		}
		pkh, e2 := blakehash.FromCBOR(r, blakehash.Size224)
		if e2 != nil {
			return nil, cbor.DecodingFailed("stake_vote_registration_delegation.pool", e2)
		}
		drep, e3 := credential.DRepFromCBOR(r)
		if e3 != nil {
			return nil, e3
		}
		deposit, e4 := bigint.FromCBOR(r)
		if e4 != nil {
			return nil, cbor.DecodingFailed("stake_vote_registration_delegation.deposit", e4)
		}
		c = NewStakeVoteRegistrationDelegation(cred, pkh, drep, deposit)
	case KindAuthCommitteeHot:
		cold, e := credential.FromCBOR(r)
		if e != nil {
			return nil, e
		}
		hot, e2 := credential.FromCBOR(r)
		if e2 != nil {
			return nil, e2
		}
		c = NewAuthCommitteeHot(cold, hot)
	case KindResignCommitteeCold:
		cold, e := credential.FromCBOR(r)
		if e != nil {
			return nil, e
		}
		url, hash, e2 := optionalAnchorFromCBOR(r)
		if e2 != nil {
			return nil, e2
		}
		c = NewResignCommitteeCold(cold, url, hash)
	case KindRegisterDRep:
		cred, e := credential.FromCBOR(r)
		if e != nil {
			return nil, e
		}
		deposit, e2 := bigint.FromCBOR(r)
		if e2 != nil {
			return nil, cbor.DecodingFailed("register_drep.deposit", e2)
		}
		url, hash, e3 := optionalAnchorFromCBOR(r)
		if e3 != nil {
			return nil, e3
		}
		c = NewRegisterDRep(cred, deposit, url, hash)
	case KindUnregisterDRep:
		cred, e := credential.FromCBOR(r)
		if e != nil {
			return nil, e
		}
		deposit, e2 := bigint.FromCBOR(r)
		if e2 != nil {
			return nil, cbor.DecodingFailed("unregister_drep.deposit", e2)
		}
		c = NewUnregisterDRep(cred, deposit)
	case KindUpdateDRep:
		cred, e := credential.FromCBOR(r)
		if e != nil {
			return nil, e
		}
		url, hash, e2 := optionalAnchorFromCBOR(r)
		if e2 != nil {
			return nil, e2
		}
		c = NewUpdateDRep(cred, url, hash)
	default:
		return nil, cbor.DecodingFailed("certificate.kind", errUnknownCertKind)
	}
	c.cache.Capture(r.EndCapture(tok))
	return c, nil
}

func arrayLenFor(kind Kind) int {
	switch kind {
	case KindStakeRegistration, KindStakeDeregistration, KindPoolRegistration:
		return 2
	case KindStakeDelegation, KindPoolRetirement, KindRegistration, KindUnregistration,
		KindVoteDelegation, KindAuthCommitteeHot, KindResignCommitteeCold, KindUnregisterDRep, KindUpdateDRep:
		return 3
	case KindStakeVoteDelegation, KindStakeRegistrationDelegation, KindVoteRegistrationDelegation, KindRegisterDRep:
		return 4
	case KindStakeVoteRegistrationDelegation:
		return 5
	default:
		return 0
	}
}

// ToCBOR encodes c in its [kind, ...fields] array form, replaying cached
// bytes when valid.
func ToCBOR(c *Certificate, w *cbor.Writer) {
	if c.cache.WriteIfValid(w) {
		return
	}
	w.WriteStartArray(arrayLenFor(c.kind))
	w.WriteU64(uint64(c.kind))
	switch c.kind {
	case KindStakeRegistration, KindStakeDeregistration:
		credential.ToCBOR(c.stakeCredential, w)
	case KindStakeDelegation:
		credential.ToCBOR(c.stakeCredential, w)
		blakehash.ToCBOR(c.poolKeyHash, w)
	case KindPoolRegistration:
		pool.ToCBOR(c.poolParams, w)
	case KindPoolRetirement:
		blakehash.ToCBOR(c.poolKeyHash, w)
		w.WriteU64(c.epoch)
	case KindRegistration, KindUnregistration:
		credential.ToCBOR(c.stakeCredential, w)
		bigint.ToCBOR(c.deposit, w)
	case KindVoteDelegation:
		credential.ToCBOR(c.stakeCredential, w)
		credential.DRepToCBOR(c.drep, w)
	case KindStakeVoteDelegation:
		credential.ToCBOR(c.stakeCredential, w)
		blakehash.ToCBOR(c.poolKeyHash, w)
		credential.DRepToCBOR(c.drep, w)
	case KindStakeRegistrationDelegation:
		credential.ToCBOR(c.stakeCredential, w)
		blakehash.ToCBOR(c.poolKeyHash, w)
		bigint.ToCBOR(c.deposit, w)
	case KindVoteRegistrationDelegation:
		credential.ToCBOR(c.stakeCredential, w)
		credential.DRepToCBOR(c.drep, w)
		bigint.ToCBOR(c.deposit, w)
	case KindStakeVoteRegistrationDelegation:
		credential.ToCBOR(c.stakeCredential, w)
		blakehash.ToCBOR(c.poolKeyHash, w)
		credential.DRepToCBOR(c.drep, w)
		bigint.ToCBOR(c.deposit, w)
	case KindAuthCommitteeHot:
		credential.ToCBOR(c.coldCredential, w)
		credential.ToCBOR(c.hotCredential, w)
	case KindResignCommitteeCold:
		credential.ToCBOR(c.coldCredential, w)
		writeOptionalAnchor(w, c.anchorURL, c.anchorDataHash)
	case KindRegisterDRep:
		credential.ToCBOR(c.stakeCredential, w)
		bigint.ToCBOR(c.deposit, w)
		writeOptionalAnchor(w, c.anchorURL, c.anchorDataHash)
	case KindUnregisterDRep:
		credential.ToCBOR(c.stakeCredential, w)
		bigint.ToCBOR(c.deposit, w)
	case KindUpdateDRep:
		credential.ToCBOR(c.stakeCredential, w)
		writeOptionalAnchor(w, c.anchorURL, c.anchorDataHash)
	}
}

// Equal reports deep structural equality between two Certificates.
func Equal(a, b *Certificate) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.kind != b.kind {
		return false
	}
	if !credential.Equal(a.stakeCredential, b.stakeCredential) {
		return false
	}
	if !credential.Equal(a.coldCredential, b.coldCredential) || !credential.Equal(a.hotCredential, b.hotCredential) {
		return false
	}
	if (a.poolKeyHash == nil) != (b.poolKeyHash == nil) {
		return false
	}
	if a.poolKeyHash != nil && !blakehash.Equal(a.poolKeyHash, b.poolKeyHash) {
		return false
	}
	if (a.deposit == nil) != (b.deposit == nil) {
		return false
	}
	if a.deposit != nil && a.deposit.Cmp(b.deposit) != 0 {
		return false
	}
	if a.epoch != b.epoch || a.anchorURL != b.anchorURL {
		return false
	}
	if (a.anchorDataHash == nil) != (b.anchorDataHash == nil) {
		return false
	}
	if a.anchorDataHash != nil && !blakehash.Equal(a.anchorDataHash, b.anchorDataHash) {
		return false
	}
	if (a.poolParams == nil) != (b.poolParams == nil) {
		return false
	}
	if a.poolParams != nil && !pool.Equal(a.poolParams, b.poolParams) {
		return false
	}
	if (a.drep == nil) != (b.drep == nil) {
		return false
	}
	if a.drep != nil && !credential.DRepEqual(a.drep, b.drep) {
		return false
	}
	return true
}
