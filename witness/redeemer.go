package witness

import (
	"github.com/cardano-go-sdk/ledger/cbor"
	"github.com/cardano-go-sdk/ledger/cerr"
	"github.com/cardano-go-sdk/ledger/plutus"
)

// RedeemerTag identifies which part of the transaction a Redeemer
// authorizes Plutus script execution for.
type RedeemerTag int

const (
	RedeemerSpend RedeemerTag = iota
	RedeemerMint
	RedeemerCert
	RedeemerReward
	RedeemerVoting
	RedeemerProposing
)

// ExUnits is the execution budget attached to a Redeemer.
type ExUnits struct {
	Memory uint64
	Steps  uint64
}

// Redeemer supplies the argument and execution budget for one Plutus
// script invocation.
type Redeemer struct {
	tag     RedeemerTag
	index   uint64
	data    *plutus.PlutusData
	exUnits ExUnits
}

// NewRedeemer constructs a Redeemer.
func NewRedeemer(tag RedeemerTag, index uint64, data *plutus.PlutusData, exUnits ExUnits) (*Redeemer, error) {
	if data == nil {
		return nil, cerr.New(cerr.InvalidArgument, "redeemer requires non-nil plutus data")
	}
	return &Redeemer{tag: tag, index: index, data: data, exUnits: exUnits}, nil
}

func (r *Redeemer) Tag() RedeemerTag        { return r.tag }
func (r *Redeemer) Index() uint64           { return r.index }
func (r *Redeemer) Data() *plutus.PlutusData { return r.data }
func (r *Redeemer) ExUnits() ExUnits        { return r.exUnits }

// RedeemerFromCBOR decodes a Redeemer from its
// [tag, index, data, ex_units] array form.
func RedeemerFromCBOR(r *cbor.Reader) (*Redeemer, error) {
	n, _, err := r.ReadStartArray(cbor.ExpectDefinite)
	if err != nil {
		return nil, err
	}
	if n != 4 {
		return nil, cbor.DecodingFailed("redeemer", cerr.Newf(cerr.InvalidCborArraySize, "expected array of 4, got %d", n))
	}
	tag, terr := r.ReadU64()
	if terr != nil {
		return nil, cbor.DecodingFailed("redeemer.tag", terr)
	}
	index, ierr := r.ReadU64()
	if ierr != nil {
		return nil, cbor.DecodingFailed("redeemer.index", ierr)
	}
	data, derr := plutus.FromCBOR(r)
	if derr != nil {
		return nil, cbor.DecodingFailed("redeemer.data", derr)
	}
	mem, steps, eerr := exUnitsFromCBOR(r)
	if eerr != nil {
		return nil, eerr
	}
	return NewRedeemer(RedeemerTag(tag), index, data, ExUnits{Memory: mem, Steps: steps})
}

func exUnitsFromCBOR(r *cbor.Reader) (uint64, uint64, error) {
	n, _, err := r.ReadStartArray(cbor.ExpectDefinite)
	if err != nil {
		return 0, 0, err
	}
	if n != 2 {
		return 0, 0, cbor.DecodingFailed("ex_units", cerr.Newf(cerr.InvalidCborArraySize, "expected array of 2, got %d", n))
	}
	mem, merr := r.ReadU64()
	if merr != nil {
		return 0, 0, cbor.DecodingFailed("ex_units.mem", merr)
	}
	steps, serr := r.ReadU64()
	if serr != nil {
		return 0, 0, cbor.DecodingFailed("ex_units.steps", serr)
	}
	return mem, steps, nil
}

// RedeemerToCBOR encodes rd as [tag, index, data, ex_units].
func RedeemerToCBOR(rd *Redeemer, w *cbor.Writer) {
	w.WriteStartArray(4)
	w.WriteU64(uint64(rd.tag))
	w.WriteU64(rd.index)
	plutus.ToCBOR(rd.data, w)
	w.WriteStartArray(2)
	w.WriteU64(rd.exUnits.Memory)
	w.WriteU64(rd.exUnits.Steps)
}
