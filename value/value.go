// Package value implements Value and MultiAsset (spec.md §3 "Transaction
// primitives"): Value{coin, assets} where MultiAsset is a map of PolicyId
// → (map AssetName → i64) with lexicographic key order. Mirrors the shape
// of apollo's own Value/MultiAsset machinery in helpers.go/models.go, but
// keeps its own policy/asset entries sorted on insert instead of relying
// on map iteration order, so CBOR re-encoding is deterministic without a
// runtime sort pass.
package value

import (
	"bytes"

	"github.com/cardano-go-sdk/ledger/cache"
	"github.com/cardano-go-sdk/ledger/cbor"
	"github.com/cardano-go-sdk/ledger/cerr"
	"github.com/cardano-go-sdk/ledger/crypto/blakehash"
)

// assetEntry is one AssetName → quantity pair within a policy's assets.
type assetEntry struct {
	name   []byte
	amount int64
}

// PolicyAssets is one PolicyId → assets entry within a MultiAsset.
type PolicyAssets struct {
	policyID *blakehash.BlakeHash
	assets   []assetEntry
}

// PolicyID returns the policy's hash.
func (p *PolicyAssets) PolicyID() *blakehash.BlakeHash { return p.policyID }

// Asset returns the quantity of name under this policy and whether it is present.
func (p *PolicyAssets) Asset(name []byte) (int64, bool) {
	for _, e := range p.assets {
		if bytes.Equal(e.name, name) {
			return e.amount, true
		}
	}
	return 0, false
}

// Assets returns the policy's asset entries in lexicographic name order.
func (p *PolicyAssets) Assets() []struct {
	Name     []byte
	Quantity int64
} {
	out := make([]struct {
		Name     []byte
		Quantity int64
	}, len(p.assets))
	for i, e := range p.assets {
		out[i].Name = e.name
		out[i].Quantity = e.amount
	}
	return out
}

// MultiAsset is a PolicyId → (AssetName → quantity) map kept in
// lexicographic key order at both levels (spec.md §3).
type MultiAsset struct {
	policies []*PolicyAssets
}

// NewMultiAsset constructs an empty MultiAsset.
func NewMultiAsset() *MultiAsset { return &MultiAsset{} }

// Set inserts or overwrites the quantity of (policyID, name), keeping
// policies and assets sorted for deterministic encoding.
func (m *MultiAsset) Set(policyID *blakehash.BlakeHash, name []byte, amount int64) {
	idx, found := m.findPolicy(policyID)
	if !found {
		pa := &PolicyAssets{policyID: policyID}
		m.policies = append(m.policies, nil)
		copy(m.policies[idx+1:], m.policies[idx:])
		m.policies[idx] = pa
	}
	pa := m.policies[idx]
	ai, afound := 0, false
	for i, e := range pa.assets {
		if bytes.Equal(e.name, name) {
			ai, afound = i, true
			break
		}
		if bytes.Compare(name, e.name) < 0 {
			ai = i
			break
		}
		ai = i + 1
	}
	if afound {
		pa.assets[ai].amount = amount
		return
	}
	pa.assets = append(pa.assets, assetEntry{})
	copy(pa.assets[ai+1:], pa.assets[ai:])
	pa.assets[ai] = assetEntry{name: name, amount: amount}
}

func (m *MultiAsset) findPolicy(policyID *blakehash.BlakeHash) (int, bool) {
	for i, pa := range m.policies {
		c := blakehash.Compare(pa.policyID, policyID)
		if c == 0 {
			return i, true
		}
		if c > 0 {
			return i, false
		}
	}
	return len(m.policies), false
}

// Policies returns the policy entries in lexicographic policy-id order.
func (m *MultiAsset) Policies() []*PolicyAssets { return m.policies }

// Len reports the number of distinct policies.
func (m *MultiAsset) Len() int { return len(m.policies) }

func fromCBORMultiAsset(r *cbor.Reader) (*MultiAsset, error) {
	n, indefinite, err := r.ReadStartMap(cbor.ExpectEither)
	if err != nil {
		return nil, err
	}
	m := NewMultiAsset()
	readEntries := func() error {
		policyHash, herr := blakehash.FromCBOR(r, blakehash.Size224)
		if herr != nil {
			return cbor.DecodingFailed("multi_asset.policy_id", herr)
		}
		an, aindef, aerr := r.ReadStartMap(cbor.ExpectEither)
		if aerr != nil {
			return aerr
		}
		readAsset := func() error {
			name, nerr := r.ReadBytes()
			if nerr != nil {
				return cbor.DecodingFailed("multi_asset.asset_name", nerr)
			}
			qty, qerr := r.ReadI64()
			if qerr != nil {
				return cbor.DecodingFailed("multi_asset.quantity", qerr)
			}
			m.Set(policyHash, name, qty)
			return nil
		}
		if aindef {
			for !r.AtBreak() {
				if err := readAsset(); err != nil {
					return err
				}
			}
			return r.ReadEndMap()
		}
		for i := 0; i < an; i++ {
			if err := readAsset(); err != nil {
				return err
			}
		}
		return nil
	}
	if indefinite {
		for !r.AtBreak() {
			if err := readEntries(); err != nil {
				return nil, err
			}
		}
		if err := r.ReadEndMap(); err != nil {
			return nil, err
		}
		return m, nil
	}
	for i := 0; i < n; i++ {
		if err := readEntries(); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func toCBORMultiAsset(m *MultiAsset, w *cbor.Writer) {
	w.WriteStartMap(len(m.policies))
	for _, pa := range m.policies {
		blakehash.ToCBOR(pa.policyID, w)
		w.WriteStartMap(len(pa.assets))
		for _, a := range pa.assets {
			w.WriteBytes(a.name)
			w.WriteI64(a.amount)
		}
	}
}

// Value is a transaction output/input amount: a lovelace quantity plus an
// optional multi-asset bundle (spec.md §3).
type Value struct {
	coin   uint64
	assets *MultiAsset
	cache  cache.Cache
}

// NewCoin constructs an ADA-only Value.
func NewCoin(coin uint64) *Value {
	return &Value{coin: coin}
}

// New constructs a Value carrying both lovelace and a multi-asset bundle.
func New(coin uint64, assets *MultiAsset) *Value {
	return &Value{coin: coin, assets: assets}
}

// Coin returns the lovelace quantity.
func (v *Value) Coin() uint64 { return v.coin }

// Assets returns the multi-asset bundle, or nil if ADA-only.
func (v *Value) Assets() *MultiAsset { return v.assets }

// ClearCBORCache forces the next ToCBOR call to re-encode canonically.
func (v *Value) ClearCBORCache() { v.cache.Clear() }

// FromCBOR decodes a Value, accepting either a bare coin integer or the
// [coin, multiasset] array form.
func FromCBOR(r *cbor.Reader) (*Value, error) {
	tok := r.BeginCapture()
	st, err := r.Peek()
	if err != nil {
		return nil, err
	}
	var v *Value
	switch st {
	case cbor.StateUnsignedInt:
		coin, cerr2 := r.ReadU64()
		if cerr2 != nil {
			return nil, cbor.DecodingFailed("value.coin", cerr2)
		}
		v = NewCoin(coin)
	case cbor.StateArray:
		n, _, aerr := r.ReadStartArray(cbor.ExpectDefinite)
		if aerr != nil {
			return nil, aerr
		}
		if n != 2 {
			return nil, cbor.DecodingFailed("value", cerr.Newf(cerr.InvalidCborArraySize, "expected array of 2, got %d", n))
		}
		coin, cerr2 := r.ReadU64()
		if cerr2 != nil {
			return nil, cbor.DecodingFailed("value.coin", cerr2)
		}
		assets, merr := fromCBORMultiAsset(r)
		if merr != nil {
			return nil, merr
		}
		v = New(coin, assets)
	default:
		return nil, cbor.DecodingFailed("value", cerr.New(cerr.UnexpectedCborType, "expected integer or array"))
	}
	v.cache.Capture(r.EndCapture(tok))
	return v, nil
}

// ToCBOR encodes v, replaying the original bytes when the cache is valid.
func ToCBOR(v *Value, w *cbor.Writer) {
	if v.cache.WriteIfValid(w) {
		return
	}
	if v.assets == nil || v.assets.Len() == 0 {
		w.WriteU64(v.coin)
		return
	}
	w.WriteStartArray(2)
	w.WriteU64(v.coin)
	toCBORMultiAsset(v.assets, w)
}
