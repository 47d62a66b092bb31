// Package txin implements TransactionInput (spec.md §3 "Transaction
// primitives"): a 32-byte transaction id paired with an output index,
// hashable and totally ordered the way a UTxO reference must be to sort
// deterministically inside a transaction body.
package txin

import (
	"github.com/cardano-go-sdk/ledger/cache"
	"github.com/cardano-go-sdk/ledger/cbor"
	"github.com/cardano-go-sdk/ledger/cerr"
	"github.com/cardano-go-sdk/ledger/crypto/blakehash"
)

// TransactionInput references a prior transaction output by id and index.
type TransactionInput struct {
	txID  *blakehash.BlakeHash
	index uint64
	cache cache.Cache
}

// New constructs a TransactionInput. txID must be a 32-byte hash.
func New(txID *blakehash.BlakeHash, index uint64) (*TransactionInput, error) {
	if txID.Size() != int(blakehash.Size256) {
		return nil, cerr.Newf(cerr.InvalidBlake2bHashSize, "transaction id must be 32 bytes, got %d", txID.Size())
	}
	return &TransactionInput{txID: txID, index: index}, nil
}

// TxID returns the referenced transaction's id.
func (in *TransactionInput) TxID() *blakehash.BlakeHash { return in.txID }

// Index returns the referenced output index.
func (in *TransactionInput) Index() uint64 { return in.index }

// ClearCBORCache forces the next ToCBOR call to re-encode canonically.
func (in *TransactionInput) ClearCBORCache() { in.cache.Clear() }

// Equal reports whether a and b reference the same output.
func Equal(a, b *TransactionInput) bool {
	if a == nil || b == nil {
		return a == b
	}
	return blakehash.Equal(a.txID, b.txID) && a.index == b.index
}

// Compare orders inputs by (txID, index): hash dominates (spec.md §8
// Scenario F — changing a hash overrides any index difference).
func Compare(a, b *TransactionInput) int {
	if c := blakehash.Compare(a.txID, b.txID); c != 0 {
		return c
	}
	switch {
	case a.index < b.index:
		return -1
	case a.index > b.index:
		return 1
	default:
		return 0
	}
}

// FromCBOR decodes a TransactionInput from its [txId, index] array form.
func FromCBOR(r *cbor.Reader) (*TransactionInput, error) {
	tok := r.BeginCapture()
	n, _, err := r.ReadStartArray(cbor.ExpectDefinite)
	if err != nil {
		return nil, err
	}
	if n != 2 {
		return nil, cbor.DecodingFailed("transaction_input", cerr.Newf(cerr.InvalidCborArraySize, "expected array of 2, got %d", n))
	}
	txID, err := blakehash.FromCBOR(r, blakehash.Size256)
	if err != nil {
		return nil, cbor.DecodingFailed("transaction_input.tx_id", err)
	}
	index, err := r.ReadU64()
	if err != nil {
		return nil, cbor.DecodingFailed("transaction_input.index", err)
	}
	in, err := New(txID, index)
	if err != nil {
		return nil, err
	}
	in.cache.Capture(r.EndCapture(tok))
	return in, nil
}

// ToCBOR encodes in, replaying the original bytes when the cache is valid.
func ToCBOR(in *TransactionInput, w *cbor.Writer) {
	if in.cache.WriteIfValid(w) {
		return
	}
	w.WriteStartArray(2)
	blakehash.ToCBOR(in.txID, w)
	w.WriteU64(in.index)
}
