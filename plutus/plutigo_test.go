package plutus

import (
	"testing"

	"github.com/cardano-go-sdk/ledger/bigint"
)

func TestPlutigoRoundTrip(t *testing.T) {
	d := NewConstr(0, []*PlutusData{
		NewInteger(bigint.FromInt64(7)),
		NewByteString([]byte("hello")),
		NewMap([]KV{
			{Key: NewInteger(bigint.FromInt64(1)), Value: NewList([]*PlutusData{NewInteger(bigint.FromInt64(2))})},
		}),
	})

	got, err := FromPlutigo(d.ToPlutigo())
	if err != nil {
		t.Fatalf("FromPlutigo: %v", err)
	}
	if !Equal(d, got) {
		t.Fatalf("plutigo round trip mismatch: got %+v, want %+v", got, d)
	}
}
