package plutusencoder

import (
	"testing"

	"github.com/cardano-go-sdk/ledger/bigint"
	"github.com/cardano-go-sdk/ledger/plutus"
)

// RedeemerWithInlinePlutusData exercises the PlutusMarshaler bridge: the
// Extra field is handed to plutus.PlutusData's own ToPlutusData/
// FromPlutusData methods instead of being reflected field-by-field.
type RedeemerWithInlinePlutusData struct {
	_       struct{} `plutusType:"DefList" plutusConstr:"0"`
	Action  int64    `plutusType:"Int"`
	Extra   *plutus.PlutusData
}

func TestMarshalPlutusDelegatesToPlutusDataBridge(t *testing.T) {
	in := RedeemerWithInlinePlutusData{
		Action: 1,
		Extra: plutus.NewConstr(0, []*plutus.PlutusData{
			plutus.NewInteger(bigint.FromInt64(42)),
			plutus.NewByteString([]byte("datum")),
		}),
	}

	pd, err := MarshalPlutus(&in)
	if err != nil {
		t.Fatalf("MarshalPlutus: %v", err)
	}

	var out RedeemerWithInlinePlutusData
	out.Extra = &plutus.PlutusData{}
	if err := UnmarshalPlutus(pd, &out); err != nil {
		t.Fatalf("UnmarshalPlutus: %v", err)
	}

	if out.Action != in.Action {
		t.Fatalf("Action = %d, want %d", out.Action, in.Action)
	}
	if !plutus.Equal(out.Extra, in.Extra) {
		t.Fatalf("Extra round trip mismatch: got %+v, want %+v", out.Extra, in.Extra)
	}
}
