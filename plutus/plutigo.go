package plutus

import (
	"fmt"

	"github.com/blinklabs-io/plutigo/data"

	"github.com/cardano-go-sdk/ledger/bigint"
)

// ToPlutigo converts d into the github.com/blinklabs-io/plutigo/data tree
// consumed by the UPLC evaluator, for scripts run through plutigo directly
// rather than through this package's own CBOR codec.
func (d *PlutusData) ToPlutigo() data.PlutusData {
	switch d.kind {
	case KindConstr:
		fields := make([]data.PlutusData, len(d.fields))
		for i, f := range d.fields {
			fields[i] = f.ToPlutigo()
		}
		return data.NewConstr(uint(d.constrTag), fields...)
	case KindMap:
		pairs := make([][2]data.PlutusData, len(d.pairs))
		for i, p := range d.pairs {
			pairs[i] = [2]data.PlutusData{p.Key.ToPlutigo(), p.Value.ToPlutigo()}
		}
		return data.NewMap(pairs)
	case KindList:
		items := make([]data.PlutusData, len(d.items))
		for i, it := range d.items {
			items[i] = it.ToPlutigo()
		}
		return data.NewList(items...)
	case KindInteger:
		return data.NewInteger(d.integer.Big())
	case KindByteString:
		return data.NewByteString(d.bytes)
	default:
		panic(fmt.Sprintf("plutus: unknown DataKind %d", d.kind))
	}
}

// ToPlutusData implements plutusencoder.PlutusMarshaler, so a struct field
// of type *PlutusData is marshaled by plutusencoder.MarshalPlutus through
// this package's own codec instead of being reflected field-by-field (its
// fields are unexported and couldn't be reflected into anyway).
func (d *PlutusData) ToPlutusData() (data.PlutusData, error) {
	return d.ToPlutigo(), nil
}

// FromPlutusData implements plutusencoder.PlutusMarshaler. res must be a
// *PlutusData; it is overwritten with the decoded value.
func (d *PlutusData) FromPlutusData(pd data.PlutusData, res any) error {
	decoded, err := FromPlutigo(pd)
	if err != nil {
		return err
	}
	out, ok := res.(*PlutusData)
	if !ok {
		return fmt.Errorf("plutus: FromPlutusData requires *PlutusData, got %T", res)
	}
	*out = *decoded
	return nil
}

// FromPlutigo converts a github.com/blinklabs-io/plutigo/data value back
// into this package's PlutusData tree.
func FromPlutigo(pd data.PlutusData) (*PlutusData, error) {
	switch v := pd.(type) {
	case *data.Constr:
		fields := make([]*PlutusData, len(v.Fields))
		for i, f := range v.Fields {
			fd, err := FromPlutigo(f)
			if err != nil {
				return nil, err
			}
			fields[i] = fd
		}
		return NewConstr(uint64(v.Tag), fields), nil
	case *data.Map:
		pairs := make([]KV, len(v.Pairs))
		for i, p := range v.Pairs {
			k, err := FromPlutigo(p[0])
			if err != nil {
				return nil, err
			}
			val, err := FromPlutigo(p[1])
			if err != nil {
				return nil, err
			}
			pairs[i] = KV{Key: k, Value: val}
		}
		return NewMap(pairs), nil
	case *data.List:
		items := make([]*PlutusData, len(v.Items))
		for i, it := range v.Items {
			id, err := FromPlutigo(it)
			if err != nil {
				return nil, err
			}
			items[i] = id
		}
		return NewList(items), nil
	case *data.Integer:
		return NewInteger(bigint.FromBig(v.Inner)), nil
	case *data.ByteString:
		return NewByteString(v.Inner), nil
	default:
		return nil, fmt.Errorf("plutus: unsupported plutigo PlutusData type %T", pd)
	}
}
