// Package jsonmirror implements the JSON tagged-union mirror from
// spec.md §4.5: address metadata and other off-chain forms that
// ledger-adjacent tools emit as JSON, independent of the CBOR codec
// (neither produces the other). Delegates parsing/serialization to
// encoding/json, matching the teacher's own use of encoding/json for
// MultiAsset's MarshalJSON in the referenced gouroboros ledger/common
// code and Address.MarshalJSON there.
package jsonmirror

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"sort"
)

// Kind discriminates the Value sum type.
type Kind int

const (
	KindNull Kind = iota
	KindBoolean
	KindNumber
	KindString
	KindArray
	KindObject
)

// Value is a tagged-union JSON value. Numbers are arbitrary-precision via
// math/big.Rat-free big.Int/big.Float never required for Cardano's
// integer-only financial metadata, so Number is backed by *big.Int when it
// parses as an integer, falling back to float64 for non-integral JSON
// numbers the metadata format permits.
type Value struct {
	kind    Kind
	boolean bool
	intNum  *big.Int
	floatNum float64
	isFloat bool
	str     string
	arr     []*Value
	obj     map[string]*Value
	keys    []string // insertion order, mirrors container.OrderedList's contract
}

func Null() *Value                 { return &Value{kind: KindNull} }
func Bool(b bool) *Value           { return &Value{kind: KindBoolean, boolean: b} }
func String(s string) *Value       { return &Value{kind: KindString, str: s} }
func Int(n *big.Int) *Value        { return &Value{kind: KindNumber, intNum: new(big.Int).Set(n)} }
func Float(f float64) *Value       { return &Value{kind: KindNumber, floatNum: f, isFloat: true} }
func Array(items ...*Value) *Value { return &Value{kind: KindArray, arr: items} }

// Object constructs an empty JSON object; use Set to populate it in
// insertion order.
func Object() *Value {
	return &Value{kind: KindObject, obj: map[string]*Value{}}
}

func (v *Value) Kind() Kind { return v.kind }

// Set inserts or overwrites a key in an object Value, preserving insertion
// order for first-time keys.
func (v *Value) Set(key string, child *Value) {
	if _, exists := v.obj[key]; !exists {
		v.keys = append(v.keys, key)
	}
	v.obj[key] = child
}

// Get returns the child at key, or nil if absent or v is not an object.
func (v *Value) Get(key string) *Value {
	if v.kind != KindObject {
		return nil
	}
	return v.obj[key]
}

// Keys returns an object's keys in insertion order.
func (v *Value) Keys() []string { return v.keys }

// Items returns an array's elements.
func (v *Value) Items() []*Value { return v.arr }

// AsString returns the string payload and whether v is a string.
func (v *Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// AsBool returns the boolean payload and whether v is a boolean.
func (v *Value) AsBool() (bool, bool) {
	if v.kind != KindBoolean {
		return false, false
	}
	return v.boolean, true
}

// AsBigInt returns the integer payload and whether v is an integral number.
func (v *Value) AsBigInt() (*big.Int, bool) {
	if v.kind != KindNumber || v.isFloat {
		return nil, false
	}
	return v.intNum, true
}

// Parse decodes a JSON document into a Value tree, using
// arbitrary-precision integers for integral numbers. Object keys are
// sorted lexicographically on decode since encoding/json's map-based
// decoding does not preserve source order; objects built programmatically
// via Set preserve the order they were inserted in.
func Parse(data []byte) (*Value, error) {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("jsonmirror: %w", err)
	}
	return fromAny(raw), nil
}

// Serialize renders v as compact JSON text, preserving object key order.
func Serialize(v *Value) ([]byte, error) {
	return serializeValue(v)
}

func fromAny(raw any) *Value {
	switch t := raw.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(t)
	case json.Number:
		if n, ok := new(big.Int).SetString(t.String(), 10); ok {
			return Int(n)
		}
		f, _ := t.Float64()
		return Float(f)
	case string:
		return String(t)
	case []any:
		items := make([]*Value, len(t))
		for i, e := range t {
			items[i] = fromAny(e)
		}
		return Array(items...)
	case map[string]any:
		obj := Object()
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys) // encoding/json does not preserve source key order
		for _, k := range keys {
			obj.Set(k, fromAny(t[k]))
		}
		return obj
	default:
		return Null()
	}
}

func serializeValue(v *Value) ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBoolean:
		return json.Marshal(v.boolean)
	case KindNumber:
		if v.isFloat {
			return json.Marshal(v.floatNum)
		}
		return []byte(v.intNum.String()), nil
	case KindString:
		return json.Marshal(v.str)
	case KindArray:
		out := []byte("[")
		for i, e := range v.arr {
			if i > 0 {
				out = append(out, ',')
			}
			b, err := serializeValue(e)
			if err != nil {
				return nil, err
			}
			out = append(out, b...)
		}
		return append(out, ']'), nil
	case KindObject:
		out := []byte("{")
		for i, k := range v.keys {
			if i > 0 {
				out = append(out, ',')
			}
			kb, _ := json.Marshal(k)
			out = append(out, kb...)
			out = append(out, ':')
			b, err := serializeValue(v.obj[k])
			if err != nil {
				return nil, err
			}
			out = append(out, b...)
		}
		return append(out, '}'), nil
	default:
		return nil, fmt.Errorf("jsonmirror: unknown kind %d", v.kind)
	}
}
