// Package cbor implements the streaming reader/writer pair used to decode
// and encode Cardano's deterministic CBOR dialect. It is a hand-rolled,
// byte-exact codec rather than a struct-tag marshaler: entity packages
// drive it field by field so that decoded-then-re-encoded values can
// reproduce their original byte sequence (see the Reader's capture
// support in reader.go).
package cbor

// State is the shape of the next token in a Reader, as reported by Peek.
// It never advances the cursor.
type State int

const (
	StateUnsignedInt State = iota
	StateNegativeInt
	StateByteString
	StateTextString
	StateArray
	StateMap
	StateTag
	StateSimpleValue
	StateFloat
	StateBreak
	StateEndOfData
)

func (s State) String() string {
	switch s {
	case StateUnsignedInt:
		return "UnsignedInt"
	case StateNegativeInt:
		return "NegativeInt"
	case StateByteString:
		return "ByteString"
	case StateTextString:
		return "TextString"
	case StateArray:
		return "Array"
	case StateMap:
		return "Map"
	case StateTag:
		return "Tag"
	case StateSimpleValue:
		return "SimpleValue"
	case StateFloat:
		return "Float"
	case StateBreak:
		return "Break"
	case StateEndOfData:
		return "EndOfData"
	default:
		return "Unknown"
	}
}

// Indefinite is returned by ReadStartArray/ReadStartMap in place of a
// length when the container uses indefinite-length encoding.
const Indefinite = -1

const (
	majorUnsignedInt byte = 0
	majorNegativeInt byte = 1
	majorByteString  byte = 2
	majorTextString  byte = 3
	majorArray       byte = 4
	majorMap         byte = 5
	majorTag         byte = 6
	majorSimple      byte = 7
)

const (
	simpleFalse     = 20
	simpleTrue      = 21
	simpleNull      = 22
	simpleUndefined = 23
	infoFloat16     = 25
	infoFloat32     = 26
	infoFloat64     = 27
	infoIndefinite  = 31
	breakByte       = 0xFF
)

// Tag numbers relevant to the Cardano data model.
const (
	TagPositiveBignum = 2
	TagNegativeBignum = 3
	TagEncodedCBOR    = 24
	TagSet            = 258
)
