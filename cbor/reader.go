package cbor

import (
	"math/big"
	"unicode/utf8"
)

// Reader is a forward-only cursor over an immutable byte slice. It never
// copies the input; captured byte ranges are sub-slices of the original
// buffer and remain valid for the Reader's lifetime (and beyond, since Go
// slices keep the backing array alive).
type Reader struct {
	buf       []byte
	pos       int
	lastError string
	captures  []int
}

// FromBytes constructs a Reader over buf. buf is not copied.
func FromBytes(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// LastError returns the human-readable message from the most recent
// failed operation, or "" if none has occurred.
func (r *Reader) LastError() string { return r.lastError }

func (r *Reader) fail(err *Error) *Error {
	r.lastError = err.Error()
	return err
}

// Position returns the current byte offset into the original input.
func (r *Reader) Position() int { return r.pos }

// Remaining returns the number of unconsumed bytes.
func (r *Reader) Remaining() int { return len(r.buf) - r.pos }

// Peek reports the state of the next token without consuming it.
func (r *Reader) Peek() (State, error) {
	if r.pos >= len(r.buf) {
		return StateEndOfData, nil
	}
	h, err := decodeHead(r.buf, r.pos)
	if err != nil {
		return StateEndOfData, r.fail(err)
	}
	return stateForHead(h), nil
}

func (r *Reader) peekHead() (head, *Error) {
	if r.pos >= len(r.buf) {
		return head{}, errTruncated()
	}
	return decodeHead(r.buf, r.pos)
}

func (r *Reader) expectMajor(major byte, expected State) (head, *Error) {
	h, err := r.peekHead()
	if err != nil {
		return head{}, r.fail(err)
	}
	if h.major != major {
		return head{}, r.fail(errUnexpectedType(expected, stateForHead(h)))
	}
	return h, nil
}

// ReadU64 reads an unsigned integer (major type 0).
func (r *Reader) ReadU64() (uint64, error) {
	h, err := r.expectMajor(majorUnsignedInt, StateUnsignedInt)
	if err != nil {
		return 0, err
	}
	r.pos += h.size
	return h.arg, nil
}

// ReadI64 reads a signed integer, accepting either major type 0 or 1.
func (r *Reader) ReadI64() (int64, error) {
	h, perr := r.peekHead()
	if perr != nil {
		return 0, r.fail(perr)
	}
	switch h.major {
	case majorUnsignedInt:
		if h.arg > 1<<63-1 {
			return 0, r.fail(errIntegerOverflow("unsigned value exceeds int64 range"))
		}
		r.pos += h.size
		return int64(h.arg), nil
	case majorNegativeInt:
		if h.arg > 1<<63-1 {
			return 0, r.fail(errIntegerOverflow("negative value exceeds int64 range"))
		}
		r.pos += h.size
		return -1 - int64(h.arg), nil
	default:
		return 0, r.fail(errUnexpectedType(StateUnsignedInt, stateForHead(h)))
	}
}

// ReadBigInt reads an arbitrary-precision integer. It accepts a plain
// major-0/1 integer or a tagged bignum (tag 2 positive / tag 3 negative).
func (r *Reader) ReadBigInt() (*big.Int, error) {
	h, perr := r.peekHead()
	if perr != nil {
		return nil, r.fail(perr)
	}
	if h.major == majorTag {
		tag := h.arg
		if tag != TagPositiveBignum && tag != TagNegativeBignum {
			return nil, r.fail(errInvalidTag(tag))
		}
		r.pos += h.size
		raw, err := r.ReadBytes()
		if err != nil {
			return nil, err
		}
		mag := new(big.Int).SetBytes(raw)
		if tag == TagNegativeBignum {
			mag.Add(mag, big.NewInt(1))
			mag.Neg(mag)
		}
		return mag, nil
	}
	switch h.major {
	case majorUnsignedInt:
		r.pos += h.size
		return new(big.Int).SetUint64(h.arg), nil
	case majorNegativeInt:
		r.pos += h.size
		n := new(big.Int).SetUint64(h.arg)
		n.Add(n, big.NewInt(1))
		n.Neg(n)
		return n, nil
	default:
		return nil, r.fail(errUnexpectedType(StateUnsignedInt, stateForHead(h)))
	}
}

// ReadBytes reads a byte string, transparently concatenating chunks of an
// indefinite-length byte string.
func (r *Reader) ReadBytes() ([]byte, error) {
	h, err := r.expectMajor(majorByteString, StateByteString)
	if err != nil {
		return nil, err
	}
	if h.info == infoIndefinite {
		r.pos += h.size
		var out []byte
		for {
			st, perr := r.Peek()
			if perr != nil {
				return nil, perr
			}
			if st == StateBreak {
				r.pos++
				return out, nil
			}
			chunk, cerr := r.ReadBytes()
			if cerr != nil {
				return nil, cerr
			}
			out = append(out, chunk...)
		}
	}
	start := r.pos + h.size
	end := start + int(h.arg)
	if end > len(r.buf) || end < start {
		return nil, r.fail(errTruncated())
	}
	r.pos = end
	return r.buf[start:end], nil
}

// ReadText reads a UTF-8 text string, concatenating indefinite-length chunks.
func (r *Reader) ReadText() (string, error) {
	h, err := r.expectMajor(majorTextString, StateTextString)
	if err != nil {
		return "", err
	}
	if h.info == infoIndefinite {
		r.pos += h.size
		var out []byte
		for {
			st, perr := r.Peek()
			if perr != nil {
				return "", perr
			}
			if st == StateBreak {
				r.pos++
				break
			}
			chunk, cerr := r.ReadText()
			if cerr != nil {
				return "", cerr
			}
			out = append(out, chunk...)
		}
		return string(out), nil
	}
	start := r.pos + h.size
	end := start + int(h.arg)
	if end > len(r.buf) || end < start {
		return "", r.fail(errTruncated())
	}
	if !utf8.Valid(r.buf[start:end]) {
		return "", r.fail(errInvalidUtf8())
	}
	r.pos = end
	return string(r.buf[start:end]), nil
}

// ReadTag reads a tag number (major type 6) without consuming the tagged value.
func (r *Reader) ReadTag() (uint64, error) {
	h, err := r.expectMajor(majorTag, StateTag)
	if err != nil {
		return 0, err
	}
	r.pos += h.size
	return h.arg, nil
}

// PeekTag reports whether the next token is a tag with the given number,
// without consuming anything.
func (r *Reader) PeekTag(tag uint64) (bool, error) {
	h, perr := r.peekHead()
	if perr != nil {
		if perr.Kind == ErrTruncated {
			return false, nil
		}
		return false, r.fail(perr)
	}
	return h.major == majorTag && h.arg == tag, nil
}

// ArrayExpectation constrains the length-form accepted by ReadStartArray/ReadStartMap.
type ArrayExpectation int

const (
	ExpectDefinite ArrayExpectation = iota
	ExpectIndefinite
	ExpectEither
)

// ReadStartArray consumes an array head and returns its declared length,
// or Indefinite (-1) plus indefinite=true for indefinite-length arrays.
func (r *Reader) ReadStartArray(expect ArrayExpectation) (length int, indefinite bool, err error) {
	h, perr := r.expectMajor(majorArray, StateArray)
	if perr != nil {
		return 0, false, perr
	}
	if h.info == infoIndefinite {
		if expect == ExpectDefinite {
			return 0, false, r.fail(errInvalidArraySize(-2, Indefinite))
		}
		r.pos += h.size
		return Indefinite, true, nil
	}
	if expect == ExpectIndefinite {
		return 0, false, r.fail(errInvalidArraySize(Indefinite, int(h.arg)))
	}
	if h.arg > 1<<31 {
		return 0, false, r.fail(errIntegerOverflow("array length overflow"))
	}
	r.pos += h.size
	return int(h.arg), false, nil
}

// ReadEndArray consumes the break byte terminating an indefinite-length array.
func (r *Reader) ReadEndArray() error {
	return r.readBreak()
}

// ReadStartMap consumes a map head and returns its declared key-value pair count.
func (r *Reader) ReadStartMap(expect ArrayExpectation) (length int, indefinite bool, err error) {
	h, perr := r.expectMajor(majorMap, StateMap)
	if perr != nil {
		return 0, false, perr
	}
	if h.info == infoIndefinite {
		if expect == ExpectDefinite {
			return 0, false, r.fail(errInvalidArraySize(-2, Indefinite))
		}
		r.pos += h.size
		return Indefinite, true, nil
	}
	if expect == ExpectIndefinite {
		return 0, false, r.fail(errInvalidArraySize(Indefinite, int(h.arg)))
	}
	if h.arg > 1<<31 {
		return 0, false, r.fail(errIntegerOverflow("map length overflow"))
	}
	r.pos += h.size
	return int(h.arg), false, nil
}

// ReadEndMap consumes the break byte terminating an indefinite-length map.
func (r *Reader) ReadEndMap() error {
	return r.readBreak()
}

func (r *Reader) readBreak() error {
	h, perr := r.peekHead()
	if perr != nil {
		return r.fail(perr)
	}
	if stateForHead(h) != StateBreak {
		return r.fail(errUnexpectedType(StateBreak, stateForHead(h)))
	}
	r.pos += h.size
	return nil
}

// AtBreak reports whether the next token is the indefinite-length stop code.
func (r *Reader) AtBreak() bool {
	st, err := r.Peek()
	return err == nil && st == StateBreak
}

// ReadSimple reads a simple value (major type 7, excluding floats/break) and
// returns its numeric code.
func (r *Reader) ReadSimple() (uint8, error) {
	h, err := r.expectMajor(majorSimple, StateSimpleValue)
	if err != nil {
		return 0, err
	}
	r.pos += h.size
	return uint8(h.arg), nil
}

// ReadBool reads a CBOR boolean (simple values 20/21).
func (r *Reader) ReadBool() (bool, error) {
	v, err := r.ReadSimple()
	if err != nil {
		return false, err
	}
	switch v {
	case simpleFalse:
		return false, nil
	case simpleTrue:
		return true, nil
	default:
		return false, r.fail(errInvalidCbor("expected boolean simple value"))
	}
}

// ReadNull consumes a CBOR null (simple value 22).
func (r *Reader) ReadNull() error {
	v, err := r.ReadSimple()
	if err != nil {
		return err
	}
	if v != simpleNull {
		return r.fail(errInvalidCbor("expected null simple value"))
	}
	return nil
}

// PeekNull reports whether the next token is a CBOR null, without
// consuming it. Used by entity codecs to distinguish a present optional
// field from one encoded as null.
func (r *Reader) PeekNull() (bool, error) {
	h, err := r.peekHead()
	if err != nil {
		return false, r.fail(err)
	}
	return h.major == majorSimple && h.arg == simpleNull, nil
}

// ReadTaggedCBORBytes reads a CBOR tag-24 "encoded CBOR data item": a byte
// string whose contents are themselves a nested CBOR-encoded value. Used
// for inline datums and reference scripts, which the Babbage/Conway CDDL
// wraps this way instead of embedding them directly.
func (r *Reader) ReadTaggedCBORBytes() ([]byte, error) {
	tag, err := r.ReadTag()
	if err != nil {
		return nil, err
	}
	if tag != TagEncodedCBOR {
		return nil, r.fail(errInvalidTag(tag))
	}
	return r.ReadBytes()
}

// CaptureToken identifies an in-flight byte-range capture started by BeginCapture.
type CaptureToken int

// BeginCapture marks the current position as the start of a byte range to
// be captured. Captures may nest arbitrarily; each token is independent.
func (r *Reader) BeginCapture() CaptureToken {
	r.captures = append(r.captures, r.pos)
	return CaptureToken(len(r.captures) - 1)
}

// EndCapture returns the exact bytes consumed between the matching
// BeginCapture call and now. The returned slice aliases the Reader's input.
func (r *Reader) EndCapture(t CaptureToken) []byte {
	start := r.captures[t]
	return r.buf[start:r.pos]
}
