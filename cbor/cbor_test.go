package cbor

import (
	"bytes"
	"encoding/hex"
	"math/big"
	"testing"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad test hex %q: %v", s, err)
	}
	return b
}

func TestReadWriteU64Shortest(t *testing.T) {
	cases := []struct {
		v    uint64
		want string
	}{
		{0, "00"},
		{23, "17"},
		{24, "1818"},
		{255, "18ff"},
		{256, "190100"},
		{65535, "19ffff"},
		{65536, "1a00010000"},
		{4294967295, "1affffffff"},
		{4294967296, "1b0000000100000000"},
	}
	for _, c := range cases {
		w := New()
		w.WriteU64(c.v)
		if got := w.ToHex(); got != c.want {
			t.Errorf("WriteU64(%d) = %s, want %s", c.v, got, c.want)
		}
		r := FromBytes(mustHex(t, c.want))
		got, err := r.ReadU64()
		if err != nil {
			t.Fatalf("ReadU64(%s): %v", c.want, err)
		}
		if got != c.v {
			t.Errorf("ReadU64(%s) = %d, want %d", c.want, got, c.v)
		}
	}
}

func TestReadWriteI64Negative(t *testing.T) {
	cases := []struct {
		v    int64
		want string
	}{
		{-1, "20"},
		{-10, "29"},
		{-24, "37"},
		{-25, "3818"},
		{-1000, "3903e7"},
	}
	for _, c := range cases {
		w := New()
		w.WriteI64(c.v)
		if got := w.ToHex(); got != c.want {
			t.Errorf("WriteI64(%d) = %s, want %s", c.v, got, c.want)
		}
		r := FromBytes(mustHex(t, c.want))
		got, err := r.ReadI64()
		if err != nil {
			t.Fatalf("ReadI64(%s): %v", c.want, err)
		}
		if got != c.v {
			t.Errorf("ReadI64(%s) = %d, want %d", c.want, got, c.v)
		}
	}
}

func TestBigIntRoundTripSmall(t *testing.T) {
	v := big.NewInt(42)
	w := New()
	w.WriteBigInt(v)
	// Small values use the plain integer encoding, not a tagged bignum.
	if hex.EncodeToString(w.ToBytes()) == "" {
		t.Fatal("expected output")
	}
	r := FromBytes(w.ToBytes())
	got, err := r.ReadBigInt()
	if err != nil {
		t.Fatal(err)
	}
	if got.Cmp(v) != 0 {
		t.Errorf("got %s, want %s", got, v)
	}
}

func TestBigIntRoundTripBignum(t *testing.T) {
	v := new(big.Int)
	v.SetString("18446744073709551616", 10) // 2^64, outside uint64 range
	w := New()
	w.WriteBigInt(v)
	st, _ := FromBytes(w.ToBytes()).Peek()
	if st != StateTag {
		t.Fatalf("expected tagged bignum encoding, got state %s", st)
	}
	r := FromBytes(w.ToBytes())
	got, err := r.ReadBigInt()
	if err != nil {
		t.Fatal(err)
	}
	if got.Cmp(v) != 0 {
		t.Errorf("got %s, want %s", got, v)
	}
}

func TestBigIntRoundTripNegativeBignum(t *testing.T) {
	v := new(big.Int)
	v.SetString("-18446744073709551617", 10) // -(2^64 + 1)
	w := New()
	w.WriteBigInt(v)
	r := FromBytes(w.ToBytes())
	tag, err := r.ReadTag()
	if err != nil {
		t.Fatal(err)
	}
	if tag != TagNegativeBignum {
		t.Fatalf("expected tag 3, got %d", tag)
	}
	r2 := FromBytes(w.ToBytes())
	got, err := r2.ReadBigInt()
	if err != nil {
		t.Fatal(err)
	}
	if got.Cmp(v) != 0 {
		t.Errorf("got %s, want %s", got, v)
	}
}

func TestBytesDefiniteRoundTrip(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5}
	w := New()
	w.WriteBytes(data)
	r := FromBytes(w.ToBytes())
	got, err := r.ReadBytes()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("got %v, want %v", got, data)
	}
}

func TestBytesIndefiniteChunksConcatenate(t *testing.T) {
	// 9f0102ff is not valid bytes, build manually: 0x5f chunk1 chunk2 0xff
	r := FromBytes(mustHex(t, "5f41014102ff"))
	got, err := r.ReadBytes()
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0x01, 0x02}
	if !bytes.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestTextRoundTrip(t *testing.T) {
	w := New()
	w.WriteText("hello")
	r := FromBytes(w.ToBytes())
	got, err := r.ReadText()
	if err != nil {
		t.Fatal(err)
	}
	if got != "hello" {
		t.Errorf("got %q", got)
	}
}

func TestTextInvalidUtf8(t *testing.T) {
	// text string header for length 1, followed by an invalid UTF-8 byte.
	r := FromBytes([]byte{0x61, 0xFF})
	_, err := r.ReadText()
	if err == nil {
		t.Fatal("expected error for invalid utf-8")
	}
	cerr, ok := err.(*Error)
	if !ok || cerr.Kind != ErrInvalidUtf8 {
		t.Errorf("expected ErrInvalidUtf8, got %v", err)
	}
}

func TestArrayDefiniteRoundTrip(t *testing.T) {
	w := New()
	w.WriteStartArray(2)
	w.WriteU64(1)
	w.WriteU64(2)
	r := FromBytes(w.ToBytes())
	n, indef, err := r.ReadStartArray(ExpectEither)
	if err != nil {
		t.Fatal(err)
	}
	if indef || n != 2 {
		t.Fatalf("got n=%d indef=%v", n, indef)
	}
	a, _ := r.ReadU64()
	b, _ := r.ReadU64()
	if a != 1 || b != 2 {
		t.Errorf("got %d %d", a, b)
	}
}

func TestArrayIndefiniteIteration(t *testing.T) {
	// 9f0102ff: indefinite array [1, 2]
	r := FromBytes(mustHex(t, "9f0102ff"))
	n, indef, err := r.ReadStartArray(ExpectEither)
	if err != nil {
		t.Fatal(err)
	}
	if !indef || n != Indefinite {
		t.Fatalf("got n=%d indef=%v", n, indef)
	}
	var vals []uint64
	for !r.AtBreak() {
		v, err := r.ReadU64()
		if err != nil {
			t.Fatal(err)
		}
		vals = append(vals, v)
	}
	if err := r.ReadEndArray(); err != nil {
		t.Fatal(err)
	}
	if len(vals) != 2 || vals[0] != 1 || vals[1] != 2 {
		t.Errorf("got %v", vals)
	}
}

func TestMapRoundTrip(t *testing.T) {
	w := New()
	w.WriteStartMap(1)
	w.WriteU64(1)
	w.WriteText("a")
	r := FromBytes(w.ToBytes())
	n, indef, err := r.ReadStartMap(ExpectEither)
	if err != nil {
		t.Fatal(err)
	}
	if indef || n != 1 {
		t.Fatalf("got n=%d indef=%v", n, indef)
	}
	k, _ := r.ReadU64()
	v, _ := r.ReadText()
	if k != 1 || v != "a" {
		t.Errorf("got %d %q", k, v)
	}
}

func TestUnexpectedTypeDoesNotAdvance(t *testing.T) {
	r := FromBytes(mustHex(t, "00")) // unsigned int 0, not an array
	pos0 := r.Position()
	_, _, err := r.ReadStartArray(ExpectEither)
	if err == nil {
		t.Fatal("expected error")
	}
	cerr, ok := err.(*Error)
	if !ok || cerr.Kind != ErrUnexpectedType {
		t.Fatalf("expected ErrUnexpectedType, got %v", err)
	}
	if r.Position() != pos0 {
		t.Errorf("reader advanced past failed read: pos %d -> %d", pos0, r.Position())
	}
}

func TestCaptureRoundTrip(t *testing.T) {
	src := mustHex(t, "8200581c00000000000000000000000000000000000000000000000000000000")
	r := FromBytes(src)
	tok := r.BeginCapture()
	n, _, err := r.ReadStartArray(ExpectDefinite)
	if err != nil || n != 2 {
		t.Fatalf("n=%d err=%v", n, err)
	}
	if _, err := r.ReadU64(); err != nil {
		t.Fatal(err)
	}
	if _, err := r.ReadBytes(); err != nil {
		t.Fatal(err)
	}
	captured := r.EndCapture(tok)
	if !bytes.Equal(captured, src) {
		t.Errorf("capture mismatch: got %x want %x", captured, src)
	}
}

func TestNestedCapture(t *testing.T) {
	// array of 2 elements, outer capture spans both, inner spans only the second.
	w := New()
	w.WriteStartArray(2)
	w.WriteU64(1)
	w.WriteU64(2)
	src := w.ToBytes()
	r := FromBytes(src)
	outer := r.BeginCapture()
	if _, _, err := r.ReadStartArray(ExpectDefinite); err != nil {
		t.Fatal(err)
	}
	if _, err := r.ReadU64(); err != nil {
		t.Fatal(err)
	}
	inner := r.BeginCapture()
	if _, err := r.ReadU64(); err != nil {
		t.Fatal(err)
	}
	innerBytes := r.EndCapture(inner)
	outerBytes := r.EndCapture(outer)
	if !bytes.Equal(outerBytes, src) {
		t.Errorf("outer capture mismatch: got %x want %x", outerBytes, src)
	}
	if !bytes.Equal(innerBytes, []byte{0x02}) {
		t.Errorf("inner capture mismatch: got %x", innerBytes)
	}
}

func TestWriteRawBytesEscapeHatch(t *testing.T) {
	w := New()
	w.WriteRawBytes(mustHex(t, "8102"))
	if w.ToHex() != "8102" {
		t.Errorf("got %s", w.ToHex())
	}
}

func TestPeekTag(t *testing.T) {
	w := New()
	w.WriteTag(TagSet)
	w.WriteStartArray(0)
	r := FromBytes(w.ToBytes())
	ok, err := r.PeekTag(TagSet)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("expected tag 258 to be observed")
	}
	// PeekTag must not consume.
	tag, err := r.ReadTag()
	if err != nil || tag != TagSet {
		t.Fatalf("tag=%d err=%v", tag, err)
	}
}
