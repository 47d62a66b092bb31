// Package cerr defines the top-level error taxonomy surfaced to callers
// (spec.md §6.3) and the per-entity last-error ring (spec.md §3 "Universal
// Entity Contract", §7 "User-visible behavior"). Entity packages build on
// top of cbor.Error for decode failures and cerr.Error for everything else,
// matching the plain sentinel-error style apollo.go/wallet.go use
// throughout (errors.New, fmt.Errorf with %w).
package cerr

import "fmt"

// Code identifies one of the taxonomy members from spec.md §6.3.
type Code int

const (
	Success Code = iota
	PointerIsNull
	InvalidArgument
	MemoryAllocationFailed
	OutOfBoundsMemoryRead
	Decoding
	InvalidCborValue
	InvalidCborArraySize
	UnexpectedCborType
	InsufficientBufferSize
	InvalidBlake2bHashSize
	ElementNotFound
	Overflow
)

func (c Code) String() string {
	switch c {
	case Success:
		return "Success"
	case PointerIsNull:
		return "PointerIsNull"
	case InvalidArgument:
		return "InvalidArgument"
	case MemoryAllocationFailed:
		return "MemoryAllocationFailed"
	case OutOfBoundsMemoryRead:
		return "OutOfBoundsMemoryRead"
	case Decoding:
		return "Decoding"
	case InvalidCborValue:
		return "InvalidCborValue"
	case InvalidCborArraySize:
		return "InvalidCborArraySize"
	case UnexpectedCborType:
		return "UnexpectedCborType"
	case InsufficientBufferSize:
		return "InsufficientBufferSize"
	case InvalidBlake2bHashSize:
		return "InvalidBlake2bHashSize"
	case ElementNotFound:
		return "ElementNotFound"
	case Overflow:
		return "Overflow"
	default:
		return "Unknown"
	}
}

// Error is a typed error carrying a taxonomy Code plus a human-readable message.
type Error struct {
	Code Code
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// New constructs an Error with the given code and message.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

// Newf constructs an Error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// Wrap constructs an Error that wraps an underlying cause.
func Wrap(code Code, msg string, err error) *Error {
	return &Error{Code: code, Msg: msg, Err: err}
}

// maxLastError is the bound from spec.md §3: "per-entity last-error
// message, bounded to 1023 bytes, overwritten on each set."
const maxLastError = 1023

// LastError is the per-entity last-error ring described in spec.md §3/§7.
// It is not safe for concurrent use without external synchronization,
// matching the sharing rules in spec.md §5 ("Error buffers follow the
// same sharing rules as the entity itself").
type LastError struct {
	msg string
}

// Set overwrites the last-error message, truncating to 1023 bytes.
func (l *LastError) Set(msg string) {
	if len(msg) > maxLastError {
		msg = msg[:maxLastError]
	}
	l.msg = msg
}

// SetErr overwrites the last-error message from an error's Error() text.
func (l *LastError) SetErr(err error) {
	if err == nil {
		l.msg = ""
		return
	}
	l.Set(err.Error())
}

// String returns the current last-error message, or "" if none was ever set.
func (l *LastError) String() string {
	return l.msg
}
