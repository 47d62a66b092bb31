package container

import "github.com/cardano-go-sdk/ledger/cbor"

// OrderedList stores elements in insertion order with no deduplication,
// used for entity fields whose on-wire encoding is a plain CBOR array
// (e.g. transaction output lists, multi-signature script lists).
type OrderedList[T any] struct {
	items []T
}

// NewOrderedList constructs an OrderedList from the given elements.
func NewOrderedList[T any](items ...T) *OrderedList[T] {
	l := &OrderedList[T]{items: make([]T, len(items))}
	copy(l.items, items)
	return l
}

// Len returns the number of elements.
func (l *OrderedList[T]) Len() int { return len(l.items) }

// Items returns the elements in order. Callers must not mutate the
// returned slice.
func (l *OrderedList[T]) Items() []T { return l.items }

// Append adds v to the end of the list.
func (l *OrderedList[T]) Append(v T) {
	l.items = append(l.items, v)
}

// Get returns the element at i.
func (l *OrderedList[T]) Get(i int) T {
	return l.items[i]
}

// DecodeOrderedList reads a definite or indefinite-length CBOR array into
// an OrderedList.
func DecodeOrderedList[T any](r *cbor.Reader, decodeElem func(*cbor.Reader) (T, error)) (*OrderedList[T], error) {
	n, indefinite, err := r.ReadStartArray(cbor.ExpectEither)
	if err != nil {
		return nil, err
	}
	l := &OrderedList[T]{}
	if indefinite {
		for !r.AtBreak() {
			v, derr := decodeElem(r)
			if derr != nil {
				return nil, derr
			}
			l.items = append(l.items, v)
		}
		if err := r.ReadEndArray(); err != nil {
			return nil, err
		}
		return l, nil
	}
	l.items = make([]T, 0, n)
	for i := 0; i < n; i++ {
		v, derr := decodeElem(r)
		if derr != nil {
			return nil, derr
		}
		l.items = append(l.items, v)
	}
	return l, nil
}

// EncodeOrderedList writes l as a definite-length CBOR array.
func EncodeOrderedList[T any](l *OrderedList[T], w *cbor.Writer, encodeElem func(T, *cbor.Writer)) {
	w.WriteStartArray(len(l.items))
	for _, v := range l.items {
		encodeElem(v, w)
	}
}
