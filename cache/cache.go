// Package cache implements the per-entity original-CBOR cache from
// spec.md §4.2: every entity built by from_cbor captures the exact byte
// range it was decoded from, and re-encodes from that cache until a
// mutator clears it. This is the signature-preservation mechanism the
// whole data model depends on (spec.md §3 "cached-bytes invariant").
//
// Modeled on the same shape as backend/cache's CachedChainContext
// (a small mutex-guarded wrapper with an explicit invalidation path),
// but scoped to a single immutable byte view instead of time-based TTLs.
package cache

import "github.com/cardano-go-sdk/ledger/cbor"

// Cache holds an entity's original encoding, if any, and a writer hook to
// replay it.
type Cache struct {
	view  []byte
	valid bool
}

// Capture stores view as the entity's original encoding. Called by
// from_cbor constructors using a Reader's capture token.
func (c *Cache) Capture(view []byte) {
	c.view = view
	c.valid = true
}

// Clear invalidates the cache, forcing the next ToCBOR call to walk
// fields and re-encode canonically. Called by every mutator, and exposed
// to callers as clear_cbor_cache for interior mutations the library
// cannot detect on its own.
func (c *Cache) Clear() {
	c.view = nil
	c.valid = false
}

// Valid reports whether a cached encoding is present.
func (c *Cache) Valid() bool { return c.valid }

// WriteIfValid writes the cached bytes via w.WriteRawBytes and reports
// true if it did so. Callers fall back to canonical field-by-field
// encoding when it returns false.
func (c *Cache) WriteIfValid(w *cbor.Writer) bool {
	if !c.valid {
		return false
	}
	w.WriteRawBytes(c.view)
	return true
}
