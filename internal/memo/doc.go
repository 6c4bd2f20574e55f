// Package memo provides a bounded least-recently-used cache for memoizing
// pure functions.
//
// Entries are addressed by a Key built from the logical arguments of the
// memoized call with NewKey. Keys are structural: every part is
// length-prefixed before hashing, so an argument that happens to contain a
// separator character cannot collide with a different argument list.
//
// Callers that memoize over a collection must derive the key from an
// order-independent view of it (for example its sorted id set) so two
// collections with the same members share one entry.
//
// The cache never invalidates on its own beyond capacity eviction. Call
// Clear whenever the underlying data changes.
//
// Values returned from the cache are shared between callers and must be
// treated as read-only.
package memo
