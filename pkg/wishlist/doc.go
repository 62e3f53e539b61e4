// Package wishlist implements the persisted wishlist store: a
// deduplicated, insertion-ordered product set keyed by product ID.
//
// Toggle reads membership and then adds or removes as two separate
// steps. That is safe for a single-threaded UI caller; if the store is
// driven by multiple concurrent callers, two simultaneous toggles for
// the same product can observe the same membership and both act on it.
package wishlist
