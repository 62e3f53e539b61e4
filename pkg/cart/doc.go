// Package cart implements the persisted shopping cart store.
//
// The cart is an insertion-ordered sequence of lines, unique by product
// ID. Adding a product that is already present merges into the existing
// line: quantity accumulates and variant selections are overwritten
// only when supplied. Total and count are derived from current lines on
// every call and never cached.
package cart
