// Package persist provides the key-value snapshot backends behind the
// shopkit stores.
//
// Each store serializes its public state into a versioned JSON envelope
// and writes it to a single named slot. Backends implement the Store
// interface; MemoryStore, FileStore, RedisStore, SQLStore, and S3Store
// ship with the package, and Instrument wraps any of them with
// Prometheus metrics and OpenTelemetry tracing.
//
// Persistence is best effort. A failed write never unwinds the
// in-memory mutation that triggered it, and a missing or unreadable
// snapshot rehydrates to default state.
package persist
