// Package state persists the handful of values that survive a daemon
// restart, backed by SQLite.
//
// The store is a typed key-value table: the holding group id, runtime
// overrides for engine settings, and session markers. Per-tab activity state
// is deliberately not persisted; it is rebuilt from live platform queries at
// startup.
//
// Readers of the holding group id must revalidate it against the live
// browser before trusting it; the store only remembers, it does not verify.
package state
