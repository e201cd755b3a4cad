// Package daemon coordinates the long-running tabshelf process.
//
// It wires configuration, the state store, the extension bridge, and the
// grouping engine into a single lifecycle with flock-based locking to prevent
// multiple instances. The daemon owns the periodic loops: the auto control
// check, the release queue drain, and activity reconciliation.
//
// Keep orchestration logic here: grouping semantics live in the engine and
// transport details in the bridge.
package daemon
