// Package ipc provides the control channel between the tabshelf CLI and the
// daemon.
//
// The daemon exposes a JSON-RPC service over a Unix domain socket; the CLI
// dials the socket and issues typed requests. Keep the wire types in this
// package dependency-light so both binaries can share them.
package ipc
