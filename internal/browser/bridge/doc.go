// Package bridge connects the daemon to the companion browser extension
// over localhost HTTP. The extension long-polls for commands, posts command
// results, and pushes tab lifecycle events; the daemon side exposes the
// exchange as a browser.Client.
//
// The transport direction is inverted on purpose: extensions cannot listen
// for inbound connections, so the daemon queues commands and the extension
// pulls them.
package bridge
