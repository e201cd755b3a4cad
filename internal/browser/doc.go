// Package browser defines the capability contract between the engine and the
// host browser.
//
// It models the slice of the tabs/windows/tabGroups surface the daemon needs:
// enumeration with filters, group creation and membership moves, group
// updates, and the lifecycle events the companion extension forwards. Both
// the HTTP bridge and the scripted test double implement the Client
// interface.
//
// Engine code must treat every Client call as a suspension point: other event
// handlers may run between any two calls.
package browser
