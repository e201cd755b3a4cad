// Package engine implements the inactivity grouping engine: the grouping
// orchestrator, the auto control loop, and the delayed release queue, all
// sharing the activity table owned by package tracker.
//
// The engine serializes its guard flags behind one mutex but never holds it
// across a browser call; platform calls interleave freely with event
// handlers, exactly as they would against a real browser. Single-flight for
// the grouping pass and the release drain rests solely on the two in-flight
// flags, each checked-and-set before the first platform call and cleared on
// every exit path.
//
// The engine publishes status events on an events.Bus and never blocks on a
// listener.
package engine
