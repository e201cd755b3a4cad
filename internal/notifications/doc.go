// Package notifications delivers engine events via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and gracefully degrades to a no-op when notifications are
// disabled. The relay subscribes to the engine event bus so engine code never
// touches HTTP glue.
//
// Extend this package if you need alternative transports; callers depend only
// on the simple Service interface.
package notifications
