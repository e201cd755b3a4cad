// Package logging builds the slog loggers used across the daemon and CLI.
//
// It supplies console and JSON handlers, standardized attribute helpers, and
// the Field* key constants that keep structured output greppable (component,
// tab_id, group_id, event_type). NewNop returns a discard logger for tests
// and optional dependencies.
//
// Construct loggers through New or NewFromConfig so every binary emits the
// same format and honours the configured level.
package logging
