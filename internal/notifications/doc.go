// Package notifications delivers scan-workflow events via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and gracefully degrades to a no-op when notifications are
// disabled. The per-category toggles in the configuration decide which events
// are delivered, so callers can always invoke the Service without checking
// configuration themselves.
package notifications
