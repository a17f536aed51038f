// Package notifications delivers push notifications for transcript runs.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and gracefully degrades to a no-op when notifications are
// disabled. Each known event has a renderer that formats the ntfy title,
// message, tags, and priority; unknown events are silently dropped so callers
// can publish unconditionally.
//
// Notifications are best-effort: callers log failures and never let them
// interrupt a run. Extend this package if you need alternative transports;
// pipeline code depends only on the Service interface.
package notifications
