// Package notifications delivers run events via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and gracefully degrades to a no-op when notifications are
// disabled. Run summary and error notifications can be toggled independently
// so unattended runs stay quiet until something needs attention.
//
// Extend this package if you need alternative transports; organizer code
// depends only on the simple Service interface.
package notifications
