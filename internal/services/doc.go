// Package services defines shared utilities consumed by the organizer and its
// supporting components.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers and the scanned input root
//     for logging and correlation.
//   - Structured error markers plus the Wrap helper that keep failure
//     classification (fatal vs per-file recoverable) uniform.
//
// Use these helpers when wiring new behaviour so error handling and
// observability stay consistent across the tool.
package services
