// Package config loads, normalizes, and validates shoebox configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// SHOEBOX_NTFY_TOPIC. The Config type centralizes every knob the CLI needs,
// so bucket names, the duplicate policy, and journal/log locations come from
// one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
