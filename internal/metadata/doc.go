// Package metadata extracts capture timestamps from media files.
//
// The default Extractor sniffs the container with content-type detection and
// routes to a format parser: EXIF tags for JPEG stills (including .thm
// thumbnails), the mvhd creation time for MP4/QuickTime movies, and the
// RIFF INFO chunk for AVI clips. Files whose container carries no usable
// capture time report ErrNoTimestamp so callers can treat them as undated
// rather than failed.
//
// All parsing is pure Go; no external probe binaries are invoked.
package metadata
