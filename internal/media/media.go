// Package media holds the file model and naming policy for organized media.
package media

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// TimestampLayout is the wall-clock form embedded in organized filenames.
const TimestampLayout = "2006-01-02T15:04:05"

var supportedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".mov":  {},
	".avi":  {},
	".thm":  {},
	".mp4":  {},
}

// File describes one candidate media file discovered during a scan. A zero
// Timestamp means no capture time could be extracted.
type File struct {
	Path      string
	Extension string
	Size      int64
	Hash      string
	Timestamp time.Time
}

// ExtensionOf returns the lowercased extension of path, including the dot.
func ExtensionOf(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// SupportedExtension reports whether ext names a media type the organizer
// handles. The comparison is case-insensitive and a leading dot is required.
func SupportedExtension(ext string) bool {
	_, ok := supportedExtensions[strings.ToLower(ext)]
	return ok
}

// Hidden reports whether a single path element is hidden by the dot
// convention.
func Hidden(name string) bool {
	return name != "" && name[0] == '.'
}

// DestinationName builds the content-addressed filename for a file. Files
// with a capture time are named "<timestamp>_<hash><ext>", the rest just
// "<hash><ext>".
func DestinationName(ts time.Time, hash, ext string) string {
	if ts.IsZero() {
		return hash + ext
	}
	return ts.Format(TimestampLayout) + "_" + hash + ext
}

// Destination resolves the full target path for f under outputRoot. Dated
// files land in <year>/<month> subdirectories; undated files land in
// fallbackDir.
func Destination(outputRoot string, f File, fallbackDir string) string {
	name := DestinationName(f.Timestamp, f.Hash, f.Extension)
	if f.Timestamp.IsZero() {
		return filepath.Join(outputRoot, fallbackDir, name)
	}
	dir := filepath.Join(outputRoot,
		fmt.Sprintf("%04d", f.Timestamp.Year()),
		fmt.Sprintf("%02d", int(f.Timestamp.Month())))
	return filepath.Join(dir, name)
}
