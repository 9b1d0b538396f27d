package metadata

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// ErrNoTimestamp marks files that carry no usable capture time. Callers
// should file these under the undated bucket instead of failing them.
var ErrNoTimestamp = errors.New("no capture timestamp")

// Extractor resolves the capture time of a media file.
type Extractor interface {
	Timestamp(path string) (time.Time, error)
}

// New returns the default extractor covering JPEG, MP4/QuickTime, and AVI.
func New() Extractor {
	return sniffer{}
}

type sniffer struct{}

func (sniffer) Timestamp(path string) (time.Time, error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("detect media type: %w", err)
	}

	switch {
	case mtype.Is("image/jpeg"):
		return exifTimestamp(path)
	case mtype.Is("video/mp4"), mtype.Is("video/quicktime"):
		return mp4Timestamp(path)
	case mtype.Is("video/x-msvideo"):
		return riffTimestamp(path)
	}

	// Unrecognized containers fall back to the extension so renamed or
	// oddly framed files still get a chance.
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".thm":
		return exifTimestamp(path)
	case ".mp4", ".mov":
		return mp4Timestamp(path)
	case ".avi":
		return riffTimestamp(path)
	}

	return time.Time{}, ErrNoTimestamp
}
