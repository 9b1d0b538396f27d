package metadata

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

const exifLayout = "2006:01:02 15:04:05"

// exifDateFields lists EXIF tags in priority order. DateTimeOriginal is the
// shutter time; the later entries are progressively weaker approximations.
var exifDateFields = []exif.FieldName{
	exif.DateTimeOriginal,
	exif.DateTimeDigitized,
	exif.DateTime,
}

func exifTimestamp(path string) (time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("open for exif: %w", err)
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return time.Time{}, ErrNoTimestamp
	}

	for _, field := range exifDateFields {
		tag, err := x.Get(field)
		if err != nil {
			continue
		}
		value, err := tag.StringVal()
		if err != nil {
			continue
		}
		ts, err := time.Parse(exifLayout, strings.TrimSpace(value))
		if err != nil {
			continue
		}
		return ts, nil
	}
	return time.Time{}, ErrNoTimestamp
}
