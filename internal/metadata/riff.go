package metadata

import (
	"encoding/binary"
	"fmt"
	"os"
	"strings"
	"time"
)

// riffDateLayouts covers the date forms cameras write into ICRD and IDIT
// chunks. Date-only values resolve to midnight.
var riffDateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.ANSIC,
	"Mon Jan 02 15:04:05 2006",
}

// riffTimestamp reads the creation date from an AVI file's INFO list. The
// ICRD (creation date) and IDIT (digitization time) chunks are consulted in
// the order they appear.
func riffTimestamp(path string) (time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("open for riff: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return time.Time{}, fmt.Errorf("stat for riff: %w", err)
	}
	fileSize := info.Size()

	var header [12]byte
	if _, err := f.ReadAt(header[:], 0); err != nil {
		return time.Time{}, ErrNoTimestamp
	}
	if string(header[:4]) != "RIFF" || string(header[8:12]) != "AVI " {
		return time.Time{}, ErrNoTimestamp
	}

	offset := int64(12)
	for offset+8 <= fileSize {
		var chunk [8]byte
		if _, err := f.ReadAt(chunk[:], offset); err != nil {
			return time.Time{}, ErrNoTimestamp
		}
		chunkID := string(chunk[:4])
		chunkSize := int64(binary.LittleEndian.Uint32(chunk[4:8]))
		dataStart := offset + 8
		dataEnd := dataStart + chunkSize
		if dataEnd > fileSize {
			return time.Time{}, ErrNoTimestamp
		}

		if chunkID == "LIST" && chunkSize >= 4 {
			var listType [4]byte
			if _, err := f.ReadAt(listType[:], dataStart); err != nil {
				return time.Time{}, ErrNoTimestamp
			}
			if string(listType[:]) == "INFO" {
				if ts, ok := scanInfoList(f, dataStart+4, dataEnd); ok {
					return ts, nil
				}
			}
		}

		// Chunks are word aligned; odd sizes carry one pad byte.
		offset = dataEnd + (chunkSize & 1)
	}
	return time.Time{}, ErrNoTimestamp
}

func scanInfoList(f *os.File, start, end int64) (time.Time, bool) {
	offset := start
	for offset+8 <= end {
		var chunk [8]byte
		if _, err := f.ReadAt(chunk[:], offset); err != nil {
			return time.Time{}, false
		}
		tag := string(chunk[:4])
		size := int64(binary.LittleEndian.Uint32(chunk[4:8]))
		valStart := offset + 8
		valEnd := valStart + size
		if valEnd > end {
			return time.Time{}, false
		}

		if tag == "ICRD" || tag == "IDIT" {
			n := size
			if n > 64 {
				n = 64
			}
			buf := make([]byte, n)
			if _, err := f.ReadAt(buf, valStart); err != nil {
				return time.Time{}, false
			}
			value := strings.Trim(string(buf), "\x00\r\n\t ")
			for _, layout := range riffDateLayouts {
				if ts, err := time.Parse(layout, value); err == nil {
					return ts, true
				}
			}
		}

		offset = valEnd + (size & 1)
	}
	return time.Time{}, false
}
