package metadata

import (
	"encoding/binary"
	"fmt"
	"os"
	"time"
)

// mp4Epoch is the offset in seconds between the ISO-BMFF epoch (1904-01-01)
// and the Unix epoch.
const mp4Epoch = 2082844800

// mp4Timestamp reads the movie header creation time from an MP4 or QuickTime
// container. The field lives in moov/mvhd and is stored as seconds since
// 1904 in UTC.
func mp4Timestamp(path string) (time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("open for mvhd: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return time.Time{}, fmt.Errorf("stat for mvhd: %w", err)
	}

	moovStart, moovEnd, ok := findBox(f, 0, info.Size(), "moov")
	if !ok {
		return time.Time{}, ErrNoTimestamp
	}
	mvhdStart, mvhdEnd, ok := findBox(f, moovStart, moovEnd, "mvhd")
	if !ok {
		return time.Time{}, ErrNoTimestamp
	}
	return mvhdCreation(f, mvhdStart, mvhdEnd)
}

// findBox scans [start, end) for a box of the wanted type and returns its
// payload bounds. Zero sizes (box runs to the end of its container) and
// 64-bit extended sizes are handled; any structural inconsistency stops the
// scan.
func findBox(f *os.File, start, end int64, want string) (int64, int64, bool) {
	offset := start
	for offset+8 <= end {
		var header [8]byte
		if _, err := f.ReadAt(header[:], offset); err != nil {
			return 0, 0, false
		}
		size := int64(binary.BigEndian.Uint32(header[:4]))
		boxType := string(header[4:8])
		headerLen := int64(8)
		switch size {
		case 0:
			size = end - offset
		case 1:
			var ext [8]byte
			if _, err := f.ReadAt(ext[:], offset+8); err != nil {
				return 0, 0, false
			}
			wide := binary.BigEndian.Uint64(ext[:])
			if wide > uint64(end-offset) {
				return 0, 0, false
			}
			size = int64(wide)
			headerLen = 16
		}
		if size < headerLen || offset+size > end {
			return 0, 0, false
		}
		if boxType == want {
			return offset + headerLen, offset + size, true
		}
		offset += size
	}
	return 0, 0, false
}

func mvhdCreation(f *os.File, start, end int64) (time.Time, error) {
	if end-start < 8 {
		return time.Time{}, ErrNoTimestamp
	}
	var verFlags [4]byte
	if _, err := f.ReadAt(verFlags[:], start); err != nil {
		return time.Time{}, ErrNoTimestamp
	}

	var creation uint64
	switch verFlags[0] {
	case 1:
		if end-start < 12 {
			return time.Time{}, ErrNoTimestamp
		}
		var raw [8]byte
		if _, err := f.ReadAt(raw[:], start+4); err != nil {
			return time.Time{}, ErrNoTimestamp
		}
		creation = binary.BigEndian.Uint64(raw[:])
	default:
		var raw [4]byte
		if _, err := f.ReadAt(raw[:], start+4); err != nil {
			return time.Time{}, ErrNoTimestamp
		}
		creation = uint64(binary.BigEndian.Uint32(raw[:]))
	}

	// Zero means the recorder never set a clock; values before the Unix
	// epoch are equally untrustworthy.
	if creation == 0 || creation < mp4Epoch {
		return time.Time{}, ErrNoTimestamp
	}
	return time.Unix(int64(creation-mp4Epoch), 0).UTC(), nil
}
