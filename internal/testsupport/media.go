package testsupport

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// Fixture builders for the three container formats the organizer parses.
// The files are tiny but structurally valid: content sniffers classify them
// and the timestamp fields sit where real cameras put them.

const (
	tifTagDateTime         = 0x0132
	tifTagExifIFDPointer   = 0x8769
	tifTagDateTimeOriginal = 0x9003
	tifTypeASCII           = 2
	tifTypeLong            = 4

	exifTimeLayout = "2006:01:02 15:04:05"
	mp4EpochOffset = 2082844800
)

func writeFixture(t testing.TB, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteJPEG writes a JPEG whose EXIF block carries ts in both
// DateTimeOriginal and DateTime.
func WriteJPEG(t testing.TB, path string, ts time.Time) {
	t.Helper()
	stamp := ts.Format(exifTimeLayout)
	writeFixture(t, path, wrapJPEG(buildExifTIFF(stamp, stamp), ""))
}

// WriteJPEGDateTimeOnly writes a JPEG carrying only the weaker IFD0
// DateTime tag.
func WriteJPEGDateTimeOnly(t testing.TB, path string, ts time.Time) {
	t.Helper()
	writeFixture(t, path, wrapJPEG(buildExifTIFF("", ts.Format(exifTimeLayout)), ""))
}

// WriteJPEGConflicting writes a JPEG whose DateTimeOriginal and DateTime
// tags disagree, for exercising tag priority.
func WriteJPEGConflicting(t testing.TB, path string, original, dateTime time.Time) {
	t.Helper()
	writeFixture(t, path, wrapJPEG(buildExifTIFF(original.Format(exifTimeLayout), dateTime.Format(exifTimeLayout)), ""))
}

// WriteTIFF writes a bare TIFF with a DateTimeOriginal tag and no JPEG
// wrapper.
func WriteTIFF(t testing.TB, path string, ts time.Time) {
	t.Helper()
	stamp := ts.Format(exifTimeLayout)
	writeFixture(t, path, buildExifTIFF(stamp, stamp))
}

// WriteJPEGDistinct writes a JPEG with the same timestamp as WriteJPEG but
// different bytes, so fixtures can share a capture time without sharing a
// fingerprint.
func WriteJPEGDistinct(t testing.TB, path string, ts time.Time, seed string) {
	t.Helper()
	stamp := ts.Format(exifTimeLayout)
	writeFixture(t, path, wrapJPEG(buildExifTIFF(stamp, stamp), seed))
}

// WriteJPEGPlain writes a JPEG without any EXIF segment.
func WriteJPEGPlain(t testing.TB, path string) {
	t.Helper()
	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xD8})
	comment := []byte("no metadata here")
	buf.Write([]byte{0xFF, 0xFE, byte((len(comment) + 2) >> 8), byte(len(comment) + 2)})
	buf.Write(comment)
	buf.Write([]byte{0xFF, 0xD9})
	writeFixture(t, path, buf.Bytes())
}

// WriteMP4 writes an ISO-BMFF container whose mvhd creation time equals ts.
func WriteMP4(t testing.TB, path string, ts time.Time) {
	t.Helper()
	writeFixture(t, path, buildMP4(uint32(ts.Unix()+mp4EpochOffset)))
}

// WriteMP4Unset writes an MP4 whose recorder never set a clock (creation
// time zero).
func WriteMP4Unset(t testing.TB, path string) {
	t.Helper()
	writeFixture(t, path, buildMP4(0))
}

// WriteAVI writes a RIFF AVI container whose INFO list carries the given
// date chunk, e.g. ("ICRD", "2014-06-01").
func WriteAVI(t testing.TB, path, tag, value string) {
	t.Helper()
	writeFixture(t, path, buildAVI(tag, value))
}

// WriteAVIBare writes an AVI container without an INFO list.
func WriteAVIBare(t testing.TB, path string) {
	t.Helper()
	junk := riffChunk("JUNK", make([]byte, 16))
	writeFixture(t, path, riffContainer(junk))
}

func buildExifTIFF(dateTimeOriginal, dateTime string) []byte {
	entryCount := 0
	if dateTime != "" {
		entryCount++
	}
	if dateTimeOriginal != "" {
		entryCount++
	}

	ifd0Size := 2 + entryCount*12 + 4
	cursor := uint32(8 + ifd0Size)

	var dateTimeOffset, exifIFDOffset, originalOffset uint32
	if dateTime != "" {
		dateTimeOffset = cursor
		cursor += 20
	}
	if dateTimeOriginal != "" {
		exifIFDOffset = cursor
		cursor += 2 + 12 + 4
		originalOffset = cursor
		cursor += 20
	}

	var buf bytes.Buffer
	buf.WriteString("II")
	le := binary.LittleEndian
	binary.Write(&buf, le, uint16(42))
	binary.Write(&buf, le, uint32(8))

	binary.Write(&buf, le, uint16(entryCount))
	if dateTime != "" {
		writeTIFFEntry(&buf, tifTagDateTime, tifTypeASCII, 20, dateTimeOffset)
	}
	if dateTimeOriginal != "" {
		writeTIFFEntry(&buf, tifTagExifIFDPointer, tifTypeLong, 1, exifIFDOffset)
	}
	binary.Write(&buf, le, uint32(0))

	if dateTime != "" {
		buf.Write(asciiValue(dateTime, 20))
	}
	if dateTimeOriginal != "" {
		binary.Write(&buf, le, uint16(1))
		writeTIFFEntry(&buf, tifTagDateTimeOriginal, tifTypeASCII, 20, originalOffset)
		binary.Write(&buf, le, uint32(0))
		buf.Write(asciiValue(dateTimeOriginal, 20))
	}
	return buf.Bytes()
}

func writeTIFFEntry(buf *bytes.Buffer, tag, typ uint16, count, value uint32) {
	le := binary.LittleEndian
	binary.Write(buf, le, tag)
	binary.Write(buf, le, typ)
	binary.Write(buf, le, count)
	binary.Write(buf, le, value)
}

func asciiValue(s string, size int) []byte {
	out := make([]byte, size)
	copy(out, s)
	return out
}

func wrapJPEG(tiff []byte, commentSeed string) []byte {
	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xD8})

	payload := append([]byte("Exif\x00\x00"), tiff...)
	segLen := len(payload) + 2
	buf.Write([]byte{0xFF, 0xE1, byte(segLen >> 8), byte(segLen)})
	buf.Write(payload)

	if commentSeed != "" {
		comment := []byte(commentSeed)
		comLen := len(comment) + 2
		buf.Write([]byte{0xFF, 0xFE, byte(comLen >> 8), byte(comLen)})
		buf.Write(comment)
	}

	buf.Write([]byte{0xFF, 0xD9})
	return buf.Bytes()
}

func buildMP4(creation uint32) []byte {
	var mvhd bytes.Buffer
	be := binary.BigEndian
	mvhd.Write([]byte{0, 0, 0, 0})
	binary.Write(&mvhd, be, creation)
	binary.Write(&mvhd, be, creation)
	binary.Write(&mvhd, be, uint32(600))
	binary.Write(&mvhd, be, uint32(0))
	binary.Write(&mvhd, be, uint32(0x00010000))
	binary.Write(&mvhd, be, uint16(0x0100))
	mvhd.Write(make([]byte, 10))
	for _, cell := range []uint32{0x00010000, 0, 0, 0, 0x00010000, 0, 0, 0, 0x40000000} {
		binary.Write(&mvhd, be, cell)
	}
	mvhd.Write(make([]byte, 24))
	binary.Write(&mvhd, be, uint32(1))

	ftyp := mp4Box("ftyp", append([]byte("isom\x00\x00\x02\x00"), []byte("isom")...))
	moov := mp4Box("moov", mp4Box("mvhd", mvhd.Bytes()))
	return append(ftyp, moov...)
}

func mp4Box(kind string, payload []byte) []byte {
	out := make([]byte, 8+len(payload))
	binary.BigEndian.PutUint32(out[:4], uint32(8+len(payload)))
	copy(out[4:8], kind)
	copy(out[8:], payload)
	return out
}

func buildAVI(tag, value string) []byte {
	data := append([]byte(value), 0)
	sub := riffChunk(tag, data)
	info := append([]byte("INFO"), sub...)
	list := riffChunk("LIST", info)
	return riffContainer(list)
}

// riffChunk renders id + little-endian size + data, padded to word
// alignment. The declared size excludes the pad byte.
func riffChunk(id string, data []byte) []byte {
	out := make([]byte, 8, 8+len(data)+1)
	copy(out[:4], id)
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(data)))
	out = append(out, data...)
	if len(data)%2 == 1 {
		out = append(out, 0)
	}
	return out
}

func riffContainer(chunks []byte) []byte {
	body := append([]byte("AVI "), chunks...)
	out := make([]byte, 8, 8+len(body))
	copy(out[:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(body)))
	return append(out, body...)
}
