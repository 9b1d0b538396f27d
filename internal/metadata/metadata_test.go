package metadata_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"shoebox/internal/metadata"
	"shoebox/internal/testsupport"
)

func extract(t *testing.T, path string) (time.Time, error) {
	t.Helper()
	return metadata.New().Timestamp(path)
}

func TestJPEGTimestamp(t *testing.T) {
	want := time.Date(2014, time.June, 1, 10, 0, 0, 0, time.UTC)
	path := filepath.Join(t.TempDir(), "IMG_0001.jpg")
	testsupport.WriteJPEG(t, path, want)

	got, err := extract(t, path)
	if err != nil {
		t.Fatalf("Timestamp returned error: %v", err)
	}
	if !got.Equal(want) {
		t.Fatalf("timestamp mismatch: got %v, want %v", got, want)
	}
}

func TestJPEGDateTimeFallback(t *testing.T) {
	want := time.Date(2009, time.December, 24, 18, 30, 15, 0, time.UTC)
	path := filepath.Join(t.TempDir(), "IMG_0002.jpg")
	testsupport.WriteJPEGDateTimeOnly(t, path, want)

	got, err := extract(t, path)
	if err != nil {
		t.Fatalf("Timestamp returned error: %v", err)
	}
	if !got.Equal(want) {
		t.Fatalf("timestamp mismatch: got %v, want %v", got, want)
	}
}

func TestJPEGPrefersDateTimeOriginal(t *testing.T) {
	original := time.Date(2014, time.June, 1, 10, 0, 0, 0, time.UTC)
	edited := time.Date(2020, time.January, 5, 8, 0, 0, 0, time.UTC)
	path := filepath.Join(t.TempDir(), "IMG_0003.jpg")
	testsupport.WriteJPEGConflicting(t, path, original, edited)

	got, err := extract(t, path)
	if err != nil {
		t.Fatalf("Timestamp returned error: %v", err)
	}
	if !got.Equal(original) {
		t.Fatalf("expected shutter time %v, got %v", original, got)
	}
}

func TestJPEGWithoutExif(t *testing.T) {
	path := filepath.Join(t.TempDir(), "IMG_0004.jpg")
	testsupport.WriteJPEGPlain(t, path)

	_, err := extract(t, path)
	if !errors.Is(err, metadata.ErrNoTimestamp) {
		t.Fatalf("expected ErrNoTimestamp, got %v", err)
	}
}

func TestMP4Timestamp(t *testing.T) {
	want := time.Date(2016, time.August, 14, 22, 5, 9, 0, time.UTC)
	path := filepath.Join(t.TempDir(), "clip.mp4")
	testsupport.WriteMP4(t, path, want)

	got, err := extract(t, path)
	if err != nil {
		t.Fatalf("Timestamp returned error: %v", err)
	}
	if !got.Equal(want) {
		t.Fatalf("timestamp mismatch: got %v, want %v", got, want)
	}
}

func TestMP4UnsetClock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.mp4")
	testsupport.WriteMP4Unset(t, path)

	_, err := extract(t, path)
	if !errors.Is(err, metadata.ErrNoTimestamp) {
		t.Fatalf("expected ErrNoTimestamp, got %v", err)
	}
}

func TestAVIDateOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.avi")
	testsupport.WriteAVI(t, path, "ICRD", "2014-06-01")

	got, err := extract(t, path)
	if err != nil {
		t.Fatalf("Timestamp returned error: %v", err)
	}
	want := time.Date(2014, time.June, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("timestamp mismatch: got %v, want %v", got, want)
	}
}

func TestAVIDigitizationTime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.avi")
	testsupport.WriteAVI(t, path, "IDIT", "Mon Jun 02 11:30:05 2014")

	got, err := extract(t, path)
	if err != nil {
		t.Fatalf("Timestamp returned error: %v", err)
	}
	want := time.Date(2014, time.June, 2, 11, 30, 5, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("timestamp mismatch: got %v, want %v", got, want)
	}
}

func TestAVIWithoutInfoList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.avi")
	testsupport.WriteAVIBare(t, path)

	_, err := extract(t, path)
	if !errors.Is(err, metadata.ErrNoTimestamp) {
		t.Fatalf("expected ErrNoTimestamp, got %v", err)
	}
}

func TestExtensionFallbackForRawTIFF(t *testing.T) {
	// Content sniffing sees a TIFF, which has no dedicated route; the .jpg
	// extension should still funnel it into the EXIF parser.
	want := time.Date(2011, time.March, 9, 14, 45, 0, 0, time.UTC)
	path := filepath.Join(t.TempDir(), "scan.jpg")
	testsupport.WriteTIFF(t, path, want)

	got, err := extract(t, path)
	if err != nil {
		t.Fatalf("Timestamp returned error: %v", err)
	}
	if !got.Equal(want) {
		t.Fatalf("timestamp mismatch: got %v, want %v", got, want)
	}
}

func TestUnknownContainer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("not media"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := extract(t, path)
	if !errors.Is(err, metadata.ErrNoTimestamp) {
		t.Fatalf("expected ErrNoTimestamp, got %v", err)
	}
}

func TestMissingFileIsAnError(t *testing.T) {
	_, err := extract(t, filepath.Join(t.TempDir(), "absent.jpg"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if errors.Is(err, metadata.ErrNoTimestamp) {
		t.Fatalf("expected an I/O error, got ErrNoTimestamp: %v", err)
	}
}
