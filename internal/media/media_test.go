package media_test

import (
	"path/filepath"
	"testing"
	"time"

	"shoebox/internal/media"
)

func TestSupportedExtension(t *testing.T) {
	for _, ext := range []string{".jpg", ".JPG", ".jpeg", ".mov", ".avi", ".thm", ".mp4"} {
		if !media.SupportedExtension(ext) {
			t.Fatalf("expected %s to be supported", ext)
		}
	}
	for _, ext := range []string{".png", ".txt", ".mkv", "", "jpg"} {
		if media.SupportedExtension(ext) {
			t.Fatalf("expected %q to be unsupported", ext)
		}
	}
}

func TestExtensionOf(t *testing.T) {
	if got := media.ExtensionOf("/photos/IMG_0001.JPG"); got != ".jpg" {
		t.Fatalf("unexpected extension: %q", got)
	}
	if got := media.ExtensionOf("/photos/noext"); got != "" {
		t.Fatalf("expected empty extension, got %q", got)
	}
}

func TestHidden(t *testing.T) {
	if !media.Hidden(".DS_Store") {
		t.Fatal("expected dotfile to be hidden")
	}
	if media.Hidden("IMG_0001.jpg") {
		t.Fatal("expected plain name to be visible")
	}
	if media.Hidden("") {
		t.Fatal("expected empty name to be visible")
	}
}

func TestDestinationDated(t *testing.T) {
	ts := time.Date(2014, time.June, 1, 10, 0, 0, 0, time.UTC)
	f := media.File{Hash: "abc123", Extension: ".jpg", Timestamp: ts}

	got := media.Destination("/library", f, "no_metadata")
	want := filepath.Join("/library", "2014", "06", "2014-06-01T10:00:00_abc123.jpg")
	if got != want {
		t.Fatalf("destination mismatch: got %q, want %q", got, want)
	}
}

func TestDestinationUndated(t *testing.T) {
	f := media.File{Hash: "deadbeef", Extension: ".mov"}

	got := media.Destination("/library", f, "no_metadata")
	want := filepath.Join("/library", "no_metadata", "deadbeef.mov")
	if got != want {
		t.Fatalf("destination mismatch: got %q, want %q", got, want)
	}
}

func TestDestinationPadsEarlyDates(t *testing.T) {
	ts := time.Date(801, time.February, 3, 4, 5, 6, 0, time.UTC)
	f := media.File{Hash: "ff", Extension: ".jpg", Timestamp: ts}

	got := media.Destination("/out", f, "no_metadata")
	want := filepath.Join("/out", "0801", "02", "0801-02-03T04:05:06_ff.jpg")
	if got != want {
		t.Fatalf("destination mismatch: got %q, want %q", got, want)
	}
}
