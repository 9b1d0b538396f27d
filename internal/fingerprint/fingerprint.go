// Package fingerprint computes content digests used to name and compare
// organized media files.
//
// The digest is the Git blob form, sha1("blob <size>\x00" + content), so a
// file's fingerprint can be cross-checked with git hash-object.
package fingerprint

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Sum digests size bytes from r using the Git blob scheme and returns the
// lowercase hex fingerprint.
func Sum(r io.Reader, size int64) (string, error) {
	h := sha1.New()
	h.Write([]byte("blob "))
	h.Write([]byte(strconv.FormatInt(size, 10)))
	h.Write([]byte{0})
	n, err := io.Copy(h, r)
	if err != nil {
		return "", fmt.Errorf("digest content: %w", err)
	}
	if n != size {
		return "", fmt.Errorf("digest content: read %d bytes, expected %d", n, size)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// File computes the fingerprint of the file at path.
func File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open for digest: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat for digest: %w", err)
	}
	return Sum(f, info.Size())
}
