// Package runlock enforces one organizer run per input tree.
//
// Locks are advisory flocks in a shared directory. The lock file name is
// derived from the input root, so concurrent runs over different trees
// proceed while a second run over the same tree is refused immediately.
package runlock

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"golang.org/x/text/unicode/norm"

	"shoebox/internal/services"
)

// Lock guards an input tree against concurrent organizer runs.
type Lock struct {
	path  string
	flock *flock.Flock
}

// PathFor derives the lock file location for an input root. The sanitized
// basename keeps the file recognizable; the digest keeps distinct roots from
// colliding. The root is NFC-normalized before hashing so differently
// composed spellings of the same name share one lock.
func PathFor(lockDir, inputRoot string) string {
	abs, err := filepath.Abs(inputRoot)
	if err != nil {
		abs = inputRoot
	}
	digest := sha1.Sum([]byte(norm.NFC.String(abs)))
	name := fmt.Sprintf("shoebox-%s-%s.lock", sanitizeBase(filepath.Base(abs)), hex.EncodeToString(digest[:])[:12])
	return filepath.Join(lockDir, name)
}

// New prepares a lock for the given input root under lockDir.
func New(lockDir, inputRoot string) *Lock {
	path := PathFor(lockDir, inputRoot)
	return &Lock{path: path, flock: flock.New(path)}
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}

// Acquire takes the lock without blocking. A lock held elsewhere reports
// services.ErrLocked so callers can refuse the run instead of waiting.
func (l *Lock) Acquire() error {
	ok, err := l.flock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		detail := fmt.Sprintf("another run is organizing this tree (lock %s)", l.path)
		return services.Wrap(services.ErrLocked, "runlock", "acquire", detail, nil)
	}
	return nil
}

// Release drops the lock. Calling it when the lock was never acquired is a
// no-op.
func (l *Lock) Release() error {
	return l.flock.Unlock()
}

// sanitizeBase folds the basename onto a filename-safe alphabet and bounds
// its length so lock names stay under NAME_MAX.
func sanitizeBase(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := b.String()
	if out == "" {
		out = "root"
	}
	const maxBase = 64
	if len(out) > maxBase {
		out = out[:maxBase]
	}
	return out
}
