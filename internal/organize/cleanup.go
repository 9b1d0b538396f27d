package organize

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"shoebox/internal/logging"
)

// cleanupEmptyDirs removes directories left empty under root, deepest first.
// The root itself is never removed. Directories that still hold entries are
// left alone; removal is attempted, not forced.
func (o *Organizer) cleanupEmptyDirs(ctx context.Context, logger *slog.Logger, root string) int {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() || path == root {
			return nil
		}
		dirs = append(dirs, path)
		return nil
	})
	if err != nil {
		logger.Warn("empty directory scan failed", logging.Error(err))
		return 0
	}

	// A directory's ancestors are strict prefixes, so longest-first ordering
	// always visits children before their parents.
	sort.Slice(dirs, func(i, j int) bool {
		return len(dirs[i]) > len(dirs[j])
	})

	removed := 0
	for _, dir := range dirs {
		if ctx.Err() != nil {
			break
		}
		if err := os.Remove(dir); err != nil {
			continue
		}
		logger.Debug("removed empty directory", logging.String("path", dir))
		removed++
	}
	if removed > 0 {
		logger.Info("removed empty directories", logging.Int("count", removed))
	}
	return removed
}
