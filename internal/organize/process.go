package organize

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"shoebox/internal/fileutil"
	"shoebox/internal/fingerprint"
	"shoebox/internal/journal"
	"shoebox/internal/logging"
	"shoebox/internal/media"
	"shoebox/internal/metadata"
	"shoebox/internal/services"
)

// walkInput traverses the input tree and processes every candidate file.
// Hidden entries and the output subtree are excluded; unreadable entries are
// logged and skipped so one bad directory cannot abort the run. Per-file
// failures keep the walk going unless they classify as unrecoverable.
func (o *Organizer) walkInput(ctx context.Context, p *pass) error {
	return filepath.WalkDir(p.input, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == p.input {
				return fmt.Errorf("walk input root: %w", err)
			}
			p.logger.Warn("skipping unreadable entry", logging.String("path", path), logging.Error(err))
			return nil
		}
		if d.IsDir() {
			if path == p.input {
				return nil
			}
			if media.Hidden(d.Name()) {
				p.logger.Debug("skipping hidden directory", logging.String("path", path))
				return filepath.SkipDir
			}
			if path == p.output {
				p.logger.Debug("skipping output subtree", logging.String("path", path))
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			p.logger.Debug("skipping irregular file", logging.String("path", path))
			return nil
		}
		if fileErr := o.processFile(ctx, p, path, d); fileErr != nil && !services.Recoverable(fileErr) {
			return fileErr
		}
		return nil
	})
}

// processFile decides what should happen to a single file and carries it out.
// Failures are recorded against the run and returned for the walk to classify.
func (o *Organizer) processFile(ctx context.Context, p *pass, path string, d fs.DirEntry) error {
	if media.Hidden(d.Name()) {
		return nil
	}
	ext := media.ExtensionOf(d.Name())
	if !media.SupportedExtension(ext) {
		p.logger.Info("skipping unsupported file",
			logging.String("source", path),
			logging.String("extension", ext),
		)
		p.summary.Unsupported++
		return nil
	}
	p.logger.Debug("examining file", logging.String("source", path))

	info, err := d.Info()
	if err != nil {
		return o.recordFailure(ctx, p, path, "stat file", err)
	}

	ts, err := o.extractor.Timestamp(path)
	if err != nil {
		if errors.Is(err, metadata.ErrNoTimestamp) {
			p.logger.Warn("no capture timestamp", logging.String("source", path))
		} else {
			p.logger.Warn("timestamp extraction failed", logging.String("source", path), logging.Error(err))
		}
		ts = time.Time{}
		p.summary.NoMetadata++
	}

	hash, err := fingerprint.File(path)
	if err != nil {
		return o.recordFailure(ctx, p, path, "fingerprint file", err)
	}

	f := media.File{
		Path:      path,
		Extension: ext,
		Size:      info.Size(),
		Hash:      hash,
		Timestamp: ts,
	}
	return o.relocate(ctx, p, f, media.Destination(p.output, f, o.cfg.Organizer.FallbackDir))
}

// relocate moves or copies f to dest, applying the duplicate policy when the
// destination already holds identical content.
func (o *Organizer) relocate(ctx context.Context, p *pass, f media.File, dest string) error {
	outcome := journal.OutcomeMoved
	if p.copyMode {
		outcome = journal.OutcomeCopied
	}

	if destInfo, err := os.Stat(dest); err == nil && destInfo.Mode().IsRegular() {
		destHash, hashErr := fingerprint.File(dest)
		switch {
		case hashErr != nil:
			p.logger.Warn("destination fingerprint failed, overwriting",
				logging.String("source", f.Path),
				logging.String("destination", dest),
				logging.Error(hashErr),
			)
		case destHash == f.Hash:
			switch p.policy {
			case PolicySkip:
				p.logger.Info("skipping duplicate",
					logging.String("source", f.Path),
					logging.String("destination", dest),
				)
				p.summary.DuplicatesSkipped++
				o.recordEntry(ctx, p, &journal.Entry{
					SourcePath:      f.Path,
					DestinationPath: dest,
					Outcome:         journal.OutcomeDuplicateSkipped,
					ContentHash:     f.Hash,
				})
				return nil
			case PolicyDelete:
				if p.dryRun {
					p.logger.Info("dry run, would delete duplicate source",
						logging.String("source", f.Path),
						logging.String("destination", dest),
					)
				} else if err := os.Remove(f.Path); err != nil {
					return o.recordFailure(ctx, p, f.Path, "delete duplicate", err)
				} else {
					p.logger.Info("deleted duplicate source",
						logging.String("source", f.Path),
						logging.String("destination", dest),
					)
				}
				p.summary.DuplicatesDeleted++
				o.recordEntry(ctx, p, &journal.Entry{
					SourcePath:      f.Path,
					DestinationPath: dest,
					Outcome:         journal.OutcomeDuplicateDeleted,
					ContentHash:     f.Hash,
				})
				return nil
			case PolicyReroute:
				rerouted := filepath.Join(p.output, o.cfg.Organizer.DuplicatesDir, filepath.Base(dest))
				if sameContent(rerouted, f.Hash) {
					p.logger.Info("duplicate already archived",
						logging.String("source", f.Path),
						logging.String("destination", rerouted),
					)
					p.summary.DuplicatesSkipped++
					o.recordEntry(ctx, p, &journal.Entry{
						SourcePath:      f.Path,
						DestinationPath: rerouted,
						Outcome:         journal.OutcomeDuplicateSkipped,
						ContentHash:     f.Hash,
					})
					return nil
				}
				dest = rerouted
				outcome = journal.OutcomeRerouted
			case PolicyOverwrite:
				// fall through to the relocation below
			}
		default:
			p.logger.Warn("destination exists with different content, overwriting",
				logging.String("source", f.Path),
				logging.String("destination", dest),
			)
		}
	}

	if p.dryRun {
		verb := "move"
		if p.copyMode {
			verb = "copy"
		}
		p.logger.Info("dry run, would relocate file",
			logging.String("source", f.Path),
			logging.String("destination", dest),
			logging.String("mode", verb),
		)
	} else {
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return o.recordFailure(ctx, p, f.Path, "create destination directory", err)
		}
		if p.copyMode {
			if err := fileutil.CopyFileVerified(f.Path, dest); err != nil {
				return o.recordFailure(ctx, p, f.Path, "copy file", err)
			}
		} else {
			if err := fileutil.MoveFile(f.Path, dest); err != nil {
				return o.recordFailure(ctx, p, f.Path, "move file", err)
			}
		}
		message := "moved file"
		if p.copyMode {
			message = "copied file"
		}
		if outcome == journal.OutcomeRerouted {
			message = "rerouted duplicate"
		}
		p.logger.Info(message,
			logging.String("source", f.Path),
			logging.String("destination", dest),
		)
	}

	p.summary.Processed++
	if outcome == journal.OutcomeRerouted {
		p.summary.Rerouted++
	}
	p.summary.Entries = append(p.summary.Entries, ProcessedEntry{Source: f.Path, Destination: dest})
	o.recordEntry(ctx, p, &journal.Entry{
		SourcePath:      f.Path,
		DestinationPath: dest,
		Outcome:         outcome,
		ContentHash:     f.Hash,
	})
	return nil
}

// recordFailure logs a per-file error, journals it, and returns the failure
// tagged as transient so the walk moves on to the next file.
func (o *Organizer) recordFailure(ctx context.Context, p *pass, source, operation string, err error) error {
	p.logger.Error("file processing failed",
		logging.String("source", source),
		logging.String("operation", operation),
		logging.Error(err),
	)
	p.summary.Failures++
	o.recordEntry(ctx, p, &journal.Entry{
		SourcePath: source,
		Outcome:    journal.OutcomeFailed,
		Detail:     fmt.Sprintf("%s: %v", operation, err),
	})
	return services.Wrap(services.ErrTransient, "organize", operation, "", err)
}

func (o *Organizer) recordEntry(ctx context.Context, p *pass, entry *journal.Entry) {
	if o.journal == nil || p.run == nil {
		return
	}
	entry.RunID = p.run.RunID
	if err := o.journal.RecordEntry(ctx, entry); err != nil {
		p.logger.Warn("journal write failed", logging.Error(err))
	}
}

// sameContent reports whether path is a regular file whose fingerprint
// matches hash.
func sameContent(path, hash string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	pathHash, err := fingerprint.File(path)
	return err == nil && pathHash == hash
}
