// Package organize relocates photos and videos into a date-based library.
//
// A run walks the input tree, derives each file's capture timestamp and
// content fingerprint, and moves or copies it to
// {output}/{year}/{month}/{timestamp}_{hash}{ext}, falling back to a
// no-metadata bucket when no timestamp can be recovered. Files whose
// destination already holds identical content are handled according to the
// configured duplicate policy. Per-file failures are logged and counted
// without aborting the run; runs over the same input tree exclude each other
// through an advisory lock.
//
// Every decision is journaled when the journal is enabled, including dry
// runs, so a pass can be reviewed before or after it mutates anything.
package organize
