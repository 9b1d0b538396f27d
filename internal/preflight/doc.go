// Package preflight provides readiness checks for the filesystem paths and
// services an organizer run depends on.
//
// The CLI "shoebox check" command runs these before a real pass so problems
// like an unwritable output tree or a held run lock surface up front instead
// of mid-run. Individual check functions are exported for callers that only
// care about one concern.
package preflight
