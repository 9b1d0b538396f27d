// Package journal persists run history in SQLite.
//
// The Store records one row per organizer invocation and one row per file
// decision made during it, so past runs can be inspected after the fact and
// dry runs can be reviewed before committing to a real pass. Finished runs
// age out through Prune according to the configured retention window.
//
// Schema changes bump the version in schema.go; users delete the database to
// adopt the new schema.
package journal
