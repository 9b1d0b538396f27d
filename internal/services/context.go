package services

import "context"

type contextKey string

const (
	runIDKey     contextKey = "run_id"
	inputRootKey contextKey = "input_root"
)

// WithRunID annotates context with the organizer run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithInputRoot annotates context with the tree a run is scanning.
func WithInputRoot(ctx context.Context, root string) context.Context {
	if root == "" {
		return ctx
	}
	return context.WithValue(ctx, inputRootKey, root)
}

// InputRootFromContext returns the scanned tree root if present.
func InputRootFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(inputRootKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
