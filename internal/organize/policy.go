package organize

import (
	"fmt"
	"strings"
)

// Policy selects how files whose destination already holds identical content
// are handled.
type Policy string

const (
	// PolicySkip leaves the source file where it is.
	PolicySkip Policy = "skip"
	// PolicyReroute archives the source under the duplicates bucket.
	PolicyReroute Policy = "reroute"
	// PolicyDelete removes the source file.
	PolicyDelete Policy = "delete"
	// PolicyOverwrite relocates the file over the existing destination.
	PolicyOverwrite Policy = "overwrite"
)

// ParsePolicy converts a string into a known Policy.
func ParsePolicy(value string) (Policy, error) {
	normalized := Policy(strings.ToLower(strings.TrimSpace(value)))
	switch normalized {
	case PolicySkip, PolicyReroute, PolicyDelete, PolicyOverwrite:
		return normalized, nil
	default:
		return "", fmt.Errorf("duplicate policy: unknown value %q", value)
	}
}
