// Package registry implements the Subscription Registry (spec.md §4.B): the
// pending-screenshot table, channel subscriptions, and log subscriptions,
// plus the disconnect sweep that clears a peer out of all three.
package registry

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxPatternLength is the hard cap on a log-subscription regex; longer
// patterns are rejected before any attempt to compile them.
const MaxPatternLength = 200

// bannedShapes are substrings whose presence in a pattern is a strong
// signal of catastrophic-backtracking construction, screened before
// compilation per spec.md §4.B / §9's ReDoS surface note.
var bannedShapes = []string{
	"(.*)+",
	"(.+)+",
	"([^)]*+)+",
	"([^)]*\\*)+",
}

// ErrSecurityReject is returned when a pattern is rejected by the guard
// before compilation, or fails to compile after passing it; the caller must
// skip the subscription for that event rather than drop the whole log frame
// (spec.md's SecurityReject taxonomy).
type ErrSecurityReject struct {
	Pattern string
	Reason  string
}

func (e *ErrSecurityReject) Error() string {
	return fmt.Sprintf("log-filter pattern rejected: %s", e.Reason)
}

// CompileGuarded compiles a log-subscription pattern only after it passes
// the length cap and banned-shape screen.
func CompileGuarded(pattern string) (*regexp.Regexp, error) {
	if len(pattern) > MaxPatternLength {
		return nil, &ErrSecurityReject{Pattern: pattern, Reason: "pattern exceeds 200 characters"}
	}
	for _, shape := range bannedShapes {
		if strings.Contains(pattern, shape) {
			return nil, &ErrSecurityReject{Pattern: pattern, Reason: "pattern matches a banned catastrophic-backtracking shape"}
		}
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &ErrSecurityReject{Pattern: pattern, Reason: "pattern does not compile: " + err.Error()}
	}
	return re, nil
}
