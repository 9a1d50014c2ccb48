// Package review models the design-review screenshot's external
// collaborator: the Claude API client that turns a captured screenshot
// into review prose. spec.md §1 scopes that client out of the core ("the
// Claude API client used by design review" is an interface-only
// collaborator) — this package is the interface the router's
// design-review-screenshot handler talks to, plus a default
// implementation that reports the key's absence rather than reaching out
// to any API, since building the actual Anthropic client is explicitly
// someone else's job here.
package review

import (
	"context"
	"fmt"

	"github.com/sweetlink/sweetlink/internal/config"
	"github.com/sweetlink/sweetlink/internal/wire"
)

// Provider turns a captured screenshot into review markdown text. The core
// stores whatever text comes back; it never inspects or transforms it
// (spec.md §4.A).
type Provider interface {
	Review(ctx context.Context, payload *wire.ScreenshotPayload) (string, error)
}

// Default reports that no design-review backend is wired in when
// ANTHROPIC_API_KEY is unset, which is the expectable state for the core
// module by itself — a real deployment supplies its own Provider that
// calls out to the Claude API, per spec.md's "external collaborator" scope
// note.
type Default struct{}

// Review implements Provider. It never makes a network call: it is the
// placeholder the core ships with so design-review-screenshot has
// something to call during tests and local runs without internet access.
func (Default) Review(_ context.Context, payload *wire.ScreenshotPayload) (string, error) {
	if config.AnthropicAPIKey() == "" {
		return "", fmt.Errorf("design review requires ANTHROPIC_API_KEY to be configured")
	}
	return fmt.Sprintf(
		"# Design Review\n\n_Automated review for %s is not available in this build; "+
			"wire a review.Provider backed by the Claude API to produce real feedback._\n",
		payload.URL,
	), nil
}
