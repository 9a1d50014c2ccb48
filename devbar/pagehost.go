// Package devbar implements the Browser Bridge (page side, spec.md §4.E):
// the port-scanning connection manager, reconnect-with-backoff state
// machine, console capture ring, and command dispatch that would run
// inside a real browser tab. Since a Go process has no DOM, the "page"
// itself is abstracted behind PageHost: the default, non-test
// implementation (devbar/handlers.RodHost) drives a real headless Chrome
// instance via go-rod, and a synthetic in-memory host backs the unit
// tests, per SPEC_FULL.md §1's resolution of the Go-translation open
// question.
package devbar

import (
	"context"
	"encoding/json"

	"github.com/sweetlink/sweetlink/internal/wire"
)

// ScreenshotOptions configures a screenshot capture (spec.md §4.F).
type ScreenshotOptions struct {
	Selector string
	FullPage bool
	Quality  float64 // JPEG quality, 0-1; 0 means "use the handler's default"
	Scale    float64 // downscale factor, 0 means "no downscale"
	Format   string  // "png" or "jpeg"; "" means PageHost picks
}

// ScreenshotResult is a captured image as a data URL plus its dimensions.
type ScreenshotResult struct {
	DataURL string
	Width   int
	Height  int
}

// PageHost abstracts "the page" that the command handlers operate
// against. A real implementation drives an actual browser tab (or, in Go,
// a headless Chrome instance via go-rod); a test implementation can be a
// synthetic DOM model.
type PageHost interface {
	Screenshot(ctx context.Context, opts ScreenshotOptions) (ScreenshotResult, error)
	QueryDOM(ctx context.Context, selector, property string) (wire.DOMQueryResult, error)
	Eval(ctx context.Context, expr string) (any, error)
	Schema(ctx context.Context) (string, error)
	Outline(ctx context.Context) (string, error)
	A11y(ctx context.Context) (string, error)
	Vitals(ctx context.Context) (map[string]any, error)
	// OnConsole registers sink to receive every captured console/error
	// event from the page. The Go-idiomatic equivalent of the spec's
	// console.*-method-replacement technique (there is no console object
	// to monkey-patch here).
	OnConsole(sink func(wire.LogEntry))
	Close() error
}

// HandlerFunc is a command handler: given the page host and a command's
// raw payload, produce a response value (marshaled into the reply frame's
// data field) or an error (turned into {success:false, error}).
type HandlerFunc func(ctx context.Context, host PageHost, payload json.RawMessage) (any, error)
