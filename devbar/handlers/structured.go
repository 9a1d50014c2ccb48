package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sweetlink/sweetlink/devbar"
)

type markdownResponse struct {
	Markdown string `json:"markdown"`
}

// GetSchema extracts a structured schema bag via the page's local helpers
// (spec.md §4.F); the out-of-scope schema->markdown converter runs on the
// CLI side, so this returns page-local markdown the host already renders.
func GetSchema(ctx context.Context, host devbar.PageHost, _ json.RawMessage) (any, error) {
	md, err := host.Schema(ctx)
	if err != nil {
		return nil, fmt.Errorf("get-schema: %w", err)
	}
	return markdownResponse{Markdown: md}, nil
}

// GetOutline extracts the page's heading/landmark outline.
func GetOutline(ctx context.Context, host devbar.PageHost, _ json.RawMessage) (any, error) {
	md, err := host.Outline(ctx)
	if err != nil {
		return nil, fmt.Errorf("get-outline: %w", err)
	}
	return markdownResponse{Markdown: md}, nil
}

// GetA11y runs an accessibility audit.
func GetA11y(ctx context.Context, host devbar.PageHost, _ json.RawMessage) (any, error) {
	md, err := host.A11y(ctx)
	if err != nil {
		return nil, fmt.Errorf("get-a11y: %w", err)
	}
	return markdownResponse{Markdown: md}, nil
}

// GetVitals reports captured web-vitals metrics.
func GetVitals(ctx context.Context, host devbar.PageHost, _ json.RawMessage) (any, error) {
	vitals, err := host.Vitals(ctx)
	if err != nil {
		return nil, fmt.Errorf("get-vitals: %w", err)
	}
	return vitals, nil
}
