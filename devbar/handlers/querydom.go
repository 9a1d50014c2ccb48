package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sweetlink/sweetlink/devbar"
)

type queryDOMPayload struct {
	Selector string `json:"selector"`
	Property string `json:"property,omitempty"`
}

// QueryDOM evaluates a selector and returns {count, results}: either the
// named property for each match, or a {tagName, className, id,
// textContent[:100]} record (spec.md §4.F).
func QueryDOM(ctx context.Context, host devbar.PageHost, payload json.RawMessage) (any, error) {
	var p queryDOMPayload
	if err := json.Unmarshal(payload, &p); err != nil || p.Selector == "" {
		return nil, fmt.Errorf("query-dom: missing selector")
	}
	result, err := host.QueryDOM(ctx, p.Selector, p.Property)
	if err != nil {
		return nil, fmt.Errorf("query-dom: %w", err)
	}
	return result, nil
}
