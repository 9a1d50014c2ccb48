package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sweetlink/sweetlink/devbar"
	"github.com/sweetlink/sweetlink/internal/config"
)

// maxExecJSLength is the length cap enforced even in development (spec.md
// §4.F / §9 "Exec-js safety").
const maxExecJSLength = 10000

type execJSPayload struct {
	Expression string `json:"expression"`
}

// ExecJS evaluates an expression via the page host's indirect-eval
// equivalent. It is rejected outright in production and length-capped even
// in development (spec.md §9).
func ExecJS(ctx context.Context, host devbar.PageHost, payload json.RawMessage) (any, error) {
	if config.IsProduction() {
		return nil, fmt.Errorf("exec-js is disabled in production")
	}

	var p execJSPayload
	if err := json.Unmarshal(payload, &p); err != nil || p.Expression == "" {
		return nil, fmt.Errorf("exec-js: missing expression")
	}
	if len(p.Expression) > maxExecJSLength {
		return nil, fmt.Errorf("exec-js: expression exceeds %d characters", maxExecJSLength)
	}

	result, err := host.Eval(ctx, p.Expression)
	if err != nil {
		return nil, err
	}
	return result, nil
}
