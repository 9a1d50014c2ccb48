package handlers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sweetlink/sweetlink/devbar"
	"github.com/sweetlink/sweetlink/internal/wire"
)

// optsRecorder is a MemHost that remembers the options of the last
// Screenshot call.
type optsRecorder struct {
	*MemHost
	last devbar.ScreenshotOptions
}

func (r *optsRecorder) Screenshot(ctx context.Context, opts devbar.ScreenshotOptions) (devbar.ScreenshotResult, error) {
	r.last = opts
	return r.MemHost.Screenshot(ctx, opts)
}

func TestBuildTableCoversEveryWiredCommand(t *testing.T) {
	tbl := BuildTable()
	for _, mt := range []wire.MessageType{
		wire.TypeScreenshot, wire.TypeRequestScreenshot, wire.TypeQueryDOM, wire.TypeExecJS,
		wire.TypeGetSchema, wire.TypeGetOutline, wire.TypeGetA11y, wire.TypeGetVitals,
	} {
		_, ok := tbl[mt]
		require.True(t, ok, "expected handler table to wire %q", mt)
	}
	// get-logs is intentionally absent: devbar.Client answers it directly
	// from its own console ring, not through a PageHost.
	_, hasGetLogs := tbl[wire.TypeGetLogs]
	require.False(t, hasGetLogs)
}

func TestScreenshotDefaultsToFullPage(t *testing.T) {
	host := &optsRecorder{MemHost: NewMemHost()}
	res, err := Screenshot(context.Background(), host, json.RawMessage(`{}`))
	require.NoError(t, err)
	sr := res.(screenshotResponse)
	require.NotEmpty(t, sr.Screenshot)
	require.True(t, host.last.FullPage)
}

func TestScreenshotSelectorDisablesFullPage(t *testing.T) {
	host := &optsRecorder{MemHost: NewMemHost()}
	res, err := Screenshot(context.Background(), host, json.RawMessage(`{"selector":".card"}`))
	require.NoError(t, err)
	_, ok := res.(screenshotResponse)
	require.True(t, ok)
	require.False(t, host.last.FullPage)
	require.Equal(t, ".card", host.last.Selector)
}

func TestRequestScreenshotAppliesDefaults(t *testing.T) {
	host := &optsRecorder{MemHost: NewMemHost()}
	res, err := RequestScreenshot(context.Background(), host, json.RawMessage(`{}`))
	require.NoError(t, err)
	sr := res.(screenshotResponse)
	require.NotEmpty(t, sr.Screenshot)
	require.Equal(t, 0.7, host.last.Quality)
	require.Equal(t, 0.25, host.last.Scale)
	require.Equal(t, "jpeg", host.last.Format)
	require.False(t, host.last.FullPage)
}

func TestQueryDOMRequiresSelector(t *testing.T) {
	host := NewMemHost()
	_, err := QueryDOM(context.Background(), host, json.RawMessage(`{}`))
	require.Error(t, err)
}

func TestQueryDOMReturnsRegisteredNodes(t *testing.T) {
	host := NewMemHost()
	host.SetNodes(".item", Node{Tag: "DIV", Class: "item", Text: "hello world"})

	res, err := QueryDOM(context.Background(), host, json.RawMessage(`{"selector":".item"}`))
	require.NoError(t, err)
	result := res.(wire.DOMQueryResult)
	require.Equal(t, 1, result.Count)
	require.Equal(t, "hello world", result.Results[0].TextContent)
}

func TestQueryDOMReadsNamedProperty(t *testing.T) {
	host := NewMemHost()
	host.SetNodes(".item", Node{Attrs: map[string]any{"href": "https://example.com"}})

	res, err := QueryDOM(context.Background(), host, json.RawMessage(`{"selector":".item","property":"href"}`))
	require.NoError(t, err)
	result := res.(wire.DOMQueryResult)
	require.Equal(t, "https://example.com", result.Results[0].Property)
}

func TestExecJSRejectsOverlongExpression(t *testing.T) {
	host := NewMemHost()
	huge := make([]byte, maxExecJSLength+1)
	for i := range huge {
		huge[i] = 'a'
	}
	payload, _ := json.Marshal(execJSPayload{Expression: string(huge)})
	_, err := ExecJS(context.Background(), host, payload)
	require.Error(t, err)
}

func TestExecJSRequiresExpression(t *testing.T) {
	host := NewMemHost()
	_, err := ExecJS(context.Background(), host, json.RawMessage(`{}`))
	require.Error(t, err)
}

func TestExecJSPropagatesHostErrors(t *testing.T) {
	host := NewMemHost()
	payload, _ := json.Marshal(execJSPayload{Expression: "throw new Error('x')"})
	_, err := ExecJS(context.Background(), host, payload)
	require.Error(t, err)
}

func TestGetSchemaOutlineA11yReturnMarkdown(t *testing.T) {
	host := NewMemHost()

	schema, err := GetSchema(context.Background(), host, nil)
	require.NoError(t, err)
	require.Contains(t, schema.(markdownResponse).Markdown, "Schema")

	outline, err := GetOutline(context.Background(), host, nil)
	require.NoError(t, err)
	require.Contains(t, outline.(markdownResponse).Markdown, "Outline")

	a11y, err := GetA11y(context.Background(), host, nil)
	require.NoError(t, err)
	require.Contains(t, a11y.(markdownResponse).Markdown, "Accessibility")
}

func TestGetVitalsReturnsHostMetrics(t *testing.T) {
	host := NewMemHost()
	v, err := GetVitals(context.Background(), host, nil)
	require.NoError(t, err)
	vitals := v.(map[string]any)
	require.Contains(t, vitals, "lcp")
}

func TestMemHostConsoleSinkReceivesEmittedEntries(t *testing.T) {
	host := NewMemHost()
	var received []wire.LogEntry
	host.OnConsole(func(e wire.LogEntry) { received = append(received, e) })

	host.Emit(wire.LogEntry{Level: wire.LevelError, Message: "oops"})
	require.Len(t, received, 1)
	require.Equal(t, "oops", received[0].Message)
}
