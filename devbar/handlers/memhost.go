package handlers

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"

	"github.com/sweetlink/sweetlink/devbar"
	"github.com/sweetlink/sweetlink/internal/wire"
)

// Node is a synthetic DOM node used by MemHost, just enough structure for
// query-dom/screenshot/schema tests to exercise realistic shapes without a
// real browser.
type Node struct {
	Tag         string
	Class       string
	ID          string
	Text        string
	Attrs       map[string]any
	Selector    string // the CSS selector this node responds to in MemHost.nodes
}

// MemHost is an in-memory PageHost backing every devbar protocol-level
// unit test, so the suite never launches a real Chrome process
// (SPEC_FULL.md §4.F).
type MemHost struct {
	mu    sync.Mutex
	nodes map[string][]Node
	sink  func(wire.LogEntry)
	title string
	url   string
}

// NewMemHost constructs an empty synthetic page.
func NewMemHost() *MemHost {
	return &MemHost{nodes: make(map[string][]Node), url: "http://localhost:3000/", title: "Test Page"}
}

// SetNodes registers the nodes a selector should match.
func (m *MemHost) SetNodes(selector string, nodes ...Node) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nodes[selector] = nodes
}

// Emit synthesizes a console event, as if the page's script had logged it.
func (m *MemHost) Emit(entry wire.LogEntry) {
	m.mu.Lock()
	sink := m.sink
	m.mu.Unlock()
	if sink != nil {
		sink(entry)
	}
}

func (m *MemHost) Screenshot(_ context.Context, opts devbar.ScreenshotOptions) (devbar.ScreenshotResult, error) {
	format := opts.Format
	if format == "" {
		format = "png"
	}
	raw := []byte("synthetic-image-bytes")
	return devbar.ScreenshotResult{
		DataURL: fmt.Sprintf("data:image/%s;base64,%s", format, base64.StdEncoding.EncodeToString(raw)),
		Width:   1280,
		Height:  720,
	}, nil
}

func (m *MemHost) QueryDOM(_ context.Context, selector, property string) (wire.DOMQueryResult, error) {
	m.mu.Lock()
	nodes := m.nodes[selector]
	m.mu.Unlock()

	hits := make([]wire.DOMQueryHit, 0, len(nodes))
	for _, n := range nodes {
		if property != "" {
			hits = append(hits, wire.DOMQueryHit{Property: n.Attrs[property]})
			continue
		}
		text := n.Text
		if len(text) > 100 {
			text = text[:100]
		}
		hits = append(hits, wire.DOMQueryHit{TagName: n.Tag, ClassName: n.Class, ID: n.ID, TextContent: text})
	}
	return wire.DOMQueryResult{Count: len(hits), Results: hits}, nil
}

func (m *MemHost) Eval(_ context.Context, expr string) (any, error) {
	if strings.Contains(expr, "throw") {
		return nil, fmt.Errorf("evaluation threw: %s", expr)
	}
	return expr, nil
}

func (m *MemHost) Schema(_ context.Context) (string, error) {
	return "# Schema\n\nno structured data detected\n", nil
}

func (m *MemHost) Outline(_ context.Context) (string, error) {
	return fmt.Sprintf("# Outline for %s\n\n- %s\n", m.url, m.title), nil
}

func (m *MemHost) A11y(_ context.Context) (string, error) {
	return "# Accessibility Report\n\nno violations detected\n", nil
}

func (m *MemHost) Vitals(_ context.Context) (map[string]any, error) {
	return map[string]any{"lcp": 1200.0, "cls": 0.01, "fid": 8.0}, nil
}

func (m *MemHost) OnConsole(sink func(wire.LogEntry)) {
	m.mu.Lock()
	m.sink = sink
	m.mu.Unlock()
}

func (m *MemHost) Close() error { return nil }
