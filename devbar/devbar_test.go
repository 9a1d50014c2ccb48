package devbar

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sweetlink/sweetlink/internal/wire"
)

func TestConsoleRingBoundedFIFO(t *testing.T) {
	r := newConsoleRing()
	for i := 0; i < 600; i++ {
		r.Push(wire.LogEntry{Level: wire.LevelLog, Message: fmt.Sprintf("line-%d", i), Timestamp: wire.NowMillis()})
	}
	require.Equal(t, ringCapacity, r.Len())

	entries := r.Snapshot("", "")
	require.Len(t, entries, ringCapacity)
	require.Equal(t, "line-100", entries[0].Message, "oldest 100 entries should have been evicted")
	require.Equal(t, "line-599", entries[len(entries)-1].Message)
}

func TestConsoleRingSnapshotFilters(t *testing.T) {
	r := newConsoleRing()
	r.Push(wire.LogEntry{Level: wire.LevelError, Message: "boom"})
	r.Push(wire.LogEntry{Level: wire.LevelLog, Message: "fine"})
	r.Push(wire.LogEntry{Level: wire.LevelWarn, Message: "careful"})

	errs, warns := r.Counts()
	require.Equal(t, 1, errs)
	require.Equal(t, 1, warns)

	onlyErrors := r.Snapshot(string(wire.LevelError), "")
	require.Len(t, onlyErrors, 1)
	require.Equal(t, "boom", onlyErrors[0].Message)

	substr := r.Snapshot("", "are")
	require.Len(t, substr, 1)
	require.Equal(t, "careful", substr[0].Message)
}

func TestConsoleRingClear(t *testing.T) {
	r := newConsoleRing()
	r.Push(wire.LogEntry{Level: wire.LevelError, Message: "x"})
	r.Clear()
	require.Equal(t, 0, r.Len())
	errs, warns := r.Counts()
	require.Zero(t, errs)
	require.Zero(t, warns)
}

func TestBackoffForCapsAtThirtySeconds(t *testing.T) {
	require.Equal(t, 1*time.Second, backoffFor(1))
	require.Equal(t, 2*time.Second, backoffFor(2))
	require.Equal(t, 4*time.Second, backoffFor(3))
	require.Equal(t, reconnectBackoffCap, backoffFor(10))
}

func TestNewStateDefaults(t *testing.T) {
	s := newState()
	require.Equal(t, StateConnecting, s.Connection)
	require.Equal(t, ModeCollapsed, s.Mode)
	require.NotNil(t, s.LastSavedPaths)
}

func TestConnStateString(t *testing.T) {
	require.Equal(t, "connecting", StateConnecting.String())
	require.Equal(t, "awaiting-server-info", StateAwaitingServerInfo.String())
	require.Equal(t, "connected", StateConnected.String())
	require.Equal(t, "closed", StateClosed.String())
}

func TestClientStateSnapshotReflectsConnection(t *testing.T) {
	host := newFakeHost()
	c := New(3000, host, map[wire.MessageType]HandlerFunc{})
	require.Equal(t, StateConnecting, c.State().Connection)

	c.setState(StateConnected)
	require.Equal(t, StateConnected, c.State().Connection)

	require.NoError(t, c.Close())
	require.Equal(t, StateClosed, c.State().Connection)
	require.True(t, host.closed)
}

func TestClientRecordsConsoleFromHost(t *testing.T) {
	host := newFakeHost()
	c := New(3000, host, map[wire.MessageType]HandlerFunc{})
	host.emit(wire.LogEntry{Level: wire.LevelError, Message: "uncaught exception"})

	entries := c.Logs().Snapshot("", "")
	require.Len(t, entries, 1)
	require.Equal(t, "uncaught exception", entries[0].Message)
}

// fakeHost is a minimal PageHost double, enough to exercise Client's
// wiring without a synthetic DOM model.
type fakeHost struct {
	sink   func(wire.LogEntry)
	closed bool
}

func newFakeHost() *fakeHost { return &fakeHost{} }

func (h *fakeHost) emit(e wire.LogEntry) {
	if h.sink != nil {
		h.sink(e)
	}
}

func (h *fakeHost) Screenshot(ctx context.Context, opts ScreenshotOptions) (ScreenshotResult, error) {
	return ScreenshotResult{}, nil
}
func (h *fakeHost) QueryDOM(ctx context.Context, selector, property string) (wire.DOMQueryResult, error) {
	return wire.DOMQueryResult{}, nil
}
func (h *fakeHost) Eval(ctx context.Context, expr string) (any, error) { return nil, nil }
func (h *fakeHost) Schema(ctx context.Context) (string, error)         { return "", nil }
func (h *fakeHost) Outline(ctx context.Context) (string, error)        { return "", nil }
func (h *fakeHost) A11y(ctx context.Context) (string, error)           { return "", nil }
func (h *fakeHost) Vitals(ctx context.Context) (map[string]any, error) { return nil, nil }
func (h *fakeHost) OnConsole(sink func(wire.LogEntry))                 { h.sink = sink }
func (h *fakeHost) Close() error                                       { h.closed = true; return nil }
