package devbar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sweetlink/sweetlink/internal/applog"
	"github.com/sweetlink/sweetlink/internal/config"
	"github.com/sweetlink/sweetlink/internal/wire"
)

var log = applog.For("devbar")

const (
	serverInfoTimeout    = 1 * time.Second
	portSearchFailRetry  = 3 * time.Second
	originRejectedRetry  = 100 * time.Millisecond
	genericCloseRetry    = 2 * time.Second
	reconnectBackoffBase = 1 * time.Second
	reconnectBackoffCap  = 30 * time.Second
	maxReconnectAttempts = 10
)

// Client is the page-side connection manager (spec.md §4.E): it scans
// candidate ports, completes the verification handshake, dispatches
// commands from the server, and reconnects with backoff.
type Client struct {
	appPort  int
	host     PageHost
	handlers map[wire.MessageType]HandlerFunc
	dialer   *websocket.Dialer

	ring *consoleRing

	mu      sync.Mutex
	conn    *websocket.Conn
	state   ConnState
	data    *State
	stopped bool
	stopCh  chan struct{}
}

// New constructs a devbar Client against the given app port and page host.
// handlers is the command dispatch table (devbar/handlers.BuildTable()),
// injected rather than imported directly to avoid a package cycle between
// devbar and devbar/handlers.
func New(appPort int, host PageHost, handlers map[wire.MessageType]HandlerFunc) *Client {
	c := &Client{
		appPort:  appPort,
		host:     host,
		handlers: handlers,
		dialer:   websocket.DefaultDialer,
		ring:     newConsoleRing(),
		data:     newState(),
		stopCh:   make(chan struct{}),
	}
	host.OnConsole(c.recordConsole)
	return c
}

func (c *Client) recordConsole(entry wire.LogEntry) {
	c.ring.Push(entry)
}

// State returns a snapshot of the devbar's own in-memory state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *c.data
	cp.Connection = c.state
	return cp
}

// Logs returns the captured console ring.
func (c *Client) Logs() *consoleRing {
	return c.ring
}

func (c *Client) setState(s ConnState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// Run drives the connect/handshake/dispatch/reconnect loop until ctx is
// canceled or Close is called. It is meant to run in its own goroutine.
func (c *Client) Run(ctx context.Context) {
	base := c.appPort + config.PortOffset
	port := base
	attempt := 0

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stopCh:
			return
		default:
		}

		outcome := c.connectAndServe(ctx, port)
		select {
		case <-ctx.Done():
			return
		case <-c.stopCh:
			return
		default:
		}

		switch outcome.kind {
		case outcomeConnectedThenClosed:
			attempt = 0
			if outcome.closeCode == 4001 {
				port++
				c.sleep(originRejectedRetry)
			} else {
				port = base
				c.sleep(genericCloseRetry)
			}
		case outcomeAppPortMismatch:
			port++
			if port > base+maxReconnectAttempts {
				port = base
				c.sleep(portSearchFailRetry)
			}
		case outcomeDialFailed:
			attempt++
			if attempt > maxReconnectAttempts {
				c.setState(StateClosed)
				return
			}
			port = base
			c.sleep(backoffFor(attempt))
		}
	}
}

type outcomeKind int

const (
	outcomeDialFailed outcomeKind = iota
	outcomeAppPortMismatch
	outcomeConnectedThenClosed
)

type connectOutcome struct {
	kind      outcomeKind
	closeCode int
}

func backoffFor(attempt int) time.Duration {
	d := reconnectBackoffBase * time.Duration(1<<uint(attempt-1))
	if d > reconnectBackoffCap {
		d = reconnectBackoffCap
	}
	return d
}

func (c *Client) sleep(d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-c.stopCh:
	}
}

// connectAndServe dials port, completes the CONNECTING ->
// AWAITING_SERVER_INFO -> CONNECTED handshake, and serves commands until
// the socket closes.
func (c *Client) connectAndServe(ctx context.Context, port int) connectOutcome {
	c.setState(StateConnecting)

	u := url.URL{Scheme: "ws", Host: fmt.Sprintf("127.0.0.1:%d", port), Path: "/"}
	conn, _, err := c.dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return connectOutcome{kind: outcomeDialFailed}
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()
		_ = conn.Close()
	}()

	if err := conn.WriteJSON(wire.Frame{Type: wire.TypeBrowserClientReady}); err != nil {
		return connectOutcome{kind: outcomeDialFailed}
	}
	c.setState(StateAwaitingServerInfo)

	verified, mismatch := c.awaitServerInfo(conn)
	if mismatch {
		return connectOutcome{kind: outcomeAppPortMismatch}
	}
	_ = verified // both "confirmed" and "timed out, backward-compat accept" proceed identically
	c.setState(StateConnected)

	return c.serve(ctx, conn)
}

// awaitServerInfo waits up to 1s for a server-info frame. Returns
// (accepted, mismatch): mismatch means the reported appPort disagreed and
// the caller should close and try the next port; otherwise acceptance
// happens either because appPort matched/was absent, or because the timer
// fired first (backward-compat accept, spec.md §4.E).
func (c *Client) awaitServerInfo(conn *websocket.Conn) (accepted bool, mismatch bool) {
	type result struct {
		frame wire.Frame
		err   error
	}
	ch := make(chan result, 1)
	go func() {
		var f wire.Frame
		err := conn.ReadJSON(&f)
		ch <- result{f, err}
	}()

	select {
	case r := <-ch:
		if r.err != nil || r.frame.Type != wire.TypeServerInfo {
			return true, false
		}
		if r.frame.AppPort != nil && *r.frame.AppPort != c.appPort {
			return false, true
		}
		return true, false
	case <-time.After(serverInfoTimeout):
		return true, false
	}
}

// serve reads and dispatches command frames while CONNECTED, until the
// socket closes.
func (c *Client) serve(ctx context.Context, conn *websocket.Conn) connectOutcome {
	for {
		var f wire.Frame
		if err := conn.ReadJSON(&f); err != nil {
			code := websocket.CloseNoStatusReceived
			if ce, ok := err.(*websocket.CloseError); ok {
				code = ce.Code
			}
			return connectOutcome{kind: outcomeConnectedThenClosed, closeCode: code}
		}
		c.dispatch(ctx, conn, f)
	}
}

// getLogsPayload is the get-logs command's optional filters. get-logs is
// handled here directly rather than via the injected handler table: the
// captured ring is devbar's own state (spec.md §3 Devbar State), not a
// PageHost/page-level concern.
type getLogsPayload struct {
	Level    string `json:"level,omitempty"`
	Contains string `json:"contains,omitempty"`
}

func (c *Client) dispatch(ctx context.Context, conn *websocket.Conn, f wire.Frame) {
	if f.Type == wire.TypeGetLogs {
		var p getLogsPayload
		_ = json.Unmarshal(f.Data, &p)
		entries := c.ring.Snapshot(p.Level, p.Contains)
		payload, _ := json.Marshal(entries)
		_ = conn.WriteJSON(wire.Frame{
			Success:   boolPtr(true),
			Data:      payload,
			RequestID: f.RequestID,
			Timestamp: wire.NowMillis(),
		})
		return
	}

	h, ok := c.handlers[f.Type]
	if !ok {
		return
	}
	data, err := h(ctx, c.host, f.Data)
	if err != nil {
		_ = conn.WriteJSON(wire.Frame{
			Success:   boolPtr(false),
			Error:     err.Error(),
			RequestID: f.RequestID,
			Timestamp: wire.NowMillis(),
		})
		return
	}
	payload, _ := json.Marshal(data)
	_ = conn.WriteJSON(wire.Frame{
		Success:   boolPtr(true),
		Data:      payload,
		RequestID: f.RequestID,
		Timestamp: wire.NowMillis(),
	})
}

func boolPtr(b bool) *bool { return &b }

// Close is synchronous destroy: stops the run loop, closes the socket,
// detaches the page host, and empties the ring (spec.md §4.E destroy
// semantics). Safe to call more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return nil
	}
	c.stopped = true
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	close(c.stopCh)
	if conn != nil {
		_ = conn.Close()
	}
	c.ring.Clear()
	c.setState(StateClosed)
	return c.host.Close()
}
