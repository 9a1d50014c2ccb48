// Package peer models a single connected WebSocket socket: its stable id,
// classification (cli/browser), and the lifecycle/promotion rules from
// spec.md §3's Peer invariants. Ground: the teacher's Server struct
// (internal/server/main_handlers.go) for the "one mutex-guarded struct per
// connection" shape, generalized from a single shared log buffer to one
// struct per socket.
package peer

import (
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// inboundRateLimit and inboundBurst bound a single peer's inbound frame
// rate (SPEC_FULL.md §4.D): a misbehaving or flooding peer is throttled
// rather than allowed to starve every other peer's share of the router.
const (
	inboundRateLimit = 50 // frames/sec, sustained
	inboundBurst     = 100
)

// Kind is a peer's classification. Exactly one of these at any time
// (invariant 1).
type Kind int32

const (
	KindCLI Kind = iota
	KindBrowser
)

func (k Kind) String() string {
	if k == KindBrowser {
		return "browser"
	}
	return "cli"
}

// Peer is a connected socket. It is created on WebSocket upgrade and
// destroyed on close/error; promotion to KindBrowser happens at most once.
type Peer struct {
	ID     string
	Origin string

	conn *websocket.Conn

	kind   atomic.Int32 // Kind
	closed atomic.Bool

	writeMu sync.Mutex

	limiter *rate.Limiter
}

// New wraps an upgraded WebSocket connection as a freshly classified CLI
// peer (the initial classification per spec.md §3).
func New(id, origin string, conn *websocket.Conn) *Peer {
	p := &Peer{ID: id, Origin: origin, conn: conn}
	p.kind.Store(int32(KindCLI))
	p.limiter = rate.NewLimiter(rate.Limit(inboundRateLimit), inboundBurst)
	return p
}

// Allow reports whether the peer may send another inbound frame right now,
// draining one token from its per-connection bucket. The read pump calls
// this before dispatching each frame.
func (p *Peer) Allow() bool {
	return p.limiter.Allow()
}

// Kind returns the peer's current classification.
func (p *Peer) Kind() Kind {
	return Kind(p.kind.Load())
}

// PromoteToBrowser classifies the peer as a browser peer. It is idempotent:
// calling it more than once (e.g. a duplicate browser-client-ready) is a
// no-op on the second call, preserving "promotion happens at most once".
func (p *Peer) PromoteToBrowser() (promoted bool) {
	return p.kind.CompareAndSwap(int32(KindCLI), int32(KindBrowser))
}

// IsOpen reports whether the underlying socket is still usable. Handlers
// must re-check this before sending, since the peer may have disconnected
// while the handler was suspended on I/O (spec.md §5).
func (p *Peer) IsOpen() bool {
	return !p.closed.Load()
}

// MarkClosed flags the peer as no longer live. Safe to call multiple times.
func (p *Peer) MarkClosed() {
	p.closed.Store(true)
}

// Send writes a JSON-encodable value as a single text frame. Safe for
// concurrent use (gorilla/websocket requires serialized writes per
// connection).
func (p *Peer) Send(v any) error {
	if !p.IsOpen() {
		return ErrClosed
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return p.SendRaw(data)
}

// SendRaw writes pre-encoded bytes as a single text frame, used by the
// router to forward frames byte-for-byte without re-encoding.
func (p *Peer) SendRaw(data []byte) error {
	if !p.IsOpen() {
		return ErrClosed
	}
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	return p.conn.WriteMessage(websocket.TextMessage, data)
}

// ReadMessage reads the next text frame from the peer.
func (p *Peer) ReadMessage() ([]byte, error) {
	_, data, err := p.conn.ReadMessage()
	return data, err
}

// Close closes the underlying socket with the given WebSocket close code.
func (p *Peer) Close(code int, reason string) error {
	p.MarkClosed()
	msg := websocket.FormatCloseMessage(code, reason)
	_ = p.conn.WriteControl(websocket.CloseMessage, msg, deadlineNow())
	return p.conn.Close()
}

// ErrClosed is returned by Send/SendRaw once the peer has been marked closed.
var ErrClosed = closedError{}

type closedError struct{}

func (closedError) Error() string { return "peer: connection closed" }
