package bridge

import (
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/sweetlink/sweetlink/internal/peer"
)

// isLocalOrigin implements the WebSocket upgrade's origin rule (spec.md
// §4.D, Testable Property 2): a present Origin must start with
// http://localhost: or http://127.0.0.1:. A missing Origin header is
// allowed (non-browser CLI clients don't send one) and is checked for
// separately in handleUpgrade.
func isLocalOrigin(origin string) bool {
	return strings.HasPrefix(origin, "http://localhost:") || strings.HasPrefix(origin, "http://127.0.0.1:")
}

// compatibilityMode reports whether origin is localhost but on a port that
// differs from the configured appPort — the "log a warning but accept"
// case (spec.md §4.D).
func (b *Bridge) compatibilityMode(origin string) bool {
	if origin == "" || !isLocalOrigin(origin) {
		return false
	}
	port := originPort(origin)
	return port != 0 && port != b.Config.AppPort
}

func originPort(origin string) int {
	u, err := url.Parse(origin)
	if err != nil {
		return 0
	}
	_, portStr, err := net.SplitHostPort(u.Host)
	if err != nil {
		return 0
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0
	}
	return port
}

// handleUpgrade completes a WebSocket upgrade, enforces the origin rule,
// classifies the new peer as cli, and starts its read pump (spec.md
// §4.D). The upgrader's own CheckOrigin always accepts, so the handshake
// completes regardless of Origin; a rejected origin is then closed with
// WS code 4001 (Testable Property 2, scenario S6) rather than failed at
// the HTTP layer with a bare 403.
func (b *Bridge) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")

	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warnf("upgrade failed: %v", err)
		return
	}

	if origin != "" && !isLocalOrigin(origin) {
		msg := websocket.FormatCloseMessage(peer.CloseOriginRejected, "origin rejected")
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(2*time.Second))
		_ = conn.Close()
		return
	}

	if b.compatibilityMode(origin) {
		log.Warnf("accepting origin %q on a port different from configured appPort %d (compatibility mode)", origin, b.Config.AppPort)
	}

	id := r.RemoteAddr
	if id == "" {
		id = uuid.NewString()
	}
	p := peer.New(id, origin, conn)
	b.addPeer(p)
	go b.readPump(p)
}
