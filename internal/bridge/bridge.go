// Package bridge implements the Connection Manager (spec.md §4.D): the
// WebSocket server that port-hunts on listen, accepts WebSocket upgrades,
// enforces localhost + expected-origin, classifies peers, and emits
// server-info. Ground: the teacher's daemon lifecycle in
// cmd/dev-console/daemon_lifecycle.go (bind-retry-or-fail on a port) and
// other_examples' wsbridge.Bridge (the session table + upgrader shape),
// generalized to the sweetlink wire protocol via internal/router.
package bridge

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sweetlink/sweetlink/internal/applog"
	"github.com/sweetlink/sweetlink/internal/config"
	"github.com/sweetlink/sweetlink/internal/peer"
	"github.com/sweetlink/sweetlink/internal/persist"
	"github.com/sweetlink/sweetlink/internal/registry"
	"github.com/sweetlink/sweetlink/internal/review"
	"github.com/sweetlink/sweetlink/internal/router"
	"github.com/sweetlink/sweetlink/internal/wire"
)

var log = applog.For("bridge")

// Name and Version are reported on the HTTP discovery document.
const (
	Name    = "sweetlink"
	Version = "0.1.0"
)

// Bridge is the single process-wide bridge value (spec.md §9's "global
// mutable state... encapsulated behind a single bridge value that can be
// created, started, closed, and re-created in tests").
type Bridge struct {
	Config   config.Config
	Registry *registry.Registry
	Persist  *persist.Persister
	Router   *router.Router

	upgrader   websocket.Upgrader
	httpServer *http.Server
	stopWatch  func()

	mu               sync.RWMutex
	peers            map[string]*peer.Peer
	preferredBrowser *peer.Peer

	startedAt time.Time
}

// New constructs a Bridge wired to the given config, without starting any
// network listener. Review may be nil, in which case review.Default{} is
// used.
func New(cfg config.Config, rv review.Provider) (*Bridge, error) {
	p, err := persist.New(cfg.ProjectRoot)
	if err != nil {
		return nil, err
	}
	if rv == nil {
		rv = review.Default{}
	}

	b := &Bridge{
		Config:   cfg,
		Registry: registry.New(),
		Persist:  p,
		peers:    make(map[string]*peer.Peer),
	}
	b.Router = router.New(b.Registry, b.Persist, cfg, b, rv)
	b.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		// Origin is enforced after the handshake completes, in
		// handleUpgrade, so a rejected origin can be closed with WS code
		// 4001 instead of failing the HTTP handshake with a bare 403
		// (spec.md §4.D, Testable Property 2).
		CheckOrigin: func(*http.Request) bool { return true },
	}
	return b, nil
}

// PreferredBrowser implements router.PeerSource: the first browser peer to
// connect remains preferred for forwarding until it disconnects (spec.md
// invariant 3; SPEC_FULL.md §9 Open Question #1).
func (b *Bridge) PreferredBrowser() *peer.Peer {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.preferredBrowser
}

// ConnectedClients reports the current peer count, for the HTTP discovery
// document.
func (b *Bridge) ConnectedClients() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.peers)
}

// Uptime reports how long the bridge has been listening.
func (b *Bridge) Uptime() time.Duration {
	if b.startedAt.IsZero() {
		return 0
	}
	return time.Since(b.startedAt)
}

func (b *Bridge) addPeer(p *peer.Peer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.peers[p.ID] = p
}

// promoteIfBrowser records p as the preferred browser peer the first time
// any peer promotes itself, matching invariant 3 (first browser wins).
func (b *Bridge) promoteIfBrowser(p *peer.Peer) {
	if p.Kind() != peer.KindBrowser {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.preferredBrowser == nil {
		b.preferredBrowser = p
	}
}

// startSettingsWatch republishes settings.json to every connected peer
// whenever it is written on disk: by a hand edit, by a second bridge
// instance sharing the project root, or by this bridge's own save-settings
// handler (the watcher does not tell these apart). Ground:
// SPEC_FULL.md's fsnotify wiring note; this is pure enrichment, a
// settings-loaded frame a peer never asked for is harmless to ignore.
func (b *Bridge) startSettingsWatch() {
	stop, err := b.Persist.WatchSettings(b.broadcastSettings)
	if err != nil {
		log.Warnf("settings watch: %v", err)
		return
	}
	b.stopWatch = stop
}

func (b *Bridge) broadcastSettings(settings json.RawMessage) {
	frame := wire.Frame{Type: wire.TypeSettingsLoaded, Success: boolPtr(true), Data: settings, Timestamp: wire.NowMillis()}
	encoded, err := json.Marshal(frame)
	if err != nil {
		log.Errorf("encode settings-loaded broadcast: %v", err)
		return
	}

	b.mu.RLock()
	peers := make([]*peer.Peer, 0, len(b.peers))
	for _, p := range b.peers {
		peers = append(peers, p)
	}
	b.mu.RUnlock()

	for _, p := range peers {
		if !p.IsOpen() {
			continue
		}
		if err := p.SendRaw(encoded); err != nil {
			log.Warnf("settings-loaded broadcast to %s: %v", p.ID, err)
		}
	}
}

func boolPtr(v bool) *bool { return &v }

func (b *Bridge) removePeer(p *peer.Peer) {
	b.mu.Lock()
	if b.preferredBrowser == p {
		b.preferredBrowser = nil
	}
	delete(b.peers, p.ID)
	b.mu.Unlock()

	b.Registry.Sweep(p)
	b.Router.OnDisconnect(p)
}

// Shutdown closes every peer socket, then the HTTP/WebSocket layer,
// releasing the port before returning (spec.md §4.D).
func (b *Bridge) Shutdown(ctx context.Context) error {
	if b.stopWatch != nil {
		b.stopWatch()
	}

	b.mu.Lock()
	peers := make([]*peer.Peer, 0, len(b.peers))
	for _, p := range b.peers {
		peers = append(peers, p)
	}
	b.mu.Unlock()

	for _, p := range peers {
		_ = p.Close(websocket.CloseNormalClosure, "bridge shutting down")
	}

	if b.httpServer == nil {
		return nil
	}
	return b.httpServer.Shutdown(ctx)
}
