// Package router implements the Message Router & Dispatch component
// (spec.md §4.C): parse one framed JSON message, run a type-specific
// handler, else forward between the CLI peer and the single preferred
// browser peer. Ground: the teacher's per-route HTTP handler table in
// cmd/dev-console/handler.go, generalized from HTTP verbs to WS message
// types, and other_examples' wsbridge.Bridge (command/response
// correlation over a single upgraded socket) for the forward/reply path.
package router

import (
	"encoding/json"
	"sync"

	"github.com/sweetlink/sweetlink/internal/applog"
	"github.com/sweetlink/sweetlink/internal/config"
	"github.com/sweetlink/sweetlink/internal/peer"
	"github.com/sweetlink/sweetlink/internal/persist"
	"github.com/sweetlink/sweetlink/internal/registry"
	"github.com/sweetlink/sweetlink/internal/review"
	"github.com/sweetlink/sweetlink/internal/wire"
)

var log = applog.For("router")

// PeerSource is the bridge-side view the router needs: which browser peer
// is currently preferred for forwarding (spec.md invariant 3).
type PeerSource interface {
	PreferredBrowser() *peer.Peer
}

// HandlerFunc fully processes a matched message type and replies to from
// itself (the handler owns the entire request/response exchange for its
// type).
type HandlerFunc func(rt *Router, from *peer.Peer, raw []byte, f wire.Frame)

// Router dispatches one frame at a time per spec.md §4.C's three outcomes:
// matched handler, forward, or reject.
type Router struct {
	Registry  *registry.Registry
	Persist   *persist.Persister
	Config    config.Config
	Peers     PeerSource
	Review    review.Provider

	handlers map[wire.MessageType]HandlerFunc

	forwardMu sync.Mutex
	// cliClientMap records, for the browser peer currently awaiting a reply,
	// which CLI peer originated the forwarded request. Cleared after
	// delivering a reply, or on either side's disconnect (spec.md §9).
	cliClientMap map[*peer.Peer]*peer.Peer
}

// New constructs a Router wired to its collaborators and builds the
// handler table once.
func New(reg *registry.Registry, p *persist.Persister, cfg config.Config, peers PeerSource, rv review.Provider) *Router {
	rt := &Router{
		Registry:     reg,
		Persist:      p,
		Config:       cfg,
		Peers:        peers,
		Review:       rv,
		cliClientMap: make(map[*peer.Peer]*peer.Peer),
	}
	rt.handlers = buildHandlerTable()
	return rt
}

// Dispatch parses one frame and runs exactly one outcome: matched handler,
// forward, or reject (spec.md §4.C). A frame that isn't valid JSON, or
// isn't a JSON object, is a BadFrame: a generic failure is echoed to the
// sender and nothing else happens.
func (rt *Router) Dispatch(from *peer.Peer, raw []byte) {
	var f wire.Frame
	if err := json.Unmarshal(raw, &f); err != nil || len(raw) == 0 {
		log.Warnf("bad frame from %s: %v", from.ID, err)
		_ = from.Send(wire.Fail("malformed message"))
		return
	}

	if f.Type != "" {
		switch f.Type {
		case wire.TypeSaveScreenshot, wire.TypeDesignReviewScreenshot, wire.TypeSaveOutline, wire.TypeSaveSchema,
			wire.TypeSaveConsoleLogs, wire.TypeSaveA11y, wire.TypeSaveSettings, wire.TypeLoadSettings:
			// Persister-bound frames are handled only for a promoted browser
			// peer; from any other peer they take the forward arm, so nothing
			// is persisted on its behalf.
			if from.Kind() != peer.KindBrowser {
				rt.forward(from, raw)
				return
			}
		}
		if h, ok := rt.handlers[f.Type]; ok {
			h(rt, from, raw, f)
			return
		}
	}

	// Unmatched type: either a reply from the browser peer to a previously
	// forwarded CLI request, or a fresh CLI->browser request to forward.
	if from.Kind() == peer.KindBrowser {
		rt.deliverReply(from, raw)
		return
	}
	rt.forward(from, raw)
}

// OnDisconnect clears a disconnected peer out of every table the router
// owns directly (the subscription registry's own sweep is invoked by the
// connection manager alongside this).
func (rt *Router) OnDisconnect(p *peer.Peer) {
	rt.forwardMu.Lock()
	defer rt.forwardMu.Unlock()
	delete(rt.cliClientMap, p)
	for browser, cli := range rt.cliClientMap {
		if cli == p {
			delete(rt.cliClientMap, browser)
		}
	}
}

func buildHandlerTable() map[wire.MessageType]HandlerFunc {
	return map[wire.MessageType]HandlerFunc{
		wire.TypeBrowserClientReady:     handleBrowserClientReady,
		wire.TypeCheckAPIKey:            handleCheckAPIKey,
		wire.TypeSaveScreenshot:         handleSaveScreenshot,
		wire.TypeDesignReviewScreenshot: handleDesignReviewScreenshot,
		wire.TypeSaveOutline:            handleSaveOutline,
		wire.TypeSaveSchema:             handleSaveSchema,
		wire.TypeSaveConsoleLogs:        handleSaveConsoleLogs,
		wire.TypeSaveA11y:               handleSaveA11y,
		wire.TypeSaveSettings:           handleSaveSettings,
		wire.TypeLoadSettings:           handleLoadSettings,
		wire.TypeRequestScreenshot:      handleRequestScreenshot,
		wire.TypeScreenshotResponse:     handleScreenshotResponse,
		wire.TypeSubscribe:              handleSubscribe,
		wire.TypeUnsubscribe:            handleUnsubscribe,
		wire.TypeHMRScreenshot:          handleHMRScreenshot,
		wire.TypeLogSubscribe:           handleLogSubscribe,
		wire.TypeLogUnsubscribe:         handleLogUnsubscribe,
		wire.TypeLogEvent:               handleLogEvent,
	}
}
