package router

import (
	"github.com/sweetlink/sweetlink/internal/peer"
	"github.com/sweetlink/sweetlink/internal/wire"
)

// forward implements the "forward" outcome: a CLI->browser request whose
// type has no matched handler is sent byte-for-byte to the single
// preferred browser peer, and the sender is registered as that browser's
// reply target (spec.md §4.C outcome 2).
func (rt *Router) forward(from *peer.Peer, raw []byte) {
	browser := rt.Peers.PreferredBrowser()
	if browser == nil || !browser.IsOpen() {
		_ = from.Send(wire.Fail("No browser client connected"))
		return
	}

	rt.forwardMu.Lock()
	rt.cliClientMap[browser] = from
	rt.forwardMu.Unlock()

	if err := browser.SendRaw(raw); err != nil {
		rt.forwardMu.Lock()
		delete(rt.cliClientMap, browser)
		rt.forwardMu.Unlock()
		_ = from.Send(wire.Fail("No browser client connected"))
	}
}

// deliverReply implements the reply half of outcome 2: any message from
// the browser peer that didn't match a handler is a reply to whatever was
// last forwarded to it, and is delivered to the registered CLI peer only
// (invariant 5), preserving the raw bytes.
func (rt *Router) deliverReply(browser *peer.Peer, raw []byte) {
	rt.forwardMu.Lock()
	cli, ok := rt.cliClientMap[browser]
	if ok {
		delete(rt.cliClientMap, browser)
	}
	rt.forwardMu.Unlock()

	if !ok || cli == nil || !cli.IsOpen() {
		return
	}
	_ = cli.SendRaw(raw)
}
