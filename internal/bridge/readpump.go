package bridge

import (
	"github.com/sweetlink/sweetlink/internal/peer"
)

// readPump is the one goroutine per connection that reads p's frames and
// dispatches them into the router in arrival order (spec.md §5's
// within-peer ordering guarantee). It runs until the socket closes or
// errors, then sweeps p out of every table.
func (b *Bridge) readPump(p *peer.Peer) {
	defer b.removePeer(p)
	defer p.MarkClosed()

	for {
		data, err := p.ReadMessage()
		if err != nil {
			return
		}
		if !p.Allow() {
			log.Warnf("peer %s exceeded inbound frame rate, dropping frame", p.ID)
			continue
		}
		b.Router.Dispatch(p, data)
		b.promoteIfBrowser(p)
	}
}
