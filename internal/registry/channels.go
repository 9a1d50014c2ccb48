package registry

import (
	"sync"

	"github.com/sweetlink/sweetlink/internal/peer"
)

// ChannelTable maps a channel name to an ordered list of subscribed peers.
// A slice (not a map) backs each channel specifically to keep
// insertion-order iteration observable, per spec.md §3/§5.
type ChannelTable struct {
	mu       sync.Mutex
	channels map[string][]*peer.Peer
}

// NewChannelTable constructs an empty table.
func NewChannelTable() *ChannelTable {
	return &ChannelTable{channels: make(map[string][]*peer.Peer)}
}

// Subscribe adds p to channel's subscriber list if not already present.
func (t *ChannelTable) Subscribe(channel string, p *peer.Peer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	list := t.channels[channel]
	for _, existing := range list {
		if existing == p {
			return
		}
	}
	t.channels[channel] = append(list, p)
}

// Unsubscribe removes p from channel's subscriber list.
func (t *ChannelTable) Unsubscribe(channel string, p *peer.Peer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.removeLocked(channel, p)
}

// Broadcast delivers payload to every live subscriber of channel, in
// insertion order, eliding dead sockets (and splicing them out so the next
// broadcast doesn't re-check them).
func (t *ChannelTable) Broadcast(channel string, payload any) {
	t.mu.Lock()
	list := append([]*peer.Peer(nil), t.channels[channel]...)
	t.mu.Unlock()

	var dead []*peer.Peer
	for _, p := range list {
		if !p.IsOpen() {
			dead = append(dead, p)
			continue
		}
		if err := p.Send(payload); err != nil {
			dead = append(dead, p)
		}
	}
	if len(dead) == 0 {
		return
	}
	t.mu.Lock()
	for _, p := range dead {
		t.removeLocked(channel, p)
	}
	t.mu.Unlock()
}

// SweepPeer removes p from every channel it subscribed to.
func (t *ChannelTable) SweepPeer(p *peer.Peer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for channel := range t.channels {
		t.removeLocked(channel, p)
	}
}

// removeLocked splices p out of channel's list. Caller must hold t.mu.
func (t *ChannelTable) removeLocked(channel string, p *peer.Peer) {
	list := t.channels[channel]
	for i, existing := range list {
		if existing == p {
			next := make([]*peer.Peer, 0, len(list)-1)
			next = append(next, list[:i]...)
			next = append(next, list[i+1:]...)
			if len(next) == 0 {
				delete(t.channels, channel)
			} else {
				t.channels[channel] = next
			}
			return
		}
	}
}

// Subscribers returns a snapshot of channel's current subscriber list, for
// tests and diagnostics.
func (t *ChannelTable) Subscribers(channel string) []*peer.Peer {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*peer.Peer(nil), t.channels[channel]...)
}
