package registry

import "github.com/sweetlink/sweetlink/internal/peer"

// Registry bundles the three tables spec.md §4.B describes and implements
// the disconnect sweep across all of them.
type Registry struct {
	Pending *PendingTable
	Channels *ChannelTable
	LogSubs *LogSubTable
}

// New constructs an empty Registry.
func New() *Registry {
	return &Registry{
		Pending:  NewPendingTable(),
		Channels: NewChannelTable(),
		LogSubs:  NewLogSubTable(),
	}
}

// Sweep removes p from all three tables: its pending requests, its channel
// memberships, and its log subscriptions (spec.md §4.B).
func (r *Registry) Sweep(p *peer.Peer) {
	r.Pending.SweepPeer(p)
	r.Channels.SweepPeer(p)
	r.LogSubs.SweepPeer(p)
}
