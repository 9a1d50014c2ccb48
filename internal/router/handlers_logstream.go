package router

import (
	"encoding/json"

	"github.com/sweetlink/sweetlink/internal/peer"
	"github.com/sweetlink/sweetlink/internal/wire"
)

func handleLogSubscribe(rt *Router, from *peer.Peer, _ []byte, f wire.Frame) {
	if f.SubscriptionID == "" {
		_ = from.Send(wire.Fail("log-subscribe requires a subscriptionId"))
		return
	}
	var filters wire.LogFilters
	if f.Filters != nil {
		filters = *f.Filters
	}
	rt.Registry.LogSubs.Subscribe(f.SubscriptionID, from, filters)
	_ = from.Send(wire.Frame{Type: wire.TypeLogSubscribed, Success: boolPtr(true), SubscriptionID: f.SubscriptionID, Timestamp: wire.NowMillis()})
}

func handleLogUnsubscribe(rt *Router, from *peer.Peer, _ []byte, f wire.Frame) {
	if f.SubscriptionID == "" {
		_ = from.Send(wire.Fail("log-unsubscribe requires a subscriptionId"))
		return
	}
	rt.Registry.LogSubs.Unsubscribe(f.SubscriptionID)
	_ = from.Send(wire.Frame{Type: wire.TypeLogUnsubscribed, Success: boolPtr(true), SubscriptionID: f.SubscriptionID, Timestamp: wire.NowMillis()})
}

// handleLogEvent is the browser push leg: evaluate every log subscription's
// filters against the entry and forward to live, matching subscribers only
// (spec.md §4.C, scenario S5). The pushing peer gets no ack; log-event is
// fire-and-forget streaming, unlike the hmr-screenshot/save-* family.
func handleLogEvent(rt *Router, _ *peer.Peer, _ []byte, f wire.Frame) {
	var entry wire.LogEntry
	if err := json.Unmarshal(f.Data, &entry); err != nil {
		return
	}

	out := wire.Frame{Type: wire.TypeLogEvent, Data: f.Data, Timestamp: wire.NowMillis()}
	for _, sub := range rt.Registry.LogSubs.Matching(entry) {
		if sub.Peer == nil || !sub.Peer.IsOpen() {
			continue
		}
		_ = sub.Peer.Send(out)
	}
}
