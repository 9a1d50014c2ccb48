package registry

import (
	"regexp"
	"sync"

	"github.com/sweetlink/sweetlink/internal/applog"
	"github.com/sweetlink/sweetlink/internal/peer"
	"github.com/sweetlink/sweetlink/internal/wire"
)

var logSubLog = applog.For("registry.logsubs")

// LogSubscription is one filtered log stream a CLI peer has asked for.
type LogSubscription struct {
	ID      string
	Peer    *peer.Peer
	Filters wire.LogFilters

	compiled *regexp.Regexp // nil if no pattern, or if the pattern failed the guard
}

// LogSubTable tracks log subscriptions keyed by subscriptionId.
type LogSubTable struct {
	mu   sync.Mutex
	subs map[string]*LogSubscription
}

// NewLogSubTable constructs an empty table.
func NewLogSubTable() *LogSubTable {
	return &LogSubTable{subs: make(map[string]*LogSubscription)}
}

// Subscribe registers a new filtered log stream. A pattern that fails the
// ReDoS guard is not rejected outright — per spec.md §4.B, the subscription
// is still created but its pattern filter is treated as never-matching for
// that event rather than dropping the whole log frame.
func (t *LogSubTable) Subscribe(id string, p *peer.Peer, filters wire.LogFilters) {
	sub := &LogSubscription{ID: id, Peer: p, Filters: filters}
	if filters.Pattern != "" {
		re, err := CompileGuarded(filters.Pattern)
		if err != nil {
			logSubLog.Warnf("subscription %s: %v", id, err)
		} else {
			sub.compiled = re
		}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.subs[id] = sub
}

// Unsubscribe removes a subscription by id.
func (t *LogSubTable) Unsubscribe(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.subs, id)
}

// SweepPeer removes every subscription owned by p.
func (t *LogSubTable) SweepPeer(p *peer.Peer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, sub := range t.subs {
		if sub.Peer == p {
			delete(t.subs, id)
		}
	}
}

// Matching returns the snapshot of subscriptions whose filters all match
// entry (spec.md Testable Property 5: delivered iff every provided filter
// matches; unspecified filters match anything).
func (t *LogSubTable) Matching(entry wire.LogEntry) []*LogSubscription {
	t.mu.Lock()
	defer t.mu.Unlock()
	var hits []*LogSubscription
	for _, sub := range t.subs {
		if matches(sub, entry) {
			hits = append(hits, sub)
		}
	}
	return hits
}

func matches(sub *LogSubscription, entry wire.LogEntry) bool {
	if len(sub.Filters.Levels) > 0 {
		found := false
		for _, lvl := range sub.Filters.Levels {
			if lvl == entry.Level {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if sub.Filters.Pattern != "" {
		if sub.compiled == nil || !sub.compiled.MatchString(entry.Message) {
			return false
		}
	}
	if sub.Filters.Source != "" && sub.Filters.Source != entry.Source {
		return false
	}
	return true
}

// Len reports the number of active subscriptions (test/diagnostic use).
func (t *LogSubTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.subs)
}
