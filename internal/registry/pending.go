package registry

import (
	"sync"
	"time"

	"github.com/sweetlink/sweetlink/internal/peer"
)

// ScreenshotTimeout is how long a request-screenshot RPC waits for a
// matching screenshot-response before the bridge synthesizes a failure
// (spec.md §4.B / §5).
const ScreenshotTimeout = 30 * time.Second

// PendingScreenshot is one in-flight request-screenshot RPC.
type PendingScreenshot struct {
	RequestID string
	Origin    *peer.Peer
	timer     *time.Timer
}

// PendingTable tracks in-flight screenshot RPCs keyed by requestId
// (invariant 2: a requestId appears at most once; removed before any reply
// is sent).
type PendingTable struct {
	mu      sync.Mutex
	entries map[string]*PendingScreenshot
	timeout time.Duration
}

// NewPendingTable constructs an empty table using the spec's 30s timeout.
func NewPendingTable() *PendingTable {
	return NewPendingTableWithTimeout(ScreenshotTimeout)
}

// NewPendingTableWithTimeout constructs an empty table with an injected
// timeout, the seam tests use to exercise the timeout-synthesized-failure
// path (spec.md §8 scenario S3) without sleeping 30s.
func NewPendingTableWithTimeout(timeout time.Duration) *PendingTable {
	return &PendingTable{
		entries: make(map[string]*PendingScreenshot),
		timeout: timeout,
	}
}

// Add registers a new pending request. onTimeout fires if no matching
// screenshot-response arrives within the table's timeout (ScreenshotTimeout
// unless injected); per spec.md §9 Open Question #3, a reused requestId
// silently overwrites the previous entry rather than erroring: the older
// entry's timer is stopped, so its onTimeout never runs.
func (t *PendingTable) Add(requestID string, origin *peer.Peer, onTimeout func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if existing, ok := t.entries[requestID]; ok && existing.timer != nil {
		existing.timer.Stop()
	}

	entry := &PendingScreenshot{RequestID: requestID, Origin: origin}
	entry.timer = time.AfterFunc(t.timeout, func() {
		if t.remove(requestID) {
			onTimeout()
		}
	})
	t.entries[requestID] = entry
}

// Complete removes and returns the pending entry for requestID, cancelling
// its timeout timer first. Returns (nil, false) if no such entry exists
// (e.g. a late screenshot-response for an already-timed-out or unknown
// requestId, which must be silently dropped per spec.md §5).
func (t *PendingTable) Complete(requestID string) (*PendingScreenshot, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.entries[requestID]
	if !ok {
		return nil, false
	}
	if entry.timer != nil {
		entry.timer.Stop()
		entry.timer = nil
	}
	delete(t.entries, requestID)
	return entry, true
}

// remove deletes the entry if still present, returning whether it did.
// Used by the timeout callback, which must not fire a duplicate onTimeout
// if Complete already raced it.
func (t *PendingTable) remove(requestID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.entries[requestID]; !ok {
		return false
	}
	delete(t.entries, requestID)
	return true
}

// SweepPeer removes every pending request originated by p and stops its
// timer. The onTimeout callbacks are not run: the origin is gone, so no
// synthetic failure is sent and the entries are simply dropped.
func (t *PendingTable) SweepPeer(p *peer.Peer) {
	t.mu.Lock()
	var toCancel []*PendingScreenshot
	for id, entry := range t.entries {
		if entry.Origin == p {
			if entry.timer != nil {
				entry.timer.Stop()
			}
			toCancel = append(toCancel, entry)
			delete(t.entries, id)
		}
	}
	t.mu.Unlock()
	_ = toCancel
}

// Len reports how many requests are currently pending (test/diagnostic use).
func (t *PendingTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
