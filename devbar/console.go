package devbar

import (
	"strings"
	"sync"

	"github.com/sweetlink/sweetlink/internal/wire"
)

// ringCapacity is the bounded capacity of the captured-log ring (spec.md
// §4.E, Testable Property 6).
const ringCapacity = 500

// consoleRing is a bounded FIFO of captured console events, oldest evicted
// first. Ground: the teacher's ClientRegistry cursor/eviction bookkeeping
// in cmd/dev-console/client_registry.go, repurposed from a multi-client
// cursor table to a single capture ring.
type consoleRing struct {
	mu         sync.Mutex
	entries    []wire.LogEntry
	errorCount int
	warnCount  int
}

func newConsoleRing() *consoleRing {
	return &consoleRing{entries: make([]wire.LogEntry, 0, ringCapacity)}
}

// Push appends entry, evicting the oldest if the ring is at capacity.
func (r *consoleRing) Push(entry wire.LogEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch entry.Level {
	case wire.LevelError:
		r.errorCount++
	case wire.LevelWarn:
		r.warnCount++
	}

	if len(r.entries) >= ringCapacity {
		r.entries = append(r.entries[1:], entry)
		return
	}
	r.entries = append(r.entries, entry)
}

// Snapshot returns the current entries, optionally filtered by level and a
// message substring, in insertion order (spec.md §4.E get-logs).
func (r *consoleRing) Snapshot(level string, contains string) []wire.LogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]wire.LogEntry, 0, len(r.entries))
	for _, e := range r.entries {
		if level != "" && string(e.Level) != level {
			continue
		}
		if contains != "" && !containsSubstring(e.Message, contains) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Counts returns the error/warning counters tracked alongside the ring.
func (r *consoleRing) Counts() (errors, warnings int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.errorCount, r.warnCount
}

// Len reports the current ring length (Testable Property 6: min(N, 500)).
func (r *consoleRing) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Clear empties the ring (part of destroy semantics, spec.md §4.E).
func (r *consoleRing) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = r.entries[:0]
	r.errorCount = 0
	r.warnCount = 0
}

func containsSubstring(haystack, needle string) bool {
	return needle == "" || strings.Contains(haystack, needle)
}
