package registry

import (
	"testing"

	"github.com/sweetlink/sweetlink/internal/peer"
	"github.com/sweetlink/sweetlink/internal/wire"
)

func TestLogSubTable_FiltersAllMustMatch(t *testing.T) {
	tbl := NewLogSubTable()
	p := &peer.Peer{}
	tbl.Subscribe("s1", p, wire.LogFilters{
		Levels:  []wire.LogLevel{wire.LevelError},
		Pattern: "TypeError",
	})

	// S5 scenario: wrong level, dropped.
	hits := tbl.Matching(wire.LogEntry{Level: wire.LevelWarn, Message: "TypeError x"})
	if len(hits) != 0 {
		t.Error("wrong level should not match")
	}

	// S5 scenario: matching level and pattern, delivered.
	hits = tbl.Matching(wire.LogEntry{Level: wire.LevelError, Message: "TypeError y"})
	if len(hits) != 1 {
		t.Fatalf("expected exactly one match, got %d", len(hits))
	}
	if hits[0].ID != "s1" {
		t.Errorf("got subscription %q", hits[0].ID)
	}
}

func TestLogSubTable_UnspecifiedFiltersMatchAnything(t *testing.T) {
	tbl := NewLogSubTable()
	p := &peer.Peer{}
	tbl.Subscribe("s1", p, wire.LogFilters{})

	hits := tbl.Matching(wire.LogEntry{Level: wire.LevelInfo, Message: "anything at all"})
	if len(hits) != 1 {
		t.Error("a subscription with no filters should match every entry")
	}
}

func TestLogSubTable_SourceFilter(t *testing.T) {
	tbl := NewLogSubTable()
	p := &peer.Peer{}
	tbl.Subscribe("s1", p, wire.LogFilters{Source: "app.js"})

	if len(tbl.Matching(wire.LogEntry{Source: "other.js"})) != 0 {
		t.Error("mismatched source should not match")
	}
	if len(tbl.Matching(wire.LogEntry{Source: "app.js"})) != 1 {
		t.Error("matching source should match")
	}
}

func TestLogSubTable_BadPatternNeverDelivers(t *testing.T) {
	tbl := NewLogSubTable()
	p := &peer.Peer{}
	// Banned shape: guard rejects it, subscription still exists but its
	// pattern filter never matches.
	tbl.Subscribe("s1", p, wire.LogFilters{Pattern: "(.*)+"})

	if tbl.Len() != 1 {
		t.Fatal("subscription with a rejected pattern must still be created")
	}
	if len(tbl.Matching(wire.LogEntry{Message: "anything"})) != 0 {
		t.Error("a subscription whose pattern failed the guard must never deliver")
	}
}

func TestLogSubTable_SweepAndUnsubscribe(t *testing.T) {
	tbl := NewLogSubTable()
	p := &peer.Peer{}
	tbl.Subscribe("s1", p, wire.LogFilters{})
	tbl.Subscribe("s2", p, wire.LogFilters{})
	tbl.Unsubscribe("s1")
	if tbl.Len() != 1 {
		t.Errorf("expected 1 after unsubscribe, got %d", tbl.Len())
	}
	tbl.SweepPeer(p)
	if tbl.Len() != 0 {
		t.Errorf("expected 0 after sweep, got %d", tbl.Len())
	}
}
