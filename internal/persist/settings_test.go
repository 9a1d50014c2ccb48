package persist

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSettings_LoadOnFreshRootReturnsDefaults(t *testing.T) {
	p, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := p.LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings on fresh root returned error: %v", err)
	}
	if string(got) != "{}" {
		t.Fatalf("expected default {} settings, got %q", got)
	}
}

func TestSettings_SaveThenLoadRoundTrips(t *testing.T) {
	p, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	in := json.RawMessage(`{"theme":"dark","autoRefresh":true,"port":3000}`)
	if err := p.SaveSettings(in); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}

	out, err := p.LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}

	var wantMap, gotMap map[string]any
	if err := json.Unmarshal(in, &wantMap); err != nil {
		t.Fatalf("unmarshal want: %v", err)
	}
	if err := json.Unmarshal(out, &gotMap); err != nil {
		t.Fatalf("unmarshal got: %v", err)
	}
	if len(wantMap) != len(gotMap) {
		t.Fatalf("field count mismatch: want %v got %v", wantMap, gotMap)
	}
	for k, v := range wantMap {
		gv, ok := gotMap[k]
		if !ok {
			t.Fatalf("missing field %q after round trip", k)
		}
		if v != gv {
			t.Fatalf("field %q: want %v got %v", k, v, gv)
		}
	}
}

func TestSettings_SaveLeavesNoTempFileBehind(t *testing.T) {
	root := t.TempDir()
	p, err := New(root)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := p.SaveSettings(json.RawMessage(`{"a":1}`)); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(root, dirState))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if e.Name() != "settings.json" {
			t.Fatalf("unexpected leftover entry %q, expected only settings.json", e.Name())
		}
	}
}

func TestSettings_SecondSaveOverwritesFirst(t *testing.T) {
	p, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := p.SaveSettings(json.RawMessage(`{"v":1}`)); err != nil {
		t.Fatalf("first SaveSettings: %v", err)
	}
	if err := p.SaveSettings(json.RawMessage(`{"v":2}`)); err != nil {
		t.Fatalf("second SaveSettings: %v", err)
	}

	out, err := p.LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(out, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m["v"] != float64(2) {
		t.Fatalf("expected overwritten value 2, got %v", m["v"])
	}
}

func TestSettings_WatchFiresOnExternalWrite(t *testing.T) {
	p, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	changed := make(chan json.RawMessage, 1)
	stop, err := p.WatchSettings(func(s json.RawMessage) { changed <- s })
	if err != nil {
		t.Fatalf("WatchSettings: %v", err)
	}
	defer stop()

	if err := p.SaveSettings(json.RawMessage(`{"theme":"dark"}`)); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}

	select {
	case got := <-changed:
		var m map[string]any
		if err := json.Unmarshal(got, &m); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if m["theme"] != "dark" {
			t.Fatalf("expected theme dark, got %v", m["theme"])
		}
	case <-time.After(2 * time.Second):
		t.Fatal("WatchSettings callback never fired after external save")
	}
}

func TestSettings_WatchStopIsIdempotentAndSilencesFurtherEvents(t *testing.T) {
	p, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	changed := make(chan json.RawMessage, 4)
	stop, err := p.WatchSettings(func(s json.RawMessage) { changed <- s })
	if err != nil {
		t.Fatalf("WatchSettings: %v", err)
	}
	stop()
	stop()

	if err := p.SaveSettings(json.RawMessage(`{"theme":"light"}`)); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}

	select {
	case got := <-changed:
		t.Fatalf("expected no callback after stop, got %s", got)
	case <-time.After(200 * time.Millisecond):
	}
}
