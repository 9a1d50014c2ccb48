package router

import (
	"encoding/json"
	"time"

	"github.com/sweetlink/sweetlink/internal/peer"
	"github.com/sweetlink/sweetlink/internal/wire"
)

const hmrChannel = "hmr-screenshots"

func handleSubscribe(rt *Router, from *peer.Peer, _ []byte, f wire.Frame) {
	if f.Channel == "" {
		_ = from.Send(wire.Fail("subscribe requires a channel"))
		return
	}
	rt.Registry.Channels.Subscribe(f.Channel, from)
	_ = from.Send(wire.Frame{Type: wire.TypeSubscribed, Success: boolPtr(true), Channel: f.Channel, Timestamp: wire.NowMillis()})
}

func handleUnsubscribe(rt *Router, from *peer.Peer, _ []byte, f wire.Frame) {
	if f.Channel == "" {
		_ = from.Send(wire.Fail("unsubscribe requires a channel"))
		return
	}
	rt.Registry.Channels.Unsubscribe(f.Channel, from)
	_ = from.Send(wire.Frame{Type: wire.TypeUnsubscribed, Success: boolPtr(true), Channel: f.Channel, Timestamp: wire.NowMillis()})
}

// hmrScreenshotPayload is the browser-pushed hmr-screenshot shape: the same
// screenshot bytes/metadata as save-screenshot, plus HMR-specific fields.
type hmrScreenshotPayload struct {
	Screenshot  string `json:"screenshot"`
	URL         string `json:"url"`
	Timestamp   int64  `json:"timestamp"`
	Dimensions  wire.Dimensions `json:"dimensions"`
	Trigger     string `json:"trigger"`
	ChangedFile string `json:"changedFile"`
}

// handleHMRScreenshot persists the pushed screenshot then fans the save
// result out to every hmr-screenshots subscriber, finally acking the
// pushing browser peer too (spec.md §4.C, scenario S4).
func handleHMRScreenshot(rt *Router, from *peer.Peer, _ []byte, f wire.Frame) {
	var payload hmrScreenshotPayload
	if err := json.Unmarshal(f.Data, &payload); err != nil || payload.Screenshot == "" {
		persistFail(from, wire.TypeScreenshotError, &wire.ErrInvalidPayload{Kind: "hmr-screenshot", Reason: "missing screenshot data"})
		return
	}

	saved, err := rt.Persist.SaveScreenshot(&wire.ScreenshotPayload{
		Screenshot: payload.Screenshot,
		URL:        payload.URL,
		Timestamp:  payload.Timestamp,
		Dimensions: payload.Dimensions,
	}, time.Now())
	if err != nil {
		persistFail(from, wire.TypeScreenshotError, err)
		return
	}

	ackData, _ := json.Marshal(struct {
		Trigger     string `json:"trigger"`
		ChangedFile string `json:"changedFile"`
		Path        string `json:"path"`
	}{Trigger: payload.Trigger, ChangedFile: payload.ChangedFile, Path: saved.Path})

	ack := wire.Frame{Type: wire.TypeHMRScreenshotSaved, Success: boolPtr(true), Data: ackData, Timestamp: wire.NowMillis()}
	rt.Registry.Channels.Broadcast(hmrChannel, ack)
	_ = from.Send(ack)
}
