package router

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sweetlink/sweetlink/internal/peer"
	"github.com/sweetlink/sweetlink/internal/wire"
)

// persistFail replies to from with a typed `<kind>-error` failure frame,
// matching the ValidationError/PersistError taxonomy (spec.md §7).
func persistFail(from *peer.Peer, errType wire.MessageType, err error) {
	_ = from.Send(wire.FailType(errType, err.Error()))
}

func handleSaveScreenshot(rt *Router, from *peer.Peer, _ []byte, f wire.Frame) {
	payload, err := wire.ParseScreenshotPayload("screenshot", f.Data)
	if err != nil {
		persistFail(from, wire.TypeScreenshotError, err)
		return
	}
	saved, err := rt.Persist.SaveScreenshot(payload, time.Now())
	if err != nil {
		persistFail(from, wire.TypeScreenshotError, err)
		return
	}
	data, _ := json.Marshal(struct {
		Path string `json:"path"`
	}{Path: saved.Path})
	_ = from.Send(wire.Frame{Type: wire.TypeScreenshotSaved, Success: boolPtr(true), Data: data, Timestamp: wire.NowMillis()})
}

func handleDesignReviewScreenshot(rt *Router, from *peer.Peer, _ []byte, f wire.Frame) {
	payload, err := wire.ParseScreenshotPayload("design-review", f.Data)
	if err != nil {
		persistFail(from, wire.TypeDesignReviewError, err)
		return
	}

	reviewText, err := rt.Review.Review(context.Background(), payload)
	if err != nil {
		persistFail(from, wire.TypeDesignReviewError, err)
		return
	}

	saved, err := rt.Persist.SaveDesignReview(payload, reviewText, time.Now())
	if err != nil {
		persistFail(from, wire.TypeDesignReviewError, err)
		return
	}
	data, _ := json.Marshal(struct {
		ScreenshotPath string `json:"screenshotPath"`
		ReviewPath     string `json:"reviewPath"`
	}{ScreenshotPath: saved.ScreenshotPath, ReviewPath: saved.ReviewPath})
	_ = from.Send(wire.Frame{Type: wire.TypeDesignReviewSaved, Success: boolPtr(true), Data: data, Timestamp: wire.NowMillis()})
}

func handleSaveOutline(rt *Router, from *peer.Peer, _ []byte, f wire.Frame) {
	payload, err := wire.ParseOutlinePayload(f.Data)
	if err != nil {
		persistFail(from, wire.TypeOutlineError, err)
		return
	}
	path, err := rt.Persist.SaveOutline(payload, time.Now())
	if err != nil {
		persistFail(from, wire.TypeOutlineError, err)
		return
	}
	data, _ := json.Marshal(struct {
		Path string `json:"path"`
	}{Path: path})
	_ = from.Send(wire.Frame{Type: wire.TypeOutlineSaved, Success: boolPtr(true), Data: data, Timestamp: wire.NowMillis()})
}

func handleSaveSchema(rt *Router, from *peer.Peer, _ []byte, f wire.Frame) {
	payload, err := wire.ParseSchemaPayload(f.Data)
	if err != nil {
		persistFail(from, wire.TypeSchemaError, err)
		return
	}
	path, err := rt.Persist.SaveSchema(payload, time.Now())
	if err != nil {
		persistFail(from, wire.TypeSchemaError, err)
		return
	}
	data, _ := json.Marshal(struct {
		Path string `json:"path"`
	}{Path: path})
	_ = from.Send(wire.Frame{Type: wire.TypeSchemaSaved, Success: boolPtr(true), Data: data, Timestamp: wire.NowMillis()})
}

func handleSaveConsoleLogs(rt *Router, from *peer.Peer, _ []byte, f wire.Frame) {
	payload, err := wire.ParseConsoleLogsPayload(f.Data)
	if err != nil {
		persistFail(from, wire.TypeConsoleLogsError, err)
		return
	}
	path, err := rt.Persist.SaveConsoleLogs(payload, time.Now())
	if err != nil {
		persistFail(from, wire.TypeConsoleLogsError, err)
		return
	}
	data, _ := json.Marshal(struct {
		Path string `json:"path"`
	}{Path: path})
	_ = from.Send(wire.Frame{Type: wire.TypeConsoleLogsSaved, Success: boolPtr(true), Data: data, Timestamp: wire.NowMillis()})
}

func handleSaveA11y(rt *Router, from *peer.Peer, _ []byte, f wire.Frame) {
	payload, err := wire.ParseA11yPayload(f.Data)
	if err != nil {
		persistFail(from, wire.TypeA11yError, err)
		return
	}
	path, err := rt.Persist.SaveA11y(payload, time.Now())
	if err != nil {
		persistFail(from, wire.TypeA11yError, err)
		return
	}
	data, _ := json.Marshal(struct {
		Path string `json:"path"`
	}{Path: path})
	_ = from.Send(wire.Frame{Type: wire.TypeA11ySaved, Success: boolPtr(true), Data: data, Timestamp: wire.NowMillis()})
}

func handleSaveSettings(rt *Router, from *peer.Peer, _ []byte, f wire.Frame) {
	payload, err := wire.ParseSettingsPayload(f.Data)
	if err != nil {
		persistFail(from, wire.TypeSettingsError, err)
		return
	}
	if err := rt.Persist.SaveSettings(payload.Settings); err != nil {
		persistFail(from, wire.TypeSettingsError, err)
		return
	}
	_ = from.Send(wire.Frame{Type: wire.TypeSettingsSaved, Success: boolPtr(true), Timestamp: wire.NowMillis()})
}

func handleLoadSettings(rt *Router, from *peer.Peer, _ []byte, _ wire.Frame) {
	settings, err := rt.Persist.LoadSettings()
	if err != nil {
		persistFail(from, wire.TypeSettingsError, err)
		return
	}
	_ = from.Send(wire.Frame{Type: wire.TypeSettingsLoaded, Success: boolPtr(true), Data: settings, Timestamp: wire.NowMillis()})
}

func boolPtr(b bool) *bool { return &b }
