package router

import (
	"github.com/google/uuid"

	"github.com/sweetlink/sweetlink/internal/peer"
	"github.com/sweetlink/sweetlink/internal/wire"
)

// handleRequestScreenshot implements the CLI half of the screenshot RPC
// (spec.md §4.C/§4.B): find a browser peer, mint a requestId if the caller
// didn't supply one, store a pending entry with a 30s timeout, and forward
// the request to the browser.
func handleRequestScreenshot(rt *Router, from *peer.Peer, raw []byte, f wire.Frame) {
	browser := rt.Peers.PreferredBrowser()
	if browser == nil || !browser.IsOpen() {
		_ = from.Send(wire.Frame{
			Type:      wire.TypeScreenshotResponse,
			Success:   boolPtr(false),
			Error:     "No browser client connected",
			Timestamp: wire.NowMillis(),
		})
		return
	}

	requestID := f.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}

	rt.Registry.Pending.Add(requestID, from, func() {
		if from.IsOpen() {
			_ = from.Send(wire.Frame{
				Type:      wire.TypeScreenshotResponse,
				Success:   boolPtr(false),
				Error:     "Screenshot request timed out",
				RequestID: requestID,
				Timestamp: wire.NowMillis(),
			})
		}
	})

	f.RequestID = requestID
	forwarded, err := reencodeWithRequestID(raw, requestID)
	if err != nil {
		forwarded = raw
	}
	if err := browser.SendRaw(forwarded); err != nil {
		rt.Registry.Pending.Complete(requestID)
		_ = from.Send(wire.Frame{
			Type:      wire.TypeScreenshotResponse,
			Success:   boolPtr(false),
			Error:     "No browser client connected",
			RequestID: requestID,
			Timestamp: wire.NowMillis(),
		})
	}
}

// handleScreenshotResponse is the browser's reply leg: look up the pending
// entry by requestId and forward the payload verbatim to the originating
// CLI peer. A response for an unknown/already-timed-out requestId is
// silently dropped (spec.md §5).
func handleScreenshotResponse(rt *Router, _ *peer.Peer, raw []byte, f wire.Frame) {
	entry, ok := rt.Registry.Pending.Complete(f.RequestID)
	if !ok {
		return
	}
	if entry.Origin != nil && entry.Origin.IsOpen() {
		_ = entry.Origin.SendRaw(raw)
	}
}
