package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sweetlink/sweetlink/devbar"
)

// defaultRequestScreenshotQuality/Scale are request-screenshot's defaults
// per spec.md §4.F.
const (
	defaultRequestScreenshotQuality = 0.7
	defaultRequestScreenshotScale   = 0.25
)

type screenshotPayload struct {
	Selector string  `json:"selector,omitempty"`
	FullPage *bool   `json:"fullPage,omitempty"`
	Quality  float64 `json:"quality,omitempty"`
	Scale    float64 `json:"scale,omitempty"`
}

type screenshotResponse struct {
	Screenshot string `json:"screenshot"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
}

// Screenshot captures the full page by default; fullPage=false or a
// selector crops to the current viewport/element (spec.md §4.F).
func Screenshot(ctx context.Context, host devbar.PageHost, payload json.RawMessage) (any, error) {
	var p screenshotPayload
	_ = json.Unmarshal(payload, &p)

	fullPage := true
	if p.FullPage != nil {
		fullPage = *p.FullPage
	}
	if p.Selector != "" {
		fullPage = false
	}

	res, err := host.Screenshot(ctx, devbar.ScreenshotOptions{
		Selector: p.Selector,
		FullPage: fullPage,
		Quality:  p.Quality,
		Format:   "png",
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot: %w", err)
	}
	return screenshotResponse{Screenshot: res.DataURL, Width: res.Width, Height: res.Height}, nil
}

type requestScreenshotPayload struct {
	Quality float64 `json:"quality,omitempty"`
	Scale   float64 `json:"scale,omitempty"`
}

// RequestScreenshot is the server-initiated, lower-quality capture used by
// the screenshot RPC path: JPEG-encoded at the requested quality (default
// 0.7). The scale (default 0.25) is passed on in ScreenshotOptions.Scale,
// which RodHost and MemHost ignore, so the image is not downscaled.
func RequestScreenshot(ctx context.Context, host devbar.PageHost, payload json.RawMessage) (any, error) {
	var p requestScreenshotPayload
	_ = json.Unmarshal(payload, &p)

	quality := p.Quality
	if quality <= 0 {
		quality = defaultRequestScreenshotQuality
	}
	scale := p.Scale
	if scale <= 0 {
		scale = defaultRequestScreenshotScale
	}

	res, err := host.Screenshot(ctx, devbar.ScreenshotOptions{
		FullPage: false,
		Quality:  quality,
		Scale:    scale,
		Format:   "jpeg",
	})
	if err != nil {
		return nil, fmt.Errorf("request-screenshot: %w", err)
	}
	return screenshotResponse{Screenshot: res.DataURL, Width: res.Width, Height: res.Height}, nil
}
