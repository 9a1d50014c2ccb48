package persist

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"path/filepath"
	"strings"
	"time"

	"github.com/sweetlink/sweetlink/internal/wire"
)

// SavedScreenshot is the result of SaveScreenshot, and the screenshot half
// of SaveDesignReview.
type SavedScreenshot struct {
	Path       string
	SidecarPath string
	Width      int
	Height     int
}

// decodeImage accepts either a raw base64 string or a full data URL
// ("data:image/png;base64,...") and returns the decoded bytes plus the file
// extension to use.
func decodeImage(encoded string) ([]byte, string, error) {
	payload := encoded
	ext := "png"
	if idx := strings.Index(encoded, ","); strings.HasPrefix(encoded, "data:") && idx >= 0 {
		header := encoded[:idx]
		payload = encoded[idx+1:]
		if strings.Contains(header, "jpeg") || strings.Contains(header, "jpg") {
			ext = "jpg"
		}
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("invalid base64 image data: %w", err)
	}
	if cfg, format, err := image.DecodeConfig(bytes.NewReader(raw)); err == nil {
		if format == "jpeg" {
			ext = "jpg"
		} else if format == "png" {
			ext = "png"
		}
		_ = cfg
	}
	return raw, ext, nil
}

// SaveScreenshot writes a save-screenshot payload to
// <root>/.tmp/sweetlink-screenshots/screenshot-<ISO8601>.{png,jpg} plus a
// JSON sidecar carrying the payload's metadata.
func (p *Persister) SaveScreenshot(payload *wire.ScreenshotPayload, now time.Time) (*SavedScreenshot, error) {
	return p.saveScreenshotTo(dirScreenshots, "screenshot", payload, now)
}

func (p *Persister) saveScreenshotTo(dir, prefix string, payload *wire.ScreenshotPayload, now time.Time) (*SavedScreenshot, error) {
	raw, ext, err := decodeImage(payload.Screenshot)
	if err != nil {
		return nil, &PersistError{Op: prefix, Err: err}
	}

	stamp := timestampForFilename(now)
	base := fmt.Sprintf("%s-%s", prefix, stamp)
	imgDir, err := p.ensureDir(dir)
	if err != nil {
		return nil, &PersistError{Op: prefix, Err: err}
	}
	imgPath := filepath.Join(imgDir, sanitizeComponent(base)+"."+ext)
	if err := writeFile(imgPath, raw, 0o644); err != nil {
		return nil, &PersistError{Op: prefix, Err: err}
	}

	width, height := payload.Dimensions.Width, payload.Dimensions.Height
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(raw)); err == nil {
		width, height = cfg.Width, cfg.Height
	}

	sidecar := map[string]any{
		"url":        payload.URL,
		"timestamp":  payload.Timestamp,
		"dimensions": map[string]int{"width": width, "height": height},
		"logs":       payload.Logs,
	}
	if payload.WebVitals != nil {
		sidecar["webVitals"] = payload.WebVitals
	}
	if payload.PageSize != nil {
		sidecar["pageSize"] = payload.PageSize
	}
	sidecarData, err := json.MarshalIndent(sidecar, "", "  ")
	if err != nil {
		return nil, &PersistError{Op: prefix, Err: err}
	}
	sidecarPath := imgPath + ".json"
	if err := writeFile(sidecarPath, sidecarData, 0o644); err != nil {
		return nil, &PersistError{Op: prefix, Err: err}
	}

	return &SavedScreenshot{Path: imgPath, SidecarPath: sidecarPath, Width: width, Height: height}, nil
}
