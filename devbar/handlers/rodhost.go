package handlers

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"

	"github.com/sweetlink/sweetlink/devbar"
	"github.com/sweetlink/sweetlink/internal/wire"
)

// RodHost is the default, non-test PageHost: it drives a real headless
// Chrome instance via go-rod, launched against the consuming app's
// appPort. Ground: _examples/inovacc-scout/page.go for the Screenshot/
// Eval/Element method shapes, generalized here onto the PageHost
// interface instead of a bespoke wrapper type.
type RodHost struct {
	browser *rod.Browser
	page    *rod.Page
	sink    func(wire.LogEntry)
}

// NewRodHost launches headless Chrome and navigates to targetURL.
func NewRodHost(targetURL string) (*RodHost, error) {
	u, err := launcher.New().Headless(true).Launch()
	if err != nil {
		return nil, fmt.Errorf("rodhost: launch browser: %w", err)
	}
	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("rodhost: connect: %w", err)
	}
	page, err := browser.Page(proto.TargetCreateTarget{URL: targetURL})
	if err != nil {
		_ = browser.Close()
		return nil, fmt.Errorf("rodhost: open page %s: %w", targetURL, err)
	}

	h := &RodHost{browser: browser, page: page}
	h.installConsoleCapture()
	return h, nil
}

// installConsoleCapture wires CDP's Runtime.consoleAPICalled event into the
// sink, the browser-process-level equivalent of the page's own
// console.*-method-replacement technique (spec.md §4.E). Runtime.exceptionThrown
// is not subscribed to, so uncaught page exceptions do not reach the sink.
func (h *RodHost) installConsoleCapture() {
	go h.page.EachEvent(func(e *proto.RuntimeConsoleAPICalled) {
		if h.sink == nil {
			return
		}
		level := wire.LevelLog
		switch e.Type {
		case proto.RuntimeConsoleAPICalledTypeError:
			level = wire.LevelError
		case proto.RuntimeConsoleAPICalledTypeWarning:
			level = wire.LevelWarn
		case proto.RuntimeConsoleAPICalledTypeInfo:
			level = wire.LevelInfo
		}

		var sb strings.Builder
		for _, arg := range e.Args {
			if !arg.Value.Nil() {
				fmt.Fprintf(&sb, "%v ", arg.Value.Val())
			}
		}
		h.sink(wire.LogEntry{Level: level, Message: strings.TrimSpace(sb.String()), Timestamp: wire.NowMillis()})
	})()
}

func (h *RodHost) Screenshot(_ context.Context, opts devbar.ScreenshotOptions) (devbar.ScreenshotResult, error) {
	page := h.page
	if opts.Selector != "" {
		el, err := page.Element(opts.Selector)
		if err != nil {
			return devbar.ScreenshotResult{}, fmt.Errorf("rodhost: element %q: %w", opts.Selector, err)
		}
		data, err := el.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
		if err != nil {
			return devbar.ScreenshotResult{}, fmt.Errorf("rodhost: element screenshot: %w", err)
		}
		return encodeScreenshot(data, "png")
	}

	ext := "png"
	req := &proto.PageCaptureScreenshot{Format: proto.PageCaptureScreenshotFormatPng}
	if opts.Format == "jpeg" {
		ext = "jpeg"
		quality := int(opts.Quality * 100)
		if quality <= 0 {
			quality = 70
		}
		req = &proto.PageCaptureScreenshot{
			Format:  proto.PageCaptureScreenshotFormatJpeg,
			Quality: gson.Int(quality),
		}
	}
	data, err := page.Screenshot(opts.FullPage, req)
	if err != nil {
		return devbar.ScreenshotResult{}, fmt.Errorf("rodhost: screenshot: %w", err)
	}
	return encodeScreenshot(data, ext)
}

func encodeScreenshot(data []byte, ext string) (devbar.ScreenshotResult, error) {
	return devbar.ScreenshotResult{
		DataURL: fmt.Sprintf("data:image/%s;base64,%s", ext, base64.StdEncoding.EncodeToString(data)),
	}, nil
}

func (h *RodHost) QueryDOM(_ context.Context, selector, property string) (wire.DOMQueryResult, error) {
	els, err := h.page.Elements(selector)
	if err != nil {
		return wire.DOMQueryResult{}, fmt.Errorf("rodhost: elements %q: %w", selector, err)
	}
	hits := make([]wire.DOMQueryHit, 0, len(els))
	for _, el := range els {
		if property != "" {
			val, err := el.Property(property)
			if err != nil {
				continue
			}
			hits = append(hits, wire.DOMQueryHit{Property: val.Val()})
			continue
		}
		hit := wire.DOMQueryHit{}
		if tag, err := el.Eval(`() => this.tagName`); err == nil {
			hit.TagName = tag.Value.Str()
		}
		if cls, err := el.Eval(`() => this.className`); err == nil {
			hit.ClassName = cls.Value.Str()
		}
		if id, err := el.Eval(`() => this.id`); err == nil {
			hit.ID = id.Value.Str()
		}
		if text, err := el.Eval(`() => this.textContent`); err == nil {
			s := text.Value.Str()
			if len(s) > 100 {
				s = s[:100]
			}
			hit.TextContent = s
		}
		hits = append(hits, hit)
	}
	return wire.DOMQueryResult{Count: len(hits), Results: hits}, nil
}

func (h *RodHost) Eval(_ context.Context, expr string) (any, error) {
	js := fmt.Sprintf(`() => (0, eval(%q))`, expr)
	res, err := h.page.Eval(js)
	if err != nil {
		return nil, fmt.Errorf("exec-js: %w", err)
	}
	return res.Value.Val(), nil
}

func (h *RodHost) Schema(_ context.Context) (string, error) {
	res, err := h.page.Eval(`() => JSON.stringify(Array.from(document.querySelectorAll('script[type="application/ld+json"]')).map(s => s.textContent))`)
	if err != nil {
		return "", fmt.Errorf("rodhost: extract schema: %w", err)
	}
	return fmt.Sprintf("# Schema\n\n```json\n%s\n```\n", res.Value.Str()), nil
}

func (h *RodHost) Outline(_ context.Context) (string, error) {
	res, err := h.page.Eval(`() => Array.from(document.querySelectorAll('h1,h2,h3,h4,h5,h6')).map(h => h.tagName + ': ' + h.textContent).join('\n')`)
	if err != nil {
		return "", fmt.Errorf("rodhost: extract outline: %w", err)
	}
	return fmt.Sprintf("# Outline\n\n%s\n", res.Value.Str()), nil
}

func (h *RodHost) A11y(_ context.Context) (string, error) {
	res, err := h.page.Eval(`() => Array.from(document.querySelectorAll('img:not([alt])')).length`)
	if err != nil {
		return "", fmt.Errorf("rodhost: a11y audit: %w", err)
	}
	return fmt.Sprintf("# Accessibility Report\n\nimages missing alt text: %v\n", res.Value.Val()), nil
}

func (h *RodHost) Vitals(_ context.Context) (map[string]any, error) {
	res, err := h.page.Eval(`() => JSON.stringify(window.__sweetlinkVitals || {})`)
	if err != nil {
		return nil, fmt.Errorf("rodhost: read vitals: %w", err)
	}
	return map[string]any{"raw": res.Value.Str()}, nil
}

func (h *RodHost) OnConsole(sink func(wire.LogEntry)) {
	h.sink = sink
}

func (h *RodHost) Close() error {
	return h.browser.Close()
}
