package router

import (
	"encoding/json"

	"github.com/sweetlink/sweetlink/internal/config"
	"github.com/sweetlink/sweetlink/internal/peer"
	"github.com/sweetlink/sweetlink/internal/wire"
)

// handleBrowserClientReady promotes the sender to a browser peer and
// replies with server-info (spec.md §4.C, scenario S1).
func handleBrowserClientReady(rt *Router, from *peer.Peer, _ []byte, _ wire.Frame) {
	from.PromoteToBrowser()

	appPort := rt.Config.AppPort
	wsPort := rt.Config.WSPort
	_ = from.Send(wire.Frame{
		Type:      wire.TypeServerInfo,
		AppPort:   &appPort,
		WSPort:    &wsPort,
		Timestamp: wire.NowMillis(),
	})
}

// handleCheckAPIKey reports whether ANTHROPIC_API_KEY is configured without
// ever putting the key itself on the wire (spec.md §4.C).
func handleCheckAPIKey(rt *Router, from *peer.Peer, _ []byte, _ wire.Frame) {
	key := config.AnthropicAPIKey()
	data, _ := json.Marshal(struct {
		Configured bool   `json:"configured"`
		Model      string `json:"model,omitempty"`
		Pricing    string `json:"pricing,omitempty"`
	}{
		Configured: key != "",
		Model:      apiKeyModelName(key),
		Pricing:    apiKeyPricingNote(key),
	})
	_ = from.Send(wire.Frame{
		Type:      wire.TypeAPIKeyStatus,
		Data:      data,
		Timestamp: wire.NowMillis(),
	})
}

func apiKeyModelName(key string) string {
	if key == "" {
		return ""
	}
	return config.AnthropicModel()
}

func apiKeyPricingNote(key string) string {
	if key == "" {
		return ""
	}
	return "billed per Anthropic API usage"
}
