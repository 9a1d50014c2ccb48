package bridge

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
)

// discoveryDoc is the JSON document GET / returns (spec.md §4.D), the
// surface the CLI `cleanup` command uses to discover live bridges without
// upgrading to a WebSocket.
type discoveryDoc struct {
	Name             string `json:"name"`
	Version          string `json:"version"`
	Status           string `json:"status"`
	Port             int    `json:"port"`
	AppPort          int    `json:"appPort"`
	ConnectedClients int    `json:"connectedClients"`
	UptimeSeconds    float64 `json:"uptime"`
}

// handleRoot serves the discovery document on GET / and upgrades every
// other request whose headers ask for a WebSocket.
func (b *Bridge) handleRoot(w http.ResponseWriter, r *http.Request) {
	if websocket.IsWebSocketUpgrade(r) {
		b.handleUpgrade(w, r)
		return
	}

	w.Header().Set("Access-Control-Allow-Origin", b.corsOrigin(r))
	w.Header().Set("Content-Type", "application/json")
	doc := discoveryDoc{
		Name:             Name,
		Version:          Version,
		Status:           "running",
		Port:             b.Config.WSPort,
		AppPort:          b.Config.AppPort,
		ConnectedClients: b.ConnectedClients(),
		UptimeSeconds:    b.Uptime().Seconds(),
	}
	_ = json.NewEncoder(w).Encode(doc)
}

// corsOrigin returns "http://localhost" normally, or "*" in compatibility
// mode, i.e. when this request's Origin is localhost on a port other than
// the configured appPort (spec.md §6).
func (b *Bridge) corsOrigin(r *http.Request) string {
	if b.compatibilityMode(r.Header.Get("Origin")) {
		return "*"
	}
	return "http://localhost"
}
