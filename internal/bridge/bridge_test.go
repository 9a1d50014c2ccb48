package bridge

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/sweetlink/sweetlink/internal/config"
	"github.com/sweetlink/sweetlink/internal/registry"
)

func newTestServer(t *testing.T) (*Bridge, *httptest.Server, string) {
	t.Helper()
	cfg, err := config.Load(3000, t.TempDir())
	require.NoError(t, err)

	b, err := New(cfg, nil)
	require.NoError(t, err)

	ts := httptest.NewServer(http.HandlerFunc(b.handleRoot))
	t.Cleanup(ts.Close)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")
	return b, ts, wsURL
}

func dial(t *testing.T, wsURL, origin string) *websocket.Conn {
	t.Helper()
	header := map[string][]string{}
	if origin != "" {
		header["Origin"] = []string{origin}
	}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestS1_BrowserHandshake(t *testing.T) {
	_, _, wsURL := newTestServer(t)
	browser := dial(t, wsURL, "http://localhost:3000")

	require.NoError(t, browser.WriteJSON(map[string]string{"type": "browser-client-ready"}))

	var resp map[string]any
	require.NoError(t, browser.ReadJSON(&resp))
	require.Equal(t, "server-info", resp["type"])
	require.Equal(t, float64(3000), resp["appPort"])
	require.Equal(t, float64(9223), resp["wsPort"])
}

func TestS2_QueryDOMForwarding(t *testing.T) {
	_, _, wsURL := newTestServer(t)
	browser := dial(t, wsURL, "http://localhost:3000")
	require.NoError(t, browser.WriteJSON(map[string]string{"type": "browser-client-ready"}))
	var ready map[string]any
	require.NoError(t, browser.ReadJSON(&ready))

	cli := dial(t, wsURL, "")
	require.NoError(t, cli.WriteJSON(map[string]string{"type": "query-dom", "selector": "h1"}))

	var forwarded map[string]any
	require.NoError(t, browser.ReadJSON(&forwarded))
	require.Equal(t, "query-dom", forwarded["type"])

	reply := map[string]any{
		"success": true,
		"data": map[string]any{
			"count": 1,
			"results": []map[string]any{
				{"tagName": "H1", "className": "hero", "id": "", "textContent": "Hello"},
			},
		},
	}
	require.NoError(t, browser.WriteJSON(reply))

	var got map[string]any
	require.NoError(t, cli.ReadJSON(&got))
	require.Equal(t, true, got["success"])
}

func TestS6_OriginRejected(t *testing.T) {
	_, _, wsURL := newTestServer(t)
	header := map[string][]string{"Origin": {"http://evil.example"}}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	defer conn.Close()

	_, _, readErr := conn.ReadMessage()
	require.Error(t, readErr)
	closeErr, ok := readErr.(*websocket.CloseError)
	require.True(t, ok)
	require.Equal(t, 4001, closeErr.Code)
}

func TestRequestScreenshotTimeoutSynthesized(t *testing.T) {
	b, _, wsURL := newTestServer(t)
	b.Registry.Pending = registry.NewPendingTableWithTimeout(50 * time.Millisecond)

	browser := dial(t, wsURL, "http://localhost:3000")
	require.NoError(t, browser.WriteJSON(map[string]string{"type": "browser-client-ready"}))
	var ready map[string]any
	require.NoError(t, browser.ReadJSON(&ready))

	cli := dial(t, wsURL, "")
	require.NoError(t, cli.WriteJSON(map[string]string{"type": "request-screenshot", "requestId": "r-1"}))

	_ = cli.SetReadDeadline(time.Now().Add(2 * time.Second))
	var fail map[string]any
	require.NoError(t, cli.ReadJSON(&fail))
	require.Equal(t, "screenshot-response", fail["type"])
	require.Equal(t, false, fail["success"])
	require.Equal(t, "r-1", fail["requestId"])
}

func TestSettingsWatchBroadcastsToConnectedPeers(t *testing.T) {
	root := t.TempDir()
	cfg, err := config.Load(3000, root)
	require.NoError(t, err)

	b, err := New(cfg, nil)
	require.NoError(t, err)

	ts := httptest.NewServer(http.HandlerFunc(b.handleRoot))
	t.Cleanup(ts.Close)
	b.startSettingsWatch()
	t.Cleanup(func() {
		if b.stopWatch != nil {
			b.stopWatch()
		}
	})

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")
	cli := dial(t, wsURL, "")

	require.NoError(t, b.Persist.SaveSettings(json.RawMessage(`{"theme":"dark"}`)))

	_ = cli.SetReadDeadline(time.Now().Add(3 * time.Second))
	var got map[string]any
	require.NoError(t, cli.ReadJSON(&got))
	require.Equal(t, "settings-loaded", got["type"])
	require.Equal(t, true, got["success"])
	data := got["data"].(map[string]any)
	require.Equal(t, "dark", data["theme"])
}

func TestDiscoveryDocument(t *testing.T) {
	b, ts, _ := newTestServer(t)
	resp, err := ts.Client().Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	var doc discoveryDoc
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	require.Equal(t, Name, doc.Name)
	require.Equal(t, "running", doc.Status)
	require.Equal(t, b.Config.WSPort, doc.Port)
}
