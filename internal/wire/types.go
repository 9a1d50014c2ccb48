// Package wire defines the Sweetlink bridge wire protocol: the closed set of
// message types, the base frame envelope, and the shape guards that validate
// payloads bound for the artifact persister.
package wire

import (
	"encoding/json"
	"time"
)

// MessageType is one of the closed set of frame `type` values the protocol
// recognizes. Unknown types are still valid on the wire (they fall through to
// the router's forward arm) but this set documents every type the bridge or
// devbar itself produces or specifically handles.
type MessageType string

const (
	TypeBrowserClientReady MessageType = "browser-client-ready"
	TypeCheckAPIKey        MessageType = "check-api-key"
	TypeAPIKeyStatus       MessageType = "api-key-status"
	TypeServerInfo         MessageType = "server-info"

	TypeScreenshot         MessageType = "screenshot"
	TypeRequestScreenshot  MessageType = "request-screenshot"
	TypeScreenshotResponse MessageType = "screenshot-response"

	TypeQueryDOM  MessageType = "query-dom"
	TypeExecJS    MessageType = "exec-js"
	TypeGetLogs   MessageType = "get-logs"
	TypeRefresh   MessageType = "refresh"
	TypeGetSchema MessageType = "get-schema"
	TypeGetOutline MessageType = "get-outline"
	TypeGetA11y   MessageType = "get-a11y"
	TypeGetVitals MessageType = "get-vitals"

	TypeSaveScreenshot  MessageType = "save-screenshot"
	TypeScreenshotSaved MessageType = "screenshot-saved"
	TypeScreenshotError MessageType = "screenshot-error"

	TypeDesignReviewScreenshot MessageType = "design-review-screenshot"
	TypeDesignReviewSaved      MessageType = "design-review-saved"
	TypeDesignReviewError      MessageType = "design-review-error"

	TypeSaveOutline  MessageType = "save-outline"
	TypeOutlineSaved MessageType = "outline-saved"
	TypeOutlineError MessageType = "outline-error"

	TypeSaveSchema  MessageType = "save-schema"
	TypeSchemaSaved MessageType = "schema-saved"
	TypeSchemaError MessageType = "schema-error"

	TypeSaveConsoleLogs  MessageType = "save-console-logs"
	TypeConsoleLogsSaved MessageType = "console-logs-saved"
	TypeConsoleLogsError MessageType = "console-logs-error"

	TypeSaveA11y  MessageType = "save-a11y"
	TypeA11ySaved MessageType = "a11y-saved"
	TypeA11yError MessageType = "a11y-error"

	TypeSaveSettings   MessageType = "save-settings"
	TypeSettingsSaved  MessageType = "settings-saved"
	TypeSettingsError  MessageType = "settings-error"
	TypeLoadSettings   MessageType = "load-settings"
	TypeSettingsLoaded MessageType = "settings-loaded"

	TypeSubscribe     MessageType = "subscribe"
	TypeSubscribed    MessageType = "subscribed"
	TypeUnsubscribe   MessageType = "unsubscribe"
	TypeUnsubscribed  MessageType = "unsubscribed"

	TypeLogSubscribe    MessageType = "log-subscribe"
	TypeLogSubscribed   MessageType = "log-subscribed"
	TypeLogUnsubscribe  MessageType = "log-unsubscribe"
	TypeLogUnsubscribed MessageType = "log-unsubscribed"

	TypeHMRScreenshot      MessageType = "hmr-screenshot"
	TypeHMRScreenshotSaved MessageType = "hmr-screenshot-saved"
	TypeLogEvent           MessageType = "log-event"
)

// Frame is the base envelope shared by every request and response. Top-level
// fields not declared here are dropped when a frame is decoded into this
// struct; raw pass-through forwarding keeps the original []byte entirely and
// never re-encodes this struct, so those fields survive forwarding.
type Frame struct {
	Type          MessageType     `json:"type,omitempty"`
	Success       *bool           `json:"success,omitempty"`
	Data          json.RawMessage `json:"data,omitempty"`
	Error         string          `json:"error,omitempty"`
	Timestamp     int64           `json:"timestamp,omitempty"`
	RequestID     string          `json:"requestId,omitempty"`
	SubscriptionID string         `json:"subscriptionId,omitempty"`
	Channel       string          `json:"channel,omitempty"`

	// AppPort/WSPort ride at the frame's top level on server-info only
	// (spec.md §8 scenario S1), not nested in Data.
	AppPort *int `json:"appPort,omitempty"`
	WSPort  *int `json:"wsPort,omitempty"`

	// Filters rides alongside subscriptionId on log-subscribe frames rather
	// than inside Data; the wire format puts it at the top level.
	Filters *LogFilters `json:"filters,omitempty"`
}

// NowMillis returns the current wall-clock time in epoch milliseconds, the
// resolution every `timestamp` field on the wire uses.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}

// Success builds a successful response frame carrying data.
func Success(data json.RawMessage) Frame {
	ok := true
	return Frame{Success: &ok, Data: data, Timestamp: NowMillis()}
}

// Fail builds a failure response frame with the given error message.
func Fail(errMsg string) Frame {
	ok := false
	return Frame{Success: &ok, Error: errMsg, Timestamp: NowMillis()}
}

// FailType builds a failure response frame tagged with a `<kind>-error` type,
// the shape the persister-bound handlers use per spec.
func FailType(t MessageType, errMsg string) Frame {
	f := Fail(errMsg)
	f.Type = t
	return f
}

// LogLevel is one of the four console-capture levels.
type LogLevel string

const (
	LevelLog   LogLevel = "log"
	LevelError LogLevel = "error"
	LevelWarn  LogLevel = "warn"
	LevelInfo  LogLevel = "info"
)

// LogEntry is a single captured console event.
type LogEntry struct {
	Level     LogLevel `json:"level"`
	Message   string   `json:"message"`
	Timestamp int64    `json:"timestamp"`
	Source    string   `json:"source,omitempty"`
}

// LogFilters describes a log subscription's filter set. Every provided filter
// must match for a delivery (spec.md §3, Channel/Log Subscription).
type LogFilters struct {
	Levels  []LogLevel `json:"levels,omitempty"`
	Pattern string     `json:"pattern,omitempty"`
	Source  string     `json:"source,omitempty"`
}
