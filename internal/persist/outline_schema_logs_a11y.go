package persist

import (
	"time"

	"github.com/sweetlink/sweetlink/internal/wire"
)

// SaveOutline writes the pre-rendered outline markdown to
// <root>/.tmp/sweetlink-outlines/outline-<ISO8601>.md.
func (p *Persister) SaveOutline(payload *wire.OutlinePayload, now time.Time) (string, error) {
	path, err := writeMarkdownArtifact(p.root, dirOutlines, "outline", payload.Markdown, now)
	if err != nil {
		return "", &PersistError{Op: "save-outline", Err: err}
	}
	return path, nil
}

// SaveSchema writes the pre-rendered schema markdown to
// <root>/.tmp/sweetlink-schemas/schema-<ISO8601>.md.
func (p *Persister) SaveSchema(payload *wire.SchemaPayload, now time.Time) (string, error) {
	path, err := writeMarkdownArtifact(p.root, dirSchemas, "schema", payload.Markdown, now)
	if err != nil {
		return "", &PersistError{Op: "save-schema", Err: err}
	}
	return path, nil
}

// SaveConsoleLogs writes the pre-rendered console-log markdown to
// <root>/.tmp/sweetlink-logs/console-logs-<ISO8601>.md.
func (p *Persister) SaveConsoleLogs(payload *wire.ConsoleLogsPayload, now time.Time) (string, error) {
	path, err := writeMarkdownArtifact(p.root, dirLogs, "console-logs", payload.Markdown, now)
	if err != nil {
		return "", &PersistError{Op: "save-console-logs", Err: err}
	}
	return path, nil
}

// SaveA11y writes the pre-rendered accessibility report markdown to
// <root>/.tmp/sweetlink-a11y/a11y-<ISO8601>.md.
func (p *Persister) SaveA11y(payload *wire.A11yPayload, now time.Time) (string, error) {
	path, err := writeMarkdownArtifact(p.root, dirA11y, "a11y", payload.Markdown, now)
	if err != nil {
		return "", &PersistError{Op: "save-a11y", Err: err}
	}
	return path, nil
}
