package persist

import (
	"bytes"
	"fmt"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/sweetlink/sweetlink/internal/applog"
)

var markdownLog = applog.For("persist.markdown")

// largeArtifactThreshold is the size above which a markdown artifact also
// gets a compressed .zst sibling (DOMAIN STACK enrichment, SPEC_FULL.md
// §4.A). The canonical uncompressed file is always written regardless.
const largeArtifactThreshold = 64 * 1024

// writeMarkdownArtifact writes markdown to <dir>/<prefix>-<ISO8601>.md and,
// if it's large, an additional <same path>.zst compressed with zstd.
func writeMarkdownArtifact(root, dir, prefix, markdown string, now time.Time) (string, error) {
	dirPath := filepath.Join(root, dir)
	stamp := timestampForFilename(now)
	path := filepath.Join(dirPath, sanitizeComponent(fmt.Sprintf("%s-%s", prefix, stamp))+".md")

	if err := writeFile(path, []byte(markdown), 0o644); err != nil {
		return "", err
	}

	if len(markdown) > largeArtifactThreshold {
		if err := writeCompressedSibling(path, []byte(markdown)); err != nil {
			// The .zst sibling is pure enrichment; never fail the operation
			// over it, just note it.
			markdownLog.Warnf("failed to write compressed sibling for %s: %v", path, err)
		}
	}

	return path, nil
}

func writeCompressedSibling(path string, data []byte) error {
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	if err != nil {
		return err
	}
	if _, err := enc.Write(data); err != nil {
		_ = enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return writeFile(path+".zst", buf.Bytes(), 0o644)
}
