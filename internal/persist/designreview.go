package persist

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/sweetlink/sweetlink/internal/wire"
)

// SavedDesignReview is the result of SaveDesignReview.
type SavedDesignReview struct {
	ScreenshotPath string
	ReviewPath     string
}

// SaveDesignReview persists the screenshot (same shape as save-screenshot)
// and the review markdown text the Claude API client collaborator produced.
// The core stores whatever text it is given; it does not call the API
// itself (spec.md §4.A).
func (p *Persister) SaveDesignReview(payload *wire.ScreenshotPayload, reviewMarkdown string, now time.Time) (*SavedDesignReview, error) {
	shot, err := p.saveScreenshotTo(dirDesignReviews, "screenshot", payload, now)
	if err != nil {
		return nil, err
	}

	stamp := timestampForFilename(now)
	reviewDir, err := p.ensureDir(dirDesignReviews)
	if err != nil {
		return nil, &PersistError{Op: "design-review", Err: err}
	}
	reviewPath := filepath.Join(reviewDir, sanitizeComponent(fmt.Sprintf("review-%s", stamp))+".md")
	if err := writeFile(reviewPath, []byte(reviewMarkdown), 0o644); err != nil {
		return nil, &PersistError{Op: "design-review", Err: err}
	}

	return &SavedDesignReview{ScreenshotPath: shot.Path, ReviewPath: reviewPath}, nil
}
