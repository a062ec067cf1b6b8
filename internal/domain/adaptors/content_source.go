package adaptors

import (
	"context"

	"seo_auditor/internal/domain/models"
)

// ContentSource lists the published pages of a site in crawl order. It returns
// whatever it managed to collect; a partial list is not an error.
type ContentSource interface {
	Discover(ctx context.Context) []models.PageRef
}
