package adaptors

import (
	"context"

	"seo_auditor/internal/domain/models"
)

type WebClient interface {
	Do(ctx context.Context, url string, method string) (*models.WebResponse, error)
}
