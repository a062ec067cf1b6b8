package adaptors

import (
	"context"

	"seo_auditor/internal/domain/models"
)

type AuditStore interface {
	Save(ctx context.Context, audit *models.Audit) error
	Get(ctx context.Context, id string) (*models.Audit, error)
	List(ctx context.Context, limit int) ([]models.AuditSummary, error)
}
