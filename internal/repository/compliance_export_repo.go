package repository

import (
	"context"

	"github.com/lekhyo/booking-service/internal/models"
	"gorm.io/gorm"
)

// ComplianceExportRepository is append-only: there is deliberately no update or delete.
type ComplianceExportRepository interface {
	List(ctx context.Context, sort string, limit int) ([]models.ComplianceExport, error)
	Create(ctx context.Context, e *models.ComplianceExport) error
}

type complianceExportRepository struct {
	store[models.ComplianceExport]
}

func NewComplianceExportRepository(db *gorm.DB) ComplianceExportRepository {
	return &complianceExportRepository{newStore[models.ComplianceExport](db)}
}

func (r *complianceExportRepository) List(ctx context.Context, sort string, limit int) ([]models.ComplianceExport, error) {
	return r.list(ctx, sort, limit)
}

func (r *complianceExportRepository) Create(ctx context.Context, e *models.ComplianceExport) error {
	return r.create(ctx, nil, e)
}
