package repository

import (
	"context"

	"github.com/lekhyo/booking-service/internal/models"
	"gorm.io/gorm"
)

type PropertyRepository interface {
	List(ctx context.Context, sort string, limit int) ([]models.Property, error)
	Filter(ctx context.Context, fields map[string]any, sort string) ([]models.Property, error)
	FindByID(ctx context.Context, id uint) (*models.Property, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.Property, error)
	Create(ctx context.Context, p *models.Property) error
	Update(ctx context.Context, p *models.Property) error
	Delete(ctx context.Context, id uint) error
}

type propertyRepository struct {
	store[models.Property]
}

func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &propertyRepository{newStore[models.Property](db)}
}

func (r *propertyRepository) List(ctx context.Context, sort string, limit int) ([]models.Property, error) {
	return r.list(ctx, sort, limit)
}

func (r *propertyRepository) Filter(ctx context.Context, fields map[string]any, sort string) ([]models.Property, error) {
	return r.filter(ctx, fields, sort, 0)
}

func (r *propertyRepository) FindByID(ctx context.Context, id uint) (*models.Property, error) {
	return r.findByID(ctx, nil, id)
}

func (r *propertyRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Property, error) {
	out := make([]models.Property, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *propertyRepository) Create(ctx context.Context, p *models.Property) error {
	return r.create(ctx, nil, p)
}

func (r *propertyRepository) Update(ctx context.Context, p *models.Property) error {
	return r.save(ctx, nil, p)
}

// Delete removes only the property row; bookings that reference it are kept.
func (r *propertyRepository) Delete(ctx context.Context, id uint) error {
	return r.delete(ctx, id)
}
