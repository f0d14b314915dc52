package repository

import (
	"context"

	"github.com/lekhyo/booking-service/internal/models"
	"gorm.io/gorm"
)

type PricingRepository interface {
	Filter(ctx context.Context, fields map[string]any, sort string) ([]models.Pricing, error)
	FindByID(ctx context.Context, id uint) (*models.Pricing, error)
	// FindActive returns the active row for the key, or ErrNotFound.
	FindActive(ctx context.Context, tx *gorm.DB, propertyID uint, roomType models.RoomType, tier models.Tier) (*models.Pricing, error)
	Create(ctx context.Context, tx *gorm.DB, p *models.Pricing) error
	Update(ctx context.Context, tx *gorm.DB, p *models.Pricing) error
	Delete(ctx context.Context, id uint) error
	GetDB() *gorm.DB
}

type pricingRepository struct {
	store[models.Pricing]
}

func NewPricingRepository(db *gorm.DB) PricingRepository {
	return &pricingRepository{newStore[models.Pricing](db)}
}

func (r *pricingRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *pricingRepository) Filter(ctx context.Context, fields map[string]any, sort string) ([]models.Pricing, error) {
	return r.filter(ctx, fields, sort, 0)
}

func (r *pricingRepository) FindByID(ctx context.Context, id uint) (*models.Pricing, error) {
	return r.findByID(ctx, nil, id)
}

func (r *pricingRepository) FindActive(ctx context.Context, tx *gorm.DB, propertyID uint, roomType models.RoomType, tier models.Tier) (*models.Pricing, error) {
	var p models.Pricing
	err := r.conn(tx).WithContext(ctx).
		Where("property_id = ? AND room_type = ? AND tier = ? AND is_active = ?", propertyID, roomType, tier, true).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pricingRepository) Create(ctx context.Context, tx *gorm.DB, p *models.Pricing) error {
	return r.create(ctx, tx, p)
}

func (r *pricingRepository) Update(ctx context.Context, tx *gorm.DB, p *models.Pricing) error {
	return r.save(ctx, tx, p)
}

func (r *pricingRepository) Delete(ctx context.Context, id uint) error {
	return r.delete(ctx, id)
}
