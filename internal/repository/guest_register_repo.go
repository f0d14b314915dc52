package repository

import (
	"context"

	"github.com/lekhyo/booking-service/internal/models"
	"gorm.io/gorm"
)

type GuestRegisterRepository interface {
	List(ctx context.Context, sort string, limit int) ([]models.GuestRegister, error)
	Filter(ctx context.Context, fields map[string]any, sort string) ([]models.GuestRegister, error)
	Create(ctx context.Context, r *models.GuestRegister) error
}

type guestRegisterRepository struct {
	store[models.GuestRegister]
}

func NewGuestRegisterRepository(db *gorm.DB) GuestRegisterRepository {
	return &guestRegisterRepository{newStore[models.GuestRegister](db)}
}

func (r *guestRegisterRepository) List(ctx context.Context, sort string, limit int) ([]models.GuestRegister, error) {
	return r.list(ctx, sort, limit)
}

func (r *guestRegisterRepository) Filter(ctx context.Context, fields map[string]any, sort string) ([]models.GuestRegister, error) {
	return r.filter(ctx, fields, sort, 0)
}

func (r *guestRegisterRepository) Create(ctx context.Context, reg *models.GuestRegister) error {
	return r.create(ctx, nil, reg)
}
