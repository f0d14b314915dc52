package repository

import (
	"context"

	"github.com/lekhyo/booking-service/internal/models"
	"gorm.io/gorm"
)

type RoomRepository interface {
	List(ctx context.Context, sort string, limit int) ([]models.Room, error)
	Filter(ctx context.Context, fields map[string]any, sort string) ([]models.Room, error)
	FindByID(ctx context.Context, id uint) (*models.Room, error)
	Create(ctx context.Context, room *models.Room) error
	Update(ctx context.Context, room *models.Room) error
	Delete(ctx context.Context, id uint) error
}

type roomRepository struct {
	store[models.Room]
}

func NewRoomRepository(db *gorm.DB) RoomRepository {
	return &roomRepository{newStore[models.Room](db)}
}

func (r *roomRepository) List(ctx context.Context, sort string, limit int) ([]models.Room, error) {
	return r.list(ctx, sort, limit)
}

func (r *roomRepository) Filter(ctx context.Context, fields map[string]any, sort string) ([]models.Room, error) {
	return r.filter(ctx, fields, sort, 0)
}

func (r *roomRepository) FindByID(ctx context.Context, id uint) (*models.Room, error) {
	return r.findByID(ctx, nil, id)
}

func (r *roomRepository) Create(ctx context.Context, room *models.Room) error {
	return r.create(ctx, nil, room)
}

func (r *roomRepository) Update(ctx context.Context, room *models.Room) error {
	return r.save(ctx, nil, room)
}

func (r *roomRepository) Delete(ctx context.Context, id uint) error {
	return r.delete(ctx, id)
}
