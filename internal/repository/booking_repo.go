package repository

import (
	"context"
	"time"

	"github.com/lekhyo/booking-service/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingRepository interface {
	List(ctx context.Context, sort string, limit int) ([]models.Booking, error)
	Filter(ctx context.Context, fields map[string]any, sort string) ([]models.Booking, error)
	FindByID(ctx context.Context, id uint) (*models.Booking, error)
	FindByRef(ctx context.Context, ref string) (*models.Booking, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.Booking, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error)
	FindByPropertyBetween(ctx context.Context, propertyID *uint, from, to time.Time) ([]models.Booking, error)
	Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	Update(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	GetDB() *gorm.DB
}

type bookingRepository struct {
	store[models.Booking]
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{newStore[models.Booking](db)}
}

func (r *bookingRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *bookingRepository) List(ctx context.Context, sort string, limit int) ([]models.Booking, error) {
	return r.list(ctx, sort, limit)
}

func (r *bookingRepository) Filter(ctx context.Context, fields map[string]any, sort string) ([]models.Booking, error) {
	return r.filter(ctx, fields, sort, 0)
}

func (r *bookingRepository) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	return r.findByID(ctx, nil, id)
}

func (r *bookingRepository) FindByRef(ctx context.Context, ref string) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).Where("booking_ref = ?", ref).First(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Booking, error) {
	out := make([]models.Booking, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// FindByIDForUpdate locks the booking row for the rest of the transaction so that status
// changes to the same booking serialize.
func (r *bookingRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		First(&booking, id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// FindByPropertyBetween narrows the candidate set for calendar and report queries to stays
// overlapping [from, to]. The exact rules live in the availability package.
func (r *bookingRepository) FindByPropertyBetween(ctx context.Context, propertyID *uint, from, to time.Time) ([]models.Booking, error) {
	q := r.db.WithContext(ctx).Where("check_in_date <= ? AND check_out_date >= ?", models.Day(to), models.Day(from))
	if propertyID != nil {
		q = q.Where("property_id = ?", *propertyID)
	}
	bookings := make([]models.Booking, 0)
	if err := q.Order("check_in_date ASC, id ASC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return r.create(ctx, tx, booking)
}

func (r *bookingRepository) Update(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return r.save(ctx, tx, booking)
}
