package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lekhyo/booking-service/internal/models"
	"github.com/lekhyo/booking-service/internal/pricing"
	"github.com/lekhyo/booking-service/internal/repository"
	"gorm.io/gorm"
)

// PropertyDetail is the public property page: the property, its bookable rooms and the
// lowest social-tier rate ("from ৳X/night").
type PropertyDetail struct {
	Property models.Property `json:"property"`
	Rooms    []models.Room   `json:"rooms"`
	FromRate *int64          `json:"from_rate,omitempty"`
}

type CatalogService interface {
	// ListProperties narrows to regions containing region (case-insensitive) when it is
	// set, keeping at most DiscoveryLimit matches.
	ListProperties(ctx context.Context, publishedOnly bool, region string) ([]models.Property, error)
	GetProperty(ctx context.Context, id uint, publishedOnly bool) (*models.Property, error)
	PropertyDetail(ctx context.Context, id uint) (*PropertyDetail, error)
	CreateProperty(ctx context.Context, p *models.Property) error
	UpdateProperty(ctx context.Context, p *models.Property) error
	DeleteProperty(ctx context.Context, id uint) error

	ListRooms(ctx context.Context, propertyID uint, activeOnly bool) ([]models.Room, error)
	CreateRoom(ctx context.Context, room *models.Room) error
	UpdateRoom(ctx context.Context, room *models.Room) error
	DeleteRoom(ctx context.Context, id uint) error

	ListPricing(ctx context.Context, propertyID uint, activeOnly bool) ([]models.Pricing, error)
	CreatePricing(ctx context.Context, p *models.Pricing) error
	UpdatePricing(ctx context.Context, p *models.Pricing) error
	DeletePricing(ctx context.Context, id uint) error
}

type catalogService struct {
	propertyRepo repository.PropertyRepository
	roomRepo     repository.RoomRepository
	pricingRepo  repository.PricingRepository
	publisher    Publisher
}

func NewCatalogService(
	propertyRepo repository.PropertyRepository,
	roomRepo repository.RoomRepository,
	pricingRepo repository.PricingRepository,
	publisher Publisher,
) CatalogService {
	return &catalogService{
		propertyRepo: propertyRepo,
		roomRepo:     roomRepo,
		pricingRepo:  pricingRepo,
		publisher:    publisher,
	}
}

// DiscoveryLimit caps a region search.
const DiscoveryLimit = 9

func (s *catalogService) ListProperties(ctx context.Context, publishedOnly bool, region string) ([]models.Property, error) {
	var (
		props []models.Property
		err   error
	)
	if publishedOnly {
		props, err = s.propertyRepo.Filter(ctx, map[string]any{"status": models.PropertyPublished}, "name")
	} else {
		props, err = s.propertyRepo.List(ctx, "-created_date", 0)
	}
	if err != nil {
		return nil, err
	}

	region = strings.ToLower(strings.TrimSpace(region))
	if region == "" {
		return props, nil
	}
	matched := make([]models.Property, 0, DiscoveryLimit)
	for _, p := range props {
		if strings.Contains(strings.ToLower(p.Location.Region), region) {
			matched = append(matched, p)
			if len(matched) == DiscoveryLimit {
				break
			}
		}
	}
	return matched, nil
}

func (s *catalogService) GetProperty(ctx context.Context, id uint, publishedOnly bool) (*models.Property, error) {
	p, err := s.propertyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "property")
	}
	if publishedOnly && p.Status != models.PropertyPublished {
		return nil, fmt.Errorf("%w: property", ErrNotFound)
	}
	return p, nil
}

func (s *catalogService) PropertyDetail(ctx context.Context, id uint) (*PropertyDetail, error) {
	p, err := s.GetProperty(ctx, id, true)
	if err != nil {
		return nil, err
	}
	rooms, err := s.ListRooms(ctx, id, true)
	if err != nil {
		return nil, err
	}
	rates, err := s.ListPricing(ctx, id, true)
	if err != nil {
		return nil, err
	}

	detail := &PropertyDetail{Property: *p, Rooms: rooms}
	table, err := pricing.NewRateTable(rates)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConflict, err)
	}
	if lowest, ok := table.Lowest(id, models.TierSocial); ok {
		detail.FromRate = &lowest
	}
	return detail, nil
}

func validateProperty(p *models.Property) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return invalid("property name is required")
	}
	if p.Status == "" {
		p.Status = models.PropertyDraft
	}
	if !p.Status.Valid() {
		return invalid("unknown property status %q", p.Status)
	}
	if p.MocatRequired && strings.TrimSpace(p.MocatRegNo) == "" && p.Status == models.PropertyPublished {
		return invalid("a MoCAT registration number is required before publishing")
	}
	return nil
}

func (s *catalogService) CreateProperty(ctx context.Context, p *models.Property) error {
	if err := validateProperty(p); err != nil {
		return err
	}
	if err := s.propertyRepo.Create(ctx, p); err != nil {
		return fmt.Errorf("create property: %w", err)
	}
	if p.Status == models.PropertyPublished {
		publish(s.publisher, "property.published", p)
	}
	return nil
}

func (s *catalogService) UpdateProperty(ctx context.Context, p *models.Property) error {
	if err := validateProperty(p); err != nil {
		return err
	}
	current, err := s.propertyRepo.FindByID(ctx, p.ID)
	if err != nil {
		return notFound(err, "property")
	}
	p.CreatedAt = current.CreatedAt
	if err := s.propertyRepo.Update(ctx, p); err != nil {
		return fmt.Errorf("update property: %w", err)
	}
	if p.Status == models.PropertyPublished && current.Status != models.PropertyPublished {
		publish(s.publisher, "property.published", p)
	}
	return nil
}

func (s *catalogService) DeleteProperty(ctx context.Context, id uint) error {
	return notFound(s.propertyRepo.Delete(ctx, id), "property")
}

func (s *catalogService) ListRooms(ctx context.Context, propertyID uint, activeOnly bool) ([]models.Room, error) {
	fields := map[string]any{"property_id": propertyID}
	if activeOnly {
		fields["status"] = models.RoomActive
	}
	return s.roomRepo.Filter(ctx, fields, "name")
}

func (s *catalogService) validateRoom(ctx context.Context, room *models.Room) error {
	room.Name = strings.TrimSpace(room.Name)
	if room.Name == "" {
		return invalid("room name is required")
	}
	rt, err := models.ParseRoomType(string(room.RoomType))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	room.RoomType = rt
	if room.Capacity < 1 {
		return invalid("room capacity must be at least 1")
	}
	if room.Status == "" {
		room.Status = models.RoomActive
	}
	if room.Status != models.RoomActive && room.Status != models.RoomInactive {
		return invalid("unknown room status %q", room.Status)
	}
	if _, err := s.propertyRepo.FindByID(ctx, room.PropertyID); err != nil {
		return notFound(err, "property")
	}
	return nil
}

func (s *catalogService) CreateRoom(ctx context.Context, room *models.Room) error {
	if err := s.validateRoom(ctx, room); err != nil {
		return err
	}
	if err := s.roomRepo.Create(ctx, room); err != nil {
		return fmt.Errorf("create room: %w", err)
	}
	return nil
}

func (s *catalogService) UpdateRoom(ctx context.Context, room *models.Room) error {
	if err := s.validateRoom(ctx, room); err != nil {
		return err
	}
	current, err := s.roomRepo.FindByID(ctx, room.ID)
	if err != nil {
		return notFound(err, "room")
	}
	room.CreatedAt = current.CreatedAt
	if err := s.roomRepo.Update(ctx, room); err != nil {
		return fmt.Errorf("update room: %w", err)
	}
	return nil
}

func (s *catalogService) DeleteRoom(ctx context.Context, id uint) error {
	return notFound(s.roomRepo.Delete(ctx, id), "room")
}

func (s *catalogService) ListPricing(ctx context.Context, propertyID uint, activeOnly bool) ([]models.Pricing, error) {
	fields := map[string]any{"property_id": propertyID}
	if activeOnly {
		fields["is_active"] = true
	}
	return s.pricingRepo.Filter(ctx, fields, "")
}

func validatePricing(p *models.Pricing) error {
	rt, err := models.ParseRoomType(string(p.RoomType))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	p.RoomType = rt
	if !p.Tier.Valid() {
		return invalid("unknown pricing tier %q", p.Tier)
	}
	if p.BaseRate < 0 {
		return invalid("base_rate must not be negative")
	}
	return nil
}

// savePricing writes p, refusing a second active row for the same property, room type and
// tier. The partial unique index backs the check when two writers race.
func (s *catalogService) savePricing(ctx context.Context, p *models.Pricing, create bool) error {
	if err := validatePricing(p); err != nil {
		return err
	}
	if _, err := s.propertyRepo.FindByID(ctx, p.PropertyID); err != nil {
		return notFound(err, "property")
	}

	if !create {
		current, err := s.pricingRepo.FindByID(ctx, p.ID)
		if err != nil {
			return notFound(err, "pricing")
		}
		p.CreatedAt = current.CreatedAt
	}

	err := s.pricingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if p.IsActive {
			existing, err := s.pricingRepo.FindActive(ctx, tx, p.PropertyID, p.RoomType, p.Tier)
			switch {
			case err == nil && existing.ID != p.ID:
				return fmt.Errorf("%w: an active %s/%s rate already exists for this property", ErrConflict, p.RoomType, p.Tier)
			case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
				return err
			}
		}
		if create {
			return s.pricingRepo.Create(ctx, tx, p)
		}
		return s.pricingRepo.Update(ctx, tx, p)
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: an active %s/%s rate already exists for this property", ErrConflict, p.RoomType, p.Tier)
	}
	return err
}

func (s *catalogService) CreatePricing(ctx context.Context, p *models.Pricing) error {
	return s.savePricing(ctx, p, true)
}

func (s *catalogService) UpdatePricing(ctx context.Context, p *models.Pricing) error {
	return s.savePricing(ctx, p, false)
}

func (s *catalogService) DeletePricing(ctx context.Context, id uint) error {
	return notFound(s.pricingRepo.Delete(ctx, id), "pricing")
}
