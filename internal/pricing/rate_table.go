package pricing

import (
	"errors"
	"fmt"

	"github.com/lekhyo/booking-service/internal/models"
)

var (
	ErrRateNotFound  = errors.New("no active rate for room type and tier")
	ErrDuplicateRate = errors.New("duplicate active rate for room type and tier")
)

type rateKey struct {
	propertyID uint
	roomType   models.RoomType
	tier       models.Tier
}

// RateTable resolves nightly base rates from active Pricing rows.
type RateTable struct {
	rates map[rateKey]int64
}

// NewRateTable indexes the active rows. Inactive rows are skipped; two active rows for the
// same property, room type and tier are rejected rather than resolved by order.
func NewRateTable(rows []models.Pricing) (*RateTable, error) {
	t := &RateTable{rates: make(map[rateKey]int64, len(rows))}
	for _, p := range rows {
		if !p.IsActive {
			continue
		}
		k := rateKey{p.PropertyID, p.RoomType, p.Tier}
		if _, ok := t.rates[k]; ok {
			return nil, fmt.Errorf("%w: property %d %s/%s", ErrDuplicateRate, p.PropertyID, p.RoomType, p.Tier)
		}
		t.rates[k] = p.BaseRate
	}
	return t, nil
}

func (t *RateTable) Rate(propertyID uint, roomType models.RoomType, tier models.Tier) (int64, error) {
	r, ok := t.rates[rateKey{propertyID, roomType, tier}]
	if !ok {
		return 0, fmt.Errorf("%w: property %d %s/%s", ErrRateNotFound, propertyID, roomType, tier)
	}
	return r, nil
}

// Lowest returns the cheapest rate offered for a tier at a property.
func (t *RateTable) Lowest(propertyID uint, tier models.Tier) (int64, bool) {
	var (
		min   int64
		found bool
	)
	for k, r := range t.rates {
		if k.propertyID != propertyID || k.tier != tier {
			continue
		}
		if !found || r < min {
			min, found = r, true
		}
	}
	return min, found
}
