package pricing

import (
	"errors"
	"fmt"
	"time"

	"github.com/lekhyo/booking-service/internal/models"
	"github.com/shopspring/decimal"
)

// DefaultVATPercent is the fixed Bangladeshi VAT rate on accommodation.
const DefaultVATPercent int64 = 15

var (
	ErrInvalidStay   = errors.New("check-out must be at least one night after check-in")
	ErrInvalidRate   = errors.New("rate must not be negative")
	ErrPriceMismatch = errors.New("amounts do not match the computed quote")
)

// hintTolerance is one poisha, the minor unit of the taka.
var hintTolerance = decimal.New(1, -2)

type Quote struct {
	Rate        int64 `json:"nightly_rate"`
	Nights      int   `json:"nights"`
	BaseAmount  int64 `json:"base_amount"`
	VATAmount   int64 `json:"vat_amount"`
	TotalAmount int64 `json:"total_amount"`
}

// Nights counts whole calendar days between the two dates.
func Nights(checkIn, checkOut time.Time) (int, error) {
	in, out := models.Day(checkIn), models.Day(checkOut)
	n := int(out.Sub(in).Hours() / 24)
	if n <= 0 {
		return 0, fmt.Errorf("%w: %s to %s", ErrInvalidStay, in.Format(time.DateOnly), out.Format(time.DateOnly))
	}
	return n, nil
}

// NewQuote computes base = rate × nights, VAT rounded half-up to a whole taka, and
// total = base + VAT. The total is never derived any other way.
func NewQuote(rate int64, nights int, vatPercent int64) (Quote, error) {
	if nights <= 0 {
		return Quote{}, ErrInvalidStay
	}
	if rate < 0 {
		return Quote{}, ErrInvalidRate
	}

	base := rate * int64(nights)
	vat := decimal.NewFromInt(base).
		Mul(decimal.NewFromInt(vatPercent)).
		Div(decimal.NewFromInt(100)).
		Round(0).
		IntPart()

	return Quote{
		Rate:        rate,
		Nights:      nights,
		BaseAmount:  base,
		VATAmount:   vat,
		TotalAmount: base + vat,
	}, nil
}

// Verify compares stored amounts against the quote without repairing them.
func (q Quote) Verify(base, vat, total int64) error {
	if base+vat != total {
		return fmt.Errorf("%w: base %d + vat %d != total %d", ErrPriceMismatch, base, vat, total)
	}
	if base != q.BaseAmount || vat != q.VATAmount || total != q.TotalAmount {
		return fmt.Errorf("%w: stored %d/%d/%d, computed %d/%d/%d", ErrPriceMismatch,
			base, vat, total, q.BaseAmount, q.VATAmount, q.TotalAmount)
	}
	return nil
}

// MatchesHint reports whether a client-submitted total agrees with the quote within one
// minor currency unit.
func (q Quote) MatchesHint(hint decimal.Decimal) bool {
	return hint.Sub(decimal.NewFromInt(q.TotalAmount)).Abs().LessThanOrEqual(hintTolerance)
}
