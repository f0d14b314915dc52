package service

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/lekhyo/booking-service/internal/compliance"
	"github.com/lekhyo/booking-service/internal/models"
	"github.com/lekhyo/booking-service/internal/repository"
)

// ReportRange selects the rows of a compliance report. A nil PropertyID covers every property.
type ReportRange struct {
	From       time.Time
	To         time.Time
	PropertyID *uint
}

func (r ReportRange) validate() (ReportRange, error) {
	if r.From.IsZero() || r.To.IsZero() {
		return r, invalid("from and to dates are required")
	}
	r.From, r.To = models.Day(r.From), models.Day(r.To)
	if r.To.Before(r.From) {
		return r, invalid("from must not be after to")
	}
	return r, nil
}

func (r ReportRange) propertyLabel() string {
	if r.PropertyID == nil {
		return models.AllProperties
	}
	return strconv.FormatUint(uint64(*r.PropertyID), 10)
}

type ComplianceSummary struct {
	From      string             `json:"from"`
	To        string             `json:"to"`
	Revenue   compliance.Revenue `json:"revenue"`
	Formatted map[string]string  `json:"formatted"`
	// MocatPending flags properties still missing their MoCAT registration number.
	MocatPending []compliance.PropertyRef `json:"mocat_pending"`
}

// Export is a generated CSV together with the audit row recorded for it.
type Export struct {
	Filename string
	Data     []byte
	Record   models.ComplianceExport
}

type ComplianceService interface {
	Summary(ctx context.Context, r ReportRange) (*ComplianceSummary, error)
	GuestRegisters(ctx context.Context, r ReportRange) ([]models.GuestRegister, error)
	RecordGuestRegister(ctx context.Context, reg *models.GuestRegister) error
	ExportGuestRegister(ctx context.Context, r ReportRange, exportedBy string) (*Export, error)
	ExportVATReport(ctx context.Context, r ReportRange, exportedBy string) (*Export, error)
	ListExports(ctx context.Context, limit int) ([]models.ComplianceExport, error)
	Dashboard(ctx context.Context) (*compliance.Dashboard, error)
}

type complianceService struct {
	bookingRepo  repository.BookingRepository
	propertyRepo repository.PropertyRepository
	registerRepo repository.GuestRegisterRepository
	exportRepo   repository.ComplianceExportRepository
	now          func() time.Time
}

func NewComplianceService(
	bookingRepo repository.BookingRepository,
	propertyRepo repository.PropertyRepository,
	registerRepo repository.GuestRegisterRepository,
	exportRepo repository.ComplianceExportRepository,
) ComplianceService {
	return &complianceService{
		bookingRepo:  bookingRepo,
		propertyRepo: propertyRepo,
		registerRepo: registerRepo,
		exportRepo:   exportRepo,
		now:          time.Now,
	}
}

func (s *complianceService) realized(ctx context.Context, r ReportRange) ([]models.Booking, error) {
	candidates, err := s.bookingRepo.FindByPropertyBetween(ctx, r.PropertyID, r.From, r.To)
	if err != nil {
		return nil, err
	}
	return compliance.RealizedBookings(candidates, r.From, r.To, r.PropertyID), nil
}

func (s *complianceService) Summary(ctx context.Context, r ReportRange) (*ComplianceSummary, error) {
	r, err := r.validate()
	if err != nil {
		return nil, err
	}
	bookings, err := s.realized(ctx, r)
	if err != nil {
		return nil, err
	}
	properties, err := s.propertyRepo.List(ctx, "name", 0)
	if err != nil {
		return nil, err
	}
	if r.PropertyID != nil {
		properties = slices.DeleteFunc(properties, func(p models.Property) bool { return p.ID != *r.PropertyID })
	}
	rev := compliance.RevenueSummary(bookings)
	return &ComplianceSummary{
		From:    r.From.Format(time.DateOnly),
		To:      r.To.Format(time.DateOnly),
		Revenue: rev,
		Formatted: map[string]string{
			"base_total":  compliance.FormatTaka(rev.Base),
			"vat_total":   compliance.FormatTaka(rev.VAT),
			"grand_total": compliance.FormatTaka(rev.Grand),
		},
		MocatPending: compliance.MocatPending(properties),
	}, nil
}

func (s *complianceService) GuestRegisters(ctx context.Context, r ReportRange) ([]models.GuestRegister, error) {
	r, err := r.validate()
	if err != nil {
		return nil, err
	}
	var registers []models.GuestRegister
	if r.PropertyID != nil {
		registers, err = s.registerRepo.Filter(ctx, map[string]any{"property_id": *r.PropertyID}, "")
	} else {
		registers, err = s.registerRepo.List(ctx, "", 0)
	}
	if err != nil {
		return nil, err
	}
	return compliance.GuestRegisterRows(registers, r.From, r.To, r.PropertyID), nil
}

// RecordGuestRegister captures the primary guest's identity at the check-in desk.
func (s *complianceService) RecordGuestRegister(ctx context.Context, reg *models.GuestRegister) error {
	reg.GuestName = strings.TrimSpace(reg.GuestName)
	reg.IDNumber = strings.TrimSpace(reg.IDNumber)
	reg.Nationality = strings.TrimSpace(reg.Nationality)
	if reg.GuestName == "" || reg.IDNumber == "" || reg.Nationality == "" {
		return invalid("guest name, id number and nationality are required")
	}
	if !reg.IDType.Valid() {
		return invalid("unknown id type %q", reg.IDType)
	}

	b, err := s.bookingRepo.FindByID(ctx, reg.BookingID)
	if err != nil {
		return notFound(err, "booking")
	}
	if b.Status != models.StatusCheckedIn {
		return fmt.Errorf("%w: guest register needs a checked-in booking, %s is %s", ErrInvalidTransition, b.BookingRef, b.Status)
	}

	reg.PropertyID = b.PropertyID
	if reg.CheckInTime == nil {
		t := s.now().UTC()
		if b.CheckedInAt != nil {
			t = *b.CheckedInAt
		}
		reg.CheckInTime = &t
	}
	if err := s.registerRepo.Create(ctx, reg); err != nil {
		return fmt.Errorf("create guest register: %w", err)
	}
	return nil
}

func (s *complianceService) ExportGuestRegister(ctx context.Context, r ReportRange, exportedBy string) (*Export, error) {
	rows, err := s.GuestRegisters(ctx, r)
	if err != nil {
		return nil, err
	}
	r, _ = r.validate()

	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.BookingID)
	}
	bookings, err := s.bookingRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	refs := make(map[uint]string, len(bookings))
	for _, b := range bookings {
		refs[b.ID] = b.BookingRef
	}

	var buf bytes.Buffer
	if err := compliance.WriteGuestRegisterCSV(&buf, rows, refs); err != nil {
		return nil, fmt.Errorf("write guest register csv: %w", err)
	}
	return s.record(ctx, r, models.ExportGuestRegister, len(rows), exportedBy, buf.Bytes())
}

func (s *complianceService) ExportVATReport(ctx context.Context, r ReportRange, exportedBy string) (*Export, error) {
	r, err := r.validate()
	if err != nil {
		return nil, err
	}
	bookings, err := s.realized(ctx, r)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.PropertyID)
	}
	properties, err := s.propertyRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(properties))
	for _, p := range properties {
		names[p.ID] = p.Name
	}

	var buf bytes.Buffer
	if err := compliance.WriteVATReportCSV(&buf, bookings, names, compliance.RevenueSummary(bookings)); err != nil {
		return nil, fmt.Errorf("write vat report csv: %w", err)
	}
	return s.record(ctx, r, models.ExportVATReport, len(bookings), exportedBy, buf.Bytes())
}

// record writes the audit row. An export that cannot be logged is not handed out.
func (s *complianceService) record(ctx context.Context, r ReportRange, typ models.ExportType, count int, exportedBy string, data []byte) (*Export, error) {
	rec := models.ComplianceExport{
		PropertyID:  r.propertyLabel(),
		ExportType:  typ,
		DateFrom:    r.From,
		DateTo:      r.To,
		RecordCount: count,
		ExportedBy:  exportedBy,
	}
	if err := s.exportRepo.Create(ctx, &rec); err != nil {
		return nil, fmt.Errorf("record %s export: %w", typ, err)
	}
	name := fmt.Sprintf("%s_%s_%s_%s.csv", typ, rec.PropertyID, r.From.Format(time.DateOnly), r.To.Format(time.DateOnly))
	return &Export{Filename: name, Data: data, Record: rec}, nil
}

func (s *complianceService) ListExports(ctx context.Context, limit int) ([]models.ComplianceExport, error) {
	return s.exportRepo.List(ctx, "-created_date", limit)
}

func (s *complianceService) Dashboard(ctx context.Context) (*compliance.Dashboard, error) {
	bookings, err := s.bookingRepo.List(ctx, "", 0)
	if err != nil {
		return nil, err
	}
	properties, err := s.propertyRepo.List(ctx, "", 0)
	if err != nil {
		return nil, err
	}
	d := compliance.BuildDashboard(bookings, properties, s.now())
	return &d, nil
}
