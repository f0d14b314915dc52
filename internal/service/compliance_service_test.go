package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lekhyo/booking-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) complianceService(now time.Time) *complianceService {
	svc := NewComplianceService(f.bookings, f.props, f.registers, f.exports).(*complianceService)
	svc.now = func() time.Time { return now }
	return svc
}

func march() ReportRange {
	return ReportRange{From: date(2026, 3, 1), To: date(2026, 3, 31)}
}

func TestSummary_CountsRealizedStaysOnly(t *testing.T) {
	f := newFixture(t)
	svc := f.complianceService(today)

	for _, st := range []models.BookingStatus{models.StatusCheckedIn, models.StatusCheckedOut, models.StatusConfirmed, models.StatusCancelled} {
		stay := pendingStay()
		stay.Status = st
		f.insertBooking(t, stay)
	}

	got, err := svc.Summary(context.Background(), march())

	require.NoError(t, err)
	assert.Equal(t, 2, got.Revenue.Count)
	assert.Equal(t, int64(9000), got.Revenue.Base)
	assert.Equal(t, int64(1350), got.Revenue.VAT)
	assert.Equal(t, int64(10350), got.Revenue.Grand)
	assert.Equal(t, "৳10,350", got.Formatted["grand_total"])
	assert.Empty(t, got.MocatPending)
}

func TestSummary_ListsPropertiesAwaitingMocatRegistration(t *testing.T) {
	f := newFixture(t)
	svc := f.complianceService(today)
	ctx := context.Background()

	hill := models.Property{Name: "Bandarban Hill Cottage", Status: models.PropertyDraft, MocatRequired: true}
	require.NoError(t, f.props.Create(ctx, &hill))
	registered := models.Property{Name: "Sundarbans Eco Resort", Status: models.PropertyDraft, MocatRequired: true, MocatRegNo: "MOCAT-77"}
	require.NoError(t, f.props.Create(ctx, &registered))

	got, err := svc.Summary(ctx, march())
	require.NoError(t, err)
	require.Len(t, got.MocatPending, 1)
	assert.Equal(t, hill.ID, got.MocatPending[0].ID)
	assert.Equal(t, "Bandarban Hill Cottage", got.MocatPending[0].Name)

	// Scoped to another property, the alert is empty.
	r := march()
	r.PropertyID = &f.property.ID
	scoped, err := svc.Summary(ctx, r)
	require.NoError(t, err)
	assert.Empty(t, scoped.MocatPending)
}

func TestSummary_RejectsInvertedRange(t *testing.T) {
	f := newFixture(t)
	svc := f.complianceService(today)

	_, err := svc.Summary(context.Background(), ReportRange{From: date(2026, 3, 31), To: date(2026, 3, 1)})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRecordGuestRegister(t *testing.T) {
	f := newFixture(t)
	svc := f.complianceService(today)
	ctx := context.Background()

	pending := f.insertBooking(t, pendingStay())
	err := svc.RecordGuestRegister(ctx, &models.GuestRegister{
		BookingID: pending.ID, GuestName: "Rahim Uddin", IDType: models.IDNational, IDNumber: "1990123456789", Nationality: "Bangladeshi",
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	stay := pendingStay()
	stay.Status = models.StatusCheckedIn
	arrived := time.Date(2026, 3, 10, 14, 5, 0, 0, time.UTC)
	stay.CheckedInAt = &arrived
	b := f.insertBooking(t, stay)

	reg := &models.GuestRegister{
		BookingID: b.ID, GuestName: "Rahim Uddin", IDType: models.IDNational, IDNumber: "1990123456789", Nationality: "Bangladeshi",
	}
	require.NoError(t, svc.RecordGuestRegister(ctx, reg))
	assert.Equal(t, f.property.ID, reg.PropertyID)
	require.NotNil(t, reg.CheckInTime)
	assert.True(t, arrived.Equal(*reg.CheckInTime))

	err = svc.RecordGuestRegister(ctx, &models.GuestRegister{BookingID: b.ID, GuestName: "X", IDType: "ration_card", IDNumber: "1", Nationality: "BD"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExportGuestRegister_WritesAuditRow(t *testing.T) {
	f := newFixture(t)
	svc := f.complianceService(today)
	ctx := context.Background()

	stay := pendingStay()
	stay.Status = models.StatusCheckedIn
	b := f.insertBooking(t, stay)
	in := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	require.NoError(t, f.registers.Create(ctx, &models.GuestRegister{
		BookingID: b.ID, PropertyID: f.property.ID, GuestName: "Rahim Uddin",
		IDType: models.IDPassport, IDNumber: "EB0123456", Nationality: "Bangladeshi", CheckInTime: &in,
	}))

	out, err := svc.ExportGuestRegister(ctx, march(), "manager@lekhyo.com")

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out.Data)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], b.BookingRef+",Rahim Uddin"))
	assert.Contains(t, lines[1], "2026-03-10 14:00")
	assert.Equal(t, "guest_register_all_2026-03-01_2026-03-31.csv", out.Filename)

	logged, err := svc.ListExports(ctx, 10)
	require.NoError(t, err)
	require.Len(t, logged, 1)
	assert.Equal(t, models.AllProperties, logged[0].PropertyID)
	assert.Equal(t, models.ExportGuestRegister, logged[0].ExportType)
	assert.Equal(t, 1, logged[0].RecordCount)
	assert.Equal(t, "manager@lekhyo.com", logged[0].ExportedBy)
}

func TestExportGuestRegister_EmptyRangeStillAudited(t *testing.T) {
	f := newFixture(t)
	svc := f.complianceService(today)
	ctx := context.Background()

	out, err := svc.ExportGuestRegister(ctx, march(), "manager@lekhyo.com")

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out.Data)), "\n")
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "Booking Ref,"))
	assert.True(t, strings.HasSuffix(lines[0], ",Check Out"))
	assert.Equal(t, 0, out.Record.RecordCount)

	logged, err := svc.ListExports(ctx, 10)
	require.NoError(t, err)
	require.Len(t, logged, 1)
	assert.Equal(t, models.ExportGuestRegister, logged[0].ExportType)
	assert.Equal(t, 0, logged[0].RecordCount)
	assert.Equal(t, "manager@lekhyo.com", logged[0].ExportedBy)
}

func TestExportVATReport_TotalsAndPropertyFilter(t *testing.T) {
	f := newFixture(t)
	svc := f.complianceService(today)
	ctx := context.Background()

	stay := pendingStay()
	stay.Status = models.StatusCheckedOut
	invoice := "INV-LKY-0000AAAA"
	stay.InvoiceNo = &invoice
	stay.PaymentStatus = models.PaymentCompleted
	f.insertBooking(t, stay)

	r := march()
	r.PropertyID = &f.property.ID
	out, err := svc.ExportVATReport(ctx, r, "admin@lekhyo.com")

	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(out.Data), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "Sreemangal Tea Garden Lodge")
	assert.Equal(t, "", lines[2])
	assert.Equal(t, ",,,,,TOTALS:,4500,675,5175,", lines[3])

	logged, err := svc.ListExports(ctx, 0)
	require.NoError(t, err)
	require.Len(t, logged, 1)
	assert.Equal(t, "1", logged[0].PropertyID)
	assert.Equal(t, models.ExportVATReport, logged[0].ExportType)
}

type failingExportRepo struct{}

func (failingExportRepo) List(ctx context.Context, sort string, limit int) ([]models.ComplianceExport, error) {
	return nil, nil
}

func (failingExportRepo) Create(ctx context.Context, e *models.ComplianceExport) error {
	return errors.New("disk full")
}

func TestExport_FailsWhenAuditRowCannotBeWritten(t *testing.T) {
	f := newFixture(t)
	svc := f.complianceService(today)
	svc.exportRepo = failingExportRepo{}

	out, err := svc.ExportVATReport(context.Background(), march(), "admin@lekhyo.com")

	assert.Nil(t, out)
	assert.ErrorContains(t, err, "disk full")
}

func TestDashboard(t *testing.T) {
	f := newFixture(t)
	svc := f.complianceService(date(2026, 3, 10))
	stay := pendingStay()
	stay.Status = models.StatusConfirmed
	f.insertBooking(t, stay)

	d, err := svc.Dashboard(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, d.TotalProperties)
	assert.Equal(t, 1, d.Arrivals)
	assert.Equal(t, 1, d.StatusCounts[models.StatusConfirmed])
	assert.Empty(t, d.MocatPending)
}
