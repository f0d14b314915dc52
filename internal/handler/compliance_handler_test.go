package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lekhyo/booking-service/internal/compliance"
	"github.com/lekhyo/booking-service/internal/middleware"
	"github.com/lekhyo/booking-service/internal/models"
	"github.com/lekhyo/booking-service/internal/service"
	"github.com/lekhyo/booking-service/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock ComplianceService ---

type mockComplianceService struct {
	summaryFn   func(ctx context.Context, r service.ReportRange) (*service.ComplianceSummary, error)
	registersFn func(ctx context.Context, r service.ReportRange) ([]models.GuestRegister, error)
	recordFn    func(ctx context.Context, reg *models.GuestRegister) error
	exportGRFn  func(ctx context.Context, r service.ReportRange, exportedBy string) (*service.Export, error)
	exportVATFn func(ctx context.Context, r service.ReportRange, exportedBy string) (*service.Export, error)
	listFn      func(ctx context.Context, limit int) ([]models.ComplianceExport, error)
}

func (m *mockComplianceService) Summary(ctx context.Context, r service.ReportRange) (*service.ComplianceSummary, error) {
	return m.summaryFn(ctx, r)
}
func (m *mockComplianceService) GuestRegisters(ctx context.Context, r service.ReportRange) ([]models.GuestRegister, error) {
	return m.registersFn(ctx, r)
}
func (m *mockComplianceService) RecordGuestRegister(ctx context.Context, reg *models.GuestRegister) error {
	return m.recordFn(ctx, reg)
}
func (m *mockComplianceService) ExportGuestRegister(ctx context.Context, r service.ReportRange, exportedBy string) (*service.Export, error) {
	return m.exportGRFn(ctx, r, exportedBy)
}
func (m *mockComplianceService) ExportVATReport(ctx context.Context, r service.ReportRange, exportedBy string) (*service.Export, error) {
	return m.exportVATFn(ctx, r, exportedBy)
}
func (m *mockComplianceService) ListExports(ctx context.Context, limit int) ([]models.ComplianceExport, error) {
	return m.listFn(ctx, limit)
}
func (m *mockComplianceService) Dashboard(ctx context.Context) (*compliance.Dashboard, error) {
	return &compliance.Dashboard{}, nil
}

// --- Tests ---

func TestExportVATReport_Handler_SendsCSV(t *testing.T) {
	svc := &mockComplianceService{
		exportVATFn: func(ctx context.Context, r service.ReportRange, exportedBy string) (*service.Export, error) {
			assert.Nil(t, r.PropertyID)
			assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), r.From)
			assert.Equal(t, "manager@lekhyo.com", exportedBy)
			return &service.Export{
				Filename: "vat_report_all_2026-03-01_2026-03-31.csv",
				Data:     []byte("Invoice No,Booking Ref\n"),
				Record:   models.ComplianceExport{RecordCount: 0},
			}, nil
		},
	}
	e := newEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/", `{"date_from":"2026-03-01","date_to":"2026-03-31"}`), rec)
	middleware.WithSession(c, session.Session{Email: "manager@lekhyo.com", Role: models.RoleManager})

	require.NoError(t, NewComplianceHandler(svc).ExportVATReport(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="vat_report_all_2026-03-01_2026-03-31.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "0", rec.Header().Get("X-Record-Count"))
	assert.Equal(t, "Invoice No,Booking Ref\n", rec.Body.String())
}

func TestExportGuestRegister_Handler_Errors(t *testing.T) {
	svc := &mockComplianceService{
		exportGRFn: func(ctx context.Context, r service.ReportRange, exportedBy string) (*service.Export, error) {
			return nil, errors.New("record guest_register export: disk full")
		},
	}
	e := newEcho()
	h := NewComplianceHandler(svc)

	c := e.NewContext(jsonRequest(http.MethodPost, "/", `{"date_from":"2026-03-01"}`), httptest.NewRecorder())
	assertStatus(t, h.ExportGuestRegister(c), http.StatusBadRequest)

	c = e.NewContext(jsonRequest(http.MethodPost, "/", `{"property_id":2,"date_from":"2026-03-01","date_to":"2026-03-31"}`), httptest.NewRecorder())
	assertStatus(t, h.ExportGuestRegister(c), http.StatusInternalServerError)
}

func TestSummary_Handler_PropertyFilter(t *testing.T) {
	var got service.ReportRange
	svc := &mockComplianceService{
		summaryFn: func(ctx context.Context, r service.ReportRange) (*service.ComplianceSummary, error) {
			got = r
			return &service.ComplianceSummary{Revenue: compliance.Revenue{Grand: 5175, Count: 1}}, nil
		},
	}
	e := newEcho()
	h := NewComplianceHandler(svc)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/?property_id=4&from=2026-03-01&to=2026-03-31", nil), rec)
	require.NoError(t, h.Summary(c))
	require.NotNil(t, got.PropertyID)
	assert.Equal(t, uint(4), *got.PropertyID)
	assert.Contains(t, rec.Body.String(), `"grand_total":5175`)

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/?property_id=all&from=2026-03-01&to=2026-03-31", nil), httptest.NewRecorder())
	require.NoError(t, h.Summary(c))
	assert.Nil(t, got.PropertyID)

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/?from=2026-03-01", nil), httptest.NewRecorder())
	assertStatus(t, h.Summary(c), http.StatusBadRequest)
}

func TestRecordGuestRegister_Handler(t *testing.T) {
	svc := &mockComplianceService{
		recordFn: func(ctx context.Context, reg *models.GuestRegister) error {
			if reg.BookingID == 9 {
				return service.ErrInvalidTransition
			}
			assert.Equal(t, models.IDPassport, reg.IDType)
			reg.ID = 1
			return nil
		},
	}
	e := newEcho()
	h := NewComplianceHandler(svc)

	body := `{"booking_id":1,"guest_name":"John Smith","id_type":"passport","id_number":"X1234567","nationality":"British"}`
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/", body), rec)
	require.NoError(t, h.RecordGuestRegister(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	body = `{"booking_id":9,"guest_name":"John Smith","id_type":"passport","id_number":"X1234567","nationality":"British"}`
	c = e.NewContext(jsonRequest(http.MethodPost, "/", body), httptest.NewRecorder())
	assertStatus(t, h.RecordGuestRegister(c), http.StatusConflict)

	body = `{"booking_id":1,"guest_name":"John Smith","id_type":"library_card","id_number":"X1","nationality":"British"}`
	c = e.NewContext(jsonRequest(http.MethodPost, "/", body), httptest.NewRecorder())
	assertStatus(t, h.RecordGuestRegister(c), http.StatusBadRequest)
}

func TestListExports_Handler_Limit(t *testing.T) {
	svc := &mockComplianceService{
		listFn: func(ctx context.Context, limit int) ([]models.ComplianceExport, error) {
			assert.Equal(t, 50, limit)
			return []models.ComplianceExport{{ID: 1, PropertyID: models.AllProperties}}, nil
		},
	}
	e := newEcho()
	h := NewComplianceHandler(svc)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, h.ListExports(c))
	assert.Contains(t, rec.Body.String(), `"property_id":"all"`)

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/?limit=-1", nil), httptest.NewRecorder())
	assertStatus(t, h.ListExports(c), http.StatusBadRequest)
}
