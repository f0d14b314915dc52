package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lekhyo/booking-service/internal/dto"
	"github.com/lekhyo/booking-service/internal/middleware"
	"github.com/lekhyo/booking-service/internal/repository"
	"github.com/lekhyo/booking-service/internal/service"
	"github.com/lekhyo/booking-service/internal/session"
	"github.com/lekhyo/booking-service/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flowServer wires the real services over a SQLite database, the same way main does.
type flowServer struct {
	t *testing.T
	e *echo.Echo
}

func newFlowServer(t *testing.T) *flowServer {
	t.Helper()
	db := testdb.New(t)

	bookingRepo := repository.NewBookingRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	pricingRepo := repository.NewPricingRepository(db)

	bookingSvc := service.NewBookingService(bookingRepo, propertyRepo, roomRepo, pricingRepo, nil)
	catalogSvc := service.NewCatalogService(propertyRepo, roomRepo, pricingRepo, nil)
	complianceSvc := service.NewComplianceService(bookingRepo, propertyRepo,
		repository.NewGuestRegisterRepository(db), repository.NewComplianceExportRepository(db))
	authSvc := service.NewAuthService(repository.NewUserRepository(db), repository.NewTokenRepository(db),
		session.NewManager("flow-secret", time.Hour), "https://lekhyo.com/login")
	require.NoError(t, authSvc.EnsureAdmin(context.Background(), "admin@lekhyo.com", "admin-password"))

	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Validator = middleware.NewValidator()

	api := e.Group("/api/v1")
	auth := middleware.JWTAuth(authSvc)
	manage := api.Group("/manage", auth, middleware.RequireManager())

	NewAuthHandler(authSvc).RegisterRoutes(api, auth)
	NewCatalogHandler(catalogSvc).RegisterRoutes(api, manage)
	NewBookingHandler(bookingSvc).RegisterRoutes(api, auth, manage)
	NewComplianceHandler(complianceSvc).RegisterRoutes(manage)

	return &flowServer{t: t, e: e}
}

func (s *flowServer) call(method, path, token, body string) *httptest.ResponseRecorder {
	s.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *flowServer) expect(rec *httptest.ResponseRecorder, code int, out any) {
	s.t.Helper()
	require.Equal(s.t, code, rec.Code, rec.Body.String())
	if out != nil {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), out))
	}
}

func (s *flowServer) login(email, password string) string {
	s.t.Helper()
	var resp dto.LoginResponse
	s.expect(s.call(http.MethodPost, "/api/v1/auth/login", "", fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)), http.StatusOK, &resp)
	return resp.Token
}

func TestFullBookingFlow(t *testing.T) {
	s := newFlowServer(t)
	admin := s.login("admin@lekhyo.com", "admin-password")

	// Catalog setup.
	var property struct{ ID uint }
	s.expect(s.call(http.MethodPost, "/api/v1/manage/properties", admin,
		`{"name":"Sreemangal Tea Garden Lodge","status":"published","region":"Sylhet","mocat_required":true,"mocat_reg_no":"MOCAT-123"}`),
		http.StatusCreated, &property)

	var room struct{ ID uint }
	s.expect(s.call(http.MethodPost, fmt.Sprintf("/api/v1/manage/properties/%d/rooms", property.ID), admin,
		`{"name":"Room 101","room_type":"deluxe","capacity":2,"status":"active"}`),
		http.StatusCreated, &room)

	s.expect(s.call(http.MethodPost, fmt.Sprintf("/api/v1/manage/properties/%d/pricing", property.ID), admin,
		`{"room_type":"deluxe","tier":"social","base_rate":1500}`),
		http.StatusCreated, nil)

	// Guest quotes and books.
	s.expect(s.call(http.MethodPost, "/api/v1/auth/register", "",
		`{"email":"rahim@example.com","password":"guest-password","full_name":"Rahim Uddin"}`),
		http.StatusCreated, nil)
	guest := s.login("rahim@example.com", "guest-password")

	stay := fmt.Sprintf(`"property_id":%d,"room_ids":[%d],"check_in_date":"2026-03-10","check_out_date":"2026-03-13","pricing_tier":"social"`, property.ID, room.ID)

	var quote dto.QuoteResponse
	s.expect(s.call(http.MethodPost, "/api/v1/quotes", "", "{"+stay+"}"), http.StatusOK, &quote)
	assert.Equal(t, int64(5175), quote.TotalAmount)
	assert.Equal(t, 3, quote.Nights)

	// Anonymous checkout is sent to the login page.
	rec := s.call(http.MethodPost, "/api/v1/bookings", "", "{"+stay+"}")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "login_url")

	checkout := "{" + stay + `,"guest_name":"Rahim Uddin","guest_email":"rahim@example.com","guest_phone":"01711000000","guests_count":2,"payment_method":"bkash","quoted_total":5175}`
	var booking dto.BookingResponse
	s.expect(s.call(http.MethodPost, "/api/v1/bookings", guest, checkout), http.StatusCreated, &booking)
	assert.Regexp(t, `^LKY-[0-9A-F]{8}$`, booking.BookingRef)
	assert.Equal(t, "pending_payment", string(booking.Status))

	// Guests cannot reach the management API.
	s.expect(s.call(http.MethodGet, "/api/v1/manage/bookings", guest, ""), http.StatusForbidden, nil)

	// Front desk walks the booking through its stay.
	transition := func(event string, changed bool) dto.BookingResponse {
		var out struct {
			Booking dto.BookingResponse `json:"booking"`
			Changed bool                `json:"changed"`
		}
		s.expect(s.call(http.MethodPost, fmt.Sprintf("/api/v1/manage/bookings/%d/transitions", booking.ID), admin,
			fmt.Sprintf(`{"event":%q}`, event)), http.StatusOK, &out)
		assert.Equal(t, changed, out.Changed, event)
		return out.Booking
	}
	confirmed := transition("payment_confirmed", true)
	require.NotNil(t, confirmed.InvoiceNo)
	assert.Equal(t, "INV-"+booking.BookingRef, *confirmed.InvoiceNo)
	transition("check_in", true)
	transition("check_in", false)

	s.expect(s.call(http.MethodPost, "/api/v1/manage/guest-registers", admin,
		fmt.Sprintf(`{"booking_id":%d,"guest_name":"Rahim Uddin","id_type":"nid","id_number":"1990123456789","nationality":"Bangladeshi","room_number":"101"}`, booking.ID)),
		http.StatusCreated, nil)

	checkedOut := transition("check_out", true)
	assert.Equal(t, "checked_out", string(checkedOut.Status))
	s.expect(s.call(http.MethodPost, fmt.Sprintf("/api/v1/manage/bookings/%d/transitions", booking.ID), admin, `{"event":"cancel"}`),
		http.StatusConflict, nil)

	// The guest sees it as a past stay.
	var mine map[string][]dto.BookingResponse
	s.expect(s.call(http.MethodGet, "/api/v1/me/bookings", guest, ""), http.StatusOK, &mine)
	require.Len(t, mine["past"], 1)
	assert.Empty(t, mine["upcoming"])

	// Compliance exports.
	rec = s.call(http.MethodPost, "/api/v1/manage/compliance/exports/vat-report", admin, `{"date_from":"2026-03-01","date_to":"2026-03-31"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), booking.BookingRef)
	assert.Equal(t, "1", rec.Header().Get("X-Record-Count"))

	// Register rows are dated by the actual check-in moment.
	today := time.Now().UTC()
	rec = s.call(http.MethodPost, "/api/v1/manage/compliance/exports/guest-register", admin,
		fmt.Sprintf(`{"property_id":%d,"date_from":%q,"date_to":%q}`, property.ID,
			today.AddDate(0, 0, -1).Format(dto.DateLayout), today.AddDate(0, 0, 1).Format(dto.DateLayout)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "1990123456789")

	var exports []map[string]any
	s.expect(s.call(http.MethodGet, "/api/v1/manage/compliance/exports", admin, ""), http.StatusOK, &exports)
	assert.Len(t, exports, 2)

	// Logging out revokes the session.
	s.expect(s.call(http.MethodPost, "/api/v1/auth/logout", guest, ""), http.StatusNoContent, nil)
	s.expect(s.call(http.MethodGet, "/api/v1/auth/me", guest, ""), http.StatusUnauthorized, nil)
}
