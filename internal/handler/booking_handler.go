package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lekhyo/booking-service/internal/dto"
	"github.com/lekhyo/booking-service/internal/lifecycle"
	"github.com/lekhyo/booking-service/internal/middleware"
	"github.com/lekhyo/booking-service/internal/models"
	"github.com/lekhyo/booking-service/internal/service"
	"github.com/lekhyo/booking-service/internal/session"
)

type BookingHandler struct {
	svc service.BookingService
}

func NewBookingHandler(svc service.BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

func (h *BookingHandler) RegisterRoutes(api *echo.Group, auth echo.MiddlewareFunc, manage *echo.Group) {
	api.POST("/quotes", h.Quote)
	api.POST("/bookings", h.CreateBooking, auth)
	api.GET("/me/bookings", h.MyBookings, auth)
	api.POST("/bookings/:id/cancel", h.CancelBooking, auth)

	manage.GET("/bookings", h.ListBookings)
	manage.GET("/bookings/:id", h.GetBooking)
	manage.POST("/bookings/:id/transitions", h.Transition)
	manage.GET("/calendar", h.Calendar)
}

func toQuoteInput(req dto.QuoteRequest) (service.QuoteInput, error) {
	in, err := parseDate("check_in_date", req.CheckInDate)
	if err != nil {
		return service.QuoteInput{}, err
	}
	out, err := parseDate("check_out_date", req.CheckOutDate)
	if err != nil {
		return service.QuoteInput{}, err
	}
	return service.QuoteInput{
		PropertyID: req.PropertyID,
		RoomIDs:    req.RoomIDs,
		CheckIn:    in,
		CheckOut:   out,
		Tier:       models.Tier(req.Tier),
	}, nil
}

func (h *BookingHandler) Quote(c echo.Context) error {
	var req dto.QuoteRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	in, err := toQuoteInput(req)
	if err != nil {
		return err
	}

	q, err := h.svc.Quote(c.Request().Context(), in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToQuoteResponse(q))
}

func (h *BookingHandler) CreateBooking(c echo.Context) error {
	s, ok := middleware.SessionFrom(c)
	if !ok {
		return httpError(service.ErrUnauthenticated)
	}
	var req dto.CreateBookingRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	email, err := guestEmail(s, req.GuestEmail)
	if err != nil {
		return err
	}
	qin, err := toQuoteInput(req.QuoteRequest)
	if err != nil {
		return err
	}

	booking, err := h.svc.CreateBooking(c.Request().Context(), service.CreateBookingInput{
		QuoteInput:      qin,
		GuestName:       req.GuestName,
		GuestEmail:      email,
		GuestPhone:      req.GuestPhone,
		GuestsCount:     req.GuestsCount,
		PaymentMethod:   models.PaymentMethod(req.PaymentMethod),
		PartnerCode:     req.PartnerCode,
		SpecialRequests: req.SpecialRequests,
		QuotedTotal:     req.QuotedTotal,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, dto.ToBookingResponse(booking))
}

// guestEmail ties a booking to the account that made it, since /me/bookings and guest
// cancellation both match on that address.
func guestEmail(s session.Session, requested string) (string, error) {
	requested = strings.TrimSpace(requested)
	if requested == "" {
		return s.Email, nil
	}
	if !s.CanManage() && !strings.EqualFold(requested, s.Email) {
		return "", echo.NewHTTPError(http.StatusBadRequest, "guest_email must match the signed-in account")
	}
	return requested, nil
}

func (h *BookingHandler) MyBookings(c echo.Context) error {
	s, ok := middleware.SessionFrom(c)
	if !ok {
		return httpError(service.ErrUnauthenticated)
	}

	got, err := h.svc.GuestBookings(c.Request().Context(), s.Email)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string][]dto.BookingResponse{
		"upcoming": dto.ToBookingResponses(got.Upcoming),
		"past":     dto.ToBookingResponses(got.Past),
	})
}

func (h *BookingHandler) CancelBooking(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	s, ok := middleware.SessionFrom(c)
	if !ok {
		return httpError(service.ErrUnauthenticated)
	}

	booking, err := h.svc.CancelBooking(c.Request().Context(), id, s)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) ListBookings(c echo.Context) error {
	propertyID, err := parseOptionalID(c, "property_id")
	if err != nil {
		return err
	}
	q := service.BookingQuery{
		Status:     models.BookingStatus(c.QueryParam("status")),
		PropertyID: propertyID,
		Search:     c.QueryParam("q"),
		Tab:        strings.ToLower(c.QueryParam("tab")),
	}
	if raw := c.QueryParam("date"); raw != "" {
		if q.Day, err = parseDate("date", raw); err != nil {
			return err
		}
	}

	bookings, err := h.svc.ListBookings(c.Request().Context(), q)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponses(bookings))
}

func (h *BookingHandler) GetBooking(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	booking, err := h.svc.GetBooking(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) Transition(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.TransitionRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	ev, err := lifecycle.ParseEvent(req.Event)
	if err != nil {
		return httpError(err)
	}

	booking, out, err := h.svc.Transition(c.Request().Context(), id, ev)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"booking": dto.ToBookingResponse(booking),
		"from":    out.From,
		"to":      out.To,
		"changed": out.Changed,
	})
}

func (h *BookingHandler) Calendar(c echo.Context) error {
	propertyID, err := parseOptionalID(c, "property_id")
	if err != nil {
		return err
	}
	if propertyID == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "property_id is required")
	}

	from := time.Now()
	if raw := c.QueryParam("from"); raw != "" {
		if from, err = parseDate("from", raw); err != nil {
			return err
		}
	}
	to := from.AddDate(0, 0, 30)
	if raw := c.QueryParam("to"); raw != "" {
		if to, err = parseDate("to", raw); err != nil {
			return err
		}
	}

	cal, err := h.svc.Calendar(c.Request().Context(), *propertyID, from, to)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"bookings": dto.ToBookingResponses(cal.Bookings),
		"days":     cal.Days,
	})
}
