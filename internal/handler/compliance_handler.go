package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/lekhyo/booking-service/internal/dto"
	"github.com/lekhyo/booking-service/internal/middleware"
	"github.com/lekhyo/booking-service/internal/models"
	"github.com/lekhyo/booking-service/internal/service"
)

const csvContentType = "text/csv; charset=utf-8"

type ComplianceHandler struct {
	svc service.ComplianceService
}

func NewComplianceHandler(svc service.ComplianceService) *ComplianceHandler {
	return &ComplianceHandler{svc: svc}
}

func (h *ComplianceHandler) RegisterRoutes(manage *echo.Group) {
	manage.GET("/dashboard", h.Dashboard)
	manage.GET("/compliance/summary", h.Summary)
	manage.GET("/guest-registers", h.ListGuestRegisters)
	manage.POST("/guest-registers", h.RecordGuestRegister)
	manage.POST("/compliance/exports/guest-register", h.ExportGuestRegister)
	manage.POST("/compliance/exports/vat-report", h.ExportVATReport)
	manage.GET("/compliance/exports", h.ListExports)
}

func rangeFromQuery(c echo.Context) (service.ReportRange, error) {
	var r service.ReportRange
	var err error
	if r.PropertyID, err = parseOptionalID(c, "property_id"); err != nil {
		return r, err
	}
	if r.From, err = parseDate("from", c.QueryParam("from")); err != nil {
		return r, err
	}
	if r.To, err = parseDate("to", c.QueryParam("to")); err != nil {
		return r, err
	}
	return r, nil
}

func rangeFromBody(c echo.Context) (service.ReportRange, error) {
	var req dto.ExportRequest
	if err := bind(c, &req); err != nil {
		return service.ReportRange{}, err
	}
	from, err := parseDate("date_from", req.DateFrom)
	if err != nil {
		return service.ReportRange{}, err
	}
	to, err := parseDate("date_to", req.DateTo)
	if err != nil {
		return service.ReportRange{}, err
	}
	return service.ReportRange{From: from, To: to, PropertyID: req.PropertyID}, nil
}

func (h *ComplianceHandler) Dashboard(c echo.Context) error {
	d, err := h.svc.Dashboard(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *ComplianceHandler) Summary(c echo.Context) error {
	r, err := rangeFromQuery(c)
	if err != nil {
		return err
	}
	sum, err := h.svc.Summary(c.Request().Context(), r)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, sum)
}

func (h *ComplianceHandler) ListGuestRegisters(c echo.Context) error {
	r, err := rangeFromQuery(c)
	if err != nil {
		return err
	}
	rows, err := h.svc.GuestRegisters(c.Request().Context(), r)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *ComplianceHandler) RecordGuestRegister(c echo.Context) error {
	var req dto.GuestRegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	reg := &models.GuestRegister{
		BookingID:        req.BookingID,
		GuestName:        req.GuestName,
		FatherName:       req.FatherName,
		Phone:            req.Phone,
		IDType:           models.IDType(req.IDType),
		IDNumber:         req.IDNumber,
		Nationality:      req.Nationality,
		PermanentAddress: req.PermanentAddress,
		PresentAddress:   req.PresentAddress,
		PurposeOfVisit:   req.PurposeOfVisit,
		ComingFrom:       req.ComingFrom,
		GoingTo:          req.GoingTo,
		RoomNumber:       req.RoomNumber,
	}
	if err := h.svc.RecordGuestRegister(c.Request().Context(), reg); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, reg)
}

func exportedBy(c echo.Context) string {
	if s, ok := middleware.SessionFrom(c); ok && s.Email != "" {
		return s.Email
	}
	return "unknown"
}

func sendCSV(c echo.Context, out *service.Export) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", out.Filename))
	c.Response().Header().Set("X-Record-Count", strconv.Itoa(out.Record.RecordCount))
	return c.Blob(http.StatusOK, csvContentType, out.Data)
}

func (h *ComplianceHandler) ExportGuestRegister(c echo.Context) error {
	r, err := rangeFromBody(c)
	if err != nil {
		return err
	}
	out, err := h.svc.ExportGuestRegister(c.Request().Context(), r, exportedBy(c))
	if err != nil {
		return httpError(err)
	}
	return sendCSV(c, out)
}

func (h *ComplianceHandler) ExportVATReport(c echo.Context) error {
	r, err := rangeFromBody(c)
	if err != nil {
		return err
	}
	out, err := h.svc.ExportVATReport(c.Request().Context(), r, exportedBy(c))
	if err != nil {
		return httpError(err)
	}
	return sendCSV(c, out)
}

func (h *ComplianceHandler) ListExports(c echo.Context) error {
	limit := 50
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		limit = n
	}
	rows, err := h.svc.ListExports(c.Request().Context(), limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, rows)
}
