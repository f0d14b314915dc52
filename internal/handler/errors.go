package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lekhyo/booking-service/internal/dto"
	"github.com/lekhyo/booking-service/internal/lifecycle"
	"github.com/lekhyo/booking-service/internal/repository"
	"github.com/lekhyo/booking-service/internal/service"
)

// httpError maps service errors onto status codes. Anything unrecognised is a 500 whose
// cause is kept for the log but not shown to the client.
func httpError(err error) error {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, repository.ErrUnknownField),
		errors.Is(err, lifecycle.ErrUnknownEvent):
		code = http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidTransition), errors.Is(err, service.ErrConflict):
		code = http.StatusConflict
	case errors.Is(err, service.ErrPriceMismatch):
		code = http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrForbidden):
		code = http.StatusForbidden
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrUnauthenticated):
		code = http.StatusUnauthorized
	}
	if code == http.StatusInternalServerError {
		return echo.NewHTTPError(code, "internal server error, please retry").SetInternal(err)
	}
	return echo.NewHTTPError(code, err.Error())
}

func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return uint(id), nil
}

// parseOptionalID reads an id query parameter; empty or "all" means no filter.
func parseOptionalID(c echo.Context, name string) (*uint, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" || raw == "all" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	v := uint(id)
	return &v, nil
}

func parseDate(field, raw string) (time.Time, error) {
	t, err := time.Parse(dto.DateLayout, raw)
	if err != nil {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, field+" must be a YYYY-MM-DD date")
	}
	return t, nil
}

func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if c.Echo().Validator != nil {
		if err := c.Validate(req); err != nil {
			return err
		}
	}
	return nil
}
