package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lekhyo/booking-service/internal/dto"
	"github.com/lekhyo/booking-service/internal/middleware"
	"github.com/lekhyo/booking-service/internal/service"
)

type AuthHandler struct {
	svc service.AuthService
}

func NewAuthHandler(svc service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) RegisterRoutes(api *echo.Group, auth echo.MiddlewareFunc) {
	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)
	api.GET("/auth/login-url", h.LoginURL)
	api.GET("/auth/me", h.Me, auth)
	api.POST("/auth/logout", h.Logout, auth)
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	u, err := h.svc.Register(c.Request().Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, dto.ToUserResponse(u))
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	token, s, err := h.svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToLoginResponse(token, s))
}

func (h *AuthHandler) LoginURL(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"login_url": h.svc.LoginURL(c.QueryParam("return_url"))})
}

func (h *AuthHandler) Me(c echo.Context) error {
	s, ok := middleware.SessionFrom(c)
	if !ok {
		return httpError(service.ErrUnauthenticated)
	}
	u, err := h.svc.Me(c.Request().Context(), s)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToUserResponse(u))
}

func (h *AuthHandler) Logout(c echo.Context) error {
	s, ok := middleware.SessionFrom(c)
	if !ok {
		return httpError(service.ErrUnauthenticated)
	}
	if err := h.svc.Logout(c.Request().Context(), s); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
