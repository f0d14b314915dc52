package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lekhyo/booking-service/internal/dto"
	"github.com/lekhyo/booking-service/internal/models"
	"github.com/lekhyo/booking-service/internal/service"
)

type CatalogHandler struct {
	svc service.CatalogService
}

func NewCatalogHandler(svc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

func (h *CatalogHandler) RegisterRoutes(api *echo.Group, manage *echo.Group) {
	api.GET("/properties", h.ListPublished)
	api.GET("/properties/:id", h.GetProperty)
	api.GET("/properties/:id/rooms", h.ListRooms)
	api.GET("/properties/:id/pricing", h.ListPricing)

	manage.GET("/properties", h.ListAll)
	manage.POST("/properties", h.CreateProperty)
	manage.PUT("/properties/:id", h.UpdateProperty)
	manage.DELETE("/properties/:id", h.DeleteProperty)
	manage.GET("/properties/:id/rooms", h.ListAllRooms)
	manage.POST("/properties/:id/rooms", h.CreateRoom)
	manage.PUT("/rooms/:id", h.UpdateRoom)
	manage.DELETE("/rooms/:id", h.DeleteRoom)
	manage.GET("/properties/:id/pricing", h.ListAllPricing)
	manage.POST("/properties/:id/pricing", h.CreatePricing)
	manage.PUT("/pricing/:id", h.UpdatePricing)
	manage.DELETE("/pricing/:id", h.DeletePricing)
}

func (h *CatalogHandler) ListPublished(c echo.Context) error {
	props, err := h.svc.ListProperties(c.Request().Context(), true, c.QueryParam("region"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, props)
}

func (h *CatalogHandler) ListAll(c echo.Context) error {
	props, err := h.svc.ListProperties(c.Request().Context(), false, "")
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, props)
}

func (h *CatalogHandler) GetProperty(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	detail, err := h.svc.PropertyDetail(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, detail)
}

// publishedProperty guards the public sub-resources of a property.
func (h *CatalogHandler) publishedProperty(c echo.Context) (uint, error) {
	id, err := parseID(c, "id")
	if err != nil {
		return 0, err
	}
	if _, err := h.svc.GetProperty(c.Request().Context(), id, true); err != nil {
		return 0, httpError(err)
	}
	return id, nil
}

func (h *CatalogHandler) ListRooms(c echo.Context) error {
	id, err := h.publishedProperty(c)
	if err != nil {
		return err
	}
	rooms, err := h.svc.ListRooms(c.Request().Context(), id, true)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, rooms)
}

func (h *CatalogHandler) ListPricing(c echo.Context) error {
	id, err := h.publishedProperty(c)
	if err != nil {
		return err
	}
	rates, err := h.svc.ListPricing(c.Request().Context(), id, true)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, rates)
}

func toProperty(req dto.PropertyRequest) *models.Property {
	return &models.Property{
		Name:   req.Name,
		Status: models.PropertyStatus(req.Status),
		Location: models.Location{
			Region:   req.Region,
			District: req.District,
			Address:  req.Address,
			Lat:      req.Lat,
			Lng:      req.Lng,
		},
		CategoryTags:    req.CategoryTags,
		CuratorNote:     req.CuratorNote,
		ImpactStatement: req.ImpactStatement,
		RoomsCount:      req.RoomsCount,
		SafetyFeatures:  req.SafetyFeatures,
		Canteen: models.Canteen{
			Available:   req.CanteenAvailable,
			Description: req.CanteenDetails,
			MealOptions: req.MealOptions,
		},
		MocatRequired: req.MocatRequired,
		MocatRegNo:    req.MocatRegNo,
	}
}

func (h *CatalogHandler) CreateProperty(c echo.Context) error {
	var req dto.PropertyRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	p := toProperty(req)
	if err := h.svc.CreateProperty(c.Request().Context(), p); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *CatalogHandler) UpdateProperty(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.PropertyRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	p := toProperty(req)
	p.ID = id
	if err := h.svc.UpdateProperty(c.Request().Context(), p); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *CatalogHandler) DeleteProperty(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteProperty(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHandler) ListAllRooms(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	rooms, err := h.svc.ListRooms(c.Request().Context(), id, false)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, rooms)
}

func toRoom(req dto.RoomRequest) *models.Room {
	return &models.Room{
		Name:            req.Name,
		RoomType:        models.RoomType(req.RoomType),
		Capacity:        req.Capacity,
		Status:          models.RoomStatus(req.Status),
		HasAC:           req.HasAC,
		HasAttachedBath: req.HasAttachedBath,
	}
}

func (h *CatalogHandler) CreateRoom(c echo.Context) error {
	propertyID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.RoomRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	room := toRoom(req)
	room.PropertyID = propertyID
	if err := h.svc.CreateRoom(c.Request().Context(), room); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, room)
}

func (h *CatalogHandler) UpdateRoom(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req struct {
		dto.RoomRequest
		PropertyID uint `json:"property_id" validate:"required"`
	}
	if err := bind(c, &req); err != nil {
		return err
	}
	room := toRoom(req.RoomRequest)
	room.ID = id
	room.PropertyID = req.PropertyID
	if err := h.svc.UpdateRoom(c.Request().Context(), room); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, room)
}

func (h *CatalogHandler) DeleteRoom(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteRoom(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHandler) ListAllPricing(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	rates, err := h.svc.ListPricing(c.Request().Context(), id, false)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, rates)
}

func toPricing(req dto.PricingRequest) *models.Pricing {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return &models.Pricing{
		RoomType: models.RoomType(req.RoomType),
		Tier:     models.Tier(req.Tier),
		BaseRate: req.BaseRate,
		IsActive: active,
	}
}

func (h *CatalogHandler) CreatePricing(c echo.Context) error {
	propertyID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.PricingRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	p := toPricing(req)
	p.PropertyID = propertyID
	if err := h.svc.CreatePricing(c.Request().Context(), p); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *CatalogHandler) UpdatePricing(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req struct {
		dto.PricingRequest
		PropertyID uint `json:"property_id" validate:"required"`
	}
	if err := bind(c, &req); err != nil {
		return err
	}
	p := toPricing(req.PricingRequest)
	p.ID = id
	p.PropertyID = req.PropertyID
	if err := h.svc.UpdatePricing(c.Request().Context(), p); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *CatalogHandler) DeletePricing(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeletePricing(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
