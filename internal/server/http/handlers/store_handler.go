package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/storepickup/internal/domain/model"
	"github.com/polkiloo/storepickup/internal/server/http/dto"
)

// GeoDefaults fill in proximity search parameters the client omitted.
type GeoDefaults struct {
	Point    model.Point
	RadiusKm float64
}

// StoreHandler serves the store registry.
type StoreHandler struct {
	facade   StoreFacade
	defaults GeoDefaults
}

// NewStoreHandler creates StoreHandler instance.
func NewStoreHandler(facade StoreFacade, defaults GeoDefaults) *StoreHandler {
	return &StoreHandler{facade: facade, defaults: defaults}
}

// List handles GET /api/stores.
func (h *StoreHandler) List(c *gin.Context) {
	stores, err := h.facade.Stores(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	result := make([]dto.StoreResponse, 0, len(stores))
	for _, s := range stores {
		result = append(result, storeResponse(s))
	}
	c.JSON(http.StatusOK, result)
}

// Nearby handles GET /api/stores/nearby.
func (h *StoreHandler) Nearby(c *gin.Context) {
	var q dto.NearbyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid coordinates")
		return
	}
	point := h.defaults.Point
	if q.Lat != nil {
		point.Lat = *q.Lat
	}
	if q.Lng != nil {
		point.Lng = *q.Lng
	}
	radius := h.defaults.RadiusKm
	if q.Radius != nil {
		radius = *q.Radius
	}

	found, err := h.facade.NearbyStores(c.Request.Context(), point, radius)
	if err != nil {
		respondError(c, err)
		return
	}
	result := make([]dto.StoreResponse, 0, len(found))
	for _, sd := range found {
		resp := storeResponse(sd.Store)
		d := sd.DistanceKm
		resp.DistanceKm = &d
		result = append(result, resp)
	}
	c.JSON(http.StatusOK, result)
}

// Get handles GET /api/stores/:id.
func (h *StoreHandler) Get(c *gin.Context) {
	store, err := h.facade.Store(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, storeResponse(*store))
}

// Open handles GET /api/stores/:id/open. Without the at parameter the current time is used.
func (h *StoreHandler) Open(c *gin.Context) {
	at := time.Now()
	if raw := c.Query("at"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "at must be RFC 3339")
			return
		}
		at = parsed
	}
	id := c.Param("id")
	open, err := h.facade.StoreOpen(c.Request.Context(), id, at)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OpenResponse{StoreID: id, At: at, Open: open})
}

// Slots handles GET /api/stores/:id/slots. The date is a calendar day in the store time zone.
func (h *StoreHandler) Slots(c *gin.Context) {
	loc := h.facade.Location()
	day := time.Now().In(loc)
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation(time.DateOnly, raw, loc)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		day = parsed
	}

	slots, err := h.facade.Slots(c.Request.Context(), c.Param("id"), model.DayStart(day))
	if err != nil {
		respondError(c, err)
		return
	}
	result := make([]dto.SlotResponse, 0, len(slots))
	for _, s := range slots {
		result = append(result, slotResponse(s))
	}
	c.JSON(http.StatusOK, result)
}

// Estimate handles GET /api/stores/:id/estimate.
func (h *StoreHandler) Estimate(c *gin.Context) {
	items, err := strconv.Atoi(c.DefaultQuery("items", "1"))
	if err != nil || items < 0 {
		abortWithError(c, http.StatusBadRequest, "items must be a non-negative integer")
		return
	}
	id := c.Param("id")
	minutes, err := h.facade.EstimateTime(c.Request.Context(), id, items)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.EstimateResponse{StoreID: id, Items: items, Minutes: minutes})
}
