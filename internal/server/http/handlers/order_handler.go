package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/storepickup/internal/domain/errors"
	"github.com/polkiloo/storepickup/internal/server/http/dto"
)

// OrderHandler serves customer pickup orders.
type OrderHandler struct {
	facade OrderFacade
	loc    func() *time.Location
}

// NewOrderHandler creates OrderHandler instance. Local pickup dates are resolved in the stores time zone.
func NewOrderHandler(facade OrderFacade, stores StoreFacade) *OrderHandler {
	return &OrderHandler{facade: facade, loc: stores.Location}
}

// Create handles POST /api/user/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "malformed order request")
		return
	}

	scheduled, ok := h.scheduledTime(c, req)
	if !ok {
		return
	}

	order, err := h.facade.PlaceOrder(c.Request.Context(), draftFromRequest(req, CurrentUserID(c), scheduled))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customerOrderResponse(*order))
}

func (h *OrderHandler) scheduledTime(c *gin.Context, req dto.CreateOrderRequest) (*time.Time, bool) {
	if req.ScheduledTime != nil {
		return req.ScheduledTime, true
	}
	if req.PickupDate == "" && req.PickupTime == "" {
		return nil, true
	}
	if req.PickupDate == "" || req.PickupTime == "" {
		abortWithError(c, http.StatusBadRequest, "pickup_date and pickup_time must be given together")
		return nil, false
	}
	at, err := time.ParseInLocation(time.DateOnly+" 15:04", req.PickupDate+" "+req.PickupTime, h.loc())
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid pickup date or time")
		return nil, false
	}
	return &at, true
}

// List handles GET /api/user/orders.
func (h *OrderHandler) List(c *gin.Context) {
	page, ok := parsePage(c)
	if !ok {
		return
	}
	orders, err := h.facade.UserOrders(c.Request.Context(), CurrentUserID(c), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordersResponse(orders, customerOrderResponse))
}

// Get handles GET /api/user/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.facade.UserOrder(c.Request.Context(), CurrentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customerOrderResponse(*order))
}

// Cancel handles POST /api/user/orders/:id/cancel.
func (h *OrderHandler) Cancel(c *gin.Context) {
	order, err := h.facade.CancelUserOrder(c.Request.Context(), CurrentUserID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, domainErrors.ErrInvalidTransition) {
			abortWithError(c, http.StatusConflict, "order cannot be cancelled")
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customerOrderResponse(*order))
}

// Verify handles POST /api/pickup/verify. Unknown, expired and not yet ready codes look the same.
func (h *OrderHandler) Verify(c *gin.Context) {
	var req dto.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "code is required")
		return
	}
	order, err := h.facade.VerifyCode(c.Request.Context(), req.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customerOrderResponse(*order))
}
