package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/storepickup/internal/domain/model"
	"github.com/polkiloo/storepickup/internal/server/http/dto"
)

// staffActions maps action path segments to target statuses.
var staffActions = map[string]model.OrderStatus{
	"preparing": model.OrderStatusPreparing,
	"ready":     model.OrderStatusReady,
	"picked-up": model.OrderStatusPickedUp,
	"cancel":    model.OrderStatusCancelled,
	"expire":    model.OrderStatusExpired,
}

// StaffHandler serves store staff operations.
type StaffHandler struct {
	facade StaffFacade
}

// NewStaffHandler creates StaffHandler instance.
func NewStaffHandler(facade StaffFacade) *StaffHandler {
	return &StaffHandler{facade: facade}
}

// ByStatus handles GET /api/staff/orders?status=.
func (h *StaffHandler) ByStatus(c *gin.Context) {
	page, ok := parsePage(c)
	if !ok {
		return
	}
	status := model.OrderStatus(c.DefaultQuery("status", string(model.OrderStatusPending)))
	orders, err := h.facade.OrdersByStatus(c.Request.Context(), status, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordersResponse(orders, staffOrderResponse))
}

// ByStore handles GET /api/staff/stores/:id/orders.
func (h *StaffHandler) ByStore(c *gin.Context) {
	page, ok := parsePage(c)
	if !ok {
		return
	}
	orders, err := h.facade.StoreOrders(c.Request.Context(), c.Param("id"), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordersResponse(orders, staffOrderResponse))
}

// Advance handles POST /api/staff/orders/:id/:action.
func (h *StaffHandler) Advance(c *gin.Context) {
	to, ok := staffActions[c.Param("action")]
	if !ok {
		abortWithError(c, http.StatusNotFound, "unknown action")
		return
	}
	order, err := h.facade.AdvanceOrder(c.Request.Context(), c.Param("id"), to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, staffOrderResponse(*order))
}

// Verify handles POST /api/staff/verify. Expired orders are reported distinctly.
func (h *StaffHandler) Verify(c *gin.Context) {
	var req dto.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "code is required")
		return
	}
	order, err := h.facade.StaffVerifyCode(c.Request.Context(), req.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, staffOrderResponse(*order))
}
