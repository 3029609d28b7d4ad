package handler

import (
	checkoutapp "github.com/bizflow/backend/internal/application/checkout"
	"github.com/gin-gonic/gin"
)

// CheckoutHandler handles the storefront checkout endpoint
type CheckoutHandler struct {
	BaseHandler
	checkoutService *checkoutapp.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkoutService *checkoutapp.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// Create runs the checkout flow: price the requested items, atomically
// decrement stock, upsert the buyer contact and record the completed order,
// then notify subscribers.
// POST /api/v1/checkout
func (h *CheckoutHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req checkoutapp.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if key := c.GetHeader("Idempotency-Key"); key != "" && req.IdempotencyKey == "" {
		req.IdempotencyKey = key
	}

	resp, err := h.checkoutService.CreateOrder(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}
