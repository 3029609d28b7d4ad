package handler

import (
	"crypto/subtle"

	salesapp "github.com/bizflow/backend/internal/application/sales"
	"github.com/bizflow/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OrderHandler handles sales order endpoints
type OrderHandler struct {
	BaseHandler
	orderService   *salesapp.OrderService
	callbackSecret string
}

// NewOrderHandler creates a new OrderHandler. callbackSecret guards the
// payment provider callback endpoint.
func NewOrderHandler(orderService *salesapp.OrderService, callbackSecret string) *OrderHandler {
	return &OrderHandler{
		orderService:   orderService,
		callbackSecret: callbackSecret,
	}
}

// Get returns one order
// GET /api/v1/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	resp, err := h.orderService.GetByID(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetByNumber returns one order by its order number
// GET /api/v1/orders/number/:number
func (h *OrderHandler) GetByNumber(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	resp, err := h.orderService.GetByOrderNumber(c.Request.Context(), tenantID, c.Param("number"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// List returns orders with pagination
// GET /api/v1/orders
func (h *OrderHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	filter := buildFilter(c)
	orders, total, err := h.orderService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// UpdateStatus transitions an order to COMPLETED or CANCELLED
// POST /api/v1/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req salesapp.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.orderService.UpdateStatus(c.Request.Context(), tenantID, orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel transitions a PENDING order to CANCELLED
// POST /api/v1/orders/:id/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	resp, err := h.orderService.Cancel(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// PaymentCallbackRequest is the payload posted by the payment provider
type PaymentCallbackRequest struct {
	TenantID uuid.UUID `json:"tenant_id" binding:"required"`
	OrderID  uuid.UUID `json:"order_id" binding:"required"`
	Status   string    `json:"status" binding:"required,oneof=COMPLETED CANCELLED"`
}

// PaymentCallback lets the payment provider settle an order. The endpoint
// sits outside the authenticated API surface and is guarded by a shared
// secret instead of a JWT.
// POST /api/v1/payments/callback
func (h *OrderHandler) PaymentCallback(c *gin.Context) {
	provided := c.GetHeader("X-Callback-Secret")
	if h.callbackSecret == "" ||
		subtle.ConstantTimeCompare([]byte(provided), []byte(h.callbackSecret)) != 1 {
		h.Error(c, 401, dto.ErrCodeUnauthorized, "Invalid callback secret")
		return
	}

	var req PaymentCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.orderService.UpdateStatus(c.Request.Context(), req.TenantID, req.OrderID,
		salesapp.UpdateStatusRequest{Status: req.Status})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}
