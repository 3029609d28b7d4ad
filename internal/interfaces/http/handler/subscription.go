package handler

import (
	webhookapp "github.com/bizflow/backend/internal/application/webhook"
	"github.com/gin-gonic/gin"
)

// SubscriptionHandler handles webhook subscription endpoints
type SubscriptionHandler struct {
	BaseHandler
	subscriptionService *webhookapp.SubscriptionService
}

// NewSubscriptionHandler creates a new SubscriptionHandler
func NewSubscriptionHandler(subscriptionService *webhookapp.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

// Create registers a webhook endpoint
// POST /api/v1/webhooks
func (h *SubscriptionHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req webhookapp.CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.subscriptionService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get returns one subscription
// GET /api/v1/webhooks/:id
func (h *SubscriptionHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid subscription ID")
		return
	}

	resp, err := h.subscriptionService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// List returns subscriptions with pagination
// GET /api/v1/webhooks
func (h *SubscriptionHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	filter := buildFilter(c)
	subs, total, err := h.subscriptionService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, subs, total, filter.Page, filter.PageSize)
}

// Activate enables delivery to a subscription
// POST /api/v1/webhooks/:id/activate
func (h *SubscriptionHandler) Activate(c *gin.Context) {
	h.setActive(c, true)
}

// Deactivate pauses delivery without deleting the subscription
// POST /api/v1/webhooks/:id/deactivate
func (h *SubscriptionHandler) Deactivate(c *gin.Context) {
	h.setActive(c, false)
}

func (h *SubscriptionHandler) setActive(c *gin.Context, active bool) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid subscription ID")
		return
	}

	resp, err := h.subscriptionService.SetActive(c.Request.Context(), tenantID, id, active)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes a subscription
// DELETE /api/v1/webhooks/:id
func (h *SubscriptionHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid subscription ID")
		return
	}

	if err := h.subscriptionService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
