package handler

import (
	crmapp "github.com/bizflow/backend/internal/application/crm"
	"github.com/gin-gonic/gin"
)

// ContactHandler handles CRM contact endpoints
type ContactHandler struct {
	BaseHandler
	contactService *crmapp.ContactService
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contactService *crmapp.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// Create creates a contact
// POST /api/v1/contacts
func (h *ContactHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req crmapp.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.contactService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get returns one contact
// GET /api/v1/contacts/:id
func (h *ContactHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}
	contactID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid contact ID")
		return
	}

	resp, err := h.contactService.GetByID(c.Request.Context(), tenantID, contactID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// List returns contacts with pagination
// GET /api/v1/contacts
func (h *ContactHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	filter := buildFilter(c)
	contacts, total, err := h.contactService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, contacts, total, filter.Page, filter.PageSize)
}

// Update updates a contact's basic details
// PUT /api/v1/contacts/:id
func (h *ContactHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}
	contactID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid contact ID")
		return
	}

	var req crmapp.UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.contactService.Update(c.Request.Context(), tenantID, contactID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// TransitionStage moves a contact forward through the lifecycle funnel
// POST /api/v1/contacts/:id/stage
func (h *ContactHandler) TransitionStage(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}
	contactID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid contact ID")
		return
	}

	var req crmapp.TransitionStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.contactService.TransitionStage(c.Request.Context(), tenantID, contactID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes a contact
// DELETE /api/v1/contacts/:id
func (h *ContactHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}
	contactID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid contact ID")
		return
	}

	if err := h.contactService.Delete(c.Request.Context(), tenantID, contactID); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
