package handler

import (
	crmapp "github.com/bizflow/backend/internal/application/crm"
	"github.com/gin-gonic/gin"
)

// OpportunityHandler handles sales opportunity endpoints
type OpportunityHandler struct {
	BaseHandler
	opportunityService *crmapp.OpportunityService
}

// NewOpportunityHandler creates a new OpportunityHandler
func NewOpportunityHandler(opportunityService *crmapp.OpportunityService) *OpportunityHandler {
	return &OpportunityHandler{opportunityService: opportunityService}
}

// Create creates an opportunity
// POST /api/v1/opportunities
func (h *OpportunityHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req crmapp.CreateOpportunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.opportunityService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get returns one opportunity
// GET /api/v1/opportunities/:id
func (h *OpportunityHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}
	opportunityID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid opportunity ID")
		return
	}

	resp, err := h.opportunityService.GetByID(c.Request.Context(), tenantID, opportunityID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// List returns opportunities with pagination
// GET /api/v1/opportunities
func (h *OpportunityHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	filter := buildFilter(c)
	opps, total, err := h.opportunityService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, opps, total, filter.Page, filter.PageSize)
}

// SetFieldValue writes a custom field value on an opportunity. Setting the
// same field twice updates the existing value in place.
// PUT /api/v1/opportunities/:id/fields
func (h *OpportunityHandler) SetFieldValue(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}
	opportunityID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid opportunity ID")
		return
	}

	var req crmapp.SetFieldValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.opportunityService.SetFieldValue(c.Request.Context(), tenantID, opportunityID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListFieldValues returns all custom field values on an opportunity
// GET /api/v1/opportunities/:id/fields
func (h *OpportunityHandler) ListFieldValues(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}
	opportunityID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid opportunity ID")
		return
	}

	values, err := h.opportunityService.ListFieldValues(c.Request.Context(), tenantID, opportunityID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, values)
}
