package crm

import (
	"context"
	"errors"

	"github.com/bizflow/backend/internal/domain/crm"
	"github.com/bizflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OpportunityService handles opportunity business operations
type OpportunityService struct {
	opportunityRepo crm.OpportunityRepository
	fieldValueRepo  crm.FieldValueRepository
	contactRepo     crm.ContactRepository
}

// NewOpportunityService creates a new OpportunityService
func NewOpportunityService(
	opportunityRepo crm.OpportunityRepository,
	fieldValueRepo crm.FieldValueRepository,
	contactRepo crm.ContactRepository,
) *OpportunityService {
	return &OpportunityService{
		opportunityRepo: opportunityRepo,
		fieldValueRepo:  fieldValueRepo,
		contactRepo:     contactRepo,
	}
}

// Create creates a new opportunity for an existing contact
func (s *OpportunityService) Create(ctx context.Context, tenantID uuid.UUID, req CreateOpportunityRequest) (*OpportunityResponse, error) {
	if _, err := s.contactRepo.FindByIDForTenant(ctx, tenantID, req.ContactID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CONTACT_NOT_FOUND", "Contact does not exist")
		}
		return nil, err
	}

	opp, err := crm.NewOpportunity(tenantID, req.ContactID, req.Title, req.Amount)
	if err != nil {
		return nil, err
	}

	if err := s.opportunityRepo.Save(ctx, opp); err != nil {
		return nil, err
	}

	response := ToOpportunityResponse(opp)
	return &response, nil
}

// GetByID retrieves an opportunity by ID
func (s *OpportunityService) GetByID(ctx context.Context, tenantID, opportunityID uuid.UUID) (*OpportunityResponse, error) {
	opp, err := s.opportunityRepo.FindByIDForTenant(ctx, tenantID, opportunityID)
	if err != nil {
		return nil, err
	}
	response := ToOpportunityResponse(opp)
	return &response, nil
}

// List retrieves opportunities for the tenant with pagination
func (s *OpportunityService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]OpportunityResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	opps, err := s.opportunityRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.opportunityRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]OpportunityResponse, len(opps))
	for i := range opps {
		responses[i] = ToOpportunityResponse(&opps[i])
	}
	return responses, total, nil
}

// SetFieldValue writes a custom field value on an opportunity.
//
// The write path is deliberately a find-then-update-or-create on the
// (opportunity, field) pair. The composite unique index backs it up: a
// concurrent duplicate insert surfaces as a constraint violation rather
// than silently producing two rows.
func (s *OpportunityService) SetFieldValue(ctx context.Context, tenantID, opportunityID uuid.UUID, req SetFieldValueRequest) (*FieldValueResponse, error) {
	if _, err := s.opportunityRepo.FindByIDForTenant(ctx, tenantID, opportunityID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("OPPORTUNITY_NOT_FOUND", "Opportunity does not exist")
		}
		return nil, err
	}

	existing, err := s.fieldValueRepo.FindByOpportunityAndField(ctx, tenantID, opportunityID, req.FieldID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	if existing != nil {
		existing.SetValue(req.Value)
		if err := s.fieldValueRepo.Update(ctx, existing); err != nil {
			return nil, err
		}
		response := ToFieldValueResponse(existing)
		return &response, nil
	}

	value := crm.NewOpportunityFieldValue(tenantID, opportunityID, req.FieldID, req.Value)
	if err := s.fieldValueRepo.Create(ctx, value); err != nil {
		return nil, err
	}

	response := ToFieldValueResponse(value)
	return &response, nil
}

// ListFieldValues returns all custom field values on an opportunity
func (s *OpportunityService) ListFieldValues(ctx context.Context, tenantID, opportunityID uuid.UUID) ([]FieldValueResponse, error) {
	values, err := s.fieldValueRepo.FindByOpportunity(ctx, tenantID, opportunityID)
	if err != nil {
		return nil, err
	}

	responses := make([]FieldValueResponse, len(values))
	for i := range values {
		responses[i] = ToFieldValueResponse(&values[i])
	}
	return responses, nil
}
