package crm

import (
	"context"
	"errors"

	"github.com/bizflow/backend/internal/domain/crm"
	"github.com/bizflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ContactService handles contact business operations
type ContactService struct {
	contactRepo    crm.ContactRepository
	eventPublisher shared.EventPublisher
}

// NewContactService creates a new ContactService
func NewContactService(contactRepo crm.ContactRepository) *ContactService {
	return &ContactService{contactRepo: contactRepo}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ContactService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new contact in the LEAD stage
func (s *ContactService) Create(ctx context.Context, tenantID uuid.UUID, req CreateContactRequest) (*ContactResponse, error) {
	email, err := crm.NormalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}

	existing, err := s.contactRepo.FindByEmail(ctx, tenantID, email)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A contact with this email already exists")
	}

	contact, err := crm.NewContact(tenantID, req.Name, email, req.Phone)
	if err != nil {
		return nil, err
	}

	if err := s.contactRepo.Save(ctx, contact); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, contact)

	response := ToContactResponse(contact)
	return &response, nil
}

// GetByID retrieves a contact by ID
func (s *ContactService) GetByID(ctx context.Context, tenantID, contactID uuid.UUID) (*ContactResponse, error) {
	contact, err := s.contactRepo.FindByIDForTenant(ctx, tenantID, contactID)
	if err != nil {
		return nil, err
	}
	response := ToContactResponse(contact)
	return &response, nil
}

// List retrieves contacts for the tenant with pagination
func (s *ContactService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ContactResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	contacts, err := s.contactRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.contactRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ContactResponse, len(contacts))
	for i := range contacts {
		responses[i] = ToContactResponse(&contacts[i])
	}
	return responses, total, nil
}

// Update updates a contact's basic information
func (s *ContactService) Update(ctx context.Context, tenantID, contactID uuid.UUID, req UpdateContactRequest) (*ContactResponse, error) {
	contact, err := s.contactRepo.FindByIDForTenant(ctx, tenantID, contactID)
	if err != nil {
		return nil, err
	}

	if err := contact.Update(req.Name, req.Phone); err != nil {
		return nil, err
	}

	if err := s.contactRepo.SaveWithLock(ctx, contact); err != nil {
		return nil, err
	}

	response := ToContactResponse(contact)
	return &response, nil
}

// TransitionStage moves a contact to a new funnel stage
func (s *ContactService) TransitionStage(ctx context.Context, tenantID, contactID uuid.UUID, req TransitionStageRequest) (*ContactResponse, error) {
	contact, err := s.contactRepo.FindByIDForTenant(ctx, tenantID, contactID)
	if err != nil {
		return nil, err
	}

	if err := contact.TransitionStage(crm.LifecycleStage(req.Stage)); err != nil {
		return nil, err
	}

	if err := s.contactRepo.SaveWithLock(ctx, contact); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, contact)

	response := ToContactResponse(contact)
	return &response, nil
}

// Delete removes a contact
func (s *ContactService) Delete(ctx context.Context, tenantID, contactID uuid.UUID) error {
	return s.contactRepo.DeleteForTenant(ctx, tenantID, contactID)
}

func (s *ContactService) publishEvents(ctx context.Context, contact *crm.Contact) {
	if s.eventPublisher == nil {
		return
	}
	_ = s.eventPublisher.Publish(ctx, contact.GetDomainEvents()...)
	contact.ClearDomainEvents()
}
