package crm

import (
	"context"

	"github.com/bizflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ContactRepository defines the persistence interface for contacts
type ContactRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Contact, error)
	FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*Contact, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Contact, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, contact *Contact) error
	SaveWithLock(ctx context.Context, contact *Contact) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// OpportunityRepository defines the persistence interface for opportunities
type OpportunityRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Opportunity, error)
	FindByContact(ctx context.Context, tenantID, contactID uuid.UUID, filter shared.Filter) ([]Opportunity, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Opportunity, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, opportunity *Opportunity) error
	SaveWithLock(ctx context.Context, opportunity *Opportunity) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// FieldValueRepository defines the persistence interface for opportunity field values
type FieldValueRepository interface {
	// FindByOpportunityAndField looks up the value for one (opportunity, field) pair.
	// Returns shared.ErrNotFound when no value has been set yet.
	FindByOpportunityAndField(ctx context.Context, tenantID, opportunityID, fieldID uuid.UUID) (*OpportunityFieldValue, error)
	FindByOpportunity(ctx context.Context, tenantID, opportunityID uuid.UUID) ([]OpportunityFieldValue, error)
	Create(ctx context.Context, value *OpportunityFieldValue) error
	Update(ctx context.Context, value *OpportunityFieldValue) error
}
