package crm

import (
	"time"

	"github.com/bizflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OpportunityFieldValue holds the value of a custom field on an opportunity.
// Uniqueness is enforced per (opportunity, field) pair; the write path is a
// find-then-update-or-create rather than a database upsert, so a conflicting
// concurrent insert surfaces as a constraint violation instead of a silent
// overwrite.
type OpportunityFieldValue struct {
	shared.BaseEntity
	TenantID      uuid.UUID
	OpportunityID uuid.UUID
	FieldID       uuid.UUID
	Value         string
}

// NewOpportunityFieldValue creates a new field value
func NewOpportunityFieldValue(tenantID, opportunityID, fieldID uuid.UUID, value string) *OpportunityFieldValue {
	return &OpportunityFieldValue{
		BaseEntity:    shared.NewBaseEntity(),
		TenantID:      tenantID,
		OpportunityID: opportunityID,
		FieldID:       fieldID,
		Value:         value,
	}
}

// SetValue replaces the stored value
func (v *OpportunityFieldValue) SetValue(value string) {
	v.Value = value
	v.UpdatedAt = time.Now()
}
