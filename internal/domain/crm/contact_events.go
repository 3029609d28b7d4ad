package crm

import (
	"github.com/bizflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constants
const (
	AggregateTypeContact     = "Contact"
	AggregateTypeOpportunity = "Opportunity"
)

// Event type constants
const (
	EventTypeContactCreated      = "ContactCreated"
	EventTypeContactStageChanged = "ContactStageChanged"
	EventTypeContactScoreChanged = "ContactScoreChanged"
	EventTypeOpportunityCreated  = "OpportunityCreated"
	EventTypeOpportunityClosed   = "OpportunityClosed"
)

// ContactCreatedEvent is published when a new contact is created
type ContactCreatedEvent struct {
	shared.BaseDomainEvent
	ContactID uuid.UUID      `json:"contact_id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Stage     LifecycleStage `json:"stage"`
}

// NewContactCreatedEvent creates a new ContactCreatedEvent
func NewContactCreatedEvent(contact *Contact) *ContactCreatedEvent {
	return &ContactCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeContactCreated, AggregateTypeContact, contact.ID, contact.TenantID),
		ContactID:       contact.ID,
		Name:            contact.Name,
		Email:           contact.Email,
		Stage:           contact.Stage,
	}
}

// ContactStageChangedEvent is published when a contact moves in the funnel
type ContactStageChangedEvent struct {
	shared.BaseDomainEvent
	ContactID uuid.UUID      `json:"contact_id"`
	Email     string         `json:"email"`
	OldStage  LifecycleStage `json:"old_stage"`
	NewStage  LifecycleStage `json:"new_stage"`
}

// NewContactStageChangedEvent creates a new ContactStageChangedEvent
func NewContactStageChangedEvent(contact *Contact, oldStage, newStage LifecycleStage) *ContactStageChangedEvent {
	return &ContactStageChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeContactStageChanged, AggregateTypeContact, contact.ID, contact.TenantID),
		ContactID:       contact.ID,
		Email:           contact.Email,
		OldStage:        oldStage,
		NewStage:        newStage,
	}
}

// ContactScoreChangedEvent is published when a contact's score changes
type ContactScoreChangedEvent struct {
	shared.BaseDomainEvent
	ContactID uuid.UUID `json:"contact_id"`
	OldScore  int       `json:"old_score"`
	NewScore  int       `json:"new_score"`
}

// NewContactScoreChangedEvent creates a new ContactScoreChangedEvent
func NewContactScoreChangedEvent(contact *Contact, oldScore, newScore int) *ContactScoreChangedEvent {
	return &ContactScoreChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeContactScoreChanged, AggregateTypeContact, contact.ID, contact.TenantID),
		ContactID:       contact.ID,
		OldScore:        oldScore,
		NewScore:        newScore,
	}
}
