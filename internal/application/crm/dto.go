package crm

import (
	"time"

	"github.com/bizflow/backend/internal/domain/crm"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateContactRequest is the input for creating a contact
type CreateContactRequest struct {
	Name  string `json:"name" binding:"required,max=200"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone"`
}

// UpdateContactRequest is the input for updating a contact's basics
type UpdateContactRequest struct {
	Name  string `json:"name" binding:"required,max=200"`
	Phone string `json:"phone"`
}

// TransitionStageRequest moves a contact to a new funnel stage
type TransitionStageRequest struct {
	Stage string `json:"stage" binding:"required"`
}

// ContactResponse is the API representation of a contact
type ContactResponse struct {
	ID        uuid.UUID          `json:"id"`
	Name      string             `json:"name"`
	Email     string             `json:"email"`
	Phone     string             `json:"phone,omitempty"`
	Stage     crm.LifecycleStage `json:"stage"`
	Score     int                `json:"score"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// ToContactResponse converts a domain contact to a response
func ToContactResponse(contact *crm.Contact) ContactResponse {
	return ContactResponse{
		ID:        contact.ID,
		Name:      contact.Name,
		Email:     contact.Email,
		Phone:     contact.Phone,
		Stage:     contact.Stage,
		Score:     contact.Score,
		CreatedAt: contact.CreatedAt,
		UpdatedAt: contact.UpdatedAt,
	}
}

// CreateOpportunityRequest is the input for creating an opportunity
type CreateOpportunityRequest struct {
	ContactID uuid.UUID       `json:"contact_id" binding:"required"`
	Title     string          `json:"title" binding:"required,max=200"`
	Amount    decimal.Decimal `json:"amount"`
}

// SetFieldValueRequest sets a custom field value on an opportunity
type SetFieldValueRequest struct {
	FieldID uuid.UUID `json:"field_id" binding:"required"`
	Value   string    `json:"value"`
}

// OpportunityResponse is the API representation of an opportunity
type OpportunityResponse struct {
	ID        uuid.UUID             `json:"id"`
	ContactID uuid.UUID             `json:"contact_id"`
	Title     string                `json:"title"`
	Amount    decimal.Decimal       `json:"amount"`
	Stage     string                `json:"stage"`
	Status    crm.OpportunityStatus `json:"status"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// FieldValueResponse is the API representation of a custom field value
type FieldValueResponse struct {
	OpportunityID uuid.UUID `json:"opportunity_id"`
	FieldID       uuid.UUID `json:"field_id"`
	Value         string    `json:"value"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ToOpportunityResponse converts a domain opportunity to a response
func ToOpportunityResponse(opp *crm.Opportunity) OpportunityResponse {
	return OpportunityResponse{
		ID:        opp.ID,
		ContactID: opp.ContactID,
		Title:     opp.Title,
		Amount:    opp.Amount,
		Stage:     opp.Stage,
		Status:    opp.Status,
		CreatedAt: opp.CreatedAt,
		UpdatedAt: opp.UpdatedAt,
	}
}

// ToFieldValueResponse converts a domain field value to a response
func ToFieldValueResponse(value *crm.OpportunityFieldValue) FieldValueResponse {
	return FieldValueResponse{
		OpportunityID: value.OpportunityID,
		FieldID:       value.FieldID,
		Value:         value.Value,
		UpdatedAt:     value.UpdatedAt,
	}
}
