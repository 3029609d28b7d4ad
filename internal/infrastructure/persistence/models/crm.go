package models

import (
	"github.com/bizflow/backend/internal/domain/crm"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ContactModel is the persistence model for crm.Contact
type ContactModel struct {
	TenantAggregateModel
	Name  string `gorm:"type:varchar(200);not null"`
	Email string `gorm:"type:varchar(200);not null;uniqueIndex:idx_contact_tenant_email,priority:2"`
	Phone string `gorm:"type:varchar(50)"`
	Stage string `gorm:"type:varchar(20);not null;default:'LEAD'"`
	Score int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ContactModel) TableName() string {
	return "contacts"
}

// ToDomain converts the model to a domain contact
func (m *ContactModel) ToDomain() *crm.Contact {
	contact := &crm.Contact{
		Name:  m.Name,
		Email: m.Email,
		Phone: m.Phone,
		Stage: crm.LifecycleStage(m.Stage),
		Score: m.Score,
	}
	m.PopulateTenantAggregateRoot(&contact.TenantAggregateRoot)
	return contact
}

// ContactModelFromDomain converts a domain contact to the persistence model
func ContactModelFromDomain(contact *crm.Contact) *ContactModel {
	model := &ContactModel{
		Name:  contact.Name,
		Email: contact.Email,
		Phone: contact.Phone,
		Stage: string(contact.Stage),
		Score: contact.Score,
	}
	model.FromDomainTenantAggregateRoot(contact.TenantAggregateRoot)
	return model
}

// OpportunityModel is the persistence model for crm.Opportunity
type OpportunityModel struct {
	TenantAggregateModel
	ContactID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Title     string          `gorm:"type:varchar(200);not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Stage     string          `gorm:"type:varchar(100);not null;default:'new'"`
	Status    string          `gorm:"type:varchar(20);not null;default:'OPEN'"`
}

// TableName returns the table name for GORM
func (OpportunityModel) TableName() string {
	return "opportunities"
}

// ToDomain converts the model to a domain opportunity
func (m *OpportunityModel) ToDomain() *crm.Opportunity {
	opp := &crm.Opportunity{
		ContactID: m.ContactID,
		Title:     m.Title,
		Amount:    m.Amount,
		Stage:     m.Stage,
		Status:    crm.OpportunityStatus(m.Status),
	}
	m.PopulateTenantAggregateRoot(&opp.TenantAggregateRoot)
	return opp
}

// OpportunityModelFromDomain converts a domain opportunity to the persistence model
func OpportunityModelFromDomain(opp *crm.Opportunity) *OpportunityModel {
	model := &OpportunityModel{
		ContactID: opp.ContactID,
		Title:     opp.Title,
		Amount:    opp.Amount,
		Stage:     opp.Stage,
		Status:    string(opp.Status),
	}
	model.FromDomainTenantAggregateRoot(opp.TenantAggregateRoot)
	return model
}

// FieldValueModel is the persistence model for crm.OpportunityFieldValue.
// The composite unique index on (opportunity_id, field_id) enforces one
// value per field per opportunity.
type FieldValueModel struct {
	BaseModel
	TenantID      uuid.UUID `gorm:"type:uuid;not null;index"`
	OpportunityID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_opp_field,priority:1"`
	FieldID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_opp_field,priority:2"`
	Value         string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (FieldValueModel) TableName() string {
	return "opportunity_field_values"
}

// ToDomain converts the model to a domain field value
func (m *FieldValueModel) ToDomain() *crm.OpportunityFieldValue {
	return &crm.OpportunityFieldValue{
		BaseEntity:    m.BaseModel.ToDomain(),
		TenantID:      m.TenantID,
		OpportunityID: m.OpportunityID,
		FieldID:       m.FieldID,
		Value:         m.Value,
	}
}

// FieldValueModelFromDomain converts a domain field value to the persistence model
func FieldValueModelFromDomain(value *crm.OpportunityFieldValue) *FieldValueModel {
	model := &FieldValueModel{
		TenantID:      value.TenantID,
		OpportunityID: value.OpportunityID,
		FieldID:       value.FieldID,
		Value:         value.Value,
	}
	model.FromDomainBaseEntity(value.BaseEntity)
	return model
}
