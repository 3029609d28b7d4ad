package crm

import (
	"regexp"
	"strings"
	"time"

	"github.com/bizflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// LifecycleStage represents the position of a contact in the sales funnel
type LifecycleStage string

const (
	StageLead     LifecycleStage = "LEAD"
	StageMQL      LifecycleStage = "MQL" // Marketing qualified lead
	StageSQL      LifecycleStage = "SQL" // Sales qualified lead
	StageCustomer LifecycleStage = "CUSTOMER"
)

// stageRank orders the funnel stages; transitions may only move forward
var stageRank = map[LifecycleStage]int{
	StageLead:     0,
	StageMQL:      1,
	StageSQL:      2,
	StageCustomer: 3,
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Contact represents a person in the CRM context
// It is the aggregate root for contact-related operations
type Contact struct {
	shared.TenantAggregateRoot
	Name  string
	Email string // Unique per tenant, always stored lowercased
	Phone string
	Stage LifecycleStage
	Score int
}

// NewContact creates a new contact in the LEAD stage
func NewContact(tenantID uuid.UUID, name, email, phone string) (*Contact, error) {
	if err := validateContactName(name); err != nil {
		return nil, err
	}
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}

	contact := &Contact{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Email:               normalized,
		Phone:               phone,
		Stage:               StageLead,
		Score:               0,
	}

	contact.AddDomainEvent(NewContactCreatedEvent(contact))

	return contact, nil
}

// Update updates the contact's basic information
func (c *Contact) Update(name, phone string) error {
	if err := validateContactName(name); err != nil {
		return err
	}

	c.Name = name
	c.Phone = phone
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// TransitionStage moves the contact forward in the funnel.
// Backward transitions are rejected.
func (c *Contact) TransitionStage(target LifecycleStage) error {
	targetRank, ok := stageRank[target]
	if !ok {
		return shared.NewDomainError("INVALID_STAGE", "Unknown lifecycle stage: "+string(target))
	}
	if targetRank < stageRank[c.Stage] {
		return shared.NewDomainError("INVALID_STAGE_TRANSITION",
			"Cannot move contact backward from "+string(c.Stage)+" to "+string(target))
	}
	if target == c.Stage {
		return nil
	}

	oldStage := c.Stage
	c.Stage = target
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewContactStageChangedEvent(c, oldStage, target))

	return nil
}

// MarkCustomer forces the contact into the CUSTOMER stage.
// Used by the checkout flow when a contact places an order.
func (c *Contact) MarkCustomer() {
	if c.Stage == StageCustomer {
		return
	}
	oldStage := c.Stage
	c.Stage = StageCustomer
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewContactStageChangedEvent(c, oldStage, StageCustomer))
}

// AddScore adds points to the contact's engagement score
func (c *Contact) AddScore(points int) {
	if points == 0 {
		return
	}
	oldScore := c.Score
	c.Score += points
	if c.Score < 0 {
		c.Score = 0
	}
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewContactScoreChangedEvent(c, oldScore, c.Score))
}

// NormalizeEmail lowercases and trims an email address and validates its shape
func NormalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if !emailPattern.MatchString(normalized) {
		return "", shared.NewDomainError("INVALID_EMAIL", "Email format is invalid")
	}
	return normalized, nil
}

func validateContactName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Contact name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Contact name cannot exceed 200 characters")
	}
	return nil
}
