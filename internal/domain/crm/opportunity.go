package crm

import (
	"strings"
	"time"

	"github.com/bizflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OpportunityStatus represents the status of an opportunity
type OpportunityStatus string

const (
	OpportunityStatusOpen OpportunityStatus = "OPEN"
	OpportunityStatusWon  OpportunityStatus = "WON"
	OpportunityStatusLost OpportunityStatus = "LOST"
)

// Opportunity represents a potential deal tied to a contact
type Opportunity struct {
	shared.TenantAggregateRoot
	ContactID uuid.UUID
	Title     string
	Amount    decimal.Decimal
	Stage     string // Pipeline stage label
	Status    OpportunityStatus
}

// NewOpportunity creates a new open opportunity
func NewOpportunity(tenantID, contactID uuid.UUID, title string, amount decimal.Decimal) (*Opportunity, error) {
	if strings.TrimSpace(title) == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Opportunity title cannot be empty")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Opportunity amount cannot be negative")
	}

	opp := &Opportunity{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ContactID:           contactID,
		Title:               title,
		Amount:              amount,
		Stage:               "new",
		Status:              OpportunityStatusOpen,
	}

	return opp, nil
}

// MoveToStage updates the pipeline stage label
func (o *Opportunity) MoveToStage(stage string) error {
	if o.Status != OpportunityStatusOpen {
		return shared.ErrInvalidState
	}
	if strings.TrimSpace(stage) == "" {
		return shared.NewDomainError("INVALID_STAGE", "Pipeline stage cannot be empty")
	}

	o.Stage = stage
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// Close marks the opportunity as WON or LOST
func (o *Opportunity) Close(status OpportunityStatus) error {
	if status != OpportunityStatusWon && status != OpportunityStatusLost {
		return shared.NewDomainError("INVALID_STATUS", "Opportunity can only be closed as WON or LOST")
	}
	if o.Status != OpportunityStatusOpen {
		return shared.ErrInvalidState
	}

	o.Status = status
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}
