package crm

import (
	"context"
	"fmt"

	"github.com/bizflow/backend/internal/domain/crm"
	"github.com/bizflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ContactStageChangedHandler reacts to contact funnel movements. Progressions
// are logged for the sales audit trail; reaching CUSTOMER is logged at a
// higher level since it marks a conversion.
type ContactStageChangedHandler struct {
	logger *zap.Logger
}

// NewContactStageChangedHandler creates a new ContactStageChangedHandler
func NewContactStageChangedHandler(logger *zap.Logger) *ContactStageChangedHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContactStageChangedHandler{logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *ContactStageChangedHandler) EventTypes() []string {
	return []string{crm.EventTypeContactStageChanged}
}

// Handle processes a ContactStageChangedEvent
func (h *ContactStageChangedHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	stageEvent, ok := event.(*crm.ContactStageChangedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			crm.EventTypeContactStageChanged, event.EventType())
	}

	fields := []zap.Field{
		zap.String("tenant_id", event.TenantID().String()),
		zap.String("contact_id", stageEvent.ContactID.String()),
		zap.String("email", stageEvent.Email),
		zap.String("old_stage", string(stageEvent.OldStage)),
		zap.String("new_stage", string(stageEvent.NewStage)),
	}

	if stageEvent.NewStage == crm.StageCustomer {
		h.logger.Info("contact converted to customer", fields...)
	} else {
		h.logger.Debug("contact moved in the funnel", fields...)
	}

	return nil
}

// Ensure ContactStageChangedHandler implements shared.EventHandler
var _ shared.EventHandler = (*ContactStageChangedHandler)(nil)
