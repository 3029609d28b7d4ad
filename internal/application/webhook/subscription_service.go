package webhook

import (
	"context"

	"github.com/bizflow/backend/internal/domain/shared"
	"github.com/bizflow/backend/internal/domain/webhook"
	"github.com/google/uuid"
)

// SubscriptionService handles webhook subscription management
type SubscriptionService struct {
	subscriptionRepo webhook.SubscriptionRepository
}

// NewSubscriptionService creates a new SubscriptionService
func NewSubscriptionService(subscriptionRepo webhook.SubscriptionRepository) *SubscriptionService {
	return &SubscriptionService{subscriptionRepo: subscriptionRepo}
}

// Create registers a new webhook endpoint for the tenant
func (s *SubscriptionService) Create(ctx context.Context, tenantID uuid.UUID, req CreateSubscriptionRequest) (*SubscriptionResponse, error) {
	sub, err := webhook.NewSubscription(tenantID, req.TargetURL, req.Events, req.Secret)
	if err != nil {
		return nil, err
	}

	if err := s.subscriptionRepo.Save(ctx, sub); err != nil {
		return nil, err
	}

	response := ToSubscriptionResponse(sub)
	return &response, nil
}

// GetByID retrieves a subscription by ID
func (s *SubscriptionService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*SubscriptionResponse, error) {
	sub, err := s.subscriptionRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToSubscriptionResponse(sub)
	return &response, nil
}

// List retrieves subscriptions for the tenant with pagination
func (s *SubscriptionService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]SubscriptionResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	subs, err := s.subscriptionRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.subscriptionRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]SubscriptionResponse, len(subs))
	for i := range subs {
		responses[i] = ToSubscriptionResponse(&subs[i])
	}
	return responses, total, nil
}

// SetActive enables or disables delivery for a subscription
func (s *SubscriptionService) SetActive(ctx context.Context, tenantID, id uuid.UUID, active bool) (*SubscriptionResponse, error) {
	sub, err := s.subscriptionRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if active {
		sub.Activate()
	} else {
		sub.Deactivate()
	}

	if err := s.subscriptionRepo.Save(ctx, sub); err != nil {
		return nil, err
	}

	response := ToSubscriptionResponse(sub)
	return &response, nil
}

// Delete removes a subscription
func (s *SubscriptionService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.subscriptionRepo.DeleteForTenant(ctx, tenantID, id)
}
