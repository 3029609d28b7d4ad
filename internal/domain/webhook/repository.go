package webhook

import (
	"context"

	"github.com/bizflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SubscriptionRepository defines the persistence interface for webhook subscriptions
type SubscriptionRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Subscription, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Subscription, error)
	// FindActiveForTenant returns every active subscription for the tenant.
	// Dispatch reads only through this method.
	FindActiveForTenant(ctx context.Context, tenantID uuid.UUID) ([]Subscription, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, subscription *Subscription) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
