package persistence

import (
	"context"
	"errors"

	"github.com/bizflow/backend/internal/domain/shared"
	"github.com/bizflow/backend/internal/domain/webhook"
	"github.com/bizflow/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSubscriptionRepository implements SubscriptionRepository using GORM
type GormSubscriptionRepository struct {
	db *gorm.DB
}

// NewGormSubscriptionRepository creates a new GormSubscriptionRepository
func NewGormSubscriptionRepository(db *gorm.DB) *GormSubscriptionRepository {
	return &GormSubscriptionRepository{db: db}
}

// FindByIDForTenant finds a subscription by ID within a tenant
func (r *GormSubscriptionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*webhook.Subscription, error) {
	var model models.SubscriptionModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all subscriptions for a tenant
func (r *GormSubscriptionRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]webhook.Subscription, error) {
	var subModels []models.SubscriptionModel
	query := applyFilter(r.db.WithContext(ctx).Model(&models.SubscriptionModel{}).Where("tenant_id = ?", tenantID), filter, subscriptionSearchColumns)

	if err := query.Find(&subModels).Error; err != nil {
		return nil, err
	}

	subs := make([]webhook.Subscription, len(subModels))
	for i, model := range subModels {
		subs[i] = *model.ToDomain()
	}
	return subs, nil
}

// FindActiveForTenant returns every active subscription for the tenant
func (r *GormSubscriptionRepository) FindActiveForTenant(ctx context.Context, tenantID uuid.UUID) ([]webhook.Subscription, error) {
	var subModels []models.SubscriptionModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND is_active = ?", tenantID, true).
		Find(&subModels).Error; err != nil {
		return nil, err
	}

	subs := make([]webhook.Subscription, len(subModels))
	for i, model := range subModels {
		subs[i] = *model.ToDomain()
	}
	return subs, nil
}

// CountForTenant counts subscriptions for a tenant
func (r *GormSubscriptionRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.SubscriptionModel{}).Where("tenant_id = ?", tenantID), filter, subscriptionSearchColumns)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a subscription
func (r *GormSubscriptionRepository) Save(ctx context.Context, subscription *webhook.Subscription) error {
	model := models.SubscriptionModelFromDomain(subscription)
	return r.db.WithContext(ctx).Save(model).Error
}

// DeleteForTenant deletes a subscription within a tenant
func (r *GormSubscriptionRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.SubscriptionModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var subscriptionSearchColumns = []string{"target_url"}

// Ensure GormSubscriptionRepository implements SubscriptionRepository
var _ webhook.SubscriptionRepository = (*GormSubscriptionRepository)(nil)
