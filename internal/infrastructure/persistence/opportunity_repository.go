package persistence

import (
	"context"
	"errors"

	"github.com/bizflow/backend/internal/domain/crm"
	"github.com/bizflow/backend/internal/domain/shared"
	"github.com/bizflow/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOpportunityRepository implements OpportunityRepository using GORM
type GormOpportunityRepository struct {
	db *gorm.DB
}

// NewGormOpportunityRepository creates a new GormOpportunityRepository
func NewGormOpportunityRepository(db *gorm.DB) *GormOpportunityRepository {
	return &GormOpportunityRepository{db: db}
}

// FindByIDForTenant finds an opportunity by ID within a tenant
func (r *GormOpportunityRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*crm.Opportunity, error) {
	var model models.OpportunityModel
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

// FindByContact finds opportunities tied to a contact
func (r *GormOpportunityRepository) FindByContact(ctx context.Context, tenantID, contactID uuid.UUID, filter shared.Filter) ([]crm.Opportunity, error) {
	var oppModels []models.OpportunityModel
	query := applyFilter(
		r.db.WithContext(ctx).Model(&models.OpportunityModel{}).
			Where("tenant_id = ? AND contact_id = ?", tenantID, contactID),
		filter, opportunitySearchColumns,
	)

	if err := query.Find(&oppModels).Error; err != nil {
		return nil, err
	}

	opps := make([]crm.Opportunity, len(oppModels))
	for i, model := range oppModels {
		opps[i] = *model.ToDomain()
	}
	return opps, nil
}

// FindAllForTenant finds all opportunities for a tenant
func (r *GormOpportunityRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]crm.Opportunity, error) {
	var oppModels []models.OpportunityModel
	query := applyFilter(r.db.WithContext(ctx).Model(&models.OpportunityModel{}).Where("tenant_id = ?", tenantID), filter, opportunitySearchColumns)

	if err := query.Find(&oppModels).Error; err != nil {
		return nil, err
	}

	opps := make([]crm.Opportunity, len(oppModels))
	for i, model := range oppModels {
		opps[i] = *model.ToDomain()
	}
	return opps, nil
}

// CountForTenant counts opportunities for a tenant
func (r *GormOpportunityRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.OpportunityModel{}).Where("tenant_id = ?", tenantID), filter, opportunitySearchColumns)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an opportunity
func (r *GormOpportunityRepository) Save(ctx context.Context, opportunity *crm.Opportunity) error {
	model := models.OpportunityModelFromDomain(opportunity)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves an opportunity with optimistic locking (version check)
func (r *GormOpportunityRepository) SaveWithLock(ctx context.Context, opportunity *crm.Opportunity) error {
	model := models.OpportunityModelFromDomain(opportunity)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", opportunity.ID, opportunity.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The opportunity record has been modified by another transaction")
	}
	return nil
}

// DeleteForTenant deletes an opportunity within a tenant
func (r *GormOpportunityRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.OpportunityModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var opportunitySearchColumns = []string{"title"}

// Ensure GormOpportunityRepository implements OpportunityRepository
var _ crm.OpportunityRepository = (*GormOpportunityRepository)(nil)
