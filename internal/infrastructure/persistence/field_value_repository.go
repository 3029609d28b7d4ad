package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/bizflow/backend/internal/domain/crm"
	"github.com/bizflow/backend/internal/domain/shared"
	"github.com/bizflow/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormFieldValueRepository implements FieldValueRepository using GORM
type GormFieldValueRepository struct {
	db *gorm.DB
}

// NewGormFieldValueRepository creates a new GormFieldValueRepository
func NewGormFieldValueRepository(db *gorm.DB) *GormFieldValueRepository {
	return &GormFieldValueRepository{db: db}
}

// FindByOpportunityAndField looks up the value for one (opportunity, field) pair
func (r *GormFieldValueRepository) FindByOpportunityAndField(ctx context.Context, tenantID, opportunityID, fieldID uuid.UUID) (*crm.OpportunityFieldValue, error) {
	var model models.FieldValueModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND opportunity_id = ? AND field_id = ?", tenantID, opportunityID, fieldID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOpportunity returns all field values on an opportunity
func (r *GormFieldValueRepository) FindByOpportunity(ctx context.Context, tenantID, opportunityID uuid.UUID) ([]crm.OpportunityFieldValue, error) {
	var valueModels []models.FieldValueModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND opportunity_id = ?", tenantID, opportunityID).
		Order("created_at ASC").
		Find(&valueModels).Error; err != nil {
		return nil, err
	}

	values := make([]crm.OpportunityFieldValue, len(valueModels))
	for i, model := range valueModels {
		values[i] = *model.ToDomain()
	}
	return values, nil
}

// Create inserts a new field value. A concurrent duplicate insert trips the
// composite unique index and is mapped to ALREADY_EXISTS.
func (r *GormFieldValueRepository) Create(ctx context.Context, value *crm.OpportunityFieldValue) error {
	model := models.FieldValueModelFromDomain(value)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.NewDomainError("ALREADY_EXISTS", "A value for this field already exists on the opportunity")
		}
		return err
	}
	return nil
}

// Update rewrites an existing field value
func (r *GormFieldValueRepository) Update(ctx context.Context, value *crm.OpportunityFieldValue) error {
	model := models.FieldValueModelFromDomain(value)
	result := r.db.WithContext(ctx).
		Model(&models.FieldValueModel{}).
		Where("id = ?", value.ID).
		Select("Value", "UpdatedAt").
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// isUniqueViolation detects a unique-constraint violation across drivers
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}

// Ensure GormFieldValueRepository implements FieldValueRepository
var _ crm.FieldValueRepository = (*GormFieldValueRepository)(nil)
