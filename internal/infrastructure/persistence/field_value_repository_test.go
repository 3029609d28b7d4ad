package persistence

import (
	"context"
	"testing"

	"github.com/bizflow/backend/internal/domain/crm"
	"github.com/bizflow/backend/internal/domain/shared"
	"github.com/bizflow/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newSQLiteFieldValueRepository runs the repository against a real database
// so the composite unique index is actually enforced, not mocked.
func newSQLiteFieldValueRepository(t *testing.T) *GormFieldValueRepository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps every query on the same in-memory database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.FieldValueModel{}))

	return NewGormFieldValueRepository(db)
}

func TestGormFieldValueRepository_CreateAndFind(t *testing.T) {
	repo := newSQLiteFieldValueRepository(t)
	tenantID := uuid.New()
	opportunityID := uuid.New()
	fieldID := uuid.New()

	value := crm.NewOpportunityFieldValue(tenantID, opportunityID, fieldID, "north-america")
	require.NoError(t, repo.Create(context.Background(), value))

	found, err := repo.FindByOpportunityAndField(context.Background(), tenantID, opportunityID, fieldID)
	require.NoError(t, err)
	assert.Equal(t, value.ID, found.ID)
	assert.Equal(t, "north-america", found.Value)

	t.Run("missing pair returns ErrNotFound", func(t *testing.T) {
		_, err := repo.FindByOpportunityAndField(context.Background(), tenantID, opportunityID, uuid.New())
		assert.Equal(t, shared.ErrNotFound, err)
	})

	t.Run("pair is invisible under another tenant", func(t *testing.T) {
		_, err := repo.FindByOpportunityAndField(context.Background(), uuid.New(), opportunityID, fieldID)
		assert.Equal(t, shared.ErrNotFound, err)
	})
}

func TestGormFieldValueRepository_DuplicatePairIsRejectedByIndex(t *testing.T) {
	repo := newSQLiteFieldValueRepository(t)
	tenantID := uuid.New()
	opportunityID := uuid.New()
	fieldID := uuid.New()

	first := crm.NewOpportunityFieldValue(tenantID, opportunityID, fieldID, "bronze")
	require.NoError(t, repo.Create(context.Background(), first))

	duplicate := crm.NewOpportunityFieldValue(tenantID, opportunityID, fieldID, "gold")
	err := repo.Create(context.Background(), duplicate)

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)

	t.Run("same field on another opportunity is allowed", func(t *testing.T) {
		other := crm.NewOpportunityFieldValue(tenantID, uuid.New(), fieldID, "silver")
		assert.NoError(t, repo.Create(context.Background(), other))
	})
}

func TestGormFieldValueRepository_Update(t *testing.T) {
	repo := newSQLiteFieldValueRepository(t)
	tenantID := uuid.New()
	opportunityID := uuid.New()
	fieldID := uuid.New()

	value := crm.NewOpportunityFieldValue(tenantID, opportunityID, fieldID, "bronze")
	require.NoError(t, repo.Create(context.Background(), value))

	value.SetValue("gold")
	require.NoError(t, repo.Update(context.Background(), value))

	found, err := repo.FindByOpportunityAndField(context.Background(), tenantID, opportunityID, fieldID)
	require.NoError(t, err)
	assert.Equal(t, "gold", found.Value)

	t.Run("unknown id returns ErrNotFound", func(t *testing.T) {
		ghost := crm.NewOpportunityFieldValue(tenantID, uuid.New(), uuid.New(), "x")
		err := repo.Update(context.Background(), ghost)
		assert.Equal(t, shared.ErrNotFound, err)
	})
}

func TestGormFieldValueRepository_FindByOpportunity(t *testing.T) {
	repo := newSQLiteFieldValueRepository(t)
	tenantID := uuid.New()
	opportunityID := uuid.New()

	require.NoError(t, repo.Create(context.Background(), crm.NewOpportunityFieldValue(tenantID, opportunityID, uuid.New(), "a")))
	require.NoError(t, repo.Create(context.Background(), crm.NewOpportunityFieldValue(tenantID, opportunityID, uuid.New(), "b")))
	require.NoError(t, repo.Create(context.Background(), crm.NewOpportunityFieldValue(tenantID, uuid.New(), uuid.New(), "other-opp")))

	values, err := repo.FindByOpportunity(context.Background(), tenantID, opportunityID)
	require.NoError(t, err)
	assert.Len(t, values, 2)
}
