package catalog

import (
	"testing"

	"github.com/bizflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates active product", func(t *testing.T) {
		product, err := NewProduct(tenantID, "WIDGET-1", "Widget", decimal.NewFromFloat(9.99), 100)

		require.NoError(t, err)
		assert.Equal(t, "WIDGET-1", product.SKU)
		assert.Equal(t, 100, product.Stock)
		assert.True(t, product.IsActive)
		assert.Equal(t, tenantID, product.TenantID)
		assert.Len(t, product.GetDomainEvents(), 1)
	})

	t.Run("uppercases SKU", func(t *testing.T) {
		product, err := NewProduct(tenantID, "widget-2", "Widget", decimal.NewFromInt(1), 0)

		require.NoError(t, err)
		assert.Equal(t, "WIDGET-2", product.SKU)
	})

	t.Run("fails with negative price", func(t *testing.T) {
		product, err := NewProduct(tenantID, "W3", "Widget", decimal.NewFromInt(-1), 0)

		assert.Error(t, err)
		assert.Nil(t, product)
	})

	t.Run("fails with negative stock", func(t *testing.T) {
		product, err := NewProduct(tenantID, "W4", "Widget", decimal.NewFromInt(1), -5)

		assert.Error(t, err)
		assert.Nil(t, product)
	})
}

func TestProductDecreaseStock(t *testing.T) {
	tenantID := uuid.New()

	t.Run("decreases stock", func(t *testing.T) {
		product, _ := NewProduct(tenantID, "W1", "Widget", decimal.NewFromInt(10), 10)

		require.NoError(t, product.DecreaseStock(3))
		assert.Equal(t, 7, product.Stock)
	})

	t.Run("fails when quantity exceeds stock", func(t *testing.T) {
		product, _ := NewProduct(tenantID, "W1", "Widget", decimal.NewFromInt(10), 2)

		err := product.DecreaseStock(3)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Equal(t, 2, product.Stock)
	})

	t.Run("fails with non-positive quantity", func(t *testing.T) {
		product, _ := NewProduct(tenantID, "W1", "Widget", decimal.NewFromInt(10), 10)

		assert.Error(t, product.DecreaseStock(0))
		assert.Error(t, product.DecreaseStock(-1))
	})

	t.Run("exact stock drains to zero", func(t *testing.T) {
		product, _ := NewProduct(tenantID, "W1", "Widget", decimal.NewFromInt(10), 4)

		require.NoError(t, product.DecreaseStock(4))
		assert.Equal(t, 0, product.Stock)
	})

	t.Run("emits low-stock event at threshold", func(t *testing.T) {
		product, _ := NewProduct(tenantID, "W1", "Widget", decimal.NewFromInt(10), LowStockThreshold+1)
		product.ClearDomainEvents()

		require.NoError(t, product.DecreaseStock(1))

		var sawLowStock bool
		for _, event := range product.GetDomainEvents() {
			if event.EventType() == EventTypeProductLowStock {
				sawLowStock = true
			}
		}
		assert.True(t, sawLowStock)
	})
}

func TestProductRestock(t *testing.T) {
	tenantID := uuid.New()

	t.Run("increases stock", func(t *testing.T) {
		product, _ := NewProduct(tenantID, "W1", "Widget", decimal.NewFromInt(10), 1)

		require.NoError(t, product.Restock(9))
		assert.Equal(t, 10, product.Stock)
	})

	t.Run("fails with non-positive quantity", func(t *testing.T) {
		product, _ := NewProduct(tenantID, "W1", "Widget", decimal.NewFromInt(10), 1)

		assert.Error(t, product.Restock(0))
	})
}
