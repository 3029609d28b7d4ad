package sales

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLines() []OrderLine {
	return []OrderLine{
		{ProductID: uuid.New(), ProductName: "Widget", Quantity: 2, UnitPrice: decimal.NewFromFloat(9.99)},
		{ProductID: uuid.New(), ProductName: "Gadget", Quantity: 1, UnitPrice: decimal.NewFromFloat(25.00)},
	}
}

func TestNewOrder(t *testing.T) {
	tenantID := uuid.New()

	t.Run("computes total from unit prices", func(t *testing.T) {
		order, err := NewOrder(tenantID, "SO-1", "Alice", nil, testLines(), OrderStatusCompleted)

		require.NoError(t, err)
		assert.True(t, order.TotalAmount.Equal(decimal.NewFromFloat(44.98)), "total was %s", order.TotalAmount)
		require.Len(t, order.Items, 2)
		assert.True(t, order.Items[0].UnitPrice.Equal(decimal.NewFromFloat(9.99)))
		assert.True(t, order.Items[0].Amount.Equal(decimal.NewFromFloat(19.98)))
	})

	t.Run("completed order carries completion timestamp", func(t *testing.T) {
		order, err := NewOrder(tenantID, "SO-2", "Alice", nil, testLines(), OrderStatusCompleted)

		require.NoError(t, err)
		assert.Equal(t, OrderStatusCompleted, order.Status)
		assert.NotNil(t, order.CompletedAt)
	})

	t.Run("fails with no items", func(t *testing.T) {
		order, err := NewOrder(tenantID, "SO-3", "Alice", nil, nil, OrderStatusPending)

		assert.Error(t, err)
		assert.Nil(t, order)
	})

	t.Run("fails with non-positive quantity", func(t *testing.T) {
		lines := []OrderLine{{ProductID: uuid.New(), ProductName: "Widget", Quantity: 0, UnitPrice: decimal.NewFromInt(1)}}
		order, err := NewOrder(tenantID, "SO-4", "Alice", nil, lines, OrderStatusPending)

		assert.Error(t, err)
		assert.Nil(t, order)
	})

	t.Run("rejects terminal status at creation", func(t *testing.T) {
		order, err := NewOrder(tenantID, "SO-5", "Alice", nil, testLines(), OrderStatusCancelled)

		assert.Error(t, err)
		assert.Nil(t, order)
	})
}

func TestOrderStatusTransitions(t *testing.T) {
	tenantID := uuid.New()

	t.Run("pending to completed", func(t *testing.T) {
		order, _ := NewOrder(tenantID, "SO-1", "Alice", nil, testLines(), OrderStatusPending)

		require.NoError(t, order.Complete())
		assert.Equal(t, OrderStatusCompleted, order.Status)
		assert.NotNil(t, order.CompletedAt)
	})

	t.Run("pending to cancelled", func(t *testing.T) {
		order, _ := NewOrder(tenantID, "SO-2", "Alice", nil, testLines(), OrderStatusPending)

		require.NoError(t, order.Cancel())
		assert.Equal(t, OrderStatusCancelled, order.Status)
		assert.NotNil(t, order.CancelledAt)
	})

	t.Run("completed is terminal", func(t *testing.T) {
		order, _ := NewOrder(tenantID, "SO-3", "Alice", nil, testLines(), OrderStatusCompleted)

		assert.Error(t, order.Complete())
		assert.Error(t, order.Cancel())
		assert.True(t, order.IsTerminal())
	})

	t.Run("cancelled is terminal", func(t *testing.T) {
		order, _ := NewOrder(tenantID, "SO-4", "Alice", nil, testLines(), OrderStatusPending)
		require.NoError(t, order.Cancel())

		assert.Error(t, order.Complete())
		assert.True(t, order.IsTerminal())
	})
}

func TestGenerateOrderNumber(t *testing.T) {
	at := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	number := GenerateOrderNumber(at)

	assert.Contains(t, number, "SO-20250315-")
	assert.Len(t, number, len("SO-20250315-")+8)
	assert.NotEqual(t, number, GenerateOrderNumber(at))
}
