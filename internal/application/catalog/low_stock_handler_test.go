package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/bizflow/backend/internal/domain/catalog"
	"github.com/bizflow/backend/internal/infrastructure/event"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRestockNotifier struct {
	alerts []LowStockAlert
	err    error
}

func (n *recordingRestockNotifier) NotifyLowStock(_ context.Context, alert LowStockAlert) error {
	n.alerts = append(n.alerts, alert)
	return n.err
}

func newLowStockProduct(t *testing.T) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(uuid.New(), "SKU-LOW", "Widget", decimal.NewFromInt(10), 7)
	require.NoError(t, err)
	product.ClearDomainEvents()
	return product
}

func TestLowStockHandler_Handle(t *testing.T) {
	t.Run("notifies on low-stock event", func(t *testing.T) {
		notifier := &recordingRestockNotifier{}
		handler := NewLowStockHandler(nil).WithNotifier(notifier)

		product := newLowStockProduct(t)
		evt := catalog.NewProductLowStockEvent(product)

		err := handler.Handle(context.Background(), evt)

		require.NoError(t, err)
		require.Len(t, notifier.alerts, 1)
		assert.Equal(t, "SKU-LOW", notifier.alerts[0].SKU)
		assert.Equal(t, product.TenantID.String(), notifier.alerts[0].TenantID)
	})

	t.Run("rejects events of another type", func(t *testing.T) {
		handler := NewLowStockHandler(nil)
		product := newLowStockProduct(t)

		err := handler.Handle(context.Background(), catalog.NewProductCreatedEvent(product))

		assert.Error(t, err)
	})

	t.Run("notifier failure does not fail the handler", func(t *testing.T) {
		notifier := &recordingRestockNotifier{err: errors.New("smtp down")}
		handler := NewLowStockHandler(nil).WithNotifier(notifier)
		product := newLowStockProduct(t)

		err := handler.Handle(context.Background(), catalog.NewProductLowStockEvent(product))

		assert.NoError(t, err)
	})
}

func TestLowStockHandler_ReceivesAggregateEventsThroughBus(t *testing.T) {
	notifier := &recordingRestockNotifier{}
	bus := event.NewInMemoryEventBus(nil)
	bus.Subscribe(NewLowStockHandler(nil).WithNotifier(notifier))

	product := newLowStockProduct(t)
	require.NoError(t, product.DecreaseStock(3)) // 7 -> 4, below the threshold

	require.NoError(t, bus.Publish(context.Background(), product.GetDomainEvents()...))
	product.ClearDomainEvents()

	// The stock-changed event is filtered out, only the low-stock one lands
	require.Len(t, notifier.alerts, 1)
	assert.Equal(t, 4, notifier.alerts[0].Stock)
	assert.Equal(t, product.ID.String(), notifier.alerts[0].ProductID)
}
