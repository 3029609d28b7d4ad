package sales

import (
	"context"
	"testing"

	"github.com/bizflow/backend/internal/domain/sales"
	"github.com/bizflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderRepo struct {
	orders  map[uuid.UUID]*sales.Order
	saveErr error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]*sales.Order)}
}

func (r *fakeOrderRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*sales.Order, error) {
	o, ok := r.orders[id]
	if !ok || o.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return o, nil
}

func (r *fakeOrderRepo) FindByOrderNumber(_ context.Context, tenantID uuid.UUID, orderNumber string) (*sales.Order, error) {
	for _, o := range r.orders {
		if o.TenantID == tenantID && o.OrderNumber == orderNumber {
			return o, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeOrderRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]sales.Order, error) {
	var out []sales.Order
	for _, o := range r.orders {
		if o.TenantID == tenantID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) CountForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) (int64, error) {
	var n int64
	for _, o := range r.orders {
		if o.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

func (r *fakeOrderRepo) Save(_ context.Context, order *sales.Order) error {
	r.orders[order.ID] = order
	return nil
}

func (r *fakeOrderRepo) SaveWithLock(_ context.Context, order *sales.Order) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.orders[order.ID] = order
	return nil
}

type triggeredEvent struct {
	tenantID uuid.UUID
	name     string
	payload  map[string]interface{}
}

type recordingNotifier struct {
	events []triggeredEvent
}

func (n *recordingNotifier) Trigger(tenantID uuid.UUID, eventName string, payload map[string]interface{}) {
	n.events = append(n.events, triggeredEvent{tenantID: tenantID, name: eventName, payload: payload})
}

func newPendingOrder(t *testing.T, tenantID uuid.UUID) *sales.Order {
	t.Helper()
	order, err := sales.NewOrder(tenantID, "SO-20250301-TEST0001", "Grace Hopper", nil, []sales.OrderLine{
		{ProductID: uuid.New(), ProductName: "Widget", Quantity: 2, UnitPrice: decimal.NewFromInt(25)},
	}, sales.OrderStatusPending)
	require.NoError(t, err)
	order.ClearDomainEvents()
	return order
}

func TestOrderService_UpdateStatus(t *testing.T) {
	t.Run("completes a pending order and fires order.completed", func(t *testing.T) {
		tenantID := uuid.New()
		repo := newFakeOrderRepo()
		notifier := &recordingNotifier{}
		order := newPendingOrder(t, tenantID)
		require.NoError(t, repo.Save(context.Background(), order))

		svc := NewOrderService(repo, notifier)
		resp, err := svc.UpdateStatus(context.Background(), tenantID, order.ID, UpdateStatusRequest{Status: "COMPLETED"})

		require.NoError(t, err)
		assert.Equal(t, sales.OrderStatusCompleted, resp.Status)
		assert.NotNil(t, resp.CompletedAt)

		require.Len(t, notifier.events, 1)
		assert.Equal(t, "order.completed", notifier.events[0].name)
		assert.Equal(t, tenantID, notifier.events[0].tenantID)
		assert.Equal(t, order.OrderNumber, notifier.events[0].payload["order_number"])
	})

	t.Run("cancels a pending order and fires order.cancelled", func(t *testing.T) {
		tenantID := uuid.New()
		repo := newFakeOrderRepo()
		notifier := &recordingNotifier{}
		order := newPendingOrder(t, tenantID)
		require.NoError(t, repo.Save(context.Background(), order))

		svc := NewOrderService(repo, notifier)
		resp, err := svc.UpdateStatus(context.Background(), tenantID, order.ID, UpdateStatusRequest{Status: "CANCELLED"})

		require.NoError(t, err)
		assert.Equal(t, sales.OrderStatusCancelled, resp.Status)
		assert.NotNil(t, resp.CancelledAt)
		require.Len(t, notifier.events, 1)
		assert.Equal(t, "order.cancelled", notifier.events[0].name)
	})

	t.Run("rejects transitions out of a terminal status", func(t *testing.T) {
		tenantID := uuid.New()
		repo := newFakeOrderRepo()
		notifier := &recordingNotifier{}
		order := newPendingOrder(t, tenantID)
		require.NoError(t, order.Complete())
		require.NoError(t, repo.Save(context.Background(), order))

		svc := NewOrderService(repo, notifier)
		_, err := svc.UpdateStatus(context.Background(), tenantID, order.ID, UpdateStatusRequest{Status: "CANCELLED"})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
		assert.Empty(t, notifier.events)
	})

	t.Run("rejects statuses outside the machine", func(t *testing.T) {
		tenantID := uuid.New()
		repo := newFakeOrderRepo()
		order := newPendingOrder(t, tenantID)
		require.NoError(t, repo.Save(context.Background(), order))

		svc := NewOrderService(repo, &recordingNotifier{})
		_, err := svc.UpdateStatus(context.Background(), tenantID, order.ID, UpdateStatusRequest{Status: "SHIPPED"})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATUS", domainErr.Code)
	})

	t.Run("no webhook when the save fails", func(t *testing.T) {
		tenantID := uuid.New()
		repo := newFakeOrderRepo()
		repo.saveErr = shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "version conflict")
		notifier := &recordingNotifier{}
		order := newPendingOrder(t, tenantID)
		repo.orders[order.ID] = order

		svc := NewOrderService(repo, notifier)
		_, err := svc.UpdateStatus(context.Background(), tenantID, order.ID, UpdateStatusRequest{Status: "COMPLETED"})

		require.Error(t, err)
		assert.Empty(t, notifier.events)
	})

	t.Run("order in another tenant is invisible", func(t *testing.T) {
		repo := newFakeOrderRepo()
		order := newPendingOrder(t, uuid.New())
		require.NoError(t, repo.Save(context.Background(), order))

		svc := NewOrderService(repo, &recordingNotifier{})
		_, err := svc.UpdateStatus(context.Background(), uuid.New(), order.ID, UpdateStatusRequest{Status: "COMPLETED"})

		assert.Equal(t, shared.ErrNotFound, err)
	})
}

func TestOrderService_Cancel(t *testing.T) {
	tenantID := uuid.New()
	repo := newFakeOrderRepo()
	notifier := &recordingNotifier{}
	order := newPendingOrder(t, tenantID)
	require.NoError(t, repo.Save(context.Background(), order))

	svc := NewOrderService(repo, notifier)
	resp, err := svc.Cancel(context.Background(), tenantID, order.ID)

	require.NoError(t, err)
	assert.Equal(t, sales.OrderStatusCancelled, resp.Status)
	require.Len(t, notifier.events, 1)
	assert.Equal(t, "order.cancelled", notifier.events[0].name)
}

func TestOrderService_GetByOrderNumber(t *testing.T) {
	tenantID := uuid.New()
	repo := newFakeOrderRepo()
	order := newPendingOrder(t, tenantID)
	require.NoError(t, repo.Save(context.Background(), order))

	svc := NewOrderService(repo, nil)
	resp, err := svc.GetByOrderNumber(context.Background(), tenantID, order.OrderNumber)

	require.NoError(t, err)
	assert.Equal(t, order.ID, resp.ID)
	assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(50)))
}
