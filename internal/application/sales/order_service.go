package sales

import (
	"context"

	webhookapp "github.com/bizflow/backend/internal/application/webhook"
	"github.com/bizflow/backend/internal/domain/sales"
	"github.com/bizflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderService handles order business operations outside the checkout flow:
// listing, lookup, and status transitions driven by other channels such as
// the payment collaborator.
type OrderService struct {
	orderRepo      sales.OrderRepository
	notifier       webhookapp.Notifier
	eventPublisher shared.EventPublisher
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo sales.OrderRepository, notifier webhookapp.Notifier) *OrderService {
	if notifier == nil {
		notifier = webhookapp.NoOpNotifier{}
	}
	return &OrderService{
		orderRepo: orderRepo,
		notifier:  notifier,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// GetByID retrieves an order by ID
func (s *OrderService) GetByID(ctx context.Context, tenantID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// GetByOrderNumber retrieves an order by its order number
func (s *OrderService) GetByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByOrderNumber(ctx, tenantID, orderNumber)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// List retrieves orders for the tenant with pagination
func (s *OrderService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]OrderListItemResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	orders, err := s.orderRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]OrderListItemResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderListItemResponse(&orders[i])
	}
	return responses, total, nil
}

// UpdateStatus transitions a PENDING order to COMPLETED or CANCELLED.
// Used by the payment collaborator and manual back-office flows. A webhook
// fires best-effort after the transition is persisted.
func (s *OrderService) UpdateStatus(ctx context.Context, tenantID, orderID uuid.UUID, req UpdateStatusRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	switch sales.OrderStatus(req.Status) {
	case sales.OrderStatusCompleted:
		err = order.Complete()
	case sales.OrderStatusCancelled:
		err = order.Cancel()
	default:
		err = shared.NewDomainError("INVALID_STATUS", "Status must be COMPLETED or CANCELLED")
	}
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	s.afterStatusChange(ctx, tenantID, order)

	response := ToOrderResponse(order)
	return &response, nil
}

// Cancel transitions a PENDING order to CANCELLED
func (s *OrderService) Cancel(ctx context.Context, tenantID, orderID uuid.UUID) (*OrderResponse, error) {
	return s.UpdateStatus(ctx, tenantID, orderID, UpdateStatusRequest{Status: string(sales.OrderStatusCancelled)})
}

func (s *OrderService) afterStatusChange(ctx context.Context, tenantID uuid.UUID, order *sales.Order) {
	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, order.GetDomainEvents()...)
		order.ClearDomainEvents()
	}

	eventName := "order.completed"
	if order.Status == sales.OrderStatusCancelled {
		eventName = "order.cancelled"
	}
	s.notifier.Trigger(tenantID, eventName, map[string]interface{}{
		"order_id":     order.ID.String(),
		"order_number": order.OrderNumber,
		"total_amount": order.TotalAmount.String(),
		"status":       string(order.Status),
	})
}
