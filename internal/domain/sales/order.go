package sales

import (
	"fmt"
	"strings"
	"time"

	"github.com/bizflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of a sales order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// OrderItem is a line item on an order. Items are immutable after the order
// is created; UnitPrice is the price captured at the time of sale, not a
// reference to the live product price.
type OrderItem struct {
	shared.BaseEntity
	OrderID     uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	Amount      decimal.Decimal
}

// Order represents a sales order in the sales context
// It is the aggregate root for order-related operations
type Order struct {
	shared.TenantAggregateRoot
	OrderNumber  string // Unique per tenant
	CustomerName string
	ContactID    *uuid.UUID
	Items        []OrderItem
	TotalAmount  decimal.Decimal
	Status       OrderStatus
	CompletedAt  *time.Time
	CancelledAt  *time.Time
}

// OrderLine is the input for one order line
type OrderLine struct {
	ProductID   uuid.UUID
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// NewOrder creates a new order with the given lines.
// The total is always Σ(unit price × quantity) over the lines.
func NewOrder(tenantID uuid.UUID, orderNumber, customerName string, contactID *uuid.UUID, lines []OrderLine, status OrderStatus) (*Order, error) {
	if strings.TrimSpace(orderNumber) == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if strings.TrimSpace(customerName) == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Order must contain at least one item")
	}
	if status != OrderStatusPending && status != OrderStatusCompleted {
		return nil, shared.NewDomainError("INVALID_STATUS", "New orders must be PENDING or COMPLETED")
	}

	order := &Order{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OrderNumber:         orderNumber,
		CustomerName:        customerName,
		ContactID:           contactID,
		Status:              status,
		TotalAmount:         decimal.Zero,
	}

	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Item quantity must be positive")
		}
		if line.UnitPrice.IsNegative() {
			return nil, shared.NewDomainError("INVALID_PRICE", "Item unit price cannot be negative")
		}
		amount := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		item := OrderItem{
			BaseEntity:  shared.NewBaseEntity(),
			OrderID:     order.ID,
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Amount:      amount,
		}
		order.Items = append(order.Items, item)
		order.TotalAmount = order.TotalAmount.Add(amount)
	}

	if status == OrderStatusCompleted {
		now := time.Now()
		order.CompletedAt = &now
	}

	order.AddDomainEvent(NewOrderCreatedEvent(order))

	return order, nil
}

// Complete transitions a pending order to COMPLETED
func (o *Order) Complete() error {
	if o.Status != OrderStatusPending {
		return shared.NewDomainError("INVALID_STATE",
			"Only PENDING orders can be completed, current status: "+string(o.Status))
	}

	now := time.Now()
	o.Status = OrderStatusCompleted
	o.CompletedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderCompletedEvent(o))

	return nil
}

// Cancel transitions a pending order to CANCELLED
func (o *Order) Cancel() error {
	if o.Status != OrderStatusPending {
		return shared.NewDomainError("INVALID_STATE",
			"Only PENDING orders can be cancelled, current status: "+string(o.Status))
	}

	now := time.Now()
	o.Status = OrderStatusCancelled
	o.CancelledAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderCancelledEvent(o))

	return nil
}

// IsTerminal reports whether the order is in a terminal status
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusCompleted || o.Status == OrderStatusCancelled
}

// GenerateOrderNumber produces an order number of the form SO-20060102-XXXXXXXX
func GenerateOrderNumber(at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("SO-%s-%s", at.Format("20060102"), suffix)
}
