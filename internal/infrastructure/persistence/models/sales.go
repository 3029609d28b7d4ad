package models

import (
	"time"

	"github.com/bizflow/backend/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItemModel is the persistence model for sales.OrderItem
type OrderItemModel struct {
	BaseModel
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// OrderModel is the persistence model for sales.Order
type OrderModel struct {
	TenantAggregateModel
	OrderNumber  string           `gorm:"type:varchar(50);not null;uniqueIndex:idx_order_tenant_number,priority:2"`
	CustomerName string           `gorm:"type:varchar(200);not null"`
	ContactID    *uuid.UUID       `gorm:"type:uuid;index"`
	Items        []OrderItemModel `gorm:"foreignKey:OrderID"`
	TotalAmount  decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	Status       string           `gorm:"type:varchar(20);not null;default:'PENDING'"`
	CompletedAt  *time.Time
	CancelledAt  *time.Time
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the model to a domain order
func (m *OrderModel) ToDomain() *sales.Order {
	order := &sales.Order{
		OrderNumber:  m.OrderNumber,
		CustomerName: m.CustomerName,
		ContactID:    m.ContactID,
		TotalAmount:  m.TotalAmount,
		Status:       sales.OrderStatus(m.Status),
		CompletedAt:  m.CompletedAt,
		CancelledAt:  m.CancelledAt,
	}
	m.PopulateTenantAggregateRoot(&order.TenantAggregateRoot)

	order.Items = make([]sales.OrderItem, len(m.Items))
	for i, item := range m.Items {
		order.Items[i] = sales.OrderItem{
			BaseEntity:  item.BaseModel.ToDomain(),
			OrderID:     item.OrderID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
		}
	}
	return order
}

// OrderModelFromDomain converts a domain order to the persistence model
func OrderModelFromDomain(order *sales.Order) *OrderModel {
	model := &OrderModel{
		OrderNumber:  order.OrderNumber,
		CustomerName: order.CustomerName,
		ContactID:    order.ContactID,
		TotalAmount:  order.TotalAmount,
		Status:       string(order.Status),
		CompletedAt:  order.CompletedAt,
		CancelledAt:  order.CancelledAt,
	}
	model.FromDomainTenantAggregateRoot(order.TenantAggregateRoot)

	model.Items = make([]OrderItemModel, len(order.Items))
	for i, item := range order.Items {
		itemModel := OrderItemModel{
			OrderID:     item.OrderID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
		}
		itemModel.FromDomainBaseEntity(item.BaseEntity)
		model.Items[i] = itemModel
	}
	return model
}
