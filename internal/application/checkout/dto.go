package checkout

import (
	"time"

	"github.com/bizflow/backend/internal/domain/crm"
	"github.com/bizflow/backend/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CheckoutItemRequest is one requested order line
type CheckoutItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,gt=0"`
}

// CheckoutRequest is the input for the checkout flow
type CheckoutRequest struct {
	CustomerName   string                `json:"customer_name" binding:"required"`
	CustomerEmail  string                `json:"customer_email" binding:"required,email"`
	CustomerPhone  string                `json:"customer_phone"`
	Items          []CheckoutItemRequest `json:"items" binding:"required,min=1,dive"`
	IdempotencyKey string                `json:"idempotency_key"`
}

// OrderItemResponse is the API representation of an order line
type OrderItemResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// OrderResponse is the API representation of an order
type OrderResponse struct {
	ID           uuid.UUID           `json:"id"`
	OrderNumber  string              `json:"order_number"`
	CustomerName string              `json:"customer_name"`
	ContactID    *uuid.UUID          `json:"contact_id,omitempty"`
	Items        []OrderItemResponse `json:"items"`
	TotalAmount  decimal.Decimal     `json:"total_amount"`
	Status       sales.OrderStatus   `json:"status"`
	CreatedAt    time.Time           `json:"created_at"`
}

// ContactResponse is the API representation of a contact
type ContactResponse struct {
	ID    uuid.UUID          `json:"id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
	Phone string             `json:"phone,omitempty"`
	Stage crm.LifecycleStage `json:"stage"`
	Score int                `json:"score"`
	IsVIP bool               `json:"is_vip"`
}

// CheckoutResponse bundles the order and the upserted contact
type CheckoutResponse struct {
	Order   OrderResponse   `json:"order"`
	Contact ContactResponse `json:"contact"`
}

// ToOrderResponse converts a domain order to a response
func ToOrderResponse(order *sales.Order) OrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
		}
	}
	return OrderResponse{
		ID:           order.ID,
		OrderNumber:  order.OrderNumber,
		CustomerName: order.CustomerName,
		ContactID:    order.ContactID,
		Items:        items,
		TotalAmount:  order.TotalAmount,
		Status:       order.Status,
		CreatedAt:    order.CreatedAt,
	}
}

// ToContactResponse converts a domain contact to a response
func ToContactResponse(contact *crm.Contact, isVIP bool) ContactResponse {
	return ContactResponse{
		ID:    contact.ID,
		Name:  contact.Name,
		Email: contact.Email,
		Phone: contact.Phone,
		Stage: contact.Stage,
		Score: contact.Score,
		IsVIP: isVIP,
	}
}
