package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	webhookapp "github.com/bizflow/backend/internal/application/webhook"
	"github.com/bizflow/backend/internal/domain/catalog"
	"github.com/bizflow/backend/internal/domain/crm"
	"github.com/bizflow/backend/internal/domain/sales"
	"github.com/bizflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ScorePerOrder is the engagement score added to a contact per checkout
const ScorePerOrder = 10

// pricedLine is the result of the pricing pass for one requested item
type pricedLine struct {
	productID   uuid.UUID
	productName string
	quantity    int
	unitPrice   decimal.Decimal
}

// CheckoutService orchestrates the order synchronization flow: pricing pass,
// atomic stock decrement + contact upsert + order creation, then best-effort
// trigger evaluation and webhook fan-out after commit.
type CheckoutService struct {
	productRepo    catalog.ProductRepository
	scope          TransactionScope
	idempotency    shared.IdempotencyStore
	idempotencyCfg shared.IdempotencyConfig
	triggers       *TriggerEvaluator
	notifier       webhookapp.Notifier
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewCheckoutService creates a new CheckoutService. The product repository
// serves the non-transactional pricing pass; the scope carries the atomic phase.
func NewCheckoutService(
	productRepo catalog.ProductRepository,
	scope TransactionScope,
	triggers *TriggerEvaluator,
	notifier webhookapp.Notifier,
	logger *zap.Logger,
) *CheckoutService {
	if notifier == nil {
		notifier = webhookapp.NoOpNotifier{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutService{
		productRepo:    productRepo,
		scope:          scope,
		triggers:       triggers,
		notifier:       notifier,
		idempotencyCfg: shared.DefaultIdempotencyConfig(),
		logger:         logger,
	}
}

// SetIdempotencyStore enables idempotency-key checking for checkouts
func (s *CheckoutService) SetIdempotencyStore(store shared.IdempotencyStore, cfg shared.IdempotencyConfig) {
	s.idempotency = store
	s.idempotencyCfg = cfg
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *CheckoutService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateOrder executes the checkout flow for a tenant.
//
// The pricing pass runs outside the transaction and fails fast on a missing
// product or insufficient stock. The atomic phase decrements stock with a
// conditional update, upserts the contact by email, and creates the order in
// COMPLETED status; any failure rolls all three back. Trigger evaluation and
// the order.created webhook run after commit and never affect the result.
func (s *CheckoutService) CreateOrder(ctx context.Context, tenantID uuid.UUID, req CheckoutRequest) (*CheckoutResponse, error) {
	if req.IdempotencyKey != "" && s.idempotency != nil && s.idempotencyCfg.Enabled {
		processed, err := s.idempotency.IsProcessed(ctx, s.idempotencyKey(tenantID, req.IdempotencyKey))
		if err != nil {
			return nil, err
		}
		if processed {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "A checkout with this idempotency key was already processed")
		}
	}

	email, err := crm.NormalizeEmail(req.CustomerEmail)
	if err != nil {
		return nil, err
	}

	lines, err := s.priceItems(ctx, tenantID, req.Items)
	if err != nil {
		return nil, err
	}

	var (
		order   *sales.Order
		contact *crm.Contact
	)
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		for _, line := range lines {
			if err := repos.ProductRepo().DecrementStock(ctx, tenantID, line.productID, line.quantity); err != nil {
				if errors.Is(err, shared.ErrInsufficientStock) {
					return shared.NewDomainError("INSUFFICIENT_STOCK",
						fmt.Sprintf("Insufficient stock for product %s", line.productID))
				}
				return err
			}
		}

		contact, err = s.upsertContact(ctx, repos.ContactRepo(), tenantID, req.CustomerName, email, req.CustomerPhone)
		if err != nil {
			return err
		}

		orderLines := make([]sales.OrderLine, len(lines))
		for i, line := range lines {
			orderLines[i] = sales.OrderLine{
				ProductID:   line.productID,
				ProductName: line.productName,
				Quantity:    line.quantity,
				UnitPrice:   line.unitPrice,
			}
		}
		contactID := contact.ID
		order, err = sales.NewOrder(tenantID, sales.GenerateOrderNumber(time.Now()), req.CustomerName,
			&contactID, orderLines, sales.OrderStatusCompleted)
		if err != nil {
			return err
		}

		return repos.OrderRepo().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	if req.IdempotencyKey != "" && s.idempotency != nil && s.idempotencyCfg.Enabled {
		if _, err := s.idempotency.MarkProcessed(ctx, s.idempotencyKey(tenantID, req.IdempotencyKey), s.idempotencyCfg.TTL); err != nil {
			s.logger.Warn("failed to mark idempotency key",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err))
		}
	}

	tags := s.afterCommit(ctx, tenantID, order, contact)

	response := &CheckoutResponse{
		Order:   ToOrderResponse(order),
		Contact: ToContactResponse(contact, HasTag(tags, "vip")),
	}
	return response, nil
}

// priceItems resolves every requested product and captures its unit price.
// This is the advisory pre-check; the conditional decrement inside the
// transaction is the authoritative stock guard.
func (s *CheckoutService) priceItems(ctx context.Context, tenantID uuid.UUID, items []CheckoutItemRequest) ([]pricedLine, error) {
	if len(items) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Checkout must contain at least one item")
	}

	lines := make([]pricedLine, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY",
				fmt.Sprintf("Quantity for product %s must be positive", item.ProductID))
		}

		product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, item.ProductID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("PRODUCT_NOT_FOUND",
					fmt.Sprintf("Product %s not found", item.ProductID))
			}
			return nil, err
		}
		if !product.IsActive {
			return nil, shared.NewDomainError("PRODUCT_INACTIVE",
				fmt.Sprintf("Product %s is not available for sale", product.SKU))
		}
		if product.Stock < item.Quantity {
			return nil, shared.NewDomainError("INSUFFICIENT_STOCK",
				fmt.Sprintf("Insufficient stock for product %s: have %d, want %d", product.SKU, product.Stock, item.Quantity))
		}

		lines = append(lines, pricedLine{
			productID:   product.ID,
			productName: product.Name,
			quantity:    item.Quantity,
			unitPrice:   product.Price,
		})
	}

	return lines, nil
}

// upsertContact finds a contact by email and promotes it, or creates one
// directly in the CUSTOMER stage.
func (s *CheckoutService) upsertContact(ctx context.Context, repo crm.ContactRepository, tenantID uuid.UUID, name, email, phone string) (*crm.Contact, error) {
	contact, err := repo.FindByEmail(ctx, tenantID, email)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		contact, err = crm.NewContact(tenantID, name, email, phone)
		if err != nil {
			return nil, err
		}
		contact.MarkCustomer()
		contact.AddScore(ScorePerOrder)
		if err := repo.Save(ctx, contact); err != nil {
			return nil, err
		}
		return contact, nil
	}

	contact.MarkCustomer()
	contact.AddScore(ScorePerOrder)
	if phone != "" {
		contact.Phone = phone
	}
	if err := repo.Save(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

// afterCommit runs trigger evaluation and webhook fan-out. Failures are
// logged and swallowed; the committed checkout is never affected.
func (s *CheckoutService) afterCommit(ctx context.Context, tenantID uuid.UUID, order *sales.Order, contact *crm.Contact) []string {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("post-checkout processing panicked",
				zap.String("tenant_id", tenantID.String()),
				zap.Any("panic", r))
		}
	}()

	var tags []string
	if s.triggers != nil {
		tags = s.triggers.Evaluate(contact)
	}

	if s.eventPublisher != nil {
		events := append(order.GetDomainEvents(), contact.GetDomainEvents()...)
		if err := s.eventPublisher.Publish(ctx, events...); err != nil {
			s.logger.Warn("failed to publish checkout events",
				zap.String("order_number", order.OrderNumber),
				zap.Error(err))
		}
		order.ClearDomainEvents()
		contact.ClearDomainEvents()
	}

	s.notifier.Trigger(tenantID, "order.created", map[string]interface{}{
		"order_id":     order.ID.String(),
		"order_number": order.OrderNumber,
		"total_amount": order.TotalAmount.String(),
		"status":       string(order.Status),
		"contact": map[string]interface{}{
			"id":    contact.ID.String(),
			"email": contact.Email,
			"stage": string(contact.Stage),
			"score": contact.Score,
			"tags":  tags,
		},
	})

	return tags
}

// idempotencyKey namespaces the caller-supplied key per tenant
func (s *CheckoutService) idempotencyKey(tenantID uuid.UUID, key string) string {
	return "checkout:" + tenantID.String() + ":" + key
}
