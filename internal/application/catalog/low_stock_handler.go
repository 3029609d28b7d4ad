package catalog

import (
	"context"
	"fmt"

	"github.com/bizflow/backend/internal/domain/catalog"
	"github.com/bizflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LowStockHandler reacts to ProductLowStock events. The default behavior is
// an operational warning in the log; an optional notifier fans the alert out
// to other channels.
type LowStockHandler struct {
	logger   *zap.Logger
	notifier RestockNotifier
}

// RestockNotifier receives low-stock alerts
type RestockNotifier interface {
	NotifyLowStock(ctx context.Context, alert LowStockAlert) error
}

// LowStockAlert describes a product that dropped to the low-stock threshold
type LowStockAlert struct {
	TenantID  string `json:"tenant_id"`
	ProductID string `json:"product_id"`
	SKU       string `json:"sku"`
	Stock     int    `json:"stock"`
}

// NewLowStockHandler creates a new LowStockHandler
func NewLowStockHandler(logger *zap.Logger) *LowStockHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LowStockHandler{logger: logger}
}

// WithNotifier sets the notifier for fanning alerts out beyond the log
func (h *LowStockHandler) WithNotifier(notifier RestockNotifier) *LowStockHandler {
	h.notifier = notifier
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *LowStockHandler) EventTypes() []string {
	return []string{catalog.EventTypeProductLowStock}
}

// Handle processes a ProductLowStockEvent
func (h *LowStockHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	lowStockEvent, ok := event.(*catalog.ProductLowStockEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			catalog.EventTypeProductLowStock, event.EventType())
	}

	h.logger.Warn("product stock is low",
		zap.String("tenant_id", event.TenantID().String()),
		zap.String("product_id", lowStockEvent.ProductID.String()),
		zap.String("sku", lowStockEvent.SKU),
		zap.Int("stock", lowStockEvent.Stock),
	)

	if h.notifier != nil {
		alert := LowStockAlert{
			TenantID:  event.TenantID().String(),
			ProductID: lowStockEvent.ProductID.String(),
			SKU:       lowStockEvent.SKU,
			Stock:     lowStockEvent.Stock,
		}
		if err := h.notifier.NotifyLowStock(ctx, alert); err != nil {
			// Notification failure must not fail the event handling
			h.logger.Error("failed to send low-stock alert",
				zap.String("sku", alert.SKU),
				zap.Error(err),
			)
		}
	}

	return nil
}

// Ensure LowStockHandler implements shared.EventHandler
var _ shared.EventHandler = (*LowStockHandler)(nil)
