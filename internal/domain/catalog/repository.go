package catalog

import (
	"context"

	"github.com/bizflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository defines the persistence interface for products
type ProductRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)
	FindBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*Product, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Product, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, product *Product) error
	SaveWithLock(ctx context.Context, product *Product) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// DecrementStock performs a conditional decrement:
	//   UPDATE products SET stock = stock - qty WHERE ... AND stock >= qty
	// Returns shared.ErrInsufficientStock when no row qualifies. This is the
	// authoritative stock guard; callers run it inside the checkout transaction.
	DecrementStock(ctx context.Context, tenantID, productID uuid.UUID, quantity int) error
}
