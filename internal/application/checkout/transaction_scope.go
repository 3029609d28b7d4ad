package checkout

import (
	"context"

	"github.com/bizflow/backend/internal/domain/catalog"
	"github.com/bizflow/backend/internal/domain/crm"
	"github.com/bizflow/backend/internal/domain/sales"
)

// TransactionScope provides transactional access to the repositories touched
// by a checkout. When a function is executed within the scope, the stock
// decrement, contact upsert, and order creation are committed or rolled back
// as one unit.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the checkout repositories
// within a transaction. All repositories returned share the same underlying
// database transaction.
type TransactionalRepositories interface {
	// ProductRepo returns the product repository scoped to the current transaction
	ProductRepo() catalog.ProductRepository
	// ContactRepo returns the contact repository scoped to the current transaction
	ContactRepo() crm.ContactRepository
	// OrderRepo returns the order repository scoped to the current transaction
	OrderRepo() sales.OrderRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for tests and in-memory wiring.
type NoOpTransactionScope struct {
	productRepo catalog.ProductRepository
	contactRepo crm.ContactRepository
	orderRepo   sales.OrderRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	productRepo catalog.ProductRepository,
	contactRepo crm.ContactRepository,
	orderRepo sales.OrderRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		productRepo: productRepo,
		contactRepo: contactRepo,
		orderRepo:   orderRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ProductRepo returns the product repository.
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository {
	return s.productRepo
}

// ContactRepo returns the contact repository.
func (s *NoOpTransactionScope) ContactRepo() crm.ContactRepository {
	return s.contactRepo
}

// OrderRepo returns the order repository.
func (s *NoOpTransactionScope) OrderRepo() sales.OrderRepository {
	return s.orderRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
