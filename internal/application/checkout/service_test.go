package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bizflow/backend/internal/domain/catalog"
	"github.com/bizflow/backend/internal/domain/crm"
	"github.com/bizflow/backend/internal/domain/sales"
	"github.com/bizflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memProductRepo is an in-memory catalog.ProductRepository for checkout tests
type memProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*catalog.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: make(map[uuid.UUID]*catalog.Product)}
}

func (r *memProductRepo) put(p *catalog.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *p
	r.products[p.ID] = &copied
}

func (r *memProductRepo) stockOf(id uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.products[id].Stock
}

func (r *memProductRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok || p.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *memProductRepo) FindBySKU(_ context.Context, tenantID uuid.UUID, sku string) (*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.TenantID == tenantID && p.SKU == sku {
			copied := *p
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memProductRepo) FindAllForTenant(context.Context, uuid.UUID, shared.Filter) ([]catalog.Product, error) {
	return nil, nil
}

func (r *memProductRepo) CountForTenant(context.Context, uuid.UUID, shared.Filter) (int64, error) {
	return 0, nil
}

func (r *memProductRepo) Save(_ context.Context, p *catalog.Product) error {
	r.put(p)
	return nil
}

func (r *memProductRepo) SaveWithLock(_ context.Context, p *catalog.Product) error {
	r.put(p)
	return nil
}

func (r *memProductRepo) DeleteForTenant(_ context.Context, _, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *memProductRepo) DecrementStock(_ context.Context, tenantID, productID uuid.UUID, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[productID]
	if !ok || p.TenantID != tenantID || p.Stock < quantity {
		return shared.ErrInsufficientStock
	}
	p.Stock -= quantity
	return nil
}

// memContactRepo is an in-memory crm.ContactRepository for checkout tests
type memContactRepo struct {
	mu       sync.Mutex
	contacts map[uuid.UUID]*crm.Contact
}

func newMemContactRepo() *memContactRepo {
	return &memContactRepo{contacts: make(map[uuid.UUID]*crm.Contact)}
}

func (r *memContactRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*crm.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contacts[id]
	if !ok || c.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *memContactRepo) FindByEmail(_ context.Context, tenantID uuid.UUID, email string) (*crm.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.contacts {
		if c.TenantID == tenantID && c.Email == email {
			copied := *c
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memContactRepo) FindAllForTenant(context.Context, uuid.UUID, shared.Filter) ([]crm.Contact, error) {
	return nil, nil
}

func (r *memContactRepo) CountForTenant(context.Context, uuid.UUID, shared.Filter) (int64, error) {
	return int64(len(r.contacts)), nil
}

func (r *memContactRepo) Save(_ context.Context, c *crm.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *c
	r.contacts[c.ID] = &copied
	return nil
}

func (r *memContactRepo) SaveWithLock(ctx context.Context, c *crm.Contact) error {
	return r.Save(ctx, c)
}

func (r *memContactRepo) DeleteForTenant(_ context.Context, _, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.contacts, id)
	return nil
}

// memOrderRepo is an in-memory sales.OrderRepository for checkout tests
type memOrderRepo struct {
	mu      sync.Mutex
	orders  map[uuid.UUID]*sales.Order
	saveErr error
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: make(map[uuid.UUID]*sales.Order)}
}

func (r *memOrderRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*sales.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok || o.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	copied := *o
	return &copied, nil
}

func (r *memOrderRepo) FindByOrderNumber(_ context.Context, tenantID uuid.UUID, number string) (*sales.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.TenantID == tenantID && o.OrderNumber == number {
			copied := *o
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memOrderRepo) FindAllForTenant(context.Context, uuid.UUID, shared.Filter) ([]sales.Order, error) {
	return nil, nil
}

func (r *memOrderRepo) CountForTenant(context.Context, uuid.UUID, shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.orders)), nil
}

func (r *memOrderRepo) Save(_ context.Context, o *sales.Order) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *o
	r.orders[o.ID] = &copied
	return nil
}

func (r *memOrderRepo) SaveWithLock(ctx context.Context, o *sales.Order) error {
	return r.Save(ctx, o)
}

// snapshotScope emulates transactional semantics over the in-memory repos:
// on error it restores the state captured before the function ran.
type snapshotScope struct {
	products *memProductRepo
	contacts *memContactRepo
	orders   *memOrderRepo
}

func (s *snapshotScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	productSnap := make(map[uuid.UUID]catalog.Product)
	for id, p := range s.products.products {
		productSnap[id] = *p
	}
	contactSnap := make(map[uuid.UUID]crm.Contact)
	for id, c := range s.contacts.contacts {
		contactSnap[id] = *c
	}
	orderSnap := make(map[uuid.UUID]sales.Order)
	for id, o := range s.orders.orders {
		orderSnap[id] = *o
	}

	err := fn(s)
	if err != nil {
		s.products.products = make(map[uuid.UUID]*catalog.Product)
		for id := range productSnap {
			p := productSnap[id]
			s.products.products[id] = &p
		}
		s.contacts.contacts = make(map[uuid.UUID]*crm.Contact)
		for id := range contactSnap {
			c := contactSnap[id]
			s.contacts.contacts[id] = &c
		}
		s.orders.orders = make(map[uuid.UUID]*sales.Order)
		for id := range orderSnap {
			o := orderSnap[id]
			s.orders.orders[id] = &o
		}
	}
	return err
}

func (s *snapshotScope) ProductRepo() catalog.ProductRepository { return s.products }
func (s *snapshotScope) ContactRepo() crm.ContactRepository     { return s.contacts }
func (s *snapshotScope) OrderRepo() sales.OrderRepository       { return s.orders }

// recordingNotifier captures triggered webhook events
type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *recordingNotifier) Trigger(_ uuid.UUID, eventName string, _ map[string]interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, eventName)
}

// memIdempotencyStore is a minimal in-memory idempotency store for tests
type memIdempotencyStore struct {
	mu   sync.Mutex
	keys map[string]bool
}

func newMemIdempotencyStore() *memIdempotencyStore {
	return &memIdempotencyStore{keys: make(map[string]bool)}
}

func (s *memIdempotencyStore) MarkProcessed(_ context.Context, key string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.keys[key] {
		return false, nil
	}
	s.keys[key] = true
	return true, nil
}

func (s *memIdempotencyStore) IsProcessed(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keys[key], nil
}

func (s *memIdempotencyStore) Close() error { return nil }

type checkoutFixture struct {
	service  *CheckoutService
	products *memProductRepo
	contacts *memContactRepo
	orders   *memOrderRepo
	notifier *recordingNotifier
	tenantID uuid.UUID
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	products := newMemProductRepo()
	contacts := newMemContactRepo()
	orders := newMemOrderRepo()
	scope := &snapshotScope{products: products, contacts: contacts, orders: orders}
	notifier := &recordingNotifier{}
	triggers := NewTriggerEvaluator(VIPScoreRule{Threshold: 30})

	return &checkoutFixture{
		service:  NewCheckoutService(products, scope, triggers, notifier, nil),
		products: products,
		contacts: contacts,
		orders:   orders,
		notifier: notifier,
		tenantID: uuid.New(),
	}
}

func (f *checkoutFixture) addProduct(t *testing.T, sku string, price float64, stock int) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(f.tenantID, sku, "Product "+sku, decimal.NewFromFloat(price), stock)
	require.NoError(t, err)
	f.products.put(product)
	return product
}

func TestCheckoutCreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("creates completed order with true unit prices", func(t *testing.T) {
		f := newCheckoutFixture(t)
		widget := f.addProduct(t, "WIDGET", 9.99, 10)
		gadget := f.addProduct(t, "GADGET", 25.00, 5)

		resp, err := f.service.CreateOrder(ctx, f.tenantID, CheckoutRequest{
			CustomerName:  "Alice",
			CustomerEmail: "alice@example.com",
			Items: []CheckoutItemRequest{
				{ProductID: widget.ID, Quantity: 2},
				{ProductID: gadget.ID, Quantity: 1},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, sales.OrderStatusCompleted, resp.Order.Status)
		assert.True(t, resp.Order.TotalAmount.Equal(decimal.NewFromFloat(44.98)), "total was %s", resp.Order.TotalAmount)
		require.Len(t, resp.Order.Items, 2)
		assert.True(t, resp.Order.Items[0].UnitPrice.Equal(decimal.NewFromFloat(9.99)))
		assert.Equal(t, 8, f.products.stockOf(widget.ID))
		assert.Equal(t, 4, f.products.stockOf(gadget.ID))
	})

	t.Run("missing product fails fast with identifying error", func(t *testing.T) {
		f := newCheckoutFixture(t)
		missing := uuid.New()

		_, err := f.service.CreateOrder(ctx, f.tenantID, CheckoutRequest{
			CustomerName:  "Alice",
			CustomerEmail: "alice@example.com",
			Items:         []CheckoutItemRequest{{ProductID: missing, Quantity: 1}},
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), missing.String())

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "PRODUCT_NOT_FOUND", domainErr.Code)
	})

	t.Run("insufficient stock fails before any write", func(t *testing.T) {
		f := newCheckoutFixture(t)
		widget := f.addProduct(t, "WIDGET", 10, 2)

		_, err := f.service.CreateOrder(ctx, f.tenantID, CheckoutRequest{
			CustomerName:  "Alice",
			CustomerEmail: "alice@example.com",
			Items:         []CheckoutItemRequest{{ProductID: widget.ID, Quantity: 3}},
		})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
		assert.Equal(t, 2, f.products.stockOf(widget.ID))
		count, _ := f.orders.CountForTenant(ctx, f.tenantID, shared.Filter{})
		assert.Zero(t, count)
	})

	t.Run("order save failure rolls back stock and contact", func(t *testing.T) {
		f := newCheckoutFixture(t)
		widget := f.addProduct(t, "WIDGET", 10, 5)
		f.orders.saveErr = errors.New("connection reset")

		_, err := f.service.CreateOrder(ctx, f.tenantID, CheckoutRequest{
			CustomerName:  "Alice",
			CustomerEmail: "alice@example.com",
			Items:         []CheckoutItemRequest{{ProductID: widget.ID, Quantity: 2}},
		})

		require.Error(t, err)
		assert.Equal(t, 5, f.products.stockOf(widget.ID))
		_, err = f.contacts.FindByEmail(ctx, f.tenantID, "alice@example.com")
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Empty(t, f.notifier.events, "no webhook after a rolled-back checkout")
	})

	t.Run("new contact is created as CUSTOMER with initial score", func(t *testing.T) {
		f := newCheckoutFixture(t)
		widget := f.addProduct(t, "WIDGET", 10, 5)

		resp, err := f.service.CreateOrder(ctx, f.tenantID, CheckoutRequest{
			CustomerName:  "Alice",
			CustomerEmail: "Alice@Example.com",
			Items:         []CheckoutItemRequest{{ProductID: widget.ID, Quantity: 1}},
		})

		require.NoError(t, err)
		assert.Equal(t, crm.StageCustomer, resp.Contact.Stage)
		assert.Equal(t, ScorePerOrder, resp.Contact.Score)
		assert.Equal(t, "alice@example.com", resp.Contact.Email)
	})

	t.Run("sequential checkouts upsert the same contact", func(t *testing.T) {
		f := newCheckoutFixture(t)
		widget := f.addProduct(t, "WIDGET", 10, 50)

		var last *CheckoutResponse
		for i := 0; i < 3; i++ {
			resp, err := f.service.CreateOrder(ctx, f.tenantID, CheckoutRequest{
				CustomerName:  "Alice",
				CustomerEmail: "alice@example.com",
				Items:         []CheckoutItemRequest{{ProductID: widget.ID, Quantity: 1}},
			})
			require.NoError(t, err)
			last = resp
		}

		count, _ := f.contacts.CountForTenant(ctx, f.tenantID, shared.Filter{})
		assert.Equal(t, int64(1), count)
		assert.Equal(t, 3*ScorePerOrder, last.Contact.Score)
		assert.True(t, last.Contact.IsVIP, "score reached the VIP threshold")
	})

	t.Run("triggers order.created webhook after commit", func(t *testing.T) {
		f := newCheckoutFixture(t)
		widget := f.addProduct(t, "WIDGET", 10, 5)

		_, err := f.service.CreateOrder(ctx, f.tenantID, CheckoutRequest{
			CustomerName:  "Alice",
			CustomerEmail: "alice@example.com",
			Items:         []CheckoutItemRequest{{ProductID: widget.ID, Quantity: 1}},
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"order.created"}, f.notifier.events)
	})

	t.Run("duplicate idempotency key is rejected", func(t *testing.T) {
		f := newCheckoutFixture(t)
		widget := f.addProduct(t, "WIDGET", 10, 10)
		f.service.SetIdempotencyStore(newMemIdempotencyStore(), shared.DefaultIdempotencyConfig())

		req := CheckoutRequest{
			CustomerName:   "Alice",
			CustomerEmail:  "alice@example.com",
			Items:          []CheckoutItemRequest{{ProductID: widget.ID, Quantity: 1}},
			IdempotencyKey: "req-123",
		}

		_, err := f.service.CreateOrder(ctx, f.tenantID, req)
		require.NoError(t, err)

		_, err = f.service.CreateOrder(ctx, f.tenantID, req)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
		assert.Equal(t, 9, f.products.stockOf(widget.ID), "second checkout must not touch stock")
	})

	t.Run("cross-tenant product is invisible", func(t *testing.T) {
		f := newCheckoutFixture(t)
		otherTenant := uuid.New()
		foreign, err := catalog.NewProduct(otherTenant, "FOREIGN", "Foreign", decimal.NewFromInt(1), 10)
		require.NoError(t, err)
		f.products.put(foreign)

		_, err = f.service.CreateOrder(ctx, f.tenantID, CheckoutRequest{
			CustomerName:  "Alice",
			CustomerEmail: "alice@example.com",
			Items:         []CheckoutItemRequest{{ProductID: foreign.ID, Quantity: 1}},
		})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "PRODUCT_NOT_FOUND", domainErr.Code)
	})
}
