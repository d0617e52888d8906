package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"checkout-service/internal/models"
	"checkout-service/internal/shipping"
	"checkout-service/internal/tax"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	products map[int64]models.Product
}

func (f *fakeCatalog) GetProductsByIDs(_ context.Context, ids []int64) ([]models.Product, error) {
	var out []models.Product
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeOrderStore struct {
	catalog *fakeCatalog
	orders  []*models.Order
	nextID  int64
}

func (f *fakeOrderStore) CreateOrder(_ context.Context, order *models.Order, decrements []models.StockDecrement) error {
	// Mirror the store's conditional decrement: any shortfall aborts the
	// whole order with nothing applied.
	for _, d := range decrements {
		if f.catalog.products[d.ProductID].InventoryCount < d.Quantity {
			return fmt.Errorf("%w: product %d", models.ErrInsufficientStock, d.ProductID)
		}
	}
	for _, d := range decrements {
		p := f.catalog.products[d.ProductID]
		p.InventoryCount -= d.Quantity
		f.catalog.products[d.ProductID] = p
	}

	f.nextID++
	order.ID = f.nextID
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	f.orders = append(f.orders, order)
	return nil
}

func (f *fakeOrderStore) GetOrderByNumber(_ context.Context, orderNumber string) (*models.Order, error) {
	for _, o := range f.orders {
		if o.OrderNumber == orderNumber {
			return o, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", models.ErrOrderNotFound, orderNumber)
}

func (f *fakeOrderStore) UpdateOrderStatus(ctx context.Context, orderNumber, status, trackingNumber string) error {
	o, err := f.GetOrderByNumber(ctx, orderNumber)
	if err != nil {
		return err
	}
	o.Status = status
	o.TrackingNumber = trackingNumber
	return nil
}

type fakeSessionStore struct {
	sessions map[string]*models.CheckoutSession
}

func (f *fakeSessionStore) SaveSession(_ context.Context, session *models.CheckoutSession, _ time.Duration) error {
	f.sessions[session.SessionID] = session
	return nil
}

func (f *fakeSessionStore) GetSession(_ context.Context, sessionID string) (*models.CheckoutSession, error) {
	s, ok := f.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrSessionNotFound, sessionID)
	}
	return s, nil
}

func (f *fakeSessionStore) DeleteSession(_ context.Context, sessionID string) error {
	delete(f.sessions, sessionID)
	return nil
}

type fakeNotifier struct {
	published []string
	err       error
}

func (f *fakeNotifier) PublishOrderConfirmation(_ context.Context, order *models.Order) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, order.OrderNumber)
	return nil
}

type fixture struct {
	svc      *CheckoutService
	catalog  *fakeCatalog
	orders   *fakeOrderStore
	sessions *fakeSessionStore
	notifier *fakeNotifier
	now      *time.Time
}

func newFixture(products map[int64]models.Product) *fixture {
	catalog := &fakeCatalog{products: products}
	orders := &fakeOrderStore{catalog: catalog}
	sessions := &fakeSessionStore{sessions: map[string]*models.CheckoutSession{}}
	notifier := &fakeNotifier{}

	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	f := &fixture{catalog: catalog, orders: orders, sessions: sessions, notifier: notifier, now: &now}
	f.svc = NewCheckoutService(CheckoutServiceDeps{
		Catalog:  catalog,
		Orders:   orders,
		Sessions: sessions,
		Notifier: notifier,
		Shipping: shipping.NewEngine(shipping.Config{Clock: func() time.Time { return *f.now }}),
		Tax:      tax.NewEngine(tax.Config{}),
		Clock:    func() time.Time { return *f.now },
	})
	return f
}

func testProducts() map[int64]models.Product {
	return map[int64]models.Product{
		1: {ID: 1, Title: "Signed Print", Price: 35, Category: "prints", Weight: 0.5, InventoryCount: 10, Active: true},
		2: {ID: 2, Title: "Digital Wallpaper Pack", Price: 9.99, Category: "digital", IsDigital: true, Active: true},
		3: {ID: 3, Title: "Retired Poster", Price: 20, Category: "prints", Weight: 1, InventoryCount: 5, Active: false},
	}
}

func TestQuoteEndToEnd(t *testing.T) {
	f := newFixture(testProducts())

	// 2 x 35 to California: subtotal 70, zone 1 standard 5.99 (weight 1, no
	// surcharge; under the 75 free-shipping threshold), CA tax on subtotal
	// only: round(70*0.0725) = 5.08.
	quote, err := f.svc.Quote(context.Background(), QuoteRequest{
		Items:   []models.CartLine{{ProductID: 1, Quantity: 2}},
		Country: "US",
		State:   "CA",
		Method:  models.ShippingMethodStandard,
	})
	require.NoError(t, err)

	assert.Equal(t, 70.0, quote.Subtotal)
	assert.Equal(t, 5.99, quote.Shipping.Total)
	assert.Equal(t, 5.08, quote.Tax.TaxAmount)
	assert.Equal(t, 81.07, quote.Total)
	assert.Equal(t, "USD", quote.Currency)
	require.Len(t, quote.Items, 1)
	assert.Equal(t, "Signed Print", quote.Items[0].Title)
}

func TestQuoteProductNotFound(t *testing.T) {
	f := newFixture(testProducts())

	_, err := f.svc.Quote(context.Background(), QuoteRequest{
		Items:   []models.CartLine{{ProductID: 1, Quantity: 1}, {ProductID: 99, Quantity: 1}},
		Country: "US",
		State:   "CA",
	})
	assert.ErrorIs(t, err, models.ErrProductNotFound)
}

func TestQuoteInactiveProduct(t *testing.T) {
	f := newFixture(testProducts())

	_, err := f.svc.Quote(context.Background(), QuoteRequest{
		Items:   []models.CartLine{{ProductID: 3, Quantity: 1}},
		Country: "US",
		State:   "CA",
	})
	assert.ErrorIs(t, err, models.ErrProductInactive)
}

func TestQuoteIsIdempotent(t *testing.T) {
	f := newFixture(testProducts())
	req := QuoteRequest{
		Items:   []models.CartLine{{ProductID: 1, Quantity: 2}, {ProductID: 2, Quantity: 1}},
		Country: "US",
		State:   "NY",
	}

	first, err := f.svc.Quote(context.Background(), req)
	require.NoError(t, err)
	second, err := f.svc.Quote(context.Background(), req)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func validSessionRequest() CreateSessionRequest {
	return CreateSessionRequest{
		Items: []models.CartLine{{ProductID: 1, Quantity: 2}},
		Email: "fan@example.com",
		ShippingAddress: models.Address{
			Line1: "123 Main St", City: "Los Angeles", State: "CA",
			PostalCode: "90001", Country: "US",
		},
		Method: models.ShippingMethodStandard,
	}
}

func TestCreateSession(t *testing.T) {
	f := newFixture(testProducts())

	session, err := f.svc.CreateSession(context.Background(), validSessionRequest())
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^cs_[0-9a-f]{32}$`), session.SessionID)
	assert.Equal(t, 81.07, session.Total)
	assert.Equal(t, f.now.Add(time.Hour), session.ExpiresAt)
	// Billing defaults to the shipping address when omitted.
	assert.Equal(t, session.ShippingAddress, session.BillingAddress)
	assert.Contains(t, f.sessions.sessions, session.SessionID)
}

func TestCreateSessionInsufficientStock(t *testing.T) {
	products := testProducts()
	p := products[1]
	p.InventoryCount = 1
	products[1] = p
	f := newFixture(products)

	_, err := f.svc.CreateSession(context.Background(), validSessionRequest())
	require.ErrorIs(t, err, models.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Signed Print")
	assert.Empty(t, f.sessions.sessions)
}

func TestCreateSessionIgnoresStockForDigital(t *testing.T) {
	f := newFixture(testProducts())

	req := validSessionRequest()
	req.Items = []models.CartLine{{ProductID: 2, Quantity: 50}}
	session, err := f.svc.CreateSession(context.Background(), req)
	require.NoError(t, err)
	assert.NotEmpty(t, session.SessionID)
}

func TestCompleteOrder(t *testing.T) {
	f := newFixture(testProducts())

	session, err := f.svc.CreateSession(context.Background(), validSessionRequest())
	require.NoError(t, err)

	order, err := f.svc.Complete(context.Background(), CompleteRequest{
		SessionID:       session.SessionID,
		PaymentIntentID: "pi_test_123",
		CustomerName:    "Jordan Vale",
		Phone:           "555-0101",
	})
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^WXC-[0-9A-F]{8}$`), order.OrderNumber)
	assert.Equal(t, models.OrderStatusPaid, order.Status)
	assert.Equal(t, session.Total, order.Total)
	assert.Equal(t, "fan@example.com", order.CustomerEmail)
	assert.Equal(t, "pi_test_123", order.PaymentIntentID)
	require.Len(t, order.Items, 1)

	// Stock decremented, session consumed, notification fired.
	assert.Equal(t, 8, f.catalog.products[1].InventoryCount)
	assert.NotContains(t, f.sessions.sessions, session.SessionID)
	assert.Equal(t, []string{order.OrderNumber}, f.notifier.published)
}

func TestCompleteDoesNotDecrementDigital(t *testing.T) {
	f := newFixture(testProducts())

	req := validSessionRequest()
	req.Items = []models.CartLine{{ProductID: 2, Quantity: 3}}
	session, err := f.svc.CreateSession(context.Background(), req)
	require.NoError(t, err)

	_, err = f.svc.Complete(context.Background(), CompleteRequest{
		SessionID:    session.SessionID,
		CustomerName: "Jordan Vale",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, f.catalog.products[2].InventoryCount)
}

func TestCompleteMissingSession(t *testing.T) {
	f := newFixture(testProducts())

	_, err := f.svc.Complete(context.Background(), CompleteRequest{
		SessionID:    "cs_missing",
		CustomerName: "Jordan Vale",
	})
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
}

func TestCompleteSessionTTL(t *testing.T) {
	f := newFixture(testProducts())

	session, err := f.svc.CreateSession(context.Background(), validSessionRequest())
	require.NoError(t, err)

	// One second before expiry still completes.
	*f.now = session.ExpiresAt.Add(-time.Second)
	_, err = f.svc.Complete(context.Background(), CompleteRequest{
		SessionID:    session.SessionID,
		CustomerName: "Jordan Vale",
	})
	require.NoError(t, err)

	// A fresh session pushed past expiry is treated as not found.
	*f.now = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	expired, err := f.svc.CreateSession(context.Background(), validSessionRequest())
	require.NoError(t, err)

	*f.now = expired.ExpiresAt.Add(time.Second)
	_, err = f.svc.Complete(context.Background(), CompleteRequest{
		SessionID:    expired.SessionID,
		CustomerName: "Jordan Vale",
	})
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
	assert.NotContains(t, f.sessions.sessions, expired.SessionID)
}

func TestCompleteNotificationFailureDoesNotFailOrder(t *testing.T) {
	f := newFixture(testProducts())
	f.notifier.err = errors.New("kafka unreachable")

	session, err := f.svc.CreateSession(context.Background(), validSessionRequest())
	require.NoError(t, err)

	order, err := f.svc.Complete(context.Background(), CompleteRequest{
		SessionID:    session.SessionID,
		CustomerName: "Jordan Vale",
	})
	require.NoError(t, err)

	// The order committed even though the confirmation never went out.
	stored, err := f.orders.GetOrderByNumber(context.Background(), order.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, stored.Status)
	assert.Empty(t, f.notifier.published)
}

func TestCompleteStockRecheck(t *testing.T) {
	// Two sessions over the same product whose combined quantity exceeds
	// stock: the first completion wins, the second aborts, and the final
	// count reflects only the successful decrement.
	products := testProducts()
	p := products[1]
	p.InventoryCount = 3
	products[1] = p
	f := newFixture(products)

	first, err := f.svc.CreateSession(context.Background(), validSessionRequest())
	require.NoError(t, err)
	second, err := f.svc.CreateSession(context.Background(), validSessionRequest())
	require.NoError(t, err)

	_, err = f.svc.Complete(context.Background(), CompleteRequest{SessionID: first.SessionID, CustomerName: "A"})
	require.NoError(t, err)

	_, err = f.svc.Complete(context.Background(), CompleteRequest{SessionID: second.SessionID, CustomerName: "B"})
	require.ErrorIs(t, err, models.ErrInsufficientStock)

	assert.Equal(t, 1, f.catalog.products[1].InventoryCount)
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture(testProducts())

	session, err := f.svc.CreateSession(context.Background(), validSessionRequest())
	require.NoError(t, err)
	order, err := f.svc.Complete(context.Background(), CompleteRequest{
		SessionID:    session.SessionID,
		CustomerName: "Jordan Vale",
	})
	require.NoError(t, err)

	err = f.svc.UpdateStatus(context.Background(), order.OrderNumber, models.OrderStatusShipped, "1Z999AA10123456784")
	require.NoError(t, err)

	updated, err := f.svc.GetOrder(context.Background(), order.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, updated.Status)
	assert.Equal(t, "1Z999AA10123456784", updated.TrackingNumber)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	f := newFixture(testProducts())

	err := f.svc.UpdateStatus(context.Background(), "WXC-00000000", "teleported", "")
	assert.ErrorIs(t, err, models.ErrInvalidOrderStatus)
}

func TestIDGenerationUniqueness(t *testing.T) {
	orderNumbers := make(map[string]bool, 10000)
	sessionIDs := make(map[string]bool, 10000)

	for i := 0; i < 10000; i++ {
		on := newOrderNumber()
		assert.False(t, orderNumbers[on], "duplicate order number %s", on)
		orderNumbers[on] = true

		sid := newSessionID()
		assert.False(t, sessionIDs[sid], "duplicate session id %s", sid)
		sessionIDs[sid] = true
	}
}
