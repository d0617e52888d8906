package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"checkout-service/internal/models"
	"checkout-service/internal/money"
	"checkout-service/internal/shipping"
	"checkout-service/internal/tax"
	"checkout-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultSessionTTL = time.Hour

// ProductCatalog is the read-side of the catalog. Results may omit ids that
// do not exist; the orchestrator detects the gap.
type ProductCatalog interface {
	GetProductsByIDs(ctx context.Context, ids []int64) ([]models.Product, error)
}

// OrderStore persists finalized orders. CreateOrder must apply the order
// insert and every stock decrement in one transaction and return
// models.ErrInsufficientStock when a decrement would drive a count negative.
type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order, decrements []models.StockDecrement) error
	GetOrderByNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderNumber, status, trackingNumber string) error
}

// SessionStore holds checkout sessions for their TTL. GetSession returns
// models.ErrSessionNotFound for missing or expired sessions.
type SessionStore interface {
	SaveSession(ctx context.Context, session *models.CheckoutSession, ttl time.Duration) error
	GetSession(ctx context.Context, sessionID string) (*models.CheckoutSession, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// Notifier delivers order confirmations. Failures are logged by the caller
// and never affect order outcomes.
type Notifier interface {
	PublishOrderConfirmation(ctx context.Context, order *models.Order) error
}

// CheckoutServiceDeps wires the collaborators of the checkout orchestrator.
type CheckoutServiceDeps struct {
	Catalog    ProductCatalog
	Orders     OrderStore
	Sessions   SessionStore
	Notifier   Notifier
	Shipping   *shipping.Engine
	Tax        *tax.Engine
	SessionTTL time.Duration
	Clock      func() time.Time
}

// CheckoutService composes the shipping and tax engines into quotes and owns
// the session-to-order lifecycle.
type CheckoutService struct {
	catalog    ProductCatalog
	orders     OrderStore
	sessions   SessionStore
	notifier   Notifier
	shipping   *shipping.Engine
	tax        *tax.Engine
	sessionTTL time.Duration
	now        func() time.Time
	logger     *zap.Logger
}

// NewCheckoutService creates the orchestrator. TTL defaults to one hour and
// the clock to time.Now.
func NewCheckoutService(deps CheckoutServiceDeps) *CheckoutService {
	ttl := deps.SessionTTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &CheckoutService{
		catalog:    deps.Catalog,
		orders:     deps.Orders,
		sessions:   deps.Sessions,
		notifier:   deps.Notifier,
		shipping:   deps.Shipping,
		tax:        deps.Tax,
		sessionTTL: ttl,
		now:        clock,
		logger:     util.NamedLogger("checkout"),
	}
}

// QuoteRequest describes a cart and destination to price.
type QuoteRequest struct {
	Items      []models.CartLine
	Country    string
	State      string
	PostalCode string
	Method     string
}

// QuoteBreakdown is a full priced cart. Currency is always USD.
type QuoteBreakdown struct {
	Items    []models.PricedLine  `json:"items"`
	Subtotal float64              `json:"subtotal"`
	Shipping models.ShippingQuote `json:"shipping"`
	Tax      models.TaxResult     `json:"tax"`
	Total    float64              `json:"total"`
	Currency string               `json:"currency"`
}

// CreateSessionRequest carries everything needed to hold a priced cart.
type CreateSessionRequest struct {
	Items           []models.CartLine
	Email           string
	ShippingAddress models.Address
	BillingAddress  *models.Address
	Method          string
}

// CompleteRequest promotes a session into an order.
type CompleteRequest struct {
	SessionID       string
	PaymentIntentID string
	CustomerName    string
	Phone           string
}

// Quote resolves every cart line against the catalog and composes shipping
// and tax into a combined breakdown. No persisted state is touched; identical
// inputs against an unchanged catalog produce identical results.
func (s *CheckoutService) Quote(ctx context.Context, req QuoteRequest) (*QuoteBreakdown, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutService.Quote")
	defer span.End()

	resolved, err := s.resolveLines(ctx, req.Items)
	if err != nil {
		util.CheckoutFailedTotal.WithLabelValues("invalid_items").Inc()
		return nil, err
	}

	breakdown, err := s.price(resolved, req.Country, req.State, req.Method)
	if err != nil {
		return nil, err
	}

	util.QuotesComputedTotal.Inc()
	return breakdown, nil
}

// CreateSession prices the cart like Quote, additionally verifying stock for
// every non-digital line, and persists the session for the configured TTL.
func (s *CheckoutService) CreateSession(ctx context.Context, req CreateSessionRequest) (*models.CheckoutSession, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutService.CreateSession")
	defer span.End()

	resolved, err := s.resolveLines(ctx, req.Items)
	if err != nil {
		util.CheckoutFailedTotal.WithLabelValues("invalid_items").Inc()
		return nil, err
	}

	for _, line := range resolved.lines {
		product := resolved.products[line.ProductID]
		if !line.IsDigital && product.InventoryCount < line.Quantity {
			util.CheckoutFailedTotal.WithLabelValues("insufficient_stock").Inc()
			return nil, fmt.Errorf("%w: %s", models.ErrInsufficientStock, product.Title)
		}
	}

	breakdown, err := s.price(resolved, req.ShippingAddress.Country, req.ShippingAddress.State, req.Method)
	if err != nil {
		return nil, err
	}

	billing := req.ShippingAddress
	if req.BillingAddress != nil {
		billing = *req.BillingAddress
	}

	now := s.now()
	session := &models.CheckoutSession{
		SessionID:       newSessionID(),
		Email:           req.Email,
		Items:           breakdown.Items,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  billing,
		Subtotal:        breakdown.Subtotal,
		ShippingCost:    breakdown.Shipping.Total,
		ShippingMethod:  breakdown.Shipping.Method,
		TaxAmount:       breakdown.Tax.TaxAmount,
		Total:           breakdown.Total,
		CreatedAt:       now,
		ExpiresAt:       now.Add(s.sessionTTL),
	}

	if err := s.sessions.SaveSession(ctx, session, s.sessionTTL); err != nil {
		util.CheckoutFailedTotal.WithLabelValues("session_store").Inc()
		return nil, fmt.Errorf("failed to persist checkout session: %w", err)
	}

	util.SessionsCreatedTotal.Inc()
	s.logger.Info("Checkout session created",
		zap.String("session_id", session.SessionID),
		zap.Float64("total", session.Total))
	return session, nil
}

// Complete consumes a session exactly once: it creates the order, decrements
// stock for non-digital lines inside the order transaction, deletes the
// session, and fires the confirmation notification. A notification failure is
// logged but never rolls back the committed order.
func (s *CheckoutService) Complete(ctx context.Context, req CompleteRequest) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutService.Complete")
	defer span.End()

	start := time.Now()
	defer func() {
		util.OrderCompletionLatency.Observe(time.Since(start).Seconds())
	}()

	session, err := s.sessions.GetSession(ctx, req.SessionID)
	if err != nil {
		util.CheckoutFailedTotal.WithLabelValues("session_not_found").Inc()
		return nil, err
	}

	// Expiry is a timestamp comparison at read time; callers see expiry as
	// not-found, never as a distinct signal.
	if !s.now().Before(session.ExpiresAt) {
		if err := s.sessions.DeleteSession(ctx, session.SessionID); err != nil {
			s.logger.Warn("Failed to delete expired session",
				zap.String("session_id", session.SessionID), zap.Error(err))
		}
		util.CheckoutFailedTotal.WithLabelValues("session_expired").Inc()
		return nil, fmt.Errorf("%w: %s", models.ErrSessionNotFound, req.SessionID)
	}

	order := &models.Order{
		OrderNumber:     newOrderNumber(),
		CustomerEmail:   session.Email,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.Phone,
		ShippingAddress: session.ShippingAddress,
		BillingAddress:  session.BillingAddress,
		Subtotal:        session.Subtotal,
		ShippingCost:    session.ShippingCost,
		ShippingMethod:  session.ShippingMethod,
		TaxAmount:       session.TaxAmount,
		Total:           session.Total,
		Status:          models.OrderStatusPaid,
		PaymentIntentID: req.PaymentIntentID,
	}

	var decrements []models.StockDecrement
	for _, line := range session.Items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: line.ProductID,
			Title:     line.Title,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
		if !line.IsDigital {
			decrements = append(decrements, models.StockDecrement{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
			})
		}
	}

	if err := s.orders.CreateOrder(ctx, order, decrements); err != nil {
		util.CheckoutFailedTotal.WithLabelValues("order_create").Inc()
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err := s.sessions.DeleteSession(ctx, session.SessionID); err != nil {
		s.logger.Warn("Failed to delete consumed session",
			zap.String("session_id", session.SessionID), zap.Error(err))
	}

	if err := s.notifier.PublishOrderConfirmation(ctx, order); err != nil {
		util.NotificationPublishFailedTotal.Inc()
		s.logger.Error("Failed to publish order confirmation",
			zap.String("order_number", order.OrderNumber), zap.Error(err))
	}

	util.OrdersCompletedTotal.Inc()
	s.logger.Info("Order completed",
		zap.String("order_number", order.OrderNumber),
		zap.Float64("total", order.Total))
	return order, nil
}

// GetOrder retrieves a finalized order by order number.
func (s *CheckoutService) GetOrder(ctx context.Context, orderNumber string) (*models.Order, error) {
	return s.orders.GetOrderByNumber(ctx, orderNumber)
}

// UpdateStatus moves an order through its fulfillment lifecycle, optionally
// attaching a tracking number.
func (s *CheckoutService) UpdateStatus(ctx context.Context, orderNumber, status, trackingNumber string) error {
	if !models.IsValidOrderStatus(status) {
		return fmt.Errorf("%w: %s", models.ErrInvalidOrderStatus, status)
	}
	if err := s.orders.UpdateOrderStatus(ctx, orderNumber, status, trackingNumber); err != nil {
		return err
	}
	s.logger.Info("Order status updated",
		zap.String("order_number", orderNumber),
		zap.String("status", status))
	return nil
}

// resolvedCart pairs the priced lines with their catalog rows and carries the
// cart totals.
type resolvedCart struct {
	lines    []models.PricedLine
	products map[int64]models.Product
	subtotal float64
	weight   float64
}

func (s *CheckoutService) resolveLines(ctx context.Context, items []models.CartLine) (*resolvedCart, error) {
	ids := make([]int64, len(items))
	for i, item := range items {
		ids[i] = item.ProductID
	}

	products, err := s.catalog.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("catalog lookup failed: %w", err)
	}

	byID := make(map[int64]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	cart := &resolvedCart{products: byID}
	subtotals := make([]float64, 0, len(items))
	for _, item := range items {
		product, ok := byID[item.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: %d", models.ErrProductNotFound, item.ProductID)
		}
		if !product.Active {
			return nil, fmt.Errorf("%w: %s", models.ErrProductInactive, product.Title)
		}

		cart.lines = append(cart.lines, models.PricedLine{
			ProductID: product.ID,
			Title:     product.Title,
			UnitPrice: product.Price,
			Quantity:  item.Quantity,
			Category:  product.Category,
			IsDigital: product.IsDigital,
			Weight:    product.Weight,
		})
		subtotals = append(subtotals, money.MulQty(product.Price, item.Quantity))
		cart.weight += product.Weight * float64(item.Quantity)
	}

	cart.subtotal = money.Sum(subtotals...)
	return cart, nil
}

func (s *CheckoutService) price(cart *resolvedCart, country, state, method string) (*QuoteBreakdown, error) {
	shippingQuote, err := s.shipping.Quote(shipping.QuoteParams{
		Country:  country,
		State:    state,
		Weight:   cart.weight,
		Subtotal: cart.subtotal,
		Method:   method,
	})
	if err != nil {
		return nil, err
	}

	taxResult := s.tax.Calculate(tax.Params{
		Subtotal: cart.subtotal,
		Country:  country,
		State:    state,
		Shipping: shippingQuote.Total,
	})

	return &QuoteBreakdown{
		Items:    cart.lines,
		Subtotal: cart.subtotal,
		Shipping: shippingQuote,
		Tax:      taxResult,
		Total:    money.Sum(cart.subtotal, shippingQuote.Total, taxResult.TaxAmount),
		Currency: "USD",
	}, nil
}

func newSessionID() string {
	return "cs_" + strings.ReplaceAll(uuid.New().String(), "-", "")
}

func newOrderNumber() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return "WXC-" + raw[:8]
}
